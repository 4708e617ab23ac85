package engine

import (
	"reflect"
	"testing"

	"cleavr/core/enzyme"
	"cleavr/core/motif"
	"cleavr/core/peptide"
	"cleavr/core/seqindex"
	"cleavr/core/window"
)

const prot = "MKVLAARGKPLVR"

func newEngine(t *testing.T, half int, f enzyme.Filter) *Engine {
	t.Helper()
	bg := seqindex.Uniform()
	m, err := enzyme.NewLibrary().Filter(f).Compile(bg, enzyme.Params{
		HalfWidth:   half,
		Threshold:   motif.DefaultThreshold,
		Pseudocount: motif.DefaultPseudocount,
	})
	if err != nil {
		t.Fatal(err)
	}
	return New(m, bg)
}

func extract(t *testing.T, seq string, half int) window.Record {
	t.Helper()
	ix, err := seqindex.Build([]seqindex.Protein{{ID: "P1", Sequence: prot}}, 4)
	if err != nil {
		t.Fatal(err)
	}
	return window.Extract(peptide.Record{Sequence: seq, Sample: "S1"}, ix, half)
}

func TestProcessScenario(t *testing.T) {
	e := newEngine(t, 2, enzyme.Filter{Names: []string{"Trypsin", "Trypsin/P"}})
	r := extract(t, "VLAARGK", 2)
	got := e.Process(r)
	if len(got) != 2 {
		t.Fatalf("got %d results: %+v", len(got), got)
	}
	n, c := got[0], got[1]
	if n.Window != "MKVL" || n.Position != 2 || n.EnzymeCode != "S01.151" || n.Side != window.NTerm {
		t.Fatalf("N result %+v", n)
	}
	// K at P1 followed by P: only the /P variant admits it
	if c.Window != "GKPL" || c.Position != 9 || c.EnzymeCode != "S01.151/P" {
		t.Fatalf("C result %+v", c)
	}
	for _, m := range got {
		if m.ProteinID != "P1" || m.Sample != "S1" || m.PValue < 0 || m.PValue > 1 {
			t.Fatalf("result %+v", m)
		}
	}
}

func TestBestPrefersHigherScore(t *testing.T) {
	e := newEngine(t, 2, enzyme.Filter{})
	// Trypsin and Lys-C both admit MKVL; Lys-C's single-residue P1 scores higher
	code, pv, ok := e.Best("MKVL")
	if !ok || code != "S01.280" {
		t.Fatalf("best=%q ok=%v", code, ok)
	}
	if pv <= 0 || pv >= 1 {
		t.Fatalf("p=%v", pv)
	}
	if _, _, ok := e.Best("XXXX"); ok {
		t.Fatal("excluded window attributed")
	}
	if _, _, ok := e.Best("GGGG"); ok {
		t.Fatal("window without a compatible enzyme attributed")
	}
}

func TestProcessUnmatchedAndEdges(t *testing.T) {
	e := newEngine(t, 2, enzyme.Filter{})
	if got := e.Process(extract(t, "WWWWW", 2)); got != nil {
		t.Fatalf("unmatched peptide attributed: %+v", got)
	}
	// starts at 0, so only the C window can be attributed
	r := extract(t, "MKVLAARGK", 2)
	if !r.Matched || !r.NTerm.Excluded() {
		t.Fatalf("placement %+v", r)
	}
	got := e.Process(r)
	if len(got) != 1 {
		t.Fatalf("got %d results: %+v", len(got), got)
	}
	if c := got[0]; c.Side != window.CTerm || c.Position != 9 || c.Window != "GKPL" {
		t.Fatalf("C result %+v", c)
	}
}

func TestProcessIdempotent(t *testing.T) {
	e := newEngine(t, 2, enzyme.Filter{})
	var recs []window.Record
	for _, s := range []string{"VLAARGK", "AARGKPL", "LAAR", "KPLV", "GKPL"} {
		recs = append(recs, extract(t, s, 2))
	}
	p1, m1 := e.ProcessAll(recs)
	p2, m2 := e.ProcessAll(recs)
	if !reflect.DeepEqual(m1, m2) {
		t.Fatal("match rows differ between runs")
	}
	if !reflect.DeepEqual(p1.Summaries(0, nil), p2.Summaries(0, nil)) {
		t.Fatal("summaries differ between runs")
	}
}
