package window

import (
	"testing"

	"cleavr/core/peptide"
	"cleavr/core/seqindex"
)

const prot = "MKVLAARGKPLVR"

func mustIndex(t *testing.T, k int) *seqindex.Index {
	t.Helper()
	ix, err := seqindex.Build([]seqindex.Protein{{ID: "P1", Sequence: prot}}, k)
	if err != nil {
		t.Fatal(err)
	}
	return ix
}

func TestExtractInterior(t *testing.T) {
	ix := mustIndex(t, 4)
	r := Extract(peptide.Record{Sequence: "VLAARGK"}, ix, 2)
	if !r.Matched || r.Peptide.ProteinID != "P1" {
		t.Fatalf("expected match, got %+v", r)
	}
	if r.NTerm.Position != 2 || r.CTerm.Position != 9 {
		t.Fatalf("positions: N=%d C=%d", r.NTerm.Position, r.CTerm.Position)
	}
	if r.NTerm.Window != "MKVL" {
		t.Fatalf("N window %q want MKVL", r.NTerm.Window)
	}
	if r.CTerm.Window != "GKPL" {
		t.Fatalf("C window %q want GKPL", r.CTerm.Window)
	}
}

func TestExtractWindowsMatchProteinSlices(t *testing.T) {
	ix := mustIndex(t, 3)
	const s = 2
	for start := s; start < len(prot); start++ {
		for end := start + 3; end <= len(prot)-s; end++ {
			r := Extract(peptide.Record{Sequence: prot[start:end]}, ix, s)
			if !r.Matched || r.NTerm.Position != start {
				t.Fatalf("%s: expected placement at %d, got %+v", prot[start:end], start, r.NTerm)
			}
			if len(r.NTerm.Window) != 2*s || len(r.CTerm.Window) != 2*s {
				t.Fatalf("window lengths %d/%d", len(r.NTerm.Window), len(r.CTerm.Window))
			}
			st := r.NTerm.Position
			if r.NTerm.Window != prot[st-s:st+s] {
				t.Fatalf("N window %q != protein[%d:%d]", r.NTerm.Window, st-s, st+s)
			}
		}
	}
}

func TestExtractEdgesBecomeWildcards(t *testing.T) {
	ix := mustIndex(t, 4)
	// starts at 1 (< S) and ends at 13 (> len-S)
	r := Extract(peptide.Record{Sequence: "KVLAARGKPLVR"}, ix, 2)
	if !r.Matched {
		t.Fatal("expected match")
	}
	if !r.NTerm.Excluded() || !r.CTerm.Excluded() {
		t.Fatalf("edge windows must be wildcards: %q %q", r.NTerm.Window, r.CTerm.Window)
	}
	if r.NTerm.Position != 1 || r.CTerm.Position != 13 {
		t.Fatalf("positions still recorded: %d %d", r.NTerm.Position, r.CTerm.Position)
	}
}

func TestExtractBoundaryInclusive(t *testing.T) {
	ix := mustIndex(t, 4)
	// end == len-S is allowed
	r := Extract(peptide.Record{Sequence: "AARGKPL"}, ix, 2)
	if r.CTerm.Position != 11 || r.CTerm.Window != "PLVR" {
		t.Fatalf("C window at end==len-S: %+v", r.CTerm)
	}
}

func TestExtractUnmatched(t *testing.T) {
	ix := mustIndex(t, 4)
	r := Extract(peptide.Record{Sequence: "WWWWWW", ProteinID: "P1"}, ix, 4)
	if r.Matched || r.Peptide.ProteinID != "" {
		t.Fatalf("expected unmatched, got %+v", r)
	}
	if r.NTerm.Window != "XXXXXXXX" || r.NTerm.Position != Unmatched || r.CTerm.Position != Unmatched {
		t.Fatalf("unmatched windows: %+v %+v", r.NTerm, r.CTerm)
	}
}

func TestExtractShortPeptideUsesHint(t *testing.T) {
	ix := mustIndex(t, 6)
	r := Extract(peptide.Record{Sequence: "ARGK", ProteinID: "P1"}, ix, 2)
	if !r.Matched || r.NTerm.Position != 5 || r.NTerm.Window != "LAAR" {
		t.Fatalf("short peptide with hint: %+v", r)
	}
}

func TestExtractShortPeptideNearEnds(t *testing.T) {
	ix := mustIndex(t, 1)
	// "M" sits at [0,1): end 1 < S, so the C window cannot be cut
	r := Extract(peptide.Record{Sequence: "M"}, ix, 2)
	if !r.Matched || !r.CTerm.Excluded() || !r.NTerm.Excluded() {
		t.Fatalf("%+v", r)
	}
	// "R" first occurs at 6: both windows fit
	r = Extract(peptide.Record{Sequence: "R"}, ix, 2)
	if r.NTerm.Window != "AARG" || r.CTerm.Window != "ARGK" {
		t.Fatalf("%+v", r)
	}
}
