package appcore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cleavr/core/enzyme"
	"cleavr/core/errs"
	"cleavr/core/motif"
	"cleavr/core/profile"
	"cleavr/pkg/api"
)

func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func baseOptions(t *testing.T, peptides string) Options {
	t.Helper()
	dir := t.TempDir()
	return Options{
		Proteins:        writeFile(t, dir, "db.fa", ">P1 test protein\nMKVLAARGKPLVR\n>P2\nWQYDMSTEEF\n"),
		Peptides:        writeFile(t, dir, "peps.tsv", peptides),
		K:               4,
		HalfWidth:       2,
		Threshold:       motif.DefaultThreshold,
		Pseudocount:     motif.DefaultPseudocount,
		TopK:            3,
		Filter:          enzyme.Filter{Names: []string{"Trypsin", "Trypsin/P"}},
		Threads:         2,
		BatchSize:       1,
		NoMatchExitCode: 1,
	}
}

const peptideTable = "Sequence\tProtein ID\tSample\tIntensity\n" +
	"VLAARGK\tP1\tS1\t10\n" +
	"WWWWWW\tP9\tS1\t5\n" +
	"AARGK\tP1\tS1\t0\n"

func TestExitCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, ExitOK},
		{context.Canceled, ExitCancelled},
		{fmt.Errorf("wrapped: %w", context.Canceled), ExitCancelled},
		{&errs.ConfigurationError{Key: "method", Value: "max"}, ExitUsage},
		{&errs.DataIntegrityError{ID: "P1", Reason: "duplicate"}, ExitData},
		{&errs.InsufficientDataError{What: "background"}, ExitData},
		{errors.New("open: no such file"), ExitData},
	}
	for _, c := range cases {
		if got := ExitCode(c.err); got != c.want {
			t.Errorf("ExitCode(%v)=%d want %d", c.err, got, c.want)
		}
	}
}

func TestAnalyzeEndToEnd(t *testing.T) {
	o := baseOptions(t, peptideTable)
	matches := filepath.Join(t.TempDir(), "matches.tsv")
	var out, errb bytes.Buffer
	code := Analyze(context.Background(), &out, &errb, o,
		NewSummaryWriterFactory("json", false, true, false),
		NewMatchWriterFactory(matches, "text", true))
	if code != ExitOK {
		t.Fatalf("exit %d, stderr:\n%s", code, errb.String())
	}

	var rep api.ReportV1
	if err := json.Unmarshal(out.Bytes(), &rep); err != nil {
		t.Fatalf("decode: %v\n%s", err, out.String())
	}
	if len(rep.Proteins) != 1 || rep.Proteins[0].ProteinID != "P1" {
		t.Fatalf("proteins %+v", rep.Proteins)
	}
	total := 0
	for _, tc := range rep.TotalCounts {
		total += tc.Count
	}
	if total != 2 {
		t.Fatalf("want 2 attributed windows, got %+v", rep.TotalCounts)
	}

	b, err := os.ReadFile(matches)
	if err != nil {
		t.Fatal(err)
	}
	rows := strings.Split(strings.TrimSpace(string(b)), "\n")
	if len(rows) != 3 || !strings.Contains(rows[2], "\tS01.151/P\tC\t9\tGKPL\t") {
		t.Fatalf("match rows:\n%s", b)
	}

	if !strings.Contains(errb.String(), "WARN: ") || !strings.Contains(errb.String(), "WWWWWW") {
		t.Fatalf("missing unmatched warning:\n%s", errb.String())
	}
	if !strings.Contains(errb.String(), "1 unmatched peptide,") || !strings.Contains(errb.String(), "1 zero-intensity row dropped") {
		t.Fatalf("summary line:\n%s", errb.String())
	}
}

func TestAnalyzeNoMatchExitCode(t *testing.T) {
	o := baseOptions(t, "Sequence\tIntensity\nWWWWWW\t1\n")
	o.Quiet = true
	o.NoMatchExitCode = 7
	var out, errb bytes.Buffer
	code := Analyze(context.Background(), &out, &errb, o,
		NewSummaryWriterFactory("text", false, true, false), MatchWriterFactory{})
	if code != 7 {
		t.Fatalf("exit %d want 7 (stderr %q)", code, errb.String())
	}
	if errb.Len() != 0 {
		t.Fatalf("quiet run wrote to stderr: %q", errb.String())
	}
}

func TestAnalyzeDuplicateProteinIsDataError(t *testing.T) {
	o := baseOptions(t, peptideTable)
	o.Proteins = writeFile(t, t.TempDir(), "dup.fa", ">P1\nMKVL\n>P1\nMKVL\n")
	var out, errb bytes.Buffer
	code := Analyze(context.Background(), &out, &errb, o, NewSummaryWriterFactory("text", false, true, false), MatchWriterFactory{})
	if code != ExitData || !strings.Contains(errb.String(), "data integrity") {
		t.Fatalf("exit %d stderr %q", code, errb.String())
	}
}

func TestAnalyzeCancelled(t *testing.T) {
	o := baseOptions(t, peptideTable)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out, errb bytes.Buffer
	code := Analyze(ctx, &out, &errb, o, NewSummaryWriterFactory("text", false, true, false), MatchWriterFactory{})
	if code != ExitCancelled {
		t.Fatalf("exit %d want 130 (stderr %q)", code, errb.String())
	}
}

func TestProfileWritesSeries(t *testing.T) {
	o := baseOptions(t, peptideTable)
	o.KeepZeroIntensity = true
	var out, errb bytes.Buffer
	code := Profile(context.Background(), &out, &errb, o,
		profile.Options{GroupBy: profile.ByProtein, Method: profile.Sum}, "jsonl", false)
	if code != ExitOK {
		t.Fatalf("exit %d: %s", code, errb.String())
	}
	var s api.ProfileV1
	if err := json.Unmarshal(bytes.TrimSpace(out.Bytes()), &s); err != nil {
		t.Fatalf("decode %v: %q", err, out.String())
	}
	if s.ProteinID != "P1" || len(s.Count) != 13 || len(s.Cleavages) != 14 {
		t.Fatalf("series %+v", s)
	}
	// VLAARGK [2,9) and AARGK [4,9) both end at 9
	if s.Cleavages[9] != 2 || s.Count[5] != 2 || s.Count[2] != 1 {
		t.Fatalf("series %+v", s)
	}
}

func TestProfileGroupsByMetadata(t *testing.T) {
	o := baseOptions(t, "Sequence\tProtein ID\tSample\tIntensity\n"+
		"VLAARGK\tP1\tS1\t10\n"+
		"VLAARGK\tP1\tS2\t4\n"+
		"AARGK\tP1\tS3\t7\n")
	o.Metadata = writeFile(t, t.TempDir(), "meta.csv", "Sample,Group,Condition\nS1,ctrl,heat\nS2,treated,heat\nS3,treated,cold\n")
	var out, errb bytes.Buffer
	code := Profile(context.Background(), &out, &errb, o,
		profile.Options{GroupBy: "Condition", Method: profile.Sum, Groups: []string{"treated"}}, "jsonl", false)
	if code != ExitOK {
		t.Fatalf("exit %d: %s", code, errb.String())
	}
	var got []api.ProfileV1
	for _, ln := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		var s api.ProfileV1
		if err := json.Unmarshal([]byte(ln), &s); err != nil {
			t.Fatalf("decode %v: %q", err, ln)
		}
		got = append(got, s)
	}
	// S1 is ctrl, so heat holds S2 alone
	if len(got) != 2 || got[0].Group != "heat" || got[1].Group != "cold" {
		t.Fatalf("series %+v", got)
	}
	if got[0].Intensity[2] != 4 || got[1].Intensity[4] != 7 || got[1].Count[2] != 0 {
		t.Fatalf("series %+v", got)
	}

	errb.Reset()
	code = Profile(context.Background(), &out, &errb, o,
		profile.Options{GroupBy: "Batch", Method: profile.Sum}, "jsonl", false)
	if code != ExitUsage || !strings.Contains(errb.String(), "Condition") {
		t.Fatalf("unknown column: exit %d stderr %q", code, errb.String())
	}
}

func TestEnzymesFind(t *testing.T) {
	var out, errb bytes.Buffer
	code := Enzymes(context.Background(), &out, &errb, Options{NoMatchExitCode: 1}, "lys-c", "text", false)
	if code != ExitOK || !strings.HasPrefix(out.String(), "S01.280\tLys-C\t") {
		t.Fatalf("exit %d out %q err %q", code, out.String(), errb.String())
	}
}

func TestEnzymesListsDerivedPatterns(t *testing.T) {
	lib := writeFile(t, t.TempDir(), "lib.tsv", "code\tenzyme_name\tspecies\tSite_P4\tSite_P3\tSite_P2\tSite_P1\tSite_P1prime\tSite_P2prime\tSite_P3prime\tSite_P4prime\n"+
		"C01.001\tcathepsin X\tHomo sapiens\tAla\tGly\tLeu\tPhe\tAla\tSer\tAla\tGly\n")
	o := Options{
		Enzymes:         lib,
		HalfWidth:       4,
		Threshold:       motif.DefaultThreshold,
		Pseudocount:     motif.DefaultPseudocount,
		Filter:          enzyme.Filter{Species: []string{"homo sapiens"}},
		NoMatchExitCode: 1,
	}
	var out, errb bytes.Buffer
	if code := Enzymes(context.Background(), &out, &errb, o, "", "text", false); code != ExitOK {
		t.Fatalf("exit %d: %s", code, errb.String())
	}
	cols := strings.Split(strings.TrimSpace(out.String()), "\t")
	if len(cols) != 5 || cols[0] != "C01.001" || !strings.Contains(cols[4], "L F") {
		t.Fatalf("row %q", out.String())
	}
}

func TestProteinsLookup(t *testing.T) {
	p := writeFile(t, t.TempDir(), "peps.csv", "Sequence,Protein ID\nAAK,sp|Q1\nCCK,sp|Q2;sp|Q3\nDDK,sp|Q1\nEEK,tr|X\n")
	var out, errb bytes.Buffer
	if code := Proteins(context.Background(), &out, &errb, p, "SP|", 5, 1); code != ExitOK {
		t.Fatalf("exit %d: %s", code, errb.String())
	}
	if out.String() != "sp|Q1\nsp|Q2\n" {
		t.Fatalf("got %q", out.String())
	}
}

func TestMatchWriterFactoryFormat(t *testing.T) {
	if f := NewMatchWriterFactory("x", "json", false).Format; f != "jsonl" {
		t.Fatalf("json summary → %q matches, want jsonl", f)
	}
	if f := NewMatchWriterFactory("x", "text", false).Format; f != "text" {
		t.Fatalf("text summary → %q matches, want text", f)
	}
	if (MatchWriterFactory{}).Enabled() {
		t.Fatal("empty path must disable match output")
	}
	if !NewSummaryWriterFactory("text", false, false, true).NeedMotif() || NewSummaryWriterFactory("json", false, false, true).NeedMotif() {
		t.Fatal("motif blocks are text-only")
	}
}
