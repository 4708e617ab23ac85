package peptide

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"cleavr/core/errs"
)

const table = "Sequence\tProtein ID\tSample\tIntensity\n" +
	"vlaargk\tP1;P9\tS1\t100\n" +
	"AARGKPL\t\tS1\t0\n" +
	"KPLVR\tP1\tS2\tNaN\n" +
	"\tP1\tS2\t5\n" +
	"LAAR\tQ7\tS2\t2.5e3\n"

func TestReadTable(t *testing.T) {
	recs, err := Read(context.Background(), strings.NewReader(table), '\t')
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 4 {
		t.Fatalf("got %d records, blank sequence rows must be skipped", len(recs))
	}
	if recs[0].Sequence != "VLAARGK" || recs[0].ProteinID != "P1" || recs[0].Sample != "S1" {
		t.Fatalf("row 1: %+v", recs[0])
	}
	if !recs[0].HasIntensity || recs[0].Intensity != 100 {
		t.Fatalf("row 1 intensity: %+v", recs[0])
	}
	if recs[2].HasIntensity {
		t.Fatalf("NaN must read as missing: %+v", recs[2])
	}
	if recs[3].Intensity != 2500 {
		t.Fatalf("row 4 intensity %v", recs[3].Intensity)
	}
}

func TestFilterIntensity(t *testing.T) {
	recs, _ := Read(context.Background(), strings.NewReader(table), '\t')
	kept := FilterIntensity(recs)
	var seqs []string
	for _, r := range kept {
		seqs = append(seqs, r.Sequence)
	}
	if !reflect.DeepEqual(seqs, []string{"VLAARGK", "LAAR"}) {
		t.Fatalf("kept %v", seqs)
	}
}

func TestReadRequiresSequenceColumn(t *testing.T) {
	_, err := Read(context.Background(), strings.NewReader("Peptide ID,Intensity\nx,1\n"), ',')
	if !errors.Is(err, errs.ErrDataIntegrity) {
		t.Fatalf("err=%v", err)
	}
	_, err = Read(context.Background(), strings.NewReader("Sequence,Intensity\nAK,abc\n"), ',')
	if !errors.Is(err, errs.ErrDataIntegrity) {
		t.Fatalf("bad intensity err=%v", err)
	}
}

func TestLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "peptides.csv")
	if err := os.WriteFile(path, []byte("sequence,intensity\nAKR,3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	recs, err := Load(context.Background(), path)
	if err != nil || len(recs) != 1 || recs[0].Sequence != "AKR" {
		t.Fatalf("load: %v %v", recs, err)
	}
	if Delimiter("x.tsv.gz") != '\t' || Delimiter("x.CSV") != ',' {
		t.Fatal("delimiter by extension")
	}
}

func TestProteinIDs(t *testing.T) {
	recs := []Record{{ProteinID: "P1"}, {ProteinID: ""}, {ProteinID: "q7"}, {ProteinID: "P1"}, {ProteinID: "P10"}}
	if got := ProteinIDs(recs, "", 0); !reflect.DeepEqual(got, []string{"P1", "q7", "P10"}) {
		t.Fatalf("all: %v", got)
	}
	if got := ProteinIDs(recs, "p1", 5); !reflect.DeepEqual(got, []string{"P1", "P10"}) {
		t.Fatalf("filtered: %v", got)
	}
	if got := ProteinIDs(recs, "", 2); len(got) != 2 {
		t.Fatalf("limit: %v", got)
	}
}

func TestReadMetadata(t *testing.T) {
	in := "\ufeffsample_name\tGroup\tReplicate\n" +
		"S1\tctrl\t1\n" +
		"S2\ttreated\t\n" +
		"\tctrl\t3\n" +
		"S3\ttreated\t2\n"
	md, err := ReadMetadata(context.Background(), strings.NewReader(in), '\t')
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(md.Columns, []string{"Group", "Replicate"}) {
		t.Fatalf("columns %v", md.Columns)
	}
	if !reflect.DeepEqual(md.Samples(), []string{"S1", "S2", "S3"}) {
		t.Fatalf("samples %v", md.Samples())
	}
	if v, ok := md.Value("S2", "Replicate"); ok || v != "" {
		t.Fatalf("empty cell must read as missing, got %q", v)
	}
	if got := md.SamplesIn(GroupColumn, []string{"treated"}); !reflect.DeepEqual(got, []string{"S2", "S3"}) {
		t.Fatalf("treated %v", got)
	}
	if got := md.Levels(); !reflect.DeepEqual(got["Group"], []string{"ctrl", "treated"}) || !reflect.DeepEqual(got["Replicate"], []string{"1", "2"}) {
		t.Fatalf("levels %v", got)
	}
}

func TestReadMetadataRejectsBadTables(t *testing.T) {
	ctx := context.Background()
	if _, err := ReadMetadata(ctx, strings.NewReader("Group\nctrl\n"), '\t'); !errors.Is(err, errs.ErrDataIntegrity) {
		t.Fatalf("missing Sample column: err=%v", err)
	}
	if _, err := ReadMetadata(ctx, strings.NewReader("Sample,Group\nS1,a\nS1,b\n"), ','); !errors.Is(err, errs.ErrDataIntegrity) {
		t.Fatalf("duplicate sample: err=%v", err)
	}
}

func TestLoadMetadataCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meta.csv")
	if err := os.WriteFile(path, []byte("Sample,Group\nS1,ctrl\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	md, err := LoadMetadata(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if !md.HasColumn("Group") || md.HasColumn("Sample") {
		t.Fatalf("columns %v", md.Columns)
	}
}
