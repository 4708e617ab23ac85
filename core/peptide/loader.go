package peptide

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"cleavr/core/errs"
	"cleavr/core/fasta"
)

// Column headers accepted for each field, compared case-insensitively with
// spaces and underscores removed.
var (
	seqHeaders       = []string{"sequence", "peptide", "peptidesequence"}
	proteinHeaders   = []string{"proteinid", "protein", "proteins", "leadingrazorprotein"}
	sampleHeaders    = []string{"sample", "samplename", "experiment"}
	intensityHeaders = []string{"intensity"}
)

// Delimiter picks ',' for .csv (optionally .gz) and tab for everything else.
func Delimiter(path string) rune {
	p := strings.ToLower(strings.TrimSuffix(path, ".gz"))
	if filepath.Ext(p) == ".csv" {
		return ','
	}
	return '\t'
}

// Load reads a peptide table from path. Sequence is required; Protein ID,
// Sample and Intensity are optional columns. Sequences are upper-cased.
func Load(ctx context.Context, path string) ([]Record, error) {
	rc, err := fasta.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	recs, err := Read(ctx, rc, Delimiter(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return recs, nil
}

// Read parses a delimited peptide table from r.
func Read(ctx context.Context, r io.Reader, delim rune) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	head, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &errs.DataIntegrityError{ID: "peptide table", Reason: "empty input"}
		}
		return nil, err
	}
	cols := map[string]int{}
	for i, h := range head {
		cols[normHeader(h)] = i
	}
	seqCol := findCol(cols, seqHeaders)
	if seqCol < 0 {
		return nil, &errs.DataIntegrityError{ID: "peptide table", Reason: "no Sequence column"}
	}
	protCol := findCol(cols, proteinHeaders)
	sampleCol := findCol(cols, sampleHeaders)
	intCol := findCol(cols, intensityHeaders)

	var out []Record
	for line := 2; ; line++ {
		if line%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		seq := strings.ToUpper(strings.TrimSpace(field(row, seqCol)))
		if seq == "" {
			continue
		}
		rec := Record{
			Sequence:  seq,
			ProteinID: firstProtein(field(row, protCol)),
			Sample:    strings.TrimSpace(field(row, sampleCol)),
		}
		if intCol >= 0 {
			v, ok, err := parseIntensity(field(row, intCol))
			if err != nil {
				return nil, &errs.DataIntegrityError{ID: fmt.Sprintf("line %d", line), Reason: err.Error()}
			}
			rec.Intensity, rec.HasIntensity = v, ok
		}
		out = append(out, rec)
	}
	return out, nil
}

func normHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(h)
}

func findCol(cols map[string]int, names []string) int {
	for _, n := range names {
		if i, ok := cols[n]; ok {
			return i
		}
	}
	return -1
}

func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// firstProtein keeps the leading accession of a ';'-separated group.
func firstProtein(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, ';'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	return s
}

func parseIntensity(s string) (float64, bool, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "na", "nan", "null", "none":
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, fmt.Errorf("bad intensity %q", s)
	}
	if math.IsNaN(v) {
		return 0, false, nil
	}
	return v, true, nil
}
