package peptide

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"cleavr/core/errs"
	"cleavr/core/fasta"
)

// GroupColumn is the metadata column that --group values are matched against.
const GroupColumn = "Group"

// Metadata is a per-sample annotation table: a Sample column plus any number
// of free-form columns (condition, replicate, Group, ...).
type Metadata struct {
	Columns []string // in file order, Sample excluded
	samples []string
	values  map[string]map[string]string // sample -> column -> value
}

// LoadMetadata reads a metadata table from path (gzip and "-" allowed).
func LoadMetadata(ctx context.Context, path string) (*Metadata, error) {
	rc, err := fasta.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	md, err := ReadMetadata(ctx, rc, Delimiter(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return md, nil
}

// ReadMetadata parses a delimited metadata table. The Sample column is
// required; a sample listed twice is a DataIntegrityError.
func ReadMetadata(ctx context.Context, r io.Reader, delim rune) (*Metadata, error) {
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	head, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &errs.DataIntegrityError{ID: "metadata table", Reason: "empty input"}
		}
		return nil, err
	}
	sampleCol := -1
	md := &Metadata{values: map[string]map[string]string{}}
	names := make([]string, len(head))
	for i, h := range head {
		names[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if sampleCol < 0 && findCol(map[string]int{normHeader(h): i}, sampleHeaders) == i {
			sampleCol = i
			continue
		}
		md.Columns = append(md.Columns, names[i])
	}
	if sampleCol < 0 {
		return nil, &errs.DataIntegrityError{ID: "metadata table", Reason: "no Sample column"}
	}

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
		s := strings.TrimSpace(field(row, sampleCol))
		if s == "" {
			continue
		}
		if _, dup := md.values[s]; dup {
			return nil, &errs.DataIntegrityError{ID: s, Reason: fmt.Sprintf("sample listed twice (line %d)", line)}
		}
		vals := make(map[string]string, len(names)-1)
		for i, n := range names {
			if i != sampleCol {
				vals[n] = strings.TrimSpace(field(row, i))
			}
		}
		md.values[s] = vals
		md.samples = append(md.samples, s)
	}
	return md, nil
}

// HasColumn reports whether name is one of the annotation columns.
func (m *Metadata) HasColumn(name string) bool {
	if m == nil {
		return false
	}
	for _, c := range m.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Samples returns the annotated samples in file order.
func (m *Metadata) Samples() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.samples...)
}

// Value returns sample's entry in column. ok is false for an unknown sample
// or column and for an empty cell.
func (m *Metadata) Value(sample, column string) (string, bool) {
	if m == nil {
		return "", false
	}
	v, ok := m.values[sample][column]
	return v, ok && v != ""
}

// SamplesIn returns the samples whose column value is one of values, in
// file order.
func (m *Metadata) SamplesIn(column string, values []string) []string {
	want := make(map[string]bool, len(values))
	for _, v := range values {
		want[v] = true
	}
	var out []string
	for _, s := range m.Samples() {
		if v, ok := m.Value(s, column); ok && want[v] {
			out = append(out, s)
		}
	}
	return out
}

// Levels lists the distinct non-empty values of every column, first-seen order.
func (m *Metadata) Levels() map[string][]string {
	out := map[string][]string{}
	if m == nil {
		return out
	}
	for _, c := range m.Columns {
		seen := map[string]bool{}
		for _, s := range m.samples {
			if v, ok := m.Value(s, c); ok && !seen[v] {
				seen[v] = true
				out[c] = append(out[c], v)
			}
		}
	}
	return out
}
