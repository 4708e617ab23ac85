package enzyme

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"cleavr/core/errs"
	"cleavr/core/fasta"
	"cleavr/core/motif"
	"cleavr/core/residue"
)

// siteColumns are the per-site headers, P4..P4'.
var siteColumns = [motif.Sites]string{
	"Site_P4", "Site_P3", "Site_P2", "Site_P1",
	"Site_P1prime", "Site_P2prime", "Site_P3prime", "Site_P4prime",
}

// LoadFile reads an enzyme site table (tab-separated, optionally gzip).
func LoadFile(ctx context.Context, path string) ([]*Enzyme, error) {
	rc, err := fasta.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	out, err := Read(ctx, rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

// Read parses an enzyme table. Required columns are code and enzyme_name;
// species is optional. Sites come either as one residue per Site_P4..
// Site_P4prime column (one row per observed cleavage, one- or three-letter
// codes) or as count columns Site_P1_K and so on. Rows sharing a code are
// merged; output keeps first-seen code order.
func Read(ctx context.Context, r io.Reader) ([]*Enzyme, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	head, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &errs.DataIntegrityError{ID: "enzyme table", Reason: "empty input"}
		}
		return nil, err
	}
	cols := map[string]int{}
	for i, h := range head {
		cols[strings.TrimSpace(h)] = i
	}
	codeCol, ok := cols["code"]
	if !ok {
		return nil, &errs.DataIntegrityError{ID: "enzyme table", Reason: "no code column"}
	}
	nameCol, hasName := cols["enzyme_name"]
	speciesCol, hasSpecies := cols["species"]

	var siteCol [motif.Sites]int
	var countCol [motif.Sites][residue.Size]int
	perSite, perCount := false, false
	for i, sc := range siteColumns {
		siteCol[i] = -1
		if c, ok := cols[sc]; ok {
			siteCol[i] = c
			perSite = true
		}
		for r := 0; r < residue.Size; r++ {
			countCol[i][r] = -1
			if c, ok := cols[sc+"_"+string(residue.Alphabet[r])]; ok {
				countCol[i][r] = c
				perCount = true
			}
		}
	}
	if !perSite && !perCount {
		return nil, &errs.DataIntegrityError{ID: "enzyme table", Reason: "no Site_P* columns"}
	}

	var (
		out    []*Enzyme
		byCode = map[string]*Enzyme{}
	)
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
		code := strings.TrimSpace(cell(row, codeCol))
		if code == "" {
			continue
		}
		e, ok := byCode[code]
		if !ok {
			e = &Enzyme{Code: code, Counts: motif.NewCounts(motif.Sites)}
			byCode[code] = e
			out = append(out, e)
		}
		if hasName && e.Name == "" {
			e.Name = strings.TrimSpace(cell(row, nameCol))
		}
		if hasSpecies && e.Species == "" {
			e.Species = strings.TrimSpace(cell(row, speciesCol))
		}
		for i := 0; i < motif.Sites; i++ {
			if perSite && siteCol[i] >= 0 {
				if b, ok := residue.Parse(strings.TrimSpace(cell(row, siteCol[i]))); ok {
					e.Counts[i][residue.Index(b)]++
				}
			}
			if !perCount {
				continue
			}
			for r := 0; r < residue.Size; r++ {
				if countCol[i][r] < 0 {
					continue
				}
				s := strings.TrimSpace(cell(row, countCol[i][r]))
				if s == "" || strings.EqualFold(s, "nan") {
					continue
				}
				v, err := strconv.ParseFloat(s, 64)
				if err != nil || v < 0 {
					return nil, &errs.DataIntegrityError{
						ID:     fmt.Sprintf("line %d", line),
						Reason: fmt.Sprintf("bad count %q in %s_%c", s, siteColumns[i], residue.Alphabet[r]),
					}
				}
				e.Counts[i][r] += v
			}
		}
	}
	return out, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
