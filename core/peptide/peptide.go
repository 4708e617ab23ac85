// Package peptide holds the observed peptide rows and the table reader
// that feeds them to the core.
package peptide

import (
	"strings"

	"golang.org/x/text/cases"
)

// Record is one observed peptide row. ProteinID is an optional hint on
// input and is overwritten with the derived protein once located.
type Record struct {
	Sequence     string
	ProteinID    string
	Sample       string
	Intensity    float64
	HasIntensity bool
}

// KeepIntensity reports whether r has a present, non-zero intensity.
func KeepIntensity(r Record) bool { return r.HasIntensity && r.Intensity != 0 }

// FilterIntensity drops rows whose intensity is missing or exactly zero.
func FilterIntensity(recs []Record) []Record {
	out := recs[:0:0]
	for _, r := range recs {
		if KeepIntensity(r) {
			out = append(out, r)
		}
	}
	return out
}

// ProteinIDs returns unique non-empty protein IDs in first-seen order whose
// ID contains filter (case-insensitive), capped at limit (<=0 = all).
func ProteinIDs(recs []Record, filter string, limit int) []string {
	fold := cases.Fold()
	f := fold.String(filter)
	seen := make(map[string]struct{})
	var out []string
	for _, r := range recs {
		if r.ProteinID == "" {
			continue
		}
		if _, ok := seen[r.ProteinID]; ok {
			continue
		}
		seen[r.ProteinID] = struct{}{}
		if f != "" && !strings.Contains(fold.String(r.ProteinID), f) {
			continue
		}
		out = append(out, r.ProteinID)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
