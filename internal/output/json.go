// internal/output/json.go
package output

import (
	"io"
	"sort"

	"cleavr/core/aggregate"
	"cleavr/core/enzyme"
	"cleavr/core/motif"
	"cleavr/core/profile"
	"cleavr/core/residue"
	"cleavr/internal/jsonutil"
	"cleavr/pkg/api"
)

// SiteNames returns the site labels for a window of 2*half residues,
// centred on the scissile bond.
func SiteNames(half int) []string {
	mid := motif.Sites / 2
	if half < 1 || half > mid {
		return nil
	}
	return motif.SiteNames[mid-half : mid+half]
}

// ToAPIEnzymeSummary converts a domain EnzymeSummary to the stable wire
// schema (v1). Motif rows are labelled P4..P4' around the centre; residues
// with zero frequency are omitted.
func ToAPIEnzymeSummary(e aggregate.EnzymeSummary) api.EnzymeSummaryV1 {
	v := api.EnzymeSummaryV1{
		EnzymeCode:  e.EnzymeCode,
		DisplayName: e.DisplayName,
		TotalCount:  e.TotalCount,
		MeanPValue:  e.MeanPValue,
		Positions:   append([]int{}, e.Positions...),
	}
	names := SiteNames(len(e.Motif) / 2)
	if len(names) != len(e.Motif) {
		return v
	}
	for i, row := range e.Motif {
		mr := api.MotifRowV1{Site: names[i], Frequencies: map[string]float64{}}
		for r, f := range row {
			if f > 0 {
				mr.Frequencies[string(residue.Alphabet[r])] = f
			}
		}
		v.Motif = append(v.Motif, mr)
	}
	return v
}

// ToAPIProtein converts one protein summary (v1).
func ToAPIProtein(p aggregate.ProteinSummary) api.ProteinSummaryV1 {
	v := api.ProteinSummaryV1{ProteinID: p.ProteinID, Enzymes: make([]api.EnzymeSummaryV1, 0, len(p.Enzymes))}
	for _, e := range p.Enzymes {
		v.Enzymes = append(v.Enzymes, ToAPIEnzymeSummary(e))
	}
	return v
}

// ToAPITotals lists total enzyme counts in first-attributed order.
func ToAPITotals(res aggregate.Result, name func(string) string) []api.EnzymeTotalV1 {
	out := make([]api.EnzymeTotalV1, 0, len(res.EnzymeOrder))
	for _, code := range res.EnzymeOrder {
		dn := code
		if name != nil {
			dn = name(code)
		}
		out = append(out, api.EnzymeTotalV1{EnzymeCode: code, DisplayName: dn, Count: res.TotalEnzymeCounts[code]})
	}
	return out
}

// ToAPIReport converts a whole result. With sortByID, proteins are ordered
// by ID; otherwise first-seen order is kept.
func ToAPIReport(res aggregate.Result, name func(string) string, sortByID bool) api.ReportV1 {
	rep := api.ReportV1{
		Proteins:    make([]api.ProteinSummaryV1, 0, len(res.Proteins)),
		TotalCounts: ToAPITotals(res, name),
	}
	for _, p := range SortedProteins(res.Proteins, sortByID) {
		rep.Proteins = append(rep.Proteins, ToAPIProtein(p))
	}
	return rep
}

// SortedProteins returns ps, or a copy ordered by protein ID.
func SortedProteins(ps []aggregate.ProteinSummary, byID bool) []aggregate.ProteinSummary {
	if !byID {
		return ps
	}
	out := append([]aggregate.ProteinSummary(nil), ps...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ProteinID < out[j].ProteinID })
	return out
}

// ToAPIMatch converts one attributed window (v1).
func ToAPIMatch(m aggregate.MatchResult) api.MatchV1 {
	return api.MatchV1{
		ProteinID:  m.ProteinID,
		EnzymeCode: m.EnzymeCode,
		Side:       m.Side.String(),
		Position:   m.Position,
		Window:     m.Window,
		PValue:     m.PValue,
		Sample:     m.Sample,
	}
}

// ToAPIEnzyme describes one library entry (v1).
func ToAPIEnzyme(e *enzyme.Enzyme) api.EnzymeV1 {
	v := api.EnzymeV1{Code: e.Code, Name: e.Name, Species: e.Species, Standard: e.Standard}
	if e.Pattern != nil {
		v.Pattern = e.Pattern.String()
	}
	return v
}

// ToAPIProfile converts one profile series (v1).
func ToAPIProfile(s profile.Series) api.ProfileV1 {
	return api.ProfileV1{
		ProteinID: s.ProteinID,
		Group:     s.Group,
		Count:     append([]int{}, s.Count...),
		Intensity: append([]float64{}, s.Intensity...),
		Cleavages: append([]int{}, s.Cleavages...),
	}
}

// WriteJSON writes a single indented v1 report.
func WriteJSON(w io.Writer, res aggregate.Result, name func(string) string, sortByID bool) error {
	return jsonutil.EncodePretty(w, ToAPIReport(res, name, sortByID))
}
