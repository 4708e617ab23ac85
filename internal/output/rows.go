// internal/output/rows.go
package output

import (
	"fmt"
	"strconv"
	"strings"

	"cleavr/core/aggregate"
	"cleavr/core/enzyme"
	"cleavr/core/profile"
)

// IntsCSV joins a with commas; empty for an empty slice.
func IntsCSV(a []int) string {
	if len(a) == 0 {
		return ""
	}
	ss := make([]string, len(a))
	for i, v := range a {
		ss[i] = strconv.Itoa(v)
	}
	return strings.Join(ss, ",")
}

// FormatPValue renders a p-value compactly but without losing small values.
func FormatPValue(p float64) string { return strconv.FormatFloat(p, 'g', 4, 64) }

// FormatSummaryRowTSV returns one SummaryHeader row (no trailing newline).
func FormatSummaryRowTSV(proteinID string, e aggregate.EnzymeSummary) string {
	return fmt.Sprintf("%s\t%s\t%s\t%d\t%s\t%s",
		proteinID, e.EnzymeCode, e.DisplayName, e.TotalCount,
		FormatPValue(e.MeanPValue), IntsCSV(e.Positions),
	)
}

// FormatMatchRowTSV returns one MatchHeader row (no trailing newline).
func FormatMatchRowTSV(m aggregate.MatchResult) string {
	return fmt.Sprintf("%s\t%s\t%s\t%d\t%s\t%s\t%s",
		m.ProteinID, m.EnzymeCode, m.Side, m.Position, m.Window,
		FormatPValue(m.PValue), m.Sample,
	)
}

// FormatEnzymeRowTSV returns one EnzymeHeader row (no trailing newline).
func FormatEnzymeRowTSV(e *enzyme.Enzyme) string {
	pat := ""
	if e.Pattern != nil {
		pat = e.Pattern.String()
	}
	return fmt.Sprintf("%s\t%s\t%s\t%t\t%s", e.Code, e.Name, e.Species, e.Standard, pat)
}

// FormatProfileRowsTSV returns one ProfileHeader row per boundary 0..Length.
// The final boundary has no residue, so its count and intensity are 0.
func FormatProfileRowsTSV(s profile.Series) []string {
	rows := make([]string, 0, s.Length+1)
	for i := 0; i <= s.Length; i++ {
		var n int
		var in float64
		if i < s.Length {
			n, in = s.Count[i], s.Intensity[i]
		}
		rows = append(rows, fmt.Sprintf("%s\t%s\t%d\t%d\t%s\t%d",
			s.ProteinID, s.Group, i, n,
			strconv.FormatFloat(in, 'f', -1, 64), s.Cleavages[i]))
	}
	return rows
}
