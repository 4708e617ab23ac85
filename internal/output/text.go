// internal/output/text.go
package output

import (
	"fmt"
	"io"

	"cleavr/core/aggregate"
)

// WriteTextWithRenderer prints one SummaryHeader row per (protein, enzyme),
// optionally followed by a rendered block, then the totals table.
func WriteTextWithRenderer(
	w io.Writer,
	res aggregate.Result,
	name func(string) string,
	sortByID, header, pretty bool,
	render func(aggregate.EnzymeSummary) string,
) error {
	if header {
		if _, err := fmt.Fprintln(w, SummaryHeader); err != nil {
			return err
		}
	}
	for _, p := range SortedProteins(res.Proteins, sortByID) {
		for _, e := range p.Enzymes {
			if _, err := fmt.Fprintln(w, FormatSummaryRowTSV(p.ProteinID, e)); err != nil {
				return err
			}
			if pretty && render != nil {
				if _, err := io.WriteString(w, render(e)); err != nil {
					return err
				}
			}
		}
	}
	if len(res.EnzymeOrder) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	if header {
		if _, err := fmt.Fprintln(w, TotalsHeader); err != nil {
			return err
		}
	}
	for _, t := range ToAPITotals(res, name) {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%d\n", t.EnzymeCode, t.DisplayName, t.Count); err != nil {
			return err
		}
	}
	return nil
}

// StreamMatchText writes MatchHeader rows as they arrive.
func StreamMatchText(w io.Writer, in <-chan aggregate.MatchResult, header bool) error {
	if header {
		if _, err := fmt.Fprintln(w, MatchHeader); err != nil {
			return err
		}
	}
	for m := range in {
		if _, err := fmt.Fprintln(w, FormatMatchRowTSV(m)); err != nil {
			return err
		}
	}
	return nil
}
