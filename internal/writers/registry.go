// internal/writers/registry.go
package writers

import (
	"fmt"
	"io"

	"cleavr/core/aggregate"
	"cleavr/core/enzyme"
	"cleavr/core/profile"
)

// SummaryOptions shape a summary report.
type SummaryOptions struct {
	Sort   bool                     // proteins by ID instead of first-seen
	Header bool                     // TSV header rows
	Pretty bool                     // motif block under each TSV row
	Name   func(code string) string // display names for totals; may be nil
	Render func(aggregate.EnzymeSummary) string
}

// Writer registries (format → handler). Register in init() blocks.
var (
	SummaryWriters = map[string]func(io.Writer, aggregate.Result, SummaryOptions) error{}
	MatchWriters   = map[string]func(io.Writer, <-chan aggregate.MatchResult, bool) error{}
	EnzymeWriters  = map[string]func(io.Writer, []*enzyme.Enzyme, bool) error{}
	ProfileWriters = map[string]func(io.Writer, []profile.Series, bool) error{}
)

// Register helpers (idempotent last-wins)
func RegisterSummary(format string, fn func(io.Writer, aggregate.Result, SummaryOptions) error) {
	SummaryWriters[format] = fn
}
func RegisterMatch(format string, fn func(io.Writer, <-chan aggregate.MatchResult, bool) error) {
	MatchWriters[format] = fn
}
func RegisterEnzyme(format string, fn func(io.Writer, []*enzyme.Enzyme, bool) error) {
	EnzymeWriters[format] = fn
}
func RegisterProfile(format string, fn func(io.Writer, []profile.Series, bool) error) {
	ProfileWriters[format] = fn
}

func unknown(kind, format string) error {
	return fmt.Errorf("unknown %s format %q (no writer registered)", kind, format)
}

// WriteSummaries dispatches a finished report to its format's writer.
// Broken pipes are not errors.
func WriteSummaries(format string, w io.Writer, res aggregate.Result, opt SummaryOptions) error {
	fn, ok := SummaryWriters[format]
	if !ok {
		return unknown("summary", format)
	}
	return quiet(fn(w, res, opt))
}

// WriteEnzymes dispatches a library listing.
func WriteEnzymes(format string, w io.Writer, list []*enzyme.Enzyme, header bool) error {
	fn, ok := EnzymeWriters[format]
	if !ok {
		return unknown("enzyme", format)
	}
	return quiet(fn(w, list, header))
}

// WriteProfiles dispatches profile series.
func WriteProfiles(format string, w io.Writer, list []profile.Series, header bool) error {
	fn, ok := ProfileWriters[format]
	if !ok {
		return unknown("profile", format)
	}
	return quiet(fn(w, list, header))
}

func quiet(err error) error {
	if IsBrokenPipe(err) {
		return nil
	}
	return err
}
