// Package pretty renders human-readable motif blocks under TSV summary rows.
// Every line starts with "# " so the output stays parseable as TSV with
// comment skipping.
package pretty

import (
	"fmt"
	"strings"

	"cleavr/core/aggregate"
	"cleavr/core/motif"
	"cleavr/core/residue"
)

// Options control the ASCII rendering.
type Options struct {
	// Residues whose frequency is below MinFraction at every site are hidden.
	MinFraction float64

	// Digits after the decimal point for percentages.
	Precision int

	// Column width per site. If <=0, use default (7).
	CellWidth int

	// Glyphs
	DotGlyph string // default "."
}

// DefaultOptions is the look used by `cleavr analyze --pretty`.
var DefaultOptions = Options{
	MinFraction: 0.05,
	Precision:   1,
	CellWidth:   7,
	DotGlyph:    ".",
}

const linePrefix = "# "

func (o Options) normalized() Options {
	if o.CellWidth <= 0 {
		o.CellWidth = 7
	}
	if o.Precision < 0 {
		o.Precision = 0
	}
	if o.DotGlyph == "" {
		o.DotGlyph = "."
	}
	return o
}

func siteNames(n int) []string {
	mid, half := motif.Sites/2, n/2
	if n%2 != 0 || half < 1 || half > mid {
		names := make([]string, n)
		for i := range names {
			names[i] = fmt.Sprintf("%d", i+1)
		}
		return names
	}
	return motif.SiteNames[mid-half : mid+half]
}

// RenderMotif renders the empirical motif of one enzyme summary with
// DefaultOptions.
func RenderMotif(e aggregate.EnzymeSummary) string {
	return RenderMotifWithOptions(e, DefaultOptions)
}

// RenderMotifWithOptions renders a residue × site percentage table, a
// consensus line (most frequent residue per site, '-' for an empty site) and
// a trailing blank comment line. An empty motif renders nothing.
func RenderMotifWithOptions(e aggregate.EnzymeSummary, opt Options) string {
	if len(e.Motif) == 0 {
		return ""
	}
	opt = opt.normalized()
	var b strings.Builder
	cell := func(s string) { fmt.Fprintf(&b, "%*s", opt.CellWidth, s) }

	b.WriteString(linePrefix + "   ")
	for _, n := range siteNames(len(e.Motif)) {
		cell(n)
	}
	b.WriteByte('\n')

	for r := 0; r < residue.Size; r++ {
		show := false
		for _, row := range e.Motif {
			if row[r] > 0 && row[r] >= opt.MinFraction {
				show = true
				break
			}
		}
		if !show {
			continue
		}
		fmt.Fprintf(&b, "%s%c  ", linePrefix, residue.Alphabet[r])
		for _, row := range e.Motif {
			if row[r] == 0 {
				cell(opt.DotGlyph)
				continue
			}
			cell(fmt.Sprintf("%.*f", opt.Precision, 100*row[r]))
		}
		b.WriteByte('\n')
	}

	b.WriteString(linePrefix + "=  ")
	for _, row := range e.Motif {
		best, bi := 0.0, -1
		for r, f := range row {
			if f > best {
				best, bi = f, r
			}
		}
		if bi < 0 {
			cell("-")
			continue
		}
		cell(string(residue.Alphabet[bi]))
	}
	b.WriteString("\n" + linePrefix + "\n")
	return b.String()
}
