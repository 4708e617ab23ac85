// core/engine/engine.go
package engine

import (
	"cleavr/core/aggregate"
	"cleavr/core/enzyme"
	"cleavr/core/motif"
	"cleavr/core/seqindex"
	"cleavr/core/signif"
	"cleavr/core/window"
)

// Engine attributes cleavage windows to enzymes using a compiled library.
// Read-only after New; safe for concurrent use.
type Engine struct {
	model *enzyme.Model
	bg    seqindex.Frequencies
}

// New creates an Engine over model, scoring p-values against bg.
func New(model *enzyme.Model, bg seqindex.Frequencies) *Engine {
	return &Engine{model: model, bg: bg}
}

// Model exposes the compiled library.
func (e *Engine) Model() *enzyme.Model { return e.model }

// Best returns the compatible enzyme with the highest PSSM score for w and
// its p-value. Ties go to the enzyme the trie reported first. ok is false
// for excluded windows and windows no pattern admits.
func (e *Engine) Best(w string) (code string, pvalue float64, ok bool) {
	if (window.Cleavage{Window: w}).Excluded() {
		return "", 0, false
	}
	var (
		best  *motif.PSSM
		score float64
	)
	for _, c := range e.model.Trie.Match(w) {
		p := e.model.PSSMs[c]
		if p == nil {
			continue
		}
		if s := signif.Score(p, w); best == nil || s > score {
			best, score, code = p, s, c
		}
	}
	if best == nil {
		return "", 0, false
	}
	return code, signif.PValue(best, w, e.bg), true
}

// -------------------- per-record attribution --------------------------------

// Process attributes both windows of r. Each attributed window yields one
// MatchResult under the record's protein and sample.
func (e *Engine) Process(r window.Record) []aggregate.MatchResult {
	if !r.Matched {
		return nil
	}
	var out []aggregate.MatchResult
	for _, c := range [...]window.Cleavage{r.NTerm, r.CTerm} {
		code, pv, ok := e.Best(c.Window)
		if !ok {
			continue
		}
		out = append(out, aggregate.MatchResult{
			ProteinID:  r.Peptide.ProteinID,
			EnzymeCode: code,
			Window:     c.Window,
			Position:   c.Position,
			Side:       c.Side,
			PValue:     pv,
			Sample:     r.Peptide.Sample,
		})
	}
	return out
}

// ProcessAll runs Process over records and folds the results.
func (e *Engine) ProcessAll(recs []window.Record) (*aggregate.Partial, []aggregate.MatchResult) {
	p := aggregate.NewPartial()
	var all []aggregate.MatchResult
	for _, r := range recs {
		ms := e.Process(r)
		for _, m := range ms {
			p.Add(m)
		}
		all = append(all, ms...)
	}
	return p, all
}
