// Package signif scores a window against a PSSM and turns the score into a
// one-sided p-value under a normal approximation of the background null.
package signif

import (
	"math"

	"cleavr/core/motif"
	"cleavr/core/seqindex"
)

// Score sums the PSSM's per-position scores over the window. Unknown
// symbols contribute 0.
func Score(p *motif.PSSM, window string) float64 { return p.Window(window) }

// Null is the mean and variance of the window score when residues are drawn
// independently from the background.
type Null struct {
	Mean     float64
	Variance float64
}

// NullStats sums per-position null moments over the first n positions.
func NullStats(p *motif.PSSM, bg seqindex.Frequencies, n int) Null {
	if n > p.Len() {
		n = p.Len()
	}
	var out Null
	for i := 0; i < n; i++ {
		var m, m2 float64
		for r, s := range p.Scores[i] {
			m += bg[r] * s
			m2 += bg[r] * s * s
		}
		out.Mean += m
		out.Variance += m2 - m*m
	}
	if out.Variance < 0 {
		out.Variance = 0
	}
	return out
}

// PValue is P(score >= observed) under the normal approximation. A null
// with zero variance yields 0 when the observed score beats the mean and 1
// otherwise.
//
// The approximation ignores the discreteness and skew of short PSSMs, so
// p-values for windows of a few positions are optimistic.
func PValue(p *motif.PSSM, window string, bg seqindex.Frequencies) float64 {
	obs := Score(p, window)
	null := NullStats(p, bg, len(window))
	return pValue(obs, null)
}

func pValue(obs float64, null Null) float64 {
	if null.Variance == 0 {
		if obs > null.Mean {
			return 0
		}
		return 1
	}
	z := (obs - null.Mean) / math.Sqrt(null.Variance)
	pv := 0.5 * math.Erfc(z/math.Sqrt2)
	switch {
	case pv < 0:
		return 0
	case pv > 1:
		return 1
	}
	return pv
}
