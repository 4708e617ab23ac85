// Package motif turns per-position residue counts of an enzyme's observed
// cleavage sites into a log-odds PSSM and derives the pattern used to route
// windows through the trie.
package motif

import (
	"fmt"
	"math"
	"strings"

	"cleavr/core/residue"
	"cleavr/core/seqindex"
	"cleavr/core/trie"
)

// Sites is the number of positions in a full cleavage-site record, P4..P4'.
const Sites = 8

// DefaultThreshold is the log2-odds cut-off (bits) for calling a residue
// enriched or depleted.
const DefaultThreshold = 1.68

// DefaultPseudocount is the weight α given to the background when smoothing
// observed distributions.
const DefaultPseudocount = 1.0

// MinScore floors log-odds when a residue has zero smoothed probability
// (pseudocount 0).
const MinScore = -16.0

// SiteNames labels the positions of a full site record.
var SiteNames = [Sites]string{"P4", "P3", "P2", "P1", "P1'", "P2'", "P3'", "P4'"}

// Counts holds residue counts per position in residue.Alphabet order.
type Counts [][residue.Size]float64

// NewCounts returns n empty positions.
func NewCounts(n int) Counts { return make(Counts, n) }

// Add counts one observed site. Symbols outside the alphabet are ignored.
func (c Counts) Add(site string) {
	for i := 0; i < len(site) && i < len(c); i++ {
		if ix := residue.Index(site[i]); ix >= 0 {
			c[i][ix]++
		}
	}
}

// Total returns the number of observations at position i.
func (c Counts) Total(i int) float64 {
	var n float64
	for _, v := range c[i] {
		n += v
	}
	return n
}

// FromPattern synthesizes counts for an enzyme known only by its fixed
// pattern: one count per explicitly allowed residue, background mass for
// every residue not negated, nothing for wildcard positions.
func FromPattern(p trie.Pattern, bg seqindex.Frequencies) Counts {
	c := NewCounts(len(p))
	for i, s := range p {
		switch {
		case s.IsWild():
		case s.Allow != "" && s.Forbid == "":
			for j := 0; j < len(s.Allow); j++ {
				c[i][residue.Index(s.Allow[j])] = 1
			}
		default:
			m := s.Mask()
			for r := 0; r < residue.Size; r++ {
				if m&(1<<uint(r)) != 0 {
					c[i][r] = bg[r]
				}
			}
		}
	}
	return c
}

// PSSM is a position-specific scoring matrix in log2-odds against the
// protein background.
type PSSM struct {
	Code   string
	Scores [][residue.Size]float64
	empty  []bool
}

// BuildPSSM smooths each non-empty position as
// p = (count + α·bg) / (N + α) and scores it as log2(p/bg). Positions with
// no observations score 0 for every residue, as do residues absent from the
// background.
func BuildPSSM(code string, counts Counts, bg seqindex.Frequencies, pseudocount float64) (*PSSM, error) {
	if pseudocount < 0 || math.IsNaN(pseudocount) {
		return nil, fmt.Errorf("pseudocount must be >= 0, got %v", pseudocount)
	}
	p := &PSSM{
		Code:   code,
		Scores: make([][residue.Size]float64, len(counts)),
		empty:  make([]bool, len(counts)),
	}
	for i := range counts {
		n := counts.Total(i)
		if n == 0 {
			p.empty[i] = true
			continue
		}
		for r := 0; r < residue.Size; r++ {
			if bg[r] <= 0 {
				continue
			}
			obs := (counts[i][r] + pseudocount*bg[r]) / (n + pseudocount)
			if obs <= 0 {
				p.Scores[i][r] = MinScore
				continue
			}
			p.Scores[i][r] = math.Max(math.Log2(obs/bg[r]), MinScore)
		}
	}
	return p, nil
}

// Len is the number of positions.
func (p *PSSM) Len() int { return len(p.Scores) }

// Empty reports whether position i had no observations.
func (p *PSSM) Empty(i int) bool { return p.empty[i] }

// Score returns the log-odds of residue r at position i; 0 for symbols
// outside the alphabet.
func (p *PSSM) Score(i int, r byte) float64 {
	if ix := residue.Index(r); ix >= 0 {
		return p.Scores[i][ix]
	}
	return 0
}

// Window sums per-position scores of w over the shorter of the two lengths.
func (p *PSSM) Window(w string) float64 {
	var s float64
	for i := 0; i < len(w) && i < len(p.Scores); i++ {
		s += p.Score(i, w[i])
	}
	return s
}

// Center returns the middle 2*half positions, sharing storage with p.
func (p *PSSM) Center(half int) *PSSM {
	mid := len(p.Scores) / 2
	if half <= 0 || half >= mid {
		return p
	}
	return &PSSM{Code: p.Code, Scores: p.Scores[mid-half : mid+half], empty: p.empty[mid-half : mid+half]}
}

// Consensus returns the top-scoring residue per position, '-' for empty
// positions.
func (p *PSSM) Consensus() string {
	var b strings.Builder
	for i, row := range p.Scores {
		if p.empty[i] {
			b.WriteByte('-')
			continue
		}
		best := 0
		for r := 1; r < residue.Size; r++ {
			if row[r] > row[best] {
				best = r
			}
		}
		b.WriteByte(residue.Alphabet[best])
	}
	return b.String()
}

// DerivePattern calls, per position, the residues scoring above t; failing
// that, the residues scoring below -t as negations; failing that, the
// wildcard.
func DerivePattern(p *PSSM, t float64) trie.Pattern {
	out := make(trie.Pattern, p.Len())
	for i, row := range p.Scores {
		if p.empty[i] {
			out[i] = trie.Wild
			continue
		}
		var up, down []byte
		for r, s := range row {
			switch {
			case s > t:
				up = append(up, residue.Alphabet[r])
			case s < -t:
				down = append(down, residue.Alphabet[r])
			}
		}
		switch {
		case len(up) > 0:
			out[i] = trie.Slot{Allow: string(up)}
		case len(down) > 0:
			out[i] = trie.Slot{Forbid: string(down)}
		default:
			out[i] = trie.Wild
		}
	}
	return out
}
