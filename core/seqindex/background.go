package seqindex

import (
	"cleavr/core/errs"
	"cleavr/core/residue"
)

// Background holds raw residue counts over the database. Residues outside
// the standard alphabet are tallied separately and ignored by Normalize.
type Background struct {
	Counts  [residue.Size]int64
	Unknown int64
}

func (b *Background) add(seq string) {
	for i := 0; i < len(seq); i++ {
		if ix := residue.Index(seq[i]); ix >= 0 {
			b.Counts[ix]++
		} else {
			b.Unknown++
		}
	}
}

// Total is the number of standard residues counted.
func (b Background) Total() int64 {
	var n int64
	for _, c := range b.Counts {
		n += c
	}
	return n
}

// Normalize converts counts into probabilities that sum to 1.
func (b Background) Normalize() (Frequencies, error) {
	var f Frequencies
	tot := b.Total()
	if tot == 0 {
		return f, &errs.InsufficientDataError{What: "background residue counts sum to zero (empty protein database?)"}
	}
	for i, c := range b.Counts {
		f[i] = float64(c) / float64(tot)
	}
	return f, nil
}

// Frequencies is a normalized background distribution in residue.Alphabet
// order.
type Frequencies [residue.Size]float64

// Of returns the probability of residue r, or 0 for non-standard symbols.
func (f Frequencies) Of(r byte) float64 {
	if ix := residue.Index(r); ix >= 0 {
		return f[ix]
	}
	return 0
}

// Uniform returns the flat distribution, handy for tests and synthetic
// enzyme models.
func Uniform() Frequencies {
	var f Frequencies
	for i := range f {
		f[i] = 1 / float64(residue.Size)
	}
	return f
}
