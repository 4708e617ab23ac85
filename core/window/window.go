// Package window places peptides in their parent protein and cuts the
// fixed-width sequence windows around both cleavage boundaries.
package window

import (
	"cleavr/core/peptide"
	"cleavr/core/residue"
	"cleavr/core/seqindex"
)

// DefaultHalfWidth is S, the number of residues kept on each side of a
// cleavage boundary.
const DefaultHalfWidth = 4

// Unmatched is the position sentinel for windows of unlocated peptides.
const Unmatched = -1

// Side names the peptide terminus a window belongs to.
type Side uint8

const (
	NTerm Side = iota
	CTerm
)

func (s Side) String() string {
	if s == CTerm {
		return "C"
	}
	return "N"
}

// Cleavage is one boundary window. An all-wildcard Window means the
// boundary is excluded (unmatched peptide or too close to a protein end).
type Cleavage struct {
	Window   string
	Position int
	Side     Side
}

// Excluded reports whether the window carries no usable context.
func (c Cleavage) Excluded() bool { return residue.IsWildcardWindow(c.Window) }

// Record is a peptide enriched with its placement and both windows.
type Record struct {
	Peptide peptide.Record
	Matched bool
	NTerm   Cleavage
	CTerm   Cleavage
}

// Locator is the read-only slice of seqindex.Index the extractor needs.
type Locator interface {
	K() int
	Locate(seq string) (seqindex.Location, bool)
	LocateIn(seq, proteinID string) (seqindex.Location, bool)
	Sequence(id string) (string, bool)
}

var _ Locator = (*seqindex.Index)(nil)

// Extract locates p and cuts both windows with half-width s. Windows that
// would run past either protein end are replaced by wildcards rather than
// padded.
func Extract(p peptide.Record, loc Locator, s int) Record {
	if s < 1 {
		s = DefaultHalfWidth
	}
	blank := residue.WildcardWindow(2 * s)
	rec := Record{
		Peptide: p,
		NTerm:   Cleavage{Window: blank, Position: Unmatched, Side: NTerm},
		CTerm:   Cleavage{Window: blank, Position: Unmatched, Side: CTerm},
	}

	at, ok := loc.Locate(p.Sequence)
	if !ok && len(p.Sequence) < loc.K() && p.ProteinID != "" {
		at, ok = loc.LocateIn(p.Sequence, p.ProteinID)
	}
	if !ok {
		rec.Peptide.ProteinID = ""
		return rec
	}
	prot, _ := loc.Sequence(at.ProteinID)

	rec.Matched = true
	rec.Peptide.ProteinID = at.ProteinID
	rec.NTerm.Position = at.Start
	rec.CTerm.Position = at.End
	// short peptides near a protein end can have a boundary within s of
	// both ends; those windows stay wildcards too
	if at.Start >= s && at.Start+s <= len(prot) {
		rec.NTerm.Window = prot[at.Start-s : at.Start+s]
	}
	if at.End >= s && at.End <= len(prot)-s {
		rec.CTerm.Window = prot[at.End-s : at.End+s]
	}
	return rec
}
