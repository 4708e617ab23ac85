// Package seqindex builds the exact-position k-mer lookup table over a
// protein database and the amino-acid background counts used as the null
// model for scoring.
package seqindex

import (
	"strings"

	"cleavr/core/errs"
)

// DefaultK is the k-mer length used when Build is given k < 1.
const DefaultK = 6

// Protein is one database entry. Sequence is expected upper-case.
type Protein struct {
	ID       string
	Sequence string
}

// Hit is a k-mer occurrence: protein and 0-based offset.
type Hit struct {
	ProteinID string
	Offset    int
}

// Location is a verified peptide placement, half-open [Start, End).
type Location struct {
	ProteinID string
	Start     int
	End       int
}

// Index is read-only after Build and safe for concurrent readers.
type Index struct {
	k        int
	kmers    map[string][]Hit
	proteins map[string]string
	order    []string
	bg       Background
}

// Build indexes every k-substring of every protein and counts each residue
// once for the background. Proteins shorter than k contribute background
// only. A protein ID seen twice is a DataIntegrityError.
func Build(proteins []Protein, k int) (*Index, error) {
	if k < 1 {
		k = DefaultK
	}
	ix := &Index{
		k:        k,
		kmers:    make(map[string][]Hit, 1<<12),
		proteins: make(map[string]string, len(proteins)),
		order:    make([]string, 0, len(proteins)),
	}
	for _, p := range proteins {
		if _, dup := ix.proteins[p.ID]; dup {
			return nil, &errs.DataIntegrityError{ID: p.ID, Reason: "protein ID occurs more than once in the database"}
		}
		ix.proteins[p.ID] = p.Sequence
		ix.order = append(ix.order, p.ID)

		seq := p.Sequence
		for i := 0; i+k <= len(seq); i++ {
			km := seq[i : i+k]
			ix.kmers[km] = append(ix.kmers[km], Hit{ProteinID: p.ID, Offset: i})
		}
		ix.bg.add(seq)
	}
	return ix, nil
}

// K returns the k-mer length.
func (ix *Index) K() int { return ix.k }

// Len returns the number of proteins.
func (ix *Index) Len() int { return len(ix.order) }

// IDs returns protein IDs in database order.
func (ix *Index) IDs() []string { return append([]string(nil), ix.order...) }

// Sequence returns the sequence of a protein.
func (ix *Index) Sequence(id string) (string, bool) {
	s, ok := ix.proteins[id]
	return s, ok
}

// Candidates returns the occurrences of a k-mer in insertion order.
func (ix *Index) Candidates(kmer string) []Hit { return ix.kmers[kmer] }

// Background returns the raw residue counts.
func (ix *Index) Background() Background { return ix.bg }

// Locate finds the first verified placement of seq. Candidates sharing the
// k-prefix are verified in insertion order and the first exact match wins;
// this is not a best-match search.
func (ix *Index) Locate(seq string) (Location, bool) {
	if len(seq) < ix.k {
		return Location{}, false
	}
	for _, h := range ix.kmers[seq[:ix.k]] {
		prot := ix.proteins[h.ProteinID]
		end := h.Offset + len(seq)
		if end <= len(prot) && prot[h.Offset:end] == seq {
			return Location{ProteinID: h.ProteinID, Start: h.Offset, End: end}, true
		}
	}
	return Location{}, false
}

// LocateIn searches seq directly inside one protein. It serves peptides
// shorter than k whose input row names the protein.
func (ix *Index) LocateIn(seq, proteinID string) (Location, bool) {
	prot, ok := ix.proteins[proteinID]
	if !ok || seq == "" {
		return Location{}, false
	}
	i := strings.Index(prot, seq)
	if i < 0 {
		return Location{}, false
	}
	return Location{ProteinID: proteinID, Start: i, End: i + len(seq)}, true
}
