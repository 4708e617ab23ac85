// Package residue defines the fixed 20-letter amino-acid alphabet shared by
// every core package, plus the wildcard symbol used for unknown window slots.
package residue

// Alphabet lists the standard amino acids in column order. PSSM columns,
// motif columns and trie child slots all follow this order.
const Alphabet = "ARNDCEQGHILKMFPSTWYV"

// Size is the number of concrete residues.
const Size = len(Alphabet)

// Wildcard marks an unknown or "any residue" slot.
const Wildcard byte = 'X'

/* ---------------------------- lookup table ----------------------------- */

var index [256]int8

func init() {
	for i := range index {
		index[i] = -1
	}
	for i := 0; i < Size; i++ {
		index[Alphabet[i]] = int8(i)
	}
}

// Index returns the column of b in Alphabet, or -1 when b is not a standard
// residue. Matching is case-sensitive.
func Index(b byte) int { return int(index[b]) }

// IsResidue reports whether b is one of the 20 standard residues.
func IsResidue(b byte) bool { return index[b] >= 0 }

// WildcardWindow returns a window of n wildcard symbols.
func WildcardWindow(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = Wildcard
	}
	return string(b)
}

// IsWildcardWindow reports whether every symbol of w is the wildcard.
func IsWildcardWindow(w string) bool {
	for i := 0; i < len(w); i++ {
		if w[i] != Wildcard {
			return false
		}
	}
	return true
}

var threeLetter = map[string]byte{
	"ala": 'A', "arg": 'R', "asn": 'N', "asp": 'D', "cys": 'C',
	"glu": 'E', "gln": 'Q', "gly": 'G', "his": 'H', "ile": 'I',
	"leu": 'L', "lys": 'K', "met": 'M', "phe": 'F', "pro": 'P',
	"ser": 'S', "thr": 'T', "trp": 'W', "tyr": 'Y', "val": 'V',
}

// Parse reads a one- or three-letter residue code ("K", "Lys", "LYS").
// Anything else, including blanks and "-", yields Wildcard and false.
func Parse(s string) (byte, bool) {
	switch len(s) {
	case 1:
		b := s[0]
		if b >= 'a' && b <= 'z' {
			b -= 'a' - 'A'
		}
		if IsResidue(b) {
			return b, true
		}
	case 3:
		lower := []byte(s)
		for i, c := range lower {
			if c >= 'A' && c <= 'Z' {
				lower[i] = c + 'a' - 'A'
			}
		}
		if b, ok := threeLetter[string(lower)]; ok {
			return b, true
		}
	}
	return Wildcard, false
}
