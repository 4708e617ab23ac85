package trie

import (
	"fmt"
	"strings"

	"cleavr/core/residue"
)

// Slot is the allowed set for one window position: concrete residues,
// negated residues, or the wildcard. Negations are kept as written and only
// expanded when the slot is inserted into a Trie.
type Slot struct {
	Any    bool
	Allow  string // residues allowed explicitly
	Forbid string // residues written as !X
}

// Wild is the wildcard slot.
var Wild = Slot{Any: true}

// IsWild reports whether the slot admits anything without constraint.
func (s Slot) IsWild() bool { return s.Any || (s.Allow == "" && s.Forbid == "") }

// Mask expands the slot into a residue bit set (bit i = residue.Alphabet[i]).
// Several negations mean "none of these"; explicit residues are added on
// top of that complement.
func (s Slot) Mask() uint32 {
	if s.IsWild() {
		return fullMask
	}
	var m uint32
	for i := 0; i < len(s.Allow); i++ {
		m |= bit(s.Allow[i])
	}
	if s.Forbid != "" {
		neg := fullMask
		for i := 0; i < len(s.Forbid); i++ {
			neg &^= bit(s.Forbid[i])
		}
		m |= neg
	}
	return m
}

// Admits reports whether window symbol b satisfies the slot. Non-residue
// symbols are admitted only by the wildcard.
func (s Slot) Admits(b byte) bool {
	if s.IsWild() {
		return true
	}
	return s.Mask()&bit(b) != 0
}

func (s Slot) String() string {
	if s.IsWild() {
		return "X"
	}
	toks := make([]string, 0, len(s.Allow)+len(s.Forbid))
	for i := 0; i < len(s.Allow); i++ {
		toks = append(toks, string(s.Allow[i]))
	}
	for i := 0; i < len(s.Forbid); i++ {
		toks = append(toks, "!"+string(s.Forbid[i]))
	}
	return strings.Join(toks, "|")
}

// Pattern is an ordered list of slots, one per window position.
type Pattern []Slot

// IsWild reports whether every slot is the wildcard; such a pattern carries
// no information about the cleavage.
func (p Pattern) IsWild() bool {
	for _, s := range p {
		if !s.IsWild() {
			return false
		}
	}
	return true
}

// Matches checks window against the pattern slot by slot.
func (p Pattern) Matches(window string) bool {
	if len(window) != len(p) {
		return false
	}
	for i, s := range p {
		if !s.Admits(window[i]) {
			return false
		}
	}
	return true
}

// Center returns the middle 2*half slots, e.g. P2..P2' of a P4..P4' pattern.
func (p Pattern) Center(half int) Pattern {
	mid := len(p) / 2
	if half <= 0 || half >= mid {
		return p
	}
	return p[mid-half : mid+half]
}

func (p Pattern) String() string {
	parts := make([]string, len(p))
	for i, s := range p {
		parts[i] = s.String()
	}
	return strings.Join(parts, " ")
}

// ParseSlot reads one position written as tokens separated by '|' or ',':
// a residue ("K"), a negated residue ("!P") or the wildcard ("X").
func ParseSlot(tok string) (Slot, error) {
	var s Slot
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return s, fmt.Errorf("empty pattern position")
	}
	for _, t := range strings.FieldsFunc(tok, func(r rune) bool { return r == '|' || r == ',' }) {
		t = strings.TrimSpace(t)
		switch {
		case t == "X" || t == "x" || t == "*":
			s.Any = true
		case len(t) == 2 && t[0] == '!' && residue.IsResidue(t[1]):
			if !strings.ContainsRune(s.Forbid, rune(t[1])) {
				s.Forbid += t[1:]
			}
		case len(t) == 1 && residue.IsResidue(t[0]):
			if !strings.ContainsRune(s.Allow, rune(t[0])) {
				s.Allow += t
			}
		default:
			return Slot{}, fmt.Errorf("bad pattern token %q", t)
		}
	}
	if s.Any {
		return Wild, nil
	}
	return s, nil
}

// ParsePattern reads whitespace-separated positions, e.g. "X X X K|R !P X X X".
func ParsePattern(src string) (Pattern, error) {
	fields := strings.Fields(src)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty pattern")
	}
	p := make(Pattern, 0, len(fields))
	for i, f := range fields {
		s, err := ParseSlot(f)
		if err != nil {
			return nil, fmt.Errorf("position %d: %w", i+1, err)
		}
		p = append(p, s)
	}
	return p, nil
}

// MustParse is ParsePattern for compile-time constant patterns.
func MustParse(src string) Pattern {
	p, err := ParsePattern(src)
	if err != nil {
		panic(err)
	}
	return p
}

const fullMask = uint32(1)<<residue.Size - 1

func bit(b byte) uint32 {
	if ix := residue.Index(b); ix >= 0 {
		return 1 << uint(ix)
	}
	return 0
}
