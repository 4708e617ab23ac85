// Package enzyme holds the protease library: the built-in standard enzymes,
// rows loaded from a site-count table, filtering and name search, and the
// compilation of the library into a pattern trie plus per-enzyme PSSMs.
package enzyme

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"cleavr/core/motif"
	"cleavr/core/seqindex"
	"cleavr/core/trie"
)

// Enzyme is one library entry. Standard enzymes carry a fixed Pattern;
// others get theirs derived from Counts at compile time.
type Enzyme struct {
	Code     string
	Name     string
	Species  string
	Standard bool
	Pattern  trie.Pattern // P4..P4', nil until derived for library enzymes
	Counts   motif.Counts // P4..P4' observed site counts; may be nil
}

func (e *Enzyme) addCounts(c motif.Counts) {
	if e.Counts == nil {
		e.Counts = motif.NewCounts(motif.Sites)
	}
	for i := range c {
		for r, v := range c[i] {
			e.Counts[i][r] += v
		}
	}
}

func (e *Enzyme) hasCounts() bool {
	for i := range e.Counts {
		if e.Counts.Total(i) > 0 {
			return true
		}
	}
	return false
}

// Library is an ordered, code-keyed set of enzymes. Order is insertion
// order and drives tie-breaking downstream.
type Library struct {
	list   []*Enzyme
	byCode map[string]*Enzyme
}

// NewLibrary returns a library seeded with the standard enzymes.
func NewLibrary() *Library {
	l := &Library{byCode: make(map[string]*Enzyme)}
	for _, e := range Standard() {
		l.Add(e)
	}
	return l
}

// Add appends e, or folds its counts into the existing entry with the same
// code. A standard entry keeps its fixed pattern; its name is kept too.
func (l *Library) Add(e *Enzyme) {
	if l.byCode == nil {
		l.byCode = make(map[string]*Enzyme)
	}
	if cur, ok := l.byCode[e.Code]; ok {
		if e.Counts != nil {
			cur.addCounts(e.Counts)
		}
		if cur.Species == "" {
			cur.Species = e.Species
		}
		if !cur.Standard && cur.Name == "" {
			cur.Name = e.Name
		}
		return
	}
	l.list = append(l.list, e)
	l.byCode[e.Code] = e
}

// Len returns the number of enzymes.
func (l *Library) Len() int { return len(l.list) }

// Enzymes returns the entries in library order.
func (l *Library) Enzymes() []*Enzyme { return l.list }

// Get looks an enzyme up by code.
func (l *Library) Get(code string) (*Enzyme, bool) {
	e, ok := l.byCode[code]
	return e, ok
}

// Species lists distinct non-empty species in library order.
func (l *Library) Species() []string {
	seen := map[string]bool{}
	var out []string
	for _, e := range l.list {
		if e.Species != "" && !seen[e.Species] {
			seen[e.Species] = true
			out = append(out, e.Species)
		}
	}
	return out
}

// Filter selects enzymes. With nothing set, every enzyme passes; otherwise
// an enzyme passes when any enabled criterion accepts it.
type Filter struct {
	UseStandard bool
	Species     []string
	Names       []string
}

// IsZero reports whether no criterion is set.
func (f Filter) IsZero() bool {
	return !f.UseStandard && len(f.Species) == 0 && len(f.Names) == 0
}

// Filter returns a new library holding the accepted enzymes in the same
// order. Species and name comparisons are case-folded.
func (l *Library) Filter(f Filter) *Library {
	if f.IsZero() {
		return l
	}
	fold := cases.Fold()
	species := foldSet(fold, f.Species)
	names := foldSet(fold, f.Names)
	out := &Library{byCode: make(map[string]*Enzyme)}
	for _, e := range l.list {
		ok := (f.UseStandard && e.Standard) ||
			species[fold.String(e.Species)] ||
			names[fold.String(e.Name)]
		if ok {
			out.list = append(out.list, e)
			out.byCode[e.Code] = e
		}
	}
	return out
}

func foldSet(fold cases.Caser, vals []string) map[string]bool {
	m := make(map[string]bool, len(vals))
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			m[fold.String(v)] = true
		}
	}
	return m
}

// Params controls how the library is compiled.
type Params struct {
	HalfWidth   int     // S; windows have 2*S residues
	Threshold   float64 // bits
	Pseudocount float64 // α
}

// Model is a compiled library: trie over sliced patterns, sliced PSSMs and
// display names, all keyed by enzyme code. Read-only and shared by workers.
type Model struct {
	Trie     *trie.Trie
	PSSMs    map[string]*motif.PSSM
	Patterns map[string]trie.Pattern
	Names    map[string]string
	Order    []string // codes in the trie, library order
	Skipped  []string // codes whose pattern carried no information
	Params   Params
}

// Name returns the display name for code, or code itself.
func (m *Model) Name(code string) string {
	if n, ok := m.Names[code]; ok && n != "" {
		return n
	}
	return code
}

// Compile builds PSSMs and patterns for every enzyme and loads the
// informative ones into a trie of depth 2*HalfWidth.
//
// Standard enzymes score against a PSSM built from loaded counts when the
// library has any for their code (or the base code of a "/P" variant);
// otherwise the PSSM is synthesized from the fixed pattern. The proline rule
// is carried by the pattern, so P1' counts of non-"/P" standard enzymes are
// replaced by the background.
func (l *Library) Compile(bg seqindex.Frequencies, p Params) (*Model, error) {
	if p.HalfWidth < 1 || p.HalfWidth > motif.Sites/2 {
		return nil, fmt.Errorf("half-width %d out of range 1..%d", p.HalfWidth, motif.Sites/2)
	}
	m := &Model{
		PSSMs:    make(map[string]*motif.PSSM, len(l.list)),
		Patterns: make(map[string]trie.Pattern, len(l.list)),
		Names:    make(map[string]string, len(l.list)),
		Params:   p,
	}
	entries := make([]trie.Entry, 0, len(l.list))
	for _, e := range l.list {
		full, pat, err := l.build(e, bg, p)
		if err != nil {
			return nil, err
		}
		sliced := pat.Center(p.HalfWidth)
		m.PSSMs[e.Code] = full.Center(p.HalfWidth)
		m.Patterns[e.Code] = sliced
		m.Names[e.Code] = e.Name
		entries = append(entries, trie.Entry{Label: e.Code, Pattern: sliced})
	}
	t, skipped, err := trie.Build(2*p.HalfWidth, entries)
	if err != nil {
		return nil, err
	}
	m.Trie = t
	m.Skipped = skipped
	m.Order = t.Labels()
	return m, nil
}

// build returns e's full-width PSSM and its pattern, derived from the PSSM
// when e has no fixed one.
func (l *Library) build(e *Enzyme, bg seqindex.Frequencies, p Params) (*motif.PSSM, trie.Pattern, error) {
	full, err := motif.BuildPSSM(e.Code, l.countsFor(e, bg), bg, p.Pseudocount)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", e.Code, err)
	}
	pat := e.Pattern
	if pat == nil {
		pat = motif.DerivePattern(full, p.Threshold)
	}
	return full, pat, nil
}

// WithPatterns returns list with every missing P4..P4' pattern derived the
// way Compile derives it. Entries that gain a pattern are copies.
func (l *Library) WithPatterns(list []*Enzyme, bg seqindex.Frequencies, p Params) ([]*Enzyme, error) {
	out := make([]*Enzyme, len(list))
	for i, e := range list {
		if e.Pattern != nil {
			out[i] = e
			continue
		}
		_, pat, err := l.build(e, bg, p)
		if err != nil {
			return nil, err
		}
		cp := *e
		cp.Pattern = pat
		out[i] = &cp
	}
	return out, nil
}

// p1Prime is the P1' index in a P4..P4' record.
const p1Prime = motif.Sites / 2

func (l *Library) countsFor(e *Enzyme, bg seqindex.Frequencies) motif.Counts {
	if !e.Standard {
		if e.Counts == nil {
			return motif.NewCounts(motif.Sites)
		}
		return e.Counts
	}
	src := e
	if !src.hasCounts() && strings.HasSuffix(e.Code, "/P") {
		if base, ok := l.byCode[strings.TrimSuffix(e.Code, "/P")]; ok {
			src = base
		}
	}
	if !src.hasCounts() {
		return motif.FromPattern(e.Pattern, bg)
	}
	c := motif.NewCounts(motif.Sites)
	copy(c, src.Counts)
	if !strings.HasSuffix(e.Code, "/P") {
		c[p1Prime] = bg
	}
	return c
}
