// Package aggregate folds per-window attributions into per-protein,
// per-enzyme summaries. Folding is split into partials so workers can fold
// their own batches and a collector can merge them in batch order.
package aggregate

import (
	"sort"

	"cleavr/core/residue"
	"cleavr/core/window"
)

// DefaultTopK is the number of enzymes kept per protein; 0 keeps all.
const DefaultTopK = 3

// MatchResult attributes one cleavage window to one enzyme.
type MatchResult struct {
	ProteinID  string
	EnzymeCode string
	Window     string
	Position   int
	Side       window.Side
	PValue     float64
	Sample     string
}

type groupKey struct {
	protein string
	code    string
}

type group struct {
	key       groupKey
	motif     [][residue.Size]float64
	pSum      float64
	n         int
	positions []int
}

// Partial is an order-preserving fold of match results. Groups, proteins
// and enzymes are remembered in first-seen order.
type Partial struct {
	groups   []*group
	index    map[groupKey]int
	proteins []string
	pseen    map[string]struct{}
	enzymes  []string
	eseen    map[string]struct{}
	totals   map[string]int
	matches  int
}

// NewPartial returns an empty fold.
func NewPartial() *Partial {
	return &Partial{
		index:  make(map[groupKey]int),
		pseen:  make(map[string]struct{}),
		eseen:  make(map[string]struct{}),
		totals: make(map[string]int),
	}
}

// Fold is NewPartial followed by Add for every result.
func Fold(results []MatchResult) *Partial {
	p := NewPartial()
	for _, m := range results {
		p.Add(m)
	}
	return p
}

// Len returns the number of results folded so far.
func (p *Partial) Len() int { return p.matches }

// Add folds one result.
func (p *Partial) Add(m MatchResult) {
	g := p.group(groupKey{protein: m.ProteinID, code: m.EnzymeCode}, len(m.Window))
	for i := 0; i < len(m.Window) && i < len(g.motif); i++ {
		if ix := residue.Index(m.Window[i]); ix >= 0 {
			g.motif[i][ix]++
		}
	}
	g.pSum += m.PValue
	g.n++
	g.positions = append(g.positions, m.Position)
	p.totals[m.EnzymeCode]++
	p.matches++
}

func (p *Partial) group(k groupKey, width int) *group {
	if i, ok := p.index[k]; ok {
		g := p.groups[i]
		if width > len(g.motif) {
			g.motif = append(g.motif, make([][residue.Size]float64, width-len(g.motif))...)
		}
		return g
	}
	g := &group{key: k, motif: make([][residue.Size]float64, width)}
	p.index[k] = len(p.groups)
	p.groups = append(p.groups, g)
	if _, ok := p.pseen[k.protein]; !ok {
		p.pseen[k.protein] = struct{}{}
		p.proteins = append(p.proteins, k.protein)
	}
	if _, ok := p.eseen[k.code]; !ok {
		p.eseen[k.code] = struct{}{}
		p.enzymes = append(p.enzymes, k.code)
	}
	return g
}

// Merge folds q into p as if q's results had been added after p's. q is
// not modified.
func (p *Partial) Merge(q *Partial) {
	if q == nil {
		return
	}
	for _, qg := range q.groups {
		g := p.group(qg.key, len(qg.motif))
		for i := range qg.motif {
			for r, v := range qg.motif[i] {
				g.motif[i][r] += v
			}
		}
		g.pSum += qg.pSum
		g.n += qg.n
		g.positions = append(g.positions, qg.positions...)
	}
	for _, code := range q.enzymes {
		p.totals[code] += q.totals[code]
	}
	p.matches += q.matches
}

// EnzymeSummary describes one enzyme's attributed cleavages in a protein.
type EnzymeSummary struct {
	EnzymeCode  string
	DisplayName string
	Motif       [][residue.Size]float64 // per window position, fraction of windows
	MeanPValue  float64
	Positions   []int // sorted, unique
	TotalCount  int   // every attributed window, duplicates included
}

// ProteinSummary lists the top enzymes for one protein.
type ProteinSummary struct {
	ProteinID string
	Enzymes   []EnzymeSummary
}

// Result is the final report.
type Result struct {
	Proteins []ProteinSummary
	// TotalEnzymeCounts counts every attributed window per enzyme, before
	// top-K truncation.
	TotalEnzymeCounts map[string]int
	// EnzymeOrder lists enzyme codes in first-attributed order.
	EnzymeOrder []string
	Matches     int
}

// Summaries ranks each protein's enzymes by TotalCount (desc, ties in
// first-seen order) and keeps the first topK (0 = all). Truncated groups do
// not hand their counts to anyone. name maps codes to display names and may
// be nil.
func (p *Partial) Summaries(topK int, name func(code string) string) Result {
	byProtein := make(map[string][]*group, len(p.proteins))
	for _, g := range p.groups {
		byProtein[g.key.protein] = append(byProtein[g.key.protein], g)
	}
	res := Result{
		Proteins:          make([]ProteinSummary, 0, len(p.proteins)),
		TotalEnzymeCounts: make(map[string]int, len(p.totals)),
		EnzymeOrder:       append([]string(nil), p.enzymes...),
		Matches:           p.matches,
	}
	for code, n := range p.totals {
		res.TotalEnzymeCounts[code] = n
	}
	for _, prot := range p.proteins {
		gs := byProtein[prot]
		sort.SliceStable(gs, func(i, j int) bool { return gs[i].n > gs[j].n })
		if topK > 0 && len(gs) > topK {
			gs = gs[:topK]
		}
		ps := ProteinSummary{ProteinID: prot, Enzymes: make([]EnzymeSummary, 0, len(gs))}
		for _, g := range gs {
			ps.Enzymes = append(ps.Enzymes, summarize(g, name))
		}
		res.Proteins = append(res.Proteins, ps)
	}
	return res
}

func summarize(g *group, name func(string) string) EnzymeSummary {
	s := EnzymeSummary{
		EnzymeCode:  g.key.code,
		DisplayName: g.key.code,
		Motif:       make([][residue.Size]float64, len(g.motif)),
		TotalCount:  g.n,
		Positions:   uniqueSorted(g.positions),
	}
	if name != nil {
		s.DisplayName = name(g.key.code)
	}
	if g.n > 0 {
		s.MeanPValue = g.pSum / float64(g.n)
		for i := range g.motif {
			for r, v := range g.motif[i] {
				s.Motif[i][r] = v / float64(g.n)
			}
		}
	}
	return s
}

func uniqueSorted(in []int) []int {
	out := append([]int(nil), in...)
	sort.Ints(out)
	w := 0
	for i, v := range out {
		if i == 0 || v != out[w-1] {
			out[w] = v
			w++
		}
	}
	return out[:w]
}
