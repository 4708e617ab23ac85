// Package profile builds per-protein coverage and cleavage profiles from
// located peptides: how many distinct peptides cover each residue, how much
// intensity they carry, and how often each boundary is cut.
package profile

import (
	"sort"
	"strings"

	"cleavr/core/errs"
	"cleavr/core/peptide"
	"cleavr/core/window"
)

// GroupBy selects what a series is keyed on besides the protein: one of the
// built-in keys or the name of a metadata column.
type GroupBy string

const (
	ByProtein GroupBy = "protein" // all samples pooled
	BySample  GroupBy = "sample"  // one series per sample
)

// Method combines the intensities of one peptide observed in several rows.
type Method string

const (
	Sum    Method = "sum"
	Mean   Method = "mean"
	Median Method = "median"
)

// ParseGroupBy validates a group-by key against the built-in keys and the
// columns of md, which may be nil.
func ParseGroupBy(s string, md *peptide.Metadata) (GroupBy, error) {
	switch g := GroupBy(s); g {
	case ByProtein, BySample:
		return g, nil
	}
	if md.HasColumn(s) {
		return GroupBy(s), nil
	}
	allowed := []string{string(ByProtein), string(BySample)}
	if md != nil {
		allowed = append(allowed, md.Columns...)
	}
	return "", &errs.ConfigurationError{Key: "group-by", Value: s, Allowed: allowed}
}

// ParseMethod validates an aggregation method.
func ParseMethod(s string) (Method, error) {
	switch m := Method(s); m {
	case Sum, Mean, Median:
		return m, nil
	}
	return "", &errs.ConfigurationError{Key: "method", Value: s, Allowed: []string{string(Sum), string(Mean), string(Median)}}
}

// Options restricts and shapes a profile. Empty allowlists admit all.
// Groups selects the samples whose metadata Group is listed; it narrows
// Samples when both are set.
type Options struct {
	GroupBy  GroupBy
	Method   Method
	Proteins []string
	Samples  []string
	Groups   []string
	Metadata *peptide.Metadata
	// Length gives a protein's full length; without it a series ends at
	// its furthest peptide.
	Length func(proteinID string) int
}

// Series is one protein (and group) profile over positions 0..Length-1.
// Cleavages has Length+1 slots, one per boundary.
type Series struct {
	ProteinID string
	Group     string
	Length    int
	Count     []int
	Intensity []float64
	Cleavages []int
}

type peptideKey struct {
	protein, group, seq string
}

type peptideObs struct {
	start, end int
	vals       []float64
}

// Build folds located records into series, ordered by first-seen protein
// then group. Unlocated records are ignored.
func Build(recs []window.Record, opt Options) ([]Series, error) {
	if opt.GroupBy == "" {
		opt.GroupBy = ByProtein
	}
	if opt.Method == "" {
		opt.Method = Sum
	}
	if _, err := ParseGroupBy(string(opt.GroupBy), opt.Metadata); err != nil {
		return nil, err
	}
	if _, err := ParseMethod(string(opt.Method)); err != nil {
		return nil, err
	}
	sampleOK, err := sampleFilter(opt)
	if err != nil {
		return nil, err
	}
	protOK := allow(opt.Proteins)

	type seriesKey struct{ protein, group string }
	var (
		order   []seriesKey
		seen    = map[seriesKey]bool{}
		peps    = map[seriesKey][]peptideKey{}
		obs     = map[peptideKey]*peptideObs{}
		lengths = map[seriesKey]int{}
	)
	for _, r := range recs {
		if !r.Matched || !protOK(r.Peptide.ProteinID) || !sampleOK(r.Peptide.Sample) {
			continue
		}
		sk := seriesKey{protein: r.Peptide.ProteinID}
		switch opt.GroupBy {
		case ByProtein:
		case BySample:
			sk.group = r.Peptide.Sample
		default:
			v, ok := opt.Metadata.Value(r.Peptide.Sample, string(opt.GroupBy))
			if !ok {
				continue
			}
			sk.group = v
		}
		if !seen[sk] {
			seen[sk] = true
			order = append(order, sk)
		}
		pk := peptideKey{sk.protein, sk.group, r.Peptide.Sequence}
		o, ok := obs[pk]
		if !ok {
			o = &peptideObs{start: r.NTerm.Position, end: r.CTerm.Position}
			obs[pk] = o
			peps[sk] = append(peps[sk], pk)
		}
		if r.Peptide.HasIntensity {
			o.vals = append(o.vals, r.Peptide.Intensity)
		}
		if o.end > lengths[sk] {
			lengths[sk] = o.end
		}
	}

	out := make([]Series, 0, len(order))
	for _, sk := range order {
		n := lengths[sk]
		if opt.Length != nil {
			if l := opt.Length(sk.protein); l > n {
				n = l
			}
		}
		s := Series{
			ProteinID: sk.protein,
			Group:     sk.group,
			Length:    n,
			Count:     make([]int, n),
			Intensity: make([]float64, n),
			Cleavages: make([]int, n+1),
		}
		for _, pk := range peps[sk] {
			o := obs[pk]
			v := combine(opt.Method, o.vals)
			for i := o.start; i < o.end; i++ {
				s.Count[i]++
				s.Intensity[i] += v
			}
			s.Cleavages[o.start]++
			s.Cleavages[o.end]++
		}
		out = append(out, s)
	}
	return out, nil
}

func combine(m Method, vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	switch m {
	case Mean:
		return sum / float64(len(vals))
	case Median:
		cp := append([]float64(nil), vals...)
		sort.Float64s(cp)
		mid := len(cp) / 2
		if len(cp)%2 == 1 {
			return cp[mid]
		}
		return (cp[mid-1] + cp[mid]) / 2
	}
	return sum
}

// sampleFilter combines the sample allowlist with the metadata groups.
func sampleFilter(opt Options) (func(string) bool, error) {
	byName := allow(opt.Samples)
	if len(opt.Groups) == 0 {
		return byName, nil
	}
	if !opt.Metadata.HasColumn(peptide.GroupColumn) {
		return nil, &errs.ConfigurationError{Key: "group", Value: strings.Join(opt.Groups, ",")}
	}
	inGroup := map[string]bool{}
	for _, s := range opt.Metadata.SamplesIn(peptide.GroupColumn, opt.Groups) {
		inGroup[s] = true
	}
	return func(s string) bool { return byName(s) && inGroup[s] }, nil
}

func allow(list []string) func(string) bool {
	if len(list) == 0 {
		return func(string) bool { return true }
	}
	set := make(map[string]bool, len(list))
	for _, s := range list {
		set[s] = true
	}
	return func(s string) bool { return set[s] }
}
