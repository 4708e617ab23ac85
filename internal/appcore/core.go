// internal/appcore/core.go
package appcore

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"cleavr/core/aggregate"
	"cleavr/core/engine"
	"cleavr/core/enzyme"
	"cleavr/core/errs"
	"cleavr/core/fasta"
	"cleavr/core/peptide"
	"cleavr/core/profile"
	"cleavr/core/seqindex"
	"cleavr/core/window"
	"cleavr/internal/cmdutil"
	"cleavr/internal/config"
	"cleavr/internal/pipeline"
	"cleavr/internal/runutil"
	"cleavr/internal/writers"
)

// Exit codes shared by every command.
const (
	ExitOK        = 0
	ExitUsage     = 2
	ExitData      = 3
	ExitCancelled = 130
)

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, context.Canceled):
		return ExitCancelled
	case errors.Is(err, errs.ErrConfiguration):
		return ExitUsage
	default:
		return ExitData
	}
}

func fail(stderr io.Writer, err error) int {
	code := ExitCode(err)
	if code != ExitCancelled {
		fmt.Fprintln(stderr, err)
	}
	return code
}

type Options struct {
	Proteins string
	Peptides string
	Enzymes  string
	Metadata string

	K           int
	HalfWidth   int
	Threshold   float64
	Pseudocount float64
	TopK        int
	Filter      enzyme.Filter

	KeepZeroIntensity bool

	Threads   int
	BatchSize int

	Quiet           bool
	Progress        bool
	NoMatchExitCode int
}

// OptionsFromConfig copies the run settings out of a decoded Config.
func OptionsFromConfig(c config.Config) Options {
	return Options{
		Proteins:          c.Proteins,
		Peptides:          c.Peptides,
		Enzymes:           c.Enzymes,
		Metadata:          c.Metadata,
		K:                 c.K,
		HalfWidth:         c.HalfWidth,
		Threshold:         c.Threshold,
		Pseudocount:       c.Pseudocount,
		TopK:              c.TopK,
		Filter:            enzyme.Filter{UseStandard: c.Standard, Species: c.Species, Names: c.EnzymeNames},
		KeepZeroIntensity: c.KeepZeroIntensity,
		Threads:           c.Threads,
		BatchSize:         c.BatchSize,
		Quiet:             c.Quiet,
		Progress:          c.Progress,
		NoMatchExitCode:   c.NoMatchExitCode,
	}
}

// ---- loading ----

// LoadIndex reads a protein FASTA and indexes it with k-mers of length k.
func LoadIndex(ctx context.Context, path string, k int) (*seqindex.Index, error) {
	recs, err := fasta.ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	proteins := make([]seqindex.Protein, len(recs))
	for i, r := range recs {
		proteins[i] = seqindex.Protein{ID: r.ID, Sequence: r.Seq}
	}
	ix, err := seqindex.Build(proteins, k)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ix, nil
}

// LoadLibrary seeds the standard enzymes, merges the optional site table
// at path and applies f.
func LoadLibrary(ctx context.Context, path string, f enzyme.Filter) (*enzyme.Library, error) {
	lib := enzyme.NewLibrary()
	if path != "" {
		list, err := enzyme.LoadFile(ctx, path)
		if err != nil {
			return nil, err
		}
		for _, e := range list {
			lib.Add(e)
		}
	}
	return lib.Filter(f), nil
}

// LoadPeptides reads the peptide table and drops rows without intensity
// unless keepZero.
func LoadPeptides(ctx context.Context, path string, keepZero bool) ([]peptide.Record, int, error) {
	recs, err := peptide.Load(ctx, path)
	if err != nil {
		return nil, 0, err
	}
	if keepZero {
		return recs, 0, nil
	}
	kept := peptide.FilterIntensity(recs)
	return kept, len(recs) - len(kept), nil
}

// Inputs is everything a run shares read-only across workers.
type Inputs struct {
	Index      *seqindex.Index
	Background seqindex.Frequencies
	Model      *enzyme.Model
}

// LoadModel indexes the proteins, derives the residue background and
// compiles the filtered enzyme library against it.
func LoadModel(ctx context.Context, o Options) (*Inputs, error) {
	ix, err := LoadIndex(ctx, o.Proteins, o.K)
	if err != nil {
		return nil, err
	}
	bg, err := ix.Background().Normalize()
	if err != nil {
		return nil, err
	}
	lib, err := LoadLibrary(ctx, o.Enzymes, o.Filter)
	if err != nil {
		return nil, err
	}
	m, err := lib.Compile(bg, enzyme.Params{HalfWidth: o.HalfWidth, Threshold: o.Threshold, Pseudocount: o.Pseudocount})
	if err != nil {
		return nil, err
	}
	return &Inputs{Index: ix, Background: bg, Model: m}, nil
}

// ---- analyze ----

// Analyze runs the attribution pipeline and writes the summary report.
// Match rows, when enabled, stream while the pipeline runs.
func Analyze(
	parent context.Context,
	stdout, stderr io.Writer,
	o Options,
	sw SummaryWriterFactory,
	mw MatchWriterFactory,
) int {
	outw := bufio.NewWriter(stdout)

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	in, err := LoadModel(ctx, o)
	if err != nil {
		return fail(stderr, err)
	}
	for _, code := range in.Model.Skipped {
		cmdutil.Warnf(stderr, o.Quiet, "enzyme %s has no informative site pattern; skipped", code)
	}
	peps, dropped, err := LoadPeptides(ctx, o.Peptides, o.KeepZeroIntensity)
	if err != nil {
		return fail(stderr, err)
	}

	var (
		mch  chan<- aggregate.MatchResult
		merr <-chan error
	)
	thr := runutil.ResolveThreads(o.Threads)
	if mw.Enabled() {
		mch, merr, err = mw.Start(outw, thr*4)
		if err != nil {
			return fail(stderr, err)
		}
	}

	warn := cmdutil.NewWarner(stderr, o.Quiet, 0)
	bar := cmdutil.StartProgress(stderr, len(peps), o.Progress && !o.Quiet)
	bs := runutil.ResolveBatchSize(o.BatchSize)
	unmatched := 0

	part, perr := pipeline.Run(ctx,
		pipeline.Config{Threads: thr, BatchSize: bs, HalfWidth: o.HalfWidth},
		peps, in.Index, engine.New(in.Model, in.Background),
		func(b pipeline.Batch) error {
			for j, r := range b.Records {
				if r.Matched {
					continue
				}
				unmatched++
				hint := peps[b.Index*bs+j].ProteinID
				warn.Once(r.Peptide.Sequence, "peptide %s not found in proteins (protein hint %q)", r.Peptide.Sequence, hint)
			}
			if mch != nil {
				for _, m := range b.Matches {
					select {
					case mch <- m:
					case <-ctx.Done():
						return ctx.Err()
					}
				}
			}
			bar.Add(len(b.Records))
			return nil
		},
	)
	bar.Finish()

	if mch != nil {
		close(mch)
		if werr := <-merr; werr != nil {
			fmt.Fprintln(stderr, werr)
			return ExitData
		}
	}
	if perr != nil {
		return fail(stderr, perr)
	}

	res := part.Summaries(o.TopK, in.Model.Name)
	if err := sw.Write(outw, res, in.Model.Name); err != nil {
		return fail(stderr, err)
	}
	if e := outw.Flush(); writers.IsBrokenPipe(e) {
		return ExitOK
	} else if e != nil {
		return fail(stderr, e)
	}

	parts := []string{
		cmdutil.Count(len(peps), "peptide"),
		cmdutil.Count(unmatched, "unmatched peptide"),
		cmdutil.Count(res.Matches, "attributed window"),
		cmdutil.Count(len(res.Proteins), "protein"),
	}
	if dropped > 0 {
		parts = append(parts, cmdutil.Count(dropped, "zero-intensity row")+" dropped")
	}
	if warn.Suppressed > 0 {
		parts = append(parts, cmdutil.Count(warn.Suppressed, "repeated warning")+" suppressed")
	}
	cmdutil.Summaryf(stderr, o.Quiet, "cleavr", parts...)

	if res.Matches == 0 {
		return o.NoMatchExitCode
	}
	return ExitOK
}

// ---- profile ----

// locateOnly satisfies pipeline.Attributor without attributing anything;
// profiles only need placements.
type locateOnly struct{}

func (locateOnly) Process(window.Record) []aggregate.MatchResult { return nil }

// Profile places every peptide and writes coverage/cleavage series.
func Profile(
	ctx context.Context,
	stdout, stderr io.Writer,
	o Options,
	po profile.Options,
	format string,
	header bool,
) int {
	outw := bufio.NewWriter(stdout)

	ix, err := LoadIndex(ctx, o.Proteins, o.K)
	if err != nil {
		return fail(stderr, err)
	}
	peps, _, err := LoadPeptides(ctx, o.Peptides, o.KeepZeroIntensity)
	if err != nil {
		return fail(stderr, err)
	}
	if o.Metadata != "" {
		if po.Metadata, err = peptide.LoadMetadata(ctx, o.Metadata); err != nil {
			return fail(stderr, err)
		}
	}
	if _, err := profile.ParseGroupBy(string(po.GroupBy), po.Metadata); err != nil {
		return fail(stderr, err)
	}

	recs := make([]window.Record, 0, len(peps))
	_, err = pipeline.Run(ctx,
		pipeline.Config{Threads: runutil.ResolveThreads(o.Threads), BatchSize: runutil.ResolveBatchSize(o.BatchSize), HalfWidth: o.HalfWidth},
		peps, ix, locateOnly{},
		func(b pipeline.Batch) error {
			recs = append(recs, b.Records...)
			return nil
		},
	)
	if err != nil {
		return fail(stderr, err)
	}

	po.Length = func(id string) int {
		seq, _ := ix.Sequence(id)
		return len(seq)
	}
	series, err := profile.Build(recs, po)
	if err != nil {
		return fail(stderr, err)
	}
	if err := writers.WriteProfiles(format, outw, series, header); err != nil {
		return fail(stderr, err)
	}
	if e := outw.Flush(); e != nil && !writers.IsBrokenPipe(e) {
		return fail(stderr, e)
	}
	if len(series) == 0 {
		return o.NoMatchExitCode
	}
	return ExitOK
}

// ---- listings ----

// Enzymes lists the filtered library, or the entries matching query.
func Enzymes(ctx context.Context, stdout, stderr io.Writer, o Options, query, format string, header bool) int {
	outw := bufio.NewWriter(stdout)
	lib, err := LoadLibrary(ctx, o.Enzymes, o.Filter)
	if err != nil {
		return fail(stderr, err)
	}
	list := lib.Enzymes()
	if query != "" {
		list = lib.Find(query)
	}
	// no proteome here, so library patterns derive against a uniform background
	list, err = lib.WithPatterns(list, seqindex.Uniform(), enzyme.Params{
		HalfWidth:   o.HalfWidth,
		Threshold:   o.Threshold,
		Pseudocount: o.Pseudocount,
	})
	if err != nil {
		return fail(stderr, err)
	}
	if err := writers.WriteEnzymes(format, outw, list, header); err != nil {
		return fail(stderr, err)
	}
	if e := outw.Flush(); e != nil && !writers.IsBrokenPipe(e) {
		return fail(stderr, e)
	}
	if len(list) == 0 {
		return o.NoMatchExitCode
	}
	return ExitOK
}

// Proteins prints up to limit protein IDs from the peptide table whose ID
// contains filter.
func Proteins(ctx context.Context, stdout, stderr io.Writer, path, filter string, limit int, noMatch int) int {
	recs, err := peptide.Load(ctx, path)
	if err != nil {
		return fail(stderr, err)
	}
	ids := peptide.ProteinIDs(recs, filter, limit)
	outw := bufio.NewWriter(stdout)
	for _, id := range ids {
		fmt.Fprintln(outw, id)
	}
	if e := outw.Flush(); e != nil && !writers.IsBrokenPipe(e) {
		return fail(stderr, e)
	}
	if len(ids) == 0 {
		return noMatch
	}
	return ExitOK
}
