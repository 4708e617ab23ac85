// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"sync"

	"cleavr/core/aggregate"
	"cleavr/core/peptide"
	"cleavr/core/window"
)

// Attributor is the minimal capability the pipeline needs from an engine.
// Any engine (including fakes in tests) can satisfy this.
type Attributor interface {
	Process(r window.Record) []aggregate.MatchResult
}

// Config controls the batching pipeline.
type Config struct {
	Threads   int // number of worker goroutines (>=1)
	BatchSize int // peptides per job (>=1)
	HalfWidth int // S passed to window.Extract
}

// Batch is one completed job, delivered to visit in input order.
type Batch struct {
	Index   int
	Records []window.Record
	Matches []aggregate.MatchResult
	Partial *aggregate.Partial
}

// Run places every peptide with loc, attributes both windows with eng and
// returns the merged fold. visit (may be nil) sees each batch in input
// order from a single goroutine; a non-nil error from it stops the run.
// It returns the first error encountered, including context cancellation.
func Run(
	ctx context.Context,
	cfg Config,
	peps []peptide.Record,
	loc window.Locator,
	eng Attributor,
	visit func(Batch) error,
) (*aggregate.Partial, error) {
	if cfg.Threads < 1 {
		cfg.Threads = 1
	}
	if cfg.BatchSize < 1 {
		cfg.BatchSize = 1
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type job struct {
		idx  int
		peps []peptide.Record
	}
	jobs := make(chan job, cfg.Threads*2)
	results := make(chan Batch, cfg.Threads*2)

	// Workers
	var wg sync.WaitGroup
	wg.Add(cfg.Threads)
	for w := 0; w < cfg.Threads; w++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case j, ok := <-jobs:
					if !ok {
						return
					}
					b := Batch{
						Index:   j.idx,
						Records: make([]window.Record, 0, len(j.peps)),
						Partial: aggregate.NewPartial(),
					}
					for _, p := range j.peps {
						r := window.Extract(p, loc, cfg.HalfWidth)
						b.Records = append(b.Records, r)
						for _, m := range eng.Process(r) {
							b.Partial.Add(m)
							b.Matches = append(b.Matches, m)
						}
					}
					select {
					case results <- b:
					case <-ctx.Done():
						return
					}
				}
			}
		}()
	}

	// Collector: reorder buffer so merge order is input order.
	var (
		cerr  error
		cwg   sync.WaitGroup
		total = aggregate.NewPartial()
	)
	cwg.Add(1)
	go func() {
		defer cwg.Done()
		pending := make(map[int]Batch)
		next := 0
		for b := range results {
			if cerr != nil {
				continue
			}
			pending[b.Index] = b
			for {
				nb, ok := pending[next]
				if !ok {
					break
				}
				delete(pending, next)
				next++
				total.Merge(nb.Partial)
				if visit != nil {
					if err := visit(nb); err != nil {
						cerr = err
						cancel()
						break
					}
				}
			}
		}
	}()

	// Feed work
	idx := 0
feed:
	for start := 0; start < len(peps); start += cfg.BatchSize {
		end := start + cfg.BatchSize
		if end > len(peps) {
			end = len(peps)
		}
		select {
		case <-ctx.Done():
			break feed
		case jobs <- job{idx: idx, peps: peps[start:end]}:
			idx++
		}
	}

	close(jobs)
	wg.Wait()
	close(results)
	cwg.Wait()

	if cerr != nil {
		return nil, cerr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return total, nil
}
