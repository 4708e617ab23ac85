// Package pipeline fans peptide batches out to workers that place each
// peptide, cut its windows and attribute them, then merges the per-batch
// folds back in batch order so the outcome never depends on thread count.
//
// The only contract to implement is Attributor (Process). This keeps the
// pipeline swappable and testable.
package pipeline
