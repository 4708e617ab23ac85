// Package writers turns attribution results into serialized outputs.
//
// Design:
//   - Writers own all presentation knowledge (TSV rows, motif blocks, JSON/JSONL).
//   - Engine stays domain-only; Pipeline stays orchestration-only.
//   - JSON/JSONL go through pkg/api (v1) for a stable wire format.
//   - Formats are looked up in registries, so callers never switch on them.
package writers
