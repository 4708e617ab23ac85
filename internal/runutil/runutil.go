// internal/runutil/runutil.go
package runutil

import (
	"runtime"

	"github.com/klauspost/cpuid"
	"github.com/pbnjay/memory"
)

// DefaultThreads picks a worker count: physical cores when cpuid can tell
// (hyperthreads add little to the trie walk), else GOMAXPROCS.
func DefaultThreads() int {
	n := runtime.GOMAXPROCS(0)
	if cpuid.CPU.ThreadsPerCore > 1 {
		if cores := n / cpuid.CPU.ThreadsPerCore; cores > 0 {
			n = cores
		}
	}
	if n < 1 {
		n = 1
	}
	return n
}

// DefaultBatchSize sizes peptide batches from total RAM: 512 rows per GiB,
// clamped to [256, 8192]. Zero (unknown) RAM yields the floor.
func DefaultBatchSize() int {
	return batchSizeFor(memory.TotalMemory())
}

func batchSizeFor(total uint64) int {
	const gib = 1 << 30
	n := int(total/gib) * 512
	switch {
	case n < 256:
		return 256
	case n > 8192:
		return 8192
	}
	return n
}

// ResolveThreads maps a non-positive request to DefaultThreads.
func ResolveThreads(n int) int {
	if n > 0 {
		return n
	}
	return DefaultThreads()
}

// ResolveBatchSize maps a non-positive request to DefaultBatchSize.
func ResolveBatchSize(n int) int {
	if n > 0 {
		return n
	}
	return DefaultBatchSize()
}
