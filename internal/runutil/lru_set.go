// internal/runutil/lru_set.go
package runutil

import "container/list"

// LRUSet is a size-bounded set with O(1) hit/insert and LRU eviction. The
// unmatched-peptide warner uses it to report each sequence once without
// holding every sequence of a large table.
type LRUSet[K comparable] struct {
	cap int
	ll  *list.List
	m   map[K]*list.Element
}

// NewLRUSet returns a set holding at most capacity keys (<=0: 4096).
func NewLRUSet[K comparable](capacity int) *LRUSet[K] {
	if capacity <= 0 {
		capacity = 4096
	}
	return &LRUSet[K]{cap: capacity, ll: list.New(), m: make(map[K]*list.Element, capacity)}
}

// Seen inserts k and reports whether it was already present.
func (s *LRUSet[K]) Seen(k K) bool {
	if e, ok := s.m[k]; ok {
		s.ll.MoveToFront(e)
		return true
	}
	s.m[k] = s.ll.PushFront(k)
	if s.ll.Len() > s.cap {
		if tail := s.ll.Back(); tail != nil {
			s.ll.Remove(tail)
			delete(s.m, tail.Value.(K))
		}
	}
	return false
}

// Len returns the number of keys held.
func (s *LRUSet[K]) Len() int { return s.ll.Len() }
