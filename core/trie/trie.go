// Package trie stores enzyme cleavage patterns in a prefix tree over the
// amino-acid alphabet plus a wildcard, one level per window position, and
// returns every enzyme whose pattern a window satisfies.
//
// Nodes live in an arena addressed by int32 index. Inserts are
// copy-on-write: a slot that expands to many residues points all of them at
// one shared continuation, so negated slots ("!P" = 19 residues) do not
// multiply the tree. Build interns identical subtrees once all patterns are
// in.
package trie

import (
	"encoding/binary"
	"fmt"

	"cleavr/core/residue"
)

// wildSlot is the child index of the wildcard edge.
const wildSlot = residue.Size

type node struct {
	next   [residue.Size + 1]int32 // 0 = absent; index wildSlot = wildcard edge
	labels []int32                 // set on leaves only, insertion order
}

// Trie is a fixed-depth pattern tree. Read-only once built; Match is safe
// for concurrent use.
type Trie struct {
	depth  int
	nodes  []node // nodes[0] is the absent/empty sentinel
	root   int32
	labels []string
	lidx   map[string]int32
}

// Entry pairs a pattern with the label reported on a match.
type Entry struct {
	Label   string
	Pattern Pattern
}

// New returns an empty trie for patterns of the given depth.
func New(depth int) *Trie {
	return &Trie{depth: depth, nodes: make([]node, 1), lidx: make(map[string]int32)}
}

// Build inserts all entries in order and compacts the arena. Entries with an
// all-wildcard pattern are skipped and reported back.
func Build(depth int, entries []Entry) (*Trie, []string, error) {
	t := New(depth)
	var skipped []string
	for _, e := range entries {
		if e.Pattern.IsWild() {
			skipped = append(skipped, e.Label)
			continue
		}
		if err := t.Insert(e.Pattern, e.Label); err != nil {
			return nil, skipped, fmt.Errorf("%s: %w", e.Label, err)
		}
	}
	t.Compact()
	return t, skipped, nil
}

// Depth returns the pattern length the trie accepts.
func (t *Trie) Depth() int { return t.depth }

// Labels returns every inserted label in insertion order.
func (t *Trie) Labels() []string { return append([]string(nil), t.labels...) }

// Size returns the number of live nodes (after Compact).
func (t *Trie) Size() int { return len(t.nodes) - 1 }

// Insert adds pattern under label. A wildcard slot adds a single wildcard
// edge; any other slot adds one edge per admitted residue, negations
// expanded against the full alphabet.
func (t *Trie) Insert(p Pattern, label string) error {
	if len(p) != t.depth {
		return fmt.Errorf("pattern length %d, trie depth %d", len(p), t.depth)
	}
	lid, ok := t.lidx[label]
	if !ok {
		lid = int32(len(t.labels))
		t.labels = append(t.labels, label)
		t.lidx[label] = lid
	}
	masks := make([]uint32, len(p))
	wild := make([]bool, len(p))
	for i, s := range p {
		wild[i] = s.IsWild()
		masks[i] = s.Mask()
		if !wild[i] && masks[i] == 0 {
			return fmt.Errorf("position %d admits no residue", i+1)
		}
	}
	memo := make(map[[2]int32]int32)
	t.root = t.insert(t.root, 0, masks, wild, lid, memo)
	return nil
}

// insert returns a new node equal to n plus the suffix starting at depth.
// Nodes are never modified after creation, so sharing is safe.
func (t *Trie) insert(n int32, depth int, masks []uint32, wild []bool, lid int32, memo map[[2]int32]int32) int32 {
	key := [2]int32{n, int32(depth)}
	if out, ok := memo[key]; ok {
		return out
	}
	cp := node{next: t.nodes[n].next}
	if depth == t.depth {
		cp.labels = append(make([]int32, 0, len(t.nodes[n].labels)+1), t.nodes[n].labels...)
		if !containsLabel(cp.labels, lid) {
			cp.labels = append(cp.labels, lid)
		}
	} else if wild[depth] {
		cp.next[wildSlot] = t.insert(cp.next[wildSlot], depth+1, masks, wild, lid, memo)
	} else {
		m := masks[depth]
		for s := 0; s < residue.Size; s++ {
			if m&(1<<uint(s)) != 0 {
				cp.next[s] = t.insert(cp.next[s], depth+1, masks, wild, lid, memo)
			}
		}
	}
	t.nodes = append(t.nodes, cp)
	out := int32(len(t.nodes) - 1)
	memo[key] = out
	return out
}

func containsLabel(ls []int32, l int32) bool {
	for _, x := range ls {
		if x == l {
			return true
		}
	}
	return false
}

// Match walks every path the window admits: at each level the residue's own
// edge first, then the wildcard edge. Labels come back deduplicated in
// first-reached order, which is the candidate order callers rely on for
// tie-breaking. Symbols outside the alphabet follow wildcard edges only.
func (t *Trie) Match(window string) []string {
	if len(window) != t.depth || t.root == 0 {
		return nil
	}
	var (
		out  []string
		seen map[int32]struct{}
	)
	var walk func(n int32, depth int)
	walk = func(n int32, depth int) {
		nd := &t.nodes[n]
		if depth == t.depth {
			for _, l := range nd.labels {
				if seen == nil {
					seen = make(map[int32]struct{}, 4)
				}
				if _, dup := seen[l]; dup {
					continue
				}
				seen[l] = struct{}{}
				out = append(out, t.labels[l])
			}
			return
		}
		if ix := residue.Index(window[depth]); ix >= 0 {
			if c := nd.next[ix]; c != 0 {
				walk(c, depth+1)
			}
		}
		if c := nd.next[wildSlot]; c != 0 {
			walk(c, depth+1)
		}
	}
	walk(t.root, 0)
	return out
}

// Compact drops unreachable nodes left behind by copy-on-write inserts and
// merges structurally identical subtrees.
func (t *Trie) Compact() {
	if t.root == 0 {
		t.nodes = t.nodes[:1]
		return
	}
	fresh := make([]node, 1, len(t.nodes)/2+1)
	canon := make(map[string]int32)
	done := make(map[int32]int32)

	var visit func(n int32) int32
	visit = func(n int32) int32 {
		if n == 0 {
			return 0
		}
		if id, ok := done[n]; ok {
			return id
		}
		var cp node
		for s, c := range t.nodes[n].next {
			cp.next[s] = visit(c)
		}
		cp.labels = t.nodes[n].labels
		k := nodeKey(&cp)
		id, ok := canon[k]
		if !ok {
			fresh = append(fresh, cp)
			id = int32(len(fresh) - 1)
			canon[k] = id
		}
		done[n] = id
		return id
	}
	t.root = visit(t.root)
	t.nodes = fresh
}

func nodeKey(n *node) string {
	buf := make([]byte, 0, 4*(len(n.next)+len(n.labels)+1))
	for _, c := range n.next {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(c))
	}
	buf = append(buf, '|')
	for _, l := range n.labels {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(l))
	}
	return string(buf)
}
