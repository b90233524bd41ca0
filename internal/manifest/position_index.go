package manifest

import "sort"

// PositionIndex answers "which node is at this position" queries in
// O(log N) via binary search over a start-sorted array, rebuilt in full on
// every reparse (see symbol_tree.go). It never supports incremental edits:
// correctness derives entirely from the full rebuild on each reparse.
type PositionIndex struct {
	byStart []*Node // sorted by (start line, start column)
}

// Build constructs a PositionIndex over nodes, sorting a copy by start.
func Build(nodes []*Node) *PositionIndex {
	byStart := make([]*Node, len(nodes))
	copy(byStart, nodes)
	sort.Slice(byStart, func(i, j int) bool {
		a, b := byStart[i].Range.Start, byStart[j].Range.Start
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Character < b.Character
	})
	return &PositionIndex{byStart: byStart}
}

// filter selects among otherwise-equal candidates; any/key/value queries
// all share FindNarrowest, differing only in this predicate.
type filter func(*Node) bool

func anyNode(*Node) bool   { return true }
func keyNode(n *Node) bool { return n.IsKey() }
func valNode(n *Node) bool { return n.IsValue() }

// FindNarrowest returns the narrowest node containing pos, or nil. Ties are
// broken in favor of key nodes. Only nodes passing keep are considered.
func (idx *PositionIndex) FindNarrowest(pos Position, keep filter) *Node {
	// Rightmost index whose start <= pos.
	i := sort.Search(len(idx.byStart), func(i int) bool {
		return !startsBeforeOrAt(idx.byStart[i].Range.Start, pos)
	}) - 1
	if i < 0 {
		return nil
	}

	var best *Node
	// byStart is sorted ascending by start, so every index j <= i also
	// starts at or before pos; a multi-line node far back can still
	// contain pos, so the whole prefix is a candidate set, not just a
	// bounded backward window.
	for j := i; j >= 0; j-- {
		n := idx.byStart[j]
		if !contains(n.Range, pos) {
			continue
		}
		if !keep(n) {
			continue
		}
		if best == nil || better(n, best) {
			best = n
		}
	}
	return best
}

func startsBeforeOrAt(start, pos Position) bool {
	if start.Line != pos.Line {
		return start.Line < pos.Line
	}
	return start.Character <= pos.Character
}

func contains(r Range, pos Position) bool {
	if pos.Line < r.Start.Line || pos.Line > r.End.Line {
		return false
	}
	if pos.Line == r.Start.Line && pos.Character < r.Start.Character {
		return false
	}
	if pos.Line == r.End.Line && pos.Character >= r.End.Character {
		return false
	}
	return true
}

// better reports whether candidate beats incumbent: narrower width wins;
// equal width prefers key nodes over value nodes.
func better(candidate, incumbent *Node) bool {
	cw, iw := candidate.Range.width(), incumbent.Range.width()
	if cw != iw {
		return cw < iw
	}
	if candidate.IsKey() && !incumbent.IsKey() {
		return true
	}
	return false
}
