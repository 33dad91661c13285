// Package navigator finds the node under a cursor and the neighbor it swaps
// with.
package navigator

import (
	"github.com/walteh/anyswap/pkg/position"
	"github.com/walteh/anyswap/pkg/tree"
)

type Direction int

const (
	Forward Direction = iota
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// Pair is two ordered, disjoint ranges to exchange.
type Pair struct {
	Left  position.Range
	Right position.Range
}

// Locate returns the deepest node whose span contains offset, taking the
// first matching child at each level. Offsets that no child contains land on
// the root. An empty tree yields None.
func Locate(t *tree.Tree, offset int) tree.ID {
	if t.Empty() {
		return tree.None
	}

	id := t.Root()
	for {
		next := tree.None
		for _, c := range t.Node(id).Children {
			if t.Span(c).Contains(offset) {
				next = c
				break
			}
		}
		if next == tree.None {
			return id
		}
		id = next
	}
}

// Right pairs id with the node after it. When id is the last child, or its
// parent keeps its operands in place, the search widens to the parent; if the
// parent is a link of an equal-rank chain the left side stays pinned to id.
func Right(t *tree.Tree, id tree.ID) (left, right tree.ID) {
	parent := t.Parent(id)
	if parent == tree.None {
		return id, tree.None
	}

	if next := t.Child(parent, t.Node(id).Index+1); next != tree.None && swappable(t, parent) && movable(t, next) {
		return id, next
	}

	left, right = Right(t, parent)
	if chained(t, parent) && movable(t, id) {
		return id, right
	}
	return left, right
}

// Left pairs id with the node before it. A preceding sibling that heads an
// equal-rank chain is entered so the partner is the chain's last element.
func Left(t *tree.Tree, id tree.ID) (left, right tree.ID) {
	parent := t.Parent(id)
	if parent == tree.None {
		return tree.None, id
	}

	if idx := t.Node(id).Index; idx > 0 && swappable(t, parent) {
		prev := t.Child(parent, idx-1)
		if sameChain(t, prev, parent) {
			prev = t.Child(prev, -1)
		}
		if movable(t, prev) && movable(t, id) {
			return prev, id
		}
	}

	left, right = Left(t, parent)
	if chained(t, parent) && movable(t, id) {
		return left, id
	}
	return left, right
}

// swappable reports whether the children of id may trade places.
func swappable(t *tree.Tree, id tree.ID) bool {
	n := t.Node(id)
	return len(n.Children) >= 2 && !n.Fixed.Operands()
}

// movable reports whether id may be one side of a swap.
func movable(t *tree.Tree, id tree.ID) bool {
	return !t.Node(id).Fixed.Whole()
}

// chained reports whether id and its parent are infix links of one rank.
func chained(t *tree.Tree, id tree.ID) bool {
	parent := t.Parent(id)
	if parent == tree.None {
		return false
	}
	return sameChain(t, id, parent)
}

func sameChain(t *tree.Tree, a, b tree.ID) bool {
	na, nb := t.Node(a), t.Node(b)
	return na.Kind == tree.KindInfix && nb.Kind == tree.KindInfix && na.Rank == nb.Rank && len(na.Children) > 0
}

// Resolve finds the ranges to exchange for a swap at offset. It reports
// false when there is nothing to swap.
func Resolve(t *tree.Tree, offset int, dir Direction) (Pair, bool) {
	focus := Locate(t, offset)
	if focus == tree.None || focus == t.Root() {
		return Pair{}, false
	}

	if n := t.Node(focus); n.Kind == tree.KindAtom && n.Parent == t.Root() {
		return withinLeaf(n, offset, dir)
	}

	var left, right tree.ID
	if dir == Forward {
		left, right = Right(t, focus)
	} else {
		left, right = Left(t, focus)
	}

	if left == tree.None || right == tree.None || left == t.Root() || right == t.Root() {
		return Pair{}, false
	}
	if !movable(t, left) || !movable(t, right) {
		return Pair{}, false
	}

	// a bracket group only trades places with another bracket group
	if isGroup(t, left) != isGroup(t, right) {
		return Pair{}, false
	}

	pair := Pair{Left: t.Span(left), Right: t.Span(right)}
	if !pair.Left.Precedes(pair.Right) {
		return Pair{}, false
	}
	return pair, true
}

// isGroup leaves calls out: "f(x)" reads as one operand, like an atom.
func isGroup(t *tree.Tree, id tree.ID) bool {
	return t.Node(id).Kind == tree.KindGroup
}

// withinLeaf swaps raw tokens of a merged leaf that has no structure around
// it, e.g. the two words of "foo bar".
func withinLeaf(n *tree.Node, offset int, dir Direction) (Pair, bool) {
	at := -1
	for i, tok := range n.Tokens {
		if tok.Range.Contains(offset) {
			at = i
			break
		}
	}
	if at < 0 {
		return Pair{}, false
	}

	other := at + 1
	if dir == Backward {
		other = at - 1
	}
	if other < 0 || other >= len(n.Tokens) {
		return Pair{}, false
	}

	lo, hi := at, other
	if lo > hi {
		lo, hi = hi, lo
	}
	return Pair{Left: n.Tokens[lo].Range, Right: n.Tokens[hi].Range}, true
}
