// Package tree holds the precedence tree built from one line of tokens.
//
// Nodes live in an arena owned by the Tree and refer to each other by ID, so
// parent back-references need no pointer bookkeeping. A tree is built for one
// operation and dropped as a unit.
package tree

import (
	"strings"

	"github.com/walteh/anyswap/pkg/lexer"
	"github.com/walteh/anyswap/pkg/position"
)

// ID addresses a node in its tree's arena.
type ID int

// None is the absent node.
const None ID = -1

type Kind int

const (
	KindRoot Kind = iota
	// KindAtom is a leaf of one or more adjacent atom tokens.
	KindAtom
	// KindGroup is a bracket pair that does not follow an atom, e.g. "(a, b)".
	KindGroup
	// KindCall is a bracket pair merged onto what precedes it, e.g. "f(x)" or "a[i]".
	KindCall
	// KindPrefix is a keyword scope such as "not" or "return".
	KindPrefix
	// KindInfix is a binary operator or separator.
	KindInfix
)

func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindAtom:
		return "atom"
	case KindGroup:
		return "group"
	case KindCall:
		return "call"
	case KindPrefix:
		return "prefix"
	case KindInfix:
		return "infix"
	default:
		return "unknown"
	}
}

type Node struct {
	Tokens   []lexer.Token
	Kind     Kind
	Rank     lexer.Rank
	Parent   ID
	Children []ID
	// Index is the position of the node among its parent's children.
	Index int
	// Fixed comes from the operator token of an infix or prefix node.
	Fixed lexer.Fixed

	open bool
}

// Closed reports whether the node is finished: an atom, or a bracket pair
// whose closer has been seen.
func (n *Node) Closed() bool {
	switch n.Kind {
	case KindAtom:
		return true
	case KindGroup, KindCall:
		return !n.open
	default:
		return false
	}
}

// Open reports whether the node is a bracket pair still waiting for its closer.
func (n *Node) Open() bool {
	return n.open
}

// Text renders the node's own tokens. Merged atoms keep a single space where
// the source had a gap; brackets are written tight.
func (n *Node) Text() string {
	var sb strings.Builder
	for i, tok := range n.Tokens {
		if i > 0 {
			prev := n.Tokens[i-1]
			if prev.Class == lexer.ClassAtom && tok.Class == lexer.ClassAtom && tok.Range.Begin > prev.Range.End {
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(tok.Text)
	}
	return sb.String()
}

type Tree struct {
	nodes []Node
}

// New returns a tree holding only the synthetic root.
func New() *Tree {
	return &Tree{
		nodes: []Node{{Kind: KindRoot, Rank: lexer.RankRoot, Parent: None}},
	}
}

func (t *Tree) Root() ID {
	return 0
}

func (t *Tree) Len() int {
	return len(t.nodes)
}

// Empty reports whether the root has no children.
func (t *Tree) Empty() bool {
	return len(t.nodes[0].Children) == 0
}

func (t *Tree) Node(id ID) *Node {
	return &t.nodes[id]
}

func (t *Tree) Parent(id ID) ID {
	return t.nodes[id].Parent
}

// Child returns the i-th child of id, counting from the end when i is
// negative. It returns None when there is no such child.
func (t *Tree) Child(id ID, i int) ID {
	children := t.nodes[id].Children
	if i < 0 {
		i += len(children)
	}
	if i < 0 || i >= len(children) {
		return None
	}
	return children[i]
}

// Span is the range covered by the node's tokens and all its descendants.
// The span of an empty root is the zero range.
func (t *Tree) Span(id ID) position.Range {
	span, _ := t.span(id)
	return span
}

func (t *Tree) span(id ID) (position.Range, bool) {
	n := &t.nodes[id]
	var out position.Range
	ok := false
	for _, tok := range n.Tokens {
		if !ok {
			out, ok = tok.Range, true
			continue
		}
		out = out.Union(tok.Range)
	}
	for _, c := range n.Children {
		cs, cok := t.span(c)
		if !cok {
			continue
		}
		if !ok {
			out, ok = cs, true
			continue
		}
		out = out.Union(cs)
	}
	return out, ok
}

func (t *Tree) newNode(n Node) ID {
	n.Parent = None
	t.nodes = append(t.nodes, n)
	return ID(len(t.nodes) - 1)
}

func (t *Tree) attach(parent, child ID) {
	p := &t.nodes[parent]
	c := &t.nodes[child]
	c.Parent = parent
	c.Index = len(p.Children)
	p.Children = append(p.Children, child)
}

func (t *Tree) detachLast(parent ID) ID {
	p := &t.nodes[parent]
	if len(p.Children) == 0 {
		return None
	}
	last := p.Children[len(p.Children)-1]
	p.Children = p.Children[:len(p.Children)-1]
	t.nodes[last].Parent = None
	t.nodes[last].Index = 0
	return last
}
