package tree

import (
	"strings"

	"gitlab.com/tozd/go/errors"
)

// Dump renders the tree with box-drawing guides, one node per line.
//
//	root
//	└─,
//	  ├─,
//	  │ ├─a
//	  │ └─b
//	  └─c
func (t *Tree) Dump() string {
	return t.DumpWith(nil)
}

// DumpWith is Dump with a hook to decorate each label, e.g. to highlight the
// focused node.
func (t *Tree) DumpWith(decorate func(id ID, label string) string) string {
	var sb strings.Builder
	t.dump(&sb, t.Root(), "", "", decorate)
	return sb.String()
}

func (t *Tree) dump(sb *strings.Builder, id ID, first, rest string, decorate func(ID, string) string) {
	label := t.Label(id)
	if decorate != nil {
		label = decorate(id, label)
	}
	sb.WriteString(first)
	sb.WriteString(label)
	sb.WriteByte('\n')

	children := t.nodes[id].Children
	for i, c := range children {
		if i < len(children)-1 {
			t.dump(sb, c, rest+"├─", rest+"│ ", decorate)
		} else {
			t.dump(sb, c, rest+"└─", rest+"  ", decorate)
		}
	}
}

func (t *Tree) Label(id ID) string {
	n := &t.nodes[id]
	if n.Kind == KindRoot {
		return "root"
	}
	return n.Text()
}

// Validate checks the structural invariants: a single root, consistent
// parent and index links, every node reachable once, and sibling spans that
// are ordered and never overlap.
func (t *Tree) Validate() error {
	if t.nodes[0].Parent != None {
		return errors.New("root has a parent")
	}

	seen := make([]bool, len(t.nodes))
	var walk func(id ID) error
	walk = func(id ID) error {
		if seen[id] {
			return errors.Errorf("node %d reached twice", id)
		}
		seen[id] = true

		n := &t.nodes[id]
		if id != t.Root() && len(n.Tokens) == 0 {
			return errors.Errorf("node %d has no tokens", id)
		}

		span := t.Span(id)
		prevEnd := -1
		for i, c := range n.Children {
			child := &t.nodes[c]
			if child.Parent != id {
				return errors.Errorf("node %d lists child %d whose parent is %d", id, c, child.Parent)
			}
			if child.Index != i {
				return errors.Errorf("node %d has index %d, want %d", c, child.Index, i)
			}
			cs := t.Span(c)
			if !span.Covers(cs) {
				return errors.Errorf("node %d span %s does not cover child %d span %s", id, span, c, cs)
			}
			if cs.Begin < prevEnd {
				return errors.Errorf("child %d span %s overlaps its previous sibling", c, cs)
			}
			prevEnd = cs.End
			if err := walk(c); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(t.Root()); err != nil {
		return err
	}

	for id, ok := range seen {
		if !ok {
			return errors.Errorf("node %d is detached from the root", id)
		}
	}
	return nil
}
