package tree

import (
	"github.com/walteh/anyswap/pkg/lexer"
)

type pending struct {
	closer string
	node   ID
}

// Builder grows a tree one token at a time, left to right, with no
// lookahead. Its whole state is the current node and the stack of brackets
// waiting for their closers.
type Builder struct {
	tree  *Tree
	cur   ID
	stack []pending
}

func NewBuilder() *Builder {
	t := New()
	return &Builder{tree: t, cur: t.Root()}
}

// Build feeds every token to a fresh builder.
func Build(tokens []lexer.Token) *Tree {
	b := NewBuilder()
	for _, tok := range tokens {
		b.Add(tok)
	}
	return b.Tree()
}

func (b *Builder) Tree() *Tree {
	return b.tree
}

// Current is the node the next token will be related to.
func (b *Builder) Current() ID {
	return b.cur
}

func (b *Builder) Add(tok lexer.Token) {
	switch tok.Class {
	case lexer.ClassAtom:
		b.addAtom(tok)
	case lexer.ClassOpen:
		b.addOpen(tok)
	case lexer.ClassClose:
		if n := len(b.stack); n > 0 && b.stack[n-1].closer == tok.Text {
			b.close(tok)
			return
		}
		// a stray closer separates like a statement inside its scope
		tok.Class, tok.Rank = lexer.ClassInfix, lexer.RankStatement
		b.addInfix(tok)
	case lexer.ClassPrefix:
		b.addPrefix(tok)
	default:
		b.addInfix(tok)
	}
}

func (b *Builder) addAtom(tok lexer.Token) {
	cur := b.tree.Node(b.cur)
	if cur.Kind == KindAtom {
		cur.Tokens = append(cur.Tokens, tok)
		return
	}

	parent := b.cur
	if cur.Closed() {
		parent = cur.Parent
	}

	id := b.tree.newNode(Node{Kind: KindAtom, Rank: lexer.RankAtom, Tokens: []lexer.Token{tok}})
	b.tree.attach(parent, id)
	b.cur = id
}

func (b *Builder) addOpen(tok lexer.Token) {
	cur := b.tree.Node(b.cur)

	id := b.cur
	if cur.Closed() {
		// f(x), a[i], f(x)(y): the bracket belongs to what precedes it
		cur.Tokens = append(cur.Tokens, tok)
		cur.Kind = KindCall
		cur.Rank = lexer.RankScope
		cur.open = true
	} else {
		id = b.tree.newNode(Node{Kind: KindGroup, Rank: lexer.RankScope, Tokens: []lexer.Token{tok}, open: true})
		b.tree.attach(b.cur, id)
	}

	b.stack = append(b.stack, pending{closer: tok.Pair, node: id})
	b.cur = id
}

func (b *Builder) close(tok lexer.Token) {
	top := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]

	n := b.tree.Node(top.node)
	n.Tokens = append(n.Tokens, tok)
	n.Rank = lexer.RankAtom
	n.open = false
	b.cur = top.node
}

// addInfix climbs while the node binds at least as tight as tok, then splits
// the stop node's last child off as the left operand. Equal ranks stop one
// level higher than a weaker rank would, which yields left-leaning chains.
// With no finished operand before it, as in "-b" or "x = -1", the operator
// starts a new operand of the current node instead.
func (b *Builder) addInfix(tok lexer.Token) {
	id := b.tree.newNode(Node{Kind: KindInfix, Rank: tok.Rank, Fixed: tok.Fixed, Tokens: []lexer.Token{tok}})

	if !b.tree.Node(b.cur).Closed() {
		b.tree.attach(b.cur, id)
		b.cur = id
		return
	}

	n := b.cur
	for n != b.tree.Root() && b.tree.Node(n).Rank >= tok.Rank {
		n = b.tree.Parent(n)
	}

	if last := b.tree.detachLast(n); last != None {
		b.tree.attach(id, last)
	}
	b.tree.attach(n, id)
	b.cur = id
}

// addPrefix opens a scope below whatever is waiting for an operand. The
// scope is closed later by addInfix once a same-or-weaker operator arrives.
func (b *Builder) addPrefix(tok lexer.Token) {
	n := b.cur
	for b.tree.Node(n).Closed() {
		n = b.tree.Parent(n)
	}

	id := b.tree.newNode(Node{Kind: KindPrefix, Rank: tok.Rank, Fixed: tok.Fixed, Tokens: []lexer.Token{tok}})
	b.tree.attach(n, id)
	b.cur = id
}
