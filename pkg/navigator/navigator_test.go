package navigator_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/anyswap/pkg/lexer"
	"github.com/walteh/anyswap/pkg/navigator"
	"github.com/walteh/anyswap/pkg/position"
	"github.com/walteh/anyswap/pkg/tree"
)

func parse(line string) *tree.Tree {
	return tree.Build(lexer.Default.Tokenize(line, 0))
}

// texts renders a pair as the two substrings it would exchange.
func texts(line string, p navigator.Pair) [2]string {
	return [2]string{p.Left.Text(line), p.Right.Text(line)}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		cursor string // the line with a | marking the cursor
		dir    navigator.Direction
		want   [2]string
		noSwap bool
	}{
		{name: "list forward", cursor: "a, |b, c", dir: navigator.Forward, want: [2]string{"b", "c"}},
		{name: "list backward", cursor: "a, |b, c", dir: navigator.Backward, want: [2]string{"a", "b"}},
		{name: "list tail backward", cursor: "a, b, |c", dir: navigator.Backward, want: [2]string{"b", "c"}},
		{name: "list tail forward", cursor: "a, b, |c", dir: navigator.Forward, noSwap: true},
		{name: "list head backward", cursor: "|a, b, c", dir: navigator.Backward, noSwap: true},
		{name: "operand", cursor: "x = |a + b", dir: navigator.Forward, want: [2]string{"a", "b"}},
		{name: "groups", cursor: "|(a, b), (c, d)", dir: navigator.Forward, want: [2]string{"(a, b)", "(c, d)"}},
		{name: "inside a group", cursor: "(|a, b), (c, d)", dir: navigator.Forward, want: [2]string{"a", "b"}},
		{name: "group with atom", cursor: "|(a, b), c", dir: navigator.Forward, noSwap: true},
		{name: "atom with group", cursor: "c, |(a, b)", dir: navigator.Backward, noSwap: true},
		{name: "calls are atoms", cursor: "|f(x), g(y)", dir: navigator.Forward, want: [2]string{"f(x)", "g(y)"}},
		{name: "call with atom", cursor: "|f(x), y", dir: navigator.Forward, want: [2]string{"f(x)", "y"}},
		{name: "argument inside a call", cursor: "f(a, |b, c)", dir: navigator.Forward, want: [2]string{"b", "c"}},
		{name: "single atom forward", cursor: "|a", dir: navigator.Forward, noSwap: true},
		{name: "single atom backward", cursor: "a|", dir: navigator.Backward, noSwap: true},
		{name: "words of one leaf", cursor: "|foo bar", dir: navigator.Forward, want: [2]string{"foo", "bar"}},
		{name: "words of one leaf backward", cursor: "foo b|ar", dir: navigator.Backward, want: [2]string{"foo", "bar"}},
		{name: "first word backward", cursor: "f|oo bar", dir: navigator.Backward, noSwap: true},
		{name: "leading whitespace", cursor: "| a, b", dir: navigator.Forward, noSwap: true},
		{name: "empty line", cursor: "|", dir: navigator.Forward, noSwap: true},
		{name: "prefix operand moves as a whole", cursor: "not |a and b", dir: navigator.Forward, want: [2]string{"not a", "b"}},
		{name: "inside a prefix scope", cursor: "return |a, b", dir: navigator.Forward, want: [2]string{"a", "b"}},
		{name: "key and value", cursor: "if |a: b", dir: navigator.Forward, want: [2]string{"a", "b"}},
		{name: "widens past a finished operand", cursor: "x = 1|, y = 2", dir: navigator.Forward, want: [2]string{"x = 1", "y = 2"}},
		{name: "signed argument", cursor: "f(|a, -b)", dir: navigator.Forward, want: [2]string{"a", "-b"}},
		{name: "signed operand", cursor: "a = b * -|c", dir: navigator.Backward, want: [2]string{"b", "-c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offset := strings.Index(tt.cursor, "|")
			require.GreaterOrEqual(t, offset, 0, "cursor marker missing")
			line := strings.Replace(tt.cursor, "|", "", 1)

			pair, ok := navigator.Resolve(parse(line), offset, tt.dir)
			if tt.noSwap {
				assert.False(t, ok, "unexpected pair %v", texts(line, pair))
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.want, texts(line, pair))
			assert.True(t, pair.Left.Precedes(pair.Right))
		})
	}
}

func TestPairRanges(t *testing.T) {
	pair, ok := navigator.Resolve(parse("(a, b), (c, d)"), 0, navigator.Forward)
	require.True(t, ok)
	assert.Equal(t, navigator.Pair{Left: position.NewRange(0, 6), Right: position.NewRange(8, 14)}, pair)
}

func TestLongChain(t *testing.T) {
	line := "a, b, c, d"
	tr := parse(line)

	tests := []struct {
		offset int
		dir    navigator.Direction
		want   [2]string
	}{
		{0, navigator.Forward, [2]string{"a", "b"}},
		{3, navigator.Forward, [2]string{"b", "c"}},
		{6, navigator.Forward, [2]string{"c", "d"}},
		{3, navigator.Backward, [2]string{"a", "b"}},
		{6, navigator.Backward, [2]string{"b", "c"}},
		{9, navigator.Backward, [2]string{"c", "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.dir.String()+" "+line[tt.offset:tt.offset+1], func(t *testing.T) {
			pair, ok := navigator.Resolve(tr, tt.offset, tt.dir)
			require.True(t, ok)
			assert.Equal(t, tt.want, texts(line, pair))
		})
	}
}

func TestFlatBinary(t *testing.T) {
	for _, line := range []string{"a + b", "a == b", "k: v", "a or b", "a < b", "a * b"} {
		t.Run(line, func(t *testing.T) {
			tr := parse(line)
			op := tr.Child(tr.Root(), 0)
			require.Equal(t, tree.KindInfix, tr.Node(op).Kind)

			lhs, rhs := tr.Child(op, 0), tr.Child(op, 1)

			l, r := navigator.Right(tr, lhs)
			assert.Equal(t, lhs, l)
			assert.Equal(t, rhs, r)

			l, r = navigator.Left(tr, rhs)
			assert.Equal(t, lhs, l)
			assert.Equal(t, rhs, r)
		})
	}
}

func TestFixedOperatorsHoldStill(t *testing.T) {
	tests := []struct {
		name   string
		cursor string
		dir    navigator.Direction
	}{
		{name: "assignment target", cursor: "|x = a.b", dir: navigator.Forward},
		{name: "assignment value", cursor: "x = |a", dir: navigator.Backward},
		{name: "compound assignment", cursor: "x += |y", dir: navigator.Backward},
		{name: "member object", cursor: "x = |a.b", dir: navigator.Forward},
		{name: "member name", cursor: "x = a.|b", dir: navigator.Backward},
		{name: "first statement", cursor: "|a = 1; b = 2", dir: navigator.Forward},
		{name: "second statement", cursor: "a = 1; |b = 2", dir: navigator.Backward},
		{name: "signed assignment value", cursor: "x = -|1", dir: navigator.Backward},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offset := strings.Index(tt.cursor, "|")
			line := strings.Replace(tt.cursor, "|", "", 1)

			pair, ok := navigator.Resolve(parse(line), offset, tt.dir)
			assert.False(t, ok, "unexpected pair %v", texts(line, pair))
		})
	}
}

func TestListIsNeverASide(t *testing.T) {
	// a stray closer separates like a statement but leaves its operands free
	line := "a, b ] c"
	tr := parse(line)

	pair, ok := navigator.Resolve(tr, 7, navigator.Backward)
	assert.False(t, ok, "unexpected pair %v", texts(line, pair))

	pair, ok = navigator.Resolve(tr, 3, navigator.Forward)
	assert.False(t, ok, "unexpected pair %v", texts(line, pair))

	pair, ok = navigator.Resolve(tr, 0, navigator.Forward)
	require.True(t, ok)
	assert.Equal(t, [2]string{"a", "b"}, texts(line, pair))
}

func TestLocate(t *testing.T) {
	line := "x = f(a, b) + c"
	tr := parse(line)

	tests := []struct {
		offset int
		want   string
	}{
		{0, "x"},
		{1, "x"},
		{2, "="},
		{4, "f()"},
		{6, "a"},
		{7, "a"},
		{8, ","},
		{12, "+"},
		{14, "c"},
		{15, "c"},
	}

	for _, tt := range tests {
		id := navigator.Locate(tr, tt.offset)
		require.NotEqual(t, tree.None, id)
		assert.Equal(t, tt.want, tr.Label(id), "offset %d", tt.offset)
	}

	assert.Equal(t, tree.None, navigator.Locate(parse("   "), 1))
}

func TestLocateIsTotal(t *testing.T) {
	lines := []string{
		"a, b, c",
		"  x = (a + b) * c  ",
		`if a == "x" and not b: return c, d`,
		"f(a, [b, {c: d}]) .g",
		"((a ] b",
		"foo bar baz",
	}

	for _, line := range lines {
		t.Run(line, func(t *testing.T) {
			tr := parse(line)
			bounds := position.LineBounds(line, 0)
			for off := bounds.Begin; off <= bounds.End; off++ {
				id := navigator.Locate(tr, off)
				require.NotEqual(t, tree.None, id, "offset %d", off)
				if id != tr.Root() {
					assert.True(t, tr.Span(id).Contains(off), "offset %d outside %s", off, tr.Label(id))
				}
				for _, c := range tr.Node(id).Children {
					assert.False(t, tr.Span(c).Contains(off), "offset %d has a deeper match", off)
				}
			}
		})
	}
}

func TestDirectionString(t *testing.T) {
	assert.Equal(t, "forward", navigator.Forward.String())
	assert.Equal(t, "backward", navigator.Backward.String())
}
