// Package element moves comma separated elements without building a tree.
// It works on the raw buffer, so an element may span several lines.
package element

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/walteh/anyswap/pkg/buffer"
	"github.com/walteh/anyswap/pkg/navigator"
	"github.com/walteh/anyswap/pkg/position"
	"github.com/walteh/anyswap/pkg/swap"
)

// Plan finds the two elements around the nearest comma in dir: the element
// before it and the element after it.
func Plan(buf buffer.Buffer, dir navigator.Direction) (navigator.Pair, bool) {
	text := buf.Substring(position.NewRange(0, buf.Len()))
	cursor := min(max(buf.Cursor(), 0), len(text))

	comma, ok := findComma(text, cursor, dir)
	if !ok {
		return navigator.Pair{}, false
	}

	left, ok := scan(text, comma, navigator.Backward)
	if !ok {
		return navigator.Pair{}, false
	}
	right, ok := scan(text, comma+1, navigator.Forward)
	if !ok {
		return navigator.Pair{}, false
	}

	return navigator.Pair{Left: left, Right: right}, true
}

// Move swaps the elements Plan finds and moves the cursor with the element
// under it.
func Move(ctx context.Context, buf buffer.Buffer, dir navigator.Direction) bool {
	pair, ok := Plan(buf, dir)
	if !ok {
		zerolog.Ctx(ctx).Debug().Int("cursor", buf.Cursor()).Stringer("direction", dir).Msg("no element to move")
		return false
	}

	zerolog.Ctx(ctx).Debug().
		Stringer("left", pair.Left).
		Stringer("right", pair.Right).
		Stringer("direction", dir).
		Msg("moving element")
	return swap.Apply(buf, pair, dir)
}

// findComma returns the offset of the nearest comma from cursor. A comma
// reached through an odd number of quotes lies inside a string and is
// refused.
func findComma(text string, cursor int, dir navigator.Direction) (int, bool) {
	if dir == navigator.Forward {
		idx := strings.IndexByte(text[cursor:], ',')
		if idx < 0 {
			return 0, false
		}
		comma := cursor + idx
		return comma, !halfQuoted(text[cursor:comma])
	}

	comma := strings.LastIndexByte(text[:cursor], ',')
	if comma < 0 {
		return 0, false
	}
	return comma, !halfQuoted(text[comma+1 : cursor])
}

func halfQuoted(s string) bool {
	return strings.Count(s, `'`)%2 == 1 || strings.Count(s, `"`)%2 == 1
}

// scan walks from start in dir until a comma or an unbalanced bracket at the
// element's own level, and returns the element with surrounding whitespace
// trimmed.
func scan(text string, start int, dir navigator.Direction) (position.Range, bool) {
	forward := dir == navigator.Forward
	delta := 1
	if !forward {
		delta = -1
	}

	var m marks
	cur, head, tail := start, -1, start
	inWord := true
	for (forward && cur < len(text)) || (!forward && cur > 0) {
		c := text[cur]
		if !forward {
			c = text[cur-1]
		}

		if isSpace(c) {
			if inWord {
				inWord = false
				tail = cur
			}
			cur += delta
			continue
		}

		inWord = true
		if head < 0 {
			head = cur
		}
		if m.stop(c, forward) {
			break
		}
		cur += delta
		tail = cur
	}

	if !m.legal() || head < 0 {
		return position.Range{}, false
	}
	if forward {
		return position.NewRange(head, tail), tail > head
	}
	return position.NewRange(tail, head), head > tail
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// marks tracks bracket depth and open quotes while scanning.
type marks struct {
	paren, square, curly int
	single, double        bool
}

func (m *marks) legal() bool {
	return !m.single && !m.double
}

// stop feeds c to the marks and reports whether the scan ends before c.
// Brackets and commas inside a quoted string are ignored.
func (m *marks) stop(c byte, forward bool) bool {
	if m.single || m.double {
		if (m.single && c == '\'') || (m.double && c == '"') {
			m.single, m.double = false, false
		}
		return false
	}

	switch c {
	case '(':
		m.paren++
	case ')':
		m.paren--
	case '[':
		m.square++
	case ']':
		m.square--
	case '{':
		m.curly++
	case '}':
		m.curly--
	case '\'':
		m.single = true
		return false
	case '"':
		m.double = true
		return false
	}

	hi := max(m.paren, m.square, m.curly)
	lo := min(m.paren, m.square, m.curly)
	if forward {
		return hi <= 0 && (c == ',' || lo < 0)
	}
	return lo >= 0 && (c == ',' || hi > 0)
}
