// Package swap exchanges two ranges of a buffer.
package swap

import (
	"github.com/walteh/anyswap/pkg/buffer"
	"github.com/walteh/anyswap/pkg/navigator"
	"github.com/walteh/anyswap/pkg/position"
)

// Exchange swaps the text of left and right. It does nothing and returns
// false unless both ranges lie inside the buffer and left ends before right
// begins.
//
// The right range is rewritten first so the left range's offsets are still
// valid for the second edit.
func Exchange(buf buffer.Buffer, left, right position.Range) bool {
	if !valid(buf, left) || !valid(buf, right) || !left.Precedes(right) {
		return false
	}

	leftText := buf.Substring(left)
	rightText := buf.Substring(right)

	buf.Replace(right, leftText)
	buf.Replace(left, rightText)
	return true
}

// Apply exchanges the pair and moves the cursor with the element that
// travelled: to the end of the right region going forward, to the start of
// the left region going backward.
func Apply(buf buffer.Buffer, pair navigator.Pair, dir navigator.Direction) bool {
	if !Exchange(buf, pair.Left, pair.Right) {
		return false
	}

	if dir == navigator.Forward {
		buf.SetCursor(pair.Right.End)
	} else {
		buf.SetCursor(pair.Left.Begin)
	}
	return true
}

func valid(buf buffer.Buffer, r position.Range) bool {
	return 0 <= r.Begin && r.Begin <= r.End && r.End <= buf.Len()
}
