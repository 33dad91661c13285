package position

import (
	"fmt"
	"strings"

	"github.com/apparentlymart/go-textseg/v13/textseg"
	"gitlab.com/tozd/go/errors"
)

// Place is a zero-based line and column. Columns count grapheme clusters,
// which is what an editor shows as one character.
type Place struct {
	Line      int
	Character int
}

// Range is a half-open byte range [Begin, End) in a buffer.
type Range struct {
	Begin int
	End   int
}

func NewRange(begin, end int) Range {
	return Range{Begin: begin, End: end}
}

func (r Range) Len() int {
	return r.End - r.Begin
}

// Contains reports whether offset touches the range. The end is inclusive so
// a cursor sitting right after a word still belongs to it.
func (r Range) Contains(offset int) bool {
	return r.Begin <= offset && offset <= r.End
}

// Covers reports whether other lies entirely inside r.
func (r Range) Covers(other Range) bool {
	return r.Begin <= other.Begin && other.End <= r.End
}

// Precedes reports whether r ends before other starts.
func (r Range) Precedes(other Range) bool {
	return r.End <= other.Begin
}

// Union returns the smallest range covering both.
func (r Range) Union(other Range) Range {
	return Range{Begin: min(r.Begin, other.Begin), End: max(r.End, other.End)}
}

func (r Range) Text(text string) string {
	return text[r.Begin:r.End]
}

func (r Range) String() string {
	return fmt.Sprintf("[%d,%d)", r.Begin, r.End)
}

// LineBounds returns the range of the line holding offset, excluding the
// line terminator.
func LineBounds(text string, offset int) Range {
	offset = clamp(offset, 0, len(text))
	begin := strings.LastIndexByte(text[:offset], '\n') + 1
	end := strings.IndexByte(text[offset:], '\n')
	if end < 0 {
		end = len(text)
	} else {
		end += offset
	}
	if end > begin && text[end-1] == '\r' {
		end--
	}
	return Range{Begin: begin, End: end}
}

// PlaceOf converts a byte offset into a line and grapheme column.
func PlaceOf(text string, offset int) Place {
	offset = clamp(offset, 0, len(text))
	line := strings.Count(text[:offset], "\n")
	begin := strings.LastIndexByte(text[:offset], '\n') + 1
	col, err := textseg.TokenCount([]byte(text[begin:offset]), textseg.ScanGraphemeClusters)
	if err != nil {
		col = offset - begin
	}
	return Place{Line: line, Character: col}
}

// OffsetOf converts a line and grapheme column into a byte offset. Columns
// past the end of the line clamp to the line end.
func OffsetOf(text string, place Place) (int, error) {
	if place.Line < 0 || place.Character < 0 {
		return 0, errors.Errorf("negative place %d:%d", place.Line, place.Character)
	}

	begin := 0
	for i := 0; i < place.Line; i++ {
		next := strings.IndexByte(text[begin:], '\n')
		if next < 0 {
			return 0, errors.Errorf("line %d out of range (text has %d lines)", place.Line, i+1)
		}
		begin += next + 1
	}

	line := LineBounds(text, begin)
	rest := []byte(text[line.Begin:line.End])
	offset := line.Begin
	for col := 0; col < place.Character && len(rest) > 0; col++ {
		advance, _, err := textseg.ScanGraphemeClusters(rest, true)
		if err != nil || advance == 0 {
			break
		}
		rest = rest[advance:]
		offset += advance
	}
	return offset, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
