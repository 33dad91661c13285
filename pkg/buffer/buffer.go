// Package buffer defines the text host the swap commands edit.
package buffer

import (
	"github.com/walteh/anyswap/pkg/position"
)

// Buffer is the editor-side text the commands read and rewrite. Offsets are
// byte offsets into the whole text.
type Buffer interface {
	Len() int
	Substring(r position.Range) string
	Cursor() int
	// LineBounds returns the line holding offset, without its terminator.
	LineBounds(offset int) position.Range
	Replace(r position.Range, text string)
	SetCursor(offset int)
}

// Memory is a Buffer over a string.
type Memory struct {
	text   string
	cursor int
}

var _ Buffer = (*Memory)(nil)

func NewMemory(text string, cursor int) *Memory {
	m := &Memory{text: text}
	m.SetCursor(cursor)
	return m
}

func (m *Memory) Text() string {
	return m.text
}

func (m *Memory) Len() int {
	return len(m.text)
}

func (m *Memory) Substring(r position.Range) string {
	r = m.clip(r)
	return m.text[r.Begin:r.End]
}

func (m *Memory) Cursor() int {
	return m.cursor
}

func (m *Memory) LineBounds(offset int) position.Range {
	return position.LineBounds(m.text, offset)
}

// Replace swaps the text in r for text. The cursor keeps its offset, clamped
// to the new length.
func (m *Memory) Replace(r position.Range, text string) {
	r = m.clip(r)
	m.text = m.text[:r.Begin] + text + m.text[r.End:]
	m.SetCursor(m.cursor)
}

func (m *Memory) SetCursor(offset int) {
	m.cursor = min(max(offset, 0), len(m.text))
}

func (m *Memory) clip(r position.Range) position.Range {
	b := min(max(r.Begin, 0), len(m.text))
	e := min(max(r.End, b), len(m.text))
	return position.NewRange(b, e)
}
