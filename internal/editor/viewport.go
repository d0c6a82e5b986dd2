package editor

import "github.com/JackWReid/hecto/internal/buffer"

// Lines is the read-only view of a document the viewport needs.
type Lines interface {
	LineCount() int
	LineLen(index int) int
}

// Size is the viewport's extent in lines (Height) and columns (Width).
type Size struct {
	Width  int
	Height int
}

// Direction is a cursor movement request.
type Direction int

const (
	Left Direction = iota
	Right
	Up
	Down
	PageUp
	PageDown
)

func (d Direction) vertical() bool {
	return d == Up || d == Down || d == PageUp || d == PageDown
}

// Viewport tracks the cursor and the scroll offset of the visible window.
// It looks the document up by index on every call and never keeps a line.
type Viewport struct {
	cursor buffer.Position
	offset buffer.Position
}

// Cursor returns the logical cursor position.
func (v *Viewport) Cursor() buffer.Position { return v.cursor }

// Offset returns the buffer position shown at the top-left of the viewport.
func (v *Viewport) Offset() buffer.Position { return v.offset }

// Move moves the cursor one step in dir, clamped to the document, then
// re-derives the scroll offset.
//
// The cursor may sit one past the end of a line, and on the line one past
// the last (the append position).
func (v *Viewport) Move(dir Direction, doc Lines, size Size) {
	c := v.cursor
	count := doc.LineCount()
	page := max(size.Height, 1)

	switch dir {
	case Left:
		if c.Column > 0 {
			c.Column--
		} else if c.Line > 0 {
			c.Line--
			c.Column = doc.LineLen(c.Line)
		}
	case Right:
		if c.Column < doc.LineLen(c.Line) {
			c.Column++
		} else if c.Line < count {
			c.Line++
			c.Column = 0
		}
	case Up:
		c.Line = max(c.Line-1, 0)
	case PageUp:
		c.Line = max(c.Line-page, 0)
	case Down:
		c.Line = min(c.Line+1, count)
	case PageDown:
		c.Line = min(c.Line+page, count)
	}

	if dir.vertical() {
		// Snap onto a shorter line and show it from its start.
		if n := doc.LineLen(c.Line); c.Column > n {
			c.Column = n
			v.offset.Column = 0
		}
	}

	v.cursor = c
	v.Scroll(size)
}

// Place puts the cursor at pos, clamped to the document, and re-derives the
// scroll offset.
func (v *Viewport) Place(pos buffer.Position, doc Lines, size Size) {
	pos.Line = min(max(pos.Line, 0), doc.LineCount())
	pos.Column = min(max(pos.Column, 0), doc.LineLen(pos.Line))
	v.cursor = pos
	v.Scroll(size)
}

// Scroll adjusts the offset by the least amount that brings the cursor into
// a window of the given size. Axes with a non-positive extent are left alone.
func (v *Viewport) Scroll(size Size) {
	if size.Height > 0 {
		switch {
		case v.cursor.Line < v.offset.Line:
			v.offset.Line = v.cursor.Line
		case v.cursor.Line >= v.offset.Line+size.Height:
			v.offset.Line = v.cursor.Line - size.Height + 1
		}
	}
	if size.Width > 0 {
		switch {
		case v.cursor.Column < v.offset.Column:
			v.offset.Column = v.cursor.Column
		case v.cursor.Column >= v.offset.Column+size.Width:
			v.offset.Column = v.cursor.Column - size.Width + 1
		}
	}
}
