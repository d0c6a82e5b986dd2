package buffer

import "github.com/rivo/uniseg"

// Line is one logical line of text, addressed by grapheme cluster.
// It never contains a line terminator.
type Line struct {
	text string
	size int // cached grapheme count of text
}

// NewLine returns a Line holding text.
func NewLine(text string) *Line {
	l := &Line{text: text}
	l.recount()
	return l
}

// Len returns the number of grapheme clusters in the line.
func (l *Line) Len() int { return l.size }

// String returns the line's content.
func (l *Line) String() string { return l.text }

// Bytes returns the line encoded for persistence.
func (l *Line) Bytes() []byte { return []byte(l.text) }

// Render returns the graphemes in [start, end). end is clamped to Len and
// start to end, so an inverted or out-of-range span yields "".
func (l *Line) Render(start, end int) string {
	end = min(end, l.size)
	start = min(max(start, 0), end)
	if start >= end {
		return ""
	}
	return l.text[l.offset(start):l.offset(end)]
}

// Insert puts r at grapheme offset at, appending when at >= Len.
func (l *Line) Insert(at int, r rune) {
	if at >= l.size {
		l.text += string(r)
	} else {
		off := l.offset(max(at, 0))
		l.text = l.text[:off] + string(r) + l.text[off:]
	}
	l.recount()
}

// Delete removes the grapheme at offset at. Out of range is a no-op.
func (l *Line) Delete(at int) {
	if at < 0 || at >= l.size {
		return
	}
	start, end := l.offset(at), l.offset(at+1)
	l.text = l.text[:start] + l.text[end:]
	l.recount()
}

// Split truncates the line to its first at graphemes and returns the rest
// as a new Line.
func (l *Line) Split(at int) *Line {
	if at >= l.size {
		return NewLine("")
	}
	off := l.offset(max(at, 0))
	tail := NewLine(l.text[off:])
	l.text = l.text[:off]
	l.recount()
	return tail
}

// Append concatenates other onto the end of l. other is not modified.
func (l *Line) Append(other *Line) {
	if other == nil || other.text == "" {
		return
	}
	l.text += other.text
	l.recount()
}

// Clusters returns the line's grapheme clusters in order.
func (l *Line) Clusters() []string {
	if l.text == "" {
		return nil
	}
	out := make([]string, 0, l.size)
	state := -1
	rest := l.text
	var c string
	for rest != "" {
		c, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		out = append(out, c)
	}
	return out
}

// offset returns the byte offset where grapheme at starts, or len(text)
// when at is at or past the end.
func (l *Line) offset(at int) int {
	if at <= 0 {
		return 0
	}
	if at >= l.size {
		return len(l.text)
	}
	pos, n := 0, 0
	state := -1
	rest := l.text
	var c string
	for rest != "" && n < at {
		c, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		pos += len(c)
		n++
	}
	return pos
}

func (l *Line) recount() {
	if l.text == "" {
		l.size = 0
		return
	}
	l.size = uniseg.GraphemeClusterCount(l.text)
}

