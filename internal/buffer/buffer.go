package buffer

import (
	"bufio"
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrNotText is reported (inside an *fs.PathError) when a file is not valid UTF-8.
var ErrNotText = errors.New("not valid UTF-8 text")

// Buffer holds a document as a sequence of lines.
// An empty document has zero lines.
type Buffer struct {
	lines []*Line
	name  string
	dirty bool
	crlf  bool // opened from a file whose every line ended in "\r\n"
}

// New returns an empty, unnamed buffer.
func New() *Buffer {
	return &Buffer{}
}

// Open reads the named file into a new Buffer. Errors are returned as-is;
// falling back to an empty buffer is up to the caller.
func Open(name string) (*Buffer, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	text, err := decode(data)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}
	lines, crlf := splitLines(text)
	return &Buffer{lines: lines, name: name, crlf: crlf}, nil
}

// decode strips a byte-order mark (transcoding UTF-16 when one says so) and
// checks the result is UTF-8.
func decode(data []byte) (string, error) {
	out, _, err := transform.Bytes(unicode.BOMOverride(transform.Nop), data)
	if err != nil {
		return "", ErrNotText
	}
	if !utf8.Valid(out) {
		return "", ErrNotText
	}
	return string(out), nil
}

// splitLines splits text into lines, dropping the empty segment after a
// final terminator. The terminator is "\r\n" only when every '\n' in text
// follows a '\r'; otherwise it is '\n' and any '\r' stays in the line.
func splitLines(text string) ([]*Line, bool) {
	if text == "" {
		return nil, false
	}
	nl := strings.Count(text, "\n")
	crlf := nl > 0 && strings.Count(text, "\r\n") == nl
	eol := "\n"
	if crlf {
		eol = "\r\n"
	}
	parts := strings.Split(strings.TrimSuffix(text, eol), eol)
	lines := make([]*Line, 0, len(parts))
	for _, p := range parts {
		lines = append(lines, NewLine(p))
	}
	return lines, crlf
}

// terminator is what Save writes after each line: "\r\n" for a buffer opened
// from a CRLF file, and also when every line ends in '\r', since '\n' would
// read back as CRLF and lose those carriage returns.
func (b *Buffer) terminator() string {
	if b.crlf {
		return "\r\n"
	}
	if len(b.lines) == 0 {
		return "\n"
	}
	for _, l := range b.lines {
		if !strings.HasSuffix(l.text, "\r") {
			return "\n"
		}
	}
	return "\r\n"
}

// Name returns the file the buffer saves to, or "" when unnamed.
func (b *Buffer) Name() string { return b.name }

// SetName sets the file the buffer saves to.
func (b *Buffer) SetName(name string) { b.name = name }

// IsDirty reports whether the buffer changed since it was opened or saved.
func (b *Buffer) IsDirty() bool { return b.dirty }

// LineCount returns the number of lines.
func (b *Buffer) LineCount() int { return len(b.lines) }

// IsEmpty reports whether the buffer has no lines.
func (b *Buffer) IsEmpty() bool { return len(b.lines) == 0 }

// Line returns the line at index, or false when out of range.
func (b *Buffer) Line(index int) (*Line, bool) {
	if index < 0 || index >= len(b.lines) {
		return nil, false
	}
	return b.lines[index], true
}

// LineLen returns the grapheme length of a line, 0 when out of range.
func (b *Buffer) LineLen(index int) int {
	l, ok := b.Line(index)
	if !ok {
		return 0
	}
	return l.Len()
}

// InsertChar inserts r at pos. A position one past the last line appends a
// new line holding just r.
func (b *Buffer) InsertChar(pos Position, r rune) {
	switch {
	case pos.Line < 0 || pos.Line > len(b.lines):
		return
	case pos.Line == len(b.lines):
		b.lines = append(b.lines, NewLine(string(r)))
	default:
		b.lines[pos.Line].Insert(pos.Column, r)
	}
	b.dirty = true
}

// InsertLineBreak splits the line at pos. One past the last line appends an
// empty line.
func (b *Buffer) InsertLineBreak(pos Position) {
	switch {
	case pos.Line < 0 || pos.Line > len(b.lines):
		return
	case pos.Line == len(b.lines):
		b.lines = append(b.lines, NewLine(""))
	default:
		tail := b.lines[pos.Line].Split(pos.Column)
		b.lines = append(b.lines, nil)
		copy(b.lines[pos.Line+2:], b.lines[pos.Line+1:])
		b.lines[pos.Line+1] = tail
	}
	b.dirty = true
}

// Delete removes the grapheme at pos. At the end of a line that is not the
// last, the following line is joined onto it.
func (b *Buffer) Delete(pos Position) {
	if pos.Line < 0 || pos.Line >= len(b.lines) {
		return
	}
	line := b.lines[pos.Line]
	if pos.Column == line.Len() && pos.Line+1 < len(b.lines) {
		line.Append(b.lines[pos.Line+1])
		b.lines = append(b.lines[:pos.Line+1], b.lines[pos.Line+2:]...)
		b.dirty = true
		return
	}
	if pos.Column < 0 || pos.Column >= line.Len() {
		return
	}
	line.Delete(pos.Column)
	b.dirty = true
}

// WriteTo writes every line followed by its terminator to w.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	var n int64
	eol := b.terminator()
	for _, l := range b.lines {
		nw, err := w.Write(l.Bytes())
		n += int64(nw)
		if err != nil {
			return n, err
		}
		nw, err = io.WriteString(w, eol)
		n += int64(nw)
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// Save rewrites the named file with the buffer's contents. It is a no-op
// when the buffer has no name; the caller should prompt for one.
func (b *Buffer) Save() error {
	if b.name == "" {
		return nil
	}
	f, err := os.Create(b.name)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if _, err := b.WriteTo(w); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	b.dirty = false
	return nil
}

// SaveAs names the buffer and saves it.
func (b *Buffer) SaveAs(name string) error {
	if name != "" {
		b.name = name
	}
	return b.Save()
}
