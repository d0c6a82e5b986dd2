package editor

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/JackWReid/hecto/internal/buffer"
	"github.com/JackWReid/hecto/internal/config"
)

func plainRenderer(t *testing.T) *Renderer {
	t.Helper()
	lr := lipgloss.NewRenderer(io.Discard)
	lr.SetColorProfile(termenv.Ascii)
	return newRenderer(lr, config.StatusConfig{}, "1.0")
}

// row returns what frame writes after moving to the start of screen row n,
// up to the next escape sequence.
func row(frame string, n int) string {
	marker := fmt.Sprintf("\x1b[%d;1H", n)
	i := strings.Index(frame, marker)
	if i < 0 {
		return "<missing>"
	}
	rest := frame[i+len(marker):]
	if j := strings.Index(rest, "\x1b"); j >= 0 {
		rest = rest[:j]
	}
	return rest
}

func TestViewSize(t *testing.T) {
	tests := []struct {
		term Size
		want Size
	}{
		{Size{80, 24}, Size{80, 22}},
		{Size{10, 2}, Size{10, 0}},
		{Size{10, 1}, Size{10, 0}},
		{Size{0, 0}, Size{0, 0}},
	}
	for _, tt := range tests {
		if got := ViewSize(tt.term); got != tt.want {
			t.Errorf("ViewSize(%v) = %v, want %v", tt.term, got, tt.want)
		}
	}
}

func TestRenderEmptyDocumentShowsBanner(t *testing.T) {
	r := plainRenderer(t)
	frame := r.Render(Frame{Doc: buffer.New(), Term: Size{Width: 40, Height: 11}})

	// Nine text rows, banner on the fourth (9/3 = 3).
	banner := row(frame, 4)
	if !strings.HasPrefix(banner, "~") || !strings.HasSuffix(banner, "Hecto editor -- version 1.0") {
		t.Errorf("banner row = %q", banner)
	}
	if lead := len(banner) - len(strings.TrimLeft(banner[1:], " ")) - 1; lead != 5 {
		t.Errorf("banner padding = %d spaces, want 5", lead)
	}
	for _, n := range []int{1, 3, 5, 9} {
		if got := row(frame, n); got != "~" {
			t.Errorf("row %d = %q, want ~", n, got)
		}
	}
}

func TestRenderBannerTruncatedToWidth(t *testing.T) {
	r := plainRenderer(t)
	frame := r.Render(Frame{Doc: buffer.New(), Term: Size{Width: 10, Height: 5}})
	if got := row(frame, 2); got != "~Hecto edi" {
		t.Errorf("banner row = %q", got)
	}
}

func TestRenderDocumentRows(t *testing.T) {
	r := plainRenderer(t)
	doc := docOf("first", "second")
	frame := r.Render(Frame{Doc: doc, Term: Size{Width: 20, Height: 6}})

	if got := row(frame, 1); got != "first" {
		t.Errorf("row 1 = %q", got)
	}
	if got := row(frame, 2); got != "second" {
		t.Errorf("row 2 = %q", got)
	}
	// A non-empty document never shows the banner.
	for n := 3; n <= 4; n++ {
		if got := row(frame, n); got != "~" {
			t.Errorf("row %d = %q, want ~", n, got)
		}
	}
}

func TestRenderHonoursOffset(t *testing.T) {
	r := plainRenderer(t)
	doc := docOf("zero", "abcdefgh", "ijklmnop")
	frame := r.Render(Frame{
		Doc:    doc,
		Offset: pos(1, 2),
		Cursor: pos(1, 4),
		Term:   Size{Width: 4, Height: 4},
	})

	if got := row(frame, 1); got != "cdef" {
		t.Errorf("row 1 = %q", got)
	}
	if got := row(frame, 2); got != "klmn" {
		t.Errorf("row 2 = %q", got)
	}
	if !strings.HasSuffix(frame, "\x1b[1;3H\x1b[?25h") {
		t.Errorf("cursor not placed at (1, 3): %q", frame[max(len(frame)-20, 0):])
	}
}

func TestRenderTabsAndWideGlyphs(t *testing.T) {
	r := plainRenderer(t)
	doc := docOf("a\tb", "日本語xx")
	frame := r.Render(Frame{Doc: doc, Term: Size{Width: 5, Height: 4}})

	if got := row(frame, 1); got != "a b" {
		t.Errorf("tab row = %q", got)
	}
	if got := row(frame, 2); got != "日本" {
		t.Errorf("wide row = %q, want it cut to whole glyphs within 5 cells", got)
	}
}

// Scrolling counts graphemes while the row counts cells, so on a narrow
// terminal a wide glyph under the cursor can fall off the right edge. The
// cursor then waits on the last cell until the view scrolls.
func TestRenderCursorPinnedPastCutWideGlyph(t *testing.T) {
	r := plainRenderer(t)
	doc := docOf("日本語日本語")
	for _, col := range []int{2, 3, 4} {
		frame := r.Render(Frame{Doc: doc, Cursor: pos(0, col), Term: Size{Width: 5, Height: 4}})
		if got := row(frame, 1); got != "日本" {
			t.Errorf("cursor at %d: row = %q, expected the glyphs that fit", col, got)
		}
		if !strings.HasSuffix(frame, "\x1b[1;5H\x1b[?25h") {
			t.Errorf("cursor at %d: expected the cursor on the last cell, frame ends %q", col, frame[max(len(frame)-16, 0):])
		}
	}
}

func TestRenderStatusAndMessageBars(t *testing.T) {
	r := plainRenderer(t)
	frame := r.Render(Frame{
		Doc:         docOf("x"),
		Term:        Size{Width: 30, Height: 5},
		StatusLeft:  "a.txt - 1 lines",
		StatusRight: "1/1",
		Message:     "HELP: Ctrl-S = save",
	})

	want := "a.txt - 1 lines" + strings.Repeat(" ", 12) + "1/1"
	if !strings.Contains(row(frame, 4), want) {
		t.Errorf("status row = %q, want %q", row(frame, 4), want)
	}
	if got := row(frame, 5); got != "HELP: Ctrl-S = save" {
		t.Errorf("message row = %q", got)
	}
}

func TestStatusText(t *testing.T) {
	tests := []struct {
		left, right string
		width       int
		want        string
	}{
		{"ab", "1/1", 8, "ab   1/1"},
		{"abcdefgh", "1/1", 8, "abcd 1/1"},
		{"ab", "12345", 3, "123"},
		{"", "", 0, ""},
	}
	for _, tt := range tests {
		if got := statusText(tt.left, tt.right, tt.width); got != tt.want {
			t.Errorf("statusText(%q, %q, %d) = %q, want %q", tt.left, tt.right, tt.width, got, tt.want)
		}
	}
}

func TestCursorCell(t *testing.T) {
	doc := docOf("日本語", "a\tb", "😀éx")
	tests := []struct {
		cursor buffer.Position
		offset int
		width  int
		want   int
	}{
		{pos(0, 0), 0, 80, 0},
		{pos(0, 2), 0, 80, 4},
		{pos(0, 3), 1, 80, 4},
		{pos(1, 2), 0, 80, 2},
		{pos(2, 2), 0, 80, 3},
		{pos(0, 3), 0, 5, 4}, // clamped to the last cell
		{pos(3, 0), 0, 80, 0}, // append position
	}
	for _, tt := range tests {
		if got := CursorCell(doc, tt.cursor, tt.offset, tt.width); got != tt.want {
			t.Errorf("CursorCell(%v, offset %d, width %d) = %d, want %d", tt.cursor, tt.offset, tt.width, got, tt.want)
		}
	}
}

func TestColumnAt(t *testing.T) {
	line := buffer.NewLine("日本語ab")
	tests := []struct {
		offset, cell, want int
	}{
		{0, 0, 0},
		{0, 1, 0}, // right half of a wide glyph
		{0, 2, 1},
		{0, 6, 3},
		{0, 7, 4},
		{0, 50, 5},
		{1, 0, 1},
		{2, 3, 4},
		{9, 0, 5},
	}
	for _, tt := range tests {
		if got := ColumnAt(line, tt.offset, tt.cell); got != tt.want {
			t.Errorf("ColumnAt(offset %d, cell %d) = %d, want %d", tt.offset, tt.cell, got, tt.want)
		}
	}
}
