package editor

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/JackWReid/hecto/internal/buffer"
	"github.com/JackWReid/hecto/internal/config"
)

// chromeRows is the number of terminal rows below the text area: the
// status bar and the message bar.
const chromeRows = 2

// Frame is everything one refresh draws.
type Frame struct {
	Doc    *buffer.Buffer
	Cursor buffer.Position
	Offset buffer.Position
	Term   Size // whole terminal

	StatusLeft  string
	StatusRight string
	Message     string
}

// Renderer builds a frame buffer and writes it to the terminal in one go.
type Renderer struct {
	buf     strings.Builder
	status  lipgloss.Style
	version string
}

// NewRenderer returns a renderer whose status bar styling matches the colour
// profile of out.
func NewRenderer(out io.Writer, cfg config.StatusConfig, version string) *Renderer {
	return newRenderer(lipgloss.NewRenderer(out), cfg, version)
}

func newRenderer(lr *lipgloss.Renderer, cfg config.StatusConfig, version string) *Renderer {
	style := lr.NewStyle()
	if cfg.Foreground == "" && cfg.Background == "" {
		style = style.Reverse(true)
	} else {
		if cfg.Foreground != "" {
			style = style.Foreground(lipgloss.Color(cfg.Foreground))
		}
		if cfg.Background != "" {
			style = style.Background(lipgloss.Color(cfg.Background))
		}
	}
	return &Renderer{status: style, version: version}
}

// ViewSize is the text area left for the document in a terminal of size t.
func ViewSize(t Size) Size {
	return Size{Width: max(t.Width, 0), Height: max(t.Height-chromeRows, 0)}
}

// Render draws the full screen: text rows, status bar, message bar and
// cursor placement.
func (r *Renderer) Render(f Frame) string {
	r.buf.Reset()
	view := ViewSize(f.Term)

	// Hide cursor during drawing.
	r.buf.WriteString("\x1b[?25l")

	// Clear screen and move to top-left.
	r.buf.WriteString("\x1b[2J\x1b[H")

	for i := 0; i < view.Height; i++ {
		fmt.Fprintf(&r.buf, "\x1b[%d;1H", i+1)
		if line, ok := f.Doc.Line(f.Offset.Line + i); ok {
			r.buf.WriteString(visibleText(line, f.Offset.Column, view.Width))
		} else if f.Doc.IsEmpty() && i == view.Height/3 {
			r.buf.WriteString(r.welcome(view.Width))
		} else {
			r.buf.WriteString("~")
		}
	}

	if f.Term.Height > view.Height {
		fmt.Fprintf(&r.buf, "\x1b[%d;1H", view.Height+1)
		r.buf.WriteString(r.status.Render(statusText(f.StatusLeft, f.StatusRight, view.Width)))
	}
	if f.Term.Height > view.Height+1 {
		fmt.Fprintf(&r.buf, "\x1b[%d;1H", view.Height+2)
		r.buf.WriteString(runewidth.Truncate(f.Message, view.Width, ""))
	}

	// Position the cursor.
	row := f.Cursor.Line - f.Offset.Line + 1
	col := CursorCell(f.Doc, f.Cursor, f.Offset.Column, view.Width) + 1
	fmt.Fprintf(&r.buf, "\x1b[%d;%dH", max(row, 1), col)

	// Show cursor.
	r.buf.WriteString("\x1b[?25h")

	return r.buf.String()
}

func (r *Renderer) welcome(width int) string {
	msg := "Hecto editor -- version " + r.version
	padding := max(width-runewidth.StringWidth(msg), 0) / 2
	return runewidth.Truncate("~"+strings.Repeat(" ", max(padding-1, 0))+msg, width, "")
}

// visibleText is the part of line shown from grapheme column offset in a
// row width cells wide.
func visibleText(line *buffer.Line, offset, width int) string {
	text := line.Render(offset, offset+width)
	text = strings.ReplaceAll(text, "\t", " ")
	return runewidth.Truncate(text, width, "")
}

// statusText lays left and right out across width cells, shortening left
// first when they do not fit.
func statusText(left, right string, width int) string {
	lw := runewidth.StringWidth(left)
	rw := runewidth.StringWidth(right)
	if lw+rw >= width {
		left = runewidth.Truncate(left, max(width-rw-1, 0), "")
		lw = runewidth.StringWidth(left)
	}
	gap := max(width-lw-rw, 0)
	return runewidth.Truncate(left+strings.Repeat(" ", gap)+right, width, "")
}

// clusterWidth is the number of cells a grapheme cluster occupies on screen.
func clusterWidth(cluster string) int {
	if cluster == "\t" {
		return 1
	}
	return runewidth.StringWidth(cluster)
}

// CursorCell is the 0-based screen column of the cursor: the display width
// of the graphemes between the horizontal offset and the cursor. Wide glyphs
// can push it past the row, so it is clamped to the last cell.
func CursorCell(doc *buffer.Buffer, cursor buffer.Position, offset, width int) int {
	line, ok := doc.Line(cursor.Line)
	if !ok {
		return 0
	}
	cell := 0
	for _, c := range line.Clusters()[min(offset, line.Len()):min(max(cursor.Column, offset), line.Len())] {
		cell += clusterWidth(c)
	}
	if width > 0 {
		cell = min(cell, width-1)
	}
	return cell
}

// ColumnAt maps a 0-based screen cell on a row to the grapheme column it
// falls on, for a line scrolled to offset. Cells past the text map to the
// end of the line.
func ColumnAt(line *buffer.Line, offset, cell int) int {
	clusters := line.Clusters()
	offset = min(max(offset, 0), len(clusters))
	x := 0
	for i, c := range clusters[offset:] {
		w := clusterWidth(c)
		if cell < x+w {
			return offset + i
		}
		x += w
	}
	return len(clusters)
}
