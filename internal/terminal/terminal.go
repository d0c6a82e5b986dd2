package terminal

import (
	"io"
	"os"
	"os/signal"
	"syscall"
	"unicode/utf8"

	"golang.org/x/term"
)

// Terminal manages raw mode, alternate screen buffer, and terminal dimensions.
type Terminal struct {
	oldState *term.State
	width    int
	height   int
	mouse    bool
	sigwinch chan os.Signal
}

// NewTerminal switches stdin to raw mode and enters the alternate screen.
// With mouse set, SGR mouse reporting is enabled as well.
func NewTerminal(mouse bool) (*Terminal, error) {
	t := &Terminal{mouse: mouse}

	// Switch to raw mode.
	oldState, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		return nil, err
	}
	t.oldState = oldState

	// Enter alternate screen buffer.
	os.Stdout.WriteString("\x1b[?1049h")

	// Hide cursor during setup.
	os.Stdout.WriteString("\x1b[?25l")

	if mouse {
		os.Stdout.WriteString("\x1b[?1000h") // Button events
		os.Stdout.WriteString("\x1b[?1006h") // SGR extended mode
	}

	// Query size.
	t.width, t.height, err = term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		t.Restore()
		return nil, err
	}

	// Listen for resize signals.
	t.sigwinch = make(chan os.Signal, 1)
	signal.Notify(t.sigwinch, syscall.SIGWINCH)

	return t, nil
}

// Resize re-queries terminal dimensions. Returns true if the size changed.
func (t *Terminal) Resize() bool {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return false
	}
	changed := w != t.width || h != t.height
	t.width = w
	t.height = h
	return changed
}

// Width returns the current terminal width.
func (t *Terminal) Width() int { return t.width }

// Height returns the current terminal height.
func (t *Terminal) Height() int { return t.height }

// SigwinchChan returns the channel that receives SIGWINCH signals.
func (t *Terminal) SigwinchChan() <-chan os.Signal {
	return t.sigwinch
}

// Write paints a frame in a single write.
func (t *Terminal) Write(frame string) error {
	_, err := io.WriteString(os.Stdout, frame)
	return err
}

// Restore returns the terminal to its original state.
func (t *Terminal) Restore() {
	if t.mouse {
		os.Stdout.WriteString("\x1b[?1006l") // SGR extended mode
		os.Stdout.WriteString("\x1b[?1000l") // Button events
	}
	// Clear, show cursor and leave the alternate screen buffer.
	os.Stdout.WriteString("\x1b[2J\x1b[H")
	os.Stdout.WriteString("\x1b[?25h")
	os.Stdout.WriteString("\x1b[?1049l")
	if t.oldState != nil {
		term.Restore(int(os.Stdin.Fd()), t.oldState)
	}
	if t.sigwinch != nil {
		signal.Stop(t.sigwinch)
	}
}

// ReadEvents blocks for the next chunk of input from stdin and decodes it.
// A single read may carry several keys, e.g. when text is pasted.
func (t *Terminal) ReadEvents() ([]InputEvent, error) {
	buf := make([]byte, 256)
	n, err := os.Stdin.Read(buf)
	if err != nil {
		return nil, err
	}
	return splitInput(buf[:n]), nil
}

// Key types.
const (
	KeyRune      = iota // Normal printable character
	KeyEscape           // Escape key (standalone)
	KeyEnter            // Enter/Return
	KeyBackspace        // Backspace/Delete-backward
	KeyUp               // Arrow up
	KeyDown             // Arrow down
	KeyLeft             // Arrow left
	KeyRight            // Arrow right
	KeyCtrlLeft         // Ctrl+Arrow left
	KeyCtrlRight        // Ctrl+Arrow right
	KeyCtrlC            // Ctrl+C
	KeyCtrlQ            // Ctrl+Q
	KeyCtrlS            // Ctrl+S
	KeyHome             // Home
	KeyEnd              // End
	KeyDelete           // Delete/Forward-delete
	KeyPgUp             // Page Up
	KeyPgDn             // Page Down
	KeyUnknown          // Unrecognised sequence
)

type Key struct {
	Type int
	Rune rune
}

// Event types.
const (
	EventKey = iota
	EventMouse
)

// MouseButton types.
type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseMiddle
	MouseRight
	MouseWheelUp
	MouseWheelDown
	MouseUnknown
)

// MouseEvent represents a mouse input event.
type MouseEvent struct {
	Button MouseButton
	Row    int  // 1-based terminal row
	Col    int  // 1-based terminal column
	Press  bool // true for press, false for release
}

// InputEvent wraps either a key or mouse event.
type InputEvent struct {
	Type  int // EventKey or EventMouse
	Key   Key
	Mouse MouseEvent
}

// splitInput decodes one read. Each escape sequence is a single event and
// plain text is one key event per rune, so a read may hold several keys.
func splitInput(buf []byte) []InputEvent {
	if len(buf) == 0 {
		return []InputEvent{parseInput(buf)}
	}
	var events []InputEvent
	for len(buf) > 0 {
		size := 0
		if buf[0] == 27 {
			size = escapeLen(buf)
		} else {
			_, size = utf8.DecodeRune(buf)
		}
		events = append(events, parseInput(buf[:size]))
		// A pasted CRLF is one line break.
		if buf[0] == '\r' && len(buf) > 1 && buf[1] == '\n' {
			size++
		}
		buf = buf[size:]
	}
	return events
}

// escapeLen is the length of the escape sequence at the start of buf.
// CSI sequences (SGR mouse reports included) run to their final byte and
// SS3 sequences are three bytes. Anything else is a lone Escape. A sequence
// cut off by the end of the read takes the rest of it.
func escapeLen(buf []byte) int {
	if len(buf) < 2 {
		return 1
	}
	switch buf[1] {
	case '[':
		for i := 2; i < len(buf); i++ {
			if buf[i] >= 0x40 && buf[i] <= 0x7e {
				return i + 1
			}
		}
		return len(buf)
	case 'O':
		return min(3, len(buf))
	}
	return 1
}

// parseInput determines whether the input is a key or mouse event.
func parseInput(buf []byte) InputEvent {
	if len(buf) == 0 {
		return InputEvent{Type: EventKey, Key: Key{Type: KeyUnknown}}
	}

	// Check for SGR mouse sequence: ESC [ < ...
	if len(buf) >= 6 && buf[0] == 27 && buf[1] == '[' && buf[2] == '<' {
		mouse, ok := parseMouseEvent(buf)
		if ok {
			return InputEvent{Type: EventMouse, Mouse: mouse}
		}
	}

	// Otherwise parse as a key.
	return InputEvent{Type: EventKey, Key: parseKey(buf)}
}

func parseKey(buf []byte) Key {
	if len(buf) == 0 {
		return Key{Type: KeyUnknown}
	}

	// Single byte.
	if len(buf) == 1 {
		b := buf[0]
		switch {
		case b == 27:
			return Key{Type: KeyEscape}
		case b == 13 || b == 10:
			return Key{Type: KeyEnter}
		case b == 127 || b == 8:
			return Key{Type: KeyBackspace}
		case b == 3: // Ctrl+C
			return Key{Type: KeyCtrlC}
		case b == 17: // Ctrl+Q
			return Key{Type: KeyCtrlQ}
		case b == 19: // Ctrl+S
			return Key{Type: KeyCtrlS}
		case b == '\t':
			return Key{Type: KeyRune, Rune: '\t'}
		case b >= 32 && b < 127:
			return Key{Type: KeyRune, Rune: rune(b)}
		default:
			return Key{Type: KeyUnknown}
		}
	}

	// SS3 sequences: ESC O H / ESC O F.
	if buf[0] == 27 && len(buf) == 3 && buf[1] == 'O' {
		switch buf[2] {
		case 'H':
			return Key{Type: KeyHome}
		case 'F':
			return Key{Type: KeyEnd}
		}
		return Key{Type: KeyUnknown}
	}

	// Escape sequences.
	if buf[0] == 27 && len(buf) >= 3 && buf[1] == '[' {
		// Modified arrows: ESC [ 1 ; <mod> C|D, Ctrl is mod 5.
		if len(buf) == 6 && buf[2] == '1' && buf[3] == ';' && buf[4] == '5' {
			switch buf[5] {
			case 'C':
				return Key{Type: KeyCtrlRight}
			case 'D':
				return Key{Type: KeyCtrlLeft}
			}
			return Key{Type: KeyUnknown}
		}

		// CSI 3-byte sequences.
		switch buf[2] {
		case 'A':
			return Key{Type: KeyUp}
		case 'B':
			return Key{Type: KeyDown}
		case 'C':
			return Key{Type: KeyRight}
		case 'D':
			return Key{Type: KeyLeft}
		case 'H':
			return Key{Type: KeyHome}
		case 'F':
			return Key{Type: KeyEnd}
		}

		// CSI 4-byte sequences: ESC [ <n> ~
		if len(buf) >= 4 && buf[3] == '~' {
			switch buf[2] {
			case '1', '7':
				return Key{Type: KeyHome}
			case '3':
				return Key{Type: KeyDelete}
			case '4', '8':
				return Key{Type: KeyEnd}
			case '5':
				return Key{Type: KeyPgUp}
			case '6':
				return Key{Type: KeyPgDn}
			}
		}
		return Key{Type: KeyUnknown}
	}

	// Multi-byte UTF-8 character.
	r := decodeUTF8(buf)
	if r >= 32 && r != utf8.RuneError {
		return Key{Type: KeyRune, Rune: r}
	}

	return Key{Type: KeyUnknown}
}

// parseMouseEvent parses an SGR mouse sequence: ESC [ < Cb ; Cx ; Cy M|m
// Returns the MouseEvent and true if parsing succeeded.
func parseMouseEvent(buf []byte) (MouseEvent, bool) {
	// Minimum length: ESC[<0;1;1M = 9 bytes
	if len(buf) < 9 {
		return MouseEvent{}, false
	}

	// Verify the sequence starts with ESC [ <
	if buf[0] != 27 || buf[1] != '[' || buf[2] != '<' {
		return MouseEvent{}, false
	}

	i := 3 // Start after ESC[<
	button := 0
	col := 0
	row := 0
	press := false

	// Parse button.
	for i < len(buf) && buf[i] >= '0' && buf[i] <= '9' {
		button = button*10 + int(buf[i]-'0')
		i++
	}
	if i >= len(buf) || buf[i] != ';' {
		return MouseEvent{}, false
	}
	i++ // Skip semicolon

	// Parse column.
	for i < len(buf) && buf[i] >= '0' && buf[i] <= '9' {
		col = col*10 + int(buf[i]-'0')
		i++
	}
	if i >= len(buf) || buf[i] != ';' {
		return MouseEvent{}, false
	}
	i++ // Skip semicolon

	// Parse row.
	for i < len(buf) && buf[i] >= '0' && buf[i] <= '9' {
		row = row*10 + int(buf[i]-'0')
		i++
	}
	if i >= len(buf) {
		return MouseEvent{}, false
	}

	// Check terminator: M for press, m for release.
	switch buf[i] {
	case 'M':
		press = true
	case 'm':
		press = false
	default:
		return MouseEvent{}, false
	}

	var btn MouseButton
	switch {
	case button == 64:
		btn = MouseWheelUp
	case button == 65:
		btn = MouseWheelDown
	case button >= 64:
		btn = MouseUnknown
	default:
		// Lower 2 bits indicate button.
		switch button & 0x03 {
		case 0:
			btn = MouseLeft
		case 1:
			btn = MouseMiddle
		case 2:
			btn = MouseRight
		default:
			btn = MouseUnknown
		}
	}

	return MouseEvent{
		Button: btn,
		Row:    row,
		Col:    col,
		Press:  press,
	}, true
}

func decodeUTF8(buf []byte) rune {
	if len(buf) == 0 {
		return 0
	}
	r, _ := utf8.DecodeRune(buf)
	return r
}
