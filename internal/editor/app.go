package editor

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/JackWReid/hecto/internal/buffer"
	"github.com/JackWReid/hecto/internal/config"
	"github.com/JackWReid/hecto/internal/suggest"
	"github.com/JackWReid/hecto/internal/terminal"
)

const helpMessage = "HELP: Ctrl-S = save | Ctrl-Q = quit"

// maxSuggestions bounds the "did you mean" list for a missing file.
const maxSuggestions = 3

// App is the top-level editor state.
type App struct {
	cfg      config.Config
	log      *slog.Logger
	version  string
	filename string

	doc       *buffer.Buffer
	view      Viewport
	statusBar *StatusBar
	renderer  *Renderer
	terminal  *terminal.Terminal
	size      Size // whole terminal

	quitTimes int // Further Ctrl-Q presses needed to leave a dirty buffer.
	quit      bool
	now       func() time.Time
}

func NewApp(filename string, cfg config.Config, log *slog.Logger, version string) *App {
	return &App{
		cfg:       cfg,
		log:       log,
		version:   version,
		filename:  filename,
		doc:       buffer.New(),
		statusBar: NewStatusBar(),
		quitTimes: cfg.QuitTimes,
		now:       time.Now,
	}
}

// Load opens the file named on the command line. A file that does not exist
// yet becomes an empty buffer carrying its name; any other failure is
// returned.
func (a *App) Load() error {
	a.setMessage(helpMessage)
	if a.filename == "" {
		return nil
	}

	doc, err := buffer.Open(a.filename)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		doc = buffer.New()
		doc.SetName(a.filename)
		a.log.Info("new file", "file", a.filename)
		if names := suggest.Similar(a.filename, maxSuggestions); len(names) > 0 {
			a.setMessage(fmt.Sprintf("New file %s. Did you mean: %s?", a.filename, strings.Join(names, ", ")))
		}
	case err != nil:
		return err
	default:
		a.log.Info("opened", "file", a.filename, "lines", doc.LineCount())
	}
	a.doc = doc
	return nil
}

func (a *App) Run() error {
	if err := a.Load(); err != nil {
		return err
	}

	// Set up terminal.
	t, err := terminal.NewTerminal(a.cfg.Mouse)
	if err != nil {
		return err
	}
	a.terminal = t
	defer t.Restore()

	a.renderer = NewRenderer(os.Stdout, a.cfg.Status, a.version)
	a.size = Size{Width: t.Width(), Height: t.Height()}
	a.log.Info("started", "width", a.size.Width, "height", a.size.Height)

	// Reads block, so they run apart from the loop that also waits on
	// resizes and message expiry. The reader stops handing events over once
	// done is closed.
	events := make(chan []terminal.InputEvent)
	readErr := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			evs, err := t.ReadEvents()
			if err != nil {
				readErr <- err
				return
			}
			select {
			case events <- evs:
			case <-done:
				return
			}
		}
	}()

	expiry := time.NewTimer(time.Hour)
	expiry.Stop()
	defer expiry.Stop()

	if err := a.render(); err != nil {
		return err
	}

	for !a.quit {
		if d, ok := a.messageRemaining(); ok {
			expiry.Reset(d)
		} else {
			expiry.Stop()
		}
		select {
		case <-t.SigwinchChan():
			if t.Resize() {
				a.resize(Size{Width: t.Width(), Height: t.Height()})
			}
		case <-expiry.C:
		case err := <-readErr:
			a.log.Error("read input", "err", err)
			return err
		case evs := <-events:
			for _, ev := range evs {
				a.handleInput(ev)
				if a.quit {
					break
				}
			}
		}
		if !a.quit {
			if err := a.render(); err != nil {
				return err
			}
		}
	}

	a.log.Info("exit", "file", a.doc.Name(), "dirty", a.doc.IsDirty())
	return nil
}

// messageRemaining is how long the visible message has left, if there is one.
func (a *App) messageRemaining() (time.Duration, bool) {
	now := a.now()
	if a.statusBar.Message(now) == "" {
		return 0, false
	}
	return a.statusBar.deadline.Sub(now), true
}

func (a *App) viewSize() Size {
	return ViewSize(a.size)
}

func (a *App) resize(size Size) {
	a.size = size
	a.view.Place(a.view.Cursor(), a.doc, a.viewSize())
	a.log.Debug("resize", "width", size.Width, "height", size.Height)
}

func (a *App) setMessage(msg string) {
	a.statusBar.SetMessage(msg, a.now(), a.cfg.MessageTimeout)
}

func (a *App) handleInput(event terminal.InputEvent) {
	// Handle mouse events.
	if event.Type == terminal.EventMouse {
		a.handleMouse(event.Mouse)
		return
	}

	// Handle keyboard events.
	key := event.Key

	// If a prompt is active, handle it first.
	if a.statusBar.Prompt != PromptNone {
		a.handlePromptKey(key)
		return
	}

	if key.Type == terminal.KeyCtrlQ || key.Type == terminal.KeyCtrlC {
		a.requestQuit()
		return
	}
	// Any other key re-arms the quit confirmation.
	a.quitTimes = a.cfg.QuitTimes

	size := a.viewSize()
	cursor := a.view.Cursor()

	switch key.Type {
	case terminal.KeyUp:
		a.view.Move(Up, a.doc, size)
	case terminal.KeyDown:
		a.view.Move(Down, a.doc, size)
	case terminal.KeyLeft:
		a.view.Move(Left, a.doc, size)
	case terminal.KeyRight:
		a.view.Move(Right, a.doc, size)
	case terminal.KeyPgUp:
		a.view.Move(PageUp, a.doc, size)
	case terminal.KeyPgDn:
		a.view.Move(PageDown, a.doc, size)
	case terminal.KeyHome:
		a.view.Place(buffer.Position{Line: cursor.Line}, a.doc, size)
	case terminal.KeyEnd:
		a.view.Place(buffer.Position{Line: cursor.Line, Column: a.doc.LineLen(cursor.Line)}, a.doc, size)
	case terminal.KeyCtrlLeft:
		if p, ok := PrevWordStart(a.doc, cursor); ok {
			a.view.Place(p, a.doc, size)
		}
	case terminal.KeyCtrlRight:
		if p, ok := NextWordStart(a.doc, cursor); ok {
			a.view.Place(p, a.doc, size)
		}
	case terminal.KeyEnter:
		a.insertLineBreak()
	case terminal.KeyBackspace:
		a.backspace()
	case terminal.KeyDelete:
		a.doc.Delete(cursor)
		a.view.Place(cursor, a.doc, size)
	case terminal.KeyCtrlS:
		a.save()
	case terminal.KeyRune:
		a.insertChar(key.Rune)
	}
}

func (a *App) handleMouse(mouse terminal.MouseEvent) {
	// Ignore mouse events while a prompt is active.
	if a.statusBar.Prompt != PromptNone || !mouse.Press {
		return
	}

	size := a.viewSize()
	switch mouse.Button {
	case terminal.MouseLeft:
		row, cell := mouse.Row-1, mouse.Col-1
		if row < 0 || row >= size.Height || cell < 0 {
			return
		}
		offset := a.view.Offset()
		target := buffer.Position{Line: offset.Line + row}
		if line, ok := a.doc.Line(target.Line); ok {
			target.Column = ColumnAt(line, offset.Column, cell)
		}
		a.view.Place(target, a.doc, size)
	case terminal.MouseWheelUp:
		for range a.cfg.WheelLines {
			a.view.Move(Up, a.doc, size)
		}
	case terminal.MouseWheelDown:
		for range a.cfg.WheelLines {
			a.view.Move(Down, a.doc, size)
		}
	}
}

func (a *App) handlePromptKey(key terminal.Key) {
	switch a.statusBar.Prompt {
	case PromptSaveNew:
		text, done, cancelled := a.statusBar.HandlePromptKey(key)
		if cancelled || (done && text == "") {
			a.setMessage("Save aborted.")
			return
		}
		if done {
			a.writeFile(text)
		}
	}
}

// requestQuit quits, unless the buffer is dirty and confirmations remain.
func (a *App) requestQuit() {
	if a.doc.IsDirty() && a.quitTimes > 0 {
		a.setMessage(fmt.Sprintf("WARNING! File has unsaved changes. Press Ctrl-Q %d more times to quit.", a.quitTimes))
		a.quitTimes--
		return
	}
	a.quit = true
}

func (a *App) save() {
	if a.doc.Name() == "" {
		a.statusBar.ClearMessage()
		a.statusBar.StartPrompt(PromptSaveNew)
		return
	}
	a.writeFile(a.doc.Name())
}

func (a *App) writeFile(name string) {
	if err := a.doc.SaveAs(name); err != nil {
		a.log.Error("save failed", "file", name, "err", err)
		a.setMessage(fmt.Sprintf("Error writing file: %v", err))
		return
	}
	a.log.Info("saved", "file", name, "lines", a.doc.LineCount())
	a.setMessage("File saved successfully.")
}

// insertChar inserts a character at the cursor and advances the cursor by
// however many graphemes the line grew, which is none for a combining mark.
func (a *App) insertChar(ch rune) {
	cursor := a.view.Cursor()
	before := a.doc.LineLen(cursor.Line)
	a.doc.InsertChar(cursor, ch)
	cursor.Column += a.doc.LineLen(cursor.Line) - before
	a.view.Place(cursor, a.doc, a.viewSize())
}

// insertLineBreak splits the current line at the cursor.
func (a *App) insertLineBreak() {
	cursor := a.view.Cursor()
	a.doc.InsertLineBreak(cursor)
	a.view.Place(buffer.Position{Line: cursor.Line + 1}, a.doc, a.viewSize())
}

// backspace deletes the grapheme before the cursor, joining lines at a
// line start.
func (a *App) backspace() {
	if a.view.Cursor() == (buffer.Position{}) {
		return
	}
	a.view.Move(Left, a.doc, a.viewSize())
	a.doc.Delete(a.view.Cursor())
}

// frame assembles what the screen shows at now.
func (a *App) frame(now time.Time) Frame {
	cursor := a.view.Cursor()
	return Frame{
		Doc:         a.doc,
		Cursor:      cursor,
		Offset:      a.view.Offset(),
		Term:        a.size,
		StatusLeft:  a.statusBar.FormatLeft(a.doc.Name(), a.doc.LineCount(), a.doc.IsDirty()),
		StatusRight: a.statusBar.FormatRight(cursor.Line, a.doc.LineCount()),
		Message:     a.statusBar.MessageLine(now),
	}
}

func (a *App) render() error {
	return a.terminal.Write(a.renderer.Render(a.frame(a.now())))
}
