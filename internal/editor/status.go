package editor

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/JackWReid/hecto/internal/terminal"
)

// PromptType indicates what kind of prompt is active.
type PromptType int

const (
	PromptNone    PromptType = iota
	PromptSaveNew            // "Save as: " for an unnamed buffer
)

// maxNameWidth bounds the file name shown in the status bar, in cells.
const maxNameWidth = 20

// StatusBar generates status bar text and handles prompt state.
type StatusBar struct {
	Prompt     PromptType
	PromptText string // User input during the save-as prompt.

	message  string
	deadline time.Time
}

func NewStatusBar() *StatusBar {
	return &StatusBar{}
}

// FormatLeft returns the left-aligned portion of the status bar.
func (s *StatusBar) FormatLeft(filename string, lines int, dirty bool) string {
	modified := ""
	if dirty {
		modified = " (modified)"
	}
	return fmt.Sprintf("%s - %d lines%s", truncatePath(filename), lines, modified)
}

// FormatRight returns the right-aligned portion of the status bar: the
// 1-based cursor line over the line count.
func (s *StatusBar) FormatRight(cursorLine, lines int) string {
	return fmt.Sprintf("%d/%d", cursorLine+1, lines)
}

// MessageLine returns what the message bar shows at now: the prompt while
// one is active, otherwise the message until its deadline.
func (s *StatusBar) MessageLine(now time.Time) string {
	if s.Prompt == PromptSaveNew {
		return "Save as: " + s.PromptText
	}
	return s.Message(now)
}

// StartPrompt begins a prompt of the given type.
func (s *StatusBar) StartPrompt(pt PromptType) {
	s.Prompt = pt
	s.PromptText = ""
}

// ClearPrompt resets the prompt state.
func (s *StatusBar) ClearPrompt() {
	s.Prompt = PromptNone
	s.PromptText = ""
}

// SetMessage shows msg from now until ttl has passed.
func (s *StatusBar) SetMessage(msg string, now time.Time, ttl time.Duration) {
	s.message = msg
	s.deadline = now.Add(ttl)
}

// Message returns the current message, or "" once it has expired.
func (s *StatusBar) Message(now time.Time) string {
	if !now.Before(s.deadline) {
		return ""
	}
	return s.message
}

// ClearMessage clears the temporary status message.
func (s *StatusBar) ClearMessage() {
	s.message = ""
	s.deadline = time.Time{}
}

// truncatePath shortens a file path to parent/basename, then to
// maxNameWidth cells.
func truncatePath(filename string) string {
	if filename == "" {
		return "[No Name]"
	}
	name := filepath.Base(filename)
	if dir := filepath.Base(filepath.Dir(filename)); dir != "." && dir != "/" {
		name = dir + "/" + name
	}
	return runewidth.Truncate(name, maxNameWidth, "")
}

// HandlePromptKey processes a keypress during an active prompt.
// Returns (input string, done bool, cancelled bool).
func (s *StatusBar) HandlePromptKey(key terminal.Key) (string, bool, bool) {
	switch key.Type {
	case terminal.KeyEscape:
		s.ClearPrompt()
		return "", false, true
	case terminal.KeyEnter:
		text := s.PromptText
		s.ClearPrompt()
		return text, true, false
	case terminal.KeyBackspace:
		if len(s.PromptText) > 0 {
			runes := []rune(s.PromptText)
			s.PromptText = string(runes[:len(runes)-1])
		}
		return "", false, false
	case terminal.KeyRune:
		if key.Rune != '\t' {
			s.PromptText += string(key.Rune)
		}
		return "", false, false
	}
	return "", false, false
}
