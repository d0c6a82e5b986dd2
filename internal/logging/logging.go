// Package logging builds the editor's structured logger. The screen owns
// stdout while the editor runs, so records only ever go to a file.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// New returns a text logger appending to the file at path, and the closer
// for that file. An empty path yields a logger that discards everything.
func New(path string, level slog.Level) (*slog.Logger, io.Closer, error) {
	if path == "" {
		return slog.New(slog.DiscardHandler), io.NopCloser(nil), nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, err
	}
	return NewWriter(f, level), f, nil
}

// NewWriter returns a text logger writing to w.
func NewWriter(w io.Writer, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: level,
	}
	return slog.New(slog.NewTextHandler(w, opts)).With(
		slog.String("component", "hecto"),
	)
}
