// Package clipboard copies text to the system clipboard, falling back to an
// OSC 52 escape sequence written to the terminal.
package clipboard

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-osc52/v2"
)

// ErrUnavailable is returned when no copy method is available
var ErrUnavailable = errors.New("clipboard unavailable")

// Method is the way text reached the clipboard
type Method int

const (
	MethodNone Method = iota
	MethodSystem
	MethodTerminal
)

func (m Method) String() string {
	switch m {
	case MethodSystem:
		return "system clipboard"
	case MethodTerminal:
		return "terminal clipboard"
	default:
		return "none"
	}
}

// Clipboard copies text using the best available method
type Clipboard struct {
	system   func(string) error // nil when no system clipboard tool exists
	terminal io.Writer          // nil disables the OSC 52 fallback
	env      func(string) string
}

// New probes the system clipboard. terminal receives OSC 52 sequences when
// the system clipboard is missing or fails; pass nil to disable the fallback.
func New(terminal io.Writer) *Clipboard {
	c := &Clipboard{terminal: terminal, env: os.Getenv}
	if !clipboard.Unsupported {
		c.system = clipboard.WriteAll
	}
	return c
}

// NewWithWriters creates a clipboard from explicit copy functions. Either
// may be nil.
func NewWithWriters(system func(string) error, terminal io.Writer) *Clipboard {
	return &Clipboard{system: system, terminal: terminal, env: os.Getenv}
}

// Available reports whether any copy method exists
func (c *Clipboard) Available() bool {
	return c.system != nil || c.terminal != nil
}

// Status is a short description for the status bar
func (c *Clipboard) Status() string {
	switch {
	case c.system != nil:
		return "Clipboard ready"
	case c.terminal != nil:
		return "Clipboard via terminal"
	default:
		return "Clipboard disabled"
	}
}

// Copy writes text to the clipboard
func (c *Clipboard) Copy(text string) (Method, error) {
	var systemErr error
	if c.system != nil {
		if systemErr = c.system(text); systemErr == nil {
			return MethodSystem, nil
		}
		log.Printf("Clipboard: system copy failed: %v", systemErr)
	}

	if c.terminal != nil {
		seq := osc52.New(text)
		switch {
		case c.env("TMUX") != "":
			seq = seq.Tmux()
		case strings.HasPrefix(c.env("TERM"), "screen"):
			seq = seq.Screen()
		}
		if _, err := seq.WriteTo(c.terminal); err != nil {
			return MethodNone, fmt.Errorf("terminal clipboard: %w", err)
		}
		return MethodTerminal, nil
	}

	if systemErr != nil {
		return MethodNone, fmt.Errorf("%w: %v", ErrUnavailable, systemErr)
	}
	return MethodNone, ErrUnavailable
}
