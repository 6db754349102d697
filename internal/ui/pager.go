package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/noborus/ov/oviewer"
)

var errNoPager = errors.New("pager not available")

// Pager shows content full screen, outside the finder
type Pager interface {
	ShowText(content string) tea.Cmd
	ShowFile(path string) tea.Cmd
}

type noPager struct{}

func (noPager) ShowText(string) tea.Cmd {
	return func() tea.Msg { return pagerMsg{err: errNoPager} }
}

func (noPager) ShowFile(string) tea.Cmd {
	return func() tea.Msg { return pagerMsg{err: errNoPager} }
}

// ovPager runs the ov pager while the finder has released the terminal
type ovPager struct {
	program *tea.Program
}

// NewOvPager creates a pager bound to a running program
func NewOvPager(program *tea.Program) Pager {
	if program == nil {
		return noPager{}
	}
	return &ovPager{program: program}
}

func (p *ovPager) ShowText(content string) tea.Cmd {
	return func() tea.Msg {
		return pagerMsg{err: p.run(func() (*oviewer.Root, error) {
			return oviewer.NewRoot(strings.NewReader(content))
		})}
	}
}

func (p *ovPager) ShowFile(path string) tea.Cmd {
	return func() tea.Msg {
		return pagerMsg{err: p.run(func() (*oviewer.Root, error) {
			return oviewer.Open(path)
		})}
	}
}

func (p *ovPager) run(open func() (*oviewer.Root, error)) error {
	if err := p.program.ReleaseTerminal(); err != nil {
		return fmt.Errorf("release terminal: %w", err)
	}
	defer func() {
		// give ov time to restore the screen before we redraw
		time.Sleep(100 * time.Millisecond)
		_ = p.program.RestoreTerminal()
	}()

	root, err := open()
	if err != nil {
		return err
	}

	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}
