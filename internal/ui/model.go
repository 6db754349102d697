package ui

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"findt/internal/clipboard"
	"findt/internal/domain"
	"findt/internal/preview"
	"findt/internal/session"
)

const (
	tickInterval  = 100 * time.Millisecond
	statusTimeout = 3 * time.Second

	headerLines = 3 // title, search line, rule
	footerLines = 2 // status bar, key help
)

// Options configures the UI model
type Options struct {
	Root         string
	PreviewLines int
	ReadyMarker  bool // print a marker once the first frame is drawn (e2e tests)
}

// Model is the bubbletea model of the finder. It owns the session and is
// the only code that submits events to it.
type Model struct {
	session *session.Session
	clip    *clipboard.Clipboard
	loader  *preview.Loader
	opts    Options

	keys     keyMap
	help     help.Model
	spinner  spinner.Model
	viewport viewport.Model
	styles   *Styles

	width  int
	height int

	scanning   bool
	scanSource string
	scanErr    error

	// pinned is the entry chosen with enter; its preview is shown
	pinned     *domain.Entry
	preview    *preview.Preview
	previewErr error

	status     string
	statusKind statusKind
	statusSeq  int

	pager   Pager
	now     func() time.Time
	exiting bool
}

type statusKind int

const (
	statusInfo statusKind = iota
	statusSuccess
	statusWarning
	statusError
)

// NewModel creates a new UI model
func NewModel(sess *session.Session, clip *clipboard.Clipboard, loader *preview.Loader, opts Options) *Model {
	if opts.PreviewLines <= 0 {
		opts.PreviewLines = 40
	}
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = NewStyles().Spinner

	return &Model{
		session:  sess,
		clip:     clip,
		loader:   loader,
		opts:     opts,
		keys:     defaultKeyMap(),
		help:     help.New(),
		spinner:  sp,
		viewport: viewport.New(80, 4),
		styles:   NewStyles(),
		scanning: true,
		pager:    noPager{},
		now:      time.Now,
	}
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.pager = NewOvPager(p)
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return tea.Batch(tick(), m.spinner.Tick)
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.layout()

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		m.session.Submit(session.Tick{})
		return m, tick()

	case EntriesArrivedMsg:
		m.session.Submit(session.EntriesDiscovered{})

	case EventMsg:
		return m, m.handleEvent(msg.Event)

	case spinner.TickMsg:
		if !m.scanning {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case previewMsg:
		if m.pinned == nil || m.pinned.Path != msg.path {
			return m, nil
		}
		if msg.err != nil {
			log.Printf("Preview of %s failed: %v", msg.path, msg.err)
			m.preview = nil
			m.previewErr = msg.err
		} else {
			p := msg.preview
			m.preview = &p
			m.previewErr = nil
		}
		m.viewport.SetContent(m.previewText())
		m.viewport.GotoTop()

	case copyMsg:
		return m, m.handleCopyResult(msg)

	case pagerMsg:
		if msg.err != nil {
			log.Printf("Pager failed: %v", msg.err)
			return m, m.setStatus(statusError, fmt.Sprintf("Pager failed: %v", msg.err))
		}

	case statusClearMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}
	}

	return m, nil
}

func (m *Model) handleEvent(event domain.DomainEvent) tea.Cmd {
	switch e := event.(type) {
	case domain.ScanStartedEvent:
		m.scanning = true
		m.scanSource = e.Source
	case domain.ScanCompletedEvent:
		m.scanning = false
		m.scanErr = e.Err
		m.session.Submit(session.DiscoveryDone{})
		if e.Err != nil {
			return m.setStatus(statusError, fmt.Sprintf("Indexing stopped: %v", e.Err))
		}
	case domain.ErrorEvent:
		log.Printf("UI: error event: %s: %v", e.Message, e.Err)
		return m.setStatus(statusError, e.Message)
	}
	return nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.exiting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Escape):
		if m.session.View().Query == "" {
			m.exiting = true
			return m, tea.Quit
		}
		m.session.Submit(session.ClearQuery{})

	case key.Matches(msg, m.keys.Clear):
		m.session.Submit(session.ClearQuery{})

	case key.Matches(msg, m.keys.Backspace):
		m.session.Submit(session.Backspace{})

	case key.Matches(msg, m.keys.Up):
		m.session.Submit(session.Navigate{Direction: session.DirectionUp})
	case key.Matches(msg, m.keys.Down):
		m.session.Submit(session.Navigate{Direction: session.DirectionDown})
	case key.Matches(msg, m.keys.PageUp):
		m.session.Submit(session.Navigate{Direction: session.DirectionPageUp})
	case key.Matches(msg, m.keys.PageDown):
		m.session.Submit(session.Navigate{Direction: session.DirectionPageDown})
	case key.Matches(msg, m.keys.Top):
		m.session.Submit(session.Navigate{Direction: session.DirectionTop})
	case key.Matches(msg, m.keys.Bottom):
		m.session.Submit(session.Navigate{Direction: session.DirectionBottom})

	case key.Matches(msg, m.keys.Select):
		return m, m.pin()

	case key.Matches(msg, m.keys.CopyPath):
		return m, m.copySelected(copyPath)

	case key.Matches(msg, m.keys.CopyContent):
		return m, m.copySelected(copyContent)

	case key.Matches(msg, m.keys.ToggleMode):
		v := m.session.Submit(session.ToggleMode{})
		if !v.FuzzyAvailable {
			return m, m.setStatus(statusWarning, "Fuzzy matching unavailable")
		}

	case key.Matches(msg, m.keys.TogglePreview):
		m.session.Submit(session.TogglePreview{})
		m.layout()

	case key.Matches(msg, m.keys.OpenPager):
		entry, ok := m.session.Activate()
		if !ok {
			return m, nil
		}
		return m, m.pager.ShowFile(m.loader.Path(entry.Path))

	case key.Matches(msg, m.keys.Help):
		return m, m.pager.ShowText(RenderHelp(m.keys))

	case msg.Type == tea.KeySpace:
		m.session.Submit(session.TypeText{Text: " "})

	case msg.Type == tea.KeyRunes:
		m.session.Submit(session.TypeText{Text: string(msg.Runes)})
	}
	return m, nil
}

// pin marks the selected entry and loads its preview
func (m *Model) pin() tea.Cmd {
	entry, ok := m.session.Activate()
	if !ok {
		return nil
	}
	m.pinned = &entry
	m.preview = nil
	m.previewErr = nil
	m.viewport.SetContent("Loading…")
	m.layout()
	return m.loadPreview(entry.Path)
}

func (m *Model) loadPreview(rel string) tea.Cmd {
	loader := m.loader
	return func() tea.Msg {
		p, err := loader.Load(rel)
		return previewMsg{path: rel, preview: p, err: err}
	}
}

func (m *Model) copySelected(kind copyKind) tea.Cmd {
	entry, ok := m.session.Activate()
	if !ok {
		return nil
	}
	clip, loader := m.clip, m.loader
	return func() tea.Msg {
		msg := copyMsg{kind: kind, path: entry.Path}
		text := loader.Path(entry.Path)
		if kind == copyContent {
			var err error
			if text, err = loader.ReadText(entry.Path); err != nil {
				msg.err = err
				return msg
			}
		}
		msg.method, msg.err = clip.Copy(text)
		return msg
	}
}

func (m *Model) handleCopyResult(msg copyMsg) tea.Cmd {
	if msg.err != nil {
		log.Printf("Copy of %s failed: %v", msg.path, msg.err)
		switch {
		case errors.Is(msg.err, preview.ErrBinary):
			return m.setStatus(statusWarning, fmt.Sprintf("Cannot copy binary file: %s", msg.path))
		case errors.Is(msg.err, clipboard.ErrUnavailable):
			return m.setStatus(statusWarning, "Clipboard disabled")
		case msg.kind == copyContent:
			return m.setStatus(statusError, fmt.Sprintf("Could not copy content from: %s", msg.path))
		default:
			return m.setStatus(statusError, fmt.Sprintf("Could not copy path: %v", msg.err))
		}
	}
	if msg.kind == copyContent {
		return m.setStatus(statusSuccess, fmt.Sprintf("Copied content from: %s", msg.path))
	}
	return m.setStatus(statusSuccess, fmt.Sprintf("Copied path: %s", msg.path))
}

func (m *Model) setStatus(kind statusKind, text string) tea.Cmd {
	m.statusSeq++
	seq := m.statusSeq
	m.status = text
	m.statusKind = kind
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg {
		return statusClearMsg{seq: seq}
	})
}

// previewShown reports whether the preview pane takes up space
func (m *Model) previewShown() bool {
	return m.pinned != nil && m.session.View().PreviewVisible
}

func (m *Model) previewHeight() int {
	h := m.height / 3
	if h > m.opts.PreviewLines {
		h = m.opts.PreviewLines
	}
	if h < 3 {
		h = 3
	}
	return h
}

// layout distributes the terminal height between the list and the preview
func (m *Model) layout() {
	if m.height == 0 {
		return
	}
	list := m.height - headerLines - footerLines
	if m.previewShown() {
		ph := m.previewHeight()
		list -= ph + 2 // border
		m.viewport.Width = m.width - 4
		m.viewport.Height = ph
		m.viewport.SetContent(m.previewText())
	}
	if list < 1 {
		list = 1
	}
	m.session.Submit(session.Resize{Height: list})
}

func (m *Model) previewText() string {
	switch {
	case m.previewErr != nil:
		return "Unable to preview file"
	case m.preview == nil:
		return "Loading…"
	case m.preview.Empty:
		return "Empty file"
	case m.preview.Binary:
		if ext := m.pinned.Ext(); ext != "" {
			return fmt.Sprintf("Binary file (%s)", ext)
		}
		return "Binary file"
	default:
		return m.preview.Content
	}
}
