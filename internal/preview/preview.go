// Package preview reads the head of a file for display and copying.
package preview

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/glamour"
)

// ErrBinary is returned when text is requested from a binary file
var ErrBinary = errors.New("binary file")

const (
	sniffLen = 8000
	// MaxCopyBytes bounds how much content is copied to the clipboard
	MaxCopyBytes = 1 << 20
)

var textExtensions = map[string]bool{
	".txt": true, ".md": true, ".py": true, ".js": true, ".ts": true, ".json": true,
	".yaml": true, ".yml": true, ".toml": true, ".ini": true, ".cfg": true, ".conf": true,
	".sh": true, ".bash": true, ".zsh": true, ".html": true, ".css": true, ".xml": true,
	".csv": true, ".log": true, ".rst": true, ".tex": true, ".go": true, ".mod": true,
	".sum": true, ".rs": true, ".c": true, ".h": true, ".java": true, ".rb": true,
}

// Options controls how previews are rendered
type Options struct {
	Lines          int
	Width          int
	Highlight      bool
	RenderMarkdown bool
}

// Preview is the rendered head of a file
type Preview struct {
	Path      string
	Content   string
	Binary    bool
	Empty     bool
	Truncated bool // more lines follow
}

// Loader renders previews for files below a root directory
type Loader struct {
	root string
	opts Options
}

// NewLoader creates a loader for files relative to root
func NewLoader(root string, opts Options) *Loader {
	if opts.Lines <= 0 {
		opts.Lines = 40
	}
	if opts.Width <= 0 {
		opts.Width = 80
	}
	return &Loader{root: root, opts: opts}
}

// Load reads and renders the first lines of rel
func (l *Loader) Load(rel string) (Preview, error) {
	p := Preview{Path: rel}
	full := filepath.Join(l.root, filepath.FromSlash(rel))

	f, err := os.Open(full)
	if err != nil {
		return p, fmt.Errorf("unable to preview %s: %w", rel, err)
	}
	defer f.Close()

	r := bufio.NewReaderSize(f, sniffLen)
	head, err := r.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) {
		return p, fmt.Errorf("unable to preview %s: %w", rel, err)
	}
	if len(head) == 0 {
		p.Empty = true
		return p, nil
	}
	if !IsText(rel, head) {
		p.Binary = true
		return p, nil
	}

	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 256*1024)
	for scanner.Scan() {
		if len(lines) == l.opts.Lines {
			p.Truncated = true
			break
		}
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil && len(lines) == 0 {
		return p, fmt.Errorf("unable to preview %s: %w", rel, err)
	}

	text := strings.Join(lines, "\n")
	p.Content = l.render(rel, text)
	return p, nil
}

func (l *Loader) render(rel, text string) string {
	ext := strings.ToLower(filepath.Ext(rel))
	if l.opts.RenderMarkdown && (ext == ".md" || ext == ".markdown") {
		if out, err := RenderMarkdown(text, l.opts.Width); err == nil {
			return strings.TrimRight(out, "\n")
		}
	}
	if l.opts.Highlight {
		if out, err := Highlight(rel, text); err == nil {
			return out
		}
	}
	return text
}

// ReadText returns up to MaxCopyBytes of a text file
func (l *Loader) ReadText(rel string) (string, error) {
	full := filepath.Join(l.root, filepath.FromSlash(rel))
	f, err := os.Open(full)
	if err != nil {
		return "", fmt.Errorf("cannot read %s: %w", rel, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxCopyBytes))
	if err != nil {
		return "", fmt.Errorf("cannot read %s: %w", rel, err)
	}
	head := data
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	if len(data) > 0 && !IsText(rel, head) {
		return "", fmt.Errorf("cannot copy %s: %w", rel, ErrBinary)
	}
	return string(data), nil
}

// Path returns the absolute path of rel
func (l *Loader) Path(rel string) string {
	return filepath.Join(l.root, filepath.FromSlash(rel))
}

// IsText reports whether a file looks like text, from its extension and
// the first bytes of its content
func IsText(name string, head []byte) bool {
	if bytes.IndexByte(head, 0) >= 0 {
		return false
	}
	if textExtensions[strings.ToLower(filepath.Ext(name))] {
		return true
	}
	// a multi-byte rune may be cut at the end of the sniffed prefix
	for i := 0; i < utf8.UTFMax && len(head) > 0; i++ {
		if utf8.Valid(head) {
			return true
		}
		head = head[:len(head)-1]
	}
	return false
}

// Highlight colours source code for a 256-colour terminal
func Highlight(name, source string) (string, error) {
	lexer := lexers.Match(filepath.Base(name))
	if lexer == nil {
		lexer = lexers.Analyse(source)
	}
	if lexer == nil {
		return source, nil
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("monokai")
	formatter := formatters.Get("terminal256")

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return "", fmt.Errorf("tokenise %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return "", fmt.Errorf("format %s: %w", name, err)
	}
	return buf.String(), nil
}

// RenderMarkdown renders markdown for the terminal
func RenderMarkdown(source string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("markdown renderer: %w", err)
	}
	return r.Render(source)
}
