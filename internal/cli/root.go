package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"findt/internal/clipboard"
	"findt/internal/config"
	"findt/internal/discovery"
	"findt/internal/eventbus"
	"findt/internal/match"
	"findt/internal/preview"
	"findt/internal/session"
	"findt/internal/store"
	"findt/internal/ui"
)

// Version is injected at build time via -ldflags
var Version = "1.0.0"

type flags struct {
	path       string
	fancy      bool
	hidden     bool
	noFuzzy    bool
	noGit      bool
	configPath string
	logFile    string
}

// settings is everything a run needs, after merging config and flags
type settings struct {
	root      string
	query     string
	cfg       *config.Config
	fuzzyWant bool // --fancy was given
}

// NewRootCommand creates the findt command
func NewRootCommand() *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:   "findt [query]",
		Short: "Interactive terminal file finder",
		Long: `findt lists the files below a directory and filters them as you type.

Files appear while the directory is still being indexed. Matching is a
case-insensitive substring search by default; fuzzy mode (--fancy or
ctrl+f) matches characters in order and ranks the closest matches first.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := resolve(f, args)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cmd.ErrOrStderr(), s, f.logFile)
		},
	}
	cmd.SetVersionTemplate("findt {{.Version}}\n")

	cmd.Flags().StringVarP(&f.path, "path", "d", "", "directory to search (default: current directory)")
	cmd.Flags().BoolVar(&f.fancy, "fancy", false, "start in fuzzy matching mode")
	cmd.Flags().BoolVar(&f.hidden, "hidden", false, "include hidden files and directories")
	cmd.Flags().BoolVar(&f.noFuzzy, "no-fuzzy", false, "disable fuzzy matching")
	cmd.Flags().BoolVar(&f.noGit, "no-git", false, "walk the directory even inside a git work tree")
	cmd.Flags().StringVar(&f.configPath, "config", "", "config file (default: "+config.DefaultPath()+")")
	cmd.Flags().StringVar(&f.logFile, "log-file", "", "log file (default: user cache directory)")

	return cmd
}

// Execute runs the root command and returns the process exit code
func Execute() int {
	if err := NewRootCommand().Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// resolve loads configuration, applies flags and validates the root directory
func resolve(f *flags, args []string) (*settings, error) {
	var cfg *config.Config
	var err error
	if f.configPath != "" {
		cfg, err = config.NewConfigServiceAt(f.configPath).LoadFromPath(f.configPath)
	} else {
		cfg, err = config.NewConfigService().Load()
	}
	if err != nil {
		return nil, err
	}

	if f.fancy {
		cfg.Search.StartFuzzy = true
	}
	if f.noFuzzy {
		cfg.Search.Fuzzy = false
	}
	if f.hidden {
		cfg.Discovery.IncludeHidden = true
	}
	if f.noGit {
		cfg.Discovery.UseGit = false
	}

	root := f.path
	if root == "" {
		if root, err = os.Getwd(); err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}
	root, err = filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("directory %s does not exist", root)
		}
		return nil, fmt.Errorf("checking %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	return &settings{
		root:      root,
		query:     strings.Join(args, " "),
		cfg:       cfg,
		fuzzyWant: f.fancy,
	}, nil
}

// setupLogging sends the standard logger to a file; the terminal belongs to the UI
func setupLogging(path string) (func(), error) {
	if path == "" {
		dir, err := os.UserCacheDir()
		if err != nil {
			dir = os.TempDir()
		}
		path = filepath.Join(dir, "findt", "findt.log")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	logFile, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	log.SetOutput(logFile)
	return func() {
		log.SetOutput(io.Discard)
		logFile.Close()
	}, nil
}

func run(parent context.Context, stderr io.Writer, s *settings, logPath string) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return errors.New("findt needs an interactive terminal")
	}

	closeLog, err := setupLogging(logPath)
	if err != nil {
		color.New(color.FgYellow).Fprintf(stderr, "Warning: %v, logging disabled\n", err)
		log.SetOutput(io.Discard)
	} else {
		defer closeLog()
	}
	log.Printf("Starting findt %s in %s", Version, s.root)

	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	cfg := s.cfg
	capability := match.Probe(cfg.Search.Fuzzy)
	if s.fuzzyWant && capability == nil {
		color.New(color.FgYellow).Fprintln(stderr, "Warning: fuzzy matching is disabled, using exact search")
	}

	bus := eventbus.New()
	defer bus.Close()

	st := store.New()
	feed := discovery.NewFeed(bus, st)
	defer feed.Close()

	discoverySvc := discovery.NewDiscoveryService(bus, discovery.Options{
		IncludeHidden: cfg.Discovery.IncludeHidden,
		Ignore:        cfg.Discovery.Ignore,
		UseGit:        cfg.Discovery.UseGit,
		BatchSize:     cfg.Discovery.BatchSize,
		FlushInterval: time.Duration(cfg.Discovery.FlushInterval),
	})

	sess := session.New(st, session.Options{
		Capability:     capability,
		StartFuzzy:     cfg.Search.StartFuzzy,
		Query:          s.query,
		PreviewVisible: cfg.UI.ShowPreview,
		FuzzyGuard:     cfg.Search.FuzzyGuard,
	})
	loader := preview.NewLoader(s.root, preview.Options{
		Lines:          cfg.UI.PreviewLines,
		Highlight:      cfg.UI.Highlight,
		RenderMarkdown: cfg.UI.RenderMarkdown,
	})
	clip := clipboard.New(os.Stderr)
	log.Printf("Clipboard: %s", clip.Status())

	model := ui.NewModel(sess, clip, loader, ui.Options{
		Root:         s.root,
		PreviewLines: cfg.UI.PreviewLines,
		ReadyMarker:  os.Getenv("FINDT_E2E_TEST") == "1",
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	model.SetProgram(p)

	bus.Subscribe(eventbus.EventScanStarted, func(e eventbus.DomainEvent) {
		p.Send(ui.EventMsg{Event: e})
	})
	go forward(ctx, feed, p)

	if err := discoverySvc.StartScan(ctx, s.root); err != nil {
		return fmt.Errorf("starting scan: %w", err)
	}

	_, err = p.Run()
	cancel()
	discoverySvc.StopScan()

	if err != nil && ctx.Err() == nil {
		log.Printf("Error running program: %v", err)
		return err
	}
	log.Printf("UI exited normally")
	return nil
}

// forward turns feed notifications into UI messages
func forward(ctx context.Context, feed *discovery.Feed, p *tea.Program) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-feed.Signals():
			p.Send(ui.EntriesArrivedMsg{})
		case e := <-feed.Completed():
			// deliver entries appended before completion first
			select {
			case <-feed.Signals():
				p.Send(ui.EntriesArrivedMsg{})
			default:
			}
			p.Send(ui.EventMsg{Event: e})
		case e := <-feed.Errors():
			p.Send(ui.EventMsg{Event: e})
		}
	}
}
