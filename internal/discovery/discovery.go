package discovery

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"findt/internal/domain"
	"findt/internal/eventbus"
)

// ErrScanInProgress is returned when a scan is started while another runs
var ErrScanInProgress = errors.New("scan already in progress")

// DiscoveryService finds files below a root directory
type DiscoveryService interface {
	StartScan(ctx context.Context, root string) error
	StopScan()
}

// Options configures discovery
type Options struct {
	IncludeHidden bool
	Ignore        []string // base names skipped at any depth
	UseGit        bool     // list files with git inside a work tree
	BatchSize     int
	FlushInterval time.Duration
}

// discoveryService is the concrete implementation
type discoveryService struct {
	bus        eventbus.EventBus
	opts       Options
	ignore     map[string]bool
	mu         sync.Mutex
	isScanning bool
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// NewDiscoveryService creates a new discovery service
func NewDiscoveryService(bus eventbus.EventBus, opts Options) DiscoveryService {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 256
	}
	if opts.FlushInterval <= 0 {
		opts.FlushInterval = 50 * time.Millisecond
	}
	ignore := make(map[string]bool, len(opts.Ignore))
	for _, name := range opts.Ignore {
		ignore[name] = true
	}
	return &discoveryService{
		bus:    bus,
		opts:   opts,
		ignore: ignore,
	}
}

// StartScan starts scanning root in the background
func (ds *discoveryService) StartScan(ctx context.Context, root string) error {
	ds.mu.Lock()
	if ds.isScanning {
		ds.mu.Unlock()
		return ErrScanInProgress
	}
	ds.isScanning = true

	scanCtx, cancel := context.WithCancel(ctx)
	ds.cancelFunc = cancel
	ds.mu.Unlock()

	source := "walk"
	useGit := ds.opts.UseGit && isGitWorkTree(scanCtx, root)
	if useGit {
		source = "git"
	}
	ds.bus.Publish(eventbus.ScanStartedEvent{Root: root, Source: source})

	ds.wg.Add(1)
	go func() {
		defer ds.wg.Done()

		b := newBatcher(ds.bus, ds.opts.BatchSize, ds.opts.FlushInterval)
		var err error
		if useGit {
			err = ds.listGit(scanCtx, root, b)
			if errors.Is(err, errGitUnavailable) {
				log.Printf("Discovery: git listing failed, walking %s instead: %v", root, err)
				err = ds.walk(scanCtx, root, b)
			}
		} else {
			err = ds.walk(scanCtx, root, b)
		}
		found := b.stop()

		if errors.Is(err, context.Canceled) {
			err = nil
		}
		if err != nil {
			log.Printf("Discovery: scan of %s failed: %v", root, err)
			ds.bus.Publish(eventbus.ErrorEvent{
				Message: fmt.Sprintf("Failed to scan %s", root),
				Err:     err,
			})
		}
		log.Printf("Discovery: scan of %s finished, %d files", root, found)

		ds.mu.Lock()
		ds.isScanning = false
		ds.cancelFunc = nil
		ds.mu.Unlock()

		ds.bus.Publish(eventbus.ScanCompletedEvent{Root: root, FilesFound: found, Err: err})
	}()

	return nil
}

// StopScan stops any ongoing scan and waits for it to finish
func (ds *discoveryService) StopScan() {
	ds.mu.Lock()
	if ds.cancelFunc != nil {
		ds.cancelFunc()
	}
	ds.mu.Unlock()

	ds.wg.Wait()
}

// walk recursively lists regular files below root
func (ds *discoveryService) walk(ctx context.Context, root string, b *batcher) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			log.Printf("Error walking path %s: %v", path, err)
			if d != nil && d.IsDir() && path != root {
				return fs.SkipDir
			}
			if path == root {
				return err
			}
			return nil
		}
		if path == root {
			return nil
		}

		if ds.skipName(d.Name()) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		info, err := fileInfo(path, d)
		if err != nil || info == nil {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		b.add(domain.NewEntry(filepath.ToSlash(rel), info.Size(), info.ModTime()))
		return nil
	})
}

// skipName reports whether a file or directory name is excluded
func (ds *discoveryService) skipName(name string) bool {
	if ds.ignore[name] {
		return true
	}
	return !ds.opts.IncludeHidden && strings.HasPrefix(name, ".")
}

// skipPath applies skipName to every segment of a slash separated path
func (ds *discoveryService) skipPath(rel string) bool {
	for _, seg := range strings.Split(rel, "/") {
		if ds.skipName(seg) {
			return true
		}
	}
	return false
}

// fileInfo returns info for regular files, following symlinks to files.
// It returns nil for anything else.
func fileInfo(path string, d fs.DirEntry) (fs.FileInfo, error) {
	if d.Type()&fs.ModeSymlink != 0 {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if !info.Mode().IsRegular() {
			return nil, nil
		}
		return info, nil
	}
	if !d.Type().IsRegular() {
		return nil, nil
	}
	return d.Info()
}

// batcher groups entries into EntriesDiscovered events by size and age
type batcher struct {
	bus     eventbus.EventBus
	size    int
	mu      sync.Mutex
	pending []domain.Entry
	total   int
	quit    chan struct{}
	done    chan struct{}
}

func newBatcher(bus eventbus.EventBus, size int, interval time.Duration) *batcher {
	b := &batcher{
		bus:  bus,
		size: size,
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
	go func() {
		defer close(b.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				b.mu.Lock()
				b.flushLocked()
				b.mu.Unlock()
			case <-b.quit:
				return
			}
		}
	}()
	return b
}

func (b *batcher) add(e domain.Entry) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending = append(b.pending, e)
	b.total++
	if len(b.pending) >= b.size {
		b.flushLocked()
	}
}

func (b *batcher) flushLocked() {
	if len(b.pending) == 0 {
		return
	}
	b.bus.Publish(eventbus.EntriesDiscoveredEvent{Entries: b.pending})
	b.pending = make([]domain.Entry, 0, b.size)
}

// stop flushes what is left and returns the number of entries published
func (b *batcher) stop() int {
	close(b.quit)
	<-b.done
	b.mu.Lock()
	defer b.mu.Unlock()
	b.flushLocked()
	return b.total
}
