package discovery

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"findt/internal/domain"
)

var errGitUnavailable = errors.New("git listing unavailable")

// isGitWorkTree reports whether dir is inside a git work tree
func isGitWorkTree(ctx context.Context, dir string) bool {
	cmd := exec.CommandContext(ctx, "git", "rev-parse", "--is-inside-work-tree")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(out)) == "true"
}

// listGit lists tracked and untracked, non-ignored files below root.
// A failure before any file was emitted wraps errGitUnavailable so the
// caller can fall back to walking.
func (ds *discoveryService) listGit(ctx context.Context, root string, b *batcher) error {
	cmd := exec.CommandContext(ctx, "git", "ls-files", "-z", "--cached", "--others", "--exclude-standard")
	cmd.Dir = root
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("%w: %v", errGitUnavailable, err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: %v", errGitUnavailable, err)
	}

	emitted := 0
	seen := make(map[string]bool)
	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	scanner.Split(splitNUL)
	for scanner.Scan() {
		rel := scanner.Text()
		// unmerged paths are listed once per stage
		if rel == "" || seen[rel] || ds.skipPath(rel) {
			continue
		}
		seen[rel] = true

		info, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		b.add(domain.NewEntry(rel, info.Size(), info.ModTime()))
		emitted++
	}
	scanErr := scanner.Err()
	waitErr := cmd.Wait()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if waitErr != nil {
		waitErr = fmt.Errorf("git ls-files: %w: %s", waitErr, strings.TrimSpace(stderr.String()))
		if emitted == 0 {
			return fmt.Errorf("%w: %v", errGitUnavailable, waitErr)
		}
		return waitErr
	}
	if scanErr != nil {
		return fmt.Errorf("reading git ls-files output: %w", scanErr)
	}
	return nil
}

func splitNUL(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if i := bytes.IndexByte(data, 0); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF && len(data) > 0 {
		return len(data), data, nil
	}
	return 0, nil, nil
}
