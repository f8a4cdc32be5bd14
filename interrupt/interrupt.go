// Package interrupt watches a well-known file for an on-demand address
// to scan. It prefers fsnotify but always falls back to a poll ticker,
// since a watch on a directory that doesn't exist yet (or a filesystem
// that doesn't support inotify) would otherwise silently stop
// delivering the 5-second fallback cadence guarantee.
package interrupt

import (
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// PollInterval is the fallback cadence when fsnotify isn't delivering
// events.
const PollInterval = 5 * time.Second

// Handler processes one address extracted from the interrupt file.
type Handler func(ctx context.Context, addr *net.TCPAddr)

// Watch runs until ctx is cancelled, invoking handle once per detected
// interrupt file. It never returns an error: every failure (bad
// watcher, bad parse, bad delete) is logged and the loop continues
// rather than stopping.
func Watch(ctx context.Context, path string, log *zap.SugaredLogger, handle Handler) {
	dir := filepath.Dir(path)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Warnw("interrupt: fsnotify unavailable, using poll-only", "error", err)
		pollLoop(ctx, path, log, handle)
		return
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		log.Warnw("interrupt: watch directory failed, using poll-only", "dir", dir, "error", err)
	}

	ticker := time.NewTicker(PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Name == path && (event.Op&(fsnotify.Create|fsnotify.Write) != 0) {
				checkAndHandle(ctx, path, log, handle)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Warnw("interrupt: watcher error", "error", err)
		case <-ticker.C:
			checkAndHandle(ctx, path, log, handle)
		}
	}
}

// pollLoop is the degraded-mode path when fsnotify itself can't start.
func pollLoop(ctx context.Context, path string, log *zap.SugaredLogger, handle Handler) {
	ticker := time.NewTicker(PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			checkAndHandle(ctx, path, log, handle)
		}
	}
}

// checkAndHandle reads, parses, processes, and deletes the interrupt
// file if present.
func checkAndHandle(ctx context.Context, path string, log *zap.SugaredLogger, handle Handler) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Warnw("interrupt: read failed", "path", path, "error", err)
		}
		return
	}

	addr, err := parseAddr(string(data))
	if err != nil {
		log.Warnw("interrupt: parse failed", "path", path, "error", err)
		os.Remove(path)
		return
	}

	handle(ctx, addr)

	if err := os.Remove(path); err != nil {
		log.Warnw("interrupt: delete failed", "path", path, "error", err)
	}
}

// parseAddr parses the trimmed file contents as a TCP socket address.
func parseAddr(raw string) (*net.TCPAddr, error) {
	trimmed := strings.TrimSpace(raw)
	return net.ResolveTCPAddr("tcp", trimmed)
}
