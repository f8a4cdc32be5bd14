package interrupt_test

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/go-mclib/scanner/interrupt"
)

func TestWatchProcessesAndDeletesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "interrupt.txt")
	if err := os.WriteFile(path, []byte("127.0.0.1:25565\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	logger := zap.NewNop().Sugar()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var got *net.TCPAddr
	done := make(chan struct{})

	go interrupt.Watch(ctx, path, logger, func(_ context.Context, addr *net.TCPAddr) {
		mu.Lock()
		got = addr
		mu.Unlock()
		close(done)
	})

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for interrupt handler to fire")
	}

	mu.Lock()
	defer mu.Unlock()
	if got == nil || got.Port != 25565 {
		t.Fatalf("got %+v, want port 25565", got)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("interrupt file was not deleted")
	}
}

func TestWatchIgnoresMalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "interrupt.txt")
	if err := os.WriteFile(path, []byte("not an address"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	logger := zap.NewNop().Sugar()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	called := make(chan struct{}, 1)
	go interrupt.Watch(ctx, path, logger, func(context.Context, *net.TCPAddr) {
		called <- struct{}{}
	})

	// The file exists before the watch starts, so no fsnotify event
	// fires; it is picked up by the first poll tick.
	time.Sleep(interrupt.PollInterval + time.Second)
	select {
	case <-called:
		t.Fatal("handler should not fire for malformed input")
	default:
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("malformed interrupt file should still be removed")
	}
}
