package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherSignalsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "datasources.yaml")
	if err := os.WriteFile(path, []byte("datasources: []\n"), 0o600); err != nil {
		t.Fatalf("seed write failed: %v", err)
	}

	w, err := New(path, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changed := make(chan struct{}, 1)
	go func() { _ = w.Run(ctx, changed) }()

	// Give the watcher a moment to be registered before writing.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte("datasources:\n- service_name: a\n"), 0o600); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatalf("no change signal received")
	}
}

func TestWatcherIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "datasources.yaml")
	if err := os.WriteFile(path, []byte("datasources: []\n"), 0o600); err != nil {
		t.Fatalf("seed write failed: %v", err)
	}

	w, err := New(path, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changed := make(chan struct{}, 1)
	go func() { _ = w.Run(ctx, changed) }()

	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0o600); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	select {
	case <-changed:
		t.Fatalf("unrelated file triggered a signal")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherStopsOnCancel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "datasources.yaml")
	w, err := New(path, 0)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, make(chan struct{}, 1)) }()
	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("watcher did not stop on cancellation")
	}
}
