package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dquist/verso/internal/event"
)

func TestWatcherReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "verso.toml")
	if err := os.WriteFile(path, []byte(`line_ending = "lf"`), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	w, err := NewWatcher(path, WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte(`line_ending = "crlf"`), 0o644); err != nil {
		t.Fatalf("rewriting config: %v", err)
	}

	select {
	case cfg := <-w.Reloads():
		if cfg.LineEnding != "crlf" {
			t.Errorf("expected crlf after reload, got %q", cfg.LineEnding)
		}
	case err := <-w.Errors():
		t.Fatalf("unexpected watch error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}

func TestWatcherReportsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "verso.toml")
	if err := os.WriteFile(path, []byte(`line_ending = "lf"`), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	w, err := NewWatcher(path, WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte(`line_ending = "cr"`), 0o644); err != nil {
		t.Fatalf("rewriting config: %v", err)
	}

	select {
	case err := <-w.Errors():
		if err == nil {
			t.Error("expected a validation error")
		}
	case cfg := <-w.Reloads():
		t.Fatalf("expected an error, got reload %+v", cfg)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for error")
	}
}

func TestWatcherIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "verso.toml")
	if err := os.WriteFile(path, []byte(`line_ending = "lf"`), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	w, err := NewWatcher(path, WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "other.toml"), []byte(`x = 1`), 0o644); err != nil {
		t.Fatalf("writing sibling: %v", err)
	}

	select {
	case cfg := <-w.Reloads():
		t.Fatalf("sibling write should not reload, got %+v", cfg)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherPublishTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "verso.toml")
	if err := os.WriteFile(path, []byte(`line_ending = "lf"`), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	w, err := NewWatcher(path, WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer w.Close()

	bus := event.NewBus()
	defer bus.Close()

	changed := make(chan event.ConfigChanged, 1)
	if _, err := bus.SubscribeFunc(event.TopicConfigChanged,
		func(_ context.Context, ev any) error {
			if e, ok := ev.(event.ConfigChanged); ok {
				changed <- e
			}
			return nil
		}); err != nil {
		t.Fatalf("subscribing: %v", err)
	}

	applied := make(chan Config, 1)
	go w.PublishTo(bus, func(cfg Config) { applied <- cfg })

	if err := os.WriteFile(path, []byte(`line_ending = "crlf"`), 0o644); err != nil {
		t.Fatalf("rewriting config: %v", err)
	}

	select {
	case cfg := <-applied:
		if cfg.LineEnding != "crlf" {
			t.Errorf("expected crlf, got %q", cfg.LineEnding)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for apply")
	}
	select {
	case ev := <-changed:
		if ev.Path != w.Path() {
			t.Errorf("expected path %q, got %q", w.Path(), ev.Path)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for ConfigChanged")
	}
}

func TestWatcherDoubleClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "verso.toml")

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("first close failed: %v", err)
	}
	if err := w.Close(); err != ErrWatcherClosed {
		t.Errorf("expected ErrWatcherClosed, got %v", err)
	}
}
