package server

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func writeSpecFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

// TestWatcherTriggersOnWrite verifies a write to a watched file fires the callback.
func TestWatcherTriggersOnWrite(t *testing.T) {
	dir := t.TempDir()
	spec := filepath.Join(dir, "petstore.json")
	writeSpecFile(t, spec, `{"openapi":"3.0.0"}`)

	changed := make(chan struct{}, 8)
	logger := zerolog.Nop()
	w, err := newWatcher([]string{spec}, func() { changed <- struct{}{} }, &logger)
	if err != nil {
		t.Fatalf("Failed to create watcher: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.run(ctx)

	time.Sleep(50 * time.Millisecond)
	writeSpecFile(t, spec, `{"openapi":"3.0.1"}`)

	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("expected change callback after write")
	}
}

// TestWatcherCoalescesBursts verifies rapid writes produce a single callback.
func TestWatcherCoalescesBursts(t *testing.T) {
	dir := t.TempDir()
	spec := filepath.Join(dir, "petstore.yaml")
	writeSpecFile(t, spec, "openapi: 3.0.0\n")

	changed := make(chan struct{}, 8)
	logger := zerolog.Nop()
	w, err := newWatcher([]string{spec}, func() { changed <- struct{}{} }, &logger)
	if err != nil {
		t.Fatalf("Failed to create watcher: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.run(ctx)

	time.Sleep(50 * time.Millisecond)
	for i := 0; i < 5; i++ {
		writeSpecFile(t, spec, "openapi: 3.0.0\n")
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("expected change callback after burst")
	}

	// The burst fits inside one debounce window
	select {
	case <-changed:
		t.Error("expected a single callback for the burst")
	case <-time.After(500 * time.Millisecond):
	}
}

// TestWatcherIgnoresSiblings verifies unrelated files in the same directory
// do not trigger reloads.
func TestWatcherIgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	spec := filepath.Join(dir, "petstore.json")
	sibling := filepath.Join(dir, "notes.txt")
	writeSpecFile(t, spec, `{}`)
	writeSpecFile(t, sibling, "scratch")

	changed := make(chan struct{}, 8)
	logger := zerolog.Nop()
	w, err := newWatcher([]string{spec}, func() { changed <- struct{}{} }, &logger)
	if err != nil {
		t.Fatalf("Failed to create watcher: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.run(ctx)

	time.Sleep(50 * time.Millisecond)
	writeSpecFile(t, sibling, "more scratch")

	select {
	case <-changed:
		t.Error("unexpected callback for sibling file")
	case <-time.After(500 * time.Millisecond):
	}
}

// TestWatcherSurvivesAtomicReplace verifies the editor save pattern of
// writing a temp file and renaming it over the watched path.
func TestWatcherSurvivesAtomicReplace(t *testing.T) {
	dir := t.TempDir()
	spec := filepath.Join(dir, "petstore.json")
	writeSpecFile(t, spec, `{"openapi":"3.0.0"}`)

	changed := make(chan struct{}, 8)
	logger := zerolog.Nop()
	w, err := newWatcher([]string{spec}, func() { changed <- struct{}{} }, &logger)
	if err != nil {
		t.Fatalf("Failed to create watcher: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.run(ctx)

	time.Sleep(50 * time.Millisecond)
	tmp := filepath.Join(dir, ".petstore.json.tmp")
	writeSpecFile(t, tmp, `{"openapi":"3.0.2"}`)
	if err := os.Rename(tmp, spec); err != nil {
		t.Fatalf("Failed to rename: %v", err)
	}

	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("expected change callback after atomic replace")
	}
}

// TestWatcherStopsOnCancel verifies run returns when the context ends.
func TestWatcherStopsOnCancel(t *testing.T) {
	dir := t.TempDir()
	spec := filepath.Join(dir, "petstore.json")
	writeSpecFile(t, spec, `{}`)

	logger := zerolog.Nop()
	w, err := newWatcher([]string{spec}, func() {}, &logger)
	if err != nil {
		t.Fatalf("Failed to create watcher: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.run(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("run did not return after cancel")
	}
}
