package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/lifecycle/pkg/core/supervisor"
	"github.com/aretw0/lifecycle/pkg/core/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/nt/pkg/core"
)

func TestWatcherReportsChanges(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dir := t.TempDir()
	file := filepath.Join(dir, "draft.md")
	require.NoError(t, os.WriteFile(file, []byte("- A\n"), 0644))

	repo := NewRepository(Config{Path: dir})
	events := make(chan core.Event, 4)
	w := NewWatcher(repo, file, events)
	require.NoError(t, w.Start(ctx))
	waitForWatcher(t, repo, true)

	// unrelated files are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.md"), []byte("x"), 0644))
	// a burst of writes is reported once
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(file, []byte("- A\n- B\n"), 0644))
	}

	select {
	case e := <-events:
		assert.Equal(t, file, e.Path)
		assert.Contains(t, []core.EventType{core.EventModify, core.EventCreate}, e.Type)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for file event")
	}

	select {
	case e := <-events:
		t.Fatalf("unexpected extra event %v", e)
	case <-time.After(3 * DebounceWindow):
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()
	require.NoError(t, w.Stop(stopCtx))
	waitForWatcher(t, repo, false)

	state := repo.State().(RepositoryState)
	assert.NotNil(t, state.LastEvent)
}

func TestWatcherSupervisorRestarts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dir := t.TempDir()
	file := filepath.Join(dir, "draft.md")
	require.NoError(t, os.WriteFile(file, []byte("- A\n"), 0644))

	repo := NewRepository(Config{Path: dir})
	events := make(chan core.Event)
	created := make(chan *Watcher, 2)

	spec := repo.WatchSpec(file, events)
	spec.Factory = func() (worker.Worker, error) {
		w := NewWatcher(repo, file, events)
		created <- w
		return w, nil
	}
	spec.Backoff = supervisor.Backoff{
		InitialInterval: 10 * time.Millisecond,
		MaxInterval:     50 * time.Millisecond,
		Multiplier:      1,
		ResetDuration:   50 * time.Millisecond,
		MaxRestarts:     2,
		MaxDuration:     200 * time.Millisecond,
	}

	sup := supervisor.New("test-watcher", supervisor.StrategyOneForOne, spec)
	require.NoError(t, sup.Start(ctx))

	first := waitForWorker(t, created, "first")
	waitForWatcher(t, repo, true)

	waitForWatcherInit(t, first)
	_ = first.watcher.Close()

	second := waitForWorker(t, created, "second")
	assert.NotSame(t, first, second, "supervisor must restart the watcher with a new instance")
	waitForWatcher(t, repo, true)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()
	require.NoError(t, sup.Stop(stopCtx))
}

func waitForWorker(t *testing.T, ch <-chan *Watcher, label string) *Watcher {
	t.Helper()

	select {
	case w := <-ch:
		return w
	case <-time.After(2 * time.Second):
		t.Fatalf("timeout waiting for %s worker", label)
		return nil
	}
}

func waitForWatcherInit(t *testing.T, w *Watcher) {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		if w.watcher != nil {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("timeout waiting for watcher initialization")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func waitForWatcher(t *testing.T, repo *Repository, expected bool) {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		state, ok := repo.State().(RepositoryState)
		if ok && state.WatcherActive == expected {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("timeout waiting for watcher state = %v", expected)
		case <-time.After(10 * time.Millisecond):
		}
	}
}
