package fs

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/aretw0/lifecycle/pkg/core/supervisor"
	"github.com/aretw0/lifecycle/pkg/core/worker"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/nt/pkg/core"
)

// DebounceWindow is how long a file must stay quiet before its change is
// reported.
const DebounceWindow = 100 * time.Millisecond

// Watcher is a worker reporting changes to one file. The parent directory is
// watched so editors that save by renaming keep being followed.
type Watcher struct {
	*worker.BaseWorker
	repo      *Repository
	file      string
	events    chan<- core.Event
	watcher   *fsnotify.Watcher
	debouncer *debouncer
	cancel    context.CancelFunc
}

// NewWatcher creates a watcher for file that sends to events.
func NewWatcher(repo *Repository, file string, events chan<- core.Event) *Watcher {
	abs, err := filepath.Abs(file)
	if err != nil {
		abs = file
	}
	return &Watcher{
		BaseWorker: worker.NewBaseWorker("fs-watcher"),
		repo:       repo,
		file:       abs,
		events:     events,
	}
}

// WatchSpec returns a supervisor spec restarting the watcher of file when it
// fails.
func (r *Repository) WatchSpec(file string, events chan<- core.Event) supervisor.Spec {
	return supervisor.Spec{
		Name: "fs-watcher",
		Type: string(worker.TypeGoroutine),
		Factory: func() (worker.Worker, error) {
			return NewWatcher(r, file, events), nil
		},
		Backoff: supervisor.Backoff{
			InitialInterval: 100 * time.Millisecond,
			MaxInterval:     5 * time.Second,
			Multiplier:      2,
			ResetDuration:   time.Minute,
			MaxRestarts:     5,
			MaxDuration:     10 * time.Minute,
		},
		RestartPolicy: supervisor.RestartOnFailure,
	}
}

func (w *Watcher) Start(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	status := w.State().Status
	if status != worker.StatusCreated && status != worker.StatusPending {
		return fmt.Errorf("watcher already started (status: %s)", status)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(w.file)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", w.file, err)
	}

	w.watcher = watcher
	w.debouncer = newDebouncer(DebounceWindow)
	w.repo.setWatcherActive(true)

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.SetStatus(worker.StatusRunning)
	return w.StartFunc(runCtx, w.run)
}

func (w *Watcher) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.StopRequested = true
		w.cancel()
	}
	return w.BaseWorker.Stop(ctx)
}

func (w *Watcher) State() worker.State {
	return w.ExportState(func(s *worker.State) {
		s.Metadata = map[string]string{
			worker.MetadataType: string(worker.TypeGoroutine),
			"file":              w.file,
		}
	})
}

func mapEventType(event fsnotify.Event) core.EventType {
	switch {
	case event.Has(fsnotify.Create):
		return core.EventCreate
	case event.Has(fsnotify.Write):
		return core.EventModify
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return core.EventDelete
	}
	return ""
}

// processFilesystemEvent forwards events about the watched file.
func (w *Watcher) processFilesystemEvent(ctx context.Context, event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.file {
		return false
	}
	eType := mapEventType(event)
	if eType == "" {
		return false
	}
	w.repo.config.Logger.Debug("file event", "path", event.Name, "op", event.Op.String())

	w.debouncer.add(core.Event{
		Type:      eType,
		Path:      w.file,
		Timestamp: time.Now().Unix(),
	}, func(e core.Event) {
		defer func() {
			// the events channel may be closed while shutting down
			_ = recover()
		}()
		select {
		case w.events <- e:
			w.repo.recordEvent()
		case <-ctx.Done():
		}
	})
	return true
}

func (w *Watcher) handleWatcherError(err error) {
	if w.repo.config.ErrorHandler != nil {
		w.repo.config.ErrorHandler(err)
		return
	}
	w.repo.config.Logger.Error("fsnotify error", "error", err)
}

func (w *Watcher) run(ctx context.Context) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("watcher panic: %v", recovered)
			if w.repo.config.Logger.Enabled(ctx, slog.LevelDebug) {
				w.repo.config.Logger.Error("watcher panic", "error", err, "stack", string(debug.Stack()))
			} else {
				w.repo.config.Logger.Error("watcher panic", "error", err)
			}
		}
	}()
	defer w.repo.setWatcherActive(false)
	defer w.watcher.Close()

	err = w.mainEventLoop(ctx)

	// wait for in-flight deliveries before the owner closes the channel
	w.debouncer.stopAndWait(5 * time.Second)
	return err
}

func (w *Watcher) mainEventLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			w.processFilesystemEvent(ctx, event)

		case wErr, ok := <-w.watcher.Errors:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.handleWatcherError(wErr)
		}
	}
}
