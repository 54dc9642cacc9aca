package nt

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/lifecycle/pkg/core/supervisor"
	"go.uber.org/multierr"

	"github.com/aretw0/nt/pkg/adapters/fs"
	ltsource "github.com/aretw0/nt/pkg/adapters/lifecycle"
	"github.com/aretw0/nt/pkg/builder"
	"github.com/aretw0/nt/pkg/core"
)

// WatchOptions controls Watch.
type WatchOptions struct {
	// OnSync is called after every resync with its outcome.
	OnSync func(PostResult, error)
	// StopTimeout bounds the watcher shutdown.
	StopTimeout time.Duration
}

// Watch posts a local outline file to a page, replacing the page content,
// and posts it again after every change to the file until ctx ends. Resync
// failures are reported through OnSync and logged; they do not stop the
// watch.
func (s *Service) Watch(ctx context.Context, file, page string, opts WatchOptions) error {
	abs, err := filepath.Abs(file)
	if err != nil {
		return err
	}
	if _, err := os.Stat(abs); err != nil {
		return fmt.Errorf("watch %s: %w", file, err)
	}
	if opts.StopTimeout <= 0 {
		opts.StopTimeout = 5 * time.Second
	}

	repo := s.config.Local
	if repo == nil {
		repo = fs.NewRepository(fs.Config{Path: filepath.Dir(abs), Logger: s.logger})
	}

	events := make(chan core.Event, 16)
	sup := supervisor.New("nt-watch", supervisor.StrategyOneForOne, repo.WatchSpec(abs, events))
	if err := sup.Start(ctx); err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	src := ltsource.NewSource(events, ltsource.WithTypes(core.EventCreate, core.EventModify))
	if err := src.Start(ctx); err != nil {
		return multierr.Append(fmt.Errorf("start event source: %w", err), s.stop(sup, opts.StopTimeout))
	}

	s.sync(ctx, abs, page, opts)
	for {
		select {
		case <-ctx.Done():
			return s.stop(sup, opts.StopTimeout)
		case e, ok := <-src.Events():
			if !ok {
				return s.stop(sup, opts.StopTimeout)
			}
			s.logger.Debug("file changed", "event", e.String())
			s.sync(ctx, abs, page, opts)
		}
	}
}

func (s *Service) sync(ctx context.Context, file, page string, opts WatchOptions) {
	res, err := s.syncFile(ctx, file, page)
	if err != nil {
		s.logger.Error("resync failed", "file", file, "page", page, "error", err)
	} else {
		s.logger.Info("page synced", "file", file, "page", res.Page, "blocks", res.Blocks)
	}
	if opts.OnSync != nil {
		opts.OnSync(res, err)
	}
}

func (s *Service) syncFile(ctx context.Context, file, page string) (PostResult, error) {
	f, err := os.Open(file)
	if err != nil {
		return PostResult{}, err
	}
	defer f.Close()
	return s.Post(ctx, page, f, PostOptions{Mode: builder.Append, Overwrite: true})
}

type stopper interface {
	Stop(ctx context.Context) error
}

func (s *Service) stop(sup stopper, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := sup.Stop(ctx); err != nil {
		return fmt.Errorf("stop watcher: %w", err)
	}
	return nil
}
