package platform

import (
	"errors"
	"log/slog"

	"github.com/aretw0/nt/pkg/adapters/fs"
	"github.com/aretw0/nt/pkg/adapters/logseq"
	"github.com/aretw0/nt/pkg/adapters/memory"
	"github.com/aretw0/nt/pkg/config"
	"github.com/aretw0/nt/pkg/core"
	"github.com/aretw0/nt/pkg/git"
	"github.com/aretw0/nt/pkg/nt"
)

// svc, err := platform.New(cfg, platform.WithDryRun(true))
func New(cfg *config.Config, opts ...Option) (*nt.Service, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}

	graph := newGraph(cfg, o, logger)

	svcConfig := nt.Config{
		Filters:     cfg.Filter,
		Queries:     cfg.Query,
		Logger:      logger,
		Concurrency: o.concurrency,
	}
	if repo := cfg.Logseq.Repo; repo != "" {
		svcConfig.Local = fs.NewRepository(fs.Config{
			Path:     repo,
			ReadOnly: o.readOnly || o.dryRun,
			Logger:   logger,
		})
		root, err := FindRoot(repo, ".git")
		if err != nil {
			root = repo
		}
		svcConfig.Git = git.NewClient(root, logger)
	}

	return nt.NewService(graph, svcConfig), nil
}

// newGraph selects the graph adapter: an injected graph, the in-memory
// graph for dry runs, or the Logseq API client.
func newGraph(cfg *config.Config, o *options, logger *slog.Logger) core.Graph {
	switch {
	case o.graph != nil:
		return o.graph
	case o.dryRun:
		logger.Debug("dry run: using in-memory graph")
		return memory.New()
	}
	return logseq.NewClient(logseq.Config{
		Endpoint:   cfg.Logseq.Endpoint,
		Token:      cfg.Logseq.Token,
		Timeout:    cfg.Timeout(),
		ReadOnly:   o.readOnly,
		HTTPClient: o.httpClient,
		Logger:     logger,
	})
}
