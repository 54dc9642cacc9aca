package platform

import (
	"log/slog"
	"net/http"

	"github.com/aretw0/nt/pkg/core"
)

// options holds the wiring choices for a Service.
type options struct {
	graph       core.Graph
	logger      *slog.Logger
	dryRun      bool
	readOnly    bool
	httpClient  *http.Client
	concurrency int
}

// Option configures the wiring of a Service.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		concurrency: 8,
	}
}

// WithGraph injects a graph (e.g. a fake in tests). The Logseq client is
// then not created.
func WithGraph(graph core.Graph) Option {
	return func(o *options) {
		o.graph = graph
	}
}

// WithLogger sets the logger for the service and its adapters.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithDryRun replaces the Logseq graph with an empty in-memory one and makes
// the graph directory read-only, so nothing outside the process changes.
func WithDryRun(enabled bool) Option {
	return func(o *options) {
		o.dryRun = enabled
	}
}

// WithReadOnly rejects every write to the graph and its directory with
// core.ErrReadOnly.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.readOnly = enabled
	}
}

// WithHTTPClient sets the HTTP client of the Logseq adapter.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithConcurrency bounds parallel page lookups. Zero keeps the default (8).
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}
