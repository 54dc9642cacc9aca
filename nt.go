package nt

import (
	"log/slog"
	"net/http"

	"github.com/aretw0/nt/internal/platform"
	"github.com/aretw0/nt/pkg/config"
	"github.com/aretw0/nt/pkg/core"
	service "github.com/aretw0/nt/pkg/nt"
)

// Service is the note service returned by New.
type Service = service.Service

// --- Configuration ---

// Option defines a functional option for configuring the service.
type Option = platform.Option

// WithGraph injects a graph adapter instead of the Logseq API client.
func WithGraph(graph core.Graph) Option {
	return platform.WithGraph(graph)
}

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithDryRun swaps the graph for an in-memory one and keeps the graph
// directory read-only.
func WithDryRun(enabled bool) Option {
	return platform.WithDryRun(enabled)
}

// WithReadOnly refuses every write to the graph and the graph directory.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithHTTPClient sets the HTTP client used for the Logseq API.
func WithHTTPClient(client *http.Client) Option {
	return platform.WithHTTPClient(client)
}

// WithConcurrency bounds parallel page lookups.
func WithConcurrency(n int) Option {
	return platform.WithConcurrency(n)
}

// --- Factory ---

// New creates a service from a loaded configuration.
func New(cfg *config.Config, opts ...Option) (*Service, error) {
	return platform.New(cfg, opts...)
}

// Open loads the configuration at path (the default location when empty)
// and creates a service from it.
func Open(path string, opts ...Option) (*Service, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return New(cfg, opts...)
}

// FindGraphRoot looks upwards from startDir for a Logseq graph directory.
func FindGraphRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir, "logseq", "pages", "journals")
}
