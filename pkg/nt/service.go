package nt

import (
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/introspection"

	"github.com/aretw0/nt/pkg/adapters/fs"
	"github.com/aretw0/nt/pkg/builder"
	"github.com/aretw0/nt/pkg/core"
	"github.com/aretw0/nt/pkg/git"
)

// Config holds the collaborators of a Service. Only the graph passed to
// NewService is required.
type Config struct {
	// Local is the graph directory holding page files.
	Local *fs.Repository
	// Git commits page files written with WriteOptions.Commit.
	Git *git.Client
	// Filters are the named patterns usable with --less and --only.
	Filters map[string]string
	// Queries are named datalog templates.
	Queries map[string]string
	Logger  *slog.Logger
	// Now returns the current time; journal defaults use it.
	Now func() time.Time
	// Concurrency bounds parallel page lookups.
	Concurrency int
}

// Service implements the nt operations over a graph.
type Service struct {
	graph  core.Graph
	config Config
	logger *slog.Logger

	mu          sync.RWMutex
	posts       int
	wipes       int
	lastBuilder *builder.Builder
	lastError   error
}

// NewService creates a Service.
func NewService(graph core.Graph, config Config) *Service {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	if config.Concurrency <= 0 {
		config.Concurrency = 8
	}
	return &Service{
		graph:  graph,
		config: config,
		logger: config.Logger,
	}
}

// Graph returns the graph the service works on.
func (s *Service) Graph() core.Graph { return s.graph }

// Filters returns the configured named filters.
func (s *Service) Filters() map[string]string { return s.config.Filters }

// Today returns the name of today's journal page.
func (s *Service) Today() string {
	return core.FormatJournalDay(core.Today(s.config.Now()), "-")
}

func (s *Service) track(b *builder.Builder, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b != nil {
		s.lastBuilder = b
		s.posts++
	}
	if err != nil {
		s.lastError = err
	}
}

// ServiceState exposes internal state for observability.
type ServiceState struct {
	GraphType string `json:"graph_type"`
	Graph     any    `json:"graph,omitempty"`
	Local     any    `json:"local,omitempty"`
	Posts     int    `json:"posts"`
	Wipes     int    `json:"wipes"`
	Builder   any    `json:"builder,omitempty"`
	LastError string `json:"last_error,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := ServiceState{
		GraphType: "graph",
		Posts:     s.posts,
		Wipes:     s.wipes,
	}
	if comp, ok := s.graph.(introspection.Component); ok {
		st.GraphType = comp.ComponentType()
	}
	if in, ok := s.graph.(introspection.Introspectable); ok {
		st.Graph = in.State()
	}
	if s.config.Local != nil {
		st.Local = s.config.Local.State()
	}
	if s.lastBuilder != nil {
		st.Builder = s.lastBuilder.State()
	}
	if s.lastError != nil {
		st.LastError = s.lastError.Error()
	}
	return st
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "service"
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
