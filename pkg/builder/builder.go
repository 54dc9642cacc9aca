// Package builder streams outline text into a graph one block at a time.
package builder

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aretw0/introspection"

	"github.com/aretw0/nt/pkg/core"
	"github.com/aretw0/nt/pkg/outline"
)

// Mode selects where root blocks land on the target page.
type Mode int

const (
	// Append adds root blocks after the existing page content.
	Append Mode = iota
	// Prepend adds root blocks before the existing content, or right after
	// Target.Anchor when set.
	Prepend
)

func (m Mode) String() string {
	if m == Prepend {
		return "prepend"
	}
	return "append"
}

// Target describes the page being written.
type Target struct {
	Page string
	Mode Mode
	// Anchor is the block new root blocks follow in Prepend mode, usually the
	// page properties block.
	Anchor core.Handle
	// Created marks a page created for this run; its placeholder first block
	// is removed by Finish.
	Created bool
}

// Stats summarizes a run.
type Stats struct {
	Lines   int `json:"lines"`
	Created int `json:"created"`
}

// cursor is the builder's position in the remote hierarchy.
type cursor struct {
	indent  int
	current core.Handle
	parent  core.Handle
	levels  []core.Handle
}

// Builder issues one create call per outline line, in order, awaiting each
// call before reading the next line since children reference the handle
// their parent's call returned. A failed call aborts the run; blocks already
// created stay in the graph.
//
// A Builder is not safe for concurrent use.
type Builder struct {
	store      core.BlockStore
	target     Target
	logger     *slog.Logger
	classifier outline.Classifier

	cursor     cursor
	props      []string
	lastRoot   core.Handle
	lastChild  map[core.Handle]core.Handle
	stats      Stats
	finished   bool
	lastFailed error
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// New returns a builder writing to target through store.
func New(store core.BlockStore, target Target, opts ...Option) *Builder {
	b := &Builder{
		store:     store,
		target:    target,
		lastChild: make(map[core.Handle]core.Handle),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	return b
}

// Build feeds every line of r and finishes the run.
func (b *Builder) Build(ctx context.Context, r io.Reader) (Stats, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if err := b.Feed(ctx, scanner.Text()); err != nil {
			return b.stats, err
		}
	}
	if err := scanner.Err(); err != nil {
		return b.stats, fmt.Errorf("read input: %w", err)
	}
	if err := b.Finish(ctx); err != nil {
		return b.stats, err
	}
	return b.stats, nil
}

// Feed processes one raw line.
func (b *Builder) Feed(ctx context.Context, raw string) error {
	if b.finished {
		return fmt.Errorf("builder already finished")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	b.stats.Lines++

	l, ok := b.classifier.Classify(raw)
	if !ok {
		return nil
	}

	switch l.Kind {
	case outline.KindHeader:
		// the page name carries the title
		return nil
	case outline.KindPageProperty, outline.KindHeaderProperty:
		b.props = append(b.props, l.Text)
		return nil
	}

	err := b.flushProperties(ctx)
	if err == nil {
		switch l.Kind {
		case outline.KindBlock:
			err = b.block(ctx, l)
		case outline.KindProperty:
			err = b.property(ctx, l)
		case outline.KindContent:
			err = b.content(ctx, l)
		}
	}
	if err != nil {
		b.lastFailed = err
		return fmt.Errorf("line %d: %w", b.stats.Lines, err)
	}
	return nil
}

// Finish flushes pending page properties and, for a page created by this
// run, removes the empty placeholder block the page started with. Cleanup
// failures are logged and ignored.
func (b *Builder) Finish(ctx context.Context) error {
	if b.finished {
		return nil
	}
	b.finished = true

	if err := b.flushProperties(ctx); err != nil {
		b.lastFailed = err
		return err
	}
	if b.target.Created {
		b.cleanup(ctx)
	}
	return nil
}

// Stats returns the counters of the run so far.
func (b *Builder) Stats() Stats { return b.stats }

func (b *Builder) block(ctx context.Context, l outline.Line) error {
	d := l.Depth
	switch {
	case d > b.cursor.indent:
		b.cursor.parent = b.cursor.current
	case d < b.cursor.indent:
		b.cursor.parent = b.levelAt(d - 1)
	}

	h, err := b.createUnder(ctx, b.cursor.parent, l.Text)
	if err != nil {
		return err
	}
	b.advance(d, h)
	return nil
}

func (b *Builder) property(ctx context.Context, l outline.Line) error {
	d := l.Depth
	b.cursor.parent = b.levelAt(d - 1)

	h, err := b.createUnder(ctx, b.cursor.parent, l.Text)
	if err != nil {
		return err
	}
	b.advance(d, h)
	return nil
}

func (b *Builder) content(ctx context.Context, l outline.Line) error {
	under := b.cursor.parent
	if under == "" {
		under = b.cursor.current
	}
	_, err := b.createUnder(ctx, under, l.Text)
	return err
}

// levelAt returns the handle open at depth d, the deepest open one when d is
// past the stack, or the page root for negative depths.
func (b *Builder) levelAt(d int) core.Handle {
	if d < 0 || len(b.cursor.levels) == 0 {
		return ""
	}
	if d >= len(b.cursor.levels) {
		return b.cursor.levels[len(b.cursor.levels)-1]
	}
	return b.cursor.levels[d]
}

func (b *Builder) advance(d int, h core.Handle) {
	if d < len(b.cursor.levels) {
		b.cursor.levels = b.cursor.levels[:d]
	}
	for len(b.cursor.levels) < d {
		b.cursor.levels = append(b.cursor.levels, b.levelAt(len(b.cursor.levels)))
	}
	b.cursor.levels = append(b.cursor.levels, h)
	b.cursor.current = h
	b.cursor.indent = d
}

func (b *Builder) flushProperties(ctx context.Context) error {
	if len(b.props) == 0 {
		return nil
	}
	content := strings.Join(b.props, "\n")
	b.props = nil
	if _, err := b.createRoot(ctx, content); err != nil {
		return fmt.Errorf("page properties: %w", err)
	}
	return nil
}

// createUnder creates a child of parent, or a root block when parent is
// empty. Later children follow their previous sibling so order holds
// whatever position the graph gives a new child.
func (b *Builder) createUnder(ctx context.Context, parent core.Handle, content string) (core.Handle, error) {
	if parent == "" {
		return b.createRoot(ctx, content)
	}

	ref := core.Ref{Page: b.target.Page, Block: parent}
	opts := core.InsertOptions{}
	if prev, ok := b.lastChild[parent]; ok {
		ref.Block = prev
		opts.Sibling = true
	}

	h, err := b.create(ctx, ref, content, opts)
	if err != nil {
		return "", err
	}
	b.lastChild[parent] = h
	return h, nil
}

func (b *Builder) createRoot(ctx context.Context, content string) (core.Handle, error) {
	ref := core.Ref{Page: b.target.Page}
	opts := core.InsertOptions{}

	if b.target.Mode == Prepend {
		switch {
		case b.lastRoot != "":
			ref.Block = b.lastRoot
			opts.Sibling = true
		case b.target.Anchor != "":
			ref.Block = b.target.Anchor
			opts.Sibling = true
		default:
			opts.Before = true
		}
	}

	h, err := b.create(ctx, ref, content, opts)
	if err != nil {
		return "", err
	}
	b.lastRoot = h
	return h, nil
}

func (b *Builder) create(ctx context.Context, ref core.Ref, content string, opts core.InsertOptions) (core.Handle, error) {
	h, err := b.store.CreateBlock(ctx, ref, content, opts)
	if err != nil {
		return "", err
	}
	b.stats.Created++
	b.logger.Debug("block created", "page", b.target.Page, "uuid", h, "parent", ref.Block, "sibling", opts.Sibling)
	return h, nil
}

func (b *Builder) cleanup(ctx context.Context) {
	blocks, err := b.store.GetPageBlocks(ctx, b.target.Page)
	if err != nil {
		b.logger.Warn("placeholder cleanup skipped", "page", b.target.Page, "error", err)
		return
	}
	if len(blocks) == 0 || strings.TrimSpace(blocks[0].Content) != "" || blocks[0].UUID == "" {
		return
	}
	if err := b.store.RemoveBlock(ctx, blocks[0].UUID); err != nil {
		b.logger.Warn("placeholder cleanup failed", "page", b.target.Page, "uuid", blocks[0].UUID, "error", err)
		return
	}
	b.logger.Debug("placeholder removed", "page", b.target.Page, "uuid", blocks[0].UUID)
}

// BuilderState exposes the cursor for introspection.
type BuilderState struct {
	Page      string `json:"page"`
	Mode      string `json:"mode"`
	Indent    int    `json:"indent"`
	Current   string `json:"current,omitempty"`
	Parent    string `json:"parent,omitempty"`
	Depth     int    `json:"depth"`
	Stats     Stats  `json:"stats"`
	Finished  bool   `json:"finished"`
	LastError string `json:"last_error,omitempty"`
}

// State implements introspection.Introspectable.
func (b *Builder) State() any {
	s := BuilderState{
		Page:     b.target.Page,
		Mode:     b.target.Mode.String(),
		Indent:   b.cursor.indent,
		Current:  string(b.cursor.current),
		Parent:   string(b.cursor.parent),
		Depth:    len(b.cursor.levels),
		Stats:    b.stats,
		Finished: b.finished,
	}
	if b.lastFailed != nil {
		s.LastError = b.lastFailed.Error()
	}
	return s
}

// ComponentType implements introspection.Component.
func (b *Builder) ComponentType() string {
	return "builder"
}

var _ introspection.Introspectable = (*Builder)(nil)
var _ introspection.Component = (*Builder)(nil)
