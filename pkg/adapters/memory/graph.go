// Package memory provides an in-process core.Graph. It mirrors how Logseq
// treats pages and blocks closely enough to dry-run writes and to test the
// builder and the service layer.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/introspection"
	"github.com/google/uuid"

	"github.com/aretw0/nt/pkg/core"
	"github.com/aretw0/nt/pkg/outline"
)

// Call records one mutating call, for assertions.
type Call struct {
	Method  string
	Ref     core.Ref
	Content string
	Opts    core.InsertOptions
	Handle  core.Handle
}

type node struct {
	uuid     core.Handle
	content  string
	props    core.Properties
	page     *page
	parent   *node
	children []*node
}

type page struct {
	info  core.PageInfo
	roots []*node
}

// Graph is a thread-safe in-memory graph.
type Graph struct {
	mu     sync.RWMutex
	pages  map[string]*page
	order  []*page
	blocks map[core.Handle]*node
	calls  []Call
	nextID int64

	placeholder bool
	failOn      func(Call) error
}

// Option configures a Graph.
type Option func(*Graph)

// WithPlaceholder controls whether new pages start with an empty block, as
// Logseq pages do. Enabled by default.
func WithPlaceholder(enabled bool) Option {
	return func(g *Graph) {
		g.placeholder = enabled
	}
}

// WithFailOn installs a hook consulted before every mutating call; a non-nil
// error rejects the call.
func WithFailOn(fn func(Call) error) Option {
	return func(g *Graph) {
		g.failOn = fn
	}
}

// New returns an empty graph.
func New(opts ...Option) *Graph {
	g := &Graph{
		pages:       make(map[string]*page),
		blocks:      make(map[core.Handle]*node),
		placeholder: true,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Calls returns the mutating calls made so far.
func (g *Graph) Calls() []Call {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Call, len(g.calls))
	copy(out, g.calls)
	return out
}

// GetPage implements core.Graph.
func (g *Graph) GetPage(_ context.Context, name string) (*core.PageInfo, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	p := g.lookup(name)
	if p == nil {
		return nil, fmt.Errorf("page %q: %w", name, core.ErrNotFound)
	}
	info := p.info
	info.Properties = g.pageProperties(p)
	return &info, nil
}

// CreatePage implements core.Graph. An existing page is returned as is.
func (g *Graph) CreatePage(ctx context.Context, name string, props core.Properties) (*core.PageInfo, error) {
	g.mu.Lock()
	if p := g.lookup(name); p != nil {
		g.mu.Unlock()
		return g.GetPage(ctx, name)
	}
	if err := g.record(Call{Method: "createPage", Ref: core.Ref{Page: name}}); err != nil {
		g.mu.Unlock()
		return nil, err
	}

	g.nextID++
	p := &page{info: core.PageInfo{
		ID:           g.nextID,
		Name:         strings.ToLower(name),
		OriginalName: name,
		UUID:         core.Handle(uuid.New().String()),
	}}
	if day, err := time.Parse("2006-01-02", name); err == nil {
		p.info.Journal = true
		p.info.JournalDay, _ = strconv.Atoi(day.Format("20060102"))
	}
	g.pages[p.info.Name] = p
	g.order = append(g.order, p)

	switch {
	case props.Len() > 0:
		lines := make([]string, 0, props.Len())
		for _, prop := range props {
			lines = append(lines, outline.PropertyLine(prop.Key, prop.Value))
		}
		g.attachRoot(p, g.newNode(p, strings.Join(lines, "\n")), 0)
	case g.placeholder:
		g.attachRoot(p, g.newNode(p, ""), 0)
	}
	g.mu.Unlock()

	return g.GetPage(ctx, name)
}

// AllPages implements core.Graph.
func (g *Graph) AllPages(_ context.Context) ([]core.PageInfo, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]core.PageInfo, 0, len(g.order))
	for _, p := range g.order {
		info := p.info
		info.Properties = g.pageProperties(p)
		out = append(out, info)
	}
	return out, nil
}

// GetPageBlocks implements core.BlockStore.
func (g *Graph) GetPageBlocks(_ context.Context, name string) (core.Page, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	p := g.lookup(name)
	if p == nil {
		return nil, fmt.Errorf("page %q: %w", name, core.ErrNotFound)
	}
	return toBlocks(p.roots, true), nil
}

// CreateBlock implements core.BlockStore.
func (g *Graph) CreateBlock(_ context.Context, ref core.Ref, content string, opts core.InsertOptions) (core.Handle, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	call := Call{Method: "createBlock", Ref: ref, Content: content, Opts: opts}
	if err := g.check(call); err != nil {
		return "", err
	}

	n, err := g.insert(ref, content, opts)
	if err != nil {
		return "", err
	}
	call.Handle = n.uuid
	g.calls = append(g.calls, call)
	return n.uuid, nil
}

// InsertBatch implements core.Graph.
func (g *Graph) InsertBatch(_ context.Context, ref core.Ref, blocks core.Page, opts core.InsertOptions) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.record(Call{Method: "insertBatchBlock", Ref: ref, Opts: opts}); err != nil {
		return err
	}

	var prev *node
	for _, b := range blocks {
		var n *node
		var err error
		if prev == nil {
			n, err = g.insert(ref, batchContent(b), opts)
		} else {
			n, err = g.insert(core.Ref{Page: ref.Page, Block: prev.uuid}, batchContent(b), core.InsertOptions{Sibling: true})
		}
		if err != nil {
			return err
		}
		if err := g.insertChildren(n, b.Children); err != nil {
			return err
		}
		prev = n
	}
	return nil
}

func (g *Graph) insertChildren(parent *node, children []*core.Block) error {
	for _, child := range children {
		n, err := g.insert(core.Ref{Block: parent.uuid}, batchContent(child), core.InsertOptions{})
		if err != nil {
			return err
		}
		if err := g.insertChildren(n, child.Children); err != nil {
			return err
		}
	}
	return nil
}

// RemoveBlock implements core.BlockStore.
func (g *Graph) RemoveBlock(_ context.Context, h core.Handle) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.record(Call{Method: "removeBlock", Handle: h}); err != nil {
		return err
	}
	n, ok := g.blocks[h]
	if !ok {
		return fmt.Errorf("block %s: %w", h, core.ErrNotFound)
	}
	g.detach(n)
	g.forget(n)
	return nil
}

// UpsertProperty implements core.BlockStore. The property line is written
// into the block content as Logseq does.
func (g *Graph) UpsertProperty(_ context.Context, h core.Handle, key string, value any) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.record(Call{Method: "upsertBlockProperty", Handle: h, Content: key}); err != nil {
		return err
	}
	n, ok := g.blocks[h]
	if !ok {
		return fmt.Errorf("block %s: %w", h, core.ErrNotFound)
	}

	line := outline.PropertyLine(key, value)
	lines := strings.Split(n.content, "\n")
	replaced := false
	for i, l := range lines {
		if strings.HasPrefix(l, key+"::") {
			lines[i] = line
			replaced = true
		}
	}
	switch {
	case replaced:
		n.content = strings.Join(lines, "\n")
	case n.content == "":
		n.content = line
	default:
		n.content += "\n" + line
	}
	return nil
}

// Search implements core.Graph with a case-insensitive substring match.
func (g *Graph) Search(_ context.Context, term string) ([]core.SearchHit, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	needle := strings.ToLower(term)
	var hits []core.SearchHit
	for _, p := range g.order {
		toBlocks(p.roots, false).Walk(func(b *core.Block, _ int) bool {
			if strings.Contains(strings.ToLower(b.Content), needle) {
				hits = append(hits, core.SearchHit{UUID: b.UUID, Content: b.Content, PageID: p.info.ID})
			}
			return true
		})
	}
	return hits, nil
}

// Query implements core.Graph. Datalog is not available in memory.
func (g *Graph) Query(_ context.Context, _ string, _ ...string) ([]json.RawMessage, error) {
	return nil, core.ErrUnsupported
}

func (g *Graph) lookup(name string) *page {
	if p, ok := g.pages[strings.ToLower(strings.TrimSpace(name))]; ok {
		return p
	}
	for _, p := range g.order {
		if string(p.info.UUID) == name || strconv.FormatInt(p.info.ID, 10) == name {
			return p
		}
	}
	return nil
}

func (g *Graph) record(call Call) error {
	if err := g.check(call); err != nil {
		return err
	}
	g.calls = append(g.calls, call)
	return nil
}

func (g *Graph) check(call Call) error {
	if g.failOn == nil {
		return nil
	}
	if err := g.failOn(call); err != nil {
		return &core.RemoteError{Method: call.Method, Message: err.Error()}
	}
	return nil
}

func (g *Graph) newNode(p *page, content string) *node {
	n := &node{uuid: core.Handle(uuid.New().String()), content: content, page: p}
	g.blocks[n.uuid] = n
	return n
}

func (g *Graph) insert(ref core.Ref, content string, opts core.InsertOptions) (*node, error) {
	if ref.Block == "" {
		p := g.lookup(ref.Page)
		if p == nil {
			return nil, fmt.Errorf("page %q: %w", ref.Page, core.ErrNotFound)
		}
		n := g.newNode(p, content)
		if opts.Before {
			g.attachRoot(p, n, 0)
		} else {
			g.attachRoot(p, n, len(p.roots))
		}
		return n, nil
	}

	target, ok := g.blocks[ref.Block]
	if !ok {
		return nil, fmt.Errorf("block %s: %w", ref.Block, core.ErrNotFound)
	}
	n := g.newNode(target.page, content)

	if !opts.Sibling {
		n.parent = target
		if opts.Before {
			target.children = insertAt(target.children, n, 0)
		} else {
			target.children = append(target.children, n)
		}
		return n, nil
	}

	siblings := target.page.roots
	if target.parent != nil {
		siblings = target.parent.children
	}
	idx := indexOf(siblings, target)
	if !opts.Before {
		idx++
	}
	n.parent = target.parent
	if target.parent != nil {
		target.parent.children = insertAt(siblings, n, idx)
	} else {
		target.page.roots = insertAt(siblings, n, idx)
	}
	return n, nil
}

func (g *Graph) attachRoot(p *page, n *node, idx int) {
	p.roots = insertAt(p.roots, n, idx)
}

func (g *Graph) detach(n *node) {
	if n.parent != nil {
		n.parent.children = remove(n.parent.children, n)
		return
	}
	n.page.roots = remove(n.page.roots, n)
}

func (g *Graph) forget(n *node) {
	delete(g.blocks, n.uuid)
	for _, c := range n.children {
		g.forget(c)
	}
}

// pageProperties reads the properties of a page's leading properties block.
func (g *Graph) pageProperties(p *page) core.Properties {
	if len(p.roots) == 0 || !isPropertiesBlock(p.roots[0].content) {
		return nil
	}
	props, _ := outline.ExtractProperties(p.roots[0].content)
	return outline.FormatProperties(props)
}

func toBlocks(nodes []*node, top bool) core.Page {
	out := make(core.Page, 0, len(nodes))
	for i, n := range nodes {
		marker, _ := outline.ExtractMarker(n.content)
		props, _ := outline.ExtractProperties(n.content)
		b := &core.Block{
			UUID:       n.uuid,
			Content:    n.content,
			Marker:     marker,
			Properties: outline.FormatProperties(props),
			PreBlock:   top && i == 0 && isPropertiesBlock(n.content),
		}
		if len(n.children) > 0 {
			b.Children = toBlocks(n.children, false)
		}
		out = append(out, b)
	}
	return out
}

func isPropertiesBlock(content string) bool {
	if strings.TrimSpace(content) == "" {
		return false
	}
	for _, line := range strings.Split(content, "\n") {
		if !outline.IsPropertyLine(line) {
			return false
		}
	}
	return true
}

// batchContent renders a tree block the way a batch insert stores it.
func batchContent(b *core.Block) string {
	first, rest, _ := strings.Cut(b.Content, "\n")
	content := outline.ApplyMarker(b.Marker, first)
	if rest != "" {
		content += "\n" + rest
	}
	for _, prop := range b.Properties {
		line := outline.PropertyLine(prop.Key, prop.Value)
		if content == "" {
			content = line
		} else {
			content += "\n" + line
		}
	}
	return content
}

func insertAt(nodes []*node, n *node, idx int) []*node {
	if idx >= len(nodes) {
		return append(nodes, n)
	}
	nodes = append(nodes, nil)
	copy(nodes[idx+1:], nodes[idx:])
	nodes[idx] = n
	return nodes
}

func indexOf(nodes []*node, n *node) int {
	for i, c := range nodes {
		if c == n {
			return i
		}
	}
	return len(nodes) - 1
}

func remove(nodes []*node, n *node) []*node {
	for i, c := range nodes {
		if c == n {
			return append(nodes[:i], nodes[i+1:]...)
		}
	}
	return nodes
}

// GraphState exposes internal state for observability.
type GraphState struct {
	Pages  int `json:"pages"`
	Blocks int `json:"blocks"`
	Calls  int `json:"calls"`
}

// State implements introspection.Introspectable.
func (g *Graph) State() any {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return GraphState{Pages: len(g.order), Blocks: len(g.blocks), Calls: len(g.calls)}
}

// ComponentType implements introspection.Component.
func (g *Graph) ComponentType() string {
	return "memory"
}

var _ core.Graph = (*Graph)(nil)
var _ introspection.Introspectable = (*Graph)(nil)
var _ introspection.Component = (*Graph)(nil)
