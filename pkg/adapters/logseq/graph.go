package logseq

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/aretw0/nt/pkg/core"
	"github.com/aretw0/nt/pkg/outline"
)

// API method names.
const (
	methodGetPage         = "logseq.Editor.getPage"
	methodCreatePage      = "logseq.Editor.createPage"
	methodGetAllPages     = "logseq.Editor.getAllPages"
	methodGetPageBlocks   = "logseq.Editor.getPageBlocksTree"
	methodAppendInPage    = "logseq.Editor.appendBlockInPage"
	methodPrependInPage   = "logseq.Editor.prependBlockInPage"
	methodInsertBlock     = "logseq.Editor.insertBlock"
	methodInsertBatch     = "logseq.Editor.insertBatchBlock"
	methodRemoveBlock     = "logseq.Editor.removeBlock"
	methodUpsertProperty  = "logseq.Editor.upsertBlockProperty"
	methodSearch          = "logseq.Editor.search"
	methodDatascriptQuery = "logseq.DB.datascriptQuery"
)

// remoteBlock is a block as returned by getPageBlocksTree.
type remoteBlock struct {
	UUID       core.Handle       `json:"uuid"`
	Content    string            `json:"content"`
	Properties core.Properties   `json:"properties"`
	Marker     core.Marker       `json:"marker"`
	Collapsed  *bool             `json:"collapsed?"`
	PreBlock   bool              `json:"preBlock?"`
	Children   []json.RawMessage `json:"children"`
}

func (r remoteBlock) toBlock() *core.Block {
	b := &core.Block{
		UUID:      r.UUID,
		Content:   r.Content,
		Marker:    r.Marker,
		PreBlock:  r.PreBlock,
		Collapsed: r.Collapsed,
	}
	if r.Properties.Len() > 0 {
		b.Properties = r.Properties
	}
	if b.Collapsed != nil && !*b.Collapsed {
		b.Collapsed = nil
	}
	b.Children = decodeBlocks(r.Children)
	return b
}

// decodeBlocks skips entries that are not block objects; unloaded children
// come back as ["uuid", "..."] pairs.
func decodeBlocks(raw []json.RawMessage) []*core.Block {
	var out []*core.Block
	for _, item := range raw {
		var rb remoteBlock
		if err := json.Unmarshal(item, &rb); err != nil {
			continue
		}
		out = append(out, rb.toBlock())
	}
	return out
}

type remotePage struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	OriginalName string          `json:"originalName"`
	UUID         core.Handle     `json:"uuid"`
	Journal      bool            `json:"journal?"`
	JournalDay   int             `json:"journalDay"`
	Properties   core.Properties `json:"properties"`
}

func (r remotePage) toInfo() core.PageInfo {
	info := core.PageInfo{
		ID:           r.ID,
		Name:         r.Name,
		OriginalName: r.OriginalName,
		UUID:         r.UUID,
		Journal:      r.Journal,
		JournalDay:   r.JournalDay,
	}
	if r.Properties.Len() > 0 {
		info.Properties = outline.FormatProperties(r.Properties)
	}
	return info
}

// batchBlock is the payload shape of insertBatchBlock.
type batchBlock struct {
	Content    string          `json:"content"`
	Properties core.Properties `json:"properties,omitempty"`
	Children   []batchBlock    `json:"children,omitempty"`
}

func toBatch(blocks []*core.Block) []batchBlock {
	out := make([]batchBlock, 0, len(blocks))
	for _, b := range blocks {
		first, rest := b.FirstLine(), ""
		if len(b.Content) > len(first) {
			rest = b.Content[len(first):]
		}
		bb := batchBlock{
			Content:    outline.ApplyMarker(b.Marker, first) + rest,
			Properties: b.Properties.Clone(),
		}
		if b.Collapsed != nil && *b.Collapsed {
			bb.Properties.Set(outline.CollapsedKey, true)
		}
		if len(b.Children) > 0 {
			bb.Children = toBatch(b.Children)
		}
		out = append(out, bb)
	}
	return out
}

// pageArg passes numeric names as database ids.
func pageArg(name string) any {
	if id, err := strconv.ParseInt(name, 10, 64); err == nil {
		return id
	}
	return name
}

// GetPage implements core.Graph.
func (c *Client) GetPage(ctx context.Context, name string) (*core.PageInfo, error) {
	if name == "" {
		return nil, core.ErrNameRequired
	}
	var page *remotePage
	if err := c.Call(ctx, methodGetPage, &page, pageArg(name)); err != nil {
		return nil, err
	}
	if page == nil {
		return nil, fmt.Errorf("page %q: %w", name, core.ErrNotFound)
	}
	info := page.toInfo()
	return &info, nil
}

// CreatePage implements core.Graph.
func (c *Client) CreatePage(ctx context.Context, name string, props core.Properties) (*core.PageInfo, error) {
	if name == "" {
		return nil, core.ErrNameRequired
	}
	var payload any = map[string]any{}
	if props.Len() > 0 {
		payload = props
	}
	var page *remotePage
	if err := c.mutate(ctx, methodCreatePage, &page, name, payload); err != nil {
		return nil, err
	}
	if page == nil {
		return nil, fmt.Errorf("%s %q: %w", methodCreatePage, name, core.ErrBadResponse)
	}
	info := page.toInfo()
	return &info, nil
}

// AllPages implements core.Graph.
func (c *Client) AllPages(ctx context.Context) ([]core.PageInfo, error) {
	var pages []remotePage
	if err := c.Call(ctx, methodGetAllPages, &pages); err != nil {
		return nil, err
	}
	out := make([]core.PageInfo, 0, len(pages))
	for _, p := range pages {
		out = append(out, p.toInfo())
	}
	return out, nil
}

// GetPageBlocks implements core.BlockStore.
func (c *Client) GetPageBlocks(ctx context.Context, name string) (core.Page, error) {
	if name == "" {
		return nil, core.ErrNameRequired
	}
	var raw *[]json.RawMessage
	if err := c.Call(ctx, methodGetPageBlocks, &raw, pageArg(name)); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, fmt.Errorf("page %q: %w", name, core.ErrNotFound)
	}
	return core.Page(decodeBlocks(*raw)), nil
}

// CreateBlock implements core.BlockStore.
func (c *Client) CreateBlock(ctx context.Context, ref core.Ref, content string, opts core.InsertOptions) (core.Handle, error) {
	var created *remoteBlock
	var err error
	switch {
	case ref.Block != "":
		err = c.mutate(ctx, methodInsertBlock, &created, ref.Block, content, opts)
	case opts.Before:
		err = c.mutate(ctx, methodPrependInPage, &created, ref.Page, content)
	default:
		err = c.mutate(ctx, methodAppendInPage, &created, ref.Page, content)
	}
	if err != nil {
		return "", err
	}
	if created == nil || created.UUID == "" {
		if ref.Block == "" {
			return "", fmt.Errorf("page %q: %w", ref.Page, core.ErrNotFound)
		}
		return "", fmt.Errorf("block %s: %w", ref.Block, core.ErrNotFound)
	}
	return created.UUID, nil
}

// InsertBatch implements core.Graph. A page ref inserts relative to the page
// entity itself.
func (c *Client) InsertBatch(ctx context.Context, ref core.Ref, blocks core.Page, opts core.InsertOptions) error {
	if len(blocks) == 0 {
		return nil
	}
	target := ref.Block
	if target == "" {
		page, err := c.GetPage(ctx, ref.Page)
		if err != nil {
			return err
		}
		target = page.UUID
	}
	return c.mutate(ctx, methodInsertBatch, nil, target, toBatch(blocks), opts)
}

// RemoveBlock implements core.BlockStore.
func (c *Client) RemoveBlock(ctx context.Context, h core.Handle) error {
	return c.mutate(ctx, methodRemoveBlock, nil, h)
}

// UpsertProperty implements core.BlockStore.
func (c *Client) UpsertProperty(ctx context.Context, h core.Handle, key string, value any) error {
	return c.mutate(ctx, methodUpsertProperty, nil, h, key, value)
}

// Search implements core.Graph.
func (c *Client) Search(ctx context.Context, term string) ([]core.SearchHit, error) {
	var result struct {
		Blocks []struct {
			UUID    core.Handle `json:"block/uuid"`
			Content string      `json:"block/content"`
			Page    int64       `json:"block/page"`
		} `json:"blocks"`
	}
	if err := c.Call(ctx, methodSearch, &result, term); err != nil {
		return nil, err
	}
	hits := make([]core.SearchHit, 0, len(result.Blocks))
	for _, b := range result.Blocks {
		hits = append(hits, core.SearchHit{UUID: b.UUID, Content: b.Content, PageID: b.Page})
	}
	return hits, nil
}

// Query implements core.Graph.
func (c *Client) Query(ctx context.Context, query string, args ...string) ([]json.RawMessage, error) {
	params := make([]any, 0, len(args)+1)
	params = append(params, query)
	for _, a := range args {
		params = append(params, a)
	}
	var rows []json.RawMessage
	if err := c.Call(ctx, methodDatascriptQuery, &rows, params...); err != nil {
		return nil, err
	}
	return rows, nil
}

var _ core.Graph = (*Client)(nil)
