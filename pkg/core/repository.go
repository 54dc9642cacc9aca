package core

import (
	"context"
	"encoding/json"
)

// Ref locates an insertion point: a block when Block is set, otherwise the
// page itself.
type Ref struct {
	Page  string
	Block Handle
}

// InsertOptions controls where a new block lands relative to its Ref.
//
// With a block Ref, Sibling inserts next to the block (after it, or before
// it with Before) and !Sibling inserts as its child. With a page Ref, Before
// prepends to the page and the default appends.
type InsertOptions struct {
	Before  bool `json:"before,omitempty"`
	Sibling bool `json:"sibling"`
}

// BlockStore is the remote block API consumed by the streaming builder.
type BlockStore interface {
	// GetPageBlocks returns the block tree of a page, or ErrNotFound.
	GetPageBlocks(ctx context.Context, page string) (Page, error)

	// CreateBlock inserts one block and returns its handle.
	CreateBlock(ctx context.Context, ref Ref, content string, opts InsertOptions) (Handle, error)

	// RemoveBlock deletes a block and its children.
	RemoveBlock(ctx context.Context, h Handle) error

	// UpsertProperty sets a property on a block.
	UpsertProperty(ctx context.Context, h Handle, key string, value any) error
}

// Graph is the full note graph surface used by the service layer.
type Graph interface {
	BlockStore

	// GetPage looks a page up by name (case-insensitive), id or uuid.
	GetPage(ctx context.Context, name string) (*PageInfo, error)

	// CreatePage creates an empty page.
	CreatePage(ctx context.Context, name string, props Properties) (*PageInfo, error)

	// AllPages lists every page of the graph.
	AllPages(ctx context.Context) ([]PageInfo, error)

	// InsertBatch inserts a whole block tree in one call.
	InsertBatch(ctx context.Context, ref Ref, blocks Page, opts InsertOptions) error

	// Search runs a full-text search over blocks.
	Search(ctx context.Context, term string) ([]SearchHit, error)

	// Query runs a datalog query and returns the raw result rows.
	Query(ctx context.Context, query string, args ...string) ([]json.RawMessage, error)
}
