package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/nt/pkg/core"
)

func contents(blocks []*core.Block) []string {
	out := make([]string, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, b.Content)
	}
	return out
}

func TestGraph_CreatePage(t *testing.T) {
	ctx := context.Background()
	g := New()

	info, err := g.CreatePage(ctx, "Reading List", nil)
	require.NoError(t, err)
	assert.Equal(t, "reading list", info.Name)
	assert.Equal(t, "Reading List", info.Title())
	assert.False(t, info.Journal)

	again, err := g.CreatePage(ctx, "reading list", nil)
	require.NoError(t, err)
	assert.Equal(t, info.UUID, again.UUID)

	blocks, err := g.GetPageBlocks(ctx, "READING LIST")
	require.NoError(t, err)
	require.Len(t, blocks, 1, "new pages start with a placeholder")
	assert.Empty(t, blocks[0].Content)

	journal, err := g.CreatePage(ctx, "2024-03-09", nil)
	require.NoError(t, err)
	assert.True(t, journal.Journal)
	assert.Equal(t, 20240309, journal.JournalDay)
}

func TestGraph_CreatePageWithProperties(t *testing.T) {
	ctx := context.Background()
	g := New()

	_, err := g.CreatePage(ctx, "Dune", core.Properties{{Key: "tags", Value: []string{"books", "sci fi"}}})
	require.NoError(t, err)

	info, err := g.GetPage(ctx, "dune")
	require.NoError(t, err)
	tags, ok := info.Properties.Get("tags")
	require.True(t, ok)
	assert.Equal(t, []string{"books", "sci fi"}, tags)

	blocks, err := g.GetPageBlocks(ctx, "dune")
	require.NoError(t, err)
	assert.True(t, blocks[0].PreBlock)
}

func TestGraph_CreateBlockPositions(t *testing.T) {
	ctx := context.Background()
	g := New(WithPlaceholder(false))
	_, err := g.CreatePage(ctx, "p", nil)
	require.NoError(t, err)

	b, err := g.CreateBlock(ctx, core.Ref{Page: "p"}, "B", core.InsertOptions{})
	require.NoError(t, err)
	_, err = g.CreateBlock(ctx, core.Ref{Page: "p"}, "A", core.InsertOptions{Before: true})
	require.NoError(t, err)
	_, err = g.CreateBlock(ctx, core.Ref{Page: "p", Block: b}, "C", core.InsertOptions{Sibling: true})
	require.NoError(t, err)
	_, err = g.CreateBlock(ctx, core.Ref{Page: "p", Block: b}, "B2", core.InsertOptions{})
	require.NoError(t, err)
	_, err = g.CreateBlock(ctx, core.Ref{Page: "p", Block: b}, "B1", core.InsertOptions{Before: true})
	require.NoError(t, err)

	blocks, err := g.GetPageBlocks(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, contents(blocks))
	assert.Equal(t, []string{"B1", "B2"}, contents(blocks[1].Children))

	_, err = g.CreateBlock(ctx, core.Ref{Page: "missing"}, "x", core.InsertOptions{})
	assert.ErrorIs(t, err, core.ErrNotFound)
	_, err = g.CreateBlock(ctx, core.Ref{Page: "p", Block: "nope"}, "x", core.InsertOptions{})
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestGraph_RemoveBlock(t *testing.T) {
	ctx := context.Background()
	g := New(WithPlaceholder(false))
	_, err := g.CreatePage(ctx, "p", nil)
	require.NoError(t, err)

	a, err := g.CreateBlock(ctx, core.Ref{Page: "p"}, "A", core.InsertOptions{})
	require.NoError(t, err)
	child, err := g.CreateBlock(ctx, core.Ref{Page: "p", Block: a}, "child", core.InsertOptions{})
	require.NoError(t, err)

	require.NoError(t, g.RemoveBlock(ctx, a))
	blocks, err := g.GetPageBlocks(ctx, "p")
	require.NoError(t, err)
	assert.Empty(t, blocks)

	assert.ErrorIs(t, g.RemoveBlock(ctx, child), core.ErrNotFound)
}

func TestGraph_UpsertProperty(t *testing.T) {
	ctx := context.Background()
	g := New(WithPlaceholder(false))
	_, err := g.CreatePage(ctx, "p", nil)
	require.NoError(t, err)

	h, err := g.CreateBlock(ctx, core.Ref{Page: "p"}, "TODO read", core.InsertOptions{})
	require.NoError(t, err)
	require.NoError(t, g.UpsertProperty(ctx, h, "rating", "4"))
	require.NoError(t, g.UpsertProperty(ctx, h, "rating", "5"))

	blocks, err := g.GetPageBlocks(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, "TODO read\nrating:: 5", blocks[0].Content)
	assert.Equal(t, core.MarkerTodo, blocks[0].Marker)
	rating, _ := blocks[0].Properties.Get("rating")
	assert.Equal(t, "5", rating)
}

func TestGraph_InsertBatch(t *testing.T) {
	ctx := context.Background()
	g := New(WithPlaceholder(false))
	_, err := g.CreatePage(ctx, "p", nil)
	require.NoError(t, err)

	tree := core.Page{
		{Content: "A", Marker: core.MarkerTodo, Children: []*core.Block{{Content: "B"}}},
		{Content: "C", Properties: core.Properties{{Key: "tags", Value: []string{"x"}}}},
	}
	require.NoError(t, g.InsertBatch(ctx, core.Ref{Page: "p"}, tree, core.InsertOptions{}))

	blocks, err := g.GetPageBlocks(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, []string{"TODO A", "C\ntags:: x"}, contents(blocks))
	assert.Equal(t, []string{"B"}, contents(blocks[0].Children))
}

func TestGraph_SearchAndPages(t *testing.T) {
	ctx := context.Background()
	g := New(WithPlaceholder(false))
	dune, err := g.CreatePage(ctx, "Dune", nil)
	require.NoError(t, err)
	_, err = g.CreatePage(ctx, "Emma", nil)
	require.NoError(t, err)
	_, err = g.CreateBlock(ctx, core.Ref{Page: "Dune"}, "Spice must flow", core.InsertOptions{})
	require.NoError(t, err)

	hits, err := g.Search(ctx, "spice")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, dune.ID, hits[0].PageID)

	byID, err := g.GetPage(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Dune", byID.OriginalName)

	pages, err := g.AllPages(ctx)
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, "Emma", pages[1].OriginalName)

	_, err = g.Query(ctx, "[:find ?p]")
	assert.ErrorIs(t, err, core.ErrUnsupported)

	_, err = g.GetPage(ctx, "nobody")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestGraph_FailOnAndCalls(t *testing.T) {
	ctx := context.Background()
	g := New(WithPlaceholder(false), WithFailOn(func(c Call) error {
		if c.Content == "boom" {
			return errors.New("rejected")
		}
		return nil
	}))
	_, err := g.CreatePage(ctx, "p", nil)
	require.NoError(t, err)

	_, err = g.CreateBlock(ctx, core.Ref{Page: "p"}, "ok", core.InsertOptions{})
	require.NoError(t, err)
	_, err = g.CreateBlock(ctx, core.Ref{Page: "p"}, "boom", core.InsertOptions{})

	var remote *core.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, "createBlock", remote.Method)

	calls := g.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "createPage", calls[0].Method)
	assert.Equal(t, "ok", calls[1].Content)
	assert.NotEmpty(t, calls[1].Handle)
}
