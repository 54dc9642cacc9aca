package builder_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/nt/pkg/adapters/memory"
	"github.com/aretw0/nt/pkg/builder"
	"github.com/aretw0/nt/pkg/core"
)

func newGraph(t *testing.T, opts ...memory.Option) *memory.Graph {
	t.Helper()
	g := memory.New(append([]memory.Option{memory.WithPlaceholder(false)}, opts...)...)
	_, err := g.CreatePage(context.Background(), "Inbox", nil)
	require.NoError(t, err)
	return g
}

// creates returns the createBlock calls, skipping page creation.
func creates(g *memory.Graph) []memory.Call {
	var out []memory.Call
	for _, c := range g.Calls() {
		if c.Method == "createBlock" {
			out = append(out, c)
		}
	}
	return out
}

func contents(blocks []*core.Block) []string {
	out := make([]string, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, b.Content)
	}
	return out
}

func TestBuild_OrderedCalls(t *testing.T) {
	ctx := context.Background()
	g := newGraph(t)

	stats, err := builder.New(g, builder.Target{Page: "Inbox"}).Build(ctx, strings.NewReader("- A\n  - B\n- C\n"))
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Created)
	assert.Equal(t, 3, stats.Lines)

	calls := creates(g)
	require.Len(t, calls, 3)

	assert.Equal(t, "A", calls[0].Content)
	assert.Equal(t, core.Ref{Page: "Inbox"}, calls[0].Ref)

	assert.Equal(t, "B", calls[1].Content)
	assert.Equal(t, calls[0].Handle, calls[1].Ref.Block, "B goes under the handle returned for A")
	assert.False(t, calls[1].Opts.Sibling)

	assert.Equal(t, "C", calls[2].Content)
	assert.Equal(t, core.Ref{Page: "Inbox"}, calls[2].Ref)
}

func TestBuild_SiblingsKeepOrder(t *testing.T) {
	ctx := context.Background()
	g := newGraph(t)

	input := "- A\n  - B1\n  - B2\n    - deep\n  - B3\n- C"
	_, err := builder.New(g, builder.Target{Page: "Inbox"}).Build(ctx, strings.NewReader(input))
	require.NoError(t, err)

	blocks, err := g.GetPageBlocks(ctx, "Inbox")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C"}, contents(blocks))
	assert.Equal(t, []string{"B1", "B2", "B3"}, contents(blocks[0].Children))
	assert.Equal(t, []string{"deep"}, contents(blocks[0].Children[1].Children))

	calls := creates(g)
	assert.True(t, calls[2].Opts.Sibling, "second child follows the first")
	assert.Equal(t, calls[1].Handle, calls[2].Ref.Block)
}

func TestBuild_PageProperties(t *testing.T) {
	ctx := context.Background()
	g := newGraph(t)

	input := "tags:: books\n# Reading\nstatus:: open\n\n- A\n"
	_, err := builder.New(g, builder.Target{Page: "Inbox"}).Build(ctx, strings.NewReader(input))
	require.NoError(t, err)

	calls := creates(g)
	require.Len(t, calls, 2)
	assert.Equal(t, "tags:: books\nstatus:: open", calls[0].Content)
	assert.Equal(t, "A", calls[1].Content)

	info, err := g.GetPage(ctx, "Inbox")
	require.NoError(t, err)
	tags, _ := info.Properties.Get("tags")
	assert.Equal(t, []string{"books"}, tags)
}

func TestBuild_PropertiesOnly(t *testing.T) {
	ctx := context.Background()
	g := newGraph(t)

	_, err := builder.New(g, builder.Target{Page: "Inbox"}).Build(ctx, strings.NewReader("alias:: In\n"))
	require.NoError(t, err)

	calls := creates(g)
	require.Len(t, calls, 1)
	assert.Equal(t, "alias:: In", calls[0].Content)
}

func TestBuild_ContentAndPropertyLines(t *testing.T) {
	ctx := context.Background()
	g := newGraph(t)

	input := "- A\n  - B\n  more about A\n- C\n  id:: 42"
	_, err := builder.New(g, builder.Target{Page: "Inbox"}).Build(ctx, strings.NewReader(input))
	require.NoError(t, err)

	blocks, err := g.GetPageBlocks(ctx, "Inbox")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C"}, contents(blocks))
	assert.Equal(t, []string{"B", "more about A"}, contents(blocks[0].Children))
	assert.Equal(t, []string{"id:: 42"}, contents(blocks[1].Children))
}

func TestBuild_PrependBeforeExisting(t *testing.T) {
	ctx := context.Background()
	g := newGraph(t)
	_, err := g.CreateBlock(ctx, core.Ref{Page: "Inbox"}, "old", core.InsertOptions{})
	require.NoError(t, err)

	target := builder.Target{Page: "Inbox", Mode: builder.Prepend}
	_, err = builder.New(g, target).Build(ctx, strings.NewReader("- A\n  - B\n- C"))
	require.NoError(t, err)

	blocks, err := g.GetPageBlocks(ctx, "Inbox")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C", "old"}, contents(blocks))
	assert.Equal(t, []string{"B"}, contents(blocks[0].Children))

	calls := creates(g)
	assert.True(t, calls[1].Opts.Before)
}

func TestBuild_PrependAfterAnchor(t *testing.T) {
	ctx := context.Background()
	g := newGraph(t)
	anchor, err := g.CreateBlock(ctx, core.Ref{Page: "Inbox"}, "tags:: inbox", core.InsertOptions{})
	require.NoError(t, err)
	_, err = g.CreateBlock(ctx, core.Ref{Page: "Inbox"}, "old", core.InsertOptions{})
	require.NoError(t, err)

	target := builder.Target{Page: "Inbox", Mode: builder.Prepend, Anchor: anchor}
	_, err = builder.New(g, target).Build(ctx, strings.NewReader("- A\n- B"))
	require.NoError(t, err)

	blocks, err := g.GetPageBlocks(ctx, "Inbox")
	require.NoError(t, err)
	assert.Equal(t, []string{"tags:: inbox", "A", "B", "old"}, contents(blocks))
}

func TestBuild_FailureAbortsRun(t *testing.T) {
	ctx := context.Background()
	g := newGraph(t, memory.WithFailOn(func(c memory.Call) error {
		if c.Content == "B" {
			return errors.New("rejected")
		}
		return nil
	}))

	b := builder.New(g, builder.Target{Page: "Inbox"})
	stats, err := b.Build(ctx, strings.NewReader("- A\n  - B\n- C"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")

	var remote *core.RemoteError
	assert.ErrorAs(t, err, &remote)
	assert.Equal(t, 1, stats.Created)

	blocks, err := g.GetPageBlocks(ctx, "Inbox")
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, contents(blocks), "earlier blocks stay")

	state := b.State().(builder.BuilderState)
	assert.NotEmpty(t, state.LastError)
	assert.Equal(t, "builder", b.ComponentType())
}

func TestBuild_PropertyFlushFailureNamesLine(t *testing.T) {
	ctx := context.Background()
	g := newGraph(t, memory.WithFailOn(func(c memory.Call) error {
		if c.Content == "tags:: inbox" {
			return errors.New("rejected")
		}
		return nil
	}))

	b := builder.New(g, builder.Target{Page: "Inbox"})
	require.NoError(t, b.Feed(ctx, "tags:: inbox"))
	err := b.Feed(ctx, "- A")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2: page properties")
	assert.NotEmpty(t, b.State().(builder.BuilderState).LastError)
	assert.Empty(t, creates(g))
}

func TestBuild_IndentationJump(t *testing.T) {
	ctx := context.Background()
	g := newGraph(t)

	input := "- A\n      - B\n    - C\n  - D\n- E"
	_, err := builder.New(g, builder.Target{Page: "Inbox"}).Build(ctx, strings.NewReader(input))
	require.NoError(t, err)

	blocks, err := g.GetPageBlocks(ctx, "Inbox")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "E"}, contents(blocks))
	assert.Equal(t, []string{"B", "C", "D"}, contents(blocks[0].Children))

	calls := creates(g)
	require.Len(t, calls, 5)
	a, b, c := calls[0].Handle, calls[1].Handle, calls[2].Handle
	assert.Equal(t, a, calls[1].Ref.Block, "B goes under A despite the jump")
	assert.False(t, calls[1].Opts.Sibling)
	assert.Equal(t, b, calls[2].Ref.Block, "C closes back to A and follows B")
	assert.True(t, calls[2].Opts.Sibling)
	assert.Equal(t, c, calls[3].Ref.Block)
	assert.True(t, calls[3].Opts.Sibling)
	assert.Equal(t, core.Ref{Page: "Inbox"}, calls[4].Ref)
}

func TestBuild_RemovesPlaceholderOfCreatedPage(t *testing.T) {
	ctx := context.Background()
	g := memory.New()
	_, err := g.CreatePage(ctx, "Fresh", nil)
	require.NoError(t, err)

	_, err = builder.New(g, builder.Target{Page: "Fresh", Created: true}).Build(ctx, strings.NewReader("- A"))
	require.NoError(t, err)

	blocks, err := g.GetPageBlocks(ctx, "Fresh")
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, contents(blocks))
}

func TestBuild_CleanupFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	g := memory.New(memory.WithFailOn(func(c memory.Call) error {
		if c.Method == "removeBlock" {
			return errors.New("locked")
		}
		return nil
	}))
	_, err := g.CreatePage(ctx, "Fresh", nil)
	require.NoError(t, err)

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	b := builder.New(g, builder.Target{Page: "Fresh", Created: true}, builder.WithLogger(logger))
	_, err = b.Build(ctx, strings.NewReader("- A"))
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "placeholder cleanup failed")

	blocks, err := g.GetPageBlocks(ctx, "Fresh")
	require.NoError(t, err)
	assert.Len(t, blocks, 2)
}

func TestBuilder_FeedAfterFinish(t *testing.T) {
	ctx := context.Background()
	g := newGraph(t)
	b := builder.New(g, builder.Target{Page: "Inbox"})

	require.NoError(t, b.Feed(ctx, "- A"))
	require.NoError(t, b.Finish(ctx))
	assert.Error(t, b.Feed(ctx, "- B"))

	state := b.State().(builder.BuilderState)
	assert.True(t, state.Finished)
	assert.Equal(t, "append", state.Mode)
	assert.Equal(t, 1, state.Stats.Created)
}

func TestBuilder_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := builder.New(newGraph(t), builder.Target{Page: "Inbox"})
	assert.ErrorIs(t, b.Feed(ctx, "- A"), context.Canceled)
}
