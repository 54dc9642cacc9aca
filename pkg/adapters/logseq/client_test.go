package logseq

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/nt/pkg/core"
)

type received struct {
	Method string            `json:"method"`
	Args   []json.RawMessage `json:"args"`
	Auth   string            `json:"-"`
}

// fakeLogseq answers each method with a canned body and records requests.
func fakeLogseq(t *testing.T, replies map[string]string) (*Client, *[]received) {
	t.Helper()
	var got []received
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		var req received
		assert.NoError(t, json.Unmarshal(body, &req))
		req.Auth = r.Header.Get("Authorization")
		got = append(got, req)

		reply, ok := replies[req.Method]
		if !ok {
			http.Error(w, "no such method", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)

	return NewClient(Config{Endpoint: srv.URL, Token: "secret"}), &got
}

func TestClient_GetPage(t *testing.T) {
	c, got := fakeLogseq(t, map[string]string{
		methodGetPage: `{"id": 12, "name": "dune", "originalName": "Dune", "uuid": "p-1", "journal?": false,
			"properties": {"tags": "books, [[sci fi]]"}}`,
	})

	page, err := c.GetPage(context.Background(), "Dune")
	require.NoError(t, err)
	assert.Equal(t, int64(12), page.ID)
	assert.Equal(t, "Dune", page.Title())
	tags, _ := page.Properties.Get("tags")
	assert.Equal(t, []string{"books", "sci fi"}, tags)

	require.Len(t, *got, 1)
	assert.Equal(t, "Bearer secret", (*got)[0].Auth)
	assert.JSONEq(t, `"Dune"`, string((*got)[0].Args[0]))

	_, err = c.GetPage(context.Background(), "12")
	require.NoError(t, err)
	assert.JSONEq(t, `12`, string((*got)[1].Args[0]), "numeric names are ids")
}

func TestClient_GetPageMissing(t *testing.T) {
	c, _ := fakeLogseq(t, map[string]string{methodGetPage: `null`})
	_, err := c.GetPage(context.Background(), "nobody")
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = c.GetPage(context.Background(), "")
	assert.ErrorIs(t, err, core.ErrNameRequired)
}

func TestClient_Errors(t *testing.T) {
	c, _ := fakeLogseq(t, map[string]string{
		methodSearch:      `{"error": "MethodNotExist: search"}`,
		methodGetAllPages: `<html>oops</html>`,
	})
	ctx := context.Background()

	_, err := c.Search(ctx, "x")
	var remote *core.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, "MethodNotExist: search", remote.Message)
	assert.Zero(t, remote.Status)

	_, err = c.AllPages(ctx)
	assert.ErrorIs(t, err, core.ErrBadResponse)

	_, err = c.GetPageBlocks(ctx, "Dune")
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, http.StatusNotFound, remote.Status)

	state := c.State().(ClientState)
	assert.Equal(t, 3, state.Calls)
	assert.NotEmpty(t, state.LastError)
	assert.Equal(t, "logseq", c.ComponentType())
}

func TestClient_GetPageBlocks(t *testing.T) {
	c, _ := fakeLogseq(t, map[string]string{
		methodGetPageBlocks: `[
			{"uuid": "b-1", "content": "tags:: books", "preBlock?": true, "properties": {"tags": ["books"]}, "children": []},
			{"uuid": "b-2", "content": "TODO A", "marker": "TODO", "collapsed?": true, "children": [
				{"uuid": "b-3", "content": "B", "children": [["uuid", "b-9"]]}
			]}
		]`,
	})

	page, err := c.GetPageBlocks(context.Background(), "Dune")
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.True(t, page[0].PreBlock)
	assert.Equal(t, core.MarkerTodo, page[1].Marker)
	require.NotNil(t, page[1].Collapsed)
	require.Len(t, page[1].Children, 1)
	assert.Equal(t, core.Handle("b-3"), page[1].Children[0].UUID)
	assert.Empty(t, page[1].Children[0].Children)
}

func TestClient_CreateBlock(t *testing.T) {
	c, got := fakeLogseq(t, map[string]string{
		methodAppendInPage:  `{"uuid": "n-1"}`,
		methodPrependInPage: `{"uuid": "n-2"}`,
		methodInsertBlock:   `{"uuid": "n-3"}`,
	})
	ctx := context.Background()

	h, err := c.CreateBlock(ctx, core.Ref{Page: "Inbox"}, "A", core.InsertOptions{})
	require.NoError(t, err)
	assert.Equal(t, core.Handle("n-1"), h)

	_, err = c.CreateBlock(ctx, core.Ref{Page: "Inbox"}, "B", core.InsertOptions{Before: true})
	require.NoError(t, err)

	h, err = c.CreateBlock(ctx, core.Ref{Page: "Inbox", Block: "n-1"}, "C", core.InsertOptions{Sibling: true})
	require.NoError(t, err)
	assert.Equal(t, core.Handle("n-3"), h)

	calls := *got
	require.Len(t, calls, 3)
	assert.Equal(t, methodAppendInPage, calls[0].Method)
	assert.Equal(t, methodPrependInPage, calls[1].Method)
	assert.Equal(t, methodInsertBlock, calls[2].Method)
	assert.JSONEq(t, `"n-1"`, string(calls[2].Args[0]))
	assert.JSONEq(t, `{"sibling": true}`, string(calls[2].Args[2]))
}

func TestClient_CreateBlockOnMissingPage(t *testing.T) {
	c, _ := fakeLogseq(t, map[string]string{methodAppendInPage: `null`})
	_, err := c.CreateBlock(context.Background(), core.Ref{Page: "nobody"}, "A", core.InsertOptions{})
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestClient_InsertBatch(t *testing.T) {
	c, got := fakeLogseq(t, map[string]string{
		methodGetPage:     `{"id": 1, "name": "inbox", "originalName": "Inbox", "uuid": "p-1"}`,
		methodInsertBatch: `null`,
	})

	collapsed := true
	tree := core.Page{{
		Content:   "A\nmore",
		Marker:    core.MarkerTodo,
		Collapsed: &collapsed,
		Children:  []*core.Block{{Content: "B", Properties: core.Properties{{Key: "id", Value: "1"}}}},
	}}
	err := c.InsertBatch(context.Background(), core.Ref{Page: "Inbox"}, tree, core.InsertOptions{Before: true})
	require.NoError(t, err)

	calls := *got
	require.Len(t, calls, 2)
	assert.Equal(t, methodInsertBatch, calls[1].Method)
	assert.JSONEq(t, `"p-1"`, string(calls[1].Args[0]))
	assert.JSONEq(t, `[{"content": "TODO A\nmore", "properties": {"collapsed": true},
		"children": [{"content": "B", "properties": {"id": "1"}}]}]`, string(calls[1].Args[1]))
	assert.JSONEq(t, `{"before": true, "sibling": false}`, string(calls[1].Args[2]))
}

func TestClient_SearchAndQuery(t *testing.T) {
	c, got := fakeLogseq(t, map[string]string{
		methodSearch:          `{"blocks": [{"block/uuid": "b-1", "block/content": "spice", "block/page": 7}], "pages": []}`,
		methodDatascriptQuery: `[[{"original-name": "Dune"}], [{"original-name": "Emma"}]]`,
	})
	ctx := context.Background()

	hits, err := c.Search(ctx, "spice")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, int64(7), hits[0].PageID)

	rows, err := c.Query(ctx, "[:find ?p :in $ ?n]", "dune")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Len(t, (*got)[1].Args, 2)
}

func TestClient_ReadOnly(t *testing.T) {
	c := NewClient(Config{Endpoint: "http://127.0.0.1:1/api", ReadOnly: true})
	ctx := context.Background()

	_, err := c.CreateBlock(ctx, core.Ref{Page: "p"}, "A", core.InsertOptions{})
	assert.ErrorIs(t, err, core.ErrReadOnly)
	assert.ErrorIs(t, c.RemoveBlock(ctx, "b"), core.ErrReadOnly)
	assert.ErrorIs(t, c.UpsertProperty(ctx, "b", "k", "v"), core.ErrReadOnly)
	assert.True(t, errors.Is(c.InsertBatch(ctx, core.Ref{Block: "b"}, core.Page{{Content: "x"}}, core.InsertOptions{}), core.ErrReadOnly))
}
