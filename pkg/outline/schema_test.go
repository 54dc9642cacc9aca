package outline

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/nt/pkg/core"
)

func TestDecodeTree(t *testing.T) {
	page, err := DecodeTree([]byte(`[
		{"content": "A", "properties": {"tags": ["x", "y"], "rating": 4}, "children": [
			{"content": "B", "marker": "TODO", "collapsed": true}
		]}
	]`))
	require.NoError(t, err)
	require.Len(t, page, 1)

	tags, _ := page[0].Properties.Get("tags")
	assert.Equal(t, []string{"x", "y"}, tags)
	assert.Equal(t, core.MarkerTodo, page[0].Children[0].Marker)
	require.NotNil(t, page[0].Children[0].Collapsed)
}

func TestDecodeTree_SingleObject(t *testing.T) {
	page, err := DecodeTree([]byte(`{"content": "only"}`))
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "only", page[0].Content)
}

func TestDecodeTree_SchemaViolations(t *testing.T) {
	_, err := DecodeTree([]byte(`[{"content": "A", "children": [{"marker": "SOMEDAY"}]}]`))
	require.Error(t, err)

	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	require.NotEmpty(t, schemaErr.Issues)
	assert.True(t, strings.Contains(err.Error(), "marker"))

	_, err = DecodeTree([]byte(`[{"content": 3}]`))
	assert.True(t, errors.As(err, &schemaErr))
}

func TestDecodeTree_BadInput(t *testing.T) {
	_, err := DecodeTree([]byte("   "))
	assert.ErrorIs(t, err, core.ErrEmptyInput)

	_, err = DecodeTree([]byte("[{"))
	assert.Error(t, err)
}

func TestParseDocument_FrontMatter(t *testing.T) {
	page, err := ParseDocument(strings.NewReader("---\ntitle: Reading\ntags: [books, to read]\n---\n- Dune\n"))
	require.NoError(t, err)
	require.Len(t, page, 2)

	title, _ := page[0].Properties.Get("title")
	assert.Equal(t, "Reading", title)
	tags, _ := page[0].Properties.Get("tags")
	assert.Equal(t, []string{"books", "to read"}, tags)
	assert.Equal(t, "Dune", page[1].Content)
}

func TestParseDocument_Plain(t *testing.T) {
	page, err := ParseDocument(strings.NewReader("- A\n  - B"))
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "B", page[0].Children[0].Content)
}
