package outline

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/aretw0/nt/pkg/core"
)

//go:embed block.schema.json
var treeSchemaJSON []byte

var treeSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("block.schema.json", bytes.NewReader(treeSchemaJSON)); err != nil {
		return nil, err
	}
	return compiler.Compile("block.schema.json")
})

// Issue is one schema violation in a block tree document.
type Issue struct {
	Location string
	Message  string
}

// SchemaError lists the violations found by DecodeTree.
type SchemaError struct {
	Issues []Issue
}

func (e *SchemaError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := issue.Location
		if location == "" {
			location = "/"
		}
		parts = append(parts, fmt.Sprintf("%s: %s", location, issue.Message))
	}
	return "invalid block tree: " + strings.Join(parts, "; ")
}

// DecodeTree validates a block tree JSON document and decodes it. A single
// block object is accepted as a one-block page.
func DecodeTree(data []byte) (core.Page, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, core.ErrEmptyInput
	}
	if data[0] == '{' {
		data = append(append([]byte{'['}, data...), ']')
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode block tree: %w", err)
	}

	schema, err := treeSchema()
	if err != nil {
		return nil, fmt.Errorf("compile block schema: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return nil, &SchemaError{Issues: collectIssues(verr)}
		}
		return nil, err
	}

	var page core.Page
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, fmt.Errorf("decode block tree: %w", err)
	}
	return page, nil
}

func collectIssues(err *jsonschema.ValidationError) []Issue {
	var issues []Issue
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, Issue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}
