package nt

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/aretw0/nt/pkg/core"
	"github.com/aretw0/nt/pkg/outline"
)

var leadingProperty = regexp.MustCompile(`^([^\s:]+):: (.+)`)

// PropertyEdit is a set of key=value pairs grouped by key in first-seen key
// order.
type PropertyEdit struct {
	keys   []string
	values map[string][]string
}

// ParsePropertyEdit parses "key=value" pairs.
func ParsePropertyEdit(pairs []string) (PropertyEdit, error) {
	e := PropertyEdit{values: make(map[string][]string)}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		if !ok || key == "" || value == "" {
			return e, core.Guide("Property %q must be given as key=value.", pair)
		}
		if _, seen := e.values[key]; !seen {
			e.keys = append(e.keys, key)
		}
		e.values[key] = append(e.values[key], value)
	}
	return e, nil
}

// Empty reports whether the edit holds no pairs.
func (e PropertyEdit) Empty() bool { return len(e.keys) == 0 }

// RewriteProperties edits the leading page properties of outline text. The
// optional "#" title line and blank lines are kept; each property line
// loses the removed values and gains the added ones, and is dropped when
// left empty. Added keys not present yet follow the existing properties.
// The rest of the text is unchanged.
func RewriteProperties(input string, add, remove PropertyEdit) string {
	lines := strings.Split(input, "\n")
	out := make([]string, 0, len(lines)+len(add.keys))
	i := 0

	if len(lines) > 0 && strings.HasPrefix(lines[0], "#") {
		out = append(out, lines[0])
		i++
	}
	for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
		out = append(out, lines[i])
		i++
	}

	processed := make(map[string]bool)
	for ; i < len(lines); i++ {
		m := leadingProperty.FindStringSubmatch(lines[i])
		if m == nil {
			break
		}
		key := m[1]
		processed[key] = true

		var values []string
		for _, v := range strings.Split(m[2], ", ") {
			if strings.TrimSpace(v) != "" && !slices.Contains(remove.values[key], unwikify(v)) {
				values = append(values, v)
			}
		}
		for _, v := range add.values[key] {
			if !slices.ContainsFunc(values, func(have string) bool { return unwikify(have) == v }) {
				values = append(values, outline.Wikify(v))
			}
		}
		if len(values) > 0 {
			out = append(out, key+":: "+strings.Join(values, ", "))
		}
	}

	for _, key := range add.keys {
		if processed[key] {
			continue
		}
		values := make([]string, len(add.values[key]))
		for j, v := range add.values[key] {
			values[j] = outline.Wikify(v)
		}
		out = append(out, key+":: "+strings.Join(values, ", "))
	}

	out = append(out, lines[i:]...)
	return strings.Join(out, "\n")
}

func unwikify(s string) string {
	if strings.HasPrefix(s, "[[") && strings.HasSuffix(s, "]]") {
		return s[2 : len(s)-2]
	}
	return s
}

// SetPageProperties adds property values to a page in the graph. Values
// join those already present on the page properties block; a page without
// one gets a new properties block on top.
func (s *Service) SetPageProperties(ctx context.Context, given string, add PropertyEdit) error {
	if add.Empty() {
		return nil
	}
	id, err := s.Identify(ctx, given)
	if err != nil {
		return err
	}
	blocks, err := s.graph.GetPageBlocks(ctx, id.Name)
	if err != nil {
		return fmt.Errorf("page %q: %w", id.Name, err)
	}

	var props *core.Block
	if len(blocks) > 0 && blocks[0].Properties.Len() > 0 {
		props = blocks[0]
	}

	if props == nil {
		lines := make([]string, 0, len(add.keys))
		for _, key := range add.keys {
			lines = append(lines, outline.PropertyLine(key, add.values[key]))
		}
		_, err := s.graph.CreateBlock(ctx, core.Ref{Page: id.Name}, strings.Join(lines, "\n"), core.InsertOptions{Before: true})
		return err
	}

	for _, key := range add.keys {
		values := listValue(props.Properties, key)
		for _, v := range add.values[key] {
			if !slices.Contains(values, v) {
				values = append(values, v)
			}
		}
		var value any = values
		if len(values) == 1 {
			value = values[0]
		}
		if err := s.graph.UpsertProperty(ctx, props.UUID, key, value); err != nil {
			return fmt.Errorf("set %s on %q: %w", key, id.Name, err)
		}
	}
	return nil
}
