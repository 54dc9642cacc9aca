package outline

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/maruel/natural"

	"github.com/aretw0/nt/pkg/core"
)

// ParseDocument parses outline text that may open with a YAML or TOML front
// matter block. Front matter keys become page properties.
func ParseDocument(r io.Reader, opts ...Option) (core.Page, error) {
	var meta map[string]any
	body, err := frontmatter.Parse(r, &meta)
	if err != nil {
		return nil, fmt.Errorf("parse front matter: %w", err)
	}
	if len(meta) == 0 {
		return Parse(string(body), opts...)
	}

	var buf bytes.Buffer
	for _, line := range frontMatterLines(meta) {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	buf.Write(body)
	return Parse(buf.String(), opts...)
}

func frontMatterLines(meta map[string]any) []string {
	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Sort(natural.StringSlice(keys))

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		var value string
		switch v := meta[k].(type) {
		case []any:
			items := make([]string, len(v))
			for i, item := range v {
				items[i] = fmt.Sprint(item)
			}
			value = strings.Join(items, ", ")
		case nil:
			continue
		default:
			value = fmt.Sprint(v)
		}
		if value == "" {
			continue
		}
		lines = append(lines, k+":: "+value)
	}
	return lines
}
