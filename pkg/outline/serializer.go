package outline

import (
	"io"
	"strings"

	"github.com/aretw0/nt/pkg/core"
)

const indentUnit = "  "

// Stringify renders a page back to outline text.
func Stringify(page core.Page) string {
	return strings.Join(renderBlocks(nil, page, 0), "\n")
}

// Render writes the outline text of page to w, newline terminated.
func Render(w io.Writer, page core.Page) error {
	_, err := io.WriteString(w, Stringify(page)+"\n")
	return err
}

func renderBlocks(lines []string, blocks []*core.Block, level int) []string {
	indent := strings.Repeat(indentUnit, level)
	hanging := indent + indentUnit

	for _, b := range blocks {
		first, rest := splitContent(b.Content)

		switch {
		case b.PreBlock:
			if b.Content != "" {
				lines = append(lines, indent+first)
				for _, line := range nonBlank(rest) {
					lines = append(lines, indent+line)
				}
			}
			if !hasPropertyLines(b.Content) {
				lines = appendProperties(lines, indent, b.Properties)
			}
			lines = append(lines, "")

		case b.Content == "" && b.Properties.Len() > 0:
			props := appendProperties(nil, "", b.Properties)
			if len(props) == 0 {
				lines = append(lines, strings.TrimRight(indent+"- "+ApplyMarker(b.Marker, ""), " "))
				break
			}
			lines = append(lines, indent+"- "+ApplyMarker(b.Marker, props[0]))
			for _, line := range props[1:] {
				lines = append(lines, hanging+line)
			}

		case b.Content != "" && strings.Contains(first, "::"):
			lines = append(lines, indent+first)
			for _, line := range nonBlank(rest) {
				lines = append(lines, indent+line)
			}

		case b.Content != "" || b.Marker != "":
			lines = append(lines, indent+"- "+ApplyMarker(b.Marker, first))
			for _, line := range nonBlank(rest) {
				if strings.HasPrefix(line, CollapsedKey+":: ") {
					continue
				}
				lines = append(lines, hanging+line)
			}
			if !hasPropertyLines(b.Content) {
				lines = appendProperties(lines, hanging, b.Properties)
			}

		default:
			// an empty block still holds its children's place
			lines = append(lines, indent+"-")
		}

		if len(b.Children) > 0 {
			lines = renderBlocks(lines, b.Children, level+1)
		}
	}
	return lines
}

func appendProperties(lines []string, indent string, props core.Properties) []string {
	for _, prop := range props {
		if prop.Key == CollapsedKey {
			continue
		}
		lines = append(lines, indent+PropertyLine(prop.Key, prop.Value))
	}
	return lines
}

func splitContent(content string) (string, []string) {
	parts := strings.Split(content, "\n")
	return parts[0], parts[1:]
}

func nonBlank(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}

// hasPropertyLines reports whether content already states properties as
// text, as blocks fetched from a graph do.
func hasPropertyLines(content string) bool {
	for _, line := range strings.Split(content, "\n") {
		if IsPropertyLine(line) {
			return true
		}
	}
	return false
}
