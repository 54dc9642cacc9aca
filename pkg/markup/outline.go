package markup

import (
	"bytes"
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/aretw0/nt/pkg/core"
	"github.com/aretw0/nt/pkg/outline"
)

// Clip converts an HTML page into outline blocks.
func Clip(html string) (core.Page, error) {
	md, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		return nil, fmt.Errorf("failed to convert HTML to markdown: %w", err)
	}
	return Outline([]byte(md)), nil
}

// Outline converts a Markdown document into outline blocks. Headings open a
// block that holds everything up to the next heading of the same or a higher
// level; list items nest by list depth; every other top-level element
// (paragraph, code, quote) becomes one block.
func Outline(src []byte) core.Page {
	doc := engine.Parser().Parse(text.NewReader(src))

	type section struct {
		level int
		block *core.Block
	}
	var page core.Page
	var stack []section

	attach := func(b *core.Block) {
		if len(stack) == 0 {
			page = append(page, b)
			return
		}
		parent := stack[len(stack)-1].block
		parent.Children = append(parent.Children, b)
	}

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			for len(stack) > 0 && stack[len(stack)-1].level >= node.Level {
				stack = stack[:len(stack)-1]
			}
			b := &core.Block{Content: strings.Repeat("#", node.Level) + " " + lines(node, src)}
			attach(b)
			stack = append(stack, section{level: node.Level, block: b})
		case *ast.List:
			for _, b := range listBlocks(node, src) {
				attach(b)
			}
		case *ast.ThematicBreak:
		default:
			if b := leafBlock(n, src); b != nil {
				attach(b)
			}
		}
	}
	return page
}

func listBlocks(list *ast.List, src []byte) []*core.Block {
	var out []*core.Block
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		b := &core.Block{}
		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			switch child := c.(type) {
			case *ast.List:
				b.Children = append(b.Children, listBlocks(child, src)...)
			default:
				content := blockText(c, src)
				switch {
				case content == "":
				case b.Content == "":
					b.Content = content
				default:
					b.Children = append(b.Children, &core.Block{Content: content})
				}
			}
		}
		b.Marker, b.Content = outline.ExtractMarker(b.Content)
		if !b.IsEmpty() {
			out = append(out, b)
		}
	}
	return out
}

func leafBlock(n ast.Node, src []byte) *core.Block {
	content := blockText(n, src)
	if content == "" {
		return nil
	}
	b := &core.Block{}
	b.Marker, b.Content = outline.ExtractMarker(content)
	return b
}

// blockText renders a block-level node back to its source text.
func blockText(n ast.Node, src []byte) string {
	switch node := n.(type) {
	case *ast.FencedCodeBlock:
		return "```" + string(node.Language(src)) + "\n" + raw(node, src) + "```"
	case *ast.CodeBlock:
		return "```\n" + raw(node, src) + "```"
	case *ast.Blockquote:
		var parts []string
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			if t := blockText(c, src); t != "" {
				parts = append(parts, t)
			}
		}
		quoted := strings.Split(strings.Join(parts, "\n"), "\n")
		for i, l := range quoted {
			quoted[i] = "> " + l
		}
		return strings.Join(quoted, "\n")
	case *ast.Heading:
		return strings.Repeat("#", node.Level) + " " + lines(node, src)
	default:
		return lines(n, src)
	}
}

// lines joins the trimmed source lines of a block node.
func lines(n ast.Node, src []byte) string {
	segs := n.Lines()
	if segs == nil {
		return ""
	}
	var parts []string
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		if l := strings.TrimSpace(string(seg.Value(src))); l != "" {
			parts = append(parts, l)
		}
	}
	return strings.Join(parts, "\n")
}

// raw returns the verbatim source lines of a code block.
func raw(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	segs := n.Lines()
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		buf.Write(seg.Value(src))
	}
	s := buf.String()
	if s != "" && !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	return s
}
