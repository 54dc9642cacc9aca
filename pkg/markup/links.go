// Package markup extracts links from outline text and converts foreign
// markup (Markdown documents, HTML pages) into outline blocks.
package markup

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// LinkKind selects which links Links reports.
type LinkKind string

const (
	// LinkMarkdown is a [label](url) link.
	LinkMarkdown LinkKind = "md"
	// LinkBare is a plain URL in running text.
	LinkBare LinkKind = "bare"
	// LinkAll reports both.
	LinkAll LinkKind = "all"
)

// ParseLinkKind validates a --type value.
func ParseLinkKind(s string) (LinkKind, error) {
	switch k := LinkKind(strings.ToLower(s)); k {
	case LinkMarkdown, LinkBare, LinkAll:
		return k, nil
	case "":
		return LinkAll, nil
	}
	return "", fmt.Errorf("unknown link type %q (md|bare|all)", s)
}

var engine = goldmark.New(goldmark.WithExtensions(extension.Linkify, extension.Strikethrough, extension.Table))

// Links returns the links found in src in document order, without
// duplicates. Markdown links are reported as [label](url) unless bare is set,
// in which case only their url is kept.
func Links(src []byte, kind LinkKind, bare bool) []string {
	doc := engine.Parser().Parse(text.NewReader(src))

	seen := map[string]bool{}
	var out []string
	add := func(s string) {
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Link:
			if kind == LinkBare {
				return ast.WalkSkipChildren, nil
			}
			dest := string(node.Destination)
			if bare {
				add(dest)
			} else {
				add("[" + inlineText(node, src) + "](" + dest + ")")
			}
			return ast.WalkSkipChildren, nil
		case *ast.AutoLink:
			if kind != LinkMarkdown && node.AutoLinkType == ast.AutoLinkURL {
				add(string(node.URL(src)))
			}
		}
		return ast.WalkContinue, nil
	})
	return out
}

// inlineText concatenates the text segments below n.
func inlineText(n ast.Node, src []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(src))
		case *ast.String:
			sb.Write(t.Value)
		case *ast.AutoLink:
			sb.Write(t.Label(src))
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}

// WikiKind selects which page references Wikilinks reports.
type WikiKind string

const (
	// WikiBracket is a [[Page]] reference.
	WikiBracket WikiKind = "bracket"
	// WikiTag is a #tag or #[[tag]] reference.
	WikiTag WikiKind = "tag"
	// WikiAll reports both.
	WikiAll WikiKind = "all"
)

// ParseWikiKind validates a --type value.
func ParseWikiKind(s string) (WikiKind, error) {
	switch k := WikiKind(strings.ToLower(s)); k {
	case WikiBracket, WikiTag, WikiAll:
		return k, nil
	case "":
		return WikiBracket, nil
	}
	return "", fmt.Errorf("unknown wikilink type %q (bracket|tag|all)", s)
}

var (
	bracketRef = regexp.MustCompile(`(#?)\[\[([^\[\]]+)\]\]`)
	tagRef     = regexp.MustCompile(`(?:^|\s)#([^\s#\[\],.;:!?"'()]+)`)
)

// Wikilinks returns the page names referenced in src in order of first
// appearance.
func Wikilinks(src string, kind WikiKind) []string {
	type hit struct {
		at   int
		name string
	}
	var hits []hit

	for _, m := range bracketRef.FindAllStringSubmatchIndex(src, -1) {
		tagged := m[3] > m[2]
		if (tagged && kind == WikiBracket) || (!tagged && kind == WikiTag) {
			continue
		}
		hits = append(hits, hit{at: m[0], name: src[m[4]:m[5]]})
	}
	if kind != WikiBracket {
		for _, m := range tagRef.FindAllStringSubmatchIndex(src, -1) {
			hits = append(hits, hit{at: m[2], name: src[m[2]:m[3]]})
		}
	}

	// merge both scans back into document order
	slices.SortStableFunc(hits, func(a, b hit) int { return a.at - b.at })

	seen := map[string]bool{}
	var out []string
	for _, h := range hits {
		key := strings.ToLower(h.name)
		if !seen[key] {
			seen[key] = true
			out = append(out, h.name)
		}
	}
	return out
}
