package nt

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/maruel/natural"

	"github.com/aretw0/nt/pkg/core"
	"github.com/aretw0/nt/pkg/outline"
)

// Format selects how page content is returned.
type Format string

const (
	FormatMarkdown Format = "md"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
)

// PageOptions controls Page.
type PageOptions struct {
	Format    Format
	Selection outline.Selection
}

// PageResult is the content of a page. Found is false for unknown pages.
type PageResult struct {
	Name     string    `json:"name"`
	Found    bool      `json:"found"`
	Markdown string    `json:"markdown,omitempty"`
	Blocks   core.Page `json:"blocks,omitempty"`
}

// Page returns the content of a page. Markdown without a selection is read
// straight from the page file when the graph directory is known; otherwise
// the block tree is fetched, filtered and, for markdown, serialized.
func (s *Service) Page(ctx context.Context, given string, opts PageOptions) (PageResult, error) {
	id, err := s.Identify(ctx, given)
	if err != nil {
		return PageResult{}, err
	}
	res := PageResult{Name: id.Name}

	keep, forceKeep, err := opts.Selection.Predicates(s.config.Filters)
	if err != nil {
		return res, core.Guide("%v", err)
	}

	markdown := opts.Format == "" || opts.Format == FormatMarkdown
	if markdown && keep == nil && s.config.Local != nil {
		content, err := s.config.Local.ReadPage(id.Name, id.Day)
		if errors.Is(err, core.ErrNotFound) {
			return res, nil
		}
		if err != nil {
			return res, err
		}
		res.Found = true
		res.Markdown = content
		return res, nil
	}

	blocks, err := s.graph.GetPageBlocks(ctx, id.Name)
	if errors.Is(err, core.ErrNotFound) {
		return res, nil
	}
	if err != nil {
		return res, err
	}
	res.Found = true
	res.Blocks = outline.Select(blocks, keep, forceKeep)
	if markdown {
		res.Markdown = outline.Stringify(res.Blocks)
		res.Blocks = nil
	}
	return res, nil
}

// FormatBody frames body lines under a "#" heading of the given level
// followed by a blank line. Heading level 0 disables the frame, and an
// empty body is framed only when vacant is set.
func FormatBody(name string, body []string, heading int, vacant bool) []string {
	framed := heading > 0 && name != "" && (vacant || len(body) > 0)
	var lines []string
	if framed {
		lines = append(lines, strings.TrimSpace(strings.Repeat("#", heading)+" "+name))
	}
	lines = append(lines, body...)
	if framed {
		lines = append(lines, "")
	}
	return lines
}

// PageKind filters page listings.
type PageKind string

const (
	KindRegular PageKind = "regular"
	KindJournal PageKind = "journal"
	KindAll     PageKind = "all"
)

// ParsePageKind validates a page kind; empty means regular.
func ParsePageKind(s string) (PageKind, error) {
	switch PageKind(s) {
	case "", KindRegular:
		return KindRegular, nil
	case KindJournal, KindAll:
		return PageKind(s), nil
	}
	return "", core.Guide("Page type must be regular, journal or all, not %q.", s)
}

func (k PageKind) matches(journal bool) bool {
	switch k {
	case KindAll:
		return true
	case KindJournal:
		return journal
	default:
		return !journal
	}
}

// Pages lists the names of the graph's pages of kind in natural order. A
// positive limit caps the list.
func (s *Service) Pages(ctx context.Context, kind PageKind, limit int) ([]string, error) {
	all, err := s.graph.AllPages(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(all))
	for _, p := range all {
		if !kind.matches(p.Journal) {
			continue
		}
		if t := p.Title(); t != "" {
			names = append(names, t)
		}
	}
	sort.Sort(natural.StringSlice(names))
	return take(names, limit), nil
}

// LocalPages lists the page files of the graph directory matching a glob
// pattern over page names.
func (s *Service) LocalPages(pattern string, kind PageKind, limit int) ([]string, error) {
	if s.config.Local == nil {
		return nil, core.Guide("The graph directory is not configured.")
	}
	pages, err := s.config.Local.Pages(pattern)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(pages))
	for _, p := range pages {
		if !kind.matches(p.Journal) {
			continue
		}
		names = append(names, p.Name)
	}
	sort.Sort(natural.StringSlice(names))
	return take(names, limit), nil
}

// Props returns the page properties of a page, or only key when given.
// Unknown pages have none.
func (s *Service) Props(ctx context.Context, given, key string) (name string, props core.Properties, err error) {
	id, err := s.Identify(ctx, given)
	if err != nil {
		return "", nil, err
	}
	info, err := s.lookup(ctx, id.Name)
	if err != nil || info == nil {
		return id.Name, nil, err
	}
	if key == "" {
		return id.Name, info.Properties, nil
	}
	var out core.Properties
	if v, ok := info.Properties.Get(key); ok {
		out.Set(key, v)
	}
	return id.Name, out, nil
}

// PropertyLines renders properties as "key:: value" lines.
func PropertyLines(props core.Properties) []string {
	lines := make([]string, 0, props.Len())
	for _, p := range props {
		lines = append(lines, outline.PropertyLine(p.Key, p.Value))
	}
	return lines
}

func take[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
