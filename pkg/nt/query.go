package nt

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/aretw0/nt/pkg/core"
)

var placeholderPattern = regexp.MustCompile(`\$(\d+)`)

// Query runs a datalog query. template is either the name of a configured
// query or the query text itself. Placeholders $1..$n are replaced by args;
// a template without placeholders receives args as query inputs instead.
func (s *Service) Query(ctx context.Context, template string, args ...string) ([]json.RawMessage, error) {
	query := template
	if named, ok := s.config.Queries[template]; ok {
		query = named
	}

	q := query
	// highest index first so $1 never eats the prefix of $10
	for i := len(args); i >= 1; i-- {
		q = strings.ReplaceAll(q, "$"+strconv.Itoa(i), args[i-1])
	}
	if placeholderPattern.MatchString(q) {
		return nil, core.Guide("Supply placeholders: %s", q)
	}

	if placeholderPattern.MatchString(query) {
		return s.graph.Query(ctx, q)
	}
	return s.graph.Query(ctx, q, args...)
}

// pull runs a query whose rows each hold one pulled entity and decodes the
// entities into out, a pointer to a slice.
func (s *Service) pull(ctx context.Context, out any, template string, args ...string) error {
	rows, err := s.Query(ctx, template, args...)
	if err != nil {
		return err
	}
	entities := make([]json.RawMessage, 0, len(rows))
	for _, row := range rows {
		var cols []json.RawMessage
		if err := json.Unmarshal(row, &cols); err != nil || len(cols) == 0 {
			continue
		}
		entities = append(entities, cols[0])
	}
	data, err := json.Marshal(entities)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %v", core.ErrBadResponse, err)
	}
	return nil
}

// Has lists the pages whose property prop contains all of vals, or at least
// one of them with matchAny.
func (s *Service) Has(ctx context.Context, prop string, vals []string, matchAny bool) ([]string, error) {
	if prop == "" {
		return nil, core.Guide("A property name is required.")
	}
	if len(vals) == 0 {
		return nil, core.Guide("At least one property value is required.")
	}

	conditions := make([]string, len(vals))
	for i, v := range vals {
		conditions[i] = fmt.Sprintf("[(contains? ?prop %s)]", strconv.Quote(v))
	}
	where := strings.Join(conditions, " ")
	if matchAny {
		where = "(or " + where + ")"
	}
	query := fmt.Sprintf(`[:find (pull ?page [:block/original-name])
 :where
 [?page :block/properties ?props]
 [(get ?props :%s) ?prop]
 %s]`, prop, where)

	var pages []struct {
		OriginalName string `json:"original-name"`
	}
	if err := s.pull(ctx, &pages, query); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(pages))
	for _, p := range pages {
		if p.OriginalName != "" {
			names = append(names, p.OriginalName)
		}
	}
	return names, nil
}

// Tags lists the pages tagged with tags.
func (s *Service) Tags(ctx context.Context, tags []string, matchAny bool) ([]string, error) {
	return s.Has(ctx, "tags", tags, matchAny)
}

// Alias lists the pages declaring name as an alias.
func (s *Service) Alias(ctx context.Context, name string) ([]string, error) {
	return s.Has(ctx, "alias", []string{name}, false)
}

const backlinksQuery = `[:find (pull ?b [:block/content :block/page]) :where [?b :block/path-refs ?p] [?p :block/name "$1"]]`

// Backlinks lists the pages with blocks referring to name. A positive limit
// caps the number of referring blocks considered.
func (s *Service) Backlinks(ctx context.Context, name string, limit int) ([]string, error) {
	if strings.TrimSpace(name) == "" {
		return nil, core.ErrNameRequired
	}
	var blocks []struct {
		Page struct {
			ID int64 `json:"id"`
		} `json:"page"`
	}
	if err := s.pull(ctx, &blocks, backlinksQuery, strings.ToLower(name)); err != nil {
		return nil, err
	}
	if limit > 0 && len(blocks) > limit {
		blocks = blocks[:limit]
	}
	ids := make([]int64, 0, len(blocks))
	for _, b := range blocks {
		if b.Page.ID != 0 {
			ids = append(ids, b.Page.ID)
		}
	}
	return s.pageNames(ctx, ids)
}

// Search lists the pages with blocks matching term.
func (s *Service) Search(ctx context.Context, term string) ([]string, error) {
	hits, err := s.graph.Search(ctx, term)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(hits))
	for _, h := range hits {
		ids = append(ids, h.PageID)
	}
	return s.pageNames(ctx, ids)
}

// pageNames resolves page ids to names in parallel, keeping first-seen
// order and dropping duplicates.
func (s *Service) pageNames(ctx context.Context, ids []int64) ([]string, error) {
	unique := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(unique, id) {
			unique = append(unique, id)
		}
	}

	names := make([]string, len(unique))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Concurrency)
	for i, id := range unique {
		g.Go(func() error {
			info, err := s.graph.GetPage(gctx, strconv.FormatInt(id, 10))
			if err != nil {
				return fmt.Errorf("could not get page %d: %w", id, err)
			}
			names[i] = info.Title()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := names[:0]
	for _, n := range names {
		if n != "" && !slices.Contains(out, n) {
			out = append(out, n)
		}
	}
	return out, nil
}

// Prerequisites walks the prerequisites property depth first from name and
// lists every page reached once, in first-seen order.
func (s *Service) Prerequisites(ctx context.Context, name string) ([]string, error) {
	seen := make(map[string]bool)
	var result []string

	var visit func(given string) error
	visit = func(given string) error {
		id, err := s.Identify(ctx, given)
		if err != nil {
			return err
		}
		key := strings.ToLower(id.Name)
		if seen[key] {
			return nil
		}
		seen[key] = true
		result = append(result, id.Name)

		info, err := s.lookup(ctx, id.Name)
		if err != nil || info == nil {
			return err
		}
		for _, next := range listValue(info.Properties, "prerequisites") {
			if err := visit(next); err != nil {
				return err
			}
		}
		return nil
	}

	if err := visit(name); err != nil {
		return nil, err
	}
	return result, nil
}

func listValue(props core.Properties, key string) []string {
	v, ok := props.Get(key)
	if !ok {
		return nil
	}
	switch items := v.(type) {
	case []string:
		return items
	case []any:
		out := make([]string, 0, len(items))
		for _, item := range items {
			out = append(out, fmt.Sprint(item))
		}
		return out
	case string:
		return []string{items}
	}
	return nil
}
