package nt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/nt/pkg/core"
)

// Identity is what a given page reference resolves to.
type Identity struct {
	Given      string `json:"given"`
	Day        int    `json:"day,omitempty"`
	Normalized string `json:"normalized,omitempty"`
	Name       string `json:"name"`
	Path       string `json:"path,omitempty"`
}

// Identify resolves a page reference: a page name in any case, a page id, a
// journal date (YYYY-MM-DD or YYYYMMDD) or an alias. Unknown pages resolve
// to the given text.
func (s *Service) Identify(ctx context.Context, given string) (Identity, error) {
	given = strings.TrimSpace(given)
	if given == "" {
		return Identity{}, core.ErrNameRequired
	}
	id := Identity{Given: given}
	day, isJournal := core.JournalDay(given)

	info, err := s.lookup(ctx, given)
	if err != nil {
		return id, err
	}
	if info != nil {
		id.Normalized = info.Title()
	} else if isJournal {
		if id.Normalized, err = s.journalPage(ctx, day); err != nil {
			return id, err
		}
	}

	var alias string
	if id.Normalized != "" {
		if alias, err = s.aliasOf(ctx, id.Normalized); err != nil {
			return id, err
		}
	}

	switch {
	case alias != "":
		id.Name = alias
	case id.Normalized != "":
		id.Name = id.Normalized
	default:
		id.Name = given
	}

	switch {
	case isJournal:
		id.Day = day
	case alias != "":
		target, err := s.lookup(ctx, alias)
		if err != nil {
			return id, err
		}
		if target != nil {
			id.Day = target.JournalDay
		}
	case info != nil:
		id.Day = info.JournalDay
	}

	if s.config.Local != nil {
		id.Path = s.config.Local.PagePath(id.Name, id.Day)
	}
	s.logger.Debug("page identified", "given", given, "name", id.Name, "day", id.Day)
	return id, nil
}

// Name returns the cased name of a page reference.
func (s *Service) Name(ctx context.Context, given string) (string, error) {
	id, err := s.Identify(ctx, given)
	return id.Name, err
}

// Path returns the file path of a page reference in the graph directory.
func (s *Service) Path(ctx context.Context, given string) (string, error) {
	if s.config.Local == nil {
		return "", core.Guide("The graph directory is not configured.")
	}
	id, err := s.Identify(ctx, given)
	return id.Path, err
}

// lookup returns nil for a missing page.
func (s *Service) lookup(ctx context.Context, name string) (*core.PageInfo, error) {
	info, err := s.graph.GetPage(ctx, name)
	if errors.Is(err, core.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get page %q: %w", name, err)
	}
	return info, nil
}

const journalQuery = `[:find (pull ?p [*]) :where [?p :block/journal-day $1]]`

// journalPage finds the journal page of a day whose name follows the
// graph's date format.
func (s *Service) journalPage(ctx context.Context, day int) (string, error) {
	var pages []struct {
		Journal      bool   `json:"journal?"`
		OriginalName string `json:"original-name"`
	}
	err := s.pull(ctx, &pages, journalQuery, fmt.Sprint(day))
	if errors.Is(err, core.ErrUnsupported) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if len(pages) == 0 || !pages[0].Journal {
		return "", nil
	}
	return pages[0].OriginalName, nil
}

// aliasOf returns the first page declaring name as an alias.
func (s *Service) aliasOf(ctx context.Context, name string) (string, error) {
	names, err := s.Alias(ctx, name)
	if errors.Is(err, core.ErrUnsupported) {
		return "", nil
	}
	if err != nil || len(names) == 0 {
		return "", err
	}
	return names[0], nil
}
