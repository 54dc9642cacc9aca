package outline

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/maruel/natural"
)

// Selection holds the patterns behind "--less" and "--only". A pattern is
// either the name of a configured filter or a regular expression.
type Selection struct {
	Less []string
	Only []string
}

// Empty reports whether the selection filters nothing.
func (s Selection) Empty() bool {
	return len(s.Less) == 0 && len(s.Only) == 0
}

// Predicates compiles the selection against the named filters. keep is nil
// for an empty selection.
//
// A line is kept when it matches some "only" pattern (if any are given) and
// no "less" pattern. forceKeep keeps property statements and page titles so
// page metadata survives filtering.
func (s Selection) Predicates(named map[string]string) (keep, forceKeep Predicate, err error) {
	if s.Empty() {
		return nil, nil, nil
	}
	less, err := compilePatterns(s.Less, named)
	if err != nil {
		return nil, nil, err
	}
	only, err := compilePatterns(s.Only, named)
	if err != nil {
		return nil, nil, err
	}

	keep = func(line string) bool {
		if len(only) > 0 && !matchAny(only, line) {
			return false
		}
		return !matchAny(less, line)
	}
	return keep, KeepMetadata, nil
}

// KeepMetadata matches property statements and "# " titles.
func KeepMetadata(line string) bool {
	return IsPropertyLine(line) || strings.HasPrefix(line, "# ")
}

// FilterNames returns the configured filter names in natural order.
func FilterNames(named map[string]string) []string {
	names := make([]string, 0, len(named))
	for name := range named {
		names = append(names, name)
	}
	sort.Sort(natural.StringSlice(names))
	return names
}

func compilePatterns(patterns []string, named map[string]string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		expr := p
		if resolved, ok := named[p]; ok {
			expr = resolved
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
		}
		out = append(out, re)
	}
	return out, nil
}

func matchAny(res []*regexp.Regexp, line string) bool {
	for _, re := range res {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}
