package outline

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/aretw0/nt/pkg/core"
)

var (
	propertyPattern   = regexp.MustCompile(`(?m)^(.+?)::\s*(.+)$`)
	propertyStatement = regexp.MustCompile(`^(.+?)::\s*(.+)$`)
	bracketStripper   = strings.NewReplacer("[", "", "]", "")
)

// Keys whose values are comma-separated lists.
var arrayKeys = map[string]bool{
	"tags":          true,
	"alias":         true,
	"prerequisites": true,
}

// Keys whose values are booleans.
var booleanKeys = map[string]bool{
	"collapsed": true,
}

// CollapsedKey is the property promoted into Block.Collapsed.
const CollapsedKey = "collapsed"

// ExtractProperties pulls every "key:: value" pair out of content. The
// returned values are raw strings; clean is content with the pairs removed.
func ExtractProperties(content string) (props core.Properties, clean string) {
	if !propertyPattern.MatchString(content) {
		return nil, content
	}
	clean = content
	for _, m := range propertyPattern.FindAllStringSubmatch(content, -1) {
		props.Set(strings.TrimSpace(m[1]), strings.TrimSpace(m[2]))
		clean = strings.TrimSpace(strings.Replace(clean, m[0], "", 1))
	}
	return props, clean
}

// FormatProperties converts raw string values into their typed form: list
// keys become []string and boolean keys become bool.
func FormatProperties(raw core.Properties) core.Properties {
	if raw == nil {
		return nil
	}
	out := make(core.Properties, 0, len(raw))
	for _, prop := range raw {
		out = append(out, core.Property{Key: prop.Key, Value: formatValue(prop.Key, prop.Value)})
	}
	return out
}

func formatValue(key string, value any) any {
	s, ok := value.(string)
	if !ok {
		return value
	}
	switch {
	case arrayKeys[key]:
		return SplitList(s)
	case booleanKeys[key]:
		return s == "true"
	default:
		return s
	}
}

// SplitList splits a comma-separated property value, dropping wiki brackets
// and empty items.
func SplitList(s string) []string {
	items := []string{}
	for _, item := range strings.Split(s, ",") {
		item = bracketStripper.Replace(strings.TrimSpace(item))
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

// FormatValue renders a property value for output. Values containing a space
// are wrapped as [[wiki links]]; list items are wrapped individually.
func FormatValue(value any) string {
	switch v := value.(type) {
	case string:
		return Wikify(v)
	case []string:
		items := make([]string, len(v))
		for i, item := range v {
			items[i] = Wikify(item)
		}
		return strings.Join(items, ", ")
	case []any:
		items := make([]string, len(v))
		for i, item := range v {
			items[i] = Wikify(fmt.Sprint(item))
		}
		return strings.Join(items, ", ")
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// Wikify wraps a value containing a space in [[ ]] unless it already is.
func Wikify(s string) string {
	if !strings.Contains(s, " ") || (strings.HasPrefix(s, "[[") && strings.HasSuffix(s, "]]")) {
		return s
	}
	return "[[" + s + "]]"
}

// PropertyLine renders one "key:: value" line.
func PropertyLine(key string, value any) string {
	return key + ":: " + FormatValue(value)
}

// IsPropertyLine reports whether line is a "key:: value" statement.
func IsPropertyLine(line string) bool {
	return propertyStatement.MatchString(strings.TrimSpace(line))
}

// promoteCollapsed moves a collapsed property into the block field.
func promoteCollapsed(b *core.Block) {
	v, ok := b.Properties.Get(CollapsedKey)
	if !ok {
		return
	}
	collapsed := false
	switch c := v.(type) {
	case bool:
		collapsed = c
	case string:
		collapsed = c == "true"
	}
	b.Collapsed = &collapsed
	b.Properties.Delete(CollapsedKey)
	if b.Properties.Len() == 0 {
		b.Properties = nil
	}
}
