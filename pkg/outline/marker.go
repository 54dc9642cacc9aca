package outline

import (
	"regexp"
	"strings"

	"github.com/aretw0/nt/pkg/core"
)

var markerPattern = regexp.MustCompile(`(?i)^(TODO|DOING|DONE|WAITING|CANCELED|NOW|LATER)\s+(.+)`)

// ExtractMarker splits a leading task keyword off content. Priority tags
// such as [#A] stay inline.
func ExtractMarker(content string) (core.Marker, string) {
	m := markerPattern.FindStringSubmatch(content)
	if m == nil {
		return "", content
	}
	return core.Marker(strings.ToUpper(m[1])), strings.TrimSpace(m[2])
}

// ApplyMarker prefixes line with marker unless it already starts with it
// (graph-fetched blocks keep the keyword in their content).
func ApplyMarker(marker core.Marker, line string) string {
	if marker == "" {
		return line
	}
	if m, _ := ExtractMarker(line); m == marker {
		return line
	}
	if line == "" {
		return string(marker)
	}
	return string(marker) + " " + line
}
