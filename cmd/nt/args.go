package main

import (
	"strings"
)

// AllFilters stands for every configured filter in --less and --only.
const AllFilters = "*"

var argAliases = map[string]string{
	"--swap":  "--heading=0",
	"--json":  "--format=json",
	"--md":    "--format=md",
	"--agent": "--less",
	"--human": "--only",
	"--debug": "--verbose",
}

// rewriteArgs expands shorthand flags and gives a bare --less or --only
// (one followed by another flag or nothing) the all-filters value.
func rewriteArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for i, arg := range args {
		if arg == "--" {
			return append(out, args[i:]...)
		}
		if alias, ok := argAliases[arg]; ok {
			arg = alias
		}
		if isSelectionFlag(arg) && (i == len(args)-1 || strings.HasPrefix(args[i+1], "-")) {
			arg += "=" + AllFilters
		}
		out = append(out, arg)
	}
	return out
}

func isSelectionFlag(arg string) bool {
	switch arg {
	case "--less", "-l", "--only", "-o":
		return true
	}
	return false
}

// expandFilters replaces AllFilters with the names of every filter.
func expandFilters(patterns []string, names []string) []string {
	var out []string
	for _, p := range patterns {
		if p == AllFilters {
			out = append(out, names...)
			continue
		}
		out = append(out, p)
	}
	return out
}

// unescape turns the two-character sequences \n and \t of a content
// argument into a newline and a tab.
func unescape(s string) string {
	return strings.NewReplacer(`\n`, "\n", `\t`, "\t").Replace(s)
}
