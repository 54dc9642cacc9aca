package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the command line with stdin and returns stdout, stderr and
// the exit code. Flag values are reset first since commands are shared.
func run(t *testing.T, stdin string, args ...string) (string, string, int) {
	t.Helper()
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	code := Execute(args)
	return stdout.String(), stderr.String(), code
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// writeConfig creates a graph directory and a config file pointing at it.
func writeConfig(t *testing.T) (cfgPath, repo string) {
	t.Helper()
	dir := t.TempDir()
	repo = filepath.Join(dir, "graph")
	require.NoError(t, os.MkdirAll(filepath.Join(repo, "pages"), 0755))

	cfgPath = filepath.Join(dir, "config.toml")
	content := `[logseq]
repo = "` + filepath.ToSlash(repo) + `"
token = "secret"

[filter]
tasks = "^(TODO|DOING)"
links = "^https?://"

[query]
named = "[:find ?p :where [?p :block/name \"$1\"]]"
`
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0644))
	return cfgPath, repo
}

func TestRewriteArgs(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"aliases", []string{"page", "x", "--json", "--swap"}, []string{"page", "x", "--format=json", "--heading=0"}},
		{"bare less at end", []string{"page", "x", "--less"}, []string{"page", "x", "--less=*"}},
		{"bare agent before flag", []string{"page", "--agent", "--json", "x"}, []string{"page", "--less=*", "--format=json", "x"}},
		{"less with value", []string{"page", "x", "--only", "tasks"}, []string{"page", "x", "--only", "tasks"}},
		{"debug", []string{"--debug", "post"}, []string{"--verbose", "post"}},
		{"after terminator", []string{"post", "--", "--json"}, []string{"post", "--", "--json"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rewriteArgs(tt.in))
		})
	}
}

func TestExpandFilters(t *testing.T) {
	got := expandFilters([]string{"^x", AllFilters}, []string{"links", "tasks"})
	assert.Equal(t, []string{"^x", "links", "tasks"}, got)
	assert.Nil(t, expandFilters(nil, []string{"tasks"}))
}

func TestUnescape(t *testing.T) {
	assert.Equal(t, "Ranch\nCream Cheese\tx", unescape(`Ranch\nCream Cheese\tx`))
}

func TestParseCommand(t *testing.T) {
	out, stderr, code := run(t, "- TODO A\n  - B\n", "parse")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, out, `"content": "A"`)
	assert.Contains(t, out, `"marker": "TODO"`)
	assert.Contains(t, out, `"content": "B"`)

	_, stderr, code = run(t, "  \n", "parse")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "no input provided")
}

func TestStringifyCommand(t *testing.T) {
	cfg, _ := writeConfig(t)
	input := `[{"content":"Reading","children":[{"content":"TODO Dune"},{"content":"https://example.com"}]},{"content":"Groceries"}]`

	out, stderr, code := run(t, input, "str", "--config", cfg)
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "- Reading\n  - TODO Dune\n  - https://example.com\n- Groceries\n", out)

	out, stderr, code = run(t, input, "str", "--config", cfg, "--only", "tasks")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "- Reading\n  - TODO Dune\n", out)

	// a bare --agent drops every configured filter
	out, stderr, code = run(t, input, "str", "--config", cfg, "--agent")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "- Reading\n- Groceries\n", out)
}

func TestPostDryRun(t *testing.T) {
	t.Setenv("NOTE_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))

	out, stderr, code := run(t, "", "post", "Diet", `Egg sandwich\nToast`, "--dry-run")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "- Egg sandwich\n- Toast\n", out)

	out, stderr, code = run(t, "- A\n  - B\n", "post", "Diet", "--dry-run", "--json")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, out, `"content": "A"`)
}

func TestPageCommand(t *testing.T) {
	cfg, repo := writeConfig(t)
	require.NoError(t, os.WriteFile(filepath.Join(repo, "pages", "Dune.md"), []byte("- spice\n\n"), 0644))

	out, stderr, code := run(t, "", "page", "Dune", "--config", cfg, "--dry-run")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "# Dune\n- spice\n\n", out)

	out, stderr, code = run(t, "Dune\n\nDune\n", "p", "--swap", "--config", cfg, "--dry-run")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "- spice\n- spice\n", out)
}

func TestGuidanceIsPrintedAlone(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.toml")

	out, stderr, code := run(t, "", "config", "repo", "--config", missing)
	assert.Equal(t, 1, code)
	assert.Empty(t, out)
	assert.Equal(t, "Note config not present at "+missing+".\n", stderr)

	_, stderr, code = run(t, "", "pages", "--type", "bogus", "--config", missing)
	assert.Equal(t, 1, code)
	assert.NotContains(t, stderr, "Error:")
}

func TestConfigCommands(t *testing.T) {
	cfg, repo := writeConfig(t)

	out, _, code := run(t, "", "config", "file", "--config", cfg)
	assert.Equal(t, 0, code)
	assert.Equal(t, cfg+"\n", out)

	out, _, code = run(t, "", "config", "repo", "--config", cfg)
	assert.Equal(t, 0, code)
	assert.Equal(t, filepath.ToSlash(repo)+"\n", out)

	out, _, code = run(t, "", "config", "filter", "--config", cfg)
	assert.Equal(t, 0, code)
	assert.Equal(t, "links  =>  ^https?://\ntasks  =>  ^(TODO|DOING)\n", out)

	out, _, code = run(t, "", "config", "dump", "--config", cfg)
	assert.Equal(t, 0, code)
	assert.NotContains(t, out, "secret")
}

func TestLinksCommands(t *testing.T) {
	text := "- see [[Dune]] and #scifi\n- [site](https://example.com)\n"

	out, stderr, code := run(t, text, "wikilinks", "--type", "all")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "Dune\nscifi\n", out)

	out, stderr, code = run(t, text, "links", "--type", "md", "--bare")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "https://example.com\n", out)

	_, _, code = run(t, text, "links", "--type", "nope")
	assert.Equal(t, 1, code)
}

func TestPropCommand(t *testing.T) {
	input := "tags:: Draft, Recipe\n\n- Layer pasta\n"
	out, stderr, code := run(t, input, "prop", "--add", "status=done", "--remove", "tags=Draft")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "tags:: Recipe\nstatus:: done\n\n- Layer pasta\n", out)

	_, stderr, code = run(t, input, "prop", "--add", "broken")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "key=value")
}

func TestVersionCommand(t *testing.T) {
	out, _, code := run(t, "", "version")
	assert.Equal(t, 0, code)
	assert.True(t, strings.HasPrefix(out, "nt version "))
}
