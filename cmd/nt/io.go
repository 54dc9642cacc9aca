package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/nt/pkg/core"
)

// piped reports whether the command's stdin is piped rather than a terminal.
func piped(cmd *cobra.Command) bool {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok {
		return !term.IsTerminal(int(f.Fd()))
	}
	return in != nil
}

// eachArg calls fn once per non-blank stdin line when input is piped, with
// the line as the primary argument followed by args. Without piped lines
// fn is called once with args as given.
func eachArg(cmd *cobra.Command, args []string, fn func(primary string, rest []string) error) error {
	if piped(cmd) {
		received := false
		scanner := bufio.NewScanner(cmd.InOrStdin())
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			received = true
			if err := fn(line, args); err != nil {
				return err
			}
		}
		if err := scanner.Err(); err != nil {
			return err
		}
		if received {
			return nil
		}
	}
	if len(args) == 0 {
		return fn("", nil)
	}
	return fn(args[0], args[1:])
}

// readInput returns all of stdin; blank input is core.ErrEmptyInput.
func readInput(cmd *cobra.Command) (string, error) {
	if !piped(cmd) {
		return "", core.ErrEmptyInput
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", core.ErrEmptyInput
	}
	return string(data), nil
}

func structured() bool {
	return format == "json" || format == "yaml"
}

func checkFormat() error {
	switch format {
	case "md", "json", "yaml":
		return nil
	}
	return core.Guide("Unknown format %q (md|json|yaml).", format)
}

// emit writes v as JSON or YAML, or calls md for the markdown format.
func emit(cmd *cobra.Command, v any, md func(w io.Writer) error) error {
	w := cmd.OutOrStdout()
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		node, err := yamlNode(v)
		if err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(node); err != nil {
			return err
		}
		return enc.Close()
	}
	return md(w)
}

// yamlNode converts v through its JSON encoding so ordered properties and
// json tags carry over to the YAML output.
func yamlNode(v any) (*yaml.Node, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	plain(&node)
	return &node, nil
}

func plain(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		plain(c)
	}
}

// emitLines prints one item per line, or the list as JSON/YAML.
func emitLines(cmd *cobra.Command, items []string) error {
	if items == nil {
		items = []string{}
	}
	return emit(cmd, items, func(w io.Writer) error {
		for _, item := range items {
			if _, err := fmt.Fprintln(w, item); err != nil {
				return err
			}
		}
		return nil
	})
}
