package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/nt/pkg/builder"
	"github.com/aretw0/nt/pkg/core"
	service "github.com/aretw0/nt/pkg/nt"
	"github.com/aretw0/nt/pkg/outline"
)

var postFlags postModeFlags

// postModeFlags backs --append, --prepend and --overwrite.
type postModeFlags struct {
	append    bool
	prepend   bool
	overwrite bool
}

func (f *postModeFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&f.append, "append", "a", false, "Append mode (the default)")
	cmd.Flags().BoolVarP(&f.prepend, "prepend", "p", false, "Prepend mode (after page properties)")
	cmd.Flags().BoolVar(&f.overwrite, "overwrite", false, "Purge existing page content (not properties) first")
	cmd.MarkFlagsMutuallyExclusive("append", "prepend")
}

func (f *postModeFlags) options() service.PostOptions {
	opts := service.PostOptions{Mode: builder.Append, Overwrite: f.overwrite}
	if f.prepend {
		opts.Mode = builder.Prepend
	}
	return opts
}

var postCmd = &cobra.Command{
	Use:   "post [name] [content]",
	Short: "Send content to a page or, if omitted, to today's journal (piped)",
	Example: `  echo "Walked for 1h" | nt post
  nt post Diet "Egg sandwich"
  nt post Groceries "Ranch Dressing\nCream Cheese" --overwrite
  nt post Call "Mom" --prepend
  nt p --heading=0 "Recipe Template" | nt post Lasagna`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var name string
		if len(args) > 0 {
			name = args[0]
		}

		var input io.Reader
		switch {
		case len(args) == 2:
			input = strings.NewReader(unescape(args[1]))
		case piped(cmd):
			input = cmd.InOrStdin()
		default:
			return core.ErrEmptyInput
		}

		svc, err := openService()
		if err != nil {
			return err
		}
		res, err := svc.Post(cmd.Context(), name, input, postFlags.options())
		if err != nil {
			return err
		}
		return report(cmd, svc, res)
	},
}

// report prints the outcome of a post, and the resulting page on dry runs.
func report(cmd *cobra.Command, svc *service.Service, res service.PostResult) error {
	if dryRun {
		blocks, err := svc.Graph().GetPageBlocks(cmd.Context(), res.Page)
		if err != nil {
			return err
		}
		return emit(cmd, blocks, func(w io.Writer) error {
			return outline.Render(w, blocks)
		})
	}
	if structured() {
		return emit(cmd, res, nil)
	}
	verb := "Updated"
	if res.Created {
		verb = "Created"
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s '%s' with %d blocks.\n", verb, res.Page, res.Blocks)
	return nil
}

func init() {
	rootCmd.AddCommand(postCmd)
	postFlags.register(postCmd)
}
