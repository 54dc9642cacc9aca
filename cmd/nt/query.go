package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var queryLimit int

var queryCmd = &cobra.Command{
	Use:     "query <query> [args...]",
	Aliases: []string{"q"},
	Short:   "Run a datalog query or a named query from the config (pipeable)",
	Long: `Query runs datalog against the graph. A configured query name may be used
instead of the query text; its $1..$n placeholders are filled from args.`,
	Example: `  nt query linked Atomic
  nt q '[:find (pull ?p [:block/original-name]) :where [?p :block/journal? true]]' --limit 5`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkFormat(); err != nil {
			return err
		}
		svc, err := openService()
		if err != nil {
			return err
		}
		return eachArg(cmd, args, func(query string, rest []string) error {
			if query == "" {
				return cmd.Usage()
			}
			rows, err := svc.Query(cmd.Context(), query, rest...)
			if err != nil {
				return err
			}
			if queryLimit > 0 && len(rows) > queryLimit {
				rows = rows[:queryLimit]
			}
			if rows == nil {
				rows = []json.RawMessage{}
			}
			return emit(cmd, rows, func(w io.Writer) error {
				for _, row := range rows {
					if _, err := fmt.Fprintln(w, string(row)); err != nil {
						return err
					}
				}
				return nil
			})
		})
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().IntVar(&queryLimit, "limit", 0, "Limit to N rows (0 = no limit)")
}
