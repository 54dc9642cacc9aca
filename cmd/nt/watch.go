package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	service "github.com/aretw0/nt/pkg/nt"
)

var watchCmd = &cobra.Command{
	Use:   "watch <file> <page>",
	Short: "Post a local outline file to a page, again on every change",
	Long: `Watch replaces the content of a page (not its properties) with the outline
in file, and does so again each time the file changes, until interrupted.`,
	Example: `  nt watch draft.md "Weekly Review"`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openService()
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		out := cmd.ErrOrStderr()
		err = svc.Watch(ctx, args[0], args[1], service.WatchOptions{
			StopTimeout: 5 * time.Second,
			OnSync: func(res service.PostResult, err error) {
				stamp := time.Now().Format(time.TimeOnly)
				if err != nil {
					fmt.Fprintf(out, "%s sync failed: %v\n", stamp, err)
					return
				}
				fmt.Fprintf(out, "%s synced %d blocks to '%s'\n", stamp, res.Blocks, res.Page)
			},
		})
		if err != nil && ctx.Err() == nil {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
