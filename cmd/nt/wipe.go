package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var wipeCmd = &cobra.Command{
	Use:     "wipe <name>",
	Short:   "Wipe content, but not properties, from a page",
	Example: `  nt wipe Groceries`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openService()
		if err != nil {
			return err
		}
		page := args[0]

		bar := newProgressBar(cmd.ErrOrStderr())
		res, err := svc.Wipe(cmd.Context(), page, bar.update)
		bar.done()
		if structured() {
			if emitErr := emit(cmd, res, nil); emitErr != nil {
				return emitErr
			}
			return err
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch {
		case res.AlreadyEmpty && res.Properties > 0:
			fmt.Fprintf(out, "Page '%s' already only contains properties\n", page)
		case res.AlreadyEmpty:
			fmt.Fprintf(out, "Page '%s' is already empty\n", page)
		default:
			fmt.Fprintf(out, "Deleted %d blocks from '%s', kept %d properties blocks\n", res.Deleted, page, res.Properties)
		}
		return nil
	},
}

// progressBar renders wipe progress on a terminal; elsewhere it is silent.
type progressBar struct {
	w       io.Writer
	enabled bool
	bar     progress.Model
	drawn   bool
}

func newProgressBar(w io.Writer) *progressBar {
	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	bar.Width = 36

	enabled := false
	if f, ok := w.(*os.File); ok {
		enabled = term.IsTerminal(int(f.Fd()))
	}
	return &progressBar{w: w, enabled: enabled, bar: bar}
}

func (p *progressBar) update(done, total int) {
	if !p.enabled || total <= 0 {
		return
	}
	percent := float64(done) / float64(total)
	fmt.Fprintf(p.w, "\r%s %3.0f%% %d/%d", p.bar.ViewAs(percent), percent*100, done, total)
	p.drawn = true
}

func (p *progressBar) done() {
	if p.drawn {
		fmt.Fprint(p.w, "\r"+strings.Repeat(" ", p.bar.Width+16)+"\r")
		p.drawn = false
	}
}

func init() {
	rootCmd.AddCommand(wipeCmd)
}
