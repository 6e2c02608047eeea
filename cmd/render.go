package cmd

import (
	"context"
	"fmt"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/zjrosen/strata/internal/outline"
	"github.com/zjrosen/strata/internal/ui/markdown"
)

var renderWidth int

var renderCmd = &cobra.Command{
	Use:   "render FILE",
	Short: "Print a document as formatted markdown",
	Long: `Parse a document, normalise it the way strata saves it, and print it
through glamour. Output to a pipe is plain text.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().IntVarP(&renderWidth, "width", "w", 80, "wrap width")
}

func runRender(cmd *cobra.Command, args []string) error {
	f, err := outline.Load(context.Background(), args[0])
	if err != nil {
		return err
	}

	profile := termenv.NewOutput(cmd.OutOrStdout()).EnvColorProfile()
	r, err := markdown.New(renderWidth, profile)
	if err != nil {
		return err
	}
	out, err := r.RenderForest(f)
	if err != nil {
		return fmt.Errorf("rendering %s: %w", args[0], err)
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), out)
	return err
}
