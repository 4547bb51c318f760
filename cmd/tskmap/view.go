package main

import (
	"fmt"

	"github.com/soaring-tools/tskmap/internal/config"
	"github.com/soaring-tools/tskmap/internal/viewer"
	"github.com/spf13/cobra"
)

var viewNoOpen bool

var viewCmd = &cobra.Command{
	Use:   "view <file.tsk>",
	Short: "Show a task on a map in the browser",
	Long: `Render a task into a standalone HTML map page, write it to a temporary
task_*.html file and open it in the default browser. The page is kept after
the command exits.`,
	Args: cobra.ExactArgs(1),
	RunE: runView,
}

func init() {
	viewCmd.Flags().BoolVar(&viewNoOpen, "no-open", false, "write the page without launching a browser")
	rootCmd.AddCommand(viewCmd)
}

func runView(cmd *cobra.Command, args []string) error {
	t, err := readTask(args[0])
	if err != nil {
		return err
	}
	c, err := assemble(taskContext(cmd.Context(), args[0]), t, config.GetRenderConfig().Workers)
	if err != nil {
		return err
	}

	cfg := config.GetViewerConfig()
	v := viewer.New(viewer.Options{
		TempDir:     cfg.TempDir,
		OpenBrowser: cfg.OpenBrowser && !viewNoOpen,
		Stdout:      cmd.OutOrStdout(),
		Logger:      Logger,
	})

	title := fmt.Sprintf("%s (%s)", taskName(args[0]), t.Type)
	_, err = v.Show(title, c)
	return err
}
