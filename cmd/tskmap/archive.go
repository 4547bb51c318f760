package main

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/soaring-tools/tskmap/internal/config"
	"github.com/soaring-tools/tskmap/internal/render"
	"github.com/soaring-tools/tskmap/internal/storage"
	"github.com/soaring-tools/tskmap/pkg/task"
	"github.com/spf13/cobra"
)

// errNoArchive is returned when storage.type is none.
var errNoArchive = errors.New("no archive configured: set storage.type in " + config.FileName)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Inspect archived renders",
}

var archiveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived renders, oldest first",
	Args:  cobra.NoArgs,
	RunE:  runArchiveList,
}

func init() {
	archiveCmd.AddCommand(archiveListCmd)
	rootCmd.AddCommand(archiveCmd)
}

// openBackend creates and initializes the configured archive. It returns
// errNoArchive when archiving is disabled.
func openBackend() (storage.Backend, error) {
	cfg := config.GetStorageConfig()
	backend, err := storage.NewBackend(cfg, Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage backend: %w", err)
	}
	if backend == nil {
		return nil, errNoArchive
	}
	if err := backend.Init(); err != nil {
		backend.Close()
		return nil, fmt.Errorf("failed to initialize storage backend: %w", err)
	}
	Logger.Debug("Storage backend initialized", "type", cfg.Type)
	return backend, nil
}

func archiveRender(ctx context.Context, name string, t *task.Task, c *render.Collection) error {
	backend, err := openBackend()
	if err != nil {
		return err
	}
	defer backend.Close()

	rec, err := storage.NewRender(name, t, c)
	if err != nil {
		return err
	}
	if err := backend.Save(ctx, rec); err != nil {
		return fmt.Errorf("failed to archive render: %w", err)
	}

	if fe, ok := backend.(storage.FileExporter); ok {
		Logger.InfoContext(ctx, "Archived render", "id", rec.ID, "path", fe.GetExportedFilePath())
	} else {
		Logger.InfoContext(ctx, "Archived render", "id", rec.ID, "name", rec.Name)
	}
	return nil
}

func runArchiveList(cmd *cobra.Command, _ []string) error {
	backend, err := openBackend()
	if err != nil {
		return err
	}
	defer backend.Close()

	renders, err := backend.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list renders: %w", err)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tNAME\tTYPE\tPOINTS\tFEATURES")
	for _, r := range renders {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\n",
			r.ID.String()[:8],
			r.CreatedAt.Local().Format(time.DateTime),
			r.Name,
			r.TaskType,
			r.Points,
			r.Features,
		)
	}
	return w.Flush()
}
