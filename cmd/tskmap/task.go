package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/soaring-tools/tskmap/internal/logging"
	"github.com/soaring-tools/tskmap/internal/render"
	"github.com/soaring-tools/tskmap/pkg/task"
)

// taskContext tags log records made while working on the task file path.
func taskContext(ctx context.Context, path string) context.Context {
	return logging.WithContextAttrs(ctx, slog.String("task", path))
}

func readTask(path string) (*task.Task, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open task file: %w", err)
	}
	defer f.Close()

	t, err := task.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	Logger.Debug("Parsed task", "path", path, "type", t.Type, "points", len(t.Points))
	return t, nil
}

func assemble(ctx context.Context, t *task.Task, workers int) (*render.Collection, error) {
	a, err := render.New(render.Options{Workers: workers, Logger: Logger})
	if err != nil {
		return nil, fmt.Errorf("failed to create assembler: %w", err)
	}
	return a.Assemble(ctx, t)
}

// taskName is the file name of path without its extension.
func taskName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
