// internal/storage/memory/memory.go
package memory

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/soaring-tools/tskmap/internal/config"
	"github.com/soaring-tools/tskmap/pkg/core"
)

// Backend keeps renders in memory and exports each one to a GeoJSON file
// in the output directory.
type Backend struct {
	cfg    config.MemoryConfig
	logger *slog.Logger

	renders      []core.Render
	lastExport   string
	lastMetadata core.ExportMetadata
	mu           sync.RWMutex
}

// New creates a new memory backend
func New(cfg config.MemoryConfig, logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.Default()
	}
	return &Backend{
		cfg:    cfg,
		logger: logger,
	}
}

// Init creates the output directory and indexes renders exported by
// earlier runs. Unreadable files are skipped with a warning.
func (b *Backend) Init() error {
	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	entries, err := os.ReadDir(b.cfg.OutputDir)
	if err != nil {
		return fmt.Errorf("failed to read output directory: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.renders = b.renders[:0]
	for _, e := range entries {
		if e.IsDir() || !isExport(e.Name()) {
			continue
		}
		path := filepath.Join(b.cfg.OutputDir, e.Name())
		r, err := readExport(path)
		if err != nil {
			b.logger.Warn("Skipping unreadable export", "path", path, "error", err)
			continue
		}
		b.renders = append(b.renders, *r)
	}
	sortRenders(b.renders)

	b.logger.Debug("Indexed exports", "dir", b.cfg.OutputDir, "count", len(b.renders))
	return nil
}

// Close cleans up resources
func (b *Backend) Close() error {
	return nil
}

// Save exports r and adds it to the index.
func (b *Backend) Save(ctx context.Context, r *core.Render) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	path, err := b.export(r)
	if err != nil {
		return err
	}

	b.renders = append(b.renders, *r)
	sortRenders(b.renders)
	b.lastExport = path
	b.lastMetadata = core.ExportMetadata{
		Name:     r.Name,
		TaskType: r.TaskType,
		Points:   r.Points,
		Features: r.Features,
	}

	b.logger.InfoContext(ctx, "Exported render", "path", path, "features", r.Features)
	return nil
}

// List returns all known renders, oldest first.
func (b *Backend) List(ctx context.Context) ([]core.Render, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]core.Render, len(b.renders))
	copy(out, b.renders)
	return out, nil
}

// GetExportedFilePath returns the path of the last exported file.
func (b *Backend) GetExportedFilePath() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastExport
}

// GetExportMetadata describes the last exported file.
func (b *Backend) GetExportMetadata() core.ExportMetadata {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastMetadata
}

func sortRenders(rs []core.Render) {
	sort.SliceStable(rs, func(i, j int) bool {
		return rs[i].CreatedAt.Before(rs[j].CreatedAt)
	})
}

func isExport(name string) bool {
	return strings.HasSuffix(name, ".geojson") || strings.HasSuffix(name, ".geojson.gz")
}
