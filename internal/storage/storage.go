// internal/storage/storage.go
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/soaring-tools/tskmap/internal/render"
	"github.com/soaring-tools/tskmap/pkg/core"
	"github.com/soaring-tools/tskmap/pkg/task"
)

// Backend is the interface all archive implementations must satisfy
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Save stores r. Implementations may not retain r.
	Save(ctx context.Context, r *core.Render) error
	// List returns every stored render, oldest first.
	List(ctx context.Context) ([]core.Render, error)
}

// FileExporter is an optional interface for backends that write each
// render to a file.
type FileExporter interface {
	GetExportedFilePath() string
	GetExportMetadata() core.ExportMetadata
}

// NewRender builds an archive entry for c, the rendering of t.
func NewRender(name string, t *task.Task, c *render.Collection) (*core.Render, error) {
	data, err := c.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("encoding collection: %w", err)
	}

	r := &core.Render{
		ID:        uuid.New(),
		Name:      name,
		TaskType:  string(t.Type),
		Points:    len(t.Points),
		Features:  len(c.Features),
		CreatedAt: time.Now().UTC(),
		GeoJSON:   data,
	}
	if course, ok := c.Course(); ok {
		if ls, ok := course.AsGeometry().AsLineString(); ok {
			r.Course = ls
		}
	}
	return r, nil
}
