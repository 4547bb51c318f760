// Package gormstorage implements the storage.Backend interface on a GORM
// connection, SQLite or Postgres. Course lines are kept as WKB and the
// feature collection as a JSON column.
package gormstorage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/soaring-tools/tskmap/internal/database"
	"github.com/soaring-tools/tskmap/pkg/core"
	"gorm.io/datatypes"
)

// RenderRow is the persisted form of a core.Render.
type RenderRow struct {
	ID        string         `gorm:"primaryKey;size:36"`
	Name      string         `gorm:"index"`
	TaskType  string         `gorm:"size:16"`
	Points    int            `gorm:"not null"`
	Features  int            `gorm:"not null"`
	Course    []byte         // WKB LineString
	GeoJSON   datatypes.JSON `gorm:"column:geojson"`
	CreatedAt time.Time      `gorm:"index"`
}

// TableName overrides the GORM default.
func (RenderRow) TableName() string {
	return "renders"
}

// Backend stores renders through a database.Manager.
type Backend struct {
	m *database.Manager
}

// New creates a backend on a connected manager.
func New(m *database.Manager) *Backend {
	return &Backend{m: m}
}

// Init migrates the renders table.
func (b *Backend) Init() error {
	return b.m.Setup(&RenderRow{})
}

// Close closes the database connection.
func (b *Backend) Close() error {
	return b.m.Close()
}

// Save inserts r.
func (b *Backend) Save(ctx context.Context, r *core.Render) error {
	row := RenderRow{
		ID:        r.ID.String(),
		Name:      r.Name,
		TaskType:  r.TaskType,
		Points:    r.Points,
		Features:  r.Features,
		Course:    r.Course.AsBinary(),
		GeoJSON:   datatypes.JSON(r.GeoJSON),
		CreatedAt: r.CreatedAt,
	}
	if err := b.m.DB.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to insert render: %w", err)
	}
	b.m.Logger.DebugContext(ctx, "Inserted render", "id", row.ID, "dialect", b.m.DB.Dialector.Name())
	return nil
}

// List returns every stored render, oldest first.
func (b *Backend) List(ctx context.Context) ([]core.Render, error) {
	var rows []RenderRow
	if err := b.m.DB.WithContext(ctx).Order("created_at").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query renders: %w", err)
	}

	out := make([]core.Render, 0, len(rows))
	for _, row := range rows {
		r, err := row.toCore()
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", row.ID, err)
		}
		out = append(out, r)
	}
	return out, nil
}

func (row RenderRow) toCore() (core.Render, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return core.Render{}, err
	}

	r := core.Render{
		ID:        id,
		Name:      row.Name,
		TaskType:  row.TaskType,
		Points:    row.Points,
		Features:  row.Features,
		CreatedAt: row.CreatedAt,
		GeoJSON:   []byte(row.GeoJSON),
	}
	if len(row.Course) > 0 {
		g, err := geom.UnmarshalWKB(row.Course)
		if err != nil {
			return core.Render{}, fmt.Errorf("decoding course: %w", err)
		}
		if ls, ok := g.AsLineString(); ok {
			r.Course = ls
		}
	}
	return r, nil
}
