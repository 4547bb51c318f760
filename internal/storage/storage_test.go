// internal/storage/storage_test.go
package storage_test

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/soaring-tools/tskmap/internal/config"
	"github.com/soaring-tools/tskmap/internal/render"
	"github.com/soaring-tools/tskmap/internal/storage"
	gormstorage "github.com/soaring-tools/tskmap/internal/storage/gorm"
	"github.com/soaring-tools/tskmap/internal/storage/memory"
	"github.com/soaring-tools/tskmap/pkg/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Compile-time interface checks
var (
	_ storage.Backend      = (*memory.Backend)(nil)
	_ storage.FileExporter = (*memory.Backend)(nil)
	_ storage.Backend      = (*gormstorage.Backend)(nil)
)

func sampleTask() *task.Task {
	return &task.Task{
		Type: task.TypeRT,
		Points: []task.Point{
			{Type: task.Start, Waypoint: task.Waypoint{Name: "A"}, Zone: task.Line{Length: 1000}},
			{Type: task.Turn, Waypoint: task.Waypoint{Name: "B", Location: task.Location{Latitude: 0.5, Longitude: 0.5}}, Zone: task.FAISector{}},
			{Type: task.Finish, Waypoint: task.Waypoint{Name: "C", Location: task.Location{Longitude: 1}}, Zone: task.Cylinder{Radius: 500}},
		},
	}
}

func TestNewRender(t *testing.T) {
	a, err := render.New(render.Options{})
	require.NoError(t, err)
	tsk := sampleTask()
	c, err := a.Assemble(context.Background(), tsk)
	require.NoError(t, err)

	r, err := storage.NewRender("triangle", tsk, c)
	require.NoError(t, err)

	assert.NotEqual(t, [16]byte{}, [16]byte(r.ID))
	assert.Equal(t, "triangle", r.Name)
	assert.Equal(t, "RT", r.TaskType)
	assert.Equal(t, 3, r.Points)
	assert.Equal(t, 7, r.Features)
	assert.False(t, r.CreatedAt.IsZero())
	assert.Equal(t, 3, r.Course.Coordinates().Length())

	var doc map[string]any
	require.NoError(t, json.Unmarshal(r.GeoJSON, &doc))
	assert.Equal(t, "FeatureCollection", doc["type"])
}

func TestNewBackend(t *testing.T) {
	b, err := storage.NewBackend(config.StorageConfig{Type: "none"}, nil)
	require.NoError(t, err)
	assert.Nil(t, b)

	b, err = storage.NewBackend(config.StorageConfig{Type: ""}, nil)
	require.NoError(t, err)
	assert.Nil(t, b)

	b, err = storage.NewBackend(config.StorageConfig{
		Type:   "memory",
		Memory: config.MemoryConfig{OutputDir: t.TempDir()},
	}, nil)
	require.NoError(t, err)
	assert.IsType(t, &memory.Backend{}, b)

	b, err = storage.NewBackend(config.StorageConfig{
		Type:   "sqlite",
		SQLite: config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "a.db")},
	}, nil)
	require.NoError(t, err)
	require.IsType(t, &gormstorage.Backend{}, b)
	assert.NoError(t, b.Close())

	_, err = storage.NewBackend(config.StorageConfig{Type: "s3"}, nil)
	assert.ErrorContains(t, err, "unknown storage type: s3")
}
