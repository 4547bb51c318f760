// pkg/core/render.go
package core

import (
	"time"

	"github.com/google/uuid"
	geom "github.com/peterstace/simplefeatures/geom"
)

// Render is an archived feature collection of one task.
type Render struct {
	ID        uuid.UUID
	Name      string
	TaskType  string
	Points    int
	Features  int
	CreatedAt time.Time

	// Course is the course line in WGS84, empty for tasks with fewer than
	// two points.
	Course geom.LineString

	// GeoJSON is the encoded FeatureCollection.
	GeoJSON []byte
}

// ExportMetadata describes an exported render file.
type ExportMetadata struct {
	Name     string
	TaskType string
	Points   int
	Features int
}
