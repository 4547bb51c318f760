// internal/storage/memory/export.go
package memory

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"
	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/soaring-tools/tskmap/pkg/core"
)

// ExportFile is the root JSON structure of an exported render: a plain
// FeatureCollection plus a foreign member with the archive metadata.
type ExportFile struct {
	Type     string          `json:"type"`
	Features json.RawMessage `json:"features"`
	Metadata ExportMetadata  `json:"tskmap"`
}

// ExportMetadata is the archive metadata of an export
type ExportMetadata struct {
	ID        uuid.UUID    `json:"id"`
	Name      string       `json:"name"`
	TaskType  string       `json:"taskType"`
	Points    int          `json:"points"`
	Features  int          `json:"features"`
	CreatedAt time.Time    `json:"createdAt"`
	Course    [][2]float64 `json:"course,omitempty"`
}

// exportFileName builds "<name>_<timestamp>.geojson[.gz]" with characters
// unsafe in file names replaced. unique appends part of the render ID.
func exportFileName(r *core.Render, compress, unique bool) string {
	name := strings.NewReplacer(" ", "_", ":", "_", "/", "_", "\\", "_").Replace(r.Name)
	if name == "" {
		name = "task"
	}
	stem := name + "_" + r.CreatedAt.Format("20060102_150405")
	if unique {
		stem += "_" + r.ID.String()[:8]
	}

	if compress {
		return stem + ".geojson.gz"
	}
	return stem + ".geojson"
}

// export writes r to the output directory and returns the file path.
func (b *Backend) export(r *core.Render) (string, error) {
	data, err := buildExport(r)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	outputPath := filepath.Join(b.cfg.OutputDir, exportFileName(r, b.cfg.CompressOutput, false))
	if _, err := os.Stat(outputPath); err == nil {
		outputPath = filepath.Join(b.cfg.OutputDir, exportFileName(r, b.cfg.CompressOutput, true))
	}

	if b.cfg.CompressOutput {
		err = writeGzipJSON(outputPath, data)
	} else {
		err = writeJSON(outputPath, data)
	}
	if err != nil {
		return "", err
	}
	return outputPath, nil
}

func buildExport(r *core.Render) (ExportFile, error) {
	var fc struct {
		Features json.RawMessage `json:"features"`
	}
	if err := json.Unmarshal(r.GeoJSON, &fc); err != nil {
		return ExportFile{}, fmt.Errorf("decoding feature collection: %w", err)
	}
	if len(fc.Features) == 0 {
		fc.Features = json.RawMessage("[]")
	}

	meta := ExportMetadata{
		ID:        r.ID,
		Name:      r.Name,
		TaskType:  r.TaskType,
		Points:    r.Points,
		Features:  r.Features,
		CreatedAt: r.CreatedAt,
	}
	seq := r.Course.Coordinates()
	for i := 0; i < seq.Length(); i++ {
		xy := seq.GetXY(i)
		meta.Course = append(meta.Course, [2]float64{xy.X, xy.Y})
	}

	return ExportFile{
		Type:     "FeatureCollection",
		Features: fc.Features,
		Metadata: meta,
	}, nil
}

// readExport loads a file written by export, compressed or not.
func readExport(path string) (*core.Render, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		defer gz.Close()
		r = gz
	}

	var data ExportFile
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode export: %w", err)
	}
	if data.Type != "FeatureCollection" {
		return nil, fmt.Errorf("not a FeatureCollection: %q", data.Type)
	}

	collection, err := json.Marshal(struct {
		Type     string          `json:"type"`
		Features json.RawMessage `json:"features"`
	}{data.Type, data.Features})
	if err != nil {
		return nil, err
	}

	meta := data.Metadata
	flat := make([]float64, 0, 2*len(meta.Course))
	for _, c := range meta.Course {
		flat = append(flat, c[0], c[1])
	}

	return &core.Render{
		ID:        meta.ID,
		Name:      meta.Name,
		TaskType:  meta.TaskType,
		Points:    meta.Points,
		Features:  meta.Features,
		CreatedAt: meta.CreatedAt,
		Course:    geom.NewLineString(geom.NewSequence(flat, geom.DimXY)),
		GeoJSON:   collection,
	}, nil
}

func writeJSON(path string, data ExportFile) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	return encoder.Encode(data)
}

func writeGzipJSON(path string, data ExportFile) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	gzWriter := gzip.NewWriter(f)
	defer gzWriter.Close()

	encoder := json.NewEncoder(gzWriter)
	return encoder.Encode(data)
}
