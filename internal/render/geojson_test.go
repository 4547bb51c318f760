package render

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fcDoc struct {
	Type     string `json:"type"`
	Features []struct {
		Type       string         `json:"type"`
		Properties map[string]any `json:"properties"`
		Geometry   struct {
			Type        string          `json:"type"`
			Coordinates json.RawMessage `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

func TestParseCRS(t *testing.T) {
	tests := []struct {
		in   string
		want CRS
	}{
		{"", WGS84},
		{"EPSG:4326", WGS84},
		{"epsg:4326", WGS84},
		{"4326", WGS84},
		{"EPSG:3857", WebMercator},
		{" 3857 ", WebMercator},
	}
	for _, tt := range tests {
		got, err := ParseCRS(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseCRS("EPSG:27700")
	assert.ErrorIs(t, err, ErrUnsupportedCRS)
}

func TestMarshalJSON_Scenario(t *testing.T) {
	c, err := newAssembler(t, 0).Assemble(context.Background(), scenarioTask())
	require.NoError(t, err)

	raw, err := json.Marshal(c)
	require.NoError(t, err)

	var doc fcDoc
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, "FeatureCollection", doc.Type)
	require.Len(t, doc.Features, 5)

	course := doc.Features[0]
	assert.Equal(t, "Feature", course.Type)
	assert.Equal(t, map[string]any{"feature_type": "course_line"}, course.Properties)
	assert.Equal(t, "LineString", course.Geometry.Type)
	var line [][]float64
	require.NoError(t, json.Unmarshal(course.Geometry.Coordinates, &line))
	assert.Equal(t, [][]float64{{0, 0}, {1, 0}}, line)

	zone := doc.Features[1]
	assert.Equal(t, "observation_zone", zone.Properties["feature_type"])
	assert.Equal(t, "A", zone.Properties["name"])
	assert.Equal(t, "Start", zone.Properties["point_type"])
	assert.Equal(t, "Polygon", zone.Geometry.Type)
	var rings [][][]float64
	require.NoError(t, json.Unmarshal(zone.Geometry.Coordinates, &rings))
	require.Len(t, rings, 1)
	require.Len(t, rings[0], 65)
	assert.Equal(t, rings[0][0], rings[0][64])

	marker := doc.Features[2]
	assert.Equal(t, "waypoint", marker.Properties["feature_type"])
	assert.Equal(t, "Point", marker.Geometry.Type)
	var pt []float64
	require.NoError(t, json.Unmarshal(marker.Geometry.Coordinates, &pt))
	assert.Equal(t, []float64{0, 0}, pt)
}

func TestGeoJSON_WebMercator(t *testing.T) {
	c, err := newAssembler(t, 0).Assemble(context.Background(), scenarioTask())
	require.NoError(t, err)

	fc, err := c.GeoJSON(WebMercator)
	require.NoError(t, err)
	require.Len(t, fc, 5)

	var buf bytes.Buffer
	require.NoError(t, c.Encode(&buf, WebMercator, false))

	var doc fcDoc
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	var line [][]float64
	require.NoError(t, json.Unmarshal(doc.Features[0].Geometry.Coordinates, &line))
	require.Len(t, line, 2)
	assert.InDelta(t, 0, line[0][0], 1e-6)
	// one degree of longitude at the equator
	assert.InDelta(t, 111319.49, line[1][0], 0.01)

	// the in-memory collection keeps degrees
	assert.Equal(t, 1.0, c.Features[0].Geometry.Coords[1].X)
}

func TestGeoJSON_UnsupportedCRS(t *testing.T) {
	c := &Collection{}
	_, err := c.GeoJSON("EPSG:2056")
	assert.ErrorIs(t, err, ErrUnsupportedCRS)

	err = c.Encode(&bytes.Buffer{}, "EPSG:2056", true)
	assert.ErrorIs(t, err, ErrUnsupportedCRS)
}

func TestEncode_Pretty(t *testing.T) {
	c, err := newAssembler(t, 0).Assemble(context.Background(), scenarioTask())
	require.NoError(t, err)

	var compact, pretty bytes.Buffer
	require.NoError(t, c.Encode(&compact, WGS84, false))
	require.NoError(t, c.Encode(&pretty, WGS84, true))

	assert.Greater(t, pretty.Len(), compact.Len())
	assert.Contains(t, pretty.String(), "\n  ")
	assert.JSONEq(t, compact.String(), pretty.String())
}
