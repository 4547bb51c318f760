package geo

import (
	geom "github.com/peterstace/simplefeatures/geom"
)

// GeometryType names the GeoJSON geometry kinds the renderer produces.
type GeometryType string

const (
	TypePoint      GeometryType = "Point"
	TypeLineString GeometryType = "LineString"
	TypePolygon    GeometryType = "Polygon"
)

// Geometry is a single renderable shape. Coordinates are longitude/latitude
// in degrees; a Polygon holds one closed exterior ring.
type Geometry struct {
	Type   GeometryType
	Coords []geom.XY
}

// NewPoint returns a point geometry.
func NewPoint(xy geom.XY) Geometry {
	return Geometry{Type: TypePoint, Coords: []geom.XY{xy}}
}

// NewLineString returns a line through the given coordinates.
func NewLineString(coords []geom.XY) Geometry {
	return Geometry{Type: TypeLineString, Coords: coords}
}

// NewPolygon returns a polygon with the given exterior ring. The ring is
// closed by repeating its first coordinate if it is not already closed.
func NewPolygon(ring []geom.XY) Geometry {
	if len(ring) > 0 && ring[0] != ring[len(ring)-1] {
		ring = append(ring, ring[0])
	}
	return Geometry{Type: TypePolygon, Coords: ring}
}

// Closed reports whether the first and last coordinates coincide.
func (g Geometry) Closed() bool {
	return len(g.Coords) > 0 && g.Coords[0] == g.Coords[len(g.Coords)-1]
}

// Transform returns a copy with fn applied to every coordinate.
func (g Geometry) Transform(fn func(geom.XY) geom.XY) Geometry {
	out := Geometry{Type: g.Type, Coords: make([]geom.XY, len(g.Coords))}
	for i, xy := range g.Coords {
		out.Coords[i] = fn(xy)
	}
	return out
}

// AsGeometry converts to a simplefeatures geometry for encoding and storage.
func (g Geometry) AsGeometry() geom.Geometry {
	flat := make([]float64, 0, len(g.Coords)*2)
	for _, xy := range g.Coords {
		flat = append(flat, xy.X, xy.Y)
	}
	seq := geom.NewSequence(flat, geom.DimXY)

	switch g.Type {
	case TypePoint:
		if len(g.Coords) == 0 {
			return geom.NewEmptyPoint(geom.DimXY).AsGeometry()
		}
		return geom.NewPoint(geom.Coordinates{XY: g.Coords[0], Type: geom.DimXY}).AsGeometry()
	case TypeLineString:
		return geom.NewLineString(seq).AsGeometry()
	default:
		return geom.NewPolygon([]geom.LineString{geom.NewLineString(seq)}).AsGeometry()
	}
}
