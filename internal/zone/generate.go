package zone

import (
	"math"

	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/soaring-tools/tskmap/internal/geo"
	"github.com/soaring-tools/tskmap/pkg/task"
)

// CirclePoints is the number of samples around a full circle. Arcs use half
// as many segments.
const CirclePoints = 64

// Generate builds the boundary of z around center. bisector orients the
// shapes that are drawn relative to the course; it is ignored by circles and
// radial sectors. The boolean is false when the zone has no geometry.
func Generate(z task.ObservationZone, center task.Location, bisector float64) (geo.Geometry, bool) {
	shape, ok := Resolve(z)
	if !ok {
		return geo.Geometry{}, false
	}
	return shape.Generate(center, bisector), true
}

// Generate tessellates an already resolved shape.
func (s Shape) Generate(center task.Location, bisector float64) geo.Geometry {
	switch s.Strategy {
	case StrategyLine:
		return Line(center, s.Length, bisector)
	case StrategySector:
		return Sector(center, s.Radius, bisector, s.Angle)
	case StrategyRadials:
		return SectorFromRadials(center, s.Radius, s.StartRadial, s.EndRadial, s.InnerRadius)
	case StrategyKeyhole:
		inner := 0.0
		if s.InnerRadius != nil {
			inner = *s.InnerRadius
		}
		return Keyhole(center, s.Radius, inner, s.Angle, bisector)
	default:
		return Circle(center, s.Radius)
	}
}

// Circle returns a closed ring of CirclePoints samples plus the closing
// coordinate.
func Circle(center task.Location, radius float64) geo.Geometry {
	ring := make([]geom.XY, 0, CirclePoints+1)
	for i := 0; i < CirclePoints; i++ {
		bearing := float64(i) / CirclePoints * 360
		ring = append(ring, project(center, bearing, radius))
	}
	ring = append(ring, ring[0])
	return geo.NewPolygon(ring)
}

// Line returns a gate of the given length through center, perpendicular to
// the bisector.
func Line(center task.Location, length, bisector float64) geo.Geometry {
	half := length / 2
	left := project(center, bisector+90, half)
	right := project(center, bisector-90, half)
	return geo.NewLineString([]geom.XY{left, right})
}

// Sector returns an angle-wide sector of radius centred on the bisector,
// closed back to center.
func Sector(center task.Location, radius, bisector, angle float64) geo.Geometry {
	half := angle / 2
	start := geo.NormalizeAngle(bisector - half)
	end := geo.NormalizeAngle(bisector + half)
	return geo.NewPolygon(sectorRing(center, radius, start, end, nil))
}

// SectorFromRadials returns the sector between two absolute bearings. With
// an inner radius the ring is annular; otherwise it closes to center.
func SectorFromRadials(center task.Location, radius, startRadial, endRadial float64, inner *float64) geo.Geometry {
	return geo.NewPolygon(sectorRing(center, radius, startRadial, endRadial, inner))
}

func sectorRing(center task.Location, radius, startAngle, endAngle float64, inner *float64) []geom.XY {
	const arcPoints = CirclePoints / 2

	start := toRad(startAngle)
	sweep := geo.NormalizeSweep(start, toRad(endAngle))

	ring := make([]geom.XY, 0, 2*(arcPoints+1)+1)
	for i := 0; i <= arcPoints; i++ {
		t := float64(i) / arcPoints
		ring = append(ring, project(center, toDeg(start+t*sweep), radius))
	}

	if inner != nil {
		for i := arcPoints; i >= 0; i-- {
			t := float64(i) / arcPoints
			ring = append(ring, project(center, toDeg(start+t*sweep), *inner))
		}
	} else {
		ring = append(ring, geo.XY(center))
	}

	return append(ring, ring[0])
}

// Keyhole returns a sector of outerRadius fused with a circle of
// innerRadius: the outer arc runs from start to end, then the inner circle
// continues the long way round back to start.
func Keyhole(center task.Location, outerRadius, innerRadius, angle, bisector float64) geo.Geometry {
	const arcPoints = CirclePoints / 2

	half := angle / 2
	start := toRad(geo.NormalizeAngle(bisector - half))
	end := toRad(geo.NormalizeAngle(bisector + half))
	sweep := geo.NormalizeSweep(start, end)

	ring := make([]geom.XY, 0, arcPoints+CirclePoints+3)
	for i := 0; i <= arcPoints; i++ {
		t := float64(i) / arcPoints
		ring = append(ring, project(center, toDeg(start+t*sweep), outerRadius))
	}

	innerSweep := 2*math.Pi - sweep
	for i := 0; i <= CirclePoints; i++ {
		t := float64(i) / CirclePoints
		ring = append(ring, project(center, toDeg(end+t*innerSweep), innerRadius))
	}

	ring = append(ring, ring[0])
	return geo.NewPolygon(ring)
}

func project(center task.Location, bearing, distance float64) geom.XY {
	return geo.XY(geo.Destination(center, geo.NormalizeAngle(bearing), distance))
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func toDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}
