// Package zone turns observation zone descriptions into boundary geometry.
package zone

import "github.com/soaring-tools/tskmap/pkg/task"

// Fixed dimensions of the zone variants, in metres and degrees.
const (
	MatCylinderRadius = 1609.34 // one statute mile

	// FAISectorRadius bounds the conceptually infinite FAI sector for display.
	FAISectorRadius = 20000.0
	FAISectorAngle  = 90.0

	DefaultQuadrantRadius = 10000.0
	DefaultQuadrantAngle  = 90.0

	DefaultKeyholeRadius      = 10000.0
	DefaultKeyholeAngle       = 90.0
	DefaultKeyholeInnerRadius = 500.0

	BGAStartSectorRadius = 5000.0
	BGAStartSectorAngle  = 180.0

	BGAFixedCourseRadius    = 20000.0
	BGAEnhancedOptionRadius = 10000.0
	BGAEnhancedOptionAngle  = 180.0
)

// Strategy is the tessellation used for a zone.
type Strategy int

const (
	// StrategyCircle is a full circle of Radius.
	StrategyCircle Strategy = iota
	// StrategyLine is a gate of Length perpendicular to the bisector.
	StrategyLine
	// StrategySector is an Angle-wide sector of Radius centred on the bisector.
	StrategySector
	// StrategyRadials is a sector between absolute StartRadial and EndRadial,
	// annular when InnerRadius is set.
	StrategyRadials
	// StrategyKeyhole is an Angle-wide sector of Radius fused with a circle of
	// InnerRadius, centred on the bisector.
	StrategyKeyhole
)

func (s Strategy) String() string {
	switch s {
	case StrategyCircle:
		return "circle"
	case StrategyLine:
		return "line"
	case StrategySector:
		return "sector"
	case StrategyRadials:
		return "radials"
	case StrategyKeyhole:
		return "keyhole"
	default:
		return "unknown"
	}
}

// Shape is a zone with every default filled in.
type Shape struct {
	Strategy    Strategy
	Radius      float64
	InnerRadius *float64
	Angle       float64
	StartRadial float64
	EndRadial   float64
	Length      float64
}

// Resolve maps a zone variant onto its tessellation strategy and concrete
// dimensions. The boolean is false for zones with no renderable shape.
func Resolve(z task.ObservationZone) (Shape, bool) {
	switch z := z.(type) {
	case task.Cylinder:
		return Shape{Strategy: StrategyCircle, Radius: z.Radius}, true
	case task.MatCylinder:
		return Shape{Strategy: StrategyCircle, Radius: MatCylinderRadius}, true
	case task.Line:
		return Shape{Strategy: StrategyLine, Length: z.Length}, true
	case task.FAISector:
		return Shape{Strategy: StrategySector, Radius: FAISectorRadius, Angle: FAISectorAngle}, true
	case task.Sector:
		return Shape{
			Strategy:    StrategyRadials,
			Radius:      z.Radius,
			StartRadial: z.StartRadial,
			EndRadial:   z.EndRadial,
			InnerRadius: z.InnerRadius,
		}, true
	case task.SymmetricQuadrant:
		return Shape{
			Strategy: StrategySector,
			Radius:   or(z.Radius, DefaultQuadrantRadius),
			Angle:    or(z.Angle, DefaultQuadrantAngle),
		}, true
	case task.Keyhole:
		return keyhole(DefaultKeyholeRadius, DefaultKeyholeInnerRadius, DefaultKeyholeAngle), true
	case task.CustomKeyhole:
		return keyhole(
			or(z.Radius, DefaultKeyholeRadius),
			or(z.InnerRadius, DefaultKeyholeInnerRadius),
			or(z.Angle, DefaultKeyholeAngle),
		), true
	case task.BGAStartSector:
		return Shape{Strategy: StrategySector, Radius: BGAStartSectorRadius, Angle: BGAStartSectorAngle}, true
	case task.BGAFixedCourse:
		return keyhole(BGAFixedCourseRadius, DefaultKeyholeInnerRadius, DefaultKeyholeAngle), true
	case task.BGAEnhancedOption:
		return keyhole(BGAEnhancedOptionRadius, DefaultKeyholeInnerRadius, BGAEnhancedOptionAngle), true
	}
	return Shape{}, false
}

func keyhole(radius, inner, angle float64) Shape {
	return Shape{Strategy: StrategyKeyhole, Radius: radius, InnerRadius: &inner, Angle: angle}
}

func or(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
