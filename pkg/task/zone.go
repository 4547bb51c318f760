package task

import "encoding/json"

// ZoneType is the XML type literal of an observation zone.
type ZoneType string

const (
	ZoneCylinder          ZoneType = "Cylinder"
	ZoneLine              ZoneType = "Line"
	ZoneKeyhole           ZoneType = "Keyhole"
	ZoneFAISector         ZoneType = "FAISector"
	ZoneSector            ZoneType = "Sector"
	ZoneSymmetricQuadrant ZoneType = "SymmetricQuadrant"
	ZoneCustomKeyhole     ZoneType = "CustomKeyhole"
	ZoneMatCylinder       ZoneType = "MatCylinder"
	ZoneBGAStartSector    ZoneType = "BGAStartSector"
	ZoneBGAFixedCourse    ZoneType = "BGAFixedCourse"
	ZoneBGAEnhancedOption ZoneType = "BGAEnhancedOption"
)

// ObservationZone is the closed set of zone shapes a point can carry.
// Distances are metres, angles degrees.
type ObservationZone interface {
	ZoneType() ZoneType
	observationZone()
}

// Cylinder is a circle scored from its centre.
type Cylinder struct {
	Radius float64 `json:"radius" yaml:"radius"`
}

// Line is a straight gate, typically used for start and finish.
type Line struct {
	Length float64 `json:"length" yaml:"length"`
}

// Keyhole is the DAeC keyhole: 500m cylinder or 10km 90° sector.
type Keyhole struct{}

// FAISector is the FAI 90° sector with infinite sides, scored from the corner.
type FAISector struct{}

// Sector is a sector between two absolute radials. A non-nil InnerRadius
// makes it annular.
type Sector struct {
	Radius      float64  `json:"radius" yaml:"radius"`
	StartRadial float64  `json:"startRadial" yaml:"startRadial"`
	EndRadial   float64  `json:"endRadial" yaml:"endRadial"`
	InnerRadius *float64 `json:"innerRadius,omitempty" yaml:"innerRadius,omitempty"`
}

// SymmetricQuadrant is a sector centred on the course bisector.
// Defaults: radius 10000m, angle 90°.
type SymmetricQuadrant struct {
	Radius *float64 `json:"radius,omitempty" yaml:"radius,omitempty"`
	Angle  *float64 `json:"angle,omitempty" yaml:"angle,omitempty"`
}

// CustomKeyhole is a keyhole with configurable dimensions.
// Defaults: radius 10000m, angle 90°, inner radius 500m.
type CustomKeyhole struct {
	Radius      *float64 `json:"radius,omitempty" yaml:"radius,omitempty"`
	Angle       *float64 `json:"angle,omitempty" yaml:"angle,omitempty"`
	InnerRadius *float64 `json:"innerRadius,omitempty" yaml:"innerRadius,omitempty"`
}

// MatCylinder is the fixed one mile cylinder of Modified Area Tasks.
type MatCylinder struct{}

// BGAStartSector is a 5km 180° sector.
type BGAStartSector struct{}

// BGAFixedCourse is a 500m cylinder or 20km 90° sector.
type BGAFixedCourse struct{}

// BGAEnhancedOption is a 500m cylinder or 10km 180° sector.
type BGAEnhancedOption struct{}

func (Cylinder) ZoneType() ZoneType          { return ZoneCylinder }
func (Line) ZoneType() ZoneType              { return ZoneLine }
func (Keyhole) ZoneType() ZoneType           { return ZoneKeyhole }
func (FAISector) ZoneType() ZoneType         { return ZoneFAISector }
func (Sector) ZoneType() ZoneType            { return ZoneSector }
func (SymmetricQuadrant) ZoneType() ZoneType { return ZoneSymmetricQuadrant }
func (CustomKeyhole) ZoneType() ZoneType     { return ZoneCustomKeyhole }
func (MatCylinder) ZoneType() ZoneType       { return ZoneMatCylinder }
func (BGAStartSector) ZoneType() ZoneType    { return ZoneBGAStartSector }
func (BGAFixedCourse) ZoneType() ZoneType    { return ZoneBGAFixedCourse }
func (BGAEnhancedOption) ZoneType() ZoneType { return ZoneBGAEnhancedOption }

func (Cylinder) observationZone()          {}
func (Line) observationZone()              {}
func (Keyhole) observationZone()           {}
func (FAISector) observationZone()         {}
func (Sector) observationZone()            {}
func (SymmetricQuadrant) observationZone() {}
func (CustomKeyhole) observationZone()     {}
func (MatCylinder) observationZone()       {}
func (BGAStartSector) observationZone()    {}
func (BGAFixedCourse) observationZone()    {}
func (BGAEnhancedOption) observationZone() {}

// pointDoc is the dump shape of a Point, with the zone flattened next to
// its type tag.
type pointDoc struct {
	Type      PointType      `json:"type" yaml:"type"`
	ScoreExit *bool          `json:"scoreExit,omitempty" yaml:"scoreExit,omitempty"`
	Waypoint  Waypoint       `json:"waypoint" yaml:"waypoint"`
	Zone      map[string]any `json:"observationZone" yaml:"observationZone"`
}

func (p Point) doc() (pointDoc, error) {
	d := pointDoc{Type: p.Type, ScoreExit: p.ScoreExit, Waypoint: p.Waypoint}
	if p.Zone == nil {
		return d, nil
	}
	raw, err := json.Marshal(p.Zone)
	if err != nil {
		return d, err
	}
	d.Zone = map[string]any{}
	if err := json.Unmarshal(raw, &d.Zone); err != nil {
		return d, err
	}
	d.Zone["type"] = string(p.Zone.ZoneType())
	return d, nil
}

// MarshalJSON includes the observation zone tagged with its type.
func (p Point) MarshalJSON() ([]byte, error) {
	d, err := p.doc()
	if err != nil {
		return nil, err
	}
	return json.Marshal(d)
}

// MarshalYAML mirrors MarshalJSON for yaml.v3.
func (p Point) MarshalYAML() (any, error) {
	return p.doc()
}
