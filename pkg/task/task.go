// pkg/task/task.go

// Package task holds the typed model of an XCSoar competition task and the
// codec for its .tsk XML encoding.
package task

import "fmt"

// TaskType is the competition task kind.
type TaskType string

const (
	TypeAAT         TaskType = "AAT"
	TypeRT          TaskType = "RT"
	TypeFAIGeneral  TaskType = "FAIGeneral"
	TypeFAITriangle TaskType = "FAITriangle"
	TypeFAIOR       TaskType = "FAIOR"
	TypeFAIGoal     TaskType = "FAIGoal"
	TypeMAT         TaskType = "MAT"
	TypeMixed       TaskType = "Mixed"
	TypeTouring     TaskType = "Touring"
)

// ParseTaskType validates a task type literal.
func ParseTaskType(s string) (TaskType, error) {
	switch t := TaskType(s); t {
	case TypeAAT, TypeRT, TypeFAIGeneral, TypeFAITriangle, TypeFAIOR,
		TypeFAIGoal, TypeMAT, TypeMixed, TypeTouring:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTaskType, s)
}

// AltitudeReference says what a height limit is measured from.
type AltitudeReference string

const (
	AGL AltitudeReference = "AGL"
	MSL AltitudeReference = "MSL"
)

// ParseAltitudeReference never fails: XCSoar treats anything other than
// "MSL" as AGL.
func ParseAltitudeReference(s string) AltitudeReference {
	if s == string(MSL) {
		return MSL
	}
	return AGL
}

// PointType is the role of a point within the task.
type PointType string

const (
	Start         PointType = "Start"
	Turn          PointType = "Turn"
	Area          PointType = "Area"
	Finish        PointType = "Finish"
	OptionalStart PointType = "OptionalStart"
)

// ParsePointType validates a point role literal.
func ParsePointType(s string) (PointType, error) {
	switch p := PointType(s); p {
	case Start, Turn, Area, Finish, OptionalStart:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPointType, s)
}

func (p PointType) String() string {
	return string(p)
}

// Numbered reports whether markers for this role carry a turnpoint number.
func (p PointType) Numbered() bool {
	return p == Turn || p == Area
}

// Task is an ordered list of points plus scoring and timing parameters.
// The order of Points is flight order.
type Task struct {
	Type TaskType `json:"type" yaml:"type"`

	AATMinTime         *uint32            `json:"aatMinTime,omitempty" yaml:"aatMinTime,omitempty"`
	StartRequiresArm   *bool              `json:"startRequiresArm,omitempty" yaml:"startRequiresArm,omitempty"`
	StartScoreExit     *bool              `json:"startScoreExit,omitempty" yaml:"startScoreExit,omitempty"`
	StartMaxSpeed      *float64           `json:"startMaxSpeed,omitempty" yaml:"startMaxSpeed,omitempty"`
	StartMaxHeight     *uint32            `json:"startMaxHeight,omitempty" yaml:"startMaxHeight,omitempty"`
	StartMaxHeightRef  *AltitudeReference `json:"startMaxHeightRef,omitempty" yaml:"startMaxHeightRef,omitempty"`
	StartOpenTime      *uint32            `json:"startOpenTime,omitempty" yaml:"startOpenTime,omitempty"`
	StartCloseTime     *uint32            `json:"startCloseTime,omitempty" yaml:"startCloseTime,omitempty"`
	FinishMinHeight    *uint32            `json:"finishMinHeight,omitempty" yaml:"finishMinHeight,omitempty"`
	FinishMinHeightRef *AltitudeReference `json:"finishMinHeightRef,omitempty" yaml:"finishMinHeightRef,omitempty"`
	FAIFinish          *bool              `json:"faiFinish,omitempty" yaml:"faiFinish,omitempty"`
	PEVStartWaitTime   *uint32            `json:"pevStartWaitTime,omitempty" yaml:"pevStartWaitTime,omitempty"`
	PEVStartWindow     *uint32            `json:"pevStartWindow,omitempty" yaml:"pevStartWindow,omitempty"`

	Points []Point `json:"points" yaml:"points"`
}

// Point is one task point: a waypoint, its role, and its observation zone.
type Point struct {
	Type      PointType       `json:"type" yaml:"type"`
	ScoreExit *bool           `json:"scoreExit,omitempty" yaml:"scoreExit,omitempty"`
	Waypoint  Waypoint        `json:"waypoint" yaml:"waypoint"`
	Zone      ObservationZone `json:"-" yaml:"-"`
}

// Waypoint is a named location.
type Waypoint struct {
	Name     string   `json:"name" yaml:"name"`
	Altitude *float64 `json:"altitude,omitempty" yaml:"altitude,omitempty"`
	ID       *string  `json:"id,omitempty" yaml:"id,omitempty"`
	Comment  *string  `json:"comment,omitempty" yaml:"comment,omitempty"`
	Location Location `json:"location" yaml:"location"`
}

// Location is a WGS84 position in degrees.
type Location struct {
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

// Ptr returns a pointer to v, for filling optional fields.
func Ptr[T any](v T) *T {
	return &v
}
