package task

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// The .tsk encoding keeps every value in an attribute, so the wire structs
// below carry raw strings and the conversion to the typed model happens in
// one place.

type xmlTask struct {
	XMLName            xml.Name   `xml:"Task"`
	Type               string     `xml:"type,attr"`
	AATMinTime         *string    `xml:"aat_min_time,attr,omitempty"`
	StartRequiresArm   *string    `xml:"start_requires_arm,attr,omitempty"`
	StartScoreExit     *string    `xml:"start_score_exit,attr,omitempty"`
	StartMaxSpeed      *string    `xml:"start_max_speed,attr,omitempty"`
	StartMaxHeight     *string    `xml:"start_max_height,attr,omitempty"`
	StartMaxHeightRef  *string    `xml:"start_max_height_ref,attr,omitempty"`
	StartOpenTime      *string    `xml:"start_open_time,attr,omitempty"`
	StartCloseTime     *string    `xml:"start_close_time,attr,omitempty"`
	FinishMinHeight    *string    `xml:"finish_min_height,attr,omitempty"`
	FinishMinHeightRef *string    `xml:"finish_min_height_ref,attr,omitempty"`
	FAIFinish          *string    `xml:"fai_finish,attr,omitempty"`
	PEVStartWaitTime   *string    `xml:"pev_start_wait_time,attr,omitempty"`
	PEVStartWindow     *string    `xml:"pev_start_window,attr,omitempty"`
	Points             []xmlPoint `xml:"Point"`
}

type xmlPoint struct {
	Type      string      `xml:"type,attr"`
	ScoreExit *string     `xml:"score_exit,attr,omitempty"`
	Waypoint  xmlWaypoint `xml:"Waypoint"`
	Zone      *xmlZone    `xml:"ObservationZone"`
}

type xmlWaypoint struct {
	Name     string       `xml:"name,attr"`
	Altitude *string      `xml:"altitude,attr,omitempty"`
	ID       *string      `xml:"id,attr,omitempty"`
	Comment  *string      `xml:"comment,attr,omitempty"`
	Location *xmlLocation `xml:"Location"`
}

type xmlLocation struct {
	Longitude *string `xml:"longitude,attr"`
	Latitude  *string `xml:"latitude,attr"`
}

type xmlZone struct {
	Type        string  `xml:"type,attr"`
	Length      *string `xml:"length,attr,omitempty"`
	Radius      *string `xml:"radius,attr,omitempty"`
	StartRadial *string `xml:"start_radial,attr,omitempty"`
	EndRadial   *string `xml:"end_radial,attr,omitempty"`
	Angle       *string `xml:"angle,attr,omitempty"`
	InnerRadius *string `xml:"inner_radius,attr,omitempty"`
}

// Parse decodes a .tsk document.
func Parse(r io.Reader) (*Task, error) {
	var raw xmlTask
	if err := xml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode task XML: %w", err)
	}
	return raw.toTask()
}

// ParseString decodes a .tsk document held in a string.
func ParseString(s string) (*Task, error) {
	return Parse(strings.NewReader(s))
}

// Marshal encodes t as a compact .tsk document.
func Marshal(t *Task) ([]byte, error) {
	return marshal(t, "")
}

// MarshalIndent encodes t with four-space indentation.
func MarshalIndent(t *Task) ([]byte, error) {
	return marshal(t, "    ")
}

func marshal(t *Task, indent string) ([]byte, error) {
	raw, err := fromTask(t)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	if indent != "" {
		enc.Indent("", indent)
	}
	if err := enc.Encode(raw); err != nil {
		return nil, fmt.Errorf("failed to encode task XML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode task XML: %w", err)
	}
	return buf.Bytes(), nil
}

func (x *xmlTask) toTask() (*Task, error) {
	var err error
	t := &Task{}
	if t.Type, err = ParseTaskType(x.Type); err != nil {
		return nil, err
	}

	uints := []struct {
		name string
		src  *string
		dst  **uint32
	}{
		{"aat_min_time", x.AATMinTime, &t.AATMinTime},
		{"start_max_height", x.StartMaxHeight, &t.StartMaxHeight},
		{"start_open_time", x.StartOpenTime, &t.StartOpenTime},
		{"start_close_time", x.StartCloseTime, &t.StartCloseTime},
		{"finish_min_height", x.FinishMinHeight, &t.FinishMinHeight},
		{"pev_start_wait_time", x.PEVStartWaitTime, &t.PEVStartWaitTime},
		{"pev_start_window", x.PEVStartWindow, &t.PEVStartWindow},
	}
	for _, u := range uints {
		if *u.dst, err = optUint(u.name, u.src); err != nil {
			return nil, err
		}
	}

	bools := []struct {
		name string
		src  *string
		dst  **bool
	}{
		{"start_requires_arm", x.StartRequiresArm, &t.StartRequiresArm},
		{"start_score_exit", x.StartScoreExit, &t.StartScoreExit},
		{"fai_finish", x.FAIFinish, &t.FAIFinish},
	}
	for _, b := range bools {
		if *b.dst, err = optBool(b.name, b.src); err != nil {
			return nil, err
		}
	}

	if t.StartMaxSpeed, err = optFloat("start_max_speed", x.StartMaxSpeed); err != nil {
		return nil, err
	}
	if x.StartMaxHeightRef != nil {
		t.StartMaxHeightRef = Ptr(ParseAltitudeReference(*x.StartMaxHeightRef))
	}
	if x.FinishMinHeightRef != nil {
		t.FinishMinHeightRef = Ptr(ParseAltitudeReference(*x.FinishMinHeightRef))
	}

	t.Points = make([]Point, 0, len(x.Points))
	for i, xp := range x.Points {
		p, err := xp.toPoint()
		if err != nil {
			return nil, fmt.Errorf("point %d: %w", i, err)
		}
		t.Points = append(t.Points, p)
	}
	return t, nil
}

func (x *xmlPoint) toPoint() (Point, error) {
	var (
		p   Point
		err error
	)
	if p.Type, err = ParsePointType(x.Type); err != nil {
		return p, err
	}
	if p.ScoreExit, err = optBool("score_exit", x.ScoreExit); err != nil {
		return p, err
	}
	if p.Waypoint, err = x.Waypoint.toWaypoint(); err != nil {
		return p, fmt.Errorf("waypoint %q: %w", x.Waypoint.Name, err)
	}
	if x.Zone == nil {
		return p, fmt.Errorf("%w: ObservationZone", ErrMissingAttribute)
	}
	if p.Zone, err = x.Zone.toZone(); err != nil {
		return p, fmt.Errorf("observation zone: %w", err)
	}
	return p, nil
}

func (x *xmlWaypoint) toWaypoint() (Waypoint, error) {
	var (
		w   Waypoint
		err error
	)
	w.Name = x.Name
	w.ID = x.ID
	w.Comment = x.Comment
	if w.Altitude, err = optFloat("altitude", x.Altitude); err != nil {
		return w, err
	}
	if x.Location == nil {
		return w, fmt.Errorf("%w: Location", ErrMissingAttribute)
	}
	if w.Location.Longitude, err = reqFloat("longitude", x.Location.Longitude); err != nil {
		return w, err
	}
	if w.Location.Latitude, err = reqFloat("latitude", x.Location.Latitude); err != nil {
		return w, err
	}
	return w, nil
}

func (x *xmlZone) toZone() (ObservationZone, error) {
	var err error
	switch ZoneType(x.Type) {
	case ZoneCylinder:
		var z Cylinder
		z.Radius, err = reqFloat("radius", x.Radius)
		return z, err
	case ZoneLine:
		var z Line
		z.Length, err = reqFloat("length", x.Length)
		return z, err
	case ZoneKeyhole:
		return Keyhole{}, nil
	case ZoneFAISector:
		return FAISector{}, nil
	case ZoneSector:
		var z Sector
		if z.Radius, err = reqFloat("radius", x.Radius); err != nil {
			return nil, err
		}
		if z.StartRadial, err = reqFloat("start_radial", x.StartRadial); err != nil {
			return nil, err
		}
		if z.EndRadial, err = reqFloat("end_radial", x.EndRadial); err != nil {
			return nil, err
		}
		if z.InnerRadius, err = optFloat("inner_radius", x.InnerRadius); err != nil {
			return nil, err
		}
		return z, nil
	case ZoneSymmetricQuadrant:
		var z SymmetricQuadrant
		if z.Radius, err = optFloat("radius", x.Radius); err != nil {
			return nil, err
		}
		if z.Angle, err = optFloat("angle", x.Angle); err != nil {
			return nil, err
		}
		return z, nil
	case ZoneCustomKeyhole:
		var z CustomKeyhole
		if z.Radius, err = optFloat("radius", x.Radius); err != nil {
			return nil, err
		}
		if z.Angle, err = optFloat("angle", x.Angle); err != nil {
			return nil, err
		}
		if z.InnerRadius, err = optFloat("inner_radius", x.InnerRadius); err != nil {
			return nil, err
		}
		return z, nil
	case ZoneMatCylinder:
		return MatCylinder{}, nil
	case ZoneBGAStartSector:
		return BGAStartSector{}, nil
	case ZoneBGAFixedCourse:
		return BGAFixedCourse{}, nil
	case ZoneBGAEnhancedOption:
		return BGAEnhancedOption{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownZoneType, x.Type)
}

func fromTask(t *Task) (*xmlTask, error) {
	x := &xmlTask{
		Type:               string(t.Type),
		AATMinTime:         fmtUint(t.AATMinTime),
		StartRequiresArm:   fmtBool(t.StartRequiresArm),
		StartScoreExit:     fmtBool(t.StartScoreExit),
		StartMaxSpeed:      fmtFloat(t.StartMaxSpeed),
		StartMaxHeight:     fmtUint(t.StartMaxHeight),
		StartMaxHeightRef:  fmtRef(t.StartMaxHeightRef),
		StartOpenTime:      fmtUint(t.StartOpenTime),
		StartCloseTime:     fmtUint(t.StartCloseTime),
		FinishMinHeight:    fmtUint(t.FinishMinHeight),
		FinishMinHeightRef: fmtRef(t.FinishMinHeightRef),
		FAIFinish:          fmtBool(t.FAIFinish),
		PEVStartWaitTime:   fmtUint(t.PEVStartWaitTime),
		PEVStartWindow:     fmtUint(t.PEVStartWindow),
	}
	for i, p := range t.Points {
		if p.Zone == nil {
			return nil, fmt.Errorf("point %d: %w", i, ErrMissingZone)
		}
		loc := p.Waypoint.Location
		x.Points = append(x.Points, xmlPoint{
			Type:      string(p.Type),
			ScoreExit: fmtBool(p.ScoreExit),
			Waypoint: xmlWaypoint{
				Name:     p.Waypoint.Name,
				Altitude: fmtFloat(p.Waypoint.Altitude),
				ID:       p.Waypoint.ID,
				Comment:  p.Waypoint.Comment,
				Location: &xmlLocation{
					Longitude: fmtFloat(&loc.Longitude),
					Latitude:  fmtFloat(&loc.Latitude),
				},
			},
			Zone: fromZone(p.Zone),
		})
	}
	return x, nil
}

func fromZone(z ObservationZone) *xmlZone {
	x := &xmlZone{Type: string(z.ZoneType())}
	switch z := z.(type) {
	case Cylinder:
		x.Radius = fmtFloat(&z.Radius)
	case Line:
		x.Length = fmtFloat(&z.Length)
	case Sector:
		x.Radius = fmtFloat(&z.Radius)
		x.StartRadial = fmtFloat(&z.StartRadial)
		x.EndRadial = fmtFloat(&z.EndRadial)
		x.InnerRadius = fmtFloat(z.InnerRadius)
	case SymmetricQuadrant:
		x.Radius = fmtFloat(z.Radius)
		x.Angle = fmtFloat(z.Angle)
	case CustomKeyhole:
		x.Radius = fmtFloat(z.Radius)
		x.Angle = fmtFloat(z.Angle)
		x.InnerRadius = fmtFloat(z.InnerRadius)
	}
	return x
}

func reqFloat(name string, s *string) (float64, error) {
	if s == nil {
		return 0, fmt.Errorf("%w: %s", ErrMissingAttribute, name)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(*s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalidValue, name, *s)
	}
	return v, nil
}

func optFloat(name string, s *string) (*float64, error) {
	if s == nil {
		return nil, nil
	}
	v, err := reqFloat(name, s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func optUint(name string, s *string) (*uint32, error) {
	if s == nil {
		return nil, nil
	}
	v, err := strconv.ParseUint(strings.TrimSpace(*s), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("%w: %s=%q", ErrInvalidValue, name, *s)
	}
	u := uint32(v)
	return &u, nil
}

func optBool(name string, s *string) (*bool, error) {
	if s == nil {
		return nil, nil
	}
	switch *s {
	case "1", "true":
		return Ptr(true), nil
	case "0", "false":
		return Ptr(false), nil
	}
	return nil, fmt.Errorf("%w: %s=%q", ErrInvalidValue, name, *s)
}

func fmtFloat(v *float64) *string {
	if v == nil {
		return nil
	}
	return Ptr(strconv.FormatFloat(*v, 'f', -1, 64))
}

func fmtUint(v *uint32) *string {
	if v == nil {
		return nil
	}
	return Ptr(strconv.FormatUint(uint64(*v), 10))
}

func fmtBool(v *bool) *string {
	if v == nil {
		return nil
	}
	if *v {
		return Ptr("1")
	}
	return Ptr("0")
}

func fmtRef(v *AltitudeReference) *string {
	if v == nil {
		return nil
	}
	return Ptr(string(*v))
}
