package task

import "errors"

var (
	// ErrUnknownTaskType is returned for a Task type attribute outside the known set.
	ErrUnknownTaskType = errors.New("unknown task type")
	// ErrUnknownPointType is returned for a Point type attribute outside the known set.
	ErrUnknownPointType = errors.New("unknown point type")
	// ErrUnknownZoneType is returned for an ObservationZone type attribute outside the known set.
	ErrUnknownZoneType = errors.New("unknown observation zone type")
	// ErrMissingAttribute is returned when a required attribute is absent.
	ErrMissingAttribute = errors.New("missing required attribute")
	// ErrInvalidValue is returned when an attribute cannot be decoded.
	ErrInvalidValue = errors.New("invalid attribute value")
	// ErrMissingZone is returned when encoding a point without an observation zone.
	ErrMissingZone = errors.New("point has no observation zone")
)
