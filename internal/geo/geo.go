package geo

import (
	"errors"
	"math"

	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/soaring-tools/tskmap/pkg/task"
	"github.com/wroge/wgs84"
)

// SPHERICAL EARTH
// All bearings and projections here use a sphere of the mean Earth radius.
// Output is drawn on a map, not scored, so the ellipsoid is not modelled.

// EarthRadius is the mean Earth radius in metres.
const EarthRadius = 6371008.8

// ErrMissingOrientationReference is returned when a bisector is requested
// for a point that has neither an incoming nor an outgoing leg.
var ErrMissingOrientationReference = errors.New("cannot calculate bisector without at least one bearing")

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func toDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

// NormalizeAngle reduces an angle in degrees to [0,360).
func NormalizeAngle(angle float64) float64 {
	a := math.Mod(angle, 360)
	if a < 0 {
		a += 360
	}
	// -1e-15 mod 360 lands on 360 after the shift
	if a >= 360 {
		a = 0
	}
	return a
}

// NormalizeSweep returns end-start in radians reduced to [0, 2π]. The arc
// is always traversed with increasing angle from start to end.
func NormalizeSweep(start, end float64) float64 {
	sweep := end - start
	for sweep < 0 {
		sweep += 2 * math.Pi
	}
	for sweep > 2*math.Pi {
		sweep -= 2 * math.Pi
	}
	return sweep
}

// Bearing returns the initial great-circle bearing from one location to
// another, in degrees [0,360).
func Bearing(from, to task.Location) float64 {
	lat1, lat2 := toRad(from.Latitude), toRad(to.Latitude)
	dLon := toRad(to.Longitude - from.Longitude)

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)
	return NormalizeAngle(toDeg(math.Atan2(y, x)))
}

// Destination returns the point reached by travelling distance metres from
// the start along the great circle with the given initial bearing.
func Destination(from task.Location, bearing, distance float64) task.Location {
	lat1, lon1 := toRad(from.Latitude), toRad(from.Longitude)
	brg := toRad(bearing)
	delta := distance / EarthRadius

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(delta) + math.Cos(lat1)*math.Sin(delta)*math.Cos(brg))
	lon2 := lon1 + math.Atan2(
		math.Sin(brg)*math.Sin(delta)*math.Cos(lat1),
		math.Cos(delta)-math.Sin(lat1)*math.Sin(lat2),
	)
	return task.Location{Latitude: toDeg(lat2), Longitude: toDeg(lon2)}
}

// BisectAngles returns the direction halfway between two bearings, found by
// summing their unit vectors so that 350° and 10° bisect to 0°.
func BisectAngles(a, b float64) float64 {
	ar, br := toRad(a), toRad(b)
	x := math.Cos(ar) + math.Cos(br)
	y := math.Sin(ar) + math.Sin(br)
	return NormalizeAngle(toDeg(math.Atan2(y, x)))
}

// Bisector returns the orientation of asymmetric zones at a point given its
// incoming and outgoing leg bearings, either of which may be absent.
func Bisector(bearingIn, bearingOut *float64) (float64, error) {
	switch {
	case bearingIn != nil && bearingOut != nil:
		return BisectAngles(*bearingIn, NormalizeAngle(*bearingOut+180)), nil
	case bearingIn != nil:
		return *bearingIn, nil
	case bearingOut != nil:
		return NormalizeAngle(*bearingOut + 180), nil
	}
	return 0, ErrMissingOrientationReference
}

// LegBearings returns the incoming and outgoing bearing of every point of a
// route. The first point has no incoming leg and the last no outgoing leg.
func LegBearings(locs []task.Location) (in, out []*float64) {
	in = make([]*float64, len(locs))
	out = make([]*float64, len(locs))
	for i := 1; i < len(locs); i++ {
		b := Bearing(locs[i-1], locs[i])
		out[i-1] = &b
		in[i] = &b
	}
	return in, out
}

// webMercator converts EPSG:4326 longitude/latitude to EPSG:3857 metres.
var webMercator = wgs84.EPSG().Transform(4326, 3857)

// ToWebMercator converts a longitude/latitude pair into Web Mercator.
func ToWebMercator(xy geom.XY) geom.XY {
	x, y, _ := webMercator(xy.X, xy.Y, 0)
	return geom.XY{X: x, Y: y}
}

// XY returns the location as a geometry coordinate, longitude first.
func XY(loc task.Location) geom.XY {
	return geom.XY{X: loc.Longitude, Y: loc.Latitude}
}
