package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/soaring-tools/tskmap/internal/geo"
)

// CRS is the coordinate reference system of encoded output.
type CRS string

const (
	// WGS84 is longitude/latitude in degrees, the GeoJSON default.
	WGS84 CRS = "EPSG:4326"
	// WebMercator is EPSG:3857 metres, as used by slippy map tiles.
	WebMercator CRS = "EPSG:3857"
)

// ErrUnsupportedCRS is returned for a CRS other than WGS84 or WebMercator.
var ErrUnsupportedCRS = errors.New("unsupported CRS")

// ParseCRS accepts "EPSG:4326", "EPSG:3857" or their bare codes.
func ParseCRS(s string) (CRS, error) {
	code := strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(s)), "EPSG:")
	switch code {
	case "", "4326":
		return WGS84, nil
	case "3857":
		return WebMercator, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedCRS, s)
}

// Collection is the ordered output of Assemble: the course line first if
// present, then zone and marker for each point in task order.
type Collection struct {
	Features []Feature
}

// Count returns the number of features of the given type.
func (c *Collection) Count(typ FeatureType) int {
	n := 0
	for _, f := range c.Features {
		if f.Type == typ {
			n++
		}
	}
	return n
}

// Course returns the course line geometry, if the task has one.
func (c *Collection) Course() (geo.Geometry, bool) {
	for _, f := range c.Features {
		if f.Type == FeatureCourseLine {
			return f.Geometry, true
		}
	}
	return geo.Geometry{}, false
}

// GeoJSON converts the collection into GeoJSON features in the given CRS.
func (c *Collection) GeoJSON(crs CRS) (geom.GeoJSONFeatureCollection, error) {
	var project func(geom.XY) geom.XY
	switch crs {
	case WGS84, "":
	case WebMercator:
		project = geo.ToWebMercator
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedCRS, crs)
	}

	fc := make(geom.GeoJSONFeatureCollection, 0, len(c.Features))
	for _, f := range c.Features {
		g := f.Geometry
		if project != nil {
			g = g.Transform(project)
		}
		fc = append(fc, geom.GeoJSONFeature{
			Geometry:   g.AsGeometry(),
			Properties: f.properties(),
		})
	}
	return fc, nil
}

// MarshalJSON encodes the collection as a GeoJSON FeatureCollection in WGS84.
func (c *Collection) MarshalJSON() ([]byte, error) {
	fc, err := c.GeoJSON(WGS84)
	if err != nil {
		return nil, err
	}
	return json.Marshal(fc)
}

// Encode writes the collection as GeoJSON to w.
func (c *Collection) Encode(w io.Writer, crs CRS, pretty bool) error {
	fc, err := c.GeoJSON(crs)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(fc)
}

func (f Feature) properties() map[string]interface{} {
	props := map[string]interface{}{
		"feature_type": string(f.Type),
	}
	if f.Type == FeatureCourseLine {
		return props
	}
	props["name"] = f.Name
	props["point_type"] = f.PointType
	return props
}
