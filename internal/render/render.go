// Package render assembles a task into an ordered collection of map
// features: the course line, one observation zone per point and the
// waypoint markers.
package render

import (
	"context"
	"fmt"
	"log/slog"

	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/soaring-tools/tskmap/internal/geo"
	"github.com/soaring-tools/tskmap/internal/zone"
	"github.com/soaring-tools/tskmap/pkg/task"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"
)

// FeatureType tags what a feature depicts.
type FeatureType string

const (
	FeatureCourseLine      FeatureType = "course_line"
	FeatureObservationZone FeatureType = "observation_zone"
	FeatureWaypoint        FeatureType = "waypoint"
)

// Feature is one rendered element of a task. Name and PointType are empty
// for the course line.
type Feature struct {
	Type      FeatureType
	Name      string
	PointType string
	Geometry  geo.Geometry
}

// Options configures an Assembler.
type Options struct {
	// Workers bounds concurrent zone synthesis. Zero or less runs sequentially.
	Workers int
	Logger  *slog.Logger
}

// Assembler turns tasks into feature collections. It holds no per-task
// state and is safe for concurrent use.
type Assembler struct {
	workers int
	logger  *slog.Logger

	tasks    metric.Int64Counter
	features metric.Int64Counter
}

// New creates an Assembler.
// Uses the global OTel meter for metrics (no-op if not configured).
func New(opts Options) (*Assembler, error) {
	a := &Assembler{
		workers: opts.Workers,
		logger:  opts.Logger,
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}

	m := meter()

	var err error
	a.tasks, err = m.Int64Counter(
		"render.tasks",
		metric.WithDescription("Total tasks assembled"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating task counter: %w", err)
	}

	a.features, err = m.Int64Counter(
		"render.features",
		metric.WithDescription("Total features emitted"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating feature counter: %w", err)
	}

	return a, nil
}

// Assemble renders t. Every bisector is resolved before any geometry is
// generated, so a point with no adjacent leg fails the whole task with an
// error wrapping geo.ErrMissingOrientationReference. t is not modified.
func (a *Assembler) Assemble(ctx context.Context, t *task.Task) (*Collection, error) {
	if t == nil {
		return &Collection{}, nil
	}

	locs := make([]task.Location, len(t.Points))
	for i, p := range t.Points {
		locs[i] = p.Waypoint.Location
	}
	in, out := geo.LegBearings(locs)

	bisectors := make([]float64, len(t.Points))
	for i, p := range t.Points {
		b, err := geo.Bisector(in[i], out[i])
		if err != nil {
			return nil, fmt.Errorf("point %d (%s): %w", i, p.Waypoint.Name, err)
		}
		bisectors[i] = b
	}

	zones, err := a.zones(ctx, t.Points, bisectors)
	if err != nil {
		return nil, err
	}

	c := &Collection{Features: make([]Feature, 0, 1+2*len(t.Points))}
	if len(locs) >= 2 {
		course := make([]geom.XY, len(locs))
		for i, loc := range locs {
			course[i] = geo.XY(loc)
		}
		c.Features = append(c.Features, Feature{
			Type:     FeatureCourseLine,
			Geometry: geo.NewLineString(course),
		})
	}

	turn := 0
	for i, p := range t.Points {
		if zones[i] != nil {
			c.Features = append(c.Features, Feature{
				Type:      FeatureObservationZone,
				Name:      p.Waypoint.Name,
				PointType: p.Type.String(),
				Geometry:  *zones[i],
			})
		}

		label := p.Waypoint.Name
		if p.Type.Numbered() {
			turn++
			label = fmt.Sprintf("%d. %s", turn, label)
		}
		c.Features = append(c.Features, Feature{
			Type:      FeatureWaypoint,
			Name:      label,
			PointType: p.Type.String(),
			Geometry:  geo.NewPoint(geo.XY(p.Waypoint.Location)),
		})
	}

	a.record(ctx, c)
	a.logger.DebugContext(ctx, "Assembled task",
		"taskType", t.Type,
		"points", len(t.Points),
		"features", len(c.Features))

	return c, nil
}

// zones generates one boundary per point. Results land in index-addressed
// slots so output order does not depend on scheduling.
func (a *Assembler) zones(ctx context.Context, points []task.Point, bisectors []float64) ([]*geo.Geometry, error) {
	out := make([]*geo.Geometry, len(points))
	gen := func(i int) {
		p := points[i]
		if g, ok := zone.Generate(p.Zone, p.Waypoint.Location, bisectors[i]); ok {
			out[i] = &g
		} else {
			a.logger.DebugContext(ctx, "No geometry for zone", "point", i, "name", p.Waypoint.Name)
		}
	}

	if a.workers <= 0 {
		for i := range points {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			gen(i)
		}
		return out, nil
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(a.workers)
	for i := range points {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			gen(i)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *Assembler) record(ctx context.Context, c *Collection) {
	a.tasks.Add(ctx, 1)

	counts := make(map[FeatureType]int64, 3)
	for _, f := range c.Features {
		counts[f.Type]++
	}
	for typ, n := range counts {
		a.features.Add(ctx, n, metric.WithAttributes(attribute.String("feature_type", string(typ))))
	}
}
