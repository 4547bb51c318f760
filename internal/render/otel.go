package render

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/soaring-tools/tskmap/internal/render"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}
