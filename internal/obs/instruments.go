package obs

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Instrument constructors never fail: an error is reported to the global OpenTelemetry
// error handler and a no-op instrument is returned instead.

func Int64Counter(meter metric.Meter, name, description, unit string) metric.Int64Counter {
	counter, err := meter.Int64Counter(name, metric.WithDescription(description), metric.WithUnit(unit))
	if err != nil {
		otel.Handle(err)
		return noop.Int64Counter{}
	}

	return counter
}

func Int64UpDownCounter(meter metric.Meter, name, description, unit string) metric.Int64UpDownCounter {
	counter, err := meter.Int64UpDownCounter(name, metric.WithDescription(description), metric.WithUnit(unit))
	if err != nil {
		otel.Handle(err)
		return noop.Int64UpDownCounter{}
	}

	return counter
}

func Float64Histogram(meter metric.Meter, name, description, unit string) metric.Float64Histogram {
	histogram, err := meter.Float64Histogram(name, metric.WithDescription(description), metric.WithUnit(unit))
	if err != nil {
		otel.Handle(err)
		return noop.Float64Histogram{}
	}

	return histogram
}
