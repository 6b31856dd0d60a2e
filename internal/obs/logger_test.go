package obs

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/tofu345/http-library/config"
)

func TestNewLogger(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		var out bytes.Buffer
		logger := newLogger(config.Default(), &out)
		logger.Info("serving", "addr", "127.0.0.1:4221")
		logger.Debug("invisible")

		require.Contains(t, out.String(), "msg=serving")
		require.Contains(t, out.String(), "addr=127.0.0.1:4221")
		require.NotContains(t, out.String(), "invisible")
	})

	t.Run("json with debug level", func(t *testing.T) {
		cfg := config.Default()
		cfg.Log.Format = "json"
		cfg.Log.Level = slog.LevelDebug

		var out bytes.Buffer
		newLogger(cfg, &out).Debug("visible", "worker", 3)
		require.Contains(t, out.String(), `"msg":"visible"`)
		require.Contains(t, out.String(), `"worker":3`)
	})

	t.Run("or discard", func(t *testing.T) {
		require.NotNil(t, OrDiscard(nil))
		logger := Discard()
		require.Same(t, logger, OrDiscard(logger))
	})
}

func TestInstruments(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	meter := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter(Scope)

	Int64Counter(meter, "test.counter", "", "{item}").Add(context.Background(), 2)
	Int64UpDownCounter(meter, "test.updown", "", "{item}").Add(context.Background(), -1)
	Float64Histogram(meter, "test.histogram", "", "ms").Record(context.Background(), 1.5)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	var names []string
	for _, m := range rm.ScopeMetrics[0].Metrics {
		names = append(names, m.Name)
	}

	require.ElementsMatch(t, []string{"test.counter", "test.updown", "test.histogram"}, names)
}
