package telemetry_test

import (
	"context"
	"testing"

	"github.com/shiptrack/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap/zaptest"
)

func restoreGlobalTracer(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
}

func TestNewTracerProvider_Disabled(t *testing.T) {
	ctx := context.Background()
	cfg := telemetry.Config{
		Enabled:           false,
		CollectorEndpoint: "localhost:14317",
		SamplingRatio:     1.0,
		ServiceName:       "test-service",
	}

	tp, err := telemetry.NewTracerProvider(ctx, cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, tp.IsEnabled())
	assert.Equal(t, "test-service", tp.GetConfig().ServiceName)
	assert.NoError(t, tp.ForceFlush(ctx))
	assert.NoError(t, tp.Shutdown(ctx))
}

func TestNewTracerProvider_RecordsSpans(t *testing.T) {
	restoreGlobalTracer(t)
	ctx := context.Background()
	recorder := tracetest.NewSpanRecorder()

	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:       true,
		SamplingRatio: 1.0,
		ServiceName:   "shiptrack-test",
	}, zaptest.NewLogger(t), telemetry.WithSpanProcessor(recorder))
	require.NoError(t, err)
	defer func() { _ = tp.Shutdown(ctx) }()

	assert.True(t, tp.IsEnabled())

	_, span := tp.Tracer("test").Start(ctx, "unit-span")
	span.End()

	// The provider is installed globally
	_, global := telemetry.StartSpan(ctx, "global-span")
	global.End()

	ended := recorder.Ended()
	require.Len(t, ended, 2)
	assert.Equal(t, "unit-span", ended[0].Name())
	assert.Equal(t, "global-span", ended[1].Name())

	serviceName, ok := ended[0].Resource().Set().Value("service.name")
	require.True(t, ok)
	assert.Equal(t, "shiptrack-test", serviceName.AsString())
}

func TestNewTracerProvider_NeverSample(t *testing.T) {
	restoreGlobalTracer(t)
	ctx := context.Background()
	recorder := tracetest.NewSpanRecorder()

	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:       true,
		SamplingRatio: 0,
		ServiceName:   "shiptrack-test",
	}, zaptest.NewLogger(t), telemetry.WithSpanProcessor(recorder))
	require.NoError(t, err)
	defer func() { _ = tp.Shutdown(ctx) }()

	_, span := tp.Tracer("test").Start(ctx, "dropped")
	span.End()

	assert.Empty(t, recorder.Ended())
}
