package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trackplan/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap/zaptest"
)

func TestNewTracerProvider_Disabled(t *testing.T) {
	logger := zaptest.NewLogger(t)
	ctx := context.Background()

	cfg := telemetry.Config{
		Enabled:           false,
		CollectorEndpoint: "localhost:14317",
		SamplingRatio:     1.0,
		ServiceName:       "test-service",
	}

	tp, err := telemetry.NewTracerProvider(ctx, cfg, logger)
	require.NoError(t, err)
	require.NotNil(t, tp)

	assert.False(t, tp.IsEnabled())

	gotCfg := tp.GetConfig()
	assert.Equal(t, cfg.ServiceName, gotCfg.ServiceName)
	assert.False(t, gotCfg.Enabled)

	// Shutdown and flush are no-ops for a disabled provider
	assert.NoError(t, tp.Shutdown(ctx))
	assert.NoError(t, tp.ForceFlush(ctx))
}

func TestTracerProvider_Tracer_Disabled(t *testing.T) {
	logger := zaptest.NewLogger(t)

	tp, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{Enabled: false}, logger)
	require.NoError(t, err)

	// A disabled provider falls back to the global (no-op) tracer,
	// so span creation still works without panicking.
	tracer := tp.Tracer("test")
	_, span := tracer.Start(context.Background(), "test-span")
	span.End()
}
