package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.uber.org/zap"
)

func TestSetupWithoutEndpoint(t *testing.T) {
	shutdown, err := Setup(context.Background(), "printcalc", "", zap.NewNop())
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestSetupWithEndpoint(t *testing.T) {
	// The exporter connects lazily, so no collector is needed.
	shutdown, err := Setup(context.Background(), "printcalc", "http://127.0.0.1:4318", zap.NewNop())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = shutdown(ctx)

	_, isSDK := otel.GetMeterProvider().(*sdkmetric.MeterProvider)
	assert.True(t, isSDK, "meter provider should be installed")
}

func TestSetupRejectsMalformedEndpoint(t *testing.T) {
	_, err := Setup(context.Background(), "printcalc", "collector:4318", zap.NewNop())
	assert.Error(t, err)
}

func TestMeterProviderRecordsCounters(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := NewMeterProvider(resource.NewSchemaless(attribute.String("service.name", "printcalc")), reader)
	ctx := context.Background()

	counter, err := provider.Meter("test").Int64Counter("orders_placed_total")
	require.NoError(t, err)
	counter.Add(ctx, 3)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	require.Len(t, rm.ScopeMetrics, 1)
	sum, ok := rm.ScopeMetrics[0].Metrics[0].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	assert.Equal(t, int64(3), sum.DataPoints[0].Value)
	assert.NoError(t, provider.Shutdown(ctx))
}
