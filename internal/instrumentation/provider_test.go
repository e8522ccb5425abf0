package instrumentation

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProviderDisabled(t *testing.T) {
	config := Config{Enabled: false}

	provider, err := NewProvider(context.Background(), config)
	require.NoError(t, err)

	assert.False(t, provider.Enabled())
	assert.Nil(t, provider.Metrics())
	assert.NotNil(t, provider.Tracer())
	assert.NoError(t, provider.Shutdown(context.Background()))
}

func TestNewProviderUnknownMetricsExporter(t *testing.T) {
	config := Config{
		Enabled:         true,
		MetricsExporter: "carrier-pigeon",
	}

	_, err := NewProvider(context.Background(), config)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "carrier-pigeon")
}

func TestNewProviderUnknownTracingExporter(t *testing.T) {
	config := Config{
		Enabled:         true,
		MetricsExporter: "prometheus",
		TracingExporter: "smoke-signals",
	}

	_, err := NewProvider(context.Background(), config)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smoke-signals")
}

func TestMetricsExposedViaPrometheus(t *testing.T) {
	// The OTel prometheus exporter registers to the global Prometheus
	// registry, so promhttp.Handler() exposes it. This matches how the run
	// command serves /metrics.
	config := Config{
		ServiceName:     "test-role-patcher",
		ServiceVersion:  "1.0.0",
		Enabled:         true,
		MetricsExporter: "prometheus",
		TracingExporter: "none",
	}

	ctx := context.Background()
	provider, err := NewProvider(ctx, config)
	require.NoError(t, err)
	defer func() { _ = provider.Shutdown(ctx) }()

	metrics := provider.Metrics()
	require.NotNil(t, metrics)

	metrics.RecordNamespaceEvent(ctx, "ADDED", ResultProcessed)
	metrics.RecordRoleBindingCreated(ctx, "team-a")
	metrics.RecordClusterRoleRefresh(ctx, TriggerStartup, ResultSuccess)
	metrics.RecordReconcileError(ctx, StageBinding)
	metrics.RecordReconcileDuration(ctx, 0.01, ResultProcessed)

	server := httptest.NewServer(promhttp.Handler())
	defer server.Close()

	resp, err := server.Client().Get(server.URL)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	output := string(body)
	assert.Contains(t, output, "namespace_events_total")
	assert.Contains(t, output, "rolebindings_created_total")
	assert.Contains(t, output, "clusterrole_refreshes_total")
	assert.Contains(t, output, "reconcile_errors_total")
	assert.Contains(t, output, "reconcile_duration_seconds")
}
