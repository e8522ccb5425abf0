package instrumentation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "role-patcher", config.ServiceName)
	assert.False(t, config.Enabled)
	assert.Equal(t, "prometheus", config.MetricsExporter)
	assert.Equal(t, "none", config.TracingExporter)
	assert.InDelta(t, 0.1, config.TraceSamplingRate, 0.001)
	assert.False(t, config.DetailedLabels)
}

func TestDefaultConfigEnvOverrides(t *testing.T) {
	t.Setenv("INSTRUMENTATION_ENABLED", "true")
	t.Setenv("METRICS_EXPORTER", "stdout")
	t.Setenv("TRACING_EXPORTER", "otlp")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://localhost:4318")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.5")
	t.Setenv("METRICS_DETAILED_LABELS", "true")

	config := DefaultConfig()

	assert.True(t, config.Enabled)
	assert.Equal(t, "stdout", config.MetricsExporter)
	assert.Equal(t, "otlp", config.TracingExporter)
	assert.Equal(t, "http://localhost:4318", config.OTLPEndpoint)
	assert.InDelta(t, 0.5, config.TraceSamplingRate, 0.001)
	assert.True(t, config.DetailedLabels)
}

func TestDefaultConfigInvalidEnvValues(t *testing.T) {
	t.Setenv("INSTRUMENTATION_ENABLED", "not-a-bool")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "not-a-float")

	config := DefaultConfig()

	assert.False(t, config.Enabled)
	assert.InDelta(t, 0.1, config.TraceSamplingRate, 0.001)
}
