// Package instrumentation provides OpenTelemetry metrics and tracing for
// role-patcher.
//
// Instrumentation is disabled by default for zero overhead. Enable it with
// INSTRUMENTATION_ENABLED=true. Metrics are exported through Prometheus by
// default and scraped from the /metrics endpoint served by the run command;
// OTLP and stdout exporters are available for push-based setups.
//
// The Metrics type records the reconciliation loop's observable behavior:
// namespace events by type and outcome, rolebinding creations, shared
// ClusterRole refreshes, and per-event reconcile durations.
package instrumentation
