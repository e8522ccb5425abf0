package instrumentation

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys - using constants for consistency.
const (
	attrEventType = "event_type"
	attrResult    = "result"
	attrTrigger   = "trigger"
	attrStage     = "stage"
	attrNamespace = "namespace"
)

// Result values for metric labels.
const (
	ResultProcessed = "processed"
	ResultSkipped   = "skipped"
	ResultError     = "error"
	ResultSuccess   = "success"
)

// Refresh trigger values for metric labels.
const (
	TriggerStartup  = "startup"
	TriggerSelfHeal = "self_heal"
)

// Reconcile stage values for the error counter.
const (
	StageRefresh = "refresh"
	StageBinding = "binding"
)

// Metrics provides methods for recording observability metrics for the
// reconciliation loop.
type Metrics struct {
	namespaceEventsTotal      metric.Int64Counter
	roleBindingsCreatedTotal  metric.Int64Counter
	clusterRoleRefreshesTotal metric.Int64Counter
	reconcileErrorsTotal      metric.Int64Counter
	reconcileDuration         metric.Float64Histogram

	// detailedLabels controls whether the high-cardinality namespace label
	// is included in per-event metrics
	detailedLabels bool
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
// The detailedLabels parameter controls whether high-cardinality labels are included.
func NewMetrics(meter metric.Meter, detailedLabels bool) (*Metrics, error) {
	m := &Metrics{
		detailedLabels: detailedLabels,
	}

	var err error

	m.namespaceEventsTotal, err = meter.Int64Counter(
		"namespace_events_total",
		metric.WithDescription("Total number of namespace watch events consumed"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create namespace_events_total counter: %w", err)
	}

	m.roleBindingsCreatedTotal, err = meter.Int64Counter(
		"rolebindings_created_total",
		metric.WithDescription("Total number of rolebindings created by the reconciler"),
		metric.WithUnit("{rolebinding}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create rolebindings_created_total counter: %w", err)
	}

	m.clusterRoleRefreshesTotal, err = meter.Int64Counter(
		"clusterrole_refreshes_total",
		metric.WithDescription("Total number of shared ClusterRole delete-and-recreate cycles"),
		metric.WithUnit("{refresh}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create clusterrole_refreshes_total counter: %w", err)
	}

	m.reconcileErrorsTotal, err = meter.Int64Counter(
		"reconcile_errors_total",
		metric.WithDescription("Total number of non-fatal errors inside the event loop"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create reconcile_errors_total counter: %w", err)
	}

	m.reconcileDuration, err = meter.Float64Histogram(
		"reconcile_duration_seconds",
		metric.WithDescription("Per-event reconciliation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create reconcile_duration_seconds histogram: %w", err)
	}

	return m, nil
}

// RecordNamespaceEvent records a consumed namespace watch event and its outcome.
func (m *Metrics) RecordNamespaceEvent(ctx context.Context, eventType, result string) {
	if m == nil {
		return
	}
	m.namespaceEventsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrEventType, eventType),
		attribute.String(attrResult, result),
	))
}

// RecordRoleBindingCreated records a successful rolebinding creation.
// The namespace label is only attached when detailed labels are enabled.
func (m *Metrics) RecordRoleBindingCreated(ctx context.Context, namespace string) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{}
	if m.detailedLabels {
		attrs = append(attrs, attribute.String(attrNamespace, namespace))
	}
	m.roleBindingsCreatedTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordClusterRoleRefresh records a shared ClusterRole refresh attempt.
func (m *Metrics) RecordClusterRoleRefresh(ctx context.Context, trigger, result string) {
	if m == nil {
		return
	}
	m.clusterRoleRefreshesTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrTrigger, trigger),
		attribute.String(attrResult, result),
	))
}

// RecordReconcileError records a non-fatal error inside the event loop.
func (m *Metrics) RecordReconcileError(ctx context.Context, stage string) {
	if m == nil {
		return
	}
	m.reconcileErrorsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrStage, stage),
	))
}

// RecordReconcileDuration records how long a single event took to process.
func (m *Metrics) RecordReconcileDuration(ctx context.Context, seconds float64, result string) {
	if m == nil {
		return
	}
	m.reconcileDuration.Record(ctx, seconds, metric.WithAttributes(
		attribute.String(attrResult, result),
	))
}
