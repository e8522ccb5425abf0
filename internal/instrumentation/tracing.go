package instrumentation

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span attribute keys for reconciliation operations.
const (
	// SpanAttrNamespace is the Kubernetes namespace.
	SpanAttrNamespace = "k8s.namespace"

	// SpanAttrEventType is the namespace watch event type.
	SpanAttrEventType = "k8s.event_type"
)

// NamespaceAttr returns a span attribute for the namespace.
func NamespaceAttr(namespace string) attribute.KeyValue {
	return attribute.String(SpanAttrNamespace, namespace)
}

// EventTypeAttr returns a span attribute for the watch event type.
func EventTypeAttr(eventType string) attribute.KeyValue {
	return attribute.String(SpanAttrEventType, eventType)
}

// RecordSpanError marks the span as failed and records the error, if any.
func RecordSpanError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
