package patcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/watch"

	"github.com/giantswarm/role-patcher/internal/instrumentation"
	"github.com/giantswarm/role-patcher/internal/k8s"
	"github.com/giantswarm/role-patcher/internal/logging"
)

// ErrWatchClosed is returned by Run when the namespace event stream ends.
// There is no in-process reconnect; the process supervisor restarts the
// loop, and the startup refresh plus the snapshot replay re-converge state.
var ErrWatchClosed = errors.New("namespace watch stream closed")

// Reconciler drives the event loop: it keeps the shared ClusterRole alive
// and attaches a RoleBinding to every non-protected namespace it observes.
// Events are consumed and fully processed one at a time, in order, on a
// single goroutine.
type Reconciler struct {
	client k8s.Client
	config Config

	roles   *SharedRoleManager
	logger  *slog.Logger
	metrics *instrumentation.Metrics
	tracer  trace.Tracer
}

// Option is a functional option for configuring the Reconciler.
type Option func(*Reconciler)

// WithLogger sets the logger for the Reconciler.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reconciler) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMetrics sets the metrics recorder. A nil recorder is a no-op.
func WithMetrics(metrics *instrumentation.Metrics) Option {
	return func(r *Reconciler) {
		r.metrics = metrics
	}
}

// WithTracer sets the tracer for per-event spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(r *Reconciler) {
		if tracer != nil {
			r.tracer = tracer
		}
	}
}

// NewReconciler creates a Reconciler over the given cluster client.
func NewReconciler(client k8s.Client, config Config, opts ...Option) (*Reconciler, error) {
	if client == nil {
		return nil, fmt.Errorf("cluster client is required")
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	r := &Reconciler{
		client: client,
		config: config,
		logger: slog.Default(),
		tracer: noop.NewTracerProvider().Tracer(instrumentation.TracerName),
	}

	for _, opt := range opts {
		opt(r)
	}

	r.logger = logging.WithTargetUser(r.logger, config.TargetUser)
	r.roles = NewSharedRoleManager(client, NewClassifier(client, config), config, r.logger)

	return r, nil
}

// Run refreshes the shared ClusterRole once, then consumes namespace events
// until the context is cancelled or the stream ends. A startup refresh
// failure is fatal: without it no correctly classified shared role can be
// trusted to exist. Per-event failures are logged and the loop continues.
func (r *Reconciler) Run(ctx context.Context) error {
	r.logger.Info("refreshing shared clusterrole at startup",
		logging.ResourceName(r.roles.Name()))

	if err := r.roles.Refresh(ctx); err != nil {
		r.metrics.RecordClusterRoleRefresh(ctx, instrumentation.TriggerStartup, instrumentation.ResultError)
		return fmt.Errorf("startup refresh of shared clusterrole failed: %w", err)
	}
	r.metrics.RecordClusterRoleRefresh(ctx, instrumentation.TriggerStartup, instrumentation.ResultSuccess)

	events, err := r.client.WatchNamespaces(ctx)
	if err != nil {
		return fmt.Errorf("failed to start namespace watch: %w", err)
	}

	r.logger.Info("watching namespace events")

	for event := range events {
		r.handleEvent(ctx, event)
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}
	return ErrWatchClosed
}

// handleEvent processes a single namespace event. Failures inside the event
// body never abort the loop.
func (r *Reconciler) handleEvent(ctx context.Context, event watch.Event) {
	start := time.Now()
	eventType := string(event.Type)

	ns, ok := event.Object.(*corev1.Namespace)
	if !ok {
		r.logger.Warn("ignoring non-namespace object on watch stream",
			logging.EventType(eventType),
			logging.Status(logging.StatusSkipped))
		r.metrics.RecordNamespaceEvent(ctx, eventType, instrumentation.ResultSkipped)
		return
	}

	logger := r.logger.With(logging.Namespace(ns.Name), logging.EventType(eventType))

	// Only namespace creation triggers reconciliation. Pre-existing
	// namespaces arrive as synthetic ADDED events via the snapshot replay.
	if event.Type != watch.Added {
		logger.Debug("skipping namespace event", logging.Status(logging.StatusSkipped))
		r.metrics.RecordNamespaceEvent(ctx, eventType, instrumentation.ResultSkipped)
		return
	}

	if r.config.IsProtected(ns.Name) {
		logger.Debug("skipping protected namespace", logging.Status(logging.StatusSkipped))
		r.metrics.RecordNamespaceEvent(ctx, eventType, instrumentation.ResultSkipped)
		return
	}

	ctx, span := r.tracer.Start(ctx, "reconcile-namespace", trace.WithAttributes(
		instrumentation.NamespaceAttr(ns.Name),
		instrumentation.EventTypeAttr(eventType),
	))
	defer span.End()

	logger.Info("reconciling namespace")

	result := instrumentation.ResultProcessed

	// Self-heal the shared role first, but create the binding regardless:
	// bindings reference the role by name and do not require the referent
	// to exist at creation time.
	if err := r.ensureSharedRole(ctx, logger); err != nil {
		result = instrumentation.ResultError
		instrumentation.RecordSpanError(span, err)
	}

	if err := r.ensureBinding(ctx, logger, ns.Name); err != nil {
		result = instrumentation.ResultError
		instrumentation.RecordSpanError(span, err)
	}

	status := logging.StatusSuccess
	if result == instrumentation.ResultError {
		status = logging.StatusError
	}
	logger.Info("namespace reconciled", logging.Status(status))

	r.metrics.RecordNamespaceEvent(ctx, eventType, result)
	r.metrics.RecordReconcileDuration(ctx, time.Since(start).Seconds(), result)
}

// ensureSharedRole recreates the shared ClusterRole when it is observed
// missing. Errors are logged and returned for accounting, never fatal.
func (r *Reconciler) ensureSharedRole(ctx context.Context, logger *slog.Logger) error {
	exists, err := r.roles.Exists(ctx)
	if err != nil {
		logger.Error("failed to check shared clusterrole", logging.Err(err))
		r.metrics.RecordReconcileError(ctx, instrumentation.StageRefresh)
		return err
	}
	if exists {
		return nil
	}

	logger.Warn("shared clusterrole missing, recreating",
		logging.ResourceName(r.roles.Name()))

	if err := r.roles.Refresh(ctx); err != nil {
		logger.Error("failed to recreate shared clusterrole", logging.Err(err))
		r.metrics.RecordClusterRoleRefresh(ctx, instrumentation.TriggerSelfHeal, instrumentation.ResultError)
		r.metrics.RecordReconcileError(ctx, instrumentation.StageRefresh)
		return err
	}

	r.metrics.RecordClusterRoleRefresh(ctx, instrumentation.TriggerSelfHeal, instrumentation.ResultSuccess)
	return nil
}

// ensureBinding creates the namespace's RoleBinding if it does not already
// exist. Re-processing a namespace is a no-op thanks to the existence check.
func (r *Reconciler) ensureBinding(ctx context.Context, logger *slog.Logger, namespace string) error {
	name := r.config.RoleBindingName(namespace)

	exists, err := r.client.RoleBindingExists(ctx, namespace, name)
	if err != nil {
		logger.Error("failed to check rolebinding", logging.ResourceName(name), logging.Err(err))
		r.metrics.RecordReconcileError(ctx, instrumentation.StageBinding)
		return err
	}
	if exists {
		logger.Debug("rolebinding already present", logging.ResourceName(name))
		return nil
	}

	err = r.client.CreateRoleBinding(ctx, namespace, name, r.config.ClusterRoleName(), r.config.TargetUser)
	if err != nil {
		logger.Error("failed to create rolebinding", logging.ResourceName(name), logging.Err(err))
		r.metrics.RecordReconcileError(ctx, instrumentation.StageBinding)
		return err
	}

	logger.Info("created rolebinding",
		logging.ResourceType("rolebindings"),
		logging.ResourceName(name))
	r.metrics.RecordRoleBindingCreated(ctx, namespace)
	return nil
}
