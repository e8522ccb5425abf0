package k8s

import (
	"context"
	"time"

	rbacv1 "k8s.io/api/rbac/v1"
	"k8s.io/apimachinery/pkg/watch"

	"github.com/giantswarm/role-patcher/internal/logging"
)

// Client defines the cluster control-plane operations the reconciliation
// core consumes.
type Client interface {
	// RBAC object lifecycle
	RoleManager

	// Per-namespace binding operations
	BindingManager

	// API resource catalogs
	ResourceCatalog

	// Namespace lifecycle events
	NamespaceWatcher
}

// RoleManager handles cluster-scoped role operations.
type RoleManager interface {
	// ClusterRoleExists reports whether a ClusterRole with the given name
	// exists. A not-found response maps to (false, nil); any other API
	// error propagates.
	ClusterRoleExists(ctx context.Context, name string) (bool, error)

	// CreateClusterRole creates a ClusterRole with the given rules. It fails
	// with a conflict error if an object of that name already exists.
	CreateClusterRole(ctx context.Context, name string, rules []rbacv1.PolicyRule) error

	// DeleteClusterRole deletes the named ClusterRole.
	DeleteClusterRole(ctx context.Context, name string) error
}

// BindingManager handles namespace-scoped RoleBinding operations.
type BindingManager interface {
	// RoleBindingExists reports whether a RoleBinding with the given name
	// exists in the namespace. A not-found response maps to (false, nil);
	// any other API error propagates.
	RoleBindingExists(ctx context.Context, namespace, name string) (bool, error)

	// CreateRoleBinding creates a RoleBinding in the namespace that binds
	// the user to the named ClusterRole.
	CreateRoleBinding(ctx context.Context, namespace, name, clusterRoleName, user string) error
}

// ResourceCatalog exposes the three independent API resource catalogs.
// Each call returns plural resource names; failures propagate so that
// callers never classify from a partial catalog.
type ResourceCatalog interface {
	// CoreResourceNames returns the resource names of the core v1 group.
	CoreResourceNames(ctx context.Context) ([]string, error)

	// AppsResourceNames returns the resource names of the apps/v1 group.
	AppsResourceNames(ctx context.Context) ([]string, error)

	// CustomResourceNames returns the plural names of every installed
	// CustomResourceDefinition.
	CustomResourceNames(ctx context.Context) ([]string, error)
}

// NamespaceWatcher provides an ordered, unbounded namespace event stream.
type NamespaceWatcher interface {
	// WatchNamespaces lists current namespaces, replays them as synthetic
	// ADDED events, then follows with live watch events. The returned
	// channel is closed when the stream ends or the context is cancelled;
	// the consumer treats a closed channel as fatal.
	WatchNamespaces(ctx context.Context) (<-chan watch.Event, error)
}

// ClientConfig holds configuration for the Kubernetes client.
type ClientConfig struct {
	// Kubeconfig settings
	KubeconfigPath string
	Context        string

	// InCluster selects service account authentication instead of kubeconfig
	InCluster bool

	// Performance settings
	QPSLimit   float32
	BurstLimit int
	Timeout    time.Duration

	// Debug settings
	DebugMode bool

	// Logging
	Logger logging.Logger
}
