package patcher

import (
	"context"
	"log/slog"

	rbacv1 "k8s.io/api/rbac/v1"

	"github.com/giantswarm/role-patcher/internal/k8s"
	"github.com/giantswarm/role-patcher/internal/logging"
)

// SharedRoleManager owns the lifecycle of the single shared ClusterRole.
// The role is never mutated in place: a refresh always deletes and recreates
// it so the rules reflect the latest resource classification. The brief
// window where the role does not exist is tolerated because bindings
// reference it by name and may be created before the referent exists.
type SharedRoleManager struct {
	roles      k8s.RoleManager
	classifier *Classifier
	config     Config
	logger     *slog.Logger
}

// NewSharedRoleManager creates a SharedRoleManager. A nil logger falls back
// to slog.Default().
func NewSharedRoleManager(roles k8s.RoleManager, classifier *Classifier, config Config, logger *slog.Logger) *SharedRoleManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &SharedRoleManager{
		roles:      roles,
		classifier: classifier,
		config:     config,
		logger:     logging.WithTargetUser(logger, config.TargetUser),
	}
}

// Name returns the shared ClusterRole's name.
func (m *SharedRoleManager) Name() string {
	return m.config.ClusterRoleName()
}

// Exists reports whether the shared ClusterRole currently exists. Only a
// not-found response maps to false; other API errors propagate.
func (m *SharedRoleManager) Exists(ctx context.Context) (bool, error) {
	return m.roles.ClusterRoleExists(ctx, m.Name())
}

// Delete removes the shared ClusterRole.
func (m *SharedRoleManager) Delete(ctx context.Context) error {
	return m.roles.DeleteClusterRole(ctx, m.Name())
}

// Create creates the shared ClusterRole with exactly the given rules. It
// conflicts if the role already exists; callers delete first.
func (m *SharedRoleManager) Create(ctx context.Context, rules []rbacv1.PolicyRule) error {
	return m.roles.CreateClusterRole(ctx, m.Name(), rules)
}

// Refresh deletes the shared ClusterRole if present, re-runs resource
// classification, and recreates the role from the fresh partition. Each step
// is independently idempotent, so termination between delete and create is
// repaired by the next startup's unconditional refresh.
func (m *SharedRoleManager) Refresh(ctx context.Context) error {
	logger := logging.WithOperation(m.logger, "refresh")

	exists, err := m.Exists(ctx)
	if err != nil {
		return err
	}

	if exists {
		logger.Info("deleting shared clusterrole before recreate",
			logging.ResourceType("clusterroles"),
			logging.ResourceName(m.Name()))
		if err := m.Delete(ctx); err != nil {
			return err
		}
	}

	nonPrivileged, err := m.classifier.NonPrivilegedResources(ctx)
	if err != nil {
		return err
	}

	rules := BuildPolicyRules(nonPrivileged, m.config)

	logger.Info("creating shared clusterrole",
		logging.ResourceType("clusterroles"),
		logging.ResourceName(m.Name()),
		logging.Count(len(nonPrivileged)))

	return m.Create(ctx, rules)
}
