package patcher

import (
	"fmt"
	"slices"
)

// DefaultTargetUser is the user granted permissions when none is configured.
const DefaultTargetUser = "k8user"

// Name suffixes for the objects owned by the patcher.
const (
	clusterRoleSuffix = "-custom-role"
	roleBindingSuffix = "-custom-rolebinding"
)

// DefaultProtectedNamespaces are excluded from the bulk binding path.
func DefaultProtectedNamespaces() []string {
	return []string{"kube-system"}
}

// DefaultReadVerbs are granted on role-management resources.
func DefaultReadVerbs() []string {
	return []string{"get", "list", "watch"}
}

// DefaultRoleManagedResources are the privileged resource kinds that stay
// read-only everywhere.
func DefaultRoleManagedResources() []string {
	return []string{"roles", "rolebindings", "clusterroles", "clusterrolebindings"}
}

// Config is the immutable configuration of the reconciliation core.
type Config struct {
	// TargetUser is the principal granted permissions.
	TargetUser string

	// ProtectedNamespaces are skipped by the binding reconciler.
	ProtectedNamespaces []string

	// ReadVerbs are granted on RoleManagedResources.
	ReadVerbs []string

	// RoleManagedResources never appear in the non-privileged partition.
	RoleManagedResources []string
}

// DefaultConfig returns the configuration matching the shipped defaults.
func DefaultConfig() Config {
	return Config{
		TargetUser:           DefaultTargetUser,
		ProtectedNamespaces:  DefaultProtectedNamespaces(),
		ReadVerbs:            DefaultReadVerbs(),
		RoleManagedResources: DefaultRoleManagedResources(),
	}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.TargetUser == "" {
		return fmt.Errorf("target user must not be empty")
	}
	if len(c.ReadVerbs) == 0 {
		return fmt.Errorf("read verbs must not be empty")
	}
	if len(c.RoleManagedResources) == 0 {
		return fmt.Errorf("role-managed resources must not be empty")
	}
	return nil
}

// ClusterRoleName returns the name of the shared ClusterRole.
func (c Config) ClusterRoleName() string {
	return c.TargetUser + clusterRoleSuffix
}

// RoleBindingName returns the per-namespace RoleBinding name.
func (c Config) RoleBindingName(namespace string) string {
	return namespace + roleBindingSuffix
}

// IsProtected reports whether the namespace is excluded from the bulk path.
func (c Config) IsProtected(namespace string) bool {
	return slices.Contains(c.ProtectedNamespaces, namespace)
}
