package patcher

import (
	rbacv1 "k8s.io/api/rbac/v1"
)

// BuildPolicyRules turns a non-privileged resource partition into the two
// rules of the shared ClusterRole: wildcard verbs over the non-privileged
// resources, read-only verbs over the role-management resources. Pure
// function, no failure modes.
func BuildPolicyRules(nonPrivileged []string, config Config) []rbacv1.PolicyRule {
	return []rbacv1.PolicyRule{
		{
			APIGroups: []string{rbacv1.APIGroupAll},
			Resources: nonPrivileged,
			Verbs:     []string{rbacv1.VerbAll},
		},
		{
			APIGroups: []string{rbacv1.APIGroupAll},
			Resources: config.RoleManagedResources,
			Verbs:     config.ReadVerbs,
		},
	}
}
