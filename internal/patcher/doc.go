// Package patcher implements the reconciliation core of role-patcher.
//
// The patcher grants a single target user a bounded permission set across
// every namespace of a cluster:
//
//   - A shared ClusterRole, named <target-user>-custom-role, carries exactly
//     two rules: wildcard verbs over every non-privileged API resource type,
//     and read-only verbs over the role-management kinds (roles,
//     rolebindings, clusterroles, clusterrolebindings).
//   - A RoleBinding named <namespace>-custom-rolebinding links the target
//     user to that ClusterRole in every namespace outside the protected set.
//
// The Reconciler consumes a namespace event stream one event at a time. Only
// ADDED events trigger work; protected namespaces are skipped. The shared
// ClusterRole is recreated (delete-then-create, never patched) whenever it
// is observed missing, so external deletion self-heals on the next ADDED
// event.
//
// Running two reconciler instances against the same cluster is unsafe: both
// would delete and recreate the shared ClusterRole and race each other
// through the window where it does not exist. Deploy exactly one replica.
package patcher
