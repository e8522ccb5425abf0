// Package k8s provides interfaces and types for the Kubernetes operations
// role-patcher depends on.
//
// The Client interface abstracts the cluster control plane behind focused
// concerns:
//
//   - RoleManager: ClusterRole read/create/delete by name
//   - BindingManager: per-namespace RoleBinding existence and creation
//   - ResourceCatalog: the three API resource catalogs (core, apps, CRDs)
//   - NamespaceWatcher: an ordered namespace event stream
//
// The concrete implementation is built on client-go and supports both
// in-cluster service account authentication and kubeconfig files. Keeping
// the interface narrow makes the reconciliation core testable with fakes
// and keeps transport concerns (QPS, burst, per-call timeouts) in one place.
package k8s
