package patcher

import (
	"context"
	"sync"

	rbacv1 "k8s.io/api/rbac/v1"
	"k8s.io/apimachinery/pkg/watch"
)

// fakeClient is an in-memory implementation of k8s.Client for exercising the
// reconciliation core without a cluster. Error fields, when set, are returned
// by the corresponding method.
type fakeClient struct {
	mu sync.Mutex

	clusterRoles map[string][]rbacv1.PolicyRule
	roleBindings map[string]fakeBinding // key: namespace + "/" + name

	coreResources   []string
	appsResources   []string
	customResources []string

	clusterRoleExistsErr error
	createClusterRoleErr error
	deleteClusterRoleErr error
	roleBindingExistsErr error
	createBindingErr     error
	coreErr              error
	appsErr              error
	customErr            error
	watchErr             error

	events chan watch.Event

	createClusterRoleCalls int
	deleteClusterRoleCalls int
	createBindingCalls     []fakeBinding
}

type fakeBinding struct {
	namespace       string
	name            string
	clusterRoleName string
	user            string
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		clusterRoles: map[string][]rbacv1.PolicyRule{},
		roleBindings: map[string]fakeBinding{},
		events:       make(chan watch.Event, 16),
	}
}

func (f *fakeClient) ClusterRoleExists(_ context.Context, name string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.clusterRoleExistsErr != nil {
		return false, f.clusterRoleExistsErr
	}
	_, ok := f.clusterRoles[name]
	return ok, nil
}

func (f *fakeClient) CreateClusterRole(_ context.Context, name string, rules []rbacv1.PolicyRule) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createClusterRoleCalls++
	if f.createClusterRoleErr != nil {
		return f.createClusterRoleErr
	}
	f.clusterRoles[name] = rules
	return nil
}

func (f *fakeClient) DeleteClusterRole(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteClusterRoleCalls++
	if f.deleteClusterRoleErr != nil {
		return f.deleteClusterRoleErr
	}
	delete(f.clusterRoles, name)
	return nil
}

func (f *fakeClient) RoleBindingExists(_ context.Context, namespace, name string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.roleBindingExistsErr != nil {
		return false, f.roleBindingExistsErr
	}
	_, ok := f.roleBindings[namespace+"/"+name]
	return ok, nil
}

func (f *fakeClient) CreateRoleBinding(_ context.Context, namespace, name, clusterRoleName, user string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	binding := fakeBinding{namespace: namespace, name: name, clusterRoleName: clusterRoleName, user: user}
	f.createBindingCalls = append(f.createBindingCalls, binding)
	if f.createBindingErr != nil {
		return f.createBindingErr
	}
	f.roleBindings[namespace+"/"+name] = binding
	return nil
}

func (f *fakeClient) CoreResourceNames(_ context.Context) ([]string, error) {
	if f.coreErr != nil {
		return nil, f.coreErr
	}
	return f.coreResources, nil
}

func (f *fakeClient) AppsResourceNames(_ context.Context) ([]string, error) {
	if f.appsErr != nil {
		return nil, f.appsErr
	}
	return f.appsResources, nil
}

func (f *fakeClient) CustomResourceNames(_ context.Context) ([]string, error) {
	if f.customErr != nil {
		return nil, f.customErr
	}
	return f.customResources, nil
}

func (f *fakeClient) WatchNamespaces(_ context.Context) (<-chan watch.Event, error) {
	if f.watchErr != nil {
		return nil, f.watchErr
	}
	return f.events, nil
}

func (f *fakeClient) bindings() []fakeBinding {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]fakeBinding, 0, len(f.roleBindings))
	for _, b := range f.roleBindings {
		out = append(out, b)
	}
	return out
}

func (f *fakeClient) clusterRoleRules(name string) ([]rbacv1.PolicyRule, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rules, ok := f.clusterRoles[name]
	return rules, ok
}
