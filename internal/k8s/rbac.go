package k8s

import (
	"context"
	"fmt"

	rbacv1 "k8s.io/api/rbac/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// RoleManager implementation

// ClusterRoleExists reports whether the named ClusterRole exists.
func (c *kubernetesClient) ClusterRoleExists(ctx context.Context, name string) (bool, error) {
	c.logOperation("clusterrole-exists", "", "clusterroles", name)

	_, err := c.clientset.RbacV1().ClusterRoles().Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return false, nil
		}
		// Anything other than not-found must surface; treating it as
		// absence would make the caller delete-and-recreate on a flaky
		// read.
		return false, fmt.Errorf("failed to read clusterrole %q: %w", name, err)
	}

	return true, nil
}

// CreateClusterRole creates a ClusterRole with exactly the given rules.
func (c *kubernetesClient) CreateClusterRole(ctx context.Context, name string, rules []rbacv1.PolicyRule) error {
	c.logOperation("create-clusterrole", "", "clusterroles", name)

	clusterRole := &rbacv1.ClusterRole{
		ObjectMeta: metav1.ObjectMeta{
			Name: name,
		},
		Rules: rules,
	}

	_, err := c.clientset.RbacV1().ClusterRoles().Create(ctx, clusterRole, metav1.CreateOptions{})
	if err != nil {
		return fmt.Errorf("failed to create clusterrole %q: %w", name, err)
	}

	return nil
}

// DeleteClusterRole deletes the named ClusterRole.
func (c *kubernetesClient) DeleteClusterRole(ctx context.Context, name string) error {
	c.logOperation("delete-clusterrole", "", "clusterroles", name)

	err := c.clientset.RbacV1().ClusterRoles().Delete(ctx, name, metav1.DeleteOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete clusterrole %q: %w", name, err)
	}

	return nil
}

// BindingManager implementation

// RoleBindingExists reports whether the named RoleBinding exists in the namespace.
func (c *kubernetesClient) RoleBindingExists(ctx context.Context, namespace, name string) (bool, error) {
	c.logOperation("rolebinding-exists", namespace, "rolebindings", name)

	_, err := c.clientset.RbacV1().RoleBindings(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read rolebinding %q in namespace %q: %w", name, namespace, err)
	}

	return true, nil
}

// CreateRoleBinding creates a RoleBinding in the namespace binding the user
// to the named ClusterRole. The referent is not required to exist at
// creation time.
func (c *kubernetesClient) CreateRoleBinding(ctx context.Context, namespace, name, clusterRoleName, user string) error {
	c.logOperation("create-rolebinding", namespace, "rolebindings", name)

	roleBinding := &rbacv1.RoleBinding{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: namespace,
		},
		RoleRef: rbacv1.RoleRef{
			APIGroup: rbacv1.GroupName,
			Kind:     "ClusterRole",
			Name:     clusterRoleName,
		},
		Subjects: []rbacv1.Subject{
			{
				Kind: rbacv1.UserKind,
				Name: user,
			},
		},
	}

	_, err := c.clientset.RbacV1().RoleBindings(namespace).Create(ctx, roleBinding, metav1.CreateOptions{})
	if err != nil {
		return fmt.Errorf("failed to create rolebinding %q in namespace %q: %w", name, namespace, err)
	}

	return nil
}
