package k8s

import (
	"context"
	"fmt"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// ResourceCatalog implementation
//
// Each catalog query fails loudly: the classifier must never build a
// permission set from a partial view of the API surface.

// CoreResourceNames returns the resource names of the core v1 group.
func (c *kubernetesClient) CoreResourceNames(ctx context.Context) ([]string, error) {
	return c.groupVersionResourceNames(CoreGroupVersion)
}

// AppsResourceNames returns the resource names of the apps/v1 group.
func (c *kubernetesClient) AppsResourceNames(ctx context.Context) ([]string, error) {
	return c.groupVersionResourceNames(AppsGroupVersion)
}

// groupVersionResourceNames queries the discovery endpoint for a single
// group/version and returns every resource name, subresources included.
// RBAC never grants subresources implicitly: "pods" does not cover
// "pods/log" or "pods/exec", so they must reach the rules themselves.
func (c *kubernetesClient) groupVersionResourceNames(groupVersion string) ([]string, error) {
	c.logOperation("discover-resources", "", groupVersion, "")

	resourceList, err := c.clientset.Discovery().ServerResourcesForGroupVersion(groupVersion)
	if err != nil {
		return nil, fmt.Errorf("failed to discover resources for %q: %w", groupVersion, err)
	}

	names := make([]string, 0, len(resourceList.APIResources))
	for _, resource := range resourceList.APIResources {
		names = append(names, resource.Name)
	}

	return names, nil
}

// CustomResourceNames returns the plural names of every installed
// CustomResourceDefinition.
func (c *kubernetesClient) CustomResourceNames(ctx context.Context) ([]string, error) {
	c.logOperation("list-crds", "", "customresourcedefinitions", "")

	crdList, err := c.extClientset.ApiextensionsV1().CustomResourceDefinitions().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list customresourcedefinitions: %w", err)
	}

	var names []string
	for _, crd := range crdList.Items {
		names = append(names, crd.Spec.Names.Plural)
	}

	return names, nil
}
