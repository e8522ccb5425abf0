package patcher

import (
	"context"

	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/giantswarm/role-patcher/internal/k8s"
)

// Classifier partitions the cluster's API resource types into the
// role-management set and everything else. It queries three independent
// catalogs (core, apps, custom resource definitions) and never produces a
// result from a partial view: any catalog failure aborts classification.
type Classifier struct {
	catalog k8s.ResourceCatalog
	config  Config
}

// NewClassifier creates a Classifier over the given resource catalog.
func NewClassifier(catalog k8s.ResourceCatalog, config Config) *Classifier {
	return &Classifier{
		catalog: catalog,
		config:  config,
	}
}

// EnumerateResources returns every known API resource name, deduplicated
// across the three catalogs and sorted for determinism.
func (c *Classifier) EnumerateResources(ctx context.Context) ([]string, error) {
	coreNames, err := c.catalog.CoreResourceNames(ctx)
	if err != nil {
		return nil, err
	}

	appsNames, err := c.catalog.AppsResourceNames(ctx)
	if err != nil {
		return nil, err
	}

	customNames, err := c.catalog.CustomResourceNames(ctx)
	if err != nil {
		return nil, err
	}

	all := sets.New(coreNames...)
	all.Insert(appsNames...)
	all.Insert(customNames...)

	return sets.List(all), nil
}

// NonPrivilegedResources returns the enumeration minus the role-management
// set, sorted.
func (c *Classifier) NonPrivilegedResources(ctx context.Context) ([]string, error) {
	names, err := c.EnumerateResources(ctx)
	if err != nil {
		return nil, err
	}

	nonPrivileged := sets.New(names...).Difference(sets.New(c.config.RoleManagedResources...))

	return sets.List(nonPrivileged), nil
}
