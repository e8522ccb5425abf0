package patcher

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifierEnumerateResources(t *testing.T) {
	client := newFakeClient()
	client.coreResources = []string{"pods", "services", "configmaps"}
	client.appsResources = []string{"deployments", "replicasets"}
	client.customResources = []string{"widgets", "pods"} // overlaps with core

	classifier := NewClassifier(client, DefaultConfig())

	names, err := classifier.EnumerateResources(context.Background())
	require.NoError(t, err)

	// Deduplicated and sorted.
	assert.Equal(t, []string{"configmaps", "deployments", "pods", "replicasets", "services", "widgets"}, names)
}

func TestClassifierNonPrivilegedResources(t *testing.T) {
	client := newFakeClient()
	client.coreResources = []string{"pods"}
	client.appsResources = []string{"deployments"}
	client.customResources = []string{"roles", "rolebindings", "clusterroles", "clusterrolebindings"}

	classifier := NewClassifier(client, DefaultConfig())

	nonPrivileged, err := classifier.NonPrivilegedResources(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"deployments", "pods"}, nonPrivileged)
}

func TestClassifierNonPrivilegedWithoutRoleResources(t *testing.T) {
	// Role-management resources absent from the catalogs still never leak in.
	client := newFakeClient()
	client.coreResources = []string{"pods", "secrets"}

	classifier := NewClassifier(client, DefaultConfig())

	nonPrivileged, err := classifier.NonPrivilegedResources(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"pods", "secrets"}, nonPrivileged)
}

func TestClassifierCatalogErrorsPropagate(t *testing.T) {
	catalogErr := errors.New("discovery unavailable")

	tests := []struct {
		name   string
		mutate func(*fakeClient)
	}{
		{
			name:   "core catalog fails",
			mutate: func(c *fakeClient) { c.coreErr = catalogErr },
		},
		{
			name:   "apps catalog fails",
			mutate: func(c *fakeClient) { c.appsErr = catalogErr },
		},
		{
			name:   "custom catalog fails",
			mutate: func(c *fakeClient) { c.customErr = catalogErr },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newFakeClient()
			client.coreResources = []string{"pods"}
			tt.mutate(client)

			classifier := NewClassifier(client, DefaultConfig())

			_, err := classifier.NonPrivilegedResources(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, catalogErr)
		})
	}
}
