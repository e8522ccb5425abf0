package k8s

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	apiextensionsclient "k8s.io/apiextensions-apiserver/pkg/client/clientset/clientset"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"

	"github.com/giantswarm/role-patcher/internal/logging"
)

// kubernetesClient implements the Client interface using client-go.
type kubernetesClient struct {
	config *ClientConfig

	clientset    kubernetes.Interface
	extClientset apiextensionsclient.Interface
}

// NewClient creates a new Kubernetes client with the given configuration.
func NewClient(config *ClientConfig) (*kubernetesClient, error) {
	if config == nil {
		return nil, fmt.Errorf("client configuration is required")
	}

	// Set defaults
	if config.QPSLimit == 0 {
		config.QPSLimit = DefaultQPSLimit
	}
	if config.BurstLimit == 0 {
		config.BurstLimit = DefaultBurstLimit
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout * time.Second
	}
	if config.Logger == nil {
		config.Logger = logging.DefaultLogger()
	}

	restConfig, err := buildRestConfig(config)
	if err != nil {
		return nil, err
	}

	// Apply performance settings. The per-call timeout is the only timeout
	// in the system; the namespace watch itself is long-lived by design and
	// is opened without one.
	restConfig.QPS = config.QPSLimit
	restConfig.Burst = config.BurstLimit
	restConfig.Timeout = config.Timeout

	clientset, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create clientset: %w", err)
	}

	extClientset, err := apiextensionsclient.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create apiextensions clientset: %w", err)
	}

	return &kubernetesClient{
		config:       config,
		clientset:    clientset,
		extClientset: extClientset,
	}, nil
}

// NewFromClientsets creates a Client from pre-built clientsets. This is the
// constructor used by tests with fake clientsets.
func NewFromClientsets(clientset kubernetes.Interface, extClientset apiextensionsclient.Interface, logger logging.Logger) *kubernetesClient {
	if logger == nil {
		logger = logging.DefaultLogger()
	}
	return &kubernetesClient{
		config:       &ClientConfig{Logger: logger},
		clientset:    clientset,
		extClientset: extClientset,
	}
}

// buildRestConfig creates a rest.Config for in-cluster or kubeconfig mode.
func buildRestConfig(config *ClientConfig) (*rest.Config, error) {
	if config.InCluster {
		if err := validateInClusterEnvironment(); err != nil {
			return nil, fmt.Errorf("in-cluster authentication not available: %w", err)
		}

		restConfig, err := rest.InClusterConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to create in-cluster rest config: %w", err)
		}

		config.Logger.Info("using in-cluster authentication")
		return restConfig, nil
	}

	// Kubeconfig mode: honor KUBECONFIG, fall back to default locations.
	kubeconfigPath := config.KubeconfigPath
	{
		kconf := os.Getenv("KUBECONFIG")
		if strings.HasPrefix(kconf, "~/") {
			uhd, _ := os.UserHomeDir()
			kconf = filepath.Join(uhd, kconf[2:])
		}

		if kconf != "" && kubeconfigPath == "" {
			kubeconfigPath = kconf
		}
	}

	loadingRules := clientcmd.NewDefaultClientConfigLoadingRules()
	if kubeconfigPath != "" {
		loadingRules.ExplicitPath = kubeconfigPath
	}

	contextConfig := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(
		loadingRules,
		&clientcmd.ConfigOverrides{
			CurrentContext: config.Context,
		},
	)

	restConfig, err := contextConfig.ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create rest config: %w", err)
	}

	config.Logger.Info("using kubeconfig authentication", "context", config.Context)
	return restConfig, nil
}

// validateInClusterEnvironment checks if the required in-cluster authentication files are present.
func validateInClusterEnvironment() error {
	if _, err := os.Stat(DefaultTokenPath); os.IsNotExist(err) {
		return fmt.Errorf("service account token not found at %s", DefaultTokenPath)
	}

	if _, err := os.Stat(DefaultCACertPath); os.IsNotExist(err) {
		return fmt.Errorf("service account CA certificate not found at %s", DefaultCACertPath)
	}

	if _, err := os.Stat(DefaultNamespacePath); os.IsNotExist(err) {
		return fmt.Errorf("service account namespace not found at %s", DefaultNamespacePath)
	}

	return nil
}

// logOperation logs an operation for debugging and audit purposes.
func (c *kubernetesClient) logOperation(operation, namespace, resource, name string) {
	if c.config.Logger != nil {
		c.config.Logger.Debug("kubernetes operation",
			"operation", operation,
			"namespace", namespace,
			"resource", resource,
			"name", name,
		)
	}
}
