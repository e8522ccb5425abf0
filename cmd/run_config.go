package cmd

import (
	"fmt"
	"time"
)

// Default values for the run command flags.
const (
	defaultMetricsAddr = ":8080"
	defaultQPSLimit    = float32(20.0)
	defaultBurstLimit  = 30
	defaultTimeout     = 30 * time.Second
)

// RunConfig holds all configuration for the run command.
type RunConfig struct {
	// Kubernetes client settings
	KubeconfigPath string
	Context        string
	InCluster      bool
	QPSLimit       float32
	BurstLimit     int
	Timeout        time.Duration

	// Reconciliation settings
	TargetUser          string
	ProtectedNamespaces []string

	// HTTP endpoint serving /metrics and /healthz
	MetricsAddr string

	// Debug settings
	DebugMode bool
}

// Validate checks the configuration for values that would only fail later,
// deep inside the client or the reconciler.
func (c RunConfig) Validate() error {
	if c.TargetUser == "" {
		return fmt.Errorf("--target-user must not be empty")
	}
	if c.QPSLimit <= 0 {
		return fmt.Errorf("--qps-limit must be positive, got %v", c.QPSLimit)
	}
	if c.BurstLimit <= 0 {
		return fmt.Errorf("--burst-limit must be positive, got %d", c.BurstLimit)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("--timeout must be positive, got %v", c.Timeout)
	}
	if c.MetricsAddr == "" {
		return fmt.Errorf("--metrics-addr must not be empty")
	}
	return nil
}
