package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/giantswarm/role-patcher/internal/instrumentation"
	"github.com/giantswarm/role-patcher/internal/k8s"
	"github.com/giantswarm/role-patcher/internal/logging"
	"github.com/giantswarm/role-patcher/internal/patcher"
)

// metricsServerShutdownTimeout bounds how long the metrics endpoint may take
// to drain in-flight scrapes during shutdown.
const metricsServerShutdownTimeout = 5 * time.Second

// newRunCmd creates the Cobra command for starting the reconciliation loop.
func newRunCmd() *cobra.Command {
	var (
		kubeconfigPath      string
		kubeContext         string
		inCluster           bool
		qpsLimit            float32
		burstLimit          int
		timeout             time.Duration
		targetUser          string
		protectedNamespaces []string
		metricsAddr         string
		debugMode           bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the role-patcher reconciliation loop",
		Long: `Start the role-patcher reconciliation loop.

On startup the shared ClusterRole <target-user>-custom-role is rebuilt from
the cluster's current API resource catalogs. The loop then watches namespace
events: every newly observed non-protected namespace receives a
<namespace>-custom-rolebinding that binds the target user to the shared role.

Authentication modes:
  - Kubeconfig (default): Uses standard kubeconfig file authentication
  - In-cluster: Uses service account token when running inside a Kubernetes pod

The process exposes Prometheus metrics and a health probe on --metrics-addr
when instrumentation is enabled via INSTRUMENTATION_ENABLED=true.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			config := RunConfig{
				KubeconfigPath:      kubeconfigPath,
				Context:             kubeContext,
				InCluster:           inCluster,
				QPSLimit:            qpsLimit,
				BurstLimit:          burstLimit,
				Timeout:             timeout,
				TargetUser:          targetUser,
				ProtectedNamespaces: protectedNamespaces,
				MetricsAddr:         metricsAddr,
				DebugMode:           debugMode,
			}
			return runPatcher(config)
		},
	}

	cmd.Flags().StringVar(&kubeconfigPath, "kubeconfig", "", "Path to the kubeconfig file (defaults to KUBECONFIG or ~/.kube/config)")
	cmd.Flags().StringVar(&kubeContext, "context", "", "Kubeconfig context to use (defaults to the current context)")
	cmd.Flags().BoolVar(&inCluster, "in-cluster", false, "Use in-cluster authentication (service account token) instead of kubeconfig (default: false)")
	cmd.Flags().Float32Var(&qpsLimit, "qps-limit", defaultQPSLimit, "QPS limit for Kubernetes API calls (default: 20.0)")
	cmd.Flags().IntVar(&burstLimit, "burst-limit", defaultBurstLimit, "Burst limit for Kubernetes API calls (default: 30)")
	cmd.Flags().DurationVar(&timeout, "timeout", defaultTimeout, "Timeout for individual Kubernetes API calls (default: 30s)")
	cmd.Flags().StringVar(&targetUser, "target-user", patcher.DefaultTargetUser, "User granted permissions via the shared ClusterRole")
	cmd.Flags().StringSliceVar(&protectedNamespaces, "protected-namespaces", patcher.DefaultProtectedNamespaces(), "Namespaces excluded from RoleBinding creation")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", defaultMetricsAddr, "Address for the /metrics and /healthz HTTP endpoint")
	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging (default: false)")

	return cmd
}

// newLogger builds the process-wide structured logger.
func newLogger(debugMode bool) *slog.Logger {
	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// runPatcher contains the main reconciliation loop logic: client setup,
// instrumentation, the reconciler goroutine, and the metrics endpoint.
func runPatcher(config RunConfig) error {
	if err := config.Validate(); err != nil {
		return err
	}

	logger := newLogger(config.DebugMode)
	slog.SetDefault(logger)

	// Graceful shutdown - listen for both SIGINT and SIGTERM
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	k8sConfig := &k8s.ClientConfig{
		KubeconfigPath: config.KubeconfigPath,
		Context:        config.Context,
		InCluster:      config.InCluster,
		QPSLimit:       config.QPSLimit,
		BurstLimit:     config.BurstLimit,
		Timeout:        config.Timeout,
		DebugMode:      config.DebugMode,
		Logger:         logging.NewSlogAdapter(logger),
	}

	k8sClient, err := k8s.NewClient(k8sConfig)
	if err != nil {
		return fmt.Errorf("failed to create Kubernetes client: %w", err)
	}

	instrumentationConfig := instrumentation.DefaultConfig()
	instrumentationConfig.ServiceVersion = rootCmd.Version
	instrumentationProvider, err := instrumentation.NewProvider(shutdownCtx, instrumentationConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if shutdownErr := instrumentationProvider.Shutdown(context.Background()); shutdownErr != nil {
			logger.Error("error during instrumentation shutdown", logging.Err(shutdownErr))
		}
	}()

	if instrumentationProvider.Enabled() {
		logger.Info("instrumentation enabled",
			"metrics_exporter", instrumentationConfig.MetricsExporter,
			"tracing_exporter", instrumentationConfig.TracingExporter)
	}

	patcherConfig := patcher.DefaultConfig()
	patcherConfig.TargetUser = config.TargetUser
	patcherConfig.ProtectedNamespaces = config.ProtectedNamespaces

	reconcilerOpts := []patcher.Option{patcher.WithLogger(logger)}
	if instrumentationProvider.Enabled() {
		reconcilerOpts = append(reconcilerOpts,
			patcher.WithMetrics(instrumentationProvider.Metrics()),
			patcher.WithTracer(instrumentationProvider.Tracer()),
		)
	}

	reconciler, err := patcher.NewReconciler(k8sClient, patcherConfig, reconcilerOpts...)
	if err != nil {
		return fmt.Errorf("failed to create reconciler: %w", err)
	}

	logger.Info("starting role-patcher",
		logging.Operation("run"),
		"target_user", config.TargetUser,
		"protected_namespaces", config.ProtectedNamespaces,
		"in_cluster", config.InCluster)

	g, gctx := errgroup.WithContext(shutdownCtx)

	g.Go(func() error {
		return reconciler.Run(gctx)
	})

	srv := newMetricsServer(config.MetricsAddr)
	g.Go(func() error {
		logger.Info("serving metrics endpoint", "addr", config.MetricsAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		drainCtx, drainCancel := context.WithTimeout(context.Background(), metricsServerShutdownTimeout)
		defer drainCancel()
		return srv.Shutdown(drainCtx)
	})

	err = g.Wait()
	if err != nil && errors.Is(err, context.Canceled) {
		logger.Info("shutting down on signal")
		return nil
	}
	return err
}

// newMetricsServer builds the HTTP server exposing the Prometheus scrape
// endpoint and a liveness probe. The OpenTelemetry Prometheus exporter
// registers with the default registry, which promhttp.Handler serves.
func newMetricsServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
