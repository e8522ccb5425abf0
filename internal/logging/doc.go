// Package logging provides structured logging utilities for role-patcher.
//
// This package centralizes logging patterns to ensure consistent, structured
// logging throughout the codebase using the standard library's slog package.
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithOperation(slog.Default(), "reconcile")
//	logger.Info("creating rolebinding",
//	    logging.Namespace("team-a"),
//	    logging.ResourceName("team-a-custom-rolebinding"))
//
// The attribute helpers keep key names consistent so that log pipelines can
// filter on operation, namespace, and event_type without per-call-site
// spelling drift.
package logging
