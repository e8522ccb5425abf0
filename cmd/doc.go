// Package cmd provides the command-line interface for role-patcher.
//
// This package implements a Cobra-based CLI with multiple subcommands:
//   - run: Starts the reconciliation loop (default behavior when no subcommand is provided)
//   - version: Displays the application version
//
// The CLI maintains backwards compatibility by running the run command when
// no subcommand is specified, preserving the original behavior of the application.
//
// Command Structure:
//
//	role-patcher [flags]                 # Starts the reconciliation loop (default)
//	role-patcher run [flags]             # Explicitly starts the reconciliation loop
//	role-patcher version                 # Shows version information
//	role-patcher help [command]          # Shows help information
//
// The run command supports configuration flags for the target user, protected
// namespaces, kubeconfig selection, Kubernetes API rate limiting, and the
// metrics endpoint address.
package cmd
