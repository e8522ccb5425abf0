package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the role-patcher application.
// It is the entry point when the application is called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "role-patcher",
	Short: "Kubernetes controller granting a single user broad namespaced permissions",
	Long: `role-patcher keeps a single shared ClusterRole up to date and binds it into
every namespace as namespaces appear. The shared role grants the target user
wildcard verbs over all non-privileged resource types and read-only access to
role-management resources (roles, rolebindings, clusterroles,
clusterrolebindings).

When run without subcommands, it starts the reconciliation loop (equivalent
to 'role-patcher run').`,
	// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application.
// It initializes and executes the root command, which in turn handles subcommands and flags.
// This function is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "role-patcher version %s\n" .Version}}`)

	// If no subcommand is provided, run the reconciliation loop by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "run")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newRunCmd())
}
