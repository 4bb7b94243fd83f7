package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "fittrackctl",
		Short: "Operational tasks for the fittrack service",
		Long: `fittrackctl applies the database schema and prepares
configuration values, such as password hashes for the local auth provider.`,
		SilenceUsage: true,
	}
	root.AddCommand(newMigrateCmd())
	root.AddCommand(newHashPasswordCmd())
	return root
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
