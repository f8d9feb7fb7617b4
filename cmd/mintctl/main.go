package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mintreplica/mintlite/cmd/mintctl/cmd"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "mintctl",
		Short:         "Operator tools for the mint progress service",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(cmd.MigrateCmd())
	rootCmd.AddCommand(cmd.CheckDeadlinesCmd())
	rootCmd.AddCommand(cmd.TokenCmd())
	rootCmd.AddCommand(cmd.DevCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
