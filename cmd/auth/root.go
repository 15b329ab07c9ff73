package main

import (
	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/tabauth/internal/auth/app"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the tabauth CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tabauth",
		Short: "TabAuth - username and password sessions",
		Long: `TabAuth issues opaque session tokens for username and password logins
and resolves them back to users on every request.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	app.RegisterFlags(cmd.PersistentFlags())

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewLockCmd())
	cmd.AddCommand(NewUnlockCmd())

	return cmd
}

func loadConfig(cmd *cobra.Command) (app.Config, error) {
	return app.LoadConfig(cmd.Flags(), configFile)
}
