// Package cli wires configuration, logging and the bot behind cobra commands.
package cli

import (
	"github.com/spf13/cobra"
)

// Version info set via ldflags at build time
var (
	version = "dev"
	commit  = "none"
)

var configFlag string

var rootCmd = &cobra.Command{
	Use:   "server-stat-tg",
	Short: "Telegram bot reporting server metrics",
	Long: `Runs a Telegram bot that answers with CPU, memory, disk, network,
process and host statistics of the machine it runs on.

Settings come from environment variables, an optional .env file in the
working directory, or a file passed with --config.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBot(cmd.Context(), configFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "config file (yaml, json, toml or env)")
	rootCmd.AddCommand(tokenCmd, versionCmd)
}

// SetVersionInfo records build metadata for the version command
func SetVersionInfo(v, c string) {
	version = v
	commit = c
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
