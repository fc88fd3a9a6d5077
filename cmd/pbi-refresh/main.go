// file: cmd/pbi-refresh/main.go
package main

import (
	"os"

	"github.com/spf13/cobra"
	"pbi-refresh/cmd/pbi-refresh/cmd"
)

var rootCmd = &cobra.Command{
	Use:   "pbi-refresh",
	Short: "Trigger a PowerBI dataset refresh from the command line.",
	Long: `pbi-refresh authenticates against the identity provider with the credentials
from a local secrets file, then asks the reporting API to refresh the dataset
named in a local dataset file. The refresh is asynchronous on the vendor side;
a successful run means the refresh was queued, not that it completed.`,
	// If a subcommand is not provided, default to showing help.
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Add all subcommands from the cmd package
	cmd.AddCommands(rootCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		// The failing subcommand already printed a status line
		os.Exit(1)
	}
}
