// file: cmd/pbi-refresh/cmd/root.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"pbi-refresh/config"
	"pbi-refresh/internal/runner"
)

// AddCommands adds all the subcommands to the root command.
func AddCommands(root *cobra.Command) {
	root.PersistentFlags().String("secrets", "secrets.toml", "path to the secrets file (credentials)")
	root.PersistentFlags().String("dataset", "dataset.json", "path to the dataset file (target and app settings)")

	root.AddCommand(runCmd)
	root.AddCommand(tokenCmd)
	root.AddCommand(validateCmd)
}

// loadInputs reads and validates both configuration files. Any failure
// here is a config error; no network call has been made yet.
func loadInputs(cmd *cobra.Command) (*config.Config, *config.Credentials, error) {
	secretsPath, _ := cmd.Flags().GetString("secrets")
	datasetPath, _ := cmd.Flags().GetString("dataset")

	cfg, err := config.Load(datasetPath)
	if err != nil {
		return nil, nil, err
	}

	creds, err := config.LoadCredentials(secretsPath)
	if err != nil {
		return nil, nil, err
	}

	return cfg, creds, nil
}

// reportFailure prints the single-line classification the user sees and
// hands the error back to cobra for the non-zero exit.
func reportFailure(cmd *cobra.Command, err error) error {
	fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", runner.Classify(err), err)
	return err
}
