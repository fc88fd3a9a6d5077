// file: cmd/pbi-refresh/cmd/run.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"pbi-refresh/internal/auth"
	"pbi-refresh/internal/logger"
	"pbi-refresh/internal/powerbi"
	"pbi-refresh/internal/runner"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Acquire a token and submit the dataset refresh",
	Long: `The run command executes the full workflow: it exchanges the configured
credentials for an access token at the identity provider, then submits a
refresh request for the configured dataset. The process exits 0 only when the
reporting API accepted the refresh.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, creds, err := loadInputs(cmd)
		if err != nil {
			return reportFailure(cmd, err)
		}

		log, err := logger.NewLogger(&cfg.Logging)
		if err != nil {
			return err
		}
		defer log.Sync()

		source, err := auth.NewTokenSource(creds, &cfg.HTTP)
		if err != nil {
			return reportFailure(cmd, err)
		}

		client := powerbi.NewClient(cfg.Dataset.APIURL, &cfg.HTTP, log)

		result := runner.New(source, client, cfg.Dataset, log).Run(cmd.Context())
		if result.Err != nil {
			return reportFailure(cmd, result.Err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "refresh submitted for dataset %s (status %d)\n",
			cfg.Dataset.DatasetID, result.StatusCode)
		return nil
	},
}
