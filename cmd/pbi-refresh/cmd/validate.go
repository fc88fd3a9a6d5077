// file: cmd/pbi-refresh/cmd/validate.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check both configuration files without any network call",
	Long: `The validate command loads the secrets and dataset files, applies defaults,
and runs the same validation the run command would. It makes zero network
calls, so it is safe to use in CI or before rotating credentials.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, creds, err := loadInputs(cmd)
		if err != nil {
			return reportFailure(cmd, err)
		}

		workspace := cfg.Dataset.GroupID
		if workspace == "" {
			workspace = "my-workspace"
		}

		fmt.Fprintf(cmd.OutOrStdout(), "configuration ok: dataset %s in %s, %s grant for client %s\n",
			cfg.Dataset.DatasetID, workspace, creds.GrantType, creds.ClientID)
		return nil
	},
}
