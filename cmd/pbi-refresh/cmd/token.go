// file: cmd/pbi-refresh/cmd/token.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"pbi-refresh/internal/auth"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Acquire an access token without touching the reporting API",
	Long: `The token command performs only the first half of the workflow: a token
exchange against the identity provider. Useful for checking that the secrets
file holds working credentials. The token value itself is withheld unless
--show is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		show, _ := cmd.Flags().GetBool("show")

		cfg, creds, err := loadInputs(cmd)
		if err != nil {
			return reportFailure(cmd, err)
		}

		source, err := auth.NewTokenSource(creds, &cfg.HTTP)
		if err != nil {
			return reportFailure(cmd, err)
		}

		tok, err := source.Acquire(cmd.Context())
		if err != nil {
			return reportFailure(cmd, err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "token acquired: type=%s expires_in=%ds\n",
			tok.TokenType, tok.ExpiresIn)
		if show {
			fmt.Fprintln(cmd.OutOrStdout(), tok.Value)
		}
		return nil
	},
}

func init() {
	tokenCmd.Flags().Bool("show", false, "print the raw token value to stdout")
}
