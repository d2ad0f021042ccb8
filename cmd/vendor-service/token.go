package main

import (
	"fmt"

	"vendor-service/pkg/jwtutil"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var (
	tokenEmail  string
	tokenUserID uint
	tokenRole   string
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for the API",
	Long:  "Signs a token with JWT_SIGNING_KEY. Only needed when AUTH_ENABLED=true.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if tokenEmail == "" {
			return eris.New("token: --email is required")
		}
		token, err := jwtutil.GenerateToken(tokenEmail, tokenUserID, tokenRole)
		if err != nil {
			return eris.Wrap(err, "token: sign")
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "email claim")
	tokenCmd.Flags().UintVar(&tokenUserID, "user-id", 1, "user id claim")
	tokenCmd.Flags().StringVar(&tokenRole, "role", "buyer", "role claim")
	rootCmd.AddCommand(tokenCmd)
}
