package cmd

import (
	"fmt"

	"bogogo/internal/identity"

	"github.com/spf13/cobra"
)

var hashCmd = &cobra.Command{
	Use:   "hash <password>",
	Short: "Imprime el hash bcrypt de una contraseña",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := identity.HashPassword(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), h)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(hashCmd)
}
