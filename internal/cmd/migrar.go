package cmd

import (
	"fmt"

	"bogogo/internal/infra"

	"github.com/spf13/cobra"
)

var migrarCmd = &cobra.Command{
	Use:   "migrar",
	Short: "Aplica el esquema SQL embebido",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, db, err := conectarDB()
		if err != nil {
			return err
		}
		if err := infra.RunMigrations(db); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Esquema aplicado")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrarCmd)
}
