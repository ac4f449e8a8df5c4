package cmd

import (
	"fmt"
	"text/tabwriter"

	"bogogo/internal/worker"

	"github.com/spf13/cobra"
)

var dlqLimite int64

var dlqCmd = &cobra.Command{
	Use:   "dlq",
	Short: "Lista los trabajos de correo que agotaron sus reintentos",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := cargarConfig()
		if err != nil {
			return err
		}
		rdb, err := conectarRedis(cfg)
		if err != nil {
			return err
		}
		defer rdb.Close()

		total, err := worker.DLQLength(cmd.Context(), rdb, worker.QueueEmail)
		if err != nil {
			return err
		}
		entries, err := worker.DLQEntries(cmd.Context(), rdb, worker.QueueEmail, dlqLimite)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%d trabajos en %s%s\n", total, worker.DLQPrefix, worker.QueueEmail)
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "FALLO\tTIPO\tINTENTOS\tMOTIVO\tPAYLOAD")
		for _, e := range entries {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", e.FailedAt, e.JobType, e.Attempts, e.Reason, string(e.Payload))
		}
		return tw.Flush()
	},
}

func init() {
	dlqCmd.Flags().Int64Var(&dlqLimite, "limite", 20, "cantidad máxima de entradas a mostrar")
	rootCmd.AddCommand(dlqCmd)
}
