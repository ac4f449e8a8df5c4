package cmd

import (
	"fmt"
	"time"

	"bogogo/internal/repository"
	"bogogo/internal/service"

	"github.com/spf13/cobra"
)

var seedCategoriasCmd = &cobra.Command{
	Use:   "seed-categorias",
	Short: "Inserta las categorías base que falten",
	Long: `Inserta por nombre las categorías base del catálogo. Es idempotente:
las categorías existentes no se duplican ni se modifican. Invalida la
caché del catálogo.`,
	Args: cobra.NoArgs,
	RunE: seedCategorias,
}

func init() {
	rootCmd.AddCommand(seedCategoriasCmd)
}

func seedCategorias(cmd *cobra.Command, _ []string) error {
	cfg, db, err := conectarDB()
	if err != nil {
		return err
	}
	rdb, err := conectarRedis(cfg)
	if err != nil {
		return err
	}
	defer rdb.Close()

	svc := service.NewCategoriaService(
		repository.NewCategoriaRepository(db),
		repository.NewCatalogoCache(rdb, time.Duration(cfg.CatalogCacheTTLMinutes)*time.Minute),
	)
	n, err := svc.Sembrar(cmd.Context(), service.CategoriasBase)
	if err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d categorías base presentes\n", n)
	return nil
}
