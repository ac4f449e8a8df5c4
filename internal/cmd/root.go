// Package cmd holds the bogoctl operator commands.
package cmd

import (
	"fmt"
	"os"

	"bogogo/internal/config"
	"bogogo/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:   "bogoctl",
	Short: "Herramientas de operación de BOGOGO",
	Long: `bogoctl agrupa las tareas de operación del backend de BOGOGO:
aplicar el esquema, sembrar categorías, crear administradores e
inspeccionar la cola de trabajos fallidos.

Lee la misma configuración que el servidor (variables de entorno o .env).`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func cargarConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func conectarDB() (*config.Config, *gorm.DB, error) {
	cfg, err := cargarConfig()
	if err != nil {
		return nil, nil, err
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return cfg, db, nil
}

func conectarRedis(cfg *config.Config) (*redis.Client, error) {
	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return rdb, nil
}
