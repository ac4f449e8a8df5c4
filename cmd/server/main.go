package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bogogo/internal/config"
	"bogogo/internal/infra"
	"bogogo/internal/repository"
	"bogogo/internal/router"
	"bogogo/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger: dev pretty, prod JSON
	if cfg.Env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	if err := infra.RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("failed to apply migrations")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	storage, err := infra.NewBucketStorage(cfg.StoragePath, cfg.StorageBucket, cfg.PublicAPIURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to prepare object storage")
	}

	pagos, pagoCB, err := proveedorPagos(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid payment provider")
	}

	// Worker pool for async email jobs. Handlers are wired here (composition
	// root) so the pool has access to all infrastructure dependencies.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dispatcher := worker.NewDispatcher(rdb)
	pool := worker.NewPool(rdb)
	worker.NewEmailWorker(
		infra.NewMailer(cfg),
		repository.NewPedidoRepository(db),
		repository.NewUsuarioRepository(db),
		cfg.ReceiptStoragePath,
	).Registrar(pool)
	pool.Start(ctx, cfg.WorkerPoolSize)

	r := router.New(cfg, router.Infra{
		DB:         db,
		Redis:      rdb,
		Pagos:      pagos,
		PagoCB:     pagoCB,
		Storage:    storage,
		Dispatcher: dispatcher,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("BOGOGO backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}

	cancel()
	pool.Wait()
	log.Info().Msg("server exited")
}

// proveedorPagos builds the payment-preference client selected by
// PAYMENT_PROVIDER. Only the function endpoint runs behind a breaker.
func proveedorPagos(cfg *config.Config) (infra.PreferenciaPago, *infra.CircuitBreaker, error) {
	switch cfg.PaymentProvider {
	case "", "funcion":
		cb := infra.NewCircuitBreaker(infra.DefaultCBConfig())
		return infra.NewFuncionPagoClient(cfg.PaymentFunctionURL, cfg.PaymentFunctionKey, cb), cb, nil
	case "stripe":
		if cfg.StripeSecretKey == "" {
			return nil, nil, errors.New("STRIPE_SECRET_KEY is required with PAYMENT_PROVIDER=stripe")
		}
		return infra.NewStripePagoClient(cfg.StripeSecretKey, cfg.StripeCurrency), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown PAYMENT_PROVIDER %q", cfg.PaymentProvider)
	}
}
