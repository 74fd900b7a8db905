package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"tranghoa.org/internal/auth"
	"tranghoa.org/internal/config"
	"tranghoa.org/internal/httpapi"
	"tranghoa.org/internal/obs"
	"tranghoa.org/internal/orders"
	"tranghoa.org/internal/store/pg"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := obs.Logger()

	obs.Init()
	obs.InitBuildInfo(version, commit)

	var (
		orderStore   orders.Store
		accountStore auth.AccountStore
		ready        httpapi.ReadyProbe
	)
	if cfg.PostgresDSN != "" {
		pgStore, err := pg.Open(cfg.PostgresDSN)
		if err != nil {
			logger.Printf(`{"level":"fatal","msg":"postgres_open","err":%q}`, err.Error())
			os.Exit(1)
		}
		defer pgStore.Close()
		orderStore = pgStore
		accountStore = pgStore.Accounts()
		ready.DB = pgStore.DB()
	} else {
		logger.Printf(`{"level":"warn","msg":"no TRANGHOA_PG_DSN set, using in-memory stores"}`)
		orderStore = orders.NewInMemory()
		accountStore = auth.NewInMemoryAccountStore()
	}

	api := httpapi.New(httpapi.Options{
		Version:    version,
		Ready:      ready,
		Orders:     orders.NewService(orderStore),
		Auth:       auth.NewService(accountStore, auth.WithTokenTTL(cfg.TokenTTL)),
		RateBurst:  cfg.RateBurst,
		RatePerSec: float64(cfg.RatePerSec),
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Printf(`{"level":"info","msg":"listening","addr":%q,"version":%q}`, cfg.HTTPAddr, version)
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Printf(`{"level":"fatal","msg":"serve","err":%q}`, err.Error())
			os.Exit(1)
		}
	case sig := <-stop:
		logger.Printf(`{"level":"info","msg":"shutting_down","signal":%q}`, sig.String())
		obs.SetReady(false)
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Printf(`{"level":"error","msg":"shutdown","err":%q}`, err.Error())
		}
	}
}
