package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	server "hotel_directory/internal/adapters/http_server"
	"hotel_directory/internal/adapters/observability"
	"hotel_directory/internal/app"
	"hotel_directory/internal/shared"
	"hotel_directory/internal/storage"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// db
	openCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	st, err := storage.Open(openCtx, cfg)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("store open failed")
	}
	log.Info().Str("driver", st.Driver).Msg("database connection ok")

	// deps
	svc := app.NewHotelService(st.Repo)

	// http
	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	srv := server.New(cfg.RequestTimeout)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{S: svc})

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
	if err := st.Close(shutCtx); err != nil {
		log.Error().Err(err).Msg("store close failed")
	}
	log.Info().Msg("server stopped")
}
