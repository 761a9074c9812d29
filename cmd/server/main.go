package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/nkumar/cricket-auction/internal/api"
	"github.com/nkumar/cricket-auction/internal/auction"
	"github.com/nkumar/cricket-auction/internal/config"
	"github.com/nkumar/cricket-auction/internal/repository/postgres"
	"github.com/nkumar/cricket-auction/internal/service"
	"github.com/nkumar/cricket-auction/internal/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	if cfg.Environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// NewConnection runs the schema migrations.
	db, err := postgres.NewConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	repos := postgres.NewRepositories(db)
	services := service.NewServices(repos, cfg)

	if err := services.Player.SeedDefault(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("failed to seed player catalog")
	}

	machine := auction.NewMachine(auction.Rules{
		MinIncrement:     cfg.MinBidIncrement,
		BidCooldown:      cfg.BidCooldown,
		MaxTimeRemaining: cfg.MaxTimeRemaining,
	})
	hub := websocket.NewHub(repos, machine, clockwork.NewRealClock())
	go hub.Run()

	router := api.NewRouter(services, hub, repos, cfg)

	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}
	hub.Stop()

	log.Info().Msg("server stopped")
}
