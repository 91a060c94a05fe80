package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/jsalmela/apteekki-admin/internal/api"
	"github.com/jsalmela/apteekki-admin/internal/config"
	"github.com/jsalmela/apteekki-admin/internal/notify"
	"github.com/jsalmela/apteekki-admin/internal/session"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	key, err := session.DeriveKey(cfg.TokenKey)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to derive encryption key")
	}

	store, err := session.NewSQLiteStore(cfg.DBPath, key)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open session store")
	}
	defer store.Close()
	log.Info().Str("dbPath", cfg.DBPath).Msg("session store opened")

	clientID := uuid.NewString()
	client := api.NewClient(api.ClientOpts{
		BaseURL:  cfg.APIBaseURL,
		ClientID: clientID,
	})

	coord := session.NewCoordinator(store, client)
	defer coord.Stop()
	client.SetTokenSource(coord)

	// Create context that cancels on SIGINT or SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := coord.Bootstrap(ctx); err != nil {
		switch {
		case errors.Is(err, session.ErrStartupTimeout):
			log.Fatal().Err(err).Msg("startup timed out; check network and retry")
		case errors.Is(err, session.ErrNoSession),
			errors.Is(err, session.ErrMalformedToken),
			errors.Is(err, session.ErrRefreshFailed):
			log.Fatal().Err(err).Msg("no valid session; run apteekki-admin login first")
		default:
			log.Fatal().Err(err).Msg("session bootstrap failed")
		}
	}

	if principal, err := store.Principal(); err == nil && principal != nil {
		log.Info().Str("name", principal.Name).Strs("roles", principal.Roles).Msg("session active")
	}

	channel := notify.NewChannel(cfg.NATSURL, clientID, func(subject string, event notify.OrderEvent) {
		log.Info().
			Str("subject", subject).
			Str("orderId", event.OrderID).
			Str("status", event.Status).
			Float64("total", event.Total).
			Msg("order event")
	})
	defer channel.Close()

	// Token rotations re-authenticate the channel; a dead session closes it.
	unsubscribe := coord.Subscribe(channel)
	defer unsubscribe()

	token, err := coord.EnsureFresh(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to get access token for order channel")
	}
	if err := channel.Connect(token); err != nil {
		// The daemon is still useful without live events; keep running.
		log.Warn().Err(err).Msg("order channel unavailable")
	}

	log.Info().Msg("session liveness daemon running")
	<-ctx.Done()
	log.Info().Msg("shutdown complete")
}
