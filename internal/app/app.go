package app

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/nourhb/video-chat/internal/auth"
	"github.com/nourhb/video-chat/internal/config"
	"github.com/nourhb/video-chat/internal/notify"
	"github.com/nourhb/video-chat/internal/presence"
	"github.com/nourhb/video-chat/internal/provider"
	"github.com/nourhb/video-chat/internal/provider/daily"
	"github.com/nourhb/video-chat/internal/provider/livekit"
	"github.com/nourhb/video-chat/internal/rooms"
	"github.com/nourhb/video-chat/internal/service/consultations"
	"github.com/nourhb/video-chat/internal/store"
	"github.com/nourhb/video-chat/internal/store/sqlite"
	transporthttp "github.com/nourhb/video-chat/internal/transport/http"
)

// App wires together storage, room coordination and the transport layer.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	store           store.Store
	reminders       *notify.ReminderWorker
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	st, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}

	logger.Info().Str("db_path", cfg.DatabasePath).Msg("database initialized")

	jwtConfig := &auth.JWTConfig{
		Secret:   []byte(cfg.JWTSecret),
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
		TTL:      24 * time.Hour,
	}
	authService := auth.NewService(st, jwtConfig)

	registry := rooms.NewRegistry()
	client := buildProvider(cfg.Provider, logger)
	coordinator := rooms.NewCoordinator(registry, client, cfg.Provider.RoomValidity, logger)

	consultationService := consultations.New(st, coordinator)

	var reminders *notify.ReminderWorker
	if cfg.Reminders.Enabled {
		var sender notify.EmailSender
		if sg := notify.NewSendGridSender(cfg.Email.SendGridAPIKey, cfg.Email.FromEmail, cfg.Email.FromName, logger); sg != nil {
			sender = sg
		} else {
			logger.Warn().Msg("sendgrid api key absent, reminder emails will be logged only")
			sender = notify.NewStubSender(logger)
		}
		reminders = notify.NewReminderWorker(st, sender, cfg.Reminders.Interval, cfg.Reminders.Lead, logger)
	}

	server := transporthttp.NewServer(transporthttp.Deps{
		Coordinator:   coordinator,
		Registry:      registry,
		AuthService:   authService,
		Store:         st,
		Consultations: consultationService,
		Presence:      presence.NewHub(),
	}, cfg, logger)

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		store:           st,
		reminders:       reminders,
		log:             logger,
	}, nil
}

// buildProvider selects the video backend from config. A missing credential
// is a valid, expected condition: the coordinator then runs in permanent
// fallback mode and never calls upstream.
func buildProvider(cfg config.ProviderConfig, logger *zerolog.Logger) provider.Client {
	switch cfg.Kind {
	case "livekit":
		if cfg.LiveKitAPIKey == "" || cfg.LiveKitAPISecret == "" {
			logger.Warn().Msg("livekit credentials absent, running in fallback mode")
			return nil
		}
		logger.Info().Str("ws_url", cfg.LiveKitWSURL).Msg("using livekit video backend")
		return livekit.New(cfg.LiveKitAPIKey, cfg.LiveKitAPISecret, cfg.LiveKitWSURL)
	default:
		if cfg.APIKey == "" {
			logger.Warn().Msg("provider api key absent, running in fallback mode")
			return nil
		}
		logger.Info().Str("base_url", cfg.BaseURL).Msg("using daily video backend")
		return daily.New(cfg.BaseURL, cfg.APIKey, cfg.RequestTimeout)
	}
}

// Run starts the HTTP server and blocks until context cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	if a.reminders != nil {
		go a.reminders.Run(ctx)
	}

	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		a.cleanup()
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.cleanup()
			return err
		}

		a.cleanup()
		return <-serverErr
	}
}

// cleanup closes database and other resources.
func (a *App) cleanup() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close store")
		} else {
			a.log.Info().Msg("store closed")
		}
	}
}
