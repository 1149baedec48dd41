package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"contacts/internal/contactsapi"
	"contacts/internal/form"
	"contacts/internal/journey"
	journeymetrics "contacts/internal/journey/metrics"
	jwttoken "contacts/internal/jwt_token"
	"contacts/internal/platform/config"
	"contacts/internal/platform/httpserver"
	"contacts/internal/platform/logger"
	"contacts/internal/platform/metrics"
	"contacts/internal/platform/postgres"
	"contacts/internal/platform/redis"
	"contacts/internal/session"
	"contacts/internal/session/store"
	httptransport "contacts/internal/transport/http"
	"contacts/internal/wizard"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogFormat)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions, ready, closeStore, err := openSessionStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	journeyMetrics := journeymetrics.New()
	journeys := journey.NewStore(sessions, cfg.Journey.MaxAge,
		journey.WithLogger(log),
		journey.WithMetrics(journeyMetrics),
	)

	client := contactsapi.NewHTTP(cfg.ContactsAPI.BaseURL,
		contactsapi.WithToken(cfg.ContactsAPI.Token),
		contactsapi.WithHTTPClient(&http.Client{Timeout: cfg.ContactsAPI.Timeout}),
		contactsapi.WithLogger(log),
	)

	tokens := jwttoken.NewJWTService(cfg.Session.SigningKey, "contacts")
	router, err := httptransport.NewRouter(httptransport.Deps{
		Logger:        log,
		Metrics:       metrics.New(),
		Issuer:        tokens,
		Validator:     jwttoken.NewJWTServiceAdapter(tokens),
		CookieName:    cfg.Session.CookieName,
		SessionTTL:    cfg.Session.TTL,
		Client:        client,
		Journeys:      journeys,
		Flasher:       form.NewFlasher(sessions),
		WizardOptions: []wizard.Option{wizard.WithMetrics(journeyMetrics)},
		Ready:         ready,
	})
	if err != nil {
		return fmt.Errorf("building router: %w", err)
	}

	srv := httpserver.New(cfg.Addr, router)
	errc := make(chan error, 1)
	go func() {
		log.Info("starting contacts", "addr", cfg.Addr, "session_store", cfg.Session.Store)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// openSessionStore connects the configured session backend. The returned
// ready func backs the health check.
func openSessionStore(ctx context.Context, cfg config.Server) (session.Store, func(context.Context) error, func(), error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	switch cfg.Session.Store {
	case config.SessionStoreMemory:
		return store.NewMemory(), nil, func() {}, nil

	case config.SessionStoreRedis:
		client, err := redis.New(connectCtx, cfg.Redis)
		if err != nil {
			return nil, nil, nil, err
		}
		ready := func(ctx context.Context) error { return client.Ping(ctx).Err() }
		return store.NewRedis(client), ready, func() { _ = client.Close() }, nil

	case config.SessionStorePostgres:
		pool, err := postgres.New(connectCtx, cfg.Postgres)
		if err != nil {
			return nil, nil, nil, err
		}
		s := store.NewPostgres(pool)
		if err := s.EnsureSchema(connectCtx); err != nil {
			pool.Close()
			return nil, nil, nil, err
		}
		return s, pool.Ping, pool.Close, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown session store %q", cfg.Session.Store)
	}
}
