package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"contacts/internal/contactsapi"
	"contacts/internal/contactview"
	"contacts/internal/form"
	"contacts/internal/journey"
	"contacts/internal/platform/metrics"
	"contacts/internal/platform/middleware"
	"contacts/internal/wizard"
	"contacts/internal/wizards"
	"contacts/pkg/platform/httputil"
	"contacts/pkg/platform/middleware/metadata"
	"contacts/pkg/platform/middleware/requesttime"
)

// Deps is everything the router hands out to handlers.
type Deps struct {
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	Renderer wizard.Renderer

	Issuer     SessionIssuer
	Validator  middleware.SessionValidator
	CookieName string
	SessionTTL time.Duration

	Client   contactsapi.Client
	Journeys *journey.Store
	Flasher  *form.Flasher
	// WizardOptions are passed through to the wizard engine.
	WizardOptions []wizard.Option

	// Ready reports whether backing services are reachable. Nil means
	// always ready.
	Ready func(ctx context.Context) error
}

// NewRouter wires all public endpoints behind the common middleware chain.
// Wizard and contact pages also get the session from the cookie.
func NewRouter(d Deps) (http.Handler, error) {
	if d.Renderer == nil {
		d.Renderer = wizard.JSONRenderer{}
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recovery(d.Logger, d.Metrics),
		middleware.RequestID,
		metadata.ClientMetadata,
		requesttime.Middleware,
		middleware.Logger(d.Logger),
		middleware.Latency(d.Metrics),
	)

	r.Get("/health", handleHealth(d.Ready, d.Logger))
	r.Handle("/metrics", promhttp.Handler())

	sessions := &SessionHandler{
		issuer:     d.Issuer,
		cookieName: d.CookieName,
		ttl:        d.SessionTTL,
		renderer:   d.Renderer,
		logger:     d.Logger,
	}
	sessions.Register(r)

	app := r.With(middleware.Session(d.Validator, d.CookieName, d.Logger))
	opts := append([]wizard.Option{wizard.WithRenderer(d.Renderer), wizard.WithLogger(d.Logger)}, d.WizardOptions...)
	if _, err := wizards.Mount(app, d.Client, d.Journeys, d.Flasher, opts...); err != nil {
		return nil, err
	}
	contactview.New(d.Client, contactview.WithRenderer(d.Renderer), contactview.WithLogger(d.Logger)).Register(app)

	return r, nil
}

func handleHealth(ready func(context.Context) error, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ready != nil {
			if err := ready(r.Context()); err != nil {
				logger.WarnContext(r.Context(), "health check failed", "error", err)
				httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
