// Package wizard runs multi-step journeys over HTTP. A Wizard is a flow of
// steps; each step is a Page that prefills a form from the journey, validates
// the submission, applies it to the payload and hands off to the navigation
// resolver. The check-answers step commits the journey.
package wizard

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"path"

	"github.com/google/uuid"

	"contacts/internal/form"
	"contacts/internal/journey"
	"contacts/internal/journey/metrics"
	"contacts/internal/navigation"
	"contacts/pkg/platform/httputil"
	"contacts/pkg/platform/sentinel"
	"contacts/pkg/requestcontext"

	dErrors "contacts/pkg/domain-errors"
)

// maxFormBytes bounds a posted form.
const maxFormBytes = 1 << 20

// Renderer draws a named view. Templates live outside this service; the
// default renderer writes the view model as JSON.
type Renderer interface {
	Render(w http.ResponseWriter, r *http.Request, status int, view string, data any)
}

// JSONRenderer renders view models as JSON documents.
type JSONRenderer struct{}

func (JSONRenderer) Render(w http.ResponseWriter, _ *http.Request, status int, view string, data any) {
	httputil.WriteJSON(w, status, map[string]any{"view": view, "data": data})
}

// Engine holds what every wizard handler needs.
type Engine struct {
	store    *journey.Store
	resolver *navigation.Resolver
	flasher  *form.Flasher
	renderer Renderer
	logger   *slog.Logger
	metrics  *metrics.Metrics
	newID    func() string
}

// Option configures an Engine.
type Option func(*Engine)

func WithRenderer(r Renderer) Option {
	return func(e *Engine) {
		e.renderer = r
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithIDGenerator replaces the journey id generator.
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) {
		e.newID = newID
	}
}

// New constructs an Engine.
func New(store *journey.Store, resolver *navigation.Resolver, flasher *form.Flasher, opts ...Option) *Engine {
	e := &Engine{
		store:    store,
		resolver: resolver,
		flasher:  flasher,
		renderer: JSONRenderer{},
		logger:   slog.Default(),
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// load fetches the journey for a step request. When it is missing the kind's
// policy is applied and nil is returned; the response has been written.
func (e *Engine) load(w http.ResponseWriter, r *http.Request, kind journey.Kind, id string) *journey.Journey {
	ctx := r.Context()
	j, err := e.store.Get(ctx, kind, id)
	if err == nil {
		return j
	}
	if !errors.Is(err, journey.ErrNotFound) {
		e.fail(w, r, err, "failed to load journey")
		return nil
	}

	policy := journey.PolicyFor(kind)
	e.metrics.IncrementMissing(string(kind), policy.String())
	e.logger.InfoContext(ctx, "journey not found",
		"kind", kind,
		"journey_id", id,
		"policy", policy.String(),
		"expired", errors.Is(err, sentinel.ErrExpired),
		"request_id", requestcontext.RequestID(ctx),
	)
	if policy == journey.RestartOnMissing {
		httputil.SeeOther(w, r, restartURL(r))
		return nil
	}
	e.notFound(w, r)
	return nil
}

// restartURL turns a step or cancel path (<base>/<step>/<id>) into <base>/start.
func restartURL(r *http.Request) string {
	return path.Dir(path.Dir(r.URL.Path)) + "/start"
}

func (e *Engine) save(w http.ResponseWriter, r *http.Request, j *journey.Journey) bool {
	if err := e.store.Save(r.Context(), j); err != nil {
		switch {
		case errors.Is(err, journey.ErrStale):
			e.logger.WarnContext(r.Context(), "journey changed by another request",
				"kind", j.Kind, "journey_id", j.ID, "request_id", requestcontext.RequestID(r.Context()))
			e.renderError(w, r, dErrors.New(dErrors.CodeConflict, "These details were changed in another window. Go back and try again."))
		case errors.Is(err, journey.ErrNotFound):
			e.load(w, r, j.Kind, j.ID)
		default:
			e.fail(w, r, err, "failed to save journey")
		}
		return false
	}
	return true
}

func (e *Engine) redirectNext(w http.ResponseWriter, r *http.Request, step navigation.StepID, j *journey.Journey) {
	next, err := e.resolver.Next(step, j)
	if err != nil {
		e.fail(w, r, err, "failed to resolve next step")
		return
	}
	httputil.SeeOther(w, r, next)
}

// fail logs an unexpected error and renders the generic failure page.
func (e *Engine) fail(w http.ResponseWriter, r *http.Request, err error, msg string) {
	ctx := r.Context()
	e.logger.ErrorContext(ctx, msg,
		"error", err,
		"path", r.URL.Path,
		"request_id", requestcontext.RequestID(ctx),
	)
	e.renderError(w, r, Classify(err))
}

// Classify maps infrastructure errors to a user-safe classification.
func Classify(err error) *dErrors.Error {
	var de *dErrors.Error
	switch {
	case errors.As(err, &de):
		return de
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.Wrap(err, dErrors.CodeNotFound, "Page not found")
	case errors.Is(err, sentinel.ErrForbidden):
		return dErrors.Wrap(err, dErrors.CodeForbidden, "You do not have permission to do this")
	case errors.Is(err, sentinel.ErrUnavailable):
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "Sorry, there is a problem with the service")
	case errors.Is(err, journey.ErrNoSession):
		return dErrors.Wrap(err, dErrors.CodeUnauthorized, "Sign in to continue")
	case errors.Is(err, context.Canceled):
		return dErrors.Wrap(err, dErrors.CodeBadRequest, "Request cancelled")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "Sorry, there is a problem with the service")
	}
}

// ErrorView is the model of the error pages.
type ErrorView struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Engine) renderError(w http.ResponseWriter, r *http.Request, de *dErrors.Error) {
	RenderError(e.renderer, w, r, de)
}

// RenderError draws the error page for a classified error. Internal and
// unavailable errors get the generic message.
func RenderError(rd Renderer, w http.ResponseWriter, r *http.Request, de *dErrors.Error) {
	msg := de.Message
	if de.Code == dErrors.CodeInternal || de.Code == dErrors.CodeUnavailable || msg == "" {
		msg = "Sorry, there is a problem with the service"
	}
	rd.Render(w, r, dErrors.ToHTTPStatus(de.Code), "error", ErrorView{Code: string(de.Code), Message: msg})
}

func (e *Engine) notFound(w http.ResponseWriter, r *http.Request) {
	e.renderer.Render(w, r, http.StatusNotFound, "not-found", ErrorView{Code: string(dErrors.CodeNotFound), Message: "Page not found"})
}

func parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeBadRequest, "The form could not be read")
	}
	return nil
}
