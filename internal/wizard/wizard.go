package wizard

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"contacts/internal/journey"
	"contacts/internal/navigation"
	"contacts/internal/paths"
	"contacts/pkg/platform/httputil"
	"contacts/pkg/requestcontext"

	dErrors "contacts/pkg/domain-errors"
)

// Beginning is what a wizard's start request produces.
type Beginning struct {
	Mode    journey.Mode
	Payload journey.Payload
	// ReturnPoint is where cancel goes when the request names none.
	ReturnPoint string
	// CheckingAnswers starts the journey on the check-answers page, as edit
	// modes prefilled from an existing record do.
	CheckingAnswers bool
}

// Wizard is one kind of journey: its flow, its steps and how it starts.
type Wizard struct {
	Flow *navigation.Flow
	// Pattern is the route the wizard is mounted under, with chi parameters.
	Pattern string
	// Begin reads the start request. It may call the API to prefill.
	Begin func(r *http.Request) (Beginning, error)

	steps map[string]Step
}

// Step is a page of a wizard. Implementations are Page and CheckAnswers.
type Step interface {
	StepID() navigation.StepID
	serveGet(e *Engine, w http.ResponseWriter, r *http.Request, j *journey.Journey)
	servePost(e *Engine, w http.ResponseWriter, r *http.Request, j *journey.Journey)
}

// NewWizard binds steps to a flow. Every flow step needs a handler.
func NewWizard(flow *navigation.Flow, pattern string, begin func(r *http.Request) (Beginning, error), steps ...Step) (*Wizard, error) {
	w := &Wizard{Flow: flow, Pattern: pattern, Begin: begin, steps: make(map[string]Step, len(steps))}
	for _, s := range steps {
		fs, ok := flow.Step(s.StepID())
		if !ok {
			return nil, fmt.Errorf("wizard %s: %s: %w", flow.Kind, s.StepID(), navigation.ErrUnknownStep)
		}
		slug := fs.Slug
		if slug == "" {
			slug = string(fs.ID)
		}
		w.steps[slug] = s
	}
	for _, fs := range flow.Steps {
		found := false
		for _, s := range steps {
			if s.StepID() == fs.ID {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("wizard %s: no handler for step %s", flow.Kind, fs.ID)
		}
	}
	return w, nil
}

// Register mounts every wizard and the conflict page on r.
func (e *Engine) Register(r chi.Router, wizards ...*Wizard) {
	for _, wz := range wizards {
		r.Route(wz.Pattern, func(r chi.Router) {
			r.Get("/start", e.handleStart(wz))
			r.Get("/cancel/{journeyId}", e.handleCancel(wz))
			r.Get("/{step}/{journeyId}", e.handleStep(wz, false))
			r.Post("/{step}/{journeyId}", e.handleStep(wz, true))
		})
	}
	r.Get("/journeys/{kind}/{journeyId}/conflict", e.handleConflictGet)
	r.Post("/journeys/{kind}/{journeyId}/conflict", e.handleConflictPost)
}

// handleStart opens a journey. A journeyId query parameter resets that
// journey instead of opening a new one.
func (e *Engine) handleStart(wz *Wizard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		b, err := wz.Begin(r)
		if err != nil {
			e.fail(w, r, err, "failed to begin journey")
			return
		}

		id, overwrite := e.newID(), false
		if reset := r.URL.Query().Get("journeyId"); reset != "" {
			if _, err := uuid.Parse(reset); err != nil {
				e.renderError(w, r, dErrors.New(dErrors.CodeBadRequest, "Invalid journey"))
				return
			}
			id, overwrite = reset, true
		}

		j := journey.New(id, wz.Flow.Kind, b.Mode, returnPoint(r, b.ReturnPoint), b.Payload)
		j.IsCheckingAnswers = b.CheckingAnswers
		if err := e.store.Create(ctx, j, overwrite); err != nil {
			e.fail(w, r, err, "failed to create journey")
			return
		}
		e.metrics.IncrementStarted(string(j.Kind), string(j.Mode))
		e.logger.InfoContext(ctx, "journey started",
			"kind", j.Kind,
			"mode", j.Mode,
			"journey_id", j.ID,
			"reset", overwrite,
			"request_id", requestcontext.RequestID(ctx),
		)

		if j.IsCheckingAnswers {
			httputil.SeeOther(w, r, wz.Flow.CheckAnswersURL(j))
			return
		}
		httputil.SeeOther(w, r, wz.Flow.StartURL(j))
	}
}

// returnPoint prefers a local returnUrl from the query over the default.
func returnPoint(r *http.Request, fallback string) string {
	return paths.Local(r.URL.Query().Get("returnUrl"), fallback)
}

func (e *Engine) handleCancel(wz *Wizard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		j, err := e.store.Get(ctx, wz.Flow.Kind, chi.URLParam(r, "journeyId"))
		if errors.Is(err, journey.ErrNotFound) {
			// already gone; restarting would open a journey the user is leaving
			e.notFound(w, r)
			return
		}
		if err != nil {
			e.fail(w, r, err, "failed to load journey")
			return
		}
		if err := e.store.Delete(ctx, j.Kind, j.ID); err != nil {
			e.fail(w, r, err, "failed to delete journey")
			return
		}
		e.metrics.IncrementCancelled(string(j.Kind))
		e.logger.InfoContext(ctx, "journey cancelled",
			"kind", j.Kind, "journey_id", j.ID, "request_id", requestcontext.RequestID(ctx))
		httputil.SeeOther(w, r, j.ReturnPoint)
	}
}

func (e *Engine) handleStep(wz *Wizard, post bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		step, ok := wz.steps[chi.URLParam(r, "step")]
		if !ok {
			e.notFound(w, r)
			return
		}
		j := e.load(w, r, wz.Flow.Kind, chi.URLParam(r, "journeyId"))
		if j == nil {
			return
		}
		if post {
			if err := parseForm(w, r); err != nil {
				e.renderError(w, r, Classify(err))
				return
			}
			step.servePost(e, w, r, j)
			return
		}
		step.serveGet(e, w, r, j)
	}
}

// links are the navigation links every step view carries.
type links struct {
	Back   string `json:"back"`
	Cancel string `json:"cancel"`
	Action string `json:"action"`
}

func (e *Engine) links(r *http.Request, step navigation.StepID, j *journey.Journey) (links, error) {
	back, err := e.resolver.Back(step, j)
	if err != nil {
		return links{}, err
	}
	flow, err := e.resolver.Flow(j.Kind)
	if err != nil {
		return links{}, err
	}
	base := strings.TrimRight(flow.Base(j), "/")
	return links{Back: back, Cancel: paths.Cancel(base, j.ID), Action: r.URL.Path}, nil
}
