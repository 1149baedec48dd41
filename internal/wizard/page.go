package wizard

import (
	"context"
	"errors"
	"net/http"

	"contacts/internal/form"
	"contacts/internal/journey"
	"contacts/internal/navigation"
	"contacts/pkg/platform/httputil"
	"contacts/pkg/requestcontext"

	dErrors "contacts/pkg/domain-errors"
)

// Outcome is where a page-specific action sends the user.
type Outcome int

const (
	// Stay redisplays the same step.
	Stay Outcome = iota
	// Advance continues to the resolver's next step.
	Advance
)

// ErrUnknownAction is returned by an action handler for buttons it does not own.
var ErrUnknownAction = errors.New("unknown form action")

// Page is a step that edits one slice of a payload of type P through a form
// of type F.
//
// On POST the buttons are dispatched before validation: add/remove row
// buttons edit the submitted rows and redisplay the page without touching
// the journey; other named buttons go to Action. A plain submission is
// validated; failures redisplay the page with the submitted values and
// ordered errors, and success applies the form, saves and moves on.
type Page[P journey.Payload, F any] struct {
	ID navigation.StepID
	// View names the page for the renderer; defaults to ID.
	View string
	// Prefill builds the form from the saved answers.
	Prefill func(p P) F
	// Apply merges a valid form into the payload. Returning form.FieldErrors
	// is treated as a validation failure.
	Apply func(ctx context.Context, j *journey.Journey, p P, f *F) error
	// Rows applies add/remove row buttons to the form. Nil for pages without
	// repeated rows.
	Rows func(f *F, a form.Action)
	// Action handles page-specific buttons.
	Action func(ctx context.Context, j *journey.Journey, p P, a form.Action) (Outcome, error)
	// Data loads what the page shows besides the form, such as reference
	// codes or search results.
	Data func(ctx context.Context, j *journey.Journey, p P) (any, error)
}

func (pg *Page[P, F]) StepID() navigation.StepID {
	return pg.ID
}

// PageView is the model every step page is rendered with.
type PageView struct {
	Kind              journey.Kind     `json:"kind"`
	Mode              journey.Mode     `json:"mode"`
	JourneyID         string           `json:"journeyId"`
	Step              string           `json:"step"`
	IsCheckingAnswers bool             `json:"isCheckingAnswers"`
	Links             links            `json:"links"`
	Form              any              `json:"form"`
	Errors            form.FieldErrors `json:"errors,omitempty"`
	Data              any              `json:"data,omitempty"`
}

func (pg *Page[P, F]) view() string {
	if pg.View != "" {
		return pg.View
	}
	return string(pg.ID)
}

func (pg *Page[P, F]) serveGet(e *Engine, w http.ResponseWriter, r *http.Request, j *journey.Journey) {
	ctx := r.Context()
	p, err := journey.PayloadAs[P](j)
	if err != nil {
		e.fail(w, r, err, "journey payload mismatch")
		return
	}

	var (
		f    F
		errs form.FieldErrors
	)
	fl, err := e.flasher.Take(ctx, r.URL.Path)
	if err != nil {
		e.fail(w, r, err, "failed to read flash")
		return
	}
	if fl != nil {
		if err := fl.Into(&f); err != nil {
			e.fail(w, r, err, "failed to read flash")
			return
		}
		errs = fl.Errors
	} else if pg.Prefill != nil {
		f = pg.Prefill(p)
	}

	var data any
	if pg.Data != nil {
		if data, err = pg.Data(ctx, j, p); err != nil {
			e.fail(w, r, err, "failed to load page data")
			return
		}
	}

	l, err := e.links(r, pg.ID, j)
	if err != nil {
		e.fail(w, r, err, "failed to resolve links")
		return
	}
	e.renderer.Render(w, r, http.StatusOK, pg.view(), PageView{
		Kind:              j.Kind,
		Mode:              j.Mode,
		JourneyID:         j.ID,
		Step:              string(pg.ID),
		IsCheckingAnswers: j.IsCheckingAnswers,
		Links:             l,
		Form:              f,
		Errors:            errs,
		Data:              data,
	})
}

func (pg *Page[P, F]) servePost(e *Engine, w http.ResponseWriter, r *http.Request, j *journey.Journey) {
	ctx := r.Context()
	p, err := journey.PayloadAs[P](j)
	if err != nil {
		e.fail(w, r, err, "journey payload mismatch")
		return
	}

	var f F
	if err := form.Decode(r.PostForm, &f); err != nil {
		e.fail(w, r, err, "failed to decode form")
		return
	}

	action := form.ParseAction(r.PostForm)
	switch {
	case action.IsRowAction() && pg.Rows != nil:
		pg.Rows(&f, action)
		e.redisplay(w, r, &f, nil)
		return
	case !action.IsContinue():
		pg.serveAction(e, w, r, j, p, action)
		return
	}

	errs, err := form.Validate(&f)
	if err != nil {
		e.fail(w, r, err, "failed to validate form")
		return
	}
	if len(errs) > 0 {
		e.invalid(w, r, j, pg.ID, &f, errs)
		return
	}

	if pg.Apply != nil {
		if err := pg.Apply(ctx, j, p, &f); err != nil {
			var ferrs form.FieldErrors
			if errors.As(err, &ferrs) {
				e.invalid(w, r, j, pg.ID, &f, ferrs)
				return
			}
			e.fail(w, r, err, "failed to apply answers")
			return
		}
	}
	if !e.save(w, r, j) {
		return
	}
	e.redirectNext(w, r, pg.ID, j)
}

func (pg *Page[P, F]) serveAction(e *Engine, w http.ResponseWriter, r *http.Request, j *journey.Journey, p P, a form.Action) {
	if pg.Action == nil {
		e.renderError(w, r, dErrors.New(dErrors.CodeBadRequest, "Unknown action"))
		return
	}
	outcome, err := pg.Action(r.Context(), j, p, a)
	if err != nil {
		if errors.Is(err, ErrUnknownAction) {
			e.renderError(w, r, dErrors.New(dErrors.CodeBadRequest, "Unknown action"))
			return
		}
		e.fail(w, r, err, "failed to apply action")
		return
	}
	if !e.save(w, r, j) {
		return
	}
	if outcome == Advance {
		e.redirectNext(w, r, pg.ID, j)
		return
	}
	httputil.SeeOther(w, r, r.URL.Path)
}

// invalid records a validation failure and redisplays the step. The journey
// is not written.
func (e *Engine) invalid(w http.ResponseWriter, r *http.Request, j *journey.Journey, step navigation.StepID, f any, errs form.FieldErrors) {
	e.metrics.IncrementValidationFailure(string(j.Kind), string(step))
	e.logger.DebugContext(r.Context(), "step validation failed",
		"kind", j.Kind,
		"step", step,
		"fields", len(errs),
		"request_id", requestcontext.RequestID(r.Context()),
	)
	e.redisplay(w, r, f, errs)
}

// redisplay carries the submitted form to the next GET of the same path.
func (e *Engine) redisplay(w http.ResponseWriter, r *http.Request, f any, errs form.FieldErrors) {
	if err := e.flasher.Put(r.Context(), r.URL.Path, f, errs); err != nil {
		e.fail(w, r, err, "failed to store flash")
		return
	}
	httputil.SeeOther(w, r, r.URL.Path)
}
