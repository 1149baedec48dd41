package wizard

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"contacts/internal/form"
	"contacts/internal/journey"
	"contacts/internal/paths"
	"contacts/pkg/platform/httputil"
	"contacts/pkg/requestcontext"
)

// Conflict resolution choices.
const (
	ChoiceExisting = "existing"
	ChoiceList     = "list"
)

type conflictForm struct {
	Choice string `form:"choice" validate:"required,oneof=existing list" msg:"Select whether to view the existing record or go to the contact list"`
}

// ConflictView is the model of the conflict page.
type ConflictView struct {
	Kind        journey.Kind     `json:"kind"`
	JourneyID   string           `json:"journeyId"`
	DisplayName string           `json:"displayName"`
	Existing    string           `json:"existing"`
	List        string           `json:"list"`
	Form        conflictForm     `json:"form"`
	Errors      form.FieldErrors `json:"errors,omitempty"`
	Action      string           `json:"action"`
}

// loadConflict fetches a journey that is in conflict resolution. Journeys
// that are missing or not in conflict answer 404.
func (e *Engine) loadConflict(w http.ResponseWriter, r *http.Request) *journey.Journey {
	kind := journey.Kind(chi.URLParam(r, "kind"))
	if !kind.Valid() {
		e.notFound(w, r)
		return nil
	}
	j, err := e.store.Get(r.Context(), kind, chi.URLParam(r, "journeyId"))
	if err != nil {
		if errors.Is(err, journey.ErrNotFound) {
			e.notFound(w, r)
			return nil
		}
		e.fail(w, r, err, "failed to load journey")
		return nil
	}
	if j.Conflict == nil {
		e.notFound(w, r)
		return nil
	}
	return j
}

func (e *Engine) handleConflictGet(w http.ResponseWriter, r *http.Request) {
	j := e.loadConflict(w, r)
	if j == nil {
		return
	}
	view := ConflictView{
		Kind:        j.Kind,
		JourneyID:   j.ID,
		DisplayName: j.Conflict.DisplayName,
		Existing:    paths.ContactDetails(j.Conflict.PrisonerNumber, j.Conflict.ContactID, j.Conflict.RelationshipID),
		List:        paths.ContactList(j.Conflict.PrisonerNumber),
		Action:      r.URL.Path,
	}
	fl, err := e.flasher.Take(r.Context(), r.URL.Path)
	if err != nil {
		e.fail(w, r, err, "failed to read flash")
		return
	}
	if fl != nil {
		if err := fl.Into(&view.Form); err != nil {
			e.fail(w, r, err, "failed to read flash")
			return
		}
		view.Errors = fl.Errors
	}
	e.renderer.Render(w, r, http.StatusOK, "conflict", view)
}

// handleConflictPost discards the journey and goes where the user chose.
// There is no default: a submission without a choice is a validation error.
func (e *Engine) handleConflictPost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	j := e.loadConflict(w, r)
	if j == nil {
		return
	}
	if err := parseForm(w, r); err != nil {
		e.renderError(w, r, Classify(err))
		return
	}

	var f conflictForm
	if err := form.Decode(r.PostForm, &f); err != nil {
		e.fail(w, r, err, "failed to decode form")
		return
	}
	errs, err := form.Validate(&f)
	if err != nil {
		e.fail(w, r, err, "failed to validate form")
		return
	}
	if len(errs) > 0 {
		e.metrics.IncrementValidationFailure(string(j.Kind), "conflict")
		e.redisplay(w, r, &f, errs)
		return
	}

	if err := e.store.Delete(ctx, j.Kind, j.ID); err != nil {
		e.fail(w, r, err, "failed to delete journey")
		return
	}
	e.metrics.IncrementConflictChoice(string(j.Kind), f.Choice)
	e.logger.InfoContext(ctx, "conflict resolved",
		"kind", j.Kind,
		"journey_id", j.ID,
		"choice", f.Choice,
		"request_id", requestcontext.RequestID(ctx),
	)

	c := j.Conflict
	if f.Choice == ChoiceExisting {
		httputil.SeeOther(w, r, paths.ContactDetails(c.PrisonerNumber, c.ContactID, c.RelationshipID))
		return
	}
	httputil.SeeOther(w, r, paths.ContactList(c.PrisonerNumber))
}
