package wizard

import (
	"context"
	"errors"
	"net/http"
	"time"

	"contacts/internal/contactsapi"
	"contacts/internal/form"
	"contacts/internal/journey"
	"contacts/internal/navigation"
	"contacts/internal/paths"
	"contacts/pkg/platform/httputil"
	"contacts/pkg/requestcontext"

	dErrors "contacts/pkg/domain-errors"
)

// CheckAnswers is the terminal step. Showing it switches the journey into
// checking-answers mode; submitting it commits the journey.
type CheckAnswers[P journey.Payload] struct {
	ID navigation.StepID
	// View names the page for the renderer; defaults to ID.
	View string
	// Summary builds what the page shows. Change links to every step are
	// added by the engine.
	Summary func(ctx context.Context, j *journey.Journey, p P) (any, error)
	// Action handles page buttons other than the commit, such as adding or
	// removing an entry of a list edited on this page.
	Action func(ctx context.Context, j *journey.Journey, p P, a form.Action) (Outcome, error)
	// Commit sends the journey to the API and returns where to go next.
	Commit func(ctx context.Context, j *journey.Journey, p P) (string, error)
	// ConflictName is the display name of the existing record when Commit
	// reports a duplicate relationship.
	ConflictName func(j *journey.Journey, p P, dup *contactsapi.DuplicateRelationshipError) string
}

func (c *CheckAnswers[P]) StepID() navigation.StepID {
	return c.ID
}

// CheckAnswersView is the model of the check-answers page.
type CheckAnswersView struct {
	Kind      journey.Kind      `json:"kind"`
	Mode      journey.Mode      `json:"mode"`
	JourneyID string            `json:"journeyId"`
	Links     links             `json:"links"`
	Change    map[string]string `json:"change"`
	Summary   any               `json:"summary"`
}

func (c *CheckAnswers[P]) serveGet(e *Engine, w http.ResponseWriter, r *http.Request, j *journey.Journey) {
	ctx := r.Context()
	p, err := journey.PayloadAs[P](j)
	if err != nil {
		e.fail(w, r, err, "journey payload mismatch")
		return
	}
	if !j.IsCheckingAnswers {
		j.IsCheckingAnswers = true
		if !e.save(w, r, j) {
			return
		}
	}

	var summary any
	if c.Summary != nil {
		if summary, err = c.Summary(ctx, j, p); err != nil {
			e.fail(w, r, err, "failed to build summary")
			return
		}
	}
	flow, err := e.resolver.Flow(j.Kind)
	if err != nil {
		e.fail(w, r, err, "unknown flow")
		return
	}
	change := make(map[string]string, len(flow.Steps))
	for _, s := range flow.Steps {
		if s.ID != c.ID {
			change[string(s.ID)] = flow.URL(j, s.ID)
		}
	}
	l, err := e.links(r, c.ID, j)
	if err != nil {
		e.fail(w, r, err, "failed to resolve links")
		return
	}

	view := c.View
	if view == "" {
		view = string(c.ID)
	}
	e.renderer.Render(w, r, http.StatusOK, view, CheckAnswersView{
		Kind:      j.Kind,
		Mode:      j.Mode,
		JourneyID: j.ID,
		Links:     l,
		Change:    change,
		Summary:   summary,
	})
}

func (c *CheckAnswers[P]) servePost(e *Engine, w http.ResponseWriter, r *http.Request, j *journey.Journey) {
	ctx := r.Context()
	p, err := journey.PayloadAs[P](j)
	if err != nil {
		e.fail(w, r, err, "journey payload mismatch")
		return
	}

	if action := form.ParseAction(r.PostForm); !action.IsContinue() {
		if c.Action == nil {
			e.renderError(w, r, dErrors.New(dErrors.CodeBadRequest, "Unknown action"))
			return
		}
		outcome, err := c.Action(ctx, j, p, action)
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
			e.redirectNext(w, r, c.ID, j)
			return
		}
		httputil.SeeOther(w, r, r.URL.Path)
		return
	}

	e.commit(w, r, j, func(ctx context.Context) (string, error) { return c.Commit(ctx, j, p) }, func(dup *contactsapi.DuplicateRelationshipError) string {
		if c.ConflictName == nil {
			return ""
		}
		return c.ConflictName(j, p, dup)
	})
}

// commit runs the terminal action. A duplicate relationship moves the
// journey into conflict resolution with its payload unchanged; any other
// failure leaves the journey in place for a retry.
func (e *Engine) commit(w http.ResponseWriter, r *http.Request, j *journey.Journey,
	run func(ctx context.Context) (string, error),
	conflictName func(dup *contactsapi.DuplicateRelationshipError) string,
) {
	ctx := r.Context()
	start := time.Now()
	target, err := run(ctx)

	var dup *contactsapi.DuplicateRelationshipError
	switch {
	case errors.As(err, &dup):
		e.metrics.ObserveCommitLatency(string(j.Kind), "duplicate", time.Since(start))
		e.metrics.IncrementConflict(string(j.Kind))
		e.logger.InfoContext(ctx, "commit rejected as duplicate relationship",
			"kind", j.Kind,
			"journey_id", j.ID,
			"existing_relationship_id", dup.RelationshipID,
			"request_id", requestcontext.RequestID(ctx),
		)
		j.Conflict = &journey.Conflict{
			RelationshipID: dup.RelationshipID,
			ContactID:      dup.ContactID,
			PrisonerNumber: dup.PrisonerNumber,
			DisplayName:    conflictName(dup),
		}
		if ps, ok := j.Payload.(journey.PrisonerScoped); ok && j.Conflict.PrisonerNumber == "" {
			j.Conflict.PrisonerNumber = ps.Prisoner()
		}
		if !e.save(w, r, j) {
			return
		}
		httputil.SeeOther(w, r, paths.Conflict(string(j.Kind), j.ID))

	case err != nil:
		e.metrics.ObserveCommitLatency(string(j.Kind), "error", time.Since(start))
		e.fail(w, r, err, "failed to commit journey")

	default:
		e.metrics.ObserveCommitLatency(string(j.Kind), "ok", time.Since(start))
		if err := e.store.Delete(ctx, j.Kind, j.ID); err != nil {
			e.logger.WarnContext(ctx, "failed to delete committed journey",
				"kind", j.Kind, "journey_id", j.ID, "error", err, "request_id", requestcontext.RequestID(ctx))
		}
		e.metrics.IncrementCompleted(string(j.Kind), string(j.Mode))
		e.logger.InfoContext(ctx, "journey completed",
			"kind", j.Kind,
			"mode", j.Mode,
			"journey_id", j.ID,
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.SeeOther(w, r, target)
	}
}
