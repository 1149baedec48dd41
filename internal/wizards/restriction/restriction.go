// Package restriction is the wizard that adds a restriction either to a
// prisoner-contact relationship or to a contact everywhere.
package restriction

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"contacts/internal/contactsapi"
	"contacts/internal/form"
	"contacts/internal/journey"
	"contacts/internal/navigation"
	"contacts/internal/paths"
	"contacts/internal/wizard"
	"contacts/internal/wizards/steps"
	"contacts/pkg/requestcontext"

	dErrors "contacts/pkg/domain-errors"
)

const Pattern = "/prisoner/{prisonerNumber}/contacts/manage/{contactId}/relationship/{relationshipId}/restriction/add/{restrictionClass}"

const (
	StepEnter        navigation.StepID = "enter-restriction"
	StepCheckAnswers navigation.StepID = "check-answers"
)

func payload(j *journey.Journey) *journey.Restriction {
	p, err := journey.PayloadAs[*journey.Restriction](j)
	if err != nil {
		return &journey.Restriction{}
	}
	return p
}

func NewFlow() *navigation.Flow {
	return &navigation.Flow{
		Kind: journey.KindRestriction,
		Base: func(j *journey.Journey) string {
			p := payload(j)
			return paths.Restriction(p.PrisonerNumber, p.ContactID, p.RelationshipID, string(j.Mode))
		},
		First:        navigation.To(StepEnter),
		CheckAnswers: StepCheckAnswers,
		Steps: []navigation.Step{
			{ID: StepEnter, Next: navigation.To(StepCheckAnswers)},
			{ID: StepCheckAnswers, Prev: navigation.To(StepEnter)},
		},
	}
}

func beginner(client contactsapi.Client) func(r *http.Request) (wizard.Beginning, error) {
	return func(r *http.Request) (wizard.Beginning, error) {
		mode := journey.Mode(chi.URLParam(r, "restrictionClass"))
		if mode != journey.ModePrisonerContactRestriction && mode != journey.ModeContactGlobalRestriction {
			return wizard.Beginning{}, dErrors.New(dErrors.CodeNotFound, "Not found")
		}
		route, err := steps.ContactRouteOf(r)
		if err != nil {
			return wizard.Beginning{}, err
		}
		contact, err := client.GetContact(r.Context(), route.ContactID)
		if err != nil {
			return wizard.Beginning{}, fmt.Errorf("loading contact %d: %w", route.ContactID, err)
		}
		return wizard.Beginning{
			Mode: mode,
			Payload: &journey.Restriction{
				PrisonerNumber: route.PrisonerNumber,
				ContactID:      route.ContactID,
				RelationshipID: route.RelationshipID,
				ContactName:    contact.FullName(),
			},
			ReturnPoint: paths.ContactDetails(route.PrisonerNumber, route.ContactID, route.RelationshipID),
		}, nil
	}
}

type RestrictionForm struct {
	Type     string         `form:"type" validate:"required,max=12" msg:"Select the restriction type"`
	Start    form.DateParts `form:"startDate"`
	Expiry   form.DateParts `form:"expiryDate"`
	Comments string         `form:"comments" validate:"max=255" msg:"Comments must be 255 characters or less"`
}

// Check requires a start date and an expiry date, if given, on or after it.
func (f *RestrictionForm) Check() form.FieldErrors {
	errs := f.Start.Check("startDate", true, "restriction start date")
	errs = append(errs, f.Expiry.Check("expiryDate", false, "restriction expiry date")...)
	if len(errs) > 0 {
		return errs
	}
	start, _ := f.Start.Date()
	if expiry, ok := f.Expiry.Date(); ok && expiry.Before(start) {
		return form.FieldErrors{form.Err("expiryDate.day", "The restriction expiry date must be on or after the start date")}
	}
	return nil
}

func enterPage(client contactsapi.Client) *wizard.Page[*journey.Restriction, RestrictionForm] {
	return &wizard.Page[*journey.Restriction, RestrictionForm]{
		ID: StepEnter,
		Prefill: func(p *journey.Restriction) RestrictionForm {
			return RestrictionForm{
				Type:     p.Type,
				Start:    form.DatePartsOf(p.StartDate),
				Expiry:   form.DatePartsOf(p.ExpiryDate),
				Comments: p.Comments,
			}
		},
		Apply: func(_ context.Context, _ *journey.Journey, p *journey.Restriction, f *RestrictionForm) error {
			p.Type = f.Type
			p.StartDate = form.OptionalDate(f.Start.Date())
			p.ExpiryDate = form.OptionalDate(f.Expiry.Date())
			p.Comments = f.Comments
			return nil
		},
		Data: func(ctx context.Context, _ *journey.Journey, p *journey.Restriction) (any, error) {
			types, err := client.ReferenceCodes(ctx, contactsapi.GroupRestrictionType)
			if err != nil {
				return nil, err
			}
			return map[string]any{"types": types, "contactName": p.ContactName}, nil
		},
	}
}

func New(flow *navigation.Flow, client contactsapi.Client) (*wizard.Wizard, error) {
	return wizard.NewWizard(flow, Pattern, beginner(client),
		enterPage(client),
		&wizard.CheckAnswers[*journey.Restriction]{
			ID: StepCheckAnswers,
			Summary: func(_ context.Context, _ *journey.Journey, p *journey.Restriction) (any, error) {
				return p, nil
			},
			Commit: func(ctx context.Context, j *journey.Journey, p *journey.Restriction) (string, error) {
				return commit(ctx, client, j, p)
			},
		},
	)
}

func commit(ctx context.Context, client contactsapi.Client, j *journey.Journey, p *journey.Restriction) (string, error) {
	if p.StartDate == nil {
		return "", dErrors.New(dErrors.CodeBadRequest, "Restriction start date missing")
	}
	req := contactsapi.RestrictionRequest{
		Type:       p.Type,
		StartDate:  *p.StartDate,
		ExpiryDate: p.ExpiryDate,
		Comments:   p.Comments,
		CreatedBy:  requestcontext.Username(ctx),
	}
	var err error
	if j.Mode == journey.ModeContactGlobalRestriction {
		err = client.CreateContactRestriction(ctx, p.ContactID, req)
	} else {
		err = client.CreatePrisonerContactRestriction(ctx, p.RelationshipID, req)
	}
	if err != nil {
		return "", fmt.Errorf("adding %s restriction: %w", j.Mode, err)
	}
	return paths.ContactDetails(p.PrisonerNumber, p.ContactID, p.RelationshipID), nil
}
