// Package employments is the wizard that edits a contact's employments. The
// list page doubles as check answers: entries are added, changed and removed
// locally through a sub-flow and the whole list is sent in one commit.
package employments

import (
	"context"
	"fmt"
	"net/http"
	"slices"

	"contacts/internal/contactsapi"
	"contacts/internal/domain"
	"contacts/internal/form"
	"contacts/internal/journey"
	"contacts/internal/navigation"
	"contacts/internal/paths"
	"contacts/internal/wizard"
	"contacts/internal/wizards/steps"
	"contacts/pkg/requestcontext"
)

const Pattern = "/contacts/manage/{contactId}/update-employments"

const (
	StepEmployments   navigation.StepID = "employments"
	StepSearch        navigation.StepID = "organisation-search"
	StepCheckEmployer navigation.StepID = "check-employer"
	StepStatus        navigation.StepID = "employment-status"
)

// Actions on the list page.
const (
	ActionAdd    = "add-employment"
	ActionChange = "change"
	ActionDelete = "delete"
)

func payload(j *journey.Journey) *journey.Employments {
	p, err := journey.PayloadAs[*journey.Employments](j)
	if err != nil {
		return &journey.Employments{}
	}
	return p
}

func NewFlow() *navigation.Flow {
	return &navigation.Flow{
		Kind:         journey.KindUpdateEmployments,
		Base:         func(j *journey.Journey) string { return paths.UpdateEmployments(payload(j).ContactID) },
		First:        navigation.To(StepEmployments),
		CheckAnswers: StepEmployments,
		Steps: []navigation.Step{
			{ID: StepEmployments, Next: navigation.To(StepSearch)},
			{
				ID:     StepSearch,
				Detour: true,
				Next: func(j *journey.Journey) navigation.StepID {
					if d := payload(j).Draft; d != nil && d.Organisation != nil {
						return StepCheckEmployer
					}
					return StepSearch
				},
				Prev: navigation.To(navigation.Return),
			},
			{
				ID:     StepCheckEmployer,
				Detour: true,
				Next: func(j *journey.Journey) navigation.StepID {
					if d := payload(j).Draft; d != nil && d.Organisation != nil {
						return StepStatus
					}
					return StepSearch
				},
				Prev: navigation.To(StepSearch),
			},
			{ID: StepStatus, Next: navigation.To(navigation.Return), Prev: navigation.To(StepCheckEmployer)},
		},
	}
}

func beginner(client contactsapi.Client) func(r *http.Request) (wizard.Beginning, error) {
	return func(r *http.Request) (wizard.Beginning, error) {
		contactID, err := steps.IDParam(r, "contactId")
		if err != nil {
			return wizard.Beginning{}, err
		}
		contact, err := client.GetContact(r.Context(), contactID)
		if err != nil {
			return wizard.Beginning{}, fmt.Errorf("loading contact %d: %w", contactID, err)
		}
		p := &journey.Employments{
			ContactID:      contactID,
			ContactName:    contact.FullName(),
			PrisonerNumber: r.URL.Query().Get("prisonerNumber"),
		}
		for _, e := range contact.Employments {
			p.Employments = append(p.Employments, journey.EmploymentEntry{ID: e.ID, Organisation: e.Organisation, IsActive: e.IsActive})
			p.OriginalIDs = append(p.OriginalIDs, e.ID)
		}
		return wizard.Beginning{
			Mode:            journey.ModeEditEmployments,
			Payload:         p,
			ReturnPoint:     paths.Contact(contactID),
			CheckingAnswers: true,
		}, nil
	}
}

// draft is the employment being entered. Opening a sub-flow page without
// one starts a new employment.
func draft(p *journey.Employments) *journey.EmploymentDraft {
	if p.Draft == nil {
		p.Draft = &journey.EmploymentDraft{Index: -1}
	}
	return p.Draft
}

func listAction(flow *navigation.Flow) func(context.Context, *journey.Journey, *journey.Employments, form.Action) (wizard.Outcome, error) {
	return func(_ context.Context, j *journey.Journey, p *journey.Employments, a form.Action) (wizard.Outcome, error) {
		switch a.Name {
		case ActionAdd:
			p.Draft = &journey.EmploymentDraft{Index: -1}
			p.Enter(flow.URL(j, StepEmployments))
			return wizard.Advance, nil
		case ActionChange:
			if a.Index < 0 || a.Index >= len(p.Employments) {
				return wizard.Stay, nil
			}
			e := p.Employments[a.Index]
			org := e.Organisation
			p.Draft = &journey.EmploymentDraft{Index: a.Index, SearchTerm: org.Name, Organisation: &org, IsActive: &e.IsActive}
			p.Enter(flow.URL(j, StepEmployments))
			return wizard.Advance, nil
		case ActionDelete:
			if a.Index >= 0 && a.Index < len(p.Employments) {
				p.Employments = slices.Delete(slices.Clone(p.Employments), a.Index, a.Index+1)
			}
			return wizard.Stay, nil
		}
		return wizard.Stay, wizard.ErrUnknownAction
	}
}

type SearchForm struct {
	Term string `form:"organisationName" validate:"required,max=100" msg-required:"Enter the name of the employer" msg-max:"Employer name must be 100 characters or less"`
}

func searchPage(client contactsapi.Client) *wizard.Page[*journey.Employments, SearchForm] {
	return &wizard.Page[*journey.Employments, SearchForm]{
		ID: StepSearch,
		Prefill: func(p *journey.Employments) SearchForm {
			return SearchForm{Term: draft(p).SearchTerm}
		},
		Apply: func(_ context.Context, _ *journey.Journey, p *journey.Employments, f *SearchForm) error {
			d := draft(p)
			d.SearchTerm = f.Term
			d.Organisation = nil
			return nil
		},
		Action: func(ctx context.Context, _ *journey.Journey, p *journey.Employments, a form.Action) (wizard.Outcome, error) {
			if a.Name != steps.ActionSelect || a.Index <= 0 {
				return wizard.Stay, wizard.ErrUnknownAction
			}
			org, err := client.GetOrganisation(ctx, int64(a.Index))
			if err != nil {
				return wizard.Stay, fmt.Errorf("selecting organisation %d: %w", a.Index, err)
			}
			draft(p).Organisation = org
			return wizard.Advance, nil
		},
		Data: func(ctx context.Context, _ *journey.Journey, p *journey.Employments) (any, error) {
			term := draft(p).SearchTerm
			if term == "" {
				return map[string]any{"organisations": []domain.Organisation{}}, nil
			}
			orgs, err := client.SearchOrganisations(ctx, term)
			if err != nil {
				return nil, err
			}
			return map[string]any{"organisations": orgs, "searched": true}, nil
		},
	}
}

type CheckEmployerForm struct {
	IsEmployer string `form:"isCorrectEmployer" validate:"required,yesno" msg:"Select whether this is the correct employer"`
}

func checkEmployerPage() *wizard.Page[*journey.Employments, CheckEmployerForm] {
	return &wizard.Page[*journey.Employments, CheckEmployerForm]{
		ID: StepCheckEmployer,
		Apply: func(_ context.Context, _ *journey.Journey, p *journey.Employments, f *CheckEmployerForm) error {
			if f.IsEmployer == steps.No {
				draft(p).Organisation = nil
			}
			return nil
		},
		Data: func(_ context.Context, _ *journey.Journey, p *journey.Employments) (any, error) {
			return map[string]any{"organisation": draft(p).Organisation}, nil
		},
	}
}

type StatusForm struct {
	IsActive string `form:"isActive" validate:"required,oneof=ACTIVE INACTIVE" msg:"Select whether the employment is active or inactive"`
}

const (
	statusActive   = "ACTIVE"
	statusInactive = "INACTIVE"
)

func statusPage() *wizard.Page[*journey.Employments, StatusForm] {
	return &wizard.Page[*journey.Employments, StatusForm]{
		ID: StepStatus,
		Prefill: func(p *journey.Employments) StatusForm {
			switch d := draft(p); {
			case d.IsActive == nil:
				return StatusForm{}
			case *d.IsActive:
				return StatusForm{IsActive: statusActive}
			default:
				return StatusForm{IsActive: statusInactive}
			}
		},
		Apply: func(_ context.Context, _ *journey.Journey, p *journey.Employments, f *StatusForm) error {
			d := draft(p)
			if d.Organisation == nil {
				return form.FieldErrors{form.Err("isActive", "Select an employer first")}
			}
			entry := journey.EmploymentEntry{Organisation: *d.Organisation, IsActive: f.IsActive == statusActive}
			if d.Index >= 0 && d.Index < len(p.Employments) {
				entry.ID = p.Employments[d.Index].ID
				p.Employments[d.Index] = entry
			} else {
				p.Employments = append(p.Employments, entry)
			}
			p.Draft = nil
			return nil
		},
	}
}

func New(flow *navigation.Flow, client contactsapi.Client) (*wizard.Wizard, error) {
	return wizard.NewWizard(flow, Pattern, beginner(client),
		&wizard.CheckAnswers[*journey.Employments]{
			ID: StepEmployments,
			Summary: func(_ context.Context, _ *journey.Journey, p *journey.Employments) (any, error) {
				return p, nil
			},
			Action: listAction(flow),
			Commit: func(ctx context.Context, j *journey.Journey, p *journey.Employments) (string, error) {
				if err := client.UpdateEmployments(ctx, p.ContactID, Changes(p, requestcontext.Username(ctx))); err != nil {
					return "", fmt.Errorf("updating employments of contact %d: %w", p.ContactID, err)
				}
				return j.ReturnPoint, nil
			},
		},
		searchPage(client),
		checkEmployerPage(),
		statusPage(),
	)
}

// Changes diffs the edited list against the employments the contact had
// when the journey started.
func Changes(p *journey.Employments, user string) contactsapi.EmploymentsRequest {
	req := contactsapi.EmploymentsRequest{
		Created:   []contactsapi.EmploymentChange{},
		Updated:   []contactsapi.EmploymentChange{},
		Deleted:   []int64{},
		UpdatedBy: user,
	}
	kept := make(map[int64]bool, len(p.Employments))
	for _, e := range p.Employments {
		change := contactsapi.EmploymentChange{EmploymentID: e.ID, OrganisationID: e.Organisation.ID, IsActive: e.IsActive}
		if e.ID == 0 {
			req.Created = append(req.Created, change)
			continue
		}
		kept[e.ID] = true
		req.Updated = append(req.Updated, change)
	}
	for _, id := range p.OriginalIDs {
		if !kept[id] {
			req.Deleted = append(req.Deleted, id)
		}
	}
	return req
}
