// Package relationship is the wizard that edits how a contact is related to
// a prisoner, or moves the relationship to a different contact.
package relationship

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/sync/errgroup"

	"contacts/internal/contactsapi"
	"contacts/internal/domain"
	"contacts/internal/journey"
	"contacts/internal/navigation"
	"contacts/internal/paths"
	"contacts/internal/wizard"
	"contacts/internal/wizards/steps"
	"contacts/pkg/requestcontext"

	dErrors "contacts/pkg/domain-errors"
)

const Pattern = "/prisoner/{prisonerNumber}/contacts/manage/{contactId}/relationship/{relationshipId}/edit"

const (
	StepType         navigation.StepID = "relationship-type"
	StepCode         navigation.StepID = "select-relationship"
	StepSearch       navigation.StepID = "search"
	StepMatch        navigation.StepID = "contact-match"
	StepCheckAnswers navigation.StepID = "check-answers"
)

func payload(j *journey.Journey) *journey.Relationship {
	p, err := journey.PayloadAs[*journey.Relationship](j)
	if err != nil {
		return &journey.Relationship{}
	}
	return p
}

func changingContact(j *journey.Journey) bool {
	return j.Mode == journey.ModeChangeRelatedContact
}

func NewFlow() *navigation.Flow {
	return &navigation.Flow{
		Kind: journey.KindRelationship,
		Base: func(j *journey.Journey) string {
			p := payload(j)
			return paths.Relationship(p.PrisonerNumber, p.ContactID, p.RelationshipID)
		},
		First: func(j *journey.Journey) navigation.StepID {
			if changingContact(j) {
				return StepSearch
			}
			return StepType
		},
		CheckAnswers: StepCheckAnswers,
		Steps: []navigation.Step{
			{ID: StepType, Detour: true, Next: navigation.To(StepCode)},
			{ID: StepCode, Next: navigation.To(StepCheckAnswers), Prev: navigation.To(StepType)},
			{
				ID:     StepSearch,
				Detour: true,
				Next: func(j *journey.Journey) navigation.StepID {
					if payload(j).NewContact.ContactID != 0 {
						return StepMatch
					}
					return StepSearch
				},
			},
			{
				ID:     StepMatch,
				Detour: true,
				Next: func(j *journey.Journey) navigation.StepID {
					if payload(j).NewContact.Confirmed {
						return StepCheckAnswers
					}
					return StepSearch
				},
				Prev: navigation.To(StepSearch),
			},
			{
				ID: StepCheckAnswers,
				Prev: func(j *journey.Journey) navigation.StepID {
					if changingContact(j) {
						return StepMatch
					}
					return StepCode
				},
			},
		},
	}
}

func beginner(client contactsapi.Client) func(r *http.Request) (wizard.Beginning, error) {
	return func(r *http.Request) (wizard.Beginning, error) {
		mode := journey.Mode(r.URL.Query().Get("mode"))
		switch mode {
		case "":
			mode = journey.ModeEditRelationshipType
		case journey.ModeEditRelationshipType, journey.ModeChangeRelatedContact:
		default:
			return wizard.Beginning{}, dErrors.New(dErrors.CodeBadRequest, "Unknown mode")
		}
		route, err := steps.ContactRouteOf(r)
		if err != nil {
			return wizard.Beginning{}, err
		}

		var (
			contact *domain.Contact
			rel     *domain.PrisonerContact
		)
		g, ctx := errgroup.WithContext(r.Context())
		g.Go(func() (err error) {
			contact, err = client.GetContact(ctx, route.ContactID)
			return err
		})
		g.Go(func() (err error) {
			rel, err = client.GetRelationship(ctx, route.RelationshipID)
			return err
		})
		if err := g.Wait(); err != nil {
			return wizard.Beginning{}, fmt.Errorf("loading relationship %d: %w", route.RelationshipID, err)
		}
		if rel.ContactID != route.ContactID || rel.PrisonerNumber != route.PrisonerNumber {
			return wizard.Beginning{}, dErrors.New(dErrors.CodeNotFound, "Relationship not found")
		}

		return wizard.Beginning{
			Mode: mode,
			Payload: &journey.Relationship{
				PrisonerNumber: route.PrisonerNumber,
				ContactID:      route.ContactID,
				RelationshipID: route.RelationshipID,
				ContactName:    contact.FullName(),
				Relationship:   steps.AnswersOf(*rel),
			},
			ReturnPoint: paths.ContactDetails(route.PrisonerNumber, route.ContactID, route.RelationshipID),
		}, nil
	}
}

func New(flow *navigation.Flow, client contactsapi.Client) (*wizard.Wizard, error) {
	answers := func(p *journey.Relationship) *journey.RelationshipAnswers { return &p.Relationship }
	match := func(p *journey.Relationship) *journey.ContactMatch { return &p.NewContact }

	return wizard.NewWizard(flow, Pattern, beginner(client),
		steps.RelationshipTypePage(StepType, answers),
		steps.RelationshipCodePage(StepCode, answers, client),
		steps.SearchPage(StepSearch, func(p *journey.Relationship) *journey.ContactSearch { return &p.Search }, match, client),
		steps.ContactMatchPage(StepMatch, match, client),
		&wizard.CheckAnswers[*journey.Relationship]{
			ID: StepCheckAnswers,
			Summary: func(_ context.Context, _ *journey.Journey, p *journey.Relationship) (any, error) {
				return p, nil
			},
			Commit: func(ctx context.Context, j *journey.Journey, p *journey.Relationship) (string, error) {
				return commit(ctx, client, j, p)
			},
			ConflictName: func(j *journey.Journey, p *journey.Relationship, _ *contactsapi.DuplicateRelationshipError) string {
				if changingContact(j) {
					return p.NewContact.Name
				}
				return p.ContactName
			},
		},
	)
}

func commit(ctx context.Context, client contactsapi.Client, j *journey.Journey, p *journey.Relationship) (string, error) {
	req := contactsapi.UpdateRelationshipRequest{UpdatedBy: requestcontext.Username(ctx)}
	contactID := p.ContactID
	if changingContact(j) {
		if !p.NewContact.Confirmed {
			return "", dErrors.New(dErrors.CodeBadRequest, "No contact selected")
		}
		contactID = p.NewContact.ContactID
		req.ContactID = &contactID
	} else {
		req.RelationshipType = &p.Relationship.Type
		req.RelationshipCode = &p.Relationship.Code
	}
	if err := client.UpdateRelationship(ctx, p.RelationshipID, req); err != nil {
		return "", fmt.Errorf("updating relationship %d: %w", p.RelationshipID, err)
	}
	return paths.ContactDetails(p.PrisonerNumber, contactID, p.RelationshipID), nil
}
