// Package addcontact is the wizard that adds a contact to a prisoner, either
// by creating a new person or by linking a contact found by search.
package addcontact

import (
	"context"
	"fmt"
	"net/http"

	"cloud.google.com/go/civil"
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

// Pattern is the route the wizard is mounted under.
const Pattern = "/prisoner/{prisonerNumber}/contacts/create"

const (
	StepName             navigation.StepID = "enter-name"
	StepDateOfBirth      navigation.StepID = "enter-dob"
	StepSearch           navigation.StepID = "search"
	StepMatch            navigation.StepID = "contact-match"
	StepRelationshipType navigation.StepID = "relationship-type"
	StepRelationship     navigation.StepID = "select-relationship"
	StepEmergencyContact navigation.StepID = "emergency-contact-or-next-of-kin"
	StepApprovedVisitor  navigation.StepID = "approved-to-visit"
	StepComments         navigation.StepID = "relationship-comments"
	StepPhones           navigation.StepID = "phone-numbers"
	StepAddresses        navigation.StepID = "addresses"
	StepAddressType      navigation.StepID = "address-type"
	StepEnterAddress     navigation.StepID = "enter-address"
	StepAddressDates     navigation.StepID = "address-dates"
	StepAddressFlags     navigation.StepID = "address-flags"
	StepCheckAnswers     navigation.StepID = "check-answers"
)

// Actions on the addresses page.
const (
	ActionAddAddress    = "add-address"
	ActionRemoveAddress = "remove-address"
)

func payload(j *journey.Journey) *journey.AddContact {
	p, err := journey.PayloadAs[*journey.AddContact](j)
	if err != nil {
		return &journey.AddContact{}
	}
	return p
}

func isNew(j *journey.Journey) bool {
	return j.Mode != journey.ModeExistingContact
}

// NewFlow returns the add-contact step graph. New contacts go through name,
// date of birth, relationship, phones and addresses; existing contacts go
// through search and confirmation, then the relationship questions.
func NewFlow() *navigation.Flow {
	return &navigation.Flow{
		Kind: journey.KindAddContact,
		Base: func(j *journey.Journey) string { return paths.AddContact(payload(j).PrisonerNumber) },
		First: func(j *journey.Journey) navigation.StepID {
			if isNew(j) {
				return StepName
			}
			return StepSearch
		},
		CheckAnswers: StepCheckAnswers,
		Steps: []navigation.Step{
			{ID: StepName, Next: navigation.To(StepDateOfBirth)},
			{ID: StepDateOfBirth, Next: navigation.To(StepRelationshipType), Prev: navigation.To(StepName)},
			{
				ID:     StepSearch,
				Detour: true,
				Next: func(j *journey.Journey) navigation.StepID {
					if payload(j).Match.ContactID != 0 {
						return StepMatch
					}
					return StepSearch
				},
			},
			{
				ID:     StepMatch,
				Detour: true,
				Next: func(j *journey.Journey) navigation.StepID {
					switch {
					case !payload(j).Match.Confirmed:
						return StepSearch
					case j.IsCheckingAnswers:
						return StepCheckAnswers
					default:
						return StepRelationshipType
					}
				},
				Prev: navigation.To(StepSearch),
			},
			{
				ID:     StepRelationshipType,
				Detour: true,
				Next:   navigation.To(StepRelationship),
				Prev: func(j *journey.Journey) navigation.StepID {
					if isNew(j) {
						return StepDateOfBirth
					}
					return StepMatch
				},
			},
			{ID: StepRelationship, Next: navigation.To(StepEmergencyContact), Prev: navigation.To(StepRelationshipType)},
			{ID: StepEmergencyContact, Next: navigation.To(StepApprovedVisitor), Prev: navigation.To(StepRelationship)},
			{ID: StepApprovedVisitor, Next: navigation.To(StepComments), Prev: navigation.To(StepEmergencyContact)},
			{
				ID: StepComments,
				Next: func(j *journey.Journey) navigation.StepID {
					if isNew(j) {
						return StepPhones
					}
					return StepCheckAnswers
				},
				Prev: navigation.To(StepApprovedVisitor),
			},
			{ID: StepPhones, Next: navigation.To(StepAddresses), Prev: navigation.To(StepComments)},
			{
				ID:     StepAddresses,
				Detour: true,
				Next: func(j *journey.Journey) navigation.StepID {
					if payload(j).AddressDraft != nil {
						return StepAddressType
					}
					return StepCheckAnswers
				},
				Prev: navigation.To(StepPhones),
			},
			{ID: StepAddressType, Detour: true, Next: navigation.To(StepEnterAddress), Prev: navigation.To(navigation.Return)},
			{ID: StepEnterAddress, Detour: true, Next: navigation.To(StepAddressDates), Prev: navigation.To(StepAddressType)},
			{ID: StepAddressDates, Detour: true, Next: navigation.To(StepAddressFlags), Prev: navigation.To(StepEnterAddress)},
			{ID: StepAddressFlags, Next: navigation.To(navigation.Return), Prev: navigation.To(StepAddressDates)},
			{
				ID: StepCheckAnswers,
				Prev: func(j *journey.Journey) navigation.StepID {
					if isNew(j) {
						return StepAddresses
					}
					return StepComments
				},
			},
		},
	}
}

func begin(r *http.Request) (wizard.Beginning, error) {
	pn := chi.URLParam(r, "prisonerNumber")
	mode := journey.Mode(r.URL.Query().Get("mode"))
	switch mode {
	case "":
		mode = journey.ModeNewContact
	case journey.ModeNewContact, journey.ModeExistingContact:
	default:
		return wizard.Beginning{}, dErrors.New(dErrors.CodeBadRequest, "Unknown mode")
	}
	return wizard.Beginning{
		Mode:        mode,
		Payload:     &journey.AddContact{PrisonerNumber: pn},
		ReturnPoint: paths.ContactList(pn),
	}, nil
}

// draft is the address being entered. Opening a sub-flow page without one
// starts a blank address.
func draft(p *journey.AddContact) *journey.AddressDetails {
	if p.AddressDraft == nil {
		p.AddressDraft = &journey.AddressDetails{}
	}
	return p.AddressDraft
}

// fileDraft moves the finished address into the list.
func fileDraft(p *journey.AddContact) {
	if p.AddressDraft == nil {
		return
	}
	p.Addresses = append(p.Addresses, *p.AddressDraft)
	p.AddressDraft = nil
}

type addressesForm struct{}

// New binds the add-contact pages to flow, which must already be registered
// with a resolver.
func New(flow *navigation.Flow, client contactsapi.Client) (*wizard.Wizard, error) {
	relationship := func(p *journey.AddContact) *journey.RelationshipAnswers { return &p.Relationship }

	addresses := &wizard.Page[*journey.AddContact, addressesForm]{
		ID: StepAddresses,
		Action: func(_ context.Context, j *journey.Journey, p *journey.AddContact, a form.Action) (wizard.Outcome, error) {
			switch a.Name {
			case ActionAddAddress:
				p.AddressDraft = &journey.AddressDetails{}
				p.Enter(flow.URL(j, StepAddresses))
				return wizard.Advance, nil
			case ActionRemoveAddress:
				if a.Index >= 0 && a.Index < len(p.Addresses) {
					p.Addresses = append(p.Addresses[:a.Index:a.Index], p.Addresses[a.Index+1:]...)
				}
				if len(p.Addresses) == 0 {
					p.Addresses = nil
				}
				return wizard.Stay, nil
			}
			return wizard.Stay, wizard.ErrUnknownAction
		},
		Apply: func(_ context.Context, _ *journey.Journey, p *journey.AddContact, _ *addressesForm) error {
			p.AddressDraft = nil
			return nil
		},
		Data: func(_ context.Context, _ *journey.Journey, p *journey.AddContact) (any, error) {
			return map[string]any{"addresses": p.Addresses}, nil
		},
	}

	return wizard.NewWizard(flow, Pattern, begin,
		steps.NamePage(StepName, func(p *journey.AddContact) *journey.Names { return &p.Names }, client),
		steps.DateOfBirthPage(StepDateOfBirth,
			func(p *journey.AddContact) **bool { return &p.DateOfBirthKnown },
			func(p *journey.AddContact) **civil.Date { return &p.DateOfBirth }),
		steps.SearchPage(StepSearch,
			func(p *journey.AddContact) *journey.ContactSearch { return &p.Search },
			func(p *journey.AddContact) *journey.ContactMatch { return &p.Match }, client),
		steps.ContactMatchPage(StepMatch, func(p *journey.AddContact) *journey.ContactMatch { return &p.Match }, client),
		steps.RelationshipTypePage(StepRelationshipType, relationship),
		steps.RelationshipCodePage(StepRelationship, relationship, client),
		steps.EmergencyContactPage(StepEmergencyContact, relationship),
		steps.ApprovedVisitorPage(StepApprovedVisitor, relationship),
		steps.CommentsPage(StepComments, func(p *journey.AddContact) *string { return &p.Relationship.Comments }),
		steps.PhonesPage(StepPhones, func(p *journey.AddContact) *[]journey.PhoneNumber { return &p.Phones }, client),
		addresses,
		steps.AddressTypePage(StepAddressType, draft, client),
		steps.EnterAddressPage(StepEnterAddress, draft, client),
		steps.AddressDatesPage(StepAddressDates, draft),
		steps.AddressFlagsPage(StepAddressFlags, draft, fileDraft),
		&wizard.CheckAnswers[*journey.AddContact]{
			ID:      StepCheckAnswers,
			Summary: summary,
			Commit: func(ctx context.Context, j *journey.Journey, p *journey.AddContact) (string, error) {
				return commit(ctx, client, j, p)
			},
			ConflictName: func(_ *journey.Journey, p *journey.AddContact, _ *contactsapi.DuplicateRelationshipError) string {
				return p.DisplayName()
			},
		},
	)
}

// Summary is what the check-answers page shows.
type Summary struct {
	DisplayName string              `json:"displayName"`
	Contact     *journey.AddContact `json:"contact"`
}

func summary(_ context.Context, _ *journey.Journey, p *journey.AddContact) (any, error) {
	return Summary{DisplayName: p.DisplayName(), Contact: p}, nil
}

func commit(ctx context.Context, client contactsapi.Client, j *journey.Journey, p *journey.AddContact) (string, error) {
	user := requestcontext.Username(ctx)
	rel := steps.RelationshipRequest(p.PrisonerNumber, p.Relationship)

	if !isNew(j) {
		if !p.Match.Confirmed {
			return "", dErrors.New(dErrors.CodeBadRequest, "No contact selected")
		}
		created, err := client.AddRelationship(ctx, contactsapi.AddRelationshipRequest{
			ContactID:    p.Match.ContactID,
			Relationship: rel,
			CreatedBy:    user,
		})
		if err != nil {
			return "", fmt.Errorf("adding relationship to contact %d: %w", p.Match.ContactID, err)
		}
		return paths.ContactDetails(p.PrisonerNumber, p.Match.ContactID, created.RelationshipID), nil
	}

	req := contactsapi.CreateContactRequest{
		Title:        p.Names.Title,
		FirstName:    p.Names.FirstName,
		MiddleNames:  p.Names.MiddleNames,
		LastName:     p.Names.LastName,
		DateOfBirth:  p.DateOfBirth,
		Relationship: &rel,
		Phones:       steps.PhonesRequest(p.Phones),
		CreatedBy:    user,
	}
	for _, a := range p.Addresses {
		req.Addresses = append(req.Addresses, steps.AddressRequest(a, user))
	}
	created, err := client.CreateContact(ctx, req)
	if err != nil {
		return "", fmt.Errorf("creating contact: %w", err)
	}
	if created.Relationship == nil {
		return paths.ContactList(p.PrisonerNumber), nil
	}
	return paths.ContactDetails(p.PrisonerNumber, created.Contact.ID, created.Relationship.RelationshipID), nil
}
