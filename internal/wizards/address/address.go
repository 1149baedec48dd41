// Package address is the wizard that adds an address to a contact or edits
// one of its addresses.
package address

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"contacts/internal/contactsapi"
	"contacts/internal/journey"
	"contacts/internal/navigation"
	"contacts/internal/paths"
	"contacts/internal/wizard"
	"contacts/internal/wizards/steps"
	"contacts/pkg/requestcontext"

	dErrors "contacts/pkg/domain-errors"
)

const Pattern = "/prisoner/{prisonerNumber}/contacts/manage/{contactId}/relationship/{relationshipId}/address"

const (
	StepType         navigation.StepID = "address-type"
	StepEnter        navigation.StepID = "enter-address"
	StepDates        navigation.StepID = "address-dates"
	StepFlags        navigation.StepID = "address-flags"
	StepPhones       navigation.StepID = "address-phones"
	StepComments     navigation.StepID = "address-comments"
	StepCheckAnswers navigation.StepID = "check-answers"
)

func payload(j *journey.Journey) *journey.Address {
	p, err := journey.PayloadAs[*journey.Address](j)
	if err != nil {
		return &journey.Address{}
	}
	return p
}

func NewFlow() *navigation.Flow {
	return &navigation.Flow{
		Kind: journey.KindAddress,
		Base: func(j *journey.Journey) string {
			p := payload(j)
			return paths.Address(p.PrisonerNumber, p.ContactID, p.RelationshipID)
		},
		First:        navigation.To(StepType),
		CheckAnswers: StepCheckAnswers,
		Steps: []navigation.Step{
			{ID: StepType, Next: navigation.To(StepEnter)},
			{ID: StepEnter, Next: navigation.To(StepDates), Prev: navigation.To(StepType)},
			{ID: StepDates, Next: navigation.To(StepFlags), Prev: navigation.To(StepEnter)},
			{ID: StepFlags, Next: navigation.To(StepPhones), Prev: navigation.To(StepDates)},
			{ID: StepPhones, Next: navigation.To(StepComments), Prev: navigation.To(StepFlags)},
			{ID: StepComments, Next: navigation.To(StepCheckAnswers), Prev: navigation.To(StepPhones)},
			{ID: StepCheckAnswers, Prev: navigation.To(StepComments)},
		},
	}
}

// beginner starts ADD mode, or EDIT mode prefilled from the saved address
// when the start request carries an addressId.
func beginner(client contactsapi.Client) func(r *http.Request) (wizard.Beginning, error) {
	return func(r *http.Request) (wizard.Beginning, error) {
		route, err := steps.ContactRouteOf(r)
		if err != nil {
			return wizard.Beginning{}, err
		}
		contact, err := client.GetContact(r.Context(), route.ContactID)
		if err != nil {
			return wizard.Beginning{}, fmt.Errorf("loading contact %d: %w", route.ContactID, err)
		}
		p := &journey.Address{
			PrisonerNumber: route.PrisonerNumber,
			ContactID:      route.ContactID,
			RelationshipID: route.RelationshipID,
			ContactName:    contact.FullName(),
		}
		b := wizard.Beginning{
			Mode:        journey.ModeAddAddress,
			Payload:     p,
			ReturnPoint: paths.ContactDetails(route.PrisonerNumber, route.ContactID, route.RelationshipID),
		}

		raw := r.URL.Query().Get("addressId")
		if raw == "" {
			return b, nil
		}
		addressID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return wizard.Beginning{}, dErrors.New(dErrors.CodeNotFound, "Address not found")
		}
		for _, a := range contact.Addresses {
			if a.ID == addressID {
				p.AddressID = addressID
				p.Address = steps.AddressDetailsOf(a)
				b.Mode = journey.ModeEditAddress
				b.CheckingAnswers = true
				return b, nil
			}
		}
		return wizard.Beginning{}, dErrors.New(dErrors.CodeNotFound, "Address not found")
	}
}

func New(flow *navigation.Flow, client contactsapi.Client) (*wizard.Wizard, error) {
	details := func(p *journey.Address) *journey.AddressDetails { return &p.Address }

	return wizard.NewWizard(flow, Pattern, beginner(client),
		steps.AddressTypePage(StepType, details, client),
		steps.EnterAddressPage(StepEnter, details, client),
		steps.AddressDatesPage(StepDates, details),
		steps.AddressFlagsPage(StepFlags, details, nil),
		steps.PhonesPage(StepPhones, func(p *journey.Address) *[]journey.PhoneNumber { return &p.Address.Phones }, client),
		steps.CommentsPage(StepComments, func(p *journey.Address) *string { return &p.Address.Comments }),
		&wizard.CheckAnswers[*journey.Address]{
			ID: StepCheckAnswers,
			Summary: func(_ context.Context, _ *journey.Journey, p *journey.Address) (any, error) {
				return p, nil
			},
			Commit: func(ctx context.Context, j *journey.Journey, p *journey.Address) (string, error) {
				req := steps.AddressRequest(p.Address, requestcontext.Username(ctx))
				var err error
				if j.Mode == journey.ModeEditAddress {
					_, err = client.UpdateAddress(ctx, p.ContactID, p.AddressID, req)
				} else {
					_, err = client.CreateAddress(ctx, p.ContactID, req)
				}
				if err != nil {
					return "", fmt.Errorf("saving address for contact %d: %w", p.ContactID, err)
				}
				return paths.ContactDetails(p.PrisonerNumber, p.ContactID, p.RelationshipID), nil
			},
		},
	)
}
