package journey

import (
	"cloud.google.com/go/civil"

	"contacts/internal/domain"
)

// AddContact is the payload of the add-contact wizard. In NEW mode it
// collects a whole new person; in EXISTING mode it links a contact found by
// search.
type AddContact struct {
	PrisonerNumber string `json:"prisonerNumber"`

	Names            Names       `json:"names"`
	DateOfBirthKnown *bool       `json:"dateOfBirthKnown,omitempty"`
	DateOfBirth      *civil.Date `json:"dateOfBirth,omitempty"`

	Search ContactSearch `json:"search"`
	Match  ContactMatch  `json:"match"`

	Relationship RelationshipAnswers `json:"relationship"`

	Phones []PhoneNumber `json:"phones,omitempty"`

	// Addresses are complete addresses waiting for the final commit.
	Addresses []AddressDetails `json:"addresses,omitempty"`
	// AddressDraft is the address being entered in the address sub-flow.
	AddressDraft *AddressDetails `json:"addressDraft,omitempty"`
	Subflow
}

func (*AddContact) Kind() Kind { return KindAddContact }

func (p *AddContact) Prisoner() string { return p.PrisonerNumber }

// DisplayName is the name of the contact being added or linked.
func (p *AddContact) DisplayName() string {
	if p.Match.ContactID != 0 {
		return p.Match.Name
	}
	return domain.FormatName(p.Names.Title, p.Names.FirstName, p.Names.MiddleNames, p.Names.LastName)
}
