package journey

import "cloud.google.com/go/civil"

// Restriction is the payload of the add-restriction wizard. The mode decides
// whether it lands on the prisoner-contact relationship or on the contact.
type Restriction struct {
	PrisonerNumber string      `json:"prisonerNumber"`
	ContactID      int64       `json:"contactId"`
	RelationshipID int64       `json:"relationshipId"`
	ContactName    string      `json:"contactName"`
	Type           string      `json:"type,omitempty"`
	StartDate      *civil.Date `json:"startDate,omitempty"`
	ExpiryDate     *civil.Date `json:"expiryDate,omitempty"`
	Comments       string      `json:"comments,omitempty"`
}

func (*Restriction) Kind() Kind { return KindRestriction }

func (p *Restriction) Prisoner() string { return p.PrisonerNumber }
