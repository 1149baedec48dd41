package journey

import (
	"fmt"

	"cloud.google.com/go/civil"
)

// Payload is the partially entered answers of one wizard. Each kind has its
// own concrete type; see PayloadAs for typed access.
type Payload interface {
	Kind() Kind
}

// newPayload returns an empty payload for kind, used when decoding.
func newPayload(kind Kind) (Payload, error) {
	switch kind {
	case KindAddContact:
		return &AddContact{}, nil
	case KindAddress:
		return &Address{}, nil
	case KindRestriction:
		return &Restriction{}, nil
	case KindRelationship:
		return &Relationship{}, nil
	case KindUpdateEmployments:
		return &Employments{}, nil
	default:
		return nil, fmt.Errorf("unknown journey kind %q", kind)
	}
}

// PayloadAs returns the journey payload as P, or ErrWrongKind.
func PayloadAs[P Payload](j *Journey) (P, error) {
	p, ok := j.Payload.(P)
	if !ok {
		var zero P
		return zero, fmt.Errorf("journey %s (%s) holds %T: %w", j.ID, j.Kind, j.Payload, ErrWrongKind)
	}
	return p, nil
}

// PrisonerScoped is implemented by payloads opened from a prisoner's
// contact list.
type PrisonerScoped interface {
	Prisoner() string
}

// SubflowCarrier is implemented by payloads whose wizard contains a nested
// sub-flow (address entry inside add-contact, employment entry).
type SubflowCarrier interface {
	SubflowReturn() string
}

// Subflow is embedded by payloads that host a sub-flow. ReturnPoint is set
// when the sub-flow is entered and is where its last step bounces back to.
type Subflow struct {
	ReturnPoint string `json:"subflowReturnPoint,omitempty"`
}

func (s *Subflow) SubflowReturn() string {
	return s.ReturnPoint
}

// Enter records where the sub-flow should return to.
func (s *Subflow) Enter(returnPoint string) {
	s.ReturnPoint = returnPoint
}

// Leave clears the sub-flow return point.
func (s *Subflow) Leave() {
	s.ReturnPoint = ""
}

// Names holds a person's name as entered.
type Names struct {
	Title       string `json:"title,omitempty"`
	FirstName   string `json:"firstName,omitempty"`
	MiddleNames string `json:"middleNames,omitempty"`
	LastName    string `json:"lastName,omitempty"`
}

// RelationshipAnswers are the answers describing a contact's link to a prisoner.
type RelationshipAnswers struct {
	Type               string `json:"type,omitempty"`
	Code               string `json:"code,omitempty"`
	IsEmergencyContact *bool  `json:"isEmergencyContact,omitempty"`
	IsNextOfKin        *bool  `json:"isNextOfKin,omitempty"`
	IsApprovedVisitor  *bool  `json:"isApprovedVisitor,omitempty"`
	Comments           string `json:"comments,omitempty"`
}

// PhoneNumber is one entered phone number row.
type PhoneNumber struct {
	Type      string `json:"type"`
	Number    string `json:"number"`
	Extension string `json:"extension,omitempty"`
}

// ContactSearch is the free-text search state of a search step.
type ContactSearch struct {
	LastName    string `json:"lastName,omitempty"`
	FirstName   string `json:"firstName,omitempty"`
	MiddleNames string `json:"middleNames,omitempty"`
}

// Empty reports whether no search has been entered.
func (s ContactSearch) Empty() bool {
	return s.LastName == "" && s.FirstName == "" && s.MiddleNames == ""
}

// ContactMatch is a contact picked from search results, and whether the user
// confirmed it is the right person.
type ContactMatch struct {
	ContactID int64  `json:"contactId,omitempty"`
	Name      string `json:"name,omitempty"`
	Confirmed bool   `json:"confirmed,omitempty"`
}

// AddressDetails is an address as entered across the address steps.
type AddressDetails struct {
	Type           string        `json:"type,omitempty"`
	NoFixedAddress bool          `json:"noFixedAddress,omitempty"`
	Flat           string        `json:"flat,omitempty"`
	Property       string        `json:"property,omitempty"`
	Street         string        `json:"street,omitempty"`
	Area           string        `json:"area,omitempty"`
	CityCode       string        `json:"cityCode,omitempty"`
	CountyCode     string        `json:"countyCode,omitempty"`
	Postcode       string        `json:"postcode,omitempty"`
	CountryCode    string        `json:"countryCode,omitempty"`
	StartDate      *civil.Date   `json:"startDate,omitempty"`
	EndDate        *civil.Date   `json:"endDate,omitempty"`
	IsPrimary      bool          `json:"isPrimary,omitempty"`
	IsMail         bool          `json:"isMail,omitempty"`
	Phones         []PhoneNumber `json:"phones,omitempty"`
	Comments       string        `json:"comments,omitempty"`
}
