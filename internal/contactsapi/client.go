// Package contactsapi is the client for the contacts, prisoner and
// organisation services that own the domain records. Journeys only ever
// read from it and send it one commit at the end.
package contactsapi

import (
	"context"

	"cloud.google.com/go/civil"

	"contacts/internal/domain"
)

// Client is the set of remote calls the wizards and contact pages use.
//
// Errors wrap sentinel.ErrNotFound, sentinel.ErrForbidden or
// sentinel.ErrUnavailable; a commit that would duplicate a relationship
// returns *DuplicateRelationshipError.
type Client interface {
	GetContact(ctx context.Context, contactID int64) (*domain.Contact, error)
	SearchContacts(ctx context.Context, q ContactSearch) ([]domain.ContactSearchResult, error)
	CreateContact(ctx context.Context, req CreateContactRequest) (*CreatedContact, error)

	GetRelationship(ctx context.Context, relationshipID int64) (*domain.PrisonerContact, error)
	AddRelationship(ctx context.Context, req AddRelationshipRequest) (*domain.PrisonerContact, error)
	UpdateRelationship(ctx context.Context, relationshipID int64, req UpdateRelationshipRequest) error

	CreateAddress(ctx context.Context, contactID int64, req AddressRequest) (*domain.Address, error)
	UpdateAddress(ctx context.Context, contactID, addressID int64, req AddressRequest) (*domain.Address, error)

	ListRestrictions(ctx context.Context, relationshipID int64) (*Restrictions, error)
	CreateContactRestriction(ctx context.Context, contactID int64, req RestrictionRequest) error
	CreatePrisonerContactRestriction(ctx context.Context, relationshipID int64, req RestrictionRequest) error

	UpdateEmployments(ctx context.Context, contactID int64, req EmploymentsRequest) error
	GetOrganisation(ctx context.Context, organisationID int64) (*domain.Organisation, error)
	SearchOrganisations(ctx context.Context, name string) ([]domain.Organisation, error)

	ContactHistory(ctx context.Context, contactID int64) ([]domain.ContactRevision, error)
	PrisonerAlerts(ctx context.Context, prisonerNumber string) ([]domain.Alert, error)
	ReferenceCodes(ctx context.Context, group string) ([]domain.ReferenceCode, error)
}

// Reference data groups.
const (
	GroupTitle                = "TITLE"
	GroupSocialRelationship   = "SOCIAL_RELATIONSHIP"
	GroupOfficialRelationship = "OFFICIAL_RELATIONSHIP"
	GroupPhoneType            = "PHONE_TYPE"
	GroupAddressType          = "ADDRESS_TYPE"
	GroupCity                 = "CITY"
	GroupCounty               = "COUNTY"
	GroupCountry              = "COUNTRY"
	GroupRestrictionType      = "RESTRICTION"
)

type ContactSearch struct {
	LastName    string
	FirstName   string
	MiddleNames string
}

// Relationship describes the link a new contact gets to a prisoner.
type Relationship struct {
	PrisonerNumber     string `json:"prisonerNumber"`
	RelationshipType   string `json:"relationshipTypeCode"`
	RelationshipCode   string `json:"relationshipToPrisonerCode"`
	IsEmergencyContact bool   `json:"isEmergencyContact"`
	IsNextOfKin        bool   `json:"isNextOfKin"`
	IsApprovedVisitor  *bool  `json:"isApprovedVisitor,omitempty"`
	Comments           string `json:"comments,omitempty"`
}

type CreateContactRequest struct {
	Title        string           `json:"titleCode,omitempty"`
	FirstName    string           `json:"firstName"`
	MiddleNames  string           `json:"middleNames,omitempty"`
	LastName     string           `json:"lastName"`
	DateOfBirth  *civil.Date      `json:"dateOfBirth,omitempty"`
	Relationship *Relationship    `json:"relationship,omitempty"`
	Phones       []domain.Phone   `json:"phoneNumbers,omitempty"`
	Addresses    []AddressRequest `json:"addresses,omitempty"`
	CreatedBy    string           `json:"createdBy"`
}

// CreatedContact is the new contact and, when one was requested, its
// relationship to the prisoner.
type CreatedContact struct {
	Contact      domain.Contact          `json:"createdContact"`
	Relationship *domain.PrisonerContact `json:"createdRelationship,omitempty"`
}

type AddRelationshipRequest struct {
	ContactID    int64        `json:"contactId"`
	Relationship Relationship `json:"relationship"`
	CreatedBy    string       `json:"createdBy"`
}

// UpdateRelationshipRequest changes the type or the contact of a
// relationship. Nil fields are left as they are.
type UpdateRelationshipRequest struct {
	RelationshipType *string `json:"relationshipTypeCode,omitempty"`
	RelationshipCode *string `json:"relationshipToPrisonerCode,omitempty"`
	ContactID        *int64  `json:"contactId,omitempty"`
	UpdatedBy        string  `json:"updatedBy"`
}

type AddressRequest struct {
	Type           string         `json:"addressType,omitempty"`
	Flat           string         `json:"flat,omitempty"`
	Property       string         `json:"property,omitempty"`
	Street         string         `json:"street,omitempty"`
	Area           string         `json:"area,omitempty"`
	CityCode       string         `json:"cityCode,omitempty"`
	CountyCode     string         `json:"countyCode,omitempty"`
	Postcode       string         `json:"postcode,omitempty"`
	CountryCode    string         `json:"countryCode"`
	NoFixedAddress bool           `json:"noFixedAddress"`
	IsPrimary      bool           `json:"primaryAddress"`
	IsMail         bool           `json:"mailFlag"`
	StartDate      *civil.Date    `json:"startDate,omitempty"`
	EndDate        *civil.Date    `json:"endDate,omitempty"`
	Comments       string         `json:"comments,omitempty"`
	Phones         []domain.Phone `json:"phoneNumbers,omitempty"`
	UpdatedBy      string         `json:"updatedBy"`
}

// Restrictions are the restrictions that apply to one relationship: those
// on the relationship itself and those on the contact everywhere.
type Restrictions struct {
	PrisonerContact []domain.Restriction `json:"prisonerContactRestrictions"`
	Contact         []domain.Restriction `json:"contactGlobalRestrictions"`
}

type RestrictionRequest struct {
	Type       string      `json:"restrictionType"`
	StartDate  civil.Date  `json:"startDate"`
	ExpiryDate *civil.Date `json:"expiryDate,omitempty"`
	Comments   string      `json:"comments,omitempty"`
	CreatedBy  string      `json:"createdBy"`
}

// EmploymentsRequest replaces a contact's employments in one call.
type EmploymentsRequest struct {
	Created   []EmploymentChange `json:"createEmployments"`
	Updated   []EmploymentChange `json:"updateEmployments"`
	Deleted   []int64            `json:"deleteEmployments"`
	UpdatedBy string             `json:"requestedBy"`
}

type EmploymentChange struct {
	EmploymentID   int64 `json:"employmentId,omitempty"`
	OrganisationID int64 `json:"organisationId"`
	IsActive       bool  `json:"isActive"`
}
