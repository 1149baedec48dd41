package domain

// Relationship types.
const (
	RelationshipSocial   = "S"
	RelationshipOfficial = "O"
)

// PrisonerContact links a contact to a prisoner.
type PrisonerContact struct {
	RelationshipID     int64  `json:"prisonerContactId"`
	ContactID          int64  `json:"contactId"`
	PrisonerNumber     string `json:"prisonerNumber"`
	RelationshipType   string `json:"relationshipTypeCode"`
	RelationshipCode   string `json:"relationshipToPrisonerCode"`
	IsEmergencyContact bool   `json:"isEmergencyContact"`
	IsNextOfKin        bool   `json:"isNextOfKin"`
	IsApprovedVisitor  *bool  `json:"isApprovedVisitor,omitempty"`
	Comments           string `json:"comments,omitempty"`
}
