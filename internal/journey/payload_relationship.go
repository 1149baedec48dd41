package journey

// Relationship is the payload of the edit-relationship wizard: either the
// relationship type changes, or the relationship is moved to another contact.
type Relationship struct {
	PrisonerNumber string `json:"prisonerNumber"`
	ContactID      int64  `json:"contactId"`
	RelationshipID int64  `json:"relationshipId"`
	ContactName    string `json:"contactName"`

	Relationship RelationshipAnswers `json:"relationship"`

	Search     ContactSearch `json:"search"`
	NewContact ContactMatch  `json:"newContact"`
}

func (*Relationship) Kind() Kind { return KindRelationship }

func (p *Relationship) Prisoner() string { return p.PrisonerNumber }
