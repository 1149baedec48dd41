package journey

// Address is the payload of the standalone add/edit address wizard.
type Address struct {
	PrisonerNumber string `json:"prisonerNumber"`
	ContactID      int64  `json:"contactId"`
	RelationshipID int64  `json:"relationshipId"`
	ContactName    string `json:"contactName"`
	// AddressID is set in EDIT mode.
	AddressID int64          `json:"addressId,omitempty"`
	Address   AddressDetails `json:"address"`
}

func (*Address) Kind() Kind { return KindAddress }

func (p *Address) Prisoner() string { return p.PrisonerNumber }
