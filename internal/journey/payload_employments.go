package journey

import "contacts/internal/domain"

// Employments is the payload of the update-employments wizard. The whole
// list is edited locally and sent in one commit.
type Employments struct {
	ContactID      int64             `json:"contactId"`
	ContactName    string            `json:"contactName"`
	PrisonerNumber string            `json:"prisonerNumber,omitempty"`
	Employments    []EmploymentEntry `json:"employments,omitempty"`
	// OriginalIDs are the employments the contact had when the journey
	// started; any not left in Employments are deleted on commit.
	OriginalIDs []int64 `json:"originalIds,omitempty"`
	// Draft is the employment being entered in the employment sub-flow.
	Draft *EmploymentDraft `json:"draft,omitempty"`
	Subflow
}

func (*Employments) Kind() Kind { return KindUpdateEmployments }

func (p *Employments) Prisoner() string { return p.PrisonerNumber }

// EmploymentEntry is one employment in the edited list. ID is zero for
// employments added during this journey.
type EmploymentEntry struct {
	ID           int64               `json:"id,omitempty"`
	Organisation domain.Organisation `json:"organisation"`
	IsActive     bool                `json:"isActive"`
}

// EmploymentDraft is an employment being added or changed. Index is the
// position being replaced, or -1 for a new employment.
type EmploymentDraft struct {
	Index        int                  `json:"index"`
	SearchTerm   string               `json:"searchTerm,omitempty"`
	Organisation *domain.Organisation `json:"organisation,omitempty"`
	IsActive     *bool                `json:"isActive,omitempty"`
}
