// Package journey holds the server-side state of in-progress multi-step
// operations ("wizards") and the store that keeps it inside a user's session.
package journey

import (
	"time"
)

// Kind identifies which wizard a journey belongs to. It decides the step
// graph and the payload type.
type Kind string

const (
	KindAddContact        Kind = "add-contact"
	KindAddress           Kind = "address"
	KindRestriction       Kind = "restriction"
	KindRelationship      Kind = "relationship"
	KindUpdateEmployments Kind = "update-employments"
)

// Kinds lists every wizard kind.
var Kinds = []Kind{KindAddContact, KindAddress, KindRestriction, KindRelationship, KindUpdateEmployments}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// Mode is a wizard-specific variant that changes which steps are visited and
// what the final commit does.
type Mode string

const (
	// AddContact
	ModeNewContact      Mode = "NEW"
	ModeExistingContact Mode = "EXISTING"

	// Address
	ModeAddAddress  Mode = "ADD"
	ModeEditAddress Mode = "EDIT"

	// Restriction
	ModePrisonerContactRestriction Mode = "PRISONER_CONTACT"
	ModeContactGlobalRestriction   Mode = "CONTACT_GLOBAL"

	// Relationship
	ModeEditRelationshipType Mode = "EDIT_TYPE"
	ModeChangeRelatedContact Mode = "CHANGE_CONTACT"

	// UpdateEmployments
	ModeEditEmployments Mode = "EDIT"
)

// Journey is one in-progress wizard run.
type Journey struct {
	ID   string
	Kind Kind
	Mode Mode
	// LastTouched is refreshed on every write and used only for eviction.
	LastTouched time.Time
	// IsCheckingAnswers is set once the check-answers step has been shown;
	// from then on steps bounce back to it.
	IsCheckingAnswers bool
	// ReturnPoint is where cancelling the journey goes back to.
	ReturnPoint string
	Payload     Payload
	// Conflict is set only while a duplicate relationship is being resolved.
	Conflict *Conflict
	// Version is assigned by the store; a save with an old version is rejected.
	Version int64
}

// New builds a journey whose payload kind must match kind.
func New(id string, kind Kind, mode Mode, returnPoint string, payload Payload) *Journey {
	return &Journey{
		ID:          id,
		Kind:        kind,
		Mode:        mode,
		ReturnPoint: returnPoint,
		Payload:     payload,
	}
}

// Conflict references the existing relationship that a commit collided with.
type Conflict struct {
	RelationshipID int64  `json:"relationshipId"`
	ContactID      int64  `json:"contactId"`
	PrisonerNumber string `json:"prisonerNumber"`
	DisplayName    string `json:"displayName"`
}
