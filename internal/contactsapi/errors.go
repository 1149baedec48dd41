package contactsapi

import (
	"fmt"

	"contacts/pkg/platform/sentinel"
)

// DuplicateRelationshipError is returned when a relationship commit collides
// with a relationship that already exists between the same contact and
// prisoner.
type DuplicateRelationshipError struct {
	RelationshipID int64
	ContactID      int64
	PrisonerNumber string
}

func (e *DuplicateRelationshipError) Error() string {
	return fmt.Sprintf("relationship %d between contact %d and prisoner %s already exists",
		e.RelationshipID, e.ContactID, e.PrisonerNumber)
}

// Unwrap lets callers that only care about conflicts match sentinel.ErrConflict.
func (e *DuplicateRelationshipError) Unwrap() error {
	return sentinel.ErrConflict
}
