package derivation

import (
	"slices"
	"time"

	"contacts/internal/domain"
)

// NameChange records one change of a contact's full name.
type NameChange struct {
	PreviousName string    `json:"previousName"`
	NewName      string    `json:"newName"`
	Editor       string    `json:"editor"`
	ChangedOn    time.Time `json:"changedOn"`
}

// CollapseNameHistory turns name revisions, supplied newest first, into the
// list of actual name changes, newest first. Revisions that repeat the
// previous full name produce nothing, and the oldest revision is only ever a
// baseline.
func CollapseNameHistory(revisions []domain.ContactRevision) []NameChange {
	if len(revisions) < 2 {
		return nil
	}

	oldestFirst := slices.Clone(revisions)
	slices.Reverse(oldestFirst)

	var changes []NameChange
	for i := 1; i < len(oldestFirst); i++ {
		previous, current := oldestFirst[i-1].FullName(), oldestFirst[i].FullName()
		if previous == current {
			continue
		}
		changes = append(changes, NameChange{
			PreviousName: previous,
			NewName:      current,
			Editor:       oldestFirst[i].UpdatedBy,
			ChangedOn:    oldestFirst[i].UpdatedTime,
		})
	}

	slices.Reverse(changes)
	return changes
}
