package derivation

import (
	"slices"

	"contacts/internal/domain"
)

// OrderRestrictions returns a copy sorted by start date, newest first, with
// ties broken by created time, newest first.
func OrderRestrictions(restrictions []domain.Restriction) []domain.Restriction {
	ordered := slices.Clone(restrictions)
	slices.SortStableFunc(ordered, func(a, b domain.Restriction) int {
		if c := compareDates(b.StartDate, a.StartDate); c != 0 {
			return c
		}
		return b.CreatedTime.Compare(a.CreatedTime)
	})
	return ordered
}
