package derivation

import (
	"slices"
	"time"

	"contacts/internal/domain"
)

// AlertActive reports whether an alert is still in force at now. An alert
// without an end date never expires; otherwise it expires once the start of
// its end date has passed.
func AlertActive(a domain.Alert, now time.Time) bool {
	if a.ActiveTo == nil {
		return true
	}
	return !a.ActiveTo.In(now.Location()).Before(now)
}

// OrderAlerts puts every active alert ahead of every expired one. Active
// alerts are ordered by activeFrom then createdAt, expired alerts by activeTo
// then activeFrom then createdAt; all descending.
func OrderAlerts(alerts []domain.Alert, now time.Time) []domain.Alert {
	active := make([]domain.Alert, 0, len(alerts))
	var expired []domain.Alert
	for _, a := range alerts {
		if AlertActive(a, now) {
			active = append(active, a)
		} else {
			expired = append(expired, a)
		}
	}

	slices.SortStableFunc(active, func(a, b domain.Alert) int {
		if c := compareDates(b.ActiveFrom, a.ActiveFrom); c != 0 {
			return c
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	slices.SortStableFunc(expired, func(a, b domain.Alert) int {
		// both non-nil: only alerts with an end date can be expired
		if c := compareDates(*b.ActiveTo, *a.ActiveTo); c != 0 {
			return c
		}
		if c := compareDates(b.ActiveFrom, a.ActiveFrom); c != 0 {
			return c
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	return append(active, expired...)
}
