package derivation

import "contacts/internal/domain"

// MostRelevantAddress selects the address to feature for a contact.
//
// Only active addresses (no end date) are considered. Among them a primary
// address wins, then a mail address, then the latest start date. Ties on
// whichever criterion decided the result go to the earliest in input order.
//
// With allowExpiredFallback and no active address, the address with the
// latest start date across the whole set is returned instead. The boolean is
// false when nothing qualifies.
func MostRelevantAddress(addresses []domain.Address, allowExpiredFallback bool) (domain.Address, bool) {
	if len(addresses) == 0 {
		return domain.Address{}, false
	}

	active := make([]domain.Address, 0, len(addresses))
	for _, a := range addresses {
		if a.Active() {
			active = append(active, a)
		}
	}

	if len(active) == 0 {
		if !allowExpiredFallback {
			return domain.Address{}, false
		}
		return latestStart(addresses), true
	}

	for _, a := range active {
		if a.IsPrimary {
			return a, true
		}
	}
	for _, a := range active {
		if a.IsMail {
			return a, true
		}
	}
	return latestStart(active), true
}

// latestStart returns the first address with the greatest start date. A
// missing start date sorts before any real date.
func latestStart(addresses []domain.Address) domain.Address {
	best := addresses[0]
	for _, a := range addresses[1:] {
		if startsAfter(a, best) {
			best = a
		}
	}
	return best
}

func startsAfter(a, b domain.Address) bool {
	if a.StartDate == nil {
		return false
	}
	if b.StartDate == nil {
		return true
	}
	return a.StartDate.After(*b.StartDate)
}
