package journey

// MissingPolicy says what a step controller does when its journey is absent.
type MissingPolicy int

const (
	// RestartOnMissing sends the user back to the wizard's start, which opens
	// a fresh journey.
	RestartOnMissing MissingPolicy = iota
	// NotFoundOnMissing renders the not-found page.
	NotFoundOnMissing
)

func (p MissingPolicy) String() string {
	if p == NotFoundOnMissing {
		return "not-found"
	}
	return "restart"
}

// Creation wizards restart; wizards that edit an existing record answer 404.
var missingPolicies = map[Kind]MissingPolicy{
	KindAddContact:        RestartOnMissing,
	KindRestriction:       RestartOnMissing,
	KindAddress:           NotFoundOnMissing,
	KindRelationship:      NotFoundOnMissing,
	KindUpdateEmployments: NotFoundOnMissing,
}

// PolicyFor returns the missing-journey policy for kind. Unknown kinds get 404.
func PolicyFor(kind Kind) MissingPolicy {
	if p, ok := missingPolicies[kind]; ok {
		return p
	}
	return NotFoundOnMissing
}
