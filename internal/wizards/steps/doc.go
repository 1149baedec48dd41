// Package steps holds the pages several wizards share: names, relationship
// answers, contact search, address entry and phone numbers. Each constructor
// takes an accessor that points the page at its slice of a payload.
package steps

import (
	"context"

	"contacts/internal/contactsapi"
	"contacts/internal/domain"
)

// Yes/no radio values.
const (
	Yes = "YES"
	No  = "NO"
)

// yesNo renders an optional answer as a radio value.
func yesNo(b *bool) string {
	switch {
	case b == nil:
		return ""
	case *b:
		return Yes
	default:
		return No
	}
}

func boolPtr(b bool) *bool {
	return &b
}

// codes loads one reference data group.
func codes(ctx context.Context, client contactsapi.Client, group string) ([]domain.ReferenceCode, error) {
	return client.ReferenceCodes(ctx, group)
}
