// Package derivation computes display ordering and selection over records
// already fetched from the contacts and prisoner services. Every function is
// pure: inputs are never mutated and the same input always yields the same
// output, so page handlers can call them on every render.
package derivation

import "cloud.google.com/go/civil"

// compareDates orders civil dates ascending, returning -1, 0 or 1.
func compareDates(a, b civil.Date) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	default:
		return 0
	}
}
