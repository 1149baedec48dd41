// Package form decodes submitted step forms, validates them and carries a
// failed submission to the next render of the same page.
//
// Form structs name their inputs with `form` tags. Repeated rows are slices
// of structs and are posted as name[i].field; nested groups (date parts) are
// posted as name.field.
package form

import (
	"slices"
	"strings"
)

// FieldError is a message attached to one input.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`

	order []int
}

// FieldErrors are kept in the order the inputs appear on the page.
type FieldErrors []FieldError

func (e FieldErrors) Error() string {
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return strings.Join(parts, "; ")
}

// For returns the first message for a field, or "".
func (e FieldErrors) For(field string) string {
	for _, fe := range e {
		if fe.Field == field {
			return fe.Message
		}
	}
	return ""
}

// Has reports whether a field has an error.
func (e FieldErrors) Has(field string) bool {
	return e.For(field) != ""
}

// sort orders errors by page position. Errors on the same input keep the
// order they were raised in.
func (e FieldErrors) sort() {
	slices.SortStableFunc(e, func(a, b FieldError) int {
		return slices.Compare(a.order, b.order)
	})
}
