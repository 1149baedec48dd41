package steps

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	dErrors "contacts/pkg/domain-errors"
)

// IDParam reads a positive numeric route parameter. Anything else is a 404.
func IDParam(r *http.Request, name string) (int64, error) {
	n, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || n <= 0 {
		return 0, dErrors.New(dErrors.CodeNotFound, "Not found")
	}
	return n, nil
}

// ContactRoute is the prisoner, contact and relationship a per-relationship
// wizard is mounted under.
type ContactRoute struct {
	PrisonerNumber string
	ContactID      int64
	RelationshipID int64
}

// ContactRouteOf reads the route parameters shared by the wizards mounted
// under a contact's details page.
func ContactRouteOf(r *http.Request) (ContactRoute, error) {
	cid, err := IDParam(r, "contactId")
	if err != nil {
		return ContactRoute{}, err
	}
	rid, err := IDParam(r, "relationshipId")
	if err != nil {
		return ContactRoute{}, err
	}
	return ContactRoute{PrisonerNumber: chi.URLParam(r, "prisonerNumber"), ContactID: cid, RelationshipID: rid}, nil
}
