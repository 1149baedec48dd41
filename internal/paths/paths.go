// Package paths builds the application's URLs so handlers never format
// them by hand.
package paths

import (
	"net/url"
	"strconv"
	"strings"
)

func id(n int64) string {
	return strconv.FormatInt(n, 10)
}

func prisoner(prisonerNumber string) string {
	return "/prisoner/" + url.PathEscape(prisonerNumber)
}

// ContactList is the list of a prisoner's contacts.
func ContactList(prisonerNumber string) string {
	return prisoner(prisonerNumber) + "/contacts/list"
}

// ContactDetails is the read-only view of one relationship.
func ContactDetails(prisonerNumber string, contactID, relationshipID int64) string {
	return prisoner(prisonerNumber) + "/contacts/manage/" + id(contactID) + "/relationship/" + id(relationshipID)
}

// AddContact is the base of the add-contact wizard.
func AddContact(prisonerNumber string) string {
	return prisoner(prisonerNumber) + "/contacts/create"
}

// Address is the base of the add/edit address wizard.
func Address(prisonerNumber string, contactID, relationshipID int64) string {
	return ContactDetails(prisonerNumber, contactID, relationshipID) + "/address"
}

// Restriction is the base of the add-restriction wizard for a mode.
func Restriction(prisonerNumber string, contactID, relationshipID int64, mode string) string {
	return ContactDetails(prisonerNumber, contactID, relationshipID) + "/restriction/add/" + url.PathEscape(mode)
}

// Relationship is the base of the edit-relationship wizard.
func Relationship(prisonerNumber string, contactID, relationshipID int64) string {
	return ContactDetails(prisonerNumber, contactID, relationshipID) + "/edit"
}

// Contact is the prisoner-independent view of a contact.
func Contact(contactID int64) string {
	return "/contacts/manage/" + id(contactID)
}

// UpdateEmployments is the base of the update-employments wizard.
func UpdateEmployments(contactID int64) string {
	return Contact(contactID) + "/update-employments"
}

// Conflict is the duplicate-relationship resolution page of a journey.
func Conflict(kind, journeyID string) string {
	return "/journeys/" + url.PathEscape(kind) + "/" + url.PathEscape(journeyID) + "/conflict"
}

// Start is the start link of a wizard based at base.
func Start(base string) string {
	return base + "/start"
}

// Cancel is the cancel link of a journey in a wizard based at base.
func Cancel(base, journeyID string) string {
	return base + "/cancel/" + url.PathEscape(journeyID)
}

// Local returns raw when it is a path on this site, otherwise fallback.
func Local(raw, fallback string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.Contains(raw, `\`) {
		return fallback
	}
	return raw
}
