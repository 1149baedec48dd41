// Package domain holds the records returned by the contacts, prisoner and
// organisation services. They are read-only inputs to journeys and to the
// derivation functions; nothing here is persisted by this service.
package domain

import (
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// Contact is a person known to the prison as somebody's contact.
type Contact struct {
	ID          int64        `json:"id"`
	Title       string       `json:"titleCode,omitempty"`
	FirstName   string       `json:"firstName"`
	MiddleNames string       `json:"middleNames,omitempty"`
	LastName    string       `json:"lastName"`
	DateOfBirth *civil.Date  `json:"dateOfBirth,omitempty"`
	Addresses   []Address    `json:"addresses,omitempty"`
	Phones      []Phone      `json:"phoneNumbers,omitempty"`
	Employments []Employment `json:"employments,omitempty"`
}

// FullName joins the name parts that are present.
func (c Contact) FullName() string {
	return FormatName(c.Title, c.FirstName, c.MiddleNames, c.LastName)
}

// FormatName joins non-blank name parts with single spaces.
func FormatName(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

// ContactSearchResult is one row returned by a contact search.
type ContactSearchResult struct {
	ID          int64       `json:"id"`
	FirstName   string      `json:"firstName"`
	MiddleNames string      `json:"middleNames,omitempty"`
	LastName    string      `json:"lastName"`
	DateOfBirth *civil.Date `json:"dateOfBirth,omitempty"`
}

// Phone is a telephone number held against a contact or an address.
type Phone struct {
	ID        int64  `json:"contactPhoneId,omitempty"`
	Type      string `json:"phoneType"`
	Number    string `json:"phoneNumber"`
	Extension string `json:"extNumber,omitempty"`
}

// ContactRevision is one historical snapshot of a contact's name.
type ContactRevision struct {
	Title       string    `json:"titleCode,omitempty"`
	FirstName   string    `json:"firstName"`
	MiddleNames string    `json:"middleNames,omitempty"`
	LastName    string    `json:"lastName"`
	UpdatedBy   string    `json:"updatedBy"`
	UpdatedTime time.Time `json:"updatedTime"`
}

// FullName joins the revision's name parts that are present.
func (r ContactRevision) FullName() string {
	return FormatName(r.Title, r.FirstName, r.MiddleNames, r.LastName)
}

// ReferenceCode is one entry in a reference data group (relationship types, phone types...).
type ReferenceCode struct {
	Group       string `json:"groupCode"`
	Code        string `json:"code"`
	Description string `json:"description"`
}
