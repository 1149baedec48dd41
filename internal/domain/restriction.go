package domain

import (
	"time"

	"cloud.google.com/go/civil"
)

// Restriction limits how a contact may interact with a prisoner (or with any
// prisoner, for contact-global restrictions).
type Restriction struct {
	ID          int64       `json:"restrictionId"`
	Type        string      `json:"restrictionType"`
	Description string      `json:"restrictionTypeDescription,omitempty"`
	StartDate   civil.Date  `json:"startDate"`
	ExpiryDate  *civil.Date `json:"expiryDate,omitempty"`
	Comments    string      `json:"comments,omitempty"`
	EnteredBy   string      `json:"enteredByDisplayName,omitempty"`
	CreatedTime time.Time   `json:"createdTime"`
}
