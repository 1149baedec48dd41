package domain

import (
	"time"

	"cloud.google.com/go/civil"
)

// Alert is a prisoner alert shown alongside a prisoner's contacts.
type Alert struct {
	UUID        string      `json:"alertUuid"`
	Code        string      `json:"alertCode"`
	Description string      `json:"description"`
	ActiveFrom  civil.Date  `json:"activeFrom"`
	ActiveTo    *civil.Date `json:"activeTo,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
}
