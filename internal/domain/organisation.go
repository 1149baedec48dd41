package domain

// Organisation is an employer or other body a contact can be linked to.
type Organisation struct {
	ID   int64  `json:"organisationId"`
	Name string `json:"organisationName"`
	City string `json:"city,omitempty"`
}

// Employment links a contact to an organisation.
type Employment struct {
	ID           int64        `json:"employmentId,omitempty"`
	Organisation Organisation `json:"employer"`
	IsActive     bool         `json:"isActive"`
}
