package domain

import "cloud.google.com/go/civil"

// Address is a postal address held against a contact.
type Address struct {
	ID             int64       `json:"contactAddressId"`
	Type           string      `json:"addressType,omitempty"`
	Flat           string      `json:"flat,omitempty"`
	Property       string      `json:"property,omitempty"`
	Street         string      `json:"street,omitempty"`
	Area           string      `json:"area,omitempty"`
	CityCode       string      `json:"cityCode,omitempty"`
	CountyCode     string      `json:"countyCode,omitempty"`
	Postcode       string      `json:"postcode,omitempty"`
	CountryCode    string      `json:"countryCode,omitempty"`
	NoFixedAddress bool        `json:"noFixedAddress"`
	IsPrimary      bool        `json:"primaryAddress"`
	IsMail         bool        `json:"mailFlag"`
	StartDate      *civil.Date `json:"startDate,omitempty"`
	EndDate        *civil.Date `json:"endDate,omitempty"`
	Comments       string      `json:"comments,omitempty"`
	Phones         []Phone     `json:"phoneNumbers,omitempty"`
}

// Active reports whether the address has no end date.
func (a Address) Active() bool {
	return a.EndDate == nil
}
