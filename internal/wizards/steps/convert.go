package steps

import (
	"contacts/internal/contactsapi"
	"contacts/internal/domain"
	"contacts/internal/journey"
)

// PhonesRequest converts entered phone rows for the API.
func PhonesRequest(phones []journey.PhoneNumber) []domain.Phone {
	if len(phones) == 0 {
		return nil
	}
	out := make([]domain.Phone, 0, len(phones))
	for _, p := range phones {
		out = append(out, domain.Phone{Type: p.Type, Number: p.Number, Extension: p.Extension})
	}
	return out
}

// AddressRequest converts an entered address for the API.
func AddressRequest(a journey.AddressDetails, user string) contactsapi.AddressRequest {
	return contactsapi.AddressRequest{
		Type:           a.Type,
		Flat:           a.Flat,
		Property:       a.Property,
		Street:         a.Street,
		Area:           a.Area,
		CityCode:       a.CityCode,
		CountyCode:     a.CountyCode,
		Postcode:       a.Postcode,
		CountryCode:    a.CountryCode,
		NoFixedAddress: a.NoFixedAddress,
		IsPrimary:      a.IsPrimary,
		IsMail:         a.IsMail,
		StartDate:      a.StartDate,
		EndDate:        a.EndDate,
		Comments:       a.Comments,
		Phones:         PhonesRequest(a.Phones),
		UpdatedBy:      user,
	}
}

// AddressDetailsOf loads a saved address into the form answers.
func AddressDetailsOf(a domain.Address) journey.AddressDetails {
	d := journey.AddressDetails{
		Type:           a.Type,
		NoFixedAddress: a.NoFixedAddress,
		Flat:           a.Flat,
		Property:       a.Property,
		Street:         a.Street,
		Area:           a.Area,
		CityCode:       a.CityCode,
		CountyCode:     a.CountyCode,
		Postcode:       a.Postcode,
		CountryCode:    a.CountryCode,
		StartDate:      a.StartDate,
		EndDate:        a.EndDate,
		IsPrimary:      a.IsPrimary,
		IsMail:         a.IsMail,
		Comments:       a.Comments,
	}
	for _, p := range a.Phones {
		d.Phones = append(d.Phones, journey.PhoneNumber{Type: p.Type, Number: p.Number, Extension: p.Extension})
	}
	return d
}

// RelationshipRequest converts relationship answers for the API. Unanswered
// flags are sent as false.
func RelationshipRequest(prisonerNumber string, a journey.RelationshipAnswers) contactsapi.Relationship {
	return contactsapi.Relationship{
		PrisonerNumber:     prisonerNumber,
		RelationshipType:   a.Type,
		RelationshipCode:   a.Code,
		IsEmergencyContact: a.IsEmergencyContact != nil && *a.IsEmergencyContact,
		IsNextOfKin:        a.IsNextOfKin != nil && *a.IsNextOfKin,
		IsApprovedVisitor:  a.IsApprovedVisitor,
		Comments:           a.Comments,
	}
}

// AnswersOf loads a saved relationship into the form answers.
func AnswersOf(rel domain.PrisonerContact) journey.RelationshipAnswers {
	return journey.RelationshipAnswers{
		Type:               rel.RelationshipType,
		Code:               rel.RelationshipCode,
		IsEmergencyContact: boolPtr(rel.IsEmergencyContact),
		IsNextOfKin:        boolPtr(rel.IsNextOfKin),
		IsApprovedVisitor:  rel.IsApprovedVisitor,
		Comments:           rel.Comments,
	}
}
