package steps

import (
	"context"
	"strings"

	"contacts/internal/contactsapi"
	"contacts/internal/form"
	"contacts/internal/journey"
	"contacts/internal/navigation"
	"contacts/internal/wizard"
)

// defaultCountry is preselected on the address form.
const defaultCountry = "ENG"

type AddressTypeForm struct {
	Type string `form:"addressType" validate:"required,max=12" msg:"Select the address type"`
}

// AddressTypePage picks the address type (home, work, ...).
func AddressTypePage[P journey.Payload](id navigation.StepID, address func(P) *journey.AddressDetails, client contactsapi.Client) *wizard.Page[P, AddressTypeForm] {
	return &wizard.Page[P, AddressTypeForm]{
		ID: id,
		Prefill: func(p P) AddressTypeForm {
			return AddressTypeForm{Type: address(p).Type}
		},
		Apply: func(_ context.Context, _ *journey.Journey, p P, f *AddressTypeForm) error {
			address(p).Type = f.Type
			return nil
		},
		Data: func(ctx context.Context, _ *journey.Journey, _ P) (any, error) {
			types, err := codes(ctx, client, contactsapi.GroupAddressType)
			if err != nil {
				return nil, err
			}
			return map[string]any{"addressTypes": types}, nil
		},
	}
}

type AddressForm struct {
	NoFixedAddress bool   `form:"noFixedAddress"`
	Flat           string `form:"flat" validate:"max=30" msg:"Flat or building name must be 30 characters or less"`
	Property       string `form:"property" validate:"max=50" msg:"Property name or number must be 50 characters or less"`
	Street         string `form:"street" validate:"max=160" msg:"Street must be 160 characters or less"`
	Area           string `form:"area" validate:"max=70" msg:"Area must be 70 characters or less"`
	CityCode       string `form:"cityCode" validate:"max=12"`
	CountyCode     string `form:"countyCode" validate:"max=12"`
	Postcode       string `form:"postcode" validate:"max=12" msg:"Postcode must be 12 characters or less"`
	CountryCode    string `form:"countryCode" validate:"required,max=12" msg:"Select a country"`
}

// EnterAddressPage edits the address lines.
func EnterAddressPage[P journey.Payload](id navigation.StepID, address func(P) *journey.AddressDetails, client contactsapi.Client) *wizard.Page[P, AddressForm] {
	return &wizard.Page[P, AddressForm]{
		ID: id,
		Prefill: func(p P) AddressForm {
			a := address(p)
			country := a.CountryCode
			if country == "" {
				country = defaultCountry
			}
			return AddressForm{
				NoFixedAddress: a.NoFixedAddress,
				Flat:           a.Flat,
				Property:       a.Property,
				Street:         a.Street,
				Area:           a.Area,
				CityCode:       a.CityCode,
				CountyCode:     a.CountyCode,
				Postcode:       a.Postcode,
				CountryCode:    country,
			}
		},
		Apply: func(_ context.Context, _ *journey.Journey, p P, f *AddressForm) error {
			a := address(p)
			a.NoFixedAddress = f.NoFixedAddress
			a.Flat = f.Flat
			a.Property = f.Property
			a.Street = f.Street
			a.Area = f.Area
			a.CityCode = f.CityCode
			a.CountyCode = f.CountyCode
			a.Postcode = strings.ToUpper(f.Postcode)
			a.CountryCode = f.CountryCode
			return nil
		},
		Data: func(ctx context.Context, _ *journey.Journey, _ P) (any, error) {
			out := make(map[string]any, 3)
			for key, group := range map[string]string{
				"cities":    contactsapi.GroupCity,
				"counties":  contactsapi.GroupCounty,
				"countries": contactsapi.GroupCountry,
			} {
				list, err := codes(ctx, client, group)
				if err != nil {
					return nil, err
				}
				out[key] = list
			}
			return out, nil
		},
	}
}

type AddressDatesForm struct {
	From form.MonthYear `form:"from"`
	To   form.MonthYear `form:"to"`
}

func (f *AddressDatesForm) Check() form.FieldErrors {
	errs := f.From.Check("from", true, "date the contact started living at the address")
	errs = append(errs, f.To.Check("to", false, "date the contact stopped living at the address")...)
	if len(errs) > 0 {
		return errs
	}
	from, _ := f.From.Date()
	if to, ok := f.To.Date(); ok && to.Before(from) {
		errs = append(errs, form.Err("to.month", "The end date must be the same as or after the start date"))
	}
	return errs
}

// AddressDatesPage records when the contact lived at the address.
func AddressDatesPage[P journey.Payload](id navigation.StepID, address func(P) *journey.AddressDetails) *wizard.Page[P, AddressDatesForm] {
	return &wizard.Page[P, AddressDatesForm]{
		ID: id,
		Prefill: func(p P) AddressDatesForm {
			a := address(p)
			return AddressDatesForm{From: form.MonthYearOf(a.StartDate), To: form.MonthYearOf(a.EndDate)}
		},
		Apply: func(_ context.Context, _ *journey.Journey, p P, f *AddressDatesForm) error {
			a := address(p)
			a.StartDate = form.OptionalDate(f.From.Date())
			a.EndDate = form.OptionalDate(f.To.Date())
			return nil
		},
	}
}

type AddressFlagsForm struct {
	Primary string `form:"primary" validate:"required,yesno" msg:"Select whether this is the contact's primary address"`
	Mail    string `form:"mail" validate:"required,yesno" msg:"Select whether this is the contact's postal address"`
}

// AddressFlagsPage records the primary and postal flags. done runs after the
// flags are saved; the add-contact sub-flow uses it to file the finished
// address.
func AddressFlagsPage[P journey.Payload](id navigation.StepID, address func(P) *journey.AddressDetails, done func(P)) *wizard.Page[P, AddressFlagsForm] {
	return &wizard.Page[P, AddressFlagsForm]{
		ID: id,
		Prefill: func(p P) AddressFlagsForm {
			a := address(p)
			if a.Type == "" && a.StartDate == nil {
				return AddressFlagsForm{}
			}
			return AddressFlagsForm{Primary: yesNo(&a.IsPrimary), Mail: yesNo(&a.IsMail)}
		},
		Apply: func(_ context.Context, _ *journey.Journey, p P, f *AddressFlagsForm) error {
			a := address(p)
			a.IsPrimary = f.Primary == Yes
			a.IsMail = f.Mail == Yes
			if done != nil {
				done(p)
			}
			return nil
		},
	}
}
