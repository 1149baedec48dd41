package steps

import (
	"context"

	"cloud.google.com/go/civil"

	"contacts/internal/contactsapi"
	"contacts/internal/form"
	"contacts/internal/journey"
	"contacts/internal/navigation"
	"contacts/internal/wizard"
	"contacts/pkg/requestcontext"
)

type NameForm struct {
	Title       string `form:"title" validate:"max=12"`
	LastName    string `form:"lastName" validate:"required,max=35" msg-required:"Enter the contact's last name" msg-max:"Contact's last name must be 35 characters or less"`
	FirstName   string `form:"firstName" validate:"required,max=35" msg-required:"Enter the contact's first name" msg-max:"Contact's first name must be 35 characters or less"`
	MiddleNames string `form:"middleNames" validate:"max=35" msg:"Contact's middle names must be 35 characters or less"`
}

// NamePage collects a new contact's name.
func NamePage[P journey.Payload](id navigation.StepID, names func(P) *journey.Names, client contactsapi.Client) *wizard.Page[P, NameForm] {
	return &wizard.Page[P, NameForm]{
		ID: id,
		Prefill: func(p P) NameForm {
			n := names(p)
			return NameForm{Title: n.Title, LastName: n.LastName, FirstName: n.FirstName, MiddleNames: n.MiddleNames}
		},
		Apply: func(_ context.Context, _ *journey.Journey, p P, f *NameForm) error {
			*names(p) = journey.Names{Title: f.Title, LastName: f.LastName, FirstName: f.FirstName, MiddleNames: f.MiddleNames}
			return nil
		},
		Data: func(ctx context.Context, _ *journey.Journey, _ P) (any, error) {
			titles, err := codes(ctx, client, contactsapi.GroupTitle)
			if err != nil {
				return nil, err
			}
			return map[string]any{"titles": titles}, nil
		},
	}
}

type DateOfBirthForm struct {
	IsKnown string         `form:"isKnown" validate:"required,yesno" msg:"Select whether the contact's date of birth is known"`
	DOB     form.DateParts `form:"dob"`
}

func (f *DateOfBirthForm) Check() form.FieldErrors {
	if f.IsKnown != Yes {
		return nil
	}
	return f.DOB.Check("dob", true, "contact's date of birth")
}

// DateOfBirthPage asks whether the date of birth is known and what it is.
func DateOfBirthPage[P journey.Payload](id navigation.StepID, known func(P) **bool, dob func(P) **civil.Date) *wizard.Page[P, DateOfBirthForm] {
	return &wizard.Page[P, DateOfBirthForm]{
		ID: id,
		Prefill: func(p P) DateOfBirthForm {
			return DateOfBirthForm{IsKnown: yesNo(*known(p)), DOB: form.DatePartsOf(*dob(p))}
		},
		Apply: func(ctx context.Context, _ *journey.Journey, p P, f *DateOfBirthForm) error {
			if f.IsKnown == No {
				*known(p) = boolPtr(false)
				*dob(p) = nil
				return nil
			}
			d, _ := f.DOB.Date()
			if !d.Before(civil.DateOf(requestcontext.Now(ctx))) {
				return form.FieldErrors{form.Err("dob.day", "The contact's date of birth must be in the past")}
			}
			*known(p) = boolPtr(true)
			*dob(p) = &d
			return nil
		},
	}
}
