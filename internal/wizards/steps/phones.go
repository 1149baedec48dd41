package steps

import (
	"context"
	"strconv"

	"contacts/internal/contactsapi"
	"contacts/internal/form"
	"contacts/internal/journey"
	"contacts/internal/navigation"
	"contacts/internal/wizard"
)

type PhoneRow struct {
	Type      string `form:"type" validate:"max=12"`
	Number    string `form:"phoneNumber" validate:"omitempty,max=20,phone" msg-max:"Phone number must be 20 characters or less" msg:"Enter a phone number, like 01632 960 001, 07700 900 982 or +44 808 157 0192"`
	Extension string `form:"extension" validate:"max=7" msg:"Extension must be 7 characters or less"`
}

// Blank reports a row nobody filled in.
func (r PhoneRow) Blank() bool {
	return r.Type == "" && r.Number == "" && r.Extension == ""
}

type PhonesForm struct {
	Phones []PhoneRow `form:"phones" validate:"dive"`
}

// Check requires a type and a number on every row that is not blank.
func (f *PhonesForm) Check() form.FieldErrors {
	var errs form.FieldErrors
	for i, r := range f.Phones {
		if r.Blank() {
			continue
		}
		prefix := "phones[" + strconv.Itoa(i) + "]."
		if r.Type == "" {
			errs = append(errs, form.Err(prefix+"type", "Select the type of phone number"))
		}
		if r.Number == "" {
			errs = append(errs, form.Err(prefix+"phoneNumber", "Enter a phone number"))
		}
	}
	return errs
}

// PhonesPage edits a list of phone numbers with add/remove row buttons.
// Blank rows are dropped, so submitting only blank rows saves no numbers.
func PhonesPage[P journey.Payload](id navigation.StepID, phones func(P) *[]journey.PhoneNumber, client contactsapi.Client) *wizard.Page[P, PhonesForm] {
	return &wizard.Page[P, PhonesForm]{
		ID: id,
		Prefill: func(p P) PhonesForm {
			saved := *phones(p)
			if len(saved) == 0 {
				return PhonesForm{Phones: []PhoneRow{{}}}
			}
			rows := make([]PhoneRow, len(saved))
			for i, ph := range saved {
				rows[i] = PhoneRow{Type: ph.Type, Number: ph.Number, Extension: ph.Extension}
			}
			return PhonesForm{Phones: rows}
		},
		Rows: func(f *PhonesForm, a form.Action) {
			f.Phones = form.ApplyRowAction(f.Phones, a)
		},
		Apply: func(_ context.Context, _ *journey.Journey, p P, f *PhonesForm) error {
			rows := form.Compact(f.Phones)
			if len(rows) == 0 {
				*phones(p) = nil
				return nil
			}
			out := make([]journey.PhoneNumber, len(rows))
			for i, r := range rows {
				out[i] = journey.PhoneNumber{Type: r.Type, Number: r.Number, Extension: r.Extension}
			}
			*phones(p) = out
			return nil
		},
		Data: func(ctx context.Context, _ *journey.Journey, _ P) (any, error) {
			types, err := codes(ctx, client, contactsapi.GroupPhoneType)
			if err != nil {
				return nil, err
			}
			return map[string]any{"phoneTypes": types}, nil
		},
	}
}
