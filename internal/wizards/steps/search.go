package steps

import (
	"context"
	"fmt"

	"contacts/internal/contactsapi"
	"contacts/internal/derivation"
	"contacts/internal/domain"
	"contacts/internal/form"
	"contacts/internal/journey"
	"contacts/internal/navigation"
	"contacts/internal/wizard"
)

// ActionSelect picks a search result: "select:<id>".
const ActionSelect = "select"

type SearchForm struct {
	LastName    string `form:"lastName" validate:"required,max=35" msg-required:"Enter the contact's last name" msg-max:"Last name must be 35 characters or less"`
	FirstName   string `form:"firstName" validate:"max=35" msg:"First name must be 35 characters or less"`
	MiddleNames string `form:"middleNames" validate:"max=35" msg:"Middle names must be 35 characters or less"`
}

// SearchPage searches for an existing contact. Submitting the form stores
// the search and shows results on the same page; a select button picks one.
func SearchPage[P journey.Payload](id navigation.StepID, search func(P) *journey.ContactSearch, match func(P) *journey.ContactMatch, client contactsapi.Client) *wizard.Page[P, SearchForm] {
	return &wizard.Page[P, SearchForm]{
		ID: id,
		Prefill: func(p P) SearchForm {
			s := search(p)
			return SearchForm{LastName: s.LastName, FirstName: s.FirstName, MiddleNames: s.MiddleNames}
		},
		Apply: func(_ context.Context, _ *journey.Journey, p P, f *SearchForm) error {
			*search(p) = journey.ContactSearch{LastName: f.LastName, FirstName: f.FirstName, MiddleNames: f.MiddleNames}
			*match(p) = journey.ContactMatch{}
			return nil
		},
		Action: func(ctx context.Context, _ *journey.Journey, p P, a form.Action) (wizard.Outcome, error) {
			if a.Name != ActionSelect || a.Index <= 0 {
				return wizard.Stay, wizard.ErrUnknownAction
			}
			c, err := client.GetContact(ctx, int64(a.Index))
			if err != nil {
				return wizard.Stay, fmt.Errorf("selecting contact %d: %w", a.Index, err)
			}
			*match(p) = journey.ContactMatch{ContactID: c.ID, Name: c.FullName()}
			return wizard.Advance, nil
		},
		Data: func(ctx context.Context, _ *journey.Journey, p P) (any, error) {
			s := search(p)
			if s.Empty() {
				return map[string]any{"results": []domain.ContactSearchResult{}}, nil
			}
			results, err := client.SearchContacts(ctx, contactsapi.ContactSearch{
				LastName:    s.LastName,
				FirstName:   s.FirstName,
				MiddleNames: s.MiddleNames,
			})
			if err != nil {
				return nil, err
			}
			return map[string]any{"results": results, "searched": true}, nil
		},
	}
}

type ContactMatchForm struct {
	IsContact string `form:"isContactMatched" validate:"required,yesno" msg:"Select whether this is the right contact"`
}

// MatchView is the candidate contact shown for confirmation.
type MatchView struct {
	Contact *domain.Contact `json:"contact"`
	Address *domain.Address `json:"address,omitempty"`
}

// ContactMatchPage asks the user to confirm the selected contact. Saying no
// drops the selection so the flow returns to search.
func ContactMatchPage[P journey.Payload](id navigation.StepID, match func(P) *journey.ContactMatch, client contactsapi.Client) *wizard.Page[P, ContactMatchForm] {
	return &wizard.Page[P, ContactMatchForm]{
		ID: id,
		Prefill: func(p P) ContactMatchForm {
			if m := match(p); m.Confirmed {
				return ContactMatchForm{IsContact: Yes}
			}
			return ContactMatchForm{}
		},
		Apply: func(_ context.Context, _ *journey.Journey, p P, f *ContactMatchForm) error {
			m := match(p)
			if f.IsContact == Yes && m.ContactID != 0 {
				m.Confirmed = true
				return nil
			}
			*m = journey.ContactMatch{}
			return nil
		},
		Data: func(ctx context.Context, _ *journey.Journey, p P) (any, error) {
			m := match(p)
			if m.ContactID == 0 {
				return MatchView{}, nil
			}
			c, err := client.GetContact(ctx, m.ContactID)
			if err != nil {
				return nil, err
			}
			view := MatchView{Contact: c}
			if a, ok := derivation.MostRelevantAddress(c.Addresses, true); ok {
				view.Address = &a
			}
			return view, nil
		},
	}
}
