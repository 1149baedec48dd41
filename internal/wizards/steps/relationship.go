package steps

import (
	"context"

	"contacts/internal/contactsapi"
	"contacts/internal/domain"
	"contacts/internal/journey"
	"contacts/internal/navigation"
	"contacts/internal/wizard"
)

type RelationshipTypeForm struct {
	Type string `form:"relationshipType" validate:"required,oneof=S O" msg:"Select whether this is a social or official contact"`
}

// RelationshipTypePage picks social or official. Changing the type clears
// the relationship code, which belongs to a type-specific list.
func RelationshipTypePage[P journey.Payload](id navigation.StepID, answers func(P) *journey.RelationshipAnswers) *wizard.Page[P, RelationshipTypeForm] {
	return &wizard.Page[P, RelationshipTypeForm]{
		ID: id,
		Prefill: func(p P) RelationshipTypeForm {
			return RelationshipTypeForm{Type: answers(p).Type}
		},
		Apply: func(_ context.Context, _ *journey.Journey, p P, f *RelationshipTypeForm) error {
			a := answers(p)
			if a.Type != f.Type {
				a.Code = ""
			}
			a.Type = f.Type
			return nil
		},
	}
}

type RelationshipCodeForm struct {
	Code string `form:"relationship" validate:"required,max=12" msg:"Select the contact's relationship to the prisoner"`
}

// relationshipGroup is the reference data group for a relationship type.
func relationshipGroup(relationshipType string) string {
	if relationshipType == domain.RelationshipOfficial {
		return contactsapi.GroupOfficialRelationship
	}
	return contactsapi.GroupSocialRelationship
}

// RelationshipCodePage picks the relationship from the list for the chosen type.
func RelationshipCodePage[P journey.Payload](id navigation.StepID, answers func(P) *journey.RelationshipAnswers, client contactsapi.Client) *wizard.Page[P, RelationshipCodeForm] {
	return &wizard.Page[P, RelationshipCodeForm]{
		ID: id,
		Prefill: func(p P) RelationshipCodeForm {
			return RelationshipCodeForm{Code: answers(p).Code}
		},
		Apply: func(_ context.Context, _ *journey.Journey, p P, f *RelationshipCodeForm) error {
			answers(p).Code = f.Code
			return nil
		},
		Data: func(ctx context.Context, _ *journey.Journey, p P) (any, error) {
			options, err := codes(ctx, client, relationshipGroup(answers(p).Type))
			if err != nil {
				return nil, err
			}
			return map[string]any{"relationships": options}, nil
		},
	}
}

// Emergency contact and next of kin choices.
const (
	ChoiceEmergencyContact = "EC"
	ChoiceNextOfKin        = "NOK"
	ChoiceBoth             = "ECNOK"
	ChoiceNeither          = "NONE"
)

type EmergencyContactForm struct {
	Choice string `form:"emergencyContactOrNextOfKin" validate:"required,oneof=EC NOK ECNOK NONE" msg:"Select whether the contact is an emergency contact or next of kin for the prisoner"`
}

// EmergencyContactPage records the emergency contact and next of kin flags.
func EmergencyContactPage[P journey.Payload](id navigation.StepID, answers func(P) *journey.RelationshipAnswers) *wizard.Page[P, EmergencyContactForm] {
	return &wizard.Page[P, EmergencyContactForm]{
		ID: id,
		Prefill: func(p P) EmergencyContactForm {
			a := answers(p)
			if a.IsEmergencyContact == nil || a.IsNextOfKin == nil {
				return EmergencyContactForm{}
			}
			switch {
			case *a.IsEmergencyContact && *a.IsNextOfKin:
				return EmergencyContactForm{Choice: ChoiceBoth}
			case *a.IsEmergencyContact:
				return EmergencyContactForm{Choice: ChoiceEmergencyContact}
			case *a.IsNextOfKin:
				return EmergencyContactForm{Choice: ChoiceNextOfKin}
			default:
				return EmergencyContactForm{Choice: ChoiceNeither}
			}
		},
		Apply: func(_ context.Context, _ *journey.Journey, p P, f *EmergencyContactForm) error {
			a := answers(p)
			a.IsEmergencyContact = boolPtr(f.Choice == ChoiceEmergencyContact || f.Choice == ChoiceBoth)
			a.IsNextOfKin = boolPtr(f.Choice == ChoiceNextOfKin || f.Choice == ChoiceBoth)
			return nil
		},
	}
}

type ApprovedVisitorForm struct {
	Approved string `form:"isApprovedToVisit" validate:"omitempty,yesno" msg:"Select whether the contact is approved to visit"`
}

// ApprovedVisitorPage records visit approval. Leaving it blank means not known.
func ApprovedVisitorPage[P journey.Payload](id navigation.StepID, answers func(P) *journey.RelationshipAnswers) *wizard.Page[P, ApprovedVisitorForm] {
	return &wizard.Page[P, ApprovedVisitorForm]{
		ID: id,
		Prefill: func(p P) ApprovedVisitorForm {
			return ApprovedVisitorForm{Approved: yesNo(answers(p).IsApprovedVisitor)}
		},
		Apply: func(_ context.Context, _ *journey.Journey, p P, f *ApprovedVisitorForm) error {
			a := answers(p)
			switch f.Approved {
			case Yes:
				a.IsApprovedVisitor = boolPtr(true)
			case No:
				a.IsApprovedVisitor = boolPtr(false)
			default:
				a.IsApprovedVisitor = nil
			}
			return nil
		},
	}
}

type CommentsForm struct {
	Comments string `form:"comments" validate:"max=240" msg:"Comments must be 240 characters or less"`
}

// CommentsPage edits a free-text comment.
func CommentsPage[P journey.Payload](id navigation.StepID, comments func(P) *string) *wizard.Page[P, CommentsForm] {
	return &wizard.Page[P, CommentsForm]{
		ID: id,
		Prefill: func(p P) CommentsForm {
			return CommentsForm{Comments: *comments(p)}
		},
		Apply: func(_ context.Context, _ *journey.Journey, p P, f *CommentsForm) error {
			*comments(p) = f.Comments
			return nil
		},
	}
}
