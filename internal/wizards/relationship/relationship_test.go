package relationship

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"contacts/internal/contactsapi"
	"contacts/internal/contactsapi/mocks"
	"contacts/internal/domain"
	"contacts/internal/journey"
	"contacts/internal/wizards/wizardtest"
)

const (
	details = "/prisoner/A1234BC/contacts/manage/4/relationship/9"
	base    = details + "/edit"
)

type RelationshipSuite struct {
	suite.Suite
	client *mocks.MockClient
	h      *wizardtest.Harness
}

func TestRelationshipSuite(t *testing.T) {
	suite.Run(t, new(RelationshipSuite))
}

func (s *RelationshipSuite) SetupTest() {
	s.client = mocks.NewMockClient(gomock.NewController(s.T()))
	s.client.EXPECT().ReferenceCodes(gomock.Any(), gomock.Any()).Return([]domain.ReferenceCode{}, nil).AnyTimes()
	s.h = wizardtest.New(s.T(), NewFlow(), New, s.client)
}

func (s *RelationshipSuite) step(slug string) string {
	return base + "/" + slug + "/j1"
}

func (s *RelationshipSuite) expectBegin(rel domain.PrisonerContact) {
	s.client.EXPECT().GetContact(gomock.Any(), int64(4)).Return(&domain.Contact{ID: 4, FirstName: "Bob", LastName: "Smith"}, nil)
	s.client.EXPECT().GetRelationship(gomock.Any(), int64(9)).Return(&rel, nil)
}

func existing() domain.PrisonerContact {
	return domain.PrisonerContact{
		RelationshipID:   9,
		ContactID:        4,
		PrisonerNumber:   "A1234BC",
		RelationshipType: "S",
		RelationshipCode: "BRO",
		IsNextOfKin:      true,
	}
}

func (s *RelationshipSuite) TestEditType() {
	h := s.h
	s.expectBegin(existing())
	h.Redirects(h.Get(base+"/start"), s.step("relationship-type"))

	p := wizardtest.Payload[*journey.Relationship](h, journey.KindRelationship, "j1")
	s.Equal("Bob Smith", p.ContactName)
	s.Equal("BRO", p.Relationship.Code)

	h.Redirects(h.Post(s.step("relationship-type"), url.Values{"relationshipType": {"O"}}), s.step("select-relationship"))
	h.Redirects(h.Post(s.step("select-relationship"), url.Values{"relationship": {"DR"}}), s.step("check-answers"))

	typ, code := "O", "DR"
	s.client.EXPECT().UpdateRelationship(gomock.Any(), int64(9), contactsapi.UpdateRelationshipRequest{
		RelationshipType: &typ,
		RelationshipCode: &code,
		UpdatedBy:        "staff1",
	}).Return(nil)
	h.Redirects(h.Post(s.step("check-answers"), url.Values{}), details)
}

func (s *RelationshipSuite) TestEditTypeDuplicate() {
	h := s.h
	s.expectBegin(existing())
	h.Redirects(h.Get(base+"/start"), s.step("relationship-type"))
	h.Redirects(h.Post(s.step("relationship-type"), url.Values{"relationshipType": {"S"}}), s.step("select-relationship"))
	h.Redirects(h.Post(s.step("select-relationship"), url.Values{"relationship": {"FRI"}}), s.step("check-answers"))

	s.client.EXPECT().UpdateRelationship(gomock.Any(), int64(9), gomock.Any()).
		Return(&contactsapi.DuplicateRelationshipError{RelationshipID: 15, ContactID: 4, PrisonerNumber: "A1234BC"})
	h.Redirects(h.Post(s.step("check-answers"), url.Values{}), "/journeys/relationship/j1/conflict")

	j, err := h.Journey(journey.KindRelationship, "j1")
	s.Require().NoError(err)
	s.Require().NotNil(j.Conflict)
	s.Equal(journey.Conflict{RelationshipID: 15, ContactID: 4, PrisonerNumber: "A1234BC", DisplayName: "Bob Smith"}, *j.Conflict)
}

func (s *RelationshipSuite) TestChangeContactDuplicate() {
	h := s.h
	s.expectBegin(existing())
	h.Redirects(h.Get(base+"/start?mode=CHANGE_CONTACT"), s.step("search"))

	h.Post(s.step("search"), url.Values{"lastName": {"Jones"}})
	s.client.EXPECT().GetContact(gomock.Any(), int64(5)).Return(&domain.Contact{ID: 5, FirstName: "Tom", LastName: "Jones"}, nil)
	h.Redirects(h.Post(s.step("search"), url.Values{"action": {"select:5"}}), s.step("contact-match"))
	h.Redirects(h.Post(s.step("contact-match"), url.Values{"isContactMatched": {"YES"}}), s.step("check-answers"))

	s.client.EXPECT().UpdateRelationship(gomock.Any(), int64(9), gomock.Any()).
		Return(&contactsapi.DuplicateRelationshipError{RelationshipID: 15, ContactID: 5, PrisonerNumber: "A1234BC"})
	h.Redirects(h.Post(s.step("check-answers"), url.Values{}), "/journeys/relationship/j1/conflict")

	j, err := h.Journey(journey.KindRelationship, "j1")
	s.Require().NoError(err)
	s.Equal("Tom Jones", j.Conflict.DisplayName)

	h.Redirects(h.Post("/journeys/relationship/j1/conflict", url.Values{"choice": {"existing"}}),
		"/prisoner/A1234BC/contacts/manage/5/relationship/15")
	_, err = h.Journey(journey.KindRelationship, "j1")
	s.ErrorIs(err, journey.ErrNotFound)
}

func (s *RelationshipSuite) TestRelationshipOfAnotherContactIsNotFound() {
	rel := existing()
	rel.ContactID = 8
	s.expectBegin(rel)
	s.Equal(http.StatusNotFound, s.h.Get(base+"/start").StatusCode)
}

func (s *RelationshipSuite) TestMissingJourneyIsNotFound() {
	s.Equal(http.StatusNotFound, s.h.Get(s.step("relationship-type")).StatusCode)
}
