package wizard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"contacts/internal/contactsapi"
	"contacts/internal/form"
	"contacts/internal/journey"
	"contacts/internal/navigation"
	"contacts/internal/session/store"
	"contacts/pkg/platform/sentinel"
	"contacts/pkg/testutil"
)

type typeForm struct {
	Type string `form:"type" validate:"required,max=12" msg-required:"Select the restriction type" msg-max:"Type is too long"`
}

type commentsForm struct {
	Comments string `form:"comments"`
}

const (
	stepType     navigation.StepID = "type"
	stepComments navigation.StepID = "comments"
	stepCheck    navigation.StepID = "check-answers"
)

func restrictionPayload(j *journey.Journey) *journey.Restriction {
	p, _ := journey.PayloadAs[*journey.Restriction](j)
	return p
}

type EngineSuite struct {
	suite.Suite
	now      time.Time
	sessions *store.InMemoryStore
	store    *journey.Store
	handler  http.Handler
	ids      int
	commit   func(p *journey.Restriction) (string, error)
	sid      string
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupTest() {
	s.now = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	s.sid = "sess-1"
	s.ids = 0
	s.commit = func(p *journey.Restriction) (string, error) { return "/done/" + p.Type, nil }
	s.sessions = store.NewMemory(store.WithClock(func() time.Time { return s.now }))
	s.store = journey.NewStore(s.sessions, time.Hour)

	restrictions := &navigation.Flow{
		Kind:         journey.KindRestriction,
		Base:         func(j *journey.Journey) string { return "/restrict/" + restrictionPayload(j).PrisonerNumber },
		First:        navigation.To(stepType),
		CheckAnswers: stepCheck,
		Steps: []navigation.Step{
			{ID: stepType, Next: navigation.To(stepComments)},
			{ID: stepComments, Next: navigation.To(stepCheck), Prev: navigation.To(stepType)},
			{ID: stepCheck, Prev: navigation.To(stepComments)},
		},
	}
	addresses := &navigation.Flow{
		Kind:         journey.KindAddress,
		Base:         func(*journey.Journey) string { return "/addr" },
		First:        navigation.To(stepType),
		CheckAnswers: stepCheck,
		Steps: []navigation.Step{
			{ID: stepType, Next: navigation.To(stepCheck)},
			{ID: stepCheck, Prev: navigation.To(stepType)},
		},
	}
	resolver, err := navigation.NewResolver(restrictions, addresses)
	s.Require().NoError(err)

	restrictionWizard, err := NewWizard(restrictions, "/restrict/{prisonerNumber}",
		func(r *http.Request) (Beginning, error) {
			return Beginning{
				Mode:        journey.ModePrisonerContactRestriction,
				Payload:     &journey.Restriction{PrisonerNumber: chi.URLParam(r, "prisonerNumber")},
				ReturnPoint: "/home",
			}, nil
		},
		&Page[*journey.Restriction, typeForm]{
			ID:      stepType,
			Prefill: func(p *journey.Restriction) typeForm { return typeForm{Type: p.Type} },
			Apply: func(_ context.Context, _ *journey.Journey, p *journey.Restriction, f *typeForm) error {
				if f.Type == "NONE" {
					return form.FieldErrors{form.Err("type", "That type cannot be used")}
				}
				p.Type = f.Type
				return nil
			},
		},
		&Page[*journey.Restriction, commentsForm]{
			ID:      stepComments,
			Prefill: func(p *journey.Restriction) commentsForm { return commentsForm{Comments: p.Comments} },
			Apply: func(_ context.Context, _ *journey.Journey, p *journey.Restriction, f *commentsForm) error {
				p.Comments = f.Comments
				return nil
			},
		},
		&CheckAnswers[*journey.Restriction]{
			ID: stepCheck,
			Summary: func(_ context.Context, _ *journey.Journey, p *journey.Restriction) (any, error) {
				return p, nil
			},
			Commit: func(_ context.Context, _ *journey.Journey, p *journey.Restriction) (string, error) {
				return s.commit(p)
			},
			ConflictName: func(*journey.Journey, *journey.Restriction, *contactsapi.DuplicateRelationshipError) string {
				return "Existing Person"
			},
		},
	)
	s.Require().NoError(err)

	addressWizard, err := NewWizard(addresses, "/addr",
		func(*http.Request) (Beginning, error) {
			return Beginning{Mode: journey.ModeAddAddress, Payload: &journey.Address{}, ReturnPoint: "/home"}, nil
		},
		&Page[*journey.Address, typeForm]{ID: stepType},
		&CheckAnswers[*journey.Address]{ID: stepCheck},
	)
	s.Require().NoError(err)

	engine := New(s.store, resolver, form.NewFlasher(s.sessions),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithIDGenerator(func() string {
			s.ids++
			return "j" + strconv.Itoa(s.ids)
		}),
	)
	router := chi.NewRouter()
	engine.Register(router, restrictionWizard, addressWizard)
	s.handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.sid != "" {
			r = testutil.WithSession(r, s.sid, "staff1", s.now)
		}
		router.ServeHTTP(w, r)
	})
}

func (s *EngineSuite) get(path string) *http.Response {
	rr := testutil.DoRequest(s.handler, testutil.NewRequest(s.T(), http.MethodGet, path))
	return rr.Result()
}

func (s *EngineSuite) getView(path string, dst any) testutil.View {
	rr := testutil.DoRequest(s.handler, testutil.NewRequest(s.T(), http.MethodGet, path))
	s.Require().Equal(http.StatusOK, rr.Code, "GET %s", path)
	return testutil.DecodeView(s.T(), rr, dst)
}

func (s *EngineSuite) post(path string, values url.Values) *http.Response {
	rr := testutil.DoRequest(s.handler, testutil.NewFormRequest(s.T(), path, values))
	return rr.Result()
}

func (s *EngineSuite) requireRedirect(res *http.Response, location string) {
	s.Require().Equal(http.StatusSeeOther, res.StatusCode)
	s.Require().Equal(location, res.Header.Get("Location"))
}

func (s *EngineSuite) journey(id string) *journey.Journey {
	ctx := testutil.WithSession(testutil.NewRequest(s.T(), http.MethodGet, "/"), s.sid, "", s.now).Context()
	j, err := s.store.Get(ctx, journey.KindRestriction, id)
	s.Require().NoError(err)
	return j
}

// start opens a restriction journey and answers every step.
func (s *EngineSuite) startAndComplete() {
	s.requireRedirect(s.get("/restrict/A1234BC/start"), "/restrict/A1234BC/type/j1")
	s.requireRedirect(s.post("/restrict/A1234BC/type/j1", url.Values{"type": {"BAN"}}), "/restrict/A1234BC/comments/j1")
	s.requireRedirect(s.post("/restrict/A1234BC/comments/j1", url.Values{"comments": {"note"}}), "/restrict/A1234BC/check-answers/j1")
}

type pageModel struct {
	Step              string           `json:"step"`
	IsCheckingAnswers bool             `json:"isCheckingAnswers"`
	Links             links            `json:"links"`
	Form              typeForm         `json:"form"`
	Errors            form.FieldErrors `json:"errors"`
}

func (s *EngineSuite) TestStartRendersFirstStep() {
	s.requireRedirect(s.get("/restrict/A1234BC/start"), "/restrict/A1234BC/type/j1")

	var page pageModel
	v := s.getView("/restrict/A1234BC/type/j1", &page)
	s.Equal("type", v.View)
	s.Equal("/home", page.Links.Back)
	s.Equal("/restrict/A1234BC/cancel/j1", page.Links.Cancel)
	s.Equal("/restrict/A1234BC/type/j1", page.Links.Action)
	s.Empty(page.Errors)
}

func (s *EngineSuite) TestInvalidSubmissionRedisplaysWithoutSaving() {
	s.requireRedirect(s.get("/restrict/A1234BC/start"), "/restrict/A1234BC/type/j1")
	before := s.journey("j1").Version

	s.requireRedirect(s.post("/restrict/A1234BC/type/j1", url.Values{"type": {"WAY-TOO-LONG-TYPE"}}), "/restrict/A1234BC/type/j1")

	var page pageModel
	s.getView("/restrict/A1234BC/type/j1", &page)
	s.Equal("WAY-TOO-LONG-TYPE", page.Form.Type)
	s.Require().Len(page.Errors, 1)
	s.Equal("type", page.Errors[0].Field)
	s.Equal("Type is too long", page.Errors[0].Message)
	s.Equal(before, s.journey("j1").Version)
	s.Empty(restrictionPayload(s.journey("j1")).Type)

	// The flash is shown once; a reload prefills from the journey.
	s.getView("/restrict/A1234BC/type/j1", &page)
	s.Empty(page.Errors)
	s.Empty(page.Form.Type)
}

func (s *EngineSuite) TestApplyFieldErrorsCountAsInvalid() {
	s.requireRedirect(s.get("/restrict/A1234BC/start"), "/restrict/A1234BC/type/j1")
	s.requireRedirect(s.post("/restrict/A1234BC/type/j1", url.Values{"type": {"NONE"}}), "/restrict/A1234BC/type/j1")

	var page pageModel
	s.getView("/restrict/A1234BC/type/j1", &page)
	s.Equal("That type cannot be used", page.Errors.For("type"))
}

func (s *EngineSuite) TestValidSubmissionSavesAndAdvances() {
	s.startAndComplete()
	p := restrictionPayload(s.journey("j1"))
	s.Equal("BAN", p.Type)
	s.Equal("note", p.Comments)
}

func (s *EngineSuite) TestCheckingAnswersReturnsToCheckAnswers() {
	s.startAndComplete()
	s.Require().False(s.journey("j1").IsCheckingAnswers)

	s.getView("/restrict/A1234BC/check-answers/j1", nil)
	s.True(s.journey("j1").IsCheckingAnswers)

	var page pageModel
	s.getView("/restrict/A1234BC/type/j1", &page)
	s.True(page.IsCheckingAnswers)
	s.Equal("/restrict/A1234BC/check-answers/j1", page.Links.Back)
	s.Equal("BAN", page.Form.Type)

	s.requireRedirect(s.post("/restrict/A1234BC/type/j1", url.Values{"type": {"VISIT"}}), "/restrict/A1234BC/check-answers/j1")
}

func (s *EngineSuite) TestCheckAnswersLinksToEveryStep() {
	s.startAndComplete()
	var view CheckAnswersView
	s.getView("/restrict/A1234BC/check-answers/j1", &view)
	s.Equal(map[string]string{
		"type":     "/restrict/A1234BC/type/j1",
		"comments": "/restrict/A1234BC/comments/j1",
	}, view.Change)
	s.Equal("/restrict/A1234BC/comments/j1", view.Links.Back)
}

func (s *EngineSuite) TestCommitDeletesJourney() {
	s.startAndComplete()
	s.requireRedirect(s.post("/restrict/A1234BC/check-answers/j1", url.Values{}), "/done/BAN")

	// The journey is gone, so the creation wizard restarts.
	s.requireRedirect(s.get("/restrict/A1234BC/type/j1"), "/restrict/A1234BC/start")
}

func (s *EngineSuite) TestCommitFailureKeepsJourney() {
	s.startAndComplete()
	s.commit = func(*journey.Restriction) (string, error) {
		return "", fmt.Errorf("creating restriction: %w", sentinel.ErrUnavailable)
	}
	res := s.post("/restrict/A1234BC/check-answers/j1", url.Values{})
	s.Equal(http.StatusServiceUnavailable, res.StatusCode)

	s.Equal("BAN", restrictionPayload(s.journey("j1")).Type)
	s.Nil(s.journey("j1").Conflict)

	s.commit = func(*journey.Restriction) (string, error) { return "", errors.New("boom") }
	res = s.post("/restrict/A1234BC/check-answers/j1", url.Values{})
	s.Equal(http.StatusInternalServerError, res.StatusCode)
	s.getView("/restrict/A1234BC/check-answers/j1", nil)
}

func (s *EngineSuite) TestDuplicateCommitEntersConflictResolution() {
	s.startAndComplete()
	s.commit = func(*journey.Restriction) (string, error) {
		return "", &contactsapi.DuplicateRelationshipError{RelationshipID: 9, ContactID: 4, PrisonerNumber: "A1234BC"}
	}
	s.requireRedirect(s.post("/restrict/A1234BC/check-answers/j1", url.Values{}), "/journeys/restriction/j1/conflict")

	j := s.journey("j1")
	s.Require().NotNil(j.Conflict)
	s.Equal(journey.Conflict{RelationshipID: 9, ContactID: 4, PrisonerNumber: "A1234BC", DisplayName: "Existing Person"}, *j.Conflict)
	p := restrictionPayload(j)
	s.Equal("BAN", p.Type)
	s.Equal("note", p.Comments)

	var view ConflictView
	v := s.getView("/journeys/restriction/j1/conflict", &view)
	s.Equal("conflict", v.View)
	s.Equal("Existing Person", view.DisplayName)
	s.Equal("/prisoner/A1234BC/contacts/manage/4/relationship/9", view.Existing)
	s.Equal("/prisoner/A1234BC/contacts/list", view.List)

	// No default choice.
	s.requireRedirect(s.post("/journeys/restriction/j1/conflict", url.Values{}), "/journeys/restriction/j1/conflict")
	s.getView("/journeys/restriction/j1/conflict", &view)
	s.True(view.Errors.Has("choice"))

	s.requireRedirect(s.post("/journeys/restriction/j1/conflict", url.Values{"choice": {ChoiceExisting}}),
		"/prisoner/A1234BC/contacts/manage/4/relationship/9")
	s.Equal(http.StatusNotFound, s.get("/journeys/restriction/j1/conflict").StatusCode)
}

func (s *EngineSuite) TestConflictChoiceList() {
	s.startAndComplete()
	s.commit = func(*journey.Restriction) (string, error) {
		return "", &contactsapi.DuplicateRelationshipError{RelationshipID: 9, ContactID: 4, PrisonerNumber: "A1234BC"}
	}
	s.post("/restrict/A1234BC/check-answers/j1", url.Values{})
	s.requireRedirect(s.post("/journeys/restriction/j1/conflict", url.Values{"choice": {ChoiceList}}), "/prisoner/A1234BC/contacts/list")
}

func (s *EngineSuite) TestConflictWithoutPrisonerUsesJourneyPrisoner() {
	s.startAndComplete()
	s.commit = func(*journey.Restriction) (string, error) {
		return "", &contactsapi.DuplicateRelationshipError{RelationshipID: 9, ContactID: 4}
	}
	s.post("/restrict/A1234BC/check-answers/j1", url.Values{})
	s.Equal("A1234BC", s.journey("j1").Conflict.PrisonerNumber)
	s.requireRedirect(s.post("/journeys/restriction/j1/conflict", url.Values{"choice": {ChoiceList}}), "/prisoner/A1234BC/contacts/list")
}

func (s *EngineSuite) TestConflictPageWithoutConflictIsNotFound() {
	s.startAndComplete()
	s.Equal(http.StatusNotFound, s.get("/journeys/restriction/j1/conflict").StatusCode)
	s.Equal(http.StatusNotFound, s.get("/journeys/restriction/missing/conflict").StatusCode)
	s.Equal(http.StatusNotFound, s.get("/journeys/unknown/j1/conflict").StatusCode)
}

func (s *EngineSuite) TestMissingJourneyPolicies() {
	s.requireRedirect(s.get("/restrict/A1234BC/type/missing"), "/restrict/A1234BC/start")
	s.requireRedirect(s.post("/restrict/A1234BC/type/missing", url.Values{"type": {"BAN"}}), "/restrict/A1234BC/start")

	res := s.get("/addr/type/missing")
	s.Equal(http.StatusNotFound, res.StatusCode)
}

func (s *EngineSuite) TestExpiredJourneyIsMissing() {
	s.requireRedirect(s.get("/restrict/A1234BC/start"), "/restrict/A1234BC/type/j1")
	s.now = s.now.Add(2 * time.Hour)
	s.requireRedirect(s.get("/restrict/A1234BC/type/j1"), "/restrict/A1234BC/start")
}

func (s *EngineSuite) TestCancelDeletesJourney() {
	s.requireRedirect(s.get("/restrict/A1234BC/start?returnUrl=/prisoner/A1234BC/contacts/list"), "/restrict/A1234BC/type/j1")
	s.requireRedirect(s.get("/restrict/A1234BC/cancel/j1"), "/prisoner/A1234BC/contacts/list")
	s.requireRedirect(s.get("/restrict/A1234BC/type/j1"), "/restrict/A1234BC/start")
}

func (s *EngineSuite) TestCancelMissingJourneyDoesNotRestart() {
	s.requireRedirect(s.get("/restrict/A1234BC/start"), "/restrict/A1234BC/type/j1")
	s.requireRedirect(s.get("/restrict/A1234BC/cancel/j1"), "/home")

	s.Equal(http.StatusNotFound, s.get("/restrict/A1234BC/cancel/j1").StatusCode)
	s.Equal(http.StatusNotFound, s.get("/restrict/A1234BC/cancel/never-started").StatusCode)
	ctx := testutil.WithSession(testutil.NewRequest(s.T(), http.MethodGet, "/"), s.sid, "", s.now).Context()
	_, err := s.store.Get(ctx, journey.KindRestriction, "j2")
	s.ErrorIs(err, journey.ErrNotFound)
}

func (s *EngineSuite) TestStartIgnoresForeignReturnURL() {
	s.get("/restrict/A1234BC/start?returnUrl=//evil.example.com")
	s.Equal("/home", s.journey("j1").ReturnPoint)
}

func (s *EngineSuite) TestStartWithJourneyIDResetsIt() {
	const id = "3f0c5a52-4c57-4bb2-9d7e-0cc3b1f1b0a1"
	s.requireRedirect(s.get("/restrict/A1234BC/start?journeyId="+id), "/restrict/A1234BC/type/"+id)
	s.requireRedirect(s.post("/restrict/A1234BC/type/"+id, url.Values{"type": {"BAN"}}), "/restrict/A1234BC/comments/"+id)

	s.requireRedirect(s.get("/restrict/A1234BC/start?journeyId="+id), "/restrict/A1234BC/type/"+id)
	s.Empty(restrictionPayload(s.journey(id)).Type)

	s.Equal(http.StatusBadRequest, s.get("/restrict/A1234BC/start?journeyId=not-a-uuid").StatusCode)
}

func (s *EngineSuite) TestUnknownStepIsNotFound() {
	s.get("/restrict/A1234BC/start")
	s.Equal(http.StatusNotFound, s.get("/restrict/A1234BC/nope/j1").StatusCode)
}

func (s *EngineSuite) TestUnknownActionIsBadRequest() {
	s.get("/restrict/A1234BC/start")
	res := s.post("/restrict/A1234BC/type/j1", url.Values{form.ActionField: {"explode"}})
	s.Equal(http.StatusBadRequest, res.StatusCode)
}

func (s *EngineSuite) TestNoSessionIsUnauthorized() {
	s.sid = ""
	s.Equal(http.StatusUnauthorized, s.get("/restrict/A1234BC/start").StatusCode)
}

func (s *EngineSuite) TestJourneysAreSessionScoped() {
	s.get("/restrict/A1234BC/start")
	s.sid = "sess-2"
	s.requireRedirect(s.get("/restrict/A1234BC/type/j1"), "/restrict/A1234BC/start")
}

func (s *EngineSuite) TestNewWizardRequiresEveryStep() {
	flow := &navigation.Flow{
		Kind:         journey.KindRelationship,
		Base:         func(*journey.Journey) string { return "/rel" },
		First:        navigation.To(stepType),
		CheckAnswers: stepCheck,
		Steps:        []navigation.Step{{ID: stepType, Next: navigation.To(stepCheck)}, {ID: stepCheck}},
	}
	_, err := navigation.NewResolver(flow)
	s.Require().NoError(err)

	_, err = NewWizard(flow, "/rel", nil, &CheckAnswers[*journey.Relationship]{ID: stepCheck})
	s.Error(err)

	_, err = NewWizard(flow, "/rel", nil, &CheckAnswers[*journey.Relationship]{ID: "other"})
	s.ErrorIs(err, navigation.ErrUnknownStep)
}
