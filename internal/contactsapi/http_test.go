package contactsapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"contacts/pkg/platform/sentinel"
	"contacts/pkg/requestcontext"
)

//go:generate mockgen -source=client.go -destination=mocks/mocks.go -package=mocks Client

type HTTPClientSuite struct {
	suite.Suite
	mux    *http.ServeMux
	server *httptest.Server
	client *HTTPClient
}

func TestHTTPClientSuite(t *testing.T) {
	suite.Run(t, new(HTTPClientSuite))
}

func (s *HTTPClientSuite) SetupTest() {
	s.mux = http.NewServeMux()
	s.server = httptest.NewServer(s.mux)
	s.client = NewHTTP(s.server.URL+"/", WithToken("tok"))
}

func (s *HTTPClientSuite) TearDownTest() {
	s.server.Close()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *HTTPClientSuite) TestGetContact() {
	s.mux.HandleFunc("GET /contact/42", func(w http.ResponseWriter, r *http.Request) {
		s.Equal("Bearer tok", r.Header.Get("Authorization"))
		s.Equal("req-1", r.Header.Get("X-Request-ID"))
		writeJSON(w, http.StatusOK, map[string]any{
			"id":          42,
			"firstName":   "Alice",
			"lastName":    "Smith",
			"dateOfBirth": "1980-04-03",
			"addresses": []map[string]any{
				{"contactAddressId": 1, "primaryAddress": true, "startDate": "2020-01-01"},
			},
		})
	})

	ctx := requestcontext.WithRequestID(context.Background(), "req-1")
	c, err := s.client.GetContact(ctx, 42)
	s.Require().NoError(err)
	s.Equal("Alice Smith", c.FullName())
	s.Equal(&civil.Date{Year: 1980, Month: time.April, Day: 3}, c.DateOfBirth)
	s.Require().Len(c.Addresses, 1)
	s.True(c.Addresses[0].IsPrimary)
}

func (s *HTTPClientSuite) TestSearchContacts() {
	s.mux.HandleFunc("GET /contact/search", func(w http.ResponseWriter, r *http.Request) {
		s.Equal("Smith", r.URL.Query().Get("lastName"))
		s.Equal("", r.URL.Query().Get("firstName"))
		writeJSON(w, http.StatusOK, map[string]any{"content": []map[string]any{
			{"id": 1, "firstName": "Alice", "lastName": "Smith"},
			{"id": 2, "firstName": "Bob", "lastName": "Smith"},
		}})
	})

	got, err := s.client.SearchContacts(context.Background(), ContactSearch{LastName: "Smith"})
	s.Require().NoError(err)
	s.Len(got, 2)
}

func (s *HTTPClientSuite) TestAddRelationshipSendsBody() {
	s.mux.HandleFunc("POST /prisoner-contact", func(w http.ResponseWriter, r *http.Request) {
		s.Equal("application/json", r.Header.Get("Content-Type"))
		var req AddRelationshipRequest
		s.Require().NoError(json.NewDecoder(r.Body).Decode(&req))
		s.Equal(int64(7), req.ContactID)
		s.Equal("A1234BC", req.Relationship.PrisonerNumber)
		writeJSON(w, http.StatusCreated, map[string]any{"prisonerContactId": 99, "contactId": 7})
	})

	pc, err := s.client.AddRelationship(context.Background(), AddRelationshipRequest{
		ContactID:    7,
		Relationship: Relationship{PrisonerNumber: "A1234BC", RelationshipType: "S", RelationshipCode: "FRI"},
	})
	s.Require().NoError(err)
	s.Equal(int64(99), pc.RelationshipID)
}

func (s *HTTPClientSuite) TestDuplicateRelationship() {
	s.mux.HandleFunc("POST /prisoner-contact", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusConflict, map[string]any{
			"status":            409,
			"errorCode":         "DUPLICATE_RELATIONSHIP",
			"prisonerContactId": 55,
			"contactId":         7,
			"prisonerNumber":    "A1234BC",
		})
	})

	_, err := s.client.AddRelationship(context.Background(), AddRelationshipRequest{ContactID: 7})
	var dup *DuplicateRelationshipError
	s.Require().True(errors.As(err, &dup))
	s.Equal(int64(55), dup.RelationshipID)
	s.Equal(int64(7), dup.ContactID)
	s.Equal("A1234BC", dup.PrisonerNumber)
	s.ErrorIs(err, sentinel.ErrConflict)
}

func (s *HTTPClientSuite) TestOtherConflictIsNotDuplicate() {
	s.mux.HandleFunc("PATCH /prisoner-contact/3", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusConflict, map[string]any{"status": 409, "userMessage": "version mismatch"})
	})

	err := s.client.UpdateRelationship(context.Background(), 3, UpdateRelationshipRequest{})
	var dup *DuplicateRelationshipError
	s.False(errors.As(err, &dup))
	s.ErrorIs(err, sentinel.ErrConflict)
}

func (s *HTTPClientSuite) TestErrorClassification() {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusNotFound, sentinel.ErrNotFound},
		{http.StatusForbidden, sentinel.ErrForbidden},
		{http.StatusUnauthorized, sentinel.ErrForbidden},
		{http.StatusInternalServerError, sentinel.ErrUnavailable},
		{http.StatusBadGateway, sentinel.ErrUnavailable},
	}
	status := 0
	s.mux.HandleFunc("GET /organisation/1", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	})
	for _, tc := range cases {
		status = tc.status
		_, err := s.client.GetOrganisation(context.Background(), 1)
		s.ErrorIs(err, tc.want, "status %d", tc.status)
	}
}

func (s *HTTPClientSuite) TestHTMLErrorBodyIsClassifiedByStatus() {
	s.mux.HandleFunc("PATCH /prisoner-contact/3", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusConflict)
		_, _ = io.WriteString(w, "<html><body>409 Conflict</body></html>")
	})
	s.mux.HandleFunc("GET /organisation/2", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "<html><body>Bad Gateway</body></html>")
	})

	err := s.client.UpdateRelationship(context.Background(), 3, UpdateRelationshipRequest{})
	var dup *DuplicateRelationshipError
	s.False(errors.As(err, &dup))
	s.ErrorIs(err, sentinel.ErrConflict)

	_, err = s.client.GetOrganisation(context.Background(), 2)
	s.ErrorIs(err, sentinel.ErrUnavailable)
}

func (s *HTTPClientSuite) TestNoContentResponse() {
	s.mux.HandleFunc("POST /contact/5/restriction", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		s.Contains(string(body), `"startDate":"2025-01-02"`)
		w.WriteHeader(http.StatusNoContent)
	})

	err := s.client.CreateContactRestriction(context.Background(), 5, RestrictionRequest{
		Type:      "BAN",
		StartDate: civil.Date{Year: 2025, Month: time.January, Day: 2},
	})
	s.NoError(err)
}

func TestTransportFailureIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	c := NewHTTP(url)
	_, err := c.GetContact(context.Background(), 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel.ErrUnavailable)
}
