// Package wizardtest drives wizards over HTTP in tests, the way a browser
// would: every request carries the same session and redirects are checked
// rather than followed.
package wizardtest

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"contacts/internal/contactsapi"
	"contacts/internal/form"
	"contacts/internal/journey"
	"contacts/internal/navigation"
	"contacts/internal/session/store"
	"contacts/internal/wizard"
	"contacts/pkg/requestcontext"
	"contacts/pkg/testutil"
)

// Binder builds a wizard from its registered flow.
type Binder func(*navigation.Flow, contactsapi.Client) (*wizard.Wizard, error)

// Harness serves one wizard from an in-memory session store.
type Harness struct {
	t        *testing.T
	Now      time.Time
	Session  string
	Username string
	Sessions *store.InMemoryStore
	Store    *journey.Store
	handler  http.Handler
	ids      int
}

// New mounts the wizard built by bind on flow. Journey ids are j1, j2, ...
func New(t *testing.T, flow *navigation.Flow, bind Binder, client contactsapi.Client) *Harness {
	t.Helper()
	h := &Harness{
		t:        t,
		Now:      time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
		Session:  "sess-1",
		Username: "staff1",
	}
	h.Sessions = store.NewMemory(store.WithClock(func() time.Time { return h.Now }))
	h.Store = journey.NewStore(h.Sessions, 24*time.Hour)

	resolver, err := navigation.NewResolver(flow)
	require.NoError(t, err)
	wz, err := bind(flow, client)
	require.NoError(t, err)

	engine := wizard.New(h.Store, resolver, form.NewFlasher(h.Sessions),
		wizard.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		wizard.WithIDGenerator(func() string {
			h.ids++
			return "j" + strconv.Itoa(h.ids)
		}),
	)
	router := chi.NewRouter()
	engine.Register(router, wz)
	h.handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		router.ServeHTTP(w, testutil.WithSession(r, h.Session, h.Username, h.Now))
	})
	return h
}

// Get issues a GET and returns the response.
func (h *Harness) Get(path string) *http.Response {
	h.t.Helper()
	return testutil.DoRequest(h.handler, testutil.NewRequest(h.t, http.MethodGet, path)).Result()
}

// Post submits a form.
func (h *Harness) Post(path string, values url.Values) *http.Response {
	h.t.Helper()
	return testutil.DoRequest(h.handler, testutil.NewFormRequest(h.t, path, values)).Result()
}

// Redirects asserts res is a See Other to location.
func (h *Harness) Redirects(res *http.Response, location string) {
	h.t.Helper()
	require.Equal(h.t, http.StatusSeeOther, res.StatusCode, "expected a redirect to %s", location)
	require.Equal(h.t, location, res.Header.Get("Location"))
}

// View GETs a page, requires 200 and decodes its model into dst.
func (h *Harness) View(path string, dst any) testutil.View {
	h.t.Helper()
	rr := testutil.DoRequest(h.handler, testutil.NewRequest(h.t, http.MethodGet, path))
	require.Equal(h.t, http.StatusOK, rr.Code, "GET %s: %s", path, rr.Body.String())
	return testutil.DecodeView(h.t, rr, dst)
}

func (h *Harness) ctx() context.Context {
	ctx := requestcontext.WithSessionID(context.Background(), h.Session)
	return requestcontext.WithTime(ctx, h.Now)
}

// Journey loads a journey straight from the store.
func (h *Harness) Journey(kind journey.Kind, id string) (*journey.Journey, error) {
	return h.Store.Get(h.ctx(), kind, id)
}

// Payload loads a journey and its payload, failing the test if either is missing.
func Payload[P journey.Payload](h *Harness, kind journey.Kind, id string) P {
	h.t.Helper()
	j, err := h.Journey(kind, id)
	require.NoError(h.t, err)
	p, err := journey.PayloadAs[P](j)
	require.NoError(h.t, err)
	return p
}

// Page is the part of a step's model most tests look at.
type Page[F any] struct {
	Step              string           `json:"step"`
	IsCheckingAnswers bool             `json:"isCheckingAnswers"`
	Links             Links            `json:"links"`
	Form              F                `json:"form"`
	Errors            form.FieldErrors `json:"errors"`
	Data              map[string]any   `json:"data"`
}

type Links struct {
	Back   string `json:"back"`
	Cancel string `json:"cancel"`
	Action string `json:"action"`
}
