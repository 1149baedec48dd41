package httptransport

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"contacts/internal/contactsapi/mocks"
	"contacts/internal/form"
	"contacts/internal/journey"
	jwttoken "contacts/internal/jwt_token"
	"contacts/internal/platform/logger"
	"contacts/internal/session/store"
	"contacts/pkg/testutil"
)

const cookieName = "contacts.session"

func newRouter(t *testing.T, ready func(context.Context) error) (http.Handler, *jwttoken.JWTService) {
	t.Helper()
	sessions := store.NewMemory()
	tokens := jwttoken.NewJWTService("test-signing-key", "contacts")
	h, err := NewRouter(Deps{
		Logger:     logger.Discard(),
		Issuer:     tokens,
		Validator:  jwttoken.NewJWTServiceAdapter(tokens),
		CookieName: cookieName,
		SessionTTL: time.Hour,
		Client:     mocks.NewMockClient(gomock.NewController(t)),
		Journeys:   journey.NewStore(sessions, 24*time.Hour),
		Flasher:    form.NewFlasher(sessions),
		Ready:      ready,
	})
	require.NoError(t, err)
	return h, tokens
}

func TestHealth(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		h, _ := newRouter(t, nil)
		rr := testutil.DoRequest(h, testutil.NewRequest(t, http.MethodGet, "/health"))
		testutil.AssertStatus(t, rr, http.StatusOK)
		assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
	})

	t.Run("backing service down", func(t *testing.T) {
		h, _ := newRouter(t, func(context.Context) error { return errors.New("redis down") })
		rr := testutil.DoRequest(h, testutil.NewRequest(t, http.MethodGet, "/health"))
		testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
	})
}

func TestMetricsEndpoint(t *testing.T) {
	h, _ := newRouter(t, nil)
	rr := testutil.DoRequest(h, testutil.NewRequest(t, http.MethodGet, "/metrics"))
	testutil.AssertStatus(t, rr, http.StatusOK)
}

func TestSignIn(t *testing.T) {
	h, tokens := newRouter(t, nil)

	rr := testutil.DoRequest(h, testutil.NewFormRequest(t, "/sign-in", url.Values{
		"username":  {"staff1"},
		"returnUrl": {"/prisoner/A1234BC/contacts/list"},
	}))
	testutil.AssertRedirect(t, rr, "/prisoner/A1234BC/contacts/list")

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, cookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	claims, err := tokens.ValidateToken(cookies[0].Value)
	require.NoError(t, err)
	assert.Equal(t, "staff1", claims.Subject)
}

func TestSignInRejectsForeignReturnURL(t *testing.T) {
	h, _ := newRouter(t, nil)
	rr := testutil.DoRequest(h, testutil.NewFormRequest(t, "/sign-in", url.Values{
		"username":  {"staff1"},
		"returnUrl": {"//evil.example.com"},
	}))
	testutil.AssertRedirect(t, rr, "/")
}

func TestSignInNeedsUsername(t *testing.T) {
	h, _ := newRouter(t, nil)
	rr := testutil.DoRequest(h, testutil.NewFormRequest(t, "/sign-in", url.Values{}))
	testutil.AssertStatus(t, rr, http.StatusBadRequest)

	var view SignInView
	v := testutil.DecodeView(t, rr, &view)
	assert.Equal(t, "sign-in", v.View)
	require.Len(t, view.Errors, 1)
	assert.Equal(t, "username", view.Errors[0].Field)
	assert.Empty(t, rr.Result().Cookies())
}

func TestSignOut(t *testing.T) {
	h, _ := newRouter(t, nil)
	rr := testutil.DoRequest(h, testutil.NewFormRequest(t, "/sign-out", url.Values{}))
	testutil.AssertRedirect(t, rr, "/sign-in")
	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func TestWizardsNeedASession(t *testing.T) {
	h, tokens := newRouter(t, nil)
	start := "/prisoner/A1234BC/contacts/create/start"

	rr := testutil.DoRequest(h, testutil.NewRequest(t, http.MethodGet, start))
	testutil.AssertStatus(t, rr, http.StatusUnauthorized)

	token, _, err := tokens.IssueSessionToken("staff1", time.Hour)
	require.NoError(t, err)
	req := testutil.NewRequest(t, http.MethodGet, start)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: token})
	rr = testutil.DoRequest(h, req)
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.True(t, strings.HasPrefix(rr.Header().Get("Location"), "/prisoner/A1234BC/contacts/create/enter-name/"))
}
