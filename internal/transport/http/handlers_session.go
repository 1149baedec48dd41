package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"contacts/internal/form"
	"contacts/internal/paths"
	"contacts/internal/wizard"
	"contacts/pkg/platform/httputil"
	"contacts/pkg/platform/middleware/metadata"
	"contacts/pkg/requestcontext"

	dErrors "contacts/pkg/domain-errors"
)

// SessionIssuer starts sessions for signed-in staff.
type SessionIssuer interface {
	IssueSessionToken(username string, expiresIn time.Duration) (token, sessionID string, err error)
}

// SessionHandler signs staff in and out. Sign-in stands in for the
// identity provider in front of the service: it trusts the username it is
// given.
type SessionHandler struct {
	issuer     SessionIssuer
	cookieName string
	ttl        time.Duration
	renderer   wizard.Renderer
	logger     *slog.Logger
}

func (h *SessionHandler) Register(r chi.Router) {
	r.Get("/sign-in", h.handleSignInPage)
	r.Post("/sign-in", h.handleSignIn)
	r.Post("/sign-out", h.handleSignOut)
}

type SignInForm struct {
	Username string `form:"username" validate:"required,max=64" msg:"Enter your username"`
}

type SignInView struct {
	ReturnURL string           `json:"returnUrl"`
	Form      SignInForm       `json:"form"`
	Errors    form.FieldErrors `json:"errors,omitempty"`
}

func (h *SessionHandler) handleSignInPage(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, http.StatusOK, "sign-in", SignInView{
		ReturnURL: paths.Local(r.URL.Query().Get("returnUrl"), "/"),
	})
}

func (h *SessionHandler) handleSignIn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		wizard.RenderError(h.renderer, w, r, dErrors.New(dErrors.CodeBadRequest, "Malformed form submission"))
		return
	}
	returnURL := paths.Local(r.PostForm.Get("returnUrl"), "/")

	var f SignInForm
	if err := form.Decode(r.PostForm, &f); err != nil {
		wizard.RenderError(h.renderer, w, r, dErrors.New(dErrors.CodeBadRequest, "Malformed form submission"))
		return
	}
	errs, err := form.Validate(&f)
	if err != nil {
		wizard.RenderError(h.renderer, w, r, dErrors.Wrap(err, dErrors.CodeInternal, "validating sign in"))
		return
	}
	if len(errs) > 0 {
		h.renderer.Render(w, r, http.StatusBadRequest, "sign-in", SignInView{ReturnURL: returnURL, Form: f, Errors: errs})
		return
	}

	token, sessionID, err := h.issuer.IssueSessionToken(f.Username, h.ttl)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue session",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		wizard.RenderError(h.renderer, w, r, dErrors.Wrap(err, dErrors.CodeInternal, "issuing session"))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.ttl.Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	h.logger.InfoContext(ctx, "signed in",
		"username", f.Username,
		"session_id", sessionID,
		"client_ip", metadata.GetClientIP(ctx),
		"request_id", requestcontext.RequestID(ctx),
	)
	httputil.SeeOther(w, r, returnURL)
}

func (h *SessionHandler) handleSignOut(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	httputil.SeeOther(w, r, "/sign-in")
}
