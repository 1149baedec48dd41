// Package contactview serves the read-only contact pages the wizards start
// from and return to.
package contactview

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"contacts/internal/contactsapi"
	"contacts/internal/derivation"
	"contacts/internal/domain"
	"contacts/internal/journey"
	"contacts/internal/paths"
	"contacts/internal/wizard"
	"contacts/internal/wizards/steps"
	"contacts/pkg/requestcontext"

	dErrors "contacts/pkg/domain-errors"
)

// Handler renders contact details.
type Handler struct {
	client   contactsapi.Client
	renderer wizard.Renderer
	logger   *slog.Logger
}

type Option func(*Handler)

func WithRenderer(r wizard.Renderer) Option {
	return func(h *Handler) {
		h.renderer = r
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

func New(client contactsapi.Client, opts ...Option) *Handler {
	h := &Handler{client: client, renderer: wizard.JSONRenderer{}, logger: slog.Default()}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/prisoner/{prisonerNumber}/contacts/manage/{contactId}/relationship/{relationshipId}", h.handleRelationship)
	r.Get("/contacts/manage/{contactId}", h.handleContact)
}

// RelationshipView is a contact as seen from one prisoner's list.
type RelationshipView struct {
	PrisonerNumber string                  `json:"prisonerNumber"`
	Contact        *domain.Contact         `json:"contact"`
	Relationship   *domain.PrisonerContact `json:"relationship"`
	// Address is the address to show first; it may be expired when the
	// contact has no active address.
	Address                     *domain.Address         `json:"address,omitempty"`
	PrisonerContactRestrictions []domain.Restriction    `json:"prisonerContactRestrictions"`
	GlobalRestrictions          []domain.Restriction    `json:"globalRestrictions"`
	Alerts                      []domain.Alert          `json:"alerts"`
	NameChanges                 []derivation.NameChange `json:"nameChanges"`
	Links                       map[string]string       `json:"links"`
}

func (h *Handler) handleRelationship(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	route, err := steps.ContactRouteOf(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var (
		contact      *domain.Contact
		relationship *domain.PrisonerContact
		restrictions *contactsapi.Restrictions
		history      []domain.ContactRevision
		alerts       []domain.Alert
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		contact, err = h.client.GetContact(gctx, route.ContactID)
		return err
	})
	g.Go(func() (err error) {
		relationship, err = h.client.GetRelationship(gctx, route.RelationshipID)
		return err
	})
	g.Go(func() (err error) {
		restrictions, err = h.client.ListRestrictions(gctx, route.RelationshipID)
		return err
	})
	g.Go(func() (err error) {
		history, err = h.client.ContactHistory(gctx, route.ContactID)
		return err
	})
	g.Go(func() (err error) {
		alerts, err = h.client.PrisonerAlerts(gctx, route.PrisonerNumber)
		return err
	})
	if err := g.Wait(); err != nil {
		h.fail(w, r, err)
		return
	}
	if relationship.ContactID != route.ContactID || relationship.PrisonerNumber != route.PrisonerNumber {
		h.fail(w, r, dErrors.New(dErrors.CodeNotFound, "Page not found"))
		return
	}

	view := RelationshipView{
		PrisonerNumber:              route.PrisonerNumber,
		Contact:                     contact,
		Relationship:                relationship,
		PrisonerContactRestrictions: derivation.OrderRestrictions(restrictions.PrisonerContact),
		GlobalRestrictions:          derivation.OrderRestrictions(restrictions.Contact),
		Alerts:                      derivation.OrderAlerts(alerts, requestcontext.Now(ctx)),
		NameChanges:                 derivation.CollapseNameHistory(history),
		Links:                       relationshipLinks(route),
	}
	if a, ok := derivation.MostRelevantAddress(contact.Addresses, true); ok {
		view.Address = &a
	}
	h.renderer.Render(w, r, http.StatusOK, "contact-details", view)
}

func relationshipLinks(route steps.ContactRoute) map[string]string {
	details := paths.ContactDetails(route.PrisonerNumber, route.ContactID, route.RelationshipID)
	ret := "?returnUrl=" + url.QueryEscape(details)
	return map[string]string{
		"editRelationship":              paths.Start(paths.Relationship(route.PrisonerNumber, route.ContactID, route.RelationshipID)) + "?mode=" + string(journey.ModeEditRelationshipType),
		"changeContact":                 paths.Start(paths.Relationship(route.PrisonerNumber, route.ContactID, route.RelationshipID)) + "?mode=" + string(journey.ModeChangeRelatedContact),
		"addAddress":                    paths.Start(paths.Address(route.PrisonerNumber, route.ContactID, route.RelationshipID)),
		"addPrisonerContactRestriction": paths.Start(paths.Restriction(route.PrisonerNumber, route.ContactID, route.RelationshipID, string(journey.ModePrisonerContactRestriction))),
		"addContactGlobalRestriction":   paths.Start(paths.Restriction(route.PrisonerNumber, route.ContactID, route.RelationshipID, string(journey.ModeContactGlobalRestriction))),
		"updateEmployments":             paths.Start(paths.UpdateEmployments(route.ContactID)) + ret,
		"contactList":                   paths.ContactList(route.PrisonerNumber),
	}
}

// ContactView is a contact without a prisoner in view.
type ContactView struct {
	Contact     *domain.Contact         `json:"contact"`
	Address     *domain.Address         `json:"address,omitempty"`
	NameChanges []derivation.NameChange `json:"nameChanges"`
	Links       map[string]string       `json:"links"`
}

func (h *Handler) handleContact(w http.ResponseWriter, r *http.Request) {
	contactID, err := steps.IDParam(r, "contactId")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var (
		contact *domain.Contact
		history []domain.ContactRevision
	)
	g, gctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		contact, err = h.client.GetContact(gctx, contactID)
		return err
	})
	g.Go(func() (err error) {
		history, err = h.client.ContactHistory(gctx, contactID)
		return err
	})
	if err := g.Wait(); err != nil {
		h.fail(w, r, err)
		return
	}

	view := ContactView{
		Contact:     contact,
		NameChanges: derivation.CollapseNameHistory(history),
		Links:       map[string]string{"updateEmployments": paths.Start(paths.UpdateEmployments(contactID))},
	}
	if a, ok := derivation.MostRelevantAddress(contact.Addresses, true); ok {
		view.Address = &a
	}
	h.renderer.Render(w, r, http.StatusOK, "contact", view)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	de := wizard.Classify(err)
	if de.Code == dErrors.CodeInternal || de.Code == dErrors.CodeUnavailable {
		h.logger.ErrorContext(r.Context(), "failed to load contact",
			"error", err,
			"path", r.URL.Path,
			"request_id", requestcontext.RequestID(r.Context()),
		)
	}
	wizard.RenderError(h.renderer, w, r, de)
}
