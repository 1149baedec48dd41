package contactsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"contacts/internal/domain"
	"contacts/pkg/platform/sentinel"
	"contacts/pkg/requestcontext"
)

// DefaultTimeout bounds a single call when the caller sets no deadline.
const DefaultTimeout = 10 * time.Second

// duplicateRelationshipCode marks a 409 body as a duplicate relationship
// rather than some other conflict.
const duplicateRelationshipCode = "DUPLICATE_RELATIONSHIP"

// HTTPClient talks JSON to the contacts service.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// HTTPOption configures an HTTPClient.
type HTTPOption func(*HTTPClient)

// WithToken sends a bearer token on every call.
func WithToken(token string) HTTPOption {
	return func(c *HTTPClient) {
		c.token = token
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) HTTPOption {
	return func(c *HTTPClient) {
		c.httpClient = hc
	}
}

func WithLogger(logger *slog.Logger) HTTPOption {
	return func(c *HTTPClient) {
		c.logger = logger
	}
}

// NewHTTP constructs a client for the service at baseURL.
func NewHTTP(baseURL string, opts ...HTTPOption) *HTTPClient {
	c := &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

var _ Client = (*HTTPClient)(nil)

func (c *HTTPClient) GetContact(ctx context.Context, contactID int64) (*domain.Contact, error) {
	var out domain.Contact
	if err := c.do(ctx, http.MethodGet, "/contact/"+id(contactID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) SearchContacts(ctx context.Context, q ContactSearch) ([]domain.ContactSearchResult, error) {
	params := url.Values{}
	params.Set("lastName", q.LastName)
	if q.FirstName != "" {
		params.Set("firstName", q.FirstName)
	}
	if q.MiddleNames != "" {
		params.Set("middleNames", q.MiddleNames)
	}
	var page struct {
		Content []domain.ContactSearchResult `json:"content"`
	}
	if err := c.do(ctx, http.MethodGet, "/contact/search?"+params.Encode(), nil, &page); err != nil {
		return nil, err
	}
	return page.Content, nil
}

func (c *HTTPClient) CreateContact(ctx context.Context, req CreateContactRequest) (*CreatedContact, error) {
	var out CreatedContact
	if err := c.do(ctx, http.MethodPost, "/contact", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) GetRelationship(ctx context.Context, relationshipID int64) (*domain.PrisonerContact, error) {
	var out domain.PrisonerContact
	if err := c.do(ctx, http.MethodGet, "/prisoner-contact/"+id(relationshipID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) AddRelationship(ctx context.Context, req AddRelationshipRequest) (*domain.PrisonerContact, error) {
	var out domain.PrisonerContact
	if err := c.do(ctx, http.MethodPost, "/prisoner-contact", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) UpdateRelationship(ctx context.Context, relationshipID int64, req UpdateRelationshipRequest) error {
	return c.do(ctx, http.MethodPatch, "/prisoner-contact/"+id(relationshipID), req, nil)
}

func (c *HTTPClient) CreateAddress(ctx context.Context, contactID int64, req AddressRequest) (*domain.Address, error) {
	var out domain.Address
	if err := c.do(ctx, http.MethodPost, "/contact/"+id(contactID)+"/address", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) UpdateAddress(ctx context.Context, contactID, addressID int64, req AddressRequest) (*domain.Address, error) {
	var out domain.Address
	if err := c.do(ctx, http.MethodPut, "/contact/"+id(contactID)+"/address/"+id(addressID), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) ListRestrictions(ctx context.Context, relationshipID int64) (*Restrictions, error) {
	var out Restrictions
	if err := c.do(ctx, http.MethodGet, "/prisoner-contact/"+id(relationshipID)+"/restriction", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) CreateContactRestriction(ctx context.Context, contactID int64, req RestrictionRequest) error {
	return c.do(ctx, http.MethodPost, "/contact/"+id(contactID)+"/restriction", req, nil)
}

func (c *HTTPClient) CreatePrisonerContactRestriction(ctx context.Context, relationshipID int64, req RestrictionRequest) error {
	return c.do(ctx, http.MethodPost, "/prisoner-contact/"+id(relationshipID)+"/restriction", req, nil)
}

func (c *HTTPClient) UpdateEmployments(ctx context.Context, contactID int64, req EmploymentsRequest) error {
	return c.do(ctx, http.MethodPatch, "/contact/"+id(contactID)+"/employment", req, nil)
}

func (c *HTTPClient) GetOrganisation(ctx context.Context, organisationID int64) (*domain.Organisation, error) {
	var out domain.Organisation
	if err := c.do(ctx, http.MethodGet, "/organisation/"+id(organisationID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) SearchOrganisations(ctx context.Context, name string) ([]domain.Organisation, error) {
	var page struct {
		Content []domain.Organisation `json:"content"`
	}
	if err := c.do(ctx, http.MethodGet, "/organisation/search?"+url.Values{"name": {name}}.Encode(), nil, &page); err != nil {
		return nil, err
	}
	return page.Content, nil
}

func (c *HTTPClient) ContactHistory(ctx context.Context, contactID int64) ([]domain.ContactRevision, error) {
	var out []domain.ContactRevision
	if err := c.do(ctx, http.MethodGet, "/contact/"+id(contactID)+"/history", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) PrisonerAlerts(ctx context.Context, prisonerNumber string) ([]domain.Alert, error) {
	var page struct {
		Content []domain.Alert `json:"content"`
	}
	if err := c.do(ctx, http.MethodGet, "/prisoners/"+url.PathEscape(prisonerNumber)+"/alerts", nil, &page); err != nil {
		return nil, err
	}
	return page.Content, nil
}

func (c *HTTPClient) ReferenceCodes(ctx context.Context, group string) ([]domain.ReferenceCode, error) {
	var out []domain.ReferenceCode
	if err := c.do(ctx, http.MethodGet, "/reference-codes/group/"+url.PathEscape(group), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func id(n int64) string {
	return strconv.FormatInt(n, 10)
}

// errorBody is the service's error response. Duplicate relationships carry
// the colliding relationship's identifiers.
type errorBody struct {
	Status            int    `json:"status"`
	ErrorCode         string `json:"errorCode"`
	UserMessage       string `json:"userMessage"`
	PrisonerContactID int64  `json:"prisonerContactId"`
	ContactID         int64  `json:"contactId"`
	PrisonerNumber    string `json:"prisonerNumber"`
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if rid := requestcontext.RequestID(ctx); rid != "" {
		req.Header.Set("X-Request-ID", rid)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%s %s: %w: %w", method, path, sentinel.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	c.logger.DebugContext(ctx, "contacts api call",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
		"request_id", requestcontext.RequestID(ctx),
	)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil || resp.StatusCode == http.StatusNoContent {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%s %s: decode response: %w", method, path, err)
		}
		return nil
	}
	return classify(method, path, resp)
}

// classify turns an error response into a sentinel or typed error.
func classify(method, path string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var eb errorBody
	// proxies and gateways answer with HTML or empty bodies; the status
	// alone decides those
	_ = json.Unmarshal(raw, &eb)

	switch {
	case resp.StatusCode == http.StatusConflict && eb.ErrorCode == duplicateRelationshipCode:
		return &DuplicateRelationshipError{
			RelationshipID: eb.PrisonerContactID,
			ContactID:      eb.ContactID,
			PrisonerNumber: eb.PrisonerNumber,
		}
	case resp.StatusCode == http.StatusConflict:
		return fmt.Errorf("%s %s: %w: %s", method, path, sentinel.ErrConflict, eb.UserMessage)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", method, path, sentinel.ErrNotFound)
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%s %s: %w", method, path, sentinel.ErrForbidden)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%s %s: %w: status %d", method, path, sentinel.ErrUnavailable, resp.StatusCode)
	default:
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, eb.UserMessage)
	}
}
