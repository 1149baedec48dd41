package journey

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"contacts/internal/journey/metrics"
	"contacts/internal/session"
	"contacts/pkg/platform/sentinel"
	"contacts/pkg/requestcontext"
)

var tracer = otel.Tracer("contacts.journey")

// namespacePrefix keeps journeys of different kinds in separate sub-maps of
// the session so the same id may be reused across kinds.
const namespacePrefix = "journey."

// Store creates, fetches, saves and deletes journeys inside the caller's
// session. The session id comes from the request context.
//
// Entries older than maxAge (by LastTouched) are dropped when read; there is
// no background sweep.
type Store struct {
	sessions session.Store
	maxAge   time.Duration
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// Option configures a Store.
type Option func(*Store)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) {
		s.metrics = m
	}
}

// NewStore constructs a journey store over a session backend.
func NewStore(sessions session.Store, maxAge time.Duration, opts ...Option) *Store {
	s := &Store{
		sessions: sessions,
		maxAge:   maxAge,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// MaxAge is how long an untouched journey survives.
func (s *Store) MaxAge() time.Duration {
	return s.maxAge
}

func (s *Store) key(ctx context.Context, kind Kind, id string) (session.Key, error) {
	sid := requestcontext.SessionID(ctx)
	if sid == "" {
		return session.Key{}, ErrNoSession
	}
	return session.Key{SessionID: sid, Namespace: namespacePrefix + string(kind), Name: id}, nil
}

// Create stores a new journey. Without overwrite it fails with ErrExists when
// the id is already taken for this kind; with overwrite the old one is reset.
func (s *Store) Create(ctx context.Context, j *Journey, overwrite bool) (err error) {
	ctx, span := startSpan(ctx, "journey.Create", j.Kind, j.ID)
	defer func() { endSpan(span, err) }()

	key, err := s.key(ctx, j.Kind, j.ID)
	if err != nil {
		return err
	}
	prev := j.LastTouched
	j.LastTouched = requestcontext.Now(ctx)
	data, err := encode(j)
	if err != nil {
		j.LastTouched = prev
		return err
	}

	var rec session.Record
	if overwrite {
		rec, err = s.sessions.Replace(ctx, key, data, s.maxAge)
	} else {
		rec, err = s.sessions.Create(ctx, key, data, s.maxAge)
	}
	if err != nil {
		j.LastTouched = prev
		if errors.Is(err, sentinel.ErrConflict) {
			return fmt.Errorf("journey %s/%s: %w", j.Kind, j.ID, ErrExists)
		}
		return fmt.Errorf("creating journey %s/%s: %w", j.Kind, j.ID, err)
	}
	j.Version = rec.Version
	return nil
}

// Get loads a journey. It returns ErrNotFound when the journey was never
// created, has been deleted, or is older than the configured age; in the last
// case the entry is removed and the error also matches sentinel.ErrExpired.
func (s *Store) Get(ctx context.Context, kind Kind, id string) (j *Journey, err error) {
	ctx, span := startSpan(ctx, "journey.Get", kind, id)
	defer func() { endSpan(span, err) }()

	key, err := s.key(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	rec, err := s.sessions.Get(ctx, key)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, fmt.Errorf("journey %s/%s: %w", kind, id, ErrNotFound)
		}
		return nil, fmt.Errorf("loading journey %s/%s: %w", kind, id, err)
	}
	j, err = decode(rec.Data, rec.Version)
	if err != nil {
		return nil, err
	}
	if j.Kind != kind {
		return nil, fmt.Errorf("journey %s/%s holds %s: %w", kind, id, j.Kind, ErrNotFound)
	}

	if s.maxAge > 0 && requestcontext.Now(ctx).Sub(j.LastTouched) > s.maxAge {
		if delErr := s.sessions.Delete(ctx, key); delErr != nil {
			s.logger.WarnContext(ctx, "failed to evict stale journey",
				"kind", kind, "journey_id", id, "error", delErr)
		}
		s.metrics.IncrementEvicted(string(kind))
		return nil, fmt.Errorf("journey %s/%s: %w: %w", kind, id, ErrNotFound, sentinel.ErrExpired)
	}
	return j, nil
}

// Save writes a loaded journey back and refreshes LastTouched. It fails with
// ErrStale if the journey was written by another request since it was
// loaded, and with ErrNotFound if it has been deleted meanwhile.
func (s *Store) Save(ctx context.Context, j *Journey) (err error) {
	ctx, span := startSpan(ctx, "journey.Save", j.Kind, j.ID)
	defer func() { endSpan(span, err) }()

	key, err := s.key(ctx, j.Kind, j.ID)
	if err != nil {
		return err
	}
	prev := j.LastTouched
	j.LastTouched = requestcontext.Now(ctx)
	data, err := encode(j)
	if err != nil {
		j.LastTouched = prev
		return err
	}
	rec, err := s.sessions.Update(ctx, key, j.Version, data, s.maxAge)
	if err != nil {
		j.LastTouched = prev
		switch {
		case errors.Is(err, sentinel.ErrConflict):
			s.metrics.IncrementStale(string(j.Kind))
			return fmt.Errorf("journey %s/%s at version %d: %w", j.Kind, j.ID, j.Version, ErrStale)
		case errors.Is(err, sentinel.ErrNotFound):
			return fmt.Errorf("journey %s/%s: %w", j.Kind, j.ID, ErrNotFound)
		default:
			return fmt.Errorf("saving journey %s/%s: %w", j.Kind, j.ID, err)
		}
	}
	j.Version = rec.Version
	return nil
}

// Touch refreshes LastTouched without changing anything else.
func (s *Store) Touch(ctx context.Context, kind Kind, id string) (*Journey, error) {
	j, err := s.Get(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if err := s.Save(ctx, j); err != nil {
		return nil, err
	}
	return j, nil
}

// Delete removes a journey. Deleting a missing journey is not an error.
func (s *Store) Delete(ctx context.Context, kind Kind, id string) (err error) {
	ctx, span := startSpan(ctx, "journey.Delete", kind, id)
	defer func() { endSpan(span, err) }()

	key, err := s.key(ctx, kind, id)
	if err != nil {
		return err
	}
	if err := s.sessions.Delete(ctx, key); err != nil {
		return fmt.Errorf("deleting journey %s/%s: %w", kind, id, err)
	}
	return nil
}

func startSpan(ctx context.Context, name string, kind Kind, id string) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("journey.kind", string(kind)),
		attribute.String("journey.id", id),
	))
}

func endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
