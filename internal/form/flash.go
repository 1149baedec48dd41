package form

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"contacts/internal/session"
	"contacts/pkg/platform/sentinel"
	"contacts/pkg/requestcontext"
)

const (
	flashNamespace = "flash"
	flashName      = "form"
	// flashTTL only bounds abandoned entries; a flash is normally taken by
	// the redirect that immediately follows it.
	flashTTL = 10 * time.Minute
)

// Flash is a submission waiting for the page it was posted to: either one
// that failed validation or one whose rows were edited by an action button.
type Flash struct {
	// Target is the path the flash is meant for.
	Target string `json:"target"`
	// Form is the decoded form exactly as submitted.
	Form   json.RawMessage `json:"form"`
	Errors FieldErrors     `json:"errors,omitempty"`
}

// Into decodes the carried form into dst.
func (fl *Flash) Into(dst any) error {
	if err := json.Unmarshal(fl.Form, dst); err != nil {
		return fmt.Errorf("decoding flashed form: %w", err)
	}
	return nil
}

// Flasher keeps at most one Flash per session. Putting a new one replaces the
// previous; taking it removes it whether or not it matched.
type Flasher struct {
	sessions session.Store
}

func NewFlasher(sessions session.Store) *Flasher {
	return &Flasher{sessions: sessions}
}

func flashKey(ctx context.Context) (session.Key, error) {
	sid := requestcontext.SessionID(ctx)
	if sid == "" {
		return session.Key{}, session.ErrNoSession
	}
	return session.Key{SessionID: sid, Namespace: flashNamespace, Name: flashName}, nil
}

// Put stores a submitted form and its errors for target.
func (f *Flasher) Put(ctx context.Context, target string, submitted any, errs FieldErrors) error {
	key, err := flashKey(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(submitted)
	if err != nil {
		return fmt.Errorf("encoding flashed form: %w", err)
	}
	data, err := json.Marshal(Flash{Target: target, Form: raw, Errors: errs})
	if err != nil {
		return fmt.Errorf("encoding flash: %w", err)
	}
	if _, err := f.sessions.Replace(ctx, key, data, flashTTL); err != nil {
		return fmt.Errorf("storing flash: %w", err)
	}
	return nil
}

// Take returns the pending flash if it was meant for target. Any pending
// flash is consumed, so one left behind by an abandoned redirect cannot show
// up on a later page.
func (f *Flasher) Take(ctx context.Context, target string) (*Flash, error) {
	key, err := flashKey(ctx)
	if err != nil {
		return nil, err
	}
	rec, err := f.sessions.Take(ctx, key)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("taking flash: %w", err)
	}
	var fl Flash
	if err := json.Unmarshal(rec.Data, &fl); err != nil {
		return nil, fmt.Errorf("decoding flash: %w", err)
	}
	if fl.Target != target {
		return nil, nil
	}
	return &fl, nil
}
