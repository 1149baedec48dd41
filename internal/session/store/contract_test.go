package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"contacts/internal/session"
	"contacts/pkg/platform/sentinel"
)

// contractSuite holds the behaviour every session backend must share.
// Backend suites embed it and set store in SetupTest.
type contractSuite struct {
	suite.Suite
	store session.Store
}

func newKey(name string) session.Key {
	return session.Key{SessionID: uuid.NewString(), Namespace: "journey", Name: name}
}

func (s *contractSuite) TestCreateAndGet() {
	ctx := context.Background()
	key := newKey("add-contact:1")

	rec, err := s.store.Create(ctx, key, []byte(`{"a":1}`), time.Hour)
	s.Require().NoError(err)
	s.Equal(int64(1), rec.Version)

	found, err := s.store.Get(ctx, key)
	s.Require().NoError(err)
	s.Equal([]byte(`{"a":1}`), found.Data)
	s.Equal(int64(1), found.Version)
}

func (s *contractSuite) TestCreateRejectsExistingEntry() {
	ctx := context.Background()
	key := newKey("add-contact:1")

	_, err := s.store.Create(ctx, key, []byte(`{}`), time.Hour)
	s.Require().NoError(err)

	_, err = s.store.Create(ctx, key, []byte(`{}`), time.Hour)
	s.Require().ErrorIs(err, sentinel.ErrConflict)
}

func (s *contractSuite) TestGetMissingEntry() {
	_, err := s.store.Get(context.Background(), newKey("missing"))
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *contractSuite) TestSessionsAreIsolated() {
	ctx := context.Background()
	key := newKey("address:1")
	other := key
	other.SessionID = uuid.NewString()

	_, err := s.store.Create(ctx, key, []byte(`{}`), time.Hour)
	s.Require().NoError(err)

	_, err = s.store.Get(ctx, other)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *contractSuite) TestUpdateChecksVersion() {
	ctx := context.Background()
	key := newKey("restriction:1")

	_, err := s.store.Create(ctx, key, []byte(`{"n":1}`), time.Hour)
	s.Require().NoError(err)

	rec, err := s.store.Update(ctx, key, 1, []byte(`{"n":2}`), time.Hour)
	s.Require().NoError(err)
	s.Equal(int64(2), rec.Version)

	_, err = s.store.Update(ctx, key, 1, []byte(`{"n":3}`), time.Hour)
	s.Require().ErrorIs(err, sentinel.ErrConflict)

	found, err := s.store.Get(ctx, key)
	s.Require().NoError(err)
	s.Equal([]byte(`{"n":2}`), found.Data)
}

func (s *contractSuite) TestUpdateMissingEntry() {
	_, err := s.store.Update(context.Background(), newKey("gone"), 1, []byte(`{}`), time.Hour)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *contractSuite) TestReplaceBumpsVersion() {
	ctx := context.Background()
	key := newKey("relationship:1")

	rec, err := s.store.Replace(ctx, key, []byte(`{"n":1}`), time.Hour)
	s.Require().NoError(err)
	s.Equal(int64(1), rec.Version)

	rec, err = s.store.Replace(ctx, key, []byte(`{"n":2}`), time.Hour)
	s.Require().NoError(err)
	s.Equal(int64(2), rec.Version)
}

func (s *contractSuite) TestTakeIsSingleUse() {
	ctx := context.Background()
	key := newKey("pending")

	_, err := s.store.Replace(ctx, key, []byte(`{"msg":"x"}`), time.Minute)
	s.Require().NoError(err)

	rec, err := s.store.Take(ctx, key)
	s.Require().NoError(err)
	s.Equal([]byte(`{"msg":"x"}`), rec.Data)

	_, err = s.store.Take(ctx, key)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *contractSuite) TestDeleteIsIdempotent() {
	ctx := context.Background()
	key := newKey("update-employments:1")

	_, err := s.store.Create(ctx, key, []byte(`{}`), time.Hour)
	s.Require().NoError(err)

	s.Require().NoError(s.store.Delete(ctx, key))
	s.Require().NoError(s.store.Delete(ctx, key))

	_, err = s.store.Get(ctx, key)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}
