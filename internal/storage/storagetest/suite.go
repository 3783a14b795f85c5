// Package storagetest holds the behaviour every storage backend must share.
package storagetest

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/flashdeck/internal/model"
	"github.com/mcoot/flashdeck/internal/storage"
)

// Suite runs the common storage tests against the backend built by New.
// Backends embed it in their own suite to add implementation-specific tests.
type Suite struct {
	suite.Suite
	New func() storage.Storage

	Storage storage.Storage
	Ctx     context.Context
}

func (s *Suite) SetupTest() {
	s.Storage = s.New()
	s.Ctx = context.Background()
}

func (s *Suite) TearDownTest() {
	if s.Storage != nil {
		_ = s.Storage.Close()
	}
}

// Credential tests

func (s *Suite) TestCreateAndGetCredential() {
	cred := &model.Credential{
		Username:     "alice",
		PasswordHash: "hash123",
		CreatedAt:    time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}

	s.Require().NoError(s.Storage.CreateCredential(s.Ctx, cred))

	retrieved, err := s.Storage.GetCredential(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal("alice", retrieved.Username)
	s.Equal("hash123", retrieved.PasswordHash)
	s.True(cred.CreatedAt.Equal(retrieved.CreatedAt))
}

func (s *Suite) TestGetCredentialNotFound() {
	_, err := s.Storage.GetCredential(s.Ctx, "nobody")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *Suite) TestCreateCredentialRejectsDuplicate() {
	s.Require().NoError(s.Storage.CreateCredential(s.Ctx, &model.Credential{Username: "alice", PasswordHash: "first"}))

	err := s.Storage.CreateCredential(s.Ctx, &model.Credential{Username: "alice", PasswordHash: "second"})
	s.ErrorIs(err, model.ErrDuplicateUser)

	retrieved, err := s.Storage.GetCredential(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal("first", retrieved.PasswordHash)
}

func (s *Suite) TestCredentialsAreIndependent() {
	s.Require().NoError(s.Storage.CreateCredential(s.Ctx, &model.Credential{Username: "alice", PasswordHash: "a"}))
	s.Require().NoError(s.Storage.CreateCredential(s.Ctx, &model.Credential{Username: "bob", PasswordHash: "b"}))

	alice, err := s.Storage.GetCredential(s.Ctx, "alice")
	s.Require().NoError(err)
	bob, err := s.Storage.GetCredential(s.Ctx, "bob")
	s.Require().NoError(err)
	s.Equal("a", alice.PasswordHash)
	s.Equal("b", bob.PasswordHash)
}

// Session state tests

func (s *Suite) TestSessionStateDefaultsToLoggedOut() {
	state, err := s.Storage.GetSessionState(s.Ctx)
	s.Require().NoError(err)
	s.False(state.LoggedIn)
	s.Empty(state.Username)
}

func (s *Suite) TestSaveAndGetSessionState() {
	s.Require().NoError(s.Storage.SaveSessionState(s.Ctx, model.SessionState{LoggedIn: true, Username: "alice"}))

	state, err := s.Storage.GetSessionState(s.Ctx)
	s.Require().NoError(err)
	s.Equal(model.SessionState{LoggedIn: true, Username: "alice"}, state)

	s.Require().NoError(s.Storage.SaveSessionState(s.Ctx, model.SessionState{}))

	state, err = s.Storage.GetSessionState(s.Ctx)
	s.Require().NoError(err)
	s.False(state.LoggedIn)
	s.Empty(state.Username)
}

// Streak tests

func (s *Suite) TestGetStreakNotFound() {
	_, err := s.Storage.GetStreak(s.Ctx, "alice")
	s.ErrorIs(err, model.ErrStreakNotFound)
}

func (s *Suite) TestStreaksAreNamespacedByUser() {
	day := model.Day{Year: 2024, Month: time.January, Day: 5}
	s.Require().NoError(s.Storage.SaveStreak(s.Ctx, "alice", model.Streak{Count: 3, Longest: 4, LastLogin: day}))
	s.Require().NoError(s.Storage.SaveStreak(s.Ctx, "bob", model.Streak{Count: 1, Longest: 1, LastLogin: day.Prev()}))

	alice, err := s.Storage.GetStreak(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.Streak{Count: 3, Longest: 4, LastLogin: day}, alice)

	bob, err := s.Storage.GetStreak(s.Ctx, "bob")
	s.Require().NoError(err)
	s.Equal(1, bob.Count)
	s.Equal(day.Prev(), bob.LastLogin)
}

// Deck tests

func (s *Suite) TestGetDeckDataNotFound() {
	_, err := s.Storage.GetDeckData(s.Ctx, "alice")
	s.ErrorIs(err, model.ErrDeckNotFound)
}

func (s *Suite) TestSaveAndGetDeckData() {
	data := []byte(`[{"id":"g1","title":"Capitals","cards":[]}]`)
	s.Require().NoError(s.Storage.SaveDeckData(s.Ctx, "alice", data))

	retrieved, err := s.Storage.GetDeckData(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal(data, retrieved)

	_, err = s.Storage.GetDeckData(s.Ctx, "bob")
	s.ErrorIs(err, model.ErrDeckNotFound)
}

func (s *Suite) TestSaveDeckDataOverwrites() {
	s.Require().NoError(s.Storage.SaveDeckData(s.Ctx, "alice", []byte(`[]`)))
	s.Require().NoError(s.Storage.SaveDeckData(s.Ctx, "alice", []byte(`[{"id":"g1","title":"t","cards":[]}]`)))

	retrieved, err := s.Storage.GetDeckData(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal(`[{"id":"g1","title":"t","cards":[]}]`, string(retrieved))
}

func (s *Suite) TestDeckDataIsStoredVerbatim() {
	// Corrupt data must come back as-is so the deck service can detect it
	s.Require().NoError(s.Storage.SaveDeckData(s.Ctx, "alice", []byte(`{not json`)))

	retrieved, err := s.Storage.GetDeckData(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal(`{not json`, string(retrieved))
}
