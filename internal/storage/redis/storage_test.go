package redis

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/flashdeck/internal/model"
	"github.com/mcoot/flashdeck/internal/storage"
	"github.com/mcoot/flashdeck/internal/storage/storagetest"
)

type StorageSuite struct {
	storagetest.Suite
	mini *miniredis.Miniredis
}

func TestStorageSuite(t *testing.T) {
	s := &StorageSuite{}
	s.New = func() storage.Storage {
		s.mini = miniredis.RunT(s.T())
		client := redis.NewClient(&redis.Options{
			Addr: s.mini.Addr(),
		})
		return NewWithClient(client, DefaultConfig())
	}
	suite.Run(t, s)
}

func (s *StorageSuite) TestUsersLiveInOneHash() {
	_ = s.Storage.CreateCredential(s.Ctx, &model.Credential{Username: "alice", PasswordHash: "a"})
	_ = s.Storage.CreateCredential(s.Ctx, &model.Credential{Username: "bob", PasswordHash: "b"})

	fields, err := s.mini.HKeys("flashdeck:users")
	s.Require().NoError(err)
	s.ElementsMatch([]string{"alice", "bob"}, fields)
}

func (s *StorageSuite) TestDeckKeyLayout() {
	_ = s.Storage.SaveDeckData(s.Ctx, "alice", []byte(`[]`))

	value, err := s.mini.Get("flashdeck:games_alice")
	s.Require().NoError(err)
	s.Equal(`[]`, value)
}

func (s *StorageSuite) TestStreakKeyLayout() {
	_ = s.Storage.SaveStreak(s.Ctx, "alice", model.Streak{Count: 1, Longest: 1})

	s.True(s.mini.Exists("flashdeck:streak_alice"))
}

func (s *StorageSuite) TestCorruptRecordsAreDeserializationErrors() {
	s.Require().NoError(s.mini.Set("flashdeck:streak_alice", "{broken"))
	s.mini.HSet("flashdeck:users", "alice", "{broken")

	_, err := s.Storage.GetStreak(s.Ctx, "alice")
	s.ErrorIs(err, model.ErrDeserialization)

	_, err = s.Storage.GetCredential(s.Ctx, "alice")
	s.ErrorIs(err, model.ErrDeserialization)
}

func (s *StorageSuite) TestSessionStateKeyLayout() {
	_ = s.Storage.SaveSessionState(s.Ctx, model.SessionState{LoggedIn: true, Username: "alice"})

	flag, err := s.mini.Get("flashdeck:isLoggedIn")
	s.Require().NoError(err)
	s.Equal("true", flag)

	_ = s.Storage.SaveSessionState(s.Ctx, model.SessionState{})
	s.False(s.mini.Exists("flashdeck:currentUsername"))
}

func (s *StorageSuite) TestKeyPrefixSeparatesInstallations() {
	client := redis.NewClient(&redis.Options{Addr: s.mini.Addr()})
	cfg := DefaultConfig()
	cfg.KeyPrefix = "other"
	other := NewWithClient(client, cfg)
	defer other.Close()

	_ = s.Storage.SaveDeckData(s.Ctx, "alice", []byte(`[]`))

	_, err := other.GetDeckData(s.Ctx, "alice")
	s.ErrorIs(err, model.ErrDeckNotFound)
}

func (s *StorageSuite) TestNewRejectsBadURL() {
	cfg := DefaultConfig()
	cfg.URL = "not a url"

	_, err := New(cfg)
	s.Error(err)
}
