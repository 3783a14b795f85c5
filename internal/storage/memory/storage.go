package memory

import (
	"context"
	"sync"

	"github.com/mcoot/flashdeck/internal/model"
	"github.com/mcoot/flashdeck/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	credentials map[string]model.Credential
	session     model.SessionState
	streaks     map[string]model.Streak
	decks       map[string][]byte
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		credentials: make(map[string]model.Credential),
		streaks:     make(map[string]model.Streak),
		decks:       make(map[string][]byte),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Credential operations

func (s *Storage) CreateCredential(ctx context.Context, cred *model.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.credentials[cred.Username]; ok {
		return model.ErrDuplicateUser
	}
	s.credentials[cred.Username] = *cred
	return nil
}

func (s *Storage) GetCredential(ctx context.Context, username string) (*model.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cred, ok := s.credentials[username]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return &cred, nil
}

// Session state operations

func (s *Storage) SaveSessionState(ctx context.Context, state model.SessionState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = state
	return nil
}

func (s *Storage) GetSessionState(ctx context.Context) (model.SessionState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session, nil
}

// Streak operations

func (s *Storage) SaveStreak(ctx context.Context, username string, streak model.Streak) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.streaks[username] = streak
	return nil
}

func (s *Storage) GetStreak(ctx context.Context, username string) (model.Streak, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	streak, ok := s.streaks[username]
	if !ok {
		return model.Streak{}, model.ErrStreakNotFound
	}
	return streak, nil
}

// Deck operations

func (s *Storage) SaveDeckData(ctx context.Context, username string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.decks[username] = append([]byte(nil), data...)
	return nil
}

func (s *Storage) GetDeckData(ctx context.Context, username string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.decks[username]
	if !ok {
		return nil, model.ErrDeckNotFound
	}
	return append([]byte(nil), data...), nil
}

// Close is a no-op for in-memory storage
func (s *Storage) Close() error {
	return nil
}
