package storage

import (
	"context"

	"github.com/mcoot/flashdeck/internal/model"
)

// Storage defines the interface for the local settings store.
// Decks are handed over already encoded so that every backend persists the
// same JSON document and corrupt data surfaces in one place.
type Storage interface {
	// Credential operations
	// CreateCredential inserts a new account, failing with
	// model.ErrDuplicateUser if the username is taken.
	CreateCredential(ctx context.Context, cred *model.Credential) error
	GetCredential(ctx context.Context, username string) (*model.Credential, error)

	// Session state operations (one per installation)
	SaveSessionState(ctx context.Context, state model.SessionState) error
	GetSessionState(ctx context.Context) (model.SessionState, error)

	// Streak operations (per account)
	SaveStreak(ctx context.Context, username string, streak model.Streak) error
	GetStreak(ctx context.Context, username string) (model.Streak, error)

	// Deck operations
	SaveDeckData(ctx context.Context, username string, data []byte) error
	GetDeckData(ctx context.Context, username string) ([]byte, error)

	Close() error
}
