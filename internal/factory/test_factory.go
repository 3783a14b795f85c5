package factory

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/flashdeck/internal/dependencies/mocks"
	"github.com/mcoot/flashdeck/internal/services/auth"
	"github.com/mcoot/flashdeck/internal/storage"
	"github.com/mcoot/flashdeck/internal/storage/memory"
	"github.com/mcoot/flashdeck/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock *mocks.MockClock
	MockIDs   *mocks.MockIDs
}

// NewTestApp creates an App on in-memory storage with mocked dependencies
func NewTestApp() *TestApp {
	return NewTestAppWithStorage(memory.New())
}

// NewTestAppWithStorage creates a test App over an existing store, e.g. to
// simulate a restart against the same data
func NewTestAppWithStorage(store storage.Storage) *TestApp {
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockIDs := mocks.NewMockIDs()

	authCfg := auth.DefaultConfig()
	authCfg.BcryptCost = bcrypt.MinCost

	app := newWithDependencies(store, mockClock, mockIDs, authCfg, testutil.NopLogger())

	return &TestApp{
		App:       app,
		MockClock: mockClock,
		MockIDs:   mockIDs,
	}
}
