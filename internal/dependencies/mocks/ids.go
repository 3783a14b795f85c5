package mocks

import (
	"fmt"

	"github.com/mcoot/flashdeck/internal/dependencies/ids"
)

// MockIDs is a mock implementation of ids.Generator for testing
type MockIDs struct {
	// Queued is a queue of IDs to return from NewID
	Queued []string
	index  int

	// Prefix is used for generated IDs once the queue is exhausted
	Prefix  string
	counter int
}

// Ensure MockIDs implements Generator
var _ ids.Generator = (*MockIDs)(nil)

// NewMockIDs creates a MockIDs that falls back to "id-1", "id-2", ...
func NewMockIDs() *MockIDs {
	return &MockIDs{Prefix: "id-"}
}

// NewID returns the next queued ID, or a sequential one if none remain
func (m *MockIDs) NewID() string {
	if m.index < len(m.Queued) {
		id := m.Queued[m.index]
		m.index++
		return id
	}
	m.counter++
	return fmt.Sprintf("%s%d", m.Prefix, m.counter)
}

// Queue adds values to the ID queue
func (m *MockIDs) Queue(values ...string) {
	m.Queued = append(m.Queued, values...)
}

// Reset clears all queued IDs and the fallback counter
func (m *MockIDs) Reset() {
	m.Queued = nil
	m.index = 0
	m.counter = 0
}
