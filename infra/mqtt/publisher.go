package mqtt

import (
	"fmt"
	"sync"

	coremqtt "github.com/kilianp07/agenda/core/mqtt"
)

// Publisher mirrors the core mqtt.Publisher interface.
type Publisher = coremqtt.Publisher

// MockPublisher is a simple publisher used in tests.
type MockPublisher struct {
	Notices []coremqtt.SessionNotice
	FailFor map[int]bool
	mu      sync.Mutex
}

// NewMockPublisher creates a new MockPublisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{FailFor: make(map[int]bool)}
}

// PublishSessionChange records the notice or returns an error if configured
// to fail for that session.
func (m *MockPublisher) PublishSessionChange(n coremqtt.SessionNotice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailFor[n.Session] {
		return fmt.Errorf("publish failed")
	}
	m.Notices = append(m.Notices, n)
	return nil
}

// Published returns the notices recorded so far.
func (m *MockPublisher) Published() []coremqtt.SessionNotice {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]coremqtt.SessionNotice, len(m.Notices))
	copy(out, m.Notices)
	return out
}
