package input

import (
	"sync"
)

// MockInjector records key events instead of sending them, for tests
// and dry runs.
type MockInjector struct {
	mu     sync.Mutex
	events []string
	fail   map[string]error
}

// NewMockInjector creates a new MockInjector instance.
func NewMockInjector() *MockInjector {
	return &MockInjector{fail: make(map[string]error)}
}

// FailOn makes the given event, e.g. "press ctrl" or "tap z", return
// err instead of being recorded.
func (m *MockInjector) FailOn(event string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail[event] = err
}

// Events returns the recorded event log in order.
func (m *MockInjector) Events() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.events))
	copy(out, m.events)
	return out
}

func (m *MockInjector) record(action, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	event := action + " " + key
	if err := m.fail[event]; err != nil {
		return err
	}
	m.events = append(m.events, event)
	return nil
}

func (m *MockInjector) Tap(key string) error { return m.record("tap", key) }

func (m *MockInjector) Press(key string) error { return m.record("press", key) }

func (m *MockInjector) Release(key string) error { return m.record("release", key) }
