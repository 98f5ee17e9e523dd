// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"fmt"
	"sync"
	"time"

	"github.com/runoshun/taskboard/internal/domain"
)

// MockClock is a test double for domain.Clock.
// When Step is set, every call to Now advances the clock by Step.
type MockClock struct {
	NowTime time.Time
	Step    time.Duration
	mu      sync.Mutex
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.NowTime
	m.NowTime = m.NowTime.Add(m.Step)
	return now
}

// MockStateStore is an in-memory test double for domain.StateStore.
// Fields are ordered to minimize memory padding.
type MockStateStore struct {
	State *domain.State
	// SaveHook, if set, runs before a save is committed; a non-nil return fails the save.
	SaveHook  func(next *domain.State) error
	LoadErr   error
	SaveErr   error
	SaveCount int
	mu        sync.Mutex
}

// NewMockStateStore creates a MockStateStore holding an empty state.
func NewMockStateStore() *MockStateStore {
	return &MockStateStore{State: domain.NewState()}
}

// Load returns the current state.
func (m *MockStateStore) Load() (*domain.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.State, nil
}

// Save replaces the current state unless SaveErr or SaveHook fails.
func (m *MockStateStore) Save(next *domain.State) error {
	m.mu.Lock()
	hook := m.SaveHook
	saveErr := m.SaveErr
	m.mu.Unlock()

	if hook != nil {
		if err := hook(next); err != nil {
			return &domain.StorageError{Op: "save", Path: "mock", Err: err}
		}
	}
	if saveErr != nil {
		return &domain.StorageError{Op: "save", Path: "mock", Err: saveErr}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.State = next
	m.SaveCount++
	return nil
}

// Update runs fn on the current state and saves its result.
func (m *MockStateStore) Update(fn func(current *domain.State) (*domain.State, error)) (*domain.State, error) {
	current, err := m.Load()
	if err != nil {
		return nil, err
	}
	next, err := fn(current)
	if err != nil {
		return nil, err
	}
	if err := m.Save(next); err != nil {
		return nil, err
	}
	return next, nil
}

// Saves returns how many saves succeeded.
func (m *MockStateStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.SaveCount
}

// Current returns the last committed state.
func (m *MockStateStore) Current() *domain.State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.State
}

// MockStoreInitializer is a test double for domain.StoreInitializer.
type MockStoreInitializer struct {
	InitializeErr error
	Initialized   bool
}

// Initialize marks the store as initialized.
func (m *MockStoreInitializer) Initialize() (bool, error) {
	if m.InitializeErr != nil {
		return false, m.InitializeErr
	}
	if m.Initialized {
		return false, nil
	}
	m.Initialized = true
	return true, nil
}

// IsInitialized returns whether Initialize has run.
func (m *MockStoreInitializer) IsInitialized() bool {
	return m.Initialized
}

// LogEntry is a single message captured by MockLogger.
type LogEntry struct {
	Level    string
	Category string
	Msg      string
	TaskID   int
}

// String formats the entry like the file logger does.
func (e LogEntry) String() string {
	return fmt.Sprintf("[%s] [task-%d] [%s] %s", e.Level, e.TaskID, e.Category, e.Msg)
}

// MockLogger is a test double for domain.Logger that records entries.
type MockLogger struct {
	Entries []LogEntry
	mu      sync.Mutex
}

func (m *MockLogger) record(level string, taskID int, category, msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, LogEntry{Level: level, TaskID: taskID, Category: category, Msg: msg})
}

// Info records an info message.
func (m *MockLogger) Info(taskID int, category, msg string) { m.record("INFO", taskID, category, msg) }

// Debug records a debug message.
func (m *MockLogger) Debug(taskID int, category, msg string) { m.record("DEBUG", taskID, category, msg) }

// Warn records a warning message.
func (m *MockLogger) Warn(taskID int, category, msg string) { m.record("WARN", taskID, category, msg) }

// Error records an error message.
func (m *MockLogger) Error(taskID int, category, msg string) { m.record("ERROR", taskID, category, msg) }

// Messages returns the recorded messages in order.
func (m *MockLogger) Messages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.Entries))
	for i, e := range m.Entries {
		out[i] = e.String()
	}
	return out
}

// Ensure mocks implement their ports.
var (
	_ domain.Clock            = (*MockClock)(nil)
	_ domain.StateStore       = (*MockStateStore)(nil)
	_ domain.StoreInitializer = (*MockStoreInitializer)(nil)
	_ domain.Logger           = (*MockLogger)(nil)
)
