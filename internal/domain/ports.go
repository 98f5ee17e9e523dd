package domain

import (
	"context"
	"time"
)

// StateStore owns the durable representation of the task collection.
type StateStore interface {
	// Load returns the cached state, reading the file on first use and
	// whenever another writer replaced it.
	// The returned state must be treated as read-only.
	Load() (*State, error)

	// Save durably writes next and makes it the cached state.
	Save(next *State) error

	// Update loads the current state, passes it to fn and saves the state fn
	// returns, with no other writer able to save in between.
	// An error from fn is returned unchanged and nothing is written.
	Update(fn func(current *State) (*State, error)) (*State, error)
}

// StoreInitializer initializes the data store.
type StoreInitializer interface {
	// Initialize creates the store if it doesn't exist.
	// Returns true if a new store was created.
	Initialize() (bool, error)

	// IsInitialized checks if the store exists.
	IsInitialized() bool
}

// Updater applies a mutation to a private copy of the state.
// Returning an error discards the copy.
type Updater func(state *State) error

// StateMutator linearizes read-modify-write sequences over a StateStore.
type StateMutator interface {
	// Mutate applies fn to a copy of the current state, persists it and returns it.
	// Calls are applied one at a time in arrival order.
	Mutate(ctx context.Context, fn Updater) (*State, error)

	// Snapshot returns the most recently committed state without queueing.
	Snapshot() (*State, error)
}

// ConfigLoader loads the effective configuration.
type ConfigLoader interface {
	// Load returns defaults merged with the global file, the local file
	// and the environment, in that order of precedence.
	Load() (*Config, error)
}

// ConfigManager inspects and creates configuration files.
type ConfigManager interface {
	// GetLocalConfigInfo returns information about the local config file.
	GetLocalConfigInfo() ConfigInfo
	// GetGlobalConfigInfo returns information about the global config file.
	GetGlobalConfigInfo() ConfigInfo
	// InitLocalConfig writes a default local config file.
	InitLocalConfig(cfg *Config) error
	// InitGlobalConfig writes a default global config file.
	InitGlobalConfig(cfg *Config) error
}

// Logger provides task-scoped logging.
type Logger interface {
	Info(taskID int, category, msg string)
	Debug(taskID int, category, msg string)
	Warn(taskID int, category, msg string)
	Error(taskID int, category, msg string)
}

// NopLogger discards all log entries.
type NopLogger struct{}

func (NopLogger) Info(int, string, string)  {}
func (NopLogger) Debug(int, string, string) {}
func (NopLogger) Warn(int, string, string)  {}
func (NopLogger) Error(int, string, string) {}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}
