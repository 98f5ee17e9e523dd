// Package jsonstore provides a JSON file-based implementation of StateStore.
package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/runoshun/taskboard/internal/domain"
)

// Store implements domain.StateStore using a single JSON file.
// The whole state is rewritten on every save.
//
// Several processes may share one file. Writes hold an exclusive flock on
// the lock file and the cache is reread whenever the file was replaced
// since it was filled.
type Store struct {
	cache    *domain.State
	stamp    os.FileInfo // file version the cache was read from or written to
	logger   domain.Logger
	path     string
	lockPath string
	mu       sync.RWMutex // guards cache, stamp and the rename
}

// New creates a new Store for the given file path.
// The file does not need to exist until the first Load.
func New(path string, logger domain.Logger) *Store {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	return &Store{
		path:     path,
		lockPath: domain.LockPath(path),
		logger:   logger,
	}
}

// Path returns the data file path.
func (s *Store) Path() string {
	return s.path
}

// Load returns the cached state, reading the file on first use and again
// after another process replaced it.
// The returned state is shared and must not be modified.
func (s *Store) Load() (*domain.State, error) {
	info, statErr := os.Stat(s.path)

	s.mu.RLock()
	cached, stamp := s.cache, s.stamp
	s.mu.RUnlock()
	if cached != nil && (statErr != nil || sameVersion(stamp, info)) {
		return cached, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	state, err := s.refresh()
	if err != nil {
		return nil, &domain.StorageError{Op: "load", Path: s.path, Err: err}
	}
	return state, nil
}

// Save durably writes next, then makes it the cached state.
// If the write fails the cache keeps the last state that reached disk.
func (s *Store) Save(next *domain.State) error {
	if err := s.withFileLock(func() error { return s.commit(next) }); err != nil {
		s.logger.Warn(0, "store", fmt.Sprintf("save failed, cache kept at last written state: %v", err))
		return &domain.StorageError{Op: "save", Path: s.path, Err: err}
	}
	return nil
}

// Update holds the file lock across loading the current state, calling fn
// and saving the state fn returns, so no other process can save in between.
// An error from fn is returned unchanged and nothing is written.
func (s *Store) Update(fn func(current *domain.State) (*domain.State, error)) (*domain.State, error) {
	lock, err := s.acquireLock(syscall.LOCK_EX)
	if err != nil {
		return nil, &domain.StorageError{Op: "save", Path: s.path, Err: err}
	}
	defer s.releaseLock(lock)

	current, err := s.Load()
	if err != nil {
		return nil, err
	}

	next, err := fn(current)
	if err != nil {
		return nil, err
	}

	if err := s.commit(next); err != nil {
		s.logger.Warn(0, "store", fmt.Sprintf("save failed, cache kept at last written state: %v", err))
		return nil, &domain.StorageError{Op: "save", Path: s.path, Err: err}
	}
	return next, nil
}

// IsInitialized checks if the store file exists.
func (s *Store) IsInitialized() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Initialize creates an empty store file if it doesn't exist.
// Returns true if a new file was created.
func (s *Store) Initialize() (bool, error) {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return false, fmt.Errorf("create directory: %w", err)
	}

	created := false
	err := s.withFileLock(func() error {
		if s.IsInitialized() {
			return nil
		}
		if err := s.commit(domain.NewState()); err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		return false, &domain.StorageError{Op: "initialize", Path: s.path, Err: err}
	}
	return created, nil
}

// withFileLock executes fn while holding an exclusive lock on the lock file.
func (s *Store) withFileLock(fn func() error) error {
	lock, err := s.acquireLock(syscall.LOCK_EX)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)

	return fn()
}

func (s *Store) acquireLock(lockType int) (*os.File, error) {
	dir := filepath.Dir(s.lockPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	lock, err := os.OpenFile(s.lockPath, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(lock.Fd()), lockType); err != nil {
		_ = lock.Close()
		return nil, fmt.Errorf("acquire lock: %w", err)
	}

	return lock, nil
}

func (s *Store) releaseLock(lock *os.File) {
	_ = syscall.Flock(int(lock.Fd()), syscall.LOCK_UN)
	_ = lock.Close()
}

// refresh rereads the file unless the cache already holds its current version.
// The caller holds s.mu.
func (s *Store) refresh() (*domain.State, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if s.cache != nil {
				return s.cache, nil
			}
			return nil, domain.ErrNotInitialized
		}
		return nil, fmt.Errorf("open store file: %w", err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat store file: %w", err)
	}
	if s.cache != nil && sameVersion(s.stamp, info) {
		return s.cache, nil
	}

	state, err := s.decode(f)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.logger.Info(0, "store", fmt.Sprintf("reloaded %s after an outside change", s.path))
	}
	s.cache, s.stamp = state, info
	return state, nil
}

func (s *Store) decode(r io.Reader) (*domain.State, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read store file: %w", err)
	}

	var state domain.State
	if err := json.Unmarshal(content, &state); err != nil {
		return nil, fmt.Errorf("parse store file: %w", err)
	}

	if state.Repair() {
		s.logger.Warn(0, "store", fmt.Sprintf("repaired id counter in %s (nextId=%d)", s.path, state.NextID))
	}

	return &state, nil
}

// commit writes next and makes it the cached state.
// The caller holds the file lock. Only the rename and the cache swap
// run under s.mu, so readers never wait for the write itself.
func (s *Store) commit(next *domain.State) error {
	content, err := json.MarshalIndent(next, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store data: %w", err)
	}

	// Write to temp file first, then rename for atomicity
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, content, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}

	// A nil stamp makes the next Load reread the file
	info, _ := os.Stat(s.path)
	s.cache, s.stamp = next, info
	return nil
}

// sameVersion reports whether cur is the file version recorded in prev.
// Every save renames a fresh file into place, so the inode changes too.
func sameVersion(prev, cur os.FileInfo) bool {
	if prev == nil || cur == nil {
		return false
	}
	return os.SameFile(prev, cur) &&
		prev.Size() == cur.Size() &&
		prev.ModTime().Equal(cur.ModTime())
}

// Ensure Store implements the store ports.
var (
	_ domain.StateStore       = (*Store)(nil)
	_ domain.StoreInitializer = (*Store)(nil)
)
