// Package serializer linearizes read-modify-write mutations of the task state.
//
// A Serializer owns a single worker goroutine. Mutations are handed to it over
// an unbuffered channel, so callers blocked on the hand-off are served in the
// order they arrived. Each mutation loads the current state, applies the
// updater to a deep copy and persists that copy before the next one starts.
// The load and the save happen inside one StateStore.Update, so a store
// shared with another process cannot save in between.
package serializer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/runoshun/taskboard/internal/domain"
)

type request struct {
	fn    domain.Updater
	reply chan result
}

type result struct {
	state *domain.State
	err   error
}

// Serializer implements domain.StateMutator on top of a StateStore.
type Serializer struct {
	store     domain.StateStore
	logger    domain.Logger
	queue     chan request
	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

// New creates a Serializer and starts its worker.
// Call Close to stop the worker.
func New(store domain.StateStore, logger domain.Logger) *Serializer {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	s := &Serializer{
		store:   store,
		logger:  logger,
		queue:   make(chan request),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go s.run()
	return s
}

// Mutate applies fn to a copy of the current state, persists the copy and returns it.
// The context only bounds the wait for a turn; an accepted mutation always completes.
func (s *Serializer) Mutate(ctx context.Context, fn domain.Updater) (*domain.State, error) {
	req := request{fn: fn, reply: make(chan result, 1)}

	select {
	case <-s.done:
		return nil, domain.ErrSerializerClosed
	default:
	}

	select {
	case s.queue <- req:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-s.done:
		return nil, domain.ErrSerializerClosed
	}

	res := <-req.reply
	return res.state, res.err
}

// Snapshot returns the most recently committed state without waiting for
// queued mutations. The result must be treated as read-only.
func (s *Serializer) Snapshot() (*domain.State, error) {
	return s.store.Load()
}

// Close stops the worker after the mutation in flight, if any, has finished.
func (s *Serializer) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
	<-s.stopped
}

func (s *Serializer) run() {
	defer close(s.stopped)
	for {
		select {
		case req := <-s.queue:
			state, err := s.apply(req.fn)
			req.reply <- result{state: state, err: err}
		case <-s.done:
			return
		}
	}
}

// apply runs one load-copy-update-save cycle inside a single store update.
func (s *Serializer) apply(fn domain.Updater) (*domain.State, error) {
	next, err := s.store.Update(func(current *domain.State) (*domain.State, error) {
		next := current.Clone()
		if err := runUpdater(fn, next); err != nil {
			return nil, err
		}
		return next, nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrStorage) {
			s.logger.Error(0, "store", fmt.Sprintf("persist mutation: %v", err))
		}
		return nil, err
	}
	return next, nil
}

// runUpdater calls fn, turning a panic into an error so the worker survives.
func runUpdater(fn domain.Updater, state *domain.State) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("updater panicked: %v", r)
		}
	}()
	return fn(state)
}

// Ensure Serializer implements domain.StateMutator.
var _ domain.StateMutator = (*Serializer)(nil)
