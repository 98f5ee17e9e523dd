package usecase

import (
	"testing"
	"time"

	"github.com/runoshun/taskboard/internal/domain"
	"github.com/runoshun/taskboard/internal/infra/serializer"
	"github.com/runoshun/taskboard/internal/testutil"
)

var testNow = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

// newTestState returns a serializer over an in-memory store seeded with tasks.
func newTestState(t *testing.T, tasks ...domain.Task) (*serializer.Serializer, *testutil.MockStateStore) {
	t.Helper()
	store := testutil.NewMockStateStore()
	store.State.Tasks = append(store.State.Tasks, tasks...)
	store.State.Repair()
	s := serializer.New(store, nil)
	t.Cleanup(s.Close)
	return s, store
}

func ptr[T any](v T) *T { return &v }
