package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/runoshun/taskboard/internal/domain"
	"github.com/runoshun/taskboard/internal/infra/serializer"
	"github.com/runoshun/taskboard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListTasks_Execute_SortByUpdatedAt(t *testing.T) {
	// Setup
	state, _ := newTestState(t,
		domain.Task{ID: 2, Title: "Older", UpdatedAt: testNow},
		domain.Task{ID: 1, Title: "Newer", UpdatedAt: testNow.Add(time.Minute)},
	)
	uc := NewListTasks(state)

	// Execute
	out, err := uc.Execute(context.Background(), ListTasksInput{
		Query: domain.QuerySpec{Sort: "updatedAt", Dir: domain.SortDesc},
	})

	// Assert
	require.NoError(t, err)
	require.Len(t, out.Result.Items, 2)
	assert.Equal(t, "Newer", out.Result.Items[0].Title)
}

func TestListTasks_Execute_PageBeyondEnd(t *testing.T) {
	state, _ := newTestState(t,
		domain.Task{ID: 2, Title: "Two"},
		domain.Task{ID: 1, Title: "One"},
	)

	out, err := NewListTasks(state).Execute(context.Background(), ListTasksInput{
		Query: domain.QuerySpec{Page: 5, PageSize: 10},
	})

	require.NoError(t, err)
	assert.Empty(t, out.Result.Items)
	assert.Equal(t, 2, out.Result.Meta.Total)
}

func TestListTasks_Execute_LoadError(t *testing.T) {
	store := testutil.NewMockStateStore()
	store.LoadErr = &domain.StorageError{Op: "load", Path: "data.json", Err: errors.New("corrupt")}
	s := serializer.New(store, nil)
	t.Cleanup(s.Close)

	_, err := NewListTasks(s).Execute(context.Background(), ListTasksInput{})

	assert.ErrorIs(t, err, domain.ErrStorage)
}
