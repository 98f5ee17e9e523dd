package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/runoshun/taskboard/internal/domain"
	"github.com/runoshun/taskboard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask_Execute_EmptyStore(t *testing.T) {
	// Setup
	state, store := newTestState(t)
	logger := &testutil.MockLogger{}
	uc := NewNewTask(state, &testutil.MockClock{NowTime: testNow}, logger)

	// Execute
	out, err := uc.Execute(context.Background(), NewTaskInput{
		Title:    "Write tests",
		Priority: domain.PriorityHigh,
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, out.Task.ID)
	assert.Equal(t, domain.StatusTodo, out.Task.Status)
	assert.Equal(t, domain.PriorityHigh, out.Task.Priority)
	assert.Equal(t, "Unassigned", out.Task.Assignee)
	assert.Nil(t, out.Task.DueDate)
	assert.Equal(t, testNow, out.Task.CreatedAt)
	assert.Equal(t, out.Task.CreatedAt, out.Task.UpdatedAt)

	current := store.Current()
	assert.Equal(t, 2, current.NextID)
	require.Len(t, current.Tasks, 1)
	assert.Equal(t, out.Task, current.Tasks[0])

	assert.Equal(t, []string{`[INFO] [task-1] [task] created: "Write tests"`}, logger.Messages())
}

func TestNewTask_Execute_Defaults(t *testing.T) {
	state, _ := newTestState(t)
	uc := NewNewTask(state, &testutil.MockClock{NowTime: testNow}, nil)

	out, err := uc.Execute(context.Background(), NewTaskInput{Title: "Defaults"})

	require.NoError(t, err)
	assert.Equal(t, domain.PriorityMedium, out.Task.Priority)
	assert.Equal(t, domain.DefaultAssignee, out.Task.Assignee)
}

func TestNewTask_Execute_PrependsAndIncrementsIDs(t *testing.T) {
	state, store := newTestState(t)
	clock := &testutil.MockClock{NowTime: testNow, Step: time.Second}
	uc := NewNewTask(state, clock, nil)

	var lastID int
	for _, title := range []string{"One", "Two", "Three"} {
		out, err := uc.Execute(context.Background(), NewTaskInput{
			Title:    title,
			Assignee: "Robin",
			DueDate:  ptr("2025-07-01"),
		})
		require.NoError(t, err)
		assert.Greater(t, out.Task.ID, lastID)
		assert.Equal(t, out.Task.CreatedAt, out.Task.UpdatedAt)
		lastID = out.Task.ID
	}

	current := store.Current()
	require.Len(t, current.Tasks, 3)
	assert.Equal(t, "Three", current.Tasks[0].Title)
	assert.Equal(t, "One", current.Tasks[2].Title)
	assert.Equal(t, "Robin", current.Tasks[0].Assignee)
	assert.Equal(t, "2025-07-01", *current.Tasks[0].DueDate)
	assert.Equal(t, 4, current.NextID)
}

func TestNewTask_Execute_IDsNotReusedAfterDelete(t *testing.T) {
	state, _ := newTestState(t)
	clock := &testutil.MockClock{NowTime: testNow}
	create := NewNewTask(state, clock, nil)
	del := NewDeleteTask(state, nil)

	first, err := create.Execute(context.Background(), NewTaskInput{Title: "Temporary"})
	require.NoError(t, err)
	_, err = del.Execute(context.Background(), DeleteTaskInput{TaskID: first.Task.ID})
	require.NoError(t, err)

	second, err := create.Execute(context.Background(), NewTaskInput{Title: "Replacement"})
	require.NoError(t, err)
	assert.Equal(t, 2, second.Task.ID)
}

func TestNewTask_Execute_ReturnedTaskIsDetached(t *testing.T) {
	state, store := newTestState(t)
	uc := NewNewTask(state, &testutil.MockClock{NowTime: testNow}, nil)

	out, err := uc.Execute(context.Background(), NewTaskInput{Title: "Detached", DueDate: ptr("2025-01-01")})
	require.NoError(t, err)

	*out.Task.DueDate = "1999-01-01"
	assert.Equal(t, "2025-01-01", *store.Current().Tasks[0].DueDate)
}

func TestNewTask_Execute_StorageError(t *testing.T) {
	state, store := newTestState(t)
	store.SaveErr = errors.New("permission denied")
	uc := NewNewTask(state, &testutil.MockClock{NowTime: testNow}, nil)

	_, err := uc.Execute(context.Background(), NewTaskInput{Title: "Unsaved"})

	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.Empty(t, store.Current().Tasks)
	assert.Equal(t, 1, store.Current().NextID)
}
