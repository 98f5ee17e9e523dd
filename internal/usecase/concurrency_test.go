package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/runoshun/taskboard/internal/domain"
	"github.com/runoshun/taskboard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestLifecycle_ConcurrentMutations(t *testing.T) {
	state, store := newTestState(t)
	clock := &testutil.MockClock{NowTime: testNow, Step: time.Millisecond}
	create := NewNewTask(state, clock, nil)
	edit := NewEditTask(state, clock, nil)
	del := NewDeleteTask(state, nil)

	const n = 30
	var g errgroup.Group
	for i := range n {
		g.Go(func() error {
			out, err := create.Execute(context.Background(), NewTaskInput{Title: fmt.Sprintf("Task %d", i)})
			if err != nil {
				return err
			}
			if i%3 == 0 {
				_, err = edit.Execute(context.Background(), EditTaskInput{
					TaskID: out.Task.ID,
					Status: ptr(domain.StatusDone),
				})
				return err
			}
			if i%5 == 0 {
				_, err = del.Execute(context.Background(), DeleteTaskInput{TaskID: out.Task.ID})
			}
			return err
		})
	}
	require.NoError(t, g.Wait())

	final := store.Current()
	assert.Equal(t, n+1, final.NextID)

	seen := map[int]bool{}
	for _, task := range final.Tasks {
		assert.False(t, seen[task.ID], "duplicate id %d", task.ID)
		seen[task.ID] = true
		assert.False(t, task.UpdatedAt.Before(task.CreatedAt))
	}
	// Deleted: i%5==0 && i%3!=0 -> 5, 10, 20, 25
	assert.Len(t, final.Tasks, n-4)
}
