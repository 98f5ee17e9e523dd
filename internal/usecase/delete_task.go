package usecase

import (
	"context"
	"fmt"
	"slices"

	"github.com/runoshun/taskboard/internal/domain"
)

// DeleteTaskInput contains the parameters for deleting a task.
type DeleteTaskInput struct {
	TaskID int // Task ID to delete
}

// DeleteTaskOutput contains the result of deleting a task.
type DeleteTaskOutput struct{}

// DeleteTask is the use case for deleting a task.
type DeleteTask struct {
	state  domain.StateMutator
	logger domain.Logger
}

// NewDeleteTask creates a new DeleteTask use case.
func NewDeleteTask(state domain.StateMutator, logger domain.Logger) *DeleteTask {
	return &DeleteTask{
		state:  state,
		logger: logger,
	}
}

// Execute deletes the task with the given ID.
// The id counter is left alone so deleted ids are never reused.
func (uc *DeleteTask) Execute(ctx context.Context, in DeleteTaskInput) (*DeleteTaskOutput, error) {
	removed := false
	_, err := uc.state.Mutate(ctx, func(state *domain.State) error {
		before := len(state.Tasks)
		state.Tasks = slices.DeleteFunc(state.Tasks, func(t domain.Task) bool {
			return t.ID == in.TaskID
		})
		removed = len(state.Tasks) != before
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("delete task: %w", err)
	}
	if !removed {
		return nil, domain.ErrTaskNotFound
	}

	if uc.logger != nil {
		uc.logger.Info(in.TaskID, "task", "deleted")
	}

	return &DeleteTaskOutput{}, nil
}
