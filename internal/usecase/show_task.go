package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/taskboard/internal/domain"
)

// ShowTaskInput contains the parameters for showing a task.
type ShowTaskInput struct {
	TaskID int // Task ID (required)
}

// ShowTaskOutput contains the result of showing a task.
type ShowTaskOutput struct {
	Task domain.Task // The task details
}

// ShowTask is the use case for displaying task details.
type ShowTask struct {
	state domain.StateMutator
}

// NewShowTask creates a new ShowTask use case.
func NewShowTask(state domain.StateMutator) *ShowTask {
	return &ShowTask{state: state}
}

// Execute retrieves and returns the task details.
func (uc *ShowTask) Execute(_ context.Context, in ShowTaskInput) (*ShowTaskOutput, error) {
	state, err := uc.state.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}

	task, ok := state.Find(in.TaskID)
	if !ok {
		return nil, domain.ErrTaskNotFound
	}

	return &ShowTaskOutput{Task: task.Clone()}, nil
}
