package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/runoshun/taskboard/internal/domain"
)

// EditTaskInput contains the parameters for patching a task.
// All fields except TaskID are optional. Only non-nil fields are updated.
type EditTaskInput struct {
	Title        *string          // New title (nil = no change)
	Status       *domain.Status   // New status (nil = no change)
	Priority     *domain.Priority // New priority (nil = no change)
	Assignee     *string          // New assignee (nil = no change)
	DueDate      *string          // New due date (nil = no change)
	TaskID       int              // Task ID to edit (required)
	ClearDueDate bool             // Remove the due date
}

// HasChanges reports whether any field is set.
func (in EditTaskInput) HasChanges() bool {
	return in.Title != nil || in.Status != nil || in.Priority != nil ||
		in.Assignee != nil || in.DueDate != nil || in.ClearDueDate
}

// EditTaskOutput contains the result of editing a task.
type EditTaskOutput struct {
	Task domain.Task // The updated task
}

// EditTask is the use case for patching an existing task.
type EditTask struct {
	state  domain.StateMutator
	clock  domain.Clock
	logger domain.Logger
}

// NewEditTask creates a new EditTask use case.
func NewEditTask(state domain.StateMutator, clock domain.Clock, logger domain.Logger) *EditTask {
	return &EditTask{
		state:  state,
		clock:  clock,
		logger: logger,
	}
}

// Execute merges the given fields onto the task and refreshes its update time.
// A missing task leaves the state unchanged and returns domain.ErrTaskNotFound.
func (uc *EditTask) Execute(ctx context.Context, in EditTaskInput) (*EditTaskOutput, error) {
	now := uc.clock.Now().UTC().Truncate(time.Millisecond)

	var (
		updated domain.Task
		found   bool
	)
	_, err := uc.state.Mutate(ctx, func(state *domain.State) error {
		idx := state.IndexOf(in.TaskID)
		if idx == -1 {
			return nil
		}
		found = true

		task := &state.Tasks[idx]
		applyPatch(task, in)
		if now.After(task.CreatedAt) {
			task.UpdatedAt = now
		} else {
			task.UpdatedAt = task.CreatedAt
		}
		updated = *task
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}
	if !found {
		return nil, domain.ErrTaskNotFound
	}

	if uc.logger != nil {
		uc.logger.Info(updated.ID, "task", "updated: "+describePatch(in))
	}

	return &EditTaskOutput{Task: updated.Clone()}, nil
}

// applyPatch overwrites the fields set in the input.
func applyPatch(task *domain.Task, in EditTaskInput) {
	if in.Title != nil {
		task.Title = *in.Title
	}
	if in.Status != nil {
		task.Status = *in.Status
	}
	if in.Priority != nil {
		task.Priority = *in.Priority
	}
	if in.Assignee != nil {
		task.Assignee = *in.Assignee
	}
	if in.ClearDueDate {
		task.DueDate = nil
	} else if in.DueDate != nil {
		due := *in.DueDate
		task.DueDate = &due
	}
}

// describePatch lists the fields touched by the input for logging.
func describePatch(in EditTaskInput) string {
	var fields []string
	if in.Title != nil {
		fields = append(fields, "title")
	}
	if in.Status != nil {
		fields = append(fields, "status="+string(*in.Status))
	}
	if in.Priority != nil {
		fields = append(fields, "priority="+string(*in.Priority))
	}
	if in.Assignee != nil {
		fields = append(fields, "assignee")
	}
	if in.DueDate != nil || in.ClearDueDate {
		fields = append(fields, "dueDate")
	}
	if len(fields) == 0 {
		return "touched"
	}
	return strings.Join(fields, ", ")
}
