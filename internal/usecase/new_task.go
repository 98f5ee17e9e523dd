// Package usecase contains application use cases.
package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/runoshun/taskboard/internal/domain"
)

// NewTaskInput contains the parameters for creating a new task.
// Input is expected to be validated already (see package validation).
type NewTaskInput struct {
	DueDate  *string         `json:"dueDate"`  // Due date (optional, YYYY-MM-DD)
	Title    string          `json:"title"`    // Task title (required)
	Priority domain.Priority `json:"priority"` // Priority (empty = medium)
	Assignee string          `json:"assignee"` // Assignee (empty = Unassigned)
}

// NewTaskOutput contains the result of creating a new task.
type NewTaskOutput struct {
	Task domain.Task // The created task
}

// NewTask is the use case for creating a new task.
type NewTask struct {
	state  domain.StateMutator
	clock  domain.Clock
	logger domain.Logger
}

// NewNewTask creates a new NewTask use case.
func NewNewTask(state domain.StateMutator, clock domain.Clock, logger domain.Logger) *NewTask {
	return &NewTask{
		state:  state,
		clock:  clock,
		logger: logger,
	}
}

// Execute creates a new task with the given input.
// The task gets the next id, status todo, and is prepended to the collection.
func (uc *NewTask) Execute(ctx context.Context, in NewTaskInput) (*NewTaskOutput, error) {
	priority := in.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	assignee := in.Assignee
	if assignee == "" {
		assignee = domain.DefaultAssignee
	}
	var due *string
	if in.DueDate != nil {
		d := *in.DueDate
		due = &d
	}

	now := uc.clock.Now().UTC().Truncate(time.Millisecond)

	var created domain.Task
	_, err := uc.state.Mutate(ctx, func(state *domain.State) error {
		created = domain.Task{
			ID:        state.NextID,
			Title:     in.Title,
			Status:    domain.StatusTodo,
			Priority:  priority,
			Assignee:  assignee,
			DueDate:   due,
			CreatedAt: now,
			UpdatedAt: now,
		}
		state.NextID++
		state.Tasks = append([]domain.Task{created}, state.Tasks...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}

	if uc.logger != nil {
		uc.logger.Info(created.ID, "task", fmt.Sprintf("created: %q", created.Title))
	}

	return &NewTaskOutput{Task: created.Clone()}, nil
}
