package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/taskboard/internal/domain"
)

// ListTasksInput contains the parameters for listing tasks.
type ListTasksInput struct {
	Query domain.QuerySpec // Filter, sort and page parameters
}

// ListTasksOutput contains the result of listing tasks.
type ListTasksOutput struct {
	Result domain.QueryResult // One page of tasks plus metadata
}

// ListTasks is the use case for listing tasks.
// It reads the last committed state and is never queued behind mutations.
type ListTasks struct {
	state domain.StateMutator
}

// NewListTasks creates a new ListTasks use case.
func NewListTasks(state domain.StateMutator) *ListTasks {
	return &ListTasks{state: state}
}

// Execute runs the query over the current tasks.
func (uc *ListTasks) Execute(_ context.Context, in ListTasksInput) (*ListTasksOutput, error) {
	state, err := uc.state.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}

	return &ListTasksOutput{Result: domain.Query(state.Tasks, in.Query)}, nil
}
