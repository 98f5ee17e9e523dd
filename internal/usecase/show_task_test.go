package usecase

import (
	"context"
	"testing"

	"github.com/runoshun/taskboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShowTask_Execute(t *testing.T) {
	state, _ := newTestState(t, domain.Task{ID: 3, Title: "Visible"})
	uc := NewShowTask(state)

	out, err := uc.Execute(context.Background(), ShowTaskInput{TaskID: 3})
	require.NoError(t, err)
	assert.Equal(t, "Visible", out.Task.Title)

	_, err = uc.Execute(context.Background(), ShowTaskInput{TaskID: 4})
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}
