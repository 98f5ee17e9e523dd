package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/runoshun/taskboard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitStore_Execute(t *testing.T) {
	init := &testutil.MockStoreInitializer{}
	uc := NewInitStore(init, nil)

	out, err := uc.Execute(context.Background(), InitStoreInput{StorePath: "data.json"})
	require.NoError(t, err)
	assert.False(t, out.AlreadyInitialized)
	assert.Equal(t, "data.json", out.StorePath)

	out, err = uc.Execute(context.Background(), InitStoreInput{StorePath: "data.json"})
	require.NoError(t, err)
	assert.True(t, out.AlreadyInitialized)
}

func TestInitStore_Execute_Error(t *testing.T) {
	init := &testutil.MockStoreInitializer{InitializeErr: errors.New("read-only filesystem")}

	_, err := NewInitStore(init, nil).Execute(context.Background(), InitStoreInput{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "initialize task store")
}
