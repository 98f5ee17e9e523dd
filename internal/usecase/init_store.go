package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/taskboard/internal/domain"
)

// InitStoreInput contains the input parameters for InitStore.
type InitStoreInput struct {
	StorePath string // Path to the data file (for display)
}

// InitStoreOutput contains the output from InitStore.
type InitStoreOutput struct {
	StorePath          string // Path to the data file
	AlreadyInitialized bool   // True if the data file already existed
}

// InitStore creates the task data file.
type InitStore struct {
	storeInit domain.StoreInitializer
	logger    domain.Logger
}

// NewInitStore creates a new InitStore use case.
func NewInitStore(storeInit domain.StoreInitializer, logger domain.Logger) *InitStore {
	return &InitStore{storeInit: storeInit, logger: logger}
}

// Execute creates an empty data file unless one already exists.
func (uc *InitStore) Execute(_ context.Context, in InitStoreInput) (*InitStoreOutput, error) {
	created, err := uc.storeInit.Initialize()
	if err != nil {
		return nil, fmt.Errorf("initialize task store: %w", err)
	}

	if created && uc.logger != nil {
		uc.logger.Info(0, "store", "initialized "+in.StorePath)
	}

	return &InitStoreOutput{
		StorePath:          in.StorePath,
		AlreadyInitialized: !created,
	}, nil
}
