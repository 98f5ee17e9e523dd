// Package app provides the dependency injection container for the application.
package app

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/runoshun/taskboard/internal/domain"
	"github.com/runoshun/taskboard/internal/httpapi"
	"github.com/runoshun/taskboard/internal/infra/config"
	"github.com/runoshun/taskboard/internal/infra/jsonstore"
	"github.com/runoshun/taskboard/internal/infra/logging"
	"github.com/runoshun/taskboard/internal/infra/serializer"
	"github.com/runoshun/taskboard/internal/usecase"
)

// Config holds the resolved application paths.
type Config struct {
	WorkDir    string // Directory relative paths are resolved against
	ConfigPath string // Path to the local taskboard.toml
	StorePath  string // Path to the JSON data file
	LogDir     string // Directory for file logs (empty = disabled)
}

// Options are the command-line overrides applied on top of the config files.
type Options struct {
	Stderr     io.Writer // Destination of the process log (default os.Stderr)
	ConfigPath string    // Explicit config file (--config); must exist when set
	DataPath   string    // Data file override (--data)
}

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use cases.
type Container struct {
	// Ports (interfaces bound to implementations)
	State            domain.StateMutator
	StoreInitializer domain.StoreInitializer
	Clock            domain.Clock
	TaskLogger       domain.Logger
	ConfigLoader     domain.ConfigLoader
	ConfigManager    domain.ConfigManager

	// Pointer fields
	Logger    *slog.Logger
	AppConfig *domain.Config

	closers []func() error

	// Configuration
	Config Config
}

// New creates a new Container for the given working directory.
func New(dir string, opts Options) (*Container, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	localPath := filepath.Join(absDir, domain.ConfigFileName)
	loader := config.NewLoader(localPath)
	if opts.ConfigPath != "" {
		localPath = opts.ConfigPath
		loader = config.NewLoader(localPath).RequireLocal()
	}

	appConfig, err := loader.Load()
	if err != nil {
		return nil, err
	}
	if opts.DataPath != "" {
		appConfig.Store.Path = opts.DataPath
	}
	appConfig.ResolvePaths(absDir)

	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	level := logging.ParseLevel(appConfig.Log.Level)
	logger := logging.NewSlog(stderr, level)
	for _, w := range appConfig.Warnings {
		logger.Warn("config", "warning", w)
	}

	taskLogger := logging.New(appConfig.Log.Dir, level).WithSink(logger)
	store := jsonstore.New(appConfig.Store.Path, taskLogger)
	state := serializer.New(store, taskLogger)

	return &Container{
		State:            state,
		StoreInitializer: store,
		Clock:            domain.RealClock{},
		TaskLogger:       taskLogger,
		ConfigLoader:     loader,
		ConfigManager:    config.NewManager(localPath),
		Logger:           logger,
		AppConfig:        appConfig,
		closers: []func() error{
			func() error { state.Close(); return nil },
			taskLogger.Close,
		},
		Config: Config{
			WorkDir:    absDir,
			ConfigPath: localPath,
			StorePath:  appConfig.Store.Path,
			LogDir:     appConfig.Log.Dir,
		},
	}, nil
}

// NewWithDeps creates a new Container with custom dependencies for testing.
func NewWithDeps(cfg Config, appConfig *domain.Config, state domain.StateMutator, storeInit domain.StoreInitializer, clock domain.Clock, logger *slog.Logger) *Container {
	if appConfig == nil {
		appConfig = domain.NewDefaultConfig()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Container{
		State:            state,
		StoreInitializer: storeInit,
		Clock:            clock,
		TaskLogger:       domain.NopLogger{},
		Logger:           logger,
		AppConfig:        appConfig,
		Config:           cfg,
	}
}

// Close stops the serializer and closes log files.
func (c *Container) Close() error {
	var errs []error
	for _, closeFn := range c.closers {
		errs = append(errs, closeFn())
	}
	c.closers = nil
	return errors.Join(errs...)
}

// UseCase factory methods

// InitStoreUseCase returns a new InitStore use case.
func (c *Container) InitStoreUseCase() *usecase.InitStore {
	return usecase.NewInitStore(c.StoreInitializer, c.TaskLogger)
}

// NewTaskUseCase returns a new NewTask use case.
func (c *Container) NewTaskUseCase() *usecase.NewTask {
	return usecase.NewNewTask(c.State, c.Clock, c.TaskLogger)
}

// ListTasksUseCase returns a new ListTasks use case.
func (c *Container) ListTasksUseCase() *usecase.ListTasks {
	return usecase.NewListTasks(c.State)
}

// ShowTaskUseCase returns a new ShowTask use case.
func (c *Container) ShowTaskUseCase() *usecase.ShowTask {
	return usecase.NewShowTask(c.State)
}

// EditTaskUseCase returns a new EditTask use case.
func (c *Container) EditTaskUseCase() *usecase.EditTask {
	return usecase.NewEditTask(c.State, c.Clock, c.TaskLogger)
}

// DeleteTaskUseCase returns a new DeleteTask use case.
func (c *Container) DeleteTaskUseCase() *usecase.DeleteTask {
	return usecase.NewDeleteTask(c.State, c.TaskLogger)
}

// HTTPServer returns the API server wired to the task use cases.
func (c *Container) HTTPServer() *httpapi.Server {
	return httpapi.New(httpapi.UseCases{
		ListTasks:  c.ListTasksUseCase(),
		NewTask:    c.NewTaskUseCase(),
		EditTask:   c.EditTaskUseCase(),
		DeleteTask: c.DeleteTaskUseCase(),
	}, c.AppConfig.Server, c.Logger)
}
