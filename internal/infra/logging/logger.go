// Package logging provides task-scoped logging for taskboard.
// Entries go to a global log file (<dir>/taskboard.log), to a per-task file
// (<dir>/task-N.log) when a task ID is given, and optionally to a slog.Logger.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/runoshun/taskboard/internal/domain"
)

// Ensure Logger implements domain.Logger interface.
var _ domain.Logger = (*Logger)(nil)

// Logger writes task-scoped log entries to files and an optional slog sink.
// Fields are ordered to minimize memory padding.
type Logger struct {
	globalFile *os.File
	taskFiles  map[int]*os.File
	sink       *slog.Logger
	now        func() time.Time
	dir        string
	mu         sync.Mutex
	level      slog.Level
}

// New creates a new Logger that writes to dir.
// If dir is empty, file output is disabled.
func New(dir string, level slog.Level) *Logger {
	return &Logger{
		dir:       dir,
		level:     level,
		taskFiles: make(map[int]*os.File),
		now:       time.Now,
	}
}

// WithSink mirrors every entry to the given slog.Logger.
func (l *Logger) WithSink(sink *slog.Logger) *Logger {
	l.sink = sink
	return l
}

// NewSlog creates the process logger: a text handler writing to w.
func NewSlog(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// ParseLevel parses a log level string into slog.Level.
func ParseLevel(levelStr string) slog.Level {
	switch levelStr {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// openFile opens path for appending, creating the log directory if needed.
// Callers must hold l.mu.
func (l *Logger) openFile(path string) (*os.File, error) {
	if err := os.MkdirAll(l.dir, 0o750); err != nil {
		return nil, fmt.Errorf("create logs directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640) //nolint:gosec // Log file readable by owner and group
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

// writeEntry appends entry to the global file and, for taskID > 0, the task file.
func (l *Logger) writeEntry(taskID int, entry string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.globalFile == nil {
		f, err := l.openFile(domain.GlobalLogPath(l.dir))
		if err != nil {
			return
		}
		l.globalFile = f
	}
	_, _ = io.WriteString(l.globalFile, entry)

	if taskID <= 0 {
		return
	}
	tf, ok := l.taskFiles[taskID]
	if !ok {
		f, err := l.openFile(domain.TaskLogPath(l.dir, taskID))
		if err != nil {
			return
		}
		l.taskFiles[taskID] = f
		tf = f
	}
	_, _ = io.WriteString(tf, entry)
}

// Close closes all open log files.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var lastErr error
	if l.globalFile != nil {
		if err := l.globalFile.Close(); err != nil {
			lastErr = err
		}
		l.globalFile = nil
	}
	for id, f := range l.taskFiles {
		if err := f.Close(); err != nil {
			lastErr = err
		}
		delete(l.taskFiles, id)
	}
	return lastErr
}

// formatLog formats a log entry.
// Format: [2025-12-30 09:32:51] [INFO] [task-1] [category] message
func formatLog(t time.Time, level slog.Level, taskID int, category, msg string) string {
	taskStr := "global"
	if taskID > 0 {
		taskStr = fmt.Sprintf("task-%d", taskID)
	}
	return fmt.Sprintf("[%s] [%s] [%s] [%s] %s\n",
		t.Format("2006-01-02 15:04:05"),
		levelToString(level),
		taskStr,
		category,
		msg,
	)
}

func levelToString(level slog.Level) string {
	switch level {
	case slog.LevelDebug:
		return "DEBUG"
	case slog.LevelInfo:
		return "INFO"
	case slog.LevelWarn:
		return "WARN"
	case slog.LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func (l *Logger) log(level slog.Level, taskID int, category, msg string) {
	if level < l.level {
		return
	}

	if l.sink != nil {
		attrs := []any{slog.String("category", category)}
		if taskID > 0 {
			attrs = append(attrs, slog.Int("task", taskID))
		}
		l.sink.Log(context.Background(), level, msg, attrs...)
	}

	if l.dir == "" {
		return
	}
	l.writeEntry(taskID, formatLog(l.now(), level, taskID, category, msg))
}

// Info logs an info message.
func (l *Logger) Info(taskID int, category, msg string) {
	l.log(slog.LevelInfo, taskID, category, msg)
}

// Debug logs a debug message.
func (l *Logger) Debug(taskID int, category, msg string) {
	l.log(slog.LevelDebug, taskID, category, msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(taskID int, category, msg string) {
	l.log(slog.LevelWarn, taskID, category, msg)
}

// Error logs an error message.
func (l *Logger) Error(taskID int, category, msg string) {
	l.log(slog.LevelError, taskID, category, msg)
}
