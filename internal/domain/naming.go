package domain

import (
	"fmt"
	"path/filepath"
)

// GlobalConfigDir returns the taskboard directory under the user config home.
func GlobalConfigDir(configHome string) string {
	return filepath.Join(configHome, "taskboard")
}

// GlobalLogPath returns the path to the global log file.
func GlobalLogPath(logDir string) string {
	return filepath.Join(logDir, "taskboard.log")
}

// TaskLogPath returns the path to the task log file.
func TaskLogPath(logDir string, taskID int) string {
	return filepath.Join(logDir, fmt.Sprintf("task-%d.log", taskID))
}

// LockPath returns the path of the lock file guarding a data file.
func LockPath(storePath string) string {
	return storePath + ".lock"
}
