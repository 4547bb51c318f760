package logging

import (
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LogFilePath builds a log file path using OS-appropriate path separators.
func LogFilePath(logsDir, appName string) string {
	return filepath.Join(logsDir, appName+".log")
}

// NewFileWriter returns a size-rotated log file in logsDir. The directory
// is created on first write.
func NewFileWriter(logsDir, appName string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   LogFilePath(logsDir, appName),
		MaxSize:    16, // MB
		MaxBackups: 3,
	}
}
