// Package logging builds the zerolog logger notebox writes to. The TUI owns
// the terminal, so logs go to a file rather than stderr.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

const permission = 0o664

type LogBuild struct {
	writer io.Writer
	path   string
	level  string
}

// LogData is the built logger and the file backing it, if any.
type LogData struct {
	LogFile *os.File
	Logger  zerolog.Logger
}

func New() *LogBuild {
	return &LogBuild{}
}

func (build *LogBuild) FromPath(path string) *LogBuild {
	build.path = path
	return build
}

func (build *LogBuild) FromBuffer(w io.Writer) *LogBuild {
	build.writer = w
	return build
}

// WithLevel sets the minimum level by name ("debug", "info", ...). An empty
// name keeps info.
func (build *LogBuild) WithLevel(level string) *LogBuild {
	build.level = level
	return build
}

func (build *LogBuild) Make() (*LogData, error) {
	level := zerolog.InfoLevel
	if build.level != "" {
		parsed, err := zerolog.ParseLevel(build.level)
		if err != nil {
			return nil, fmt.Errorf("logging: %w", err)
		}
		level = parsed
	}

	logData := new(LogData)
	writer := build.writer
	if build.path != "" {
		if err := os.MkdirAll(filepath.Dir(build.path), 0o755); err != nil {
			return nil, fmt.Errorf("logging: ensure dir: %w", err)
		}
		f, err := os.OpenFile(build.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, permission)
		if err != nil {
			return nil, fmt.Errorf("logging: open %s: %w", build.path, err)
		}
		logData.LogFile = f
		writer = zerolog.SyncWriter(f)
	}
	if writer == nil {
		writer = io.Discard
	}
	logData.Logger = zerolog.New(writer).Level(level).With().Timestamp().Logger()
	return logData, nil
}

// Close closes the log file when there is one.
func (l *LogData) Close() error {
	if l == nil || l.LogFile == nil {
		return nil
	}
	return l.LogFile.Close()
}
