package logging

import (
	"encoding/json"
	"fmt"
	"log"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/lakshaymaurya-felt/macmole/internal/config"
)

// Level controls which messages reach the log file.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Logger writes leveled operational messages and structured audit entries
// to a size-rotated file under the data directory.
type Logger struct {
	std   *log.Logger
	level Level
}

// New opens the rotating log file. The returned Logger is safe for
// concurrent use (log.Logger serializes writes).
func New(cfg *config.Config, level Level) *Logger {
	out := &lumberjack.Logger{
		Filename:   filepath.Join(config.LogsDir(), "macmole.log"),
		MaxSize:    cfg.LogMaxSizeMB,
		MaxBackups: 3,
		MaxAge:     cfg.LogMaxAgeDays,
		Compress:   true,
	}
	return &Logger{
		std:   log.New(out, "", log.LstdFlags),
		level: level,
	}
}

// Discard returns a logger that keeps everything out of the file, for tests.
func Discard() *Logger {
	return &Logger{std: log.New(nopWriter{}, "", 0), level: LevelError + 1}
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

func (l *Logger) logf(level Level, tag, format string, args ...any) {
	if l == nil || level < l.level {
		return
	}
	l.std.Printf("[%s] %s", tag, fmt.Sprintf(format, args...))
}

func (l *Logger) Debugf(format string, args ...any) { l.logf(LevelDebug, "DEBUG", format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.logf(LevelInfo, "INFO", format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.logf(LevelWarn, "WARN", format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.logf(LevelError, "ERROR", format, args...) }

// Audit appends a JSON-encoded record to the log regardless of level.
// Used for the permanent trail of executed clean operations.
func (l *Logger) Audit(event string, v any) {
	if l == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		l.Errorf("audit encode %s: %v", event, err)
		return
	}
	l.std.Printf("[AUDIT] %s %s", event, data)
}
