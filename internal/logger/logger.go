// Package logger is the process-wide zap logger. It discards everything until
// Init is called.
package logger

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	// Log is the global logger.
	Log = zap.NewNop()
	// Sugar is Log in printf style.
	Sugar = Log.Sugar()
)

// Options selects where log lines go.
type Options struct {
	Level string
	// Console writes coloured lines to Stderr. Leave it off while the TUI
	// owns the terminal.
	Console bool
	Stderr  io.Writer
	File    FileOptions
}

// FileOptions configures the rotated log file. An empty Path disables it.
type FileOptions struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// DefaultFileOptions returns rotation settings for path.
func DefaultFileOptions(path string) FileOptions {
	return FileOptions{
		Path:       path,
		MaxSizeMB:  10,
		MaxBackups: 3,
		MaxAgeDays: 14,
	}
}

// Init replaces the global logger. With neither console nor file output the
// logger stays a no-op.
func Init(o Options) {
	lvl := ParseLevel(o.Level)
	var cores []zapcore.Core
	if o.Console {
		w := o.Stderr
		if w == nil {
			w = os.Stderr
		}
		enc := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
			TimeKey:          "time",
			LevelKey:         "level",
			MessageKey:       "msg",
			EncodeTime:       zapcore.TimeEncoderOfLayout("15:04:05"),
			EncodeLevel:      zapcore.CapitalColorLevelEncoder,
			ConsoleSeparator: " ",
		})
		cores = append(cores, zapcore.NewCore(enc, zapcore.AddSync(w), lvl))
	}
	if o.File.Path != "" {
		rot := &lumberjack.Logger{
			Filename:   o.File.Path,
			MaxSize:    o.File.MaxSizeMB,
			MaxBackups: o.File.MaxBackups,
			MaxAge:     o.File.MaxAgeDays,
			Compress:   o.File.Compress,
			LocalTime:  true,
		}
		enc := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
			TimeKey:          "time",
			LevelKey:         "level",
			MessageKey:       "msg",
			CallerKey:        "caller",
			EncodeTime:       zapcore.ISO8601TimeEncoder,
			EncodeLevel:      zapcore.CapitalLevelEncoder,
			EncodeCaller:     zapcore.ShortCallerEncoder,
			ConsoleSeparator: " ",
		})
		cores = append(cores, zapcore.NewCore(enc, zapcore.AddSync(rot), lvl))
	}
	if len(cores) == 0 {
		Log = zap.NewNop()
	} else {
		Log = zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1))
	}
	Sugar = Log.Sugar()
}

// ParseLevel maps debug, info, warn and error to zap levels. Anything else
// is info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Sync flushes buffered entries.
func Sync() {
	_ = Log.Sync()
}

func Debug(msg string, fields ...zap.Field) { Log.Debug(msg, fields...) }
func Info(msg string, fields ...zap.Field)  { Log.Info(msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { Log.Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { Log.Error(msg, fields...) }
