// Package logger wraps zerolog with context-carried loggers so that season,
// day and phase fields follow a request or orchestration step through every
// layer without re-threading them by hand.
package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// contextKey is the type for context keys
type contextKey string

const (
	// RequestIDKey is the context key for request ID
	RequestIDKey contextKey = "request_id"
	// LoggerKey is the context key for logger
	LoggerKey contextKey = "logger"
)

var (
	globalLogger zerolog.Logger
	globalWriter *SmartWriter
	globalAsync  *AsyncWriter
	closeOnce    sync.Once
)

// Config holds logger configuration
type Config struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output io.Writer
}

// InitWithFile initializes the logger with rotating file output, optionally
// mirrored to the console. Handles directory creation and log rotation.
func InitWithFile(filename string, level string, format string, enableConsole bool) {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		panic(err)
	}

	logFile := &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    100, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	// File writes go through a drop-on-overflow async writer so a slow disk
	// can never stall a phase transition.
	fileSink := NewAsyncWriter(logFile, 4096)
	globalAsync = fileSink

	var output io.Writer = fileSink
	if enableConsole {
		output = io.MultiWriter(os.Stdout, fileSink)
	}

	Init(Config{
		Level:  level,
		Format: format,
		Output: output,
	})
}

// Init initializes the global logger
func Init(cfg Config) {
	zerolog.SetGlobalLevel(parseLevel(cfg.Level))

	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}

	// SmartWriter buffers writes, flushing every second and immediately on
	// error/fatal lines.
	sw := NewSmartWriter(output, 1*time.Second)
	globalWriter = sw
	output = sw

	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		short := file
		count := 0
		for i := len(file) - 1; i > 0; i-- {
			if file[i] == '/' {
				count++
				short = file[i+1:]
				if count == 2 {
					break
				}
			}
		}
		return fmt.Sprintf("%s:%d", short, line)
	}

	var l zerolog.Logger
	if cfg.Format == "console" {
		consoleWriter := zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: "2006-01-02 15:04:05.000",
			FormatLevel: func(i interface{}) string {
				return strings.ToUpper(fmt.Sprintf("%-7s", i))
			},
			FormatCaller: func(i interface{}) string {
				return fmt.Sprintf("%-20s", i)
			},
			PartsOrder: []string{
				zerolog.TimestampFieldName,
				zerolog.LevelFieldName,
				zerolog.CallerFieldName,
				zerolog.MessageFieldName,
			},
		}
		l = zerolog.New(consoleWriter).With().Timestamp().Caller().Logger()
	} else {
		l = zerolog.New(output).With().Timestamp().Caller().Logger()
	}

	globalLogger = l
}

// Flush forces all buffered logs to be written to the underlying writer.
// Intended for process exit: the async file sink is drained and closed.
func Flush() {
	if globalWriter != nil {
		_ = globalWriter.Sync()
	}
	if globalAsync != nil {
		closeOnce.Do(func() {
			_ = globalAsync.Close()
		})
	}
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// WithRequestID creates a new context carrying a request ID and a logger
// annotated with it.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	l := globalLogger.With().Str("request_id", requestID).Logger()
	ctx = context.WithValue(ctx, RequestIDKey, requestID)
	return context.WithValue(ctx, LoggerKey, &l)
}

// WithSeason annotates the context logger with the orchestration coordinates
// every season log line must carry.
func WithSeason(ctx context.Context, seasonID string, day int, phase string) context.Context {
	l := FromContext(ctx).With().
		Str("season_id", seasonID).
		Int("day", day).
		Str("phase", phase).
		Logger()
	return context.WithValue(ctx, LoggerKey, &l)
}

// WithFields adds arbitrary fields to the context logger
func WithFields(ctx context.Context, fields map[string]interface{}) context.Context {
	event := FromContext(ctx).With()
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	l := event.Logger()
	return context.WithValue(ctx, LoggerKey, &l)
}

// FromContext extracts the logger from context, falling back to the global one.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx == nil {
		return &globalLogger
	}
	if l, ok := ctx.Value(LoggerKey).(*zerolog.Logger); ok && l != nil {
		return l
	}
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok && requestID != "" {
		l := globalLogger.With().Str("request_id", requestID).Logger()
		return &l
	}
	return &globalLogger
}

// GetRequestID extracts the request ID from context
func GetRequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// Debug logs a debug message
func Debug(ctx context.Context) *zerolog.Event {
	return FromContext(ctx).Debug()
}

// Info logs an info message
func Info(ctx context.Context) *zerolog.Event {
	return FromContext(ctx).Info()
}

// Warn logs a warning message
func Warn(ctx context.Context) *zerolog.Event {
	return FromContext(ctx).Warn()
}

// Error logs an error message
func Error(ctx context.Context) *zerolog.Event {
	return FromContext(ctx).Error()
}

// Fatal logs a fatal message and exits
func Fatal(ctx context.Context) *zerolog.Event {
	return FromContext(ctx).Fatal()
}

// Global logger methods (for wiring code where no context exists yet)

// DebugGlobal logs a debug message without context
func DebugGlobal() *zerolog.Event {
	return globalLogger.Debug()
}

// InfoGlobal logs an info message without context
func InfoGlobal() *zerolog.Event {
	return globalLogger.Info()
}

// WarnGlobal logs a warning message without context
func WarnGlobal() *zerolog.Event {
	return globalLogger.Warn()
}

// ErrorGlobal logs an error message without context
func ErrorGlobal() *zerolog.Event {
	return globalLogger.Error()
}

// FatalGlobal logs a fatal message without context and exits
func FatalGlobal() *zerolog.Event {
	return globalLogger.Fatal()
}
