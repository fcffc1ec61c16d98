package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
	// LevelDebug is the debug log level
	LevelDebug LogLevel = iota
	// LevelInfo is the info log level
	LevelInfo
	// LevelWarn is the warning log level
	LevelWarn
	// LevelError is the error log level
	LevelError
)

// Config describes where and how much to log.
type Config struct {
	Level      LogLevel
	OutputPath string // optional rotated JSON log file
	MaxSize    int    // megabytes
	MaxBackups int
	MaxAge     int // days
	Compress   bool
}

// Logger is a leveled printf-style logger.
type Logger struct {
	sugar *zap.SugaredLogger
	level LogLevel
}

// New builds a Logger from config.
func New(config Config) *Logger {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.RFC3339TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	level := config.Level.zapLevel()
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.Lock(os.Stderr), level),
	}

	if config.OutputPath != "" {
		if err := os.MkdirAll(filepath.Dir(config.OutputPath), 0o755); err == nil {
			fileEncoderConfig := encoderConfig
			fileEncoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
			writer := zapcore.AddSync(&lumberjack.Logger{
				Filename:   config.OutputPath,
				MaxSize:    config.MaxSize,
				MaxBackups: config.MaxBackups,
				MaxAge:     config.MaxAge,
				Compress:   config.Compress,
			})
			cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(fileEncoderConfig), writer, level))
		} else {
			fmt.Fprintf(os.Stderr, "logging: cannot create log directory for %s: %v\n", config.OutputPath, err)
		}
	}

	z := zap.New(zapcore.NewTee(cores...),
		zap.AddCaller(),
		zap.AddCallerSkip(1),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
	return &Logger{sugar: z.Sugar(), level: config.Level}
}

// NewWithCore wraps an existing zap core. Tests use it with zaptest/observer.
func NewWithCore(core zapcore.Core, level LogLevel) *Logger {
	return &Logger{sugar: zap.New(core).Sugar(), level: level}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{sugar: zap.NewNop().Sugar(), level: LevelError + 1}
}

// With returns a child logger that adds key/value context to every message.
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	if l == nil || l.sugar == nil {
		return l
	}
	return &Logger{sugar: l.sugar.With(keysAndValues...), level: l.level}
}

// Level returns the minimum level this logger emits.
func (l *Logger) Level() LogLevel {
	if l == nil {
		return LevelError + 1
	}
	return l.level
}

// IsDebugEnabled returns true if debug logging is enabled
func (l *Logger) IsDebugEnabled() bool {
	return l != nil && l.sugar != nil && l.level <= LevelDebug
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	if l == nil || l.sugar == nil {
		return
	}
	l.sugar.Debugf(format, args...)
}

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) {
	if l == nil || l.sugar == nil {
		return
	}
	l.sugar.Infof(format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	if l == nil || l.sugar == nil {
		return
	}
	l.sugar.Warnf(format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	if l == nil || l.sugar == nil {
		return
	}
	l.sugar.Errorf(format, args...)
}

// Fatal logs an error message and exits
func (l *Logger) Fatal(format string, args ...interface{}) {
	if l == nil || l.sugar == nil {
		fmt.Fprintf(os.Stderr, "[FATAL] "+format+"\n", args...)
		os.Exit(1)
	}
	l.sugar.Fatalf(format, args...)
}

// Sync flushes buffered log entries.
func (l *Logger) Sync() error {
	if l == nil || l.sugar == nil {
		return nil
	}
	return l.sugar.Sync()
}

// ParseLevel converts a level name to a LogLevel. Unknown names map to
// LevelInfo and ok=false.
func ParseLevel(s string) (LogLevel, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, true
	case "info":
		return LevelInfo, true
	case "warn", "warning":
		return LevelWarn, true
	case "error":
		return LevelError, true
	default:
		return LevelInfo, false
	}
}

// ConfigFromEnv reads DEBUG, LOG_LEVEL and LOG_FILE.
func ConfigFromEnv() Config {
	config := Config{
		Level:      LevelInfo,
		OutputPath: os.Getenv("LOG_FILE"),
		MaxSize:    100,
		MaxBackups: 5,
		MaxAge:     30,
		Compress:   true,
	}

	// Check DEBUG environment variable first
	if debug := os.Getenv("DEBUG"); debug != "" {
		switch strings.ToLower(debug) {
		case "1", "true", "yes", "on":
			config.Level = LevelDebug
			return config
		}
	}

	config.Level, _ = ParseLevel(os.Getenv("LOG_LEVEL"))
	return config
}

var (
	defaultLogger *Logger
	defaultOnce   sync.Once
	defaultMu     sync.RWMutex
)

// Default returns the process logger used by main and the CLI. It is built
// from the environment on first use.
func Default() *Logger {
	defaultOnce.Do(func() {
		defaultMu.Lock()
		if defaultLogger == nil {
			defaultLogger = New(ConfigFromEnv())
		}
		defaultMu.Unlock()
	})
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefault replaces the process logger.
func SetDefault(l *Logger) {
	defaultOnce.Do(func() {})
	defaultMu.Lock()
	defaultLogger = l
	defaultMu.Unlock()
}

// GetLevel returns the level of the process logger
func GetLevel() LogLevel {
	return Default().Level()
}

// IsDebugEnabled returns true if debug logging is enabled on the process logger
func IsDebugEnabled() bool {
	return Default().IsDebugEnabled()
}

// Debug logs a debug message on the process logger
func Debug(format string, args ...interface{}) {
	Default().Debug(format, args...)
}

// Info logs an info message on the process logger
func Info(format string, args ...interface{}) {
	Default().Info(format, args...)
}

// Warn logs a warning message on the process logger
func Warn(format string, args ...interface{}) {
	Default().Warn(format, args...)
}

// Error logs an error message on the process logger
func Error(format string, args ...interface{}) {
	Default().Error(format, args...)
}

// Fatal logs an error message on the process logger and exits
func Fatal(format string, args ...interface{}) {
	Default().Fatal(format, args...)
}

// String returns the string representation of a log level
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return fmt.Sprintf("unknown(%d)", l)
	}
}

func (l LogLevel) zapLevel() zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelInfo:
		return zapcore.InfoLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
