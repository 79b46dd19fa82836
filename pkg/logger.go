package pkg

import (
	"fmt"
	"io"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Logger is the process-wide logger used by every swport package.
type Logger struct {
	logger *log.Logger
}

var defaultLogger *Logger

func init() {
	defaultLogger = NewLogger(log.WarnLevel)
}

// NewLogger creates a logger writing text entries at the given level
func NewLogger(level log.Level) *Logger {
	logger := log.New()
	logger.SetLevel(level)
	logger.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return &Logger{
		logger: logger,
	}
}

// ParseLogLevel maps a user supplied level name to a logrus level.
func ParseLogLevel(levelStr string) (log.Level, error) {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return log.DebugLevel, nil
	case "info":
		return log.InfoLevel, nil
	case "warn", "warning":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	}
	return log.InfoLevel, fmt.Errorf("invalid log level: %s", levelStr)
}

// SetLogLevel sets the log level for the default logger
func SetLogLevel(level log.Level) {
	defaultLogger.logger.SetLevel(level)
}

// SetLogLevelFromString sets the log level from a string
func SetLogLevelFromString(levelStr string) error {
	level, err := ParseLogLevel(levelStr)
	if err != nil {
		return err
	}
	SetLogLevel(level)
	return nil
}

func Debug(format string, args ...interface{}) {
	defaultLogger.logger.Debugf(format, args...)
}

func Info(format string, args ...interface{}) {
	defaultLogger.logger.Infof(format, args...)
}

func Warn(format string, args ...interface{}) {
	defaultLogger.logger.Warnf(format, args...)
}

func Error(format string, args ...interface{}) {
	defaultLogger.logger.Errorf(format, args...)
}

// IsDebugEnabled returns true if debug logging is enabled
func IsDebugEnabled() bool {
	return defaultLogger.logger.IsLevelEnabled(log.DebugLevel)
}

// SetFormatter sets the formatter for the default logger
func SetFormatter(formatter log.Formatter) {
	defaultLogger.logger.SetFormatter(formatter)
}

// SetOutput sets the output for the default logger
func SetOutput(output io.Writer) {
	defaultLogger.logger.SetOutput(output)
}

// Output returns the writer the default logger currently writes to.
func Output() io.Writer {
	return defaultLogger.logger.Out
}

// WithField adds a field to the logger
func WithField(key string, value interface{}) *log.Entry {
	return defaultLogger.logger.WithField(key, value)
}

// WithFields adds multiple fields to the logger
func WithFields(fields log.Fields) *log.Entry {
	return defaultLogger.logger.WithFields(fields)
}

// WithError adds an error field to the logger
func WithError(err error) *log.Entry {
	return defaultLogger.logger.WithError(err)
}

// WithPort tags an entry with the kernel interface name it concerns.
func WithPort(name string) *log.Entry {
	return defaultLogger.logger.WithField("port", name)
}
