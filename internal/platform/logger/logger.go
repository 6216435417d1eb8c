// Package logger provides structured logging for the bakery server.
// Every subsystem receives a *Logger through its constructor.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
)

const flags = log.Ldate | log.Ltime | log.Lshortfile

// Logger provides leveled logging with context.
type Logger struct {
	infoLogger  *log.Logger
	warnLogger  *log.Logger
	errorLogger *log.Logger
}

// NewLogger creates a logger writing info and warnings to stdout and errors to stderr.
func NewLogger() *Logger {
	return &Logger{
		infoLogger:  log.New(os.Stdout, "[BAKERY-INFO] ", flags),
		warnLogger:  log.New(os.Stdout, "[BAKERY-WARN] ", flags),
		errorLogger: log.New(os.Stderr, "[BAKERY-ERROR] ", flags),
	}
}

// New creates a logger writing every level to out.
func New(out io.Writer) *Logger {
	return &Logger{
		infoLogger:  log.New(out, "[BAKERY-INFO] ", flags),
		warnLogger:  log.New(out, "[BAKERY-WARN] ", flags),
		errorLogger: log.New(out, "[BAKERY-ERROR] ", flags),
	}
}

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	return New(io.Discard)
}

// Info logs informational messages.
func (l *Logger) Info(msg string) {
	l.infoLogger.Output(2, msg)
}

// Infof logs a formatted informational message.
func (l *Logger) Infof(format string, args ...any) {
	l.infoLogger.Output(2, fmt.Sprintf(format, args...))
}

// Warn logs warning messages.
func (l *Logger) Warn(msg string) {
	l.warnLogger.Output(2, msg)
}

// Warnf logs a formatted warning.
func (l *Logger) Warnf(format string, args ...any) {
	l.warnLogger.Output(2, fmt.Sprintf(format, args...))
}

// Error logs error messages.
func (l *Logger) Error(msg string) {
	l.errorLogger.Output(2, msg)
}

// Errorf logs a formatted error.
func (l *Logger) Errorf(format string, args ...any) {
	l.errorLogger.Output(2, fmt.Sprintf(format, args...))
}

// Event logs a game event with the actor that caused it.
func (l *Logger) Event(eventType string, actorID string, details string) {
	l.infoLogger.Output(2, fmt.Sprintf("[EVENT:%s] Actor:%s | %s", eventType, actorID, details))
}
