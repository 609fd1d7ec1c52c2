package logger

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// LogRequest logs a finished HTTP exchange at a level matching its status
func LogRequest(l Logger, method, url string, statusCode int, duration interface{}) {
	fields := map[string]interface{}{
		"method":   method,
		"url":      url,
		"status":   statusCode,
		"duration": duration,
	}

	switch {
	case statusCode >= 500:
		l.WarnWithFields("HTTP request server error", fields)
	case statusCode >= 400:
		l.DebugWithFields("HTTP request client error", fields)
	default:
		l.DebugWithFields("HTTP request completed", fields)
	}
}

// PrintfLogger adapts a Logger to the Errorf/Warnf/Debugf interface used by
// HTTP client libraries.
type PrintfLogger struct {
	l Logger
}

// NewPrintfLogger wraps l
func NewPrintfLogger(l Logger) *PrintfLogger {
	return &PrintfLogger{l: l}
}

func (p *PrintfLogger) Errorf(format string, v ...interface{}) {
	p.l.Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (p *PrintfLogger) Warnf(format string, v ...interface{}) {
	p.l.Warn(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (p *PrintfLogger) Debugf(format string, v ...interface{}) {
	p.l.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// NewNopLogger creates a logger that discards everything
func NewNopLogger() Logger {
	return &nopLogger{}
}

type nopLogger struct{}

func (n *nopLogger) Debug(msg string)                                          {}
func (n *nopLogger) Info(msg string)                                           {}
func (n *nopLogger) Warn(msg string)                                           {}
func (n *nopLogger) Error(msg string)                                          {}
func (n *nopLogger) WithField(key string, value interface{}) Logger            { return n }
func (n *nopLogger) WithFields(fields map[string]interface{}) Logger           { return n }
func (n *nopLogger) WithError(err error) Logger                                { return n }
func (n *nopLogger) WithContext(ctx context.Context) Logger                    { return n }
func (n *nopLogger) DebugWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) InfoWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) WarnWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) ErrorWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) GetZerolog() *zerolog.Logger                               { return nil }
