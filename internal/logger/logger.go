// Package logger provides the structured logger used by the server and the
// command. Every record carries the emitting component; output goes to
// stderr because stdout carries the MCP protocol stream.
package logger

import (
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// Logger provides structured logging with a component tag and free-form fields.
type Logger interface {
	Info(component, message string, fields map[string]interface{})
	Error(component string, err error, fields map[string]interface{})
	Warning(component, message string, fields map[string]interface{})
	Debug(component, message string, fields map[string]interface{})
}

// ParseLevel maps an IMAGE_MCP_LOG_LEVEL value to a zerolog level.
// Unknown or empty values select info.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "off", "disabled":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return NewZerolog(io.Discard, zerolog.Disabled)
}
