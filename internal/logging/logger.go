// Package logging is the process-wide zerolog facade. It logs nowhere until
// SetGlobalLogger is called.
package logging

import (
	"github.com/rs/zerolog"
)

var Logger zerolog.Logger

func init() {
	SetGlobalLogger(zerolog.Nop())
}

func SetGlobalLogger(logger zerolog.Logger) {
	Logger = logger
	zerolog.DefaultContextLogger = &Logger
}

// ForRule returns a logger annotated with the name of a rewrite rule.
func ForRule(name string) zerolog.Logger {
	return Logger.With().Str("rule", name).Logger()
}

func With() zerolog.Context { return Logger.With() }

func Err(err error) *zerolog.Event { return Logger.Err(err) }

func Trace() *zerolog.Event { return Logger.Trace() }

func Debug() *zerolog.Event { return Logger.Debug() }

func Info() *zerolog.Event { return Logger.Info() }

func Warn() *zerolog.Event { return Logger.Warn() }

func Error() *zerolog.Event { return Logger.Error() }

func Fatal() *zerolog.Event { return Logger.Fatal() }
