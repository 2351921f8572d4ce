/*
Package logger configures the process-wide zerolog logger. All packages
derive their loggers from the single base instance so every line carries
the service name and version.
*/
package logger

import (
	"io"
	"os"
	"sync"
	"time"

	// Packages
	zerolog "github.com/rs/zerolog"

	version "github.com/newjec/bizbrain/pkg/version"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Config captures options for configuring the base logger.
type Config struct {
	Level   string    // log level ("debug", "info", ...), defaults to info
	Output  io.Writer // defaults to os.Stdout
	Console bool      // human-readable output instead of JSON
	Service string    // service name attached to every entry
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const defaultService = "bizbrain"

var (
	once sync.Once
	base zerolog.Logger
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Configure initialises the base logger exactly once. Later calls are no-ops,
// so packages may call Base without worrying about ordering.
func Configure(cfg Config) {
	once.Do(func() {
		level := zerolog.InfoLevel
		if cfg.Level != "" {
			if parsed, err := zerolog.ParseLevel(cfg.Level); err == nil {
				level = parsed
			}
		} else if env := os.Getenv("LOG_LEVEL"); env != "" {
			if parsed, err := zerolog.ParseLevel(env); err == nil {
				level = parsed
			}
		}
		zerolog.SetGlobalLevel(level)
		zerolog.TimeFieldFormat = time.RFC3339

		writer := cfg.Output
		if writer == nil {
			writer = os.Stdout
		}
		if cfg.Console {
			writer = zerolog.ConsoleWriter{Out: writer, TimeFormat: time.RFC3339}
		}

		service := cfg.Service
		if service == "" {
			service = defaultService
		}

		base = zerolog.New(writer).With().
			Timestamp().
			Str("service", service).
			Str("version", version.Version()).
			Logger()
	})
}

// Base returns the configured base logger.
func Base() zerolog.Logger {
	Configure(Config{})
	return base
}

// WithComponent returns a child logger annotated with a component name.
func WithComponent(component string) zerolog.Logger {
	return Base().With().Str("component", component).Logger()
}
