package serverdocs

import (
	"github.com/uptrace/bun"
)

// LoggingConfig controls the module's structured logging output.
type LoggingConfig struct {
	// Provider supplies scoped loggers. When nil the module builds a
	// go-logger provider from the fields below.
	Provider LoggerProvider
	Level    string
	Format   string
	// AddSource includes the caller location in log records.
	AddSource bool
	// Focus limits console output to the named module loggers.
	Focus []string
}

// Config configures the module.
type Config struct {
	// DB selects the bun backed persistence layer. When nil the module runs
	// on in-memory repositories, which is the mode the tests use.
	DB      *bun.DB
	Logging LoggingConfig
}

// DefaultConfig returns a configuration suitable for embedding in tests and
// small deployments: in-memory persistence and console logging at info.
func DefaultConfig() Config {
	return Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
