package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Init() {
	InitWithWriter(os.Stdout)
}

// InitWithWriter configures the global logger to write to w. Outside
// production the output is human readable.
func InitWithWriter(w io.Writer) {
	zerolog.TimeFieldFormat = time.RFC3339

	if os.Getenv("ENV") != "production" {
		w = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
		}
	}
	log.Logger = zerolog.New(w).With().Timestamp().Str("service", "erp-auth").Logger()

	zerolog.SetGlobalLevel(parseLevel(os.Getenv("LOG_LEVEL")))
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// GetLogger returns a logger with the given component name
func GetLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}
