package logging

import (
	"io"
	"os"
	"strings"
	"time"

	config "github.com/anjiri1684/hotel_reservation/configs"
	"github.com/rs/zerolog"
)

// New builds the process logger. Unknown levels fall back to info, unknown
// outputs to stdout.
func New(cfg config.LoggingConfig, app config.AppConfig) zerolog.Logger {
	level := zerolog.InfoLevel
	if parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level))); err == nil && parsed != zerolog.NoLevel {
		level = parsed
	}

	output := io.Writer(os.Stdout)
	if strings.EqualFold(strings.TrimSpace(cfg.Output), "stderr") {
		output = os.Stderr
	}
	if strings.EqualFold(strings.TrimSpace(cfg.Format), "console") {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: time.RFC3339}
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	return zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Str("app", app.Name).
		Str("env", app.Env).
		Logger()
}
