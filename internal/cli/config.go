package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/caarlos0/env/v11"
)

// Config holds the environment defaults for the global flags. Flags given on
// the command line win.
type Config struct {
	Database string `env:"LOREKEEP_DB"      envDefault:"lorekeep.db"`
	Format   string `env:"LOREKEEP_FORMAT"  envDefault:"text"`
	Verbose  bool   `env:"LOREKEEP_VERBOSE"`
}

// LoadConfig reads Config from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// newLogger builds the process logger: text records on w, Debug and up when
// verbose, Warn and up otherwise.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
