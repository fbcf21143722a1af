// Package config resolves e-library settings from the environment and an
// optional .env file. Variables already set in the environment win over the
// file; command-line flags are applied on top by the cli package.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

const (
	EnvStore     = "ELIBRARY_STORE"
	EnvSeed      = "ELIBRARY_SEED"
	EnvFormat    = "ELIBRARY_FORMAT"
	EnvLogLevel  = "ELIBRARY_LOG_LEVEL"
	EnvLogFormat = "ELIBRARY_LOG_FORMAT"

	DefaultEnvFile = ".env"
)

// Output and log formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

var ErrInvalid = errors.New("invalid config")

type Config struct {
	Store     string // "memory" or "sqlite"
	Seed      string // optional CSV of title,author rows loaded at startup
	Format    string // status output: text or json
	LogLevel  string
	LogFormat string
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Store:     "memory",
		Format:    FormatText,
		LogLevel:  "warn",
		LogFormat: FormatText,
	}
}

// Load reads envFiles (DefaultEnvFile when none are given) and the process
// environment. Missing env files are ignored.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{DefaultEnvFile}
	}

	fileVals := map[string]string{}
	for _, f := range envFiles {
		vals, err := godotenv.Read(f)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return Config{}, fmt.Errorf("read %s: %w", f, err)
		}
		for k, v := range vals {
			if _, seen := fileVals[k]; !seen {
				fileVals[k] = v
			}
		}
	}

	lookup := func(key, def string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		if v := fileVals[key]; v != "" {
			return v
		}
		return def
	}

	def := Default()
	cfg := Config{
		Store:     lookup(EnvStore, def.Store),
		Seed:      lookup(EnvSeed, def.Seed),
		Format:    lookup(EnvFormat, def.Format),
		LogLevel:  lookup(EnvLogLevel, def.LogLevel),
		LogFormat: lookup(EnvLogFormat, def.LogFormat),
	}
	return cfg, cfg.Validate()
}

// Validate checks the values that can be checked without opening anything.
// The store kind is validated when the store is opened.
func (c Config) Validate() error {
	if c.Format != FormatText && c.Format != FormatJSON {
		return fmt.Errorf("%w: format %q", ErrInvalid, c.Format)
	}
	if c.LogFormat != FormatText && c.LogFormat != FormatJSON {
		return fmt.Errorf("%w: log format %q", ErrInvalid, c.LogFormat)
	}
	if _, err := c.level(); err != nil {
		return err
	}
	return nil
}

// Logger builds the structured logger described by c, writing to w.
func (c Config) Logger(w io.Writer) (*slog.Logger, error) {
	lvl, err := c.level()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if c.LogFormat == FormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

func (c Config) level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w: log level %q", ErrInvalid, c.LogLevel)
	}
	return lvl, nil
}
