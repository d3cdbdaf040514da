// Package config loads process configuration from the environment.
package config

import (
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the configuration of the signkit server and CLI.
type Config struct {
	Port        string
	Environment string

	// Timeouts in seconds.
	ReadTimeout  int
	WriteTimeout int

	// BodyLimit is the largest accepted request body in megabytes.
	BodyLimit int

	// PresetDB is the SQLite preset database path; empty disables presets.
	PresetDB string

	// FontDir is the directory the server may load fonts from by file
	// name; empty allows only the built-in font and FontHosts.
	FontDir string

	// FontHosts are the hosts the server may download fonts from.
	FontHosts []string

	LogLevel string
}

// Load reads the configuration from SIGNKIT_* environment variables.
func Load() *Config {
	return &Config{
		Port:         getEnv("SIGNKIT_PORT", "3000"),
		Environment:  getEnv("SIGNKIT_ENV", "development"),
		ReadTimeout:  getEnvAsInt("SIGNKIT_READ_TIMEOUT", 10),
		WriteTimeout: getEnvAsInt("SIGNKIT_WRITE_TIMEOUT", 30),
		BodyLimit:    getEnvAsInt("SIGNKIT_BODY_LIMIT", 8),
		PresetDB:     getEnv("SIGNKIT_PRESET_DB", "data/presets.db"),
		FontDir:      getEnv("SIGNKIT_FONT_DIR", ""),
		FontHosts:    getEnvAsList("SIGNKIT_FONT_HOSTS"),
		LogLevel:     getEnv("SIGNKIT_LOG_LEVEL", "info"),
	}
}

// ReadTimeoutDuration returns ReadTimeout as a duration.
func (c *Config) ReadTimeoutDuration() time.Duration {
	return time.Duration(c.ReadTimeout) * time.Second
}

// WriteTimeoutDuration returns WriteTimeout as a duration.
func (c *Config) WriteTimeoutDuration() time.Duration {
	return time.Duration(c.WriteTimeout) * time.Second
}

// IsProduction reports whether the environment is production.
func (c *Config) IsProduction() bool {
	e := strings.ToLower(c.Environment)
	return e == "production" || e == "prod"
}

// Level parses LogLevel. Unknown names select info.
func (c *Config) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// NewLogger builds the process logger: JSON in production, text
// otherwise.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.Level()}
	if c.IsProduction() {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsList(key string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}
