// Package config loads process settings for the vgen command from the
// environment. A .env file in the working directory is read first when it
// exists; variables already set in the environment win.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/goliatone/go-vgenform/pkg/task"
)

// Config holds every VGEN_* setting.
type Config struct {
	// Redis
	RedisAddr     string
	RedisUsername string
	RedisPassword string
	RedisDB       int
	QueueKey      string

	// Draft seed: a local file takes precedence over a Redis key.
	DraftFile string
	DraftKey  string

	// RulesFile points at a rule document or a directory of them.
	RulesFile string

	Locale   string
	LogLevel slog.Level
}

// Load reads the optional env files (".env" when none are given) and the
// process environment. Missing env files are not an error.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: load %s: %w", file, err)
		}
	}

	db, err := getInt("VGEN_REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	level, err := ParseLevel(getEnv("VGEN_LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}

	return &Config{
		RedisAddr:     getEnv("VGEN_REDIS_ADDR", "localhost:6379"),
		RedisUsername: getEnv("VGEN_REDIS_USERNAME", ""),
		RedisPassword: getEnv("VGEN_REDIS_PASSWORD", ""),
		RedisDB:       db,
		QueueKey:      getEnv("VGEN_QUEUE_KEY", task.DefaultQueueKey),
		DraftFile:     getEnv("VGEN_DRAFT_FILE", ""),
		DraftKey:      getEnv("VGEN_DRAFT_KEY", ""),
		RulesFile:     getEnv("VGEN_RULES_FILE", ""),
		Locale:        getEnv("VGEN_LOCALE", "en"),
		LogLevel:      level,
	}, nil
}

// Redis returns the connection settings for task.Connect.
func (c *Config) Redis() task.RedisConfig {
	return task.RedisConfig{
		Addr:     c.RedisAddr,
		Username: c.RedisUsername,
		Password: c.RedisPassword,
		DB:       c.RedisDB,
	}
}

// Logger builds a JSON logger writing to w at the configured level.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: c.LogLevel}))
}

// ParseLevel accepts debug, info, warn/warning and error, case-insensitively.
func ParseLevel(raw string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("config: VGEN_LOG_LEVEL: unknown level %q", raw)
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return value, nil
}
