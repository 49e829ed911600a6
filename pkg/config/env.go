package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables that override tuning values.
const (
	EnvSpeed        = "MINIDASH_SPEED"
	EnvJumpDistance = "MINIDASH_JUMP_DISTANCE"
	EnvJumpHeight   = "MINIDASH_JUMP_HEIGHT"
	EnvDebug        = "MINIDASH_DEBUG"
)

// LoadEnvFile loads KEY=value pairs from a .env file into the process
// environment without overwriting variables that are already set.
// A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading env file: %w", err)
	}
	return nil
}

// GetEnvVariable returns the value of v, or an error when it is unset or empty.
func GetEnvVariable(v string) (string, error) {
	if v == "" {
		return "", fmt.Errorf("input param empty")
	}
	b := os.Getenv(v)
	if b == "" {
		return "", fmt.Errorf("failed to get variable for %s", v)
	}
	return b, nil
}

// ApplyEnv overrides c with the MINIDASH_* variables that are set.
func (c Config) ApplyEnv() (Config, error) {
	floats := []struct {
		key string
		dst *float64
	}{
		{EnvSpeed, &c.Gameplay.Speed},
		{EnvJumpDistance, &c.Gameplay.JumpDistance},
		{EnvJumpHeight, &c.Gameplay.JumpHeight},
	}
	for _, f := range floats {
		raw, err := GetEnvVariable(f.key)
		if err != nil {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return c, fmt.Errorf("parsing %s: %w", f.key, err)
		}
		*f.dst = v
	}
	if raw, err := GetEnvVariable(EnvDebug); err == nil {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return c, fmt.Errorf("parsing %s: %w", EnvDebug, err)
		}
		c.Debug.Enabled = v
	}
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}
