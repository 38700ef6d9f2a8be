package app

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"duskwave/internal/log"
	"duskwave/internal/scene"
)

// Window defaults.
const (
	WindowWidth  = 1280
	WindowHeight = 720
	AppName      = "duskwave"
)

// Transport.
const (
	SeekStep             = 5.0 // seconds per arrow key press
	DefaultStartFraction = 0.2 // where playback starts after a load
)

// Config is read once at startup. Command-line flags override it in main.
type Config struct {
	Seed          uint64
	LogLevel      log.Level
	StartFraction float64
	Mode          scene.Mode
	File          string
}

// LoadConfig reads DUSKWAVE_* overrides from the environment.
func LoadConfig() (Config, error) { return loadConfig(os.Getenv) }

func loadConfig(getenv func(string) string) (Config, error) {
	cfg := Config{
		Seed:          uint64(time.Now().UnixNano()),
		LogLevel:      log.LevelFromString(getenv("DUSKWAVE_LOG")),
		StartFraction: DefaultStartFraction,
		Mode:          scene.ModePrimary,
	}
	if s := getenv("DUSKWAVE_SEED"); s != "" {
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("DUSKWAVE_SEED: %w", err)
		}
		cfg.Seed = v
	}
	if s := getenv("DUSKWAVE_START"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return cfg, fmt.Errorf("DUSKWAVE_START: %w", err)
		}
		if v < 0 || v > 1 {
			return cfg, fmt.Errorf("DUSKWAVE_START: %v outside [0,1]", v)
		}
		cfg.StartFraction = v
	}
	if s := getenv("DUSKWAVE_MODE"); s != "" {
		m, err := scene.ParseMode(s)
		if err != nil {
			return cfg, fmt.Errorf("DUSKWAVE_MODE: %w", err)
		}
		cfg.Mode = m
	}
	return cfg, nil
}
