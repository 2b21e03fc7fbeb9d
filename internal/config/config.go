package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type AppConfig struct {
	Preset       string `validate:"required"`
	MoveTimeMS   int    `validate:"omitempty,min=50,max=30000"`
	MaxDepth     int    `validate:"omitempty,min=3,max=6"`
	HardDeadline bool

	DebouncePolls int `validate:"min=1,max=50"`
	TickMS        int `validate:"min=1,max=1000"`
	ColorToggleMS int `validate:"min=100,max=10000"`
	CaptureCueMS  int `validate:"min=250,max=30000"`

	MessagesDir string
	SnapshotDir string `validate:"required"`
}

var validate = validator.New()

// Default is the configuration with no environment applied.
func Default() *AppConfig {
	return &AppConfig{
		Preset:        "level3",
		DebouncePolls: 3,
		TickMS:        10,
		ColorToggleMS: 1000,
		CaptureCueMS:  2000,
		SnapshotDir:   "snapshots",
	}
}

func Load() (*AppConfig, error) {
	cfg := Default()

	if v := strings.TrimSpace(os.Getenv("HALLCHESS_PRESET")); v != "" {
		cfg.Preset = v
	}
	if err := intEnv("HALLCHESS_MOVE_TIME_MS", &cfg.MoveTimeMS); err != nil {
		return nil, err
	}
	if err := intEnv("HALLCHESS_MAX_DEPTH", &cfg.MaxDepth); err != nil {
		return nil, err
	}
	if v := strings.TrimSpace(os.Getenv("HALLCHESS_HARD_DEADLINE")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("HALLCHESS_HARD_DEADLINE: %w", err)
		}
		cfg.HardDeadline = b
	}
	if err := intEnv("HALLCHESS_DEBOUNCE_POLLS", &cfg.DebouncePolls); err != nil {
		return nil, err
	}
	if err := intEnv("HALLCHESS_TICK_MS", &cfg.TickMS); err != nil {
		return nil, err
	}
	if err := intEnv("HALLCHESS_COLOR_TOGGLE_MS", &cfg.ColorToggleMS); err != nil {
		return nil, err
	}
	if err := intEnv("HALLCHESS_CAPTURE_CUE_MS", &cfg.CaptureCueMS); err != nil {
		return nil, err
	}
	cfg.MessagesDir = strings.TrimSpace(os.Getenv("HALLCHESS_MESSAGES_DIR"))
	if v := strings.TrimSpace(os.Getenv("HALLCHESS_SNAPSHOT_DIR")); v != "" {
		cfg.SnapshotDir = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field ranges and reports every violation in one error.
func (c *AppConfig) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func (c *AppConfig) Tick() time.Duration        { return time.Duration(c.TickMS) * time.Millisecond }
func (c *AppConfig) ColorToggle() time.Duration { return time.Duration(c.ColorToggleMS) * time.Millisecond }
func (c *AppConfig) CaptureCue() time.Duration  { return time.Duration(c.CaptureCueMS) * time.Millisecond }

func intEnv(key string, dst *int) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}
