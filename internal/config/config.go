// Package config loads the uringinfo settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/brickingsoft/uring/pkg/liburing"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	FormatText       = "text"
	FormatPrometheus = "prometheus"
)

// Config holds all uringinfo configuration.
type Config struct {
	Ring    RingConfig
	Info    InfoConfig
	Logging LogConfig
}

// RingConfig describes the ring whose features and budget are reported.
type RingConfig struct {
	Entries      uint32        `envconfig:"IOURING_ENTRIES" default:"16384"`
	SetupFlags   []string      `envconfig:"IOURING_SETUP_FLAGS"`
	CQEntries    uint32        `envconfig:"IOURING_CQ_ENTRIES"`
	SQThreadCPU  uint32        `envconfig:"IOURING_SQ_THREAD_CPU"`
	SQThreadIdle time.Duration `envconfig:"IOURING_SQ_THREAD_IDLE"`
}

// InfoConfig controls the report itself.
type InfoConfig struct {
	EstimateDepths []uint32      `envconfig:"IOURING_ESTIMATE_DEPTHS" default:"8,64,512,4096,32768"`
	Format         string        `envconfig:"IOURING_INFO_FORMAT" default:"text"`
	Workers        int           `envconfig:"IOURING_INFO_WORKERS" default:"0"`
	CloseTimeout   time.Duration `envconfig:"IOURING_INFO_CLOSE_TIMEOUT" default:"5s"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// Load reads the optional env file named by IOURING_ENV_FILE (.env by default),
// then processes the environment. Variables already set win over the file.
func Load() (*Config, error) {
	envFile := os.Getenv("IOURING_ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Ring: RingConfig{
			Entries: liburing.DefaultEntries,
		},
		Info: InfoConfig{
			EstimateDepths: []uint32{8, 64, 512, 4096, 32768},
			Format:         FormatText,
			CloseTimeout:   5 * time.Second,
		},
		Logging: LogConfig{
			Level: "info",
		},
	}
}

// Validate rejects settings that cannot produce a report.
func (c *Config) Validate() error {
	if c.Ring.Entries == 0 {
		return errors.New("config: IOURING_ENTRIES must be positive")
	}
	if _, err := c.Ring.Flags(); err != nil {
		return err
	}
	if c.Ring.SQThreadIdle < 0 {
		return errors.New("config: IOURING_SQ_THREAD_IDLE must not be negative")
	}
	if len(c.Info.EstimateDepths) == 0 {
		return errors.New("config: IOURING_ESTIMATE_DEPTHS is empty")
	}
	for _, depth := range c.Info.EstimateDepths {
		if depth == 0 {
			return errors.New("config: IOURING_ESTIMATE_DEPTHS contains 0")
		}
	}
	switch c.Info.Format {
	case FormatText, FormatPrometheus:
	default:
		return fmt.Errorf("config: unknown IOURING_INFO_FORMAT %q", c.Info.Format)
	}
	if c.Info.Workers < 0 {
		return errors.New("config: IOURING_INFO_WORKERS must not be negative")
	}
	return nil
}

// Flags folds the configured setup flag names into a bit set.
func (r RingConfig) Flags() (uint32, error) {
	var flags uint32
	for _, name := range r.SetupFlags {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		flag := liburing.ParseSetupFlags(name)
		if flag == 0 {
			return 0, fmt.Errorf("config: unknown setup flag %q", name)
		}
		flags |= flag
	}
	return flags, nil
}

// Params builds the setup parameters of the configured ring.
func (r RingConfig) Params() (*liburing.Params, error) {
	flags, err := r.Flags()
	if err != nil {
		return nil, err
	}
	p := liburing.NewParams(flags)
	if r.CQEntries > 0 {
		p.SetCQEntries(r.CQEntries)
	}
	p.SetSQThreadCPU(r.SQThreadCPU)
	p.SetSQThreadIdle(uint32(r.SQThreadIdle.Milliseconds()))
	return p, nil
}
