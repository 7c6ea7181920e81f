// Package config loads the service configuration: a strict YAML file with
// an environment overlay for secrets.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	yaml "go.yaml.in/yaml/v3"
)

type Config struct {
	Timezone string   `yaml:"timezone"`
	Logging  Logging  `yaml:"logging"`
	Provider Provider `yaml:"provider"`
	Storage  Storage  `yaml:"storage"`
	Telegram Telegram `yaml:"telegram"`
	Tracker  Tracker  `yaml:"tracker"`
	Web      Web      `yaml:"web"`
}

type Logging struct {
	Level   string      `yaml:"level"`
	Console bool        `yaml:"console"`
	File    LoggingFile `yaml:"file"`
}

type LoggingFile struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

type Provider struct {
	BaseURL        string `yaml:"base_url"`
	Site           string `yaml:"site"`
	Tournament     string `yaml:"tournament"`
	TimezoneOffset int    `yaml:"timezone_offset"`
	Timeout        string `yaml:"timeout"`
}

type Storage struct {
	Path        string `yaml:"path"`
	BusyTimeout string `yaml:"busy_timeout"`
}

type Telegram struct {
	Enabled    bool   `yaml:"enabled"`
	Token      string `yaml:"token"`
	ChatID     int64  `yaml:"chat_id"`
	RatePerSec int    `yaml:"rate_per_sec"`
}

type Tracker struct {
	DailyAt     string `yaml:"daily_at"`
	WindowBack  int    `yaml:"window_back"`
	WindowAhead int    `yaml:"window_ahead"`
}

type Web struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// Default returns the baseline configuration before file and env overlays.
func Default() Config {
	return Config{
		Timezone: "Europe/Madrid",
		Logging:  Logging{Level: "info", Console: true},
		Provider: Provider{TimezoneOffset: 2, Timeout: "10s"},
		Storage:  Storage{Path: "./data/porrapp.db", BusyTimeout: "5s"},
		Telegram: Telegram{RatePerSec: 3},
		Tracker:  Tracker{DailyAt: "03:00", WindowBack: 1, WindowAhead: 8},
		Web:      Web{Addr: ":8090"},
	}
}

// Load reads the YAML file at path (missing file means defaults only),
// applies the env overlay and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// run on defaults + env
	case err != nil:
		return Config{}, err
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv lets deployment environments inject secrets without touching the
// config file. TELEGRAM_* mirror the names the original deployment used.
func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN")); v != "" {
		cfg.Telegram.Token = v
		cfg.Telegram.Enabled = true
	}
	if v := strings.TrimSpace(os.Getenv("TELEGRAM_CHAT_ID")); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Telegram.ChatID = id
		}
	}
	if v := strings.TrimSpace(os.Getenv("PORRAPP_DB_PATH")); v != "" {
		cfg.Storage.Path = v
	}
}

func (c Config) Validate() error {
	if _, err := time.LoadLocation(strings.TrimSpace(c.Timezone)); err != nil {
		return fmt.Errorf("timezone: %w", err)
	}
	if strings.TrimSpace(c.Storage.Path) == "" {
		return errors.New("storage.path is required")
	}
	if _, err := ParseDurationField("storage.busy_timeout", c.Storage.BusyTimeout); err != nil {
		return err
	}
	if _, err := ParseDurationField("provider.timeout", c.Provider.Timeout); err != nil {
		return err
	}
	if c.Tracker.WindowBack < 0 || c.Tracker.WindowAhead < 0 {
		return errors.New("tracker.window_back and tracker.window_ahead must be >= 0")
	}
	if c.Web.Enabled && strings.TrimSpace(c.Web.Addr) == "" {
		return errors.New("web.addr is required when web is enabled")
	}
	return nil
}

// Location resolves the configured timezone; Validate guarantees it parses.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(strings.TrimSpace(c.Timezone))
	if err != nil {
		return time.Local
	}
	return loc
}
