// Package config loads scraper configuration from YAML.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pfrederiksen/fortee-timetable/internal/timetable"
)

// Config is the top-level scraper configuration.
type Config struct {
	Event   EventConfig  `yaml:"event"`
	BaseURL string       `yaml:"base_url"`
	Fetch   FetchConfig  `yaml:"fetch"`
	Scrape  ScrapeConfig `yaml:"scrape"`
	Output  OutputConfig `yaml:"output"`
}

// EventConfig is the static event metadata published with the timetable.
type EventConfig struct {
	Name         string `yaml:"name"`
	Date         string `yaml:"date"`
	Venue        string `yaml:"venue"`
	Hashtag      string `yaml:"hashtag"`
	TimetableURL string `yaml:"timetable_url"`
	Timezone     string `yaml:"timezone"`
}

// FetchConfig controls how the rendered page is obtained.
type FetchConfig struct {
	Mode            string        `yaml:"mode"` // browser | http
	RemoteURL       string        `yaml:"remote_url"`
	SettleDelay     time.Duration `yaml:"settle_delay"`
	WaitSelector    string        `yaml:"wait_selector"`
	WaitTimeout     time.Duration `yaml:"wait_timeout"`
	PageLoadTimeout time.Duration `yaml:"page_load_timeout"`
	UserAgent       string        `yaml:"user_agent"`
}

// ScrapeConfig tunes the extraction strategies.
type ScrapeConfig struct {
	ContainerSelector string `yaml:"container_selector"`
	FallbackDuration  int    `yaml:"fallback_duration"`
}

// OutputConfig names the files written by a run.
type OutputConfig struct {
	Path     string `yaml:"path"`
	DumpPath string `yaml:"dump_path"`
}

const (
	FetchModeBrowser = "browser"
	FetchModeHTTP    = "http"

	defaultSettleDelay = 5 * time.Second
)

// Default returns the configuration for JAWS DAYS 2026 on fortee.jp.
func Default() *Config {
	cfg := &Config{Fetch: FetchConfig{SettleDelay: defaultSettleDelay}}
	cfg.applyDefaults()
	return cfg
}

// LoadFile reads a YAML configuration file over the defaults. Keys absent
// from the file keep their default; fetch.settle_delay may be set to 0.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Event.Name == "" {
		c.Event.Name = "JAWS DAYS 2026"
	}
	if c.Event.Date == "" {
		c.Event.Date = "2026-03-07"
	}
	if c.Event.Venue == "" {
		c.Event.Venue = "池袋サンシャインシティ"
	}
	if c.Event.Hashtag == "" {
		c.Event.Hashtag = "#jawsdays2026"
	}
	if c.Event.TimetableURL == "" {
		c.Event.TimetableURL = "https://fortee.jp/jawsdays-2026/timetable"
	}
	if c.Event.Timezone == "" {
		c.Event.Timezone = "Asia/Tokyo"
	}
	if c.BaseURL == "" {
		c.BaseURL = "https://fortee.jp"
	}
	if c.Fetch.Mode == "" {
		c.Fetch.Mode = FetchModeBrowser
	}
	if c.Fetch.WaitSelector == "" {
		c.Fetch.WaitSelector = ".proposal"
	}
	if c.Fetch.WaitTimeout <= 0 {
		c.Fetch.WaitTimeout = 15 * time.Second
	}
	if c.Fetch.PageLoadTimeout <= 0 {
		c.Fetch.PageLoadTimeout = 30 * time.Second
	}
	if c.Fetch.UserAgent == "" {
		c.Fetch.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	}
	if c.Scrape.ContainerSelector == "" {
		c.Scrape.ContainerSelector = `#timetable, .timetable, [class*="timetable"]:not(.proposal)`
	}
	if c.Scrape.FallbackDuration <= 0 {
		c.Scrape.FallbackDuration = 30
	}
	if c.Output.Path == "" {
		c.Output.Path = "public/timetable.json"
	}
	if c.Output.DumpPath == "" {
		c.Output.DumpPath = "debug_timetable.html"
	}
}

// Validate checks values that have no sensible default.
func (c *Config) Validate() error {
	if _, err := time.Parse("2006-01-02", c.Event.Date); err != nil {
		return fmt.Errorf("event.date must be YYYY-MM-DD: %w", err)
	}
	if c.Fetch.SettleDelay < 0 {
		return fmt.Errorf("fetch.settle_delay must not be negative: %s", c.Fetch.SettleDelay)
	}
	if c.Fetch.Mode != FetchModeBrowser && c.Fetch.Mode != FetchModeHTTP {
		return fmt.Errorf("invalid fetch.mode: %s (must be 'browser' or 'http')", c.Fetch.Mode)
	}
	return nil
}

// TimetableEvent converts the event section into published metadata.
func (c *Config) TimetableEvent() timetable.Event {
	return timetable.Event{
		Name:         c.Event.Name,
		Date:         c.Event.Date,
		Venue:        c.Event.Venue,
		Hashtag:      c.Event.Hashtag,
		TimetableURL: c.Event.TimetableURL,
	}
}

// Tracks returns the eight fixed track descriptors for the event.
func (c *Config) Tracks() []timetable.Track {
	return timetable.DefaultTracks(c.Event.Hashtag)
}
