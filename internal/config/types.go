package config

import (
	"errors"
	"strings"
)

type Config struct {
	Telegram TelegramConfig `json:"telegram"`
	Feed     FeedConfig     `json:"feed"`

	// Schedule controls how often the feed is polled.
	//
	// Supported forms (see monitor.ParseSchedule):
	//   - Go duration: "1h", "30m", "2h30m"
	//   - HH:MM interval: "01:30"
	//   - Cron: "*/30 * * * *", "@hourly"
	//
	// Defaults to "1h" when omitted.
	Schedule string `json:"schedule,omitempty"`

	Storage *StorageConfig `json:"storage,omitempty"`
	Logging LoggingConfig  `json:"logging"`
}

// TelegramConfig identifies the bot and the destination chat.
//
// All durations are Go duration strings (e.g. "500ms", "10s", "1m").
type TelegramConfig struct {
	Token    string `json:"token"`
	ChatID   int64  `json:"chat_id"`
	ThreadID int    `json:"thread_id,omitempty"`

	// SendTimeout bounds a single Telegram API call. Default "10s".
	SendTimeout string `json:"send_timeout,omitempty"`
	// RatePerSec caps outbound notifications. Default 1.
	RatePerSec int `json:"rate_per_sec,omitempty"`
}

// FeedConfig points at the upstream release feed.
type FeedConfig struct {
	// URL of the "latest release" endpoint, e.g.
	// https://api.github.com/repos/IntersectMBO/cardano-node/releases/latest
	URL string `json:"url"`
	// Project is the display name used in notification text.
	Project string `json:"project,omitempty"`
	// Timeout bounds a single poll. Default "30s".
	// A hung upstream connection would otherwise stall the whole loop.
	Timeout string `json:"timeout,omitempty"`
}

// StorageConfig controls where the last-seen release tag is persisted.
//
// Example:
//
//	"storage": { "driver": "file", "path": "./relwatch_state.json" }
type StorageConfig struct {
	Driver      string `json:"driver"`
	Path        string `json:"path"`
	BusyTimeout string `json:"busy_timeout,omitempty"` // Go duration string (sqlite)
}

type LoggingConfig struct {
	Level   string      `json:"level"`
	Console bool        `json:"console"`
	File    LoggingFile `json:"file"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

const (
	DefaultSchedule    = "1h"
	DefaultFeedTimeout = "30s"
	DefaultStoragePath = "./relwatch_state.json"
)

// ApplyDefaults fills in omitted optional fields.
func (c *Config) ApplyDefaults() {
	if strings.TrimSpace(c.Schedule) == "" {
		c.Schedule = DefaultSchedule
	}
	if strings.TrimSpace(c.Feed.Timeout) == "" {
		c.Feed.Timeout = DefaultFeedTimeout
	}
	if strings.TrimSpace(c.Feed.Project) == "" {
		c.Feed.Project = projectFromURL(c.Feed.URL)
	}
	if c.Telegram.RatePerSec <= 0 {
		c.Telegram.RatePerSec = 1
	}
	if strings.TrimSpace(c.Telegram.SendTimeout) == "" {
		c.Telegram.SendTimeout = "10s"
	}
	if c.Storage == nil {
		c.Storage = &StorageConfig{Driver: "file", Path: DefaultStoragePath}
	}
	if strings.TrimSpace(c.Storage.Driver) == "" {
		c.Storage.Driver = "file"
	}
	if strings.TrimSpace(c.Storage.Path) == "" {
		c.Storage.Path = DefaultStoragePath
	}
}

// Validate checks the fields that have no usable default.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Telegram.Token) == "" {
		return errors.New("telegram.token is required")
	}
	if c.Telegram.ChatID == 0 {
		return errors.New("telegram.chat_id is required")
	}
	if strings.TrimSpace(c.Feed.URL) == "" {
		return errors.New("feed.url is required")
	}
	if _, err := ParseDurationField("feed.timeout", c.Feed.Timeout); err != nil {
		return err
	}
	if _, err := ParseDurationField("telegram.send_timeout", c.Telegram.SendTimeout); err != nil {
		return err
	}
	if c.Storage != nil {
		if _, err := ParseDurationField("storage.busy_timeout", c.Storage.BusyTimeout); err != nil {
			return err
		}
	}
	return nil
}

// projectFromURL derives a readable project name from a GitHub-style
// releases URL ("…/repos/<owner>/<repo>/releases/latest" -> "<repo>").
func projectFromURL(url string) string {
	parts := strings.Split(strings.Trim(url, "/"), "/")
	for i, p := range parts {
		if p == "releases" && i > 0 {
			return parts[i-1]
		}
	}
	if len(parts) > 0 && parts[len(parts)-1] != "" {
		return parts[len(parts)-1]
	}
	return "upstream"
}
