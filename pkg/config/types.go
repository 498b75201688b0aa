package config

import (
	"fmt"
	"strconv"
)

// Config represents the persistent rote configuration stored as config.toml
// in the .rote/ directory. The TOML layout uses sections for logical grouping.
type Config struct {
	Version int           `toml:"version" mapstructure:"version"`
	Storage StorageConfig `toml:"storage" mapstructure:"storage"`
	Paths   PathsConfig   `toml:"paths" mapstructure:"paths"`
	API     APIConfig     `toml:"api" mapstructure:"api"`
	Client  ClientConfig  `toml:"client" mapstructure:"client"`
	Review  ReviewConfig  `toml:"review" mapstructure:"review"`
	Events  EventsConfig  `toml:"events" mapstructure:"events"`
}

// StorageConfig selects the snapshot driver and its connection settings.
// Driver is one of "file", "sqlite", "postgres", or "inmemory".
type StorageConfig struct {
	Driver      string `toml:"driver,omitempty" mapstructure:"driver"`
	SQLitePath  string `toml:"sqlite_path,omitempty" mapstructure:"sqlite_path"`
	PostgresDSN string `toml:"postgres_dsn,omitempty" mapstructure:"postgres_dsn"`
}

// PathsConfig overrides where knowledge bases and engine snapshots live.
// Empty values resolve to knowledge/ and engines/ under the .rote/ directory.
type PathsConfig struct {
	KnowledgeDir string `toml:"knowledge_dir,omitempty" mapstructure:"knowledge_dir"`
	EngineDir    string `toml:"engine_dir,omitempty" mapstructure:"engine_dir"`
}

// APIConfig holds API server settings.
type APIConfig struct {
	Listen string `toml:"listen,omitempty" mapstructure:"listen"`
}

// ClientConfig holds settings for CLI commands that connect to a running
// API server (e.g. rote status). Values are full URLs (scheme + host + port).
type ClientConfig struct {
	APITarget string `toml:"api_target,omitempty" mapstructure:"api_target"`
}

// ReviewConfig tunes the scheduling and sequencing rules.
type ReviewConfig struct {
	DefaultEase   float64 `toml:"default_ease,omitempty" mapstructure:"default_ease"`
	MinEase       float64 `toml:"min_ease,omitempty" mapstructure:"min_ease"`
	MaxInterval   int     `toml:"max_interval,omitempty" mapstructure:"max_interval"`
	MasteryEase   float64 `toml:"mastery_ease,omitempty" mapstructure:"mastery_ease"`
	MasteryStreak int     `toml:"mastery_streak,omitempty" mapstructure:"mastery_streak"`
	ReinsertMin   int     `toml:"reinsert_min,omitempty" mapstructure:"reinsert_min"`
	ReinsertMax   int     `toml:"reinsert_max,omitempty" mapstructure:"reinsert_max"`
	Watch         bool    `toml:"watch" mapstructure:"watch"`
}

// EventsConfig selects the review-event publisher backend ("nop" or
// "kafka"). Brokers is a comma-separated list of kafka bootstrap addresses.
type EventsConfig struct {
	Backend string `toml:"backend,omitempty" mapstructure:"backend"`
	Brokers string `toml:"brokers,omitempty" mapstructure:"brokers"`
	Topic   string `toml:"topic,omitempty" mapstructure:"topic"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

func intKey(get func(c *Config) *int, name string) configKeyInfo {
	return configKeyInfo{
		get: func(c *Config) string {
			if *get(c) == 0 {
				return ""
			}
			return strconv.Itoa(*get(c))
		},
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid value for %s: %w", name, err)
			}
			*get(c) = n
			return nil
		},
	}
}

func floatKey(get func(c *Config) *float64, name string) configKeyInfo {
	return configKeyInfo{
		get: func(c *Config) string {
			if *get(c) == 0 {
				return ""
			}
			return strconv.FormatFloat(*get(c), 'g', -1, 64)
		},
		set: func(c *Config, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("invalid value for %s: %w", name, err)
			}
			*get(c) = f
			return nil
		},
	}
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"storage.driver": {
		get: func(c *Config) string { return c.Storage.Driver },
		set: func(c *Config, v string) error { c.Storage.Driver = v; return nil },
	},
	"storage.sqlite_path": {
		get: func(c *Config) string { return c.Storage.SQLitePath },
		set: func(c *Config, v string) error { c.Storage.SQLitePath = v; return nil },
	},
	"storage.postgres_dsn": {
		get: func(c *Config) string { return c.Storage.PostgresDSN },
		set: func(c *Config, v string) error { c.Storage.PostgresDSN = v; return nil },
	},
	"paths.knowledge_dir": {
		get: func(c *Config) string { return c.Paths.KnowledgeDir },
		set: func(c *Config, v string) error { c.Paths.KnowledgeDir = v; return nil },
	},
	"paths.engine_dir": {
		get: func(c *Config) string { return c.Paths.EngineDir },
		set: func(c *Config, v string) error { c.Paths.EngineDir = v; return nil },
	},
	"api.listen": {
		get: func(c *Config) string { return c.API.Listen },
		set: func(c *Config, v string) error { c.API.Listen = v; return nil },
	},
	"client.api_target": {
		get: func(c *Config) string { return c.Client.APITarget },
		set: func(c *Config, v string) error { c.Client.APITarget = v; return nil },
	},
	"review.default_ease":   floatKey(func(c *Config) *float64 { return &c.Review.DefaultEase }, "review.default_ease"),
	"review.min_ease":       floatKey(func(c *Config) *float64 { return &c.Review.MinEase }, "review.min_ease"),
	"review.max_interval":   intKey(func(c *Config) *int { return &c.Review.MaxInterval }, "review.max_interval"),
	"review.mastery_ease":   floatKey(func(c *Config) *float64 { return &c.Review.MasteryEase }, "review.mastery_ease"),
	"review.mastery_streak": intKey(func(c *Config) *int { return &c.Review.MasteryStreak }, "review.mastery_streak"),
	"review.reinsert_min":   intKey(func(c *Config) *int { return &c.Review.ReinsertMin }, "review.reinsert_min"),
	"review.reinsert_max":   intKey(func(c *Config) *int { return &c.Review.ReinsertMax }, "review.reinsert_max"),
	"review.watch": {
		get: func(c *Config) string { return strconv.FormatBool(c.Review.Watch) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid value for review.watch: %w", err)
			}
			c.Review.Watch = b
			return nil
		},
	},
	"events.backend": {
		get: func(c *Config) string { return c.Events.Backend },
		set: func(c *Config, v string) error { c.Events.Backend = v; return nil },
	},
	"events.brokers": {
		get: func(c *Config) string { return c.Events.Brokers },
		set: func(c *Config, v string) error { c.Events.Brokers = v; return nil },
	},
	"events.topic": {
		get: func(c *Config) string { return c.Events.Topic },
		set: func(c *Config, v string) error { c.Events.Topic = v; return nil },
	},
}
