package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag is the single source of truth for a CLI flag.
// Commands reference flags by registry key rather than hard-coding names,
// shorthands, defaults, and descriptions inline. This prevents flag drift
// when the same logical flag appears on multiple commands (e.g.,
// --knowledge-dir on both "rote serve" and "rote seed").
type Flag struct {
	// Name is the long flag name (e.g. "listen").
	Name string

	// Shorthand is the one-letter short flag (e.g. "l"). Empty for no shorthand.
	Shorthand string

	// ViperKey is the dotted config key this flag maps to (e.g. "api.listen").
	ViperKey string

	// Description is the help text shown in --help output.
	Description string
}

// FlagSet is a mapping of flag names to Flag structs that hold their name,
// shorthand, viper key, etc.
type FlagSet map[string]Flag

// Flag registry keys.
// Use these constants when calling AddStringFlag and BindRegisteredFlags
// to avoid typos or drift from one command to another.
const (
	FlagListen        = "listen"
	FlagStorageDriver = "storage-driver"
	FlagSQLite        = "sqlite"
	FlagPostgresDSN   = "postgres-dsn"
	FlagKnowledgeDir  = "knowledge-dir"
	FlagEngineDir     = "engine-dir"
	FlagEventsBackend = "events-backend"
	FlagKafkaBrokers  = "kafka-brokers"
	FlagKafkaTopic    = "kafka-topic"
	FlagAPITarget     = "api-target"
)

// Flags is the populated registry shared by the rote commands.
var Flags = FlagSet{
	FlagListen:        {Name: "listen", Shorthand: "l", ViperKey: "api.listen", Description: "Address for API server to listen on"},
	FlagStorageDriver: {Name: "storage-driver", ViperKey: "storage.driver", Description: "Snapshot storage driver (file, sqlite, postgres, inmemory)"},
	FlagSQLite:        {Name: "sqlite", Shorthand: "s", ViperKey: "storage.sqlite_path", Description: "Path to SQLite database"},
	FlagPostgresDSN:   {Name: "postgres-dsn", ViperKey: "storage.postgres_dsn", Description: "PostgreSQL connection string"},
	FlagKnowledgeDir:  {Name: "knowledge-dir", ViperKey: "paths.knowledge_dir", Description: "Directory holding knowledge base files"},
	FlagEngineDir:     {Name: "engine-dir", ViperKey: "paths.engine_dir", Description: "Directory holding engine snapshots"},
	FlagEventsBackend: {Name: "events-backend", ViperKey: "events.backend", Description: "Review event publisher backend (nop, kafka)"},
	FlagKafkaBrokers:  {Name: "kafka-brokers", ViperKey: "events.brokers", Description: "Comma-separated Kafka bootstrap addresses"},
	FlagKafkaTopic:    {Name: "kafka-topic", ViperKey: "events.topic", Description: "Kafka topic for review events"},
	FlagAPITarget:     {Name: "api-target", Shorthand: "a", ViperKey: "client.api_target", Description: "Rote API server URL"},
}

// AddStringFlag registers a string flag on cmd from the given FlagSet.
// The flag's name, shorthand, default, and description all come from the
// FlagSet entry so they cannot drift across commands.
func AddStringFlag(cmd *cobra.Command, fs FlagSet, key string, target *string) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaultString(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().StringVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().StringVar(target, def.Name, defaultVal, def.Description)
	}
}

// BindRegisteredFlags binds already-registered flags to viper using definitions
// from the given FlagSet. Call this in PreRunE after InitViper to connect flags
// to the viper precedence chain (flag > env > config file > default).
func BindRegisteredFlags(v *viper.Viper, cmd *cobra.Command, fs FlagSet, registryKeys []string) {
	for _, registryKey := range registryKeys {
		def, ok := fs[registryKey]
		if !ok {
			continue
		}

		f := cmd.Flags().Lookup(def.Name)
		if f == nil {
			continue
		}

		_ = v.BindPFlag(def.ViperKey, f)
	}
}

// defaultString returns the default string value for a viper key from NewDefaultConfig.
func defaultString(viperKey string) string {
	v := viper.New()
	setViperDefaults(v)
	return v.GetString(viperKey)
}
