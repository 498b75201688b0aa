// Package initcmder provides the init command for initializing a local .rote
// directory in the current working directory.
package initcmder

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/quizfolkco/rote/pkg/config"
)

const (
	dirName        = ".rote"
	configFileName = "config.toml"
)

const initLongDesc string = `Initialize a new .rote/ directory in the current working directory.

Creates a local .rote/ directory holding config.toml plus the default
locations for knowledge bases (knowledge/) and engine snapshots
(engines/). A local .rote/ takes precedence over ~/.rote/ so a repo can
carry its own decks.

A preset selects a starting config: "file" (the default), "sqlite" for
single-file snapshot storage, or "kafka" to publish review events to a
local broker. Passing an http(s) URL fetches a shared config.toml from
that URL instead, letting a team pin one scheduling config.

Examples:
  rote init
  rote init --preset sqlite
  rote init --preset https://example.com/rote-config.toml`

const initShortDesc string = "Initialize a local .rote/ directory"

type initCommander struct {
	preset string
}

func NewInitCmd() *cobra.Command {
	cmder := &initCommander{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: initShortDesc,
		Long:  initLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.runInit(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&cmder.preset, "preset", "", "Starting config: file, sqlite, kafka, or a config.toml URL")

	return cmd
}

func (c *initCommander) runInit(ctx context.Context) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	dir := filepath.Join(cwd, dirName)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating .rote directory: %w", err)
	}

	for _, sub := range []string{"knowledge", "engines"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return fmt.Errorf("creating %s directory: %w", sub, err)
		}
	}

	// An existing config.toml is only replaced when a preset explicitly
	// asks for it. Re-running a bare init never clobbers local edits.
	_, statErr := os.Stat(filepath.Join(dir, configFileName))
	if statErr == nil && c.preset == "" {
		fmt.Printf("Already initialized: %s\n", dir)
		return nil
	}

	cfg, err := c.resolveConfig(ctx)
	if err != nil {
		return err
	}

	cfger, err := config.NewConfiger(dir)
	if err != nil {
		return fmt.Errorf("opening rote directory: %w", err)
	}

	if err := cfger.SaveConfig(cfg); err != nil {
		return err
	}

	fmt.Printf("Initialized .rote directory: %s\n", dir)
	return nil
}

// resolveConfig picks the config to write: defaults when no preset is given,
// a named preset, or a config.toml fetched from an http(s) URL.
func (c *initCommander) resolveConfig(ctx context.Context) (*config.Config, error) {
	if c.preset == "" {
		return config.NewDefaultConfig(), nil
	}

	if strings.HasPrefix(c.preset, "http://") || strings.HasPrefix(c.preset, "https://") {
		return fetchRemoteConfig(ctx, c.preset)
	}

	return presetConfig(c.preset)
}

func presetConfig(name string) (*config.Config, error) {
	cfg := config.NewDefaultConfig()

	switch name {
	case "file":
		// Defaults already use the file driver.

	case "sqlite":
		cfg.Storage.Driver = "sqlite"

	case "kafka":
		cfg.Events.Backend = "kafka"
		cfg.Events.Brokers = "localhost:9092"

	default:
		return nil, fmt.Errorf("unknown preset: %q", name)
	}

	return cfg, nil
}

func fetchRemoteConfig(ctx context.Context, rawURL string) (*config.Config, error) {
	client := &http.Client{Timeout: 10 * time.Second}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching remote config: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching remote config: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching remote config: HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading remote config: %w", err)
	}

	return config.ParseConfigTOML(data)
}
