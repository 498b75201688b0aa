// Package configcmder provides the config command for managing persistent
// rote configuration stored in the .rote/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent rote configuration.

Configuration is stored as config.toml in the .rote/ directory and provides
default values for command flags. CLI flags always take precedence over
config file values.

Keys use dotted notation matching the TOML section structure:
  storage.driver, storage.sqlite_path, storage.postgres_dsn,
  paths.knowledge_dir, paths.engine_dir,
  api.listen, client.api_target,
  review.default_ease, review.min_ease, review.max_interval,
  review.mastery_ease, review.mastery_streak,
  review.reinsert_min, review.reinsert_max, review.watch,
  events.backend, events.brokers, events.topic

Use subcommands to get, set, or list configuration values:
  rote config set <key> <value>    Set a configuration value
  rote config get <key>            Get a configuration value
  rote config list                 List all configuration values

Examples:
  rote config set storage.driver sqlite
  rote config set review.mastery_streak 5
  rote config get api.listen
  rote config list`

const configShortDesc string = "Manage persistent rote configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
