// Package configcmder provides the config command for managing persistent
// aitranslate configuration stored in the .aitranslate/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent aitranslate configuration.

Configuration is stored as config.toml in the .aitranslate/ directory.
AITRANSLATE_* environment variables and CLI flags take precedence over
config file values.

Keys use dotted notation matching the TOML section structure:
  model.backend, model.api, model.key, model.name, model.max_tokens,
  model.temperature, model.streaming, model.timeout,
  prompt.translate, prompt.naming, naming.rules,
  stream.buffer_partial_lines, output.strip_thinking,
  server.listen, history.enabled, history.sqlite_path, debug.mode

Use subcommands to get, set, or list configuration values:
  aitranslate config set <key> <value>    Set a configuration value
  aitranslate config get <key>            Get a configuration value
  aitranslate config list                 List all configuration values

Examples:
  aitranslate config set model.api https://api.deepseek.com/chat/completions
  aitranslate config set model.name deepseek-chat
  aitranslate config set model.max_tokens 0
  aitranslate config get model.backend
  aitranslate config list`

const configShortDesc string = "Manage persistent aitranslate configuration"

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
