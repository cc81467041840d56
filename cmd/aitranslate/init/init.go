// Package initcmder provides the init command for initializing a local
// .aitranslate directory in the current working directory.
package initcmder

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/aitranslate/pkg/config"
)

const (
	dirName = ".aitranslate"
)

const initLongDesc string = `Initialize a new .aitranslate/ directory in the current working directory.

Creates a local .aitranslate/ directory that takes precedence over the default
~/.aitranslate/ directory for configuration, the debug log and history.

With --preset, a config.toml pointing at a well known endpoint is written
as well. Available presets: openai, deepseek, ollama, gemini.

Examples:
  aitranslate init
  aitranslate init --preset deepseek`

const initShortDesc string = "Initialize a local .aitranslate/ directory"

func NewInitCmd() *cobra.Command {
	var preset string

	cmd := &cobra.Command{
		Use:   "init",
		Short: initShortDesc,
		Long:  initLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("getting current directory: %w", err)
			}
			return runInit(cmd.OutOrStdout(), cwd, preset)
		},
		ValidArgsFunction: func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
	}

	cmd.Flags().StringVar(&preset, "preset", "", "Write a config.toml for a provider preset ("+strings.Join(config.ValidPresetNames(), ", ")+")")

	return cmd
}

func runInit(w io.Writer, root, preset string) error {
	dir := filepath.Join(root, dirName)

	info, err := os.Stat(dir)
	if err == nil && info.IsDir() {
		fmt.Fprintf(w, "Already initialized: %s\n", dir)
	} else {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating .aitranslate directory: %w", err)
		}
		fmt.Fprintf(w, "Initialized .aitranslate directory: %s\n", dir)
	}

	if preset == "" {
		return nil
	}

	cfg, err := config.PresetConfig(preset)
	if err != nil {
		return err
	}

	cfger, err := config.NewConfiger(dir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfger.SaveConfig(cfg); err != nil {
		return err
	}

	fmt.Fprintf(w, "Wrote %s preset to %s\n", preset, cfger.GetTarget())
	return nil
}
