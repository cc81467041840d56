// Package aitranslatecmder
package aitranslatecmder

import (
	"github.com/spf13/cobra"

	authcmder "github.com/papercomputeco/aitranslate/cmd/aitranslate/auth"
	configcmder "github.com/papercomputeco/aitranslate/cmd/aitranslate/config"
	historycmder "github.com/papercomputeco/aitranslate/cmd/aitranslate/history"
	initcmder "github.com/papercomputeco/aitranslate/cmd/aitranslate/init"
	namecmder "github.com/papercomputeco/aitranslate/cmd/aitranslate/name"
	servecmder "github.com/papercomputeco/aitranslate/cmd/aitranslate/serve"
	"github.com/papercomputeco/aitranslate/cmd/aitranslate/setup"
	translatecmder "github.com/papercomputeco/aitranslate/cmd/aitranslate/translate"
	versioncmder "github.com/papercomputeco/aitranslate/cmd/version"
)

const aitranslateLongDesc string = `aitranslate translates source code comments and suggests identifier
names using any OpenAI compatible chat completion endpoint or Gemini.

Translate and name from the terminal:
  aitranslate translate "返回用户列表"     Translate text (or pipe it on stdin)
  aitranslate name "user list" -L go      Suggest an identifier name

Run the bridge editors and agents talk to:
  aitranslate serve                       HTTP bridge plus MCP endpoint

Configure:
  aitranslate init --preset deepseek      Create a local .aitranslate/
  aitranslate auth                        Store the model API key
  aitranslate config list                 Show configuration`

const aitranslateShortDesc string = "aitranslate - AI powered comment translation"

func NewAitranslateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "aitranslate",
		Short:        aitranslateShortDesc,
		Long:         aitranslateLongDesc,
		SilenceUsage: true,
	}

	// Global flags
	cmd.PersistentFlags().BoolP(setup.FlagDebug, "d", false, "Enable debug logging")
	cmd.PersistentFlags().String(setup.FlagConfigDir, "", "Override path to .aitranslate/ config directory")

	// Add subcommands
	cmd.AddCommand(translatecmder.NewTranslateCmd())
	cmd.AddCommand(namecmder.NewNameCmd())
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(authcmder.NewAuthCmd())
	cmd.AddCommand(historycmder.NewHistoryCmd())
	cmd.AddCommand(initcmder.NewInitCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
