// Package translatecmder provides the translate command.
package translatecmder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/aitranslate/cmd/aitranslate/setup"
	"github.com/papercomputeco/aitranslate/pkg/cliui"
	"github.com/papercomputeco/aitranslate/pkg/config"
	"github.com/papercomputeco/aitranslate/pkg/translate"
)

type translateCommander struct {
	to     string
	from   string
	render bool

	backend   string
	api       string
	model     string
	streaming bool

	// engineOpts are appended when building the engine; tests inject a backend.
	engineOpts []translate.Option
	logger     *slog.Logger
}

var modelFlagKeys = []string{
	config.FlagBackend,
	config.FlagAPI,
	config.FlagModel,
	config.FlagStreaming,
}

const translateLongDesc string = `Translate a comment or short text with the configured model.

The text is taken from the arguments, or read from stdin when no arguments
are given. The target language defaults to "auto", which means zh-CN.

Examples:
  aitranslate translate "Returns the cached value if present"
  aitranslate translate --to ja "Close the connection"
  git log -1 --format=%B | aitranslate translate --to en
  aitranslate translate --render --to en < README.zh.md`

const translateShortDesc string = "Translate text with the configured model"

func NewTranslateCmd(opts ...translate.Option) *cobra.Command {
	cmder := &translateCommander{engineOpts: opts}

	cmd := &cobra.Command{
		Use:   "translate [text...]",
		Short: translateShortDesc,
		Long:  translateLongDesc,
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readContent(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			return cmder.run(cmd, content)
		},
	}

	cmd.Flags().StringVarP(&cmder.to, "to", "t", translate.AutoLang, "Target language")
	cmd.Flags().StringVar(&cmder.from, "from", "", "Source language (informational)")
	cmd.Flags().BoolVarP(&cmder.render, "render", "r", false, "Render the result as markdown")

	config.AddStringFlag(cmd, config.ModelFlags, config.FlagBackend, &cmder.backend)
	config.AddStringFlag(cmd, config.ModelFlags, config.FlagAPI, &cmder.api)
	config.AddStringFlag(cmd, config.ModelFlags, config.FlagModel, &cmder.model)
	config.AddBoolFlag(cmd, config.ModelFlags, config.FlagStreaming, &cmder.streaming)

	return cmd
}

// readContent joins args, or reads all of in when there are none.
func readContent(in io.Reader, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", errors.New("nothing to translate: pass text as arguments or on stdin")
	}
	return string(data), nil
}

func (c *translateCommander) run(cmd *cobra.Command, content string) error {
	cfg, err := setup.LoadConfig(cmd, config.ModelFlags, modelFlagKeys)
	if err != nil {
		return err
	}
	c.logger = setup.NewLogger(cmd, cfg)

	engine, err := translate.New(cfg, append([]translate.Option{translate.WithLogger(c.logger)}, c.engineOpts...)...)
	if err != nil {
		return err
	}

	var text string
	work := func() error {
		var err error
		text, err = engine.Translate(context.Background(), content, translate.Options{From: c.from, To: c.to})
		return err
	}

	stderr := cmd.ErrOrStderr()
	if cliui.IsTerminal(stderr) {
		err = cliui.Step(stderr, "Translating", work)
	} else {
		err = work()
	}
	if err != nil {
		return err
	}

	if c.render {
		rendered, err := cliui.RenderMarkdown(text)
		if err != nil {
			c.logger.Debug("markdown rendering failed", "error", err)
		}
		text = rendered
	}

	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}
