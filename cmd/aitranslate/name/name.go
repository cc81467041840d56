// Package namecmder provides the name command, which turns a selected
// identifier into an English name that follows the language's conventions.
package namecmder

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/aitranslate/cmd/aitranslate/setup"
	"github.com/papercomputeco/aitranslate/pkg/cliui"
	"github.com/papercomputeco/aitranslate/pkg/config"
	"github.com/papercomputeco/aitranslate/pkg/naming"
	"github.com/papercomputeco/aitranslate/pkg/translate"
)

type nameCommander struct {
	language  string
	file      string
	line      int
	paragraph string
	write     bool

	backend string
	api     string
	model   string

	engineOpts []translate.Option
}

var modelFlagKeys = []string{
	config.FlagBackend,
	config.FlagAPI,
	config.FlagModel,
}

const nameLongDesc string = `Generate an English identifier for a selected name.

The model sees the identifier, the language and the source line it sits on
(the "paragraph"). With --file the line is read from the file: --line picks
it (1-based), otherwise the first line containing the identifier is used.
With --write the identifier on that line is replaced in place.

Examples:
  aitranslate name 用户数量 --language go --paragraph "var 用户数量 int"
  aitranslate name 获取配置 --file main.go --line 42
  aitranslate name 获取配置 --file main.go --write`

const nameShortDesc string = "Generate an English identifier name"

func NewNameCmd(opts ...translate.Option) *cobra.Command {
	cmder := &nameCommander{engineOpts: opts}

	cmd := &cobra.Command{
		Use:   "name <identifier>",
		Short: nameShortDesc,
		Long:  nameLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd, args[0])
		},
	}

	cmd.Flags().StringVarP(&cmder.language, "language", "L", "", "Language ID of the source (default: inferred from --file extension)")
	cmd.Flags().StringVarP(&cmder.file, "file", "f", "", "Source file containing the identifier")
	cmd.Flags().IntVar(&cmder.line, "line", 0, "1-based line of the identifier in --file")
	cmd.Flags().StringVarP(&cmder.paragraph, "paragraph", "p", "", "Source line giving context (ignored with --file)")
	cmd.Flags().BoolVarP(&cmder.write, "write", "w", false, "Replace the identifier in --file")

	config.AddStringFlag(cmd, config.ModelFlags, config.FlagBackend, &cmder.backend)
	config.AddStringFlag(cmd, config.ModelFlags, config.FlagAPI, &cmder.api)
	config.AddStringFlag(cmd, config.ModelFlags, config.FlagModel, &cmder.model)

	return cmd
}

func (c *nameCommander) run(cmd *cobra.Command, identifier string) error {
	identifier = strings.TrimSpace(identifier)
	if c.write && c.file == "" {
		return errors.New("--write requires --file")
	}

	req := translate.NamingRequest{
		Identifier: identifier,
		LanguageID: c.language,
		Paragraph:  c.paragraph,
	}

	line := -1
	if c.file != "" {
		var err error
		line, req.Paragraph, err = c.locate(identifier)
		if err != nil {
			return err
		}
		if req.LanguageID == "" {
			req.LanguageID = LanguageFromPath(c.file)
		}
	}

	cfg, err := setup.LoadConfig(cmd, config.ModelFlags, modelFlagKeys)
	if err != nil {
		return err
	}
	log := setup.NewLogger(cmd, cfg)

	engine, err := translate.New(cfg, append([]translate.Option{translate.WithLogger(log)}, c.engineOpts...)...)
	if err != nil {
		return err
	}

	var name string
	work := func() error {
		var err error
		name, err = engine.Name(context.Background(), req)
		return err
	}

	stderr := cmd.ErrOrStderr()
	if cliui.IsTerminal(stderr) {
		err = cliui.Step(stderr, "Naming "+identifier, work)
	} else {
		err = work()
	}
	if err != nil {
		return err
	}

	if c.write {
		if err := naming.ReplaceInFile(c.file, line, identifier, name); err != nil {
			return err
		}
		log.Debug("identifier replaced", "file", c.file, "line", line+1, "name", name)
	}

	fmt.Fprintln(cmd.OutOrStdout(), name)
	return nil
}

// locate returns the 0-based line and paragraph of identifier in c.file.
func (c *nameCommander) locate(identifier string) (int, string, error) {
	data, err := os.ReadFile(c.file)
	if err != nil {
		return 0, "", fmt.Errorf("reading %s: %w", c.file, err)
	}
	doc := string(data)

	line := c.line - 1
	if c.line <= 0 {
		line, err = naming.FindLine(doc, identifier)
		if err != nil {
			return 0, "", err
		}
	}

	paragraph, err := naming.Paragraph(doc, line)
	if err != nil {
		return 0, "", err
	}
	if !strings.Contains(paragraph, identifier) {
		return 0, "", fmt.Errorf("%w: %q on line %d of %s", naming.ErrSelectionNotFound, identifier, line+1, c.file)
	}
	return line, paragraph, nil
}

var extLanguages = map[string]string{
	".go":    "go",
	".py":    "python",
	".js":    "javascript",
	".jsx":   "javascriptreact",
	".ts":    "typescript",
	".tsx":   "typescriptreact",
	".java":  "java",
	".kt":    "kotlin",
	".rs":    "rust",
	".c":     "c",
	".h":     "c",
	".cc":    "cpp",
	".cpp":   "cpp",
	".hpp":   "cpp",
	".cs":    "csharp",
	".rb":    "ruby",
	".php":   "php",
	".swift": "swift",
	".dart":  "dart",
	".vue":   "vue",
	".lua":   "lua",
	".sh":    "shellscript",
	".sql":   "sql",
}

// LanguageFromPath maps a file extension to an editor language ID, or
// "plaintext" when it is unknown.
func LanguageFromPath(path string) string {
	if lang, ok := extLanguages[strings.ToLower(filepath.Ext(path))]; ok {
		return lang
	}
	return "plaintext"
}
