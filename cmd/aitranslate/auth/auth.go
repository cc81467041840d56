// Package authcmder provides the auth command for storing the model API key.
package authcmder

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/papercomputeco/aitranslate/cmd/aitranslate/setup"
	"github.com/papercomputeco/aitranslate/pkg/cliui"
	"github.com/papercomputeco/aitranslate/pkg/config"
)

const keyConfigKey = "model.key"

const authLongDesc string = `Store the API key used to authenticate against the model endpoint.

The key is stored as model.key in config.toml in the .aitranslate/ directory
and sent as a bearer token (chat backend) or API key (gemini backend).
The AITRANSLATE_MODEL_KEY environment variable takes precedence.

Examples:
  aitranslate auth                 Prompt for the API key
  echo $KEY | aitranslate auth     Pipe the API key from stdin
  aitranslate auth --remove        Remove the stored API key`

const authShortDesc string = "Store the model API key"

func NewAuthCmd() *cobra.Command {
	var removeFlag bool

	cmd := &cobra.Command{
		Use:   "auth",
		Short: authShortDesc,
		Long:  authLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configDir := setup.ConfigDir(cmd)
			if removeFlag {
				return runRemove(cmd.OutOrStdout(), configDir)
			}

			apiKey, err := readAPIKey(cmd.InOrStdin(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return runAuth(cmd.OutOrStdout(), apiKey, configDir)
		},
	}

	cmd.Flags().BoolVar(&removeFlag, "remove", false, "Remove the stored API key")

	return cmd
}

func runAuth(w io.Writer, apiKey, configDir string) error {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return errors.New("API key cannot be empty")
	}

	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfger.SetConfigValue(keyConfigKey, apiKey); err != nil {
		return err
	}

	fmt.Fprintf(w, "\n  %s Stored API key %s\n\n",
		cliui.SuccessMark,
		cliui.DimStyle.Render("("+cliui.MaskSecret(apiKey)+")"),
	)
	return nil
}

func runRemove(w io.Writer, configDir string) error {
	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	current, err := cfger.GetConfigValue(keyConfigKey)
	if err != nil {
		return err
	}
	if current == "" {
		fmt.Fprintf(w, "\n  %s No stored API key.\n\n", cliui.DimStyle.Render("●"))
		return nil
	}

	if err := cfger.SetConfigValue(keyConfigKey, ""); err != nil {
		return err
	}

	fmt.Fprintf(w, "\n  %s Removed stored API key\n\n", cliui.SuccessMark)
	return nil
}

// readAPIKey prompts without echo on a terminal, otherwise reads one line.
func readAPIKey(in io.Reader, prompt io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(prompt, "Enter API key: ")
		key, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", fmt.Errorf("reading API key: %w", err)
		}
		return string(key), nil
	}

	scanner := bufio.NewScanner(in)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("reading API key from stdin: %w", err)
	}
	return "", errors.New("no API key provided on stdin")
}
