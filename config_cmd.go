package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/charmbracelet/x/editor"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultConfig = `# speech engine: system, gtts, edge, openai or mock
engine: "system"
# initial speech rate (0.5 to 2.0)
rate: 1.0
# initial font size (8 to 24)
font_size: 16
# let the play button stop speech that is in progress
stop_on_toggle: false
# mouse wheel adjusts the focused slider
mouse: false

# platform speech command (espeak-ng, say or PowerShell)
system:
  # binary: "espeak-ng"
  # voice: "en-us"

# Google Translate speech through gtts-cli (pip install gTTS)
gtts:
  language: "en"
  requests_per_minute: 50

# Microsoft Edge online voices
edge:
  voice: "en-US-AriaNeural"

# OpenAI speech endpoint
openai:
  # api_key: "sk-..."
  # base_url: "https://api.openai.com/v1"
  model: "tts-1"
  voice: "alloy"

# in-memory cache of synthesized audio for online engines, in MB
cache:
  max_size: 100

# how long the mock engine pretends to speak
mock:
  delay: "2s"
`

var configCmd = &cobra.Command{
	Use:     "config",
	Hidden:  false,
	Short:   "Edit the textreader config file",
	Long:    paragraph(fmt.Sprintf("\n%s the textreader config file. We’ll use EDITOR to determine which editor to use. If the config file doesn't exist, it will be created.", keyword("Edit"))),
	Example: paragraph("textreader config\ntextreader config --config path/to/config.yml"),
	Args:    cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		if err := ensureConfigFile(); err != nil {
			return err
		}

		c, err := editor.Cmd("TextReader", configFile)
		if err != nil {
			return fmt.Errorf("unable to set config file: %w", err)
		}
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		if err := c.Run(); err != nil {
			return fmt.Errorf("unable to run command: %w", err)
		}

		fmt.Println("Wrote config file to:", configFile)
		return nil
	},
}

func ensureConfigFile() error {
	if configFile == "" {
		configFile = viper.GetViper().ConfigFileUsed()
		if err := os.MkdirAll(filepath.Dir(configFile), 0o755); err != nil { //nolint:gosec
			return fmt.Errorf("could not write configuration file: %w", err)
		}
	}

	if ext := path.Ext(configFile); ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("'%s' is not a supported configuration type: use '%s' or '%s'", ext, ".yaml", ".yml")
	}

	if _, err := os.Stat(configFile); errors.Is(err, fs.ErrNotExist) {
		// File doesn't exist yet, create all necessary directories and
		// write the default config file
		if err := os.MkdirAll(filepath.Dir(configFile), 0o700); err != nil {
			return fmt.Errorf("unable create directory: %w", err)
		}

		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("unable to create config file: %w", err)
		}
		defer func() { _ = f.Close() }()

		if _, err := f.WriteString(defaultConfig); err != nil {
			return fmt.Errorf("unable to write config file: %w", err)
		}
	} else if err != nil { // some other error occurred
		return fmt.Errorf("unable to stat config file: %w", err)
	}
	return nil
}
