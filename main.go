// Package main provides the entry point for the TextReader CLI application.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/textreader/internal/speech"
	"github.com/dgnsrekt/textreader/internal/textsource"
	"github.com/dgnsrekt/textreader/ui"
	"github.com/dustin/go-humanize"
	"github.com/mitchellh/go-homedir"
	gap "github.com/muesli/go-app-paths"
	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

const (
	minFontSize = 8
	maxFontSize = 24
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile   string
	engineName   string
	rate         float64
	fontSize     float64
	follow       bool
	stopOnToggle bool
	mouse        bool

	rootCmd = &cobra.Command{
		Use:   "textreader [FILE|DIR|-]",
		Short: "Read text aloud in the terminal",
		Long: paragraph(
			fmt.Sprintf("\nType, paste or load text and %s.", keyword("hear it read aloud")),
		),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		Args:             cobra.MaximumNArgs(1),
		ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return nil, cobra.ShellCompDirectiveDefault
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateOptions(cmd)
		},
		RunE: execute,
	}
)

func validateOptions(_ *cobra.Command) error {
	// grab config values from Viper
	engineName = viper.GetString("engine")
	rate = viper.GetFloat64("rate")
	fontSize = viper.GetFloat64("font_size")
	stopOnToggle = viper.GetBool("stop_on_toggle")
	mouse = viper.GetBool("mouse")

	if viper.GetBool("debug") {
		log.SetLevel(log.DebugLevel)
	}

	name, err := resolveEngine(engineName)
	if err != nil {
		return err
	}
	engineName = name

	if err := speech.ValidateRate(rate); err != nil {
		return fmt.Errorf("rate must be between %.1f and %.1f, got %.2f", speech.MinRate, speech.MaxRate, rate)
	}
	if fontSize < minFontSize || fontSize > maxFontSize {
		return fmt.Errorf("font size must be between %d and %d, got %.0f", minFontSize, maxFontSize, fontSize)
	}

	maxCacheSize := viper.GetInt("cache.max_size")
	if maxCacheSize < 1 || maxCacheSize > 10000 {
		return fmt.Errorf("cache max_size must be between 1 and 10000 MB, got %d", maxCacheSize)
	}

	// Validate gTTS language code (basic validation - not exhaustive)
	gttsLang := viper.GetString("gtts.language")
	if len(gttsLang) < 2 || len(gttsLang) > 5 {
		return fmt.Errorf("gtts language code must be 2-5 characters, got %q", gttsLang)
	}
	return nil
}

// resolveEngine accepts an engine name or an unambiguous abbreviation of
// one, such as "oa" for openai.
func resolveEngine(name string) (string, error) {
	if name == "" {
		return speech.EngineSystem, nil
	}
	if slices.Contains(speech.EngineNames, name) {
		return name, nil
	}
	matches := fuzzy.Find(name, speech.EngineNames)
	if len(matches) == 1 || (len(matches) > 1 && matches[0].Score > matches[1].Score) {
		log.Debug("resolved engine", "input", name, "engine", matches[0].Str)
		return matches[0].Str, nil
	}
	return "", fmt.Errorf("unknown engine %q: use one of %s", name, strings.Join(speech.EngineNames, ", "))
}

// expandPath expands a leading ~ to the user's home directory.
func expandPath(path string) string {
	if path == "" {
		return path
	}
	if p, err := homedir.Expand(path); err == nil {
		return p
	}
	return path
}

// resolvePath expands path and, for a directory, picks its readme.
func resolvePath(path string) (string, error) {
	if path == "" || path == textsource.Stdin {
		return path, nil
	}
	path = expandPath(path)
	st, err := os.Stat(path)
	if err != nil || !st.IsDir() {
		return path, nil
	}
	return textsource.FindReadme(path) //nolint:wrapcheck
}

// engineConfig collects engine settings from Viper.
func engineConfig(name string) speech.Config {
	apiKey := viper.GetString("openai.api_key")
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	return speech.Config{
		Engine:    name,
		CacheSize: viper.GetInt64("cache.max_size") * humanize.MiByte,
		MockDelay: viper.GetDuration("mock.delay"),
		System: speech.SystemConfig{
			Binary: expandPath(viper.GetString("system.binary")),
			Voice:  viper.GetString("system.voice"),
		},
		GTTS: speech.GTTSConfig{
			Language:          viper.GetString("gtts.language"),
			RequestsPerMinute: viper.GetInt("gtts.requests_per_minute"),
		},
		Edge: speech.EdgeConfig{
			Voice: viper.GetString("edge.voice"),
		},
		OpenAI: speech.OpenAIConfig{
			APIKey:  apiKey,
			BaseURL: viper.GetString("openai.base_url"),
			Model:   viper.GetString("openai.model"),
			Voice:   viper.GetString("openai.voice"),
		},
	}
}

func stdinIsPipe() (bool, error) {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false, fmt.Errorf("unable to open file: %w", err)
	}
	if stat.Mode()&os.ModeCharDevice == 0 || stat.Size() > 0 {
		return true, nil
	}
	return false, nil
}

func execute(_ *cobra.Command, args []string) error {
	var path string
	if len(args) == 1 {
		path = args[0]
	}

	// if stdin is a pipe then use stdin for input. note that you can also
	// explicitly use a - to read from stdin.
	piped, err := stdinIsPipe()
	if err != nil {
		return err
	}
	if piped && path == "" {
		path = textsource.Stdin
	}
	if path, err = resolvePath(path); err != nil {
		return err
	}

	if follow && (path == "" || path == textsource.Stdin) {
		return errors.New("--follow needs a file argument")
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("textreader needs a terminal on stdout")
	}

	var content string
	if path != "" {
		content, err = textsource.Load(path)
		if err != nil {
			return err
		}
		log.Debug("loaded text", "path", path, "size", humanize.Bytes(uint64(len(content))))
	}

	engine, err := speech.New(engineConfig(engineName))
	if err != nil {
		return fmt.Errorf("unable to create speech engine: %w", err)
	}
	defer func() {
		if err := engine.Close(); err != nil {
			log.Warn("unable to close speech engine", "error", err)
		}
	}()

	return runTUI(path, content, engine, path == textsource.Stdin)
}

func runTUI(path, content string, engine speech.Engine, inputTTY bool) error {
	// Read environment to get debugging stuff
	cfg, err := env.ParseAs[ui.Config]()
	if err != nil {
		return fmt.Errorf("error parsing config: %v", err)
	}

	cfg.Path = path
	cfg.Follow = follow
	cfg.FontSize = fontSize
	cfg.SpeechRate = rate
	cfg.StopOnToggle = stopOnToggle
	cfg.EnableMouse = mouse
	cfg.InputTTY = inputTTY

	// Run Bubble Tea program
	if _, err := ui.NewProgram(cfg, engine, content).Run(); err != nil {
		return fmt.Errorf("unable to run tui program: %w", err)
	}

	return nil
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.PersistentFlags().Bool("debug", false, "write debug messages to the log file")
	rootCmd.Flags().StringVarP(&engineName, "engine", "e", speech.EngineSystem, "speech engine ("+strings.Join(speech.EngineNames, "/")+")")
	rootCmd.Flags().Float64VarP(&rate, "rate", "r", speech.DefaultRate, "initial speech rate (0.5 to 2.0)")
	rootCmd.Flags().Float64VarP(&fontSize, "font-size", "f", 16, "initial font size (8 to 24)")
	rootCmd.Flags().BoolVar(&follow, "follow", false, "reload FILE when it changes")
	rootCmd.Flags().BoolVar(&stopOnToggle, "stop-on-toggle", false, "let the play button stop speech in progress")
	rootCmd.Flags().BoolVarP(&mouse, "mouse", "m", false, "enable mouse wheel on sliders")
	_ = rootCmd.Flags().MarkHidden("mouse")

	// Config bindings
	_ = viper.BindPFlag("engine", rootCmd.Flags().Lookup("engine"))
	_ = viper.BindPFlag("rate", rootCmd.Flags().Lookup("rate"))
	_ = viper.BindPFlag("font_size", rootCmd.Flags().Lookup("font-size"))
	_ = viper.BindPFlag("stop_on_toggle", rootCmd.Flags().Lookup("stop-on-toggle"))
	_ = viper.BindPFlag("mouse", rootCmd.Flags().Lookup("mouse"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))

	viper.SetDefault("engine", speech.EngineSystem)
	viper.SetDefault("rate", speech.DefaultRate)
	viper.SetDefault("font_size", 16)
	viper.SetDefault("gtts.language", "en")
	viper.SetDefault("gtts.requests_per_minute", 50)
	viper.SetDefault("edge.voice", speech.DefaultEdgeVoice)
	viper.SetDefault("cache.max_size", 100)
	viper.SetDefault("mock.delay", "2s")

	rootCmd.AddCommand(configCmd, manCmd, enginesCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "textreader")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not load find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "textreader")}, dirs...)
	}

	if c := os.Getenv("TEXTREADER_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("textreader")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("textreader")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		return
	}

	if viper.ConfigFileUsed() == "" {
		configFile = filepath.Join(dirs[0], "textreader.yml")
	}
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}
