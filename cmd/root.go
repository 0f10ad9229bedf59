package cmd

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/tmscope/internal/config"
	"github.com/zjrosen/tmscope/internal/log"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

var (
	version = "dev"
	cfgFile string
	debug   bool
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:     "tmscope",
	Short:   "A TextMate-grammar syntax highlighting tokenizer",
	Long:    `tmscope tokenizes source files against TextMate grammars, line by line, the way an editor's syntax highlighter would.`,
	Version: version,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .tmscope/config.yaml, else ~/.config/tmscope/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"enable verbose engine tracing to the debug log")
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("grammar_dirs", defaults.GrammarDirs)
	viper.SetDefault("max_stack_depth", defaults.MaxStackDepth)
	viper.SetDefault("debug", defaults.Debug)
	viper.SetDefault("theme.colors", defaults.Theme.Colors)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.file_path", defaults.Tracing.FilePath)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .tmscope/config.yaml (current directory)
		// 2. ~/.config/tmscope/config.yaml (user config)
		if _, err := os.Stat(".tmscope/config.yaml"); err == nil {
			viper.SetConfigFile(".tmscope/config.yaml")
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "tmscope"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			defaultPath := ".tmscope/config.yaml"
			if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
				viper.SetConfigFile(defaultPath)
				_ = viper.ReadInConfig()
			}
		}
	}

	_ = viper.Unmarshal(&cfg)

	if debug {
		cfg.Debug = true
	}

	logPath := ".tmscope/tmscope.log"
	if _, err := log.Init(logPath); err == nil {
		log.SetEnabled(cfg.Debug)
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags).
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
