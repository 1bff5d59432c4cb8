package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is set at build time with -ldflags "-X .../internal/cli.Version=..."
var Version = "v0.1.0"

var (
	cfgFile   string
	verbose   bool
	logLevel  string
	logFormat string
	lang      string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "hakem",
	Short: "Hakem - deterministic exam question quality assessment",
	Long: `Hakem assesses machine-extracted multiple-choice exam questions without
calling a language model:

- Clarity guard: format validity, clarity and single-answer likelihood
- Cognitive signature: which skills the question exercises
- Distractor quality: how well the wrong choices are built
- Reference similarity: how close the question is to ÖSYM style

Every score is reproducible: the same record always gets the same assessment.
An LLM is only used by 'hakem measure' to read question images.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number of Hakem.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("hakem %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.hakem/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")
	rootCmd.PersistentFlags().StringVar(&lang, "lang", "", "language of reasoning text (tr, en)")

	// Bind flags to viper
	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("lang", rootCmd.PersistentFlags().Lookup("lang"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(filepath.Join(home, ".hakem"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match HAKEM_*; nested keys use
	// underscores (HAKEM_LLM_PROVIDER, HAKEM_SCORING_GUARD_PASS_FORMAT)
	viper.SetEnvPrefix("HAKEM")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()
	registerDefaults()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	} else if err != nil && cfgFile != "" {
		fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
	}
}

// setupLogging configures the default slog logger; all logs go to stderr
func setupLogging() {
	var level slog.Level
	switch strings.ToLower(viper.GetString("log_level")) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}
	if verbose && level > slog.LevelInfo {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch strings.ToLower(viper.GetString("log_format")) {
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	default:
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
