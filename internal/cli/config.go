package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/yksassistant/hakem/internal/model"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage Hakem configuration",
	Long: `Manage Hakem configuration files and settings.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (HAKEM_*)
3. Config file (~/.hakem/config.yaml)
4. Defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the effective configuration after merging defaults, config file, environment variables and flags.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.LLM.APIKey != "" {
			cfg.LLM.APIKey = maskKey(cfg.LLM.APIKey)
		}

		if configFile := viper.ConfigFileUsed(); configFile != "" {
			fmt.Fprintf(os.Stderr, "Configuration file: %s\n\n", configFile)
		} else {
			fmt.Fprintf(os.Stderr, "No configuration file found (using defaults)\n\n")
		}

		fmt.Println("═══════════════════════════════════════════════════════════")
		fmt.Println("  Current Configuration")
		fmt.Println("═══════════════════════════════════════════════════════════")
		fmt.Println()

		yamlData, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
		fmt.Println(string(yamlData))

		fmt.Println("═══════════════════════════════════════════════════════════")
		fmt.Println()
		fmt.Println("Configuration hierarchy (highest to lowest priority):")
		fmt.Println("  1. CLI flags")
		fmt.Println("  2. Environment variables (HAKEM_*, OPENAI_API_KEY, ANTHROPIC_API_KEY, ...)")
		fmt.Println("  3. Config file (~/.hakem/config.yaml)")
		fmt.Println("  4. Defaults")
		fmt.Println()

		return nil
	},
}

var configInitForce bool

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize default configuration file",
	Long:  `Create a default configuration file at ~/.hakem/config.yaml with every option and its default value.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		configPath := cfgFile
		if configPath == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("find home directory: %w", err)
			}
			configPath = filepath.Join(home, ".hakem", "config.yaml")
		}

		// Check if config already exists
		if _, err := os.Stat(configPath); err == nil && !configInitForce {
			return fmt.Errorf("config file already exists: %s\nUse 'hakem config show' to view it, or pass --force to overwrite", configPath)
		}

		if err := writeDefaultConfig(configPath); err != nil {
			return err
		}

		fmt.Printf("✓ Created default configuration: %s\n", configPath)
		fmt.Printf("\nTo view the configuration:\n")
		fmt.Printf("  hakem config show\n")
		fmt.Printf("\nTo customize, edit the file with your preferred editor:\n")
		fmt.Printf("  $EDITOR %s\n", configPath)
		fmt.Printf("\n")

		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing config file")

	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}

// writeDefaultConfig writes the commented default configuration to path
func writeDefaultConfig(path string) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	yamlData, err := yaml.Marshal(model.DefaultConfig())
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close config file: %w", closeErr)
		}
	}()

	// Helper for writing with error checking
	printf := func(format string, a ...any) {
		if err != nil {
			return
		}
		_, err = fmt.Fprintf(f, format, a...)
	}

	printf("# Hakem Configuration File\n")
	printf("#\n")
	printf("# Configuration hierarchy (highest to lowest priority):\n")
	printf("#   1. CLI flags\n")
	printf("#   2. Environment variables (HAKEM_*, e.g. HAKEM_LLM_PROVIDER)\n")
	printf("#   3. This config file\n")
	printf("#   4. Built-in defaults\n\n")
	printf("%s", yamlData)
	printf("\n# API keys (recommended to use environment variables instead):\n")
	printf("#   export FIREWORKS_API_KEY=fw-...\n")
	printf("#   export OPENAI_API_KEY=sk-...\n")
	printf("#   export ANTHROPIC_API_KEY=sk-ant-...\n")
	printf("#   export OLLAMA_BASE_URL=http://localhost:11434\n")

	return err
}

// registerDefaults makes every config key known to viper so that HAKEM_*
// environment variables reach nested fields on Unmarshal
func registerDefaults() {
	data, err := yaml.Marshal(model.DefaultConfig())
	if err != nil {
		return
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return
	}

	var walk func(prefix string, m map[string]any)
	walk = func(prefix string, m map[string]any) {
		for k, v := range m {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			if sub, ok := v.(map[string]any); ok {
				walk(key, sub)
				continue
			}
			viper.SetDefault(key, v)
		}
	}
	walk("", tree)

	// omitempty fields are missing from the marshalled defaults
	for _, key := range []string{"llm.api_key", "llm.base_url", "llm.http_proxy", "llm.https_proxy"} {
		viper.SetDefault(key, "")
	}
}

// loadConfig builds the effective configuration
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	resolveLLMEnv(&cfg.LLM)
	return cfg, nil
}

// resolveLLMEnv fills the API key and base URL from the provider's own
// environment variables when the configuration leaves them empty
func resolveLLMEnv(cfg *model.LLMConfig) {
	var keyEnv, urlEnv string
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		keyEnv = "OPENAI_API_KEY"
	case "fireworks":
		keyEnv = "FIREWORKS_API_KEY"
	case "together":
		keyEnv = "TOGETHER_API_KEY"
	case "anthropic", "claude":
		keyEnv = "ANTHROPIC_API_KEY"
	case "ollama":
		urlEnv = "OLLAMA_BASE_URL"
	}

	if cfg.APIKey == "" && keyEnv != "" {
		cfg.APIKey = os.Getenv(keyEnv)
	}
	if cfg.BaseURL == "" && urlEnv != "" {
		cfg.BaseURL = os.Getenv(urlEnv)
	}
}

func maskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "…" + key[len(key)-4:]
}
