package cmd

import (
	"errors"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/govjobs/internal/relevance"
	"github.com/spigell/govjobs/internal/selection"
)

const (
	app = "govjobs"
)

type Config struct {
	UserAgent string         `mapstructure:"user-agent"`
	Catalog   *CatalogConfig `mapstructure:"catalog"`
	Search    *SearchConfig  `mapstructure:"search"`
	History   *HistoryConfig `mapstructure:"history"`
	AI        *AIConfig      `mapstructure:"ai"`
}

type CatalogConfig struct {
	Records       string `mapstructure:"records"`
	Jurisdictions string `mapstructure:"jurisdictions"`
}

type SearchConfig struct {
	Threshold         float64 `mapstructure:"threshold"`
	FallbackThreshold float64 `mapstructure:"fallback-threshold"`
	MaxContextRecords int     `mapstructure:"max-context-records"`
}

type HistoryConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Path     string `mapstructure:"path"`
	MaxTurns int    `mapstructure:"max-turns"`
}

type AIConfig struct {
	Provider       string        `mapstructure:"provider"`
	ExtractQueries bool          `mapstructure:"extract-queries"`
	Gemini         *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile        string `mapstructure:"api-key-file"`
	KeyringAccount    string `mapstructure:"keyring-account"`
	Model             string `mapstructure:"model"`
	MaxRetries        int    `mapstructure:"max-retries"`
	MaxLogLength      int    `mapstructure:"max-log-length"`
	RequestsPerMinute int    `mapstructure:"requests-per-minute"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "govjobs answers questions about public-sector job descriptions and salaries",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("ai.gemini.api-key-file", "GOVJOBS_GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GOVJOBS_GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	viper.SetDefault("search.threshold", relevance.DefaultThreshold)
	viper.SetDefault("search.fallback-threshold", relevance.BroadThreshold)
	viper.SetDefault("search.max-context-records", selection.DefaultContextRecords)
	viper.SetDefault("history.enabled", true)
	viper.SetDefault("history.path", app+"-history.db")
	viper.SetDefault("history.max-turns", 10)
	viper.SetDefault("ai.provider", "gemini")
	viper.SetDefault("ai.extract-queries", true)
	viper.SetDefault("ai.gemini.keyring-account", "gemini")

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is govjobs.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("records", "", "job records file or URL (overrides catalog.records)")
	rootCmd.PersistentFlags().String("jurisdictions", "", "jurisdictions file or URL (overrides catalog.jurisdictions)")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("catalog.records", rootCmd.PersistentFlags().Lookup("records"))
	viper.BindPFlag("catalog.jurisdictions", rootCmd.PersistentFlags().Lookup("jurisdictions"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// A missing default config is fine: flags and defaults may be enough.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
