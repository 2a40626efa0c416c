package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	// Global settings
	Format  string `mapstructure:"format"`
	Quiet   bool   `mapstructure:"quiet"`
	Verbose bool   `mapstructure:"verbose"`

	// Model holds LLM client settings
	Model ModelConfig `mapstructure:"model"`

	// Collector holds log-collection settings
	Collector CollectorConfig `mapstructure:"collector"`

	// Report holds formatting settings
	Report ReportConfig `mapstructure:"report"`
}

// ModelConfig holds LLM client settings
type ModelConfig struct {
	Name       string `mapstructure:"name"`
	APIKey     string `mapstructure:"api_key"`
	BaseURL    string `mapstructure:"base_url"`
	MaxRetries int    `mapstructure:"max_retries"`
}

// CollectorConfig holds collection subprocess settings
type CollectorConfig struct {
	Command   string `mapstructure:"command"`
	HoursBack int    `mapstructure:"hours_back"`
	MaxEvents int    `mapstructure:"max_events"`
	Output    string `mapstructure:"output"`
}

// ReportConfig holds report rendering settings
type ReportConfig struct {
	BudgetChars int  `mapstructure:"budget_chars"`
	NetworkInfo bool `mapstructure:"network_info"`
}

// Default returns a Config with default values
func Default() *Config {
	return &Config{
		Format: "text",
		Model: ModelConfig{
			Name:       "gemini-1.5-flash-latest",
			MaxRetries: 2,
		},
		Collector: CollectorConfig{
			Command:   "powershell.exe",
			HoursBack: 48,
			MaxEvents: 500,
			Output:    defaultSnapshotPath(),
		},
		Report: ReportConfig{
			BudgetChars: 100000,
			NetworkInfo: true,
		},
	}
}

// Load loads configuration from files and environment.
// Config file search order (highest precedence first):
// 1. ./.wintriage.yaml or ./.wintriage.yml
// 2. ~/.wintriage.yaml or ~/.wintriage.yml
// 3. $XDG_CONFIG_HOME/wintriage/config.yaml (or OS equivalent)
// 4. /etc/wintriage/config.yaml
func Load() (*Config, error) {
	cfg := Default()

	configFile := findConfigFile()
	if configFile != "" {
		v := viper.New()
		v.SetConfigFile(configFile)

		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
		if err := v.Unmarshal(cfg); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// PathFromArgs scans raw command-line arguments for the --config flag.
// The file has to be known before flag parsing because its values seed
// the parser's defaults.
func PathFromArgs(args []string) string {
	for i, arg := range args {
		if arg == "--config" && i+1 < len(args) {
			return args[i+1]
		}
		if v, ok := strings.CutPrefix(arg, "--config="); ok {
			return v
		}
	}
	return ""
}

// LoadFromFile loads configuration from a specific file
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)

	return cfg, nil
}

// findConfigFile searches for config file in standard locations
func findConfigFile() string {
	names := []string{".wintriage.yaml", ".wintriage.yml", "wintriage.yaml", "wintriage.yml"}

	home, homeErr := os.UserHomeDir()
	configDir, configDirErr := os.UserConfigDir()

	var searchPaths []string
	if cwd, err := os.Getwd(); err == nil {
		searchPaths = append(searchPaths, cwd)
	}
	if homeErr == nil {
		searchPaths = append(searchPaths, home)
	}
	if configDirErr == nil {
		searchPaths = append(searchPaths, filepath.Join(configDir, "wintriage"))
	}
	searchPaths = append(searchPaths, "/etc/wintriage")

	for _, dir := range searchPaths {
		for _, name := range names {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
		path := filepath.Join(dir, "config.yaml")
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// applyEnvOverrides applies environment variable overrides to config.
// GEMINI_API_KEY is honored as a fallback for compatibility with other
// Gemini tooling.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("WINTRIAGE_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("WINTRIAGE_QUIET"); v == "true" || v == "1" {
		cfg.Quiet = true
	}
	if v := os.Getenv("WINTRIAGE_VERBOSE"); v == "true" || v == "1" {
		cfg.Verbose = true
	}
	if v := os.Getenv("WINTRIAGE_MODEL"); v != "" {
		cfg.Model.Name = v
	}
	if v := os.Getenv("WINTRIAGE_API_KEY"); v != "" {
		cfg.Model.APIKey = v
	} else if v := os.Getenv("GEMINI_API_KEY"); v != "" && cfg.Model.APIKey == "" {
		cfg.Model.APIKey = v
	}
	if v := os.Getenv("WINTRIAGE_COLLECTOR_COMMAND"); v != "" {
		cfg.Collector.Command = v
	}
}

// defaultSnapshotPath places the snapshot under the user cache dir,
// falling back to the working directory.
func defaultSnapshotPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "wintriage_logs.json"
	}
	return filepath.Join(dir, "wintriage", "wintriage_logs.json")
}
