// Package conf loads, validates and persists the inatdiff configuration.
package conf

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yaml
var configFiles embed.FS

// LogSettings configures a rotated service log file.
type LogSettings struct {
	Enabled bool   // true to enable service log files
	Path    string // path to log file
}

// MainSettings contains general application settings.
type MainSettings struct {
	Name string      // application name, used in user agent and reports
	Log  LogSettings // service log settings
}

// INatSettings contains settings for the iNaturalist API client.
type INatSettings struct {
	BaseURL     string  // API base URL
	UserAgent   string  // HTTP User-Agent, default derived from name/version
	Timeout     int     // request timeout in seconds
	RateLimit   float64 // minimum seconds between consecutive requests
	MaxAttempts int     // total attempts per request including retries
}

// DiffSettings contains settings for the new-species diff engine.
type DiffSettings struct {
	LookbackYears int  // historical window length in years
	Verbose       bool // surface resolution and progress detail
}

// OutputSettings contains settings for CLI output rendering.
type OutputSettings struct {
	Format              string // console format: text, json or markdown
	SpeciesDisplayLimit int    // species shown in console output before truncation
	File                string // path to save result JSON, empty to skip
}

// MCPSettings contains settings for the MCP tool server.
type MCPSettings struct {
	CacheTTL    time.Duration // how long tool results are served from cache
	ResultLimit int           // species listed per tool response
}

// Settings is the root configuration for the application.
type Settings struct {
	Debug bool // true to enable debug output

	Main   MainSettings
	INat   INatSettings
	Diff   DiffSettings
	Output OutputSettings
	MCP    MCPSettings
}

var (
	settingsInstance *Settings
	settingsMutex    sync.RWMutex
)

// Load reads the configuration into a validated Settings struct.
func Load() (*Settings, error) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	settings := &Settings{}

	if err := initViper(); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating config: %w", err)
	}

	settingsInstance = settings
	return settingsInstance, nil
}

// GetSettings returns the loaded settings instance, nil before Load.
func GetSettings() *Settings {
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()
	return settingsInstance
}

// initViper initializes viper with default values and reads the configuration file.
func initViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}

	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	// Defaults defined in defaults.go
	setDefaultConfig()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			// Config file not found, create one with defaults
			return createDefaultConfig()
		}
		return fmt.Errorf("fatal error reading config file: %w", err)
	}

	return nil
}

// createDefaultConfig writes the embedded default config to the primary
// config path and loads it.
func createDefaultConfig() error {
	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}
	configPath := filepath.Join(configPaths[0], "config.yaml")

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("error creating directories for config file: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(getDefaultConfig()), 0o644); err != nil {
		return fmt.Errorf("error writing default config file: %w", err)
	}

	fmt.Fprintln(os.Stderr, "Created default config file at:", configPath)
	return viper.ReadInConfig()
}

// getDefaultConfig reads the default configuration from the embedded config.yaml file.
func getDefaultConfig() string {
	data, err := fs.ReadFile(configFiles, "config.yaml")
	if err != nil {
		log.Fatalf("Error reading embedded config file: %v", err)
	}
	return string(data)
}

// GetDefaultConfigPaths returns OS specific paths searched for config.yaml.
func GetDefaultConfigPaths() ([]string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("error fetching user home directory: %w", err)
	}

	var configPaths []string
	switch runtime.GOOS {
	case "windows":
		exePath, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("error fetching executable path: %w", err)
		}
		configPaths = []string{
			filepath.Dir(exePath),
			filepath.Join(homeDir, "AppData", "Roaming", "inatdiff"),
		}
	default:
		configPaths = []string{
			filepath.Join(homeDir, ".config", "inatdiff"),
			"/etc/inatdiff",
		}
	}

	return configPaths, nil
}
