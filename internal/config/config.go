package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

const appName = "listfill"

// Config represents the application configuration
type Config struct {
	Auth      AuthConfig      `yaml:"auth,omitempty"`
	List      ListConfig      `yaml:"list,omitempty"`
	Random    RandomConfig    `yaml:"random,omitempty"`
	Catalog   CatalogConfig   `yaml:"catalog,omitempty"`
	Endpoints EndpointsConfig `yaml:"endpoints,omitempty"`
	Store     StoreConfig     `yaml:"store,omitempty"`
	Metrics   MetricsConfig   `yaml:"metrics,omitempty"`
	UI        UIConfig        `yaml:"ui,omitempty"`
	Logging   LoggingConfig   `yaml:"logging,omitempty"`
}

// AuthConfig holds the credentials of a logged in MyAnimeList browser session
type AuthConfig struct {
	CSRFToken string `yaml:"csrf_token,omitempty"`
	// Cookies is the raw Cookie header of the session, e.g. "MALSESSIONID=...; is_logged_in=1"
	Cookies string `yaml:"cookies,omitempty"`
}

// ListConfig contains the list fields every added entry is created with
type ListConfig struct {
	Status   int `yaml:"status,omitempty" validate:"oneof=1 2 3 4 6"`
	Score    int `yaml:"score" validate:"min=0,max=10"`
	Episodes int `yaml:"episodes" validate:"min=0"`
	Volumes  int `yaml:"volumes" validate:"min=0"`
	Chapters int `yaml:"chapters" validate:"min=0"`
}

// RandomConfig contains settings for runs that submit random ids
type RandomConfig struct {
	Delay       time.Duration `yaml:"delay" validate:"min=0"`
	MaxAttempts int           `yaml:"max_attempts,omitempty" validate:"min=1"`
	MediaTypes  []string      `yaml:"media_types,omitempty" validate:"min=1,dive,oneof=anime manga"`
}

// CatalogConfig contains settings for runs that page through a ranking catalog
type CatalogConfig struct {
	Provider string `yaml:"provider,omitempty" validate:"oneof=jikan anilist"`
	// Delay is awaited after every submission
	Delay time.Duration `yaml:"delay" validate:"min=0"`
	// FetchDelay is awaited before every catalog request
	FetchDelay time.Duration `yaml:"fetch_delay" validate:"min=0"`
	// FeedDelay is awaited between the anime and manga fetch of a page
	FeedDelay time.Duration `yaml:"feed_delay" validate:"min=0"`
	// PageDelay is awaited before every page after the first
	PageDelay time.Duration `yaml:"page_delay" validate:"min=0"`
	StartPage int           `yaml:"start_page,omitempty" validate:"min=1"`
	// TotalPages of 0 means unlimited
	TotalPages    int               `yaml:"total_pages" validate:"min=0"`
	ExcludedPages string            `yaml:"excluded_pages,omitempty" validate:"pageranges"`
	SafetyCheck   SafetyCheckConfig `yaml:"safety_check,omitempty"`
}

// SafetyCheckConfig bounds catalog runs that have no page limit
type SafetyCheckConfig struct {
	Disabled bool `yaml:"disabled,omitempty"`
	Limit    int  `yaml:"limit,omitempty" validate:"min=1"`
}

// EndpointsConfig contains the base URLs of the remote services
type EndpointsConfig struct {
	MAL     string `yaml:"mal,omitempty" validate:"required,url"`
	Jikan   string `yaml:"jikan,omitempty" validate:"required,url"`
	AniList string `yaml:"anilist,omitempty" validate:"required,url"`
}

// StoreConfig contains settings for the local run summary store
type StoreConfig struct {
	Disabled bool   `yaml:"disabled,omitempty"`
	Path     string `yaml:"path,omitempty"`
}

// MetricsConfig contains settings for the metrics written at the end of a run
type MetricsConfig struct {
	// TextfilePath, when set, receives the run counters in Prometheus text format
	TextfilePath string `yaml:"textfile_path,omitempty"`
}

// UIConfig contains display preferences
type UIConfig struct {
	// TUI shows a live progress view instead of line by line narration
	TUI bool `yaml:"tui,omitempty"`
}

// LoggingConfig contains log related settings
type LoggingConfig struct {
	Level    string `yaml:"level,omitempty" validate:"oneof=trace debug info warn error"`
	FilePath string `yaml:"file_path,omitempty"`
}

// LoadFrom builds a configuration struct from multiple sources using these steps:
// 1. Create a base config with default values
// 2. If no config file exists on disk, save the default config to that location
// 3. Decode the config file over the defaults.  Keys the file does not mention keep their default, keys it sets
//    replace it, zero values included.
// 4. Fill in 'dynamic' properties the file left empty, those determined at runtime such as the OS specific log
//    and store locations
// 5. Apply environment variable overrides
//
// An empty configPath resolves to LISTFILL_CONFIG_PATH or the OS config directory.
func LoadFrom(configPath string) (*Config, error) {
	cfg := createBaseDefaultConfig()

	if configPath == "" {
		var err error
		if configPath, err = getConfigPath(); err != nil {
			return nil, fmt.Errorf("unable to determine config file path: %w", err)
		}
	}

	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		// A run can still go ahead on defaults if the default file cannot be written
		_ = save(cfg, configPath)
	}

	if err := loadFromDisk(configPath, cfg); err != nil {
		return nil, err
	}

	// Without WithOverride only the fields still empty are filled
	if err := mergo.Merge(cfg, dynamicDefaults()); err != nil {
		return nil, fmt.Errorf("error applying dynamic defaults: %w", err)
	}

	if err := applyEnvVarOverrides(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// dynamicDefaults returns the defaults that depend on the machine the run happens on
func dynamicDefaults() *Config {
	stateDir := defaultStateDir()
	return &Config{
		Logging: LoggingConfig{FilePath: filepath.Join(stateDir, "logs", appName+".log")},
		Store:   StoreConfig{Path: filepath.Join(stateDir, appName+".db")},
	}
}

// loadFromDisk decodes the YAML config file at configPath onto cfg.  Fields the file does not set are left alone.
func loadFromDisk(configPath string, cfg *Config) error {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("unable to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("unable to parse config file: %w", err)
	}

	return nil
}

func save(cfg *Config, configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	// The file may end up holding session credentials
	return os.WriteFile(configPath, data, 0600)
}

// UpdateConfig reads the config file at configPath (or the default path), applies the update function, and saves it back
func UpdateConfig(configPath string, updateFn func(*Config)) error {
	if configPath == "" {
		var err error
		if configPath, err = getConfigPath(); err != nil {
			return fmt.Errorf("unable to determine config file path: %w", err)
		}
	}

	// The file is rewritten in full, so it is read over the defaults for the keys it does not mention
	cfg := createBaseDefaultConfig()
	if err := loadFromDisk(configPath, cfg); err != nil {
		return fmt.Errorf("error loading config file from disk: %w", err)
	}

	updateFn(cfg)

	return save(cfg, configPath)
}

// getConfigPath returns the path to the config file.  Uses the environment variable override if present, else tries
// to use OS config location defaults.
func getConfigPath() (string, error) {
	if configPath := os.Getenv(envConfigPath); configPath != "" {
		return configPath, nil
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(configDir, appName, "config.yaml"), nil
}

// createBaseDefaultConfig creates a config with all static default values
func createBaseDefaultConfig() *Config {
	return &Config{
		List: ListConfig{
			Status:   2,
			Score:    7,
			Episodes: 12,
			Volumes:  1,
			Chapters: 12,
		},
		Random: RandomConfig{
			Delay:       time.Second,
			MaxAttempts: 100,
			MediaTypes:  []string{"anime"},
		},
		Catalog: CatalogConfig{
			Provider:   "jikan",
			Delay:      400 * time.Millisecond,
			FetchDelay: 350 * time.Millisecond,
			FeedDelay:  200 * time.Millisecond,
			PageDelay:  2 * time.Second,
			StartPage:  1,
			SafetyCheck: SafetyCheckConfig{
				Limit: 100,
			},
		},
		Endpoints: EndpointsConfig{
			MAL:     "https://myanimelist.net",
			Jikan:   "https://api.jikan.moe/v4",
			AniList: "https://graphql.anilist.co",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// defaultStateDir returns the directory logs and the summary store live in.  Tries to use expected OS location defaults.
func defaultStateDir() string {
	homedir, err := os.UserHomeDir()
	if err != nil {
		// Fall back to the current directory if the home directory cannot be determined
		return "."
	}

	var basePath string
	switch runtime.GOOS {
	case "windows":
		// Windows:  %LOCALAPPDATA%\listfill
		if appData := os.Getenv("LOCALAPPDATA"); appData != "" {
			basePath = filepath.Join(appData, appName)
		} else {
			basePath = filepath.Join(homedir, "AppData", "Local", appName)
		}
	case "darwin":
		// macOS:  ~/Library/Application Support/listfill
		basePath = filepath.Join(homedir, "Library", "Application Support", appName)
	default:
		// Linux/BSD:  XDG_STATE_HOME
		if xdgState := os.Getenv("XDG_STATE_HOME"); xdgState != "" {
			basePath = filepath.Join(xdgState, appName)
		} else {
			basePath = filepath.Join(homedir, ".local", "state", appName)
		}
	}

	if err := os.MkdirAll(basePath, 0700); err != nil {
		return "."
	}
	return basePath
}
