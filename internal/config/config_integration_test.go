package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PizzaHomicide/listfill/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestConfig(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()
	tmpConfigPath := filepath.Join(tmpDir, "config.yaml")
	t.Setenv(envConfigPath, tmpConfigPath)
	// Keep the dynamic log and store locations inside the test directory
	t.Setenv("XDG_STATE_HOME", filepath.Join(tmpDir, "state"))

	cleanupEnvVars(t)

	return tmpConfigPath
}

// TestConfigIntegration tests the config package with actual file operations
// This test uses a temporary directory to avoid interfering with real user configs
func TestConfigIntegration(t *testing.T) {
	t.Run("LoadDefaultConfig", func(t *testing.T) {
		tmpConfigPath := setupTestConfig(t)
		config := loadConfig(t)

		assert.Equal(t, 2, config.List.Status)
		assert.Equal(t, 7, config.List.Score)
		assert.Equal(t, time.Second, config.Random.Delay)
		assert.Equal(t, 100, config.Random.MaxAttempts)
		assert.Equal(t, []string{"anime"}, config.Random.MediaTypes)
		assert.Equal(t, "jikan", config.Catalog.Provider)
		assert.Equal(t, 400*time.Millisecond, config.Catalog.Delay)
		assert.Equal(t, 350*time.Millisecond, config.Catalog.FetchDelay)
		assert.Equal(t, 1, config.Catalog.StartPage)
		assert.Equal(t, 0, config.Catalog.TotalPages)
		assert.False(t, config.Catalog.SafetyCheck.Disabled)
		assert.Equal(t, 100, config.Catalog.SafetyCheck.Limit)
		assert.Equal(t, "info", config.Logging.Level)
		assert.NotEmpty(t, config.Logging.FilePath)
		assert.NotEmpty(t, config.Store.Path)
		assert.NoError(t, Validate(config))

		if _, err := os.Stat(tmpConfigPath); os.IsNotExist(err) {
			t.Errorf("Config file was not created at %s", tmpConfigPath)
		}

		// The 'dynamic' values must not end up in the default file
		savedConfig := &Config{}
		require.NoError(t, loadFromDisk(tmpConfigPath, savedConfig))
		assert.Empty(t, savedConfig.Logging.FilePath)
		assert.Empty(t, savedConfig.Store.Path)
		assert.Equal(t, time.Second, savedConfig.Random.Delay)
	})

	t.Run("SaveAndLoadConfig", func(t *testing.T) {
		tmpConfigPath := setupTestConfig(t)
		customConfig := &Config{
			Auth: AuthConfig{
				CSRFToken: "token",
				Cookies:   "MALSESSIONID=abc; is_logged_in=1",
			},
			Random: RandomConfig{
				Delay:      250 * time.Millisecond,
				MediaTypes: []string{"anime", "manga"},
			},
			Catalog: CatalogConfig{
				Provider:      "anilist",
				TotalPages:    3,
				ExcludedPages: "2",
				SafetyCheck:   SafetyCheckConfig{Disabled: true},
			},
			Logging: LoggingConfig{
				Level:    "error",
				FilePath: "/var/log/listfill.log",
			},
		}

		saveConfig(t, customConfig, tmpConfigPath)
		loadedConfig := loadConfig(t)

		assert.Equal(t, "token", loadedConfig.Auth.CSRFToken)
		assert.Equal(t, "MALSESSIONID=abc; is_logged_in=1", loadedConfig.Auth.Cookies)
		assert.Equal(t, 250*time.Millisecond, loadedConfig.Random.Delay)
		assert.Equal(t, []string{"anime", "manga"}, loadedConfig.Random.MediaTypes)
		// Values absent from the file keep their defaults
		assert.Equal(t, 100, loadedConfig.Random.MaxAttempts)
		assert.Equal(t, "anilist", loadedConfig.Catalog.Provider)
		assert.Equal(t, 3, loadedConfig.Catalog.TotalPages)
		assert.Equal(t, "2", loadedConfig.Catalog.ExcludedPages)
		assert.True(t, loadedConfig.Catalog.SafetyCheck.Disabled)
		assert.Equal(t, 100, loadedConfig.Catalog.SafetyCheck.Limit)
		assert.Equal(t, "error", loadedConfig.Logging.Level)
		assert.Equal(t, "/var/log/listfill.log", loadedConfig.Logging.FilePath)
	})

	t.Run("InvalidConfig", func(t *testing.T) {
		tmpConfigPath := setupTestConfig(t)
		if err := os.WriteFile(tmpConfigPath, []byte("invalid: yaml: ["), 0600); err != nil {
			t.Fatalf("Failed to write invalid config: %v", err)
		}

		_, err := LoadFrom("")
		assert.Error(t, err)
	})

	t.Run("ZeroValuesInFileOverrideDefaults", func(t *testing.T) {
		tmpConfigPath := setupTestConfig(t)
		yamlConfig := `list:
  score: 0
  episodes: 0
random:
  delay: 0s
catalog:
  delay: 0s
  fetch_delay: 0s
  safety_check:
    disabled: false
`
		require.NoError(t, os.WriteFile(tmpConfigPath, []byte(yamlConfig), 0600))

		config := loadConfig(t)
		assert.Equal(t, 0, config.List.Score)
		assert.Equal(t, 0, config.List.Episodes)
		assert.Equal(t, time.Duration(0), config.Random.Delay)
		assert.Equal(t, time.Duration(0), config.Catalog.Delay)
		assert.Equal(t, time.Duration(0), config.Catalog.FetchDelay)
		// Keys the file leaves out keep their defaults
		assert.Equal(t, 2, config.List.Status)
		assert.Equal(t, 12, config.List.Chapters)
		assert.Equal(t, 200*time.Millisecond, config.Catalog.FeedDelay)
		assert.Equal(t, 100, config.Random.MaxAttempts)
		assert.NotEmpty(t, config.Logging.FilePath)
		assert.NotEmpty(t, config.Store.Path)
		assert.NoError(t, Validate(config))
	})

	t.Run("LoadFromExplicitPath", func(t *testing.T) {
		setupTestConfig(t)
		explicitPath := filepath.Join(t.TempDir(), "other.yaml")
		saveConfig(t, &Config{Catalog: CatalogConfig{StartPage: 7}}, explicitPath)

		config, err := LoadFrom(explicitPath)
		require.NoError(t, err)
		assert.Equal(t, 7, config.Catalog.StartPage)
	})

	t.Run("EnvironmentVariableOverrides", func(t *testing.T) {
		setupTestConfig(t)

		t.Setenv("LISTFILL_CONFIG_AUTH_CSRF_TOKEN", "env-token")
		t.Setenv("LISTFILL_CONFIG_AUTH_COOKIES", "MALSESSIONID=env")
		t.Setenv("LISTFILL_CONFIG_LIST_SCORE", "9")
		t.Setenv("LISTFILL_CONFIG_RANDOM_DELAY", "1500ms")
		t.Setenv("LISTFILL_CONFIG_RANDOM_MEDIA_TYPES", "manga, anime")
		t.Setenv("LISTFILL_CONFIG_CATALOG_PROVIDER", "anilist")
		t.Setenv("LISTFILL_CONFIG_CATALOG_TOTAL_PAGES", "4")
		t.Setenv("LISTFILL_CONFIG_CATALOG_EXCLUDED_PAGES", "2-3")
		t.Setenv("LISTFILL_CONFIG_LOGGING_LEVEL", "warn")

		config := loadConfig(t)

		assert.Equal(t, "env-token", config.Auth.CSRFToken)
		assert.Equal(t, "MALSESSIONID=env", config.Auth.Cookies)
		assert.Equal(t, 9, config.List.Score)
		assert.Equal(t, 1500*time.Millisecond, config.Random.Delay)
		assert.Equal(t, []string{"manga", "anime"}, config.Random.MediaTypes)
		assert.Equal(t, "anilist", config.Catalog.Provider)
		assert.Equal(t, 4, config.Catalog.TotalPages)
		assert.Equal(t, "2-3", config.Catalog.ExcludedPages)
		assert.Equal(t, "warn", config.Logging.Level)

		// Env var overrides are never persisted to disk
		require.NoError(t, os.Unsetenv("LISTFILL_CONFIG_LOGGING_LEVEL"))
		config = loadConfig(t)
		assert.Equal(t, "info", config.Logging.Level)
	})

	t.Run("InvalidEnvironmentVariable", func(t *testing.T) {
		setupTestConfig(t)
		t.Setenv("LISTFILL_CONFIG_RANDOM_MAX_ATTEMPTS", "lots")

		_, err := LoadFrom("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "LISTFILL_CONFIG_RANDOM_MAX_ATTEMPTS")
	})

	t.Run("ModifyConfig", func(t *testing.T) {
		setupTestConfig(t)
		config := loadConfig(t)
		assert.Empty(t, config.Auth.CSRFToken)

		err := UpdateConfig("", func(config *Config) {
			config.Auth.CSRFToken = "saved-token"
		})
		require.NoError(t, err)

		config = loadConfig(t)
		assert.Equal(t, "saved-token", config.Auth.CSRFToken)
	})

	t.Run("ModifyConfigKeepsZeroValues", func(t *testing.T) {
		tmpConfigPath := setupTestConfig(t)
		require.NoError(t, os.WriteFile(tmpConfigPath, []byte("list:\n  score: 0\ncatalog:\n  delay: 0s\n"), 0600))

		require.NoError(t, UpdateConfig("", func(config *Config) {
			config.Auth.Cookies = "MALSESSIONID=abc"
		}))

		config := loadConfig(t)
		assert.Equal(t, "MALSESSIONID=abc", config.Auth.Cookies)
		assert.Equal(t, 0, config.List.Score)
		assert.Equal(t, time.Duration(0), config.Catalog.Delay)
		assert.Equal(t, time.Second, config.Random.Delay)
	})
}

func TestValidate(t *testing.T) {
	setupTestConfig(t)

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{name: "bad status", mutate: func(c *Config) { c.List.Status = 5 }, wantErr: "List.Status"},
		{name: "score too high", mutate: func(c *Config) { c.List.Score = 11 }, wantErr: "List.Score"},
		{name: "no attempts", mutate: func(c *Config) { c.Random.MaxAttempts = 0 }, wantErr: "Random.MaxAttempts"},
		{name: "unknown media type", mutate: func(c *Config) { c.Random.MediaTypes = []string{"novel"} }, wantErr: "Random.MediaTypes"},
		{name: "unknown provider", mutate: func(c *Config) { c.Catalog.Provider = "kitsu" }, wantErr: "Catalog.Provider"},
		{name: "bad page list", mutate: func(c *Config) { c.Catalog.ExcludedPages = "5-3" }, wantErr: "Catalog.ExcludedPages"},
		{name: "negative delay", mutate: func(c *Config) { c.Catalog.Delay = -time.Second }, wantErr: "Catalog.Delay"},
		{name: "bad endpoint", mutate: func(c *Config) { c.Endpoints.MAL = "not a url" }, wantErr: "Endpoints.MAL"},
		{name: "bad log level", mutate: func(c *Config) { c.Logging.Level = "loud" }, wantErr: "Logging.Level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := loadConfig(t)
			tt.mutate(config)

			err := Validate(config)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDomainConversions(t *testing.T) {
	config := createBaseDefaultConfig()
	config.Random.MediaTypes = []string{"manga", "anime"}
	config.Catalog.ExcludedPages = "2,4-5"

	assert.Equal(t, domain.DefaultListDefaults(), config.ListDefaults())

	types, err := config.RandomMediaTypes()
	require.NoError(t, err)
	assert.Equal(t, []domain.MediaType{domain.MediaManga, domain.MediaAnime}, types)

	pages, err := config.ExcludedPages()
	require.NoError(t, err)
	assert.True(t, pages.Contains(2))
	assert.True(t, pages.Contains(5))
	assert.False(t, pages.Contains(3))
}

func TestSupportedEnvVarsAreDocumented(t *testing.T) {
	seen := make(map[string]bool)
	for _, v := range SupportedEnvVars() {
		assert.True(t, strings.HasPrefix(v.Name, "LISTFILL_CONFIG"), v.Name)
		assert.NotEmpty(t, v.Desc, v.Name)
		assert.False(t, seen[v.Name], "duplicate env var %s", v.Name)
		seen[v.Name] = true
	}
}

func saveConfig(t *testing.T, config *Config, configPath string) {
	t.Helper()
	if err := save(config, configPath); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}
}

func loadConfig(t *testing.T) *Config {
	t.Helper()
	config, err := LoadFrom("")
	if err != nil {
		t.Fatalf("Loading of config failed: %v", err)
	}
	return config
}

// Removes any overrides other than the config path so tests do not pick up the developer's environment
func cleanupEnvVars(t *testing.T) {
	t.Helper()

	for _, envVar := range os.Environ() {
		key := strings.Split(envVar, "=")[0]
		if strings.HasPrefix(key, "LISTFILL_CONFIG") && key != envConfigPath {
			t.Setenv(key, "")
			require.NoError(t, os.Unsetenv(key))
		}
	}
}
