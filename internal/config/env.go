package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const envConfigPath = "LISTFILL_CONFIG_PATH"

// EnvVar documents one supported environment variable override
type EnvVar struct {
	Name  string
	Desc  string
	apply func(*Config, string) error
}

var supportedEnvVars = []EnvVar{
	{
		// Only here for documentation purposes.  It is handled before the config is loaded.
		Name:  envConfigPath,
		Desc:  "Sets the path to the config file.  Default: OS-specific config directory",
		apply: func(c *Config, s string) error { return nil },
	},
	{
		Name:  "LISTFILL_CONFIG_AUTH_CSRF_TOKEN",
		Desc:  "Sets the CSRF token of the logged in MyAnimeList session.  Default: None",
		apply: func(c *Config, s string) error { c.Auth.CSRFToken = s; return nil },
	},
	{
		Name:  "LISTFILL_CONFIG_AUTH_COOKIES",
		Desc:  "Sets the Cookie header of the logged in MyAnimeList session.  Default: None",
		apply: func(c *Config, s string) error { c.Auth.Cookies = s; return nil },
	},
	{
		Name:  "LISTFILL_CONFIG_LIST_STATUS",
		Desc:  "Sets the list status of added entries.  One of 1, 2, 3, 4, 6.  Default: 2 (completed)",
		apply: intVar(func(c *Config) *int { return &c.List.Status }),
	},
	{
		Name:  "LISTFILL_CONFIG_LIST_SCORE",
		Desc:  "Sets the score of added entries.  Default: 7",
		apply: intVar(func(c *Config) *int { return &c.List.Score }),
	},
	{
		Name:  "LISTFILL_CONFIG_RANDOM_DELAY",
		Desc:  "Sets the delay after each submission of a random run.  Default: 1s",
		apply: durationVar(func(c *Config) *time.Duration { return &c.Random.Delay }),
	},
	{
		Name:  "LISTFILL_CONFIG_RANDOM_MAX_ATTEMPTS",
		Desc:  "Sets the number of random ids submitted per run.  Default: 100",
		apply: intVar(func(c *Config) *int { return &c.Random.MaxAttempts }),
	},
	{
		Name: "LISTFILL_CONFIG_RANDOM_MEDIA_TYPES",
		Desc: "Sets the comma separated media types a random run cycles through.  Default: anime",
		apply: func(c *Config, s string) error {
			c.Random.MediaTypes = splitList(s)
			return nil
		},
	},
	{
		Name:  "LISTFILL_CONFIG_CATALOG_PROVIDER",
		Desc:  "Sets the ranking catalog.  One of: jikan, anilist.  Default: jikan",
		apply: func(c *Config, s string) error { c.Catalog.Provider = s; return nil },
	},
	{
		Name:  "LISTFILL_CONFIG_CATALOG_DELAY",
		Desc:  "Sets the delay after each submission of a catalog run.  Default: 400ms",
		apply: durationVar(func(c *Config) *time.Duration { return &c.Catalog.Delay }),
	},
	{
		Name:  "LISTFILL_CONFIG_CATALOG_FETCH_DELAY",
		Desc:  "Sets the delay before each catalog request.  Default: 350ms",
		apply: durationVar(func(c *Config) *time.Duration { return &c.Catalog.FetchDelay }),
	},
	{
		Name:  "LISTFILL_CONFIG_CATALOG_START_PAGE",
		Desc:  "Sets the first catalog page.  Default: 1",
		apply: intVar(func(c *Config) *int { return &c.Catalog.StartPage }),
	},
	{
		Name:  "LISTFILL_CONFIG_CATALOG_TOTAL_PAGES",
		Desc:  "Sets the number of catalog pages, 0 for unlimited.  Default: 0",
		apply: intVar(func(c *Config) *int { return &c.Catalog.TotalPages }),
	},
	{
		Name:  "LISTFILL_CONFIG_CATALOG_EXCLUDED_PAGES",
		Desc:  "Sets the catalog pages to skip, e.g. 3-5,8-10,12.  Default: None",
		apply: func(c *Config, s string) error { c.Catalog.ExcludedPages = s; return nil },
	},
	{
		Name:  "LISTFILL_CONFIG_STORE_PATH",
		Desc:  "Sets the path of the run summary database.  Default: OS-specific",
		apply: func(c *Config, s string) error { c.Store.Path = s; return nil },
	},
	{
		Name:  "LISTFILL_CONFIG_METRICS_TEXTFILE_PATH",
		Desc:  "Sets the file run metrics are written to.  Default: None",
		apply: func(c *Config, s string) error { c.Metrics.TextfilePath = s; return nil },
	},
	{
		Name:  "LISTFILL_CONFIG_ENDPOINTS_MAL",
		Desc:  "Sets the MyAnimeList base URL.  Default: https://myanimelist.net",
		apply: func(c *Config, s string) error { c.Endpoints.MAL = s; return nil },
	},
	{
		Name:  "LISTFILL_CONFIG_LOGGING_LEVEL",
		Desc:  "Sets the logging level.  One of: trace, debug, info, warn, error.  Default: info",
		apply: func(c *Config, s string) error { c.Logging.Level = s; return nil },
	},
	{
		Name:  "LISTFILL_CONFIG_LOGGING_FILE_PATH",
		Desc:  "Sets the logging file path.  Default: OS-specific",
		apply: func(c *Config, s string) error { c.Logging.FilePath = s; return nil },
	},
}

// SupportedEnvVars lists the environment variables that override the config file
func SupportedEnvVars() []EnvVar {
	return supportedEnvVars
}

func applyEnvVarOverrides(c *Config) error {
	for _, envVar := range supportedEnvVars {
		value := os.Getenv(envVar.Name)
		if value == "" {
			continue
		}
		if err := envVar.apply(c, value); err != nil {
			return fmt.Errorf("invalid value for %s: %w", envVar.Name, err)
		}
	}
	return nil
}

func intVar(field func(*Config) *int) func(*Config, string) error {
	return func(c *Config, s string) error {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return err
		}
		*field(c) = n
		return nil
	}
}

func durationVar(field func(*Config) *time.Duration) func(*Config, string) error {
	return func(c *Config, s string) error {
		d, err := time.ParseDuration(strings.TrimSpace(s))
		if err != nil {
			return err
		}
		*field(c) = d
		return nil
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
