package main

import (
	"fmt"
	"time"

	"github.com/PizzaHomicide/listfill/internal/config"
	"github.com/spf13/pflag"
)

// flagBinding ties a command line flag to the config value it overrides.  Flags only override the config when they
// were set explicitly.
type flagBinding struct {
	name  string
	apply func(fs *pflag.FlagSet, cfg *config.Config) error
}

var flagBindings = []flagBinding{
	// Global
	stringFlag("csrf-token", func(c *config.Config) *string { return &c.Auth.CSRFToken }),
	stringFlag("cookies", func(c *config.Config) *string { return &c.Auth.Cookies }),
	stringFlag("log-level", func(c *config.Config) *string { return &c.Logging.Level }),
	stringFlag("log-file", func(c *config.Config) *string { return &c.Logging.FilePath }),
	stringFlag("metrics-file", func(c *config.Config) *string { return &c.Metrics.TextfilePath }),
	stringFlag("store", func(c *config.Config) *string { return &c.Store.Path }),
	boolFlag("no-store", func(c *config.Config) *bool { return &c.Store.Disabled }),
	boolFlag("tui", func(c *config.Config) *bool { return &c.UI.TUI }),

	// random
	intFlag("max-attempts", func(c *config.Config) *int { return &c.Random.MaxAttempts }),
	{"media-types", func(fs *pflag.FlagSet, cfg *config.Config) error {
		v, err := fs.GetStringSlice("media-types")
		if err != nil {
			return err
		}
		cfg.Random.MediaTypes = v
		return nil
	}},

	// catalog
	stringFlag("provider", func(c *config.Config) *string { return &c.Catalog.Provider }),
	intFlag("start-page", func(c *config.Config) *int { return &c.Catalog.StartPage }),
	intFlag("total-pages", func(c *config.Config) *int { return &c.Catalog.TotalPages }),
	stringFlag("exclude", func(c *config.Config) *string { return &c.Catalog.ExcludedPages }),
	boolFlag("no-safety-check", func(c *config.Config) *bool { return &c.Catalog.SafetyCheck.Disabled }),
	intFlag("safety-limit", func(c *config.Config) *int { return &c.Catalog.SafetyCheck.Limit }),
	durationFlag("fetch-delay", func(c *config.Config) *time.Duration { return &c.Catalog.FetchDelay }),
	durationFlag("feed-delay", func(c *config.Config) *time.Duration { return &c.Catalog.FeedDelay }),
	durationFlag("page-delay", func(c *config.Config) *time.Duration { return &c.Catalog.PageDelay }),
}

func registerGlobalFlags(fs *pflag.FlagSet) {
	fs.String("csrf-token", "", "CSRF token of the logged in session")
	fs.String("cookies", "", `Cookie header of the logged in session, e.g. "MALSESSIONID=...; is_logged_in=1"`)
	fs.String("log-level", "", "log level: trace, debug, info, warn, error")
	fs.String("log-file", "", "log file path")
	fs.String("metrics-file", "", "write run metrics in Prometheus text format to this file")
	fs.String("store", "", "path of the run summary database")
	fs.Bool("no-store", false, "do not save the run summary")
	fs.Bool("tui", false, "show a live progress view instead of line by line output")
}

func registerRandomFlags(fs *pflag.FlagSet) {
	fs.Int("max-attempts", 0, "number of random ids to submit")
	fs.StringSlice("media-types", nil, "media types to cycle through: anime, manga")
	fs.Duration("delay", 0, "delay after each submission")
}

func registerCatalogFlags(fs *pflag.FlagSet) {
	fs.String("provider", "", "ranking catalog: jikan, anilist")
	fs.Int("start-page", 0, "first catalog page")
	fs.Int("total-pages", 0, "number of catalog pages, 0 for unlimited")
	fs.String("exclude", "", "catalog pages to skip, e.g. 3-5,8-10,12")
	fs.Bool("no-safety-check", false, "do not stop unlimited runs after the safety limit")
	fs.Int("safety-limit", 0, "pages an unlimited run may process")
	fs.Duration("delay", 0, "delay after each submission")
	fs.Duration("fetch-delay", 0, "delay before each catalog request")
	fs.Duration("feed-delay", 0, "delay between the anime and manga request of a page")
	fs.Duration("page-delay", 0, "delay before each page after the first")
}

// applyFlags overrides cfg with every flag of fs that was set on the command line
func applyFlags(fs *pflag.FlagSet, cfg *config.Config) error {
	for _, binding := range flagBindings {
		if fs.Lookup(binding.name) == nil || !fs.Changed(binding.name) {
			continue
		}
		if err := binding.apply(fs, cfg); err != nil {
			return fmt.Errorf("invalid value for --%s: %w", binding.name, err)
		}
	}
	return nil
}

// applyDelayFlag applies --delay, which both run commands define but for different config values
func applyDelayFlag(fs *pflag.FlagSet, target *time.Duration) error {
	if fs.Lookup("delay") == nil || !fs.Changed("delay") {
		return nil
	}
	d, err := fs.GetDuration("delay")
	if err != nil {
		return fmt.Errorf("invalid value for --delay: %w", err)
	}
	*target = d
	return nil
}

func stringFlag(name string, field func(*config.Config) *string) flagBinding {
	return flagBinding{name, func(fs *pflag.FlagSet, cfg *config.Config) error {
		return getInto(fs.GetString, name, field(cfg))
	}}
}

func intFlag(name string, field func(*config.Config) *int) flagBinding {
	return flagBinding{name, func(fs *pflag.FlagSet, cfg *config.Config) error {
		return getInto(fs.GetInt, name, field(cfg))
	}}
}

func boolFlag(name string, field func(*config.Config) *bool) flagBinding {
	return flagBinding{name, func(fs *pflag.FlagSet, cfg *config.Config) error {
		return getInto(fs.GetBool, name, field(cfg))
	}}
}

func durationFlag(name string, field func(*config.Config) *time.Duration) flagBinding {
	return flagBinding{name, func(fs *pflag.FlagSet, cfg *config.Config) error {
		return getInto(fs.GetDuration, name, field(cfg))
	}}
}

func getInto[T any](get func(name string) (T, error), name string, dest *T) error {
	v, err := get(name)
	if err != nil {
		return err
	}
	*dest = v
	return nil
}
