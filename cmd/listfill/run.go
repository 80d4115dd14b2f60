package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/PizzaHomicide/listfill/internal/config"
	"github.com/PizzaHomicide/listfill/internal/domain"
	"github.com/PizzaHomicide/listfill/internal/log"
	"github.com/PizzaHomicide/listfill/internal/metrics"
	"github.com/PizzaHomicide/listfill/internal/repository/anilist"
	"github.com/PizzaHomicide/listfill/internal/repository/jikan"
	"github.com/PizzaHomicide/listfill/internal/repository/mal"
	"github.com/PizzaHomicide/listfill/internal/service"
	"github.com/PizzaHomicide/listfill/internal/source"
	"github.com/PizzaHomicide/listfill/internal/store/sqlite"
	"github.com/PizzaHomicide/listfill/internal/ui/console"
	"github.com/PizzaHomicide/listfill/internal/ui/tui"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var randomCmd = &cobra.Command{
	Use:   "random",
	Short: "Submit random ids",
	Long: `Submit a fixed number of ids drawn at random from 1 to 99999.  Most random ids do not exist and
are reported as failed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, closeLog, err := setup(cmd, func(fs *pflag.FlagSet, cfg *config.Config) error {
			return applyDelayFlag(fs, &cfg.Random.Delay)
		})
		if err != nil {
			return err
		}
		defer closeLog()

		mediaTypes, err := cfg.RandomMediaTypes()
		if err != nil {
			return err
		}
		src, err := source.NewRandom(source.RandomOptions{
			MaxAttempts: cfg.Random.MaxAttempts,
			MediaTypes:  mediaTypes,
		})
		if err != nil {
			return err
		}

		return runBatch(cfg, src, cfg.Random.Delay, []console.Setting{
			{Label: "Media types", Value: strings.Join(cfg.Random.MediaTypes, ", ")},
			{Label: "Submit delay", Value: cfg.Random.Delay.String()},
		})
	},
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Submit the entries of a ranking catalog, page by page",
	Long: `Page through the top anime and manga of a ranking catalog and submit every entry found.
Each page fetches the anime ranking then the manga ranking.  A ranking that has no further pages is
not fetched again, and the run ends once both have run out.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, closeLog, err := setup(cmd, func(fs *pflag.FlagSet, cfg *config.Config) error {
			return applyDelayFlag(fs, &cfg.Catalog.Delay)
		})
		if err != nil {
			return err
		}
		defer closeLog()

		excluded, err := cfg.ExcludedPages()
		if err != nil {
			return err
		}

		var catalog domain.Catalog
		switch cfg.Catalog.Provider {
		case "anilist":
			catalog = anilist.NewCatalog(anilist.NewClient(cfg.Endpoints.AniList))
		default:
			catalog = jikan.NewClient(cfg.Endpoints.Jikan)
		}

		src, err := source.NewCatalog(catalog, source.CatalogOptions{
			StartPage:   cfg.Catalog.StartPage,
			TotalPages:  cfg.Catalog.TotalPages,
			Excluded:    excluded,
			SafetyCheck: !cfg.Catalog.SafetyCheck.Disabled,
			SafetyLimit: cfg.Catalog.SafetyCheck.Limit,
			FetchDelay:  cfg.Catalog.FetchDelay,
			FeedDelay:   cfg.Catalog.FeedDelay,
			PageDelay:   cfg.Catalog.PageDelay,
		})
		if err != nil {
			return err
		}

		return runBatch(cfg, src, cfg.Catalog.Delay, catalogSettings(cfg, excluded))
	},
}

func init() {
	registerRandomFlags(randomCmd.Flags())
	registerCatalogFlags(catalogCmd.Flags())
}

func catalogSettings(cfg *config.Config, excluded domain.PageRanges) []console.Setting {
	totalPages := "Unlimited (all)"
	if cfg.Catalog.TotalPages > 0 {
		totalPages = strconv.Itoa(cfg.Catalog.TotalPages)
	}
	excludedPages := "(none)"
	if len(excluded) > 0 {
		excludedPages = excluded.String()
	}
	safety := "Disabled"
	if !cfg.Catalog.SafetyCheck.Disabled {
		safety = fmt.Sprintf("Enabled (limit: %d pages)", cfg.Catalog.SafetyCheck.Limit)
	}

	return []console.Setting{
		{Label: "Catalog", Value: cfg.Catalog.Provider},
		{Label: "Starting page", Value: strconv.Itoa(cfg.Catalog.StartPage)},
		{Label: "Total pages", Value: totalPages},
		{Label: "Excluded pages", Value: excludedPages},
		{Label: "Safety check", Value: safety},
		{Label: "Catalog delay", Value: cfg.Catalog.FetchDelay.String()},
		{Label: "Submit delay", Value: cfg.Catalog.Delay.String()},
	}
}

// runBatch wires the submitter, store and reporting around src and runs it until it ends or the process is
// interrupted
func runBatch(cfg *config.Config, src domain.TargetSource, delay time.Duration, settings []console.Setting) error {
	submitter, err := mal.NewClient(cfg.Endpoints.MAL, mal.Credentials{
		CSRFToken: cfg.Auth.CSRFToken,
		Cookies:   cfg.Auth.Cookies,
	}, cfg.ListDefaults())
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	opts := service.Options{Delay: delay}
	if !cfg.Store.Disabled {
		store, err := sqlite.Open(cfg.Store.Path)
		if err != nil {
			// The run does not depend on the store
			log.Warn("Run summary store unavailable", "path", cfg.Store.Path, "error", err)
		} else {
			defer func() { _ = store.Close() }()
			opts.Store = store
		}
	}
	recorder := metrics.NewRecorder(cfg.Metrics.TextfilePath)

	if cfg.UI.TUI {
		return tui.Run(cancel, func(observer service.Observer) error {
			opts.Observers = []service.Observer{observer, recorder}
			_, err := service.NewBatchService(submitter, src, opts).Run(ctx)
			return err
		})
	}

	opts.Observers = []service.Observer{console.NewReporter(os.Stdout, settings...), recorder}
	_, err = service.NewBatchService(submitter, src, opts).Run(ctx)
	return err
}
