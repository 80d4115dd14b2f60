package source

import (
	"context"
	"fmt"
	"time"

	"github.com/PizzaHomicide/listfill/internal/domain"
	"github.com/PizzaHomicide/listfill/internal/log"
	"github.com/PizzaHomicide/listfill/internal/pacing"
)

// CatalogOptions configures a Catalog source
type CatalogOptions struct {
	StartPage int
	// TotalPages bounds the run to pages [StartPage, StartPage+TotalPages-1].  0 means unlimited.
	TotalPages int
	Excluded   domain.PageRanges

	// SafetyCheck stops unlimited runs after SafetyLimit processed pages
	SafetyCheck bool
	SafetyLimit int

	// FetchDelay is awaited before every catalog request
	FetchDelay time.Duration
	// FeedDelay is awaited between the anime and manga feeds of a page
	FeedDelay time.Duration
	// PageDelay is awaited before every page after the first
	PageDelay time.Duration

	Sleep pacing.Sleeper
}

// feedOrder is the order feeds are fetched and their targets submitted in
var feedOrder = []domain.MediaType{domain.MediaAnime, domain.MediaManga}

// Catalog pages through a ranking catalog, producing one batch per page holding the anime then the manga of that page.
// The anime and manga feeds advance on the same page cursor but run out independently.
type Catalog struct {
	catalog domain.Catalog
	opts    CatalogOptions

	page           int
	pagesProcessed int
	exhausted      map[domain.MediaType]bool
	done           error
}

var _ domain.TargetSource = (*Catalog)(nil)

func NewCatalog(catalog domain.Catalog, opts CatalogOptions) (*Catalog, error) {
	if opts.StartPage < 1 {
		return nil, fmt.Errorf("start page must be at least 1, got %d", opts.StartPage)
	}
	if opts.TotalPages < 0 {
		return nil, fmt.Errorf("total pages cannot be negative, got %d", opts.TotalPages)
	}
	if opts.SafetyCheck && opts.SafetyLimit < 1 {
		return nil, fmt.Errorf("safety limit must be at least 1, got %d", opts.SafetyLimit)
	}
	if opts.Sleep == nil {
		opts.Sleep = pacing.Wait
	}

	return &Catalog{
		catalog:   catalog,
		opts:      opts,
		page:      opts.StartPage,
		exhausted: make(map[domain.MediaType]bool),
	}, nil
}

func (c *Catalog) Name() string { return "catalog:" + c.catalog.Name() }

// PagesProcessed is the number of pages fetched so far, not counting excluded pages
func (c *Catalog) PagesProcessed() int { return c.pagesProcessed }

func (c *Catalog) Next(ctx context.Context) (*domain.Batch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.done != nil {
		return nil, c.done
	}

	var skipped []int
	for {
		if reason := c.stopReason(); reason != "" {
			log.Info("Catalog run finished", "reason", reason, "pages_processed", c.pagesProcessed, "skipped", skipped)
			c.done = fmt.Errorf("%w: %s", domain.ErrSourceExhausted, reason)
			return nil, c.done
		}
		if !c.opts.Excluded.Contains(c.page) {
			break
		}
		log.Debug("Skipping excluded page", "page", c.page)
		skipped = append(skipped, c.page)
		c.page++
	}

	if c.pagesProcessed > 0 {
		if err := c.opts.Sleep(ctx, c.opts.PageDelay); err != nil {
			return nil, err
		}
	}

	batch := &domain.Batch{
		Page:    c.page,
		Found:   make(map[domain.MediaType]int),
		Skipped: skipped,
	}

	for i, mediaType := range feedOrder {
		if i > 0 {
			if err := c.opts.Sleep(ctx, c.opts.FeedDelay); err != nil {
				return nil, err
			}
		}

		fetch, items, err := c.fetchFeed(ctx, mediaType)
		if err != nil {
			return nil, err
		}
		batch.Feeds = append(batch.Feeds, fetch)
		if !fetch.Fetched || fetch.Err != nil {
			continue
		}

		batch.Found[mediaType] = len(items)
		for _, item := range items {
			batch.Targets = append(batch.Targets, domain.Target{
				Type:  mediaType,
				ID:    item.ID,
				Page:  c.page,
				Title: item.Title,
			})
		}
	}

	c.page++
	c.pagesProcessed++
	return batch, nil
}

// fetchFeed asks one feed for the current page.  Upstream failures are reported in the FeedFetch and yield no items;
// only a done context is returned as an error.
func (c *Catalog) fetchFeed(ctx context.Context, mediaType domain.MediaType) (domain.FeedFetch, []domain.CatalogItem, error) {
	fetch := domain.FeedFetch{Type: mediaType}
	if c.exhausted[mediaType] {
		return fetch, nil, nil
	}

	if err := c.opts.Sleep(ctx, c.opts.FetchDelay); err != nil {
		return fetch, nil, err
	}

	fetch.Fetched = true
	page, err := c.catalog.TopPage(ctx, mediaType, c.page)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fetch, nil, ctxErr
	}
	if err != nil {
		log.Warn("Catalog fetch failed", "catalog", c.catalog.Name(), "type", mediaType, "page", c.page, "error", err)
		fetch.Err = err
		return fetch, nil, nil
	}

	fetch.Count = len(page.Items)
	if !page.HasNextPage {
		c.exhausted[mediaType] = true
		fetch.Exhausted = true
		log.Info("Catalog feed has no more pages", "catalog", c.catalog.Name(), "type", mediaType, "page", c.page)
	}
	return fetch, page.Items, nil
}

// stopReason returns why the run must stop before fetching the current page, or "" to carry on
func (c *Catalog) stopReason() string {
	allExhausted := true
	for _, mediaType := range feedOrder {
		if !c.exhausted[mediaType] {
			allExhausted = false
			break
		}
	}

	switch {
	case allExhausted:
		return "no more anime/manga pages available"
	case c.opts.TotalPages > 0 && c.page > c.opts.StartPage+c.opts.TotalPages-1:
		return fmt.Sprintf("page limit reached (%d pages from page %d)", c.opts.TotalPages, c.opts.StartPage)
	case c.opts.SafetyCheck && c.opts.TotalPages == 0 && c.pagesProcessed >= c.opts.SafetyLimit:
		return fmt.Sprintf("safety limit of %d pages reached", c.opts.SafetyLimit)
	default:
		return ""
	}
}
