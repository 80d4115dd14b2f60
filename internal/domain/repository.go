package domain

import "context"

// TargetSource produces the targets of a run, one batch at a time
type TargetSource interface {
	// Name identifies the strategy in logs and summaries
	Name() string

	// Next returns the next batch of targets.  Returns ErrSourceExhausted once there is nothing left.
	// Upstream failures are absorbed by the source; only context errors are returned otherwise.
	Next(ctx context.Context) (*Batch, error)
}

// ListSubmitter adds entries to the user's list on the tracking site
type ListSubmitter interface {
	// CheckCredentials fails with ErrMissingToken when no submission could be authorised
	CheckCredentials() error

	// Submit sends a single add request for the target and classifies the answer.  It never retries.
	Submit(ctx context.Context, target Target) SubmitResult
}

// CatalogItem is one entry of a ranking page
type CatalogItem struct {
	ID    int
	Title string
}

// CatalogPage is one page of a ranking feed
type CatalogPage struct {
	Items       []CatalogItem
	HasNextPage bool
}

// Catalog is a public ranking API that ids can be paged out of
type Catalog interface {
	Name() string

	// TopPage fetches one page of the ranking for the media type.  Pages start at 1.
	TopPage(ctx context.Context, mediaType MediaType, page int) (*CatalogPage, error)
}

// SummaryStore keeps the summary of the most recent run
type SummaryStore interface {
	SaveSummary(ctx context.Context, summary Summary) error

	// LastSummary returns nil without an error when nothing has been saved yet
	LastSummary(ctx context.Context) (*Summary, error)
}
