package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/PizzaHomicide/listfill/internal/domain"
	"github.com/PizzaHomicide/listfill/internal/pacing"
	"github.com/PizzaHomicide/listfill/internal/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSubmitter struct {
	credentialsErr error
	outcomes       map[int]domain.SubmitResult
	submitted      []domain.Target
	onSubmit       func(target domain.Target)
}

func (f *fakeSubmitter) CheckCredentials() error { return f.credentialsErr }

func (f *fakeSubmitter) Submit(_ context.Context, target domain.Target) domain.SubmitResult {
	f.submitted = append(f.submitted, target)
	if f.onSubmit != nil {
		f.onSubmit(target)
	}
	if result, ok := f.outcomes[target.ID]; ok {
		return result
	}
	return domain.SubmitResult{Outcome: domain.OutcomeSuccess, StatusCode: 200}
}

// sliceSource hands out prepared batches then reports exhaustion
type sliceSource struct {
	batches []*domain.Batch
	calls   int
}

func (s *sliceSource) Name() string { return "slice" }

func (s *sliceSource) Next(ctx context.Context) (*domain.Batch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.calls++
	if len(s.batches) == 0 {
		return nil, fmt.Errorf("%w: nothing left", domain.ErrSourceExhausted)
	}
	batch := s.batches[0]
	s.batches = s.batches[1:]
	return batch, nil
}

type memoryStore struct {
	saved []domain.Summary
	err   error
}

func (m *memoryStore) SaveSummary(_ context.Context, summary domain.Summary) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, summary)
	return nil
}

func (m *memoryStore) LastSummary(context.Context) (*domain.Summary, error) {
	if len(m.saved) == 0 {
		return nil, nil
	}
	return &m.saved[len(m.saved)-1], nil
}

type recordingObserver struct {
	started  []int
	batches  int
	results  []domain.Outcome
	report   *Report
	checkInv []bool
}

func (r *recordingObserver) OnRunStart(_, _ string, total int) { r.started = append(r.started, total) }
func (r *recordingObserver) OnBatch(*domain.Batch)             { r.batches++ }
func (r *recordingObserver) OnResult(_ domain.Target, result domain.SubmitResult, stats *domain.RunStats) {
	r.results = append(r.results, result.Outcome)
	r.checkInv = append(r.checkInv, stats.Consistent())
}
func (r *recordingObserver) OnRunEnd(report Report) { r.report = &report }

func fixedOptions(recorder *pacing.Recorder, observers ...Observer) Options {
	return Options{
		Delay:     time.Second,
		Sleep:     recorder.Sleep,
		Observers: observers,
		Now:       func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) },
		NewRunID:  func() string { return "run-1" },
	}
}

func TestRunRandomAllSuccessful(t *testing.T) {
	src, err := source.NewRandom(source.RandomOptions{MaxAttempts: 3})
	require.NoError(t, err)

	submitter := &fakeSubmitter{}
	recorder := &pacing.Recorder{}
	observer := &recordingObserver{}
	store := &memoryStore{}
	opts := fixedOptions(recorder, observer)
	opts.Store = store

	stats, err := NewBatchService(submitter, src, opts).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Processed)
	assert.Equal(t, 3, stats.Successful)
	assert.Equal(t, 0, stats.Failed)
	assert.Equal(t, 0, stats.AlreadyExists)
	assert.Len(t, submitter.submitted, 3)

	assert.Equal(t, []time.Duration{time.Second, time.Second, time.Second}, recorder.Delays)
	assert.Equal(t, []int{3}, observer.started)

	require.NotNil(t, observer.report)
	assert.Equal(t, "3 attempts made", observer.report.Reason)
	assert.False(t, observer.report.Interrupted)

	require.Len(t, store.saved, 1)
	assert.Equal(t, domain.Summary{
		RunID:      "run-1",
		Strategy:   "random",
		Timestamp:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		TotalItems: 3,
		Successful: 3,
	}, store.saved[0])
}

func TestRunMissingTokenSendsNothing(t *testing.T) {
	src := &sliceSource{batches: []*domain.Batch{{Targets: []domain.Target{{Type: domain.MediaAnime, ID: 1}}}}}
	submitter := &fakeSubmitter{credentialsErr: domain.ErrMissingToken}
	store := &memoryStore{}
	observer := &recordingObserver{}
	opts := fixedOptions(&pacing.Recorder{}, observer)
	opts.Store = store

	stats, err := NewBatchService(submitter, src, opts).Run(context.Background())

	assert.ErrorIs(t, err, domain.ErrMissingToken)
	assert.Nil(t, stats)
	assert.Empty(t, submitter.submitted)
	assert.Zero(t, src.calls, "no catalog request before credentials are checked")
	assert.Empty(t, store.saved)
	assert.Empty(t, observer.started)
}

func TestRunClassifiesOutcomes(t *testing.T) {
	src := &sliceSource{batches: []*domain.Batch{
		{
			Page:  1,
			Found: map[domain.MediaType]int{domain.MediaAnime: 2, domain.MediaManga: 2},
			Targets: []domain.Target{
				{Type: domain.MediaAnime, ID: 1, Page: 1},
				{Type: domain.MediaAnime, ID: 2, Page: 1},
				{Type: domain.MediaManga, ID: 3, Page: 1},
				{Type: domain.MediaManga, ID: 4, Page: 1},
			},
		},
	}}
	submitter := &fakeSubmitter{outcomes: map[int]domain.SubmitResult{
		2: {Outcome: domain.OutcomeAlreadyExists, StatusCode: 409},
		3: {Outcome: domain.OutcomeNotFound, StatusCode: 400},
		4: {Outcome: domain.OutcomeFailed, StatusCode: 500},
	}}
	observer := &recordingObserver{}

	stats, err := NewBatchService(submitter, src, fixedOptions(&pacing.Recorder{}, observer)).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, stats.Processed)
	assert.Equal(t, 1, stats.Successful)
	assert.Equal(t, 1, stats.AlreadyExists)
	assert.Equal(t, 2, stats.Failed)
	assert.Equal(t, 1, stats.NotFound)
	assert.Equal(t, 1, stats.PagesProcessed)
	assert.Equal(t, 2, stats.AnimeTotal)
	assert.Equal(t, 2, stats.MangaTotal)

	assert.Equal(t, 1, observer.batches)
	assert.Equal(t, []bool{true, true, true, true}, observer.checkInv)
	assert.Equal(t, "nothing left", observer.report.Reason)
}

func TestRunCancelledStillReports(t *testing.T) {
	src, err := source.NewRandom(source.RandomOptions{MaxAttempts: 10})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	submitter := &fakeSubmitter{}
	submitter.onSubmit = func(domain.Target) {
		if len(submitter.submitted) == 2 {
			cancel()
		}
	}
	store := &memoryStore{}
	observer := &recordingObserver{}
	opts := fixedOptions(&pacing.Recorder{}, observer)
	opts.Store = store

	stats, err := NewBatchService(submitter, src, opts).Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Processed)
	require.NotNil(t, observer.report)
	assert.True(t, observer.report.Interrupted)
	assert.Equal(t, "interrupted", observer.report.Reason)
	require.Len(t, store.saved, 1)
	assert.Equal(t, 2, store.saved[0].TotalItems)
}

func TestRunStoreFailureIsIgnored(t *testing.T) {
	src, err := source.NewRandom(source.RandomOptions{MaxAttempts: 1})
	require.NoError(t, err)

	opts := fixedOptions(&pacing.Recorder{})
	opts.Store = &memoryStore{err: errors.New("disk full")}

	stats, err := NewBatchService(&fakeSubmitter{}, src, opts).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Successful)
}

func TestRunCatalogSource(t *testing.T) {
	excluded, err := domain.ParsePageRanges("2")
	require.NoError(t, err)

	catalog := &pagedCatalog{}
	src, err := source.NewCatalog(catalog, source.CatalogOptions{
		StartPage:  1,
		TotalPages: 3,
		Excluded:   excluded,
		Sleep:      (&pacing.Recorder{}).Sleep,
	})
	require.NoError(t, err)

	submitter := &fakeSubmitter{}
	stats, err := NewBatchService(submitter, src, fixedOptions(&pacing.Recorder{})).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, stats.PagesProcessed)
	assert.Equal(t, 4, stats.Processed)
	for _, target := range submitter.submitted {
		assert.NotEqual(t, 2, target.Page)
	}
	assert.Equal(t, []domain.PageDistribution{
		{Page: 1, Anime: 1, Manga: 1},
		{Page: 3, Anime: 1, Manga: 1},
	}, stats.Distribution())
}

// pagedCatalog returns one item per page forever
type pagedCatalog struct{}

func (pagedCatalog) Name() string { return "paged" }

func (pagedCatalog) TopPage(_ context.Context, _ domain.MediaType, page int) (*domain.CatalogPage, error) {
	return &domain.CatalogPage{
		Items:       []domain.CatalogItem{{ID: page, Title: fmt.Sprintf("Item %d", page)}},
		HasNextPage: true,
	}, nil
}
