package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PizzaHomicide/listfill/internal/domain"
	"github.com/PizzaHomicide/listfill/internal/log"
	"github.com/PizzaHomicide/listfill/internal/pacing"
	"github.com/google/uuid"
)

// Observer is told about the progress of a run.  All calls happen on the goroutine running the batch.
type Observer interface {
	// OnRunStart is called once credentials have been checked.  total is 0 when the number of targets is not known.
	OnRunStart(runID, strategy string, total int)
	OnBatch(batch *domain.Batch)
	OnResult(target domain.Target, result domain.SubmitResult, stats *domain.RunStats)
	OnRunEnd(report Report)
}

// Report describes a finished run
type Report struct {
	Summary domain.Summary
	Stats   *domain.RunStats
	// Reason is why the run stopped, e.g. "page limit reached" or "interrupted"
	Reason string
	// Interrupted is set when the run was cancelled before its source ran out
	Interrupted bool
}

// sized is implemented by sources that know up front how many targets they produce
type sized interface {
	Total() int
}

// Options tune a BatchService
type Options struct {
	// Delay is awaited after every submission
	Delay time.Duration
	Sleep pacing.Sleeper
	// Store, when set, receives the summary of every run.  Failures to save are logged and otherwise ignored.
	Store     domain.SummaryStore
	Observers []Observer

	Now      func() time.Time
	NewRunID func() string
}

// BatchService drives a run: it pulls batches from a source, submits every target one at a time and counts outcomes
type BatchService struct {
	submitter domain.ListSubmitter
	source    domain.TargetSource
	opts      Options
}

func NewBatchService(submitter domain.ListSubmitter, source domain.TargetSource, opts Options) *BatchService {
	if opts.Sleep == nil {
		opts.Sleep = pacing.Wait
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewRunID == nil {
		opts.NewRunID = uuid.NewString
	}
	return &BatchService{
		submitter: submitter,
		source:    source,
		opts:      opts,
	}
}

// Run processes the source until it runs out or ctx is cancelled.  A cancelled run still reports and saves its
// summary and is not an error.  The only error returned is a credentials failure, before any request is made.
func (s *BatchService) Run(ctx context.Context) (*domain.RunStats, error) {
	if err := s.submitter.CheckCredentials(); err != nil {
		return nil, fmt.Errorf("cannot start run: %w", err)
	}

	runID := s.opts.NewRunID()
	strategy := s.source.Name()
	total := 0
	if sz, ok := s.source.(sized); ok {
		total = sz.Total()
	}

	logger := log.With("run_id", runID, "strategy", strategy)
	logger.Info("Starting batch run", "total", total, "delay", s.opts.Delay)
	for _, o := range s.opts.Observers {
		o.OnRunStart(runID, strategy, total)
	}

	stats := domain.NewRunStats()
	reason, interrupted := s.process(ctx, stats)

	report := Report{
		Summary:     stats.Summary(runID, strategy, s.opts.Now()),
		Stats:       stats,
		Reason:      reason,
		Interrupted: interrupted,
	}
	logger.Info("Batch run finished",
		"reason", reason,
		"processed", stats.Processed,
		"successful", stats.Successful,
		"failed", stats.Failed,
		"already_exists", stats.AlreadyExists,
		"pages", stats.PagesProcessed)

	s.saveSummary(report.Summary)

	for _, o := range s.opts.Observers {
		o.OnRunEnd(report)
	}
	return stats, nil
}

// process runs the loop and returns why it stopped
func (s *BatchService) process(ctx context.Context, stats *domain.RunStats) (string, bool) {
	for {
		batch, err := s.source.Next(ctx)
		if err != nil {
			return stopReason(err)
		}

		stats.RecordPage(batch)
		for _, o := range s.opts.Observers {
			o.OnBatch(batch)
		}

		for _, target := range batch.Targets {
			if ctx.Err() != nil {
				return stopReason(ctx.Err())
			}

			result := s.submitter.Submit(ctx, target)
			if result.Outcome == domain.OutcomeFailed && ctx.Err() != nil {
				// The request was torn down by the cancellation, it says nothing about the target
				return stopReason(ctx.Err())
			}

			stats.Record(result.Outcome)
			log.Debug("Submitted target", "target", target.String(), "outcome", result.Outcome,
				"status", result.StatusCode, "message", result.Message)
			for _, o := range s.opts.Observers {
				o.OnResult(target, result, stats)
			}

			if err := s.opts.Sleep(ctx, s.opts.Delay); err != nil {
				return stopReason(err)
			}
		}
	}
}

func stopReason(err error) (string, bool) {
	switch {
	case errors.Is(err, domain.ErrSourceExhausted):
		return strings.TrimPrefix(err.Error(), domain.ErrSourceExhausted.Error()+": "), false
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "interrupted", true
	default:
		log.Error("Target source failed", "error", err)
		return err.Error(), false
	}
}

func (s *BatchService) saveSummary(summary domain.Summary) {
	if s.opts.Store == nil {
		return
	}
	// The run context may already be cancelled, the summary is still worth keeping
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.opts.Store.SaveSummary(ctx, summary); err != nil {
		log.Warn("Failed to save run summary", "run_id", summary.RunID, "error", err)
	}
}
