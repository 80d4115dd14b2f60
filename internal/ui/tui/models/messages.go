package models

import (
	"github.com/PizzaHomicide/listfill/internal/domain"
	"github.com/PizzaHomicide/listfill/internal/service"
)

// RunStartedMsg is sent once the run has checked its credentials
type RunStartedMsg struct {
	RunID    string
	Strategy string
	Total    int // 0 when unknown
}

// BatchMsg is sent when the source hands out a new batch
type BatchMsg struct {
	Batch *domain.Batch
}

// ResultMsg is sent after every submission
type ResultMsg struct {
	Target domain.Target
	Result domain.SubmitResult
	// Stats is a snapshot of the counters at the time of the result, see RunStats.Snapshot
	Stats domain.RunStats
}

// RunEndedMsg is sent with the final report of the run
type RunEndedMsg struct {
	Report service.Report
}

// RunDoneMsg is sent when the run function has returned
type RunDoneMsg struct {
	Err error
}
