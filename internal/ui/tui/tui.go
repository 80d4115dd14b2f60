package tui

import (
	"fmt"

	"github.com/PizzaHomicide/listfill/internal/domain"
	"github.com/PizzaHomicide/listfill/internal/service"
	"github.com/PizzaHomicide/listfill/internal/ui/tui/models"
	tea "github.com/charmbracelet/bubbletea"
)

// sender is the part of a tea.Program the observer needs
type sender interface {
	Send(msg tea.Msg)
}

// Observer forwards run progress to the TUI program as messages
type Observer struct {
	program sender
}

var _ service.Observer = (*Observer)(nil)

func (o *Observer) OnRunStart(runID, strategy string, total int) {
	o.program.Send(models.RunStartedMsg{RunID: runID, Strategy: strategy, Total: total})
}

func (o *Observer) OnBatch(batch *domain.Batch) {
	o.program.Send(models.BatchMsg{Batch: batch})
}

func (o *Observer) OnResult(target domain.Target, result domain.SubmitResult, stats *domain.RunStats) {
	o.program.Send(models.ResultMsg{Target: target, Result: result, Stats: stats.Snapshot()})
}

func (o *Observer) OnRunEnd(report service.Report) {
	o.program.Send(models.RunEndedMsg{Report: report})
}

// Run shows the progress view while run executes on its own goroutine.  cancel stops the run when the user quits.
// Returns the error of run, or of the program itself.
func Run(cancel func(), run func(observer service.Observer) error) error {
	program := tea.NewProgram(models.NewRunModel(cancel), tea.WithAltScreen())

	done := make(chan struct{})
	go func() {
		defer close(done)
		err := run(&Observer{program: program})
		program.Send(models.RunDoneMsg{Err: err})
	}()

	final, err := program.Run()
	if err != nil {
		cancel()
		<-done
		return fmt.Errorf("progress view failed: %w", err)
	}
	<-done

	if model, ok := final.(*models.RunModel); ok {
		return model.Err()
	}
	return nil
}
