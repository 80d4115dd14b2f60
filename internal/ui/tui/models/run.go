package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/PizzaHomicide/listfill/internal/domain"
	"github.com/PizzaHomicide/listfill/internal/log"
	"github.com/PizzaHomicide/listfill/internal/service"
	"github.com/PizzaHomicide/listfill/internal/ui/styles"
	"github.com/PizzaHomicide/listfill/internal/ui/tui/components"
	"github.com/PizzaHomicide/listfill/internal/ui/tui/keybindings"
	"github.com/PizzaHomicide/listfill/internal/ui/util"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	maxRecent     = 8
	maxTitleWidth = 36
)

// RunModel shows the live progress of a batch run and its summary once it ends
type RunModel struct {
	width, height int
	cancel        func()

	runID    string
	strategy string
	total    int
	page     int
	current  string
	stats    domain.RunStats
	recent   []string
	showLog  bool

	stopping bool // Quit was requested while the run was still going
	report   *service.Report
	done     bool
	err      error

	spinner   spinner.Model
	progress  progress.Model
	startTime time.Time
}

// NewRunModel creates the model.  cancel is called when the user asks to stop a run that is still going.
func NewRunModel(cancel func()) *RunModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))

	return &RunModel{
		cancel:    cancel,
		showLog:   true,
		spinner:   s,
		progress:  progress.New(progress.WithDefaultGradient()),
		startTime: time.Now(),
	}
}

// Err returns the error the run function returned, if any
func (m *RunModel) Err() error {
	return m.err
}

func (m *RunModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *RunModel) context() keybindings.ContextName {
	if m.done {
		return keybindings.ContextFinished
	}
	return keybindings.ContextRunning
}

func (m *RunModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = max(min(msg.Width-10, 60), 10)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case RunStartedMsg:
		m.runID = msg.RunID
		m.strategy = msg.Strategy
		m.total = msg.Total
		m.startTime = time.Now()
		return m, nil

	case BatchMsg:
		if msg.Batch.Page > 0 {
			m.page = msg.Batch.Page
		}
		for _, feed := range msg.Batch.Feeds {
			if feed.Err != nil {
				m.addRecent(styles.Failure.Render(fmt.Sprintf("%s page %d could not be fetched", feed.Type.Label(), msg.Batch.Page)))
			}
		}
		return m, nil

	case ResultMsg:
		m.stats = msg.Stats
		m.current = msg.Target.String()
		m.addRecent(formatResult(msg.Target, msg.Result))
		return m, nil

	case RunEndedMsg:
		m.report = &msg.Report
		return m, nil

	case RunDoneMsg:
		m.done = true
		m.err = msg.Err
		if m.err != nil || m.stopping {
			return m, tea.Quit
		}
		return m, nil
	}

	log.Debug("Run model received message it can't handle", "message", msg)
	return m, nil
}

func (m *RunModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch keybindings.GetActionByKey(msg, m.context()) {
	case keybindings.ActionQuit:
		if m.done {
			return m, tea.Quit
		}
		if !m.stopping {
			m.stopping = true
			m.cancel()
		}
	case keybindings.ActionToggleLog:
		m.showLog = !m.showLog
	case keybindings.ActionClose:
		return m, tea.Quit
	}
	return m, nil
}

func (m *RunModel) addRecent(line string) {
	m.recent = append(m.recent, line)
	if len(m.recent) > maxRecent {
		m.recent = m.recent[len(m.recent)-maxRecent:]
	}
}

func formatResult(target domain.Target, result domain.SubmitResult) string {
	label := target.String()
	if target.Title != "" {
		label += " " + styles.Muted.Render(util.TruncateString(target.Title, maxTitleWidth))
	}

	switch result.Outcome {
	case domain.OutcomeSuccess:
		return styles.Success.Render("✓ ") + label
	case domain.OutcomeAlreadyExists:
		return styles.Exists.Render("• ") + label
	default:
		return styles.Failure.Render("✗ ") + label + " " + styles.Failure.Render(result.Message)
	}
}

func (m *RunModel) View() string {
	contentWidth := max(min(m.width-4, 80), 40)

	var b strings.Builder
	b.WriteString(styles.Header(contentWidth, "listfill "+m.strategy))
	b.WriteString("\n\n")

	if m.report != nil {
		b.WriteString(m.summaryView(contentWidth))
	} else {
		b.WriteString(m.progressView(contentWidth))
	}

	b.WriteString("\n")
	b.WriteString(components.KeyBindingsBar(contentWidth, m.context()))
	return b.String()
}

func (m *RunModel) progressView(width int) string {
	var b strings.Builder

	status := "Starting"
	switch {
	case m.stopping:
		status = "Stopping after the current request"
	case m.current != "":
		status = m.current
	}
	if m.page > 0 {
		status = fmt.Sprintf("Page %d · %s", m.page, status)
	}
	b.WriteString(m.spinner.View() + " " + styles.Heading.Render(status) + "\n\n")

	if m.total > 0 {
		percent := float64(m.stats.Processed) / float64(m.total)
		b.WriteString(m.progress.ViewAs(percent))
		b.WriteString(fmt.Sprintf("  %d/%d\n\n", m.stats.Processed, m.total))
	}

	b.WriteString(m.countersLine() + "\n")
	b.WriteString(styles.Muted.Render("Elapsed "+util.FormatElapsed(time.Since(m.startTime))) + "\n")

	if m.showLog && len(m.recent) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.ContentBox(width-2, strings.Join(m.recent, "\n"), 0))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *RunModel) countersLine() string {
	return strings.Join([]string{
		fmt.Sprintf("Processed %d", m.stats.Processed),
		styles.Success.Render(fmt.Sprintf("Added %d", m.stats.Successful)),
		styles.Exists.Render(fmt.Sprintf("Already listed %d", m.stats.AlreadyExists)),
		styles.Failure.Render(fmt.Sprintf("Failed %d", m.stats.Failed)),
	}, "  ")
}

func (m *RunModel) summaryView(width int) string {
	report := m.report
	stats := report.Stats

	var b strings.Builder
	if report.Interrupted {
		b.WriteString(styles.Exists.Render("Run interrupted, results are partial") + "\n")
	} else {
		b.WriteString(styles.Muted.Render("Stopped: "+report.Reason) + "\n")
	}
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf("Total items processed: %d\n", stats.Processed))
	b.WriteString(styles.Success.Render(fmt.Sprintf("Successfully added: %d", stats.Successful)) + "\n")
	b.WriteString(styles.Failure.Render(fmt.Sprintf("Failed to add: %d", stats.Failed)) + "\n")
	b.WriteString(styles.Exists.Render(fmt.Sprintf("Already in list: %d", stats.AlreadyExists)) + "\n")

	if stats.PagesProcessed > 0 {
		b.WriteString(fmt.Sprintf("\nPages processed: %d  (anime %d, manga %d)\n",
			stats.PagesProcessed, stats.AnimeTotal, stats.MangaTotal))
		for _, row := range stats.Distribution() {
			b.WriteString(fmt.Sprintf("  Page %d: %d anime, %d manga\n", row.Page, row.Anime, row.Manga))
		}
	}

	b.WriteString("\n" + styles.Muted.Render("Run "+report.Summary.RunID))
	return styles.ContentBox(width-2, b.String(), 1) + "\n"
}
