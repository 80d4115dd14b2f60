package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/PizzaHomicide/listfill/internal/domain"
	"github.com/PizzaHomicide/listfill/internal/store/sqlite"
	"github.com/PizzaHomicide/listfill/internal/ui/styles"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show the summary of the last run",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, closeLog, err := setup(cmd)
		if err != nil {
			return err
		}
		defer closeLog()

		if cfg.Store.Disabled {
			fmt.Fprintln(cmd.OutOrStdout(), "The run summary store is disabled")
			return nil
		}

		store, err := sqlite.Open(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		summary, err := store.LastSummary(ctx)
		if err != nil {
			return err
		}
		if summary == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "📭 No run has been recorded yet")
			return nil
		}

		fmt.Fprintln(cmd.OutOrStdout())
		fmt.Fprintln(cmd.OutOrStdout(), styles.Heading.Render("📝 Last run"))
		fmt.Fprintln(cmd.OutOrStdout())
		fmt.Fprintln(cmd.OutOrStdout(), summaryTable(summary).View())
		return nil
	},
}

func summaryTable(s *domain.Summary) table.Model {
	columns := []table.Column{
		{Title: "Field", Width: 18},
		{Title: "Value", Width: 38},
	}

	rows := []table.Row{
		{"Run", s.RunID},
		{"Strategy", s.Strategy},
		{"Finished", s.Timestamp.Local().Format(time.RFC1123)},
		{"Pages processed", strconv.Itoa(s.PagesProcessed)},
		{"Items processed", strconv.Itoa(s.TotalItems)},
		{"Successful", strconv.Itoa(s.Successful)},
		{"Failed", strconv.Itoa(s.Failed)},
		{"Already in list", strconv.Itoa(s.AlreadyExists)},
		{"Anime found", strconv.Itoa(s.AnimeTotal)},
		{"Manga found", strconv.Itoa(s.MangaTotal)},
		{"Success rate", successRate(s)},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(len(rows)),
	)

	st := table.DefaultStyles()
	st.Header = st.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	// Nothing is selectable, so the selected row must not stand out
	st.Selected = st.Cell
	t.SetStyles(st)
	return t
}

func successRate(s *domain.Summary) string {
	if s.TotalItems == 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", float64(s.Successful)*100/float64(s.TotalItems))
}
