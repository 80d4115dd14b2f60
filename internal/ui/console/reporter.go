package console

import (
	"fmt"
	"io"
	"time"

	"github.com/PizzaHomicide/listfill/internal/domain"
	"github.com/PizzaHomicide/listfill/internal/service"
	"github.com/PizzaHomicide/listfill/internal/ui/styles"
	"github.com/PizzaHomicide/listfill/internal/ui/util"
)

const (
	ruleWidth     = 60
	maxTitleWidth = 40
)

// Setting is one line of the configuration block printed when a run starts
type Setting struct {
	Label string
	Value string
}

// Reporter narrates a run line by line
type Reporter struct {
	out      io.Writer
	settings []Setting
	now      func() time.Time

	started   time.Time
	page      int
	remaining int
}

var _ service.Observer = (*Reporter)(nil)

func NewReporter(out io.Writer, settings ...Setting) *Reporter {
	return &Reporter{
		out:      out,
		settings: settings,
		now:      time.Now,
	}
}

func (r *Reporter) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, format, args...)
}

func (r *Reporter) println(line string) {
	_, _ = fmt.Fprintln(r.out, line)
}

func (r *Reporter) OnRunStart(runID, strategy string, total int) {
	r.started = r.now()

	r.println(styles.Rule(ruleWidth, false))
	r.println(styles.Header(ruleWidth, "LISTFILL BATCH RUN"))
	r.println(styles.Rule(ruleWidth, false))
	r.println(styles.Heading.Render("Configuration:"))
	r.printf("- Strategy: %s\n", strategy)
	if total > 0 {
		r.printf("- Targets: %d\n", total)
	}
	for _, s := range r.settings {
		r.printf("- %s: %s\n", s.Label, s.Value)
	}
	r.printf("- Run: %s\n", styles.Muted.Render(runID))
	r.println(styles.Rule(ruleWidth, false))
	r.println("")
}

func (r *Reporter) OnBatch(batch *domain.Batch) {
	r.page = batch.Page
	r.remaining = len(batch.Targets)
	if batch.Page <= 0 {
		return
	}

	for _, skipped := range batch.Skipped {
		r.println(styles.Muted.Render(fmt.Sprintf("⏩ Skipping page %d (excluded)", skipped)))
	}

	r.println("")
	r.println(styles.Rule(ruleWidth-10, true))
	r.println(styles.Heading.Render(fmt.Sprintf("📄 PROCESSING PAGE %d", batch.Page)))
	r.println(styles.Rule(ruleWidth-10, true))

	for _, feed := range batch.Feeds {
		label := feed.Type.Label()
		switch {
		case !feed.Fetched:
			r.printf("   ⏭️ %s: no more pages available\n", label)
		case feed.Err != nil:
			r.printf("   %s\n", styles.Failure.Render(fmt.Sprintf("❌ %s page %d: %v", label, batch.Page, feed.Err)))
		default:
			r.printf("   %s\n", styles.Success.Render(fmt.Sprintf("✓ Found %d %s", feed.Count, feed.Type)))
			if feed.Exhausted {
				r.printf("   %s\n", styles.Exists.Render(fmt.Sprintf("⚠️ No more %s pages available", feed.Type)))
			}
		}
	}

	if r.remaining == 0 {
		r.println(styles.Muted.Render("   Nothing to submit on this page"))
	} else {
		r.println("")
	}
}

func (r *Reporter) OnResult(target domain.Target, result domain.SubmitResult, stats *domain.RunStats) {
	r.printf("  %s: %s\n", describeTarget(target), describeResult(result))

	r.remaining--
	if r.remaining == 0 && r.page > 0 {
		r.println("")
		r.println(styles.Heading.Render(fmt.Sprintf("📊 Progress: Page %d completed", r.page)))
		r.printf("   Total processed: %d items\n", stats.Processed)
		r.printf("   Successful: %d | Failed: %d | Already exists: %d\n",
			stats.Successful, stats.Failed, stats.AlreadyExists)
	}
}

func (r *Reporter) OnRunEnd(report service.Report) {
	stats := report.Stats

	r.println("")
	r.println(styles.Rule(ruleWidth, false))
	r.println(styles.Header(ruleWidth, "FINAL RESULTS"))
	r.println(styles.Rule(ruleWidth, false))

	if report.Interrupted {
		r.println(styles.Exists.Render("Run interrupted, results are partial"))
	} else if report.Reason != "" {
		r.println(styles.Muted.Render("Stopped: " + report.Reason))
	}
	if !r.started.IsZero() {
		r.printf("Elapsed: %s\n", util.FormatElapsed(r.now().Sub(r.started)))
	}

	if stats.PagesProcessed > 0 {
		r.println("")
		r.println(styles.Heading.Render("📈 GENERAL STATISTICS:"))
		r.printf("Total pages processed: %d\n", stats.PagesProcessed)
		r.printf("Total items found: %d\n", stats.AnimeTotal+stats.MangaTotal)
		r.printf("   • Anime: %d items\n", stats.AnimeTotal)
		r.printf("   • Manga: %d items\n", stats.MangaTotal)
	}

	r.println("")
	r.println(styles.Heading.Render("📤 SUBMISSION STATISTICS:"))
	r.printf("Total items processed: %d\n", stats.Processed)
	r.println(styles.Success.Render(fmt.Sprintf("✅ Successfully added: %d", stats.Successful)))
	r.println(styles.Failure.Render(fmt.Sprintf("❌ Failed to add: %d", stats.Failed)))
	if stats.NotFound > 0 {
		r.printf("   (of which not found: %d)\n", stats.NotFound)
	}
	r.println(styles.Exists.Render(fmt.Sprintf("📌 Already in list: %d", stats.AlreadyExists)))

	if rows := stats.Distribution(); len(rows) > 0 {
		r.println("")
		r.println(styles.Heading.Render("📋 DISTRIBUTION PER PAGE:"))
		for _, row := range rows {
			r.printf("   Page %d: %d anime, %d manga\n", row.Page, row.Anime, row.Manga)
		}
	}

	r.println("")
	r.printf("Run %s\n", styles.Muted.Render(report.Summary.RunID))
	r.println(styles.Rule(ruleWidth, false))
}

func describeTarget(target domain.Target) string {
	if target.Title == "" {
		return target.String()
	}
	return fmt.Sprintf("%s (%s)", target.String(), util.TruncateString(target.Title, maxTitleWidth))
}

// describeResult phrases an outcome the way the site's own messages read
func describeResult(result domain.SubmitResult) string {
	switch result.Outcome {
	case domain.OutcomeSuccess:
		return styles.Success.Render("Successfully added")
	case domain.OutcomeAlreadyExists:
		return styles.Exists.Render("Already in your list")
	default:
		return styles.Failure.Render(result.Message)
	}
}
