package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/PizzaHomicide/listfill/internal/domain"
	"github.com/PizzaHomicide/listfill/internal/log"
	"github.com/PizzaHomicide/listfill/internal/service"
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder counts the outcomes of a run and, when given a path, writes them in the Prometheus text format once the
// run ends.  The file suits the node_exporter textfile collector.
type Recorder struct {
	registry     *prometheus.Registry
	textfilePath string

	submissions  *prometheus.CounterVec
	statusCodes  *prometheus.CounterVec
	catalogFetch *prometheus.CounterVec
	pages        prometheus.Counter
	lastRun      *prometheus.GaugeVec
}

var _ service.Observer = (*Recorder)(nil)

func NewRecorder(textfilePath string) *Recorder {
	r := &Recorder{
		registry:     prometheus.NewRegistry(),
		textfilePath: textfilePath,
	}

	r.submissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listfill_submissions_total",
			Help: "Total number of list submissions by media type and outcome",
		},
		[]string{"media_type", "outcome"},
	)
	r.registry.MustRegister(r.submissions)

	r.statusCodes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listfill_submission_status_codes_total",
			Help: "HTTP status codes answered to list submissions.  Transport failures are counted as 0.",
		},
		[]string{"status_code"},
	)
	r.registry.MustRegister(r.statusCodes)

	r.catalogFetch = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listfill_catalog_fetches_total",
			Help: "Catalog page requests by media type and result",
		},
		[]string{"media_type", "result"},
	)
	r.registry.MustRegister(r.catalogFetch)

	r.pages = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "listfill_pages_processed_total",
		Help: "Catalog pages processed",
	})
	r.registry.MustRegister(r.pages)

	r.lastRun = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "listfill_last_run_timestamp_seconds",
			Help: "Unix time the last run finished",
		},
		[]string{"strategy", "interrupted"},
	)
	r.registry.MustRegister(r.lastRun)

	return r
}

// Registry exposes the underlying registry, mostly for tests
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) OnRunStart(string, string, int) {}

func (r *Recorder) OnBatch(batch *domain.Batch) {
	if batch.Page > 0 {
		r.pages.Inc()
	}
	for _, feed := range batch.Feeds {
		if !feed.Fetched {
			continue
		}
		result := "ok"
		switch {
		case feed.Err != nil:
			result = "error"
		case feed.Exhausted:
			result = "last_page"
		}
		r.catalogFetch.WithLabelValues(string(feed.Type), result).Inc()
	}
}

func (r *Recorder) OnResult(target domain.Target, result domain.SubmitResult, _ *domain.RunStats) {
	r.submissions.WithLabelValues(string(target.Type), string(result.Outcome)).Inc()
	r.statusCodes.WithLabelValues(strconv.Itoa(result.StatusCode)).Inc()
}

func (r *Recorder) OnRunEnd(report service.Report) {
	r.lastRun.WithLabelValues(report.Summary.Strategy, strconv.FormatBool(report.Interrupted)).
		Set(float64(report.Summary.Timestamp.Unix()))

	if r.textfilePath == "" {
		return
	}
	if err := r.WriteTextfile(); err != nil {
		log.Warn("Failed to write metrics textfile", "path", r.textfilePath, "error", err)
	}
}

// WriteTextfile writes the current metrics to the configured path
func (r *Recorder) WriteTextfile() error {
	if err := os.MkdirAll(filepath.Dir(r.textfilePath), 0755); err != nil {
		return fmt.Errorf("ensure metrics dir: %w", err)
	}
	return prometheus.WriteToTextfile(r.textfilePath, r.registry)
}
