package domain

import (
	"maps"
	"sort"
	"time"
)

// Outcome is the classification of a single submission
type Outcome string

const (
	OutcomeSuccess       Outcome = "success"
	OutcomeAlreadyExists Outcome = "already_exists"
	OutcomeNotFound      Outcome = "not_found"
	OutcomeFailed        Outcome = "failed"
)

// SubmitResult describes how the tracking site answered one submission
type SubmitResult struct {
	Outcome    Outcome
	StatusCode int    // 0 when the request never got an answer
	Message    string // Human readable reason, set for anything but success
	Err        error  // Transport or status error behind a failed outcome
}

// RunStats accumulates counters over a run.  Processed always equals Successful + Failed + AlreadyExists.
type RunStats struct {
	Processed     int
	Successful    int
	Failed        int
	AlreadyExists int
	// NotFound counts the subset of Failed that the site rejected as unknown ids
	NotFound int

	PagesProcessed int
	AnimeTotal     int
	MangaTotal     int
	AnimePerPage   map[int]int
	MangaPerPage   map[int]int
}

func NewRunStats() *RunStats {
	return &RunStats{
		AnimePerPage: make(map[int]int),
		MangaPerPage: make(map[int]int),
	}
}

// Record counts a single classified submission
func (s *RunStats) Record(outcome Outcome) {
	switch outcome {
	case OutcomeSuccess:
		s.Successful++
	case OutcomeAlreadyExists:
		s.AlreadyExists++
	case OutcomeNotFound:
		s.NotFound++
		s.Failed++
	default:
		s.Failed++
	}
	s.Processed++
}

// RecordPage counts the catalog items found on a page.  Batches that are not paged are ignored.
func (s *RunStats) RecordPage(batch *Batch) {
	if batch == nil || batch.Page <= 0 {
		return
	}
	s.PagesProcessed++
	if n, ok := batch.Found[MediaAnime]; ok {
		s.AnimePerPage[batch.Page] = n
		s.AnimeTotal += n
	}
	if n, ok := batch.Found[MediaManga]; ok {
		s.MangaPerPage[batch.Page] = n
		s.MangaTotal += n
	}
}

// Snapshot returns a copy of s that shares no maps with it
func (s *RunStats) Snapshot() RunStats {
	c := *s
	c.AnimePerPage = maps.Clone(s.AnimePerPage)
	c.MangaPerPage = maps.Clone(s.MangaPerPage)
	return c
}

// Consistent reports whether the processed total matches the per outcome counters
func (s *RunStats) Consistent() bool {
	return s.Processed == s.Successful+s.Failed+s.AlreadyExists
}

// PageDistribution is one row of the per page breakdown
type PageDistribution struct {
	Page  int
	Anime int
	Manga int
}

// Distribution returns the pages that had at least one item, in ascending page order
func (s *RunStats) Distribution() []PageDistribution {
	pages := make(map[int]bool)
	for p := range s.AnimePerPage {
		pages[p] = true
	}
	for p := range s.MangaPerPage {
		pages[p] = true
	}

	var rows []PageDistribution
	for p := range pages {
		row := PageDistribution{Page: p, Anime: s.AnimePerPage[p], Manga: s.MangaPerPage[p]}
		if row.Anime > 0 || row.Manga > 0 {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Page < rows[j].Page })
	return rows
}

// Summary is the compact record of a finished run that gets persisted
type Summary struct {
	RunID          string    `json:"runId"`
	Strategy       string    `json:"strategy"`
	Timestamp      time.Time `json:"timestamp"`
	PagesProcessed int       `json:"pagesProcessed"`
	TotalItems     int       `json:"totalItems"`
	Successful     int       `json:"successful"`
	Failed         int       `json:"failed"`
	AlreadyExists  int       `json:"alreadyExists"`
	AnimeTotal     int       `json:"animeTotal"`
	MangaTotal     int       `json:"mangaTotal"`
}

// Summary builds the persisted form of the statistics
func (s *RunStats) Summary(runID, strategy string, at time.Time) Summary {
	return Summary{
		RunID:          runID,
		Strategy:       strategy,
		Timestamp:      at.UTC(),
		PagesProcessed: s.PagesProcessed,
		TotalItems:     s.Processed,
		Successful:     s.Successful,
		Failed:         s.Failed,
		AlreadyExists:  s.AlreadyExists,
		AnimeTotal:     s.AnimeTotal,
		MangaTotal:     s.MangaTotal,
	}
}
