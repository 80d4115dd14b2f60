package domain

import "fmt"

// ListStatus is the numeric list status understood by the MyAnimeList ownlist endpoints
type ListStatus int

const (
	StatusWatching    ListStatus = 1 // "reading" for manga
	StatusCompleted   ListStatus = 2
	StatusOnHold      ListStatus = 3
	StatusDropped     ListStatus = 4
	StatusPlanToWatch ListStatus = 6 // "plan to read" for manga
)

// FuzzyDate is a date where any component may be zero to mean unknown
type FuzzyDate struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// ListDefaults holds the list fields every submitted entry is created with
type ListDefaults struct {
	Status   ListStatus
	Score    int
	Episodes int // Anime only
	Volumes  int // Manga only
	Chapters int // Manga only
}

// DefaultListDefaults mirrors what the tracking site would record for a finished entry scored 7
func DefaultListDefaults() ListDefaults {
	return ListDefaults{
		Status:   StatusCompleted,
		Score:    7,
		Episodes: 12,
		Volumes:  1,
		Chapters: 12,
	}
}

// Payload is the request body for an ownlist add call
type Payload interface {
	MediaType() MediaType
	MediaID() int
}

// AnimePayload is the body of POST /ownlist/anime/add.json
type AnimePayload struct {
	AnimeID            int        `json:"anime_id"`
	Status             ListStatus `json:"status"`
	Score              int        `json:"score"`
	NumWatchedEpisodes int        `json:"num_watched_episodes"`
	StorageValue       int        `json:"storage_value"`
	StorageType        int        `json:"storage_type"`
	StartDate          FuzzyDate  `json:"start_date"`
	FinishDate         FuzzyDate  `json:"finish_date"`
	NumWatchedTimes    int        `json:"num_watched_times"`
	RewatchValue       int        `json:"rewatch_value"`
	CSRFToken          string     `json:"csrf_token"`
}

func (p AnimePayload) MediaType() MediaType { return MediaAnime }
func (p AnimePayload) MediaID() int         { return p.AnimeID }

// MangaPayload is the body of POST /ownlist/manga/add.json
type MangaPayload struct {
	MangaID         int        `json:"manga_id"`
	Status          ListStatus `json:"status"`
	Score           int        `json:"score"`
	NumReadVolumes  int        `json:"num_read_volumes"`
	NumReadChapters int        `json:"num_read_chapters"`
	StorageValue    int        `json:"storage_value"`
	StorageType     int        `json:"storage_type"`
	StartDate       FuzzyDate  `json:"start_date"`
	FinishDate      FuzzyDate  `json:"finish_date"`
	NumReadTimes    int        `json:"num_read_times"`
	RereadValue     int        `json:"reread_value"`
	CSRFToken       string     `json:"csrf_token"`
}

func (p MangaPayload) MediaType() MediaType { return MediaManga }
func (p MangaPayload) MediaID() int         { return p.MangaID }

// NewPayload builds the payload for a target.  Payloads are values so they cannot be changed once handed out.
func NewPayload(target Target, defaults ListDefaults, csrfToken string) (Payload, error) {
	switch target.Type {
	case MediaAnime:
		return AnimePayload{
			AnimeID:            target.ID,
			Status:             defaults.Status,
			Score:              defaults.Score,
			NumWatchedEpisodes: defaults.Episodes,
			CSRFToken:          csrfToken,
		}, nil
	case MediaManga:
		return MangaPayload{
			MangaID:         target.ID,
			Status:          defaults.Status,
			Score:           defaults.Score,
			NumReadVolumes:  defaults.Volumes,
			NumReadChapters: defaults.Chapters,
			CSRFToken:       csrfToken,
		}, nil
	default:
		return nil, fmt.Errorf("cannot build payload for media type %q", target.Type)
	}
}
