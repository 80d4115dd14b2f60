package domain

import (
	"fmt"
	"strings"
)

// MediaType identifies which of the user's lists an entry belongs to
type MediaType string

const (
	MediaAnime MediaType = "anime"
	MediaManga MediaType = "manga"
)

// ParseMediaType converts a user supplied string into a MediaType.  Matching is case-insensitive.
func ParseMediaType(s string) (MediaType, error) {
	switch MediaType(strings.ToLower(strings.TrimSpace(s))) {
	case MediaAnime:
		return MediaAnime, nil
	case MediaManga:
		return MediaManga, nil
	default:
		return "", fmt.Errorf("unknown media type %q, expected one of: anime, manga", s)
	}
}

// ParseMediaTypes parses a list of media type names, dropping duplicates while keeping order
func ParseMediaTypes(names []string) ([]MediaType, error) {
	var types []MediaType
	seen := make(map[MediaType]bool)
	for _, name := range names {
		t, err := ParseMediaType(name)
		if err != nil {
			return nil, err
		}
		if seen[t] {
			continue
		}
		seen[t] = true
		types = append(types, t)
	}
	return types, nil
}

// Label returns the capitalised name used in console output
func (t MediaType) Label() string {
	switch t {
	case MediaAnime:
		return "Anime"
	case MediaManga:
		return "Manga"
	default:
		return string(t)
	}
}

// Target is a single entry considered for submission to the user's list
type Target struct {
	Type  MediaType
	ID    int
	Page  int    // Catalog page the target was found on.  0 when the target was not paged.
	Title string // Only known for targets coming from a catalog
}

func (t Target) String() string {
	return fmt.Sprintf("%s ID %d", t.Type.Label(), t.ID)
}

// Batch is a group of targets produced by a single step of a TargetSource
type Batch struct {
	// Page is the catalog page this batch represents.  0 for sources that do not page.
	Page    int
	Targets []Target
	// Found holds how many items each catalog feed returned for this page.  Feeds that were not fetched are absent.
	Found map[MediaType]int
	// Skipped lists the excluded pages passed over right before this one
	Skipped []int
	// Feeds describes what happened to each catalog feed while producing this page
	Feeds []FeedFetch
}

// FeedFetch is the result of asking one catalog feed for one page
type FeedFetch struct {
	Type MediaType
	// Fetched is false when the feed had already run out and was not asked
	Fetched bool
	Count   int
	// Exhausted is set on the fetch that reported there are no further pages
	Exhausted bool
	Err       error
}
