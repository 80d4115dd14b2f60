package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// PageRange is an inclusive range of catalog pages
type PageRange struct {
	Start int
	End   int
}

// PageRanges is a set of excluded pages, as written by users: "3-5,8-10,12"
type PageRanges []PageRange

// ParsePageRanges parses a comma separated list of pages and page ranges.  An empty string yields no ranges.
func ParsePageRanges(s string) (PageRanges, error) {
	var ranges PageRanges
	if strings.TrimSpace(s) == "" {
		return ranges, nil
	}

	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if before, after, found := strings.Cut(part, "-"); found {
			start, err := parsePage(before)
			if err != nil {
				return nil, fmt.Errorf("invalid page range %q: %w", part, err)
			}
			end, err := parsePage(after)
			if err != nil {
				return nil, fmt.Errorf("invalid page range %q: %w", part, err)
			}
			if start > end {
				return nil, fmt.Errorf("invalid page range %q: start is after end", part)
			}
			ranges = append(ranges, PageRange{Start: start, End: end})
			continue
		}

		page, err := parsePage(part)
		if err != nil {
			return nil, fmt.Errorf("invalid page %q: %w", part, err)
		}
		ranges = append(ranges, PageRange{Start: page, End: page})
	}

	return ranges, nil
}

func parsePage(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("not a number")
	}
	if n < 1 {
		return 0, fmt.Errorf("pages start at 1")
	}
	return n, nil
}

// Contains reports whether the page falls inside any of the ranges
func (r PageRanges) Contains(page int) bool {
	for _, pr := range r {
		if page >= pr.Start && page <= pr.End {
			return true
		}
	}
	return false
}

func (r PageRanges) String() string {
	parts := make([]string, 0, len(r))
	for _, pr := range r {
		if pr.Start == pr.End {
			parts = append(parts, strconv.Itoa(pr.Start))
		} else {
			parts = append(parts, fmt.Sprintf("%d-%d", pr.Start, pr.End))
		}
	}
	return strings.Join(parts, ",")
}
