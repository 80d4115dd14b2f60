package anilist

import (
	"context"
	"fmt"
	"strings"

	"github.com/PizzaHomicide/listfill/internal/domain"
	"github.com/PizzaHomicide/listfill/internal/log"
)

// perPage matches the page size of the Jikan rankings so page numbers mean roughly the same thing with either catalog
const perPage = 25

const topMediaQuery = `
	query ($page: Int, $perPage: Int, $type: MediaType) {
		Page(page: $page, perPage: $perPage) {
			pageInfo {
				hasNextPage
			}
			media(type: $type, sort: SCORE_DESC) {
				id
				idMal
				title {
					romaji
					english
				}
			}
		}
	}
`

// Catalog pages through AniList's highest rated media.  Only entries that are linked to a MyAnimeList id are kept.
type Catalog struct {
	client *Client
}

var _ domain.Catalog = (*Catalog)(nil)

func NewCatalog(client *Client) *Catalog {
	return &Catalog{client: client}
}

func (c *Catalog) Name() string { return "anilist" }

// TopPage fetches one page of the score ranking for the media type
func (c *Catalog) TopPage(ctx context.Context, mediaType domain.MediaType, page int) (*domain.CatalogPage, error) {
	variables := map[string]interface{}{
		"page":    page,
		"perPage": perPage,
		"type":    strings.ToUpper(string(mediaType)),
	}

	var response struct {
		Page *struct {
			PageInfo struct {
				HasNextPage bool `json:"hasNextPage"`
			} `json:"pageInfo"`
			Media []struct {
				ID    int  `json:"id"`
				IDMal *int `json:"idMal"`
				Title struct {
					Romaji  string `json:"romaji"`
					English string `json:"english"`
				} `json:"title"`
			} `json:"media"`
		} `json:"Page"`
	}

	if err := c.client.Query(ctx, topMediaQuery, variables, &response); err != nil {
		return nil, fmt.Errorf("failed to fetch %s ranking page %d: %w", mediaType, page, err)
	}

	if response.Page == nil || response.Page.Media == nil {
		return nil, fmt.Errorf("%w: no media list in response", domain.ErrMalformedPage)
	}

	result := &domain.CatalogPage{
		Items:       make([]domain.CatalogItem, 0, len(response.Page.Media)),
		HasNextPage: response.Page.PageInfo.HasNextPage,
	}

	skipped := 0
	for _, media := range response.Page.Media {
		if media.IDMal == nil || *media.IDMal <= 0 {
			skipped++
			continue
		}
		title := media.Title.English
		if title == "" {
			title = media.Title.Romaji
		}
		if title == "" {
			title = "No Title"
		}
		result.Items = append(result.Items, domain.CatalogItem{ID: *media.IDMal, Title: title})
	}

	if skipped > 0 {
		log.Debug("Dropped AniList entries without a MyAnimeList id", "type", mediaType, "page", page, "count", skipped)
	}

	return result, nil
}
