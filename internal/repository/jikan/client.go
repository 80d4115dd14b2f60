package jikan

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/PizzaHomicide/listfill/internal/domain"
	"github.com/PizzaHomicide/listfill/internal/log"
	"github.com/PizzaHomicide/listfill/internal/version"
	"github.com/go-resty/resty/v2"
)

const DefaultBaseURL = "https://api.jikan.moe/v4"

// Client reads the public Jikan rankings, which are keyed by MyAnimeList ids
type Client struct {
	http *resty.Client
}

var _ domain.Catalog = (*Client)(nil)

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	client := resty.New().
		SetLogger(log.RestyLogger{}).
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", version.UserAgent())

	client.OnAfterResponse(func(c *resty.Client, resp *resty.Response) error {
		log.Trace("Jikan response", "url", resp.Request.URL, "status", resp.StatusCode(), "took", resp.Time())
		return nil
	})

	return &Client{http: client}
}

func (c *Client) Name() string { return "jikan" }

// topResponse is the part of GET /top/{type} that is used.  Data is kept raw so a missing or non-list field can be
// told apart from an empty page.
type topResponse struct {
	Data       json.RawMessage `json:"data"`
	Pagination *struct {
		HasNextPage *bool `json:"has_next_page"`
	} `json:"pagination"`
}

type topItem struct {
	MalID int    `json:"mal_id"`
	Title string `json:"title"`
}

// TopPage fetches one page of the top ranking for the media type
func (c *Client) TopPage(ctx context.Context, mediaType domain.MediaType, page int) (*domain.CatalogPage, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("type", string(mediaType)).
		SetQueryParam("page", strconv.Itoa(page)).
		Get("/top/{type}")
	if err != nil {
		return nil, domain.NetworkError{Err: err}
	}
	if !resp.IsSuccess() {
		return nil, domain.StatusError{StatusCode: resp.StatusCode()}
	}

	return parseTopPage(resp.Body())
}

func parseTopPage(body []byte) (*domain.CatalogPage, error) {
	var top topResponse
	if err := json.Unmarshal(body, &top); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedPage, err)
	}

	var items []topItem
	if len(top.Data) == 0 || json.Unmarshal(top.Data, &items) != nil || items == nil {
		return nil, fmt.Errorf("%w: data is not a list", domain.ErrMalformedPage)
	}

	page := &domain.CatalogPage{
		Items: make([]domain.CatalogItem, 0, len(items)),
		// Only an explicit false ends a feed
		HasNextPage: true,
	}
	if top.Pagination != nil && top.Pagination.HasNextPage != nil {
		page.HasNextPage = *top.Pagination.HasNextPage
	}

	for _, item := range items {
		if item.MalID <= 0 {
			continue
		}
		title := item.Title
		if title == "" {
			title = "No Title"
		}
		page.Items = append(page.Items, domain.CatalogItem{ID: item.MalID, Title: title})
	}

	return page, nil
}
