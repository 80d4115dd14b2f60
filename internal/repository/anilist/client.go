package anilist

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/PizzaHomicide/listfill/internal/domain"
	"github.com/PizzaHomicide/listfill/internal/log"
	"github.com/PizzaHomicide/listfill/internal/version"
	"github.com/machinebox/graphql"
)

const DefaultEndpoint = "https://graphql.anilist.co"

// Client is the generic AniList client for making queries to the AniList graphql API.  The catalog queries it serves
// are public, so no token is involved.
type Client struct {
	client *graphql.Client
}

func NewClient(endpoint string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	client := graphql.NewClient(endpoint)
	client.Log = func(s string) { log.Trace("AniList client", "message", s) }

	return &Client{client: client}
}

// Query runs a query and decodes its data into result.  Transport failures are returned as domain.NetworkError.
func (c *Client) Query(ctx context.Context, query string, variables map[string]interface{}, result interface{}) error {
	req := graphql.NewRequest(query)
	req.Header.Set("User-Agent", version.UserAgent())

	for key, value := range variables {
		req.Var(key, value)
	}

	if err := c.client.Run(ctx, req, result); err != nil {
		if isNetworkError(err) {
			return domain.NetworkError{Err: err}
		}
		return err
	}
	return nil
}

func isNetworkError(err error) bool {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "no such host") ||
		strings.Contains(msg, "i/o timeout")
}
