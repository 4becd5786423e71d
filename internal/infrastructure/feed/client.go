// Package feed implements the remote data source client: one GET per
// collection against a configured base URL, JSON bodies matching the domain
// shapes. Any non-2xx status or parse failure is a fetch failure for that
// collection.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pitwall/tourney-system/internal/core/domain"
)

const defaultRequestTimeout = 10 * time.Second

// Client implements ports.FeedSource over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a feed client. timeout bounds each individual request;
// zero means the default.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) FetchDrivers(ctx context.Context) ([]domain.Driver, error) {
	return fetch[[]domain.Driver](ctx, c, "/drivers")
}

func (c *Client) FetchTeams(ctx context.Context) ([]domain.Team, error) {
	return fetch[[]domain.Team](ctx, c, "/teams")
}

func (c *Client) FetchRaces(ctx context.Context) ([]domain.Race, error) {
	return fetch[[]domain.Race](ctx, c, "/races")
}

func (c *Client) FetchNews(ctx context.Context) ([]domain.NewsItem, error) {
	return fetch[[]domain.NewsItem](ctx, c, "/news")
}

func (c *Client) FetchConfig(ctx context.Context) (domain.TournamentConfig, error) {
	return fetch[domain.TournamentConfig](ctx, c, "/config")
}

func (c *Client) FetchStreamers(ctx context.Context) ([]domain.Streamer, error) {
	return fetch[[]domain.Streamer](ctx, c, "/streamers")
}

func fetch[T any](ctx context.Context, c *Client, path string) (T, error) {
	var out T

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return out, fmt.Errorf("feed %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return out, fmt.Errorf("feed %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return out, fmt.Errorf("feed %s: unexpected status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, fmt.Errorf("feed %s: decode: %w", path, err)
	}
	return out, nil
}
