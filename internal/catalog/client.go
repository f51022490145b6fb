// Package catalog talks to the external song-catalog service: keyword
// search, track resolution (stream URL plus lyric) and best-effort audio
// caching. All calls use a fixed timeout; a timeout is a normal failure, not
// retried.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const searchLimit = 10

var ErrNoResults = errors.New("catalog: no songs found")

// Track is one search hit passed through to the submission form.
type Track struct {
	ID       json.Number `json:"id"`
	Name     string      `json:"name"`
	Artists  string      `json:"artists"`
	Album    string      `json:"album"`
	CoverURL string      `json:"cover_url"`
}

// Source is a resolved track: a streamable URL and the lyric text.
type Source struct {
	URL   string `json:"url"`
	Lyric string `json:"lyric"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{baseURL: baseURL, http: &http.Client{Timeout: timeout}}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("catalog: %s returned status %d", path, resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("catalog: decode %s response: %w", path, err)
	}
	if !env.Success || len(env.Data) == 0 {
		if env.Message != "" {
			return fmt.Errorf("catalog: %s", env.Message)
		}
		return ErrNoResults
	}
	return json.Unmarshal(env.Data, out)
}

// Search returns up to ten tracks matching keyword.
func (c *Client) Search(ctx context.Context, keyword string) ([]Track, error) {
	query := url.Values{}
	query.Set("keyword", keyword)
	query.Set("limit", fmt.Sprint(searchLimit))

	var tracks []Track
	if err := c.get(ctx, "/Search", query, &tracks); err != nil {
		return nil, err
	}
	return tracks, nil
}

// Resolve fetches the stream URL and lyric for a catalog song id.
func (c *Client) Resolve(ctx context.Context, songID string) (*Source, error) {
	query := url.Values{}
	query.Set("url", songID)
	query.Set("level", "standard")
	query.Set("type", "json")

	var src Source
	if err := c.get(ctx, "/Song_V1", query, &src); err != nil {
		return nil, err
	}
	return &src, nil
}
