// Package catalog is a read-only client for the movie catalog API.
//
// Both operations make exactly one attempt. A nil error with an empty result
// means the catalog had nothing; a non-nil error means the call itself failed.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// DefaultBaseURL is the public catalog API.
const DefaultBaseURL = "https://api.skymansion.site/movies-dl"

// ErrNoRecord is returned by FetchLinks when the response carries no record.
var ErrNoRecord = errors.New("catalog: no download record in response")

// maxBodySize caps how much of a response is read.
const maxBodySize = 4 << 20

// Client talks to the catalog API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient creates a Client. An empty baseURL selects DefaultBaseURL and a
// zero timeout leaves the request bounded only by its context.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// Search looks the query up in the catalog. The query is sent as is, empty
// strings included.
func (c *Client) Search(ctx context.Context, query string) ([]Item, error) {
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("q", query)

	var resp searchResponse
	if err := c.get(ctx, "/search/", params, &resp); err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	if resp.SearchResult == nil || resp.SearchResult.Result == nil {
		return []Item{}, nil
	}
	return resp.SearchResult.Result, nil
}

// FetchLinks returns the download record of one catalog item.
func (c *Client) FetchLinks(ctx context.Context, id ItemID) (*DownloadRecord, error) {
	params := url.Values{}
	params.Set("id", id.String())
	params.Set("api_key", c.apiKey)

	var resp downloadResponse
	if err := c.get(ctx, "/download/", params, &resp); err != nil {
		return nil, fmt.Errorf("fetch links %s: %w", id, err)
	}
	if resp.DownloadLinks == nil || resp.DownloadLinks.Result == nil {
		return nil, fmt.Errorf("fetch links %s: %w", id, ErrNoRecord)
	}
	record := resp.DownloadLinks.Result
	record.normalize()
	return record, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	endpoint := c.baseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return redact(err, c.apiKey)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d", res.StatusCode)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}

// redact keeps the API key out of transport errors, which embed the URL.
func redact(err error, key string) error {
	if key == "" {
		return err
	}
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return fmt.Errorf("%s: %w", uerr.Op, uerr.Err)
	}
	return errors.New(strings.ReplaceAll(err.Error(), url.QueryEscape(key), "REDACTED"))
}
