// Package upstream reads population time series from the situations API.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// FetchError reports that one source could not be fetched or decoded.
type FetchError struct {
	SourceID string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("could not download data for %s: %v", e.SourceID, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

var errNoData = errors.New("response has no data array")

// Getter downloads a URL. *download.Client satisfies it.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Client fetches the records of one source at a time.
type Client struct {
	getter      Getter
	baseURL     string
	sourceParam string
	collections []string
}

// NewClient returns a Client querying baseURL with sourceParam (geo_id or sv_id).
func NewClient(getter Getter, baseURL, sourceParam string, collections []string) *Client {
	return &Client{
		getter:      getter,
		baseURL:     baseURL,
		sourceParam: sourceParam,
		collections: collections,
	}
}

// URL returns the request URL for sourceID:
// {base}?{param}={id}&population_collection={c1,c2,...}
func (c *Client) URL(sourceID string) string {
	escaped := make([]string, len(c.collections))
	for i, col := range c.collections {
		escaped[i] = url.QueryEscape(col)
	}

	sep := "?"
	if strings.Contains(c.baseURL, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%s%s=%s&population_collection=%s",
		c.baseURL, sep, c.sourceParam, url.QueryEscape(sourceID), strings.Join(escaped, ","))
}

type response struct {
	Data *[]RawRecord `json:"data"`
}

// Fetch returns every record of sourceID in response order. Any failure is a *FetchError.
func (c *Client) Fetch(ctx context.Context, sourceID string) ([]RawRecord, error) {
	body, err := c.getter.Get(ctx, c.URL(sourceID))
	if err != nil {
		return nil, &FetchError{SourceID: sourceID, Err: err}
	}

	var resp response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &FetchError{SourceID: sourceID, Err: fmt.Errorf("decode response: %w", err)}
	}
	if resp.Data == nil {
		return nil, &FetchError{SourceID: sourceID, Err: errNoData}
	}
	return *resp.Data, nil
}
