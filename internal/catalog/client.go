// Package catalog looks up datasets in a CKAN-style open-data catalog.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/dbsmedya/situations/internal/download"
)

// Getter downloads a URL. *download.Client satisfies it.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Resource is one file attached to a dataset.
type Resource struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	URL    string `json:"url"`
	Format string `json:"format"`
}

// Dataset is the subset of a catalog dataset record the pipeline reads.
type Dataset struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Title     string     `json:"title"`
	Resources []Resource `json:"resources"`
}

// Client reads dataset records through the catalog's action API.
type Client struct {
	getter  Getter
	baseURL string
}

// NewClient returns a Client for the catalog at baseURL.
func NewClient(getter Getter, baseURL string) *Client {
	return &Client{getter: getter, baseURL: strings.TrimRight(baseURL, "/")}
}

// ShowURL returns the package_show URL for name.
func (c *Client) ShowURL(name string) string {
	return c.baseURL + "/api/3/action/package_show?id=" + url.QueryEscape(name)
}

type showResponse struct {
	Success bool     `json:"success"`
	Result  *Dataset `json:"result"`
}

// Show returns the dataset called name, or nil when the catalog has no such dataset.
func (c *Client) Show(ctx context.Context, name string) (*Dataset, error) {
	body, err := c.getter.Get(ctx, c.ShowURL(name))
	if download.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("look up dataset %s: %w", name, err)
	}

	var resp showResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode dataset %s: %w", name, err)
	}
	if !resp.Success || resp.Result == nil {
		return nil, nil
	}
	return resp.Result, nil
}

// FirstResourceURL returns the URL of the dataset's first resource.
func (d *Dataset) FirstResourceURL() (string, error) {
	if len(d.Resources) == 0 || d.Resources[0].URL == "" {
		return "", fmt.Errorf("dataset %s has no resource to read", d.Name)
	}
	return d.Resources[0].URL, nil
}
