// Package download fetches HTTP resources with retries, rate limiting and
// optional saved-data replay.
package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/dbsmedya/situations/internal/config"
	"github.com/dbsmedya/situations/internal/logger"
)

// HTTPError is returned when the server answers with a non-2xx status.
type HTTPError struct {
	URL        string
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d for %s", e.StatusCode, e.URL)
}

// IsNotFound reports whether err is an HTTP 404.
func IsNotFound(err error) bool {
	var he *HTTPError
	return errors.As(err, &he) && he.StatusCode == http.StatusNotFound
}

// Options configures a Client.
type Options struct {
	UserAgent         string
	Timeout           time.Duration
	Retries           int
	Backoff           time.Duration
	RequestsPerSecond float64
	SavedDir          string
	Save              bool
	UseSaved          bool
}

// OptionsFromConfig builds Options from a resolved fetch configuration.
func OptionsFromConfig(userAgent string, fc config.FetchConfig) Options {
	return Options{
		UserAgent:         userAgent,
		Timeout:           time.Duration(fc.TimeoutSeconds) * time.Second,
		Retries:           fc.Retries,
		Backoff:           time.Second,
		RequestsPerSecond: fc.RequestsPerSecond,
		SavedDir:          fc.SavedDir,
		Save:              fc.Save,
		UseSaved:          fc.UseSaved,
	}
}

// Client performs GET requests. It is safe for concurrent use.
type Client struct {
	http    *http.Client
	opts    Options
	limiter *rate.Limiter
	saved   *savedStore
	log     *logger.Logger
}

// New creates a Client. A nil logger disables logging.
func New(opts Options, log *logger.Logger) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.Retries < 0 {
		opts.Retries = 0
	}
	if log == nil {
		log = logger.NewNop()
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Duration(float64(time.Second)/opts.RequestsPerSecond)), 1)
	}

	var saved *savedStore
	if opts.Save || opts.UseSaved {
		saved = &savedStore{dir: opts.SavedDir}
	}

	return &Client{
		http:    &http.Client{Timeout: opts.Timeout},
		opts:    opts,
		limiter: limiter,
		saved:   saved,
		log:     log,
	}
}

// Get returns the body of url. Network errors, 429 and 5xx responses are
// retried with exponential backoff; other 4xx responses fail immediately.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	if c.opts.UseSaved {
		body, err := c.saved.read(url)
		if err != nil {
			return nil, err
		}
		c.log.Debugw("Serving saved response", "url", url)
		return body, nil
	}

	attempts := c.opts.Retries + 1
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			backoff := c.opts.Backoff * time.Duration(1<<uint(attempt-1))
			c.log.Debugw("Retrying download", "url", url, "attempt", attempt+1, "backoff", backoff, "error", lastErr)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		body, retry, err := c.do(ctx, url)
		if err == nil {
			if c.opts.Save {
				if err := c.saved.write(url, body); err != nil {
					return nil, err
				}
			}
			return body, nil
		}
		if !retry {
			if c.opts.Save && IsNotFound(err) {
				if saveErr := c.saved.writeNotFound(url); saveErr != nil {
					return nil, saveErr
				}
			}
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("download %s failed after %d attempts: %w", url, attempts, lastErr)
}

func (c *Client) do(ctx context.Context, url string) (body []byte, retry bool, err error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("create request: %w", err)
	}
	if c.opts.UserAgent != "" {
		req.Header.Set("User-Agent", c.opts.UserAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		return nil, true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		he := &HTTPError{URL: url, StatusCode: resp.StatusCode}
		return nil, resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500, he
	}

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("read body: %w", err)
	}
	return body, false, nil
}
