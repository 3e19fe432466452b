// Package fetcher provides remote catalog document fetching.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
)

// maxBodySize caps how much of a response body is read.
const maxBodySize = 32 << 20

// Default client settings.
const (
	DefaultTimeout = 30 * time.Second
	DefaultRetries = 3
)

// Options configures a Client.
type Options struct {
	Timeout time.Duration // per-attempt timeout
	Retries int           // retries after the first attempt
	Log     logrus.FieldLogger
}

// Client fetches catalog documents over HTTP, retrying transient failures.
type Client struct {
	http *retryablehttp.Client
}

// New returns a Client. Zero option fields take their defaults.
func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Retries < 0 {
		opts.Retries = 0
	}
	if opts.Log == nil {
		opts.Log = logrus.StandardLogger()
	}

	c := retryablehttp.NewClient()
	c.RetryMax = opts.Retries
	c.RetryWaitMin = 200 * time.Millisecond
	c.RetryWaitMax = 2 * time.Second
	c.HTTPClient.Timeout = opts.Timeout
	c.Logger = leveledLogger{log: opts.Log.WithField("component", "fetcher")}

	return &Client{http: c}
}

// Fetch GETs url and returns the body and its Content-Type header.
// Non-200 responses are errors.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, string, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("fetch %s: %w", url, err)
	}
	req.Header.Set("Accept", "application/json, text/html;q=0.9")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", url, err)
	}
	if len(data) > maxBodySize {
		return nil, "", fmt.Errorf("fetch %s: body exceeds %d bytes", url, maxBodySize)
	}

	return data, resp.Header.Get("Content-Type"), nil
}

// leveledLogger adapts logrus to retryablehttp.LeveledLogger.
type leveledLogger struct {
	log logrus.FieldLogger
}

func (l leveledLogger) fields(kv []interface{}) logrus.FieldLogger {
	entry := l.log
	for i := 0; i+1 < len(kv); i += 2 {
		entry = entry.WithField(fmt.Sprint(kv[i]), kv[i+1])
	}
	return entry
}

func (l leveledLogger) Error(msg string, kv ...interface{}) { l.fields(kv).Error(msg) }
func (l leveledLogger) Info(msg string, kv ...interface{})  { l.fields(kv).Debug(msg) }
func (l leveledLogger) Debug(msg string, kv ...interface{}) { l.fields(kv).Debug(msg) }
func (l leveledLogger) Warn(msg string, kv ...interface{})  { l.fields(kv).Warn(msg) }
