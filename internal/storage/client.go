// Package storage talks to the Supabase-convention object storage the website
// serves its images from: public URL construction, existence probes and
// bucket listing over the storage HTTP API.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/bhqrkxc888-spec/Limitless-web-sub004/internal/conf"
	"github.com/bhqrkxc888-spec/Limitless-web-sub004/internal/errors"
	"github.com/bhqrkxc888-spec/Limitless-web-sub004/internal/logging"
	"github.com/bhqrkxc888-spec/Limitless-web-sub004/internal/observability/metrics"
)

const (
	publicObjectPrefix = "/storage/v1/object/public/"
	renderImagePrefix  = "/storage/v1/render/image/public/"
	listObjectPath     = "/storage/v1/object/list/"

	defaultRequestTimeout = 10 * time.Second
	listPageLimit         = 1000
)

// PublicObjectURL builds the public URL for an object without any I/O.
func PublicObjectURL(baseURL, bucket, path string) string {
	return fmt.Sprintf("%s%s%s/%s", baseURL, publicObjectPrefix, bucket, path)
}

// Client is an HTTP client for the storage API, rate limited so background
// audits and pre-flight probes cannot hammer the provider.
type Client struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
	limiter    *rate.Limiter
	metrics    *metrics.StorageMetrics
	logger     *slog.Logger
}

// NewClient builds a Client from application settings. metrics may be nil.
func NewClient(settings *conf.Settings, m *metrics.StorageMetrics) *Client {
	pf := settings.Storage.Preflight
	rps := pf.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}
	burst := pf.Burst
	if burst <= 0 {
		burst = 10
	}
	timeout := defaultRequestTimeout
	if pf.TimeoutSeconds > 0 {
		timeout = time.Duration(pf.TimeoutSeconds) * time.Second
	}

	return &Client{
		baseURL:    settings.Storage.BaseURL,
		anonKey:    settings.Storage.AnonKey,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
		metrics:    m,
		logger:     logging.ForService("storage"),
	}
}

// BaseURL returns the storage base URL the client was configured with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// PublicURL builds the public URL for an object in this client's project.
func (c *Client) PublicURL(bucket, path string) string {
	return PublicObjectURL(c.baseURL, bucket, path)
}

// IsProviderURL reports whether raw is a URL issued by this storage provider,
// in either the canonical public-object shape or the image-CDN render shape.
// Such URLs are already optimized and pass through validation unchanged.
func (c *Client) IsProviderURL(raw string) bool {
	trimmed := strings.TrimSpace(raw)
	return strings.HasPrefix(trimmed, c.baseURL+publicObjectPrefix) ||
		strings.HasPrefix(trimmed, c.baseURL+renderImagePrefix)
}

// wait blocks until the rate limiter admits one request.
func (c *Client) wait(ctx context.Context) error {
	if !c.limiter.Allow() {
		if c.metrics != nil {
			c.metrics.IncrementRateLimitWaits()
		}
		return c.limiter.Wait(ctx)
	}
	return nil
}

// ObjectExists probes the public URL of an object with a HEAD request.
// A 404 is a normal answer, not an error.
func (c *Client) ObjectExists(ctx context.Context, bucket, path string) (bool, error) {
	if err := c.wait(ctx); err != nil {
		return false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.PublicURL(bucket, path), http.NoBody)
	if err != nil {
		return false, errors.New(err).
			Category(errors.CategoryStorageAPI).
			Context("operation", "object_exists").
			Build()
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.observe("object_exists", start, err)
	if err != nil {
		return false, errors.New(err).
			Category(errors.CategoryStorageAPI).
			NetworkContext(c.baseURL, c.httpClient.Timeout).
			Context("method", http.MethodHead).
			Context("bucket", bucket).
			Context("path", path).
			Build()
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusOK:
		return true, nil
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusBadRequest:
		return false, nil
	default:
		return false, errors.Newf("unexpected status %d probing object", resp.StatusCode).
			Category(errors.CategoryStorageAPI).
			Context("bucket", bucket).
			Context("path", path).
			Context("status", resp.StatusCode).
			Build()
	}
}

// ObjectInfo describes one object returned by a bucket listing.
type ObjectInfo struct {
	Name        string
	Size        int64
	ContentType string
}

// ListObjects lists the objects under prefix in a bucket via the storage
// JSON API.
func (c *Client) ListObjects(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	body, err := json.Marshal(map[string]any{
		"prefix": prefix,
		"limit":  listPageLimit,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+listObjectPath+bucket, bytes.NewReader(body))
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryStorageAPI).
			Context("operation", "list_objects").
			Build()
	}
	req.Header.Set("Content-Type", "application/json")
	if c.anonKey != "" {
		req.Header.Set("apikey", c.anonKey)
		req.Header.Set("Authorization", "Bearer "+c.anonKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.observe("list_objects", start, err)
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryStorageAPI).
			NetworkContext(c.baseURL, c.httpClient.Timeout).
			Context("method", http.MethodPost).
			Context("bucket", bucket).
			Build()
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf("unexpected status %d listing bucket", resp.StatusCode).
			Category(errors.CategoryStorageAPI).
			Context("bucket", bucket).
			Context("status", resp.StatusCode).
			Build()
	}

	return parseListResponse(resp)
}

func (c *Client) observe(operation string, start time.Time, err error) {
	if c.metrics == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	c.metrics.IncrementAPIRequest(operation, result)
	c.metrics.ObserveRequestDuration(time.Since(start).Seconds())
}
