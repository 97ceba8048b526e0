package registry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/nocta-ui/nocta-cli/internal/branding"
	"github.com/nocta-ui/nocta-cli/internal/cache"
	"github.com/nocta-ui/nocta-cli/internal/errs"
	"go.uber.org/zap"
)

// maxResponseSize caps a single registry response.
const maxResponseSize = 10 << 20

// HTTPError is a non-success status from the registry.
type HTTPError struct {
	StatusCode int
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d from %s", e.StatusCode, e.URL)
}

type response struct {
	body        []byte
	meta        cache.Meta
	notModified bool
}

// fetch returns the resource at rel. A fresh cache entry is served without
// touching the network. Otherwise the resource is downloaded (conditionally,
// when a cached copy has validators) and cached. If the download fails, any
// cached copy is returned regardless of age; without one the failure is
// RegistryUnavailable.
func (c *Client) fetch(ctx context.Context, rel, key string, ttl time.Duration) ([]byte, error) {
	key = c.cacheKey(key)
	url := c.resourceURL(rel)

	if entry, ok := c.cache.Read(key, cache.ReadOptions{TTL: ttl}); ok {
		c.logger.Debug("serving fresh cache entry", zap.String("key", key))
		return entry.Content, nil
	}
	stale, hasStale := c.cache.Read(key, cache.ReadOptions{AcceptStale: true})

	res, err := c.download(ctx, url, stale)
	if err == nil && res.notModified && !hasStale {
		err = errors.New("server answered 304 without a cached copy")
	}
	if err == nil {
		if res.notModified {
			meta := res.meta
			if meta.ETag == "" && meta.LastModified == "" {
				meta = stale.Meta
			}
			c.logger.Debug("resource not modified", zap.String("url", url))
			c.cache.Write(key, stale.Content, &meta)
			return stale.Content, nil
		}
		c.cache.Write(key, res.body, &res.meta)
		return res.body, nil
	}

	if hasStale {
		c.logger.Debug("network fetch failed, using cached copy",
			zap.String("url", url), zap.Time("cached_at", stale.ModTime), zap.Error(err))
		if c.onStale != nil {
			c.onStale(rel, err)
		}
		return stale.Content, nil
	}

	return nil, errs.New(errs.KindRegistryUnavailable, url, err).
		WithHint("check your network connection or set %s to a reachable registry", branding.EnvVar("registry_url"))
}

// download performs the GET with bounded retries. Network errors, 429 and 5xx
// are retried; other statuses fail immediately.
func (c *Client) download(ctx context.Context, url string, stale *cache.Entry) (*response, error) {
	op := func() (*response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, backoff.Permanent(fmt.Errorf("creating request: %w", err))
		}
		req.Header.Set("User-Agent", c.userAgent)
		if stale != nil {
			if stale.Meta.ETag != "" {
				req.Header.Set("If-None-Match", stale.Meta.ETag)
			}
			if stale.Meta.LastModified != "" {
				req.Header.Set("If-Modified-Since", stale.Meta.LastModified)
			}
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetching %s: %w", url, err)
		}
		defer resp.Body.Close()

		meta := cache.Meta{
			ETag:         resp.Header.Get("ETag"),
			LastModified: resp.Header.Get("Last-Modified"),
		}

		switch {
		case resp.StatusCode == http.StatusNotModified:
			return &response{notModified: true, meta: meta}, nil
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			return nil, &HTTPError{StatusCode: resp.StatusCode, URL: url}
		case resp.StatusCode < 200 || resp.StatusCode >= 300:
			return nil, backoff.Permanent(&HTTPError{StatusCode: resp.StatusCode, URL: url})
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize+1))
		if err != nil {
			return nil, fmt.Errorf("reading response body: %w", err)
		}
		if len(body) > maxResponseSize {
			return nil, backoff.Permanent(fmt.Errorf("response from %s exceeds %d bytes", url, maxResponseSize))
		}
		return &response{body: body, meta: meta}, nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryDelay
	b.MaxInterval = 4 * c.retryDelay

	return backoff.Retry(ctx, op,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(c.maxTries),
		backoff.WithNotify(func(err error, next time.Duration) {
			c.logger.Debug("retrying registry fetch", zap.String("url", url), zap.Duration("in", next), zap.Error(err))
		}),
	)
}
