// Package updates checks installed distributions against the package
// index for newer releases.
package updates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/matzehuels/pkgsizer/pkg/cache"
	"github.com/matzehuels/pkgsizer/pkg/dist"
	"github.com/matzehuels/pkgsizer/pkg/errors"
)

const (
	// DefaultBaseURL is the JSON API of the public package index.
	DefaultBaseURL = "https://pypi.org"

	// DefaultTTL is how long index responses stay fresh in the cache.
	DefaultTTL = time.Hour

	userAgent = "pkgsizer/0.3.0"
)

// ReleaseInfo is the subset of index metadata the checker needs.
type ReleaseInfo struct {
	Version    string `json:"version"`
	UploadDate string `json:"upload_date,omitempty"`
	Homepage   string `json:"homepage,omitempty"`
	Summary    string `json:"summary,omitempty"`
}

// Client fetches release metadata from the package index, caching
// responses through the injected cache with a freshness window.
type Client struct {
	httpClient *http.Client
	baseURL    string
	cache      cache.Cache
	ttl        time.Duration
}

// NewClient builds a Client over the given cache. Pass a NullCache to
// disable caching.
func NewClient(c cache.Cache) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    DefaultBaseURL,
		cache:      c,
		ttl:        DefaultTTL,
	}
}

// WithBaseURL points the client at a different index, mainly for tests
// and private mirrors.
func (c *Client) WithBaseURL(url string) *Client {
	c.baseURL = url
	return c
}

type pypiResponse struct {
	Info struct {
		Version  string `json:"version"`
		HomePage string `json:"home_page"`
		Summary  string `json:"summary"`
	} `json:"info"`
	Releases map[string][]struct {
		UploadTime string `json:"upload_time"`
	} `json:"releases"`
}

// LatestRelease returns the newest published release of the named
// package, from cache when fresh. Transient index failures are retried
// with backoff before giving up.
func (c *Client) LatestRelease(ctx context.Context, name string) (*ReleaseInfo, error) {
	key := "pypi:" + dist.NormalizeName(name)

	if data, ok, err := c.cache.Get(ctx, key); err == nil && ok {
		var info ReleaseInfo
		if err := json.Unmarshal(data, &info); err == nil {
			return &info, nil
		}
	}

	var info *ReleaseInfo
	err := cache.RetryWithBackoff(ctx, func() error {
		var fetchErr error
		info, fetchErr = c.fetch(ctx, name)
		return fetchErr
	})
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(info); err == nil {
		_ = c.cache.Set(ctx, key, data, c.ttl)
	}
	return info, nil
}

func (c *Client) fetch(ctx context.Context, name string) (*ReleaseInfo, error) {
	url := fmt.Sprintf("%s/pypi/%s/json", c.baseURL, dist.NormalizeName(name))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "invalid index request")
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, cache.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "index request failed"))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, errors.New(errors.ErrCodePackageNotFound, "package %s not found on index", name)
	case resp.StatusCode >= 500:
		return nil, cache.Retryable(errors.New(errors.ErrCodeNetwork, "index returned %d for %s", resp.StatusCode, name))
	case resp.StatusCode != http.StatusOK:
		return nil, errors.New(errors.ErrCodeNetwork, "index returned %d for %s", resp.StatusCode, name)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, cache.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "failed reading index response"))
	}

	var parsed pypiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "malformed index response for %s", name)
	}

	info := &ReleaseInfo{
		Version:  parsed.Info.Version,
		Homepage: parsed.Info.HomePage,
		Summary:  parsed.Info.Summary,
	}
	if files := parsed.Releases[info.Version]; len(files) > 0 {
		info.UploadDate = files[0].UploadTime
	}
	return info, nil
}
