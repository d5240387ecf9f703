package market

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// diskCache implements a simple disk cache for HTTP responses.
//
// Successful GET responses are stored as raw HTTP dumps named after the
// request, and served back until they are older than ttl.
type diskCache struct {
	base http.RoundTripper
	dir  string
	ttl  time.Duration
	log  zerolog.Logger
	now  func() time.Time
}

// RoundTrip implements the http.RoundTripper interface. It checks for a fresh
// cached response on disk first, otherwise it performs the request and caches
// the response if it is successful.
func (c *diskCache) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet || c.ttl <= 0 {
		return c.base.RoundTrip(req)
	}
	key := fmt.Sprintf("%x", sha1.Sum([]byte(req.Method+" "+req.URL.String())))

	if cached, err := c.get(key, req); err == nil { // Cache hit
		return cached, nil
	}

	resp, err := c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	c.log.Debug().Str("method", req.Method).Str("host", req.URL.Host).Str("path", req.URL.Path).Int("status", resp.StatusCode).Msg("http")
	if resp.StatusCode >= 300 {
		return resp, nil
	}
	// otherwise attempt to store it in cache
	if err := c.put(key, resp); err != nil {
		c.log.Warn().Err(err).Msg("cache write failed (ignored)")
	}
	return resp, nil
}

// get retrieves a fresh cached response from disk
func (c *diskCache) get(key string, req *http.Request) (*http.Response, error) {
	file := filepath.Join(c.dir, key)
	info, err := os.Stat(file)
	if err != nil {
		return nil, err
	}
	if c.now().Sub(info.ModTime()) > c.ttl {
		return nil, fmt.Errorf("cache entry %s expired", key)
	}
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewReader(content)), req)
}

// put stores a response to disk cache. The response body is left readable.
func (c *diskCache) put(key string, resp *http.Response) error {
	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.dir, key), content, 0o644)
}

// NewCachingClient returns an http.Client whose GET responses are cached in
// dir for ttl. A zero ttl disables the cache.
func NewCachingClient(dir string, ttl time.Duration, log zerolog.Logger) *http.Client {
	return &http.Client{
		Timeout: 30 * time.Second,
		Transport: &diskCache{
			base: http.DefaultTransport,
			dir:  dir,
			ttl:  ttl,
			log:  log,
			now:  time.Now,
		},
	}
}

// DefaultCacheDir returns the per user cache directory of the application.
func DefaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "suitsy")
}

// statusError is returned for non 200 responses.
type statusError struct {
	Code int
	URL  string
}

func (e *statusError) Error() string { return fmt.Sprintf("cannot http GET %s: %d %s", e.URL, e.Code, http.StatusText(e.Code)) }

// jwget performs an HTTP GET request and unmarshals the JSON response into the provided data structure.
func jwget(ctx context.Context, client *http.Client, addr string, data any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; suitsy)")
	req.Header.Set("Accept", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &statusError{Code: resp.StatusCode, URL: resp.Request.URL.Host + resp.Request.URL.Path}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, data)
}
