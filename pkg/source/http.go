package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/matzehuels/prgraph/pkg/dataset"
	"github.com/matzehuels/prgraph/pkg/errors"
	"github.com/matzehuels/prgraph/pkg/httputil"
)

// MaxDownloadBytes bounds the size of a remote export.
const MaxDownloadBytes = 256 << 20

// HTTP reads a dataset file published at an http(s) URL, such as an export
// on a file share. Transient failures are retried with backoff.
type HTTP struct {
	URL    string
	Format Format
	Opts   Options
	Client *http.Client

	// Attempts and Delay configure retries. Zero values use 3 attempts
	// starting at one second.
	Attempts int
	Delay    time.Duration
}

// NewHTTP resolves the format from the URL path.
func NewHTTP(rawURL string, opts Options) (*HTTP, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return nil, errors.New(errors.ErrCodeInvalidPath, "invalid URL %q", rawURL)
	}
	format, err := FormatOf(u.Path)
	if err != nil {
		return nil, err
	}
	return &HTTP{URL: rawURL, Format: format, Opts: opts}, nil
}

// Load implements Gateway.
func (g *HTTP) Load(ctx context.Context) (*dataset.Dataset, error) {
	client := g.Client
	if client == nil {
		client = &http.Client{Timeout: 2 * time.Minute}
	}
	attempts, delay := g.Attempts, g.Delay
	if attempts == 0 {
		attempts = 3
	}
	if delay == 0 {
		delay = time.Second
	}

	var body []byte
	err := httputil.Retry(ctx, attempts, delay, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.URL, nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return &httputil.RetryableError{Err: err}
		}
		defer resp.Body.Close()
		if err := httputil.StatusError(resp); err != nil {
			return err
		}

		body, err = io.ReadAll(io.LimitReader(resp.Body, MaxDownloadBytes+1))
		if err != nil {
			return &httputil.RetryableError{Err: err}
		}
		if len(body) > MaxDownloadBytes {
			return fmt.Errorf("download exceeds %d bytes", MaxDownloadBytes)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Source(err, "fetch %s", g)
	}

	ds, err := Decode(bytes.NewReader(body), g.Format, g.Opts)
	return ds, wrap(err, "read %s", g)
}

// String returns the URL without credentials.
func (g *HTTP) String() string {
	u, err := url.Parse(g.URL)
	if err != nil {
		return g.URL
	}
	return u.Redacted()
}
