package github

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// errBadHTTPStatus is returned for any non-200 response.
var errBadHTTPStatus = errors.New("unexpected http status")

// Client fetches release metadata and assets over plain HTTPS.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a client whose requests are bounded by timeout.
func NewClient(timeout time.Duration, userAgent string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
	}
}

// TokenFromEnv returns the ambient API token, if any.
// Anonymous access works fine; a token only raises the rate limit.
func TokenFromEnv() string {
	return strings.TrimSpace(os.Getenv("GITHUB_TOKEN"))
}

// Get fetches url and returns the full response body.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", c.userAgent)

	if tok := TokenFromEnv(); tok != "" && strings.Contains(url, "github.com") {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	response, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = response.Body.Close()
	}()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s, %s: %w", url, response.Status, errBadHTTPStatus)
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	return body, nil
}
