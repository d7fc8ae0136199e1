// Package blob is a minimal client for the durable asset store. The pipeline
// only needs one operation: upload a payload under a pathname and get back a
// public URL.
package blob

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://blob.vercel-storage.com"

// Client uploads assets to durable storage.
type Client interface {
	Put(ctx context.Context, pathname string, data []byte, contentType string) (string, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default store base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	token   string
	baseURL string
	http    *http.Client
}

// NewClient creates a blob store client.
func NewClient(token string, opts ...Option) Client {
	c := &httpClient{
		token:   token,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type putResponse struct {
	URL string `json:"url"`
}

// Put uploads data under pathname with public access and returns the durable
// URL assigned by the store.
func (c *httpClient) Put(ctx context.Context, pathname string, data []byte, contentType string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/"+pathname, bytes.NewReader(data))
	if err != nil {
		return "", eris.Wrap(err, "blob: create request")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Access", "public")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", eris.Wrap(err, "blob: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", eris.Wrap(err, "blob: read response")
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", eris.Errorf("blob: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var result putResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", eris.Wrap(err, "blob: unmarshal response")
	}
	if result.URL == "" {
		return "", eris.New("blob: response missing url")
	}
	return result.URL, nil
}
