// Package httpclient is the JSON-over-HTTP base shared by the inventory and
// order store adapters.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jcmexdev/place-order/internal/pkg/requestmeta"
)

type Client struct {
	Name    string
	BaseURL *url.URL
	HTTP    *http.Client
}

// New parses baseURL and returns a client for the named upstream. A nil
// httpClient gets a traced client without a timeout: calls block until the
// upstream answers.
func New(name, baseURL string, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid %s base url %q: %w", name, baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid %s base url %q: scheme and host required", name, baseURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	return &Client{Name: name, BaseURL: u, HTTP: httpClient}, nil
}

// DoJSON sends body encoded as JSON to path, relative to the base URL.
// The caller closes the response body.
func (c *Client) DoJSON(ctx context.Context, method, path string, body any) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%s: encode request: %w", c.Name, err)
	}

	u := c.BaseURL.JoinPath(path)
	req, err := http.NewRequestWithContext(ctx, method, u.String(), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", c.Name, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	// propagate the inbound request id downstream
	if id := requestmeta.RequestID(ctx); id != "" {
		req.Header.Set(requestmeta.HeaderXRequestId, id)
	}

	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %s %s: %w", c.Name, method, u.Path, err)
	}
	return res, nil
}
