package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// =====================================================
// TRANSPORT PORT
// =====================================================

// Transport sends a signed request body to a provider endpoint and
// decodes the structured reply into out. Timeouts and retries belong
// to the implementation, not to the adapters.
type Transport interface {
	PostJSON(ctx context.Context, url string, body interface{}, out interface{}) error
}

// HTTPTransport is the net/http implementation of Transport
type HTTPTransport struct {
	httpClient *http.Client
}

// NewHTTPTransport creates a transport with the given request timeout
func NewHTTPTransport(timeout time.Duration) *HTTPTransport {
	return &HTTPTransport{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// NewHTTPTransportWithClient wraps an existing http.Client
func NewHTTPTransportWithClient(client *http.Client) *HTTPTransport {
	return &HTTPTransport{httpClient: client}
}

// PostJSON posts body as JSON and decodes a 2xx JSON reply into out
func (t *HTTPTransport) PostJSON(ctx context.Context, url string, body interface{}, out interface{}) error {
	bodyJSON, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyJSON))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %v", ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: unexpected status %d", ErrTransport, resp.StatusCode)
	}

	if err := json.Unmarshal(bodyBytes, out); err != nil {
		return fmt.Errorf("%w: failed to parse response: %v", ErrTransport, err)
	}

	return nil
}
