package simulate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client  *http.Client
	timeout time.Duration
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// Get performs a GET request
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body
func (c *HTTPClient) Post(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// readResponseBody reads and closes the response body
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// postSegment submits one transcript segment. Returns false on any
// non-2xx outcome.
func postSegment(ctx context.Context, client *HTTPClient, baseURL, sessionID string, seg segmentPayload) bool {
	url := fmt.Sprintf("%s/v1/sessions/%s/segments", baseURL, sessionID)
	resp, err := client.Post(ctx, url, seg)
	if err != nil {
		return false
	}
	_, _ = readResponseBody(resp)
	return resp.StatusCode == http.StatusAccepted
}

// endSession finishes the session deterministically.
func endSession(ctx context.Context, client *HTTPClient, baseURL, sessionID string) error {
	url := fmt.Sprintf("%s/v1/sessions/%s/end", baseURL, sessionID)
	resp, err := client.Post(ctx, url, struct{}{})
	if err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	_, _ = readResponseBody(resp)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("end session: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// recordView mirrors the fields the simulator reports on.
type recordView struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Company string `json:"company"`
	Role    string `json:"role"`
}

type recordsView struct {
	Records []recordView `json:"records"`
}

// fetchRecords reads the final record set.
func fetchRecords(ctx context.Context, client *HTTPClient, baseURL string) ([]recordView, error) {
	resp, err := client.Get(ctx, baseURL+"/v1/records")
	if err != nil {
		return nil, fmt.Errorf("fetch records: %w", err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("fetch records: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch records: unexpected status %d", resp.StatusCode)
	}

	var out recordsView
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("fetch records: %w", err)
	}
	return out.Records, nil
}

type resolveView struct {
	Match *recordView `json:"match"`
}

// resolveQuery runs one free-text resolution and returns the matched name.
func resolveQuery(ctx context.Context, client *HTTPClient, baseURL, text string) (string, error) {
	resp, err := client.Post(ctx, baseURL+"/v1/resolve", map[string]any{"text": text, "reset": true})
	if err != nil {
		return "", fmt.Errorf("resolve: %w", err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return "", fmt.Errorf("resolve: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("resolve: unexpected status %d", resp.StatusCode)
	}

	var out resolveView
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("resolve: %w", err)
	}
	if out.Match == nil {
		return "", nil
	}
	return out.Match.Name, nil
}
