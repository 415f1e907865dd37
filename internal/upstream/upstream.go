// Package upstream holds the request plumbing shared by the REST clients
// for search and stock footage.
package upstream

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/soyeahso/tubecrew/internal/domain"
)

// DefaultTimeout bounds a single auxiliary API call.
const DefaultTimeout = 30 * time.Second

// maxErrorBody caps how much of an error response is kept.
const maxErrorBody = 4096

// NewHTTPClient returns a client with the default timeout.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: DefaultTimeout}
}

// Fetch performs req and returns the response body. Transport failures and
// non-2xx statuses come back as *domain.UpstreamError for service.
func Fetch(client *http.Client, req *http.Request, service string) ([]byte, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, &domain.UpstreamError{Service: service, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.UpstreamError{Service: service, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return nil, &domain.UpstreamError{Service: service, Status: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

// DoJSON performs req and decodes a successful JSON response into out.
func DoJSON(client *http.Client, req *http.Request, service string, out any) error {
	req.Header.Set("Accept", "application/json")
	body, err := Fetch(client, req, service)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &domain.UpstreamError{Service: service, Err: fmt.Errorf("failed to parse response: %w", err)}
	}
	return nil
}
