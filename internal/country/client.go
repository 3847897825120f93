// Package country proxies the third-party countries and exchange-rate APIs
// behind the authorization gate.
package country

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const maxResponseBytes = 4 << 20

// APIError is a non-2xx response from an upstream API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("upstream: HTTP %d: %s", e.StatusCode, e.Message)
}

// IsRateLimited reports whether err is an upstream 429.
func IsRateLimited(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests
}

func statusIs(err error, codes ...int) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	for _, c := range codes {
		if apiErr.StatusCode == c {
			return true
		}
	}
	return false
}

// DefaultHTTPClient bounds every upstream call.
func DefaultHTTPClient() *http.Client {
	return &http.Client{Timeout: 10 * time.Second}
}

func normalizeBaseURL(raw, name string) (string, error) {
	raw = strings.TrimRight(strings.TrimSpace(raw), "/")
	if raw == "" {
		return "", fmt.Errorf("a valid URL must be specified for the %s API", name)
	}
	return raw, nil
}

// fetch performs a GET and returns the body and status. Non-2xx statuses are
// not turned into errors here; callers decide which ones they tolerate.
func fetch(ctx context.Context, client *http.Client, url string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read %s: %w", url, err)
	}
	return body, resp.StatusCode, nil
}

func getJSON(ctx context.Context, client *http.Client, url string, out any) error {
	body, status, err := fetch(ctx, client, url)
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return parseAPIError(status, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}
	if msg := errorMessage(body); msg != "" {
		apiErr.Message = msg
	} else {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}

// errorMessage extracts "error" or "message" from a JSON error body. The
// "error" member may be a string or an object with info/message.
func errorMessage(body []byte) string {
	var wire struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if json.Unmarshal(body, &wire) != nil {
		return ""
	}
	if len(wire.Error) > 0 {
		var s string
		if json.Unmarshal(wire.Error, &s) == nil {
			return s
		}
		var obj struct {
			Info    string `json:"info"`
			Message string `json:"message"`
		}
		if json.Unmarshal(wire.Error, &obj) == nil {
			if obj.Info != "" {
				return obj.Info
			}
			if obj.Message != "" {
				return obj.Message
			}
		}
		return string(wire.Error)
	}
	return wire.Message
}
