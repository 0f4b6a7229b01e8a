package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ErrUnauthorized marks 401/403 responses so callers can drop a stale
// session instead of surfacing a generic failure.
var ErrUnauthorized = errors.New("backend rejected credentials")

// envelope is the `{success, data, message}` wrapper some backend
// routes use. Other routes return the payload bare; decodeBody
// supports both.
type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Detail  string          `json:"detail"`
}

func (e *envelope) errorMessage() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Message
}

// decodeBody unwraps the response payload into out. A 2xx body with
// success=false is a business failure and decodes to an error.
func decodeBody(r io.Reader, out interface{}) error {
	body, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err == nil {
		if env.Success != nil && !*env.Success {
			msg := env.errorMessage()
			if msg == "" {
				msg = "request rejected"
			}
			return fmt.Errorf("backend: %s", msg)
		}
		if len(env.Data) > 0 && string(env.Data) != "null" {
			if err := json.Unmarshal(env.Data, out); err != nil {
				return fmt.Errorf("decode response data: %w", err)
			}
			return nil
		}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorFromResponse turns a non-2xx response into an error carrying
// the backend's human-readable message when it sent one.
func errorFromResponse(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var env envelope
	if err := json.Unmarshal(body, &env); err == nil {
		if msg := env.errorMessage(); msg != "" {
			if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
				return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
			}
			return fmt.Errorf("backend error %d: %s", resp.StatusCode, msg)
		}
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return ErrUnauthorized
	}
	return fmt.Errorf("backend error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
}

func ok(resp *http.Response) bool {
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}
