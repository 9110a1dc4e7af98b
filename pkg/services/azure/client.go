// Package azure implements the cloud collaborators behind the service
// handler contract: the Custom Voice REST API, Speech SDK synthesis, and the
// document extraction services.
package azure

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/hashicorp/go-retryablehttp"
)

func newHTTPClient(timeout time.Duration) *retryablehttp.Client {
	hc := retryablehttp.NewClient()
	hc.RetryMax = 2
	hc.RetryWaitMin = 500 * time.Millisecond
	hc.RetryWaitMax = 5 * time.Second
	hc.HTTPClient.Timeout = timeout
	// retryablehttp's default logger is too chatty for per-request use.
	hc.Logger = nil
	return hc
}

func marshalJSON(v any) ([]byte, error) {
	return json.Marshal(v)
}

// decodeBody always yields something renderable. Non-JSON responses are
// wrapped as {"raw": "..."} instead of failing the whole call.
func decodeBody(resp *http.Response) map[string]any {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return map[string]any{"raw": ""}
	}

	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil || body == nil {
		return map[string]any{"raw": string(raw)}
	}
	return body
}

// apiError summarizes a non-success response for the result row.
func apiError(action string, statusCode int, body map[string]any) error {
	if msg := errorMessage(body); msg != "" {
		return fmt.Errorf("%s failed: status=%d: %s", action, statusCode, msg)
	}
	return fmt.Errorf("%s failed: status=%d", action, statusCode)
}

func errorMessage(body map[string]any) string {
	errObj, ok := body["error"].(map[string]any)
	if !ok {
		if raw, ok := body["raw"].(string); ok {
			return strings.TrimSpace(raw)
		}
		return ""
	}
	msg, _ := errObj["message"].(string)
	return msg
}

// parseOperationID prefers the explicit Operation-Id header and otherwise
// extracts the id from an Operation-Location URL
// (.../customvoice/operations/{id}?api-version=...).
func parseOperationID(operationLocation, operationID string) string {
	if operationID != "" {
		return operationID
	}
	if operationLocation == "" {
		return ""
	}

	parsed, err := url.Parse(operationLocation)
	if err != nil {
		return ""
	}
	parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	for i, p := range parts {
		if p == "operations" && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	return ""
}
