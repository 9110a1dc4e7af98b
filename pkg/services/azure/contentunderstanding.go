package azure

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"github.com/voicelab/voiceplay-server/pkg/services"
)

const ContentUnderstandingServiceName = "azure-content-understanding"

// ContentUnderstandingExtractor analyzes a document with a Content
// Understanding analyzer and returns the markdown rendition of the content.
// It implements services.Extractor.
type ContentUnderstandingExtractor struct {
	endpoint   string
	key        string
	analyzer   string
	apiVersion string
	hc         *retryablehttp.Client
	available  bool
	log        *logrus.Entry
}

func NewContentUnderstandingExtractor(endpoint, key, analyzer, apiVersion string, log *logrus.Entry) *ContentUnderstandingExtractor {
	return &ContentUnderstandingExtractor{
		endpoint:   strings.TrimRight(endpoint, "/"),
		key:        key,
		analyzer:   analyzer,
		apiVersion: apiVersion,
		hc:         newHTTPClient(60 * time.Second),
		available:  strings.TrimSpace(endpoint) != "" && strings.TrimSpace(key) != "",
		log:        log.WithField("service", ContentUnderstandingServiceName),
	}
}

func (c *ContentUnderstandingExtractor) Service() string { return ContentUnderstandingServiceName }

func (c *ContentUnderstandingExtractor) Available() bool { return c.available }

// Extract submits the raw document bytes and polls the returned
// Operation-Location until the analysis settles.
func (c *ContentUnderstandingExtractor) Extract(ctx context.Context, file services.UploadedFile, sess *services.Session) *services.Result {
	result := &services.Result{Service: ContentUnderstandingServiceName}

	if !c.available {
		result.Error = services.ErrCredentialMissing.Error()
		return result
	}
	if len(file.Content) == 0 {
		result.Error = (&services.ValidationError{Field: "file", Reason: "empty"}).Error()
		return result
	}

	started := time.Now()

	u := fmt.Sprintf("%s/contentunderstanding/analyzers/%s:analyze?api-version=%s",
		c.endpoint, c.analyzer, c.apiVersion)
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, u, file.Content)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	req.Header.Set(subscriptionKeyHeader, c.key)
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.hc.Do(req)
	if err != nil {
		result.Error = fmt.Sprintf("analyze request failed: %v", err)
		return result
	}
	operationURL := resp.Header.Get("Operation-Location")
	body := decodeBody(resp)
	resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted && resp.StatusCode != http.StatusOK {
		result.Error = apiError("content analyze", resp.StatusCode, body).Error()
		result.ProcessingTime = time.Since(started).Seconds()
		return result
	}
	if operationURL == "" {
		result.Error = "content analyze accepted but no Operation-Location header was returned"
		result.ProcessingTime = time.Since(started).Seconds()
		return result
	}

	final, err := c.pollOperation(ctx, operationURL)
	result.ProcessingTime = time.Since(started).Seconds()
	if err != nil {
		result.Error = err.Error()
		return result
	}

	content := markdownContent(final)
	result.Payload = map[string]any{
		"filename":   file.Filename,
		"content":    content,
		"word_count": len(strings.Fields(content)),
		"analyzer":   c.analyzer,
	}
	return result
}

func (c *ContentUnderstandingExtractor) pollOperation(ctx context.Context, operationURL string) (map[string]any, error) {
	deadline := time.Now().Add(extractPollTimeout)

	for {
		req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, operationURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set(subscriptionKeyHeader, c.key)

		resp, err := c.hc.Do(req)
		if err != nil {
			return nil, fmt.Errorf("operation poll failed: %w", err)
		}
		body := decodeBody(resp)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, apiError("operation poll", resp.StatusCode, body)
		}

		status, _ := body["status"].(string)
		switch strings.ToLower(status) {
		case "succeeded":
			return body, nil
		case "failed":
			return nil, fmt.Errorf("content analysis failed: %s", errorMessage(body))
		}

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("content analysis did not finish within %s", extractPollTimeout)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(extractPollInterval):
		}
	}
}

// markdownContent digs the first content's markdown out of the operation
// result. The shape is result.contents[0].markdown.
func markdownContent(body map[string]any) string {
	res, _ := body["result"].(map[string]any)
	contents, _ := res["contents"].([]any)
	var parts []string
	for _, c := range contents {
		m, _ := c.(map[string]any)
		if md, _ := m["markdown"].(string); md != "" {
			parts = append(parts, md)
		}
	}
	return strings.Join(parts, "\n\n")
}
