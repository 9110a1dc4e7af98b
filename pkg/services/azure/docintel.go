package azure

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"github.com/voicelab/voiceplay-server/pkg/services"
)

const (
	DocumentIntelligenceServiceName = "azure-document-intelligence"

	extractPollInterval = 2 * time.Second
	extractPollTimeout  = 3 * time.Minute
)

// DocumentIntelligenceExtractor runs a document through the Document
// Intelligence analyze API and returns the recognized text. It implements
// services.Extractor.
type DocumentIntelligenceExtractor struct {
	endpoint   string
	key        string
	model      string
	apiVersion string
	hc         *retryablehttp.Client
	available  bool
	log        *logrus.Entry
}

func NewDocumentIntelligenceExtractor(endpoint, key, model, apiVersion string, log *logrus.Entry) *DocumentIntelligenceExtractor {
	return &DocumentIntelligenceExtractor{
		endpoint:   strings.TrimRight(endpoint, "/"),
		key:        key,
		model:      model,
		apiVersion: apiVersion,
		hc:         newHTTPClient(60 * time.Second),
		available:  strings.TrimSpace(endpoint) != "" && strings.TrimSpace(key) != "",
		log:        log.WithField("service", DocumentIntelligenceServiceName),
	}
}

func (d *DocumentIntelligenceExtractor) Service() string { return DocumentIntelligenceServiceName }

func (d *DocumentIntelligenceExtractor) Available() bool { return d.available }

// Extract submits the file as a base64Source payload and polls the returned
// Operation-Location until the analysis settles.
func (d *DocumentIntelligenceExtractor) Extract(ctx context.Context, file services.UploadedFile, sess *services.Session) *services.Result {
	result := &services.Result{Service: DocumentIntelligenceServiceName}

	if !d.available {
		result.Error = services.ErrCredentialMissing.Error()
		return result
	}
	if len(file.Content) == 0 {
		result.Error = (&services.ValidationError{Field: "file", Reason: "empty"}).Error()
		return result
	}

	started := time.Now()

	u := fmt.Sprintf("%s/documentintelligence/documentModels/%s:analyze?api-version=%s",
		d.endpoint, d.model, d.apiVersion)
	payload, err := marshalJSON(map[string]string{
		"base64Source": base64.StdEncoding.EncodeToString(file.Content),
	})
	if err != nil {
		result.Error = fmt.Sprintf("failed to encode analyze request: %v", err)
		return result
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, u, payload)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	req.Header.Set(subscriptionKeyHeader, d.key)
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.hc.Do(req)
	if err != nil {
		result.Error = fmt.Sprintf("analyze request failed: %v", err)
		return result
	}
	operationURL := resp.Header.Get("Operation-Location")
	body := decodeBody(resp)
	resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted && resp.StatusCode != http.StatusOK {
		result.Error = apiError("document analyze", resp.StatusCode, body).Error()
		result.ProcessingTime = time.Since(started).Seconds()
		return result
	}
	if operationURL == "" {
		result.Error = "document analyze accepted but no Operation-Location header was returned"
		result.ProcessingTime = time.Since(started).Seconds()
		return result
	}

	final, err := d.pollOperation(ctx, operationURL)
	result.ProcessingTime = time.Since(started).Seconds()
	if err != nil {
		result.Error = err.Error()
		return result
	}

	analyzeResult, _ := final["analyzeResult"].(map[string]any)
	content, _ := analyzeResult["content"].(string)
	pages, _ := analyzeResult["pages"].([]any)

	result.Payload = map[string]any{
		"filename":   file.Filename,
		"content":    content,
		"page_count": len(pages),
		"word_count": len(strings.Fields(content)),
		"model":      d.model,
	}
	return result
}

func (d *DocumentIntelligenceExtractor) pollOperation(ctx context.Context, operationURL string) (map[string]any, error) {
	deadline := time.Now().Add(extractPollTimeout)

	for {
		req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, operationURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set(subscriptionKeyHeader, d.key)

		resp, err := d.hc.Do(req)
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
			return nil, fmt.Errorf("document analysis failed: %s", errorMessage(body))
		}

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("document analysis did not finish within %s", extractPollTimeout)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(extractPollInterval):
		}
	}
}
