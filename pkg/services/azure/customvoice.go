package azure

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"github.com/voicelab/voiceplay-server/pkg/services"
	"github.com/voicelab/voiceplay-server/pkg/voiceconfig"
)

const subscriptionKeyHeader = "Ocp-Apim-Subscription-Key"

// CustomVoiceClient talks to the Custom Voice REST API, which hosts the
// Personal Voice project/consent/voice resources and their long-running
// operations.
type CustomVoiceClient struct {
	endpoint   string
	key        string
	apiVersion string
	hc         *retryablehttp.Client
	log        *logrus.Entry
}

// NewCustomVoiceClient fails with services.ErrCredentialMissing when the
// Speech key or region is absent, so callers can mark the integration
// unavailable instead of crashing.
func NewCustomVoiceClient(key, region, apiVersion string, log *logrus.Entry) (*CustomVoiceClient, error) {
	if strings.TrimSpace(key) == "" || strings.TrimSpace(region) == "" {
		return nil, services.ErrCredentialMissing
	}
	if strings.TrimSpace(apiVersion) == "" {
		apiVersion = voiceconfig.DefaultCustomVoiceAPIVersion
	}

	return &CustomVoiceClient{
		endpoint:   fmt.Sprintf("https://%s.api.cognitive.microsoft.com", region),
		key:        key,
		apiVersion: apiVersion,
		hc:         newHTTPClient(5 * time.Minute),
		log:        log.WithField("service", "azure-custom-voice"),
	}, nil
}

// SetEndpoint overrides the regional endpoint, used by tests.
func (c *CustomVoiceClient) SetEndpoint(endpoint string) {
	c.endpoint = strings.TrimRight(endpoint, "/")
}

func (c *CustomVoiceClient) resourceURL(path string) string {
	return fmt.Sprintf("%s/customvoice/%s?%s", c.endpoint, path,
		url.Values{"api-version": {c.apiVersion}}.Encode())
}

func (c *CustomVoiceClient) do(ctx context.Context, method, u string, contentType string, body []byte) (*http.Response, error) {
	var raw interface{}
	if body != nil {
		raw = body
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, u, raw)
	if err != nil {
		return nil, err
	}
	req.Header.Set(subscriptionKeyHeader, c.key)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return c.hc.Do(req)
}

// CreateProject creates (or overwrites) a Custom Voice project of kind
// PersonalVoice.
func (c *CustomVoiceClient) CreateProject(ctx context.Context, projectID, description string) (map[string]any, error) {
	if strings.TrimSpace(projectID) == "" {
		return nil, &services.ValidationError{Field: "project_id", Reason: "required"}
	}

	payload := map[string]any{"kind": "PersonalVoice"}
	if strings.TrimSpace(description) != "" {
		payload["description"] = strings.TrimSpace(description)
	}
	body, err := marshalJSON(payload)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, http.MethodPut, c.resourceURL("projects/"+projectID), "application/json", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	decoded := decodeBody(resp)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return decoded, apiError("project create", resp.StatusCode, decoded)
	}
	c.log.Infof("created personal voice project %s", projectID)
	return decoded, nil
}

// OperationRef identifies the long-running operation spawned by an upload.
type OperationRef struct {
	OperationID       string
	OperationLocation string
}

// ConsentUpload is the consent-statement audio plus the metadata the service
// verifies against the spoken statement.
type ConsentUpload struct {
	ConsentID       string
	ProjectID       string
	VoiceTalentName string
	CompanyName     string
	Locale          string
	Description     string
	Audio           services.UploadedFile
}

func (r *ConsentUpload) validate() error {
	required := []struct{ field, value string }{
		{"consent_id", r.ConsentID},
		{"project_id", r.ProjectID},
		{"voice_talent_name", r.VoiceTalentName},
		{"company_name", r.CompanyName},
		{"locale", r.Locale},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return &services.ValidationError{Field: f.field, Reason: "required"}
		}
	}
	if len(r.Audio.Content) == 0 {
		return &services.ValidationError{Field: "consent_audio", Reason: "required"}
	}
	return nil
}

// UploadConsent posts the consent audio as multipart/form-data. Consent ids
// are user-chosen; a 409 conflict means the consent already exists and is
// treated as an idempotent success by fetching the existing resource.
func (c *CustomVoiceClient) UploadConsent(ctx context.Context, req ConsentUpload) (map[string]any, *OperationRef, error) {
	if err := req.validate(); err != nil {
		return nil, nil, err
	}

	fields := map[string]string{
		"projectId":       req.ProjectID,
		"voiceTalentName": req.VoiceTalentName,
		"companyName":     req.CompanyName,
		"locale":          req.Locale,
	}
	if strings.TrimSpace(req.Description) != "" {
		fields["description"] = strings.TrimSpace(req.Description)
	}

	contentType, body, err := buildMultipart(fields, req.Audio)
	if err != nil {
		return nil, nil, err
	}

	resp, err := c.do(ctx, http.MethodPost, c.resourceURL("consents/"+req.ConsentID), contentType, body)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	op := &OperationRef{
		OperationID: parseOperationID(
			resp.Header.Get("Operation-Location"), resp.Header.Get("Operation-Id")),
		OperationLocation: resp.Header.Get("Operation-Location"),
	}
	decoded := decodeBody(resp)

	if resp.StatusCode == http.StatusConflict {
		c.log.Infof("consent %s already exists, reusing it", req.ConsentID)
		existing, err := c.GetConsent(ctx, req.ConsentID)
		if err != nil {
			return decoded, op, err
		}
		return existing, nil, nil
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return decoded, op, apiError("consent upload", resp.StatusCode, decoded)
	}
	return decoded, op, nil
}

// GetConsent fetches a consent resource by id.
func (c *CustomVoiceClient) GetConsent(ctx context.Context, consentID string) (map[string]any, error) {
	if strings.TrimSpace(consentID) == "" {
		return nil, &services.ValidationError{Field: "consent_id", Reason: "required"}
	}

	resp, err := c.do(ctx, http.MethodGet, c.resourceURL("consents/"+consentID), "", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	decoded := decodeBody(resp)
	if resp.StatusCode != http.StatusOK {
		return decoded, apiError("get consent", resp.StatusCode, decoded)
	}
	return decoded, nil
}

// PersonalVoiceUpload carries the prompt audio that the service trains the
// speaker profile from.
type PersonalVoiceUpload struct {
	PersonalVoiceID string
	ProjectID       string
	ConsentID       string
	Description     string
	Prompts         []services.UploadedFile
}

// PersonalVoiceCreated is the outcome of a voice creation request. The
// speaker profile id is issued immediately; the operation completes
// asynchronously.
type PersonalVoiceCreated struct {
	SpeakerProfileID string
	Operation        OperationRef
	Body             map[string]any
}

// CreatePersonalVoice posts all prompt audio files as repeated `audiodata`
// multipart parts and returns the cloud-assigned speakerProfileId.
func (c *CustomVoiceClient) CreatePersonalVoice(ctx context.Context, req PersonalVoiceUpload) (*PersonalVoiceCreated, error) {
	switch {
	case strings.TrimSpace(req.PersonalVoiceID) == "":
		return nil, &services.ValidationError{Field: "personal_voice_id", Reason: "required"}
	case strings.TrimSpace(req.ProjectID) == "":
		return nil, &services.ValidationError{Field: "project_id", Reason: "required"}
	case strings.TrimSpace(req.ConsentID) == "":
		return nil, &services.ValidationError{Field: "consent_id", Reason: "required"}
	case len(req.Prompts) == 0:
		return nil, &services.ValidationError{Field: "prompt_audios", Reason: "at least one prompt audio file is required"}
	}

	fields := map[string]string{
		"projectId": req.ProjectID,
		"consentId": req.ConsentID,
	}
	if strings.TrimSpace(req.Description) != "" {
		fields["description"] = strings.TrimSpace(req.Description)
	}

	contentType, body, err := buildMultipart(fields, req.Prompts...)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, http.MethodPost, c.resourceURL("personalvoices/"+req.PersonalVoiceID), contentType, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	decoded := decodeBody(resp)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, apiError("personal voice creation", resp.StatusCode, decoded)
	}

	speakerProfileID, _ := decoded["speakerProfileId"].(string)
	return &PersonalVoiceCreated{
		SpeakerProfileID: speakerProfileID,
		Operation: OperationRef{
			OperationID: parseOperationID(
				resp.Header.Get("Operation-Location"), resp.Header.Get("Operation-Id")),
			OperationLocation: resp.Header.Get("Operation-Location"),
		},
		Body: decoded,
	}, nil
}

// GetPersonalVoice fetches a personal voice resource. The speakerProfileId
// is included once the resource is ready.
func (c *CustomVoiceClient) GetPersonalVoice(ctx context.Context, personalVoiceID string) (map[string]any, string, error) {
	if strings.TrimSpace(personalVoiceID) == "" {
		return nil, "", &services.ValidationError{Field: "personal_voice_id", Reason: "required"}
	}

	resp, err := c.do(ctx, http.MethodGet, c.resourceURL("personalvoices/"+personalVoiceID), "", nil)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	decoded := decodeBody(resp)
	if resp.StatusCode != http.StatusOK {
		return decoded, "", apiError("get personal voice", resp.StatusCode, decoded)
	}
	speakerProfileID, _ := decoded["speakerProfileId"].(string)
	return decoded, speakerProfileID, nil
}

// GetOperation fetches the status document of a long-running operation.
func (c *CustomVoiceClient) GetOperation(ctx context.Context, operationID string) (map[string]any, error) {
	if strings.TrimSpace(operationID) == "" {
		return nil, &services.ValidationError{Field: "operation_id", Reason: "required"}
	}

	resp, err := c.do(ctx, http.MethodGet, c.resourceURL("operations/"+operationID), "", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	decoded := decodeBody(resp)
	if resp.StatusCode != http.StatusOK {
		return decoded, apiError("get operation", resp.StatusCode, decoded)
	}
	return decoded, nil
}

// WaitForOperation polls the operation until it reaches a terminal state
// (Succeeded or Failed) or the context/timeout expires.
func (c *CustomVoiceClient) WaitForOperation(ctx context.Context, operationID string, timeout, interval time.Duration) (string, error) {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	deadline := time.Now().Add(timeout)

	for {
		op, err := c.GetOperation(ctx, operationID)
		if err != nil {
			return "", err
		}

		status, _ := op["status"].(string)
		if status == "Succeeded" || status == "Failed" {
			return status, nil
		}

		if time.Now().After(deadline) {
			return "", fmt.Errorf("timed out waiting for operation %s", operationID)
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(interval):
		}
	}
}

// buildMultipart assembles a multipart/form-data body with the given form
// fields and each file as an `audiodata` part carrying its detected audio
// content type (the API rejects untyped parts).
func buildMultipart(fields map[string]string, files ...services.UploadedFile) (string, []byte, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return "", nil, err
		}
	}

	for _, f := range files {
		contentType := f.ContentType
		if contentType == "" {
			contentType = mimetype.Detect(f.Content).String()
		}
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name="audiodata"; filename="%s"`, f.Filename))
		header.Set("Content-Type", contentType)

		part, err := w.CreatePart(header)
		if err != nil {
			return "", nil, err
		}
		if _, err = part.Write(f.Content); err != nil {
			return "", nil, err
		}
	}

	if err := w.Close(); err != nil {
		return "", nil, err
	}
	return w.FormDataContentType(), buf.Bytes(), nil
}
