package models

import (
	"context"
	"fmt"

	"github.com/gabriel-vasile/mimetype"
	"github.com/sirupsen/logrus"
	"github.com/voicelab/voiceplay-server/pkg/config"
	"github.com/voicelab/voiceplay-server/pkg/services"
)

// ServiceStatus is one row of the availability panel.
type ServiceStatus struct {
	Service   string `json:"service"`
	Available bool   `json:"available"`
}

// ExtractionModel runs one uploaded document through every configured
// extraction service sequentially and collects the per-service result rows.
type ExtractionModel struct {
	app        *config.AppConfig
	extractors []services.Extractor
	log        *logrus.Entry
}

func NewExtractionModel(app *config.AppConfig, extractors ...services.Extractor) *ExtractionModel {
	if app == nil {
		app = config.GetConfig()
	}
	return &ExtractionModel{
		app:        app,
		extractors: extractors,
		log:        app.Logger.WithField("model", "extraction"),
	}
}

// Statuses lists every extraction service and whether its credentials are
// configured.
func (m *ExtractionModel) Statuses() []ServiceStatus {
	statuses := make([]ServiceStatus, 0, len(m.extractors))
	for _, ex := range m.extractors {
		statuses = append(statuses, ServiceStatus{Service: ex.Service(), Available: ex.Available()})
	}
	return statuses
}

// ExtractAll validates the upload once, then calls each service in turn. One
// failing service contributes an error row and the loop continues; rows come
// back in the registration order of the extractors.
func (m *ExtractionModel) ExtractAll(ctx context.Context, file services.UploadedFile, sess *services.Session) ([]*services.Result, error) {
	if err := m.validateUpload(file); err != nil {
		return nil, err
	}

	results := make([]*services.Result, 0, len(m.extractors))
	for _, ex := range m.extractors {
		if !ex.Available() {
			results = append(results, services.Failure(ex.Service(), services.ErrCredentialMissing))
			continue
		}

		m.log.Infof("extracting %s with %s", file.Filename, ex.Service())
		results = append(results, ex.Extract(ctx, file, sess))
	}
	return results, nil
}

// validateUpload enforces the configured size limit and sniffs the real
// content type rather than trusting the client header.
func (m *ExtractionModel) validateUpload(file services.UploadedFile) error {
	if len(file.Content) == 0 {
		return &services.ValidationError{Field: "file", Reason: "file is empty"}
	}

	maxBytes := m.app.UploadFileSettings.MaxSize * 1024 * 1024
	if uint64(len(file.Content)) > maxBytes {
		return &services.ValidationError{
			Field:  "file",
			Reason: fmt.Sprintf("file exceeds the %dMB limit", m.app.UploadFileSettings.MaxSize),
		}
	}

	mt := mimetype.Detect(file.Content)
	for _, allowed := range m.app.UploadFileSettings.AllowedTypes {
		if mt.Is(allowed) {
			return nil
		}
	}
	return &services.ValidationError{
		Field:  "file",
		Reason: fmt.Sprintf("file type %s is not allowed", mt.String()),
	}
}
