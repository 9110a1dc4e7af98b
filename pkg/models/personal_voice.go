package models

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-audio/wav"
	"github.com/sirupsen/logrus"
	"github.com/voicelab/voiceplay-server/pkg/config"
	"github.com/voicelab/voiceplay-server/pkg/services"
	"github.com/voicelab/voiceplay-server/pkg/services/azure"
	"github.com/voicelab/voiceplay-server/pkg/voiceconfig"
)

const (
	minPromptDuration = 5 * time.Second
	maxPromptDuration = 90 * time.Second

	defaultOperationTimeout = 10 * time.Minute
	operationPollInterval   = 5 * time.Second
)

// customVoiceAPI is the slice of the Custom Voice client the creation flow
// needs, extracted so tests can substitute a fake.
type customVoiceAPI interface {
	CreateProject(ctx context.Context, projectID, description string) (map[string]any, error)
	UploadConsent(ctx context.Context, req azure.ConsentUpload) (map[string]any, *azure.OperationRef, error)
	CreatePersonalVoice(ctx context.Context, req azure.PersonalVoiceUpload) (*azure.PersonalVoiceCreated, error)
	WaitForOperation(ctx context.Context, operationID string, timeout, interval time.Duration) (string, error)
}

// PersonalVoiceModel drives the end-to-end Personal Voice creation flow:
// project, consent, voice, then registration of the resulting speaker profile
// in the local config.
type PersonalVoiceModel struct {
	app       *config.AppConfig
	cfgModel  *VoiceConfigModel
	log       *logrus.Entry
	newClient func(key, region, apiVersion string, log *logrus.Entry) (customVoiceAPI, error)
}

func NewPersonalVoiceModel(app *config.AppConfig, cfgModel *VoiceConfigModel) *PersonalVoiceModel {
	if app == nil {
		app = config.GetConfig()
	}
	return &PersonalVoiceModel{
		app:      app,
		cfgModel: cfgModel,
		log:      app.Logger.WithField("model", "personal-voice"),
		newClient: func(key, region, apiVersion string, log *logrus.Entry) (customVoiceAPI, error) {
			return azure.NewCustomVoiceClient(key, region, apiVersion, log)
		},
	}
}

// CreateVoiceRequest is one creation run. Resource ids default to the values
// stored in the config when left empty.
type CreateVoiceRequest struct {
	ProjectID       string
	ConsentID       string
	PersonalVoiceID string
	VoiceTalentName string
	CompanyName     string
	Locale          string
	Description     string
	ProfileName     string
	ConsentAudio    services.UploadedFile
	PromptAudios    []services.UploadedFile
}

// Create runs the full creation flow and, on success, stores the new speaker
// profile in the config and selects it. All failures come back as error rows.
func (m *PersonalVoiceModel) Create(ctx context.Context, req CreateVoiceRequest) *services.Result {
	const service = "azure-personal-voice-creation"
	result := &services.Result{Service: service}

	cfg, err := m.cfgModel.Get()
	if err != nil {
		result.Error = err.Error()
		return result
	}
	m.applyDefaults(&req, cfg)

	if err = m.validateRequest(&req); err != nil {
		result.Error = err.Error()
		return result
	}

	client, err := m.newClient(cfg.SpeechKey, cfg.SpeechRegion, cfg.CustomVoiceAPIVersion, m.log)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	started := time.Now()

	if _, err = client.CreateProject(ctx, req.ProjectID, req.Description); err != nil {
		result.Error = fmt.Sprintf("project creation failed: %v", err)
		return result
	}

	_, consentOp, err := client.UploadConsent(ctx, azure.ConsentUpload{
		ConsentID:       req.ConsentID,
		ProjectID:       req.ProjectID,
		VoiceTalentName: req.VoiceTalentName,
		CompanyName:     req.CompanyName,
		Locale:          req.Locale,
		Audio:           req.ConsentAudio,
	})
	if err != nil {
		result.Error = fmt.Sprintf("consent upload failed: %v", err)
		return result
	}
	if consentOp != nil && consentOp.OperationID != "" {
		status, err := client.WaitForOperation(ctx, consentOp.OperationID, defaultOperationTimeout, operationPollInterval)
		if err != nil {
			result.Error = fmt.Sprintf("consent operation failed: %v", err)
			return result
		}
		if status != "Succeeded" {
			result.Error = fmt.Sprintf("consent operation finished with status %s", status)
			return result
		}
	}

	created, err := client.CreatePersonalVoice(ctx, azure.PersonalVoiceUpload{
		PersonalVoiceID: req.PersonalVoiceID,
		ProjectID:       req.ProjectID,
		ConsentID:       req.ConsentID,
		Description:     req.Description,
		Prompts:         req.PromptAudios,
	})
	if err != nil {
		result.Error = fmt.Sprintf("personal voice creation failed: %v", err)
		return result
	}
	if created.Operation.OperationID != "" {
		status, err := client.WaitForOperation(ctx, created.Operation.OperationID, defaultOperationTimeout, operationPollInterval)
		if err != nil {
			result.Error = fmt.Sprintf("personal voice operation failed: %v", err)
			return result
		}
		if status != "Succeeded" {
			result.Error = fmt.Sprintf("personal voice operation finished with status %s", status)
			return result
		}
	}
	if created.SpeakerProfileID == "" {
		result.Error = "personal voice created but no speaker profile id was returned"
		return result
	}

	profileName := strings.TrimSpace(req.ProfileName)
	if profileName == "" {
		profileName = strings.TrimSpace(req.VoiceTalentName)
	}
	profile, err := m.cfgModel.AddProfile(profileName, created.SpeakerProfileID)
	if err != nil {
		result.Error = fmt.Sprintf("voice created but saving the profile failed: %v", err)
		return result
	}

	result.ProcessingTime = time.Since(started).Seconds()
	result.Payload = map[string]any{
		"speaker_profile_id": created.SpeakerProfileID,
		"profile_id":         profile.ID,
		"profile_name":       profile.Name,
		"project_id":         req.ProjectID,
		"consent_id":         req.ConsentID,
		"personal_voice_id":  req.PersonalVoiceID,
	}
	m.log.Infof("personal voice %s created, speaker profile %s registered as %s",
		req.PersonalVoiceID, created.SpeakerProfileID, profile.ID)
	return result
}

// applyDefaults fills empty request fields from the stored config so repeat
// runs reuse the same cloud resource ids.
func (m *PersonalVoiceModel) applyDefaults(req *CreateVoiceRequest, cfg *voiceconfig.PersonalVoiceConfig) {
	def := func(target *string, fallback string) {
		if strings.TrimSpace(*target) == "" {
			*target = fallback
		}
	}
	def(&req.ProjectID, cfg.ProjectID)
	def(&req.ConsentID, cfg.ConsentID)
	def(&req.PersonalVoiceID, cfg.PersonalVoiceID)
	def(&req.VoiceTalentName, cfg.VoiceTalentName)
	def(&req.CompanyName, cfg.CompanyName)
	def(&req.Locale, cfg.ConsentLocale)
	def(&req.Locale, voiceconfig.DefaultLanguage)
}

func (m *PersonalVoiceModel) validateRequest(req *CreateVoiceRequest) error {
	required := []struct{ field, value string }{
		{"project_id", req.ProjectID},
		{"consent_id", req.ConsentID},
		{"personal_voice_id", req.PersonalVoiceID},
		{"voice_talent_name", req.VoiceTalentName},
		{"company_name", req.CompanyName},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return &services.ValidationError{Field: f.field, Reason: "required"}
		}
	}

	if err := validateAudioFile(req.ConsentAudio, false); err != nil {
		return err
	}
	if len(req.PromptAudios) == 0 {
		return &services.ValidationError{Field: "prompt_audios", Reason: "at least one prompt audio file is required"}
	}
	for _, p := range req.PromptAudios {
		if err := validateAudioFile(p, true); err != nil {
			return err
		}
	}
	return nil
}

// validateAudioFile verifies the content is really WAV or MP3 audio and, for
// WAV prompt files, that the duration sits inside the accepted window. The
// checks run before any network call so a bad upload fails fast.
func validateAudioFile(f services.UploadedFile, checkDuration bool) error {
	if len(f.Content) == 0 {
		return &services.ValidationError{Field: f.Filename, Reason: "file is empty"}
	}

	mt := mimetype.Detect(f.Content)
	isWav := mt.Is("audio/wav") || mt.Is("audio/x-wav")
	isMp3 := mt.Is("audio/mpeg") || mt.Is("audio/mp3")
	if !isWav && !isMp3 {
		return &services.ValidationError{
			Field:  f.Filename,
			Reason: fmt.Sprintf("unsupported audio type %s, expected WAV or MP3", mt.String()),
		}
	}

	if checkDuration && isWav {
		dec := wav.NewDecoder(bytes.NewReader(f.Content))
		dur, err := dec.Duration()
		if err != nil {
			return &services.ValidationError{Field: f.Filename, Reason: "unreadable WAV header"}
		}
		if dur < minPromptDuration || dur > maxPromptDuration {
			return &services.ValidationError{
				Field: f.Filename,
				Reason: fmt.Sprintf("duration %.1fs outside the allowed %.0f-%.0fs range",
					dur.Seconds(), minPromptDuration.Seconds(), maxPromptDuration.Seconds()),
			}
		}
	}
	return nil
}
