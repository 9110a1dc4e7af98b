package controllers

import (
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/voicelab/voiceplay-server/pkg/config"
	"github.com/voicelab/voiceplay-server/pkg/models"
	"github.com/voicelab/voiceplay-server/pkg/services"
)

type PersonalVoiceController struct {
	app    *config.AppConfig
	model  *models.PersonalVoiceModel
	logger *logrus.Entry
}

func NewPersonalVoiceController(app *config.AppConfig, model *models.PersonalVoiceModel, logger *logrus.Logger) *PersonalVoiceController {
	return &PersonalVoiceController{
		app:    app,
		model:  model,
		logger: logger.WithField("controller", "personal-voice"),
	}
}

// HandleCreateVoice accepts a multipart form with one consent_audio file, one
// or more prompt_audios files and the creation metadata fields, and runs the
// whole creation flow synchronously.
func (p *PersonalVoiceController) HandleCreateVoice(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return sendError(c, fiber.StatusBadRequest, "expected a multipart form: "+err.Error())
	}

	req := models.CreateVoiceRequest{
		ProjectID:       formValue(form, "project_id"),
		ConsentID:       formValue(form, "consent_id"),
		PersonalVoiceID: formValue(form, "personal_voice_id"),
		VoiceTalentName: formValue(form, "voice_talent_name"),
		CompanyName:     formValue(form, "company_name"),
		Locale:          formValue(form, "locale"),
		Description:     formValue(form, "description"),
		ProfileName:     formValue(form, "profile_name"),
	}

	consentFiles := form.File["consent_audio"]
	if len(consentFiles) != 1 {
		return sendError(c, fiber.StatusBadRequest, "exactly one consent_audio file is required")
	}
	if req.ConsentAudio, err = readUpload(consentFiles[0]); err != nil {
		return sendError(c, fiber.StatusBadRequest, err.Error())
	}

	for _, fh := range form.File["prompt_audios"] {
		prompt, err := readUpload(fh)
		if err != nil {
			return sendError(c, fiber.StatusBadRequest, err.Error())
		}
		req.PromptAudios = append(req.PromptAudios, prompt)
	}
	if len(req.PromptAudios) == 0 {
		return sendError(c, fiber.StatusBadRequest, "at least one prompt_audios file is required")
	}

	requestID := uuid.NewString()
	p.logger.Infof("voice creation request %s: project=%s consent=%s voice=%s prompts=%d",
		requestID, req.ProjectID, req.ConsentID, req.PersonalVoiceID, len(req.PromptAudios))

	result := p.model.Create(c.UserContext(), req)
	return sendOK(c, result)
}

func formValue(form *multipart.Form, key string) string {
	if vals := form.Value[key]; len(vals) > 0 {
		return vals[0]
	}
	return ""
}

func readUpload(fh *multipart.FileHeader) (services.UploadedFile, error) {
	f, err := fh.Open()
	if err != nil {
		return services.UploadedFile{}, err
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return services.UploadedFile{}, err
	}
	return services.UploadedFile{
		Filename:    fh.Filename,
		Content:     content,
		ContentType: fh.Header.Get("Content-Type"),
	}, nil
}
