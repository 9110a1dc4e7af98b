package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/voicelab/voiceplay-server/pkg/config"
	"github.com/voicelab/voiceplay-server/pkg/models"
	"github.com/voicelab/voiceplay-server/pkg/utils"
	"github.com/voicelab/voiceplay-server/pkg/voiceconfig"
)

type VoiceConfigController struct {
	app      *config.AppConfig
	cfgModel *models.VoiceConfigModel
	logger   *logrus.Entry
}

func NewVoiceConfigController(app *config.AppConfig, cfgModel *models.VoiceConfigModel, logger *logrus.Logger) *VoiceConfigController {
	return &VoiceConfigController{
		app:      app,
		cfgModel: cfgModel,
		logger:   logger.WithField("controller", "voice-config"),
	}
}

// configView is the config as shown to the client. The subscription key is
// masked; the full key never leaves the server.
type configView struct {
	SpeechKeyMasked   string                      `json:"speech_key_masked"`
	SpeechRegion      string                      `json:"speech_region"`
	VoiceName         string                      `json:"voice_name"`
	Language          string                      `json:"language"`
	SelectedProfileID string                      `json:"selected_profile_id"`
	Profiles          []voiceconfig.ProfileChoice `json:"profiles"`
	ProjectID         string                      `json:"project_id"`
	ConsentID         string                      `json:"consent_id"`
	PersonalVoiceID   string                      `json:"personal_voice_id"`
	ConsentLocale     string                      `json:"consent_locale"`
	VoiceTalentName   string                      `json:"voice_talent_name"`
	CompanyName       string                      `json:"company_name"`
}

func newConfigView(cfg *voiceconfig.PersonalVoiceConfig) configView {
	return configView{
		SpeechKeyMasked:   utils.MaskSecret(cfg.SpeechKey),
		SpeechRegion:      cfg.SpeechRegion,
		VoiceName:         cfg.VoiceName,
		Language:          cfg.Language,
		SelectedProfileID: cfg.SelectedProfileID,
		Profiles:          cfg.ProfileChoices(),
		ProjectID:         cfg.ProjectID,
		ConsentID:         cfg.ConsentID,
		PersonalVoiceID:   cfg.PersonalVoiceID,
		ConsentLocale:     cfg.ConsentLocale,
		VoiceTalentName:   cfg.VoiceTalentName,
		CompanyName:       cfg.CompanyName,
	}
}

func (v *VoiceConfigController) HandleGetConfig(c *fiber.Ctx) error {
	cfg, err := v.cfgModel.Get()
	if err != nil {
		return sendError(c, fiber.StatusInternalServerError, err.Error())
	}
	return sendOK(c, newConfigView(cfg))
}

func (v *VoiceConfigController) HandleUpdateSpeechSettings(c *fiber.Ctx) error {
	var req models.SpeechSettings
	if err := c.BodyParser(&req); err != nil {
		return sendError(c, fiber.StatusBadRequest, err.Error())
	}

	cfg, err := v.cfgModel.UpdateSpeechSettings(req)
	if err != nil {
		return sendError(c, fiber.StatusInternalServerError, err.Error())
	}
	return sendOK(c, newConfigView(cfg))
}

func (v *VoiceConfigController) HandleUpdateCreationSettings(c *fiber.Ctx) error {
	var req models.CreationSettings
	if err := c.BodyParser(&req); err != nil {
		return sendError(c, fiber.StatusBadRequest, err.Error())
	}

	cfg, err := v.cfgModel.UpdateCreationSettings(req)
	if err != nil {
		return sendError(c, fiber.StatusInternalServerError, err.Error())
	}
	return sendOK(c, newConfigView(cfg))
}

type profileRequest struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	SpeakerProfileID string `json:"speaker_profile_id"`
}

// HandleAddProfile registers an already-existing cloud speaker profile id
// under a new local profile.
func (v *VoiceConfigController) HandleAddProfile(c *fiber.Ctx) error {
	var req profileRequest
	if err := c.BodyParser(&req); err != nil {
		return sendError(c, fiber.StatusBadRequest, err.Error())
	}
	if req.SpeakerProfileID == "" {
		return sendError(c, fiber.StatusBadRequest, "speaker_profile_id is required")
	}

	profile, err := v.cfgModel.AddProfile(req.Name, req.SpeakerProfileID)
	if err != nil {
		return sendError(c, fiber.StatusInternalServerError, err.Error())
	}
	return sendOK(c, profile)
}

func (v *VoiceConfigController) HandleSelectProfile(c *fiber.Ctx) error {
	return v.profileAction(c, v.cfgModel.SelectProfile)
}

func (v *VoiceConfigController) HandleRemoveProfile(c *fiber.Ctx) error {
	return v.profileAction(c, v.cfgModel.RemoveProfile)
}

func (v *VoiceConfigController) HandleRenameProfile(c *fiber.Ctx) error {
	var req profileRequest
	if err := c.BodyParser(&req); err != nil {
		return sendError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := v.cfgModel.RenameProfile(req.ID, req.Name); err != nil {
		return sendError(c, fiber.StatusBadRequest, err.Error())
	}
	return sendOK(c, nil)
}

func (v *VoiceConfigController) profileAction(c *fiber.Ctx, action func(string) error) error {
	var req profileRequest
	if err := c.BodyParser(&req); err != nil {
		return sendError(c, fiber.StatusBadRequest, err.Error())
	}
	if req.ID == "" {
		return sendError(c, fiber.StatusBadRequest, "profile id is required")
	}
	if err := action(req.ID); err != nil {
		return sendError(c, fiber.StatusBadRequest, err.Error())
	}
	return sendOK(c, nil)
}
