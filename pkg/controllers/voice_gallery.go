package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/voicelab/voiceplay-server/pkg/config"
	"github.com/voicelab/voiceplay-server/pkg/models"
	"github.com/voicelab/voiceplay-server/pkg/services/azure"
)

type VoiceGalleryController struct {
	app    *config.AppConfig
	model  *models.VoiceGalleryModel
	logger *logrus.Entry
}

func NewVoiceGalleryController(app *config.AppConfig, model *models.VoiceGalleryModel, logger *logrus.Logger) *VoiceGalleryController {
	return &VoiceGalleryController{
		app:    app,
		model:  model,
		logger: logger.WithField("controller", "voice-gallery"),
	}
}

func (g *VoiceGalleryController) HandleListVoices(c *fiber.Ctx) error {
	voices := g.model.Voices(models.GalleryFilter{
		Search:   c.Query("search"),
		Locale:   c.Query("locale"),
		Gender:   c.Query("gender"),
		AgeGroup: c.Query("age_group"),
	})
	return sendOK(c, voices)
}

func (g *VoiceGalleryController) HandleFilters(c *fiber.Ctx) error {
	return sendOK(c, fiber.Map{
		"locales":    g.model.Locales(),
		"genders":    g.model.Genders(),
		"age_groups": g.model.AgeGroups(),
	})
}

type previewRequest struct {
	VoiceName string  `json:"voice_name"`
	Locale    string  `json:"locale"`
	Text      string  `json:"text"`
	Rate      float64 `json:"rate"`
	Pitch     float64 `json:"pitch"`
	Volume    float64 `json:"volume"`
	LogSSML   bool    `json:"log_ssml"`
}

func (g *VoiceGalleryController) HandlePreview(c *fiber.Ctx) error {
	var req previewRequest
	if err := c.BodyParser(&req); err != nil {
		return sendError(c, fiber.StatusBadRequest, err.Error())
	}

	result := g.model.Preview(c.UserContext(), azure.GalleryPreviewInput{
		VoiceName: req.VoiceName,
		Locale:    req.Locale,
		Text:      req.Text,
		Rate:      req.Rate,
		Pitch:     req.Pitch,
		Volume:    req.Volume,
		LogSSML:   req.LogSSML,
	})
	return sendOK(c, result)
}
