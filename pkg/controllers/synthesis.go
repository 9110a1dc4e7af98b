package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/voicelab/voiceplay-server/pkg/config"
	"github.com/voicelab/voiceplay-server/pkg/models"
	"github.com/voicelab/voiceplay-server/pkg/services"
)

type SynthesisController struct {
	app    *config.AppConfig
	model  *models.SynthesisModel
	logger *logrus.Entry
}

func NewSynthesisController(app *config.AppConfig, model *models.SynthesisModel, logger *logrus.Logger) *SynthesisController {
	return &SynthesisController{
		app:    app,
		model:  model,
		logger: logger.WithField("controller", "synthesis"),
	}
}

type synthesizeRequest struct {
	Text                  string `json:"text"`
	OutputName            string `json:"output_name"`
	ProfileID             string `json:"profile_id"`
	CaptureWordBoundaries bool   `json:"capture_word_boundaries"`
	LogSSML               bool   `json:"log_ssml"`
}

func (s *SynthesisController) HandleSynthesize(c *fiber.Ctx) error {
	var req synthesizeRequest
	if err := c.BodyParser(&req); err != nil {
		return sendError(c, fiber.StatusBadRequest, err.Error())
	}

	sess := &services.Session{
		RequestID:         uuid.NewString(),
		SelectedProfileID: req.ProfileID,
	}
	s.logger.Infof("synthesis request %s: %d chars", sess.RequestID, len(req.Text))

	result := s.model.Synthesize(c.UserContext(), services.SynthesisInput{
		Text:                  req.Text,
		OutputName:            req.OutputName,
		CaptureWordBoundaries: req.CaptureWordBoundaries,
		LogSSML:               req.LogSSML,
	}, sess)
	return sendOK(c, result)
}

// HandleDownloadAudio serves a generated WAV file from the outputs directory.
func (s *SynthesisController) HandleDownloadAudio(c *fiber.Ctx) error {
	path, err := s.model.OutputFilePath(c.Params("name"))
	if err != nil {
		return sendError(c, fiber.StatusNotFound, err.Error())
	}
	return c.SendFile(path)
}

func (s *SynthesisController) HandleStatus(c *fiber.Ctx) error {
	return sendOK(c, s.model.ServiceStatus())
}

// HandleSpeechToken returns a short-lived token so the browser can talk to
// the Speech service without ever seeing the subscription key.
func (s *SynthesisController) HandleSpeechToken(c *fiber.Ctx) error {
	info, err := s.model.SpeechToken(c.UserContext())
	if err != nil {
		return sendError(c, fiber.StatusServiceUnavailable, err.Error())
	}
	return sendOK(c, info)
}
