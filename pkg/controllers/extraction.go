package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/voicelab/voiceplay-server/pkg/config"
	"github.com/voicelab/voiceplay-server/pkg/models"
	"github.com/voicelab/voiceplay-server/pkg/services"
)

type ExtractionController struct {
	app    *config.AppConfig
	model  *models.ExtractionModel
	logger *logrus.Entry
}

func NewExtractionController(app *config.AppConfig, model *models.ExtractionModel, logger *logrus.Logger) *ExtractionController {
	return &ExtractionController{
		app:    app,
		model:  model,
		logger: logger.WithField("controller", "extraction"),
	}
}

// HandleExtract accepts one uploaded document and runs it through every
// configured extraction service, returning one result row per service.
func (e *ExtractionController) HandleExtract(c *fiber.Ctx) error {
	fh, err := c.FormFile("document")
	if err != nil {
		return sendError(c, fiber.StatusBadRequest, "a document file is required")
	}

	file, err := readUpload(fh)
	if err != nil {
		return sendError(c, fiber.StatusBadRequest, err.Error())
	}

	sess := &services.Session{RequestID: uuid.NewString()}
	e.logger.Infof("extraction request %s: %s (%d bytes)", sess.RequestID, file.Filename, len(file.Content))

	results, err := e.model.ExtractAll(c.UserContext(), file, sess)
	if err != nil {
		return sendError(c, fiber.StatusBadRequest, err.Error())
	}
	return sendOK(c, results)
}

func (e *ExtractionController) HandleStatuses(c *fiber.Ctx) error {
	return sendOK(c, e.model.Statuses())
}
