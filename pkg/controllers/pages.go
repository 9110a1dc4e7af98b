package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/voicelab/voiceplay-server/pkg/config"
	"github.com/voicelab/voiceplay-server/pkg/models"
	"github.com/voicelab/voiceplay-server/pkg/utils"
)

// PagesController renders the HTML pages. All dynamic data on the pages is
// fetched over the JSON endpoints; the templates only need initial state.
type PagesController struct {
	app        *config.AppConfig
	cfgModel   *models.VoiceConfigModel
	extraction *models.ExtractionModel
	gallery    *models.VoiceGalleryModel
	logger     *logrus.Entry
}

func NewPagesController(app *config.AppConfig, cfgModel *models.VoiceConfigModel, extraction *models.ExtractionModel, gallery *models.VoiceGalleryModel, logger *logrus.Logger) *PagesController {
	return &PagesController{
		app:        app,
		cfgModel:   cfgModel,
		extraction: extraction,
		gallery:    gallery,
		logger:     logger.WithField("controller", "pages"),
	}
}

// HandleIndex renders the Personal Voice page: settings, profile management,
// voice creation and synthesis.
func (p *PagesController) HandleIndex(c *fiber.Ctx) error {
	cfg, err := p.cfgModel.Get()
	if err != nil {
		p.logger.WithError(err).Error("failed to load voice config")
		return c.Render("index", fiber.Map{
			"Title":     "Personal Voice",
			"ConfigErr": err.Error(),
		})
	}

	return c.Render("index", fiber.Map{
		"Title":             "Personal Voice",
		"SpeechKeyMasked":   utils.MaskSecret(cfg.SpeechKey),
		"SpeechRegion":      cfg.SpeechRegion,
		"VoiceName":         cfg.VoiceName,
		"Language":          cfg.Language,
		"Profiles":          cfg.ProfileChoices(),
		"SelectedProfileID": cfg.SelectedProfileID,
	})
}

func (p *PagesController) HandleGalleryPage(c *fiber.Ctx) error {
	return c.Render("gallery", fiber.Map{
		"Title":     "Voice Gallery",
		"Locales":   p.gallery.Locales(),
		"Genders":   p.gallery.Genders(),
		"AgeGroups": p.gallery.AgeGroups(),
	})
}

func (p *PagesController) HandleExtractionPage(c *fiber.Ctx) error {
	return c.Render("extraction", fiber.Map{
		"Title":    "Document Extraction",
		"Services": p.extraction.Statuses(),
	})
}

// pricingCard is one offering on the pricing page. The cards are static
// editorial content, not fetched from Azure.
type pricingCard struct {
	Name        string
	Description string
	Features    []string
	Link        string
}

var pricingCards = []pricingCard{
	{
		Name:        "Neural Text-to-Speech",
		Description: "High-quality neural voices with natural-sounding speech synthesis for various scenarios.",
		Features:    []string{"400+ neural voices", "140+ languages/locales", "SSML customization", "Prosody controls"},
		Link:        "https://azure.microsoft.com/en-us/pricing/details/cognitive-services/speech-services/",
	},
	{
		Name:        "Personal Voice",
		Description: "Create custom neural voices using your own voice samples for personalized text-to-speech experiences.",
		Features:    []string{"Custom voice creation", "Personal voice cloning", "Speaker profile management", "Consent verification"},
		Link:        "https://azure.microsoft.com/en-us/pricing/details/cognitive-services/speech-services/",
	},
	{
		Name:        "Custom Neural Voice",
		Description: "Professional-grade custom voice models trained on extensive audio datasets for brand-specific voices.",
		Features:    []string{"Enterprise voice training", "Multi-style voices", "Emotion & expressiveness", "Advanced customization"},
		Link:        "https://azure.microsoft.com/en-us/pricing/details/cognitive-services/speech-services/",
	},
}

func (p *PagesController) HandlePricingPage(c *fiber.Ctx) error {
	return c.Render("pricing", fiber.Map{
		"Title": "Azure Speech Service Pricing",
		"Cards": pricingCards,
	})
}
