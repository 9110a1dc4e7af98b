package factory

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/voicelab/voiceplay-server/pkg/config"
	"github.com/voicelab/voiceplay-server/pkg/models"
	"github.com/voicelab/voiceplay-server/pkg/services/azure"
)

func provideSynthesisModel(app *config.AppConfig, cfgModel *models.VoiceConfigModel) *models.SynthesisModel {
	// An externally issued Entra access token takes precedence over the
	// subscription key from the voice config file.
	authToken := ""
	if t := strings.TrimSpace(os.Getenv("AZURE_SPEECH_AUTH_TOKEN")); t != "" {
		authToken = azure.ComposeAADToken(app.AzureSpeech.ResourceID, t)
	}

	synth := azure.NewPersonalVoiceSynthesizer(
		cfgModel.Get, authToken, app.VoicePlay.OutputsPath, logrus.NewEntry(app.Logger))
	return models.NewSynthesisModel(app, synth, cfgModel.Get)
}

func provideExtractionModel(app *config.AppConfig) *models.ExtractionModel {
	entry := logrus.NewEntry(app.Logger)
	di := app.DocumentServices.DocumentIntelligence
	cu := app.DocumentServices.ContentUnderstanding

	return models.NewExtractionModel(app,
		azure.NewDocumentIntelligenceExtractor(di.Endpoint, di.Key, di.Model, di.APIVersion, entry),
		azure.NewContentUnderstandingExtractor(cu.Endpoint, cu.Key, cu.Model, cu.APIVersion, entry),
	)
}

func provideVoiceGalleryModel(app *config.AppConfig) *models.VoiceGalleryModel {
	synth := azure.NewGallerySynthesizer(
		app.AzureSpeech.SubscriptionKey, app.AzureSpeech.Region,
		app.VoicePlay.OutputsPath, logrus.NewEntry(app.Logger))
	return models.NewVoiceGalleryModel(app, synth)
}
