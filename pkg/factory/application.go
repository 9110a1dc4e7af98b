package factory

import (
	"context"

	"github.com/voicelab/voiceplay-server/pkg/config"
	"github.com/voicelab/voiceplay-server/pkg/routers"
)

// Application is the root struct holding all dependencies.
type Application struct {
	Controllers *routers.AppControllers
	AppConfig   *config.AppConfig
	Ctx         context.Context
}

// Boot logs the effective service availability so a misconfigured deployment
// is visible right at startup.
func (a *Application) Boot() {
	log := a.AppConfig.Logger

	if a.AppConfig.AzureSpeech.SubscriptionKey == "" {
		log.Warnln("azure speech subscription key is not configured, synthesis features will be unavailable")
	}
	if a.AppConfig.DocumentServices.DocumentIntelligence.Endpoint == "" {
		log.Infoln("document intelligence is not configured")
	}
	if a.AppConfig.DocumentServices.ContentUnderstanding.Endpoint == "" {
		log.Infoln("content understanding is not configured")
	}
}
