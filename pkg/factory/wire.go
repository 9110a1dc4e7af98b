//go:build wireinject
// +build wireinject

package factory

import (
	"context"

	"github.com/google/wire"
	"github.com/voicelab/voiceplay-server/pkg/config"
	"github.com/voicelab/voiceplay-server/pkg/controllers"
	"github.com/voicelab/voiceplay-server/pkg/models"
	"github.com/voicelab/voiceplay-server/pkg/routers"
)

// build the dependency set for cloud services and models
var modelSet = wire.NewSet(
	models.NewVoiceConfigModel,
	models.NewPersonalVoiceModel,
	provideSynthesisModel,
	provideExtractionModel,
	provideVoiceGalleryModel,
)

// build the dependency set for controllers
var controllerSet = wire.NewSet(
	controllers.NewPagesController,
	controllers.NewVoiceConfigController,
	controllers.NewPersonalVoiceController,
	controllers.NewSynthesisController,
	controllers.NewExtractionController,
	controllers.NewVoiceGalleryController,
)

// NewAppFactory is the injector function that wire will implement.
func NewAppFactory(ctx context.Context, appConfig *config.AppConfig) (*Application, error) {
	wire.Build(
		modelSet,
		controllerSet,
		wire.FieldsOf(new(*config.AppConfig), "Logger"),

		wire.Struct(new(routers.AppControllers), "*"),
		wire.Struct(new(Application), "*"),
	)
	return nil, nil // This return value is ignored.
}
