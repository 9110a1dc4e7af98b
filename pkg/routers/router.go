package routers

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	rr "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"
	log "github.com/sirupsen/logrus"
	"github.com/voicelab/voiceplay-server/pkg/config"
	"github.com/voicelab/voiceplay-server/pkg/controllers"
	"github.com/voicelab/voiceplay-server/version"
)

// AppControllers bundles everything the router mounts.
type AppControllers struct {
	Pages         *controllers.PagesController
	VoiceConfig   *controllers.VoiceConfigController
	PersonalVoice *controllers.PersonalVoiceController
	Synthesis     *controllers.SynthesisController
	Extraction    *controllers.ExtractionController
	VoiceGallery  *controllers.VoiceGalleryController
}

func New(appCnf *config.AppConfig, ctrl *AppControllers) *fiber.App {
	// call recovery if panic happens
	defer func() {
		if r := recover(); r != nil {
			log.Error(r)
		}
	}()

	templateEngine := html.New(appCnf.Client.Path, ".html")

	if appCnf.Client.Debug {
		templateEngine.Reload(true)
		templateEngine.Debug(true)
	}

	cnf := fiber.Config{
		JSONEncoder: json.Marshal,
		JSONDecoder: json.Unmarshal,
		Views:       templateEngine,
		AppName:     "voicePlay version: " + version.Version,
		BodyLimit:   int(appCnf.UploadFileSettings.MaxSize+10) * 1024 * 1024,
	}

	if appCnf.Client.ProxyHeader != "" {
		cnf.ProxyHeader = appCnf.Client.ProxyHeader
	}

	app := fiber.New(cnf)

	if appCnf.Client.Debug {
		app.Use(logger.New())
	}
	if appCnf.Client.PrometheusConf.Enable {
		prometheus := fiberprometheus.New("voicePlay")
		prometheus.RegisterAt(app, appCnf.Client.PrometheusConf.MetricsPath)
		app.Use(prometheus.Middleware)
	}
	app.Use(rr.New())
	app.Use(cors.New(cors.Config{
		AllowMethods: "POST,GET,OPTIONS",
	}))

	app.Static("/assets", appCnf.Client.Path+"/assets")
	app.Static("/favicon.ico", appCnf.Client.Path+"/assets/imgs/favicon.ico")

	app.Get("/", ctrl.Pages.HandleIndex)
	app.Get("/gallery", ctrl.Pages.HandleGalleryPage)
	app.Get("/extraction", ctrl.Pages.HandleExtractionPage)
	app.Get("/pricing", ctrl.Pages.HandlePricingPage)
	app.Get("/healthCheck", controllers.HandleHealthCheck)

	app.Get("/download/audio/:name", ctrl.Synthesis.HandleDownloadAudio)

	api := app.Group("/api")

	cfg := api.Group("/config")
	cfg.Get("/", ctrl.VoiceConfig.HandleGetConfig)
	cfg.Post("/speechSettings", ctrl.VoiceConfig.HandleUpdateSpeechSettings)
	cfg.Post("/creationSettings", ctrl.VoiceConfig.HandleUpdateCreationSettings)

	profiles := api.Group("/profiles")
	profiles.Post("/add", ctrl.VoiceConfig.HandleAddProfile)
	profiles.Post("/select", ctrl.VoiceConfig.HandleSelectProfile)
	profiles.Post("/rename", ctrl.VoiceConfig.HandleRenameProfile)
	profiles.Post("/remove", ctrl.VoiceConfig.HandleRemoveProfile)

	voice := api.Group("/personalVoice")
	voice.Post("/create", ctrl.PersonalVoice.HandleCreateVoice)

	synthesis := api.Group("/synthesis")
	synthesis.Post("/speak", ctrl.Synthesis.HandleSynthesize)
	synthesis.Get("/status", ctrl.Synthesis.HandleStatus)
	synthesis.Get("/token", ctrl.Synthesis.HandleSpeechToken)

	extraction := api.Group("/extraction")
	extraction.Post("/analyze", ctrl.Extraction.HandleExtract)
	extraction.Get("/status", ctrl.Extraction.HandleStatuses)

	gallery := api.Group("/gallery")
	gallery.Get("/voices", ctrl.VoiceGallery.HandleListVoices)
	gallery.Get("/filters", ctrl.VoiceGallery.HandleFilters)
	gallery.Post("/preview", ctrl.VoiceGallery.HandlePreview)

	// all other requests
	app.Use(func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNotFound)
	})

	return app
}
