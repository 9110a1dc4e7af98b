package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

type AppConfig struct {
	Logger *logrus.Logger

	RootWorkingDir string

	Client             ClientInfo         `yaml:"client"`
	LogSettings        LogSettings        `yaml:"log_settings"`
	UploadFileSettings UploadFileSettings `yaml:"upload_file_settings"`
	AzureSpeech        AzureSpeechService `yaml:"azure_speech"`
	DocumentServices   DocumentServices   `yaml:"document_services"`
	VoicePlay          VoicePlaySettings  `yaml:"voice_play"`
}

type ClientInfo struct {
	Port           int            `yaml:"port"`
	Debug          bool           `yaml:"debug"`
	Path           string         `yaml:"path"`
	ProxyHeader    string         `yaml:"proxy_header"`
	PrometheusConf PrometheusConf `yaml:"prometheus"`
}

type PrometheusConf struct {
	Enable      bool   `yaml:"enable"`
	MetricsPath string `yaml:"metrics_path"`
}

type LogSettings struct {
	LogLevel   *string `yaml:"log_level"`
	LogFile    string  `yaml:"log_file"`
	MaxSize    int     `yaml:"max_size"`
	MaxBackups int     `yaml:"max_backups"`
	MaxAge     int     `yaml:"max_age"`
}

type UploadFileSettings struct {
	MaxSize      uint64   `yaml:"max_size"`
	AllowedTypes []string `yaml:"allowed_types"`
}

// AzureSpeechService configures the Speech resource used for Personal Voice
// creation and synthesis. Every credential falls back to an environment
// variable; a missing credential disables the integration rather than
// erroring.
type AzureSpeechService struct {
	Region          string `yaml:"region"`
	SubscriptionKey string `yaml:"subscription_key"`
	Endpoint        string `yaml:"endpoint"`
	ResourceID      string `yaml:"resource_id"`
	APIVersion      string `yaml:"custom_voice_api_version"`
}

// DocumentServices configures the extraction collaborators shown on the
// comparison page.
type DocumentServices struct {
	DocumentIntelligence DocumentServiceInfo `yaml:"document_intelligence"`
	ContentUnderstanding DocumentServiceInfo `yaml:"content_understanding"`
}

type DocumentServiceInfo struct {
	Endpoint   string `yaml:"endpoint"`
	Key        string `yaml:"key"`
	Model      string `yaml:"model"`
	APIVersion string `yaml:"api_version"`
}

// VoicePlaySettings holds the local paths this app owns.
type VoicePlaySettings struct {
	ConfigPath    string `yaml:"config_path"`
	OutputsPath   string `yaml:"outputs_path"`
	VoicesCatalog string `yaml:"voices_catalog"`
}

var appCnf *AppConfig

// New applies defaults and environment fallbacks, creates the directories the
// app owns, and installs the config globally.
func New(a *AppConfig) (*AppConfig, error) {
	a.applyDefaults()
	a.applyEnv()

	for _, p := range []string{filepath.Dir(a.VoicePlay.ConfigPath), a.VoicePlay.OutputsPath} {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			if err = os.MkdirAll(p, 0755); err != nil {
				return nil, fmt.Errorf("failed to create directory %s: %w", p, err)
			}
		}
	}

	appCnf = a
	return a, nil
}

func (a *AppConfig) applyDefaults() {
	if a.Client.Port == 0 {
		a.Client.Port = 8080
	}
	if a.Client.PrometheusConf.MetricsPath == "" {
		a.Client.PrometheusConf.MetricsPath = "/metrics"
	}
	if a.Client.Path == "" {
		a.Client.Path = "client"
	}
	if a.UploadFileSettings.MaxSize == 0 {
		a.UploadFileSettings.MaxSize = 50 // MB
	}
	if len(a.UploadFileSettings.AllowedTypes) == 0 {
		a.UploadFileSettings.AllowedTypes = []string{
			"audio/wav", "audio/mpeg", "application/pdf", "image/png", "image/jpeg",
		}
	}
	if a.AzureSpeech.APIVersion == "" {
		a.AzureSpeech.APIVersion = DefaultCustomVoiceAPIVersion
	}
	di := &a.DocumentServices.DocumentIntelligence
	if di.Model == "" {
		di.Model = DefaultDocIntelModel
	}
	if di.APIVersion == "" {
		di.APIVersion = DefaultDocIntelAPIVersion
	}
	cu := &a.DocumentServices.ContentUnderstanding
	if cu.Model == "" {
		cu.Model = DefaultContentUnderstandingAnalyzer
	}
	if cu.APIVersion == "" {
		cu.APIVersion = DefaultContentUnderstandingAPIVersion
	}
	if a.VoicePlay.ConfigPath == "" {
		a.VoicePlay.ConfigPath = DefaultVoiceConfigPath
	}
	if a.VoicePlay.OutputsPath == "" {
		a.VoicePlay.OutputsPath = DefaultOutputsPath
	}
	if a.VoicePlay.VoicesCatalog == "" {
		a.VoicePlay.VoicesCatalog = DefaultVoicesCatalogPath
	}

	rel := func(p string) string {
		if a.RootWorkingDir != "" && !filepath.IsAbs(p) {
			return filepath.Join(a.RootWorkingDir, p)
		}
		return p
	}
	a.Client.Path = rel(a.Client.Path)
	a.VoicePlay.ConfigPath = rel(a.VoicePlay.ConfigPath)
	a.VoicePlay.OutputsPath = rel(a.VoicePlay.OutputsPath)
	a.VoicePlay.VoicesCatalog = rel(a.VoicePlay.VoicesCatalog)
}

// applyEnv fills missing credentials from the environment. Absence of a
// variable disables the matching integration, it never errors.
func (a *AppConfig) applyEnv() {
	fill := func(target *string, names ...string) {
		if strings.TrimSpace(*target) != "" {
			return
		}
		for _, name := range names {
			if v := strings.TrimSpace(os.Getenv(name)); v != "" {
				*target = v
				return
			}
		}
	}

	fill(&a.AzureSpeech.SubscriptionKey, "AZURE_SPEECH_KEY", "SPEECH_KEY")
	fill(&a.AzureSpeech.Region, "AZURE_SPEECH_REGION", "SPEECH_REGION")
	fill(&a.AzureSpeech.Endpoint, "AZURE_SPEECH_ENDPOINT")
	fill(&a.AzureSpeech.ResourceID, "AZURE_SPEECH_RESOURCE_ID")
	fill(&a.DocumentServices.DocumentIntelligence.Endpoint, "AZURE_DOCINTEL_ENDPOINT")
	fill(&a.DocumentServices.DocumentIntelligence.Key, "AZURE_DOCINTEL_KEY")
	fill(&a.DocumentServices.ContentUnderstanding.Endpoint, "AZURE_CONTENT_UNDERSTANDING_ENDPOINT")
	fill(&a.DocumentServices.ContentUnderstanding.Key, "AZURE_CONTENT_UNDERSTANDING_KEY")
}

func GetConfig() *AppConfig {
	return appCnf
}

func SetAppConfig(a *AppConfig) {
	appCnf = a
}
