package models

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/voicelab/voiceplay-server/pkg/config"
	"github.com/voicelab/voiceplay-server/pkg/services"
	"github.com/voicelab/voiceplay-server/pkg/services/azure"
	"github.com/voicelab/voiceplay-server/pkg/utils"
)

// SynthesisModel validates synthesis requests and delegates to the configured
// synthesizer.
type SynthesisModel struct {
	app     *config.AppConfig
	synth   services.Synthesizer
	loadCfg azure.ConfigLoader
	log     *logrus.Entry
}

func NewSynthesisModel(app *config.AppConfig, synth services.Synthesizer, loadCfg azure.ConfigLoader) *SynthesisModel {
	if app == nil {
		app = config.GetConfig()
	}
	return &SynthesisModel{
		app:     app,
		synth:   synth,
		loadCfg: loadCfg,
		log:     app.Logger.WithField("model", "synthesis"),
	}
}

// SpeechTokenInfo is handed to the browser Speech SDK for client-side playback.
type SpeechTokenInfo struct {
	Token  string `json:"token"`
	Region string `json:"region"`
}

// SpeechToken exchanges the configured subscription key for a short-lived
// bearer token so the key itself never reaches the browser.
func (m *SynthesisModel) SpeechToken(ctx context.Context) (*SpeechTokenInfo, error) {
	cfg, err := m.loadCfg()
	if err != nil {
		return nil, err
	}

	token, err := azure.IssueToken(ctx, cfg.SpeechKey, cfg.SpeechRegion)
	if err != nil {
		return nil, err
	}
	return &SpeechTokenInfo{Token: token, Region: cfg.SpeechRegion}, nil
}

func (m *SynthesisModel) ServiceStatus() ServiceStatus {
	return ServiceStatus{Service: m.synth.Service(), Available: m.synth.Available()}
}

// Synthesize runs one synthesis call. Input problems and cloud failures both
// come back as error rows, never as Go errors.
func (m *SynthesisModel) Synthesize(ctx context.Context, in services.SynthesisInput, sess *services.Session) *services.Result {
	if strings.TrimSpace(in.Text) == "" {
		return services.Failure(m.synth.Service(),
			&services.ValidationError{Field: "text", Reason: "nothing to synthesize"})
	}
	return m.synth.Synthesize(ctx, in, sess)
}

// OutputFilePath resolves a generated file name inside the outputs directory.
// Path traversal in the name is rejected.
func (m *SynthesisModel) OutputFilePath(name string) (string, error) {
	clean := utils.SanitizeFilename(name)
	if clean == "" || clean != name {
		return "", fmt.Errorf("invalid output file name %q", name)
	}

	path := filepath.Join(m.app.VoicePlay.OutputsPath, clean)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("output file %s not found", clean)
	}
	return path, nil
}
