package models

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/voicelab/voiceplay-server/pkg/config"
)

func TestMain(m *testing.M) {
	root, err := os.MkdirTemp("", "voiceplay-models-*")
	if err != nil {
		panic(err)
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	appCnf := &config.AppConfig{
		Logger:         logger,
		RootWorkingDir: root,
	}
	if _, err = config.New(appCnf); err != nil {
		panic(err)
	}

	code := m.Run()
	_ = os.RemoveAll(root)
	os.Exit(code)
}

// testAppConfig clones the global config with per-test paths so tests never
// share state through the filesystem.
func testAppConfig(t *testing.T) *config.AppConfig {
	t.Helper()

	app := *config.GetConfig()
	app.VoicePlay.ConfigPath = filepath.Join(t.TempDir(), "personal_voice_config.json")
	app.VoicePlay.OutputsPath = t.TempDir()
	app.VoicePlay.VoicesCatalog = filepath.Join(t.TempDir(), "voices.json")
	return &app
}
