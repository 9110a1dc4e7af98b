package config

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

const sampleYaml = `
client:
  port: 9090
  debug: true
  path: ./client
azure_speech:
  region: eastus
  subscription_key: yaml-key
document_services:
  document_intelligence:
    endpoint: https://example.cognitiveservices.azure.com
    key: di-key
`

func TestNew_DefaultsAndYaml(t *testing.T) {
	var a AppConfig
	if err := yaml.Unmarshal([]byte(sampleYaml), &a); err != nil {
		t.Fatal(err)
	}
	a.RootWorkingDir = t.TempDir()

	cnf, err := New(&a)
	if err != nil {
		t.Fatal(err)
	}

	if cnf.Client.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cnf.Client.Port)
	}
	if cnf.AzureSpeech.APIVersion != DefaultCustomVoiceAPIVersion {
		t.Errorf("expected default api version, got %s", cnf.AzureSpeech.APIVersion)
	}
	if cnf.DocumentServices.DocumentIntelligence.Model != DefaultDocIntelModel {
		t.Errorf("expected default model, got %s", cnf.DocumentServices.DocumentIntelligence.Model)
	}
	if !filepath.IsAbs(cnf.VoicePlay.ConfigPath) {
		t.Errorf("expected config path resolved against working dir, got %s", cnf.VoicePlay.ConfigPath)
	}
	if _, err := os.Stat(cnf.VoicePlay.OutputsPath); err != nil {
		t.Errorf("expected outputs dir created: %v", err)
	}
	if GetConfig() != cnf {
		t.Error("expected New to install the global config")
	}
}

func TestNew_EnvFallbackOnlyFillsMissing(t *testing.T) {
	t.Setenv("AZURE_SPEECH_KEY", "env-key")
	t.Setenv("AZURE_SPEECH_REGION", "westus")
	t.Setenv("AZURE_DOCINTEL_KEY", "env-di-key")

	a := &AppConfig{RootWorkingDir: t.TempDir()}
	a.AzureSpeech.SubscriptionKey = "yaml-key"

	if _, err := New(a); err != nil {
		t.Fatal(err)
	}

	if a.AzureSpeech.SubscriptionKey != "yaml-key" {
		t.Errorf("yaml value must win, got %s", a.AzureSpeech.SubscriptionKey)
	}
	if a.AzureSpeech.Region != "westus" {
		t.Errorf("expected env region, got %s", a.AzureSpeech.Region)
	}
	if a.DocumentServices.DocumentIntelligence.Key != "env-di-key" {
		t.Errorf("expected env document key, got %s", a.DocumentServices.DocumentIntelligence.Key)
	}
}
