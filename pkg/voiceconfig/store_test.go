package voiceconfig

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/goccy/go-json"
)

func TestStore_LoadMissingFileReturnsDefaults(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), ".conf", "personal_voice_config.json"))

	cfg, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.VoiceName != DefaultVoiceName || cfg.Language != DefaultLanguage {
		t.Errorf("expected defaults, got %+v", cfg)
	}
	if len(cfg.Profiles) != 0 {
		t.Errorf("expected no profiles, got %d", len(cfg.Profiles))
	}
}

func TestStore_LoadMalformedFileReturnsReadError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := NewStore(path).Load()
	var re *ReadError
	if !errors.As(err, &re) {
		t.Fatalf("expected *ReadError, got %v", err)
	}
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".conf", "personal_voice_config.json")
	s := NewStore(path)

	cfg := NewPersonalVoiceConfig()
	cfg.SpeechKey = "k"
	cfg.SpeechRegion = "eastus"
	cfg.AddProfile("Alice", "guid-1")
	cfg.AddProfile("Bob", "guid-2")
	cfg.VoiceTalentName = "Alice Smith"
	cfg.CompanyName = "Contoso"

	if err := s.Save(cfg); err != nil {
		t.Fatal(err)
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(cfg, loaded) {
		t.Errorf("round trip mismatch:\nsaved:  %+v\nloaded: %+v", cfg, loaded)
	}

	// The persisted document must be a plain JSON object, editable by hand.
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatal(err)
	}
	if _, ok := doc["profiles"]; !ok {
		t.Error("expected profiles key in persisted document")
	}
}

func TestStore_SaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(filepath.Join(dir, "config.json"))
	if err := s.Save(NewPersonalVoiceConfig()); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "config.json" {
		t.Errorf("expected only config.json, got %v", entries)
	}
}

func TestStore_LegacyMigration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"speaker_profile_id":"abc-123"}`), 0644); err != nil {
		t.Fatal(err)
	}

	s := NewStore(path)
	cfg, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}

	if len(cfg.Profiles) != 1 {
		t.Fatalf("expected exactly one migrated profile, got %d", len(cfg.Profiles))
	}
	p := cfg.Profiles[0]
	if p.Name != "Migrated Profile" {
		t.Errorf("expected Migrated Profile, got %s", p.Name)
	}
	if p.SpeakerProfileID != "abc-123" {
		t.Errorf("expected abc-123, got %s", p.SpeakerProfileID)
	}
	if cfg.SelectedProfileID != p.ID {
		t.Errorf("expected migrated profile selected, got %s", cfg.SelectedProfileID)
	}

	// Persist, reload: migration must be idempotent and the legacy key gone.
	if err := s.Save(cfg); err != nil {
		t.Fatal(err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatal(err)
	}
	if _, ok := doc["speaker_profile_id"]; ok {
		t.Error("legacy speaker_profile_id must not be persisted")
	}

	again, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(cfg, again) {
		t.Errorf("second load after migration differs:\nfirst:  %+v\nsecond: %+v", cfg, again)
	}
}

func TestStore_SelectionDefaultsToFirstProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	doc := `{"profiles":[{"id":"profile_2026_01_12_1","name":"Alice","speaker_profile_id":"g1","creation_date":"2026-01-12"}]}`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewStore(path).Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.SelectedProfileID != "profile_2026_01_12_1" {
		t.Errorf("expected first profile selected, got %q", cfg.SelectedProfileID)
	}
}

func TestStore_EnvDefaultsFillMissingCredentials(t *testing.T) {
	t.Setenv("AZURE_SPEECH_KEY", "env-key")
	t.Setenv("AZURE_SPEECH_REGION", "westus")

	s := NewStore(filepath.Join(t.TempDir(), "config.json"))
	cfg, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.SpeechKey != "env-key" || cfg.SpeechRegion != "westus" {
		t.Errorf("expected env credentials, got key=%q region=%q", cfg.SpeechKey, cfg.SpeechRegion)
	}

	// File values win over environment.
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"speech_key":"file-key","speech_region":"eastus"}`), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err = NewStore(path).Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.SpeechKey != "file-key" || cfg.SpeechRegion != "eastus" {
		t.Errorf("expected file credentials to win, got key=%q region=%q", cfg.SpeechKey, cfg.SpeechRegion)
	}
}
