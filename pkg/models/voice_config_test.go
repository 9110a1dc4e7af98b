package models

import (
	"strings"
	"testing"
)

func TestVoiceConfigModelProfileLifecycle(t *testing.T) {
	app := testAppConfig(t)
	m := NewVoiceConfigModel(app)

	profile, err := m.AddProfile("Alice", "spid-alice")
	if err != nil {
		t.Fatalf("AddProfile() error = %v", err)
	}
	if profile.SpeakerProfileID != "spid-alice" {
		t.Errorf("speaker profile id = %s", profile.SpeakerProfileID)
	}

	// A second model over the same path must see the persisted profile.
	m2 := NewVoiceConfigModel(app)
	choices, selected, err := m2.ProfileChoices()
	if err != nil {
		t.Fatalf("ProfileChoices() error = %v", err)
	}
	if len(choices) != 1 {
		t.Fatalf("choices = %d, want 1", len(choices))
	}
	if selected != profile.ID {
		t.Errorf("selected = %s, want %s (new profile auto-selected)", selected, profile.ID)
	}
	if !strings.HasPrefix(choices[0].Label, "Alice (") {
		t.Errorf("choice label = %q", choices[0].Label)
	}

	if err = m2.RenameProfile(profile.ID, "Alice Prod"); err != nil {
		t.Fatalf("RenameProfile() error = %v", err)
	}
	cfg, err := m2.Get()
	if err != nil {
		t.Fatal(err)
	}
	if got := cfg.SelectedProfile().Name; got != "Alice Prod" {
		t.Errorf("renamed profile name = %q", got)
	}
	if got := cfg.SelectedProfile().SpeakerProfileID; got != "spid-alice" {
		t.Errorf("rename must not touch the cloud id, got %q", got)
	}

	if err = m2.RemoveProfile(profile.ID); err != nil {
		t.Fatalf("RemoveProfile() error = %v", err)
	}
	cfg, err = m2.Get()
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Profiles) != 0 || cfg.SelectedProfileID != "" {
		t.Errorf("after removal: profiles = %d, selection = %q", len(cfg.Profiles), cfg.SelectedProfileID)
	}
}

func TestVoiceConfigModelSelectUnknownProfile(t *testing.T) {
	m := NewVoiceConfigModel(testAppConfig(t))

	if err := m.SelectProfile("profile_2026_01_01_1"); err == nil {
		t.Error("selecting an unknown profile must fail")
	}
}

func TestVoiceConfigModelUpdateSpeechSettings(t *testing.T) {
	m := NewVoiceConfigModel(testAppConfig(t))

	cfg, err := m.UpdateSpeechSettings(SpeechSettings{
		SpeechKey:    "key-1",
		SpeechRegion: "westeurope",
		VoiceName:    "",
		Language:     "de-DE",
	})
	if err != nil {
		t.Fatalf("UpdateSpeechSettings() error = %v", err)
	}
	if cfg.VoiceName != "DragonLatestNeural" {
		t.Errorf("empty voice name must fall back to default, got %q", cfg.VoiceName)
	}
	if cfg.Language != "de-DE" {
		t.Errorf("language = %q", cfg.Language)
	}

	reloaded, err := m.Get()
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.SpeechRegion != "westeurope" {
		t.Errorf("persisted region = %q", reloaded.SpeechRegion)
	}
}

func TestVoiceConfigModelUpdateCreationSettings(t *testing.T) {
	m := NewVoiceConfigModel(testAppConfig(t))

	cfg, err := m.UpdateCreationSettings(CreationSettings{
		ProjectID:       "proj-1",
		ConsentID:       "consent-1",
		PersonalVoiceID: "voice-1",
		VoiceTalentName: "Alice Example",
		CompanyName:     "Contoso",
	})
	if err != nil {
		t.Fatalf("UpdateCreationSettings() error = %v", err)
	}
	if cfg.ConsentLocale != "en-US" {
		t.Errorf("empty consent locale must default to en-US, got %q", cfg.ConsentLocale)
	}
	if cfg.ProjectID != "proj-1" || cfg.ConsentID != "consent-1" {
		t.Errorf("creation ids not stored: %+v", cfg)
	}
}
