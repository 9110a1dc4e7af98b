package voiceconfig

import (
	"testing"
	"time"
)

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestAddProfile_IdsAndChoices(t *testing.T) {
	cfg := NewPersonalVoiceConfig()
	day := mustDate(t, "2026-01-12")

	alice := cfg.addProfile("Alice", "guid-1", day)
	if alice.ID != "profile_2026_01_12_1" {
		t.Errorf("expected profile_2026_01_12_1, got %s", alice.ID)
	}

	bob := cfg.addProfile("Bob", "guid-2", day)
	if bob.ID != "profile_2026_01_12_2" {
		t.Errorf("expected profile_2026_01_12_2, got %s", bob.ID)
	}

	choices := cfg.ProfileChoices()
	if len(choices) != 2 {
		t.Fatalf("expected 2 choices, got %d", len(choices))
	}
	if choices[0].Label != "Alice (2026-01-12)" || choices[0].ID != "profile_2026_01_12_1" {
		t.Errorf("unexpected first choice: %+v", choices[0])
	}
	if choices[1].Label != "Bob (2026-01-12)" || choices[1].ID != "profile_2026_01_12_2" {
		t.Errorf("unexpected second choice: %+v", choices[1])
	}
}

func TestAddProfile_IdsPairwiseDistinct(t *testing.T) {
	cfg := NewPersonalVoiceConfig()
	day := mustDate(t, "2026-03-01")

	seen := make(map[string]bool)
	for i := 0; i < 25; i++ {
		p := cfg.addProfile("P", "guid", day)
		if seen[p.ID] {
			t.Fatalf("duplicate id generated: %s", p.ID)
		}
		seen[p.ID] = true
	}
}

func TestAddProfile_FillsGaps(t *testing.T) {
	cfg := NewPersonalVoiceConfig()
	day := mustDate(t, "2026-03-01")

	cfg.addProfile("one", "g1", day)
	two := cfg.addProfile("two", "g2", day)
	cfg.addProfile("three", "g3", day)

	if err := cfg.RemoveProfile(two.ID); err != nil {
		t.Fatal(err)
	}

	p := cfg.addProfile("again", "g4", day)
	if p.ID != "profile_2026_03_01_2" {
		t.Errorf("expected the freed suffix 2 to be reused, got %s", p.ID)
	}
}

func TestAddProfile_SelectsNewProfile(t *testing.T) {
	cfg := NewPersonalVoiceConfig()
	cfg.AddProfile("first", "g1")
	p := cfg.AddProfile("second", "g2")

	got := cfg.SelectedProfile()
	if got == nil || got.ID != p.ID {
		t.Errorf("expected newly added profile %s selected, got %+v", p.ID, got)
	}
}

func TestSelectedProfile_DanglingIsAbsent(t *testing.T) {
	cfg := NewPersonalVoiceConfig()
	cfg.AddProfile("only", "g1")
	cfg.SelectedProfileID = "profile_does_not_exist"

	if got := cfg.SelectedProfile(); got != nil {
		t.Errorf("expected nil for dangling selection, got %+v", got)
	}
}

func TestRemoveProfile_ClearsSelection(t *testing.T) {
	cfg := NewPersonalVoiceConfig()
	p := cfg.AddProfile("only", "g1")

	if err := cfg.RemoveProfile(p.ID); err != nil {
		t.Fatal(err)
	}
	if cfg.SelectedProfileID != "" {
		t.Errorf("expected cleared selection, got %s", cfg.SelectedProfileID)
	}
	if cfg.SelectedProfile() != nil {
		t.Error("expected no selected profile after removal")
	}
}

func TestRenameProfile(t *testing.T) {
	cfg := NewPersonalVoiceConfig()
	p := cfg.AddProfile("old", "g1")

	if err := cfg.RenameProfile(p.ID, "new"); err != nil {
		t.Fatal(err)
	}
	if got := cfg.SelectedProfile(); got == nil || got.Name != "new" {
		t.Errorf("expected renamed profile, got %+v", got)
	}

	if err := cfg.RenameProfile(p.ID, "  "); err == nil {
		t.Error("expected error for empty name")
	}
	if err := cfg.RenameProfile("missing", "x"); err == nil {
		t.Error("expected error for unknown profile")
	}
}

func TestSelectProfile(t *testing.T) {
	cfg := NewPersonalVoiceConfig()
	first := cfg.AddProfile("first", "g1")
	cfg.AddProfile("second", "g2")

	if err := cfg.SelectProfile(first.ID); err != nil {
		t.Fatal(err)
	}
	if got := cfg.SelectedProfile(); got == nil || got.ID != first.ID {
		t.Errorf("expected %s selected, got %+v", first.ID, got)
	}

	if err := cfg.SelectProfile("missing"); err == nil {
		t.Error("expected error for unknown profile id")
	}
}

func TestValidateForSynthesis(t *testing.T) {
	cfg := NewPersonalVoiceConfig()
	if err := cfg.ValidateForSynthesis(); err == nil {
		t.Fatal("expected validation error for empty config")
	}

	cfg.SpeechKey = "k"
	cfg.SpeechRegion = "eastus"
	cfg.AddProfile("p", "spid")
	if err := cfg.ValidateForSynthesis(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}

	cfg.SelectedProfileID = "dangling"
	if err := cfg.ValidateForSynthesis(); err == nil {
		t.Error("expected validation error for dangling selection")
	}
}
