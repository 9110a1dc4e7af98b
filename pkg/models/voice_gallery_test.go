package models

import (
	"context"
	"os"
	"testing"

	"github.com/voicelab/voiceplay-server/pkg/config"
	"github.com/voicelab/voiceplay-server/pkg/services"
	"github.com/voicelab/voiceplay-server/pkg/services/azure"
)

const testCatalog = `[
	{"name": "Microsoft Server Speech Text to Speech Voice (en-US, JennyNeural)",
	 "display_name": "Jenny", "short_name": "en-US-JennyNeural",
	 "locale": "en-US", "locale_name": "English (United States)",
	 "gender": "Female", "age_group": "Adult", "voice_type": "Neural"},
	{"name": "Microsoft Server Speech Text to Speech Voice (en-US, GuyNeural)",
	 "display_name": "Guy", "short_name": "en-US-GuyNeural",
	 "locale": "en-US", "locale_name": "English (United States)",
	 "gender": "Male", "age_group": "Adult", "voice_type": "Neural"},
	{"name": "Microsoft Server Speech Text to Speech Voice (en-US, AnaNeural)",
	 "display_name": "Ana", "short_name": "en-US-AnaNeural",
	 "locale": "en-US", "locale_name": "English (United States)",
	 "gender": "Female", "age_group": "Child", "voice_type": "Neural"},
	{"name": "Microsoft Server Speech Text to Speech Voice (de-DE, KatjaNeural)",
	 "display_name": "Katja", "short_name": "de-DE-KatjaNeural",
	 "locale": "de-DE", "locale_name": "German (Germany)",
	 "gender": "Female", "age_group": "Adult", "voice_type": "Neural"}
]`

func newTestGalleryModel(t *testing.T) (*VoiceGalleryModel, *config.AppConfig) {
	t.Helper()

	app := testAppConfig(t)
	if err := os.WriteFile(app.VoicePlay.VoicesCatalog, []byte(testCatalog), 0644); err != nil {
		t.Fatal(err)
	}

	synth := azure.NewGallerySynthesizer("", "", app.VoicePlay.OutputsPath, app.Logger.WithField("test", t.Name()))
	return NewVoiceGalleryModel(app, synth), app
}

func TestGalleryVoicesFilters(t *testing.T) {
	m, _ := newTestGalleryModel(t)

	all := m.Voices(GalleryFilter{})
	if len(all) != 4 {
		t.Fatalf("unfiltered voices = %d, want 4", len(all))
	}
	// Sorted by locale then display name.
	if all[0].ShortName != "de-DE-KatjaNeural" {
		t.Errorf("first voice = %s", all[0].ShortName)
	}

	byLocale := m.Voices(GalleryFilter{Locale: "en-US"})
	if len(byLocale) != 3 {
		t.Errorf("en-US voices = %d, want 3", len(byLocale))
	}

	byGender := m.Voices(GalleryFilter{Locale: "en-US", Gender: "Male"})
	if len(byGender) != 1 || byGender[0].DisplayName != "Guy" {
		t.Errorf("male en-US voices = %+v", byGender)
	}

	byAge := m.Voices(GalleryFilter{AgeGroup: "Child"})
	if len(byAge) != 1 || byAge[0].DisplayName != "Ana" {
		t.Errorf("child voices = %+v", byAge)
	}

	bySearch := m.Voices(GalleryFilter{Search: "jenny"})
	if len(bySearch) != 1 || bySearch[0].DisplayName != "Jenny" {
		t.Errorf("search voices = %+v", bySearch)
	}

	// "All" from the dropdowns matches everything.
	if got := m.Voices(GalleryFilter{Locale: "All", Gender: "All", AgeGroup: "All"}); len(got) != 4 {
		t.Errorf("All filter voices = %d, want 4", len(got))
	}
}

func TestGalleryLocalesAndGenders(t *testing.T) {
	m, _ := newTestGalleryModel(t)

	locales := m.Locales()
	if len(locales) != 2 || locales[0] != "de-DE" || locales[1] != "en-US" {
		t.Errorf("locales = %v", locales)
	}
	genders := m.Genders()
	if len(genders) != 2 {
		t.Errorf("genders = %v", genders)
	}
	ages := m.AgeGroups()
	if len(ages) != 2 || ages[0] != "Adult" || ages[1] != "Child" {
		t.Errorf("age groups = %v", ages)
	}
}

func TestGalleryMissingCatalog(t *testing.T) {
	app := testAppConfig(t)
	synth := azure.NewGallerySynthesizer("", "", app.VoicePlay.OutputsPath, app.Logger.WithField("test", t.Name()))
	m := NewVoiceGalleryModel(app, synth)

	if got := m.Voices(GalleryFilter{}); len(got) != 0 {
		t.Errorf("voices from missing catalog = %d, want 0", len(got))
	}
}

func TestGalleryPreviewWithoutCredentials(t *testing.T) {
	m, _ := newTestGalleryModel(t)

	result := m.Preview(context.Background(), azure.GalleryPreviewInput{
		VoiceName: "en-US-JennyNeural", Text: "Hi",
	})
	if result.Ok() || result.Error != services.ErrCredentialMissing.Error() {
		t.Errorf("error = %q, want credential missing", result.Error)
	}
}
