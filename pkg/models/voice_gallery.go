package models

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
	"github.com/voicelab/voiceplay-server/pkg/config"
	"github.com/voicelab/voiceplay-server/pkg/services"
	"github.com/voicelab/voiceplay-server/pkg/services/azure"
)

// GalleryVoice is one catalog entry of the stock neural voices.
type GalleryVoice struct {
	Name           string   `json:"name"`
	DisplayName    string   `json:"display_name"`
	ShortName      string   `json:"short_name"`
	Locale         string   `json:"locale"`
	LocaleName     string   `json:"locale_name"`
	Gender         string   `json:"gender"`
	AgeGroup       string   `json:"age_group,omitempty"`
	VoiceType      string   `json:"voice_type"`
	StyleList      []string `json:"style_list,omitempty"`
	WordsPerMinute string   `json:"words_per_minute,omitempty"`
	SampleText     string   `json:"sample_text,omitempty"`
}

// GalleryFilter narrows the catalog. Empty fields match everything; the
// special value "All" is treated as empty so it can be posted straight from
// the dropdowns.
type GalleryFilter struct {
	Search   string
	Locale   string
	Gender   string
	AgeGroup string
}

// VoiceGalleryModel serves the stock voice catalog and previews voices with
// prosody controls.
type VoiceGalleryModel struct {
	app   *config.AppConfig
	synth *azure.GallerySynthesizer
	log   *logrus.Entry

	once    sync.Once
	voices  []GalleryVoice
	loadErr error
}

func NewVoiceGalleryModel(app *config.AppConfig, synth *azure.GallerySynthesizer) *VoiceGalleryModel {
	if app == nil {
		app = config.GetConfig()
	}
	return &VoiceGalleryModel{
		app:   app,
		synth: synth,
		log:   app.Logger.WithField("model", "voice-gallery"),
	}
}

// catalog loads the voices file once. A missing or malformed catalog leaves
// the gallery empty; it never takes the rest of the app down.
func (m *VoiceGalleryModel) catalog() []GalleryVoice {
	m.once.Do(func() {
		raw, err := os.ReadFile(m.app.VoicePlay.VoicesCatalog)
		if err != nil {
			m.loadErr = err
			m.log.Warnf("voice catalog %s not readable: %v", m.app.VoicePlay.VoicesCatalog, err)
			return
		}
		if err = json.Unmarshal(raw, &m.voices); err != nil {
			m.loadErr = fmt.Errorf("malformed voice catalog: %w", err)
			m.log.Warnf("voice catalog %s malformed: %v", m.app.VoicePlay.VoicesCatalog, err)
		}
	})
	return m.voices
}

// Voices returns catalog entries matching the filter, sorted by locale then
// display name.
func (m *VoiceGalleryModel) Voices(filter GalleryFilter) []GalleryVoice {
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	locale := normalizeFilter(filter.Locale)
	gender := normalizeFilter(filter.Gender)
	age := normalizeFilter(filter.AgeGroup)

	var out []GalleryVoice
	for _, v := range m.catalog() {
		if locale != "" && !strings.EqualFold(v.Locale, locale) {
			continue
		}
		if gender != "" && !strings.EqualFold(v.Gender, gender) {
			continue
		}
		if age != "" && !strings.EqualFold(v.AgeGroup, age) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(v.DisplayName), search) &&
			!strings.Contains(strings.ToLower(v.ShortName), search) &&
			!strings.Contains(strings.ToLower(v.LocaleName), search) {
			continue
		}
		out = append(out, v)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Locale != out[j].Locale {
			return out[i].Locale < out[j].Locale
		}
		return out[i].DisplayName < out[j].DisplayName
	})
	return out
}

// Locales returns the distinct locales present in the catalog, sorted.
func (m *VoiceGalleryModel) Locales() []string {
	return m.distinct(func(v GalleryVoice) string { return v.Locale })
}

// Genders returns the distinct genders present in the catalog, sorted.
func (m *VoiceGalleryModel) Genders() []string {
	return m.distinct(func(v GalleryVoice) string { return v.Gender })
}

// AgeGroups returns the distinct age groups present in the catalog, sorted.
func (m *VoiceGalleryModel) AgeGroups() []string {
	return m.distinct(func(v GalleryVoice) string { return v.AgeGroup })
}

func (m *VoiceGalleryModel) distinct(key func(GalleryVoice) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, v := range m.catalog() {
		k := key(v)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Preview synthesizes a short sample of the given voice.
func (m *VoiceGalleryModel) Preview(ctx context.Context, in azure.GalleryPreviewInput) *services.Result {
	if in.Rate == 0 {
		in.Rate = 1.0
	}
	if in.Pitch == 0 {
		in.Pitch = 1.0
	}
	if in.Volume == 0 {
		in.Volume = 1.0
	}
	return m.synth.Preview(ctx, in)
}

func (m *VoiceGalleryModel) ServiceStatus() ServiceStatus {
	return ServiceStatus{Service: m.synth.Service(), Available: m.synth.Available()}
}

func normalizeFilter(v string) string {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, "all") {
		return ""
	}
	return v
}
