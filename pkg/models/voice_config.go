package models

import (
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/voicelab/voiceplay-server/pkg/config"
	"github.com/voicelab/voiceplay-server/pkg/voiceconfig"
)

// VoiceConfigModel owns the persisted Personal Voice configuration. Every
// mutation is load-modify-save under one lock, so the JSON file stays the
// single source of truth and concurrent requests never interleave writes.
type VoiceConfigModel struct {
	app   *config.AppConfig
	store *voiceconfig.Store
	mu    sync.Mutex
	log   *logrus.Entry
}

func NewVoiceConfigModel(app *config.AppConfig) *VoiceConfigModel {
	if app == nil {
		app = config.GetConfig()
	}
	return &VoiceConfigModel{
		app:   app,
		store: voiceconfig.NewStore(app.VoicePlay.ConfigPath),
		log:   app.Logger.WithField("model", "voice-config"),
	}
}

// Get returns the current configuration. Legacy files are migrated in
// memory; the migrated shape reaches disk with the next save.
func (m *VoiceConfigModel) Get() (*voiceconfig.PersonalVoiceConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load()
}

func (m *VoiceConfigModel) load() (*voiceconfig.PersonalVoiceConfig, error) {
	return m.store.Load()
}

// SpeechSettings is the credential and voice portion of the config that the
// settings form edits.
type SpeechSettings struct {
	SpeechKey    string `json:"speech_key"`
	SpeechRegion string `json:"speech_region"`
	VoiceName    string `json:"voice_name"`
	Language     string `json:"language"`
}

// UpdateSpeechSettings overwrites the synthesis settings. Empty voice name or
// language fall back to the defaults rather than persisting blanks.
func (m *VoiceConfigModel) UpdateSpeechSettings(s SpeechSettings) (*voiceconfig.PersonalVoiceConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cfg, err := m.load()
	if err != nil {
		return nil, err
	}

	cfg.SpeechKey = strings.TrimSpace(s.SpeechKey)
	cfg.SpeechRegion = strings.TrimSpace(s.SpeechRegion)
	cfg.VoiceName = strings.TrimSpace(s.VoiceName)
	cfg.Language = strings.TrimSpace(s.Language)
	if cfg.VoiceName == "" {
		cfg.VoiceName = voiceconfig.DefaultVoiceName
	}
	if cfg.Language == "" {
		cfg.Language = voiceconfig.DefaultLanguage
	}

	if err = m.store.Save(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// CreationSettings are the Custom Voice resource ids used when creating a new
// Personal Voice.
type CreationSettings struct {
	ProjectID       string `json:"project_id"`
	ConsentID       string `json:"consent_id"`
	PersonalVoiceID string `json:"personal_voice_id"`
	ConsentLocale   string `json:"consent_locale"`
	VoiceTalentName string `json:"voice_talent_name"`
	CompanyName     string `json:"company_name"`
	APIVersion      string `json:"api_version"`
}

func (m *VoiceConfigModel) UpdateCreationSettings(s CreationSettings) (*voiceconfig.PersonalVoiceConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cfg, err := m.load()
	if err != nil {
		return nil, err
	}

	cfg.ProjectID = strings.TrimSpace(s.ProjectID)
	cfg.ConsentID = strings.TrimSpace(s.ConsentID)
	cfg.PersonalVoiceID = strings.TrimSpace(s.PersonalVoiceID)
	cfg.ConsentLocale = strings.TrimSpace(s.ConsentLocale)
	cfg.VoiceTalentName = strings.TrimSpace(s.VoiceTalentName)
	cfg.CompanyName = strings.TrimSpace(s.CompanyName)
	if v := strings.TrimSpace(s.APIVersion); v != "" {
		cfg.CustomVoiceAPIVersion = v
	}
	if cfg.ConsentLocale == "" {
		cfg.ConsentLocale = voiceconfig.DefaultLanguage
	}

	if err = m.store.Save(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// AddProfile registers a new cloud speaker profile id under a fresh local
// profile and selects it.
func (m *VoiceConfigModel) AddProfile(name, speakerProfileID string) (*voiceconfig.SpeakerProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cfg, err := m.load()
	if err != nil {
		return nil, err
	}

	profile := cfg.AddProfile(name, speakerProfileID)
	if err = m.store.Save(cfg); err != nil {
		return nil, err
	}
	m.log.Infof("added speaker profile %s (%s)", profile.ID, profile.Name)
	return profile, nil
}

func (m *VoiceConfigModel) SelectProfile(id string) error {
	return m.mutate(func(cfg *voiceconfig.PersonalVoiceConfig) error {
		return cfg.SelectProfile(id)
	})
}

func (m *VoiceConfigModel) RenameProfile(id, name string) error {
	return m.mutate(func(cfg *voiceconfig.PersonalVoiceConfig) error {
		return cfg.RenameProfile(id, name)
	})
}

func (m *VoiceConfigModel) RemoveProfile(id string) error {
	err := m.mutate(func(cfg *voiceconfig.PersonalVoiceConfig) error {
		return cfg.RemoveProfile(id)
	})
	if err == nil {
		m.log.Infof("removed speaker profile %s", id)
	}
	return err
}

func (m *VoiceConfigModel) mutate(fn func(*voiceconfig.PersonalVoiceConfig) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cfg, err := m.load()
	if err != nil {
		return err
	}
	if err = fn(cfg); err != nil {
		return err
	}
	return m.store.Save(cfg)
}

// ProfileChoices returns the dropdown entries for the current profiles.
func (m *VoiceConfigModel) ProfileChoices() ([]voiceconfig.ProfileChoice, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cfg, err := m.load()
	if err != nil {
		return nil, "", err
	}
	return cfg.ProfileChoices(), cfg.SelectedProfileID, nil
}
