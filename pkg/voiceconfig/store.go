package voiceconfig

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
	log "github.com/sirupsen/logrus"
)

const DefaultConfigPath = ".conf/personal_voice_config.json"

// Store loads and saves the PersonalVoiceConfig JSON file. The file is the
// single source of truth; environment variables only fill missing credential
// fields on load.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	if path == "" {
		path = DefaultConfigPath
	}
	return &Store{path: path}
}

func (s *Store) Path() string { return s.path }

// Load reads the config file. A missing file yields a default config; a file
// that exists but is not a valid JSON object yields a *ReadError. Legacy
// single-profile files are migrated in memory (the caller decides when to
// persist the migrated shape).
func (s *Store) Load() (*PersonalVoiceConfig, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return applyEnvDefaults(NewPersonalVoiceConfig()), nil
		}
		return nil, &ReadError{Path: s.path, Err: err}
	}

	cfg := NewPersonalVoiceConfig()
	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, &ReadError{Path: s.path, Err: err}
	}

	// Legacy shape carried the cloud id as a top-level field without any
	// profiles array. The field is not part of the current struct, so it is
	// re-read from the raw document.
	var legacy struct {
		SpeakerProfileID string `json:"speaker_profile_id"`
	}
	_ = json.Unmarshal(raw, &legacy)
	migrate(cfg, legacy.SpeakerProfileID)

	if cfg.SelectedProfileID == "" && len(cfg.Profiles) > 0 {
		cfg.SelectedProfileID = cfg.Profiles[0].ID
	}

	return applyEnvDefaults(cfg), nil
}

// migrate synthesizes a single profile from the legacy top-level
// speaker_profile_id. Running it on already-migrated data is a no-op.
func migrate(cfg *PersonalVoiceConfig, legacyID string) {
	if len(cfg.Profiles) > 0 || strings.TrimSpace(legacyID) == "" {
		return
	}

	date := time.Now().Format("2006-01-02")
	profile := SpeakerProfile{
		ID:               cfg.nextProfileID(date),
		Name:             "Migrated Profile",
		SpeakerProfileID: legacyID,
		CreationDate:     date,
	}
	cfg.Profiles = append(cfg.Profiles, profile)
	cfg.SelectedProfileID = profile.ID
	log.Infof("migrated legacy voice config into profile %s", profile.ID)
}

// Save persists the config atomically: write to a temp file in the same
// directory, then rename over the target so a concurrent load never observes
// a partial write. Parent directories are created as needed.
func (s *Store) Save(cfg *PersonalVoiceConfig) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &WriteError{Path: s.path, Err: err}
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return &WriteError{Path: s.path, Err: err}
	}

	tmp, err := os.CreateTemp(dir, ".personal_voice_config-*.tmp")
	if err != nil {
		return &WriteError{Path: s.path, Err: err}
	}
	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return &WriteError{Path: s.path, Err: err}
	}
	if err = tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return &WriteError{Path: s.path, Err: err}
	}
	if err = os.Rename(tmp.Name(), s.path); err != nil {
		_ = os.Remove(tmp.Name())
		return &WriteError{Path: s.path, Err: err}
	}

	return nil
}

// applyEnvDefaults fills missing credential fields from the environment. The
// file remains the primary source.
func applyEnvDefaults(cfg *PersonalVoiceConfig) *PersonalVoiceConfig {
	if strings.TrimSpace(cfg.SpeechKey) == "" {
		cfg.SpeechKey = firstEnv("AZURE_SPEECH_KEY", "SPEECH_KEY")
	}
	if strings.TrimSpace(cfg.SpeechRegion) == "" {
		cfg.SpeechRegion = firstEnv("AZURE_SPEECH_REGION", "SPEECH_REGION")
	}
	return cfg
}

func firstEnv(names ...string) string {
	for _, name := range names {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			return v
		}
	}
	return ""
}
