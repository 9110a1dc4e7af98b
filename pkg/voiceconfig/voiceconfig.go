package voiceconfig

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultVoiceName             = "DragonLatestNeural"
	DefaultLanguage              = "en-US"
	DefaultCustomVoiceAPIVersion = "2024-02-01-preview"
)

// SpeakerProfile wraps a cloud-issued speaker profile id with local metadata.
// Immutable once created, except for rename.
type SpeakerProfile struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	SpeakerProfileID string `json:"speaker_profile_id"`
	CreationDate     string `json:"creation_date"`
}

// PersonalVoiceConfig is the persisted configuration for Personal Voice
// synthesis. It is saved as a human-editable JSON file; field names must stay
// stable across releases.
type PersonalVoiceConfig struct {
	SpeechKey    string `json:"speech_key"`
	SpeechRegion string `json:"speech_region"`
	VoiceName    string `json:"voice_name"`
	Language     string `json:"language"`

	Profiles          []SpeakerProfile `json:"profiles"`
	SelectedProfileID string           `json:"selected_profile_id"`

	// Fields used when creating a Personal Voice via the Custom Voice API.
	CustomVoiceAPIVersion string `json:"custom_voice_api_version"`
	ProjectID             string `json:"personal_voice_project_id"`
	ConsentID             string `json:"personal_voice_consent_id"`
	PersonalVoiceID       string `json:"personal_voice_id"`
	ConsentLocale         string `json:"personal_voice_consent_locale"`
	VoiceTalentName       string `json:"personal_voice_voice_talent_name"`
	CompanyName           string `json:"personal_voice_company_name"`
}

// NewPersonalVoiceConfig returns a config populated with defaults.
func NewPersonalVoiceConfig() *PersonalVoiceConfig {
	return &PersonalVoiceConfig{
		VoiceName:             DefaultVoiceName,
		Language:              DefaultLanguage,
		CustomVoiceAPIVersion: DefaultCustomVoiceAPIVersion,
		ConsentLocale:         DefaultLanguage,
	}
}

// AddProfile creates a new profile, appends it and selects it. The id scheme
// guarantees uniqueness by construction: profile_<YYYY_MM_DD>_<N> where N is
// the smallest positive integer not yet used for that date.
func (c *PersonalVoiceConfig) AddProfile(name, speakerProfileID string) *SpeakerProfile {
	return c.addProfile(name, speakerProfileID, time.Now())
}

func (c *PersonalVoiceConfig) addProfile(name, speakerProfileID string, on time.Time) *SpeakerProfile {
	date := on.Format("2006-01-02")
	if strings.TrimSpace(name) == "" {
		name = "Profile " + date
	}

	profile := SpeakerProfile{
		ID:               c.nextProfileID(date),
		Name:             name,
		SpeakerProfileID: speakerProfileID,
		CreationDate:     date,
	}
	c.Profiles = append(c.Profiles, profile)
	c.SelectedProfileID = profile.ID

	return &c.Profiles[len(c.Profiles)-1]
}

// nextProfileID returns profile_<YYYY_MM_DD>_<N> with the smallest unused N
// for the given date (ISO format).
func (c *PersonalVoiceConfig) nextProfileID(date string) string {
	prefix := "profile_" + strings.ReplaceAll(date, "-", "_") + "_"

	used := make(map[int]bool)
	for _, p := range c.Profiles {
		if !strings.HasPrefix(p.ID, prefix) {
			continue
		}
		if n, err := strconv.Atoi(strings.TrimPrefix(p.ID, prefix)); err == nil && n > 0 {
			used[n] = true
		}
	}

	n := 1
	for used[n] {
		n++
	}
	return fmt.Sprintf("%s%d", prefix, n)
}

// SelectedProfile returns the profile referenced by SelectedProfileID.
// An unset or dangling selection yields nil, not an error.
func (c *PersonalVoiceConfig) SelectedProfile() *SpeakerProfile {
	if c.SelectedProfileID == "" {
		return nil
	}
	for i := range c.Profiles {
		if c.Profiles[i].ID == c.SelectedProfileID {
			return &c.Profiles[i]
		}
	}
	return nil
}

// SelectProfile moves the selection to the given profile id.
func (c *PersonalVoiceConfig) SelectProfile(id string) error {
	for i := range c.Profiles {
		if c.Profiles[i].ID == id {
			c.SelectedProfileID = id
			return nil
		}
	}
	return fmt.Errorf("profile %s not found", id)
}

// RenameProfile changes the human label of a profile. The id and the cloud
// speaker profile id never change.
func (c *PersonalVoiceConfig) RenameProfile(id, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("profile name cannot be empty")
	}
	for i := range c.Profiles {
		if c.Profiles[i].ID == id {
			c.Profiles[i].Name = name
			return nil
		}
	}
	return fmt.Errorf("profile %s not found", id)
}

// RemoveProfile deletes a profile. Removing the selected profile clears the
// selection.
func (c *PersonalVoiceConfig) RemoveProfile(id string) error {
	for i := range c.Profiles {
		if c.Profiles[i].ID == id {
			c.Profiles = append(c.Profiles[:i], c.Profiles[i+1:]...)
			if c.SelectedProfileID == id {
				c.SelectedProfileID = ""
			}
			return nil
		}
	}
	return fmt.Errorf("profile %s not found", id)
}

// ProfileChoice is one selectable entry for the UI profile dropdown.
type ProfileChoice struct {
	Label string `json:"label"`
	ID    string `json:"id"`
}

// ProfileChoices returns display choices in insertion order, oldest first.
func (c *PersonalVoiceConfig) ProfileChoices() []ProfileChoice {
	choices := make([]ProfileChoice, 0, len(c.Profiles))
	for _, p := range c.Profiles {
		choices = append(choices, ProfileChoice{
			Label: fmt.Sprintf("%s (%s)", p.Name, p.CreationDate),
			ID:    p.ID,
		})
	}
	return choices
}

// ValidateForSynthesis reports every missing field required for a synthesis
// call, so the UI can show one actionable message.
func (c *PersonalVoiceConfig) ValidateForSynthesis() error {
	var missing []string
	if strings.TrimSpace(c.SpeechKey) == "" {
		missing = append(missing, "speech_key")
	}
	if strings.TrimSpace(c.SpeechRegion) == "" {
		missing = append(missing, "speech_region")
	}
	if strings.TrimSpace(c.SelectedProfileID) == "" {
		missing = append(missing, "selected_profile_id (no profile selected)")
	} else if c.SelectedProfile() == nil {
		missing = append(missing, "selected_profile_id (profile not found)")
	}
	if strings.TrimSpace(c.VoiceName) == "" {
		missing = append(missing, "voice_name")
	}
	if strings.TrimSpace(c.Language) == "" {
		missing = append(missing, "language")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required config values: %s", strings.Join(missing, ", "))
	}
	return nil
}
