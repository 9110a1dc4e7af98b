package models

import (
	"bytes"
	"context"
	"encoding/binary"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/voicelab/voiceplay-server/pkg/services"
	"github.com/voicelab/voiceplay-server/pkg/services/azure"
)

// wavBytes builds a minimal PCM WAV file of roughly the given duration.
func wavBytes(t *testing.T, seconds int) []byte {
	t.Helper()

	const (
		sampleRate = 8000
		channels   = 1
		bits       = 16
	)
	byteRate := sampleRate * channels * bits / 8
	dataLen := seconds * byteRate

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(36+dataLen))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(channels))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(byteRate))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(channels*bits/8))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(bits))
	buf.WriteString("data")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(dataLen))
	buf.Write(make([]byte, dataLen))
	return buf.Bytes()
}

type fakeCustomVoiceClient struct {
	projectID        string
	consentUpload    azure.ConsentUpload
	voiceUpload      azure.PersonalVoiceUpload
	waitedOperations []string

	speakerProfileID string
	consentOp        *azure.OperationRef
}

func (f *fakeCustomVoiceClient) CreateProject(_ context.Context, projectID, _ string) (map[string]any, error) {
	f.projectID = projectID
	return map[string]any{"id": projectID}, nil
}

func (f *fakeCustomVoiceClient) UploadConsent(_ context.Context, req azure.ConsentUpload) (map[string]any, *azure.OperationRef, error) {
	f.consentUpload = req
	return map[string]any{"id": req.ConsentID}, f.consentOp, nil
}

func (f *fakeCustomVoiceClient) CreatePersonalVoice(_ context.Context, req azure.PersonalVoiceUpload) (*azure.PersonalVoiceCreated, error) {
	f.voiceUpload = req
	return &azure.PersonalVoiceCreated{
		SpeakerProfileID: f.speakerProfileID,
		Operation:        azure.OperationRef{OperationID: "op-voice-1"},
	}, nil
}

func (f *fakeCustomVoiceClient) WaitForOperation(_ context.Context, operationID string, _, _ time.Duration) (string, error) {
	f.waitedOperations = append(f.waitedOperations, operationID)
	return "Succeeded", nil
}

func newTestPersonalVoiceModel(t *testing.T, fake *fakeCustomVoiceClient) (*PersonalVoiceModel, *VoiceConfigModel) {
	t.Helper()

	app := testAppConfig(t)
	cfgModel := NewVoiceConfigModel(app)
	m := NewPersonalVoiceModel(app, cfgModel)
	m.newClient = func(_, _, _ string, _ *logrus.Entry) (customVoiceAPI, error) {
		return fake, nil
	}
	return m, cfgModel
}

func TestPersonalVoiceCreate(t *testing.T) {
	fake := &fakeCustomVoiceClient{
		speakerProfileID: "spid-xyz",
		consentOp:        &azure.OperationRef{OperationID: "op-consent-1"},
	}
	m, cfgModel := newTestPersonalVoiceModel(t, fake)

	result := m.Create(context.Background(), CreateVoiceRequest{
		ProjectID:       "proj-1",
		ConsentID:       "consent-1",
		PersonalVoiceID: "voice-1",
		VoiceTalentName: "Alice Example",
		CompanyName:     "Contoso",
		Locale:          "en-US",
		ConsentAudio:    services.UploadedFile{Filename: "consent.wav", Content: wavBytes(t, 10)},
		PromptAudios: []services.UploadedFile{
			{Filename: "prompt1.wav", Content: wavBytes(t, 10)},
			{Filename: "prompt2.wav", Content: wavBytes(t, 30)},
		},
	})

	if !result.Ok() {
		t.Fatalf("Create() error = %s", result.Error)
	}
	if got := result.Payload["speaker_profile_id"]; got != "spid-xyz" {
		t.Errorf("speaker_profile_id = %v", got)
	}
	if fake.projectID != "proj-1" {
		t.Errorf("project id sent = %q", fake.projectID)
	}
	if len(fake.voiceUpload.Prompts) != 2 {
		t.Errorf("prompt files sent = %d, want 2", len(fake.voiceUpload.Prompts))
	}
	if len(fake.waitedOperations) != 2 {
		t.Errorf("waited operations = %v, want consent and voice", fake.waitedOperations)
	}

	// The new speaker profile must be persisted and selected.
	cfg, err := cfgModel.Get()
	if err != nil {
		t.Fatal(err)
	}
	selected := cfg.SelectedProfile()
	if selected == nil || selected.SpeakerProfileID != "spid-xyz" {
		t.Fatalf("selected profile = %+v, want the created one", selected)
	}
	if selected.Name != "Alice Example" {
		t.Errorf("profile name = %q, want the talent name", selected.Name)
	}
}

func TestPersonalVoiceCreateUsesStoredDefaults(t *testing.T) {
	fake := &fakeCustomVoiceClient{speakerProfileID: "spid-1"}
	m, cfgModel := newTestPersonalVoiceModel(t, fake)

	if _, err := cfgModel.UpdateCreationSettings(CreationSettings{
		ProjectID:       "stored-proj",
		ConsentID:       "stored-consent",
		PersonalVoiceID: "stored-voice",
		VoiceTalentName: "Stored Talent",
		CompanyName:     "Stored Co",
	}); err != nil {
		t.Fatal(err)
	}

	result := m.Create(context.Background(), CreateVoiceRequest{
		ConsentAudio: services.UploadedFile{Filename: "consent.wav", Content: wavBytes(t, 10)},
		PromptAudios: []services.UploadedFile{{Filename: "p.wav", Content: wavBytes(t, 10)}},
	})

	if !result.Ok() {
		t.Fatalf("Create() error = %s", result.Error)
	}
	if fake.projectID != "stored-proj" {
		t.Errorf("project id = %q, want stored default", fake.projectID)
	}
	if fake.consentUpload.VoiceTalentName != "Stored Talent" {
		t.Errorf("talent name = %q, want stored default", fake.consentUpload.VoiceTalentName)
	}
}

func TestPersonalVoiceCreateMissingTalentName(t *testing.T) {
	m, _ := newTestPersonalVoiceModel(t, &fakeCustomVoiceClient{speakerProfileID: "x"})

	result := m.Create(context.Background(), CreateVoiceRequest{
		ProjectID:       "p",
		ConsentID:       "c",
		PersonalVoiceID: "v",
		CompanyName:     "Contoso",
		ConsentAudio:    services.UploadedFile{Filename: "consent.wav", Content: wavBytes(t, 10)},
		PromptAudios:    []services.UploadedFile{{Filename: "p.wav", Content: wavBytes(t, 10)}},
	})

	if result.Ok() || !strings.Contains(result.Error, "voice_talent_name") {
		t.Errorf("error = %q, want voice_talent_name validation", result.Error)
	}
}

func TestPersonalVoiceCreateRejectsShortPrompt(t *testing.T) {
	m, _ := newTestPersonalVoiceModel(t, &fakeCustomVoiceClient{speakerProfileID: "x"})

	result := m.Create(context.Background(), CreateVoiceRequest{
		ProjectID:       "p",
		ConsentID:       "c",
		PersonalVoiceID: "v",
		VoiceTalentName: "Alice",
		CompanyName:     "Contoso",
		ConsentAudio:    services.UploadedFile{Filename: "consent.wav", Content: wavBytes(t, 10)},
		PromptAudios:    []services.UploadedFile{{Filename: "short.wav", Content: wavBytes(t, 2)}},
	})

	if result.Ok() || !strings.Contains(result.Error, "duration") {
		t.Errorf("error = %q, want duration validation", result.Error)
	}
}

func TestPersonalVoiceCreateRejectsNonAudio(t *testing.T) {
	m, _ := newTestPersonalVoiceModel(t, &fakeCustomVoiceClient{speakerProfileID: "x"})

	result := m.Create(context.Background(), CreateVoiceRequest{
		ProjectID:       "p",
		ConsentID:       "c",
		PersonalVoiceID: "v",
		VoiceTalentName: "Alice",
		CompanyName:     "Contoso",
		ConsentAudio:    services.UploadedFile{Filename: "consent.txt", Content: []byte("not audio at all")},
		PromptAudios:    []services.UploadedFile{{Filename: "p.wav", Content: wavBytes(t, 10)}},
	})

	if result.Ok() || !strings.Contains(result.Error, "unsupported audio type") {
		t.Errorf("error = %q, want unsupported audio type", result.Error)
	}
}
