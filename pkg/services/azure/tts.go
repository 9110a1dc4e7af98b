package azure

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Microsoft/cognitive-services-speech-sdk-go/common"
	"github.com/Microsoft/cognitive-services-speech-sdk-go/speech"
	"github.com/sirupsen/logrus"
	"github.com/voicelab/voiceplay-server/pkg/services"
	"github.com/voicelab/voiceplay-server/pkg/utils"
	"github.com/voicelab/voiceplay-server/pkg/voiceconfig"
)

const (
	PersonalVoiceServiceName = "azure-personal-voice"

	defaultOutputName = "personal_voice_output.wav"
)

// ConfigLoader supplies the current persisted voice config. Loading per call
// keeps the synthesizer in sync with settings edited at runtime.
type ConfigLoader func() (*voiceconfig.PersonalVoiceConfig, error)

// PersonalVoiceSynthesizer synthesizes text with a Personal Voice speaker
// profile through the Speech SDK. It implements services.Synthesizer.
type PersonalVoiceSynthesizer struct {
	loadCfg   ConfigLoader
	authToken string
	outputDir string
	log       *logrus.Entry
}

// NewPersonalVoiceSynthesizer never fails: when credentials are absent the
// handler reports unavailable so the UI can grey it out. authToken is
// optional and takes the aad#resource#token shape for identity-based auth.
func NewPersonalVoiceSynthesizer(loadCfg ConfigLoader, authToken, outputDir string, log *logrus.Entry) *PersonalVoiceSynthesizer {
	return &PersonalVoiceSynthesizer{
		loadCfg:   loadCfg,
		authToken: authToken,
		outputDir: outputDir,
		log:       log.WithField("service", PersonalVoiceServiceName),
	}
}

func (p *PersonalVoiceSynthesizer) Service() string { return PersonalVoiceServiceName }

func (p *PersonalVoiceSynthesizer) Available() bool {
	cfg, err := p.loadCfg()
	if err != nil {
		return false
	}
	return strings.TrimSpace(cfg.SpeechRegion) != "" &&
		(strings.TrimSpace(cfg.SpeechKey) != "" || strings.TrimSpace(p.authToken) != "")
}

// Synthesize renders the text to a WAV file under the outputs directory and
// reports the outcome as a result row. SDK failures never escape as errors.
func (p *PersonalVoiceSynthesizer) Synthesize(ctx context.Context, in services.SynthesisInput, sess *services.Session) *services.Result {
	result := &services.Result{Service: PersonalVoiceServiceName}

	cfg, err := p.loadCfg()
	if err != nil {
		result.Error = err.Error()
		return result
	}
	if strings.TrimSpace(cfg.SpeechRegion) == "" ||
		(strings.TrimSpace(cfg.SpeechKey) == "" && strings.TrimSpace(p.authToken) == "") {
		result.Error = services.ErrCredentialMissing.Error()
		return result
	}

	if sess != nil && sess.SelectedProfileID != "" {
		// Session selection overrides the persisted one without mutating it.
		cfg.SelectedProfileID = sess.SelectedProfileID
	}

	if strings.TrimSpace(in.Text) == "" {
		result.Error = (&services.ValidationError{Field: "text", Reason: "empty"}).Error()
		return result
	}
	if err := p.validate(cfg); err != nil {
		result.Error = err.Error()
		return result
	}

	profile := cfg.SelectedProfile()
	p.log.Infof("personal voice synth start | region=%s voice=%s lang=%s speaker_profile_id=%s key=%s",
		cfg.SpeechRegion, cfg.VoiceName, cfg.Language, profile.SpeakerProfileID, utils.MaskSecret(cfg.SpeechKey))

	conf, err := p.speechConfig(cfg)
	if err != nil {
		result.Error = fmt.Sprintf("failed to create speech config: %v", err)
		return result
	}
	defer conf.Close()

	if err = conf.SetSpeechSynthesisOutputFormat(common.Riff24Khz16BitMonoPcm); err != nil {
		result.Error = fmt.Sprintf("failed to set output format: %v", err)
		return result
	}

	synthesizer, err := speech.NewSpeechSynthesizerFromConfig(conf, nil)
	if err != nil {
		result.Error = fmt.Sprintf("failed to create speech synthesizer: %v", err)
		return result
	}
	defer synthesizer.Close()

	var boundaries []map[string]any
	if in.CaptureWordBoundaries {
		synthesizer.SynthesisWordBoundary(func(event speech.SpeechSynthesisWordBoundaryEventArgs) {
			boundaries = append(boundaries, map[string]any{
				"audio_offset_ms": float64(event.AudioOffset) / 10000.0,
				"text_offset":     event.TextOffset,
				"word_length":     event.WordLength,
			})
		})
	}

	ssml := BuildPersonalVoiceSSML(in.Text, profile.SpeakerProfileID, cfg.VoiceName, cfg.Language)
	if in.LogSSML {
		p.log.Infof("personal voice SSML:\n%s", ssml)
	}

	outputName := utils.SanitizeFilename(in.OutputName)
	if outputName == "" {
		outputName = defaultOutputName
	}
	outputPath := filepath.Join(p.outputDir, outputName)
	if err = os.MkdirAll(p.outputDir, 0755); err != nil {
		result.Error = fmt.Sprintf("failed to create output directory: %v", err)
		return result
	}

	started := time.Now()
	task := synthesizer.StartSpeakingSsmlAsync(ssml)

	var outcome speech.SpeechSynthesisOutcome
	select {
	case outcome = <-task:
	case <-ctx.Done():
		result.Error = fmt.Sprintf("context cancelled while waiting for synthesis: %v", ctx.Err())
		return result
	}
	defer outcome.Close()

	if outcome.Error != nil {
		result.Error = fmt.Sprintf("synthesis outcome error: %v", outcome.Error)
		result.ProcessingTime = time.Since(started).Seconds()
		return result
	}
	if outcome.Result.Reason != common.SynthesizingAudioStarted {
		cancellation, _ := speech.NewCancellationDetailsFromSpeechSynthesisResult(outcome.Result)
		details := ""
		if cancellation != nil {
			details = cancellation.ErrorDetails
		}
		result.Error = fmt.Sprintf("synthesis failed: reason=%s, details=%s", outcome.Result.Reason.String(), details)
		result.ProcessingTime = time.Since(started).Seconds()
		return result
	}

	stream, err := speech.NewAudioDataStreamFromSpeechSynthesisResult(outcome.Result)
	if err != nil {
		result.Error = fmt.Sprintf("failed to create audio data stream: %v", err)
		result.ProcessingTime = time.Since(started).Seconds()
		return result
	}
	defer stream.Close()

	if err = <-stream.SaveToWavFileAsync(outputPath); err != nil {
		result.Error = fmt.Sprintf("failed to save synthesized audio: %v", err)
		result.ProcessingTime = time.Since(started).Seconds()
		return result
	}
	result.ProcessingTime = time.Since(started).Seconds()

	p.log.Infof("personal voice synth completed | output=%s", outputPath)

	payload := map[string]any{
		"output_file_path":   outputPath,
		"output_name":        outputName,
		"voice_name":         cfg.VoiceName,
		"language":           cfg.Language,
		"speaker_profile_id": profile.SpeakerProfileID,
	}
	if in.CaptureWordBoundaries {
		payload["word_boundaries"] = boundaries
	}
	if in.LogSSML {
		payload["ssml"] = ssml
	}
	result.Payload = payload

	return result
}

// validate mirrors the persisted-config validation, minus the subscription
// key when an authorization token is in use.
func (p *PersonalVoiceSynthesizer) validate(cfg *voiceconfig.PersonalVoiceConfig) error {
	if p.authToken == "" {
		return cfg.ValidateForSynthesis()
	}

	var missing []string
	if strings.TrimSpace(cfg.SpeechRegion) == "" {
		missing = append(missing, "speech_region")
	}
	if cfg.SelectedProfile() == nil {
		missing = append(missing, "selected_profile_id")
	}
	if strings.TrimSpace(cfg.VoiceName) == "" {
		missing = append(missing, "voice_name")
	}
	if strings.TrimSpace(cfg.Language) == "" {
		missing = append(missing, "language")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required config values: %s", strings.Join(missing, ", "))
	}
	return nil
}

func (p *PersonalVoiceSynthesizer) speechConfig(cfg *voiceconfig.PersonalVoiceConfig) (*speech.SpeechConfig, error) {
	if p.authToken != "" {
		return speech.NewSpeechConfigFromAuthorizationToken(p.authToken, cfg.SpeechRegion)
	}
	return speech.NewSpeechConfigFromSubscription(cfg.SpeechKey, cfg.SpeechRegion)
}
