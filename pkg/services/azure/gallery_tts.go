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
)

const GalleryVoiceServiceName = "azure-gallery-voice"

// GalleryPreviewInput is one stock-voice preview request. Rate, pitch and
// volume are multipliers around 1.0.
type GalleryPreviewInput struct {
	VoiceName  string
	Locale     string
	Text       string
	Rate       float64
	Pitch      float64
	Volume     float64
	OutputName string
	LogSSML    bool
}

// GallerySynthesizer previews stock neural voices with prosody controls. It
// shares the Speech SDK flow with the personal voice path but needs no
// speaker profile.
type GallerySynthesizer struct {
	key       string
	region    string
	outputDir string
	available bool
	log       *logrus.Entry
}

func NewGallerySynthesizer(key, region, outputDir string, log *logrus.Entry) *GallerySynthesizer {
	return &GallerySynthesizer{
		key:       key,
		region:    region,
		outputDir: outputDir,
		available: strings.TrimSpace(key) != "" && strings.TrimSpace(region) != "",
		log:       log.WithField("service", GalleryVoiceServiceName),
	}
}

func (g *GallerySynthesizer) Service() string { return GalleryVoiceServiceName }

func (g *GallerySynthesizer) Available() bool { return g.available }

// Preview renders a short sample with the requested voice and prosody and
// returns the output path in the result payload.
func (g *GallerySynthesizer) Preview(ctx context.Context, in GalleryPreviewInput) *services.Result {
	result := &services.Result{Service: GalleryVoiceServiceName}

	if !g.available {
		result.Error = services.ErrCredentialMissing.Error()
		return result
	}
	if strings.TrimSpace(in.VoiceName) == "" {
		result.Error = (&services.ValidationError{Field: "voice_name", Reason: "empty"}).Error()
		return result
	}
	if strings.TrimSpace(in.Text) == "" {
		result.Error = (&services.ValidationError{Field: "text", Reason: "empty"}).Error()
		return result
	}

	locale := in.Locale
	if strings.TrimSpace(locale) == "" {
		locale = localeFromVoiceName(in.VoiceName)
	}

	conf, err := speech.NewSpeechConfigFromSubscription(g.key, g.region)
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

	ssml := BuildProsodySSML(in.VoiceName, locale, in.Text, in.Rate, in.Pitch, in.Volume)
	if in.LogSSML {
		g.log.Infof("gallery preview SSML:\n%s", ssml)
	}

	outputName := utils.SanitizeFilename(in.OutputName)
	if outputName == "" {
		outputName = fmt.Sprintf("gallery_preview_%s.wav", strings.ReplaceAll(in.VoiceName, " ", "_"))
	}
	outputPath := filepath.Join(g.outputDir, outputName)
	if err = os.MkdirAll(g.outputDir, 0755); err != nil {
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

	result.Payload = map[string]any{
		"output_file_path": outputPath,
		"output_name":      outputName,
		"voice_name":       in.VoiceName,
		"locale":           locale,
		"ssml":             ssml,
	}
	return result
}

// localeFromVoiceName recovers the locale prefix from names such as
// en-US-JennyNeural.
func localeFromVoiceName(name string) string {
	parts := strings.SplitN(name, "-", 3)
	if len(parts) >= 2 {
		return parts[0] + "-" + parts[1]
	}
	return voiceDefaultLocale
}

const voiceDefaultLocale = "en-US"
