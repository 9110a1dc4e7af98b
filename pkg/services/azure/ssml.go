package azure

import (
	"fmt"
	"strings"
)

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"'", "&#39;",
	`"`, "&#34;",
)

// BuildPersonalVoiceSSML wraps the text in the mstts:ttsembedding element,
// which is what applies the Personal Voice speaker profile during synthesis.
func BuildPersonalVoiceSSML(text, speakerProfileID, voiceName, language string) string {
	safeText := xmlEscaper.Replace(text)
	safeProfile := xmlEscaper.Replace(speakerProfileID)
	safeVoice := xmlEscaper.Replace(voiceName)
	safeLang := xmlEscaper.Replace(language)

	return "<speak version='1.0' " +
		"xmlns='http://www.w3.org/2001/10/synthesis' " +
		fmt.Sprintf("xml:lang='%s' ", safeLang) +
		"xmlns:mstts='http://www.w3.org/2001/mstts'>" +
		fmt.Sprintf("<voice name='%s'>", safeVoice) +
		fmt.Sprintf("<mstts:ttsembedding speakerProfileId='%s'>", safeProfile) +
		fmt.Sprintf("<lang xml:lang='%s'>%s</lang>", safeLang, safeText) +
		"</mstts:ttsembedding>" +
		"</voice>" +
		"</speak>"
}

// BuildProsodySSML builds preview SSML for gallery voices. Rate, pitch and
// volume are multipliers around 1.0 and map to percent, semitones and dB.
func BuildProsodySSML(voiceName, locale, text string, rate, pitch, volume float64) string {
	ratePct := (rate - 1.0) * 100
	pitchSt := (pitch - 1.0) * 10
	volumeDb := (volume - 1.0) * 10

	return "<speak version='1.0' " +
		"xmlns='http://www.w3.org/2001/10/synthesis' " +
		"xmlns:mstts='https://www.w3.org/2001/mstts' " +
		fmt.Sprintf("xml:lang='%s'>", xmlEscaper.Replace(locale)) +
		fmt.Sprintf("<voice name='%s'>", xmlEscaper.Replace(voiceName)) +
		fmt.Sprintf("<prosody rate='%+.0f%%' pitch='%+.0fst' volume='%+.0fdB'>", ratePct, pitchSt, volumeDb) +
		xmlEscaper.Replace(text) +
		"</prosody>" +
		"</voice>" +
		"</speak>"
}
