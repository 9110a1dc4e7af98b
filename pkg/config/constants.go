package config

const (
	DefaultCustomVoiceAPIVersion = "2024-02-01-preview"

	DefaultDocIntelModel      = "prebuilt-read"
	DefaultDocIntelAPIVersion = "2024-11-30"

	DefaultContentUnderstandingAnalyzer   = "prebuilt-documentAnalyzer"
	DefaultContentUnderstandingAPIVersion = "2024-12-01-preview"

	DefaultVoiceConfigPath   = ".conf/personal_voice_config.json"
	DefaultOutputsPath       = "outputs/temp"
	DefaultVoicesCatalogPath = "inputs/voice_gallery_voices.json"
)
