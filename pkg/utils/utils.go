package utils

import "strings"

// MaskSecret hides a credential for log output, keeping the last few
// characters so different keys remain distinguishable.
func MaskSecret(value string) string {
	const showLast = 4
	stripped := strings.TrimSpace(value)
	if stripped == "" {
		return ""
	}
	if len(stripped) <= showLast {
		return strings.Repeat("*", len(stripped))
	}
	return strings.Repeat("*", len(stripped)-showLast) + stripped[len(stripped)-showLast:]
}

// SanitizeFilename strips path separators from an uploaded file name so it
// can never escape the outputs directory.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	return strings.TrimSpace(name)
}
