package helpers

import (
	"fmt"
	"os"

	"github.com/voicelab/voiceplay-server/pkg/config"
)

// PrepareServer verifies that everything the server needs on disk actually
// exists. A missing voice catalog only disables the gallery; a missing client
// directory is fatal because no page could render.
func PrepareServer(appCnf *config.AppConfig) error {
	if _, err := os.Stat(appCnf.Client.Path); err != nil {
		return fmt.Errorf("client path %s is not usable: %w", appCnf.Client.Path, err)
	}

	if _, err := os.Stat(appCnf.VoicePlay.VoicesCatalog); err != nil {
		appCnf.Logger.Warnf("voice catalog %s not found, the gallery page will be empty", appCnf.VoicePlay.VoicesCatalog)
	}

	return nil
}
