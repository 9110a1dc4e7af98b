package helpers

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/voicelab/voiceplay-server/pkg/config"
	"gopkg.in/yaml.v3"
)

// ReadYamlConfigFile parses the YAML config file. The file's directory
// becomes the root working dir, so relative paths in the config resolve next
// to it.
func ReadYamlConfigFile(file string) (*config.AppConfig, error) {
	yamlFile, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
	}

	appCnf := new(config.AppConfig)
	if err = yaml.Unmarshal(yamlFile, appCnf); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", file, err)
	}

	if appCnf.RootWorkingDir, err = filepath.Abs(filepath.Dir(file)); err != nil {
		return nil, err
	}

	return appCnf, nil
}
