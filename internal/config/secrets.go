package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Secrets holds the two external API keys. They are read once at startup
// and treated as read-only for the process lifetime.
type Secrets struct {
	StoryAPIKey string `yaml:"story_api_key"`
	ImageAPIKey string `yaml:"image_api_key"`
}

// LoadSecrets reads the key-value secrets file at path. A missing file or
// an empty key is a configuration error and fatal for the caller.
func LoadSecrets(path string) (*Secrets, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read secrets file %s: %w", path, err)
	}

	var s Secrets
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse secrets file %s: %w", path, err)
	}

	if s.StoryAPIKey == "" {
		return nil, fmt.Errorf("secrets file %s: story_api_key is missing or empty", path)
	}
	if s.ImageAPIKey == "" {
		return nil, fmt.Errorf("secrets file %s: image_api_key is missing or empty", path)
	}
	return &s, nil
}
