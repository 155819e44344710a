package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"draftline/internal/domain"
)

// Config models draftline.yml.
type Config struct {
	Service struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"service"`
	Defaults struct {
		DocType      string `yaml:"doc_type"`
		OutlineItems int    `yaml:"outline_items"`
	} `yaml:"defaults"`
}

// Load reads and validates config from the workspace, falling back to
// defaults when the file does not exist.
func Load(workspace string) (*Config, error) {
	path := Path(workspace)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	return FromYAML(data)
}

// Validate ensures the config meets required structure.
func (c *Config) Validate() error {
	if c.Service.BaseURL == "" {
		return fmt.Errorf("config.service.base_url is required")
	}
	u, err := url.Parse(c.Service.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config.service.base_url %q is not a valid URL", c.Service.BaseURL)
	}
	if c.Defaults.DocType != "" && !domain.ValidDocType(c.Defaults.DocType) {
		return fmt.Errorf("config.defaults.doc_type must be %q or %q", domain.DocTypeWord, domain.DocTypeSlides)
	}
	if c.Defaults.OutlineItems != 0 && (c.Defaults.OutlineItems < 3 || c.Defaults.OutlineItems > 15) {
		return fmt.Errorf("config.defaults.outline_items must be between 3 and 15")
	}
	return nil
}

// Path returns the config file path for a workspace.
func Path(workspace string) string {
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, "draftline.yml")
}

// Default returns the default Config struct.
func Default() *Config {
	var cfg Config
	cfg.Service.BaseURL = "http://localhost:8000"
	cfg.Defaults.DocType = domain.DocTypeWord
	cfg.Defaults.OutlineItems = 5
	return &cfg
}

// FromYAML parses and validates config from raw YAML bytes.
func FromYAML(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid config yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
