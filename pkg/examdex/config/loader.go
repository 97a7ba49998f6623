package config

import "fmt"

// Loader loads all configuration files and merges them
type Loader struct {
	ConfigPath   string
	TaxonomyPath string
}

// Load reads the configured files; missing paths fall back to built-ins
func (l *Loader) Load() (*Config, error) {
	cfg := Default()

	if l.ConfigPath != "" {
		loaded, err := Load(l.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	// A standalone taxonomy replaces whatever the config carried
	if l.TaxonomyPath != "" {
		rules, err := LoadTaxonomy(l.TaxonomyPath)
		if err != nil {
			return nil, fmt.Errorf("load taxonomy: %w", err)
		}
		cfg.Taxonomy = rules
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
