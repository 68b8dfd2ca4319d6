package conf

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/webexlabs/webex-ai-bot/internal/biz/domain"
)

// PersonalitiesConfig contains the personality catalog and mapping rules
// loaded from YAML
type PersonalitiesConfig struct {
	DefaultPersonality string                       `yaml:"default_personality"`
	Personalities      map[string]PersonalityConfig `yaml:"personalities"`
	Mappings           []MappingConfig              `yaml:"mappings"`
}

// PersonalityConfig is one personality entry
type PersonalityConfig struct {
	Name         string  `yaml:"name"`
	SystemPrompt string  `yaml:"system_prompt"`
	Temperature  float32 `yaml:"temperature"`
	MaxTokens    int     `yaml:"max_tokens"`
}

// MappingConfig is one user-mapping rule
type MappingConfig struct {
	Type        string `yaml:"type"` // "exact" or "pattern"
	Match       string `yaml:"match"`
	Personality string `yaml:"personality"`
}

// LoadPersonalitiesConfig loads the personalities configuration from a YAML
// file. With an empty path, default locations are searched; when no file is
// found, the built-in defaults are used.
func LoadPersonalitiesConfig(configPath string) (*PersonalitiesConfig, error) {
	paths := []string{configPath}
	if configPath == "" {
		paths = []string{
			"configs/personalities.yaml",
			"./configs/personalities.yaml",
			"/etc/webex-ai-bot/personalities.yaml",
		}
		if execPath, err := os.Executable(); err == nil {
			paths = append(paths, filepath.Join(filepath.Dir(execPath), "configs", "personalities.yaml"))
		}
	}

	var data []byte
	var loadedPath string
	var err error

	for _, p := range paths {
		if p == "" {
			continue
		}
		data, err = os.ReadFile(p)
		if err == nil {
			loadedPath = p
			break
		}
	}

	if data == nil {
		if configPath != "" {
			// An explicitly configured path must exist
			return nil, fmt.Errorf("read personalities config %s: %w", configPath, err)
		}
		fmt.Println("[Config] No personalities.yaml found, using defaults")
		return DefaultPersonalitiesConfig(), nil
	}

	fmt.Printf("[Config] Loading personalities from: %s\n", loadedPath)

	var config PersonalitiesConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse personalities.yaml: %w", err)
	}

	config.fillDefaults()
	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// fillDefaults fills in default values for empty fields
func (c *PersonalitiesConfig) fillDefaults() {
	if c.DefaultPersonality == "" {
		c.DefaultPersonality = "default"
	}
	if c.Personalities == nil {
		c.Personalities = make(map[string]PersonalityConfig)
	}
	if _, ok := c.Personalities["default"]; !ok && c.DefaultPersonality == "default" {
		builtin := domain.BuiltinDefault()
		c.Personalities["default"] = PersonalityConfig{
			Name:         builtin.Name,
			SystemPrompt: builtin.SystemPrompt,
			Temperature:  builtin.Temperature,
			MaxTokens:    builtin.MaxTokens,
		}
	}
	for key, p := range c.Personalities {
		if p.Name == "" {
			p.Name = key
		}
		if p.Temperature == 0 {
			p.Temperature = 0.2
		}
		if p.MaxTokens == 0 {
			p.MaxTokens = 1000
		}
		c.Personalities[key] = p
	}
}

// validate rejects structurally broken configs so a reload never swaps in a
// partial or guessed catalog
func (c *PersonalitiesConfig) validate() error {
	for i, m := range c.Mappings {
		if m.Type != string(domain.RuleExact) && m.Type != string(domain.RulePattern) {
			return fmt.Errorf("mapping %d: unknown type %q", i, m.Type)
		}
		if m.Match == "" {
			return fmt.Errorf("mapping %d: empty match", i)
		}
		if m.Personality == "" {
			return fmt.Errorf("mapping %d: empty personality", i)
		}
	}
	return nil
}

// ToCatalog converts the config into an immutable domain catalog
func (c *PersonalitiesConfig) ToCatalog() *domain.Catalog {
	personalities := make(map[string]domain.Personality, len(c.Personalities))
	for key, p := range c.Personalities {
		personalities[key] = domain.Personality{
			Key:          key,
			Name:         p.Name,
			SystemPrompt: p.SystemPrompt,
			Temperature:  p.Temperature,
			MaxTokens:    p.MaxTokens,
		}
	}

	rules := make([]domain.MappingRule, 0, len(c.Mappings))
	for _, m := range c.Mappings {
		rules = append(rules, domain.MappingRule{
			Type:        domain.RuleType(m.Type),
			Match:       m.Match,
			Personality: m.Personality,
		})
	}

	return domain.NewCatalog(personalities, rules, c.DefaultPersonality)
}

// DefaultPersonalitiesConfig returns the built-in catalog: just the default
// personality and no mapping rules
func DefaultPersonalitiesConfig() *PersonalitiesConfig {
	builtin := domain.BuiltinDefault()
	return &PersonalitiesConfig{
		DefaultPersonality: builtin.Key,
		Personalities: map[string]PersonalityConfig{
			builtin.Key: {
				Name:         builtin.Name,
				SystemPrompt: builtin.SystemPrompt,
				Temperature:  builtin.Temperature,
				MaxTokens:    builtin.MaxTokens,
			},
		},
	}
}

// CatalogFile loads a domain catalog from a personalities YAML file.
// Implements usecase.CatalogLoader.
type CatalogFile struct {
	Path string
}

// Load reads and converts the file
func (f *CatalogFile) Load() (*domain.Catalog, error) {
	config, err := LoadPersonalitiesConfig(f.Path)
	if err != nil {
		return nil, err
	}
	return config.ToCatalog(), nil
}
