package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Version   int               `toml:"version"`
	Search    SearchSettings    `toml:"search"`
	Discovery DiscoverySettings `toml:"discovery"`
	UI        UISettings        `toml:"ui"`
}

// SearchSettings controls matching
type SearchSettings struct {
	Fuzzy      bool `toml:"fuzzy"`       // bind the fuzzy capability
	StartFuzzy bool `toml:"start_fuzzy"` // start in fuzzy mode
	FuzzyGuard int  `toml:"fuzzy_guard"` // defer fuzzy recompute on discovery above this many files
}

// DiscoverySettings controls how files are found
type DiscoverySettings struct {
	IncludeHidden bool     `toml:"include_hidden"`
	UseGit        bool     `toml:"use_git"`
	Ignore        []string `toml:"ignore"`
	BatchSize     int      `toml:"batch_size"`
	FlushInterval Duration `toml:"flush_interval"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	ShowPreview    bool `toml:"show_preview"`
	PreviewLines   int  `toml:"preview_lines"`
	Highlight      bool `toml:"highlight"`
	RenderMarkdown bool `toml:"render_markdown"`
}

// Duration is a time.Duration written as a string such as "50ms"
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	*d = Duration(parsed)
	return nil
}

// DefaultIgnore lists directory and file names skipped by discovery
var DefaultIgnore = []string{
	".git", ".svn", "__pycache__", ".pytest_cache", "node_modules",
	".venv", "venv", ".DS_Store", ".mypy_cache", ".tox", "dist", "build",
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	filePath string
}

// NewConfigService creates a config service for the default location
func NewConfigService() ConfigService {
	return NewConfigServiceAt(DefaultPath())
}

// NewConfigServiceAt creates a config service for a specific file
func NewConfigServiceAt(path string) ConfigService {
	return &configService{filePath: path}
}

// DefaultPath returns the config file location under the user config directory
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "findt", "config.toml")
}

func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration, returning defaults when no file exists
func (cs *configService) Load() (*Config, error) {
	cfg, err := cs.LoadFromPath(cs.filePath)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return cfg, err
}

// Save saves the configuration to file
func (cs *configService) Save(config *Config) error {
	return cs.SaveToPath(config, cs.filePath)
}

// LoadFromPath loads configuration from a specific path. Keys missing from
// the file keep their default values.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	cfg.Discovery.Ignore = nil
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.normalize()
	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	ignore := make([]string, len(DefaultIgnore))
	copy(ignore, DefaultIgnore)

	return &Config{
		Version: 1,
		Search: SearchSettings{
			Fuzzy:      true,
			FuzzyGuard: 20000,
		},
		Discovery: DiscoverySettings{
			UseGit:        true,
			Ignore:        ignore,
			BatchSize:     256,
			FlushInterval: Duration(50 * time.Millisecond),
		},
		UI: UISettings{
			ShowPreview:    true,
			PreviewLines:   40,
			Highlight:      true,
			RenderMarkdown: true,
		},
	}
}

// normalize replaces out-of-range values with defaults
func (c *Config) normalize() {
	def := DefaultConfig()
	if c.Search.FuzzyGuard <= 0 {
		c.Search.FuzzyGuard = def.Search.FuzzyGuard
	}
	if c.Discovery.BatchSize <= 0 {
		c.Discovery.BatchSize = def.Discovery.BatchSize
	}
	if c.Discovery.FlushInterval <= 0 {
		c.Discovery.FlushInterval = def.Discovery.FlushInterval
	}
	if c.Discovery.Ignore == nil {
		c.Discovery.Ignore = def.Discovery.Ignore
	}
	if c.UI.PreviewLines <= 0 {
		c.UI.PreviewLines = def.UI.PreviewLines
	}
}
