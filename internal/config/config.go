package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/iancoleman/strcase"
	"github.com/mcncl/json2xml/internal/errors"
	"gopkg.in/yaml.v3"
)

// Defaults used when neither a config file nor a flag sets a value.
const (
	DefaultRootElement = "root"
	DefaultIndent      = "  "
	DefaultMaxDepth    = 1000
)

// Element name cases understood by naming.case.
const (
	CaseNone           = ""
	CaseSnake          = "snake"
	CaseCamel          = "camel"
	CaseLowerCamel     = "lower_camel"
	CaseKebab          = "kebab"
	CaseScreamingSnake = "screaming_snake"
)

// Config represents the complete configuration for json2xml
type Config struct {
	RootElement string           `yaml:"root_element" validate:"excludesall=<>&/"`
	Formatting  FormattingConfig `yaml:"formatting"`
	Naming      NamingConfig     `yaml:"naming"`
	Limits      LimitsConfig     `yaml:"limits"`
	Output      OutputConfig     `yaml:"output"`
	Dev         DevConfig        `yaml:"dev"`
}

// FormattingConfig controls pretty printing
type FormattingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Indent  string `yaml:"indent" validate:"max=16"`
}

// NamingConfig controls how object keys become element names
type NamingConfig struct {
	Case     string            `yaml:"case" validate:"omitempty,oneof=snake camel lower_camel kebab screaming_snake"`
	Mappings map[string]string `yaml:"mappings"`
}

// LimitsConfig guards against pathological input
type LimitsConfig struct {
	MaxDepth int `yaml:"max_depth" validate:"gte=0"`
}

// OutputConfig controls checks applied to the produced document
type OutputConfig struct {
	Verify bool `yaml:"verify"`
	Strict bool `yaml:"strict"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug bool `yaml:"debug"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		RootElement: DefaultRootElement,
		Formatting: FormattingConfig{
			Enabled: true,
			Indent:  DefaultIndent,
		},
		Naming: NamingConfig{
			Case:     CaseNone,
			Mappings: make(map[string]string),
		},
		Limits: LimitsConfig{
			MaxDepth: DefaultMaxDepth,
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := NewConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration values
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %w", errors.ErrInvalidConfig, err)
	}
	return nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".json2xml.yml", ".json2xml.yaml", "json2xml.yml", "json2xml.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}

// ElementName returns the element name for a JSON key, applying naming rules.
// Explicit mappings win over the configured case.
func (c *Config) ElementName(jsonKey string) string {
	if mapped, exists := c.Naming.Mappings[jsonKey]; exists {
		return mapped
	}

	switch c.Naming.Case {
	case CaseSnake:
		return strcase.ToSnake(jsonKey)
	case CaseCamel:
		return strcase.ToCamel(jsonKey)
	case CaseLowerCamel:
		return strcase.ToLowerCamel(jsonKey)
	case CaseKebab:
		return strcase.ToKebab(jsonKey)
	case CaseScreamingSnake:
		return strcase.ToScreamingSnake(jsonKey)
	default:
		return jsonKey
	}
}

// HasNaming reports whether any key renaming is configured.
func (c *Config) HasNaming() bool {
	return c.Naming.Case != CaseNone || len(c.Naming.Mappings) > 0
}

// CLIOverrides carries flag values. Nil fields were not given on the command
// line and leave the file configuration untouched.
type CLIOverrides struct {
	RootElement *string
	Pretty      *bool
	MaxDepth    *int
	Verify      bool
	Strict      bool
	Debug       bool
}

// LoadConfigWithCLI loads config with CLI argument precedence
func LoadConfigWithCLI(configPath string, cli CLIOverrides) (*Config, error) {
	cfg := NewConfig()

	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	if cli.RootElement != nil {
		cfg.RootElement = *cli.RootElement
	}
	if cli.Pretty != nil {
		cfg.Formatting.Enabled = *cli.Pretty
	}
	if cli.MaxDepth != nil {
		cfg.Limits.MaxDepth = *cli.MaxDepth
	}
	// Boolean switches can only turn features on
	cfg.Output.Verify = cfg.Output.Verify || cli.Verify
	cfg.Output.Strict = cfg.Output.Strict || cli.Strict
	cfg.Dev.Debug = cfg.Dev.Debug || cli.Debug

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
