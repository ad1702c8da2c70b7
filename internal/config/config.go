package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/iancoleman/strcase"
	"gopkg.in/yaml.v3"

	"github.com/mcncl/phparray/internal/models"
)

// Config represents the complete configuration for phparray
type Config struct {
	Preferences PreferencesConfig `yaml:"preferences"`
	Formatting  FormattingConfig  `yaml:"formatting"`
	Keys        KeysConfig        `yaml:"keys"`
	Parser      ParserConfig      `yaml:"parser"`
	Output      OutputConfig      `yaml:"output"`
	Dev         DevConfig         `yaml:"dev"`
}

// PreferencesConfig holds the two persisted conversion settings
type PreferencesConfig struct {
	UseBracketSyntax bool `yaml:"use_bracket_syntax"` // false selects array( )
	UseDoubleQuote   bool `yaml:"use_double_quote"`   // false selects single quotes
}

// FormattingConfig controls the layout of the generated literal
type FormattingConfig struct {
	IndentSize        int  `yaml:"indent_size"`
	UseTabs           bool `yaml:"use_tabs"`
	TrailingComma     bool `yaml:"trailing_comma"`
	InlineScalarLists bool `yaml:"inline_scalar_lists"`
	AlignArrows       bool `yaml:"align_arrows"`
}

// KeysConfig controls how object keys are rewritten
type KeysConfig struct {
	Case       string            `yaml:"case"` // none, snake, camel, lower_camel, kebab, screaming_snake
	Mappings   map[string]string `yaml:"mappings"`
	Duplicates string            `yaml:"duplicates"` // keep, last, reject
}

// ParserConfig controls JSON parsing limits
type ParserConfig struct {
	MaxDepth int `yaml:"max_depth"`
}

// OutputConfig controls what surrounds the generated literal
type OutputConfig struct {
	Wrap         string `yaml:"wrap"` // none, return, assign
	Variable     string `yaml:"variable"`
	PHPTag       bool   `yaml:"php_tag"`
	FileHeader   string `yaml:"file_header"`
	LineEnding   string `yaml:"line_ending"` // lf, crlf
	FinalNewline bool   `yaml:"final_newline"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug bool `yaml:"debug"`
}

// Wrap modes
const (
	WrapNone   = "none"
	WrapReturn = "return"
	WrapAssign = "assign"
)

// Key case modes
const (
	KeyCaseNone           = "none"
	KeyCaseSnake          = "snake"
	KeyCaseCamel          = "camel"
	KeyCaseLowerCamel     = "lower_camel"
	KeyCaseKebab          = "kebab"
	KeyCaseScreamingSnake = "screaming_snake"
)

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Preferences: PreferencesConfig{
			UseBracketSyntax: false,
			UseDoubleQuote:   false,
		},
		Formatting: FormattingConfig{
			IndentSize:        4,
			UseTabs:           false,
			TrailingComma:     true,
			InlineScalarLists: true,
			AlignArrows:       false,
		},
		Keys: KeysConfig{
			Case:       KeyCaseNone,
			Mappings:   make(map[string]string),
			Duplicates: "keep",
		},
		Parser: ParserConfig{
			MaxDepth: models.DefaultMaxDepth,
		},
		Output: OutputConfig{
			Wrap:         WrapNone,
			Variable:     "data",
			PHPTag:       false,
			LineEnding:   "lf",
			FinalNewline: true,
		},
		Dev: DevConfig{
			Debug: false,
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
	if cfg.Keys.Mappings == nil {
		cfg.Keys.Mappings = make(map[string]string)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}
	return findConfigFrom(currentDir)
}

func findConfigFrom(dir string) string {
	configNames := []string{".phparray.yml", ".phparray.yaml", "phparray.yml", "phparray.yaml"}

	for {
		for _, name := range configNames {
			configPath := filepath.Join(dir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(dir)
		if parentDir == dir {
			// Reached root directory
			break
		}
		dir = parentDir
	}

	return ""
}

// Validate checks enumerated values and limits
func (c *Config) Validate() error {
	if c.Formatting.IndentSize < 0 || c.Formatting.IndentSize > 16 {
		return fmt.Errorf("invalid indent_size %d: must be between 0 and 16", c.Formatting.IndentSize)
	}
	switch c.Keys.Case {
	case "", KeyCaseNone, KeyCaseSnake, KeyCaseCamel, KeyCaseLowerCamel, KeyCaseKebab, KeyCaseScreamingSnake:
	default:
		return fmt.Errorf("invalid keys.case %q", c.Keys.Case)
	}
	if _, err := models.ParseDuplicatePolicy(c.Keys.Duplicates); err != nil {
		return err
	}
	if c.Parser.MaxDepth < 0 {
		return fmt.Errorf("invalid parser.max_depth %d: must not be negative", c.Parser.MaxDepth)
	}
	switch c.Output.Wrap {
	case "", WrapNone, WrapReturn, WrapAssign:
	default:
		return fmt.Errorf("invalid output.wrap %q (want none, return or assign)", c.Output.Wrap)
	}
	if c.Output.Wrap == WrapAssign && strings.TrimSpace(c.Output.Variable) == "" {
		return fmt.Errorf("output.variable is required when output.wrap is %q", WrapAssign)
	}
	switch c.Output.LineEnding {
	case "", "lf", "crlf":
	default:
		return fmt.Errorf("invalid output.line_ending %q (want lf or crlf)", c.Output.LineEnding)
	}
	return nil
}

// ConversionOptions returns the emitter options described by the config
func (c *Config) ConversionOptions() models.Options {
	opts := models.OptionsFromPreferences(c.Preferences.UseBracketSyntax, c.Preferences.UseDoubleQuote)
	switch {
	case c.Formatting.UseTabs || c.Formatting.IndentSize == 0:
		opts.Indent = "\t"
	default:
		opts.Indent = strings.Repeat(" ", c.Formatting.IndentSize)
	}
	opts.TrailingComma = c.Formatting.TrailingComma
	opts.InlineScalarLists = c.Formatting.InlineScalarLists
	opts.AlignArrows = c.Formatting.AlignArrows
	return opts
}

// ParseOptions returns the parser options described by the config
func (c *Config) ParseOptions() models.ParseOptions {
	// Validate has already rejected unknown policies
	dup, _ := models.ParseDuplicatePolicy(c.Keys.Duplicates)
	return models.ParseOptions{
		MaxDepth:   c.Parser.MaxDepth,
		Duplicates: dup,
	}
}

// RewritesKeys reports whether GetKeyName can change any key
func (c *Config) RewritesKeys() bool {
	return len(c.Keys.Mappings) > 0 || (c.Keys.Case != "" && c.Keys.Case != KeyCaseNone)
}

// GetKeyName returns the PHP array key for a JSON key, applying mappings then case rules
func (c *Config) GetKeyName(jsonKey string) string {
	if mapped, exists := c.Keys.Mappings[jsonKey]; exists {
		return mapped
	}

	switch c.Keys.Case {
	case KeyCaseSnake:
		return strcase.ToSnake(jsonKey)
	case KeyCaseCamel:
		return strcase.ToCamel(jsonKey)
	case KeyCaseLowerCamel:
		return strcase.ToLowerCamel(jsonKey)
	case KeyCaseKebab:
		return strcase.ToKebab(jsonKey)
	case KeyCaseScreamingSnake:
		return strcase.ToScreamingSnake(jsonKey)
	}

	return jsonKey
}

// Overrides holds command-line values that take precedence over the config file.
// Zero values leave the config untouched.
type Overrides struct {
	ArraySyntax     string
	Quotes          string
	Indent          int
	Tabs            bool
	NoTrailingComma bool
	Align           bool
	KeyCase         string
	Duplicates      string
	Wrap            string
	Variable        string
	PHPTag          bool
	Debug           bool
}

// Apply writes the non-zero overrides into c and validates the result
func (o Overrides) Apply(c *Config) error {
	if o.ArraySyntax != "" {
		syntax, err := models.ParseArraySyntax(o.ArraySyntax)
		if err != nil {
			return err
		}
		c.Preferences.UseBracketSyntax = syntax == models.Short
	}
	if o.Quotes != "" {
		style, err := models.ParseQuoteStyle(o.Quotes)
		if err != nil {
			return err
		}
		c.Preferences.UseDoubleQuote = style == models.Double
	}
	if o.Indent > 0 {
		c.Formatting.IndentSize = o.Indent
	}
	if o.Tabs {
		c.Formatting.UseTabs = true
	}
	if o.NoTrailingComma {
		c.Formatting.TrailingComma = false
	}
	if o.Align {
		c.Formatting.AlignArrows = true
	}
	if o.KeyCase != "" {
		c.Keys.Case = o.KeyCase
	}
	if o.Duplicates != "" {
		c.Keys.Duplicates = o.Duplicates
	}
	if o.Wrap != "" {
		c.Output.Wrap = o.Wrap
	}
	if o.Variable != "" {
		c.Output.Variable = o.Variable
		if o.Wrap == "" && (c.Output.Wrap == "" || c.Output.Wrap == WrapNone) {
			c.Output.Wrap = WrapAssign
		}
	}
	if o.PHPTag {
		c.Output.PHPTag = true
	}
	if o.Debug {
		c.Dev.Debug = true
	}
	return c.Validate()
}

// LoadConfigWithCLI loads the config file, if any, and applies CLI overrides on top
func LoadConfigWithCLI(configPath string, overrides Overrides) (*Config, error) {
	cfg := NewConfig()

	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	if err := overrides.Apply(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
