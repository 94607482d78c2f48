package snapparse

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

// ErrConfigValidation is returned when configuration validation fails
var ErrConfigValidation = errors.New("configuration validation failed")

// Config represents the snapparse configuration
type Config struct {
	// Grammar is the grammar file used when no extension mapping applies.
	Grammar string `yaml:"grammar"`
	// Languages maps an input file extension such as ".calc" to a grammar file.
	Languages map[string]string `yaml:"languages"`
	Output    OutputConfig      `yaml:"output"`
	Trace     bool              `yaml:"trace"`
}

// OutputConfig controls how parse trees are printed
type OutputConfig struct {
	Format string `yaml:"format"`
	// Positions is a pointer to distinguish between unset and false.
	Positions *bool `yaml:"positions"`
	Pretty    bool  `yaml:"pretty"`
}

// ShowPositions reports whether token positions are printed. Defaults to true.
func (o OutputConfig) ShowPositions() bool {
	return o.Positions == nil || *o.Positions
}

var outputFormats = []string{"json", "yaml", "xml", "tree"}

// LoadConfig loads a configuration file. A missing file yields the defaults.
func LoadConfig(configPath string) (*Config, error) {
	// Load .env files first
	err := loadEnvFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to load environment files: %w", err)
	}

	if !fileExists(configPath) {
		config := getDefaultConfig()
		expandConfigEnvVars(config)

		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Strict mode detects unknown fields
	var config Config

	err = yaml.UnmarshalWithOptions(data, &config, yaml.Strict())
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	applyDefaults(&config)
	expandConfigEnvVars(&config)

	return &config, nil
}

// validateConfig validates the configuration for common errors and inconsistencies
func validateConfig(config *Config) error {
	if config.Output.Format != "" && !slices.Contains(outputFormats, config.Output.Format) {
		return fmt.Errorf("%w: output.format '%s' is invalid: must be one of %s",
			ErrConfigValidation, config.Output.Format, strings.Join(outputFormats, ", "))
	}

	for ext, path := range config.Languages {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("%w: languages key '%s' must be a file extension such as .calc", ErrConfigValidation, ext)
		}

		if path == "" {
			return fmt.Errorf("%w: languages.%s: grammar path is required", ErrConfigValidation, ext)
		}
	}

	return nil
}

// getDefaultConfig returns the default configuration
func getDefaultConfig() *Config {
	config := &Config{}
	applyDefaults(config)

	return config
}

// applyDefaults fills in values left empty in the file
func applyDefaults(config *Config) {
	if config.Output.Format == "" {
		config.Output.Format = "json"
	}

	if config.Languages == nil {
		config.Languages = make(map[string]string)
	}
}

// loadEnvFiles loads .env and .env.local if they exist. Values already in the
// environment win.
func loadEnvFiles() error {
	for _, name := range []string{".env", ".env.local"} {
		if !fileExists(name) {
			continue
		}

		if err := godotenv.Load(name); err != nil {
			return fmt.Errorf("failed to load %s file: %w", name, err)
		}
	}

	return nil
}

var (
	bracedVar = regexp.MustCompile(`\$\{([^}]+)\}`)
	bareVar   = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
)

// expandEnvVars expands environment variables in the format ${VAR} or $VAR
func expandEnvVars(s string) string {
	s = bracedVar.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})

	return bareVar.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[1:])
	})
}

func expandConfigEnvVars(config *Config) {
	config.Grammar = expandEnvVars(config.Grammar)

	for ext, path := range config.Languages {
		config.Languages[ext] = expandEnvVars(path)
	}
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// GrammarFor returns the grammar path for an input file: the languages entry
// for its extension, else the default grammar. It is empty when neither is set.
func (c *Config) GrammarFor(input string) string {
	if path, ok := c.Languages[strings.ToLower(filepath.Ext(input))]; ok {
		return path
	}

	return c.Grammar
}
