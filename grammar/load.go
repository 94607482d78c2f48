package grammar

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/shibukawa/snapparse/tokenizer"
)

// Format identifies how a grammar file is written.
type Format string

const (
	FormatYAML     Format = "yaml"
	FormatDSL      Format = "grammar"
	FormatMarkdown Format = "markdown"
)

// FormatOf picks the format from the file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".grammar", ".peg":
		return FormatDSL, nil
	case ".md", ".markdown":
		return FormatMarkdown, nil
	}

	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// Load reads a grammar file. The grammar name defaults to the file name
// without extension.
func Load(path string) (*Definition, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", tokenizer.ErrFileNotFound, path)
	} else if err != nil {
		return nil, fmt.Errorf("failed to read grammar %s: %w", path, err)
	}

	def, err := Parse(path, data, format)
	if err != nil {
		return nil, err
	}

	if def.Name == "" {
		def.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	return def, nil
}

// Parse decodes a grammar in the given format and validates it.
func Parse(source string, data []byte, format Format) (*Definition, error) {
	var (
		def *Definition
		err error
	)

	switch format {
	case FormatYAML:
		def, err = ParseYAML(data)
	case FormatDSL:
		def, err = ParseDSL(source, string(data))
	case FormatMarkdown:
		def, err = ParseMarkdown(source, data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	if err != nil {
		return nil, err
	}

	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("invalid grammar %s: %w", source, err)
	}

	return def, nil
}

// ParseYAML decodes a YAML grammar. Unknown fields are rejected.
func ParseYAML(data []byte) (*Definition, error) {
	var def Definition

	if err := yaml.UnmarshalWithOptions(data, &def, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGrammarSyntax, err)
	}

	def.applyDefaults()

	return &def, nil
}
