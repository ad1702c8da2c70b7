// Package converter runs the JSON to PHP pipeline: parse, rewrite keys, emit and format.
package converter

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mcncl/phparray/internal/analyzer"
	"github.com/mcncl/phparray/internal/config"
	"github.com/mcncl/phparray/internal/emitter"
	"github.com/mcncl/phparray/internal/errors"
	"github.com/mcncl/phparray/internal/formatter"
	"github.com/mcncl/phparray/internal/models"
	"github.com/mcncl/phparray/internal/parser"
)

// Convert parses jsonText and renders it as a PHP array literal.
// The result has no trailing newline and no surrounding statement.
// Parse failures are returned as a parsing AppError wrapping a *errors.ParseError.
func Convert(jsonText string, opts models.Options) (string, error) {
	ir, err := parser.ParseString(jsonText)
	if err != nil {
		return "", err
	}
	return emitter.Emit(ir.Root, opts), nil
}

// Converter runs the full pipeline for one configuration.
// It is immutable after construction and safe for concurrent use.
type Converter struct {
	config    *config.Config
	emitter   *emitter.Emitter
	formatter *formatter.Formatter
	logger    *log.Logger
}

// New creates a Converter. A nil cfg uses the defaults and a nil logger discards output.
func New(cfg *config.Config, logger *log.Logger) *Converter {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Converter{
		config:    cfg,
		emitter:   emitter.NewEmitter(cfg.ConversionOptions()),
		formatter: formatter.NewFormatterWithConfig(cfg.Output),
		logger:    logger,
	}
}

// ConvertString converts JSON text into formatted PHP source
func (c *Converter) ConvertString(jsonText string) (string, error) {
	return c.ConvertBytes([]byte(jsonText))
}

// ConvertBytes converts raw JSON bytes, which may carry a BOM, into formatted PHP source
func (c *Converter) ConvertBytes(data []byte) (string, error) {
	start := time.Now()
	ir, err := parser.ParseBytesWithOptions(data, c.config.ParseOptions())
	if err != nil {
		return "", err
	}
	c.logger.Debug("parsed JSON", "bytes", len(data), "root", ir.Root.Kind, "elapsed", time.Since(start))
	return c.convert(ir)
}

// ConvertReader reads all of r and converts it
func (c *Converter) ConvertReader(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", errors.NewInputError("failed to read input", err)
	}
	return c.ConvertBytes(data)
}

// ConvertFile converts the JSON file at path
func (c *Converter) ConvertFile(path string) (string, error) {
	start := time.Now()
	ir, err := parser.ParseFileWithOptions(path, c.config.ParseOptions())
	if err != nil {
		return "", err
	}
	c.logger.Debug("parsed JSON file", "path", path, "root", ir.Root.Kind, "elapsed", time.Since(start))
	return c.convert(ir)
}

func (c *Converter) convert(ir models.IntermediateRepresentation) (string, error) {
	// A fresh analyzer per call keeps the Converter free of shared state
	result, err := analyzer.NewAnalyzerWithConfig(c.config).Analyze(ir)
	if err != nil {
		return "", err
	}
	c.logger.Debug("analyzed document",
		"objects", result.Stats.Objects,
		"arrays", result.Stats.Arrays,
		"scalars", result.Stats.Scalars,
		"max_depth", result.Stats.MaxDepth,
		"renamed_keys", result.Stats.RenamedKeys)
	if result.Stats.KeyCollisions > 0 {
		c.logger.Warn("key rewriting produced duplicate keys, PHP keeps the last value", "collisions", result.Stats.KeyCollisions)
	}

	start := time.Now()
	code := c.emitter.Emit(result.Root)
	c.logger.Debug("emitted PHP literal", "bytes", len(code), "elapsed", time.Since(start))

	formatted, err := c.formatter.Format(code)
	if err != nil {
		return "", errors.NewFormatError("failed to format PHP output", err)
	}
	return formatted, nil
}
