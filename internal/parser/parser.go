// Package parser reads JSON text into an ordered value tree.
package parser

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mcncl/phparray/internal/errors"
	"github.com/mcncl/phparray/internal/models"
)

// Parse reads all of reader and parses it with the default options.
func Parse(reader io.Reader) (models.IntermediateRepresentation, error) {
	return ParseWithOptions(reader, models.DefaultParseOptions())
}

// ParseWithOptions reads all of reader and parses it.
func ParseWithOptions(reader io.Reader, opts models.ParseOptions) (models.IntermediateRepresentation, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return models.IntermediateRepresentation{}, errors.NewInputError("failed to read input", err)
	}
	return ParseBytesWithOptions(data, opts)
}

// ParseString parses JSON from a string
func ParseString(jsonString string) (models.IntermediateRepresentation, error) {
	return ParseBytesWithOptions([]byte(jsonString), models.DefaultParseOptions())
}

// ParseBytes parses JSON from raw bytes
func ParseBytes(data []byte) (models.IntermediateRepresentation, error) {
	return ParseBytesWithOptions(data, models.DefaultParseOptions())
}

// ParseBytesWithOptions decodes data to UTF-8 and parses exactly one JSON value.
// Syntax errors are returned as a parsing AppError wrapping an *errors.ParseError.
func ParseBytesWithOptions(data []byte, opts models.ParseOptions) (models.IntermediateRepresentation, error) {
	text, err := decodeInput(data)
	if err != nil {
		return models.IntermediateRepresentation{}, errors.NewInputError("failed to decode input", err)
	}

	root, err := newScanner(text, opts).parseDocument()
	if err != nil {
		return models.IntermediateRepresentation{}, errors.NewParsingError("failed to parse JSON", err)
	}

	return models.IntermediateRepresentation{
		Root:        root,
		RootIsArray: root.Kind == models.Array,
	}, nil
}

// ParseFile parses JSON from a file path
func ParseFile(filePath string) (models.IntermediateRepresentation, error) {
	return ParseFileWithOptions(filePath, models.DefaultParseOptions())
}

// ParseFileWithOptions parses JSON from a file path
func ParseFileWithOptions(filePath string, opts models.ParseOptions) (models.IntermediateRepresentation, error) {
	if strings.TrimSpace(filePath) == "" {
		return models.IntermediateRepresentation{}, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return models.IntermediateRepresentation{}, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return models.IntermediateRepresentation{}, errors.NewInputError(
			fmt.Sprintf("failed to read file '%s'", filePath),
			err,
		)
	}
	if len(data) == 0 {
		return models.IntermediateRepresentation{}, errors.NewInputError(
			fmt.Sprintf("input file '%s' is empty", filePath),
			errors.ErrFileEmpty,
		)
	}

	return ParseBytesWithOptions(data, opts)
}
