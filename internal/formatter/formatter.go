package formatter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/mcncl/phparray/internal/config"
)

var phpIdentifierRegex = regexp.MustCompile(`^[a-zA-Z_\x80-\xff][a-zA-Z0-9_\x80-\xff]*$`)

// Formatter turns a PHP array literal into PHP source ready to be written out
type Formatter struct {
	output config.OutputConfig
}

// NewFormatter creates a new Formatter that returns the literal followed by a newline
func NewFormatter() *Formatter {
	return &Formatter{output: config.NewConfig().Output}
}

// NewFormatterWithConfig creates a Formatter for the given output settings
func NewFormatterWithConfig(output config.OutputConfig) *Formatter {
	return &Formatter{output: output}
}

// Format wraps the literal according to the output settings and applies line endings
func (f *Formatter) Format(code string) (string, error) {
	// Handle empty input
	if strings.TrimSpace(code) == "" {
		return "", nil
	}

	statement, err := f.wrap(code)
	if err != nil {
		return "", err
	}

	nl := f.lineEnding()
	var b strings.Builder

	if f.output.PHPTag {
		b.WriteString("<?php")
		b.WriteString(nl)
		b.WriteString(nl)
	}

	if header := f.header(nl); header != "" {
		b.WriteString(header)
		b.WriteString(nl)
	}

	b.WriteString(convertLineEndings(statement, nl))

	if f.output.FinalNewline {
		b.WriteString(nl)
	}

	return b.String(), nil
}

// VariableName returns the normalised PHP variable name for assign mode, without the leading $
func VariableName(name string) (string, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(name), "$")
	normalized := strcase.ToLowerCamel(trimmed)
	if !phpIdentifierRegex.MatchString(normalized) {
		return "", fmt.Errorf("invalid PHP variable name %q", name)
	}
	return normalized, nil
}

func (f *Formatter) wrap(code string) (string, error) {
	switch f.output.Wrap {
	case "", config.WrapNone:
		return code, nil
	case config.WrapReturn:
		return "return " + code + ";", nil
	case config.WrapAssign:
		name, err := VariableName(f.output.Variable)
		if err != nil {
			return "", err
		}
		return "$" + name + " = " + code + ";", nil
	default:
		return "", fmt.Errorf("unknown wrap mode %q", f.output.Wrap)
	}
}

// header renders the file header as line comments followed by a blank line
func (f *Formatter) header(nl string) string {
	text := strings.TrimRight(f.output.FileHeader, "\r\n")
	if strings.TrimSpace(text) == "" {
		return ""
	}

	var b strings.Builder
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		// ?> would close PHP mode even inside a line comment
		line = strings.ReplaceAll(strings.TrimRight(line, " \t"), "?>", "? >")
		if line == "" {
			b.WriteString("//")
		} else {
			b.WriteString("// ")
			b.WriteString(line)
		}
		b.WriteString(nl)
	}
	return b.String()
}

func (f *Formatter) lineEnding() string {
	if f.output.LineEnding == "crlf" {
		return "\r\n"
	}
	return "\n"
}

// convertLineEndings replaces layout line feeds with nl.
// Line feeds inside quoted PHP strings are part of the value and are left alone.
func convertLineEndings(code, nl string) string {
	if nl == "\n" {
		return code
	}

	var b strings.Builder
	b.Grow(len(code) + strings.Count(code, "\n"))

	var quote byte
	for i := 0; i < len(code); i++ {
		c := code[i]
		switch {
		case quote != 0:
			b.WriteByte(c)
			if c == '\\' && i+1 < len(code) {
				i++
				b.WriteByte(code[i])
			} else if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
			b.WriteByte(c)
		case c == '\n':
			b.WriteString(nl)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
