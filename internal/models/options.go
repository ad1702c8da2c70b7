package models

import "fmt"

// ArraySyntax selects how PHP arrays are wrapped.
type ArraySyntax int

const (
	// Legacy renders array( ... ), valid since PHP 4.
	Legacy ArraySyntax = iota
	// Short renders [ ... ], valid since PHP 5.4.
	Short
)

func (s ArraySyntax) String() string {
	if s == Short {
		return "short"
	}
	return "legacy"
}

// ParseArraySyntax maps a config or flag value onto an ArraySyntax.
func ParseArraySyntax(s string) (ArraySyntax, error) {
	switch s {
	case "legacy", "array":
		return Legacy, nil
	case "short", "bracket":
		return Short, nil
	}
	return Legacy, fmt.Errorf("unknown array syntax %q (want legacy or short)", s)
}

// QuoteStyle selects the PHP string quotation marks.
type QuoteStyle int

const (
	Single QuoteStyle = iota
	Double
)

func (q QuoteStyle) String() string {
	if q == Double {
		return "double"
	}
	return "single"
}

// ParseQuoteStyle maps a config or flag value onto a QuoteStyle.
func ParseQuoteStyle(s string) (QuoteStyle, error) {
	switch s {
	case "single":
		return Single, nil
	case "double":
		return Double, nil
	}
	return Single, fmt.Errorf("unknown quote style %q (want single or double)", s)
}

// DefaultIndent is one nesting level of output.
const DefaultIndent = "    "

// Options controls how a value tree is rendered as PHP.
// Options is a plain value; copies never share state.
type Options struct {
	ArraySyntax ArraySyntax
	QuoteStyle  QuoteStyle

	// Indent is written once per nesting level.
	Indent string
	// TrailingComma ends the last element of a multi-line array with a comma.
	TrailingComma bool
	// InlineScalarLists writes lists of scalars on a single line.
	InlineScalarLists bool
	// AlignArrows pads keys so the arrows of one array line up.
	AlignArrows bool
}

// DefaultOptions returns legacy syntax with single quotes.
func DefaultOptions() Options {
	return Options{
		ArraySyntax:       Legacy,
		QuoteStyle:        Single,
		Indent:            DefaultIndent,
		TrailingComma:     true,
		InlineScalarLists: true,
	}
}

// OptionsFromPreferences builds Options from the two persisted settings.
// false selects array( ) and single quotes respectively.
func OptionsFromPreferences(useBracketSyntax, useDoubleQuote bool) Options {
	opts := DefaultOptions()
	if useBracketSyntax {
		opts.ArraySyntax = Short
	}
	if useDoubleQuote {
		opts.QuoteStyle = Double
	}
	return opts
}

// DuplicatePolicy decides what the parser does with repeated object keys.
type DuplicatePolicy int

const (
	// KeepDuplicates preserves every member in source order.
	KeepDuplicates DuplicatePolicy = iota
	// LastWins keeps the position of the first occurrence and the value of the last.
	LastWins
	// RejectDuplicates fails the parse.
	RejectDuplicates
)

func (p DuplicatePolicy) String() string {
	switch p {
	case LastWins:
		return "last"
	case RejectDuplicates:
		return "reject"
	default:
		return "keep"
	}
}

// ParseDuplicatePolicy maps a config or flag value onto a DuplicatePolicy.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch s {
	case "keep", "":
		return KeepDuplicates, nil
	case "last":
		return LastWins, nil
	case "reject", "error":
		return RejectDuplicates, nil
	}
	return KeepDuplicates, fmt.Errorf("unknown duplicate key policy %q (want keep, last or reject)", s)
}

// DefaultMaxDepth bounds container nesting in the parser.
const DefaultMaxDepth = 10000

// ParseOptions controls the parser.
type ParseOptions struct {
	MaxDepth   int
	Duplicates DuplicatePolicy
}

// DefaultParseOptions returns the parser defaults.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{MaxDepth: DefaultMaxDepth, Duplicates: KeepDuplicates}
}
