package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/phparray/internal/errors"
	"github.com/mcncl/phparray/internal/models"
)

// requireParseError asserts err carries a ParseError and returns it.
func requireParseError(t *testing.T, err error) *errors.ParseError {
	t.Helper()
	require.Error(t, err)
	pe, ok := errors.AsParseError(err)
	require.True(t, ok, "expected a ParseError, got %T: %v", err, err)
	return pe
}

func TestParse_SimpleObject(t *testing.T) {
	ir, err := Parse(strings.NewReader(`{"name": "John Doe", "age": 30, "isStudent": false, "city": null}`))
	require.NoError(t, err)

	assert.False(t, ir.RootIsArray)
	root := ir.Root
	require.Equal(t, models.Object, root.Kind)
	require.Len(t, root.Members, 4)

	keys := make([]string, 0, len(root.Members))
	for _, m := range root.Members {
		keys = append(keys, m.Key)
	}
	assert.Equal(t, []string{"name", "age", "isStudent", "city"}, keys, "source key order must be preserved")

	assert.Equal(t, models.String, root.Members[0].Value.Kind)
	assert.Equal(t, "John Doe", root.Members[0].Value.Text)
	assert.Equal(t, models.Number, root.Members[1].Value.Kind)
	assert.Equal(t, "30", root.Members[1].Value.Text)
	assert.Equal(t, models.Bool, root.Members[2].Value.Kind)
	assert.False(t, root.Members[2].Value.Bool)
	assert.Equal(t, models.Null, root.Members[3].Value.Kind)
}

func TestParse_SimpleArray(t *testing.T) {
	ir, err := ParseString(`[1, "test", true, null, 3.14]`)
	require.NoError(t, err)

	assert.True(t, ir.RootIsArray)
	require.Len(t, ir.Root.Items, 5)

	kinds := make([]models.Kind, 0, 5)
	for _, item := range ir.Root.Items {
		kinds = append(kinds, item.Kind)
	}
	assert.Equal(t, []models.Kind{models.Number, models.String, models.Bool, models.Null, models.Number}, kinds)
	assert.Equal(t, "3.14", ir.Root.Items[4].Text)
	assert.False(t, ir.Root.Items[4].IsInteger())
	assert.True(t, ir.Root.Items[0].IsInteger())
}

func TestParse_NestedStructure(t *testing.T) {
	ir, err := ParseString(`{"user": {"name": "Jane", "tags": ["go", "json"]}, "empty": {}, "none": []}`)
	require.NoError(t, err)

	user := ir.Root.Members[0].Value
	require.Equal(t, models.Object, user.Kind)
	tags := user.Members[1].Value
	require.Equal(t, models.Array, tags.Kind)
	assert.Equal(t, "json", tags.Items[1].Text)

	assert.Equal(t, 0, ir.Root.Members[1].Value.Len())
	assert.Equal(t, models.Object, ir.Root.Members[1].Value.Kind)
	assert.Equal(t, 0, ir.Root.Members[2].Value.Len())
	assert.Equal(t, models.Array, ir.Root.Members[2].Value.Kind)
}

func TestParse_TopLevelScalars(t *testing.T) {
	tests := []struct {
		input string
		kind  models.Kind
		text  string
	}{
		{"5", models.Number, "5"},
		{"  -0.5e10 ", models.Number, "-0.5e10"},
		{`"5"`, models.String, "5"},
		{"true", models.Bool, ""},
		{"null", models.Null, ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ir, err := ParseString(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, ir.Root.Kind)
			assert.Equal(t, tt.text, ir.Root.Text)
			assert.False(t, ir.RootIsArray)
		})
	}
}

func TestParse_StringEscapes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"quote and backslash", `"a\"b\\c"`, `a"b\c`},
		{"solidus", `"a\/b"`, "a/b"},
		{"control escapes", `"\b\f\n\r\t"`, "\b\f\n\r\t"},
		{"unicode escape", `"caf\u00e9"`, "café"},
		{"surrogate pair", `"\uD83D\uDE00"`, "\U0001F600"},
		{"lowercase surrogate pair", `"\ud83d\ude00"`, "\U0001F600"},
		{"lone high surrogate", `"\uD83Dx"`, "\ufffdx"},
		{"lone low surrogate", `"\uDE00"`, "\ufffd"},
		{"high surrogate followed by non-surrogate", `"\uD83D\u0041"`, "\ufffdA"},
		{"raw utf-8", `"日本語"`, "日本語"},
		{"dollar is plain", `"$x"`, "$x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ir, err := ParseString(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ir.Root.Text)
		})
	}
}

func TestParse_InvalidUTF8IsReplaced(t *testing.T) {
	ir, err := ParseBytes([]byte{'"', 'a', 0xff, 'b', '"'})
	require.NoError(t, err)
	assert.Equal(t, "a\ufffdb", ir.Root.Text)
}

func TestParse_Numbers(t *testing.T) {
	valid := []string{"0", "-0", "12345678901234567890123", "1.5", "-1.25e-3", "1E10", "2e+2", "0.0"}
	for _, input := range valid {
		t.Run(input, func(t *testing.T) {
			ir, err := ParseString(input)
			require.NoError(t, err)
			assert.Equal(t, input, ir.Root.Text, "number lexeme must be kept verbatim")
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		offset  int
		message string
		kind    error
	}{
		{"missing value", `{"a":}`, 5, "unexpected character '}' looking for beginning of value", errors.ErrInvalidJSON},
		{"empty input", ``, 0, "empty input", errors.ErrEmptyInput},
		{"whitespace only", "  \n\t", 4, "empty input", errors.ErrEmptyInput},
		{"trailing data", `{} []`, 3, "unexpected character '[' after top-level value", errors.ErrTrailingData},
		{"unterminated string", `["abc`, 1, "unterminated string", errors.ErrInvalidJSON},
		{"invalid escape", `"a\qb"`, 2, `invalid escape sequence '\q'`, errors.ErrInvalidJSON},
		{"short unicode escape", `"\u12"`, 1, `invalid \u escape: expected four hex digits`, errors.ErrInvalidJSON},
		{"bad hex", `"\u12G4"`, 1, `invalid \u escape: expected four hex digits`, errors.ErrInvalidJSON},
		{"raw newline in string", "\"a\nb\"", 2, "invalid control character U+000A in string", errors.ErrInvalidJSON},
		{"trailing comma in array", `[1,]`, 3, "unexpected character ']' looking for beginning of value", errors.ErrInvalidJSON},
		{"trailing comma in object", `{"a":1,}`, 7, "unexpected character '}', expected string for object key", errors.ErrInvalidJSON},
		{"unquoted key", `{a:1}`, 1, "unexpected character 'a', expected string for object key", errors.ErrInvalidJSON},
		{"missing colon", `{"a" 1}`, 5, "unexpected character '1', expected ':' after object key", errors.ErrInvalidJSON},
		{"missing comma", `[1 2]`, 3, "unexpected character '2' after array element, expected ',' or ']'", errors.ErrInvalidJSON},
		{"unclosed object", `{"a":1`, 6, "unexpected end of input after object member, expected ',' or '}'", errors.ErrInvalidJSON},
		{"unclosed array", `[`, 1, "unexpected end of input looking for beginning of value", errors.ErrInvalidJSON},
		{"leading zero", `01`, 1, "invalid number literal: leading zero", errors.ErrInvalidJSON},
		{"bare minus", `-`, 1, "invalid number literal: expected digit", errors.ErrInvalidJSON},
		{"missing fraction digits", `1.`, 2, "invalid number literal: expected digit after decimal point", errors.ErrInvalidJSON},
		{"missing exponent digits", `1e+`, 3, "invalid number literal: expected digit in exponent", errors.ErrInvalidJSON},
		{"bad literal", `tru`, 0, "invalid literal, expected true", errors.ErrInvalidJSON},
		{"single quotes", `'a'`, 0, `unexpected character '\'' looking for beginning of value`, errors.ErrInvalidJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(tt.input)
			pe := requireParseError(t, err)
			assert.Equal(t, tt.offset, pe.Offset)
			assert.Equal(t, tt.message, pe.Message)
			assert.ErrorIs(t, err, tt.kind)
			assert.ErrorIs(t, err, &errors.AppError{Type: errors.ErrorTypeParsing})
		})
	}
}

func TestParse_ErrorLineAndColumn(t *testing.T) {
	input := "{\n  \"name\": \"é\",\n  \"age\": ?\n}"
	_, err := ParseString(input)
	pe := requireParseError(t, err)

	assert.Equal(t, strings.Index(input, "?"), pe.Offset)
	assert.Equal(t, 3, pe.Line)
	assert.Equal(t, 10, pe.Column)
}

func TestParse_DuplicateKeys(t *testing.T) {
	input := `{"a": 1, "b": 2, "a": 3}`

	t.Run("keep", func(t *testing.T) {
		ir, err := ParseString(input)
		require.NoError(t, err)
		require.Len(t, ir.Root.Members, 3)
		assert.Equal(t, "a", ir.Root.Members[2].Key)
		assert.Equal(t, "3", ir.Root.Members[2].Value.Text)
	})

	t.Run("last wins", func(t *testing.T) {
		opts := models.DefaultParseOptions()
		opts.Duplicates = models.LastWins
		ir, err := ParseBytesWithOptions([]byte(input), opts)
		require.NoError(t, err)
		require.Len(t, ir.Root.Members, 2)
		assert.Equal(t, "a", ir.Root.Members[0].Key)
		assert.Equal(t, "3", ir.Root.Members[0].Value.Text)
		assert.Equal(t, "b", ir.Root.Members[1].Key)
	})

	t.Run("reject", func(t *testing.T) {
		opts := models.DefaultParseOptions()
		opts.Duplicates = models.RejectDuplicates
		_, err := ParseBytesWithOptions([]byte(input), opts)
		pe := requireParseError(t, err)
		assert.Equal(t, 17, pe.Offset)
		assert.Equal(t, `duplicate key "a"`, pe.Message)
		assert.ErrorIs(t, err, errors.ErrDuplicateKey)
	})

	t.Run("nested objects have their own keys", func(t *testing.T) {
		opts := models.DefaultParseOptions()
		opts.Duplicates = models.RejectDuplicates
		_, err := ParseBytesWithOptions([]byte(`{"a": {"a": 1}, "b": {"a": 2}}`), opts)
		assert.NoError(t, err)
	})
}

func TestParse_MaxDepth(t *testing.T) {
	opts := models.DefaultParseOptions()
	opts.MaxDepth = 3

	_, err := ParseBytesWithOptions([]byte(`[[[1]]]`), opts)
	require.NoError(t, err)

	_, err = ParseBytesWithOptions([]byte(`[[[[1]]]]`), opts)
	pe := requireParseError(t, err)
	assert.Equal(t, 3, pe.Offset)
	assert.ErrorIs(t, err, errors.ErrMaxDepth)
}

func TestParse_DeepNestingWithinDefaultLimit(t *testing.T) {
	depth := 5000
	input := strings.Repeat("[", depth) + strings.Repeat("]", depth)
	_, err := ParseString(input)
	assert.NoError(t, err)
}

func TestParse_Offsets(t *testing.T) {
	ir, err := ParseString(`{"a": [true, "x"]}`)
	require.NoError(t, err)

	assert.Equal(t, 0, ir.Root.Offset)
	assert.Equal(t, 1, ir.Root.Members[0].Offset)
	arr := ir.Root.Members[0].Value
	assert.Equal(t, 6, arr.Offset)
	assert.Equal(t, 7, arr.Items[0].Offset)
	assert.Equal(t, 13, arr.Items[1].Offset)
}

func TestParse_ByteOrderMarks(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"utf-8 bom", append([]byte{0xEF, 0xBB, 0xBF}, []byte(`{"k":"é"}`)...)},
		{"utf-16 le", []byte{0xFF, 0xFE, '{', 0, '"', 0, 'k', 0, '"', 0, ':', 0, '"', 0, 0xE9, 0, '"', 0, '}', 0}},
		{"utf-16 be", []byte{0xFE, 0xFF, 0, '{', 0, '"', 0, 'k', 0, '"', 0, ':', 0, '"', 0, 0xE9, 0, '"', 0, '}'}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ir, err := ParseBytes(tt.data)
			require.NoError(t, err)
			require.Len(t, ir.Root.Members, 1)
			assert.Equal(t, "k", ir.Root.Members[0].Key)
			assert.Equal(t, "é", ir.Root.Members[0].Value.Text)
		})
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(dir, "valid.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"id": 1}`), 0644))

		ir, err := ParseFile(path)
		require.NoError(t, err)
		assert.Equal(t, "id", ir.Root.Members[0].Key)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ParseFile(filepath.Join(dir, "missing.json"))
		assert.ErrorIs(t, err, errors.ErrFileNotFound)
		assert.ErrorIs(t, err, &errors.AppError{Type: errors.ErrorTypeInput})
	})

	t.Run("empty file", func(t *testing.T) {
		path := filepath.Join(dir, "empty.json")
		require.NoError(t, os.WriteFile(path, nil, 0644))

		_, err := ParseFile(path)
		assert.ErrorIs(t, err, errors.ErrFileEmpty)
	})

	t.Run("empty path", func(t *testing.T) {
		_, err := ParseFile("  ")
		assert.ErrorIs(t, err, errors.ErrInvalidFilePath)
	})

	t.Run("invalid json", func(t *testing.T) {
		path := filepath.Join(dir, "invalid.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"id": }`), 0644))

		_, err := ParseFile(path)
		pe := requireParseError(t, err)
		assert.Equal(t, 7, pe.Offset)
	})
}
