package formatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/phparray/internal/config"
	"github.com/mcncl/phparray/internal/testutil"
)

const literal = "array(\n    'name' => 'Ada',\n    'tags' => array('a', 'b'),\n)"

func outputConfig(mutate func(*config.OutputConfig)) config.OutputConfig {
	out := config.NewConfig().Output
	if mutate != nil {
		mutate(&out)
	}
	return out
}

func TestFormat_Defaults(t *testing.T) {
	formatted, err := NewFormatter().Format(literal)
	require.NoError(t, err)
	assert.Equal(t, literal+"\n", formatted)
}

func TestFormat_EmptyInput(t *testing.T) {
	formatted, err := NewFormatter().Format("  \n")
	require.NoError(t, err)
	assert.Empty(t, formatted)
}

func TestFormat_NoFinalNewline(t *testing.T) {
	f := NewFormatterWithConfig(outputConfig(func(o *config.OutputConfig) { o.FinalNewline = false }))
	formatted, err := f.Format(literal)
	require.NoError(t, err)
	assert.Equal(t, literal, formatted)
}

func TestFormat_Wrap(t *testing.T) {
	tests := []struct {
		name     string
		wrap     string
		variable string
		expected string
	}{
		{"return", config.WrapReturn, "", "return [1, 2];\n"},
		{"assign", config.WrapAssign, "data", "$data = [1, 2];\n"},
		{"assign strips dollar", config.WrapAssign, "$config", "$config = [1, 2];\n"},
		{"assign normalises case", config.WrapAssign, "user_settings", "$userSettings = [1, 2];\n"},
		{"assign kebab", config.WrapAssign, "app-config", "$appConfig = [1, 2];\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFormatterWithConfig(outputConfig(func(o *config.OutputConfig) {
				o.Wrap = tt.wrap
				o.Variable = tt.variable
			}))
			formatted, err := f.Format("[1, 2]")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, formatted)
		})
	}
}

func TestFormat_InvalidVariableName(t *testing.T) {
	for _, name := range []string{"123abc", "", "!!!"} {
		t.Run(name, func(t *testing.T) {
			f := NewFormatterWithConfig(outputConfig(func(o *config.OutputConfig) {
				o.Wrap = config.WrapAssign
				o.Variable = name
			}))
			_, err := f.Format("[]")
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid PHP variable name")
		})
	}
}

func TestFormat_PHPTagAndHeader(t *testing.T) {
	f := NewFormatterWithConfig(outputConfig(func(o *config.OutputConfig) {
		o.Wrap = config.WrapReturn
		o.PHPTag = true
		o.FileHeader = "Generated by phparray\n\nDo not edit ?> by hand\n"
	}))

	formatted, err := f.Format(literal)
	require.NoError(t, err)

	expected := "<?php\n\n" +
		"// Generated by phparray\n" +
		"//\n" +
		"// Do not edit ? > by hand\n" +
		"\n" +
		"return " + literal + ";\n"
	assert.Equal(t, expected, formatted)
	testutil.RequireValidPHPFile(t, formatted)
}

func TestFormat_CRLF(t *testing.T) {
	f := NewFormatterWithConfig(outputConfig(func(o *config.OutputConfig) {
		o.Wrap = config.WrapAssign
		o.Variable = "data"
		o.PHPTag = true
		o.LineEnding = "crlf"
	}))

	// The line feed inside the quoted string belongs to the value
	code := "[\n    'text' => 'line one\nline two',\n    \"it\\\"s\" => 'x\\'\n',\n]"
	formatted, err := f.Format(code)
	require.NoError(t, err)

	expected := "<?php\r\n\r\n" +
		"$data = [\r\n    'text' => 'line one\nline two',\r\n    \"it\\\"s\" => 'x\\'\n',\r\n];\r\n"
	assert.Equal(t, expected, formatted)
	testutil.RequireValidPHPFile(t, formatted)
}

func TestConvertLineEndings_LFIsUnchanged(t *testing.T) {
	code := "[\n    'a' => 1,\n]"
	assert.Equal(t, code, convertLineEndings(code, "\n"))
}

func TestVariableName(t *testing.T) {
	name, err := VariableName(" $my_var ")
	require.NoError(t, err)
	assert.Equal(t, "myVar", name)

	_, err = VariableName("9lives")
	assert.Error(t, err)
}
