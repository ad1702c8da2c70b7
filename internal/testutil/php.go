// Package testutil holds helpers shared by package tests.
package testutil

import (
	"strings"
	"testing"

	"github.com/VKCOM/php-parser/pkg/conf"
	phperrors "github.com/VKCOM/php-parser/pkg/errors"
	"github.com/VKCOM/php-parser/pkg/parser"
	"github.com/VKCOM/php-parser/pkg/version"
	"github.com/stretchr/testify/require"
)

// PHPSyntaxErrors parses a complete PHP file and returns the reported syntax errors.
func PHPSyntaxErrors(src string) ([]string, error) {
	var found []string
	_, err := parser.Parse([]byte(src), conf.Config{
		Version: &version.Version{Major: 8, Minor: 0},
		ErrorHandlerFunc: func(e *phperrors.Error) {
			found = append(found, e.Msg)
		},
	})
	return found, err
}

// RequireValidPHPExpression fails the test unless expr parses as the operand of a return statement.
func RequireValidPHPExpression(t *testing.T, expr string) {
	t.Helper()
	RequireValidPHPFile(t, "<?php\nreturn "+expr+";\n")
}

// RequireValidPHPFile fails the test unless src parses as a PHP file.
func RequireValidPHPFile(t *testing.T, src string) {
	t.Helper()
	found, err := PHPSyntaxErrors(src)
	require.NoError(t, err)
	require.Empty(t, found, "PHP syntax errors in:\n%s\n%s", src, strings.Join(found, "\n"))
}
