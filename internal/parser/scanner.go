package parser

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/mcncl/phparray/internal/errors"
	"github.com/mcncl/phparray/internal/models"
)

// scanner is a recursive descent parser over UTF-8 text.
type scanner struct {
	data  []byte
	pos   int // current byte offset
	depth int // open containers
	opts  models.ParseOptions
}

func newScanner(data []byte, opts models.ParseOptions) *scanner {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = models.DefaultMaxDepth
	}
	return &scanner{data: data, opts: opts}
}

// parseDocument parses exactly one value surrounded by optional whitespace.
func (s *scanner) parseDocument() (*models.Value, error) {
	s.skipWhitespace()
	if s.pos >= len(s.data) {
		return nil, s.errorAt(s.pos, errors.ErrEmptyInput, "empty input")
	}

	v, err := s.parseValue()
	if err != nil {
		return nil, err
	}

	s.skipWhitespace()
	if s.pos < len(s.data) {
		return nil, s.errorAt(s.pos, errors.ErrTrailingData,
			fmt.Sprintf("unexpected %s after top-level value", s.describe(s.pos)))
	}
	return v, nil
}

func (s *scanner) parseValue() (*models.Value, error) {
	if s.pos >= len(s.data) {
		return nil, s.errorAt(s.pos, errors.ErrInvalidJSON, "unexpected end of input looking for beginning of value")
	}

	start := s.pos
	switch c := s.data[s.pos]; {
	case c == '{':
		return s.parseObject()
	case c == '[':
		return s.parseArray()
	case c == '"':
		str, err := s.parseString()
		if err != nil {
			return nil, err
		}
		return &models.Value{Kind: models.String, Text: str, Offset: start}, nil
	case c == '-' || isDigit(c):
		return s.parseNumber()
	case c == 't':
		return s.parseLiteral("true", &models.Value{Kind: models.Bool, Bool: true, Offset: start})
	case c == 'f':
		return s.parseLiteral("false", &models.Value{Kind: models.Bool, Offset: start})
	case c == 'n':
		return s.parseLiteral("null", &models.Value{Kind: models.Null, Offset: start})
	default:
		return nil, s.errorAt(start, errors.ErrInvalidJSON,
			fmt.Sprintf("unexpected %s looking for beginning of value", s.describe(start)))
	}
}

func (s *scanner) parseObject() (*models.Value, error) {
	obj := &models.Value{Kind: models.Object, Offset: s.pos}
	if err := s.enter(); err != nil {
		return nil, err
	}
	defer s.leave()

	s.pos++ // '{'
	s.skipWhitespace()
	if s.peek() == '}' {
		s.pos++
		return obj, nil
	}

	// index maps keys to member positions; only needed when duplicates are not kept
	var index map[string]int
	if s.opts.Duplicates != models.KeepDuplicates {
		index = make(map[string]int)
	}

	for {
		s.skipWhitespace()
		if s.peek() != '"' {
			return nil, s.errorAt(s.pos, errors.ErrInvalidJSON,
				fmt.Sprintf("unexpected %s, expected string for object key", s.describe(s.pos)))
		}
		keyOffset := s.pos
		key, err := s.parseString()
		if err != nil {
			return nil, err
		}

		existing, seen := index[key]
		if seen && s.opts.Duplicates == models.RejectDuplicates {
			return nil, s.errorAt(keyOffset, errors.ErrDuplicateKey, fmt.Sprintf("duplicate key %q", key))
		}

		s.skipWhitespace()
		if err := s.expect(':', "after object key"); err != nil {
			return nil, err
		}
		s.skipWhitespace()

		val, err := s.parseValue()
		if err != nil {
			return nil, err
		}

		if seen {
			obj.Members[existing].Value = val
		} else {
			if index != nil {
				index[key] = len(obj.Members)
			}
			obj.Members = append(obj.Members, models.Member{Key: key, Value: val, Offset: keyOffset})
		}

		s.skipWhitespace()
		switch s.peek() {
		case ',':
			s.pos++
		case '}':
			s.pos++
			return obj, nil
		default:
			return nil, s.errorAt(s.pos, errors.ErrInvalidJSON,
				fmt.Sprintf("unexpected %s after object member, expected ',' or '}'", s.describe(s.pos)))
		}
	}
}

func (s *scanner) parseArray() (*models.Value, error) {
	arr := &models.Value{Kind: models.Array, Offset: s.pos}
	if err := s.enter(); err != nil {
		return nil, err
	}
	defer s.leave()

	s.pos++ // '['
	s.skipWhitespace()
	if s.peek() == ']' {
		s.pos++
		return arr, nil
	}

	for {
		s.skipWhitespace()
		item, err := s.parseValue()
		if err != nil {
			return nil, err
		}
		arr.Items = append(arr.Items, item)

		s.skipWhitespace()
		switch s.peek() {
		case ',':
			s.pos++
		case ']':
			s.pos++
			return arr, nil
		default:
			return nil, s.errorAt(s.pos, errors.ErrInvalidJSON,
				fmt.Sprintf("unexpected %s after array element, expected ',' or ']'", s.describe(s.pos)))
		}
	}
}

// parseString reads a quoted string starting at the opening quote.
func (s *scanner) parseString() (string, error) {
	start := s.pos
	s.pos++ // opening quote

	var b strings.Builder
	for {
		if s.pos >= len(s.data) {
			return "", s.errorAt(start, errors.ErrInvalidJSON, "unterminated string")
		}
		c := s.data[s.pos]
		switch {
		case c == '"':
			s.pos++
			return b.String(), nil
		case c == '\\':
			if err := s.parseEscape(&b); err != nil {
				return "", err
			}
		case c < 0x20:
			return "", s.errorAt(s.pos, errors.ErrInvalidJSON,
				fmt.Sprintf("invalid control character U+%04X in string", c))
		case c < utf8.RuneSelf:
			b.WriteByte(c)
			s.pos++
		default:
			// invalid UTF-8 decodes to RuneError with size 1
			r, size := utf8.DecodeRune(s.data[s.pos:])
			b.WriteRune(r)
			s.pos += size
		}
	}
}

// parseEscape reads one escape sequence starting at the backslash.
func (s *scanner) parseEscape(b *strings.Builder) error {
	start := s.pos
	if s.pos+1 >= len(s.data) {
		return s.errorAt(start, errors.ErrInvalidJSON, "unterminated string")
	}

	c := s.data[s.pos+1]
	switch c {
	case '"', '\\', '/':
		b.WriteByte(c)
	case 'b':
		b.WriteByte('\b')
	case 'f':
		b.WriteByte('\f')
	case 'n':
		b.WriteByte('\n')
	case 'r':
		b.WriteByte('\r')
	case 't':
		b.WriteByte('\t')
	case 'u':
		r, err := s.readHex4(s.pos + 2)
		if err != nil {
			return err
		}
		s.pos += 6
		if !utf16.IsSurrogate(r) {
			b.WriteRune(r)
			return nil
		}
		// A high surrogate may pair with a following \uXXXX low surrogate.
		if r < 0xDC00 && s.pos+1 < len(s.data) && s.data[s.pos] == '\\' && s.data[s.pos+1] == 'u' {
			low, err := s.readHex4(s.pos + 2)
			if err != nil {
				return err
			}
			if dec := utf16.DecodeRune(r, low); dec != unicode.ReplacementChar {
				s.pos += 6
				b.WriteRune(dec)
				return nil
			}
		}
		b.WriteRune(unicode.ReplacementChar)
		return nil
	default:
		return s.errorAt(start, errors.ErrInvalidJSON,
			fmt.Sprintf("invalid escape sequence '\\%s'", s.runeAt(s.pos+1)))
	}
	s.pos += 2
	return nil
}

// readHex4 decodes the four hex digits of a \u escape starting at offset at.
func (s *scanner) readHex4(at int) (rune, error) {
	if at+4 > len(s.data) {
		return 0, s.errorAt(at-2, errors.ErrInvalidJSON, "invalid \\u escape: expected four hex digits")
	}
	var r rune
	for i := at; i < at+4; i++ {
		c := s.data[i]
		var d byte
		switch {
		case c >= '0' && c <= '9':
			d = c - '0'
		case c >= 'a' && c <= 'f':
			d = c - 'a' + 10
		case c >= 'A' && c <= 'F':
			d = c - 'A' + 10
		default:
			return 0, s.errorAt(at-2, errors.ErrInvalidJSON, "invalid \\u escape: expected four hex digits")
		}
		r = r<<4 | rune(d)
	}
	return r, nil
}

// parseNumber reads a number and keeps its lexeme.
func (s *scanner) parseNumber() (*models.Value, error) {
	start := s.pos
	if s.peek() == '-' {
		s.pos++
	}

	switch c := s.peek(); {
	case c == '0':
		s.pos++
		if isDigit(s.peek()) {
			return nil, s.errorAt(s.pos, errors.ErrInvalidJSON, "invalid number literal: leading zero")
		}
	case c >= '1' && c <= '9':
		s.skipDigits()
	default:
		return nil, s.errorAt(s.pos, errors.ErrInvalidJSON, "invalid number literal: expected digit")
	}

	if s.peek() == '.' {
		s.pos++
		if !isDigit(s.peek()) {
			return nil, s.errorAt(s.pos, errors.ErrInvalidJSON, "invalid number literal: expected digit after decimal point")
		}
		s.skipDigits()
	}

	if c := s.peek(); c == 'e' || c == 'E' {
		s.pos++
		if c := s.peek(); c == '+' || c == '-' {
			s.pos++
		}
		if !isDigit(s.peek()) {
			return nil, s.errorAt(s.pos, errors.ErrInvalidJSON, "invalid number literal: expected digit in exponent")
		}
		s.skipDigits()
	}

	return &models.Value{Kind: models.Number, Text: string(s.data[start:s.pos]), Offset: start}, nil
}

func (s *scanner) parseLiteral(lit string, v *models.Value) (*models.Value, error) {
	if !bytes.HasPrefix(s.data[s.pos:], []byte(lit)) {
		return nil, s.errorAt(s.pos, errors.ErrInvalidJSON, fmt.Sprintf("invalid literal, expected %s", lit))
	}
	s.pos += len(lit)
	return v, nil
}

func (s *scanner) expect(c byte, context string) error {
	if s.peek() != c {
		return s.errorAt(s.pos, errors.ErrInvalidJSON,
			fmt.Sprintf("unexpected %s, expected '%c' %s", s.describe(s.pos), c, context))
	}
	s.pos++
	return nil
}

func (s *scanner) enter() error {
	s.depth++
	if s.depth > s.opts.MaxDepth {
		return s.errorAt(s.pos, errors.ErrMaxDepth,
			fmt.Sprintf("exceeded maximum nesting depth of %d", s.opts.MaxDepth))
	}
	return nil
}

func (s *scanner) leave() {
	s.depth--
}

func (s *scanner) skipWhitespace() {
	for s.pos < len(s.data) {
		switch s.data[s.pos] {
		case ' ', '\t', '\n', '\r':
			s.pos++
		default:
			return
		}
	}
}

func (s *scanner) skipDigits() {
	for isDigit(s.peek()) {
		s.pos++
	}
}

// peek returns the current byte, or 0 at end of input.
func (s *scanner) peek() byte {
	if s.pos >= len(s.data) {
		return 0
	}
	return s.data[s.pos]
}

// describe names the token at offset for error messages.
func (s *scanner) describe(offset int) string {
	if offset >= len(s.data) {
		return "end of input"
	}
	return "character " + strconv.QuoteRune(s.decodeRune(offset))
}

func (s *scanner) runeAt(offset int) string {
	return string(s.decodeRune(offset))
}

func (s *scanner) decodeRune(offset int) rune {
	r, _ := utf8.DecodeRune(s.data[offset:])
	return r
}

func (s *scanner) errorAt(offset int, kind error, msg string) error {
	line, column := position(s.data, offset)
	return &errors.ParseError{
		Offset:  offset,
		Line:    line,
		Column:  column,
		Message: msg,
		Err:     kind,
	}
}

// position converts a byte offset into a 1-based line and rune column.
func position(data []byte, offset int) (line, column int) {
	if offset > len(data) {
		offset = len(data)
	}
	prefix := data[:offset]
	line = bytes.Count(prefix, []byte{'\n'}) + 1
	lineStart := bytes.LastIndexByte(prefix, '\n') + 1
	column = utf8.RuneCount(prefix[lineStart:]) + 1
	return line, column
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
