// Package emitter renders a parsed JSON tree as a PHP array literal.
package emitter

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/mcncl/phparray/internal/models"
)

// Emitter renders values with a fixed set of options.
// It holds no state between calls and may be shared between goroutines.
type Emitter struct {
	opts models.Options
}

// NewEmitter creates a new Emitter. An empty indent falls back to four spaces.
func NewEmitter(opts models.Options) *Emitter {
	if opts.Indent == "" {
		opts.Indent = models.DefaultIndent
	}
	return &Emitter{opts: opts}
}

// Emit renders v with opts.
func Emit(v *models.Value, opts models.Options) string {
	return NewEmitter(opts).Emit(v)
}

// Emit renders v as PHP source. The result has no trailing newline.
func (e *Emitter) Emit(v *models.Value) string {
	var buf bytes.Buffer
	e.writeValue(&buf, v, 0)
	return buf.String()
}

func (e *Emitter) writeValue(buf *bytes.Buffer, v *models.Value, depth int) {
	switch v.Kind {
	case models.Null:
		buf.WriteString("null")
	case models.Bool:
		if v.Bool {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case models.Number:
		buf.WriteString(formatNumber(v))
	case models.String:
		buf.WriteString(e.quote(v.Text))
	case models.Array:
		e.writeList(buf, v.Items, depth)
	case models.Object:
		e.writeAssoc(buf, v.Members, depth)
	}
}

// writeList renders an array in list form. JSON arrays always have
// contiguous 0-based keys, so no keys are written.
func (e *Emitter) writeList(buf *bytes.Buffer, items []*models.Value, depth int) {
	buf.WriteString(e.open())
	if len(items) == 0 {
		buf.WriteString(e.close())
		return
	}

	if e.opts.InlineScalarLists && allScalars(items) {
		for i, item := range items {
			if i > 0 {
				buf.WriteString(", ")
			}
			e.writeValue(buf, item, depth+1)
		}
		buf.WriteString(e.close())
		return
	}

	buf.WriteByte('\n')
	for i, item := range items {
		e.writeIndent(buf, depth+1)
		e.writeValue(buf, item, depth+1)
		e.writeSeparator(buf, i, len(items))
	}
	e.writeIndent(buf, depth)
	buf.WriteString(e.close())
}

// writeAssoc renders an object in associative form with string keys.
func (e *Emitter) writeAssoc(buf *bytes.Buffer, members []models.Member, depth int) {
	buf.WriteString(e.open())
	if len(members) == 0 {
		buf.WriteString(e.close())
		return
	}

	keys := make([]string, len(members))
	width := 0
	for i, m := range members {
		keys[i] = e.quote(m.Key)
		if n := utf8.RuneCountInString(keys[i]); n > width {
			width = n
		}
	}

	buf.WriteByte('\n')
	for i, m := range members {
		e.writeIndent(buf, depth+1)
		buf.WriteString(keys[i])
		if e.opts.AlignArrows {
			buf.WriteString(strings.Repeat(" ", width-utf8.RuneCountInString(keys[i])))
		}
		buf.WriteString(" => ")
		e.writeValue(buf, m.Value, depth+1)
		e.writeSeparator(buf, i, len(members))
	}
	e.writeIndent(buf, depth)
	buf.WriteString(e.close())
}

// writeSeparator ends element i of n in a multi-line array.
func (e *Emitter) writeSeparator(buf *bytes.Buffer, i, n int) {
	if i < n-1 || e.opts.TrailingComma {
		buf.WriteByte(',')
	}
	buf.WriteByte('\n')
}

func (e *Emitter) writeIndent(buf *bytes.Buffer, depth int) {
	for i := 0; i < depth; i++ {
		buf.WriteString(e.opts.Indent)
	}
}

func (e *Emitter) open() string {
	if e.opts.ArraySyntax == models.Short {
		return "["
	}
	return "array("
}

func (e *Emitter) close() string {
	if e.opts.ArraySyntax == models.Short {
		return "]"
	}
	return ")"
}

func (e *Emitter) quote(s string) string {
	if e.opts.QuoteStyle == models.Double {
		return QuoteDouble(s)
	}
	return QuoteSingle(s)
}

func allScalars(items []*models.Value) bool {
	for _, item := range items {
		if !item.IsScalar() {
			return false
		}
	}
	return true
}
