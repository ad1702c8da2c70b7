package errors

import (
	"errors"

	gojson "github.com/goccy/go-json"
)

// Report is the machine-readable form of an error, written by --error-format json.
type Report struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Detail  string    `json:"detail,omitempty"`
	Offset  *int      `json:"offset,omitempty"`
	Line    int       `json:"line,omitempty"`
	Column  int       `json:"column,omitempty"`
}

// NewReport builds a Report from any error.
func NewReport(err error) Report {
	r := Report{Type: ErrorTypeUnknown, Message: err.Error()}

	var appErr *AppError
	if errors.As(err, &appErr) {
		r.Type = appErr.Type
		r.Message = appErr.Message
		if appErr.Err != nil {
			r.Detail = appErr.Err.Error()
		}
	}

	if pe, ok := AsParseError(err); ok {
		if appErr == nil {
			r.Type = ErrorTypeParsing
		}
		r.Message = pe.Message
		r.Detail = ""
		offset := pe.Offset
		r.Offset = &offset
		r.Line = pe.Line
		r.Column = pe.Column
	}
	return r
}

// JSONReport encodes err as a single-line JSON object.
func JSONReport(err error) ([]byte, error) {
	return gojson.Marshal(NewReport(err))
}
