package emitter

import (
	"math"
	"strconv"
	"strings"

	"github.com/mcncl/phparray/internal/models"
)

// formatNumber renders a JSON number as a PHP literal.
// Integer lexemes are copied verbatim.
func formatNumber(v *models.Value) string {
	if v.IsInteger() {
		return v.Text
	}
	f, err := strconv.ParseFloat(v.Text, 64)
	if err != nil {
		// Out of float64 range. PHP reads the same literal as INF.
		return v.Text
	}
	return FormatFloat(f)
}

// FormatFloat returns the shortest decimal that round-trips f, always
// marked as a float with a decimal point or an exponent. Values with a
// decimal exponent below -4 or from 15 upwards use the 1.0E+15 form.
func FormatFloat(f float64) string {
	if f == 0 {
		if math.Signbit(f) {
			return "-0.0"
		}
		return "0.0"
	}

	sci := strconv.FormatFloat(f, 'E', -1, 64)
	mantissa, exponent, _ := strings.Cut(sci, "E")
	exp, _ := strconv.Atoi(exponent)

	if exp < -4 || exp >= 15 {
		if !strings.Contains(mantissa, ".") {
			mantissa += ".0"
		}
		sign := "+"
		if exp < 0 {
			sign = "-"
			exp = -exp
		}
		return mantissa + "E" + sign + strconv.Itoa(exp)
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
