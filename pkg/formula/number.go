package formula

import (
	"strconv"
	"strings"
)

// FormatNumber prints f with the fewest digits that parse back to f.
// Numbers whose decimal exponent is at least 15 or below -4 use scientific
// notation with an upper-case E, an explicit sign and at least two exponent
// digits ("1E+20", "1.5E-07"); everything else is plain decimal ("200000",
// "0.0001", "2").
func FormatNumber(f float64) string {
	sci := strconv.FormatFloat(f, 'e', -1, 64)
	mant, exp, ok := strings.Cut(sci, "e")
	if !ok {
		// NaN and infinities have no exponent.
		return sci
	}
	e, err := strconv.Atoi(exp)
	if err != nil {
		return sci
	}
	if e < 15 && e >= -4 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	sign := "+"
	if e < 0 {
		sign = "-"
		e = -e
	}
	digits := strconv.Itoa(e)
	if len(digits) < 2 {
		digits = "0" + digits
	}
	return mant + "E" + sign + digits
}
