package numfmt

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

var (
	hundred = big.NewFloat(100)
	half    = big.NewFloat(0.5)
)

// Area rounds v to two decimals and drops trailing zeros and a trailing
// decimal point: 4.00 -> "4", 4.50 -> "4.5", 4.33 -> "4.33".
//
// Rounding works on the exact binary value of v and sends ties away from
// zero, so 0.125 -> "0.13" while 1.005 (stored just below) -> "1".
func Area(v float64) string {
	s := fixed2(v)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "-0" {
		s = "0"
	}
	return s
}

// fixed2 formats v with exactly two decimals.
func fixed2(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
	// 256 bits hold v*100 exactly.
	x := new(big.Float).SetPrec(256).SetFloat64(math.Abs(v))
	x.Mul(x, hundred)
	x.Add(x, half)
	n, _ := x.Int(nil)

	digits := n.String()
	if len(digits) < 3 {
		digits = strings.Repeat("0", 3-len(digits)) + digits
	}
	s := digits[:len(digits)-2] + "." + digits[len(digits)-2:]
	if math.Signbit(v) {
		s = "-" + s
	}
	return s
}

// WithUnit renders v followed by the squared unit, e.g. "12.57 cm²".
func WithUnit(v float64, unit string) string {
	if unit == "" {
		return Area(v)
	}
	return Area(v) + " " + unit + "²"
}
