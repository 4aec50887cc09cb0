package query

import (
	"math"
	"strconv"
	"strings"
)

// parseNumericPrefix converts the longest leading decimal number in s to a
// float64, the way C's atof does: leading whitespace is skipped, trailing
// garbage is ignored, and text with no numeric prefix yields 0.
func parseNumericPrefix(s string) float64 {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	if f, ok := specialPrefix(s); ok {
		return f
	}
	n := numericPrefixLen(s)
	if n == 0 {
		return 0
	}
	// Out-of-range values come back as ±Inf with a range error; keep the value.
	f, _ := strconv.ParseFloat(s[:n], 64)
	return f
}

// specialPrefix recognizes a leading infinity or NaN spelling, optionally
// signed and in any case: "inf", "infinity" or "nan".
func specialPrefix(s string) (float64, bool) {
	sign := 1
	rest := s
	if rest != "" && (rest[0] == '+' || rest[0] == '-') {
		if rest[0] == '-' {
			sign = -1
		}
		rest = rest[1:]
	}
	switch {
	case hasPrefixFold(rest, "inf"):
		return math.Inf(sign), true
	case hasPrefixFold(rest, "nan"):
		return math.NaN(), true
	}
	return 0, false
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

// numericPrefixLen returns the length of the longest prefix of s of the form
// [+-]digits[.digits][(e|E)[+-]digits] with at least one mantissa digit.
func numericPrefixLen(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}

	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		frac := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			frac++
		}
		if digits > 0 || frac > 0 {
			i = j
			digits += frac
		}
	}
	if digits == 0 {
		return 0
	}

	// exponent only counts when at least one digit follows it
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		start := j
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if j > start {
			i = j
		}
	}

	return i
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
