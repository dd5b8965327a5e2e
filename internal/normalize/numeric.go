// Package normalize turns raw API payloads into typed view records. Nothing
// here returns an error: malformed input degrades to nil or a placeholder.
package normalize

import (
	"math"
	"strconv"
	"strings"
)

// ParseNumeric coerces a JSON-decoded value into a float. Numbers pass
// through; strings may carry a "%" and use "," as the decimal separator.
// Anything unparsable or non-finite yields nil.
func ParseNumeric(v any) *float64 {
	switch n := v.(type) {
	case nil:
		return nil
	case float64:
		return finite(n)
	case float32:
		return finite(float64(n))
	case int:
		return finite(float64(n))
	case int64:
		return finite(float64(n))
	case string:
		f, ok := parsePercentText(n)
		if !ok {
			return nil
		}
		return finite(f)
	default:
		return nil
	}
}

// ParsePercent applies the ParseNumeric string rule to text and reports
// whether a number was found.
func ParsePercent(text string) (float64, bool) {
	f, ok := parsePercentText(text)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func parsePercentText(s string) (float64, bool) {
	s = strings.ReplaceAll(s, "%", "")
	s = strings.ReplaceAll(s, ",", ".")
	return parseFloatPrefix(strings.TrimSpace(s))
}

func finite(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// parseFloatPrefix parses the longest leading decimal number in s, so
// "12.5abc" yields 12.5 and "abc" yields nothing.
func parseFloatPrefix(s string) (float64, bool) {
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
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0, false
	}
	end := i
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && isDigit(s[j]) {
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			end = j
		}
	}
	// on overflow ParseFloat returns ±Inf, which callers drop
	f, _ := strconv.ParseFloat(s[:end], 64)
	return f, true
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
