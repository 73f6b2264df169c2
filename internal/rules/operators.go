// Package rules implements the compliance rule evaluation engine:
// a closed operator library, a dotted-path field resolver, and the
// group/engine aggregation that turns rule verdicts into 0-100 scores.
package rules

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/vendorsafe/kestrel/internal/domain"
)

// certDateLayout is the expiration date format as printed on certificates.
const certDateLayout = "01/02/2006"

// EvaluateOperator evaluates a single comparison between an actual and an
// expected value. It is total: malformed or unknown input yields false,
// never a panic. Unknown operators fail closed.
func EvaluateOperator(op string, actual, expected any) bool {
	switch op {
	case domain.OpMissing:
		return isEmpty(actual)

	case domain.OpPresent:
		return !isEmpty(actual)

	case domain.OpEq:
		return coerceString(actual) == coerceString(expected)

	case domain.OpNe:
		return coerceString(actual) != coerceString(expected)

	case domain.OpIn:
		return containsCoerced(expected, actual)

	case domain.OpLt, domain.OpLte, domain.OpGt, domain.OpGte:
		a, aok := coerceNumber(actual)
		e, eok := coerceNumber(expected)
		if !aok || !eok {
			return false
		}
		switch op {
		case domain.OpLt:
			return a < e
		case domain.OpLte:
			return a <= e
		case domain.OpGt:
			return a > e
		default:
			return a >= e
		}

	case domain.OpBeforeDays, domain.OpAfterDays:
		days, ok := daysUntil(coerceString(actual))
		threshold, tok := coerceNumber(expected)
		if !ok || !tok {
			return false
		}
		if op == domain.OpBeforeDays {
			return float64(days) <= threshold
		}
		return float64(days) >= threshold

	default:
		return false
	}
}

// isEmpty reports whether a value counts as absent: nil or empty string.
func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

// coerceString stringifies a value so numeric-vs-string storage differences
// don't break equality checks. nil stringifies to "".
func coerceString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// coerceNumber parses a value as a float. The second return is false for
// anything that is not numeric or a numeric string.
func coerceNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, !math.IsNaN(t)
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// containsCoerced reports whether expected is a list whose string-coerced
// elements contain the string-coerced actual.
func containsCoerced(expected, actual any) bool {
	target := coerceString(actual)
	switch list := expected.(type) {
	case []any:
		for _, e := range list {
			if coerceString(e) == target {
				return true
			}
		}
	case []string:
		for _, e := range list {
			if e == target {
				return true
			}
		}
	case []float64:
		for _, e := range list {
			if coerceString(e) == target {
				return true
			}
		}
	}
	return false
}

// daysUntil parses an MM/DD/YYYY date and returns the whole number of days
// from now until that date. Past dates yield negative counts. The second
// return is false for unparseable input.
func daysUntil(s string) (int, bool) {
	d, err := time.ParseInLocation(certDateLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return 0, false
	}
	diff := d.Sub(time.Now())
	return int(math.Ceil(diff.Hours() / 24)), true
}
