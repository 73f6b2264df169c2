package rules

import (
	"testing"
	"time"

	"github.com/vendorsafe/kestrel/internal/domain"
)

func dateFromNow(days int) string {
	return time.Now().AddDate(0, 0, days).Format(certDateLayout)
}

func TestEvaluateOperator_Presence(t *testing.T) {
	tests := []struct {
		name   string
		op     string
		actual any
		want   bool
	}{
		{"missing nil", domain.OpMissing, nil, true},
		{"missing empty string", domain.OpMissing, "", true},
		{"missing zero is present", domain.OpMissing, 0, false},
		{"missing false is present", domain.OpMissing, false, false},
		{"missing non-empty", domain.OpMissing, "x", false},
		{"present nil", domain.OpPresent, nil, false},
		{"present empty string", domain.OpPresent, "", false},
		{"present value", domain.OpPresent, "ACME", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateOperator(tt.op, tt.actual, nil)
			if got != tt.want {
				t.Errorf("EvaluateOperator(%s, %v) = %v, want %v", tt.op, tt.actual, got, tt.want)
			}
		})
	}
}

func TestEvaluateOperator_MissingPresentNegation(t *testing.T) {
	inputs := []any{nil, "", "x", 0, 1.5, false, true, []any{}, map[string]any{}}
	for _, in := range inputs {
		m := EvaluateOperator(domain.OpMissing, in, nil)
		p := EvaluateOperator(domain.OpPresent, in, nil)
		if m == p {
			t.Errorf("missing and present must negate each other for %#v: missing=%v present=%v", in, m, p)
		}
	}
}

func TestEvaluateOperator_Equality(t *testing.T) {
	tests := []struct {
		name             string
		actual, expected any
		want             bool
	}{
		{"string equal", "general_liability", "general_liability", true},
		{"string unequal", "auto", "general_liability", false},
		{"number vs numeric string", 1000000.0, "1000000", true},
		{"int vs float", 5, 5.0, true},
		{"bool vs string", true, "true", true},
		{"nil vs empty", nil, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EvaluateOperator(domain.OpEq, tt.actual, tt.expected); got != tt.want {
				t.Errorf("eq(%v, %v) = %v, want %v", tt.actual, tt.expected, got, tt.want)
			}
			if got := EvaluateOperator(domain.OpNe, tt.actual, tt.expected); got == tt.want {
				t.Errorf("ne(%v, %v) must negate eq", tt.actual, tt.expected)
			}
		})
	}
}

func TestEvaluateOperator_In(t *testing.T) {
	tests := []struct {
		name             string
		actual, expected any
		want             bool
	}{
		{"string member", "auto", []any{"auto", "umbrella"}, true},
		{"not a member", "general_liability", []any{"auto", "umbrella"}, false},
		{"numeric coercion", 30.0, []any{"30", "60"}, true},
		{"string slice", "w9", []string{"w9", "license"}, true},
		{"expected not a list", "auto", "auto", false},
		{"nil expected", "auto", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EvaluateOperator(domain.OpIn, tt.actual, tt.expected); got != tt.want {
				t.Errorf("in(%v, %v) = %v, want %v", tt.actual, tt.expected, got, tt.want)
			}
		})
	}
}

func TestEvaluateOperator_NumericComparisons(t *testing.T) {
	tests := []struct {
		name             string
		op               string
		actual, expected any
		want             bool
	}{
		{"lt true", domain.OpLt, 500000, 1000000, true},
		{"lt false on equal", domain.OpLt, 1000000, 1000000, false},
		{"lte on equal", domain.OpLte, 1000000, 1000000, true},
		{"gt numeric strings", domain.OpGt, "2000000", "1000000", true},
		{"gte mixed types", domain.OpGte, 1000000.0, "1000000", true},
		{"non-numeric actual", domain.OpGt, "a lot", 100, false},
		{"non-numeric expected", domain.OpLt, 5, "threshold", false},
		{"nil actual", domain.OpGte, nil, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EvaluateOperator(tt.op, tt.actual, tt.expected); got != tt.want {
				t.Errorf("%s(%v, %v) = %v, want %v", tt.op, tt.actual, tt.expected, got, tt.want)
			}
		})
	}
}

func TestEvaluateOperator_DateWindows(t *testing.T) {
	tests := []struct {
		name             string
		op               string
		actual, expected any
		want             bool
	}{
		{"expiring within 30 days", domain.OpBeforeDays, dateFromNow(10), 30, true},
		{"not expiring within 30 days", domain.OpBeforeDays, dateFromNow(60), 30, false},
		{"already expired counts as before", domain.OpBeforeDays, dateFromNow(-5), 30, true},
		{"safely beyond 30 days", domain.OpAfterDays, dateFromNow(60), 30, true},
		{"inside the window", domain.OpAfterDays, dateFromNow(10), 30, false},
		{"garbage date", domain.OpBeforeDays, "soon", 30, false},
		{"empty date", domain.OpAfterDays, "", 30, false},
		{"iso format rejected", domain.OpBeforeDays, "2030-01-15", 30, false},
		{"non-numeric threshold", domain.OpBeforeDays, dateFromNow(10), "a month", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EvaluateOperator(tt.op, tt.actual, tt.expected); got != tt.want {
				t.Errorf("%s(%v, %v) = %v, want %v", tt.op, tt.actual, tt.expected, got, tt.want)
			}
		})
	}
}

func TestEvaluateOperator_UnknownOperatorFailsClosed(t *testing.T) {
	for _, op := range []string{"", "between", "regex", "EQ"} {
		if EvaluateOperator(op, "x", "x") {
			t.Errorf("unknown operator %q must evaluate to false", op)
		}
	}
}

func TestDaysUntil(t *testing.T) {
	if _, ok := daysUntil("13/45/2020"); ok {
		t.Error("expected parse failure for invalid date")
	}

	days, ok := daysUntil(dateFromNow(10))
	if !ok {
		t.Fatal("expected parseable date")
	}
	if days < 9 || days > 10 {
		t.Errorf("expected ~10 days, got %d", days)
	}

	days, ok = daysUntil(dateFromNow(-3))
	if !ok {
		t.Fatal("expected parseable date")
	}
	if days >= 0 {
		t.Errorf("past date must yield negative days, got %d", days)
	}
}
