package services

import "testing"

func TestToSettlementAmount(t *testing.T) {
	cases := []struct {
		name  string
		total float64
		rate  float64
		want  float64
	}{
		{"colones to dollars", 10000, 505, 19.80},
		{"rounds half up", 10.125, 1, 10.13},
		{"exact division", 5050, 505, 10.00},
		{"small order", 1500, 505, 2.97},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ToSettlementAmount(tc.total, tc.rate)
			if got != tc.want {
				t.Fatalf("ToSettlementAmount(%v, %v) = %v, want %v", tc.total, tc.rate, got, tc.want)
			}
		})
	}
}

func TestToSettlementAmountDeterministic(t *testing.T) {
	first := ToSettlementAmount(10000, 505)
	second := ToSettlementAmount(10000, 505)
	if first != second {
		t.Fatalf("expected deterministic result, got %v then %v", first, second)
	}
}

func TestWithinTolerance(t *testing.T) {
	cases := []struct {
		name     string
		captured float64
		expected float64
		want     bool
	}{
		{"exact match", 19.80, 19.80, true},
		{"at boundary", 19.78, 19.80, true},
		{"just over boundary", 19.8201, 19.80, false},
		{"clearly short capture", 19.76, 19.80, false},
		{"overpayment within tolerance", 19.82, 19.80, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := WithinTolerance(tc.captured, tc.expected); got != tc.want {
				t.Fatalf("WithinTolerance(%v, %v) = %v, want %v", tc.captured, tc.expected, got, tc.want)
			}
		})
	}
}
