package checkout

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestComputeTotal(t *testing.T) {
	cases := []struct {
		name      string
		unitPrice string
		quantity  int
		months    int
		want      string
	}{
		{"single month single seat", "150", 1, 1, "150"},
		{"family of three", "150", 3, 1, "450"},
		{"annual", "150", 1, 12, "1800"},
		{"quantity and duration", "99.9", 2, 3, "599.4"},
		{"zero price", "0", 1, 6, "0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			unit := decimal.RequireFromString(tc.unitPrice)
			got := ComputeTotal(unit, tc.quantity, tc.months)
			if !got.Equal(decimal.RequireFromString(tc.want)) {
				t.Fatalf("ComputeTotal(%s, %d, %d) = %s, want %s", tc.unitPrice, tc.quantity, tc.months, got, tc.want)
			}
		})
	}
}

func TestPerInstallmentRoundsUp(t *testing.T) {
	total := decimal.RequireFromString("1000")
	got := PerInstallment(total, 3)
	if !got.Equal(decimal.RequireFromString("334")) {
		t.Fatalf("expected 334 per installment, got %s", got)
	}
	// sum of installments must cover the total
	if got.Mul(decimal.NewFromInt(3)).LessThan(total) {
		t.Fatalf("installments do not cover total: %s * 3 < %s", got, total)
	}
}

func TestPerInstallmentSinglePayment(t *testing.T) {
	total := decimal.RequireFromString("150")
	if got := PerInstallment(total, 1); !got.Equal(total) {
		t.Fatalf("single payment should equal total, got %s", got)
	}
	if got := PerInstallment(total, 0); !got.Equal(total) {
		t.Fatalf("zero installments should fall back to total, got %s", got)
	}
}

func TestMaxInstallmentsFor(t *testing.T) {
	cases := []struct {
		months int
		want   int
	}{
		{1, 2},
		{2, 4},
		{3, 6},
		{4, 8},
		{6, 12},
		{12, 12},
		{0, 1},
	}
	for _, tc := range cases {
		if got := MaxInstallmentsFor(tc.months); got != tc.want {
			t.Fatalf("MaxInstallmentsFor(%d) = %d, want %d", tc.months, got, tc.want)
		}
	}
}
