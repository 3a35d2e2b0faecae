package checkout

import "github.com/shopspring/decimal"

const maxInstallments = 12

// ComputeTotal derives the draft total from its three drivers.
func ComputeTotal(unitPrice decimal.Decimal, quantity, durationMonths int) decimal.Decimal {
	return unitPrice.
		Mul(decimal.NewFromInt(int64(quantity))).
		Mul(decimal.NewFromInt(int64(durationMonths)))
}

// PerInstallment returns the per-installment charge, rounded up to a whole
// currency unit so the sum of installments always covers the total.
func PerInstallment(total decimal.Decimal, installments int) decimal.Decimal {
	if installments <= 1 {
		return total
	}
	return total.Div(decimal.NewFromInt(int64(installments))).Ceil()
}

// MaxInstallmentsFor bounds the installment choice by the subscription
// length: twice the duration in months, capped at twelve.
func MaxInstallmentsFor(durationMonths int) int {
	limit := durationMonths * 2
	if limit > maxInstallments {
		return maxInstallments
	}
	if limit < 1 {
		return 1
	}
	return limit
}
