package progress

import (
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Percentage returns amount/target*100 capped at 100 and rounded half-to-even to two
// decimals. A non-positive target yields zero.
func Percentage(amount, target decimal.Decimal) decimal.Decimal {
	if !target.IsPositive() {
		return decimal.Zero
	}
	p := rawPercentage(amount, target)
	if p.GreaterThan(hundred) {
		p = hundred
	}
	return p.RoundBank(2)
}

// SpentPercentage is like Percentage but uncapped, so overspent budgets report above 100.
func SpentPercentage(spent, total decimal.Decimal) decimal.Decimal {
	return rawPercentage(spent, total).RoundBank(2)
}

func rawPercentage(amount, target decimal.Decimal) decimal.Decimal {
	if !target.IsPositive() {
		return decimal.Zero
	}
	return amount.Mul(hundred).Div(target)
}

// wholeDays counts complete 24h periods from a to b; b must not be before a.
func wholeDays(a, b time.Time) int {
	return int(b.Sub(a) / (24 * time.Hour))
}

func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

func intPtr(i int) *int {
	return &i
}

func boolPtr(b bool) *bool {
	return &b
}

func timePtr(t time.Time) *time.Time {
	return &t
}
