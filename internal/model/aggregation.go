package model

import "github.com/shopspring/decimal"

// MonthlyTotal is the income and expense of one calendar month. Both totals
// are non-negative: expense holds the absolute value of negative amounts.
type MonthlyTotal struct {
	Month   string          `json:"month"` // "YYYY-MM"
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// Net returns income minus expense.
func (m MonthlyTotal) Net() decimal.Decimal {
	return m.Income.Sub(m.Expense)
}
