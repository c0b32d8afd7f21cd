package analysis

import (
	"github.com/shopspring/decimal"

	"github.com/mymoney-dev/mymoney/internal/coerce"
	"github.com/mymoney-dev/mymoney/internal/model"
	"github.com/mymoney-dev/mymoney/internal/sheet"
)

// Aggregator totals transaction rows per calendar month.
type Aggregator struct {
	Dates coerce.DateParser
}

// AggregateByMonth totals snap with months bucketed in time.Local.
func AggregateByMonth(snap *sheet.Snapshot, cols Columns) []model.MonthlyTotal {
	return Aggregator{}.Aggregate(snap, cols)
}

// MonthlyAggregation detects columns and aggregates in one step. It returns
// an empty slice when no date or amount column could be found.
func MonthlyAggregation(snap *sheet.Snapshot) []model.MonthlyTotal {
	return AggregateByMonth(snap, DetectColumns(snap))
}

// Aggregate sums every data row of snap into its month. Positive amounts are
// income and negative amounts count toward expense by magnitude. Transfers
// and rows with an unreadable date or amount are skipped. A month whose rows
// are all zero still appears with zero totals. Results are sorted by month.
func (a Aggregator) Aggregate(snap *sheet.Snapshot, cols Columns) []model.MonthlyTotal {
	out := []model.MonthlyTotal{}
	if !cols.Complete() {
		return out
	}

	totals := map[string]*model.MonthlyTotal{}
	for _, row := range snap.Rows() {
		if row.Index <= 0 {
			continue
		}
		if cols.Type != nil && IsTransfer(row.Cell(*cols.Type)) {
			continue
		}
		month, ok := a.Dates.ExtractMonthFromString(row.Cell(*cols.Date))
		if !ok {
			continue
		}
		amount, ok := coerce.ParseAmount(row.Cell(*cols.Amount))
		if !ok {
			continue
		}

		t, seen := totals[month]
		if !seen {
			t = &model.MonthlyTotal{Month: month, Income: decimal.Zero, Expense: decimal.Zero}
			totals[month] = t
		}
		switch amount.Sign() {
		case 1:
			t.Income = t.Income.Add(amount)
		case -1:
			t.Expense = t.Expense.Add(amount.Abs())
		}
	}

	months := make([]string, 0, len(totals))
	for m := range totals {
		months = append(months, m)
	}
	for _, m := range coerce.SortMonths(months) {
		out = append(out, *totals[m])
	}
	return out
}

// Summary is the grand total across months.
func Summary(months []model.MonthlyTotal) model.MonthlyTotal {
	sum := model.MonthlyTotal{Income: decimal.Zero, Expense: decimal.Zero}
	for _, m := range months {
		sum.Income = sum.Income.Add(m.Income)
		sum.Expense = sum.Expense.Add(m.Expense)
	}
	return sum
}
