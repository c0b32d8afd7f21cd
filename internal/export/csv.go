// Package export writes parsed statements and monthly totals as CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/mymoney-dev/mymoney/internal/model"
)

// MonthlyHeader is the CSV header for monthly.csv.
const MonthlyHeader = "month,income,expense,net"

const (
	monthlyFields = 4
	colMonth      = 0
	colIncome     = 1
	colExpense    = 2
	colNet        = 3
)

// cashFlowFixed are the leading columns of cashflow.csv; one column per
// month follows.
var cashFlowFixed = []string{"kind", "name", "total", "monthly_average"}

// PositionHeader is the CSV header for position.csv.
const PositionHeader = "side,category,product_name,amount"

// WriteMonthly writes monthly totals including the header.
func WriteMonthly(w io.Writer, months []model.MonthlyTotal) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(MonthlyHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, m := range months {
		if err := cw.Write(MarshalMonthly(m)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalMonthly converts a monthly total to a CSV row.
func MarshalMonthly(m model.MonthlyTotal) []string {
	row := make([]string, monthlyFields)
	row[colMonth] = m.Month
	row[colIncome] = m.Income.String()
	row[colExpense] = m.Expense.String()
	row[colNet] = m.Net().String()
	return row
}

// WriteCashFlow writes one row per income and expense item with a column
// per month, in the sheet's month order.
func WriteCashFlow(w io.Writer, cf *model.CashFlow) error {
	if cf == nil {
		return fmt.Errorf("writing cash flow: no cash-flow section")
	}
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := append(append([]string{}, cashFlowFixed...), cf.Months...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	n := 1
	for _, group := range []struct {
		kind  string
		items []model.CashFlowItem
	}{{"income", cf.Income}, {"expense", cf.Expense}} {
		for _, it := range group.items {
			n++
			if err := cw.Write(marshalCashFlowItem(group.kind, it, cf.Months)); err != nil {
				return fmt.Errorf("writing row %d: %w", n, err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func marshalCashFlowItem(kind string, it model.CashFlowItem, months []string) []string {
	row := make([]string, 0, len(cashFlowFixed)+len(months))
	row = append(row, kind, it.Name, it.Total.String(), it.MonthlyAverage.String())
	for _, m := range months {
		if v, ok := it.Monthly.Get(m); ok {
			row = append(row, v.String())
		} else {
			row = append(row, "")
		}
	}
	return row
}

// WritePosition writes assets followed by liabilities.
func WritePosition(w io.Writer, p *model.Position) error {
	if p == nil {
		return fmt.Errorf("writing position: no financial position section")
	}
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(PositionHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	n := 1
	for _, group := range []struct {
		side  string
		items []model.PositionItem
	}{{"asset", p.Assets}, {"liability", p.Liabilities}} {
		for _, it := range group.items {
			n++
			if err := cw.Write([]string{group.side, it.Category, it.ProductName, it.Amount.String()}); err != nil {
				return fmt.Errorf("writing row %d: %w", n, err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
