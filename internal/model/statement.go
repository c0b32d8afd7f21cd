package model

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// MonthAmount is one month's value in a cash-flow row.
type MonthAmount struct {
	Month  string // "YYYY-MM"
	Amount decimal.Decimal
}

// MonthlySeries holds per-month amounts in sheet column order.
type MonthlySeries []MonthAmount

// Get returns the amount for month.
func (s MonthlySeries) Get(month string) (decimal.Decimal, bool) {
	for _, m := range s {
		if m.Month == month {
			return m.Amount, true
		}
	}
	return decimal.Zero, false
}

// Set returns s with month's amount replaced, or appended when month is new.
func (s MonthlySeries) Set(month string, amount decimal.Decimal) MonthlySeries {
	for i := range s {
		if s[i].Month == month {
			s[i].Amount = amount
			return s
		}
	}
	return append(s, MonthAmount{Month: month, Amount: amount})
}

// MarshalJSON encodes the series as an object whose keys keep column order.
func (s MonthlySeries) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(m.Month)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(m.Amount)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object of month keys, preserving key order.
func (s *MonthlySeries) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("decoding monthly series: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("decoding monthly series: expected object")
	}
	var out MonthlySeries
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("decoding monthly series: %w", err)
		}
		key, _ := tok.(string)
		var amt decimal.Decimal
		if err := dec.Decode(&amt); err != nil {
			return fmt.Errorf("decoding amount for %s: %w", key, err)
		}
		out = append(out, MonthAmount{Month: key, Amount: amt})
	}
	*s = out
	return nil
}

// CashFlowItem is one income or expense category row of the cash-flow section.
type CashFlowItem struct {
	Name           string          `json:"name"`
	Total          decimal.Decimal `json:"total"`
	MonthlyAverage decimal.Decimal `json:"monthlyAverage"`
	Monthly        MonthlySeries   `json:"monthlyData"`
}

// CashFlow is the parsed cash-flow section.
type CashFlow struct {
	Income  []CashFlowItem `json:"income"`
	Expense []CashFlowItem `json:"expense"`
	Months  []string       `json:"months"`
}

// PositionItem is one asset or liability line of the financial position section.
type PositionItem struct {
	Category    string          `json:"category"`
	ProductName string          `json:"productName"`
	Amount      decimal.Decimal `json:"amount"`
}

// Position is the parsed financial position section.
type Position struct {
	Assets      []PositionItem `json:"assets"`
	Liabilities []PositionItem `json:"liabilities"`
}

// TotalAssets sums the asset amounts.
func (p *Position) TotalAssets() decimal.Decimal { return sumPosition(p.Assets) }

// TotalLiabilities sums the liability amounts.
func (p *Position) TotalLiabilities() decimal.Decimal { return sumPosition(p.Liabilities) }

func sumPosition(items []PositionItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Amount)
	}
	return total
}

// InsurancePolicy is one row of the insurance section.
type InsurancePolicy struct {
	Company      string          `json:"company"`
	Name         string          `json:"name"`
	Status       string          `json:"status"`
	TotalPaid    decimal.Decimal `json:"totalPaid"`
	ContractDate string          `json:"contractDate"`
	MaturityDate string          `json:"maturityDate"`
}

// Insurance is the parsed insurance section.
type Insurance struct {
	Items []InsurancePolicy `json:"items"`
}

// Empty reports whether there is nothing to show.
func (i *Insurance) Empty() bool { return i == nil || len(i.Items) == 0 }

// InvestmentHolding is one row of the investment section.
type InvestmentHolding struct {
	Type         string          `json:"type"`
	Company      string          `json:"company"`
	ProductName  string          `json:"productName"`
	Principal    decimal.Decimal `json:"principal"`
	CurrentValue decimal.Decimal `json:"currentValue"`
	ReturnRate   decimal.Decimal `json:"returnRate"`
	StartDate    string          `json:"startDate,omitempty"`
	MaturityDate string          `json:"maturityDate,omitempty"`
}

// Investments is the parsed investment section.
type Investments struct {
	Items []InvestmentHolding `json:"items"`
}

// Empty reports whether there is nothing to show.
func (i *Investments) Empty() bool { return i == nil || len(i.Items) == 0 }

// LoanBalance is one row of the loan section.
type LoanBalance struct {
	Type         string          `json:"type"`
	Company      string          `json:"company"`
	ProductName  string          `json:"productName"`
	Principal    decimal.Decimal `json:"principal"`
	Balance      decimal.Decimal `json:"balance"`
	InterestRate decimal.Decimal `json:"interestRate"`
	StartDate    string          `json:"startDate,omitempty"`
	MaturityDate string          `json:"maturityDate,omitempty"`
}

// Loans is the parsed loan section.
type Loans struct {
	Items []LoanBalance `json:"items"`
}

// Empty reports whether there is nothing to show.
func (l *Loans) Empty() bool { return l == nil || len(l.Items) == 0 }
