// Package statement recovers cash flow, financial position, insurance,
// investment and loan tables from a fixed-layout statement sheet.
//
// Each extractor returns nil when its section marker is absent. Malformed
// cells read as zero or empty strings and missing rows are skipped, so
// extraction never fails outright.
package statement

import (
	"github.com/shopspring/decimal"

	"github.com/mymoney-dev/mymoney/internal/coerce"
	"github.com/mymoney-dev/mymoney/internal/model"
	"github.com/mymoney-dev/mymoney/internal/sheet"
)

// Parser extracts statement sections using a vocabulary and a layout.
// A Parser is stateless and safe for concurrent use.
type Parser struct {
	Vocabulary Vocabulary
	Layout     Layout
}

// New returns a parser with vocabulary v and the default layout.
func New(v Vocabulary) *Parser {
	return &Parser{Vocabulary: v, Layout: DefaultLayout()}
}

// Default returns a parser with the default vocabulary and layout.
func Default() *Parser {
	return New(DefaultVocabulary())
}

// CashFlow parses the cash-flow block: one item per known income or
// expense category, with amounts for every month column of the header row.
func (p *Parser) CashFlow(snap *sheet.Snapshot) *model.CashFlow {
	l := p.Layout.CashFlow
	if !l.Locate(snap) {
		return nil
	}
	header, ok := snap.Row(l.HeaderRow)
	if !ok {
		return nil
	}

	months := []string{}
	var monthCols []int
	for col := l.MonthFirstCol; col <= l.MonthLastCol; col++ {
		if v := header.Text(col); coerce.IsMonthKey(v) {
			months = append(months, v)
			monthCols = append(monthCols, col)
		}
	}

	out := &model.CashFlow{
		Income:  []model.CashFlowItem{},
		Expense: []model.CashFlowItem{},
		Months:  months,
	}
	l.walk(snap, func(row sheet.Row) {
		name := row.Text(l.NameCol)
		if name == "" || p.Vocabulary.IsTotal(name) {
			return
		}
		kind := p.Vocabulary.Classify(name)
		if kind == KindUnknown {
			return
		}

		item := model.CashFlowItem{
			Name:           name,
			Total:          coerce.ParseNumber(row.Cell(l.TotalCol)),
			MonthlyAverage: coerce.ParseNumber(row.Cell(l.AverageCol)),
			Monthly:        make(model.MonthlySeries, 0, len(monthCols)),
		}
		for i, col := range monthCols {
			item.Monthly = item.Monthly.Set(months[i], coerce.ParseNumber(row.Cell(col)))
		}

		if kind == KindIncome {
			out.Income = append(out.Income, item)
		} else {
			out.Expense = append(out.Expense, item)
		}
	})
	return out
}

// Position parses the financial position block. Rows are read top to
// bottom: a label-only row sets the category for the rows after it, and the
// liability marker switches every later row to the liability side.
func (p *Parser) Position(snap *sheet.Snapshot) *model.Position {
	l := p.Layout.Position
	if !l.Locate(snap) {
		return nil
	}

	v := p.Vocabulary
	out := &model.Position{
		Assets:      []model.PositionItem{},
		Liabilities: []model.PositionItem{},
	}
	category := ""
	assets := true

	l.walk(snap, func(row sheet.Row) {
		label := row.Text(l.CategoryCol)
		product := row.Text(l.ProductCol)
		assetAmt := coerce.ParseNumber(row.Cell(l.AssetAmountCol))
		liabilityAmt := coerce.ParseNumber(row.Cell(l.LiabilityAmtCol))

		if label == v.LiabilityMarker {
			assets = false
			category = ""
			return
		}

		if label != "" && product == "" && assetAmt.IsZero() && liabilityAmt.IsZero() {
			if !v.SectionCaptions.Has(label) {
				category = label
			}
			return
		}

		if product == "" || (!assetAmt.IsPositive() && !liabilityAmt.IsPositive()) {
			return
		}

		item := model.PositionItem{Category: category, ProductName: product}
		if assets {
			if item.Category == "" {
				item.Category = v.DefaultAsset
			}
			item.Amount = assetAmt
			out.Assets = append(out.Assets, item)
			return
		}
		if item.Category == "" {
			item.Category = v.DefaultLiability
		}
		item.Amount = liabilityAmt
		out.Liabilities = append(out.Liabilities, item)
	})
	return out
}

// Insurance parses the insurance block.
func (p *Parser) Insurance(snap *sheet.Snapshot) *model.Insurance {
	l := p.Layout.Insurance
	items, ok := collect(snap, l.Section, func(row sheet.Row) (model.InsurancePolicy, bool) {
		company := row.Text(l.CompanyCol)
		name := row.Text(l.NameCol)
		if company == "" || name == "" || p.Vocabulary.IsTotal(company) {
			return model.InsurancePolicy{}, false
		}
		return model.InsurancePolicy{
			Company:      company,
			Name:         name,
			Status:       row.Text(l.StatusCol),
			TotalPaid:    coerce.ParseNumber(row.Cell(l.TotalPaidCol)),
			ContractDate: row.Text(l.ContractDateCol),
			MaturityDate: row.Text(l.MaturityDateCol),
		}, true
	})
	if !ok {
		return nil
	}
	return &model.Insurance{Items: items}
}

// holding is the shared shape of investment and loan rows.
type holding struct {
	kind, company, product  string
	principal, value, rate  decimal.Decimal
	startDate, maturityDate string
}

func (p *Parser) holdings(snap *sheet.Snapshot, l HoldingLayout) ([]holding, bool) {
	return collect(snap, l.Section, func(row sheet.Row) (holding, bool) {
		kind := row.Text(l.TypeCol)
		product := row.Text(l.ProductCol)
		if kind == "" || product == "" || p.Vocabulary.IsTotal(kind) {
			return holding{}, false
		}
		return holding{
			kind:         kind,
			company:      row.Text(l.CompanyCol),
			product:      product,
			principal:    coerce.ParseNumber(row.Cell(l.PrincipalCol)),
			value:        coerce.ParseNumber(row.Cell(l.ValueCol)),
			rate:         coerce.ParseNumber(row.Cell(l.RateCol)),
			startDate:    row.Text(l.StartDateCol),
			maturityDate: row.Text(l.MaturityDateCol),
		}, true
	})
}

// Investments parses the investment block.
func (p *Parser) Investments(snap *sheet.Snapshot) *model.Investments {
	rows, ok := p.holdings(snap, p.Layout.Investment)
	if !ok {
		return nil
	}
	out := &model.Investments{Items: make([]model.InvestmentHolding, 0, len(rows))}
	for _, h := range rows {
		out.Items = append(out.Items, model.InvestmentHolding{
			Type:         h.kind,
			Company:      h.company,
			ProductName:  h.product,
			Principal:    h.principal,
			CurrentValue: h.value,
			ReturnRate:   h.rate,
			StartDate:    h.startDate,
			MaturityDate: h.maturityDate,
		})
	}
	return out
}

// Loans parses the loan block.
func (p *Parser) Loans(snap *sheet.Snapshot) *model.Loans {
	rows, ok := p.holdings(snap, p.Layout.Loan)
	if !ok {
		return nil
	}
	out := &model.Loans{Items: make([]model.LoanBalance, 0, len(rows))}
	for _, h := range rows {
		out.Items = append(out.Items, model.LoanBalance{
			Type:         h.kind,
			Company:      h.company,
			ProductName:  h.product,
			Principal:    h.principal,
			Balance:      h.value,
			InterestRate: h.rate,
			StartDate:    h.startDate,
			MaturityDate: h.maturityDate,
		})
	}
	return out
}
