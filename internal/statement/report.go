package statement

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mymoney-dev/mymoney/internal/model"
	"github.com/mymoney-dev/mymoney/internal/sheet"
)

// ErrUnknownSection is returned by ParseSection for an unrecognised name.
var ErrUnknownSection = errors.New("unknown section")

// Section names accepted by ParseSection.
const (
	SectionCashFlow   = "cashflow"
	SectionPosition   = "position"
	SectionInsurance  = "insurance"
	SectionInvestment = "investment"
	SectionLoan       = "loan"
)

// SectionNames lists the sections in sheet order.
var SectionNames = []string{
	SectionCashFlow,
	SectionPosition,
	SectionInsurance,
	SectionInvestment,
	SectionLoan,
}

// Report collects every section of one sheet. A nil field means the
// section marker was not found.
type Report struct {
	CashFlow    *model.CashFlow    `json:"cashFlow"`
	Position    *model.Position    `json:"financialStatus"`
	Insurance   *model.Insurance   `json:"insurance"`
	Investments *model.Investments `json:"investment"`
	Loans       *model.Loans       `json:"loan"`
}

// Empty reports whether no section produced anything to show.
func (r Report) Empty() bool {
	return r.CashFlow == nil &&
		r.Position == nil &&
		r.Insurance.Empty() &&
		r.Investments.Empty() &&
		r.Loans.Empty()
}

// ParseAll runs every extractor over snap.
func (p *Parser) ParseAll(snap *sheet.Snapshot) Report {
	return Report{
		CashFlow:    p.CashFlow(snap),
		Position:    p.Position(snap),
		Insurance:   p.Insurance(snap),
		Investments: p.Investments(snap),
		Loans:       p.Loans(snap),
	}
}

// ParseSection runs the extractor called name. The result is a typed nil
// pointer when the section is absent.
func (p *Parser) ParseSection(name string, snap *sheet.Snapshot) (any, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case SectionCashFlow:
		return p.CashFlow(snap), nil
	case SectionPosition:
		return p.Position(snap), nil
	case SectionInsurance:
		return p.Insurance(snap), nil
	case SectionInvestment:
		return p.Investments(snap), nil
	case SectionLoan:
		return p.Loans(snap), nil
	default:
		return nil, fmt.Errorf("%w: %q (want one of %s)", ErrUnknownSection, name, strings.Join(SectionNames, ", "))
	}
}
