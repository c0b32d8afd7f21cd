package statement

import (
	"strings"

	"github.com/mymoney-dev/mymoney/internal/sheet"
)

// Section locates one fixed-layout block of a statement sheet.
type Section struct {
	Title        string
	Marker       string // caption searched for in MarkerColumn
	MarkerColumn int
	MarkerMinRow int // first row index searched for the marker
	HeaderRow    int // -1 when the block has no caption row
	FirstRow     int // inclusive
	LastRow      int // inclusive
}

// Locate reports whether the sheet carries the section's marker.
func (s Section) Locate(snap *sheet.Snapshot) bool {
	_, ok := snap.Find(s.MarkerMinRow, s.MarkerColumn, func(c sheet.Cell) bool {
		return strings.Contains(c.Raw(), s.Marker)
	})
	return ok
}

// walk calls visit for every present row of the data range in row order.
// Missing row indexes are skipped.
func (s Section) walk(snap *sheet.Snapshot, visit func(sheet.Row)) {
	for i := s.FirstRow; i <= s.LastRow; i++ {
		row, ok := snap.Row(i)
		if !ok {
			continue
		}
		visit(row)
	}
}

// collect locates sec and reads one item per accepted row. It reports false
// when the marker is missing; a located section with no rows yields an empty,
// non-nil slice.
func collect[T any](snap *sheet.Snapshot, sec Section, read func(sheet.Row) (T, bool)) ([]T, bool) {
	if !sec.Locate(snap) {
		return nil, false
	}
	items := []T{}
	sec.walk(snap, func(row sheet.Row) {
		if item, ok := read(row); ok {
			items = append(items, item)
		}
	})
	return items, true
}

// CashFlowLayout maps the cash-flow block.
type CashFlowLayout struct {
	Section
	NameCol       int
	TotalCol      int
	AverageCol    int
	MonthFirstCol int // header columns scanned for "YYYY-MM" captions
	MonthLastCol  int
}

// PositionLayout maps the financial position block.
type PositionLayout struct {
	Section
	CategoryCol     int
	ProductCol      int
	AssetAmountCol  int
	LiabilityAmtCol int
}

// InsuranceLayout maps the insurance block.
type InsuranceLayout struct {
	Section
	CompanyCol      int
	NameCol         int
	StatusCol       int
	TotalPaidCol    int
	ContractDateCol int
	MaturityDateCol int
}

// HoldingLayout maps the investment and loan blocks, which share columns.
type HoldingLayout struct {
	Section
	TypeCol         int
	CompanyCol      int
	ProductCol      int
	PrincipalCol    int
	ValueCol        int // current value or outstanding balance
	RateCol         int // return or interest rate
	StartDateCol    int
	MaturityDateCol int
}

// Layout is the full set of block positions of a statement sheet.
type Layout struct {
	CashFlow   CashFlowLayout
	Position   PositionLayout
	Insurance  InsuranceLayout
	Investment HoldingLayout
	Loan       HoldingLayout
}

// DefaultLayout returns the row and column positions of the Banksalad
// "뱅샐현황" export. Months outside MonthFirstCol..MonthLastCol are not seen.
func DefaultLayout() Layout {
	return Layout{
		CashFlow: CashFlowLayout{
			Section: Section{
				Title:        "cashflow",
				Marker:       "현금흐름현황",
				MarkerColumn: 1,
				MarkerMinRow: 4,
				HeaderRow:    6,
				FirstRow:     7,
				LastRow:      32,
			},
			NameCol:       1,
			TotalCol:      2,
			AverageCol:    3,
			MonthFirstCol: 4,
			MonthLastCol:  16,
		},
		Position: PositionLayout{
			Section: Section{
				Title:        "position",
				Marker:       "재무현황",
				MarkerColumn: 1,
				MarkerMinRow: 33,
				HeaderRow:    -1,
				FirstRow:     36,
				LastRow:      113,
			},
			CategoryCol:     1,
			ProductCol:      2,
			AssetAmountCol:  4,
			LiabilityAmtCol: 8,
		},
		Insurance: InsuranceLayout{
			Section: Section{
				Title:        "insurance",
				Marker:       "보험현황",
				MarkerColumn: 1,
				MarkerMinRow: 114,
				HeaderRow:    116,
				FirstRow:     117,
				LastRow:      128,
			},
			CompanyCol:      1,
			NameCol:         2,
			StatusCol:       4,
			TotalPaidCol:    5,
			ContractDateCol: 6,
			MaturityDateCol: 7,
		},
		Investment: HoldingLayout{
			Section: Section{
				Title:        "investment",
				Marker:       "투자현황",
				MarkerColumn: 1,
				MarkerMinRow: 129,
				HeaderRow:    131,
				FirstRow:     132,
				LastRow:      147,
			},
			TypeCol:         1,
			CompanyCol:      2,
			ProductCol:      3,
			PrincipalCol:    5,
			ValueCol:        6,
			RateCol:         7,
			StartDateCol:    8,
			MaturityDateCol: 9,
		},
		Loan: HoldingLayout{
			Section: Section{
				Title:        "loan",
				Marker:       "대출현황",
				MarkerColumn: 1,
				MarkerMinRow: 148,
				HeaderRow:    150,
				FirstRow:     151,
				LastRow:      152,
			},
			TypeCol:         1,
			CompanyCol:      2,
			ProductCol:      3,
			PrincipalCol:    5,
			ValueCol:        6,
			RateCol:         7,
			StartDateCol:    8,
			MaturityDateCol: 9,
		},
	}
}
