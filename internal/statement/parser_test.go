package statement

import (
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mymoney-dev/mymoney/internal/model"
	"github.com/mymoney-dev/mymoney/internal/sheet"
)

func cell(v any) sheet.Cell {
	switch x := v.(type) {
	case nil:
		return sheet.Empty()
	case string:
		return sheet.Text(x)
	case int:
		return sheet.Int(int64(x))
	case float64:
		return sheet.Float(x)
	default:
		panic("unsupported cell value")
	}
}

func row(index int, values ...any) sheet.Row {
	cells := make([]sheet.Cell, len(values))
	for i, v := range values {
		cells[i] = cell(v)
	}
	return sheet.NewRow(index, cells...)
}

func snapshot(rows ...sheet.Row) *sheet.Snapshot {
	return sheet.New(sheet.Info{Name: "뱅샐현황"}, rows)
}

func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), append([]any{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

// bankStatus builds a sheet with every section populated.
func bankStatus() *sheet.Snapshot {
	return snapshot(
		row(0, nil, "뱅크샐러드 현황"),
		row(4, nil, "1. 현금흐름현황"),
		row(6, nil, "항목", "총계", "월평균", "2024-11", "2024-12", "2025-01"),
		row(7, nil, "급여", "9,000,000", 3000000, 3000000, "3,000,000", 3000000),
		row(8, nil, "상여금", 500000, 166666.67, 0, 500000, ""),
		row(9, nil, "월수입 총계", 9500000, 3166666.67, 3000000, 3500000, 3000000),
		row(10, nil, "식비", "1,200,000", 400000, 350000, 450000, 400000),
		row(11, nil, "알수없음", 100, 100, 100, 100, 100),
		row(12, nil, "월지출 총계", 1200000, 400000, 350000, 450000, 400000),
		row(13, nil, "순수입 총계", 8300000, 2766666.67, 2650000, 3050000, 2600000),
		row(33, nil, "2. 재무현황"),
		row(36, nil, "항목"),
		row(37, nil, "자산"),
		row(38, nil, "저축성 자산"),
		row(39, nil, "", "A 적금", nil, 100),
		row(40, nil, "", "B 예금", nil, "200"),
		row(41, nil, "투자 자산"),
		row(42, nil, "", "C 펀드", nil, 50),
		row(44, nil, "부채"),
		row(45, nil, "", "카드대금", nil, nil, nil, nil, nil, 300),
		row(46, nil, "신용대출"),
		row(47, nil, "", "K은행 대출", nil, nil, nil, nil, nil, "5,000,000"),
		row(114, nil, "3. 보험현황"),
		row(116, nil, "보험사", "상품명", nil, "상태", "총납입액", "계약일", "만기일"),
		row(117, nil, "삼성생명", "종신보험", nil, "유지", "12,000,000", "2015-03-01", "2075-03-01"),
		row(118, nil, "총계", "", nil, nil, 12000000),
		row(120, nil, "현대해상", ""),
		row(129, nil, "4. 투자현황"),
		row(131, nil, "종류", "금융사", "상품명", nil, "원금", "평가금액", "수익률", "시작일", "만기일"),
		row(132, nil, "주식", "키움증권", "삼성전자", nil, 1000000, 1200000, 20, "2023-01-01", ""),
		row(133, nil, "총계", "", "", nil, 1000000, 1200000),
		row(148, nil, "5. 대출현황"),
		row(150, nil, "종류", "금융사", "상품명", nil, "원금", "잔액", "금리", "시작일", "만기일"),
		row(151, nil, "신용대출", "K은행", "직장인대출", nil, 10000000, "5,000,000", "4.5", "2022-05-01", "2027-05-01"),
	)
}

func TestCashFlow(t *testing.T) {
	cf := Default().CashFlow(bankStatus())
	require.NotNil(t, cf)

	assert.Equal(t, []string{"2024-11", "2024-12", "2025-01"}, cf.Months)

	require.Len(t, cf.Income, 2)
	assert.Equal(t, "급여", cf.Income[0].Name)
	assert.Equal(t, "상여금", cf.Income[1].Name)
	assertDec(t, "9000000", cf.Income[0].Total)
	assertDec(t, "3000000", cf.Income[0].MonthlyAverage)

	// Monthly values keep header column order.
	require.Len(t, cf.Income[0].Monthly, 3)
	assert.Equal(t, "2024-11", cf.Income[0].Monthly[0].Month)
	assert.Equal(t, "2025-01", cf.Income[0].Monthly[2].Month)
	dec, ok := cf.Income[0].Monthly.Get("2024-12")
	require.True(t, ok)
	assertDec(t, "3000000", dec)

	// Blank month cells read as zero.
	dec, ok = cf.Income[1].Monthly.Get("2025-01")
	require.True(t, ok)
	assertDec(t, "0", dec)

	require.Len(t, cf.Expense, 1)
	assert.Equal(t, "식비", cf.Expense[0].Name)
	assertDec(t, "1200000", cf.Expense[0].Total)
}

func TestCashFlow_TotalRowsExcluded(t *testing.T) {
	cf := Default().CashFlow(bankStatus())
	require.NotNil(t, cf)

	for _, items := range [][]string{names(cf.Income), names(cf.Expense)} {
		assert.NotContains(t, items, "월수입 총계")
		assert.NotContains(t, items, "월지출 총계")
		assert.NotContains(t, items, "순수입 총계")
		assert.NotContains(t, items, "알수없음", "labels outside the vocabulary are dropped")
	}
}

func names(items []model.CashFlowItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Name)
	}
	return out
}

func TestCashFlow_NoMarker(t *testing.T) {
	snap := snapshot(
		row(6, nil, "항목", "총계", "월평균", "2024-11"),
		row(7, nil, "급여", 100, 100, 100),
	)
	assert.Nil(t, Default().CashFlow(snap))
}

func TestCashFlow_MarkerBeforeMinimumRow(t *testing.T) {
	snap := snapshot(
		row(2, nil, "현금흐름현황"),
		row(6, nil, "항목", "총계", "월평균", "2024-11"),
		row(7, nil, "급여", 100, 100, 100),
	)
	assert.Nil(t, Default().CashFlow(snap))
}

func TestCashFlow_MissingHeaderRow(t *testing.T) {
	snap := snapshot(
		row(4, nil, "현금흐름현황"),
		row(7, nil, "급여", 100, 100, 100),
	)
	assert.Nil(t, Default().CashFlow(snap))
}

func TestCashFlow_EmptySnapshot(t *testing.T) {
	assert.Nil(t, Default().CashFlow(snapshot()))
	assert.Nil(t, Default().CashFlow(nil))
}

func TestCashFlow_MonthsOutsideScannedColumns(t *testing.T) {
	header := []any{nil, "항목", "총계", "월평균"}
	for col := 4; col <= 17; col++ {
		header = append(header, nil)
	}
	header[5] = "2024-11"
	header[6] = "11월"
	// Column 17 lies past the scanned range.
	header[17] = "2025-12"

	snap := snapshot(
		row(4, nil, "현금흐름현황"),
		row(6, header...),
		row(7, nil, "급여", 100, 100, nil, 100),
	)
	cf := Default().CashFlow(snap)
	require.NotNil(t, cf)
	assert.Equal(t, []string{"2024-11"}, cf.Months)
	require.Len(t, cf.Income, 1)
	require.Len(t, cf.Income[0].Monthly, 1)
	assertDec(t, "100", cf.Income[0].Monthly[0].Amount)
}

func TestCashFlow_CustomVocabulary(t *testing.T) {
	v := DefaultVocabulary().WithIncome("Salary").WithExpense("Food")
	snap := snapshot(
		row(4, nil, "현금흐름현황"),
		row(6, nil, "item", "total", "avg", "2025-01"),
		row(7, nil, "Salary", 10, 10, 10),
		row(8, nil, "Food", 5, 5, 5),
		row(9, nil, "급여", 1, 1, 1),
	)
	cf := New(v).CashFlow(snap)
	require.NotNil(t, cf)
	require.Len(t, cf.Income, 1)
	assert.Equal(t, "Salary", cf.Income[0].Name)
	require.Len(t, cf.Expense, 1)
	assert.Equal(t, "Food", cf.Expense[0].Name)
}

func TestPosition(t *testing.T) {
	pos := Default().Position(bankStatus())
	require.NotNil(t, pos)

	require.Len(t, pos.Assets, 3)
	assert.Equal(t, "저축성 자산", pos.Assets[0].Category)
	assert.Equal(t, "A 적금", pos.Assets[0].ProductName)
	assertDec(t, "100", pos.Assets[0].Amount)
	assert.Equal(t, "저축성 자산", pos.Assets[1].Category)
	assertDec(t, "200", pos.Assets[1].Amount)
	assert.Equal(t, "투자 자산", pos.Assets[2].Category)
	assertDec(t, "50", pos.Assets[2].Amount)
	assertDec(t, "350", pos.TotalAssets())

	require.Len(t, pos.Liabilities, 2)
	assert.Equal(t, "기타 부채", pos.Liabilities[0].Category, "liability category does not inherit from the asset block")
	assertDec(t, "300", pos.Liabilities[0].Amount)
	assert.Equal(t, "신용대출", pos.Liabilities[1].Category)
	assertDec(t, "5000000", pos.Liabilities[1].Amount)
	assertDec(t, "5000300", pos.TotalLiabilities())
}

func TestPosition_CategoryInheritance(t *testing.T) {
	snap := snapshot(
		row(33, nil, "재무현황"),
		row(36, nil, "저축성 자산"),
		row(37, nil, "", "A", nil, 100),
		row(38, nil, "", "B", nil, 200),
		row(39, nil, "투자 자산"),
		row(40, nil, "", "C", nil, 50),
	)
	pos := Default().Position(snap)
	require.NotNil(t, pos)
	require.Len(t, pos.Assets, 3)
	assert.Equal(t, "저축성 자산", pos.Assets[0].Category)
	assert.Equal(t, "저축성 자산", pos.Assets[1].Category)
	assert.Equal(t, "투자 자산", pos.Assets[2].Category)
	assert.Empty(t, pos.Liabilities)
}

func TestPosition_DefaultAssetCategory(t *testing.T) {
	snap := snapshot(
		row(34, nil, "재무현황"),
		row(36, nil, "항목"),
		row(37, nil, "", "현금", nil, "1,000"),
	)
	pos := Default().Position(snap)
	require.NotNil(t, pos)
	require.Len(t, pos.Assets, 1)
	assert.Equal(t, "기타 자산", pos.Assets[0].Category, "captions never become categories")
}

func TestPosition_RowsWithoutAmountSkipped(t *testing.T) {
	snap := snapshot(
		row(33, nil, "재무현황"),
		row(36, nil, "예금"),
		row(37, nil, "", "빈 계좌", nil, 0),
		row(38, nil, "", "음수", nil, -10),
		row(39, nil, "", "정상", nil, 10),
	)
	pos := Default().Position(snap)
	require.NotNil(t, pos)
	require.Len(t, pos.Assets, 1)
	assert.Equal(t, "정상", pos.Assets[0].ProductName)
}

func TestPosition_LiabilityIsOneWay(t *testing.T) {
	snap := snapshot(
		row(33, nil, "재무현황"),
		row(36, nil, "부채"),
		row(37, nil, "자산"),
		row(38, nil, "", "잘못 분류", nil, 10, nil, nil, nil, 20),
	)
	pos := Default().Position(snap)
	require.NotNil(t, pos)
	assert.Empty(t, pos.Assets)
	require.Len(t, pos.Liabilities, 1)
	assertDec(t, "20", pos.Liabilities[0].Amount)
}

func TestPosition_Absent(t *testing.T) {
	snap := snapshot(row(10, nil, "재무현황"))
	assert.Nil(t, Default().Position(snap), "marker above the minimum row is ignored")
}

func TestInsurance(t *testing.T) {
	ins := Default().Insurance(bankStatus())
	require.NotNil(t, ins)
	require.Len(t, ins.Items, 1)

	p := ins.Items[0]
	assert.Equal(t, "삼성생명", p.Company)
	assert.Equal(t, "종신보험", p.Name)
	assert.Equal(t, "유지", p.Status)
	assertDec(t, "12000000", p.TotalPaid)
	assert.Equal(t, "2015-03-01", p.ContractDate)
	assert.Equal(t, "2075-03-01", p.MaturityDate)
	assert.False(t, ins.Empty())
}

func TestInsurance_AbsentMarker(t *testing.T) {
	snap := snapshot(
		row(4, nil, "현금흐름현황"),
		row(117, nil, "삼성생명", "종신보험", nil, "유지", 1000),
	)
	ins := Default().Insurance(snap)
	assert.Nil(t, ins)
	assert.True(t, ins.Empty())
}

func TestInsurance_MarkerWithoutItems(t *testing.T) {
	snap := snapshot(
		row(114, nil, "보험현황"),
		row(117, nil, "총계", "합계", nil, nil, 0),
	)
	ins := Default().Insurance(snap)
	require.NotNil(t, ins)
	assert.Empty(t, ins.Items)
	assert.True(t, ins.Empty())
}

func TestInvestments(t *testing.T) {
	inv := Default().Investments(bankStatus())
	require.NotNil(t, inv)
	require.Len(t, inv.Items, 1)

	h := inv.Items[0]
	assert.Equal(t, "주식", h.Type)
	assert.Equal(t, "키움증권", h.Company)
	assert.Equal(t, "삼성전자", h.ProductName)
	assertDec(t, "1000000", h.Principal)
	assertDec(t, "1200000", h.CurrentValue)
	assertDec(t, "20", h.ReturnRate)
	assert.Equal(t, "2023-01-01", h.StartDate)
	assert.Equal(t, "", h.MaturityDate)
}

func TestLoans(t *testing.T) {
	loans := Default().Loans(bankStatus())
	require.NotNil(t, loans)
	require.Len(t, loans.Items, 1)

	l := loans.Items[0]
	assert.Equal(t, "신용대출", l.Type)
	assert.Equal(t, "K은행", l.Company)
	assert.Equal(t, "직장인대출", l.ProductName)
	assertDec(t, "10000000", l.Principal)
	assertDec(t, "5000000", l.Balance)
	assertDec(t, "4.5", l.InterestRate)
	assert.Equal(t, "2027-05-01", l.MaturityDate)
}

func TestLoans_RowsOutsideRangeIgnored(t *testing.T) {
	snap := snapshot(
		row(148, nil, "대출현황"),
		row(153, nil, "주택담보대출", "A은행", "아파트", nil, 1, 1, 1),
	)
	loans := Default().Loans(snap)
	require.NotNil(t, loans)
	assert.True(t, loans.Empty())
}

func TestParseAll(t *testing.T) {
	r := Default().ParseAll(bankStatus())
	assert.NotNil(t, r.CashFlow)
	assert.NotNil(t, r.Position)
	assert.NotNil(t, r.Insurance)
	assert.NotNil(t, r.Investments)
	assert.NotNil(t, r.Loans)
	assert.False(t, r.Empty())
}

func TestParseAll_Empty(t *testing.T) {
	r := Default().ParseAll(snapshot(row(0, "날짜", "금액"), row(1, "2025-01-01", 100)))
	assert.True(t, r.Empty())
}

func TestParseAll_Idempotent(t *testing.T) {
	p := Default()
	snap := bankStatus()
	assert.Equal(t, p.ParseAll(snap), p.ParseAll(snap))
}

func TestParseAll_ConcurrentReaders(t *testing.T) {
	p := Default()
	snap := bankStatus()
	want := p.ParseAll(snap)

	var wg sync.WaitGroup
	results := make([]Report, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = p.ParseAll(snap)
		}(i)
	}
	wg.Wait()
	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestParseSection(t *testing.T) {
	p := Default()
	got, err := p.ParseSection("Insurance", bankStatus())
	require.NoError(t, err)
	_, ok := got.(interface{ Empty() bool })
	assert.True(t, ok)

	_, err = p.ParseSection("pension", bankStatus())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownSection)
}
