package statement

import "strings"

// LabelSet is a set of exact row labels.
type LabelSet map[string]struct{}

// NewLabelSet builds a set from labels, ignoring surrounding whitespace.
func NewLabelSet(labels ...string) LabelSet {
	s := make(LabelSet, len(labels))
	for _, l := range labels {
		if l = strings.TrimSpace(l); l != "" {
			s[l] = struct{}{}
		}
	}
	return s
}

// Has reports whether label is in the set.
func (s LabelSet) Has(label string) bool {
	_, ok := s[label]
	return ok
}

// Vocabulary holds the captions the extractors recognise.
type Vocabulary struct {
	Income  LabelSet // cash-flow income categories
	Expense LabelSet // cash-flow expense categories
	Totals  LabelSet // aggregate rows never reported as items

	LiabilityMarker  string   // position row that starts the liability block
	SectionCaptions  LabelSet // position captions that are never categories
	DefaultAsset     string   // category for assets with no preceding header
	DefaultLiability string   // category for liabilities with no preceding header
}

// Kind classifies a cash-flow label.
type Kind int

const (
	KindUnknown Kind = iota
	KindIncome
	KindExpense
)

// Classify reports whether label is an income or expense category.
func (v Vocabulary) Classify(label string) Kind {
	switch {
	case v.Income.Has(label):
		return KindIncome
	case v.Expense.Has(label):
		return KindExpense
	default:
		return KindUnknown
	}
}

// IsTotal reports whether label is an aggregate row caption.
func (v Vocabulary) IsTotal(label string) bool {
	return v.Totals.Has(label)
}

// WithIncome returns a copy of v with the income labels replaced.
func (v Vocabulary) WithIncome(labels ...string) Vocabulary {
	v.Income = NewLabelSet(labels...)
	return v
}

// WithExpense returns a copy of v with the expense labels replaced.
func (v Vocabulary) WithExpense(labels ...string) Vocabulary {
	v.Expense = NewLabelSet(labels...)
	return v
}

// WithTotals returns a copy of v with the total captions replaced.
func (v Vocabulary) WithTotals(labels ...string) Vocabulary {
	v.Totals = NewLabelSet(labels...)
	return v
}

// DefaultVocabulary returns the captions used by the Banksalad export.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Income: NewLabelSet(
			"금융수입", "급여", "기타수입", "사업수입", "상여금", "앱테크", "용돈",
		),
		Expense: NewLabelSet(
			"경조/선물", "교육/학습", "교통", "금융", "문화/여가", "뷰티/미용",
			"생활", "식비", "여행/숙박", "온라인쇼핑", "의료/건강", "자녀/육아",
			"자동차", "주거/통신", "카페/간식", "패션/쇼핑",
		),
		Totals:           NewLabelSet("월수입 총계", "월지출 총계", "순수입 총계", "총계"),
		LiabilityMarker:  "부채",
		SectionCaptions:  NewLabelSet("항목", "자산", "부채"),
		DefaultAsset:     "기타 자산",
		DefaultLiability: "기타 부채",
	}
}
