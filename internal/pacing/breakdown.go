package pacing

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/spendsnap/internal/model"
)

// Uncategorized is the category id used for expenses without a category.
const Uncategorized int64 = 0

var hundred = decimal.NewFromInt(100)

// CategoryTotal is the spend of one category.
type CategoryTotal struct {
	Amount     decimal.Decimal
	CategoryID int64
	Count      int
	// Percent is the rounded share of all spending.
	Percent int
}

// CategoryTotals groups spending by category, largest first. Ties keep the
// lower category id first.
func CategoryTotals(transactions []model.Transaction) []CategoryTotal {
	byID := make(map[int64]*CategoryTotal)
	total := decimal.Zero

	for _, t := range transactions {
		id := Uncategorized
		if t.CategoryID != nil {
			id = *t.CategoryID
		}
		ct, ok := byID[id]
		if !ok {
			ct = &CategoryTotal{CategoryID: id, Amount: decimal.Zero}
			byID[id] = ct
		}
		ct.Amount = ct.Amount.Add(t.Amount)
		ct.Count++
		total = total.Add(t.Amount)
	}

	out := make([]CategoryTotal, 0, len(byID))
	for _, ct := range byID {
		ct.Percent = percent(ct.Amount, total)
		out = append(out, *ct)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount.Equal(out[j].Amount) {
			return out[i].CategoryID < out[j].CategoryID
		}
		return out[i].Amount.GreaterThan(out[j].Amount)
	})

	return out
}

// TopCategory returns the category with the most spending.
func TopCategory(transactions []model.Transaction) (CategoryTotal, bool) {
	totals := CategoryTotals(transactions)
	if len(totals) == 0 {
		return CategoryTotal{}, false
	}
	return totals[0], true
}

// MerchantTotal is the spend at one merchant.
type MerchantTotal struct {
	Merchant string
	Amount   decimal.Decimal
	Count    int
}

// TopMerchant returns the merchant with the most spending. Merchant names are
// trimmed and blank ones skipped; ties go to the alphabetically first name.
func TopMerchant(transactions []model.Transaction) (MerchantTotal, bool) {
	byName := make(map[string]*MerchantTotal)
	for _, t := range transactions {
		name := strings.TrimSpace(t.Merchant)
		if name == "" {
			continue
		}
		mt, ok := byName[name]
		if !ok {
			mt = &MerchantTotal{Merchant: name, Amount: decimal.Zero}
			byName[name] = mt
		}
		mt.Amount = mt.Amount.Add(t.Amount)
		mt.Count++
	}

	var top *MerchantTotal
	for _, mt := range byName {
		if top == nil ||
			mt.Amount.GreaterThan(top.Amount) ||
			(mt.Amount.Equal(top.Amount) && mt.Merchant < top.Merchant) {
			top = mt
		}
	}
	if top == nil {
		return MerchantTotal{}, false
	}
	return *top, true
}

// Split is the card and cash share of spending.
type Split struct {
	Card        decimal.Decimal
	Cash        decimal.Decimal
	CardPercent int
	CashPercent int
}

// PaymentSplit divides spending between card and cash. The percentages add
// up to 100, or are both zero when nothing was spent.
func PaymentSplit(transactions []model.Transaction) Split {
	s := Split{Card: decimal.Zero, Cash: decimal.Zero}
	for _, t := range transactions {
		if t.Method == model.MethodCard {
			s.Card = s.Card.Add(t.Amount)
		} else {
			s.Cash = s.Cash.Add(t.Amount)
		}
	}

	total := s.Card.Add(s.Cash)
	if !total.IsPositive() {
		return s
	}
	s.CardPercent = percent(s.Card, total)
	s.CashPercent = 100 - s.CardPercent
	return s
}

func percent(part, total decimal.Decimal) int {
	if !total.IsPositive() {
		return 0
	}
	return int(part.Mul(hundred).Div(total).Round(0).IntPart())
}
