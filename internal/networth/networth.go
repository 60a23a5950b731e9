// Package networth values the asset inventory, house equity and insurance cash
// values, and supplies the starting total of a projection.
package networth

import (
	"sort"
	"strconv"
	"time"

	"fjacquet/moze-ledger/internal/currencyutils"
	"fjacquet/moze-ledger/internal/dateutils"
	"fjacquet/moze-ledger/internal/models"
	"fjacquet/moze-ledger/internal/quotes"

	"github.com/shopspring/decimal"
)

// Policy identifies an insurance policy whose cash value counts as a fixed asset.
type Policy struct {
	ID       string
	Currency string
}

// Fixed is the value of non-liquid assets. All amounts are rounded base currency.
type Fixed struct {
	Total     decimal.Decimal
	House     decimal.Decimal
	Insurance decimal.Decimal
	ByPolicy  map[string]decimal.Decimal
}

// FixedAssets sums house equity from House events dated on or before today and
// the latest cash value, on or before today, of each policy.
func FixedAssets(events []models.OneOffEvent, houseCategory string, policies []Policy,
	insurance map[string][]models.InsuranceYearRecord, rates models.Rates, today time.Time) Fixed {
	if houseCategory == "" {
		houseCategory = models.CategoryHouse
	}

	house := decimal.Zero
	for _, e := range events {
		if e.Category != houseCategory {
			continue
		}
		if t, err := dateutils.ParseDate(e.Date); err == nil && !t.After(today) {
			house = house.Add(e.Amount)
		}
	}

	out := Fixed{ByPolicy: make(map[string]decimal.Decimal, len(policies))}
	insuranceTotal := decimal.Zero
	for _, p := range policies {
		v := cashValueAt(insurance[p.ID], today).Mul(rates.Rate(p.Currency))
		insuranceTotal = insuranceTotal.Add(v)
		out.ByPolicy[p.ID] = currencyutils.RoundHalfUp(v)
	}

	out.House = currencyutils.RoundHalfUp(house)
	out.Insurance = currencyutils.RoundHalfUp(insuranceTotal)
	out.Total = currencyutils.RoundHalfUp(house.Add(insuranceTotal))
	return out
}

// cashValueAt returns the cash value of the latest record paid on or before
// date, or zero when the policy has not reached its first record.
func cashValueAt(records []models.InsuranceYearRecord, date time.Time) decimal.Decimal {
	type dated struct {
		at  time.Time
		rec models.InsuranceYearRecord
	}
	sorted := make([]dated, 0, len(records))
	for _, r := range records {
		t, err := dateutils.ParseDate(r.PaymentDate)
		if err != nil {
			continue
		}
		sorted = append(sorted, dated{at: t, rec: r})
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].at.Before(sorted[j].at) })

	value := decimal.Zero
	for _, d := range sorted {
		if d.at.After(date) {
			break
		}
		value = d.rec.CashValue()
	}
	return value
}

// Asset categories and types that drive the liquid breakdown.
const (
	CategoryCash   = "Cash"
	CategoryStock  = "Stock"
	CategoryETF    = "ETF"
	CategoryCrypto = "Crypto"
	TypeFiat       = "Fiat"
	TypeStock      = "Stock"
	TypeCrypto     = "Crypto"
)

// Value is quantity times unit price, converted to the base currency.
func Value(a models.Asset, rates models.Rates, prices quotes.PriceLookup) decimal.Decimal {
	return a.Quantity.Mul(quotes.UnitPrice(prices, a.Name)).Mul(rates.Rate(a.Currency))
}

// Total is the unrounded value of every holding.
func Total(assets []models.Asset, rates models.Rates, prices quotes.PriceLookup) decimal.Decimal {
	total := decimal.Zero
	for _, a := range assets {
		total = total.Add(Value(a, rates, prices))
	}
	return total
}

// Liquid splits holdings into cash, stock (including ETFs), crypto and other.
type Liquid struct {
	Total  decimal.Decimal
	Cash   decimal.Decimal
	Stock  decimal.Decimal
	Crypto decimal.Decimal
	Other  decimal.Decimal
}

// IsCash reports holdings counted as cash.
func IsCash(a models.Asset) bool {
	return a.Category == CategoryCash || a.Type == TypeFiat
}

// LiquidBreakdown values each holding and buckets it.
func LiquidBreakdown(assets []models.Asset, rates models.Rates, prices quotes.PriceLookup) Liquid {
	var cash, stock, crypto, other decimal.Decimal
	for _, a := range assets {
		v := Value(a, rates, prices)
		switch {
		case IsCash(a):
			cash = cash.Add(v)
		case a.Category == CategoryStock || a.Category == CategoryETF || a.Type == TypeStock:
			stock = stock.Add(v)
		case a.Category == CategoryCrypto || a.Type == TypeCrypto:
			crypto = crypto.Add(v)
		default:
			other = other.Add(v)
		}
	}
	return Liquid{
		Total:  currencyutils.RoundHalfUp(cash.Add(stock).Add(crypto).Add(other)),
		Cash:   currencyutils.RoundHalfUp(cash),
		Stock:  currencyutils.RoundHalfUp(stock),
		Crypto: currencyutils.RoundHalfUp(crypto),
		Other:  currencyutils.RoundHalfUp(other),
	}
}

// Liquidity compares cash on hand to the next upcoming expense event.
type Liquidity struct {
	LiquidCash decimal.Decimal
	NextEvent  *models.OneOffEvent
	HasCrisis  bool
	Shortfall  decimal.Decimal
}

// CheckLiquidity finds the earliest expense event after today and reports
// whether cash covers it.
func CheckLiquidity(assets []models.Asset, events []models.OneOffEvent, rates models.Rates,
	prices quotes.PriceLookup, today time.Time) Liquidity {
	cash := decimal.Zero
	for _, a := range assets {
		if IsCash(a) {
			cash = cash.Add(Value(a, rates, prices))
		}
	}
	out := Liquidity{LiquidCash: cash}

	var next *models.OneOffEvent
	var nextAt time.Time
	for i := range events {
		e := events[i]
		if e.IsIncome() {
			continue
		}
		t, err := dateutils.ParseDate(e.Date)
		if err != nil || !t.After(today) {
			continue
		}
		if next == nil || t.Before(nextAt) {
			next, nextAt = &events[i], t
		}
	}
	if next == nil {
		return out
	}
	out.NextEvent = next
	if next.Amount.GreaterThan(cash) {
		out.HasCrisis = true
		out.Shortfall = next.Amount.Sub(cash)
	}
	return out
}

// CategoryLabels translates inventory categories for allocation display.
var CategoryLabels = map[string]string{
	"Housing":       "居住",
	"Food":          "餐飲",
	"Transport":     "交通",
	"Utility":       "水電瓦斯",
	"Insurance":     "保險",
	"Medical":       "醫療",
	"Entertainment": "娛樂",
	"Learning":      "學習",
	"Subscription":  "訂閱服務",
	"Family":        "孝親/家庭",
	"Tax":           "稅務",
	"Savings":       "儲蓄",
	"Invest":        "投資",
	"Other":         "其他",
	"Crypto":        "加密貨幣",
	"Stock":         "股票",
	"Cash":          "現金",
	"ETF":           "ETF",
	"Fiat":          "現金",
	"General":       "一般",
	"Uncategorized": "未分類",
}

// Holding is one line of an allocation slice.
type Holding struct {
	ID          string
	Name        string
	Value       decimal.Decimal
	IsConverted bool
}

// Slice is one category of the allocation.
type Slice struct {
	Category string
	Value    decimal.Decimal
	Holdings []Holding
}

// Allocation groups rounded holding values by translated category, in
// first-seen order. Holdings are ordered by numeric ID when both IDs are numbers.
func Allocation(assets []models.Asset, rates models.Rates, prices quotes.PriceLookup) []Slice {
	var order []string
	slices := make(map[string]*Slice)
	for i, a := range assets {
		raw := a.Category
		if raw == "" {
			raw = "Other"
		}
		label, ok := CategoryLabels[raw]
		if !ok {
			label = raw
		}
		s, ok := slices[label]
		if !ok {
			s = &Slice{Category: label}
			slices[label] = s
			order = append(order, label)
		}
		rate := rates.Rate(a.Currency)
		v := currencyutils.RoundHalfUp(Value(a, rates, prices))
		id := a.ID
		if id == "" {
			id = strconv.Itoa(i)
		}
		s.Value = s.Value.Add(v)
		s.Holdings = append(s.Holdings, Holding{ID: id, Name: a.Name, Value: v, IsConverted: !rate.Equal(decimal.NewFromInt(1))})
	}

	out := make([]Slice, 0, len(order))
	for _, label := range order {
		s := slices[label]
		sort.SliceStable(s.Holdings, func(i, j int) bool {
			a, errA := strconv.Atoi(s.Holdings[i].ID)
			b, errB := strconv.Atoi(s.Holdings[j].ID)
			if errA == nil && errB == nil {
				return a < b
			}
			return s.Holdings[i].ID < s.Holdings[j].ID
		})
		out = append(out, *s)
	}
	return out
}

// InitialTotal is the projection's starting net worth: all holdings plus
// fixed assets, rounded.
func InitialTotal(assets []models.Asset, rates models.Rates, prices quotes.PriceLookup, fixed Fixed) decimal.Decimal {
	return currencyutils.RoundHalfUp(Total(assets, rates, prices)).Add(fixed.Total)
}
