package reserve

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Rounding applied when entries are published.
const (
	rateDecimals  = 4
	moneyDecimals = 2
)

// ProfitLossEntry is the reserve and profit/loss position of one currency.
//
// All monetary fields are in BDT. Quantities are in units of the currency.
type ProfitLossEntry struct {
	Currency string
	Name     string

	Bought      Quantity // total quantity bought
	Sold        Quantity // total quantity sold
	Adjustments Quantity // net reserve adjustments
	Reserve     Quantity // Bought − Sold + Adjustments

	WAC           Money // weighted-average purchase price
	LastBuyRate   Money
	LastSellRate  Money
	ValuationRate Money // rate used to value the reserve

	ReserveValue Money // Reserve × ValuationRate
	Realized     Money
	Unrealized   Money
	PurchaseCost Money // sum of the cost of all purchases
	SaleRevenue  Money // sum of the proceeds of all sales

	LowestReserve        Quantity // lowest running reserve, zero unless it went negative
	OverSold             Quantity // quantity sold without cost basis coverage
	CostBasisUnavailable bool     // a sale happened before any purchase
	Transactions         int      // number of transactions folded
}

// NegativeReserve reports whether more currency went out than came in.
func (e ProfitLossEntry) NegativeReserve() bool { return e.Reserve.IsNegative() }

// WentNegative reports whether the reserve was negative at some point, even
// if it recovered since.
func (e ProfitLossEntry) WentNegative() bool { return e.LowestReserve.IsNegative() }

// HasWarning reports whether the entry carries any data-quality flag.
func (e ProfitLossEntry) HasWarning() bool {
	return e.WentNegative() || e.OverSold.IsPositive() || e.CostBasisUnavailable
}

// MarshalJSON implements the json.Marshaler interface for ProfitLossEntry.
// Rates are rounded to 4 decimals, amounts to the BDT fraction.
func (e ProfitLossEntry) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("currencyCode", e.Currency)
	w.Append("currencyName", e.Name)
	w.Append("totalBought", e.Bought)
	w.Append("totalSold", e.Sold)
	w.Append("adjustmentAmount", e.Adjustments)
	w.Append("reserve", e.Reserve)
	w.Append("weightedAveragePurchasePrice", e.WAC.Round(rateDecimals).exact())
	w.Append("lastBuyRate", e.LastBuyRate.Round(rateDecimals).exact())
	w.Append("lastSellRate", e.LastSellRate.Round(rateDecimals).exact())
	w.Append("valuationRate", e.ValuationRate.Round(rateDecimals).exact())
	w.Append("currentReserveValue", e.ReserveValue.Round(moneyDecimals))
	w.Append("realizedProfitLoss", e.Realized.Round(moneyDecimals))
	w.Append("unrealizedProfitLoss", e.Unrealized.Round(moneyDecimals))
	w.Append("totalPurchaseCost", e.PurchaseCost.Round(moneyDecimals))
	w.Append("totalSaleRevenue", e.SaleRevenue.Round(moneyDecimals))
	w.Append("transactions", e.Transactions)
	if e.OverSold.IsPositive() {
		w.Append("overSoldQuantity", e.OverSold)
	}
	if e.WentNegative() {
		w.Append("lowestReserve", e.LowestReserve)
	}
	w.Optional("costBasisUnavailable", e.CostBasisUnavailable)
	w.Optional("negativeReserve", e.NegativeReserve())
	return w.MarshalJSON()
}

// ProfitLossCalculator combines the reserve and cost-basis folds of one
// currency into a ProfitLossEntry.
//
// The zero value uses the average cost method and values reserves at the
// last sell rate.
type ProfitLossCalculator struct {
	Method CostBasisMethod
	// Rates are valuation rates in BDT per unit, by currency code. They take
	// precedence over the last sell rate.
	Rates map[string]Money
}

// Calculate computes the entry of currency from its records. Records are
// validated and normalized first: the invalid ones are left out and returned
// as rejections. Records of other currencies and inactive transactions are
// ignored.
func (c ProfitLossCalculator) Calculate(currency string, txs []CurrencyTransaction, adjs []Adjustment) (ProfitLossEntry, []Rejection) {
	l := NewLedger()
	l.Append(txs...)
	l.Adjust(adjs...)
	valid, rejections := l.Validate()
	currency = NormalizeCurrency(currency)
	j := newJournal(valid, Filter{Currency: currency})
	return c.fold(currency, j.events[currency]), rejections
}

// fold runs the single chronological pass over the events of one currency.
func (c ProfitLossCalculator) fold(currency string, events []event) ProfitLossEntry {
	var reserve ReserveAggregator
	basis := NewCostBasisTracker(c.Method)
	e := ProfitLossEntry{
		Currency:     currency,
		Name:         CurrencyName(currency),
		LastBuyRate:  BDT(0),
		LastSellRate: BDT(0),
		Realized:     BDT(0),
		PurchaseCost: BDT(0),
		SaleRevenue:  BDT(0),
	}

	for _, evt := range events {
		switch v := evt.(type) {
		case acquire:
			reserve.Buy(v.quantity)
			basis.Buy(v.on, v.quantity, v.cost)
			e.PurchaseCost = e.PurchaseCost.Add(v.cost)
			e.LastBuyRate = v.rate
			e.Transactions++
		case dispose:
			reserve.Sell(v.quantity)
			d := basis.Sell(v.quantity)
			e.SaleRevenue = e.SaleRevenue.Add(v.proceeds)
			e.Realized = e.Realized.Add(v.proceeds.Sub(d.Cost))
			e.LastSellRate = v.rate
			e.Transactions++
		case adjust:
			reserve.Adjust(v.quantity)
		}
	}

	e.Bought = reserve.Bought()
	e.Sold = reserve.Sold()
	e.Adjustments = reserve.Adjusted()
	e.Reserve = reserve.Reserve()
	e.WAC = basis.WAC()
	e.OverSold = basis.OverSold()
	e.CostBasisUnavailable = basis.Unavailable()
	e.LowestReserve = reserve.Lowest()

	e.ValuationRate = c.valuationRate(currency, e)
	e.ReserveValue = e.ValuationRate.Mul(e.Reserve)
	e.Unrealized = BDT(0)
	if e.Reserve.IsPositive() {
		e.Unrealized = e.ValuationRate.Sub(e.WAC).Mul(e.Reserve)
	}

	// amounts are published to the BDT fraction, and totals add up the
	// published amounts.
	e.ReserveValue = e.ReserveValue.Round(moneyDecimals)
	e.Realized = e.Realized.Round(moneyDecimals)
	e.Unrealized = e.Unrealized.Round(moneyDecimals)
	e.PurchaseCost = e.PurchaseCost.Round(moneyDecimals)
	e.SaleRevenue = e.SaleRevenue.Round(moneyDecimals)
	return e
}

// valuationRate returns the configured rate for currency, else the last sell
// rate, else the WAC.
func (c ProfitLossCalculator) valuationRate(currency string, e ProfitLossEntry) Money {
	if rate, ok := c.Rates[currency]; ok && rate.IsPositive() {
		return rate
	}
	if e.LastSellRate.IsPositive() {
		return e.LastSellRate
	}
	return e.WAC
}

// ParseRate parses a valuation rate written "USD=121.5" (or "USD:121.5").
func ParseRate(s string) (string, Money, error) {
	code, value, ok := strings.Cut(strings.TrimSpace(s), "=")
	if !ok {
		code, value, ok = strings.Cut(s, ":")
	}
	if !ok {
		return "", Money{}, fmt.Errorf("invalid rate %q want CODE=rate", s)
	}
	code = NormalizeCurrency(code)
	if err := ValidateCurrency(code); err != nil {
		return "", Money{}, fmt.Errorf("invalid rate %q: %w", s, err)
	}
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return "", Money{}, fmt.Errorf("invalid rate %q: %w", s, err)
	}
	if !d.IsPositive() {
		return "", Money{}, fmt.Errorf("invalid rate %q: must be positive", s)
	}
	return code, BDT(d), nil
}

// ParseRates parses a comma separated list of valuation rates.
func ParseRates(s string) (map[string]Money, error) {
	rates := make(map[string]Money)
	for _, item := range strings.Split(s, ",") {
		if strings.TrimSpace(item) == "" {
			continue
		}
		code, rate, err := ParseRate(item)
		if err != nil {
			return nil, err
		}
		rates[code] = rate
	}
	return rates, nil
}
