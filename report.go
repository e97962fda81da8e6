package reserve

import (
	"slices"
	"strings"
)

// Filter selects the records entering a report.
type Filter struct {
	Currency string // Currency restricts the report to one currency code, case-insensitive.
	Range    Range  // Range restricts the records by date, bounds included.
}

// MarshalJSON implements the json.Marshaler interface for Filter.
func (f Filter) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Optional("currencyCode", NormalizeCurrency(f.Currency))
	w.Optional("from", f.Range.From.String())
	w.Optional("to", f.Range.To.String())
	return w.MarshalJSON()
}

// Options configures a report.
type Options struct {
	Filter Filter
	Method CostBasisMethod
	// Rates overrides the valuation rate of some currencies, in BDT per unit.
	Rates map[string]Money
}

// Summary aggregates the BDT figures of all the entries of a report.
// Foreign quantities are never summed across currencies.
type Summary struct {
	Currencies   int
	Realized     Money
	Unrealized   Money
	PurchaseCost Money
	SaleRevenue  Money
	ReserveValue Money
}

// MarshalJSON implements the json.Marshaler interface for Summary.
func (s Summary) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("totalCurrencies", s.Currencies)
	w.Append("totalRealizedProfitLoss", s.Realized.Round(moneyDecimals))
	w.Append("totalUnrealizedProfitLoss", s.Unrealized.Round(moneyDecimals))
	w.Append("totalPurchaseCost", s.PurchaseCost.Round(moneyDecimals))
	w.Append("totalSaleRevenue", s.SaleRevenue.Round(moneyDecimals))
	w.Append("totalCurrentReserveValue", s.ReserveValue.Round(moneyDecimals))
	return w.MarshalJSON()
}

// add accumulates e into the summary.
func (s *Summary) add(e ProfitLossEntry) {
	s.Currencies++
	s.Realized = s.Realized.Add(e.Realized)
	s.Unrealized = s.Unrealized.Add(e.Unrealized)
	s.PurchaseCost = s.PurchaseCost.Add(e.PurchaseCost)
	s.SaleRevenue = s.SaleRevenue.Add(e.SaleRevenue)
	s.ReserveValue = s.ReserveValue.Add(e.ReserveValue)
}

// Report is the reserve and profit/loss report of a ledger.
type Report struct {
	Filter     Filter
	Method     CostBasisMethod
	Entries    []ProfitLossEntry // sorted by currency code
	Summary    Summary
	Rejections []Rejection
}

// NewReport computes the report of ledger l.
//
// Invalid records are left out and listed in the rejections. The cost basis
// is computed from the records selected by the filter only: a report over a
// date range ignores everything outside of it.
func NewReport(l *Ledger, opts Options) *Report {
	valid, rejections := l.Validate()
	filter := opts.Filter
	filter.Currency = NormalizeCurrency(filter.Currency)

	rates := make(map[string]Money, len(opts.Rates))
	for code, rate := range opts.Rates {
		rates[NormalizeCurrency(code)] = rate
	}
	calc := ProfitLossCalculator{Method: opts.Method, Rates: rates}

	j := newJournal(valid, filter)
	codes := j.Currencies()
	if filter.Currency != "" && !slices.Contains(codes, filter.Currency) {
		// a requested currency is always reported, even without records.
		codes = append(codes, filter.Currency)
	}

	r := &Report{
		Filter:     filter,
		Method:     opts.Method,
		Entries:    make([]ProfitLossEntry, 0, len(codes)),
		Rejections: rejections,
		Summary: Summary{
			Realized:     BDT(0),
			Unrealized:   BDT(0),
			PurchaseCost: BDT(0),
			SaleRevenue:  BDT(0),
			ReserveValue: BDT(0),
		},
	}
	for _, code := range codes {
		e := calc.fold(code, j.events[code])
		e.Name = valid.CurrencyName(code)
		r.Entries = append(r.Entries, e)
		r.Summary.add(e)
	}
	slices.SortFunc(r.Entries, func(a, b ProfitLossEntry) int {
		return strings.Compare(a.Currency, b.Currency)
	})
	if r.Rejections == nil {
		r.Rejections = []Rejection{}
	}
	return r
}

// Entry returns the entry of a currency, if reported.
func (r *Report) Entry(currency string) (ProfitLossEntry, bool) {
	currency = NormalizeCurrency(currency)
	i := slices.IndexFunc(r.Entries, func(e ProfitLossEntry) bool { return e.Currency == currency })
	if i < 0 {
		return ProfitLossEntry{}, false
	}
	return r.Entries[i], true
}

// Warnings returns the entries carrying a data-quality flag.
func (r *Report) Warnings() []ProfitLossEntry {
	var warnings []ProfitLossEntry
	for _, e := range r.Entries {
		if e.HasWarning() {
			warnings = append(warnings, e)
		}
	}
	return warnings
}

// MarshalJSON implements the json.Marshaler interface for Report.
func (r *Report) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("filter", r.Filter)
	w.Append("method", r.Method)
	w.Append("reportingCurrency", SettlementCurrency)
	w.Append("currencies", r.Entries)
	w.Append("summary", r.Summary)
	w.Append("rejections", r.Rejections)
	return w.MarshalJSON()
}
