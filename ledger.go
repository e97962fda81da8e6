package reserve

import (
	"fmt"
	"iter"
	"maps"
	"slices"
)

// RejectionKind tells which kind of input a rejection refers to.
type RejectionKind string

const (
	RejectTransaction RejectionKind = "transaction"
	RejectAdjustment  RejectionKind = "adjustment"
	RejectCurrency    RejectionKind = "currency"
	// RejectRecord is a record that could not even be decoded.
	RejectRecord RejectionKind = "record"
)

// Rejection describes an input record left out of the report and why.
//
// Index is the position of the record among the inputs of its kind, or the
// position in the source (line, row, element) for undecodable records.
type Rejection struct {
	Kind     RejectionKind `json:"kind"`
	Index    int           `json:"index"`
	ID       string        `json:"id,omitempty"`
	Currency string        `json:"currencyCode,omitempty"`
	Reason   string        `json:"reason"`
}

func (r Rejection) String() string {
	id := r.ID
	if id == "" {
		id = fmt.Sprintf("#%d", r.Index)
	}
	return fmt.Sprintf("%s %s: %s", r.Kind, id, r.Reason)
}

// Ledger holds the exchange records read from the store: currency
// declarations, buy/sell transactions and reserve adjustments.
//
// Records are kept in input order; the chronological order is established by
// the Journal. A Ledger is never modified by the computations.
type Ledger struct {
	currencies   map[string]Currency // declared currencies by code
	transactions []CurrencyTransaction
	adjustments  []Adjustment
	rejected     []Rejection // records the source could not decode
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		currencies:   make(map[string]Currency),
		transactions: make([]CurrencyTransaction, 0),
	}
}

// Declare registers currency names. A later declaration of the same code
// replaces the former.
func (l *Ledger) Declare(cs ...Currency) {
	for _, c := range cs {
		l.currencies[NormalizeCurrency(c.Code)] = c
	}
}

// Append appends transactions to the ledger, in input order.
func (l *Ledger) Append(txs ...CurrencyTransaction) {
	l.transactions = append(l.transactions, txs...)
}

// Adjust appends reserve adjustments to the ledger.
func (l *Ledger) Adjust(adjs ...Adjustment) {
	l.adjustments = append(l.adjustments, adjs...)
}

// Reject records an input that could not be decoded.
func (l *Ledger) Reject(r Rejection) {
	l.rejected = append(l.rejected, r)
}

// Merge appends all records of o into l.
func (l *Ledger) Merge(o *Ledger) {
	for _, code := range slices.Sorted(maps.Keys(o.currencies)) {
		l.Declare(o.currencies[code])
	}
	l.Append(o.transactions...)
	l.Adjust(o.adjustments...)
	l.rejected = append(l.rejected, o.rejected...)
}

// Len returns the number of transactions in the ledger.
func (l *Ledger) Len() int { return len(l.transactions) }

// CurrencyName returns the declared name of a currency, or a built-in
// display name.
func (l *Ledger) CurrencyName(code string) string {
	if c, ok := l.currencies[code]; ok && c.Name != "" {
		return c.Name
	}
	return CurrencyName(code)
}

// Currencies returns the declared currencies, sorted by code.
func (l *Ledger) Currencies() iter.Seq[Currency] {
	return func(yield func(Currency) bool) {
		for _, code := range slices.Sorted(maps.Keys(l.currencies)) {
			if !yield(l.currencies[code]) {
				return
			}
		}
	}
}

// Transactions returns an iterator over the transactions in input order.
// Only transactions accepted by all filters are yielded.
func (l *Ledger) Transactions(filters ...func(CurrencyTransaction) bool) iter.Seq2[int, CurrencyTransaction] {
	return func(yield func(int, CurrencyTransaction) bool) {
	next:
		for i, tx := range l.transactions {
			for _, filter := range filters {
				if !filter(tx) {
					continue next
				}
			}
			if !yield(i, tx) {
				return
			}
		}
	}
}

// Adjustments returns an iterator over the adjustments in input order.
func (l *Ledger) Adjustments() iter.Seq2[int, Adjustment] {
	return func(yield func(int, Adjustment) bool) {
		for i, a := range l.adjustments {
			if !yield(i, a) {
				return
			}
		}
	}
}

// Validate returns a new ledger containing only the valid records, with
// normalized currency codes, and the list of rejected records.
//
// Rejections of undecodable records come first, then currencies,
// transactions and adjustments, each in input order.
func (l *Ledger) Validate() (*Ledger, []Rejection) {
	valid := NewLedger()
	rejections := slices.Clone(l.rejected)

	for _, code := range slices.Sorted(maps.Keys(l.currencies)) {
		c := l.currencies[code]
		c.Code = code
		if err := ValidateCurrency(code); err != nil {
			rejections = append(rejections, Rejection{Kind: RejectCurrency, Currency: code, Reason: err.Error()})
			continue
		}
		valid.Declare(c)
	}

	for i, tx := range l.transactions {
		v, err := tx.Validate()
		if err != nil {
			rejections = append(rejections, Rejection{
				Kind: RejectTransaction, Index: i, ID: tx.ID, Currency: tx.Currency, Reason: err.Error(),
			})
			continue
		}
		valid.Append(v)
	}

	for i, a := range l.adjustments {
		v, err := a.Validate()
		if err != nil {
			rejections = append(rejections, Rejection{
				Kind: RejectAdjustment, Index: i, ID: a.ID, Currency: a.Currency, Reason: err.Error(),
			})
			continue
		}
		valid.Adjust(v)
	}
	return valid, rejections
}

// Rejections returns the records of l that Validate would leave out.
func (l *Ledger) Rejections() []Rejection {
	_, rejections := l.Validate()
	return rejections
}
