package reserve

import (
	"maps"
	"slices"
	"sort"
	"time"
)

// event is a single, atomic change of one currency position. It is the
// lowest-level fact from which reserves and cost basis are derived.
type event interface {
	date() Date
}

// acquire adds foreign currency bought at a cost.
type acquire struct {
	on       Date
	quantity Quantity
	rate     Money
	cost     Money // BDT paid
}

func (e acquire) date() Date { return e.on }

// dispose removes foreign currency sold for proceeds.
type dispose struct {
	on       Date
	quantity Quantity
	rate     Money
	proceeds Money // BDT received
}

func (e dispose) date() Date { return e.on }

// adjust corrects the reserve without touching the cost basis.
type adjust struct {
	on       Date
	quantity Quantity
}

func (e adjust) date() Date { return e.on }

// Journal holds, per currency, the chronologically sorted events of the
// active records of a validated ledger.
type Journal struct {
	events map[string][]event
}

// entry is a record waiting to be sorted.
type entry struct {
	on  Date
	at  time.Time
	seq int // input order, transactions before adjustments
	cur string
	evt event
}

// newJournal builds the journal of the records of l selected by f.
// Inactive transactions are left out.
//
// Events are ordered by date, then by creation time (records without a
// creation time first), then by input order.
func newJournal(l *Ledger, f Filter) *Journal {
	cur := NormalizeCurrency(f.Currency)
	accept := func(code string, on Date) bool {
		return (cur == "" || code == cur) && f.Range.Contains(on)
	}

	var entries []entry
	for i, tx := range l.transactions {
		if !tx.Active || !accept(tx.Currency, tx.Date) {
			continue
		}
		var e event
		switch tx.Type {
		case Buy:
			e = acquire{on: tx.Date, quantity: tx.Quantity, rate: tx.Rate, cost: tx.Settlement()}
		case Sell:
			e = dispose{on: tx.Date, quantity: tx.Quantity, rate: tx.Rate, proceeds: tx.Settlement()}
		default:
			continue
		}
		entries = append(entries, entry{on: tx.Date, at: tx.CreatedAt, seq: i, cur: tx.Currency, evt: e})
	}
	for i, a := range l.adjustments {
		if !accept(a.Currency, a.Date) {
			continue
		}
		e := adjust{on: a.Date, quantity: a.Quantity}
		entries = append(entries, entry{on: a.Date, seq: len(l.transactions) + i, cur: a.Currency, evt: e})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.on != b.on {
			return a.on.Before(b.on)
		}
		if !a.at.Equal(b.at) {
			// the zero time is before any timestamp.
			return a.at.Before(b.at)
		}
		return a.seq < b.seq
	})

	j := &Journal{events: make(map[string][]event)}
	for _, e := range entries {
		j.events[e.cur] = append(j.events[e.cur], e.evt)
	}
	return j
}

// Currencies returns the codes of the currencies with at least one event,
// sorted.
func (j *Journal) Currencies() []string {
	return slices.Sorted(maps.Keys(j.events))
}

// Len returns the number of events recorded for a currency.
func (j *Journal) Len(currency string) int { return len(j.events[currency]) }
