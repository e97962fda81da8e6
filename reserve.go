package reserve

// ReserveAggregator folds the chronological events of one currency into
// traded totals and the running reserve.
//
// The reserve is never clamped: selling more than is held drives it
// negative, which is reported rather than refused.
//
// The zero value is ready to use.
type ReserveAggregator struct {
	bought   Quantity
	sold     Quantity
	adjusted Quantity
	reserve  Quantity
	lowest   Quantity // lowest running reserve ever reached
}

// Buy adds q to the bought total and the reserve.
func (r *ReserveAggregator) Buy(q Quantity) {
	r.bought = r.bought.Add(q)
	r.move(q)
}

// Sell adds q to the sold total and removes it from the reserve.
func (r *ReserveAggregator) Sell(q Quantity) {
	r.sold = r.sold.Add(q)
	r.move(q.Neg())
}

// Adjust applies a signed correction to the reserve.
func (r *ReserveAggregator) Adjust(q Quantity) {
	r.adjusted = r.adjusted.Add(q)
	r.move(q)
}

func (r *ReserveAggregator) move(q Quantity) {
	r.reserve = r.reserve.Add(q)
	if r.reserve.LessThan(r.lowest) {
		r.lowest = r.reserve
	}
}

// Bought returns the total quantity bought.
func (r *ReserveAggregator) Bought() Quantity { return r.bought }

// Sold returns the total quantity sold.
func (r *ReserveAggregator) Sold() Quantity { return r.sold }

// Adjusted returns the net sum of adjustments.
func (r *ReserveAggregator) Adjusted() Quantity { return r.adjusted }

// Reserve returns the running reserve: bought − sold + adjusted.
func (r *ReserveAggregator) Reserve() Quantity { return r.reserve }

// Lowest returns the lowest reserve reached after any event, never above
// zero.
func (r *ReserveAggregator) Lowest() Quantity { return r.lowest }
