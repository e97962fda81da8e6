package reserve

// Disposal is the cost-basis outcome of one sale.
type Disposal struct {
	Covered     Quantity // Covered is the part of the sale backed by purchased currency.
	OverSold    Quantity // OverSold is the part sold beyond the costed quantity, at zero cost.
	Cost        Money    // Cost is the BDT cost removed from the position.
	WAC         Money    // WAC is the average cost per unit at the time of the sale.
	Unavailable bool     // Unavailable is true when nothing had been bought yet.
}

// CostBasisTracker folds the purchases and sales of one currency into its
// BDT cost basis.
//
// With AverageCost the weighted-average cost (WAC) moves only on purchases:
// WAC = total cost / costed quantity. A sale removes covered × WAC and leaves
// the WAC unchanged. With FIFO a sale consumes the oldest lots, and the WAC
// is the average cost of the lots left.
//
// Irregular sequences never fail: a sale beyond the costed quantity is
// recorded as oversold, and a sale before any purchase marks the cost basis
// as unavailable.
type CostBasisTracker struct {
	method      CostBasisMethod
	quantity    Quantity // costed quantity
	cost        Money    // total cost of the costed quantity
	wac         Money
	lots        lots
	bought      bool
	overSold    Quantity
	unavailable bool
}

// NewCostBasisTracker creates an empty tracker using method.
func NewCostBasisTracker(method CostBasisMethod) *CostBasisTracker {
	return &CostBasisTracker{method: method, cost: BDT(0), wac: BDT(0)}
}

// Buy adds q units bought for a total BDT cost.
func (c *CostBasisTracker) Buy(on Date, q Quantity, cost Money) {
	c.bought = true
	c.quantity = c.quantity.Add(q)
	c.cost = c.cost.Add(cost)
	if c.method == FIFO {
		c.lots = append(c.lots, lot{Date: on, Quantity: q, Cost: cost})
	}
	if c.quantity.IsPositive() {
		c.wac = c.cost.Div(c.quantity)
	}
}

// Sell removes q units from the position and returns the cost removed.
func (c *CostBasisTracker) Sell(q Quantity) Disposal {
	d := Disposal{WAC: c.wac, Cost: BDT(0)}
	if !c.bought {
		c.unavailable = true
		d.Unavailable = true
	}

	d.Covered = q.Min(c.quantity)
	d.OverSold = q.Sub(d.Covered)

	switch {
	case !d.Covered.IsPositive():
	case c.method == FIFO:
		c.lots, d.Covered, d.Cost = c.lots.sell(d.Covered)
		c.cost = c.lots.cost()
		c.quantity = c.lots.quantity()
	case d.Covered.Equal(c.quantity):
		// the whole position goes, with its exact cost.
		d.Cost = c.cost
		c.quantity = Quantity{}
		c.cost = BDT(0)
	default:
		d.Cost = c.wac.Mul(d.Covered)
		c.quantity = c.quantity.Sub(d.Covered)
		c.cost = c.cost.Sub(d.Cost)
	}

	if c.method == FIFO && c.quantity.IsPositive() {
		c.wac = c.cost.Div(c.quantity)
	}
	if d.OverSold.IsPositive() {
		c.overSold = c.overSold.Add(d.OverSold)
	}
	return d
}

// WAC returns the current average cost per unit, or the last one known when
// the position is empty. It is zero until the first purchase.
func (c *CostBasisTracker) WAC() Money { return c.wac }

// Quantity returns the quantity still carrying a cost.
func (c *CostBasisTracker) Quantity() Quantity { return c.quantity }

// Cost returns the total cost of the costed quantity.
func (c *CostBasisTracker) Cost() Money { return c.cost }

// OverSold returns the total quantity sold beyond the costed quantity.
func (c *CostBasisTracker) OverSold() Quantity { return c.overSold }

// Unavailable reports whether a sale happened before any purchase.
func (c *CostBasisTracker) Unavailable() bool { return c.unavailable }

// Method returns the cost basis method of the tracker.
func (c *CostBasisTracker) Method() CostBasisMethod { return c.method }
