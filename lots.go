package reserve

// lot is a single purchase of foreign currency, used by the FIFO method.
type lot struct {
	Date     Date
	Quantity Quantity
	Cost     Money // Total BDT cost of the lot (quantity × rate)
}

type lots []lot

// quantity returns the total quantity held in the lots.
func (l lots) quantity() (q Quantity) {
	for _, current := range l {
		q = q.Add(current.Quantity)
	}
	return q
}

// cost returns the total cost of the lots.
func (l lots) cost() Money {
	c := BDT(0)
	for _, current := range l {
		c = c.Add(current.Cost)
	}
	return c
}

// sell consumes up to quantityToSell from the oldest lots. It returns the
// remaining lots, the quantity actually taken from the lots and its cost.
func (l lots) sell(quantityToSell Quantity) (remaining lots, covered Quantity, cost Money) {
	cost = BDT(0)
	for _, current := range l {
		if !quantityToSell.IsPositive() {
			remaining = append(remaining, current)
			continue
		}

		if current.Quantity.GreaterThan(quantityToSell) {
			// Partial sale from this lot
			soldPortion := current.Cost.Mul(quantityToSell).Div(current.Quantity)
			remaining = append(remaining, lot{
				Date:     current.Date,
				Quantity: current.Quantity.Sub(quantityToSell),
				Cost:     current.Cost.Sub(soldPortion),
			})
			cost = cost.Add(soldPortion)
			covered = covered.Add(quantityToSell)
			quantityToSell = Quantity{}
		} else {
			// Full sale of this lot
			cost = cost.Add(current.Cost)
			covered = covered.Add(current.Quantity)
			quantityToSell = quantityToSell.Sub(current.Quantity)
		}
	}
	return remaining, covered, cost
}
