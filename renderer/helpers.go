package renderer

import (
	"bytes"
	"io"

	"github.com/etnz/reserve"
)

// ConditionalBlock let you fully write a block and decide at the end to print it or not.
// If the block function returns true, the content is printed to w, otherwise it is discarded.
func ConditionalBlock(w io.Writer, block func(io.Writer) bool) {
	bw := &bytes.Buffer{}
	if block(bw) {
		io.Copy(w, bw)
	}
}

// rate formats a BDT rate with 4 decimals, or "-" when unknown.
func rate(m reserve.Money) string {
	if m.IsZero() {
		return "-"
	}
	return m.Amount().StringFixed(4)
}

// quantity formats a quantity of foreign currency, "-" for zero.
func quantity(q reserve.Quantity) string {
	if q.IsZero() {
		return "-"
	}
	return q.Decimal().String()
}
