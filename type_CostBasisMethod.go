package reserve

import (
	"fmt"
	"strings"
)

// CostBasisMethod defines how the BDT cost of sold currency is measured.
type CostBasisMethod int

const (
	// AverageCost carries a moving weighted-average cost per unit, updated on
	// every purchase.
	AverageCost CostBasisMethod = iota
	// FIFO consumes the oldest purchases first.
	FIFO
)

func (m CostBasisMethod) String() string {
	switch m {
	case AverageCost:
		return "average"
	case FIFO:
		return "fifo"
	default:
		return "unknown"
	}
}

// ParseCostBasisMethod parses a string into a CostBasisMethod. The empty
// string is the default AverageCost.
func ParseCostBasisMethod(s string) (CostBasisMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "average", "avg", "wac":
		return AverageCost, nil
	case "fifo":
		return FIFO, nil
	default:
		return 0, fmt.Errorf("unknown cost basis method: %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m CostBasisMethod) MarshalText() ([]byte, error) { return []byte(m.String()), nil }
