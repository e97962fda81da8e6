package reserve

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Rhymond/go-money"
)

// SettlementCurrency is the local currency every transaction settles in.
// All rates are BDT per foreign unit and all monetary totals are in BDT.
const SettlementCurrency = "BDT"

// Currency declares a foreign currency handled by the exchange desk.
type Currency struct {
	Code string `json:"code"`
	Name string `json:"name,omitempty"`
}

var currencyCodeRE = regexp.MustCompile(`^[A-Z]{3}$`)

// NormalizeCurrency trims and upper-cases a currency code.
func NormalizeCurrency(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidateCurrency checks that code is a 3-letter ISO 4217 currency code.
func ValidateCurrency(code string) error {
	if code == "" {
		return fmt.Errorf("currency code is missing")
	}
	if !currencyCodeRE.MatchString(code) {
		return fmt.Errorf("invalid currency code %q: want 3 upper-case letters", code)
	}
	if money.GetCurrency(code) == nil {
		return fmt.Errorf("unknown currency code %q", code)
	}
	return nil
}

// displayNames are the currencies an exchange desk commonly trades, used when
// the ledger does not declare a name.
var displayNames = map[string]string{
	"AED": "UAE Dirham",
	"AUD": "Australian Dollar",
	"BDT": "Bangladeshi Taka",
	"BHD": "Bahraini Dinar",
	"CAD": "Canadian Dollar",
	"CHF": "Swiss Franc",
	"CNY": "Chinese Yuan",
	"EUR": "Euro",
	"GBP": "British Pound",
	"IDR": "Indonesian Rupiah",
	"INR": "Indian Rupee",
	"JPY": "Japanese Yen",
	"KWD": "Kuwaiti Dinar",
	"MYR": "Malaysian Ringgit",
	"OMR": "Omani Rial",
	"PKR": "Pakistani Rupee",
	"QAR": "Qatari Riyal",
	"SAR": "Saudi Riyal",
	"SGD": "Singapore Dollar",
	"THB": "Thai Baht",
	"TRY": "Turkish Lira",
	"USD": "US Dollar",
}

// CurrencyName returns a display name for a currency code, or the code itself.
func CurrencyName(code string) string {
	if name, ok := displayNames[code]; ok {
		return name
	}
	return code
}
