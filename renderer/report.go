package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/reserve"
)

// ReportMarkdown renders a reserve and profit/loss report as markdown.
func ReportMarkdown(r *reserve.Report) string {
	var b strings.Builder

	title := "Currency Reserve Report"
	if r.Filter.Currency != "" {
		title = fmt.Sprintf("%s Reserve Report", r.Filter.Currency)
	}
	fmt.Fprintf(&b, "# %s (%s)\n\n", title, r.Filter.Range)
	fmt.Fprintf(&b, "Method: %s, amounts in %s\n\n", r.Method, reserve.SettlementCurrency)

	fmt.Fprint(&b, "## Reserves\n\n")
	if len(r.Entries) == 0 {
		fmt.Fprint(&b, "No exchange transactions.\n\n")
	} else {
		fmt.Fprintln(&b, "| Currency | Bought | Sold | Adjusted | Reserve | Avg. Cost | Last Buy | Last Sell | Value |")
		fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|---:|---:|---:|")
		for _, e := range r.Entries {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s | %s |\n",
				e.Currency,
				quantity(e.Bought),
				quantity(e.Sold),
				quantity(e.Adjustments),
				e.Reserve.String(),
				rate(e.WAC),
				rate(e.LastBuyRate),
				rate(e.LastSellRate),
				e.ReserveValue.String(),
			)
		}
		fmt.Fprintln(&b)

		fmt.Fprint(&b, "## Profit and Loss\n\n")
		fmt.Fprintln(&b, "| Currency | Purchase Cost | Sale Revenue | Realized | Unrealized |")
		fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|")
		for _, e := range r.Entries {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
				e.Currency,
				e.PurchaseCost.String(),
				e.SaleRevenue.String(),
				e.Realized.SignedString(),
				e.Unrealized.SignedString(),
			)
		}
		s := r.Summary
		fmt.Fprintf(&b, "| **Total** | **%s** | **%s** | **%s** | **%s** |\n\n",
			s.PurchaseCost.String(),
			s.SaleRevenue.String(),
			s.Realized.SignedString(),
			s.Unrealized.SignedString(),
		)
		fmt.Fprintf(&b, "Reserve value: **%s** over %d currencies.\n\n", s.ReserveValue.String(), s.Currencies)
	}

	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprint(w, "## Warnings\n\n")
		warned := false
		for _, e := range r.Warnings() {
			warned = true
			if e.NegativeReserve() {
				fmt.Fprintf(w, "- %s: negative reserve %s\n", e.Currency, e.Reserve)
			} else if e.WentNegative() {
				fmt.Fprintf(w, "- %s: reserve fell to %s before recovering\n", e.Currency, e.LowestReserve)
			}
			if e.OverSold.IsPositive() {
				fmt.Fprintf(w, "- %s: %s sold beyond the purchased quantity, at zero cost\n", e.Currency, e.OverSold)
			}
			if e.CostBasisUnavailable {
				fmt.Fprintf(w, "- %s: sold before any purchase, cost basis unavailable\n", e.Currency)
			}
		}
		fmt.Fprintln(w)
		return warned
	})

	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprint(w, "## Skipped Records\n\n")
		fmt.Fprintln(w, "| Kind | Index | ID | Currency | Reason |")
		fmt.Fprintln(w, "|:---|---:|:---|:---|:---|")
		for _, rej := range r.Rejections {
			fmt.Fprintf(w, "| %s | %d | %s | %s | %s |\n", rej.Kind, rej.Index, escapeCell(rej.ID), escapeCell(rej.Currency), escapeCell(rej.Reason))
		}
		fmt.Fprintln(w)
		return len(r.Rejections) > 0
	})

	return b.String()
}

// escapeCell makes s safe inside a markdown table cell.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", "; ")
}
