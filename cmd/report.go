package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"maps"
	"os"

	"github.com/etnz/reserve"
	"github.com/etnz/reserve/renderer"
	"github.com/google/subcommands"
)

// reportCmd holds the flags for the 'report' subcommand.
type reportCmd struct {
	currency string
	start    string
	end      string
	period   string
	method   string
	rates    ratesFlag
	format   string
	output   string
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "currency reserves and profit/loss report" }
func (*reportCmd) Usage() string {
	return `fxr report [-c <currency>] [-s <date>] [-d <date>] [-period <period>] [-method <method>] [-rate <CODE=rate>]... [-format md|json|html] [-o <file>]

  Computes for each currency the reserve, the weighted average purchase price,
  and the realized and unrealized profit or loss, in BDT.

  Without -s nor -period the report covers every record up to -d. The cost
  basis is computed from the records in the reporting range only.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	c.rates = ratesFlag{}
	f.StringVar(&c.currency, "c", "", "Restrict the report to one currency code")
	f.StringVar(&c.start, "s", "", "Start date of the reporting period. See the user manual for supported date formats.")
	f.StringVar(&c.end, "d", "", "End date of the reporting period. Defaults to no limit.")
	f.StringVar(&c.period, "period", "", "Predefined period ending on -d (day, week, month, quarter, year)")
	f.StringVar(&c.method, "method", "", "Cost basis method (average, fifo). Defaults to $FXR_COST_METHOD or average.")
	f.Var(c.rates, "rate", "Valuation rate CODE=rate in BDT, repeatable. Defaults to the last sell rate.")
	f.StringVar(&c.format, "format", "md", "Output format (md, json, html)")
	f.StringVar(&c.output, "o", "", "Write the report to this file instead of the terminal")
}

func (c *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	opts, err := c.options()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	ledger, err := loadLedger(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	report := reserve.NewReport(ledger, opts)
	if n := len(report.Rejections); n > 0 {
		fmt.Fprintf(os.Stderr, "warning: %d records skipped, see 'fxr check'\n", n)
	}

	if c.output == "" && c.format == "md" {
		printMarkdown(renderer.ReportMarkdown(report))
		return subcommands.ExitSuccess
	}

	if c.output == "" {
		if err := writeReport(os.Stdout, report, c.format); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}
	if err := writeReportFile(c.output, report, c.format); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// writeReportFile writes the report to name. The file is complete only if
// both the write and the close succeed.
func writeReportFile(name string, report *reserve.Report, format string) error {
	file, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("creating %q: %w", name, err)
	}
	if err := writeReport(file, report, format); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing %q: %w", name, err)
	}
	return nil
}

// options builds the report options from the flags.
func (c *reportCmd) options() (reserve.Options, error) {
	opts := reserve.Options{
		Filter: reserve.Filter{Currency: c.currency},
		Method: cfg.CostMethod,
		Rates:  maps.Clone(cfg.Rates),
	}
	if opts.Rates == nil {
		opts.Rates = make(map[string]reserve.Money)
	}
	maps.Copy(opts.Rates, c.rates)

	if c.method != "" {
		m, err := reserve.ParseCostBasisMethod(c.method)
		if err != nil {
			return opts, err
		}
		opts.Method = m
	}
	if c.currency != "" {
		if err := reserve.ValidateCurrency(reserve.NormalizeCurrency(c.currency)); err != nil {
			return opts, err
		}
	}

	if c.start != "" && c.period != "" {
		return opts, fmt.Errorf("-s and -period flags cannot be used together")
	}
	var end reserve.Date
	if c.end != "" {
		d, err := reserve.ParseDate(c.end)
		if err != nil {
			return opts, fmt.Errorf("parsing end date: %w", err)
		}
		end = d
	}
	switch {
	case c.start != "":
		start, err := reserve.ParseDate(c.start)
		if err != nil {
			return opts, fmt.Errorf("parsing start date: %w", err)
		}
		opts.Filter.Range = reserve.NewRange(start, end)
	case c.period != "":
		p, err := reserve.ParsePeriod(c.period)
		if err != nil {
			return opts, err
		}
		if end.IsZero() {
			end = reserve.Today()
		}
		opts.Filter.Range = p.Range(end)
	default:
		opts.Filter.Range = reserve.Range{To: end}
	}
	return opts, nil
}

// writeReport writes the report in the given format.
func writeReport(w io.Writer, report *reserve.Report, format string) error {
	switch format {
	case "md":
		_, err := io.WriteString(w, renderer.ReportMarkdown(report))
		return err
	case "html":
		html, err := renderer.HTML(renderer.ReportMarkdown(report))
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, html)
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	default:
		return fmt.Errorf("unknown format %q want md, json or html", format)
	}
}
