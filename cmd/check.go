package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
)

// checkCmd lists the records a report would skip.
type checkCmd struct{}

func (*checkCmd) Name() string     { return "check" }
func (*checkCmd) Synopsis() string { return "list the records rejected by the reports" }
func (*checkCmd) Usage() string {
	return `fxr check

  Validates every record of the source and lists those that the reports
  leave out, with the reason. Exits with a failure status when any record is
  rejected.
`
}

func (c *checkCmd) SetFlags(f *flag.FlagSet) {}

func (c *checkCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := loadLedger(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	rejections := ledger.Rejections()
	if len(rejections) == 0 {
		fmt.Printf("%d transactions, no rejected record\n", ledger.Len())
		return subcommands.ExitSuccess
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %d Rejected Records\n\n", len(rejections))
	fmt.Fprintln(&b, "| Kind | Index | ID | Currency | Reason |")
	fmt.Fprintln(&b, "|:---|---:|:---|:---|:---|")
	for _, r := range rejections {
		reason := strings.ReplaceAll(strings.ReplaceAll(r.Reason, "|", "\\|"), "\n", "; ")
		fmt.Fprintf(&b, "| %s | %d | %s | %s | %s |\n", r.Kind, r.Index, r.ID, r.Currency, reason)
	}
	printMarkdown(b.String())
	return subcommands.ExitFailure
}
