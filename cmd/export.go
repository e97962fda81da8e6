package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/reserve"
	"github.com/google/subcommands"
)

// exportCmd copies the records of the source into a JSONL ledger.
type exportCmd struct {
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export the source records as a JSONL ledger" }
func (*exportCmd) Usage() string {
	return `fxr export [-o <file>]

  Reads the records of the selected source (ledger file, database or REST
  endpoint) and writes them as a canonical JSONL ledger, to stdout or -o.
  Undecodable records are reported and not exported.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Output ledger file. Defaults to stdout.")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := loadLedger(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	for _, r := range ledger.Rejections() {
		if r.Kind == reserve.RejectRecord {
			fmt.Fprintf(os.Stderr, "skipped %s\n", r)
		}
	}

	if c.output == "" {
		err = reserve.EncodeLedger(os.Stdout, ledger)
	} else {
		err = reserve.SaveLedger(c.output, ledger)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
