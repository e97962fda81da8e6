// Package cmd implements the fxr command line application.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/reserve"
	"github.com/etnz/reserve/config"
	"github.com/etnz/reserve/remote"
	"github.com/etnz/reserve/sqlstore"
	"github.com/google/subcommands"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var ledgerFile = flag.String("l", "", "Path to a JSONL ledger file, or a directory of them. Defaults to $FXR_LEDGER_FILE.")
var dsn = flag.String("dsn", "", "Database of the console store (postgres://... or a sqlite file). Defaults to $FXR_DSN.")
var remoteURL = flag.String("url", "", "REST endpoint listing the exchange transactions. Defaults to $FXR_REMOTE_URL.")
var remotePath = flag.String("path", "", "JSONPath to the records in the REST payload. Defaults to $FXR_REMOTE_PATH.")

// cfg holds the environment configuration, the defaults of the flags.
var cfg = &config.Config{RemotePath: remote.DefaultPath, Addr: ":8080", Rates: map[string]reserve.Money{}}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander, conf *config.Config) {
	if conf != nil {
		cfg = conf
	}
	c.Register(&reportCmd{}, "reports")
	c.Register(&checkCmd{}, "reports")
	c.Register(&exportCmd{}, "ledger")
	c.Register(&serveCmd{}, "server")
}

// or returns v, or def when v is empty.
func or(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

// openSource returns the source selected by the flags, or by the
// configuration. The returned close function must be called when done.
func openSource(ctx context.Context) (reserve.Source, func() error, error) {
	noop := func() error { return nil }

	// flags take precedence over the configuration as a whole.
	file, db, url := *ledgerFile, *dsn, *remoteURL
	if file == "" && db == "" && url == "" {
		file, db, url = cfg.LedgerFile, cfg.DSN, cfg.RemoteURL
	}

	switch {
	case file != "":
		return reserve.FileSource{Path: file}, noop, nil
	case db != "":
		store, err := sqlstore.Open(ctx, db)
		if err != nil {
			return nil, noop, err
		}
		return store, store.Close, nil
	case url != "":
		return remote.New(url, or(*remotePath, cfg.RemotePath)), noop, nil
	default:
		return reserve.FileSource{Path: "transactions.jsonl"}, noop, nil
	}
}

// loadLedger reads the ledger of the selected source.
func loadLedger(ctx context.Context) (*reserve.Ledger, error) {
	src, closeSource, err := openSource(ctx)
	if err != nil {
		return nil, err
	}
	defer closeSource()
	return src.Ledger(ctx)
}

// printMarkdown renders md for the terminal, or prints it as is when it
// cannot be rendered.
func printMarkdown(md string) {
	printMarkdownTo(os.Stdout, md)
}

func printMarkdownTo(w io.Writer, md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err == nil {
		var out string
		if out, err = r.Render(md); err == nil {
			fmt.Fprint(w, out)
			return
		}
	}
	fmt.Fprint(w, md)
}

// ratesFlag collects repeated -rate CODE=rate flags.
type ratesFlag map[string]reserve.Money

func (r ratesFlag) String() string {
	var items []string
	for code, rate := range r {
		items = append(items, code+"="+rate.Amount().String())
	}
	return strings.Join(items, ",")
}

func (r ratesFlag) Set(v string) error {
	rates, err := reserve.ParseRates(v)
	if err != nil {
		return err
	}
	for code, rate := range rates {
		r[code] = rate
	}
	return nil
}
