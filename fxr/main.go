// Command fxr reports the currency reserves and the profit or loss of a
// money-exchange desk.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"

	"github.com/etnz/reserve/cmd"
	"github.com/etnz/reserve/config"
	"github.com/google/subcommands"
)

func main() {
	cmd.Completion().Complete("fxr")

	conf, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander, conf)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
