package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/etnz/reserve/logger"
	"github.com/etnz/reserve/server"
	"github.com/gin-gonic/gin"
	"github.com/google/subcommands"
)

// serveCmd serves the report API.
type serveCmd struct {
	addr string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the reserve report API over HTTP" }
func (*serveCmd) Usage() string {
	return `fxr serve [-addr <addr>]

  Serves GET /api/exchange/reserves, GET /api/exchange/reserves/:currency and
  POST /api/exchange/cache/invalidate, reading the selected source on each
  uncached request.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "Listen address. Defaults to $FXR_ADDR or :8080.")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	log := logger.InitStderr(cfg.LogLevel)
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.ToContext(ctx, log)

	src, closeSource, err := openSource(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening source: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeSource()

	srv := server.New(src, server.Options{
		Method:    cfg.CostMethod,
		Rates:     cfg.Rates,
		CacheTTL:  cfg.CacheTTL,
		RateLimit: cfg.RateLimit,
		Burst:     int(cfg.RateLimit) * 2,
		Logger:    log,
	})
	if err := srv.ListenAndServe(ctx, or(c.addr, cfg.Addr)); err != nil {
		log.Error("server failed", "error", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
