// Package server exposes currency reserve reports over HTTP.
//
// Every request recomputes its report from the source, unless an identical
// report is still in the cache. The store calls the invalidate endpoint after
// each write so that cached reports never outlive the data they were
// computed from.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/etnz/reserve"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// Options configures a Server.
type Options struct {
	Method   reserve.CostBasisMethod  // Method is the default cost basis method.
	Rates    map[string]reserve.Money // Rates are default valuation rates.
	CacheTTL time.Duration            // CacheTTL bounds the life of a cached report; 0 disables the cache.
	// RateLimit is the sustained number of API requests per second; 0 is
	// unlimited. Burst requests may exceed it momentarily.
	RateLimit float64
	Burst     int
	Logger    *slog.Logger
}

// Server serves the reserve report API.
type Server struct {
	source reserve.Source
	opts   Options
	cache  *cache.Cache
	log    *slog.Logger
	engine *gin.Engine
}

// New creates a server reading its records from source.
func New(source reserve.Source, opts Options) *Server {
	s := &Server{source: source, opts: opts, log: opts.Logger}
	if s.log == nil {
		s.log = slog.Default()
	}
	if opts.CacheTTL > 0 {
		s.cache = cache.New(opts.CacheTTL, 2*opts.CacheTTL)
	}

	router := gin.New()
	router.Use(gin.Recovery(), contextualLogger(s.log))

	api := router.Group("/api/exchange")
	if opts.RateLimit > 0 {
		api.Use(rateLimit(rate.NewLimiter(rate.Limit(opts.RateLimit), max(opts.Burst, 1))))
	}
	{
		api.GET("/reserves", s.getReserves)
		api.GET("/reserves/:currency", s.getCurrencyReserve)
		api.POST("/cache/invalidate", s.invalidate)
	}
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	s.engine = router
	return s
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler { return s.engine }

// Invalidate drops every cached report.
func (s *Server) Invalidate() {
	if s.cache != nil {
		s.cache.Flush()
	}
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.log.Info("server listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// report returns the report for opts, from the cache when possible.
func (s *Server) report(ctx context.Context, opts reserve.Options) (*reserve.Report, error) {
	key := cacheKey(opts)
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			return cached.(*reserve.Report), nil
		}
	}

	ledger, err := s.source.Ledger(ctx)
	if err != nil {
		return nil, err
	}
	report := reserve.NewReport(ledger, opts)
	if s.cache != nil {
		s.cache.Set(key, report, cache.DefaultExpiration)
	}
	return report, nil
}
