package server

import (
	"fmt"
	"maps"
	"net/http"
	"slices"
	"strings"

	"github.com/etnz/reserve"
	"github.com/etnz/reserve/logger"
	"github.com/gin-gonic/gin"
)

// getReserves handles GET /api/exchange/reserves
func (s *Server) getReserves(c *gin.Context) {
	opts, err := s.parseOptions(c, c.Query("currency"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	report, err := s.report(c.Request.Context(), opts)
	if err != nil {
		s.sourceError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// getCurrencyReserve handles GET /api/exchange/reserves/:currency
func (s *Server) getCurrencyReserve(c *gin.Context) {
	code := reserve.NormalizeCurrency(c.Param("currency"))
	if err := reserve.ValidateCurrency(code); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	opts, err := s.parseOptions(c, code)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	report, err := s.report(c.Request.Context(), opts)
	if err != nil {
		s.sourceError(c, err)
		return
	}
	entry, _ := report.Entry(code) // a filtered report always has its currency.
	c.JSON(http.StatusOK, gin.H{
		"filter":     report.Filter,
		"method":     report.Method,
		"currency":   entry,
		"summary":    report.Summary,
		"rejections": report.Rejections,
	})
}

// invalidate handles POST /api/exchange/cache/invalidate
func (s *Server) invalidate(c *gin.Context) {
	s.Invalidate()
	logger.FromContext(c.Request.Context()).Info("report cache invalidated")
	c.JSON(http.StatusOK, gin.H{"message": "cache invalidated"})
}

func (s *Server) sourceError(c *gin.Context, err error) {
	logger.FromContext(c.Request.Context()).Error("could not read exchange records", "error", err)
	c.JSON(http.StatusBadGateway, gin.H{"error": "could not read exchange records"})
}

// parseOptions reads the report options from the query string:
// from, to, method and any number of rate=USD:121.
func (s *Server) parseOptions(c *gin.Context, currency string) (reserve.Options, error) {
	opts := reserve.Options{
		Filter: reserve.Filter{Currency: reserve.NormalizeCurrency(currency)},
		Method: s.opts.Method,
		Rates:  maps.Clone(s.opts.Rates),
	}
	if opts.Rates == nil {
		opts.Rates = make(map[string]reserve.Money)
	}

	if opts.Filter.Currency != "" {
		if err := reserve.ValidateCurrency(opts.Filter.Currency); err != nil {
			return opts, err
		}
	}
	var from, to reserve.Date
	if v := c.Query("from"); v != "" {
		d, err := reserve.ParseDate(v)
		if err != nil {
			return opts, fmt.Errorf("invalid from: %w", err)
		}
		from = d
	}
	if v := c.Query("to"); v != "" {
		d, err := reserve.ParseDate(v)
		if err != nil {
			return opts, fmt.Errorf("invalid to: %w", err)
		}
		to = d
	}
	opts.Filter.Range = reserve.NewRange(from, to)

	if v := c.Query("method"); v != "" {
		m, err := reserve.ParseCostBasisMethod(v)
		if err != nil {
			return opts, err
		}
		opts.Method = m
	}
	for _, v := range c.QueryArray("rate") {
		code, rate, err := reserve.ParseRate(v)
		if err != nil {
			return opts, err
		}
		opts.Rates[code] = rate
	}
	return opts, nil
}

// cacheKey identifies the report computed for opts.
func cacheKey(opts reserve.Options) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s|%s|%s|%s", opts.Filter.Currency, opts.Filter.Range.From, opts.Filter.Range.To, opts.Method)
	for _, code := range slices.Sorted(maps.Keys(opts.Rates)) {
		fmt.Fprintf(&b, "|%s=%s", code, opts.Rates[code].Amount())
	}
	return b.String()
}
