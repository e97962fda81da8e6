// Package remote reads exchange records from the REST endpoint of the
// business console.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/reserve"
	"github.com/etnz/reserve/logger"
)

// DefaultPath locates the records in the console's list payload
// `{"success": true, "data": [...]}`.
const DefaultPath = "$.data"

// Client reads the transaction list of a console endpoint.
// It implements reserve.Source.
type Client struct {
	URL   string // URL of the list endpoint.
	Path  string // Path is a JSONPath to the array of records, DefaultPath if empty.
	Token string // Token is sent as a bearer token when not empty.

	HTTPClient *http.Client // http.DefaultClient if nil.
}

// New creates a client for the endpoint url, with records found at path.
func New(url, path string) *Client {
	return &Client{URL: url, Path: path}
}

// Ledger implements reserve.Source.
func (c *Client) Ledger(ctx context.Context) (*reserve.Ledger, error) {
	var jobj any
	if err := c.jwget(ctx, &jobj); err != nil {
		return nil, err
	}

	path := c.Path
	if path == "" {
		path = DefaultPath
	}
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("error locating records at %q: %w", path, err)
	}
	items, ok := jval.([]any)
	if !ok {
		return nil, fmt.Errorf("error locating records at %q: not a list but %T", path, jval)
	}

	records := make([]json.RawMessage, len(items))
	for i, item := range items {
		raw, err := json.Marshal(item)
		if err != nil {
			return nil, fmt.Errorf("error re-encoding record %d: %w", i, err)
		}
		records[i] = raw
	}
	ledger := reserve.DecodeTransactions(records)
	logger.FromContext(ctx).Debug("remote records loaded", "url", c.URL, "records", len(records))
	return ledger, nil
}

// jwget performs an HTTP GET request and unmarshals the JSON response into
// data. Numbers are kept as json.Number so that amounts keep all their digits.
func (c *Client) jwget(ctx context.Context, data any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return fmt.Errorf("invalid remote url %q: %w", c.URL, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("cannot http GET %v: %w", c.URL, err)
	}
	defer resp.Body.Close()
	logger.FromContext(ctx).Info("remote fetch", "method", req.Method, "host", req.URL.Host, "path", req.URL.Path, "status", resp.Status)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cannot http GET %v/%v: %v", req.URL.Host, req.URL.Path, resp.Status)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return fmt.Errorf("cannot read response of %v: %w", c.URL, err)
	}
	dec := json.NewDecoder(&buf)
	dec.UseNumber()
	if err := dec.Decode(data); err != nil {
		return fmt.Errorf("invalid json from %v: %w", c.URL, err)
	}
	return nil
}

var _ reserve.Source = (*Client)(nil)
