package reserve

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// CommandType identifies the kind of record on a ledger line.
type CommandType string

const (
	CmdCurrency    CommandType = "currency"
	CmdTransaction CommandType = "transaction"
	CmdAdjust      CommandType = "adjust"
)

// maxLineSize bounds the size of a single JSONL record.
const maxLineSize = 1 << 20

// DecodeLedger decodes records from a stream of JSONL data.
//
// Each line holds one record; the "command" field tells its kind, and a line
// without it is a transaction, as exported by the console store. Lines that
// cannot be decoded are recorded as rejections with their line number; only
// read errors are returned.
func DecodeLedger(r io.Reader) (*Ledger, error) {
	ledger := NewLedger()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	line := 0
	for scanner.Scan() {
		line++
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}
		if err := ledger.decodeRecord(lineBytes); err != nil {
			ledger.Reject(Rejection{Kind: RejectRecord, Index: line, Reason: err.Error()})
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}
	return ledger, nil
}

// decodeRecord decodes a single JSON record into the ledger.
func (l *Ledger) decodeRecord(data []byte) error {
	var identifier struct {
		Command CommandType `json:"command"`
	}
	if err := json.Unmarshal(data, &identifier); err != nil {
		return fmt.Errorf("could not identify command: %w", err)
	}

	switch identifier.Command {
	case CmdCurrency:
		var c Currency
		if err := json.Unmarshal(data, &c); err != nil {
			return fmt.Errorf("invalid currency: %w", err)
		}
		l.Declare(c)
	case CmdTransaction, "":
		var tx CurrencyTransaction
		if err := json.Unmarshal(data, &tx); err != nil {
			return fmt.Errorf("invalid transaction: %w", err)
		}
		l.Append(tx)
	case CmdAdjust:
		var a Adjustment
		if err := json.Unmarshal(data, &a); err != nil {
			return fmt.Errorf("invalid adjustment: %w", err)
		}
		l.Adjust(a)
	default:
		return fmt.Errorf("unknown command: %q", identifier.Command)
	}
	return nil
}

// DecodeTransactions decodes a list of transaction records, such as the
// payload of the console REST endpoint. Elements that cannot be decoded are
// recorded as rejections with their position in the list.
func DecodeTransactions(records []json.RawMessage) *Ledger {
	ledger := NewLedger()
	for i, raw := range records {
		var tx CurrencyTransaction
		if err := json.Unmarshal(raw, &tx); err != nil {
			ledger.Reject(Rejection{Kind: RejectRecord, Index: i, Reason: fmt.Sprintf("invalid transaction: %v", err)})
			continue
		}
		ledger.Append(tx)
	}
	return ledger
}

// encodeRecord marshals a record prefixed with its command and writes it to
// w, followed by a newline, in JSONL format.
func encodeRecord(w io.Writer, cmd CommandType, record any) error {
	var obj jsonObjectWriter
	obj.Append("command", cmd)
	obj.EmbedFrom(record)
	data, err := obj.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", cmd, err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write %s: %w", cmd, err)
	}
	return nil
}

// EncodeLedger persists a ledger to w in JSONL format: currency declarations
// first, then transactions and adjustments in input order.
//
// Undecodable records are not written back.
func EncodeLedger(w io.Writer, ledger *Ledger) error {
	for c := range ledger.Currencies() {
		if err := encodeRecord(w, CmdCurrency, c); err != nil {
			return err
		}
	}
	for _, tx := range ledger.Transactions() {
		if err := encodeRecord(w, CmdTransaction, tx); err != nil {
			return err
		}
	}
	for _, a := range ledger.Adjustments() {
		if err := encodeRecord(w, CmdAdjust, a); err != nil {
			return err
		}
	}
	return nil
}
