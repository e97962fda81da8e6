// Package reserve computes the currency reserves and the profit or loss of a
// money-exchange desk that buys and sells foreign currency against BDT.
//
// The core functionalities include:
//   - Ledger Management: the buy/sell transactions, reserve adjustments and
//     currency declarations read from the business console store, with the
//     validation that sets malformed records aside as rejections.
//   - Reserve Aggregation: a chronological fold of every currency into
//     bought, sold and adjusted totals and the running reserve.
//   - Cost Basis: the moving weighted-average cost (or FIFO lots) of the
//     currency held, with oversell and missing-cost-basis flags instead of
//     errors.
//   - Profit and Loss: realized profit or loss at each sale, unrealized
//     profit or loss of the reserve at a valuation rate.
//   - Reporting: per-currency entries sorted by code and BDT totals, over an
//     optional currency and date range.
//   - Data Persistence: JSONL encoding and decoding of ledgers, and the
//     Source interface implemented by file, SQL and REST readers.
//
// The engine is pure and synchronous: it never mutates its inputs, and the
// same ledger and options always produce the same report.
package reserve
