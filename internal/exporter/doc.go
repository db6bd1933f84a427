// Package exporter writes pipeline outputs back to disk.
//
// CSVWriter: core CSV writing with directory creation, shared by all
// exports.
//
// Raw tables are persisted in the original wire format: time truncated to
// whole epoch seconds and values re-encoded as "value;quality" where a
// quality reading exists.
//
// The combined wide table can be written as CSV or as an xlsx workbook.
package exporter
