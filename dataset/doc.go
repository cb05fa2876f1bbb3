// Package dataset reads feature instances and timestamped events from CSV.
//
// The first record is a header. Columns are located by name (see Columns), so
// their order and any extra columns do not matter. A position is either an
// x/y column pair or a single WKT column holding "POINT (x y)".
//
// Errors:
//
//   - ErrMissingColumn when a configured column is absent from the header.
//   - *ParseError for a malformed value, carrying the line and column.
package dataset
