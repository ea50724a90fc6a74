// Package snapdiff compares two tabular snapshots, typically two exports of
// portfolio holdings taken at different dates, and reports the values that
// changed.
//
// The core functionalities include:
//   - Tables: in-memory datasets of typed cells (missing, exact decimal
//     numbers or text) loaded by the source package.
//   - Alignment: rows are matched on a composite key made of several key
//     columns. Keys present in a single table are never compared, they are
//     reported apart. Rows sharing a key are paired by position.
//   - Change detection: for each compare column, a [ChangeRecord] is emitted
//     for every aligned pair that differs, with absolute and percentage
//     change on numeric columns. Column types are declared or inferred once
//     per column, never per cell.
//   - Sinks: results are handed to pluggable [Sink] implementations, the
//     terminal renderer, the spreadsheet exporter or the JSONL format of this
//     package.
//
// This package serves as the foundational logic for the `snapdiff`
// command-line tool.
package snapdiff
