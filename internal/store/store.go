// Package store abstracts the spreadsheet service behind a narrow
// row-oriented interface so the inventory and lending logic can run against
// an in-memory fake in tests and against Google Sheets in production.
//
// Ranges use standard A1 notation with a sheet prefix ("Items!A2:D"). By
// convention row 1 of every sheet is a header row and data starts at row 2;
// callers that translate a zero-based data index into a sheet row must add 2.
package store

import "context"

// RowStore is the tabular backing store. All operations address cells with
// sheet-qualified A1 ranges and carry rows as string slices.
//
// The store offers no transactions and no conditional writes: every
// read-modify-write sequence built on top of it can lose updates under
// concurrent callers.
type RowStore interface {
	// GetRows reads the given range. Rows may be shorter than the requested
	// width when trailing cells are empty; use Cell for safe access.
	GetRows(ctx context.Context, readRange string) ([][]string, error)

	// AppendRow appends one row after the last populated row of the range's
	// table.
	AppendRow(ctx context.Context, writeRange string, row []string) error

	// UpdateRange overwrites the cells of the given range.
	UpdateRange(ctx context.Context, writeRange string, rows [][]string) error

	// ClearRange blanks the cells of the given range. The row itself stays in
	// place, so later reads see an empty row at the same index.
	ClearRange(ctx context.Context, clearRange string) error
}

// Cell returns row[idx], or "" when the row is too short.
func Cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
