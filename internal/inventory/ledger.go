// Package inventory owns the item catalog and its stock counts.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"asset-lending-api/internal/models"
	"asset-lending-api/internal/store"
)

// ErrItemNotFound is returned when a lookup by name finds no catalog row.
var ErrItemNotFound = errors.New("item not found")

// Catalog column layout (sheet columns A through D, header in row 1).
const (
	colCode = iota
	colName
	colStock
	colDescription
)

// headerOffset converts a zero-based data row index into a sheet row number.
const headerOffset = 2

// Ledger reads and mutates the catalog sheet through a RowStore.
//
// Stock adjustments are plain read-modify-write sequences over the remote
// store: two concurrent adjustments of the same row can lose an update.
type Ledger struct {
	store store.RowStore
	sheet string
}

func NewLedger(rs store.RowStore, sheet string) *Ledger {
	return &Ledger{store: rs, sheet: sheet}
}

// ListItems returns the catalog. Rows blanked by RemoveItem are skipped.
func (l *Ledger) ListItems(ctx context.Context) ([]models.Item, error) {
	rows, err := l.store.GetRows(ctx, l.dataRange())
	if err != nil {
		return nil, err
	}

	items := make([]models.Item, 0, len(rows))
	for _, row := range rows {
		if store.Cell(row, colCode) == "" && store.Cell(row, colName) == "" {
			continue
		}
		items = append(items, itemFromRow(row))
	}
	return items, nil
}

// AddItem appends a catalog row. Duplicate codes are accepted: the code column
// is display-only and lookups key on the name column.
func (l *Ledger) AddItem(ctx context.Context, item models.Item) error {
	row := []string{item.Code, item.Name, strconv.Itoa(item.Stock), item.Description}
	return l.store.AppendRow(ctx, fmt.Sprintf("%s!A:D", l.sheet), row)
}

// RemoveItem blanks the first row whose code matches. A code with no match is
// not an error; removal reports success either way.
func (l *Ledger) RemoveItem(ctx context.Context, code string) error {
	rows, err := l.store.GetRows(ctx, l.dataRange())
	if err != nil {
		return err
	}

	for i, row := range rows {
		if store.Cell(row, colCode) == code {
			rng := fmt.Sprintf("%s!A%d:D%d", l.sheet, i+headerOffset, i+headerOffset)
			return l.store.ClearRange(ctx, rng)
		}
	}
	return nil
}

// FindByName returns the first catalog row whose name matches, along with its
// zero-based data row index for later stock writes. Name collisions resolve
// to the first match.
func (l *Ledger) FindByName(ctx context.Context, name string) (models.Item, int, error) {
	rows, err := l.store.GetRows(ctx, l.dataRange())
	if err != nil {
		return models.Item{}, 0, err
	}

	for i, row := range rows {
		if store.Cell(row, colName) == name {
			return itemFromRow(row), i, nil
		}
	}
	return models.Item{}, 0, fmt.Errorf("%w: %q", ErrItemNotFound, name)
}

// AdjustStock reads the stock cell at the given data row index, applies the
// delta and writes the result back, returning the new count. The two store
// calls are not atomic; a concurrent adjustment can be overwritten.
func (l *Ledger) AdjustStock(ctx context.Context, rowIndex int, delta int) (int, error) {
	cellRange := fmt.Sprintf("%s!C%d", l.sheet, rowIndex+headerOffset)

	rows, err := l.store.GetRows(ctx, cellRange)
	if err != nil {
		return 0, err
	}

	current := 0
	if len(rows) > 0 {
		current = parseStock(store.Cell(rows[0], 0))
	}

	newStock := current + delta
	if err := l.store.UpdateRange(ctx, cellRange, [][]string{{strconv.Itoa(newStock)}}); err != nil {
		return 0, err
	}
	return newStock, nil
}

func (l *Ledger) dataRange() string {
	return fmt.Sprintf("%s!A2:D", l.sheet)
}

func itemFromRow(row []string) models.Item {
	return models.Item{
		Code:        store.Cell(row, colCode),
		Name:        store.Cell(row, colName),
		Stock:       parseStock(store.Cell(row, colStock)),
		Description: store.Cell(row, colDescription),
	}
}

// parseStock mirrors the permissive numeric handling of the backing sheet:
// anything unparseable counts as zero.
func parseStock(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
