package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// MemStore is an in-memory RowStore used by tests. It understands the A1
// range shapes the services actually produce ("Items!A2:D", "Loans!A:O",
// "Items!C5", "Loans!J5:N5") and mirrors the backing service's row
// semantics: cleared rows stay in place as blank rows, reads trim trailing
// empty rows, short rows are returned as-is.
//
// Optional error fields let tests inject upstream failures per operation.
type MemStore struct {
	mu     sync.Mutex
	sheets map[string][][]string // sheet name -> rows, index 0 is sheet row 1

	GetErr    error
	AppendErr error
	UpdateErr error
	ClearErr  error
}

func NewMemStore() *MemStore {
	return &MemStore{sheets: make(map[string][][]string)}
}

// Seed appends data rows to a sheet, creating a blank header row first when
// the sheet is empty so that data lands at row 2 like in a real spreadsheet.
func (m *MemStore) Seed(sheet string, rows ...[]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sheets[sheet]) == 0 {
		m.sheets[sheet] = append(m.sheets[sheet], []string{})
	}
	for _, row := range rows {
		m.sheets[sheet] = append(m.sheets[sheet], append([]string(nil), row...))
	}
}

// Rows returns a copy of the raw sheet contents, header row included.
func (m *MemStore) Rows(sheet string) [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]string, len(m.sheets[sheet]))
	for i, row := range m.sheets[sheet] {
		out[i] = append([]string(nil), row...)
	}
	return out
}

func (m *MemStore) GetRows(_ context.Context, readRange string) ([][]string, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	ref, err := parseRange(readRange)
	if err != nil {
		return nil, err
	}

	rows := m.sheets[ref.sheet]
	var out [][]string
	for r := ref.startRow; r <= len(rows); r++ {
		if ref.endRow > 0 && r > ref.endRow {
			break
		}
		out = append(out, sliceCols(rows[r-1], ref.startCol, ref.endCol))
	}
	// The backing service omits trailing empty rows.
	for len(out) > 0 && blankRow(out[len(out)-1]) {
		out = out[:len(out)-1]
	}
	return out, nil
}

func (m *MemStore) AppendRow(_ context.Context, writeRange string, row []string) error {
	if m.AppendErr != nil {
		return m.AppendErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	ref, err := parseRange(writeRange)
	if err != nil {
		return err
	}

	// Row 1 of every sheet is a header; an empty sheet gets a blank header so
	// appended data starts at row 2.
	if len(m.sheets[ref.sheet]) == 0 {
		m.sheets[ref.sheet] = append(m.sheets[ref.sheet], []string{})
	}

	padded := make([]string, ref.startCol+len(row))
	copy(padded[ref.startCol:], row)
	m.sheets[ref.sheet] = append(m.sheets[ref.sheet], padded)
	return nil
}

func (m *MemStore) UpdateRange(_ context.Context, writeRange string, rows [][]string) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	ref, err := parseRange(writeRange)
	if err != nil {
		return err
	}

	for i, row := range rows {
		target := ref.startRow + i
		m.growTo(ref.sheet, target, ref.startCol+len(row))
		copy(m.sheets[ref.sheet][target-1][ref.startCol:], row)
	}
	return nil
}

func (m *MemStore) ClearRange(_ context.Context, clearRange string) error {
	if m.ClearErr != nil {
		return m.ClearErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	ref, err := parseRange(clearRange)
	if err != nil {
		return err
	}

	rows := m.sheets[ref.sheet]
	endRow := ref.endRow
	if endRow == 0 {
		endRow = len(rows)
	}
	for r := ref.startRow; r <= endRow && r <= len(rows); r++ {
		row := rows[r-1]
		for c := ref.startCol; c <= ref.endCol && c < len(row); c++ {
			row[c] = ""
		}
	}
	return nil
}

// growTo ensures the sheet has at least rowCount rows and that the target row
// has at least colCount cells.
func (m *MemStore) growTo(sheet string, rowCount, colCount int) {
	for len(m.sheets[sheet]) < rowCount {
		m.sheets[sheet] = append(m.sheets[sheet], []string{})
	}
	row := m.sheets[sheet][rowCount-1]
	for len(row) < colCount {
		row = append(row, "")
	}
	m.sheets[sheet][rowCount-1] = row
}

type rangeRef struct {
	sheet    string
	startCol int // zero-based, inclusive
	endCol   int // zero-based, inclusive
	startRow int // one-based; defaults to 1
	endRow   int // one-based; 0 means unbounded
}

func parseRange(a1 string) (rangeRef, error) {
	sheet, ref, ok := strings.Cut(a1, "!")
	if !ok {
		return rangeRef{}, fmt.Errorf("range %q: missing sheet name", a1)
	}

	start, end, bounded := strings.Cut(ref, ":")
	startCol, startRow, err := parseCell(start)
	if err != nil {
		return rangeRef{}, fmt.Errorf("range %q: %w", a1, err)
	}
	if startRow == 0 {
		startRow = 1
	}

	out := rangeRef{sheet: sheet, startCol: startCol, startRow: startRow}
	if !bounded {
		// Single cell like "C5".
		out.endCol = startCol
		out.endRow = startRow
		return out, nil
	}

	endCol, endRow, err := parseCell(end)
	if err != nil {
		return rangeRef{}, fmt.Errorf("range %q: %w", a1, err)
	}
	out.endCol = endCol
	out.endRow = endRow
	return out, nil
}

// parseCell splits "C5" into column index 2 and row 5. The row part is
// optional ("C" yields row 0).
func parseCell(ref string) (col, row int, err error) {
	i := 0
	for i < len(ref) && ref[i] >= 'A' && ref[i] <= 'Z' {
		col = col*26 + int(ref[i]-'A'+1)
		i++
	}
	if col == 0 {
		return 0, 0, fmt.Errorf("cell %q: missing column letter", ref)
	}
	col--
	if i == len(ref) {
		return col, 0, nil
	}
	row, err = strconv.Atoi(ref[i:])
	if err != nil || row < 1 {
		return 0, 0, fmt.Errorf("cell %q: bad row number", ref)
	}
	return col, row, nil
}

func sliceCols(row []string, startCol, endCol int) []string {
	if startCol >= len(row) {
		return []string{}
	}
	end := endCol + 1
	if end > len(row) {
		end = len(row)
	}
	return append([]string(nil), row[startCol:end]...)
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}
