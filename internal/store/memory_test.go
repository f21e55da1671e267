package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRowsReadsDataBelowHeader(t *testing.T) {
	m := NewMemStore()
	m.Seed("Items",
		[]string{"BRG001", "Projector", "2", "Epson"},
		[]string{"BRG002", "Speaker", "5", ""},
	)

	rows, err := m.GetRows(context.Background(), "Items!A2:D")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"BRG001", "Projector", "2", "Epson"}, rows[0])
	assert.Equal(t, "Speaker", rows[1][1])
}

func TestGetRowsSingleColumn(t *testing.T) {
	m := NewMemStore()
	m.Seed("Loans",
		[]string{"2024060100001", "x"},
		[]string{"2024060100002", "y"},
	)

	rows, err := m.GetRows(context.Background(), "Loans!A2:A")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"2024060100001"}, rows[0])
}

func TestGetRowsSingleCell(t *testing.T) {
	m := NewMemStore()
	m.Seed("Items", []string{"BRG001", "Projector", "2", ""})

	rows, err := m.GetRows(context.Background(), "Items!C2")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"2"}, rows[0])
}

func TestGetRowsUnknownSheetIsEmpty(t *testing.T) {
	m := NewMemStore()

	rows, err := m.GetRows(context.Background(), "Nothing!A2:D")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestAppendRowLandsAfterLastRow(t *testing.T) {
	m := NewMemStore()
	m.Seed("Items", []string{"BRG001", "Projector", "2", ""})

	err := m.AppendRow(context.Background(), "Items!A:D", []string{"BRG002", "Speaker", "5", ""})
	require.NoError(t, err)

	rows, err := m.GetRows(context.Background(), "Items!A2:D")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "BRG002", rows[1][0])
}

func TestAppendRowToEmptySheetLandsAtRowTwo(t *testing.T) {
	m := NewMemStore()

	err := m.AppendRow(context.Background(), "Items!A:D", []string{"BRG001", "Projector", "2", ""})
	require.NoError(t, err)

	rows, err := m.GetRows(context.Background(), "Items!A2:D")
	require.NoError(t, err)
	require.Len(t, rows, 1, "row 1 is reserved for the header")
	assert.Equal(t, "BRG001", rows[0][0])
}

func TestUpdateRangeSingleCell(t *testing.T) {
	m := NewMemStore()
	m.Seed("Items", []string{"BRG001", "Projector", "2", ""})

	err := m.UpdateRange(context.Background(), "Items!C2", [][]string{{"7"}})
	require.NoError(t, err)

	rows, err := m.GetRows(context.Background(), "Items!A2:D")
	require.NoError(t, err)
	assert.Equal(t, "7", rows[0][2])
	assert.Equal(t, "BRG001", rows[0][0], "neighboring cells untouched")
}

func TestUpdateRangePartialRow(t *testing.T) {
	m := NewMemStore()
	m.Seed("Loans", []string{
		"2024060100001", "t", "loc", "name", "contact", "Projector", "1",
		"", "", "Active", "", "", "", "", "",
	})

	update := [][]string{{"Returned", "2024-06-02 10:00:00", "name", "contact", "Good"}}
	err := m.UpdateRange(context.Background(), "Loans!J2:N2", update)
	require.NoError(t, err)

	rows, err := m.GetRows(context.Background(), "Loans!A2:O")
	require.NoError(t, err)
	assert.Equal(t, "Returned", rows[0][9])
	assert.Equal(t, "Good", rows[0][13])
	assert.Equal(t, "Projector", rows[0][5], "columns before J untouched")
}

func TestClearRangeLeavesBlankRowInPlace(t *testing.T) {
	m := NewMemStore()
	m.Seed("Items",
		[]string{"BRG001", "Projector", "2", ""},
		[]string{"BRG002", "Speaker", "5", ""},
	)

	err := m.ClearRange(context.Background(), "Items!A2:D2")
	require.NoError(t, err)

	rows, err := m.GetRows(context.Background(), "Items!A2:D")
	require.NoError(t, err)
	require.Len(t, rows, 2, "cleared row keeps its slot")
	assert.Equal(t, "", rows[0][0])
	assert.Equal(t, "BRG002", rows[1][0])
}

func TestGetRowsTrimsTrailingBlankRows(t *testing.T) {
	m := NewMemStore()
	m.Seed("Items", []string{"BRG001", "Projector", "2", ""})
	require.NoError(t, m.ClearRange(context.Background(), "Items!A2:D2"))

	rows, err := m.GetRows(context.Background(), "Items!A2:D")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestInjectedErrors(t *testing.T) {
	boom := errors.New("boom")
	m := NewMemStore()
	m.GetErr = boom
	m.AppendErr = boom
	m.UpdateErr = boom
	m.ClearErr = boom

	ctx := context.Background()
	_, err := m.GetRows(ctx, "Items!A2:D")
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, m.AppendRow(ctx, "Items!A:D", nil), boom)
	assert.ErrorIs(t, m.UpdateRange(ctx, "Items!C2", nil), boom)
	assert.ErrorIs(t, m.ClearRange(ctx, "Items!A2:D2"), boom)
}

func TestCell(t *testing.T) {
	row := []string{"a", "b"}
	assert.Equal(t, "a", Cell(row, 0))
	assert.Equal(t, "", Cell(row, 5), "short rows read as empty cells")
	assert.Equal(t, "", Cell(row, -1))
}
