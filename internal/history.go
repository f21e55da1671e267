package internal

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"asset-lending-api/internal/models"

	"github.com/tealeg/xlsx/v3"
)

// listHistory serves all loan records newest-first as the reduced history
// projection. Optional q/limit/offset parameters narrow the result.
func (s *Server) listHistory(w http.ResponseWriter, r *http.Request) {
	params := parseListParams(r)

	records, err := s.Loans.ListHistory(r.Context())
	if err != nil {
		s.storeFail(w, r, err)
		return
	}

	entries := make([]models.HistoryEntry, 0, len(records))
	for _, rec := range records {
		if params.q != "" && !historyMatches(rec, params.q) {
			continue
		}
		entries = append(entries, models.HistoryProjection(rec))
	}

	entries = pageSlice(entries, params.offset, params.limit)
	s.respondJSON(w, http.StatusOK, entries)
}

// exportHistory streams the full loan history as an XLSX workbook.
func (s *Server) exportHistory(w http.ResponseWriter, r *http.Request) {
	records, err := s.Loans.ListHistory(r.Context())
	if err != nil {
		s.storeFail(w, r, err)
		return
	}

	wb := xlsx.NewFile()
	sheet, err := wb.AddSheet("Loan History")
	if err != nil {
		s.Log.WithError(err).Error("create export sheet")
		s.fail(w, http.StatusInternalServerError, "Failed to build export")
		return
	}

	header := sheet.AddRow()
	for _, title := range []string{
		"Ticket", "Borrowed At", "Location", "Borrower", "Contact", "Item",
		"Quantity", "Status", "Returned At", "Returner", "Returner Contact",
		"Condition", "GPS",
	} {
		header.AddCell().Value = title
	}

	for _, rec := range records {
		row := sheet.AddRow()
		row.AddCell().Value = rec.TicketID
		row.AddCell().Value = rec.BorrowedAt
		row.AddCell().Value = rec.Location
		row.AddCell().Value = rec.BorrowerName
		row.AddCell().Value = rec.BorrowerContact
		row.AddCell().Value = rec.ItemName
		row.AddCell().SetInt(rec.Quantity)
		row.AddCell().Value = string(rec.Status)
		row.AddCell().Value = rec.ReturnedAt
		row.AddCell().Value = rec.ReturnerName
		row.AddCell().Value = rec.ReturnerContact
		row.AddCell().Value = string(rec.Condition)
		row.AddCell().Value = rec.GPSLocation
	}

	filename := fmt.Sprintf("loan-history-%s.xlsx", time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := wb.Write(w); err != nil {
		s.Log.WithError(err).Error("write export workbook")
	}
}

// historyMatches does a case-insensitive substring match over the fields the
// history screen searches on.
func historyMatches(rec models.LoanRecord, q string) bool {
	q = strings.ToLower(q)
	for _, field := range []string{rec.TicketID, rec.BorrowerName, rec.ItemName, rec.BorrowerContact} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// pageSlice applies offset/limit to entries. A zero limit means no limit.
func pageSlice(entries []models.HistoryEntry, offset, limit int) []models.HistoryEntry {
	if offset >= len(entries) {
		return []models.HistoryEntry{}
	}
	entries = entries[offset:]
	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	return entries
}

// listParams holds common query parameters for list endpoints
type listParams struct {
	limit  int
	offset int
	q      string
}

// parseListParams parses limit, offset and q from the request.
// Defaults: no limit, offset=0.
func parseListParams(r *http.Request) listParams {
	values := r.URL.Query()

	limit := 0
	if s := strings.TrimSpace(values.Get("limit")); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			limit = v
		}
	}

	offset := 0
	if s := strings.TrimSpace(values.Get("offset")); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 0 {
			offset = v
		}
	}

	return listParams{
		limit:  limit,
		offset: offset,
		q:      strings.TrimSpace(values.Get("q")),
	}
}
