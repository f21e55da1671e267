package internal

import (
	"errors"
	"net/http"

	"asset-lending-api/internal/inventory"
	"asset-lending-api/internal/lending"
	"asset-lending-api/internal/models"

	"github.com/go-chi/chi/v5"
)

func (s *Server) createLoan(w http.ResponseWriter, r *http.Request) {
	var req models.CreateLoanRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	ticket, err := s.Loans.CreateLoan(r.Context(), lending.CreateLoanInput{
		Location:      req.Location,
		BorrowerName:  req.BorrowerName,
		Contact:       req.Contact,
		ItemName:      req.ItemName,
		Quantity:      req.Quantity,
		BorrowerPhoto: req.BorrowerPhoto,
		ItemPhoto:     req.ItemPhoto,
		GPSLocation:   req.GPSLocation,
	})

	var stockErr *lending.InsufficientStockError
	switch {
	case errors.Is(err, inventory.ErrItemNotFound):
		s.fail(w, http.StatusNotFound, "Item not found")
		return
	case errors.As(err, &stockErr):
		s.fail(w, http.StatusConflict, stockErr.Error())
		return
	case err != nil:
		s.storeFail(w, r, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, envelope{Success: true, TicketID: ticket})
}

// getActiveLoan fetches the Active loan matching the path value, which may be
// either a ticket ID or a borrower contact number.
func (s *Server) getActiveLoan(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "id")

	rec, err := s.Loans.FindActiveLoan(r.Context(), key)
	switch {
	case errors.Is(err, lending.ErrTicketNotActive):
		s.fail(w, http.StatusNotFound, "Ticket is invalid or the item was already returned")
		return
	case err != nil:
		s.storeFail(w, r, err)
		return
	}

	s.respondJSON(w, http.StatusOK, envelope{Success: true, Data: rec})
}

func (s *Server) returnLoan(w http.ResponseWriter, r *http.Request) {
	var req models.ReturnRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	if !models.ValidCondition(req.Condition) {
		s.fail(w, http.StatusBadRequest, "Condition must be Good, Damaged or Lost")
		return
	}

	err := s.Loans.ReturnLoan(r.Context(), req.TicketID, req.ReturnerName, req.Contact, req.Condition)
	switch {
	case errors.Is(err, lending.ErrTicketNotActive):
		s.fail(w, http.StatusConflict, "Ticket is invalid or the item was already returned")
		return
	case err != nil:
		s.storeFail(w, r, err)
		return
	}

	s.respondJSON(w, http.StatusOK, envelope{Success: true})
}
