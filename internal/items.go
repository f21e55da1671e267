package internal

import (
	"net/http"

	"asset-lending-api/internal/models"

	"github.com/go-chi/chi/v5"
)

// listItems serves the catalog as a plain array.
func (s *Server) listItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.Ledger.ListItems(r.Context())
	if err != nil {
		s.storeFail(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, items)
}

func (s *Server) createItem(w http.ResponseWriter, r *http.Request) {
	var req models.CreateItemRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	// Duplicate codes are not rejected; the code column is display-only and
	// loan lookups key on the name.
	item := models.Item{
		Code:        req.Code,
		Name:        req.Name,
		Stock:       req.Stock,
		Description: req.Description,
	}
	if err := s.Ledger.AddItem(r.Context(), item); err != nil {
		s.storeFail(w, r, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, envelope{Success: true, Message: "Item added"})
}

// deleteItem clears the first row matching the code. An unknown code still
// reports success.
func (s *Server) deleteItem(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	if err := s.Ledger.RemoveItem(r.Context(), code); err != nil {
		s.storeFail(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, envelope{Success: true})
}
