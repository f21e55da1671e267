package internal

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// envelope is the JSON shape shared by all success and failure responses
// that are not plain arrays.
type envelope struct {
	Success  bool        `json:"success"`
	Message  string      `json:"message,omitempty"`
	TicketID string      `json:"ticketId,omitempty"`
	Data     interface{} `json:"data,omitempty"`
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Log.WithError(err).Error("encode response")
	}
}

// fail writes the failure envelope.
func (s *Server) fail(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, envelope{Success: false, Message: message})
}

// storeFail logs an upstream store error and reports it as a bad gateway.
// Business-rule failures never go through here; they map to specific codes in
// the handlers.
func (s *Server) storeFail(w http.ResponseWriter, r *http.Request, err error) {
	s.Log.WithError(err).WithField("path", r.URL.Path).Error("store operation failed")
	s.fail(w, http.StatusBadGateway, "The backing store is unavailable. Try again later.")
}

// decodeAndValidate decodes the JSON body into v and runs struct validation.
// On failure it writes a 400 and returns false.
func (s *Server) decodeAndValidate(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.fail(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := s.validate.Struct(v); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			s.fail(w, http.StatusBadRequest, "Invalid field: "+verrs[0].Field())
			return false
		}
		s.fail(w, http.StatusBadRequest, "Invalid request")
		return false
	}
	return true
}
