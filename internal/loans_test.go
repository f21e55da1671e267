package internal

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"asset-lending-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loanBody(item string, quantity int) map[string]interface{} {
	return map[string]interface{}{
		"location":     "Meeting Hall",
		"borrowerName": "Andi",
		"contact":      "0812000111",
		"itemName":     item,
		"quantity":     quantity,
		"gpsLocation":  "-6.2,106.8",
	}
}

// TestLoanLifecycleOverHTTP drives a full borrow and return through the
// router: create, look up by ticket and by contact, return, verify the ticket
// is spent and the stock is back.
func TestLoanLifecycleOverHTTP(t *testing.T) {
	s, m := newTestServer(t)
	m.Seed("Items", []string{"BRG001", "Projector", "2", ""})

	// Borrow.
	rr := doRequest(t, s, http.MethodPost, "/loans", loanBody("Projector", 1))
	require.Equal(t, http.StatusCreated, rr.Code)
	env := decodeEnvelope(t, rr)
	require.True(t, env.Success)
	require.Len(t, env.TicketID, 13)
	assert.Equal(t, time.Now().Format("20060102"), env.TicketID[:8])

	ticket := env.TicketID
	assert.Equal(t, "1", m.Rows("Items")[1][2], "stock decremented")

	// Look up by ticket.
	rr = doRequest(t, s, http.MethodGet, "/loans/ticket/"+ticket, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var lookup struct {
		Success bool              `json:"success"`
		Data    models.LoanRecord `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &lookup))
	assert.Equal(t, models.StatusActive, lookup.Data.Status)
	assert.Equal(t, "Projector", lookup.Data.ItemName)

	// Look up by borrower contact.
	rr = doRequest(t, s, http.MethodGet, "/loans/ticket/0812000111", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &lookup))
	assert.Equal(t, ticket, lookup.Data.TicketID)

	// Return in Good condition.
	rr = doRequest(t, s, http.MethodPost, "/returns", map[string]interface{}{
		"ticketId": ticket, "returnerName": "Budi", "contact": "0812999888", "condition": "Good",
	})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, decodeEnvelope(t, rr).Success)
	assert.Equal(t, "2", m.Rows("Items")[1][2], "stock restored")

	// The ticket is no longer active.
	rr = doRequest(t, s, http.MethodGet, "/loans/ticket/"+ticket, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	// A second return conflicts.
	rr = doRequest(t, s, http.MethodPost, "/returns", map[string]interface{}{
		"ticketId": ticket, "returnerName": "Budi", "contact": "0812999888", "condition": "Good",
	})
	require.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "Ticket is invalid or the item was already returned", decodeEnvelope(t, rr).Message)
}

func TestCreateLoanUnknownItemName(t *testing.T) {
	s, _ := newTestServer(t)

	rr := doRequest(t, s, http.MethodPost, "/loans", loanBody("Drone", 1))
	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Item not found", decodeEnvelope(t, rr).Message)
}

func TestCreateLoanInsufficientStock(t *testing.T) {
	s, m := newTestServer(t)
	m.Seed("Items", []string{"BRG001", "Projector", "2", ""})

	rr := doRequest(t, s, http.MethodPost, "/loans", loanBody("Projector", 3))
	require.Equal(t, http.StatusConflict, rr.Code)

	env := decodeEnvelope(t, rr)
	assert.False(t, env.Success)
	assert.Equal(t, `insufficient stock: only 2 of "Projector" left, requested 3`, env.Message)
	assert.Equal(t, "2", m.Rows("Items")[1][2], "stock untouched")
}

func TestCreateLoanRejectsZeroQuantity(t *testing.T) {
	s, m := newTestServer(t)
	m.Seed("Items", []string{"BRG001", "Projector", "2", ""})

	rr := doRequest(t, s, http.MethodPost, "/loans", loanBody("Projector", 0))
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Invalid field: Quantity", decodeEnvelope(t, rr).Message)
}

func TestGetActiveLoanUnknownTicket(t *testing.T) {
	s, _ := newTestServer(t)

	rr := doRequest(t, s, http.MethodGet, "/loans/ticket/2024060199999", nil)
	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Ticket is invalid or the item was already returned", decodeEnvelope(t, rr).Message)
}

func TestReturnRejectsUnknownCondition(t *testing.T) {
	s, _ := newTestServer(t)

	rr := doRequest(t, s, http.MethodPost, "/returns", map[string]interface{}{
		"ticketId": "2024060100001", "returnerName": "Budi", "contact": "x", "condition": "Fine",
	})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Condition must be Good, Damaged or Lost", decodeEnvelope(t, rr).Message)
}
