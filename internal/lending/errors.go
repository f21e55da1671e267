package lending

import (
	"errors"
	"fmt"
)

// ErrTicketNotActive covers both unknown tickets and tickets that were
// already returned; callers cannot distinguish the two cases, matching the
// single failure the return flow reports.
var ErrTicketNotActive = errors.New("ticket is invalid or the item was already returned")

// InsufficientStockError rejects a loan whose quantity exceeds the item's
// current stock. It carries the shortfall context for the caller-visible
// message.
type InsufficientStockError struct {
	Item      string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: only %d of %q left, requested %d",
		e.Available, e.Item, e.Requested)
}
