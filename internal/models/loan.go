package models

// Status tracks where a loan is in its lifecycle. The only transition is
// Active -> Returned, exactly once.
type Status string

const (
	StatusActive   Status = "Active"
	StatusReturned Status = "Returned"
)

// Condition is the post-return assessment of an item. Only a Good return puts
// the borrowed quantity back into circulation.
type Condition string

const (
	ConditionGood    Condition = "Good"
	ConditionDamaged Condition = "Damaged"
	ConditionLost    Condition = "Lost"
)

// ValidCondition reports whether c is one of the known assessment values.
func ValidCondition(c Condition) bool {
	switch c {
	case ConditionGood, ConditionDamaged, ConditionLost:
		return true
	}
	return false
}

// LoanRecord is one row of the Loans sheet (columns A through O, header in
// row 1). A record is appended at loan time and mutated exactly once at
// return time; it is never deleted.
type LoanRecord struct {
	TicketID         string    `json:"ticketId"`
	BorrowedAt       string    `json:"borrowedAt"`
	Location         string    `json:"location"`
	BorrowerName     string    `json:"borrowerName"`
	BorrowerContact  string    `json:"borrowerContact"`
	ItemName         string    `json:"itemName"`
	Quantity         int       `json:"quantity"`
	BorrowerPhotoRef string    `json:"borrowerPhotoRef"`
	ItemPhotoRef     string    `json:"itemPhotoRef"`
	Status           Status    `json:"status"`
	ReturnedAt       string    `json:"returnedAt"`
	ReturnerName     string    `json:"returnerName"`
	ReturnerContact  string    `json:"returnerContact"`
	Condition        Condition `json:"condition"`
	GPSLocation      string    `json:"gpsLocation"`
}

// HistoryEntry is the reduced loan projection served by GET /history.
type HistoryEntry struct {
	TicketID        string `json:"ticketId"`
	BorrowedAt      string `json:"borrowedAt"`
	BorrowerName    string `json:"borrowerName"`
	BorrowerContact string `json:"borrowerContact"`
	ItemName        string `json:"itemName"`
	Quantity        int    `json:"quantity"`
	Status          Status `json:"status"`
}

// HistoryProjection maps a full record onto the projection shape.
func HistoryProjection(rec LoanRecord) HistoryEntry {
	return HistoryEntry{
		TicketID:        rec.TicketID,
		BorrowedAt:      rec.BorrowedAt,
		BorrowerName:    rec.BorrowerName,
		BorrowerContact: rec.BorrowerContact,
		ItemName:        rec.ItemName,
		Quantity:        rec.Quantity,
		Status:          rec.Status,
	}
}

// CreateLoanRequest is the POST /loans payload. Photos arrive as base64 data,
// optionally wrapped in a data: URL.
type CreateLoanRequest struct {
	Location      string `json:"location" validate:"required"`
	BorrowerName  string `json:"borrowerName" validate:"required"`
	Contact       string `json:"contact" validate:"required"`
	ItemName      string `json:"itemName" validate:"required"`
	Quantity      int    `json:"quantity" validate:"required,gt=0"`
	BorrowerPhoto string `json:"borrowerPhoto"`
	ItemPhoto     string `json:"itemPhoto"`
	GPSLocation   string `json:"gpsLocation"`
}

// ReturnRequest is the POST /returns payload.
type ReturnRequest struct {
	TicketID     string    `json:"ticketId" validate:"required"`
	ReturnerName string    `json:"returnerName" validate:"required"`
	Contact      string    `json:"contact" validate:"required"`
	Condition    Condition `json:"condition" validate:"required"`
}
