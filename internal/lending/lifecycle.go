// Package lending orchestrates the borrow/return lifecycle: ticket
// generation, stock mutation through the inventory ledger, photo upload, and
// the Active -> Returned state machine over the Loans sheet.
package lending

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"asset-lending-api/internal/blob"
	"asset-lending-api/internal/inventory"
	"asset-lending-api/internal/models"
	"asset-lending-api/internal/store"
)

// Photo reference sentinels. A loan is never aborted because of its photos:
// a failed upload degrades to PhotoUploadFailed and, with no uploader
// configured, a supplied photo is recorded as merely attached.
const (
	PhotoAttached     = "ATTACHED"
	PhotoUploadFailed = "UPLOAD_FAILED"
)

// timeLayout is the human-readable timestamp written into the sheet.
const timeLayout = "2006-01-02 15:04:05"

// Loans sheet column layout (columns A through O, header in row 1).
const (
	colTicket = iota
	colBorrowedAt
	colLocation
	colBorrowerName
	colBorrowerContact
	colItemName
	colQuantity
	colBorrowerPhoto
	colItemPhoto
	colStatus
	colReturnedAt
	colReturnerName
	colReturnerContact
	colCondition
	colGPS
)

// headerOffset converts a zero-based data row index into a sheet row number.
const headerOffset = 2

// Lifecycle drives loan creation and return on top of the inventory ledger
// and the loans sheet.
//
// The design assumes one request at a time. Each operation issues several
// independent store calls with no transaction around them, so two concurrent
// CreateLoan calls can both pass the stock check (oversell) or compute the
// same daily sequence number (duplicate ticket). These races come from the
// backing store's lack of concurrency control and are intentionally left in
// place rather than papered over.
type Lifecycle struct {
	store  store.RowStore
	ledger *inventory.Ledger
	photos blob.Uploader // nil when no blob store is configured
	sheet  string
	log    *logrus.Logger
	now    func() time.Time
}

func NewLifecycle(rs store.RowStore, ledger *inventory.Ledger, photos blob.Uploader, sheet string, log *logrus.Logger) *Lifecycle {
	return &Lifecycle{
		store:  rs,
		ledger: ledger,
		photos: photos,
		sheet:  sheet,
		log:    log,
		now:    time.Now,
	}
}

// CreateLoanInput carries everything captured at the counter when an item
// goes out. Photo fields hold base64 image data, optionally wrapped in a
// data: URL.
type CreateLoanInput struct {
	Location      string
	BorrowerName  string
	Contact       string
	ItemName      string
	Quantity      int
	BorrowerPhoto string
	ItemPhoto     string
	GPSLocation   string
}

// CreateLoan checks stock, generates the ticket, decrements stock and appends
// the Active loan row, returning the ticket ID.
//
// The stock decrement lands before the loan row append. If the append then
// fails there is no compensation: the stock stays decremented with no record,
// matching the store's lack of transactions.
func (lc *Lifecycle) CreateLoan(ctx context.Context, in CreateLoanInput) (string, error) {
	item, rowIndex, err := lc.ledger.FindByName(ctx, in.ItemName)
	if err != nil {
		return "", err
	}

	if in.Quantity > item.Stock {
		return "", &InsufficientStockError{Item: item.Name, Requested: in.Quantity, Available: item.Stock}
	}

	ticket, err := lc.nextTicket(ctx)
	if err != nil {
		return "", err
	}

	if _, err := lc.ledger.AdjustStock(ctx, rowIndex, -in.Quantity); err != nil {
		return "", err
	}

	borrowerRef := lc.uploadPhoto(ctx, ticket, "borrower", in.BorrowerPhoto)
	itemRef := lc.uploadPhoto(ctx, ticket, "item", in.ItemPhoto)

	row := loanRow(models.LoanRecord{
		TicketID:         ticket,
		BorrowedAt:       lc.now().Format(timeLayout),
		Location:         in.Location,
		BorrowerName:     in.BorrowerName,
		BorrowerContact:  in.Contact,
		ItemName:         in.ItemName,
		Quantity:         in.Quantity,
		BorrowerPhotoRef: borrowerRef,
		ItemPhotoRef:     itemRef,
		Status:           models.StatusActive,
		GPSLocation:      in.GPSLocation,
	})
	if err := lc.store.AppendRow(ctx, fmt.Sprintf("%s!A:O", lc.sheet), row); err != nil {
		return "", err
	}

	return ticket, nil
}

// FindActiveLoan looks up the single Active record matching either the ticket
// ID or the borrower contact, so a requester who lost the ticket can still be
// served. Returns ErrTicketNotActive when nothing matches.
func (lc *Lifecycle) FindActiveLoan(ctx context.Context, key string) (models.LoanRecord, error) {
	rows, err := lc.store.GetRows(ctx, lc.dataRange())
	if err != nil {
		return models.LoanRecord{}, err
	}

	for _, row := range rows {
		if store.Cell(row, colStatus) != string(models.StatusActive) {
			continue
		}
		if store.Cell(row, colTicket) == key || store.Cell(row, colBorrowerContact) == key {
			return loanFromRow(row), nil
		}
	}
	return models.LoanRecord{}, ErrTicketNotActive
}

// ReturnLoan transitions the ticket's record from Active to Returned and,
// when the item came back in Good condition, restores the borrowed quantity
// to stock. A ticket that is unknown or already returned fails with
// ErrTicketNotActive and leaves all state untouched.
//
// If the item was removed from the catalog since the loan was issued the
// stock restoration is skipped; the return itself still succeeds.
func (lc *Lifecycle) ReturnLoan(ctx context.Context, ticketID, returnerName, contact string, condition models.Condition) error {
	rows, err := lc.store.GetRows(ctx, lc.dataRange())
	if err != nil {
		return err
	}

	rowIndex := -1
	for i, row := range rows {
		if store.Cell(row, colTicket) == ticketID && store.Cell(row, colStatus) == string(models.StatusActive) {
			rowIndex = i
			break
		}
	}
	if rowIndex == -1 {
		return ErrTicketNotActive
	}

	loan := loanFromRow(rows[rowIndex])

	// Columns J through N: status, returnedAt, returnerName, returnerContact,
	// condition. One contiguous partial-row write.
	sheetRow := rowIndex + headerOffset
	update := [][]string{{
		string(models.StatusReturned),
		lc.now().Format(timeLayout),
		returnerName,
		contact,
		string(condition),
	}}
	rng := fmt.Sprintf("%s!J%d:N%d", lc.sheet, sheetRow, sheetRow)
	if err := lc.store.UpdateRange(ctx, rng, update); err != nil {
		return err
	}

	if condition == models.ConditionGood {
		_, itemRow, err := lc.ledger.FindByName(ctx, loan.ItemName)
		switch {
		case errors.Is(err, inventory.ErrItemNotFound):
			lc.log.WithFields(logrus.Fields{
				"ticket": ticketID,
				"item":   loan.ItemName,
			}).Warn("returned item no longer in catalog, skipping stock restore")
			return nil
		case err != nil:
			return err
		}
		if _, err := lc.ledger.AdjustStock(ctx, itemRow, loan.Quantity); err != nil {
			return err
		}
	}

	return nil
}

// ListHistory returns every loan record, newest first. Ordering is a plain
// reversal of insertion order; rows are assumed appended chronologically.
func (lc *Lifecycle) ListHistory(ctx context.Context) ([]models.LoanRecord, error) {
	rows, err := lc.store.GetRows(ctx, lc.dataRange())
	if err != nil {
		return nil, err
	}

	records := make([]models.LoanRecord, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		if store.Cell(rows[i], colTicket) == "" {
			continue
		}
		records = append(records, loanFromRow(rows[i]))
	}
	return records, nil
}

// nextTicket derives the day's next ticket ID by counting existing records
// that share today's YYYYMMDD prefix. The count is taken from a read that can
// go stale before the subsequent append lands, so concurrent creators on the
// same day can produce the same ID.
func (lc *Lifecycle) nextTicket(ctx context.Context) (string, error) {
	datePrefix := lc.now().Format("20060102")

	rows, err := lc.store.GetRows(ctx, fmt.Sprintf("%s!A2:A", lc.sheet))
	if err != nil {
		return "", err
	}

	count := 0
	for _, row := range rows {
		if strings.HasPrefix(store.Cell(row, colTicket), datePrefix) {
			count++
		}
	}
	return fmt.Sprintf("%s%05d", datePrefix, count+1), nil
}

// uploadPhoto pushes one photo to the blob store and returns its reference:
// "" when no photo was supplied, the public URL on success, PhotoAttached
// when no uploader is configured, PhotoUploadFailed when the upload errors.
func (lc *Lifecycle) uploadPhoto(ctx context.Context, ticket, kind, encoded string) string {
	if encoded == "" {
		return ""
	}
	if lc.photos == nil {
		return PhotoAttached
	}

	data, err := decodePhoto(encoded)
	if err != nil {
		lc.log.WithFields(logrus.Fields{"ticket": ticket, "photo": kind}).
			WithError(err).Warn("photo decode failed")
		return PhotoUploadFailed
	}

	objectName := fmt.Sprintf("loans/%s/%s-%s.jpg", ticket, kind, uuid.NewString())
	url, err := lc.photos.Upload(ctx, objectName, data, "image/jpeg")
	if err != nil {
		lc.log.WithFields(logrus.Fields{"ticket": ticket, "photo": kind}).
			WithError(err).Warn("photo upload failed")
		return PhotoUploadFailed
	}
	return url
}

// decodePhoto accepts raw base64 or a data: URL.
func decodePhoto(encoded string) ([]byte, error) {
	if _, rest, ok := strings.Cut(encoded, ";base64,"); ok {
		encoded = rest
	}
	return base64.StdEncoding.DecodeString(encoded)
}

func (lc *Lifecycle) dataRange() string {
	return fmt.Sprintf("%s!A2:O", lc.sheet)
}

func loanRow(rec models.LoanRecord) []string {
	return []string{
		rec.TicketID,
		rec.BorrowedAt,
		rec.Location,
		rec.BorrowerName,
		rec.BorrowerContact,
		rec.ItemName,
		strconv.Itoa(rec.Quantity),
		rec.BorrowerPhotoRef,
		rec.ItemPhotoRef,
		string(rec.Status),
		rec.ReturnedAt,
		rec.ReturnerName,
		rec.ReturnerContact,
		string(rec.Condition),
		rec.GPSLocation,
	}
}

func loanFromRow(row []string) models.LoanRecord {
	quantity, _ := strconv.Atoi(store.Cell(row, colQuantity))
	return models.LoanRecord{
		TicketID:         store.Cell(row, colTicket),
		BorrowedAt:       store.Cell(row, colBorrowedAt),
		Location:         store.Cell(row, colLocation),
		BorrowerName:     store.Cell(row, colBorrowerName),
		BorrowerContact:  store.Cell(row, colBorrowerContact),
		ItemName:         store.Cell(row, colItemName),
		Quantity:         quantity,
		BorrowerPhotoRef: store.Cell(row, colBorrowerPhoto),
		ItemPhotoRef:     store.Cell(row, colItemPhoto),
		Status:           models.Status(store.Cell(row, colStatus)),
		ReturnedAt:       store.Cell(row, colReturnedAt),
		ReturnerName:     store.Cell(row, colReturnerName),
		ReturnerContact:  store.Cell(row, colReturnerContact),
		Condition:        models.Condition(store.Cell(row, colCondition)),
		GPSLocation:      store.Cell(row, colGPS),
	}
}
