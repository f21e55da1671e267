package models

// Item is one row of the catalog sheet (columns A through D, header in
// row 1). Stock is decremented when a loan is issued and incremented when a
// loan comes back in Good condition. Codes are not checked for uniqueness on
// add; lookups key on the name column.
type Item struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Stock       int    `json:"stock"`
	Description string `json:"description"`
}

// CreateItemRequest is the POST /items payload.
type CreateItemRequest struct {
	Code        string `json:"code" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Stock       int    `json:"stock" validate:"gte=0"`
	Description string `json:"description"`
}
