package models

import "time"

type Bill struct {
	ID          int        `json:"id"`
	BillDate    time.Time  `json:"bill_date"`
	TotalAmount float64    `json:"total_amount"`
	Customer    *Customer  `json:"customer"`
	Items       []BillItem `json:"items"`
}

// BillItem is one line of a bill. UnitPrice is the catalog price captured at
// the time of sale; later price changes do not affect existing bills.
type BillItem struct {
	ID        int     `json:"id"`
	ItemID    int     `json:"item_id"`
	ItemName  string  `json:"item_name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Subtotal  float64 `json:"subtotal"`
}

type BillLineRequest struct {
	ItemID   int `json:"item_id"`
	Quantity int `json:"quantity"`
}

type CreateBillRequest struct {
	CustomerID int               `json:"customer_id"`
	Items      []BillLineRequest `json:"items"`
}
