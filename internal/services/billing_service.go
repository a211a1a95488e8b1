package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Nethmini-Hirunika/Pahana-Edu-Billing/internal/models"

	"github.com/rs/zerolog"
)

// BillingService turns a requested set of (item, quantity) lines into a
// persisted bill while keeping catalog stock consistent. All mutation happens
// inside a single database transaction: a failure on any line leaves no stock
// decrement behind.
type BillingService struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewBillingService(db *sql.DB, logger zerolog.Logger) *BillingService {
	return &BillingService{
		db:     db,
		logger: logger,
	}
}

type billLine struct {
	itemID    int
	itemName  string
	quantity  int
	unitPrice float64
	subtotal  float64
}

// CreateBill validates every line against the catalog, decrements stock and
// persists the bill atomically. Lines are processed in submission order
// against the in-transaction stock value, so several lines for the same item
// accumulate their demand. An empty line list yields a zero-total bill.
func (s *BillingService) CreateBill(req *models.CreateBillRequest) (*models.Bill, error) {
	for _, line := range req.Items {
		if line.Quantity < 1 {
			return nil, fmt.Errorf("quantity for item %d must be a positive integer: %w", line.ItemID, ErrInvalidArgument)
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		s.logger.Error().Err(err).Msg("Error starting bill transaction")
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	var customerID int
	err = tx.QueryRow("SELECT id FROM customers WHERE id = ?", req.CustomerID).Scan(&customerID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("customer with id %d: %w", req.CustomerID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch customer: %w", err)
	}

	billDate := time.Now()
	lines := make([]billLine, 0, len(req.Items))
	var totalAmount float64

	for _, line := range req.Items {
		var itemName string
		var price float64
		var stock int
		err := tx.QueryRow("SELECT name, price, stock FROM items WHERE id = ?", line.ItemID).
			Scan(&itemName, &price, &stock)
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("item with id %d: %w", line.ItemID, ErrNotFound)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to fetch item: %w", err)
		}

		if stock < line.Quantity {
			return nil, fmt.Errorf("item %q has %d in stock, requested %d: %w",
				itemName, stock, line.Quantity, ErrInsufficientStock)
		}

		// The guard re-checks stock against the row's current value under the
		// row lock, so two concurrent bills can never both spend the same
		// units even if their earlier reads were stale.
		result, err := tx.Exec(
			"UPDATE items SET stock = stock - ?, updated_at = ? WHERE id = ? AND stock >= ?",
			line.Quantity, billDate, line.ItemID, line.Quantity,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to decrement stock: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("failed to check stock decrement: %w", err)
		}
		if affected == 0 {
			return nil, fmt.Errorf("item %q was depleted by a concurrent sale: %w", itemName, ErrInsufficientStock)
		}

		subtotal := price * float64(line.Quantity)
		totalAmount += subtotal
		lines = append(lines, billLine{
			itemID:    line.ItemID,
			itemName:  itemName,
			quantity:  line.Quantity,
			unitPrice: price,
			subtotal:  subtotal,
		})
	}

	result, err := tx.Exec(
		"INSERT INTO bills (customer_id, bill_date, total_amount) VALUES (?, ?, ?)",
		req.CustomerID, billDate, totalAmount,
	)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error creating bill")
		return nil, fmt.Errorf("failed to create bill: %w", err)
	}

	billID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get bill ID: %w", err)
	}

	for _, l := range lines {
		_, err = tx.Exec(
			"INSERT INTO bill_items (bill_id, item_id, item_name, quantity, unit_price, subtotal) VALUES (?, ?, ?, ?, ?, ?)",
			billID, l.itemID, l.itemName, l.quantity, l.unitPrice, l.subtotal,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create bill item: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		s.logger.Error().Err(err).Msg("Error committing bill transaction")
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	bill, err := s.GetBillByID(int(billID))
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int("bill_id", bill.ID).
		Int("customer_id", req.CustomerID).
		Int("line_count", len(bill.Items)).
		Float64("total_amount", bill.TotalAmount).
		Msg("Bill created")

	return bill, nil
}

func (s *BillingService) GetBillByID(billID int) (*models.Bill, error) {
	var bill models.Bill
	var customer models.Customer

	err := s.db.QueryRow(
		`SELECT b.id, b.bill_date, b.total_amount,
		        c.id, c.name, c.address, c.phone, c.email, c.created_at
		 FROM bills b
		 JOIN customers c ON c.id = b.customer_id
		 WHERE b.id = ?`,
		billID,
	).Scan(
		&bill.ID, &bill.BillDate, &bill.TotalAmount,
		&customer.ID, &customer.Name, &customer.Address, &customer.Phone, &customer.Email, &customer.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("bill with id %d: %w", billID, ErrNotFound)
	}
	if err != nil {
		s.logger.Error().Err(err).Int("bill_id", billID).Msg("Error fetching bill")
		return nil, fmt.Errorf("database error: %w", err)
	}
	bill.Customer = &customer

	items, err := s.getBillItems(billID)
	if err != nil {
		return nil, err
	}
	bill.Items = items

	return &bill, nil
}

func (s *BillingService) getBillItems(billID int) ([]models.BillItem, error) {
	rows, err := s.db.Query(
		"SELECT id, item_id, item_name, quantity, unit_price, subtotal FROM bill_items WHERE bill_id = ? ORDER BY id",
		billID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bill items: %w", err)
	}
	defer rows.Close()

	var items []models.BillItem
	for rows.Next() {
		var item models.BillItem
		if err := rows.Scan(&item.ID, &item.ItemID, &item.ItemName, &item.Quantity, &item.UnitPrice, &item.Subtotal); err != nil {
			return nil, fmt.Errorf("error scanning bill item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bill items: %w", err)
	}

	return items, nil
}

func (s *BillingService) GetAllBills() ([]*models.Bill, error) {
	rows, err := s.db.Query(
		`SELECT b.id, b.bill_date, b.total_amount,
		        c.id, c.name, c.address, c.phone, c.email, c.created_at
		 FROM bills b
		 JOIN customers c ON c.id = b.customer_id
		 ORDER BY b.id`,
	)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error fetching bills")
		return nil, fmt.Errorf("database error: %w", err)
	}
	defer rows.Close()

	var bills []*models.Bill
	for rows.Next() {
		var bill models.Bill
		var customer models.Customer
		err := rows.Scan(
			&bill.ID, &bill.BillDate, &bill.TotalAmount,
			&customer.ID, &customer.Name, &customer.Address, &customer.Phone, &customer.Email, &customer.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning bill: %w", err)
		}
		bill.Customer = &customer
		bills = append(bills, &bill)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bills: %w", err)
	}

	for _, bill := range bills {
		items, err := s.getBillItems(bill.ID)
		if err != nil {
			return nil, err
		}
		bill.Items = items
	}

	return bills, nil
}

// DeleteBill removes the bill and its lines. Decremented stock is not
// restored: sales are treated as final, matching the long-standing behavior
// of the back office.
func (s *BillingService) DeleteBill(billID int) error {
	tx, err := s.db.Begin()
	if err != nil {
		s.logger.Error().Err(err).Msg("Error starting bill delete transaction")
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM bill_items WHERE bill_id = ?", billID); err != nil {
		return fmt.Errorf("failed to delete bill items: %w", err)
	}

	result, err := tx.Exec("DELETE FROM bills WHERE id = ?", billID)
	if err != nil {
		return fmt.Errorf("failed to delete bill: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("bill with id %d: %w", billID, ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error().Err(err).Msg("Error committing bill delete")
		return fmt.Errorf("failed to commit bill delete: %w", err)
	}

	s.logger.Info().Int("bill_id", billID).Msg("Bill deleted")
	return nil
}
