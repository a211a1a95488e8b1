package services

import (
	"errors"
	"testing"

	"github.com/Nethmini-Hirunika/Pahana-Edu-Billing/internal/models"
)

func TestCreateBill(t *testing.T) {
	database := newTestDB(t)
	billing := NewBillingService(database, testLogger)
	customers := NewCustomerService(database, testLogger)
	items := NewItemService(database, testLogger)

	customer := testCustomer(t, customers, "nimal")

	t.Run("computes subtotals, total and decrements stock", func(t *testing.T) {
		item := testItem(t, items, "Maths Textbook", 10.0, 5)

		bill, err := billing.CreateBill(&models.CreateBillRequest{
			CustomerID: customer.ID,
			Items:      []models.BillLineRequest{{ItemID: item.ID, Quantity: 3}},
		})
		if err != nil {
			t.Fatalf("CreateBill failed: %v", err)
		}

		if len(bill.Items) != 1 {
			t.Fatalf("expected 1 bill item, got %d", len(bill.Items))
		}
		line := bill.Items[0]
		if line.Quantity != 3 || line.UnitPrice != 10.0 || line.Subtotal != 30.0 {
			t.Errorf("unexpected line: qty=%d unit=%f subtotal=%f", line.Quantity, line.UnitPrice, line.Subtotal)
		}
		if bill.TotalAmount != 30.0 {
			t.Errorf("expected total 30.0, got %f", bill.TotalAmount)
		}
		if bill.Customer == nil || bill.Customer.ID != customer.ID {
			t.Error("expected bill to carry its customer")
		}

		updated, err := items.GetItemByID(item.ID)
		if err != nil {
			t.Fatalf("GetItemByID failed: %v", err)
		}
		if updated.Stock != 2 {
			t.Errorf("expected stock 2 after sale, got %d", updated.Stock)
		}
	})

	t.Run("total equals sum of line subtotals across items", func(t *testing.T) {
		pen := testItem(t, items, "Pen", 2.5, 10)
		ruler := testItem(t, items, "Ruler", 1.25, 10)

		bill, err := billing.CreateBill(&models.CreateBillRequest{
			CustomerID: customer.ID,
			Items: []models.BillLineRequest{
				{ItemID: pen.ID, Quantity: 4},
				{ItemID: ruler.ID, Quantity: 2},
			},
		})
		if err != nil {
			t.Fatalf("CreateBill failed: %v", err)
		}

		var sum float64
		for _, line := range bill.Items {
			if line.Subtotal != line.UnitPrice*float64(line.Quantity) {
				t.Errorf("line subtotal mismatch: %f != %f * %d", line.Subtotal, line.UnitPrice, line.Quantity)
			}
			sum += line.Subtotal
		}
		if bill.TotalAmount != sum {
			t.Errorf("total %f does not equal sum of subtotals %f", bill.TotalAmount, sum)
		}
	})

	t.Run("fails with insufficient stock and leaves stock unchanged", func(t *testing.T) {
		item := testItem(t, items, "Atlas", 10.0, 2)

		_, err := billing.CreateBill(&models.CreateBillRequest{
			CustomerID: customer.ID,
			Items:      []models.BillLineRequest{{ItemID: item.ID, Quantity: 5}},
		})
		if !errors.Is(err, ErrInsufficientStock) {
			t.Fatalf("expected ErrInsufficientStock, got %v", err)
		}

		updated, _ := items.GetItemByID(item.ID)
		if updated.Stock != 2 {
			t.Errorf("expected stock untouched at 2, got %d", updated.Stock)
		}
	})

	t.Run("rolls back earlier decrements when a later line fails", func(t *testing.T) {
		first := testItem(t, items, "Notebook", 3.0, 10)
		second := testItem(t, items, "Globe", 50.0, 1)

		_, err := billing.CreateBill(&models.CreateBillRequest{
			CustomerID: customer.ID,
			Items: []models.BillLineRequest{
				{ItemID: first.ID, Quantity: 4},
				{ItemID: second.ID, Quantity: 2},
			},
		})
		if !errors.Is(err, ErrInsufficientStock) {
			t.Fatalf("expected ErrInsufficientStock, got %v", err)
		}

		firstAfter, _ := items.GetItemByID(first.ID)
		if firstAfter.Stock != 10 {
			t.Errorf("expected first item's decrement rolled back to 10, got %d", firstAfter.Stock)
		}
	})

	t.Run("fails not found for an unknown customer", func(t *testing.T) {
		item := testItem(t, items, "Dictionary", 8.0, 3)

		_, err := billing.CreateBill(&models.CreateBillRequest{
			CustomerID: 99999,
			Items:      []models.BillLineRequest{{ItemID: item.ID, Quantity: 1}},
		})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}

		after, _ := items.GetItemByID(item.ID)
		if after.Stock != 3 {
			t.Errorf("expected stock unchanged at 3, got %d", after.Stock)
		}
	})

	t.Run("fails not found for an unknown item and mutates nothing", func(t *testing.T) {
		item := testItem(t, items, "Eraser", 0.5, 6)

		_, err := billing.CreateBill(&models.CreateBillRequest{
			CustomerID: customer.ID,
			Items: []models.BillLineRequest{
				{ItemID: item.ID, Quantity: 2},
				{ItemID: 99999, Quantity: 1},
			},
		})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}

		after, _ := items.GetItemByID(item.ID)
		if after.Stock != 6 {
			t.Errorf("expected stock unchanged at 6, got %d", after.Stock)
		}
	})

	t.Run("accumulates demand for repeated lines of the same item", func(t *testing.T) {
		item := testItem(t, items, "Calculator", 15.0, 2)

		bill, err := billing.CreateBill(&models.CreateBillRequest{
			CustomerID: customer.ID,
			Items: []models.BillLineRequest{
				{ItemID: item.ID, Quantity: 1},
				{ItemID: item.ID, Quantity: 1},
			},
		})
		if err != nil {
			t.Fatalf("CreateBill failed: %v", err)
		}
		if len(bill.Items) != 2 {
			t.Fatalf("expected 2 bill items, got %d", len(bill.Items))
		}

		after, _ := items.GetItemByID(item.ID)
		if after.Stock != 0 {
			t.Errorf("expected stock 0, got %d", after.Stock)
		}
	})

	t.Run("rejects repeated lines whose combined demand exceeds stock", func(t *testing.T) {
		item := testItem(t, items, "Protractor", 1.0, 3)

		_, err := billing.CreateBill(&models.CreateBillRequest{
			CustomerID: customer.ID,
			Items: []models.BillLineRequest{
				{ItemID: item.ID, Quantity: 2},
				{ItemID: item.ID, Quantity: 2},
			},
		})
		if !errors.Is(err, ErrInsufficientStock) {
			t.Fatalf("expected ErrInsufficientStock, got %v", err)
		}

		after, _ := items.GetItemByID(item.ID)
		if after.Stock != 3 {
			t.Errorf("expected stock unchanged at 3, got %d", after.Stock)
		}
	})

	t.Run("allows an empty line list as a zero-total bill", func(t *testing.T) {
		bill, err := billing.CreateBill(&models.CreateBillRequest{
			CustomerID: customer.ID,
			Items:      nil,
		})
		if err != nil {
			t.Fatalf("CreateBill failed: %v", err)
		}
		if bill.TotalAmount != 0 || len(bill.Items) != 0 {
			t.Errorf("expected empty zero-total bill, got total=%f items=%d", bill.TotalAmount, len(bill.Items))
		}
	})

	t.Run("rejects non-positive quantities", func(t *testing.T) {
		item := testItem(t, items, "Compass", 2.0, 5)

		_, err := billing.CreateBill(&models.CreateBillRequest{
			CustomerID: customer.ID,
			Items:      []models.BillLineRequest{{ItemID: item.ID, Quantity: 0}},
		})
		if !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("captures unit price at time of sale", func(t *testing.T) {
		item := testItem(t, items, "Paintbox", 12.0, 5)

		bill, err := billing.CreateBill(&models.CreateBillRequest{
			CustomerID: customer.ID,
			Items:      []models.BillLineRequest{{ItemID: item.ID, Quantity: 1}},
		})
		if err != nil {
			t.Fatalf("CreateBill failed: %v", err)
		}

		newPrice := 20.0
		if _, err := NewItemService(database, testLogger).UpdateItem(item.ID, &models.UpdateItemRequest{Price: &newPrice}); err != nil {
			t.Fatalf("UpdateItem failed: %v", err)
		}

		reloaded, err := billing.GetBillByID(bill.ID)
		if err != nil {
			t.Fatalf("GetBillByID failed: %v", err)
		}
		if reloaded.Items[0].UnitPrice != 12.0 {
			t.Errorf("expected price snapshot 12.0, got %f", reloaded.Items[0].UnitPrice)
		}
	})
}

func TestGetBill(t *testing.T) {
	database := newTestDB(t)
	billing := NewBillingService(database, testLogger)

	_, err := billing.GetBillByID(4321)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteBill(t *testing.T) {
	database := newTestDB(t)
	billing := NewBillingService(database, testLogger)
	customers := NewCustomerService(database, testLogger)
	items := NewItemService(database, testLogger)

	customer := testCustomer(t, customers, "kamala")
	item := testItem(t, items, "Exercise Book", 1.5, 10)

	bill, err := billing.CreateBill(&models.CreateBillRequest{
		CustomerID: customer.ID,
		Items:      []models.BillLineRequest{{ItemID: item.ID, Quantity: 4}},
	})
	if err != nil {
		t.Fatalf("CreateBill failed: %v", err)
	}

	if err := billing.DeleteBill(bill.ID); err != nil {
		t.Fatalf("DeleteBill failed: %v", err)
	}

	if _, err := billing.GetBillByID(bill.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	// Sales are final: deleting the bill does not put units back on the shelf.
	after, _ := items.GetItemByID(item.ID)
	if after.Stock != 6 {
		t.Errorf("expected stock to stay at 6 after bill delete, got %d", after.Stock)
	}

	if err := billing.DeleteBill(bill.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
