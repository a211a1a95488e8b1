package services

import (
	"errors"
	"testing"

	"github.com/Nethmini-Hirunika/Pahana-Edu-Billing/internal/models"
)

func TestCustomerCRUD(t *testing.T) {
	database := newTestDB(t)
	customers := NewCustomerService(database, testLogger)

	t.Run("create requires a name", func(t *testing.T) {
		_, err := customers.CreateCustomer(&models.CustomerRequest{Name: ""})
		if !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("create and fetch", func(t *testing.T) {
		created, err := customers.CreateCustomer(&models.CustomerRequest{
			Name:    "Sunil Perera",
			Address: "12 Galle Road, Colombo",
			Phone:   "0771234567",
		})
		if err != nil {
			t.Fatalf("CreateCustomer failed: %v", err)
		}

		fetched, err := customers.GetCustomerByID(created.ID)
		if err != nil {
			t.Fatalf("GetCustomerByID failed: %v", err)
		}
		if fetched.Name != "Sunil Perera" || fetched.Phone != "0771234567" {
			t.Errorf("unexpected customer: %+v", fetched)
		}
	})

	t.Run("fetch unknown is not found", func(t *testing.T) {
		if _, err := customers.GetCustomerByID(8888); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("update overwrites the full record", func(t *testing.T) {
		created, err := customers.CreateCustomer(&models.CustomerRequest{
			Name:    "Amara Silva",
			Address: "old address",
			Phone:   "0719999999",
		})
		if err != nil {
			t.Fatalf("CreateCustomer failed: %v", err)
		}

		updated, err := customers.UpdateCustomer(created.ID, &models.CustomerRequest{
			Name: "Amara Silva",
		})
		if err != nil {
			t.Fatalf("UpdateCustomer failed: %v", err)
		}
		if updated.Address != "" || updated.Phone != "" {
			t.Errorf("expected omitted fields cleared, got %+v", updated)
		}
	})

	t.Run("update unknown is not found", func(t *testing.T) {
		_, err := customers.UpdateCustomer(8888, &models.CustomerRequest{Name: "ghost"})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestDeleteCustomerCascade(t *testing.T) {
	database := newTestDB(t)
	customers := NewCustomerService(database, testLogger)
	billing := NewBillingService(database, testLogger)
	items := NewItemService(database, testLogger)

	customer := testCustomer(t, customers, "ruwan")
	keeper := testCustomer(t, customers, "dilani")
	item := testItem(t, items, "Staplers", 4.0, 100)

	var billIDs []int
	for i := 0; i < 3; i++ {
		bill, err := billing.CreateBill(&models.CreateBillRequest{
			CustomerID: customer.ID,
			Items:      []models.BillLineRequest{{ItemID: item.ID, Quantity: 1}},
		})
		if err != nil {
			t.Fatalf("CreateBill failed: %v", err)
		}
		billIDs = append(billIDs, bill.ID)
	}
	kept, err := billing.CreateBill(&models.CreateBillRequest{
		CustomerID: keeper.ID,
		Items:      []models.BillLineRequest{{ItemID: item.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("CreateBill failed: %v", err)
	}

	has, err := customers.HasAssociatedBills(customer.ID)
	if err != nil {
		t.Fatalf("HasAssociatedBills failed: %v", err)
	}
	if !has {
		t.Error("expected customer to have associated bills")
	}

	if err := customers.DeleteCustomer(customer.ID); err != nil {
		t.Fatalf("DeleteCustomer failed: %v", err)
	}

	if _, err := customers.GetCustomerByID(customer.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected customer gone, got %v", err)
	}
	for _, id := range billIDs {
		if _, err := billing.GetBillByID(id); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected bill %d removed with its customer, got %v", id, err)
		}
	}

	// Another customer's bills are untouched.
	if _, err := billing.GetBillByID(kept.ID); err != nil {
		t.Errorf("expected unrelated bill to survive, got %v", err)
	}

	if err := customers.DeleteCustomer(customer.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestDeleteCustomerWithoutBills(t *testing.T) {
	database := newTestDB(t)
	customers := NewCustomerService(database, testLogger)

	customer := testCustomer(t, customers, "tharindu")

	has, err := customers.HasAssociatedBills(customer.ID)
	if err != nil {
		t.Fatalf("HasAssociatedBills failed: %v", err)
	}
	if has {
		t.Error("expected no associated bills")
	}

	if err := customers.DeleteCustomer(customer.ID); err != nil {
		t.Fatalf("DeleteCustomer failed: %v", err)
	}
	if _, err := customers.GetCustomerByID(customer.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
