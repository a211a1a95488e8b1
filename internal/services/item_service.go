package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Nethmini-Hirunika/Pahana-Edu-Billing/internal/models"

	"github.com/rs/zerolog"
)

// ItemService manages the catalog. Stock is only written here on create and
// explicit maintenance updates; sales decrement it through BillingService.
type ItemService struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewItemService(db *sql.DB, logger zerolog.Logger) *ItemService {
	return &ItemService{
		db:     db,
		logger: logger,
	}
}

func (s *ItemService) CreateItem(req *models.CreateItemRequest) (*models.Item, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("item name is required: %w", ErrInvalidArgument)
	}
	if req.Price < 0 {
		return nil, fmt.Errorf("item price must not be negative: %w", ErrInvalidArgument)
	}
	if req.Stock < 0 {
		return nil, fmt.Errorf("item stock must not be negative: %w", ErrInvalidArgument)
	}

	now := time.Now()
	result, err := s.db.Exec(
		"INSERT INTO items (name, price, stock, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		req.Name, req.Price, req.Stock, now, now,
	)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error creating item")
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	itemID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get item ID: %w", err)
	}

	item, err := s.GetItemByID(int(itemID))
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int("item_id", item.ID).Str("name", item.Name).Msg("Item created")
	return item, nil
}

func (s *ItemService) GetItemByID(itemID int) (*models.Item, error) {
	var item models.Item
	err := s.db.QueryRow(
		"SELECT id, name, price, stock, created_at, updated_at FROM items WHERE id = ?",
		itemID,
	).Scan(&item.ID, &item.Name, &item.Price, &item.Stock, &item.CreatedAt, &item.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("item with id %d: %w", itemID, ErrNotFound)
	}
	if err != nil {
		s.logger.Error().Err(err).Int("item_id", itemID).Msg("Error fetching item")
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &item, nil
}

func (s *ItemService) GetAllItems() ([]*models.Item, error) {
	rows, err := s.db.Query("SELECT id, name, price, stock, created_at, updated_at FROM items ORDER BY id")
	if err != nil {
		s.logger.Error().Err(err).Msg("Error fetching items")
		return nil, fmt.Errorf("database error: %w", err)
	}
	defer rows.Close()

	var items []*models.Item
	for rows.Next() {
		var item models.Item
		if err := rows.Scan(&item.ID, &item.Name, &item.Price, &item.Stock, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning item: %w", err)
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}

	return items, nil
}

func (s *ItemService) UpdateItem(itemID int, req *models.UpdateItemRequest) (*models.Item, error) {
	item, err := s.GetItemByID(itemID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, fmt.Errorf("item name must not be blank: %w", ErrInvalidArgument)
		}
		item.Name = *req.Name
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, fmt.Errorf("item price must not be negative: %w", ErrInvalidArgument)
		}
		item.Price = *req.Price
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, fmt.Errorf("item stock must not be negative: %w", ErrInvalidArgument)
		}
		item.Stock = *req.Stock
	}

	_, err = s.db.Exec(
		"UPDATE items SET name = ?, price = ?, stock = ?, updated_at = ? WHERE id = ?",
		item.Name, item.Price, item.Stock, time.Now(), itemID,
	)
	if err != nil {
		s.logger.Error().Err(err).Int("item_id", itemID).Msg("Error updating item")
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	return s.GetItemByID(itemID)
}

func (s *ItemService) DeleteItem(itemID int) error {
	result, err := s.db.Exec("DELETE FROM items WHERE id = ?", itemID)
	if err != nil {
		s.logger.Error().Err(err).Int("item_id", itemID).Msg("Error deleting item")
		return fmt.Errorf("failed to delete item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("item with id %d: %w", itemID, ErrNotFound)
	}

	s.logger.Info().Int("item_id", itemID).Msg("Item deleted")
	return nil
}
