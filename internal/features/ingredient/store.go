package ingredient

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/egyjs/order-management-backend-app/internal/storage"
	"github.com/google/uuid"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db: db,
	}
}

// findForUpdate locks the ingredient row for the remainder of the caller's
// transaction, so the sufficiency check and the decrement behave as one step
// under concurrent orders.
func (s *Store) findForUpdate(ctx context.Context, q storage.Querier, ingredientID uuid.UUID) (*Ingredient, error) {
	query := `SELECT ingredient_id, name, key, stock_level, min_stock_level, low_stock_notified FROM ingredients WHERE ingredient_id = $1 FOR UPDATE`

	var ing Ingredient
	err := q.QueryRowContext(
		ctx,
		query,
		ingredientID,
	).Scan(
		&ing.IngredientID,
		&ing.Name,
		&ing.Key,
		&ing.StockLevel,
		&ing.MinStockLevel,
		&ing.LowStockNotified,
	)
	if err != nil {
		return nil, fmt.Errorf(
			"failed to lock ingredient %s in ingredient store: %w",
			ingredientID,
			err,
		)
	}

	return &ing, nil
}

func (s *Store) decrementStock(ctx context.Context, q storage.Querier, ingredientID uuid.UUID, amount uint) (uint, error) {
	query := `UPDATE ingredients SET stock_level = stock_level - $2, updated_at = now() WHERE ingredient_id = $1 RETURNING stock_level`

	var stockLevel uint
	err := q.QueryRowContext(
		ctx,
		query,
		ingredientID,
		amount,
	).Scan(&stockLevel)
	if err != nil {
		return 0, fmt.Errorf(
			"failed to decrement stock of ingredient %s in ingredient store: %w",
			ingredientID,
			err,
		)
	}

	return stockLevel, nil
}

func (s *Store) markLowStockNotified(ctx context.Context, q storage.Querier, ingredientID uuid.UUID) error {
	query := `UPDATE ingredients SET low_stock_notified = TRUE, updated_at = now() WHERE ingredient_id = $1`

	_, err := q.ExecContext(
		ctx,
		query,
		ingredientID,
	)
	if err != nil {
		return fmt.Errorf(
			"failed to mark ingredient %s as low stock notified in ingredient store: %w",
			ingredientID,
			err,
		)
	}

	return nil
}

func (s *Store) findAll(ctx context.Context) (ingredients []*Ingredient, err error) {
	query := `SELECT ingredient_id, name, key, stock_level, min_stock_level, low_stock_notified, updated_at FROM ingredients ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf(
			"failed to get all ingredients from ingredient store: %w",
			err,
		)
	}
	defer rows.Close()

	for rows.Next() {
		var ing Ingredient
		err := rows.Scan(
			&ing.IngredientID,
			&ing.Name,
			&ing.Key,
			&ing.StockLevel,
			&ing.MinStockLevel,
			&ing.LowStockNotified,
			&ing.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf(
				"failed to scan ingredient from ingredient store: %w",
				err,
			)
		}
		ingredients = append(ingredients, &ing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf(
			"failed to read ingredients from ingredient store: %w",
			err,
		)
	}

	return ingredients, nil
}
