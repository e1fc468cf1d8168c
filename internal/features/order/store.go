package order

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

// runInTx opens the unit of work that spans a whole order: the order record,
// its lines and every stock decrement commit or are discarded together.
func (s *Store) runInTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	return storage.WithTx(ctx, s.db, fn)
}

func (s *Store) createOrder(ctx context.Context, q storage.Querier) (*Order, error) {
	query := `INSERT INTO orders DEFAULT VALUES RETURNING order_id, created_at`

	ord := new(Order)
	err := q.QueryRowContext(
		ctx,
		query,
	).Scan(
		&ord.OrderID,
		&ord.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf(
			"failed to insert new order in order store: %w",
			err,
		)
	}

	return ord, nil
}

func (s *Store) attachLine(ctx context.Context, q storage.Querier, orderID, productID uuid.UUID, qty uint) error {
	query := `INSERT INTO order_items(order_id, product_id, qty) VALUES($1, $2, $3)`

	_, err := q.ExecContext(
		ctx,
		query,
		orderID,
		productID,
		qty,
	)
	if err != nil {
		return fmt.Errorf(
			"failed to attach product %s to order %s in order store: %w",
			productID,
			orderID,
			err,
		)
	}

	return nil
}
