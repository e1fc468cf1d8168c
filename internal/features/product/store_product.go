package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/egyjs/order-management-backend-app/internal/features/ingredient"
	"github.com/egyjs/order-management-backend-app/internal/servererrors"
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

// findWithRequirements loads a product and its recipe through the caller's
// querier, so order processing reads the catalog inside its own transaction.
func (s *Store) findWithRequirements(ctx context.Context, q storage.Querier, productID uuid.UUID) (*ProductWithRequirements, error) {
	productQuery := `SELECT product_id, name, created_at FROM products WHERE product_id = $1`

	p := new(ProductWithRequirements)
	err := q.QueryRowContext(
		ctx,
		productQuery,
		productID,
	).Scan(
		&p.ProductID,
		&p.Name,
		&p.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, servererrors.NewProductNotFound(productID)
	}
	if err != nil {
		return nil, fmt.Errorf(
			"failed to scan product from product store: %w",
			err,
		)
	}

	requirementsQuery := `SELECT i.ingredient_id, i.name, pi.amount
		FROM product_ingredients pi
		JOIN ingredients i ON i.ingredient_id = pi.ingredient_id
		WHERE pi.product_id = $1
		ORDER BY i.name`

	rows, err := q.QueryContext(ctx, requirementsQuery, productID)
	if err != nil {
		return nil, fmt.Errorf(
			"failed to get product requirements from product store: %w",
			err,
		)
	}
	defer rows.Close()

	for rows.Next() {
		var requirement ingredient.Requirement
		err := rows.Scan(
			&requirement.IngredientID,
			&requirement.Name,
			&requirement.AmountPerUnit,
		)
		if err != nil {
			return nil, fmt.Errorf(
				"failed to scan product requirement from product store: %w",
				err,
			)
		}
		p.Requirements = append(p.Requirements, requirement)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf(
			"failed to read product requirements from product store: %w",
			err,
		)
	}

	return p, nil
}

func (s *Store) findByID(ctx context.Context, productID uuid.UUID) (*ProductWithRequirements, error) {
	return s.findWithRequirements(ctx, s.db, productID)
}

func (s *Store) findAll(ctx context.Context) (products []*ProductWithRequirements, err error) {
	query := `SELECT p.product_id, p.name, p.created_at, i.ingredient_id, i.name, pi.amount
		FROM products p
		LEFT JOIN product_ingredients pi ON pi.product_id = p.product_id
		LEFT JOIN ingredients i ON i.ingredient_id = pi.ingredient_id
		ORDER BY p.created_at DESC, i.name`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf(
			"failed to get all products from product store: %w",
			err,
		)
	}
	defer rows.Close()

	byID := make(map[uuid.UUID]*ProductWithRequirements)

	for rows.Next() {
		var (
			p              Product
			ingredientID   uuid.NullUUID
			ingredientName sql.NullString
			amount         sql.NullInt64
		)
		err := rows.Scan(
			&p.ProductID,
			&p.Name,
			&p.CreatedAt,
			&ingredientID,
			&ingredientName,
			&amount,
		)
		if err != nil {
			return nil, fmt.Errorf(
				"failed to scan product from product store: %w",
				err,
			)
		}

		current, exists := byID[p.ProductID]
		if !exists {
			current = &ProductWithRequirements{Product: p}
			byID[p.ProductID] = current
			products = append(products, current)
		}

		// products without a recipe come back with NULL joined columns
		if ingredientID.Valid {
			current.Requirements = append(current.Requirements, ingredient.Requirement{
				IngredientID:  ingredientID.UUID,
				Name:          ingredientName.String,
				AmountPerUnit: uint(amount.Int64),
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf(
			"failed to read products from product store: %w",
			err,
		)
	}

	return products, nil
}
