package order

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/egyjs/order-management-backend-app/internal/features/ingredient"
	"github.com/egyjs/order-management-backend-app/internal/features/product"
	"github.com/egyjs/order-management-backend-app/internal/servererrors"
	"github.com/egyjs/order-management-backend-app/internal/storage"
	"github.com/google/uuid"
)

type storer interface {
	runInTx(ctx context.Context, fn func(tx *sql.Tx) error) error
	createOrder(ctx context.Context, q storage.Querier) (*Order, error)
	attachLine(ctx context.Context, q storage.Querier, orderID, productID uuid.UUID, qty uint) error
}

type catalog interface {
	FindWithRequirements(ctx context.Context, q storage.Querier, productID uuid.UUID) (*product.ProductWithRequirements, error)
}

type stockLedger interface {
	UpdateStock(ctx context.Context, q storage.Querier, requirements []ingredient.Requirement, qty uint) error
}

type service struct {
	store   storer
	catalog catalog
	ledger  stockLedger
}

func NewService(orderStore storer, catalog catalog, ledger stockLedger) *service {
	return &service{
		store:   orderStore,
		catalog: catalog,
		ledger:  ledger,
	}
}

// processOrder fulfills an order inside one unit of work: either the order
// record, all of its lines and every stock decrement commit together, or
// none of them do. Domain failures surface as a single
// [servererrors.OrderProcessingError] carrying the original cause; anything
// unexpected is logged for operators and folded into a generic message that
// leaks no internal detail.
func (s *service) processOrder(ctx context.Context, lines []LineItem) (*Order, error) {
	var ord *Order

	err := s.store.runInTx(ctx, func(tx *sql.Tx) error {
		created, err := s.store.createOrder(ctx, tx)
		if err != nil {
			return err
		}
		ord = created

		for _, line := range lines {
			if err := s.linkProduct(ctx, tx, ord, line); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		var notFoundErr *servererrors.ProductNotFoundError
		if errors.As(err, &notFoundErr) {
			return nil, servererrors.NewOrderProcessing(notFoundErr.Error())
		}

		var stockErr *servererrors.InsufficientStockError
		if errors.As(err, &stockErr) {
			return nil, servererrors.NewOrderProcessing(stockErr.Error())
		}

		log.Printf("unexpected failure while processing order: %v\n", err)

		return nil, servererrors.NewOrderProcessing(
			"An error occurred while processing the order.",
		)
	}

	return ord, nil
}

// linkProduct resolves one requested line: it loads the product with its
// per-unit ingredient amounts, records the line against the order, then
// drains the required stock. A missing product fails before anything is
// attached.
func (s *service) linkProduct(ctx context.Context, q storage.Querier, ord *Order, line LineItem) error {
	p, err := s.catalog.FindWithRequirements(ctx, q, line.ProductID)
	if err != nil {
		return err
	}

	if err := s.store.attachLine(ctx, q, ord.OrderID, p.ProductID, line.Qty); err != nil {
		return err
	}

	if err := s.ledger.UpdateStock(ctx, q, p.Requirements, line.Qty); err != nil {
		return err
	}

	ord.Products = append(ord.Products, &OrderedProduct{
		ProductID: p.ProductID,
		Name:      p.Name,
		Qty:       line.Qty,
	})

	return nil
}
