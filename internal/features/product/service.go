package product

import (
	"context"

	"github.com/egyjs/order-management-backend-app/internal/storage"
	"github.com/google/uuid"
)

type Storer interface {
	findWithRequirements(ctx context.Context, q storage.Querier, productID uuid.UUID) (*ProductWithRequirements, error)
	findByID(ctx context.Context, productID uuid.UUID) (*ProductWithRequirements, error)
	findAll(ctx context.Context) ([]*ProductWithRequirements, error)
}

type Service struct {
	store Storer
}

func NewService(store Storer) *Service {
	return &Service{
		store: store,
	}
}

// FindWithRequirements resolves a catalog product and its per-unit
// ingredient amounts inside the caller's unit of work. It fails with a
// [servererrors.ProductNotFoundError] when the id is unknown.
func (s *Service) FindWithRequirements(ctx context.Context, q storage.Querier, productID uuid.UUID) (*ProductWithRequirements, error) {
	return s.store.findWithRequirements(ctx, q, productID)
}

func (s *Service) getAllProducts(ctx context.Context) ([]*ProductWithRequirements, error) {
	return s.store.findAll(ctx)
}

func (s *Service) getProduct(ctx context.Context, productID uuid.UUID) (*ProductWithRequirements, error) {
	return s.store.findByID(ctx, productID)
}
