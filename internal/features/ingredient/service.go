package ingredient

import (
	"context"
	"log"

	"github.com/egyjs/order-management-backend-app/internal/eventengine"
	"github.com/egyjs/order-management-backend-app/internal/eventengine/event"
	"github.com/egyjs/order-management-backend-app/internal/servererrors"
	"github.com/egyjs/order-management-backend-app/internal/storage"
	"github.com/google/uuid"
)

// lowStockThresholdPercent is the fixed threshold carried on every low stock
// alert: an ingredient is running low once it holds less than half of its
// minimum stock level.
const lowStockThresholdPercent uint = 50

type storer interface {
	findForUpdate(ctx context.Context, q storage.Querier, ingredientID uuid.UUID) (*Ingredient, error)
	decrementStock(ctx context.Context, q storage.Querier, ingredientID uuid.UUID, amount uint) (uint, error)
	markLowStockNotified(ctx context.Context, q storage.Querier, ingredientID uuid.UUID) error
	findAll(ctx context.Context) ([]*Ingredient, error)
}

type Service struct {
	store  storer
	alerts eventengine.RegisterPublisher
}

func NewService(ingredientStore storer, alerts eventengine.RegisterPublisher) *Service {
	// Register the events this service will emit for other features to
	// subscribe to.
	alerts.RegisterEvents(event.StockRunningLowEventName)

	return &Service{
		store:  ingredientStore,
		alerts: alerts,
	}
}

// HasSufficientStock reports whether the ingredient can cover requiredAmount.
func (s *Service) HasSufficientStock(ing *Ingredient, requiredAmount uint) bool {
	return ing.StockLevel >= requiredAmount
}

// HasStockBelowHalfMinimum reports whether the ingredient has dropped below
// half of its minimum stock level. The comparison is fractional so an odd
// minimum keeps its exact half threshold (min 101 -> 50.5).
func (s *Service) HasStockBelowHalfMinimum(ing *Ingredient) bool {
	return float64(ing.StockLevel) < float64(ing.MinStockLevel)/2
}

// UpdateStock validates and drains stock for every requirement, scaled by
// qty, inside the caller's unit of work. Requirements are processed strictly
// in order: each decrement lands in the transaction before the next
// requirement is checked, and the first insufficiency aborts the whole
// batch. The caller's transaction is what erases decrements already applied
// when the batch, or the order it belongs to, fails.
func (s *Service) UpdateStock(ctx context.Context, q storage.Querier, requirements []Requirement, qty uint) error {
	for _, requirement := range requirements {
		requiredAmount := requirement.AmountPerUnit * qty

		ing, err := s.store.findForUpdate(ctx, q, requirement.IngredientID)
		if err != nil {
			return err
		}

		if !s.HasSufficientStock(ing, requiredAmount) {
			return servererrors.NewInsufficientStock(ing.Name)
		}

		ing.StockLevel, err = s.store.decrementStock(
			ctx,
			q,
			ing.IngredientID,
			requiredAmount,
		)
		if err != nil {
			return err
		}

		if s.HasStockBelowHalfMinimum(ing) {
			if err := s.notifyLowStock(ctx, q, ing); err != nil {
				return err
			}
		}
	}

	return nil
}

// notifyLowStock fires the low stock alert at most once per ingredient. The
// notified flag persists inside the same unit of work as the decrement that
// crossed the threshold; delivering the alert itself is another feature's
// concern and never fails the order.
func (s *Service) notifyLowStock(ctx context.Context, q storage.Querier, ing *Ingredient) error {
	if ing.LowStockNotified {
		return nil
	}

	if err := s.store.markLowStockNotified(ctx, q, ing.IngredientID); err != nil {
		return err
	}
	ing.LowStockNotified = true

	err := s.alerts.Publish(&event.Event{
		Name: event.StockRunningLowEventName,
		Payload: &event.StockRunningLowEvent{
			IngredientID:     ing.IngredientID,
			IngredientName:   ing.Name,
			StockLevel:       ing.StockLevel,
			MinStockLevel:    ing.MinStockLevel,
			ThresholdPercent: lowStockThresholdPercent,
		},
	})
	if err != nil {
		log.Printf(
			"failed to publish low stock alert for ingredient %q: %v\n",
			ing.Name,
			err,
		)
	}

	return nil
}

func (s *Service) listIngredients(ctx context.Context) ([]*StockLevelDTO, error) {
	ingredients, err := s.store.findAll(ctx)
	if err != nil {
		return nil, err
	}

	levels := make([]*StockLevelDTO, 0, len(ingredients))
	for _, ing := range ingredients {
		levels = append(levels, &StockLevelDTO{
			Ingredient: *ing,
			RunningLow: s.HasStockBelowHalfMinimum(ing),
		})
	}

	return levels, nil
}
