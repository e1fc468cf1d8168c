package product

import (
	"time"

	"github.com/egyjs/order-management-backend-app/internal/features/ingredient"
	"github.com/google/uuid"
)

type Product struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// ProductWithRequirements is a catalog product together with the per-unit
// ingredient amounts consumed when one unit of it is ordered.
type ProductWithRequirements struct {
	Product
	Requirements []ingredient.Requirement `json:"requirements"`
}
