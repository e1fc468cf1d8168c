package ingredient

import (
	"time"

	"github.com/google/uuid"
)

// Ingredient is a raw stock item consumed by products, tracked by the
// quantity on hand in grams.
type Ingredient struct {
	IngredientID     uuid.UUID `json:"ingredient_id"`
	Name             string    `json:"name"`
	Key              string    `json:"key"`
	StockLevel       uint      `json:"stock_level"`
	MinStockLevel    uint      `json:"min_stock_level"`
	LowStockNotified bool      `json:"-"`
	UpdatedAt        time.Time `json:"-"`
}

// Requirement binds an ingredient to the amount of it, in grams, consumed by
// one unit of a product.
type Requirement struct {
	IngredientID  uuid.UUID `json:"ingredient_id"`
	Name          string    `json:"name"`
	AmountPerUnit uint      `json:"amount_per_unit"`
}
