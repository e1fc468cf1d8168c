package event

import "github.com/google/uuid"

const (
	StockRunningLowEventName EventName = "ingredient.stock.running_low"
)

// StockRunningLowEvent is published at most once per ingredient, the moment
// its stock level drops below half of its minimum stock level.
type StockRunningLowEvent struct {
	IngredientID     uuid.UUID `json:"ingredient_id"`
	IngredientName   string    `json:"ingredient_name"`
	StockLevel       uint      `json:"stock_level"`
	MinStockLevel    uint      `json:"min_stock_level"`
	ThresholdPercent uint      `json:"threshold_percent"`
}

func (e *StockRunningLowEvent) GetEventName() EventName {
	return StockRunningLowEventName
}
