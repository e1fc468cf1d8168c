package order

import (
	"github.com/google/uuid"
)

// Requests

type PlaceOrderRequest struct {
	Products []OrderLineRequest `json:"products" validate:"required,min=1,unique=ProductID,dive"`
}

type OrderLineRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Qty       uint   `json:"qty" validate:"required,min=1"`
}

// LineItem is one validated order line as handed to order processing.
type LineItem struct {
	ProductID uuid.UUID
	Qty       uint
}
