package order

import (
	"time"

	"github.com/google/uuid"
)

// Order is a committed customer order together with its resolved lines, in
// the order they were requested.
type Order struct {
	OrderID   uuid.UUID         `json:"order_id"`
	CreatedAt time.Time         `json:"created_at"`
	Products  []*OrderedProduct `json:"products"`
}

// OrderedProduct is one order line: a catalog product bound to the quantity
// requested of it.
type OrderedProduct struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Qty       uint      `json:"qty"`
}
