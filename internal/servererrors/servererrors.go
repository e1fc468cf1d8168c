package servererrors

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrInvalidRequestPayload = errors.New("invalid request payload")
	ErrValidationFailed      = errors.New("validation failed")
	ErrInvalidProductID      = errors.New("invalid product id")
)

// ServerError carries the status code and response body details for a failed
// request. Handlers return it and the centralized error handling in
// handlerutils writes it out.
type ServerError struct {
	StatusCode int
	Errors     any
	message    string
}

func New(statusCode int, message string, errs any) *ServerError {
	return &ServerError{
		StatusCode: statusCode,
		Errors:     errs,
		message:    message,
	}
}

func (e *ServerError) Error() string {
	return e.message
}

// ProductNotFoundError reports an order line referencing a product that does
// not exist in the catalog.
type ProductNotFoundError struct {
	ProductID uuid.UUID
}

func NewProductNotFound(productID uuid.UUID) *ProductNotFoundError {
	return &ProductNotFoundError{ProductID: productID}
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("Product not found: %s", e.ProductID)
}

// InsufficientStockError reports an ingredient that cannot cover the amount
// an order requires of it.
type InsufficientStockError struct {
	IngredientName string
}

func NewInsufficientStock(ingredientName string) *InsufficientStockError {
	return &InsufficientStockError{IngredientName: ingredientName}
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Not enough stock for ingredient: %s", e.IngredientName)
}

// OrderProcessingError is the single error shape callers of order processing
// see, regardless of which domain failure caused the order to abort.
type OrderProcessingError struct {
	reason string
}

func NewOrderProcessing(reason string) *OrderProcessingError {
	return &OrderProcessingError{reason: reason}
}

func (e *OrderProcessingError) Error() string {
	return fmt.Sprintf("Order processing failed: %s", e.reason)
}
