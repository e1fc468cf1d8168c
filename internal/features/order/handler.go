package order

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/egyjs/order-management-backend-app/internal/handlerutils"
	"github.com/egyjs/order-management-backend-app/internal/servererrors"
	"github.com/egyjs/order-management-backend-app/internal/validate"
	"github.com/go-chi/chi"
	"github.com/google/uuid"
)

type servicer interface {
	processOrder(ctx context.Context, lines []LineItem) (*Order, error)
}

type handler struct {
	service servicer
}

func NewHandler(orderService servicer) *handler {
	return &handler{
		service: orderService,
	}
}

func (h *handler) RegisterRoutes(router *chi.Mux) {
	router.Post(
		"/orders",
		handlerutils.MakeHandler(
			h.placeOrderHandler,
		),
	)
}

func (h *handler) placeOrderHandler(w http.ResponseWriter, r *http.Request) error {
	ctx, cancel := context.WithTimeout(
		r.Context(),
		(30 * time.Second),
	)
	defer cancel()

	var payload *PlaceOrderRequest
	var err error
	defer r.Body.Close()

	if err = handlerutils.ParseJSON(r, &payload); err != nil {
		return servererrors.New(
			http.StatusBadRequest,
			servererrors.ErrInvalidRequestPayload.Error(),
			nil,
		)
	}

	if err = validate.StructFields(payload); err != nil {
		return servererrors.New(
			http.StatusUnprocessableEntity,
			servererrors.ErrValidationFailed.Error(),
			err,
		)
	}

	lines := make([]LineItem, 0, len(payload.Products))
	for _, requested := range payload.Products {
		productID, err := uuid.Parse(requested.ProductID)
		if err != nil {
			return servererrors.New(
				http.StatusUnprocessableEntity,
				servererrors.ErrInvalidProductID.Error(),
				nil,
			)
		}

		lines = append(lines, LineItem{
			ProductID: productID,
			Qty:       requested.Qty,
		})
	}

	ord, err := h.service.processOrder(ctx, lines)
	if err != nil {
		var processingErr *servererrors.OrderProcessingError
		if errors.As(err, &processingErr) {
			return servererrors.New(
				http.StatusBadRequest,
				processingErr.Error(),
				nil,
			)
		}

		return err
	}

	return handlerutils.WriteSuccessJSON(
		w,
		http.StatusCreated,
		"Order placed successfully.",
		ord,
	)
}
