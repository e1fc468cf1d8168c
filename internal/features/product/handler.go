package product

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/egyjs/order-management-backend-app/internal/handlerutils"
	"github.com/egyjs/order-management-backend-app/internal/servererrors"
	"github.com/go-chi/chi"
	"github.com/google/uuid"
)

type servicer interface {
	getAllProducts(ctx context.Context) ([]*ProductWithRequirements, error)
	getProduct(ctx context.Context, productID uuid.UUID) (*ProductWithRequirements, error)
}

type handler struct {
	service servicer
}

func NewHandler(productService servicer) *handler {
	return &handler{
		service: productService,
	}
}

func (h *handler) RegisterRoutes(router *chi.Mux) {
	router.Get(
		"/products",
		handlerutils.MakeHandler(
			h.getAllProductsHandler,
		),
	)

	router.Get(
		"/products/{productID}",
		handlerutils.MakeHandler(
			h.getProductHandler,
		),
	)
}

func (h *handler) getAllProductsHandler(w http.ResponseWriter, r *http.Request) error {
	ctx, cancel := context.WithTimeout(
		r.Context(),
		(30 * time.Second),
	)
	defer cancel()

	products, err := h.service.getAllProducts(ctx)
	if err != nil {
		return err
	}

	return handlerutils.WriteSuccessJSON(
		w,
		http.StatusOK,
		"all products retrieved",
		products,
	)
}

func (h *handler) getProductHandler(w http.ResponseWriter, r *http.Request) error {
	productIDStr := chi.URLParam(r, "productID")

	productID, err := uuid.Parse(productIDStr)
	if err != nil {
		return servererrors.New(
			http.StatusBadRequest,
			servererrors.ErrInvalidProductID.Error(),
			nil,
		)
	}

	p, err := h.service.getProduct(r.Context(), productID)
	if err != nil {
		var notFoundErr *servererrors.ProductNotFoundError
		if errors.As(err, &notFoundErr) {
			return servererrors.New(
				http.StatusNotFound,
				notFoundErr.Error(),
				nil,
			)
		}

		return err
	}

	return handlerutils.WriteSuccessJSON(
		w,
		http.StatusOK,
		"product found",
		p,
	)
}
