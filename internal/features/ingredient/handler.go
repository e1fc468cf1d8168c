package ingredient

import (
	"context"
	"net/http"
	"time"

	"github.com/egyjs/order-management-backend-app/internal/handlerutils"
	"github.com/go-chi/chi"
)

type servicer interface {
	listIngredients(ctx context.Context) ([]*StockLevelDTO, error)
}

type handler struct {
	service servicer
}

func NewHandler(ingredientService servicer) *handler {
	return &handler{
		service: ingredientService,
	}
}

func (h *handler) RegisterRoutes(router *chi.Mux) {
	router.Get(
		"/ingredients",
		handlerutils.MakeHandler(
			h.getAllIngredientsHandler,
		),
	)
}

func (h *handler) getAllIngredientsHandler(w http.ResponseWriter, r *http.Request) error {
	ctx, cancel := context.WithTimeout(
		r.Context(),
		(30 * time.Second),
	)
	defer cancel()

	levels, err := h.service.listIngredients(ctx)
	if err != nil {
		return err
	}

	return handlerutils.WriteSuccessJSON(
		w,
		http.StatusOK,
		"all ingredients retrieved",
		levels,
	)
}
