package handlerutils

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/egyjs/order-management-backend-app/internal/servererrors"
)

// APIHandler is a http handler that reports its failure instead of writing
// it, so error handling, logging and response shaping stay in one place.
type APIHandler func(w http.ResponseWriter, r *http.Request) error

// MakeHandler adapts an APIHandler into a [http.HandlerFunc] with
// centralized error handling. A [servererrors.ServerError] keeps its status
// code and details; anything else becomes a 500 with no internal detail.
func MakeHandler(h APIHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := h(w, r)
		if err == nil {
			return
		}

		log.Println(err)

		var serverError *servererrors.ServerError
		if errors.As(err, &serverError) {
			WriteErrorJSON(
				w,
				serverError.StatusCode,
				serverError.Error(),
				serverError.Errors,
			)
			return
		}

		WriteErrorJSON(
			w,
			http.StatusInternalServerError,
			"something went wrong",
			nil,
		)
	}
}

func ParseJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return fmt.Errorf("missing request body")
	}

	return json.NewDecoder(r.Body).Decode(v)
}

type successResponse struct {
	Success bool   `json:"success"`
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Status  int    `json:"status"`
	Message string `json:"message"`
	Errors  any    `json:"errors"`
}

func WriteSuccessJSON(w http.ResponseWriter, status int, message string, data any) error {
	if data == nil {
		data = struct{}{}
	}

	return writeJSON(w, status, successResponse{
		Success: true,
		Status:  status,
		Message: message,
		Data:    data,
	})
}

func WriteErrorJSON(w http.ResponseWriter, status int, message string, errs any) error {
	if errs == nil {
		errs = struct{}{}
	}

	return writeJSON(w, status, errorResponse{
		Success: false,
		Status:  status,
		Message: message,
		Errors:  errs,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	return json.NewEncoder(w).Encode(v)
}
