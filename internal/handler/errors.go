package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"go-blog-app/internal/asset"
	"go-blog-app/internal/middleware"
	"go-blog-app/internal/service"
	"go-blog-app/internal/validation"
)

// appError maps a service error onto the HTTP answer for it.
func appError(err error, msg string) *middleware.AppError {
	var verr *validation.Error
	var werr *asset.WriteError
	switch {
	case errors.As(err, &verr):
		return &middleware.AppError{Error: err, Message: "Validation failed", Code: http.StatusUnprocessableEntity, Violations: verr.Violations}
	case errors.Is(err, service.ErrNotFound):
		return &middleware.AppError{Error: err, Message: "Not found", Code: http.StatusNotFound}
	case errors.Is(err, service.ErrForbidden):
		return &middleware.AppError{Error: err, Message: "Forbidden", Code: http.StatusForbidden}
	case errors.Is(err, service.ErrCategoryInUse):
		return &middleware.AppError{Error: err, Message: "Category still has posts", Code: http.StatusConflict}
	case errors.As(err, &werr):
		return &middleware.AppError{Error: err, Message: "Failed to store feature image", Code: http.StatusInternalServerError}
	default:
		return &middleware.AppError{Error: err, Message: msg, Code: http.StatusInternalServerError}
	}
}

func badRequest(err error, msg string) *middleware.AppError {
	return &middleware.AppError{Error: err, Message: msg, Code: http.StatusBadRequest}
}

// idParam parses the {id} URL parameter.
func idParam(r *http.Request) (int64, *middleware.AppError) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest(err, "Invalid id")
	}
	return id, nil
}
