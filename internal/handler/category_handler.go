package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/render"

	"go-blog-app/internal/data"
	"go-blog-app/internal/middleware"
)

// CategoryManager is the category service used by CategoryHandler.
type CategoryManager interface {
	ListCategories(ctx context.Context) ([]*data.Category, error)
	CreateCategory(ctx context.Context, in data.CategoryInput) (*data.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}

// CategoryHandler holds the dependencies for the category handlers.
type CategoryHandler struct {
	categories CategoryManager
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(c CategoryManager) *CategoryHandler {
	return &CategoryHandler{categories: c}
}

func (h *CategoryHandler) listHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	categories, err := h.categories.ListCategories(r.Context())
	if err != nil {
		return appError(err, "Failed to retrieve categories")
	}
	render.JSON(w, r, categories)
	return nil
}

func (h *CategoryHandler) createHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	var in data.CategoryInput
	if err := render.DecodeJSON(r.Body, &in); err != nil {
		return badRequest(err, "Invalid JSON body")
	}
	category, err := h.categories.CreateCategory(r.Context(), in)
	if err != nil {
		return appError(err, "Failed to create category")
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, category)
	return nil
}

func (h *CategoryHandler) deleteHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, appErr := idParam(r)
	if appErr != nil {
		return appErr
	}
	if err := h.categories.DeleteCategory(r.Context(), id); err != nil {
		return appError(err, "Failed to delete category")
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}
