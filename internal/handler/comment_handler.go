package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/render"

	"go-blog-app/internal/data"
	"go-blog-app/internal/middleware"
)

// CommentAdder is the comment intake used by CommentHandler.
type CommentAdder interface {
	AddComment(ctx context.Context, postID int64, userName, content string) (*data.CommentSummary, error)
}

// CommentHandler holds the dependencies for the comment handlers.
type CommentHandler struct {
	comments CommentAdder
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(c CommentAdder) *CommentHandler {
	return &CommentHandler{comments: c}
}

// createHandler accepts a JSON comment for the post in the URL.
func (h *CommentHandler) createHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	postID, appErr := idParam(r)
	if appErr != nil {
		return appErr
	}

	var in data.CommentInput
	if err := render.DecodeJSON(r.Body, &in); err != nil {
		return badRequest(err, "Invalid JSON body")
	}

	summary, err := h.comments.AddComment(r.Context(), postID, in.UserName, in.Content)
	if err != nil {
		return appError(err, "Failed to add comment")
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, summary)
	return nil
}
