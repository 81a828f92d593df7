package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/render"

	"go-blog-app/internal/data"
	"go-blog-app/internal/logger"
	"go-blog-app/internal/middleware"
	"go-blog-app/internal/service"
)

// maxUploadSize bounds the multipart body of post create and edit.
const maxUploadSize = 10 << 20

// PostHandler holds the dependencies for the post handlers.
type PostHandler struct {
	postService service.PostServicer
	log         logger.Logger
}

// NewPostHandler creates a new PostHandler with the given dependencies.
func NewPostHandler(ps service.PostServicer, log logger.Logger) *PostHandler {
	return &PostHandler{postService: ps, log: log}
}

// listHandler returns all posts, optionally filtered by ?categoryId.
func (h *PostHandler) listHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	var categoryID *int64
	if raw := r.URL.Query().Get("categoryId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return badRequest(err, "Invalid categoryId")
		}
		categoryID = &id
	}

	posts, err := h.postService.ListPosts(r.Context(), categoryID)
	if err != nil {
		return appError(err, "Failed to retrieve posts")
	}
	render.JSON(w, r, posts)
	return nil
}

// viewHandler returns one post with its comments.
func (h *PostHandler) viewHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, appErr := idParam(r)
	if appErr != nil {
		return appErr
	}
	post, err := h.postService.GetPost(r.Context(), id)
	if err != nil {
		return appError(err, "Failed to retrieve post")
	}
	render.JSON(w, r, post)
	return nil
}

// createHandler handles the multipart form that publishes a new post.
func (h *PostHandler) createHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	in, image, appErr := parsePostForm(w, r)
	if appErr != nil {
		return appErr
	}
	post, err := h.postService.CreatePost(r.Context(), in, image)
	if err != nil {
		return appError(err, "Failed to create post")
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, post)
	return nil
}

// editHandler handles the multipart form that updates a post. Omitting the
// featureImage part keeps the current image.
func (h *PostHandler) editHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, appErr := idParam(r)
	if appErr != nil {
		return appErr
	}
	in, image, appErr := parsePostForm(w, r)
	if appErr != nil {
		return appErr
	}
	post, err := h.postService.EditPost(r.Context(), id, in, image)
	if err != nil {
		return appError(err, "Failed to update post")
	}
	render.JSON(w, r, post)
	return nil
}

// deleteHandler removes a post.
func (h *PostHandler) deleteHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, appErr := idParam(r)
	if appErr != nil {
		return appErr
	}
	if err := h.postService.DeletePost(r.Context(), id); err != nil {
		return appError(err, "Failed to delete post")
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func parsePostForm(w http.ResponseWriter, r *http.Request) (data.PostInput, *data.Upload, *middleware.AppError) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return data.PostInput{}, nil, badRequest(err, "Invalid multipart form")
	}

	in := data.PostInput{
		Title:   strings.TrimSpace(r.FormValue("title")),
		Content: r.FormValue("content"),
		Author:  strings.TrimSpace(r.FormValue("author")),
	}
	if raw := r.FormValue("categoryId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return data.PostInput{}, nil, badRequest(err, "Invalid categoryId")
		}
		in.CategoryID = id
	}

	image, err := readUpload(r, "featureImage")
	if err != nil {
		return data.PostInput{}, nil, badRequest(err, "Invalid featureImage")
	}
	return in, image, nil
}

// readUpload returns the named file part, or nil when none was sent.
func readUpload(r *http.Request, field string) (*data.Upload, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if header.Filename == "" {
		return nil, nil
	}
	content, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	return &data.Upload{FileName: header.Filename, Content: content}, nil
}
