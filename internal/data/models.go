package data

import (
	"errors"
	"time"
)

// ErrNotFound is returned by repositories when the requested row does not exist.
var ErrNotFound = errors.New("record not found")

// Category groups posts.
type Category struct {
	ID          int64  `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description,omitempty"`
}

// Post represents a single blog post in the database.
type Post struct {
	ID               int64      `db:"id" json:"id"`
	Title            string     `db:"title" json:"title"`
	Content          string     `db:"content" json:"content"`
	HTMLContent      string     `db:"-" json:"htmlContent,omitempty"`
	Excerpt          string     `db:"-" json:"excerpt,omitempty"`
	Author           string     `db:"author" json:"author"`
	FeatureImagePath string     `db:"feature_image_path" json:"featureImagePath,omitempty"`
	PublishedDate    time.Time  `db:"published_date" json:"publishedDate"`
	CategoryID       int64      `db:"category_id" json:"categoryId"`
	CategoryName     string     `db:"category_name" json:"categoryName,omitempty"`
	Comments         []*Comment `db:"-" json:"comments,omitempty"`
}

// Comment is a reader's comment attached to a post.
type Comment struct {
	ID          int64     `db:"id" json:"id"`
	UserName    string    `db:"user_name" json:"userName"`
	CommentDate time.Time `db:"comment_date" json:"commentDate"`
	Content     string    `db:"content" json:"content"`
	PostID      int64     `db:"post_id" json:"postId"`
}

// CommentSummary is what comment intake hands back for immediate display.
type CommentSummary struct {
	UserName    string `json:"userName"`
	CommentDate string `json:"commentDate"`
	Content     string `json:"content"`
}

// PostInput is the author-editable part of a post.
type PostInput struct {
	Title      string `json:"title" validate:"required,notblank,max=400"`
	Content    string `json:"content" validate:"required,notblank"`
	Author     string `json:"author" validate:"required,notblank,max=100"`
	CategoryID int64  `json:"categoryId" validate:"required"`
}

// CommentInput is a comment as submitted by a reader.
type CommentInput struct {
	UserName string `json:"userName" validate:"required,notblank,max=100"`
	Content  string `json:"content" validate:"required,notblank"`
}

// CategoryInput is a category as submitted by an admin.
type CategoryInput struct {
	Name        string `json:"name" validate:"required,notblank,max=100"`
	Description string `json:"description"`
}

// Upload describes an uploaded image file.
type Upload struct {
	FileName string
	Content  []byte
}
