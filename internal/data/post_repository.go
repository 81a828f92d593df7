package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const postColumns = `p.id, p.title, p.content, p.author, p.feature_image_path, p.published_date, p.category_id, c.name AS category_name`

// SQLPostRepository is the sqlx-backed store for posts.
type SQLPostRepository struct {
	db *sqlx.DB
}

// NewSQLPostRepository creates a new SQLPostRepository.
func NewSQLPostRepository(db *sqlx.DB) *SQLPostRepository {
	return &SQLPostRepository{db: db}
}

// CreatePost inserts a new post and sets its ID from the database.
func (r *SQLPostRepository) CreatePost(ctx context.Context, post *Post) error {
	query := `INSERT INTO posts (title, content, author, feature_image_path, published_date, category_id)
		VALUES (:title, :content, :author, :feature_image_path, :published_date, :category_id)`
	res, err := r.db.NamedExecContext(ctx, query, post)
	if err != nil {
		return fmt.Errorf("failed to execute create post query: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read post id: %w", err)
	}
	post.ID = id
	return nil
}

// GetPostByID retrieves a single post, joined with its category name.
func (r *SQLPostRepository) GetPostByID(ctx context.Context, id int64) (*Post, error) {
	var post Post
	query := `SELECT ` + postColumns + ` FROM posts p JOIN categories c ON c.id = p.category_id WHERE p.id = ?`
	if err := r.db.GetContext(ctx, &post, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get post by id: %w", err)
	}
	return &post, nil
}

// ListPosts returns posts newest first, optionally restricted to one category.
func (r *SQLPostRepository) ListPosts(ctx context.Context, categoryID *int64) ([]*Post, error) {
	posts := []*Post{}
	query := `SELECT ` + postColumns + ` FROM posts p JOIN categories c ON c.id = p.category_id`
	args := []interface{}{}
	if categoryID != nil {
		query += ` WHERE p.category_id = ?`
		args = append(args, *categoryID)
	}
	query += ` ORDER BY p.published_date DESC, p.id DESC`

	if err := r.db.SelectContext(ctx, &posts, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// UpdatePost writes every mutable column of the post in a single statement.
// MySQL reports zero affected rows for a no-op update, so a missing row is
// not detected here; callers load the post first.
func (r *SQLPostRepository) UpdatePost(ctx context.Context, post *Post) error {
	query := `UPDATE posts SET title = :title, content = :content, author = :author,
		feature_image_path = :feature_image_path, category_id = :category_id WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, post); err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	return nil
}

// DeletePost removes a post and all of its comments in one transaction.
func (r *SQLPostRepository) DeletePost(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE post_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete comments: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit post deletion: %w", err)
	}
	return nil
}
