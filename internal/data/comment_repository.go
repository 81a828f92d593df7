package data

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// SQLCommentRepository stores comments.
type SQLCommentRepository struct {
	db *sqlx.DB
}

// NewSQLCommentRepository creates a new SQLCommentRepository.
func NewSQLCommentRepository(db *sqlx.DB) *SQLCommentRepository {
	return &SQLCommentRepository{db: db}
}

// CreateComment inserts a comment and sets its ID.
func (r *SQLCommentRepository) CreateComment(ctx context.Context, comment *Comment) error {
	query := `INSERT INTO comments (user_name, comment_date, content, post_id) VALUES (:user_name, :comment_date, :content, :post_id)`
	res, err := r.db.NamedExecContext(ctx, query, comment)
	if err != nil {
		return fmt.Errorf("failed to insert comment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read comment id: %w", err)
	}
	comment.ID = id
	return nil
}

// GetCommentsByPostID returns the comments of a post, oldest first.
func (r *SQLCommentRepository) GetCommentsByPostID(ctx context.Context, postID int64) ([]*Comment, error) {
	comments := []*Comment{}
	query := `SELECT id, user_name, comment_date, content, post_id FROM comments WHERE post_id = ? ORDER BY comment_date, id`
	if err := r.db.SelectContext(ctx, &comments, query, postID); err != nil {
		return nil, fmt.Errorf("failed to get comments by post id: %w", err)
	}
	return comments, nil
}
