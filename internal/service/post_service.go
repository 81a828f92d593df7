package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"go-blog-app/internal/asset"
	"go-blog-app/internal/auth"
	"go-blog-app/internal/data"
	"go-blog-app/internal/logger"
	"go-blog-app/internal/text"
	"go-blog-app/internal/validation"
)

const excerptLength = 200

// PostRepository defines the interface for database operations on posts.
type PostRepository interface {
	CreatePost(ctx context.Context, post *data.Post) error
	GetPostByID(ctx context.Context, id int64) (*data.Post, error)
	ListPosts(ctx context.Context, categoryID *int64) ([]*data.Post, error)
	UpdatePost(ctx context.Context, post *data.Post) error
	DeletePost(ctx context.Context, id int64) error
}

// CommentRepository defines the interface for database operations on comments.
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *data.Comment) error
	GetCommentsByPostID(ctx context.Context, postID int64) ([]*data.Comment, error)
}

// PostServicer defines the interface for interacting with posts.
type PostServicer interface {
	ListPosts(ctx context.Context, categoryID *int64) ([]*data.Post, error)
	GetPost(ctx context.Context, id int64) (*data.Post, error)
	CreatePost(ctx context.Context, in data.PostInput, image *data.Upload) (*data.Post, error)
	EditPost(ctx context.Context, id int64, in data.PostInput, image *data.Upload) (*data.Post, error)
	DeletePost(ctx context.Context, id int64) error
}

// PostService keeps a post record, its feature image file and its comments
// consistent across create, edit and delete.
type PostService struct {
	posts      PostRepository
	categories CategoryRepository
	comments   CommentRepository
	assets     asset.Store
	policy     *validation.Policy
	authz      Authorizer
	renderer   *text.Renderer
	log        logger.Logger
	now        func() time.Time
}

// NewPostService creates a new PostService.
func NewPostService(posts PostRepository, categories CategoryRepository, comments CommentRepository,
	assets asset.Store, policy *validation.Policy, authz Authorizer, log logger.Logger) *PostService {
	return &PostService{
		posts:      posts,
		categories: categories,
		comments:   comments,
		assets:     assets,
		policy:     policy,
		authz:      authz,
		renderer:   text.NewRenderer(),
		log:        log,
		now:        time.Now,
	}
}

// ListPosts returns all posts, or those of one category, with a plain-text
// excerpt of the rendered body.
func (s *PostService) ListPosts(ctx context.Context, categoryID *int64) ([]*data.Post, error) {
	posts, err := s.posts.ListPosts(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	for _, p := range posts {
		html, err := s.renderer.Render(p.Content)
		if err != nil {
			return nil, fmt.Errorf("failed to render post %d: %w", p.ID, err)
		}
		p.Excerpt = text.Excerpt(html, excerptLength)
	}
	return posts, nil
}

// GetPost returns a post with its comments and rendered HTML body.
func (s *PostService) GetPost(ctx context.Context, id int64) (*data.Post, error) {
	post, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		return nil, err
	}

	comments, err := s.comments.GetCommentsByPostID(ctx, id)
	if err != nil {
		return nil, err
	}
	post.Comments = comments

	html, err := s.renderer.Render(post.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to render post %d: %w", id, err)
	}
	post.HTMLContent = html
	return post, nil
}

// CreatePost validates the payload, stores the feature image and then inserts
// the post pointing at it. Nothing is written when validation fails.
func (s *PostService) CreatePost(ctx context.Context, in data.PostInput, image *data.Upload) (*data.Post, error) {
	if err := requireRole(ctx, s.authz, auth.RoleAdmin); err != nil {
		return nil, err
	}

	if err := s.policy.ValidatePost(in, image, validation.Create); err != nil {
		return nil, err
	}
	category, err := s.lookupCategory(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}

	imagePath, err := s.assets.Save(ctx, bytes.NewReader(image.Content), image.FileName)
	if err != nil {
		return nil, fmt.Errorf("failed to store feature image: %w", err)
	}

	post := &data.Post{
		Title:            in.Title,
		Content:          in.Content,
		Author:           in.Author,
		FeatureImagePath: imagePath,
		PublishedDate:    s.now(),
		CategoryID:       category.ID,
		CategoryName:     category.Name,
	}
	if err := s.posts.CreatePost(ctx, post); err != nil {
		// The image is not rolled back; it stays as an orphan until swept.
		s.log.With(map[string]interface{}{"asset_path": imagePath}).Error(err, "Post insert failed after feature image was stored")
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	s.log.With(map[string]interface{}{"post_id": post.ID, "asset_path": imagePath}).Info("Post created")
	return post, nil
}

// EditPost updates an existing post. A nil image keeps the current one.
//
// With a new image the order is: store new file, write the record once with
// the new path, then delete the old file. The record never references a file
// that is gone, and a failed write leaves the old post and file untouched.
func (s *PostService) EditPost(ctx context.Context, id int64, in data.PostInput, image *data.Upload) (*data.Post, error) {
	if err := requireRole(ctx, s.authz, auth.RoleAdmin); err != nil {
		return nil, err
	}

	current, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.policy.ValidatePost(in, image, validation.Edit); err != nil {
		return nil, err
	}
	category, err := s.lookupCategory(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}

	updated := *current
	updated.Title = in.Title
	updated.Content = in.Content
	updated.Author = in.Author
	updated.CategoryID = category.ID
	updated.CategoryName = category.Name

	oldPath := current.FeatureImagePath
	if image != nil {
		newPath, err := s.assets.Save(ctx, bytes.NewReader(image.Content), image.FileName)
		if err != nil {
			return nil, fmt.Errorf("failed to store feature image: %w", err)
		}
		updated.FeatureImagePath = newPath
	}

	if err := s.posts.UpdatePost(ctx, &updated); err != nil {
		if image != nil {
			s.discardAsset(ctx, id, updated.FeatureImagePath)
		}
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	if image != nil {
		s.discardAsset(ctx, id, oldPath)
	}

	s.log.With(map[string]interface{}{"post_id": id, "asset_path": updated.FeatureImagePath}).Info("Post updated")
	return &updated, nil
}

// DeletePost removes the post and its comments, then its feature image.
func (s *PostService) DeletePost(ctx context.Context, id int64) error {
	if err := requireRole(ctx, s.authz, auth.RoleAdmin); err != nil {
		return err
	}

	post, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.posts.DeletePost(ctx, id); err != nil {
		return fmt.Errorf("failed to delete post %d: %w", id, err)
	}

	s.discardAsset(ctx, id, post.FeatureImagePath)
	s.log.With(map[string]interface{}{"post_id": id}).Info("Post deleted")
	return nil
}

// lookupCategory resolves a category id, reporting an unknown id as a violation.
func (s *PostService) lookupCategory(ctx context.Context, id int64) (*data.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if errors.Is(err, data.ErrNotFound) {
		return nil, validation.NewError(validation.Violation{
			Field:   "categoryId",
			Code:    validation.CodeUnknownCategory,
			Message: fmt.Sprintf("Category %d does not exist.", id),
		})
	}
	if err != nil {
		return nil, err
	}
	return category, nil
}

// discardAsset deletes a feature image that no live post references anymore.
// Failure is logged and swallowed.
func (s *PostService) discardAsset(ctx context.Context, postID int64, assetPath string) {
	if assetPath == "" {
		return
	}
	if err := s.assets.Delete(ctx, assetPath); err != nil {
		s.log.With(map[string]interface{}{"post_id": postID, "asset_path": assetPath}).Error(err, "Failed to delete feature image")
	}
}
