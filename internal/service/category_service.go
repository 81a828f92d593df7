package service

import (
	"context"
	"errors"
	"fmt"

	"go-blog-app/internal/auth"
	"go-blog-app/internal/data"
	"go-blog-app/internal/logger"
	"go-blog-app/internal/validation"
)

// CategoryRepository defines the interface for database operations on categories.
type CategoryRepository interface {
	FindByName(ctx context.Context, name string) (*data.Category, error)
	GetByID(ctx context.Context, id int64) (*data.Category, error)
	GetAll(ctx context.Context) ([]*data.Category, error)
	Save(ctx context.Context, category *data.Category) (int64, error)
	CountPosts(ctx context.Context, id int64) (int, error)
	Delete(ctx context.Context, id int64) error
}

// CategoryService manages categories.
type CategoryService struct {
	repo   CategoryRepository
	policy *validation.Policy
	authz  Authorizer
	log    logger.Logger
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(repo CategoryRepository, policy *validation.Policy, authz Authorizer, log logger.Logger) *CategoryService {
	return &CategoryService{repo: repo, policy: policy, authz: authz, log: log}
}

// ListCategories returns every category ordered by name.
func (s *CategoryService) ListCategories(ctx context.Context) ([]*data.Category, error) {
	return s.repo.GetAll(ctx)
}

// CreateCategory adds a category with a unique name.
func (s *CategoryService) CreateCategory(ctx context.Context, in data.CategoryInput) (*data.Category, error) {
	if err := requireRole(ctx, s.authz, auth.RoleAdmin); err != nil {
		return nil, err
	}
	if err := s.policy.ValidateCategory(in); err != nil {
		return nil, err
	}

	_, err := s.repo.FindByName(ctx, in.Name)
	if err == nil {
		return nil, validation.NewError(validation.Violation{
			Field:   "name",
			Code:    validation.CodeDuplicate,
			Message: fmt.Sprintf("A category named %q already exists.", in.Name),
		})
	}
	if !errors.Is(err, data.ErrNotFound) {
		return nil, err
	}

	category := &data.Category{Name: in.Name, Description: in.Description}
	if _, err := s.repo.Save(ctx, category); err != nil {
		return nil, err
	}
	s.log.With(map[string]interface{}{"category_id": category.ID}).Info("Category created")
	return category, nil
}

// DeleteCategory removes an empty category. A category that still owns
// posts is refused with ErrCategoryInUse.
func (s *CategoryService) DeleteCategory(ctx context.Context, id int64) error {
	if err := requireRole(ctx, s.authz, auth.RoleAdmin); err != nil {
		return err
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	n, err := s.repo.CountPosts(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: %d posts in category %d", ErrCategoryInUse, n, id)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.With(map[string]interface{}{"category_id": id}).Info("Category deleted")
	return nil
}
