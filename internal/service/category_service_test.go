package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-blog-app/internal/data"
	"go-blog-app/internal/logger"
	"go-blog-app/internal/validation"
)

func TestCategoryService(t *testing.T) {
	ctx := context.Background()
	policy := validation.NewPolicy(nil)

	t.Run("create and list", func(t *testing.T) {
		repo := newMockCategoryRepository(&data.Category{ID: 1, Name: "Travel"})
		svc := NewCategoryService(repo, policy, adminOnly, logger.Nop())

		created, err := svc.CreateCategory(ctx, data.CategoryInput{Name: "Food", Description: "Recipes"})
		require.NoError(t, err)
		assert.Equal(t, int64(2), created.ID)

		all, err := svc.ListCategories(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "Food", all[0].Name)
	})

	t.Run("duplicate name", func(t *testing.T) {
		repo := newMockCategoryRepository(&data.Category{ID: 1, Name: "Travel"})
		svc := NewCategoryService(repo, policy, adminOnly, logger.Nop())

		_, err := svc.CreateCategory(ctx, data.CategoryInput{Name: "Travel"})

		var verr *validation.Error
		require.ErrorAs(t, err, &verr)
		assert.True(t, verr.Has(validation.CodeDuplicate))
		assert.Equal(t, 0, repo.saveCalled)
	})

	t.Run("missing name", func(t *testing.T) {
		repo := newMockCategoryRepository()
		svc := NewCategoryService(repo, policy, adminOnly, logger.Nop())

		_, err := svc.CreateCategory(ctx, data.CategoryInput{})

		var verr *validation.Error
		require.ErrorAs(t, err, &verr)
		assert.True(t, verr.Has(validation.CodeRequired))
	})

	t.Run("delete refuses category with posts", func(t *testing.T) {
		repo := newMockCategoryRepository(&data.Category{ID: 1, Name: "Travel"})
		repo.postCounts[1] = 3
		svc := NewCategoryService(repo, policy, adminOnly, logger.Nop())

		err := svc.DeleteCategory(ctx, 1)

		assert.ErrorIs(t, err, ErrCategoryInUse)
		assert.Equal(t, 0, repo.deleteCalled)
	})

	t.Run("delete empty category", func(t *testing.T) {
		repo := newMockCategoryRepository(&data.Category{ID: 1, Name: "Travel"})
		svc := NewCategoryService(repo, policy, adminOnly, logger.Nop())

		require.NoError(t, svc.DeleteCategory(ctx, 1))
		assert.ErrorIs(t, svc.DeleteCategory(ctx, 1), ErrNotFound)
	})

	t.Run("non-admin is forbidden", func(t *testing.T) {
		repo := newMockCategoryRepository()
		svc := NewCategoryService(repo, policy, readerOnly, logger.Nop())

		_, err := svc.CreateCategory(ctx, data.CategoryInput{Name: "Food"})
		assert.ErrorIs(t, err, ErrForbidden)
		assert.ErrorIs(t, svc.DeleteCategory(ctx, 1), ErrForbidden)
	})
}
