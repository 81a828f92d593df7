package service

import (
	"context"
	"errors"

	"go-blog-app/internal/data"
)

var (
	// ErrNotFound indicates the addressed post or category does not exist.
	ErrNotFound = data.ErrNotFound

	// ErrForbidden indicates the caller lacks the role an operation requires.
	ErrForbidden = errors.New("forbidden")

	// ErrCategoryInUse indicates a category still owns posts and cannot be deleted.
	ErrCategoryInUse = errors.New("category still has posts")
)

// Authorizer answers the capability check performed at the top of every
// privileged operation.
type Authorizer interface {
	HasRole(ctx context.Context, role string) bool
}

// AuthorizerFunc adapts a function to the Authorizer interface.
type AuthorizerFunc func(ctx context.Context, role string) bool

// HasRole calls f.
func (f AuthorizerFunc) HasRole(ctx context.Context, role string) bool {
	return f(ctx, role)
}

func requireRole(ctx context.Context, authz Authorizer, role string) error {
	if authz == nil || !authz.HasRole(ctx, role) {
		return ErrForbidden
	}
	return nil
}
