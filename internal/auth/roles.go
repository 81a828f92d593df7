package auth

import (
	"context"
	"slices"

	"go-blog-app/internal/middleware"

	"github.com/casbin/casbin/v2"
)

// RoleChecker answers "does the caller have role X" for the subject stored in
// the request context.
type RoleChecker struct {
	enforcer casbin.IEnforcer
}

// NewRoleChecker creates a RoleChecker backed by the given enforcer.
func NewRoleChecker(e casbin.IEnforcer) *RoleChecker {
	return &RoleChecker{enforcer: e}
}

// HasRole reports whether the caller holds role, directly or by inheritance.
// Any non-anonymous subject is Authenticated.
func (c *RoleChecker) HasRole(ctx context.Context, role string) bool {
	subject := middleware.GetUserInfo(ctx).Subject
	if subject == "" || subject == RoleAnonymous {
		return role == RoleAnonymous
	}
	if role == RoleAuthenticated || role == RoleAnonymous {
		return true
	}

	roles, err := c.enforcer.GetImplicitRolesForUser(subject)
	if err != nil {
		return false
	}
	return slices.Contains(roles, role)
}
