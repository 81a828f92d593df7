package auth

import (
	"fmt"
	"go-blog-app/internal/logger"
	"go-blog-app/internal/middleware"

	"github.com/casbin/casbin/v2"
)

// Role names understood by the capability check.
const (
	RoleAdmin         = "Admin"
	RoleAuthenticated = "Authenticated"
	RoleAnonymous     = middleware.AnonymousSubject
)

// SeedDefaultPolicies ensures that the application has a baseline set of authorization rules.
// It checks if each default policy exists before adding it, making the operation idempotent
// and safe to run on every application start. Every subject in admins is granted RoleAdmin.
func SeedDefaultPolicies(e casbin.IEnforcer, admins []string, log logger.Logger) {
	log.Info("Seeding default authorization policies...")

	policies := [][]string{
		// Anyone can read posts and categories, fetch images and log in.
		{RoleAnonymous, "/posts", "GET"},
		{RoleAnonymous, "/posts/:id", "GET"},
		{RoleAnonymous, "/categories", "GET"},
		{RoleAnonymous, "/images/*", "GET"},
		{RoleAnonymous, "/sitemap.xml", "GET"},
		{RoleAnonymous, "/robots.txt", "GET"},
		{RoleAnonymous, "/auth/login", "GET"},
		{RoleAnonymous, "/auth/callback", "GET"},
		{RoleAnonymous, "/auth/logout", "GET"},

		// Logged-in readers can comment.
		{RoleAuthenticated, "/posts/:id/comments", "POST"},

		// Admins manage content.
		{RoleAdmin, "/posts", "POST"},
		{RoleAdmin, "/posts/:id", "PUT"},
		{RoleAdmin, "/posts/:id", "DELETE"},
		{RoleAdmin, "/categories", "POST"},
		{RoleAdmin, "/categories/:id", "DELETE"},
	}
	for _, p := range policies {
		if has, _ := e.HasPolicy(p); !has {
			if _, err := e.AddPolicy(p); err != nil {
				log.Error(err, fmt.Sprintf("Failed to add policy %v", p))
			}
		}
	}

	// Admin -> Authenticated -> anonymous.
	inheritance := [][2]string{
		{RoleAuthenticated, RoleAnonymous},
		{RoleAdmin, RoleAuthenticated},
	}
	for _, link := range inheritance {
		if has, _ := e.HasRoleForUser(link[0], link[1]); !has {
			if _, err := e.AddRoleForUser(link[0], link[1]); err != nil {
				log.Error(err, fmt.Sprintf("Failed to add role '%s' -> '%s'", link[0], link[1]))
			}
		}
	}

	for _, subject := range admins {
		if err := GrantRole(e, subject, RoleAdmin); err != nil {
			log.Error(err, fmt.Sprintf("Failed to grant admin role to %s", subject))
		}
	}
	log.Info("Policy seeding complete.")
}

// GrantRole gives subject a role unless it already has it.
func GrantRole(e casbin.IEnforcer, subject, role string) error {
	has, err := e.HasRoleForUser(subject, role)
	if err != nil {
		return err
	}
	if has {
		return nil
	}
	_, err = e.AddRoleForUser(subject, role)
	return err
}
