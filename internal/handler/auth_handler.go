package handler

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
	"net/http"

	"github.com/casbin/casbin/v2"

	"go-blog-app/internal/auth"
	"go-blog-app/internal/logger"
	"go-blog-app/internal/middleware"
	"go-blog-app/internal/session"
)

const oauthStateKey = "oauth_state"

// Authenticator is the OIDC login flow used by AuthHandler.
type Authenticator interface {
	AuthCodeURL(state string) string
	Subject(ctx context.Context, code string) (string, error)
}

// AuthHandler holds the dependencies for the authentication handlers.
type AuthHandler struct {
	auth     Authenticator
	session  session.Manager
	enforcer casbin.IEnforcer
	log      logger.Logger
}

// NewAuthHandler creates a new AuthHandler. A nil authenticator disables login.
func NewAuthHandler(a Authenticator, sm session.Manager, e casbin.IEnforcer, log logger.Logger) *AuthHandler {
	return &AuthHandler{auth: a, session: sm, enforcer: e, log: log}
}

// handleLogin redirects the user to the OIDC provider to log in.
// The random state is kept in the session and checked on callback.
func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if h.auth == nil {
		return &middleware.AppError{Error: errors.New("oidc not configured"), Message: "Login is not available", Code: http.StatusServiceUnavailable}
	}
	state, err := randString(16)
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Internal Server Error", Code: http.StatusInternalServerError}
	}
	h.session.Put(r.Context(), oauthStateKey, state)
	http.Redirect(w, r, h.auth.AuthCodeURL(state), http.StatusFound)
	return nil
}

// handleCallback finishes the login: it verifies state, resolves the
// subject, renews the session token and grants the Authenticated role.
func (h *AuthHandler) handleCallback(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if h.auth == nil {
		return &middleware.AppError{Error: errors.New("oidc not configured"), Message: "Login is not available", Code: http.StatusServiceUnavailable}
	}

	want := h.session.PopString(r.Context(), oauthStateKey)
	if want == "" || r.URL.Query().Get("state") != want {
		return badRequest(errors.New("state mismatch"), "State did not match")
	}

	subject, err := h.auth.Subject(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Login failed", Code: http.StatusUnauthorized}
	}

	if err := h.session.RenewToken(r.Context()); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to renew session", Code: http.StatusInternalServerError}
	}
	h.session.Put(r.Context(), middleware.SessionSubjectKey, subject)

	if err := auth.GrantRole(h.enforcer, subject, auth.RoleAuthenticated); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to assign role", Code: http.StatusInternalServerError}
	}

	h.log.With(map[string]interface{}{"subject": subject}).Info("User logged in")
	http.Redirect(w, r, "/posts", http.StatusFound)
	return nil
}

// handleLogout destroys the session and redirects to the post list.
func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if err := h.session.Destroy(r.Context()); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to log out", Code: http.StatusInternalServerError}
	}
	http.Redirect(w, r, "/posts", http.StatusFound)
	return nil
}

// randString generates a random string for the 'state' parameter.
func randString(nByte int) (string, error) {
	b := make([]byte, nByte)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
