package middleware

import (
	"net/http"

	"go-blog-app/internal/session"

	"github.com/casbin/casbin/v2"
	"github.com/go-chi/render"
)

// SessionSubjectKey is the session key holding the logged-in subject.
const SessionSubjectKey = "user_subject"

// Authorizer creates a new middleware for authorization.
// It resolves the caller from the session, stores it in the request context
// and checks the route against the Casbin policies.
func Authorizer(e casbin.IEnforcer, sm session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject := sm.GetString(r.Context(), SessionSubjectKey)
			if subject == "" {
				subject = AnonymousSubject
			}

			r = r.WithContext(SetUserInfo(r.Context(), &UserInfo{Subject: subject}))

			allowed, err := e.Enforce(subject, r.URL.Path, r.Method)
			if err != nil {
				writeError(w, r, http.StatusInternalServerError, "Authorization error", nil)
				return
			}
			if !allowed {
				if subject == AnonymousSubject {
					writeError(w, r, http.StatusUnauthorized, "Unauthorized", nil)
					return
				}
				writeError(w, r, http.StatusForbidden, "Forbidden", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// errorResponse is the JSON body of every error answer.
type errorResponse struct {
	Error      string      `json:"error"`
	Violations interface{} `json:"violations,omitempty"`
}

func writeError(w http.ResponseWriter, r *http.Request, code int, msg string, violations interface{}) {
	render.Status(r, code)
	render.JSON(w, r, errorResponse{Error: msg, Violations: violations})
}
