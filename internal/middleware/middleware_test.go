package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-blog-app/internal/logger"
)

type stubSession struct{ subject string }

func (s *stubSession) LoadAndSave(next http.Handler) http.Handler { return next }
func (s *stubSession) Put(ctx context.Context, key string, val interface{}) {}
func (s *stubSession) GetString(ctx context.Context, key string) string {
	if key == SessionSubjectKey {
		return s.subject
	}
	return ""
}
func (s *stubSession) PopString(ctx context.Context, key string) string { return "" }
func (s *stubSession) RenewToken(ctx context.Context) error            { return nil }
func (s *stubSession) Destroy(ctx context.Context) error               { return nil }
func (s *stubSession) Remove(ctx context.Context, key string)          {}

func newEnforcer(t *testing.T) *casbin.Enforcer {
	t.Helper()
	m, err := model.NewModelFromString(`
[request_definition]
r = sub, obj, act
[policy_definition]
p = sub, obj, act
[role_definition]
g = _, _
[policy_effect]
e = some(where (p.eft == allow))
[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`)
	require.NoError(t, err)
	e, err := casbin.NewEnforcer(m)
	require.NoError(t, err)
	_, err = e.AddPolicy("anonymous", "/open", "GET")
	require.NoError(t, err)
	_, err = e.AddPolicy("Admin", "/closed", "GET")
	require.NoError(t, err)
	return e
}

func TestAuthorizer(t *testing.T) {
	e := newEnforcer(t)

	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetUserInfo(r.Context()).Subject
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name    string
		subject string
		path    string
		want    int
	}{
		{"anonymous allowed", "", "/open", http.StatusOK},
		{"anonymous denied", "", "/closed", http.StatusUnauthorized},
		{"user denied", "dave", "/closed", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := Authorizer(e, &stubSession{subject: tt.subject})(next)
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.want, rr.Code)
		})
	}
	assert.Equal(t, AnonymousSubject, seen)
}

func TestError(t *testing.T) {
	wrap := Error(logger.Nop())

	t.Run("app error becomes json", func(t *testing.T) {
		h := wrap(func(w http.ResponseWriter, r *http.Request) *AppError {
			return &AppError{Error: errors.New("nope"), Message: "Not found", Code: http.StatusNotFound}
		})
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.JSONEq(t, `{"error":"Not found"}`, rr.Body.String())
	})

	t.Run("panic is recovered", func(t *testing.T) {
		h := wrap(func(w http.ResponseWriter, r *http.Request) *AppError {
			panic("boom")
		})
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}
