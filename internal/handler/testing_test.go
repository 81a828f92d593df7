package handler

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/casbin/casbin/v2"
	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"go-blog-app/internal/asset"
	"go-blog-app/internal/auth"
	"go-blog-app/internal/data"
	"go-blog-app/internal/logger"
	"go-blog-app/internal/middleware"
	"go-blog-app/internal/service"
	"go-blog-app/internal/session"
	"go-blog-app/internal/validation"
)

// mockSessionManager is a mock implementation of the session.Manager interface.
// It holds one session shared by every request.
type mockSessionManager struct {
	values        map[string]interface{}
	destroyCalled bool
	renewCalled   bool
}

// Ensure mockSessionManager implements the session.Manager interface.
var _ session.Manager = (*mockSessionManager)(nil)

func newMockSessionManager() *mockSessionManager {
	return &mockSessionManager{values: map[string]interface{}{}}
}

func (m *mockSessionManager) LoadAndSave(next http.Handler) http.Handler { return next }
func (m *mockSessionManager) Put(ctx context.Context, key string, val interface{}) {
	m.values[key] = val
}
func (m *mockSessionManager) GetString(ctx context.Context, key string) string {
	s, _ := m.values[key].(string)
	return s
}
func (m *mockSessionManager) PopString(ctx context.Context, key string) string {
	s := m.GetString(ctx, key)
	delete(m.values, key)
	return s
}
func (m *mockSessionManager) Remove(ctx context.Context, key string) { delete(m.values, key) }
func (m *mockSessionManager) RenewToken(ctx context.Context) error {
	m.renewCalled = true
	return nil
}
func (m *mockSessionManager) Destroy(ctx context.Context) error {
	m.destroyCalled = true
	m.values = map[string]interface{}{}
	return nil
}

func (m *mockSessionManager) loginAs(subject string) {
	if subject == "" {
		delete(m.values, middleware.SessionSubjectKey)
		return
	}
	m.values[middleware.SessionSubjectKey] = subject
}

type testApp struct {
	Router   *chi.Mux
	DB       *sqlx.DB
	Session  *mockSessionManager
	Enforcer *casbin.Enforcer
	Assets   *asset.FSStore
	Category int64
}

// setupTestApp initializes a full application stack on an in-memory database.
// "alice" is an admin and "bob" a logged-in reader.
func setupTestApp(t *testing.T, authn Authenticator) *testApp {
	t.Helper()

	db, err := sqlx.Connect("sqlite", "file::memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	db.MustExec("PRAGMA foreign_keys = ON")
	schema, err := os.ReadFile(filepath.Join("..", "..", "migrations", "sqlite", "000001_initial_schema.up.sql"))
	require.NoError(t, err)
	db.MustExec(string(schema))

	log := logger.Nop()
	enforcer, err := auth.NewMemoryEnforcer()
	require.NoError(t, err)
	auth.SeedDefaultPolicies(enforcer, []string{"alice"}, log)
	require.NoError(t, auth.GrantRole(enforcer, "bob", auth.RoleAuthenticated))

	store, err := asset.NewFSStore(asset.FSConfig{PublicRoot: t.TempDir(), ImageDir: "images", URLPrefix: "/images"})
	require.NoError(t, err)

	posts := data.NewSQLPostRepository(db)
	comments := data.NewSQLCommentRepository(db)
	categories := data.NewCategoryRepository(db)
	policy := validation.NewPolicy([]string{".jpg", ".jpeg", ".png"})
	roles := auth.NewRoleChecker(enforcer)

	postService := service.NewPostService(posts, categories, comments, store, policy, roles, log)
	sm := newMockSessionManager()

	router := NewRouter(Handlers{
		Posts:       NewPostHandler(postService, log),
		Comments:    NewCommentHandler(service.NewCommentService(posts, comments, policy, roles, log)),
		Categories:  NewCategoryHandler(service.NewCategoryService(categories, policy, roles, log)),
		Auth:        NewAuthHandler(authn, sm, enforcer, log),
		Seo:         NewSeoHandler(postService, "https://blog.example.com/"),
		Images:      NewImageHandler("/images", store.Dir()),
		ImagePrefix: "/images",
	}, sm, middleware.Authorizer(enforcer, sm), log)

	categoryID, err := categories.Save(context.Background(), &data.Category{Name: "Travel"})
	require.NoError(t, err)

	return &testApp{Router: router, DB: db, Session: sm, Enforcer: enforcer, Assets: store, Category: categoryID}
}

func (a *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	a.Router.ServeHTTP(rr, req)
	return rr
}

// postForm builds a multipart post payload. An empty imageName omits the file part.
func postForm(t *testing.T, method, target string, fields map[string]string, imageName string, image []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if imageName != "" {
		fw, err := mw.CreateFormFile("featureImage", imageName)
		require.NoError(t, err)
		_, err = io.Copy(fw, bytes.NewReader(image))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func countRows(t *testing.T, db *sqlx.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.Get(&n, "SELECT COUNT(*) FROM "+table))
	return n
}

func countFiles(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return 0
	}
	require.NoError(t, err)
	return len(entries)
}
