package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"go-blog-app/internal/logger"
	"go-blog-app/internal/middleware"
	"go-blog-app/internal/session"
)

// Handlers bundles the route handlers mounted by NewRouter.
type Handlers struct {
	Posts      *PostHandler
	Comments   *CommentHandler
	Categories *CategoryHandler
	Auth       *AuthHandler
	Seo        *SeoHandler
	// Images serves stored feature images under ImagePrefix.
	Images      http.Handler
	ImagePrefix string
}

// NewImageHandler serves the files of dir under prefix.
func NewImageHandler(prefix, dir string) http.Handler {
	return http.StripPrefix("/"+strings.Trim(prefix, "/")+"/", http.FileServer(http.Dir(dir)))
}

// NewRouter creates and configures a new chi router.
func NewRouter(h Handlers, sm session.Manager, authzMiddleware func(http.Handler) http.Handler, log logger.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(sm.LoadAndSave)

	wrap := middleware.Error(log)

	r.Group(func(r chi.Router) {
		r.Use(authzMiddleware)

		r.Method(http.MethodGet, "/posts", wrap(h.Posts.listHandler))
		r.Method(http.MethodPost, "/posts", wrap(h.Posts.createHandler))
		r.Method(http.MethodGet, "/posts/{id}", wrap(h.Posts.viewHandler))
		r.Method(http.MethodPut, "/posts/{id}", wrap(h.Posts.editHandler))
		r.Method(http.MethodDelete, "/posts/{id}", wrap(h.Posts.deleteHandler))
		r.Method(http.MethodPost, "/posts/{id}/comments", wrap(h.Comments.createHandler))

		r.Method(http.MethodGet, "/categories", wrap(h.Categories.listHandler))
		r.Method(http.MethodPost, "/categories", wrap(h.Categories.createHandler))
		r.Method(http.MethodDelete, "/categories/{id}", wrap(h.Categories.deleteHandler))

		r.Method(http.MethodGet, "/auth/login", wrap(h.Auth.handleLogin))
		r.Method(http.MethodGet, "/auth/callback", wrap(h.Auth.handleCallback))
		r.Method(http.MethodGet, "/auth/logout", wrap(h.Auth.handleLogout))

		r.Method(http.MethodGet, "/sitemap.xml", wrap(h.Seo.sitemapHandler))
		r.Method(http.MethodGet, "/robots.txt", wrap(h.Seo.robotsHandler))

		if h.Images != nil {
			r.Handle("/"+strings.Trim(h.ImagePrefix, "/")+"/*", h.Images)
		}
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/posts", http.StatusFound)
	})

	return r
}
