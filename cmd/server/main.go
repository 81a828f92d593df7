package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alexedwards/scs/mysqlstore"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"go-blog-app/internal/asset"
	"go-blog-app/internal/auth"
	"go-blog-app/internal/config"
	"go-blog-app/internal/data"
	"go-blog-app/internal/handler"
	"go-blog-app/internal/logger"
	"go-blog-app/internal/middleware"
	"go-blog-app/internal/service"
	"go-blog-app/internal/validation"
)

func main() {
	// --- Configuration Loading ---
	cfg, err := config.LoadConfig()
	if err != nil {
		// Use fmt.Printf here because the logger is not yet initialized.
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// --- Logger Initialization ---
	log := logger.New(cfg.Log, nil)

	// --- Pre-flight Checks ---
	if cfg.OIDC.IssuerURL != "" && cfg.Session.SecretKey == "" {
		log.Fatal(errors.New("session secret key not set"), "Please set BLOG_SESSION_SECRETKEY when login is enabled.")
	}

	// --- Database Initialization and Migration ---
	log.Info("Applying database migrations...")
	if err := data.ApplyMigrations(cfg.DB); err != nil {
		log.Fatal(err, "Failed to apply migrations")
	}
	log.Info("Migrations applied successfully.")

	log.Info("Connecting to the database...")
	db, err := data.NewDB(cfg.DB)
	if err != nil {
		log.Fatal(err, "Failed to connect to database")
	}
	defer db.Close()
	log.Info("Database connection successful.")

	// --- Session Management Setup ---
	sessionManager := scs.New()
	if strings.HasPrefix(cfg.DB.Driver, "sqlite") {
		sessionManager.Store = sqlite3store.New(db.DB)
	} else {
		sessionManager.Store = mysqlstore.New(db.DB)
	}
	sessionManager.Lifetime = time.Duration(cfg.Session.Lifetime) * time.Hour
	sessionManager.Cookie.Persist = true
	sessionManager.Cookie.SameSite = http.SameSiteLaxMode
	sessionManager.Cookie.Secure = cfg.Server.TLS.Enabled

	// --- Authentication and Authorization Setup ---
	log.Info("Initializing authentication and authorization...")
	var authenticator handler.Authenticator
	if cfg.OIDC.IssuerURL != "" {
		a, err := auth.NewAuthenticator(context.Background(), cfg.OIDC)
		if err != nil {
			log.Fatal(err, "Failed to initialize authenticator")
		}
		authenticator = a
	} else {
		log.Warn("OIDC issuer not configured; login is disabled")
	}
	enforcer, err := auth.NewEnforcer(cfg.DB.Driver, cfg.DB.DSN)
	if err != nil {
		log.Fatal(err, "Failed to initialize enforcer")
	}
	auth.SeedDefaultPolicies(enforcer, cfg.Auth.Admins, log)
	log.Info("Auth components initialized and policies seeded.")

	// --- Asset Store ---
	store, err := asset.NewFSStore(asset.FSConfig{
		PublicRoot: cfg.Assets.PublicRoot,
		ImageDir:   cfg.Assets.ImageDir,
		URLPrefix:  cfg.Assets.URLPrefix,
	})
	if err != nil {
		log.Fatal(err, "Failed to initialize asset store")
	}

	// --- Dependency Injection and Handler Initialization ---
	postRepository := data.NewSQLPostRepository(db)
	commentRepository := data.NewSQLCommentRepository(db)
	categoryRepository := data.NewCategoryRepository(db)
	policy := validation.NewPolicy(cfg.Assets.AllowedExtensions)
	roles := auth.NewRoleChecker(enforcer)

	postService := service.NewPostService(postRepository, categoryRepository, commentRepository, store, policy, roles, log)
	commentService := service.NewCommentService(postRepository, commentRepository, policy, roles, log)
	categoryService := service.NewCategoryService(categoryRepository, policy, roles, log)

	handlers := handler.Handlers{
		Posts:       handler.NewPostHandler(postService, log),
		Comments:    handler.NewCommentHandler(commentService),
		Categories:  handler.NewCategoryHandler(categoryService),
		Auth:        handler.NewAuthHandler(authenticator, sessionManager, enforcer, log),
		Seo:         handler.NewSeoHandler(postService, cfg.Server.BaseURL),
		Images:      handler.NewImageHandler(cfg.Assets.URLPrefix, store.Dir()),
		ImagePrefix: cfg.Assets.URLPrefix,
	}
	authzMiddleware := middleware.Authorizer(enforcer, sessionManager)

	// --- Router Setup ---
	router := handler.NewRouter(handlers, sessionManager, authzMiddleware, log)

	// --- Server Initialization and Graceful Shutdown ---
	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if cfg.Server.TLS.Enabled {
			log.Info(fmt.Sprintf("Starting HTTPS server on %s", server.Addr))
			if err := server.ListenAndServeTLS(cfg.Server.TLS.CertFile, cfg.Server.TLS.KeyFile); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal(err, "Could not start HTTPS server")
			}
		} else {
			log.Info(fmt.Sprintf("Starting HTTP server on %s", server.Addr))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal(err, "Could not start HTTP server")
			}
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Warn("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal(err, "Server forced to shutdown")
	}
	log.Info("Server exiting")
}
