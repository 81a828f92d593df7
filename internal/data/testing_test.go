package data

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// setupTestDB creates a new in-memory SQLite database with the real schema applied.
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := sqlx.Connect("sqlite", "file::memory:")
	require.NoError(t, err, "failed to connect to sqlite test database")
	// A single connection keeps the in-memory database alive and shared.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	db.MustExec("PRAGMA foreign_keys = ON")
	schema, err := os.ReadFile(filepath.Join("..", "..", "migrations", "sqlite", "000001_initial_schema.up.sql"))
	require.NoError(t, err)
	db.MustExec(string(schema))

	return db
}

func seedCategory(t *testing.T, db *sqlx.DB, name string) int64 {
	t.Helper()
	id, err := NewCategoryRepository(db).Save(context.Background(), &Category{Name: name})
	require.NoError(t, err)
	return id
}

func seedPost(t *testing.T, db *sqlx.DB, categoryID int64, title string, published time.Time) *Post {
	t.Helper()
	post := &Post{
		Title:            title,
		Content:          "content of " + title,
		Author:           "Ann",
		FeatureImagePath: "/images/" + title + ".png",
		PublishedDate:    published,
		CategoryID:       categoryID,
	}
	require.NoError(t, NewSQLPostRepository(db).CreatePost(context.Background(), post))
	return post
}
