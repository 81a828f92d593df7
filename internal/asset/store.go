// Package asset stores post feature images outside the relational store.
package asset

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store persists image files and hands back the public path they are served under.
type Store interface {
	// Save writes the content under a freshly generated name that keeps the
	// extension of originalName, and returns the public reference path.
	Save(ctx context.Context, r io.Reader, originalName string) (string, error)

	// Delete removes the file behind a reference path. Deleting a path whose
	// file is already gone is not an error.
	Delete(ctx context.Context, assetPath string) error

	// Exists reports whether the file behind a reference path is present.
	Exists(ctx context.Context, assetPath string) (bool, error)
}

// WriteError is returned when an asset could not be written.
type WriteError struct {
	Name string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("asset write failed for %s: %v", e.Name, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// DeleteError is returned when an existing asset could not be removed.
type DeleteError struct {
	Path string
	Err  error
}

func (e *DeleteError) Error() string {
	return fmt.Sprintf("asset delete failed for %s: %v", e.Path, e.Err)
}

func (e *DeleteError) Unwrap() error {
	return e.Err
}

// generateName returns a collision-resistant file name carrying the extension of original.
func generateName(original string) string {
	return uuid.NewString() + filepath.Ext(original)
}

// referencePath joins the URL prefix and a generated file name.
func referencePath(prefix, name string) string {
	return path.Join("/", strings.Trim(prefix, "/"), name)
}

// fileName extracts the bare file name from a reference path. Only the last
// element is kept so a stored path can never address a file outside the image dir.
func fileName(assetPath string) string {
	name := path.Base(strings.ReplaceAll(assetPath, "\\", "/"))
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return name
}
