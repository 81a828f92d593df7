package asset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FSStore writes images into a directory below a public-serving root.
type FSStore struct {
	dir       string
	urlPrefix string
}

// FSConfig options for the filesystem store.
type FSConfig struct {
	PublicRoot string // Directory served as static files
	ImageDir   string // Sub directory of PublicRoot holding the images
	URLPrefix  string // Public URL prefix the image dir is served under
}

// NewFSStore creates a filesystem store. The image directory is created on
// first write, not here.
func NewFSStore(cfg FSConfig) (*FSStore, error) {
	if cfg.PublicRoot == "" {
		return nil, errors.New("public root is required")
	}
	if cfg.ImageDir == "" {
		cfg.ImageDir = "images"
	}
	if cfg.URLPrefix == "" {
		cfg.URLPrefix = "/" + filepath.ToSlash(cfg.ImageDir)
	}
	return &FSStore{
		dir:       filepath.Join(cfg.PublicRoot, cfg.ImageDir),
		urlPrefix: cfg.URLPrefix,
	}, nil
}

// Dir returns the directory images are written to.
func (s *FSStore) Dir() string {
	return s.dir
}

// Save copies r into a new uniquely named file and returns its reference path.
func (s *FSStore) Save(ctx context.Context, r io.Reader, originalName string) (string, error) {
	name := generateName(originalName)

	if err := ctx.Err(); err != nil {
		return "", &WriteError{Name: originalName, Err: err}
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", &WriteError{Name: originalName, Err: fmt.Errorf("failed to create image directory: %w", err)}
	}

	filePath := filepath.Join(s.dir, name)
	file, err := os.OpenFile(filePath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", &WriteError{Name: originalName, Err: fmt.Errorf("failed to create file: %w", err)}
	}

	_, copyErr := io.Copy(file, r)
	closeErr := file.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		// Never leave a truncated file behind a path nobody will get.
		_ = os.Remove(filePath)
		return "", &WriteError{Name: originalName, Err: fmt.Errorf("failed to write file: %w", err)}
	}

	return referencePath(s.urlPrefix, name), nil
}

// Delete removes the file behind assetPath if it exists.
func (s *FSStore) Delete(ctx context.Context, assetPath string) error {
	name := fileName(assetPath)
	if name == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return &DeleteError{Path: assetPath, Err: err}
	}
	return nil
}

// Exists reports whether the file behind assetPath is on disk.
func (s *FSStore) Exists(ctx context.Context, assetPath string) (bool, error) {
	name := fileName(assetPath)
	if name == "" {
		return false, nil
	}
	info, err := os.Stat(filepath.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("failed to stat asset: %w", err)
	}
	return !info.IsDir(), nil
}
