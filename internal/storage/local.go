// Package storage saves uploaded product images on the local filesystem and
// serves their public URLs.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const ImageDir = "product_images"

var allowedExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

var ErrUnsupportedType = errors.New("unsupported image type")

type LocalStorage struct {
	root    string
	baseURL string
}

func NewLocalStorage(root, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(filepath.Join(root, ImageDir), 0o755); err != nil {
		return nil, fmt.Errorf("could not create media directory: %w", err)
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &LocalStorage{root: root, baseURL: baseURL}, nil
}

// Save writes r under a fresh name that keeps the original extension and
// returns the path relative to the media root.
func (s *LocalStorage) Save(filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, ext)
	}

	name := path.Join(ImageDir, uuid.NewString()+ext)
	f, err := os.Create(filepath.Join(s.root, filepath.FromSlash(name)))
	if err != nil {
		return "", fmt.Errorf("could not create image file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("could not write image file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("could not close image file: %w", err)
	}
	return name, nil
}

// Remove deletes a stored file. A file that is already gone is not an error.
func (s *LocalStorage) Remove(name string) error {
	if name == "" {
		return nil
	}
	full := filepath.Join(s.root, filepath.FromSlash(path.Clean("/"+name)))
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("could not remove image file: %w", err)
	}
	return nil
}

func (s *LocalStorage) URL(name string) string {
	if name == "" {
		return ""
	}
	return s.baseURL + name
}

func (s *LocalStorage) Root() string {
	return s.root
}
