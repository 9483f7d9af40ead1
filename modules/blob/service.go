package blob

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrBlobNotFound is returned when no blob exists at the given path.
	ErrBlobNotFound = errors.New("blob not found")
	// ErrInvalidPath is returned for paths that escape the store root.
	ErrInvalidPath = errors.New("invalid blob path")
)

// Service provides blob management on top of a Store.
type Service struct {
	store Store
}

// NewService creates a new blob service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Store saves data under dir with a fresh unique name, keeping the original
// file extension. It returns the relative blob path, e.g. "produtos/<uuid>.png".
func (s *Service) Store(dir, filename string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("blob data is empty")
	}

	dir = path.Clean("/" + dir)[1:]
	if dir == "" || dir == "." {
		return "", ErrInvalidPath
	}

	ext := strings.ToLower(path.Ext(filename))
	blobPath := path.Join(dir, uuid.New().String()+ext)

	if err := s.store.Put(blobPath, data); err != nil {
		return "", err
	}
	return blobPath, nil
}

// Get retrieves a blob and its content type, detected from the extension with
// a sniffing fallback.
func (s *Service) Get(blobPath string) ([]byte, string, error) {
	cleaned, err := cleanPath(blobPath)
	if err != nil {
		return nil, "", err
	}

	data, err := s.store.Get(cleaned)
	if err != nil {
		return nil, "", err
	}

	contentType := mime.TypeByExtension(path.Ext(cleaned))
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return data, contentType, nil
}

// Delete removes a blob. Missing blobs are ignored.
func (s *Service) Delete(blobPath string) error {
	cleaned, err := cleanPath(blobPath)
	if err != nil {
		return err
	}
	return s.store.Delete(cleaned)
}

// Exists reports whether a blob is stored at the given path.
func (s *Service) Exists(blobPath string) bool {
	cleaned, err := cleanPath(blobPath)
	if err != nil {
		return false
	}
	return s.store.Exists(cleaned)
}

// cleanPath normalizes a relative blob path and rejects traversal attempts.
func cleanPath(p string) (string, error) {
	if p == "" || strings.HasPrefix(p, "/") {
		return "", ErrInvalidPath
	}
	cleaned := path.Clean(p)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ErrInvalidPath
	}
	return cleaned, nil
}
