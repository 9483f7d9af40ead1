package blob

import (
	"strings"
	"testing"
)

// setupService creates a blob service backed by a temp directory.
func setupService(t *testing.T) *Service {
	t.Helper()
	return NewService(NewDiskStore(t.TempDir()))
}

func TestService_StoreAndGet(t *testing.T) {
	svc := setupService(t)

	path, err := svc.Store("produtos", "bolo.png", []byte("png-bytes"))
	if err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	if !strings.HasPrefix(path, "produtos/") {
		t.Errorf("expected product-scoped path, got %q", path)
	}
	if !strings.HasSuffix(path, ".png") {
		t.Errorf("expected .png extension preserved, got %q", path)
	}

	data, contentType, err := svc.Get(path)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(data) != "png-bytes" {
		t.Errorf("expected stored bytes back, got %q", data)
	}
	if contentType != "image/png" {
		t.Errorf("expected image/png, got %q", contentType)
	}
}

func TestService_StoreGeneratesUniquePaths(t *testing.T) {
	svc := setupService(t)

	first, err := svc.Store("produtos", "a.jpg", []byte("one"))
	if err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	second, err := svc.Store("produtos", "a.jpg", []byte("two"))
	if err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	if first == second {
		t.Errorf("expected unique paths for same filename, got %q twice", first)
	}
}

func TestService_DeleteIsIdempotent(t *testing.T) {
	svc := setupService(t)

	path, err := svc.Store("produtos", "doce.gif", []byte("gif"))
	if err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	if err := svc.Delete(path); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if svc.Exists(path) {
		t.Error("blob still exists after delete")
	}

	// Second delete of the same path must not fail.
	if err := svc.Delete(path); err != nil {
		t.Errorf("repeated Delete() error = %v", err)
	}

	if _, _, err := svc.Get(path); err != ErrBlobNotFound {
		t.Errorf("expected ErrBlobNotFound after delete, got %v", err)
	}
}

func TestService_RejectsTraversal(t *testing.T) {
	svc := setupService(t)

	tests := []struct {
		name string
		path string
	}{
		{name: "parent escape", path: "../etc/passwd"},
		{name: "nested escape", path: "produtos/../../secret"},
		{name: "absolute", path: "/etc/passwd"},
		{name: "empty", path: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := svc.Get(tt.path); err != ErrInvalidPath {
				t.Errorf("Get(%q) error = %v, want ErrInvalidPath", tt.path, err)
			}
			if err := svc.Delete(tt.path); err != ErrInvalidPath {
				t.Errorf("Delete(%q) error = %v, want ErrInvalidPath", tt.path, err)
			}
			if svc.Exists(tt.path) {
				t.Errorf("Exists(%q) = true, want false", tt.path)
			}
		})
	}
}

func TestService_StoreRejectsEmptyData(t *testing.T) {
	svc := setupService(t)

	if _, err := svc.Store("produtos", "empty.png", nil); err == nil {
		t.Error("expected error for empty data")
	}
}
