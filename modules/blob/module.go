package blob

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// BlobModule provides image blob storage on the local public disk.
type BlobModule struct {
	store   *DiskStore
	service *Service
	root    string
}

// Compile-time interface checks.
var _ mono.Module = (*BlobModule)(nil)
var _ mono.ServiceProviderModule = (*BlobModule)(nil)
var _ mono.HealthCheckableModule = (*BlobModule)(nil)

// NewModule creates a new BlobModule.
func NewModule() *BlobModule {
	root := os.Getenv("BLOB_DIR")
	if root == "" {
		root = "storage"
	}
	return &BlobModule{
		root: root,
	}
}

// Name returns the module name.
func (m *BlobModule) Name() string {
	return "blob"
}

// Start initializes the disk store.
func (m *BlobModule) Start(_ context.Context) error {
	if err := os.MkdirAll(m.root, 0o755); err != nil {
		return fmt.Errorf("failed to create blob root: %w", err)
	}

	m.store = NewDiskStore(m.root)
	m.service = NewService(m.store)

	log.Printf("[blob] Module started (root: %s)", m.root)
	return nil
}

// Stop shuts down the module.
func (m *BlobModule) Stop(_ context.Context) error {
	log.Println("[blob] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *BlobModule) Health(_ context.Context) mono.HealthStatus {
	info, err := os.Stat(m.root)
	healthy := err == nil && info.IsDir()
	message := "operational"
	if !healthy {
		message = "blob root unavailable"
	}
	return mono.HealthStatus{
		Healthy: healthy,
		Message: message,
		Details: map[string]any{
			"root": m.root,
		},
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *BlobModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "store", json.Unmarshal, json.Marshal, m.storeBlob,
	); err != nil {
		return fmt.Errorf("failed to register store service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "get", json.Unmarshal, json.Marshal, m.getBlob,
	); err != nil {
		return fmt.Errorf("failed to register get service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "delete", json.Unmarshal, json.Marshal, m.deleteBlob,
	); err != nil {
		return fmt.Errorf("failed to register delete service: %w", err)
	}

	log.Printf("[blob] Registered services: store, get, delete")
	return nil
}

// storeBlob handles the store service request.
func (m *BlobModule) storeBlob(_ context.Context, req StoreRequest, _ *mono.Msg) (StoreResponse, error) {
	path, err := m.service.Store(req.Dir, req.Filename, req.Data)
	if err != nil {
		return StoreResponse{}, err
	}
	return StoreResponse{
		Path: path,
		Size: int64(len(req.Data)),
	}, nil
}

// getBlob handles the get service request. Missing blobs are reported in the
// response so the caller can distinguish them from transport failures.
func (m *BlobModule) getBlob(_ context.Context, req GetRequest, _ *mono.Msg) (GetResponse, error) {
	data, contentType, err := m.service.Get(req.Path)
	if err != nil {
		if errors.Is(err, ErrBlobNotFound) || errors.Is(err, ErrInvalidPath) {
			return GetResponse{Path: req.Path, NotFound: true}, nil
		}
		return GetResponse{}, err
	}
	return GetResponse{
		Path:        req.Path,
		ContentType: contentType,
		Data:        data,
	}, nil
}

// deleteBlob handles the delete service request.
func (m *BlobModule) deleteBlob(_ context.Context, req DeleteRequest, _ *mono.Msg) (DeleteResponse, error) {
	if err := m.service.Delete(req.Path); err != nil {
		return DeleteResponse{Deleted: false, Path: req.Path}, err
	}
	return DeleteResponse{Deleted: true, Path: req.Path}, nil
}
