package blob

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// BlobPort defines the interface other modules use to reach blob storage.
type BlobPort interface {
	Store(ctx context.Context, dir, filename string, data []byte) (string, error)
	Get(ctx context.Context, path string) (data []byte, contentType string, err error)
	Delete(ctx context.Context, path string) error
}

// blobAdapter wraps ServiceContainer for type-safe cross-module communication.
type blobAdapter struct {
	container mono.ServiceContainer
}

// NewBlobAdapter creates a new adapter for blob services.
func NewBlobAdapter(container mono.ServiceContainer) BlobPort {
	if container == nil {
		panic("blob adapter requires non-nil ServiceContainer")
	}
	return &blobAdapter{container: container}
}

// Store saves a blob via the store service and returns its path.
func (a *blobAdapter) Store(ctx context.Context, dir, filename string, data []byte) (string, error) {
	req := StoreRequest{Dir: dir, Filename: filename, Data: data}
	var resp StoreResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "store", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return "", fmt.Errorf("store service call failed: %w", err)
	}
	return resp.Path, nil
}

// Get retrieves a blob via the get service.
func (a *blobAdapter) Get(ctx context.Context, path string) ([]byte, string, error) {
	req := GetRequest{Path: path}
	var resp GetResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "get", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, "", fmt.Errorf("get service call failed: %w", err)
	}
	if resp.NotFound {
		return nil, "", ErrBlobNotFound
	}
	return resp.Data, resp.ContentType, nil
}

// Delete removes a blob via the delete service.
func (a *blobAdapter) Delete(ctx context.Context, path string) error {
	req := DeleteRequest{Path: path}
	var resp DeleteResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "delete", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return fmt.Errorf("delete service call failed: %w", err)
	}
	return nil
}
