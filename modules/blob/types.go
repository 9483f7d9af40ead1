package blob

// StoreRequest represents a store-blob request.
type StoreRequest struct {
	Dir      string `json:"dir"`
	Filename string `json:"filename"`
	Data     []byte `json:"data"`
}

// StoreResponse represents a store-blob response.
type StoreResponse struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// GetRequest represents a get-blob request.
type GetRequest struct {
	Path string `json:"path"`
}

// GetResponse represents a get-blob response.
type GetResponse struct {
	Path        string `json:"path"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
	NotFound    bool   `json:"not_found,omitempty"`
}

// DeleteRequest represents a delete-blob request.
type DeleteRequest struct {
	Path string `json:"path"`
}

// DeleteResponse represents a delete-blob response.
type DeleteResponse struct {
	Deleted bool   `json:"deleted"`
	Path    string `json:"path"`
}
