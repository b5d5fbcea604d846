package nexus

import "context"

// Repository is a hosted, proxy or group repository.
type Repository struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Format string `json:"format"`
}

// StorageItem is one node of a repository's storage tree.
type StorageItem struct {
	ID           string `json:"id"`
	Text         string `json:"text"`
	Leaf         bool   `json:"leaf"`
	Type         string `json:"type"`
	Size         int64  `json:"size"`
	LastModified int64  `json:"lastModified"`
}

// StorageBrowser lists repositories and walks their storage trees.
type StorageBrowser interface {
	ListRepositories(ctx context.Context) (*Response[[]Repository], error)
	ReadStorage(ctx context.Context, repository, node string) (*Response[[]StorageItem], error)
}

// ListRepositories calls coreui_Repository.read.
func (c *Client) ListRepositories(ctx context.Context) (*Response[[]Repository], error) {
	return call[[]Repository](ctx, c, "coreui_Repository", "read")
}

// ReadStorage calls coreui_RepositoryStorage.read for the children of node.
// The root of a repository is node "/".
func (c *Client) ReadStorage(ctx context.Context, repository, node string) (*Response[[]StorageItem], error) {
	return call[[]StorageItem](ctx, c, "coreui_RepositoryStorage", "read", repository, node)
}
