package nexus

import "context"

// MockSystemInformation is a test double for SystemInformationReader.
type MockSystemInformation struct {
	ReadSystemInformationFunc func(ctx context.Context) (*Response[Info], error)
}

func (m *MockSystemInformation) ReadSystemInformation(ctx context.Context) (*Response[Info], error) {
	if m.ReadSystemInformationFunc != nil {
		return m.ReadSystemInformationFunc(ctx)
	}
	return nil, nil
}

// MockDownloader is a test double for Downloader.
type MockDownloader struct {
	DownloadFunc func(ctx context.Context, target string) (string, error)
}

func (m *MockDownloader) Download(ctx context.Context, target string) (string, error) {
	if m.DownloadFunc != nil {
		return m.DownloadFunc(ctx, target)
	}
	return "", nil
}

// MockStorageBrowser is a test double for StorageBrowser.
type MockStorageBrowser struct {
	ListRepositoriesFunc func(ctx context.Context) (*Response[[]Repository], error)
	ReadStorageFunc      func(ctx context.Context, repository, node string) (*Response[[]StorageItem], error)
}

func (m *MockStorageBrowser) ListRepositories(ctx context.Context) (*Response[[]Repository], error) {
	if m.ListRepositoriesFunc != nil {
		return m.ListRepositoriesFunc(ctx)
	}
	return &Response[[]Repository]{Success: true}, nil
}

func (m *MockStorageBrowser) ReadStorage(ctx context.Context, repository, node string) (*Response[[]StorageItem], error) {
	if m.ReadStorageFunc != nil {
		return m.ReadStorageFunc(ctx, repository, node)
	}
	return &Response[[]StorageItem]{Success: true}, nil
}
