package r2

import "context"

// MockObjectStorage - мок для тестирования (экспортируемый для использования в других пакетах)
type MockObjectStorage struct {
	ListKeysFunc     func(ctx context.Context, prefix string) ([]string, error)
	ListFoldersFunc  func(ctx context.Context, prefix string) ([]string, error)
	ObjectExistsFunc func(ctx context.Context, key string) (bool, error)
	UploadFunc       func(ctx context.Context, key string, body []byte, contentType string) error
}

func (m *MockObjectStorage) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	if m.ListKeysFunc != nil {
		return m.ListKeysFunc(ctx, prefix)
	}
	return nil, nil
}

func (m *MockObjectStorage) ListFolders(ctx context.Context, prefix string) ([]string, error) {
	if m.ListFoldersFunc != nil {
		return m.ListFoldersFunc(ctx, prefix)
	}
	return nil, nil
}

func (m *MockObjectStorage) ObjectExists(ctx context.Context, key string) (bool, error) {
	if m.ObjectExistsFunc != nil {
		return m.ObjectExistsFunc(ctx, key)
	}
	return false, nil
}

func (m *MockObjectStorage) Upload(ctx context.Context, key string, body []byte, contentType string) error {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, key, body, contentType)
	}
	return nil
}
