package objectclient

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/showee/rag-api/internal/core"
)

// DirClient archives objects under a local directory. It is the default
// object store when no AWS credentials are configured; the bucket argument
// becomes a subdirectory.
type DirClient struct {
	root string
}

func NewDirClient(root string) (core.ObjectClient, error) {
	if root == "" {
		return nil, fmt.Errorf("upload dir is empty")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DirClient{root: root}, nil
}

func (c *DirClient) path(bucket, key string) string {
	return filepath.Join(c.root, bucket, filepath.FromSlash(key))
}

func (c *DirClient) UploadFile(ctx context.Context, bucket, key string, data io.Reader, contentType string) (string, error) {
	dst := c.path(bucket, key)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("create object dir: %w", err)
	}
	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create object file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, data); err != nil {
		return "", fmt.Errorf("write object file: %w", err)
	}
	return "file://" + dst, nil
}

func (c *DirClient) DeleteFile(ctx context.Context, bucket, key string) error {
	if err := os.Remove(c.path(bucket, key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete object file: %w", err)
	}
	return nil
}
