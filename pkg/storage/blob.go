package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
)

// BlobStore uploads media and returns a URL clients can fetch it from.
type BlobStore interface {
	Upload(ctx context.Context, folder, filename string, data []byte, contentType string) (string, error)
}

// ObjectKey joins folder and filename into a clean slash-separated key.
// Path traversal segments are rejected.
func ObjectKey(folder, filename string) (string, error) {
	filename = strings.TrimSpace(filename)
	if filename == "" || strings.ContainsAny(filename, `/\`) || filename == "." || filename == ".." {
		return "", fmt.Errorf("invalid filename %q", filename)
	}
	folder = strings.Trim(strings.TrimSpace(folder), "/")
	for _, segment := range strings.Split(folder, "/") {
		if segment == ".." {
			return "", fmt.Errorf("invalid folder %q", folder)
		}
	}
	if folder == "" {
		return filename, nil
	}
	return path.Join(folder, filename), nil
}
