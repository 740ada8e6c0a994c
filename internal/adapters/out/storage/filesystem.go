// Package storage provides the file-delivery adapter over a local or mounted
// filesystem. The extraction backend drops result archives under the storage
// root; downloads resolve stored references back to absolute paths.
package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"geoshop/internal/pkg/errs"
)

// FilesystemStorage implements ports.FileStorage over a directory tree.
// References are paths relative to the root, as recorded by the extraction
// callback.
type FilesystemStorage struct {
	root string
}

// NewFilesystemStorage creates a storage adapter rooted at the given
// directory.
func NewFilesystemStorage(root string) (*FilesystemStorage, error) {
	if root == "" {
		return nil, errs.NewValueIsRequiredError("storage root")
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("storage root", err)
	}

	return &FilesystemStorage{root: abs}, nil
}

// Resolve maps a stored file reference to an absolute path under the root.
// References escaping the root are rejected; a reference whose file is gone
// is a FileMissingError so the caller can distinguish it from an unknown
// download GUID.
func (s *FilesystemStorage) Resolve(_ context.Context, ref string) (string, error) {
	if ref == "" {
		return "", errs.NewValueIsRequiredError("file reference")
	}

	path := filepath.Join(s.root, filepath.Clean("/"+ref))
	if !strings.HasPrefix(path, s.root+string(os.PathSeparator)) {
		return "", errs.NewValueIsInvalidError("file reference")
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errs.NewFileMissingError(ref)
		}
		return "", err
	}
	if info.IsDir() {
		return "", errs.NewFileMissingError(ref)
	}

	return path, nil
}
