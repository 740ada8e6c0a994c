package ports

import "context"

// FileStorage defines the file-delivery contract. Extraction writes result
// files under opaque references; downloads resolve those references back to
// a readable location.
type FileStorage interface {
	// Resolve maps a stored file reference to an absolute location readable
	// by the delivery layer. A reference whose file is absent on the backend
	// fails with ErrFileMissing, distinct from an unknown download GUID.
	Resolve(ctx context.Context, ref string) (string, error)
}
