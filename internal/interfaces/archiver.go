package interfaces

import "context"

// Archiver copies exported documents to long-term object storage.
type Archiver interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (location string, err error)
}
