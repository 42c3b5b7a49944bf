package storage

import "io"

// Storage persists profile avatar images outside the database. The
// database only carries the opaque key.
type Storage interface {
	// Save writes the blob under key, replacing any previous content.
	Save(key string, r io.Reader) error

	// Open returns a reader for the blob. The caller must close it.
	// A missing key surfaces as an os.IsNotExist error.
	Open(key string) (io.ReadCloser, error)

	// Delete removes the blob. Deleting a missing key is not an error.
	Delete(key string) error
}
