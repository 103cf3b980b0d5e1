package store

import (
	"fmt"

	"github.com/yourname/sleepdash/internal"
)

// New picks the storage backend. "file" is the default, "postgres"
// requires a DSN.
func New(backend, dsn string, paths FilePaths, logger internal.Logger) (Store, error) {
	switch backend {
	case "file", "":
		return NewFileStore(paths, logger)
	case "postgres":
		return NewPostgresStore(dsn, logger)
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", backend)
	}
}
