package search

import (
	"context"

	"github.com/openregistry/prodex/internal/repository/dataset"
)

// DatasetProvider yields the current immutable snapshot, loading it lazily on
// first access.
type DatasetProvider interface {
	Snapshot(ctx context.Context) (*dataset.Snapshot, error)
}
