// Package catalog provides point lookup and aggregate statistics over the
// loaded professional dataset.
package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/openregistry/prodex/internal/domain"
	"github.com/openregistry/prodex/internal/domain/professional"
	"github.com/openregistry/prodex/internal/repository/dataset"
)

// DatasetProvider yields the current immutable snapshot, loading it lazily on
// first access.
type DatasetProvider interface {
	Snapshot(ctx context.Context) (*dataset.Snapshot, error)
}

// Stats is the aggregate view of the loaded dataset.
type Stats struct {
	Total      int
	ByCategory map[string]int
	LastLoaded *time.Time
}

// Service answers point lookups and stats queries.
type Service struct {
	data DatasetProvider
}

// New creates a catalog service.
func New(data DatasetProvider) *Service {
	return &Service{data: data}
}

// GetByID returns the professional with the given natural id.
// A miss is domain.ErrNotFound, never a panic or a nil record.
func (s *Service) GetByID(ctx context.Context, id string) (*professional.Professional, error) {
	snap, err := s.data.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}

	p, ok := snap.ByID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// GetBySlug returns the professional with the given slug.
func (s *Service) GetBySlug(ctx context.Context, slug string) (*professional.Professional, error) {
	snap, err := s.data.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}

	p, ok := snap.BySlug[slug]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// Stats returns total and per-category counts plus the last load time.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	snap, err := s.data.Snapshot(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("get snapshot: %w", err)
	}

	byCategory := make(map[string]int, len(snap.ByCategory))
	for cat, n := range snap.ByCategory {
		byCategory[string(cat)] = n
	}

	stats := Stats{Total: len(snap.Records), ByCategory: byCategory}
	if !snap.LoadedAt.IsZero() {
		t := snap.LoadedAt
		stats.LastLoaded = &t
	}
	return stats, nil
}
