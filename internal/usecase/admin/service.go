// Package admin implements the administrative import and reload operations.
package admin

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/openregistry/prodex/internal/domain"
	"github.com/openregistry/prodex/internal/domain/professional"
	"github.com/openregistry/prodex/internal/ingest"
	"github.com/openregistry/prodex/internal/repository/dataset"
)

// CacheControl is the slice of the dataset cache the admin operations need.
type CacheControl interface {
	Invalidate()
	Reload(ctx context.Context) (*dataset.Snapshot, error)
	LastStats() *ingest.Stats
}

// Service writes imported source files and drives cache invalidation.
type Service struct {
	dataDir string
	sources []ingest.Source
	cache   CacheControl
	logger  *zap.Logger
}

// New creates an admin service. sources is the configured load order, used to
// pick normalization options for imported files.
func New(dataDir string, sources []ingest.Source, cache CacheControl, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{dataDir: dataDir, sources: sources, cache: cache, logger: logger}
}

// ImportSource writes raw CSV content under the data directory and invalidates
// the cache so the next read picks it up. It does NOT trigger a reload itself.
// Returns the number of rows that would be accepted by normalization.
//
// If the write fails the error propagates and the cache is left intact: a
// failed write must not flush a healthy dataset for a file that never landed.
func (s *Service) ImportSource(_ context.Context, filename, content string) (int, error) {
	if err := validateFilename(filename); err != nil {
		return 0, err
	}
	if strings.TrimSpace(content) == "" {
		return 0, domain.ErrEmptyImport
	}

	if err := os.MkdirAll(s.dataDir, 0o755); err != nil {
		return 0, fmt.Errorf("create data dir: %w", err)
	}

	path := filepath.Join(s.dataDir, filename)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return 0, fmt.Errorf("write import %s: %w", filename, err)
	}

	s.cache.Invalidate()

	count := s.countAccepted(path, filename)
	s.logger.Info("source imported",
		zap.String("filename", filename),
		zap.Int("accepted_rows", count),
	)
	return count, nil
}

// Reload forces cache invalidation and immediate synchronous repopulation.
// Stats is nil when the cache was repopulated from a prebuilt snapshot.
func (s *Service) Reload(ctx context.Context) (*dataset.Snapshot, *ingest.Stats, error) {
	snap, err := s.cache.Reload(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("reload dataset: %w", err)
	}
	return snap, s.cache.LastStats(), nil
}

// countAccepted parses the written file and counts normalization-accepted
// rows. Options come from the configured source matching the filename, else
// from license-shape defaults (imports are license exports unless configured
// otherwise).
func (s *Service) countAccepted(path, filename string) int {
	src := s.sourceForFilename(filename)

	count := 0
	for _, row := range ingest.ReadFile(path) {
		if _, reason := ingest.Normalize(row, src); reason == professional.RejectNone {
			count++
		}
	}
	return count
}

func (s *Service) sourceForFilename(filename string) ingest.Source {
	for _, src := range s.sources {
		if filepath.Base(src.Path) == filename {
			return src
		}
	}
	for _, src := range s.sources {
		if src.Shape == ingest.ShapeLicense {
			return ingest.Source{
				Shape:        ingest.ShapeLicense,
				IDPrefix:     src.IDPrefix,
				DefaultState: src.DefaultState,
			}
		}
	}
	return ingest.Source{Shape: ingest.ShapeLicense, IDPrefix: "import_"}
}

// validateFilename rejects empty names and anything that escapes the data
// directory.
func validateFilename(filename string) error {
	if filename == "" {
		return domain.ErrInvalidFilename
	}
	if filename != filepath.Base(filename) || strings.HasPrefix(filename, ".") {
		return fmt.Errorf("%w: %q", domain.ErrInvalidFilename, filename)
	}
	return nil
}
