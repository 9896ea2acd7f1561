// Package dataset owns the loaded professional collection and its derived
// indices. The cache is the single point of invalidation: a load always builds
// a fresh immutable snapshot and swaps it in atomically, so concurrent reads
// never observe a half-built collection.
package dataset

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/openregistry/prodex/internal/domain/professional"
	"github.com/openregistry/prodex/internal/ingest"
	"github.com/openregistry/prodex/internal/metrics"
)

// State is the cache lifecycle state.
type State string

const (
	// StateEmpty means no snapshot is resident; the next read triggers a load.
	StateEmpty State = "empty"
	// StateLoaded means an immutable snapshot is being served.
	StateLoaded State = "loaded"
)

// Snapshot is one frozen load: the ordered record list plus point-lookup
// indices. Never mutated after construction.
type Snapshot struct {
	Records    []*professional.Professional
	ByID       map[string]*professional.Professional
	BySlug     map[string]*professional.Professional
	ByCategory map[professional.Category]int
	LoadedAt   time.Time
}

// NewSnapshot freezes records into a snapshot and builds the indices.
func NewSnapshot(records []*professional.Professional, loadedAt time.Time) *Snapshot {
	s := &Snapshot{
		Records:    records,
		ByID:       make(map[string]*professional.Professional, len(records)),
		BySlug:     make(map[string]*professional.Professional, len(records)),
		ByCategory: make(map[professional.Category]int),
		LoadedAt:   loadedAt,
	}
	for _, p := range records {
		s.ByID[p.ID] = p
		s.BySlug[p.Slug] = p
		s.ByCategory[p.Category]++
	}
	return s
}

// Loader runs the full source ingestion pipeline.
type Loader interface {
	Load(ctx context.Context) (*ingest.Result, error)
}

// Cache holds the current snapshot. Population is lazy (first read) and
// single-flight; invalidation drops the snapshot so the next read rebuilds.
// Two strategies populate it, in order: a prebuilt snapshot file if one is
// present and non-empty, else the ingestion pipeline.
type Cache struct {
	loader       Loader
	snapshotPath string
	logger       *zap.Logger

	mu   sync.Mutex // serializes loads; reads never take it
	cur  atomic.Pointer[Snapshot]
	last atomic.Pointer[ingest.Stats]
}

// New creates a cache. snapshotPath may be empty to always use the pipeline.
func New(loader Loader, snapshotPath string, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{loader: loader, snapshotPath: snapshotPath, logger: logger}
}

// Snapshot returns the current snapshot, loading it first if the cache is
// empty. Loading blocks the caller (multiple file reads); concurrent callers
// wait for the single in-flight load.
func (c *Cache) Snapshot(ctx context.Context) (*Snapshot, error) {
	if s := c.cur.Load(); s != nil {
		return s, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Re-check: another caller may have finished the load while we waited.
	if s := c.cur.Load(); s != nil {
		return s, nil
	}

	s, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	c.cur.Store(s)
	return s, nil
}

// Current returns the resident snapshot without triggering a load, or nil.
func (c *Cache) Current() *Snapshot {
	return c.cur.Load()
}

// State reports the cache lifecycle state.
func (c *Cache) State() State {
	if c.cur.Load() == nil {
		return StateEmpty
	}
	return StateLoaded
}

// LastStats returns the stats of the most recent pipeline load, or nil if the
// cache was populated from a prebuilt snapshot (or never loaded).
func (c *Cache) LastStats() *ingest.Stats {
	return c.last.Load()
}

// Invalidate drops the current snapshot. In-flight reads keep their snapshot
// reference; the next read rebuilds.
func (c *Cache) Invalidate() {
	c.cur.Store(nil)
	c.last.Store(nil)
}

// Reload forces invalidation and immediate synchronous repopulation.
func (c *Cache) Reload(ctx context.Context) (*Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	c.cur.Store(s)
	return s, nil
}

// load builds a fresh snapshot. Caller must hold mu.
func (c *Cache) load(ctx context.Context) (*Snapshot, error) {
	c.last.Store(nil)

	// Strategy (a): prebuilt snapshot file.
	records, ok, err := ingest.ReadSnapshot(c.snapshotPath)
	if err != nil {
		c.logger.Warn("prebuilt snapshot unreadable, falling back to ingestion", zap.Error(err))
	}
	if ok {
		s := NewSnapshot(records, time.Now().UTC())
		c.observe(s, "snapshot")
		c.logger.Info("dataset populated from prebuilt snapshot",
			zap.Int("records", len(records)),
		)
		return s, nil
	}

	// Strategy (b): full source-file ingestion. Zero records is a valid,
	// normal result ("no data"), not an error.
	res, err := c.loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	c.last.Store(&res.Stats)

	s := NewSnapshot(res.Professionals, time.Now().UTC())
	c.observe(s, "ingest")
	return s, nil
}

func (c *Cache) observe(s *Snapshot, strategy string) {
	metrics.DatasetLoadsTotal.WithLabelValues(strategy).Inc()
	metrics.DatasetLastLoad.Set(float64(s.LoadedAt.Unix()))
	metrics.DatasetRecords.Reset()
	for cat, n := range s.ByCategory {
		metrics.DatasetRecords.WithLabelValues(string(cat)).Set(float64(n))
	}
}
